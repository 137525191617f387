// Package user defines the user module routes and wiring.
package user

import (
	"context"
	"fmt"

	"github.com/ncobase/socialhub/core/user/data/repository"
	"github.com/ncobase/socialhub/core/user/handler"
	"github.com/ncobase/socialhub/core/user/service"
	"github.com/ncobase/socialhub/internal/module"
	"github.com/ncobase/socialhub/logging/logger"

	"github.com/gin-gonic/gin"
)

// Cross service keys published by this module.
const (
	ServiceKey    = "user.Service"
	RepositoryKey = "user.Repository"
)

type Module struct {
	service *service.Service
	handler *handler.Handler
	repo    repository.UserRepository
	logger  *logger.Logger
	auth    gin.HandlerFunc
	app     *module.App
}

func New() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "user"
}

func (m *Module) Dependencies() []string {
	return []string{}
}

func (m *Module) Init(app *module.App) error {
	m.logger = app.Logger
	m.app = app

	repo, err := repository.NewUserRepository(app.Data, app.Relations, m.logger)
	if err != nil {
		return err
	}

	var opts []service.Option
	if app.Config != nil && app.Config.Auth != nil {
		opts = append(opts, service.WithBcryptCost(app.Config.Auth.BcryptCost))
	}

	m.repo = repo
	m.service = service.New(m.logger, app.Data, repo, app.Relations, app.Media, app.Publisher, opts...)
	m.handler = handler.New(m.service)

	app.RegisterCrossService(ServiceKey, m.service)
	app.RegisterCrossService(RepositoryKey, m.repo)

	m.logger.Info(context.Background(), "User module initialized", "module", m.Name())
	return nil
}

// RegisterRoutes mounts /users. The listing is public; the rest needs a
// token. The auth middleware is resolved here because the auth module is
// initialized after this one.
func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	auth, err := module.Lookup[gin.HandlerFunc](m.app, module.AuthenticateKey)
	if err != nil {
		panic(fmt.Sprintf("user module: %v", err))
	}

	users := r.Group("/users")
	{
		users.GET("", m.handler.HandleList)
		users.GET("/user-private/:id", auth, m.handler.HandlePrivateProfile)
		users.GET("/user-public/:id", auth, m.handler.HandlePublicProfile)
		users.GET("/bookmarks", auth, m.handler.HandleBookmarks)
		users.PUT("", auth, m.handler.HandleUpdate)
		users.DELETE("", auth, m.handler.HandleDelete)
		users.POST("/follow/:id", auth, m.handler.HandleFollow)
	}
}

func (m *Module) Service() *service.Service {
	return m.service
}
