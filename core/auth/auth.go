// Package auth provides the signup, login and token authentication module.
package auth

import (
	"context"

	"github.com/ncobase/socialhub/core/auth/handler"
	"github.com/ncobase/socialhub/core/auth/middleware"
	"github.com/ncobase/socialhub/core/auth/service"
	"github.com/ncobase/socialhub/core/user"
	"github.com/ncobase/socialhub/core/user/data/repository"
	"github.com/ncobase/socialhub/internal/module"
	"github.com/ncobase/socialhub/logging/logger"

	"github.com/gin-gonic/gin"
)

// ServiceKey is the cross service key of the auth service.
const ServiceKey = "auth.Service"

// Module implements authentication.
type Module struct {
	service    *service.Service
	handler    *handler.Handler
	middleware *middleware.Middleware
	logger     *logger.Logger
}

func New() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "auth"
}

func (m *Module) Dependencies() []string {
	return []string{"user"}
}

func (m *Module) Init(app *module.App) error {
	m.logger = app.Logger

	repo, err := module.Lookup[repository.UserRepository](app, user.RepositoryKey)
	if err != nil {
		return err
	}

	cost := 0
	if app.Config != nil && app.Config.Auth != nil {
		cost = app.Config.Auth.BcryptCost
	}

	m.service = service.NewService(m.logger, repo, app.Tokens, cost)
	m.handler = handler.New(m.service)
	m.middleware = middleware.NewMiddleware(m.service, m.logger)

	app.RegisterCrossService(ServiceKey, m.service)
	app.RegisterCrossService(module.AuthenticateKey, m.middleware.AuthMiddleware())

	m.logger.Info(context.Background(), "Auth module initialized", "module", m.Name())
	return nil
}

// RegisterRoutes registers the public account routes under /users.
func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("/signup", m.handler.HandleSignup)
		users.POST("/login", m.handler.HandleLogin)
		users.GET("/logout", m.handler.HandleLogout)
	}
}

// Service returns the auth service.
func (m *Module) Service() *service.Service {
	return m.service
}

// Middleware returns the auth middleware.
func (m *Module) Middleware() *middleware.Middleware {
	return m.middleware
}
