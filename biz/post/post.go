// Package post defines the post module routes and wiring.
package post

import (
	"context"

	"github.com/ncobase/socialhub/biz/post/data/repository"
	"github.com/ncobase/socialhub/biz/post/handler"
	"github.com/ncobase/socialhub/biz/post/service"
	"github.com/ncobase/socialhub/core/user"
	userrepo "github.com/ncobase/socialhub/core/user/data/repository"
	"github.com/ncobase/socialhub/internal/module"
	"github.com/ncobase/socialhub/logging/logger"

	"github.com/gin-gonic/gin"
)

// Cross service keys published by this module.
const (
	ServiceKey    = "post.Service"
	RepositoryKey = "post.Repository"
)

type Module struct {
	service *service.Service
	handler *handler.Handler
	repo    repository.PostRepository
	auth    gin.HandlerFunc
	logger  *logger.Logger
}

func New() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "post"
}

func (m *Module) Dependencies() []string {
	return []string{"user", "auth"}
}

func (m *Module) Init(app *module.App) error {
	m.logger = app.Logger

	users, err := module.Lookup[userrepo.UserRepository](app, user.RepositoryKey)
	if err != nil {
		return err
	}
	if m.auth, err = module.Lookup[gin.HandlerFunc](app, module.AuthenticateKey); err != nil {
		return err
	}

	m.repo = repository.NewPostRepository(app.Data)
	m.service = service.New(m.logger, app.Data, m.repo, users, app.Relations, app.Media, app.Publisher)
	m.handler = handler.New(m.service)

	app.RegisterCrossService(ServiceKey, m.service)
	app.RegisterCrossService(RepositoryKey, m.repo)

	m.logger.Info(context.Background(), "Post module initialized", "module", m.Name())
	return nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	posts := r.Group("/posts", m.auth)
	{
		posts.POST("", m.handler.HandleCreate)
		posts.GET("", m.handler.HandleList)
		posts.GET("/:id", m.handler.HandleListByUser)
		posts.GET("/post/:postId", m.handler.HandleGet)
		posts.GET("/likes/:postId", m.handler.HandleLikes)
		posts.PUT("/:postId", m.handler.HandleUpdate)
		posts.DELETE("/:postId", m.handler.HandleDelete)
		posts.POST("/like/:postId", m.handler.HandleLike)
		posts.POST("/bookmark/:postId", m.handler.HandleBookmark)
	}
}

func (m *Module) Service() *service.Service {
	return m.service
}
