// Package comment defines the comment module routes and wiring.
package comment

import (
	"context"

	"github.com/ncobase/socialhub/biz/comment/data/repository"
	"github.com/ncobase/socialhub/biz/comment/handler"
	"github.com/ncobase/socialhub/biz/comment/service"
	"github.com/ncobase/socialhub/biz/post"
	postrepo "github.com/ncobase/socialhub/biz/post/data/repository"
	"github.com/ncobase/socialhub/core/user"
	userrepo "github.com/ncobase/socialhub/core/user/data/repository"
	"github.com/ncobase/socialhub/internal/module"
	"github.com/ncobase/socialhub/logging/logger"

	"github.com/gin-gonic/gin"
)

// ServiceKey is the cross service key of the comment service.
const ServiceKey = "comment.Service"

type Module struct {
	service *service.Service
	handler *handler.Handler
	auth    gin.HandlerFunc
	logger  *logger.Logger
}

func New() *Module {
	return &Module{}
}

func (m *Module) Name() string {
	return "comment"
}

func (m *Module) Dependencies() []string {
	return []string{"user", "auth", "post"}
}

func (m *Module) Init(app *module.App) error {
	m.logger = app.Logger

	users, err := module.Lookup[userrepo.UserRepository](app, user.RepositoryKey)
	if err != nil {
		return err
	}
	posts, err := module.Lookup[postrepo.PostRepository](app, post.RepositoryKey)
	if err != nil {
		return err
	}
	if m.auth, err = module.Lookup[gin.HandlerFunc](app, module.AuthenticateKey); err != nil {
		return err
	}

	repo := repository.NewCommentRepository(app.Data)
	m.service = service.New(m.logger, app.Data, repo, posts, users, app.Relations, app.Publisher)
	m.handler = handler.New(m.service)

	app.RegisterCrossService(ServiceKey, m.service)

	m.logger.Info(context.Background(), "Comment module initialized", "module", m.Name())
	return nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	comments := r.Group("/comments", m.auth)
	{
		comments.POST("/:postId", m.handler.HandleCreate)
		comments.GET("/:postId", m.handler.HandleList)
		comments.PUT("/:commentId", m.handler.HandleUpdate)
		comments.DELETE("/:commentId", m.handler.HandleDelete)
		comments.POST("/like/:commentId", m.handler.HandleLike)
	}
}

func (m *Module) Service() *service.Service {
	return m.service
}
