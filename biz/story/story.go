// Package story defines the story module routes and wiring.
package story

import (
	"context"

	"github.com/ncobase/socialhub/biz/story/data/repository"
	"github.com/ncobase/socialhub/biz/story/handler"
	"github.com/ncobase/socialhub/biz/story/service"
	"github.com/ncobase/socialhub/core/user"
	userrepo "github.com/ncobase/socialhub/core/user/data/repository"
	"github.com/ncobase/socialhub/internal/module"
	"github.com/ncobase/socialhub/logging/logger"

	"github.com/gin-gonic/gin"
)

// ServiceKey is the cross service key of the story service.
const ServiceKey = "story.Service"

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
	return "story"
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

	repo := repository.NewStoryRepository(app.Data)
	m.service = service.New(m.logger, app.Data, repo, users, app.Relations, app.Media, app.Publisher)
	m.handler = handler.New(m.service)

	app.RegisterCrossService(ServiceKey, m.service)

	m.logger.Info(context.Background(), "Story module initialized", "module", m.Name())
	return nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	stories := r.Group("/stories", m.auth)
	{
		stories.POST("", m.handler.HandleCreate)
		stories.GET("/:id", m.handler.HandleListByUser)
		stories.GET("/story/:storyId", m.handler.HandleView)
		stories.PUT("/:storyId", m.handler.HandleUpdate)
		stories.DELETE("/:storyId", m.handler.HandleDelete)
		stories.POST("/like/:storyId", m.handler.HandleLike)
		stories.GET("/info/:storyId", m.handler.HandleInfo)
	}
}

// Service is used by the purge-expired command.
func (m *Module) Service() *service.Service {
	return m.service
}
