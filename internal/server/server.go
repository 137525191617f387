// Package server builds the shared infrastructure, initializes the feature
// modules and serves them over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ncobase/socialhub/biz/comment"
	"github.com/ncobase/socialhub/biz/post"
	"github.com/ncobase/socialhub/biz/story"
	"github.com/ncobase/socialhub/config"
	"github.com/ncobase/socialhub/core/auth"
	"github.com/ncobase/socialhub/core/user"
	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/internal/media"
	"github.com/ncobase/socialhub/internal/module"
	"github.com/ncobase/socialhub/internal/relation"
	"github.com/ncobase/socialhub/logging/logger"
	"github.com/ncobase/socialhub/messaging"
	"github.com/ncobase/socialhub/net/resp"
	"github.com/ncobase/socialhub/oss"
	"github.com/ncobase/socialhub/security/jwt"

	"github.com/gin-gonic/gin"

	_ "github.com/ncobase/socialhub/data/postgres"
	_ "github.com/ncobase/socialhub/data/sqlite"
)

// APIPrefix is the versioned mount point. Routes are also served at the root.
const APIPrefix = "/api/v1"

// Server represents the application server.
type Server struct {
	config  *config.Config
	logger  *logger.Logger
	app     *module.App
	manager *module.Manager
	storage oss.Interface
	engine  *gin.Engine
	cleanup []func()
}

// New connects the data layer, storage and publisher, then initializes
// every module. Close releases what New acquired.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if log == nil {
		return nil, errors.New("logger is nil")
	}
	if cfg.Auth == nil || cfg.Auth.JWT == nil || cfg.Auth.JWT.Secret == "" {
		return nil, errors.New("auth.jwt.secret is required")
	}

	s := &Server{config: cfg, logger: log}

	if cfg.Data.Database != nil && cfg.Data.Database.Migrate {
		if err := Migrate(ctx, cfg); err != nil {
			return nil, err
		}
		log.Info(ctx, "Database migrated")
	}

	d, cleanup, err := data.New(ctx, cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize data layer: %w", err)
	}
	s.cleanup = append(s.cleanup, cleanup)

	storage, err := oss.NewStorage(ctx, cfg.Storage)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	publisher, err := messaging.New(ctx, cfg.Data)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to initialize messaging: %w", err)
	}
	s.cleanup = append(s.cleanup, func() {
		if err := publisher.Close(); err != nil {
			log.Warn(context.Background(), "Failed to close publisher", "error", err)
		}
	})

	app := &module.App{
		Config:    cfg,
		Data:      d,
		Relations: relation.NewStore(d),
		Media:     media.NewUploader(oss.WithBreaker(storage, cfg.Storage.Provider)),
		Publisher: publisher,
		Tokens:    jwt.NewTokenManager(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Expire),
		Logger:    log,
	}
	if err := s.init(app, storage); err != nil {
		s.Close()
		return nil, err
	}

	log.Info(ctx, "All modules initialized successfully", "publisher", publisher.Name(), "storage", cfg.Storage.Provider)
	return s, nil
}

// NewWithApp initializes every module on an already assembled app. storage
// is the backend behind app.Media; a filesystem backend is served at /uploads.
func NewWithApp(app *module.App, storage oss.Interface) (*Server, error) {
	if app == nil || app.Config == nil || app.Logger == nil {
		return nil, errors.New("app, config and logger are required")
	}
	s := &Server{config: app.Config, logger: app.Logger}
	if err := s.init(app, storage); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) init(app *module.App, storage oss.Interface) error {
	mgr, err := module.NewManager(app, Modules()...)
	if err != nil {
		return err
	}
	if err := mgr.Init(); err != nil {
		return fmt.Errorf("failed to initialize modules: %w", err)
	}
	s.app, s.manager, s.storage = app, mgr, storage
	return nil
}

// Modules returns the feature modules served by the application.
func Modules() []module.Interface {
	return []module.Interface{
		user.New(),
		auth.New(),
		post.New(),
		comment.New(),
		story.New(),
	}
}

// App exposes the initialized modules and shared infrastructure.
func (s *Server) App() *module.App {
	return s.app
}

// Manager exposes the module manager, used by CLI commands.
func (s *Server) Manager() *module.Manager {
	return s.manager
}

// Router builds the gin engine with middleware, health and module routes.
func (s *Server) Router() *gin.Engine {
	if s.engine != nil {
		return s.engine
	}
	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	var limit int64
	if s.config.Server != nil {
		limit = s.config.Server.MaxUploadSize
	}

	r := gin.New()
	if limit > 0 {
		r.MaxMultipartMemory = limit
	}
	r.Use(
		Recovery(s.logger),
		Trace(),
		Tracing(),
		AccessLog(s.logger),
		BodyLimit(limit),
	)

	r.GET("/health", s.handleHealth)
	if fs, ok := s.storage.(*oss.FileSystem); ok {
		r.Static("/uploads", fs.Root())
	}

	s.manager.RegisterRoutes(&r.RouterGroup)
	s.manager.RegisterRoutes(r.Group(APIPrefix))

	r.NoRoute(func(c *gin.Context) {
		resp.Fail(c.Writer, resp.NotFound("route not found"))
	})

	s.engine = r
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	status, healthy := s.app.Data.Health(c.Request.Context())
	if d, ok := s.app.Publisher.(*messaging.Dispatcher); ok {
		status["messaging"] = map[string]any{"provider": d.Name(), "pool": d.Metrics()}
	}
	if !healthy {
		resp.WithStatusCode(c.Writer, http.StatusServiceUnavailable, status)
		return
	}
	resp.Success(c.Writer, status)
}

// Run serves HTTP until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	sc := s.config.Server
	srv := &http.Server{
		Addr:         sc.Addr(),
		Handler:      s.Router(),
		ReadTimeout:  sc.ReadTimeout,
		WriteTimeout: sc.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(context.Background(), "Starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), sc.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return <-errCh
}

// Close releases the data layer and the publisher, in reverse order.
func (s *Server) Close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
	s.cleanup = nil
}
