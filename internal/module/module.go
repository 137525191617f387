// Package module wires feature modules (users, auth, posts, comments,
// stories) onto shared infrastructure and the HTTP router.
package module

import (
	"fmt"
	"sync"

	"github.com/ncobase/socialhub/config"
	"github.com/ncobase/socialhub/data"
	"github.com/ncobase/socialhub/internal/media"
	"github.com/ncobase/socialhub/internal/relation"
	"github.com/ncobase/socialhub/logging/logger"
	"github.com/ncobase/socialhub/messaging"
	"github.com/ncobase/socialhub/security/jwt"

	"github.com/gin-gonic/gin"
)

// AuthenticateKey is the cross service key of the gin.HandlerFunc guarding
// authenticated routes.
const AuthenticateKey = "auth.Authenticate"

// Interface is implemented by every feature module.
type Interface interface {
	Name() string
	// Dependencies names the modules that must be initialized first.
	Dependencies() []string
	Init(app *App) error
	// RegisterRoutes runs after every module is initialized.
	RegisterRoutes(r *gin.RouterGroup)
}

// App carries the shared infrastructure handed to modules, plus the
// services modules publish for each other.
type App struct {
	Config    *config.Config
	Data      *data.Data
	Relations *relation.Store
	Media     *media.Uploader
	Publisher messaging.Publisher
	Tokens    *jwt.TokenManager
	Logger    *logger.Logger

	mu       sync.RWMutex
	services map[string]any
}

// RegisterCrossService publishes a service under key, e.g. "user.Service".
func (a *App) RegisterCrossService(key string, service any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.services == nil {
		a.services = make(map[string]any)
	}
	a.services[key] = service
}

// GetCrossService returns the service published under key.
func (a *App) GetCrossService(key string) (any, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	svc, ok := a.services[key]
	if !ok {
		return nil, fmt.Errorf("cross service %s not registered", key)
	}
	return svc, nil
}

// Lookup returns the service under key asserted to T.
func Lookup[T any](a *App, key string) (T, error) {
	var zero T
	svc, err := a.GetCrossService(key)
	if err != nil {
		return zero, err
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, fmt.Errorf("cross service %s has type %T", key, svc)
	}
	return typed, nil
}
