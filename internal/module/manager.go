package module

import (
	"context"
	"fmt"
	"sort"

	"github.com/gin-gonic/gin"
)

// Manager initializes modules in dependency order and mounts their routes.
type Manager struct {
	app     *App
	modules map[string]Interface
	order   []string
}

// NewManager registers modules with app. Names must be unique.
func NewManager(app *App, modules ...Interface) (*Manager, error) {
	m := &Manager{app: app, modules: make(map[string]Interface, len(modules))}
	for _, mod := range modules {
		if _, exists := m.modules[mod.Name()]; exists {
			return nil, fmt.Errorf("module %s registered twice", mod.Name())
		}
		m.modules[mod.Name()] = mod
	}
	return m, nil
}

// Init initializes every module after its dependencies.
func (m *Manager) Init() error {
	order, err := getInitOrder(m.modules)
	if err != nil {
		return err
	}
	for _, name := range order {
		if err := m.modules[name].Init(m.app); err != nil {
			return fmt.Errorf("init module %s: %w", name, err)
		}
		m.app.Logger.Debug(context.Background(), "Module initialized", "module", name)
	}
	m.order = order
	return nil
}

// RegisterRoutes mounts the routes of every initialized module on r.
func (m *Manager) RegisterRoutes(r *gin.RouterGroup) {
	for _, name := range m.order {
		m.modules[name].RegisterRoutes(r)
	}
}

// Modules returns the initialized module names in init order.
func (m *Manager) Modules() []string {
	return append([]string(nil), m.order...)
}

// getInitOrder returns the initialization order based on dependencies.
func getInitOrder(modules map[string]Interface) ([]string, error) {
	var noDeps, withDeps []string
	initialized := make(map[string]bool)

	for name, mod := range modules {
		for _, dep := range mod.Dependencies() {
			if _, ok := modules[dep]; !ok {
				return nil, fmt.Errorf("module %s depends on unknown module %s", name, dep)
			}
		}
		if len(mod.Dependencies()) == 0 {
			noDeps = append(noDeps, name)
			initialized[name] = true
		} else {
			withDeps = append(withDeps, name)
		}
	}

	sort.Strings(noDeps)
	sort.Strings(withDeps)

	order := append([]string{}, noDeps...)
	for len(withDeps) > 0 {
		progress := false
		remaining := withDeps[:0]

		for _, name := range withDeps {
			ready := true
			for _, dep := range modules[name].Dependencies() {
				if !initialized[dep] {
					ready = false
					break
				}
			}
			if ready {
				order = append(order, name)
				initialized[name] = true
				progress = true
			} else {
				remaining = append(remaining, name)
			}
		}

		if !progress {
			return nil, fmt.Errorf("cyclic dependency detected in modules: %v", remaining)
		}
		withDeps = remaining
	}

	return order, nil
}
