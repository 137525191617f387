package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	dc "github.com/ncobase/socialhub/data/config"
	lc "github.com/ncobase/socialhub/logging/logger/config"
	"github.com/ncobase/socialhub/oss"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SOCIALHUB"

var (
	config *Config
	mu     sync.RWMutex
)

// Config represents the configuration implementation.
type Config struct {
	AppName  string
	RunMode  string
	Version  string
	Server   *Server
	Auth     *Auth
	Data     *dc.Config
	Storage  *oss.Config
	Logger   *lc.Config
	Observes *Observes
	Viper    *viper.Viper
}

// IsProduction reports whether the service runs in release mode.
func (c *Config) IsProduction() bool {
	return c.RunMode == "release" || c.RunMode == "production"
}

// GetConfig returns the last loaded configuration.
func GetConfig() (*Config, error) {
	mu.RLock()
	defer mu.RUnlock()
	if config == nil {
		return nil, errors.New("config not loaded")
	}
	return config, nil
}

func newViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/socialhub")
		v.AddConfigPath("$HOME/.socialhub")
		v.AddConfigPath(".")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Dir(ex))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// Without an explicit path a missing file is fine, env and defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// LoadConfig loads the configuration from the file and sets it globally.
func LoadConfig(configPath string) (*Config, error) {
	v, err := newViper(configPath)
	if err != nil {
		return nil, err
	}

	cfg := fromViper(v)
	mu.Lock()
	config = cfg
	mu.Unlock()
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		AppName:  valueOr(v, "app_name", v.GetString, "socialhub"),
		RunMode:  valueOr(v, "run_mode", v.GetString, "debug"),
		Version:  v.GetString("version"),
		Server:   getServerConfig(v),
		Auth:     getAuth(v),
		Data:     dc.GetConfig(v),
		Storage:  getStorageConfig(v),
		Logger:   lc.GetConfig(v),
		Observes: getObservesConfig(v),
		Viper:    v,
	}
}

// Watch watches the configuration file and calls back with the reloaded
// configuration whenever it changes.
func (c *Config) Watch(callback func(*Config)) {
	c.Viper.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		next := fromViper(c.Viper)
		mu.Lock()
		config = next
		mu.Unlock()
		callback(next)
	})
	c.Viper.WatchConfig()
}
