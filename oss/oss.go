// Package oss stores uploaded media behind a provider neutral Interface.
//
// Providers register themselves through RegisterDriver; NewStorage picks one
// from Config.Provider. The filesystem provider is built in and serves
// tests and single node deployments.
package oss

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// ErrEmptyKey is returned when an operation is called without an object key.
var ErrEmptyKey = errors.New("object key cannot be empty")

// Interface defines object storage operations used by socialhub.
type Interface interface {
	// Put uploads the reader under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*Object, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL clients use to fetch key.
	URL(key string) string
}

// Object represents metadata about a stored object.
type Object struct {
	Key         string
	URL         string
	Size        int64
	ContentType string
}

// Config holds configuration for object storage providers.
type Config struct {
	Provider string `json:"provider" yaml:"provider"` // filesystem, s3 or minio
	ID       string `json:"id" yaml:"id"`             // access key id
	Secret   string `json:"secret" yaml:"secret"`     // secret access key
	Region   string `json:"region" yaml:"region"`
	Bucket   string `json:"bucket" yaml:"bucket"`     // bucket name, or root directory for filesystem
	Endpoint string `json:"endpoint" yaml:"endpoint"` // custom endpoint, required for minio
	BaseURL  string `json:"base_url" yaml:"base_url"` // public prefix for object URLs
	UseSSL   bool   `json:"use_ssl" yaml:"use_ssl"`
}

// Validate checks if the configuration is valid and sets default values where applicable.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return errors.New("storage provider is required")
	}

	switch c.Provider {
	case "filesystem", "local":
		if c.Bucket == "" {
			c.Bucket = "./uploads"
		}
		if c.BaseURL == "" {
			c.BaseURL = "/uploads"
		}
	case "s3", "aws-s3", "aws":
		if c.ID == "" || c.Secret == "" || c.Bucket == "" {
			return errors.New("id, secret, and bucket are required for AWS S3")
		}
		if c.Region == "" {
			c.Region = "us-east-1"
		}
	case "minio":
		if c.ID == "" || c.Secret == "" || c.Bucket == "" || c.Endpoint == "" {
			return errors.New("id, secret, bucket, and endpoint are required for MinIO")
		}
	default:
		return fmt.Errorf("unsupported storage provider: %s", c.Provider)
	}

	return nil
}

// Driver builds an Interface for one provider.
type Driver interface {
	// Name returns the provider names this driver answers to.
	Name() []string

	// Connect establishes a connection to the storage service.
	Connect(ctx context.Context, cfg *Config) (Interface, error)
}

var (
	registryMu     sync.RWMutex
	driverRegistry = make(map[string]Driver)
)

// RegisterDriver registers a storage driver.
// Typically called in the driver's init function.
func RegisterDriver(driver Driver) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, name := range driver.Name() {
		if _, exists := driverRegistry[name]; exists {
			panic(fmt.Sprintf("oss driver %s already registered", name))
		}
		driverRegistry[name] = driver
	}
}

// GetDriver retrieves a driver by name.
func GetDriver(name string) (Driver, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	driver, ok := driverRegistry[name]
	if !ok {
		return nil, fmt.Errorf("oss driver %s not found", name)
	}
	return driver, nil
}

// Drivers lists the registered provider names.
func Drivers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(driverRegistry))
	for name := range driverRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewStorage creates a storage instance based on the provided configuration.
func NewStorage(ctx context.Context, c *Config) (Interface, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}

	driver, err := GetDriver(c.Provider)
	if err != nil {
		return nil, err
	}

	storage, err := driver.Connect(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to connect with %s driver: %w", c.Provider, err)
	}

	return storage, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
