package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Server http server config struct
type Server struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxUploadSize   int64
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func getServerConfig(v *viper.Viper) *Server {
	return &Server{
		Host:            valueOr(v, "server.host", v.GetString, "0.0.0.0"),
		Port:            valueOr(v, "server.port", v.GetInt, 3000),
		ReadTimeout:     valueOr(v, "server.read_timeout", v.GetDuration, 30*time.Second),
		WriteTimeout:    valueOr(v, "server.write_timeout", v.GetDuration, 30*time.Second),
		ShutdownTimeout: valueOr(v, "server.shutdown_timeout", v.GetDuration, 10*time.Second),
		MaxUploadSize:   int64(valueOr(v, "server.max_upload_size", v.GetInt, 50<<20)),
	}
}
