package config

import (
	"time"

	"github.com/spf13/viper"
)

// Redis configures the optional profile cache. An empty Addr disables it.
type Redis struct {
	Addr         string        `json:"addr" yaml:"addr"`
	Username     string        `json:"username" yaml:"username"`
	Password     string        `json:"password" yaml:"password"`
	Db           int           `json:"db" yaml:"db"`
	PoolSize     int           `json:"pool_size" yaml:"pool_size"`
	CacheTTL     time.Duration `json:"cache_ttl" yaml:"cache_ttl"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
}

func getRedisConfigs(v *viper.Viper) *Redis {
	ttl := v.GetDuration("data.redis.cache_ttl")
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Redis{
		Addr:         v.GetString("data.redis.addr"),
		Username:     v.GetString("data.redis.username"),
		Password:     v.GetString("data.redis.password"),
		Db:           v.GetInt("data.redis.db"),
		PoolSize:     v.GetInt("data.redis.pool_size"),
		CacheTTL:     ttl,
		ReadTimeout:  v.GetDuration("data.redis.read_timeout"),
		WriteTimeout: v.GetDuration("data.redis.write_timeout"),
		DialTimeout:  v.GetDuration("data.redis.dial_timeout"),
	}
}
