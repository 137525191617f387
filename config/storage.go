package config

import (
	"github.com/ncobase/socialhub/oss"

	"github.com/spf13/viper"
)

// getStorageConfig get storage config
func getStorageConfig(v *viper.Viper) *oss.Config {
	return &oss.Config{
		Provider: valueOr(v, "storage.provider", v.GetString, "filesystem"),
		ID:       v.GetString("storage.id"),
		Secret:   v.GetString("storage.secret"),
		Region:   v.GetString("storage.region"),
		Bucket:   v.GetString("storage.bucket"),
		Endpoint: v.GetString("storage.endpoint"),
		BaseURL:  v.GetString("storage.base_url"),
		UseSSL:   v.GetBool("storage.use_ssl"),
	}
}
