package config

import "github.com/spf13/viper"

// valueOr returns get(key) when key is set to a non-zero value and def
// otherwise.
func valueOr[T comparable](v *viper.Viper, key string, get func(string) T, def T) T {
	var zero T
	if !v.IsSet(key) {
		return def
	}
	if val := get(key); val != zero {
		return val
	}
	return def
}
