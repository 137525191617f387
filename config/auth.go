package config

import (
	"time"

	"github.com/spf13/viper"
)

// Auth auth config struct
type Auth struct {
	JWT        *JWT
	BcryptCost int
}

// getAuth returns the auth config.
func getAuth(v *viper.Viper) *Auth {
	return &Auth{
		JWT:        getJWT(v),
		BcryptCost: valueOr(v, "auth.bcrypt_cost", v.GetInt, 10),
	}
}

// JWT jwt config struct
type JWT struct {
	Secret string
	Expire time.Duration
}

// getJWT returns the jwt config.
func getJWT(v *viper.Viper) *JWT {
	return &JWT{
		Secret: v.GetString("auth.jwt.secret"),
		Expire: valueOr(v, "auth.jwt.expire", v.GetDuration, 24*time.Hour),
	}
}
