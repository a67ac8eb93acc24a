package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	StorageConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Storage
}

// New reads the configuration from the process environment, applying defaults
// for anything that is not set.
func New() (Config, error) {
	return parse(env.Options{})
}

// NewFromMap reads the configuration from the given variables instead of the
// process environment. Unset variables fall back to their defaults.
func NewFromMap(vars map[string]string) (Config, error) {
	if vars == nil {
		vars = map[string]string{}
	}
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var c mainConfig
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return nil, errors.Wrap(err, "[config New] parse env")
	}
	if err := c.Security.validate(c.GetEnv()); err != nil {
		return nil, errors.Wrap(err, "[config New]")
	}
	if err := c.Storage.validate(); err != nil {
		return nil, errors.Wrap(err, "[config New]")
	}
	return c, nil
}
