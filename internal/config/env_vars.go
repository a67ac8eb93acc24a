package config

import (
	"fmt"
	"strings"
)

// EnvDev is the development environment, the only one that accepts DevAuthKey.
const EnvDev = "DEV"

type EnvVars struct {
	Port    string `env:"PORT" envDefault:"8080"`
	AppName string `env:"APP_NAME" envDefault:"dmtool"`
	Env     string `env:"ENV" envDefault:"DEV"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port != "" && !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

// GetEnv returns the deployment environment, "DEV" when unset.
func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return EnvDev
	}
	return e.Env
}
