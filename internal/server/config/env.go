package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	Port                  string        `env:"PORT"`
	DatabaseDSN           string        `env:"DATABASE_DSN"`
	SecretKey             string        `env:"JWT_SECRET"`
	TokenValidityDuration time.Duration `env:"TOKEN_TTL"`
	BcryptCost            int           `env:"BCRYPT_COST"`
	StaticDir             string        `env:"STATIC_DIR"`
	LogFormat             string        `env:"LOG_FORMAT"`
	LogLevel              string        `env:"LOG_LEVEL"`
}

// parseEnv overlays variables present in environ. PORT may be a bare port
// number or a full host:port address.
func parseEnv(config *Config, environ []string) error {
	c := envConfig{
		DatabaseDSN:           config.DatabaseDSN,
		SecretKey:             config.SecretKey,
		TokenValidityDuration: config.TokenValidityDuration,
		BcryptCost:            config.BcryptCost,
		StaticDir:             config.StaticDir,
		LogFormat:             config.LogFormat,
		LogLevel:              config.LogLevel,
	}

	if err := env.ParseWithOptions(&c, env.Options{Environment: env.ToMap(environ)}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if c.Port != "" {
		config.EndpointAddrHTTP = portToAddr(c.Port)
	}
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.TokenValidityDuration = c.TokenValidityDuration
	config.BcryptCost = c.BcryptCost
	config.StaticDir = c.StaticDir
	config.LogFormat = c.LogFormat
	config.LogLevel = c.LogLevel
	return nil
}

func portToAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
