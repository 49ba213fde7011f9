package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/taskflow-app/taskflow/internal/flagx"
	"github.com/taskflow-app/taskflow/internal/timex"
)

// jsonConfig mirrors Config for file decoding. Durations accept "24h" or
// integer nanoseconds. Pointer fields distinguish absent keys from zero
// values.
type jsonConfig struct {
	EndpointAddrHTTP      *string         `json:"endpoint_addr_http"`
	DatabaseDSN           *string         `json:"database_dsn"`
	SecretKey             *string         `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	BcryptCost            *int            `json:"bcrypt_cost"`
	StaticDir             *string         `json:"static_dir"`
	LogFormat             *string         `json:"log_format"`
	LogLevel              *string         `json:"log_level"`
	ShutdownTimeout       *timex.Duration `json:"shutdown_timeout"`
}

// parseJSON overlays the file named by -c/-config, if any.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &jsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.SecretKey, c.SecretKey)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.StaticDir, c.StaticDir)
	setIf(&config.LogFormat, c.LogFormat)
	setIf(&config.LogLevel, c.LogLevel)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
