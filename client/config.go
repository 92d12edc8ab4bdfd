// Package client wires the REST client, the session manager and the booking store into one
// handle for applications.
package client

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is read from STUDIO_* environment variables or a studio.yaml file.
type Config struct {
	APIURL      string        `mapstructure:"STUDIO_API_URL"`
	Timeout     time.Duration `mapstructure:"STUDIO_API_TIMEOUT"`
	SessionFile string        `mapstructure:"STUDIO_SESSION_FILE"` // empty keeps the session in memory
	SessionKey  string        `mapstructure:"STUDIO_SESSION_KEY"`  // encrypts SessionFile when set
	LogLevel    string        `mapstructure:"STUDIO_LOG_LEVEL"`
}

func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetConfigName("studio")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	v.SetDefault("STUDIO_API_URL", "http://localhost:8080")
	v.SetDefault("STUDIO_API_TIMEOUT", 20*time.Second)
	v.SetDefault("STUDIO_SESSION_FILE", "")
	v.SetDefault("STUDIO_SESSION_KEY", "")
	v.SetDefault("STUDIO_LOG_LEVEL", "warn")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read client config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode client config: %w", err)
	}
	if cfg.APIURL == "" {
		return Config{}, fmt.Errorf("STUDIO_API_URL must not be empty")
	}
	return cfg, nil
}
