package main

import (
	"fmt"
	"strings"

	env "github.com/Netflix/go-env"
	"go.uber.org/zap"
)

// Config is read from the environment.
type Config struct {
	Lang     string `env:"DOCBATCH_LANG,default=en"`
	LogMode  string `env:"DOCBATCH_LOG_MODE,default=dev"`
	MaxBytes int64  `env:"DOCBATCH_MAX_BYTES,default=10485760"`
	MaxDocs  int    `env:"DOCBATCH_MAX_DOCS,default=0"`
}

func loadConfig(environ []string) (Config, error) {
	var cfg Config
	es, err := env.EnvironToEnvSet(environ)
	if err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if _, err := env.Unmarshal(es, &cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	cfg.Lang = strings.ToLower(cfg.Lang)
	switch cfg.Lang {
	case "en", "ja":
	default:
		return Config{}, fmt.Errorf("config error: DOCBATCH_LANG must be en or ja, got %q", cfg.Lang)
	}
	if cfg.MaxBytes < 0 || cfg.MaxDocs < 0 {
		return Config{}, fmt.Errorf("config error: limits must not be negative")
	}
	return cfg, nil
}

func newLogger(mode string) (*zap.Logger, error) {
	var zc zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		zc = zap.NewProductionConfig()
	default:
		zc = zap.NewDevelopmentConfig()
	}
	// stdout carries results
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
