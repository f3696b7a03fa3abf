package app

import (
	"github.com/opendoorspartners/odp-backend/internal/platform/envutil"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
)

type Config struct {
	Port        string
	AIProvider  string
	Environment string
	Version     string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.Str("PORT", "8080"),
		AIProvider:  envutil.Str("AI_PROVIDER", "openai"),
		Environment: envutil.Str("APP_ENV", "development"),
		Version:     envutil.Str("APP_VERSION", "dev"),
	}
	log.Info("config loaded", "port", cfg.Port, "ai_provider", cfg.AIProvider, "env", cfg.Environment)
	return cfg
}
