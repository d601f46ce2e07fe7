package config

import (
	"fmt"
	"time"

	assistantService "StokAsistan/internal/api/assistant/service"
	"StokAsistan/pkg/oracle"

	"github.com/caarlos0/env/v6"
)

// AppConfig holds the interpreter settings. Infrastructure clients read their
// own variables.
type AppConfig struct {
	Assistant assistantService.Config
	Oracle    oracle.Config

	IntentOracleEnabled bool          `env:"INTENT_ORACLE_ENABLED" envDefault:"false"`
	IntentOracleTimeout time.Duration `env:"INTENT_ORACLE_TIMEOUT" envDefault:"5s"`

	SessionCleanupSpec string `env:"SESSION_CLEANUP_SPEC" envDefault:"@every 15m"`
}

func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
