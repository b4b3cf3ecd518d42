// Package config loads evmkit's runtime configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// RuntimeConfig is the resolved configuration the app runs with.
type RuntimeConfig struct {
	// RPCURL is the ledger node endpoint.
	RPCURL string `mapstructure:"rpc_url"`

	// ArtifactsDir is the build-output directory artifacts are loaded from.
	ArtifactsDir string `mapstructure:"artifacts_dir"`

	// ContractsFile is the initial contract set manifest.
	ContractsFile string `mapstructure:"contracts_file"`

	// PollInterval is the delay between receipt polls.
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// MaxPollAttempts bounds receipt polling; zero polls forever.
	MaxPollAttempts int `mapstructure:"max_poll_attempts"`

	// Timeout bounds each CLI command; zero means no deadline.
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load resolves configuration from evmkit.toml, the environment
// (EVMKIT_-prefixed variables) and an optional .env file, in ascending
// precedence of env over file.
func Load() (*RuntimeConfig, error) {
	// A missing .env is fine; it is a development convenience.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("evmkit")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.SetEnvPrefix("EVMKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("rpc_url", "http://localhost:8545")
	v.SetDefault("artifacts_dir", "out")
	v.SetDefault("contracts_file", "contracts.toml")
	v.SetDefault("poll_interval", time.Second)
	v.SetDefault("max_poll_attempts", 0)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading evmkit.toml: %w", err)
		}
	}

	var cfg RuntimeConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}
