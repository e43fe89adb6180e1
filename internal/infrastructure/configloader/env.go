package configloader

import (
	"fmt"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// EnvPrefix prefixes every environment variable, e.g. SEEDCHECKER_CONFIG.
const EnvPrefix = "SEEDCHECKER"

// Env holds process settings taken from the environment. Non-empty values override the file.
type Env struct {
	ConfigPath      string `envconfig:"CONFIG" default:"config.yml"`
	LogLevel        string `envconfig:"LOG_LEVEL"`
	Port            string `envconfig:"PORT"`
	Autostart       string `envconfig:"AUTOSTART"`
	CoinGeckoAPIKey string `envconfig:"COINGECKO_API_KEY"`
}

// LoadEnv reads SEEDCHECKER_* variables.
func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &env, nil
}

// ApplyEnv overrides cfg with the non-empty values of env.
func (cfg *Config) ApplyEnv(env *Env) error {
	if env == nil {
		return nil
	}
	if env.LogLevel != "" {
		cfg.Logging.Level = env.LogLevel
		logrus.Infof("Logging.Level overridden from environment: %s", env.LogLevel)
	}
	if env.Port != "" {
		cfg.Server.Port = env.Port
		logrus.Infof("Server.Port overridden from environment: %s", env.Port)
	}
	if env.Autostart != "" {
		v, err := strconv.ParseBool(env.Autostart)
		if err != nil {
			return fmt.Errorf("%s_AUTOSTART: %w", EnvPrefix, err)
		}
		cfg.Search.Autostart = v
	}
	if env.CoinGeckoAPIKey != "" {
		cfg.CoinGecko.APIKey = env.CoinGeckoAPIKey
	}
	return nil
}
