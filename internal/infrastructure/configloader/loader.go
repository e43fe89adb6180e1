package configloader

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"seed_checker/internal/domain/entity"
)

// ServerConfig holds server-specific configurations.
type ServerConfig struct {
	Port                string   `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int      `yaml:"writeTimeoutSeconds"`
	IdleTimeoutSeconds  int      `yaml:"idleTimeoutSeconds"`
	CORSOrigins         []string `yaml:"corsOrigins"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"` // e.g., "debug", "info", "warn", "error"
}

// WordlistConfig selects the wordlist source.
type WordlistConfig struct {
	Source        string `yaml:"source"` // embedded | file | url
	Path          string `yaml:"path"`
	URL           string `yaml:"url"`
	TimeoutMillis int64  `yaml:"timeoutMillis"`
}

// MnemonicConfig controls candidate generation.
type MnemonicConfig struct {
	WordCount  int      `yaml:"wordCount"`
	Exclusions []string `yaml:"exclusions"`
}

// SearchConfig controls the search loop.
type SearchConfig struct {
	Autostart        bool   `yaml:"autostart"`
	RoundDelayMillis int64  `yaml:"roundDelayMillis"`
	MaxRounds        uint64 `yaml:"maxRounds"`
	ProgressEvery    uint64 `yaml:"progressEvery"`
}

// AggregatorConfig controls balance aggregation.
// RequestPauseMillis defaults to 200; a negative value disables the pause.
type AggregatorConfig struct {
	RequestPauseMillis   int64 `yaml:"requestPauseMillis"`
	RequestTimeoutMillis int64 `yaml:"requestTimeoutMillis"`
	FetchTokens          bool  `yaml:"fetchTokens"`
}

// CoinGeckoConfig holds CoinGecko API specific configurations.
type CoinGeckoConfig struct {
	Enabled              *bool  `yaml:"enabled"` // nil means enabled
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	CacheTTLMinutes      int    `yaml:"cacheTTLMinutes"`
}

// IsEnabled reports whether pricing is on.
func (c CoinGeckoConfig) IsEnabled() bool { return c.Enabled == nil || *c.Enabled }

// FindingsConfig controls where findings go.
type FindingsConfig struct {
	Directory   string `yaml:"directory"`
	RecentLimit int    `yaml:"recentLimit"`
}

// TokensConfig points at per-chain token list files.
type TokensConfig struct {
	Directory string `yaml:"directory"`
}

// DerivationConfig configures the static address deriver.
type DerivationConfig struct {
	Addresses map[string]string `yaml:"addresses"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server     ServerConfig                      `yaml:"server"`
	Logging    LoggingConfig                     `yaml:"logging"`
	Wordlist   WordlistConfig                    `yaml:"wordlist"`
	Mnemonic   MnemonicConfig                    `yaml:"mnemonic"`
	Search     SearchConfig                      `yaml:"search"`
	Aggregator AggregatorConfig                  `yaml:"aggregator"`
	CoinGecko  CoinGeckoConfig                   `yaml:"coinGecko"`
	Findings   FindingsConfig                    `yaml:"findings"`
	Tokens     TokensConfig                      `yaml:"tokens"`
	Derivation DerivationConfig                  `yaml:"derivation"`
	Chains     map[string]entity.ChainDefinition `yaml:"chains"`
}

// Load reads the YAML configuration file from the given path, applies defaults and validates it.
func Load(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data: %v", err)
		return nil, fmt.Errorf("failed to unmarshal config data: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

// Default returns a configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 10
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		cfg.Server.WriteTimeoutSeconds = 60
	}
	if cfg.Server.IdleTimeoutSeconds <= 0 {
		cfg.Server.IdleTimeoutSeconds = 120
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Wordlist.Source == "" {
		cfg.Wordlist.Source = "embedded"
	}
	if cfg.Wordlist.TimeoutMillis <= 0 {
		cfg.Wordlist.TimeoutMillis = 10000
	}

	if cfg.Mnemonic.WordCount == 0 {
		cfg.Mnemonic.WordCount = 12
		logrus.Infof("Mnemonic.WordCount not set, defaulting to %d", cfg.Mnemonic.WordCount)
	}
	if cfg.Search.ProgressEvery == 0 {
		cfg.Search.ProgressEvery = 100
	}

	switch {
	case cfg.Aggregator.RequestPauseMillis == 0:
		cfg.Aggregator.RequestPauseMillis = 200
		logrus.Infof("Aggregator.RequestPauseMillis not set, defaulting to %d ms", cfg.Aggregator.RequestPauseMillis)
	case cfg.Aggregator.RequestPauseMillis < 0:
		cfg.Aggregator.RequestPauseMillis = 0
	}
	if cfg.Aggregator.RequestTimeoutMillis <= 0 {
		cfg.Aggregator.RequestTimeoutMillis = 10000
		logrus.Infof("Aggregator.RequestTimeoutMillis not set, defaulting to %d ms", cfg.Aggregator.RequestTimeoutMillis)
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.CoinGecko.RequestTimeoutMillis <= 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 10000
	}
	if cfg.CoinGecko.CacheTTLMinutes <= 0 {
		cfg.CoinGecko.CacheTTLMinutes = 5
	}

	if cfg.Findings.Directory == "" {
		cfg.Findings.Directory = "found_wallets"
	}
	if cfg.Findings.RecentLimit <= 0 {
		cfg.Findings.RecentLimit = 100
	}
	if cfg.Tokens.Directory == "" {
		cfg.Tokens.Directory = "data/tokens"
	}
}

// Validate checks values that have no sensible default.
func (cfg *Config) Validate() error {
	if _, err := entity.ParseWordCount(cfg.Mnemonic.WordCount); err != nil {
		return fmt.Errorf("mnemonic.wordCount: %w", err)
	}
	switch strings.ToLower(cfg.Wordlist.Source) {
	case "embedded", "url":
	case "file":
		if cfg.Wordlist.Path == "" {
			return fmt.Errorf("wordlist.path is required when wordlist.source is file")
		}
	default:
		return fmt.Errorf("wordlist.source must be embedded, file or url, got %q", cfg.Wordlist.Source)
	}
	for id, def := range cfg.Chains {
		if def.Family != "" && def.Family != entity.FamilyBitcoin && def.Family != entity.FamilyEtherscan && def.Family != entity.FamilySolana {
			return fmt.Errorf("chains.%s.family: %w %q", id, entity.ErrUnknownChainFamily, def.Family)
		}
	}
	return nil
}
