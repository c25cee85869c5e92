package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the overall configuration for the application.
type Config struct {
	Server      ServerConfig       `yaml:"server"`
	Ledger      LedgerConfig       `yaml:"ledger"`
	Jupiter     JupiterConfig      `yaml:"jupiter"`
	Birdeye     BirdeyeConfig      `yaml:"birdeye"`
	DEXScreener DEXScreenerConfig  `yaml:"dexScreener"`
	CoinGecko   CoinGeckoConfig    `yaml:"coinGecko"`
	TokenList   TokenListConfig    `yaml:"tokenList"`
	PriceSvc    PriceServiceConfig `yaml:"priceService"`
	Logging     LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"readTimeout"`
	WriteTimeout int    `yaml:"writeTimeout"`
	IdleTimeout  int    `yaml:"idleTimeout"`
}

// LedgerConfig holds the JSON-RPC endpoints for the target ledger. The keyed
// endpoint is preferred when APIKey is set; otherwise the public endpoint is
// tried first.
type LedgerConfig struct {
	KeyedEndpoint        string `yaml:"keyedEndpoint"`
	PublicEndpoint       string `yaml:"publicEndpoint"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   int    `yaml:"rateLimitPerSecond"`
	RateBurst            int    `yaml:"rateBurst"`
}

// JupiterConfig holds the Jupiter price oracle and token registry endpoints.
type JupiterConfig struct {
	PriceBaseURL         string `yaml:"priceBaseURL"`
	TokensBaseURL        string `yaml:"tokensBaseURL"`
	TokenListURL         string `yaml:"tokenListURL"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MaxIDsPerRequest     int    `yaml:"maxIdsPerRequest"`
}

// BirdeyeConfig holds the secondary (keyed) token metadata registry.
type BirdeyeConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MaxAddrsPerRequest   int    `yaml:"maxAddrsPerRequest"`
}

// DEXScreenerConfig holds the configuration for the DEX Screener client.
type DEXScreenerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	ChainID              string `yaml:"chainID"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MaxTokensPerRequest  int    `yaml:"maxTokensPerRequest"`
}

// CoinGeckoConfig holds the native-asset spot price fallback.
type CoinGeckoConfig struct {
	BaseURL              string `yaml:"baseURL"`
	APIKey               string `yaml:"apiKey"`
	NativeCoinID         string `yaml:"nativeCoinID"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
}

// TokenListConfig holds the bulk token catalogue cache settings.
type TokenListConfig struct {
	TTLHours      int    `yaml:"ttlHours"`
	HintsFilePath string `yaml:"hintsFilePath"`
}

// PriceServiceConfig holds configuration for the price resolver.
type PriceServiceConfig struct {
	CacheTTLSeconds int `yaml:"cacheTTLSeconds"`
}

// LoggingConfig holds the configuration for logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// LoadConfig loads configuration from a YAML file and applies defaults.
// API keys may be supplied via environment instead of the file.
func LoadConfig(path string) (*Config, error) {
	logrus.Infof("Loading configuration from path: %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.Errorf("Failed to read config file %s: %v", path, err)
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logrus.Errorf("Failed to unmarshal config data from %s: %v", path, err)
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	logrus.Info("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60
	}

	if cfg.Ledger.PublicEndpoint == "" {
		cfg.Ledger.PublicEndpoint = "https://api.mainnet-beta.solana.com"
	}
	if cfg.Ledger.KeyedEndpoint == "" {
		cfg.Ledger.KeyedEndpoint = "https://mainnet.helius-rpc.com"
	}
	if cfg.Ledger.RequestTimeoutMillis == 0 {
		cfg.Ledger.RequestTimeoutMillis = 15000
	}
	if cfg.Ledger.RateLimitPerSecond == 0 {
		cfg.Ledger.RateLimitPerSecond = 10
	}
	if cfg.Ledger.RateBurst == 0 {
		cfg.Ledger.RateBurst = 20
	}

	if cfg.Jupiter.PriceBaseURL == "" {
		cfg.Jupiter.PriceBaseURL = "https://api.jup.ag/price/v2"
	}
	if cfg.Jupiter.TokensBaseURL == "" {
		cfg.Jupiter.TokensBaseURL = "https://tokens.jup.ag"
	}
	if cfg.Jupiter.TokenListURL == "" {
		cfg.Jupiter.TokenListURL = "https://tokens.jup.ag/tokens?tags=verified"
	}
	if cfg.Jupiter.RequestTimeoutMillis == 0 {
		cfg.Jupiter.RequestTimeoutMillis = 10000
	}
	if cfg.Jupiter.MaxIDsPerRequest == 0 {
		cfg.Jupiter.MaxIDsPerRequest = 100 // Jupiter price API limit
		logrus.Infof("MaxIdsPerRequest for Jupiter not set, defaulting to %d", cfg.Jupiter.MaxIDsPerRequest)
	}

	if cfg.Birdeye.BaseURL == "" {
		cfg.Birdeye.BaseURL = "https://public-api.birdeye.so"
	}
	if cfg.Birdeye.RequestTimeoutMillis == 0 {
		cfg.Birdeye.RequestTimeoutMillis = 10000
	}
	if cfg.Birdeye.MaxAddrsPerRequest == 0 {
		cfg.Birdeye.MaxAddrsPerRequest = 50
	}

	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
		logrus.Infof("DEXScreener.BaseURL not set, defaulting to %s", cfg.DEXScreener.BaseURL)
	}
	if cfg.DEXScreener.ChainID == "" {
		cfg.DEXScreener.ChainID = "solana"
	}
	if cfg.DEXScreener.RequestTimeoutMillis == 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 10000
	}
	if cfg.DEXScreener.MaxTokensPerRequest == 0 {
		cfg.DEXScreener.MaxTokensPerRequest = 30 // DEXScreener limit
		logrus.Infof("MaxTokensPerRequest for DEXScreener not set, defaulting to %d", cfg.DEXScreener.MaxTokensPerRequest)
	}

	if cfg.CoinGecko.BaseURL == "" {
		cfg.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.CoinGecko.NativeCoinID == "" {
		cfg.CoinGecko.NativeCoinID = "solana"
	}
	if cfg.CoinGecko.RequestTimeoutMillis == 0 {
		cfg.CoinGecko.RequestTimeoutMillis = 8000
	}

	if cfg.TokenList.TTLHours == 0 {
		cfg.TokenList.TTLHours = 6
	}
	if cfg.TokenList.HintsFilePath == "" {
		cfg.TokenList.HintsFilePath = "data/token_hints.json"
	}

	if cfg.PriceSvc.CacheTTLSeconds == 0 {
		cfg.PriceSvc.CacheTTLSeconds = 60
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LEDGER_API_KEY"); v != "" {
		cfg.Ledger.APIKey = v
	}
	if v := os.Getenv("BIRDEYE_API_KEY"); v != "" {
		cfg.Birdeye.APIKey = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		cfg.CoinGecko.APIKey = v
	}
}
