// Package config loads advisor configuration from a YAML file or from
// command-line flags when no config path is given.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/unwraplabs/tyrion/internal/services/wallet"
)

// LLM holds the OpenAI-compatible endpoint settings for the classifier.
type LLM struct {
	URL    string `yaml:"url"`
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Config is the full advisor configuration.
type Config struct {
	// Platform selects the balance provider: ethereum, binance, bybit,
	// hyperliquid or static.
	Platform      string
	WalletAddress string
	EthereumRPC   string
	Tokens        []wallet.Token

	// StaticBalances seeds the static provider for dry runs.
	StaticBalances map[string]decimal.Decimal

	LLM LLM

	CatalogURL      string
	CatalogFile     string
	RefreshInterval time.Duration
	WalDir          string

	ServerAddr  string
	TLSDomains  []string
	TLSCacheDir string
}

// FileConfig is the YAML shape of the configuration, also produced by
// the setup wizard.
type FileConfig struct {
	Platform        string            `yaml:"platform"`
	WalletAddress   string            `yaml:"wallet_address,omitempty"`
	EthereumRPC     string            `yaml:"ethereum_rpc,omitempty"`
	Tokens          []wallet.Token    `yaml:"tokens,omitempty"`
	StaticBalances  map[string]string `yaml:"static_balances,omitempty"`
	LLM             LLM               `yaml:"llm,omitempty"`
	CatalogURL      string            `yaml:"catalog_url,omitempty"`
	CatalogFile     string            `yaml:"catalog_file,omitempty"`
	RefreshInterval time.Duration     `yaml:"refresh_interval,omitempty"`
	WalDir          string            `yaml:"wal_dir,omitempty"`
	ServerAddr      string            `yaml:"server_addr,omitempty"`
	TLSDomains      []string          `yaml:"tls_domains,omitempty"`
	TLSCacheDir     string            `yaml:"tls_cache_dir,omitempty"`
}

// Get reads the configuration. With --config the YAML file wins,
// otherwise the remaining flags are used.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	platform := flag.String("platform", "static", "balance provider: ethereum, binance, bybit, hyperliquid or static")
	walletAddress := flag.String("wallet", "", "wallet address for on-chain balance lookups")
	ethereumRPC := flag.String("ethrpc", "", "ethereum json-rpc endpoint")
	catalogURL := flag.String("catalogurl", "", "pool catalog api url")
	catalogFile := flag.String("catalogfile", "", "pool catalog json file")
	refreshInterval := flag.Duration("refreshinterval", 5*time.Minute, "catalog refresh interval")
	serverAddr := flag.String("addr", ":8080", "http listen address")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	cfg := Config{
		Platform:        *platform,
		WalletAddress:   *walletAddress,
		EthereumRPC:     *ethereumRPC,
		CatalogURL:      *catalogURL,
		CatalogFile:     *catalogFile,
		RefreshInterval: *refreshInterval,
		ServerAddr:      *serverAddr,
	}
	return cfg, validate(cfg)
}

func getYaml(path string) (Config, error) {
	var tmp FileConfig

	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Platform:        tmp.Platform,
		WalletAddress:   tmp.WalletAddress,
		EthereumRPC:     tmp.EthereumRPC,
		Tokens:          tmp.Tokens,
		LLM:             tmp.LLM,
		CatalogURL:      tmp.CatalogURL,
		CatalogFile:     tmp.CatalogFile,
		RefreshInterval: tmp.RefreshInterval,
		WalDir:          tmp.WalDir,
		ServerAddr:      tmp.ServerAddr,
		TLSDomains:      tmp.TLSDomains,
		TLSCacheDir:     tmp.TLSCacheDir,
	}

	if cfg.Platform == "" {
		cfg.Platform = "static"
	}
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = 5 * time.Minute
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8080"
	}

	if len(tmp.StaticBalances) > 0 {
		cfg.StaticBalances = make(map[string]decimal.Decimal, len(tmp.StaticBalances))
		for symbol, raw := range tmp.StaticBalances {
			amount, err := decimal.NewFromString(raw)
			if err != nil {
				return Config{}, fmt.Errorf("incorrect 'static_balances' param for %s in yaml config: %w", symbol, err)
			}
			cfg.StaticBalances[symbol] = amount
		}
	}

	return cfg, validate(cfg)
}

func validate(cfg Config) error {
	switch cfg.Platform {
	case "ethereum":
		if cfg.EthereumRPC == "" {
			return fmt.Errorf("platform ethereum requires 'ethereum_rpc'")
		}
	case "binance", "bybit", "hyperliquid", "static":
	default:
		return fmt.Errorf("unsupported platform: %s", cfg.Platform)
	}

	if cfg.CatalogURL == "" && cfg.CatalogFile == "" {
		return fmt.Errorf("either 'catalog_url' or 'catalog_file' must be set")
	}

	return nil
}
