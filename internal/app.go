// Package internal assembles the advisor: balance provider, catalog
// pipeline, classifier and front ends, wired from the configuration.
package internal

import (
	"context"
	"fmt"
	"os"

	binance "github.com/adshao/go-binance/v2"
	bybit "github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/config"
	"github.com/unwraplabs/tyrion/internal/clients"
	"github.com/unwraplabs/tyrion/internal/events"
	"github.com/unwraplabs/tyrion/internal/services/advisor"
	"github.com/unwraplabs/tyrion/internal/services/catalog"
	"github.com/unwraplabs/tyrion/internal/services/classifier"
	"github.com/unwraplabs/tyrion/internal/services/wallet"
	"github.com/unwraplabs/tyrion/internal/storage/catalogs"
	"github.com/unwraplabs/tyrion/internal/telegram"
	"github.com/unwraplabs/tyrion/internal/web"
)

// App is a fully wired advisor instance.
type App struct {
	Advisor   *advisor.Service
	Refresher *catalog.Refresher
	Web       *web.Server
	Telegram  *telegram.Bot

	store  *catalogs.WALStore
	logger *zap.Logger
}

// NewApp builds the advisor from the configuration. The Telegram bot is
// only created when TELEGRAM_BOT_TOKEN is set.
func NewApp(cfg config.Config, logger *zap.Logger) (*App, error) {
	provider, err := newBalanceProvider(cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "create balance provider")
	}

	source, err := newCatalogSource(cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "create catalog source")
	}

	store, err := catalogs.NewWALStore(cfg.WalDir)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog store")
	}

	refresher := catalog.NewRefresher(source, store, events.DefaultCatalogBroadcaster, cfg.RefreshInterval, logger)

	var llm clients.LLMClient
	if cfg.LLM.URL != "" {
		llm = clients.NewOpenAICompatibleClient(cfg.LLM.URL, cfg.LLM.APIKey, cfg.LLM.Model)
	}

	engine := advisor.NewEngine(logger)
	svc := advisor.NewService(engine, newClassifier(llm, logger), provider, refresher, logger)

	app := &App{
		Advisor:   svc,
		Refresher: refresher,
		Web:       web.NewServer(cfg.ServerAddr, svc, events.DefaultCatalogBroadcaster, refresher, logger),
		store:     store,
		logger:    logger,
	}

	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		bot, err := telegram.NewBot(token, svc, llm, logger)
		if err != nil {
			return nil, errors.Wrap(err, "create telegram bot")
		}
		app.Telegram = bot
	}

	return app, nil
}

// Run starts the refresh loop, the web server and the optional Telegram
// bot, and blocks until ctx is cancelled or a component fails.
func (a *App) Run(ctx context.Context, cfg config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 3)

	go func() {
		if err := a.Refresher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- errors.Wrap(err, "catalog refresher")
		}
	}()

	go func() {
		var err error
		if len(cfg.TLSDomains) > 0 {
			err = a.Web.StartWithAutoTLS(ctx, cfg.TLSDomains, cfg.TLSCacheDir)
		} else {
			err = a.Web.Start(ctx)
		}
		if err != nil {
			errCh <- errors.Wrap(err, "web server")
		}
	}()

	if a.Telegram != nil {
		go func() {
			if err := a.Telegram.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- errors.Wrap(err, "telegram bot")
			}
		}()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Close releases held resources.
func (a *App) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close catalog store", zap.Error(err))
	}
}

// newBalanceProvider is the single dispatch point for platform-specific
// balance lookups.
func newBalanceProvider(cfg config.Config, logger *zap.Logger) (wallet.BalanceProvider, error) {
	switch cfg.Platform {
	case "ethereum":
		return wallet.NewEthereumProvider(cfg.EthereumRPC, cfg.WalletAddress, cfg.Tokens, logger)
	case "binance":
		apiKey := os.Getenv("BINANCE_API_KEY")
		apiSecret := os.Getenv("BINANCE_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			return nil, errors.New("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
		}
		return wallet.NewBinanceProvider(binance.NewClient(apiKey, apiSecret), logger), nil
	case "bybit":
		apiKey := os.Getenv("BYBIT_API_KEY")
		apiSecret := os.Getenv("BYBIT_API_SECRET")
		if apiKey == "" || apiSecret == "" {
			return nil, errors.New("BYBIT_API_KEY and BYBIT_API_SECRET environment variables must be set")
		}
		return wallet.NewBybitProvider(bybit.NewClient().WithAuth(apiKey, apiSecret), logger), nil
	case "hyperliquid":
		privateKey := os.Getenv("HYPERLIQUID_PRIVATE_KEY")
		if privateKey == "" {
			return nil, errors.New("HYPERLIQUID_PRIVATE_KEY environment variable must be set")
		}
		client, err := clients.NewHyperliquidClient(privateKey, os.Getenv("HYPERLIQUID_API_URL"))
		if err != nil {
			return nil, errors.Wrap(err, "create hyperliquid client")
		}
		return wallet.NewHyperliquidProvider(client.Exchange(), client.AccountAddress(), logger)
	case "static":
		return wallet.NewStaticProvider(cfg.StaticBalances), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", cfg.Platform)
	}
}

func newCatalogSource(cfg config.Config, logger *zap.Logger) (catalog.Source, error) {
	switch {
	case cfg.CatalogFile != "":
		return catalog.NewFileSource(cfg.CatalogFile), nil
	case cfg.CatalogURL != "":
		return catalog.NewVesuClient(cfg.CatalogURL, logger), nil
	default:
		return nil, errors.New("no catalog source configured")
	}
}

// newClassifier prefers the LLM-backed classifier and degrades to the
// keyword rules when no endpoint is configured.
func newClassifier(llm clients.LLMClient, logger *zap.Logger) classifier.Classifier {
	if llm == nil {
		logger.Info("no LLM endpoint configured, using keyword classifier")
		return classifier.NewRuleClassifier()
	}
	return classifier.NewLLMClassifier(llm, logger)
}
