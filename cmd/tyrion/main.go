// Command tyrion runs the DeFi yield advisor. It serves advice over
// HTTP and optionally over Telegram, keeping the pool catalog fresh in
// the background.
//
// Usage:
//
//	tyrion --config config.yaml
//	tyrion setup   (interactive wizard, writes config.gen.yaml)
//	tyrion         (uses CLI arguments)
//
// Optional environment variables:
//
//	TELEGRAM_BOT_TOKEN enables the Telegram front end
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
//	For Hyperliquid: HYPERLIQUID_PRIVATE_KEY
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/unwraplabs/tyrion/config"
	"github.com/unwraplabs/tyrion/internal"
	"github.com/unwraplabs/tyrion/internal/setup"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) > 1 && os.Args[1] == "setup" {
		if err := setup.RunTUI(); err != nil {
			log.Fatal(err)
		}
		os.Args = append(os.Args[:1], "--config", "config.gen.yaml")
	}

	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	app, err := internal.NewApp(cfg, logger)
	if err != nil {
		logger.Fatal("failed to build advisor", zap.Error(err))
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		logger.Fatal("advisor stopped", zap.Error(err))
	}
}
