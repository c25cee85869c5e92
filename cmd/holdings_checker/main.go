package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"holdings_checker/internal/app/service"
	"holdings_checker/internal/client"
	"holdings_checker/internal/config"
	"holdings_checker/internal/infrastructure/hintloader"
	"holdings_checker/internal/infrastructure/restapi"
	"holdings_checker/internal/pkg/metrics"
	"holdings_checker/internal/pkg/tokenlist"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Bootstrap logging with logrus until the real config is loaded.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Debugf("No .env file loaded: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapCfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(cfg.Logging.Level); err == nil {
		zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	} else {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
	}
	zapLogger, err := zapCfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	// Route slog through the zap core so both APIs share one sink.
	slogHandler := zapslog.NewHandler(zapLogger.Core(), &zapslog.HandlerOptions{})
	slog.SetDefault(slog.New(slogHandler))

	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	ledgerClient := client.NewLedgerClient(cfg.Ledger, zapLogger)
	registryClient := client.NewJupiterTokenClient(cfg.Jupiter, zapLogger)
	oracleClient := client.NewJupiterPriceClient(cfg.Jupiter, zapLogger)
	birdeyeClient := client.NewBirdeyeClient(cfg.Birdeye, zapLogger)
	dexClient := client.NewDEXScreenerClient(cfg.DEXScreener, zapLogger)
	spotClient := client.NewCoinGeckoClient(cfg.CoinGecko, zapLogger)

	catalogue := tokenlist.NewCache(
		func(ctx context.Context) (map[string]tokenlist.Entry, error) {
			tokens, err := registryClient.GetAllTokens(ctx)
			if err != nil {
				return nil, err
			}
			entries := make(map[string]tokenlist.Entry, len(tokens))
			for _, t := range tokens {
				entries[t.Address] = tokenlist.Entry{
					Symbol:   t.Symbol,
					Decimals: uint8(t.Decimals),
					LogoURI:  t.LogoURI,
				}
			}
			return entries, nil
		},
		time.Duration(cfg.TokenList.TTLHours)*time.Hour,
		time.Now,
		zapLogger,
	)

	hints := hintloader.NewHintLoader(cfg.TokenList.HintsFilePath, slog.Info, slog.Warn).LoadHints()

	pairFallback := service.NewPairFallback(dexClient, zapLogger)
	metadataSvc := service.NewMetadataService(registryClient, birdeyeClient, hints, zapLogger)
	priceSvc := service.NewPriceService(cfg.PriceSvc, oracleClient, pairFallback, spotClient, zapLogger)
	logoSvc := service.NewLogoService(catalogue, pairFallback, zapLogger)
	holdingsSvc := service.NewHoldingsService(ledgerClient, metadataSvc, priceSvc, logoSvc, zapLogger)
	zapLogger.Info("Holdings service initialized")

	handler := restapi.NewHoldingsHandler(holdingsSvc, zapLogger)
	router := restapi.SetupRouter(handler, zapLogger)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
