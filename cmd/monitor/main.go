package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"polymarket-whale-monitor/internal/classifier"
	"polymarket-whale-monitor/internal/config"
	"polymarket-whale-monitor/internal/database"
	"polymarket-whale-monitor/internal/logger"
	"polymarket-whale-monitor/internal/monitor"
	"polymarket-whale-monitor/internal/notify"
	"polymarket-whale-monitor/internal/polymarket"
	"polymarket-whale-monitor/internal/store"
	"polymarket-whale-monitor/internal/wallet"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Pull a local .env into the environment before viper reads it.
	_ = godotenv.Load()

	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		// We can't use the logger here because it's not initialized yet.
		panic(fmt.Sprintf("could not load config: %v", err))
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize the state database
	db, err := database.NewDatabase(cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open state database", zap.Error(err))
	}
	log.Info("State database ready", zap.String("dsn", cfg.Database.DSN))

	st := store.New(db,
		time.Duration(cfg.Store.SeenRetentionDays)*24*time.Hour,
		time.Duration(cfg.Store.WalletTTLDays)*24*time.Hour,
	)

	client := polymarket.NewClient(&cfg.Polymarket, log)
	resolver := wallet.NewResolver(log, st, client, st.WalletTTL())
	cls := classifier.New(log, cfg.Thresholds, cfg.Filters, st, resolver)
	notifier := notify.FromConfig(&cfg.Telegram, log)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	engine := monitor.NewEngine(log, &cfg, client, cls, st, notifier)

	switch cfg.Monitor.Mode {
	case "stream":
		err = engine.RunStream(ctx)
	default:
		err = engine.Run(ctx)
	}
	if err != nil {
		log.Fatal("Monitor aborted", zap.Error(err))
	}

	log.Info("Monitor has been shut down.")
}
