// Package monitor drives the polling runs: fetch a batch of recent
// trades, classify it, deliver alerts and prune the persistent store.
package monitor

import (
	"context"
	"time"

	"polymarket-whale-monitor/internal/classifier"
	"polymarket-whale-monitor/internal/config"
	"polymarket-whale-monitor/internal/notify"
	"polymarket-whale-monitor/internal/polymarket"

	"go.uber.org/zap"
)

// TradeSource fetches a batch of recent trades.
type TradeSource interface {
	GetRecentTrades(ctx context.Context, limit int) ([]polymarket.TradeRecord, error)
}

// TradeClassifier decides which trades in a batch are alert-worthy.
type TradeClassifier interface {
	Classify(ctx context.Context, batch []polymarket.TradeRecord, now time.Time) ([]classifier.Decision, error)
}

// Pruner removes expired rows from the persistent store.
type Pruner interface {
	Prune(now time.Time) error
}

// Engine is the run driver. It retains no state between runs beyond what
// the store persists.
type Engine struct {
	logger     *zap.Logger
	cfg        *config.Config
	source     TradeSource
	classifier TradeClassifier
	store      Pruner
	notifier   notify.Notifier
}

// NewEngine creates a new monitor engine.
func NewEngine(logger *zap.Logger, cfg *config.Config, source TradeSource, cls TradeClassifier, store Pruner, notifier notify.Notifier) *Engine {
	return &Engine{
		logger:     logger,
		cfg:        cfg,
		source:     source,
		classifier: cls,
		store:      store,
		notifier:   notifier,
	}
}

// Run starts the polling loop. It returns only on context cancellation or
// on a store failure, which aborts the monitor: without a working store
// the dedup guarantee is gone and continuing would double-alert.
func (e *Engine) Run(ctx context.Context) error {
	interval := time.Duration(e.cfg.Monitor.PollIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Info("Starting poll loop", zap.Duration("interval", interval))

	if err := e.runOnce(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Stopping monitor...")
			return nil
		case <-ticker.C:
			if err := e.runOnce(ctx); err != nil {
				return err
			}
		}
	}
}

// RunStream consumes the real-time activity feed instead of polling. Each
// received batch goes through the same classification path as a poll run.
func (e *Engine) RunStream(ctx context.Context) error {
	errCh := make(chan error, 1)
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := polymarket.NewStream(e.cfg.Polymarket.WSURL, e.logger, func(batch []polymarket.TradeRecord) {
		if err := e.ProcessBatch(streamCtx, batch, time.Now()); err != nil {
			select {
			case errCh <- err:
			default:
			}
			cancel()
		}
	})

	e.logger.Info("Starting stream mode", zap.String("url", e.cfg.Polymarket.WSURL))
	stream.Run(streamCtx)

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

// runOnce performs a single poll run. A failed fetch yields an empty
// batch: the monitor cannot tell a quiet feed from a broken one, and the
// next scheduled run is the retry.
func (e *Engine) runOnce(ctx context.Context) error {
	now := time.Now()

	trades, err := e.source.GetRecentTrades(ctx, e.cfg.Polymarket.FetchLimit)
	if err != nil {
		e.logger.Warn("Trade fetch failed, continuing with empty batch", zap.Error(err))
		trades = nil
	}

	return e.ProcessBatch(ctx, trades, now)
}

// ProcessBatch classifies a batch, delivers alerts for qualifying trades
// and prunes expired store rows. Store failures are returned and abort the
// run; delivery failures are logged and the alert stays marked seen.
func (e *Engine) ProcessBatch(ctx context.Context, batch []polymarket.TradeRecord, now time.Time) error {
	decisions, err := e.classifier.Classify(ctx, batch, now)
	if err != nil {
		return err
	}

	alerts := 0
	for _, d := range decisions {
		if !d.Alert() {
			continue
		}
		alerts++

		e.logger.Info("Whale trade detected",
			zap.Strings("tiers", d.Tiers),
			zap.Float64("value_usd", d.ValueUSD),
			zap.String("wallet", d.Trade.ProxyWallet),
			zap.String("market", d.Trade.Title),
			zap.Bool("new_account", d.NewAccount),
		)

		if err := e.notifier.Send(ctx, FormatAlert(d, now)); err != nil {
			e.logger.Error("Alert delivery failed", zap.Error(err))
		}
	}

	if err := e.store.Prune(now); err != nil {
		return err
	}

	e.logger.Debug("Run complete",
		zap.Int("batch_size", len(batch)),
		zap.Int("classified", len(decisions)),
		zap.Int("alerts", alerts),
	)
	return nil
}
