package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"polymarket-whale-monitor/internal/classifier"
	"polymarket-whale-monitor/internal/config"
	"polymarket-whale-monitor/internal/polymarket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClassifier struct {
	decisions []classifier.Decision
	err       error
	batches   [][]polymarket.TradeRecord
}

func (c *fakeClassifier) Classify(_ context.Context, batch []polymarket.TradeRecord, _ time.Time) ([]classifier.Decision, error) {
	c.batches = append(c.batches, batch)
	return c.decisions, c.err
}

type fakePruner struct {
	calls int
	err   error
}

func (p *fakePruner) Prune(_ time.Time) error {
	p.calls++
	return p.err
}

type fakeNotifier struct {
	sent []string
	err  error
}

func (n *fakeNotifier) Send(_ context.Context, text string) error {
	n.sent = append(n.sent, text)
	return n.err
}

type fakeSource struct {
	trades []polymarket.TradeRecord
	err    error
}

func (s *fakeSource) GetRecentTrades(_ context.Context, _ int) ([]polymarket.TradeRecord, error) {
	return s.trades, s.err
}

func testEngine(source TradeSource, cls TradeClassifier, pruner Pruner, notifier *fakeNotifier) *Engine {
	cfg := &config.Config{
		Monitor:    config.Monitor{PollIntervalSeconds: 60},
		Polymarket: config.Polymarket{FetchLimit: 100},
	}
	return NewEngine(zap.NewNop(), cfg, source, cls, pruner, notifier)
}

func alertDecision(value float64) classifier.Decision {
	return classifier.Decision{
		Trade: polymarket.TradeRecord{
			ProxyWallet: "0xwallet",
			Side:        polymarket.OrderSideBuy,
			Title:       "Will it rain tomorrow?",
		},
		TradeKey: "0xaaa",
		ValueUSD: value,
		Tiers:    []string{classifier.TierWhale},
	}
}

func TestProcessBatchDeliversAlertsAndPrunes(t *testing.T) {
	cls := &fakeClassifier{decisions: []classifier.Decision{
		alertDecision(15000),
		{TradeKey: "0xbbb"}, // below thresholds, no tiers
	}}
	pruner := &fakePruner{}
	notifier := &fakeNotifier{}
	e := testEngine(&fakeSource{}, cls, pruner, notifier)

	err := e.ProcessBatch(context.Background(), nil, time.Unix(1_700_000_000, 0))
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1, "only alert-worthy decisions are delivered")
	assert.Contains(t, notifier.sent[0], "0xwallet")
	assert.Equal(t, 1, pruner.calls)
}

func TestProcessBatchDeliveryFailureIsNotFatal(t *testing.T) {
	cls := &fakeClassifier{decisions: []classifier.Decision{alertDecision(15000)}}
	pruner := &fakePruner{}
	notifier := &fakeNotifier{err: errors.New("telegram down")}
	e := testEngine(&fakeSource{}, cls, pruner, notifier)

	err := e.ProcessBatch(context.Background(), nil, time.Unix(1_700_000_000, 0))
	require.NoError(t, err, "delivery failure must not abort the run")
	assert.Equal(t, 1, pruner.calls, "prune still runs after a failed delivery")
}

func TestProcessBatchStoreFailureIsFatal(t *testing.T) {
	storeErr := errors.New("database is locked")

	t.Run("classifier store error", func(t *testing.T) {
		cls := &fakeClassifier{err: storeErr}
		pruner := &fakePruner{}
		e := testEngine(&fakeSource{}, cls, pruner, &fakeNotifier{})

		err := e.ProcessBatch(context.Background(), nil, time.Unix(1_700_000_000, 0))
		assert.ErrorIs(t, err, storeErr)
		assert.Equal(t, 0, pruner.calls)
	})

	t.Run("prune error", func(t *testing.T) {
		cls := &fakeClassifier{}
		pruner := &fakePruner{err: storeErr}
		e := testEngine(&fakeSource{}, cls, pruner, &fakeNotifier{})

		err := e.ProcessBatch(context.Background(), nil, time.Unix(1_700_000_000, 0))
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestRunOnceTreatsFetchFailureAsEmptyBatch(t *testing.T) {
	cls := &fakeClassifier{}
	pruner := &fakePruner{}
	source := &fakeSource{err: errors.New("connection refused")}
	e := testEngine(source, cls, pruner, &fakeNotifier{})

	err := e.runOnce(context.Background())
	require.NoError(t, err, "a failed fetch is indistinguishable from a quiet feed")

	require.Len(t, cls.batches, 1)
	assert.Empty(t, cls.batches[0])
	assert.Equal(t, 1, pruner.calls)
}
