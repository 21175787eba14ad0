// Package notify delivers formatted alert text to an external channel.
// Delivery is best effort: a failed send is logged by the caller and never
// retried, and it has no effect on the persistent store.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier accepts a formatted alert payload and attempts delivery.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// LogNotifier writes alerts to the application log. It is the fallback
// sink when no delivery channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only sink.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the alert text.
func (n *LogNotifier) Send(_ context.Context, text string) error {
	n.logger.Info("ALERT\n" + text)
	return nil
}
