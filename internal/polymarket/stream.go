package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Reconnection parameters for the real-time data stream.
const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 60 * time.Second
	backoffFactor  = 2.0
	jitterPercent  = 0.2

	writeTimeout = 10 * time.Second
)

// StreamMessage is the envelope of a real-time data service message.
type StreamMessage struct {
	Topic   string            `json:"topic"`
	Type    string            `json:"type"`
	Payload []json.RawMessage `json:"payload"`
}

// streamTradeEnvelope wraps a trade in the activity payload. Some feed
// revisions nest the trade under a "trade" key, others inline it.
type streamTradeEnvelope struct {
	Trade *TradeRecord `json:"trade"`
}

// subscribeRequest is the subscription handshake sent after connecting.
type subscribeRequest struct {
	Subscriptions []subscription `json:"subscriptions"`
}

type subscription struct {
	Topic string `json:"topic"`
	Type  string `json:"type"`
}

// ParseStreamMessage extracts trade records from a raw stream message.
// Messages for other topics or types yield an empty batch.
func ParseStreamMessage(data []byte) ([]TradeRecord, error) {
	var msg StreamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stream message: %w", err)
	}

	if msg.Topic != "activity" || msg.Type != "trades" {
		return nil, nil
	}

	trades := make([]TradeRecord, 0, len(msg.Payload))
	for _, raw := range msg.Payload {
		var trade TradeRecord

		var env streamTradeEnvelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Trade != nil {
			trade = *env.Trade
		} else if err := json.Unmarshal(raw, &trade); err != nil {
			return trades, fmt.Errorf("failed to unmarshal trade payload: %w", err)
		}

		// An element with neither a wallet nor a transaction hash carries
		// nothing classifiable; its composite key would collide with every
		// other empty element.
		if trade.ProxyWallet == "" && trade.TransactionHash == "" {
			continue
		}
		trades = append(trades, trade)
	}

	return trades, nil
}

// Stream maintains a WebSocket subscription to the real-time trade
// activity feed and hands each decoded batch to the handler. It reconnects
// with exponential backoff until the context is cancelled.
type Stream struct {
	url     string
	logger  *zap.Logger
	handler func([]TradeRecord)
	backoff time.Duration
}

// NewStream creates a new activity stream listener.
func NewStream(url string, logger *zap.Logger, handler func([]TradeRecord)) *Stream {
	return &Stream{
		url:     url,
		logger:  logger,
		handler: handler,
		backoff: initialBackoff,
	}
}

// Run connects and reads until the context is cancelled. Connection and
// read failures trigger a reconnect after a backoff delay.
func (s *Stream) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stream stopped")
			return
		default:
		}

		conn, err := s.connect(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn("Stream connect failed, retrying...",
					zap.Error(err),
					zap.Duration("backoff", s.backoff),
				)
			}
			s.waitBackoff(ctx)
			continue
		}

		err = s.readLoop(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			s.logger.Info("Stream stopped")
			return
		}

		s.logger.Warn("Stream disconnected, reconnecting...",
			zap.Error(err),
			zap.Duration("backoff", s.backoff),
		)
		s.waitBackoff(ctx)
	}
}

// connect dials the feed and subscribes to trade activity. A successful
// subscription resets the reconnect backoff, so a drop after a long
// healthy session is retried promptly instead of at the accumulated cap.
func (s *Stream) connect(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", s.url, err)
	}

	sub := subscribeRequest{
		Subscriptions: []subscription{{Topic: "activity", Type: "trades"}},
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set write deadline: %w", err)
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	s.backoff = initialBackoff
	s.logger.Info("Stream connected, subscribed to trade activity", zap.String("url", s.url))
	return conn, nil
}

// readLoop reads messages until an error occurs. The cancellation watcher
// is scoped to this connection: it exits when the loop returns, not when
// the stream context ends, so reconnects do not accumulate goroutines.
func (s *Stream) readLoop(ctx context.Context, conn *websocket.Conn) error {
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}

		trades, err := ParseStreamMessage(data)
		if err != nil {
			s.logger.Warn("Skipping malformed stream message", zap.Error(err))
			continue
		}
		if len(trades) > 0 {
			s.handler(trades)
		}
	}
}

// waitBackoff sleeps for the current backoff, then grows it towards the
// cap for the next attempt.
func (s *Stream) waitBackoff(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(withJitter(s.backoff)):
	}

	s.backoff = time.Duration(float64(s.backoff) * backoffFactor)
	if s.backoff > maxBackoff {
		s.backoff = maxBackoff
	}
}

// withJitter spreads reconnect attempts by up to ±20%.
func withJitter(d time.Duration) time.Duration {
	jitter := float64(d) * jitterPercent * (2*rand.Float64() - 1)
	return d + time.Duration(jitter)
}
