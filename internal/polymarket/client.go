package polymarket

import (
	"context"
	"fmt"

	"polymarket-whale-monitor/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultDataAPIURL = "https://data-api.polymarket.com"

// ClientInterface defines the interface for the Polymarket data-api client.
type ClientInterface interface {
	GetRecentTrades(ctx context.Context, limit int) ([]TradeRecord, error)
	GetEarliestTradeTS(ctx context.Context, wallet string) (int64, bool, error)
}

// Client is a client for the Polymarket data-api. It covers the two
// endpoints the monitor needs: the recent-trades feed and the per-wallet
// activity history. Requests are rate limited but never retried; a failed
// call is simply retried by the next scheduled run.
type Client struct {
	client  *resty.Client
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new Polymarket data-api client.
func NewClient(cfg *config.Polymarket, logger *zap.Logger) *Client {
	url := cfg.DataAPIURL
	if url == "" {
		url = defaultDataAPIURL
	}

	client := resty.New().SetBaseURL(url)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		logger:  logger,
		limiter: limiter,
	}
}

// doRequest executes a request after waiting for the rate limiter.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
	resp, err := req.SetContext(ctx).Execute(method, url)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
	}
	return resp, nil
}

// GetRecentTrades fetches the most recent trades from the activity feed,
// newest first.
func (c *Client) GetRecentTrades(ctx context.Context, limit int) ([]TradeRecord, error) {
	var trades []TradeRecord

	req := c.client.R().
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&trades)

	if _, err := c.doRequest(ctx, "GET", "/trades", req); err != nil {
		return nil, fmt.Errorf("failed to get recent trades: %w", err)
	}

	return trades, nil
}

// GetEarliestTradeTS fetches the timestamp of a wallet's earliest recorded
// trade. The second return value is false when the wallet has no trade
// history at all, which is a successful lookup, not an error.
func (c *Client) GetEarliestTradeTS(ctx context.Context, wallet string) (int64, bool, error) {
	var activity []TradeRecord

	req := c.client.R().
		SetQueryParams(map[string]string{
			"user":          wallet,
			"limit":         "1",
			"sortBy":        "TIMESTAMP",
			"sortDirection": "ASC",
		}).
		SetResult(&activity)

	if _, err := c.doRequest(ctx, "GET", "/activity", req); err != nil {
		return 0, false, fmt.Errorf("failed to get activity for wallet %s: %w", wallet, err)
	}

	if len(activity) == 0 {
		return 0, false, nil
	}
	return activity[0].Timestamp, true, nil
}
