package polymarket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestClient creates a test server and a Client configured to use it.
func setupTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := &Client{
		client:  resty.New().SetBaseURL(server.URL),
		logger:  zap.NewNop(),
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}
	return c, server
}

func TestGetRecentTrades(t *testing.T) {
	// The feed is inconsistent about quoting numerics; both forms must decode.
	body := `[
		{
			"proxyWallet": "0xwallet1",
			"side": "BUY",
			"size": "1000",
			"price": "0.08",
			"timestamp": 1700000000,
			"title": "Will it rain tomorrow?",
			"slug": "will-it-rain-tomorrow",
			"transactionHash": "0xaaa"
		},
		{
			"proxyWallet": "0xwallet2",
			"side": "SELL",
			"size": 250.5,
			"price": 0.4,
			"usdcSize": 100.2,
			"timestamp": 1700000100,
			"title": "Fed rate cut in March?"
		}
	]`

	c, server := setupTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/trades", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer server.Close()

	trades, err := c.GetRecentTrades(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, trades, 2)

	assert.Equal(t, "0xwallet1", trades[0].ProxyWallet)
	assert.Equal(t, Numeric("1000"), trades[0].Size)
	assert.Equal(t, Numeric("0.08"), trades[0].Price)
	assert.Equal(t, "0xaaa", trades[0].Key())

	assert.Equal(t, Numeric("250.5"), trades[1].Size)
	assert.Equal(t, Numeric("100.2"), trades[1].UsdcSize)
}

func TestGetRecentTradesServerError(t *testing.T) {
	c, server := setupTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := c.GetRecentTrades(context.Background(), 100)
	assert.Error(t, err)
}

func TestGetEarliestTradeTS(t *testing.T) {
	c, server := setupTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/activity", r.URL.Path)
		assert.Equal(t, "0xwallet", r.URL.Query().Get("user"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "TIMESTAMP", r.URL.Query().Get("sortBy"))
		assert.Equal(t, "ASC", r.URL.Query().Get("sortDirection"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"proxyWallet": "0xwallet", "timestamp": 1600000000}]`))
	}))
	defer server.Close()

	ts, found, err := c.GetEarliestTradeTS(context.Background(), "0xwallet")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(1600000000), ts)
}

func TestGetEarliestTradeTSNoHistory(t *testing.T) {
	c, server := setupTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	// An empty history is a successful lookup, not an error.
	_, found, err := c.GetEarliestTradeTS(context.Background(), "0xfresh")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetEarliestTradeTSFailure(t *testing.T) {
	c, server := setupTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, _, err := c.GetEarliestTradeTS(context.Background(), "0xwallet")
	assert.Error(t, err)
}
