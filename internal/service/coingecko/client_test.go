package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinSentry/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	// Zero pause keeps the courtesy delay out of the test path.
	return New(baseURL, 5*time.Second, 0, nil, testLogger(t)).(*Client)
}

func TestFetchMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/markets", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "usd", q.Get("vs_currency"))
		assert.Equal(t, "market_cap_desc", q.Get("order"))
		assert.Equal(t, "250", q.Get("per_page"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "1h,24h", q.Get("price_change_percentage"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": "bitcoin",
				"symbol": "btc",
				"name": "Bitcoin",
				"market_cap_rank": 1,
				"current_price": 65000.5,
				"total_volume": 35000000000,
				"price_change_percentage_1h_in_currency": 0.42,
				"price_change_percentage_24h_in_currency": 1.8
			},
			{
				"id": "mystery",
				"symbol": "mys",
				"market_cap_rank": null,
				"current_price": null,
				"total_volume": null,
				"price_change_percentage_24h": -2.1
			}
		]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	records, err := client.FetchMarkets(context.Background(), "usd", 250, 1)
	require.NoError(t, err)
	require.Len(t, records, 2)

	btc := records[0]
	assert.Equal(t, "bitcoin", btc.ID)
	assert.Equal(t, "Bitcoin", btc.Name)
	require.NotNil(t, btc.Rank)
	assert.Equal(t, 1, *btc.Rank)
	require.NotNil(t, btc.Change1h)
	assert.InDelta(t, 0.42, *btc.Change1h, 1e-9)
	require.NotNil(t, btc.Change24h)
	assert.InDelta(t, 1.8, *btc.Change24h, 1e-9)

	mys := records[1]
	// Name falls back to the id, 24h falls back to the plain field.
	assert.Equal(t, "mystery", mys.Name)
	assert.Nil(t, mys.Rank)
	assert.Nil(t, mys.Price)
	assert.Nil(t, mys.Volume)
	assert.Nil(t, mys.Change1h)
	require.NotNil(t, mys.Change24h)
	assert.InDelta(t, -2.1, *mys.Change24h, 1e-9)
}

func TestFetchMarketsEmptyPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.FetchMarkets(context.Background(), "usd", 250, 1)
	assert.ErrorIs(t, err, ErrNoMarketData)
}

func TestFetchMarketsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)
	_, err := client.FetchMarkets(context.Background(), "usd", 250, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coingecko markets")
}

func TestFetchMarketsCourtesyPause(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`[{"id":"bitcoin","symbol":"btc","name":"Bitcoin","market_cap_rank":1}]`))
	}))
	defer srv.Close()

	pause := 50 * time.Millisecond
	client := New(srv.URL, 5*time.Second, pause, nil, testLogger(t)).(*Client)

	start := time.Now()
	_, err := client.FetchMarkets(context.Background(), "usd", 10, 1)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), pause)
}
