package coingecko

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"CoinSentry/internal/domain/models"
	drepo "CoinSentry/internal/domain/repository"
	xhttp "CoinSentry/pkg/http"
	"CoinSentry/pkg/logger"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// ErrNoMarketData reports an empty markets payload. The caller treats
// this as fatal for the run.
var ErrNoMarketData = errors.New("coingecko: no market data")

// Client fetches ranked market snapshots from the CoinGecko
// /coins/markets endpoint.
type Client struct {
	http    *xhttp.Client
	baseURL string
	pause   time.Duration
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	metrics drepo.Metrics
	log     *logger.Logger
}

// New creates a CoinGecko MarketSource. pause is the courtesy delay
// observed after every upstream call.
func New(baseURL string, timeout, pause time.Duration, metrics drepo.Metrics, log *logger.Logger) drepo.MarketSource {
	limit := rate.Inf
	if pause > 0 {
		limit = rate.Every(pause)
	}
	return &Client{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: baseURL,
		pause:   pause,
		limiter: rate.NewLimiter(limit, 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "coingecko",
			Timeout: 30 * time.Second,
		}),
		metrics: metrics,
		log:     log,
	}
}

// marketRow mirrors the provider payload. Pointer fields may be null
// in the JSON.
type marketRow struct {
	ID                  string   `json:"id"`
	Symbol              string   `json:"symbol"`
	Name                string   `json:"name"`
	MarketCapRank       *int     `json:"market_cap_rank"`
	CurrentPrice        *float64 `json:"current_price"`
	TotalVolume         *float64 `json:"total_volume"`
	Change1hInCurrency  *float64 `json:"price_change_percentage_1h_in_currency"`
	Change24hInCurrency *float64 `json:"price_change_percentage_24h_in_currency"`
	Change24h           *float64 `json:"price_change_percentage_24h"`
}

// FetchMarkets retrieves one page of markets ordered by descending
// market cap, requesting 1h and 24h percent-change windows.
func (c *Client) FetchMarkets(ctx context.Context, currency string, perPage, page int) ([]models.MarketRecord, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("coingecko rate wait: %w", err)
	}

	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		var rows []marketRow
		err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: "GET",
			URL:    c.baseURL + "/coins/markets",
			Headers: map[string]string{
				"Accept": "application/json",
			},
			QueryParams: map[string][]string{
				"vs_currency":             {currency},
				"order":                   {"market_cap_desc"},
				"per_page":                {strconv.Itoa(perPage)},
				"page":                    {strconv.Itoa(page)},
				"price_change_percentage": {"1h,24h"},
			},
		}, &rows)
		if err != nil {
			return nil, err
		}
		return rows, nil
	})
	if c.metrics != nil {
		c.metrics.RecordProviderLatency("coingecko", time.Since(start).Seconds())
	}
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordError("fetch_markets")
		}
		return nil, fmt.Errorf("coingecko markets: %w", err)
	}

	rows := result.([]marketRow)
	if len(rows) == 0 {
		if c.metrics != nil {
			c.metrics.RecordError("fetch_markets")
		}
		return nil, ErrNoMarketData
	}

	records := make([]models.MarketRecord, 0, len(rows))
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = r.ID
		}
		// 24h may come in-currency or as the plain field depending on
		// the requested windows; 1h only exists in-currency.
		change24h := r.Change24hInCurrency
		if change24h == nil {
			change24h = r.Change24h
		}
		records = append(records, models.MarketRecord{
			ID:        r.ID,
			Symbol:    r.Symbol,
			Name:      name,
			Rank:      r.MarketCapRank,
			Price:     r.CurrentPrice,
			Volume:    r.TotalVolume,
			Change1h:  r.Change1hInCurrency,
			Change24h: change24h,
		})
	}

	c.pace(ctx)
	return records, nil
}

// pace blocks for the courtesy pause before returning control, so
// consecutive calls respect the provider's rate limits.
func (c *Client) pace(ctx context.Context) {
	if c.pause <= 0 {
		return
	}
	t := time.NewTimer(c.pause)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
