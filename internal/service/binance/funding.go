package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"CoinSentry/internal/domain/models"
	drepo "CoinSentry/internal/domain/repository"
	"CoinSentry/pkg/cache"
	xhttp "CoinSentry/pkg/http"
	"CoinSentry/pkg/logger"
)

// FundingClient looks up perpetual funding rates on Binance USD-M
// futures. It is a best-effort capability: callers tolerate every
// error it returns.
type FundingClient struct {
	http    *xhttp.Client
	baseURL string
	cache   cache.Cache
	ttl     time.Duration
	metrics drepo.Metrics
	log     *logger.Logger
}

// New creates a Binance FundingSource backed by a TTL cache.
func New(baseURL string, timeout, cacheTTL time.Duration, c cache.Cache, metrics drepo.Metrics, log *logger.Logger) drepo.FundingSource {
	return &FundingClient{
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		baseURL: baseURL,
		cache:   c,
		ttl:     cacheTTL,
		metrics: metrics,
		log:     log,
	}
}

// premiumIndex mirrors /fapi/v1/premiumIndex. Binance encodes the rate
// as a decimal string.
type premiumIndex struct {
	Symbol          string `json:"symbol"`
	MarkPrice       string `json:"markPrice"`
	LastFundingRate string `json:"lastFundingRate"`
	NextFundingTime int64  `json:"nextFundingTime"`
	Time            int64  `json:"time"`
}

// FundingRate resolves one exchange-format symbol guess such as
// "BTC/USDT" or "BTC/USDT:USDT" to a funding rate.
func (f *FundingClient) FundingRate(ctx context.Context, symbol string) (*models.FundingRate, error) {
	venueSymbol := toVenueSymbol(symbol)
	if venueSymbol == "" {
		return nil, fmt.Errorf("binance: empty symbol")
	}

	cacheKey := "funding:binance:" + venueSymbol
	if f.cache != nil {
		if b, ok, _ := f.cache.Get(ctx, cacheKey); ok {
			var fr models.FundingRate
			if err := json.Unmarshal(b, &fr); err == nil {
				return &fr, nil
			}
		}
	}

	start := time.Now()
	var idx premiumIndex
	err := f.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: "GET",
		URL:    f.baseURL + "/fapi/v1/premiumIndex",
		QueryParams: map[string][]string{
			"symbol": {venueSymbol},
		},
	}, &idx)
	if f.metrics != nil {
		f.metrics.RecordProviderLatency("binance", time.Since(start).Seconds())
	}
	if err != nil {
		return nil, fmt.Errorf("binance premium index %s: %w", venueSymbol, err)
	}

	fr := &models.FundingRate{
		Venue:  "binance",
		Symbol: symbol,
	}
	if rate, perr := strconv.ParseFloat(idx.LastFundingRate, 64); perr == nil {
		fr.Rate = &rate
	} else {
		// keep the raw payload for display when the rate is not numeric
		raw, _ := json.Marshal(idx)
		fr.Detail = string(raw)
	}

	if f.cache != nil {
		if b, merr := json.Marshal(fr); merr == nil {
			_ = f.cache.Set(ctx, cacheKey, b, f.ttl)
		}
	}

	return fr, nil
}

// toVenueSymbol maps guesses like BTC/USDT, BTC/USD and BTC/USDT:USDT
// to the Binance futures format (BTCUSDT, BTCUSD).
func toVenueSymbol(symbol string) string {
	s := symbol
	if i := strings.Index(s, ":"); i >= 0 {
		s = s[:i]
	}
	s = strings.ReplaceAll(s, "/", "")
	return strings.ToUpper(strings.TrimSpace(s))
}
