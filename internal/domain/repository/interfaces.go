package repository

import (
	"context"

	"CoinSentry/internal/domain/models"
)

// MarketSource retrieves one page of ranked market records from the
// external provider. Implementations must return an error on a
// non-success response or an empty result, and must observe the
// configured courtesy pause after each network call.
type MarketSource interface {
	FetchMarkets(ctx context.Context, currency string, perPage, page int) ([]models.MarketRecord, error)
}

// FundingSource is the optional derivatives-data capability. The symbol
// is one exchange-format guess (e.g. "BTC/USDT"); callers try guesses
// in order and tolerate any error.
type FundingSource interface {
	FundingRate(ctx context.Context, symbol string) (*models.FundingRate, error)
}

// Notifier delivers a rendered report over the configured channel. An
// unconfigured channel yields a skipped outcome, never an error.
type Notifier interface {
	Send(ctx context.Context, subject, htmlBody string) models.SendOutcome
}

// CandidatePublisher emits candidate events to a message broker.
type CandidatePublisher interface {
	PublishCandidates(ctx context.Context, report *models.ScanReport) error
	Close() error
}

// Metrics records operational counters for the scan pipeline.
type Metrics interface {
	RecordScan(result string)
	RecordCandidates(n int)
	RecordProviderLatency(provider string, seconds float64)
	RecordError(kind string)
	RecordNotification(result string)
}
