//go:build wireinject
// +build wireinject

package di

import (
	"CoinSentry/pkg/config"
	"CoinSentry/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideFundingCache,
		ProvideMarketSource,
		ProvideFundingSource,
		ProvideNotifier,
		ProvideCandidatePublisher,

		// Use cases
		ProvideEvaluator,
		ProvideRunner,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
