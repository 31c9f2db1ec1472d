package di

import (
	"fmt"

	drepo "CoinSentry/internal/domain/repository"
	internalrepo "CoinSentry/internal/repository"
	"CoinSentry/internal/service/binance"
	"CoinSentry/internal/service/coingecko"
	"CoinSentry/internal/service/mailer"
	"CoinSentry/internal/usecase"
	"CoinSentry/pkg/cache"
	"CoinSentry/pkg/config"
	pkgkafka "CoinSentry/pkg/kafka"
	"CoinSentry/pkg/logger"
	"CoinSentry/pkg/metrics"
	"CoinSentry/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() drepo.Metrics {
	return metrics.New()
}

// ProvideFundingCache builds the funding-rate cache: in-memory by
// default, layered over Redis when configured.
func ProvideFundingCache(cfg *config.Config) cache.Cache {
	mem := cache.NewMemory()
	if !cfg.Redis.Enabled {
		return mem
	}
	rc := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, "coinsentry")
	return cache.NewLayered(mem, rc)
}

// ProvideMarketSource creates the CoinGecko fetcher.
func ProvideMarketSource(cfg *config.Config, m drepo.Metrics, l *logger.Logger) drepo.MarketSource {
	return coingecko.New(
		cfg.CoinGecko.BaseURL,
		cfg.Scanner.RequestTimeout,
		cfg.Scanner.RateLimitPause,
		m,
		l,
	)
}

// ProvideFundingSource creates the optional derivatives-data
// capability. Returns nil when disabled; the evaluator degrades to
// "no funding data".
func ProvideFundingSource(cfg *config.Config, c cache.Cache, m drepo.Metrics, l *logger.Logger) drepo.FundingSource {
	if !cfg.Funding.Enabled {
		return nil
	}
	return binance.New(
		cfg.Funding.BaseURL,
		cfg.Scanner.RequestTimeout,
		cfg.Funding.CacheTTL,
		c,
		m,
		l,
	)
}

// ProvideNotifier creates the SMTP notification channel.
func ProvideNotifier(cfg *config.Config, l *logger.Logger) drepo.Notifier {
	return mailer.New(mailer.Config{
		Server:     cfg.SMTP.Server,
		Port:       cfg.SMTP.Port,
		User:       cfg.SMTP.User,
		Password:   cfg.SMTP.Password,
		Recipient:  cfg.SMTP.Recipient,
		SenderName: cfg.SMTP.SenderName,
		Timeout:    cfg.SMTP.Timeout,
	}, l)
}

// ProvideCandidatePublisher creates the Kafka candidate publisher when
// brokers are configured, nil otherwise.
func ProvideCandidatePublisher(cfg *config.Config) (drepo.CandidatePublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaCandidatePublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideEvaluator creates the signal evaluator.
func ProvideEvaluator(cfg *config.Config, funding drepo.FundingSource, m drepo.Metrics, l *logger.Logger) *usecase.Evaluator {
	return usecase.NewEvaluator(funding, m, l, usecase.Thresholds{
		Min1hPct:         cfg.Scanner.Min1hPct,
		Min24hPct:        cfg.Scanner.Min24hPct,
		VolumeMultiplier: cfg.Scanner.VolumeMultiplier,
	})
}

// ProvideRunner creates the scan runner.
func ProvideRunner(
	cfg *config.Config,
	market drepo.MarketSource,
	eval *usecase.Evaluator,
	notifier drepo.Notifier,
	publisher drepo.CandidatePublisher,
	m drepo.Metrics,
	l *logger.Logger,
) *usecase.Runner {
	return usecase.NewRunner(market, eval, notifier, publisher, m, l, usecase.RunnerConfig{
		Currency: cfg.Scanner.Currency,
		RankMin:  cfg.Scanner.RankMin,
		RankMax:  cfg.Scanner.RankMax,
		TopN:     cfg.Scanner.TopN,
	})
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, runner *usecase.Runner, publisher drepo.CandidatePublisher, l *logger.Logger) *server.App {
	return server.New(cfg, runner, publisher, l)
}
