package usecase

import (
	"context"
	"fmt"
	"sync"

	"CoinSentry/internal/domain/models"
	drepo "CoinSentry/internal/domain/repository"
	"CoinSentry/pkg/logger"
)

// RunnerConfig holds the per-run scan parameters.
type RunnerConfig struct {
	Currency string
	RankMin  int
	RankMax  int
	TopN     int
}

// Runner drives one full scan: fetch, evaluate, notify, publish. Scans
// are serialized; the design assumes at most one active run.
type Runner struct {
	market    drepo.MarketSource
	eval      *Evaluator
	notifier  drepo.Notifier
	publisher drepo.CandidatePublisher // optional, may be nil
	metrics   drepo.Metrics
	log       *logger.Logger
	cfg       RunnerConfig

	mu sync.Mutex // one scan at a time

	latestMu sync.RWMutex
	latest   *models.ScanReport
}

// NewRunner creates a scan Runner.
func NewRunner(
	market drepo.MarketSource,
	eval *Evaluator,
	notifier drepo.Notifier,
	publisher drepo.CandidatePublisher,
	metrics drepo.Metrics,
	log *logger.Logger,
	cfg RunnerConfig,
) *Runner {
	return &Runner{
		market:    market,
		eval:      eval,
		notifier:  notifier,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		cfg:       cfg,
	}
}

// RunScan executes a scan over the configured rank window.
func (r *Runner) RunScan(ctx context.Context) (*models.ScanReport, error) {
	return r.RunScanWindow(ctx, r.cfg.RankMin, r.cfg.RankMax)
}

// RunScanOverride executes a scan where zero bounds fall back to the
// configured window.
func (r *Runner) RunScanOverride(ctx context.Context, rankMin, rankMax int) (*models.ScanReport, error) {
	if rankMin <= 0 {
		rankMin = r.cfg.RankMin
	}
	if rankMax <= 0 {
		rankMax = r.cfg.RankMax
	}
	return r.RunScanWindow(ctx, rankMin, rankMax)
}

// RunScanWindow executes a scan over an explicit rank window. A fetch
// or evaluation fault aborts the run and triggers a best-effort crash
// notification.
func (r *Runner) RunScanWindow(ctx context.Context, rankMin, rankMax int) (*models.ScanReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.log.Info("starting scan",
		logger.Int("rank_min", rankMin),
		logger.Int("rank_max", rankMax),
	)

	perPage := r.cfg.TopN
	if perPage < rankMax {
		perPage = rankMax
	}

	records, err := r.market.FetchMarkets(ctx, r.cfg.Currency, perPage, 1)
	if err != nil {
		err = fmt.Errorf("fetch markets: %w", err)
		r.failRun(ctx, err)
		return nil, err
	}

	report, err := r.eval.Evaluate(ctx, records, rankMin, rankMax)
	if err != nil {
		err = fmt.Errorf("evaluate snapshot: %w", err)
		r.failRun(ctx, err)
		return nil, err
	}

	r.setLatest(report)
	if r.metrics != nil {
		r.metrics.RecordScan("ok")
		r.metrics.RecordCandidates(report.Count())
	}

	if report.Count() == 0 {
		r.log.Info("no candidates found this run")
		return report, nil
	}

	r.log.Info("candidates found", logger.Int("count", report.Count()))

	subject, body := RenderReport(report)
	outcome := r.notifier.Send(ctx, subject, body)
	if r.metrics != nil {
		result := "ok"
		if !outcome.Sent {
			result = "failed"
		}
		r.metrics.RecordNotification(result)
	}
	if !outcome.Sent {
		r.log.Error("report notification not delivered", logger.String("detail", outcome.Detail))
	} else {
		r.log.Info("report emailed successfully")
	}

	if r.publisher != nil {
		if err := r.publisher.PublishCandidates(ctx, report); err != nil {
			r.log.Error("candidate publish failed", logger.Error(err))
			if r.metrics != nil {
				r.metrics.RecordError("publish_candidates")
			}
		}
	}

	return report, nil
}

// Latest returns the most recent report, or nil before the first scan.
func (r *Runner) Latest() *models.ScanReport {
	r.latestMu.RLock()
	defer r.latestMu.RUnlock()
	return r.latest
}

func (r *Runner) setLatest(report *models.ScanReport) {
	r.latestMu.Lock()
	r.latest = report
	r.latestMu.Unlock()
}

// failRun records a fatal scan fault and attempts the crash
// notification. A failure while notifying is logged, never raised.
func (r *Runner) failRun(ctx context.Context, cause error) {
	r.log.Error("scan aborted", logger.Error(cause))
	if r.metrics != nil {
		r.metrics.RecordScan("error")
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("crash notification fault", logger.Any("panic", p))
		}
	}()
	if r.notifier == nil {
		return
	}
	subject, body := RenderCrashReport(cause)
	outcome := r.notifier.Send(ctx, subject, body)
	if !outcome.Sent {
		r.log.Error("crash notification not delivered", logger.String("detail", outcome.Detail))
	}
}
