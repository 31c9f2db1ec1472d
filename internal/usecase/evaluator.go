package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"CoinSentry/internal/domain/models"
	drepo "CoinSentry/internal/domain/repository"
	"CoinSentry/pkg/logger"
)

// ErrMissingRank reports a markets payload with no market-cap rank
// field at all. The run cannot filter without it.
var ErrMissingRank = errors.New("market data missing market_cap_rank")

// signalQuorum is the minimum number of satisfied conditions that
// flags a candidate.
const signalQuorum = 2

// Thresholds are the fixed signal cutoffs for one run.
type Thresholds struct {
	Min1hPct         float64
	Min24hPct        float64
	VolumeMultiplier float64
}

// Evaluator turns a raw market snapshot into a ScanReport: filter by
// rank window, score each asset against the thresholds and the
// window's median volume, annotate candidates with funding data.
type Evaluator struct {
	funding drepo.FundingSource // optional capability, may be nil
	metrics drepo.Metrics
	log     *logger.Logger
	th      Thresholds
}

// NewEvaluator creates an Evaluator. funding may be nil when the
// derivatives capability is absent.
func NewEvaluator(funding drepo.FundingSource, metrics drepo.Metrics, log *logger.Logger, th Thresholds) *Evaluator {
	return &Evaluator{funding: funding, metrics: metrics, log: log, th: th}
}

// Evaluate produces a ScanReport for the given rank window. An empty
// window yields a zero-candidate report, not an error.
func (e *Evaluator) Evaluate(ctx context.Context, records []models.MarketRecord, rankMin, rankMax int) (*models.ScanReport, error) {
	report := &models.ScanReport{
		RankMin:     rankMin,
		RankMax:     rankMax,
		GeneratedAt: time.Now().UTC(),
	}

	if !hasRankField(records) {
		return nil, ErrMissingRank
	}

	filtered := make([]models.AssetSnapshot, 0, len(records))
	for _, r := range records {
		if r.Rank == nil || *r.Rank < rankMin || *r.Rank > rankMax {
			continue
		}
		filtered = append(filtered, normalize(r))
	}
	if len(filtered) == 0 {
		e.log.Info("no assets in rank window",
			logger.Int("rank_min", rankMin),
			logger.Int("rank_max", rankMax),
		)
		return report, nil
	}

	// Median over the filtered window only; 0 disables the volume
	// condition.
	medianVol := medianVolume(filtered)

	for _, snap := range filtered {
		cand, ok := e.evaluateOne(ctx, snap, medianVol)
		if !ok {
			continue
		}
		report.Candidates = append(report.Candidates, cand)
	}

	sort.Slice(report.Candidates, func(i, j int) bool {
		return report.Candidates[i].Asset.Rank < report.Candidates[j].Asset.Rank
	})

	return report, nil
}

// evaluateOne scores a single asset. Any fault is contained here so
// one bad record never stops the rest of the scan.
func (e *Evaluator) evaluateOne(ctx context.Context, snap models.AssetSnapshot, medianVol float64) (cand models.CandidateResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("asset evaluation fault",
				logger.String("id", snap.ID),
				logger.Any("panic", r),
			)
			if e.metrics != nil {
				e.metrics.RecordError("evaluate_asset")
			}
			ok = false
		}
	}()

	reasons := e.score(snap, medianVol)
	if len(reasons) < signalQuorum {
		return models.CandidateResult{}, false
	}

	cand = models.CandidateResult{
		Asset:   snap,
		Reasons: reasons,
		Funding: e.lookupFunding(ctx, snap.Symbol),
	}
	return cand, true
}

// score evaluates the three independent conditions. Each satisfied
// condition appends a reason string carrying the value and threshold.
func (e *Evaluator) score(snap models.AssetSnapshot, medianVol float64) []string {
	var reasons []string
	if snap.Change1h >= e.th.Min1hPct {
		reasons = append(reasons, fmt.Sprintf("1h %.2f%% ≥ %.1f%%", snap.Change1h, e.th.Min1hPct))
	}
	if snap.Change24h >= e.th.Min24hPct {
		reasons = append(reasons, fmt.Sprintf("24h %.2f%% ≥ %.1f%%", snap.Change24h, e.th.Min24hPct))
	}
	if medianVol > 0 && snap.Volume >= medianVol*e.th.VolumeMultiplier {
		reasons = append(reasons, fmt.Sprintf("vol %.0f ≥ median*%.2f", snap.Volume, e.th.VolumeMultiplier))
	}
	return reasons
}

// lookupFunding tries a short ordered list of exchange symbol formats
// and stops at the first hit. Every failure is tolerated.
func (e *Evaluator) lookupFunding(ctx context.Context, symbol string) *models.FundingRate {
	if e.funding == nil || symbol == "" {
		return nil
	}
	guesses := []string{
		symbol + "/USDT",
		symbol + "/USD",
		symbol + "/USDT:USDT",
	}
	for _, guess := range guesses {
		fr, err := e.funding.FundingRate(ctx, guess)
		if err != nil {
			e.log.Debug("funding lookup failed",
				logger.String("symbol", guess),
				logger.Error(err),
			)
			continue
		}
		if fr != nil {
			return fr
		}
	}
	return nil
}

func hasRankField(records []models.MarketRecord) bool {
	for _, r := range records {
		if r.Rank != nil {
			return true
		}
	}
	return false
}

// normalize collapses absent numerics to 0. A missing 1h change is
// treated as 0, never substituted with the 24h value. Price stays
// optional because it is display-only.
func normalize(r models.MarketRecord) models.AssetSnapshot {
	s := models.AssetSnapshot{
		ID:     r.ID,
		Symbol: strings.ToUpper(r.Symbol),
		Name:   r.Name,
		Price:  r.Price,
	}
	if r.Rank != nil {
		s.Rank = *r.Rank
	}
	if r.Volume != nil {
		s.Volume = *r.Volume
		s.VolumeKnown = true
	}
	if r.Change1h != nil {
		s.Change1h = *r.Change1h
	}
	if r.Change24h != nil {
		s.Change24h = *r.Change24h
	}
	return s
}

// medianVolume returns the statistical median of the known volumes in
// the window, or 0 when every volume is absent.
func medianVolume(snaps []models.AssetSnapshot) float64 {
	vols := make([]float64, 0, len(snaps))
	for _, s := range snaps {
		if s.VolumeKnown {
			vols = append(vols, s.Volume)
		}
	}
	if len(vols) == 0 {
		return 0
	}
	sort.Float64s(vols)
	mid := len(vols) / 2
	if len(vols)%2 == 1 {
		return vols[mid]
	}
	return (vols[mid-1] + vols[mid]) / 2
}
