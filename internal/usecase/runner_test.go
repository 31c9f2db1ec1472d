package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CoinSentry/internal/domain/models"
	drepo "CoinSentry/internal/domain/repository"
)

type fakeMarket struct {
	records []models.MarketRecord
	err     error
	calls   int
	perPage int
}

func (m *fakeMarket) FetchMarkets(_ context.Context, _ string, perPage, _ int) ([]models.MarketRecord, error) {
	m.calls++
	m.perPage = perPage
	return m.records, m.err
}

type sentMessage struct {
	subject string
	body    string
}

type fakeNotifier struct {
	sent       []sentMessage
	configured bool
}

func (n *fakeNotifier) Send(_ context.Context, subject, body string) models.SendOutcome {
	n.sent = append(n.sent, sentMessage{subject: subject, body: body})
	if !n.configured {
		return models.SendOutcome{Sent: false, Detail: "smtp/recipient not configured"}
	}
	return models.SendOutcome{Sent: true}
}

type fakePublisher struct {
	reports []*models.ScanReport
	err     error
	closed  bool
}

func (p *fakePublisher) PublishCandidates(_ context.Context, report *models.ScanReport) error {
	p.reports = append(p.reports, report)
	return p.err
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func newRunner(t *testing.T, market *fakeMarket, notifier *fakeNotifier, publisher *fakePublisher) *Runner {
	t.Helper()
	eval := NewEvaluator(nil, &fakeMetrics{}, testLogger(t), defaultThresholds())
	var pub drepo.CandidatePublisher
	if publisher != nil {
		pub = publisher
	}
	return NewRunner(market, eval, notifier, pub, &fakeMetrics{}, testLogger(t),
		RunnerConfig{Currency: "usd", RankMin: 40, RankMax: 100, TopN: 250})
}

func TestRunScanHappyPath(t *testing.T) {
	market := &fakeMarket{records: []models.MarketRecord{
		// Rank 55: 1h passes, volume is double the median, 24h does not.
		record("alpha", "alp", 55, 200, 2.5, 1.0),
		record("pad1", "pd1", 60, 100, 0, 0),
		record("pad2", "pd2", 61, 100, 0, 0),
	}}
	notifier := &fakeNotifier{configured: true}
	publisher := &fakePublisher{}
	runner := newRunner(t, market, notifier, publisher)

	report, err := runner.RunScan(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Count())
	assert.Len(t, report.Candidates[0].Reasons, 2)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "[Scanner] 1 candidate(s) found", notifier.sent[0].subject)
	assert.Contains(t, notifier.sent[0].body, "ALP")

	require.Len(t, publisher.reports, 1)
	assert.Same(t, report, publisher.reports[0])
	assert.Same(t, report, runner.Latest())
}

func TestRunScanQuorumNotMet(t *testing.T) {
	market := &fakeMarket{records: []models.MarketRecord{
		// 1h passes but 24h fails and volume only equals the median.
		record("alpha", "alp", 55, 100, 2.5, 0),
		record("pad1", "pd1", 60, 100, 0, 0),
	}}
	notifier := &fakeNotifier{configured: true}
	runner := newRunner(t, market, notifier, nil)

	report, err := runner.RunScan(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Count())

	// No candidates means no notification at all.
	assert.Empty(t, notifier.sent)
}

func TestRunScanFetchFailureSendsCrashReport(t *testing.T) {
	market := &fakeMarket{err: errors.New("coingecko unavailable")}
	notifier := &fakeNotifier{configured: true}
	runner := newRunner(t, market, notifier, nil)

	_, err := runner.RunScan(context.Background())
	require.Error(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "[Scanner] ERROR", notifier.sent[0].subject)
	assert.Contains(t, notifier.sent[0].body, "coingecko unavailable")
	assert.Nil(t, runner.Latest())
}

func TestRunScanMissingRankSendsCrashReport(t *testing.T) {
	market := &fakeMarket{records: []models.MarketRecord{
		{ID: "alpha", Symbol: "alp"},
	}}
	notifier := &fakeNotifier{configured: true}
	runner := newRunner(t, market, notifier, nil)

	_, err := runner.RunScan(context.Background())
	require.ErrorIs(t, err, ErrMissingRank)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "[Scanner] ERROR", notifier.sent[0].subject)
}

func TestRunScanUnconfiguredNotifierStillCompletes(t *testing.T) {
	market := &fakeMarket{records: []models.MarketRecord{
		record("alpha", "alp", 55, 500, 5, 5),
		record("pad", "pad", 60, 100, 0, 0),
	}}
	notifier := &fakeNotifier{configured: false}
	runner := newRunner(t, market, notifier, nil)

	report, err := runner.RunScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count())
	assert.Len(t, notifier.sent, 1)
}

func TestRunScanPerPageCoversRankMax(t *testing.T) {
	market := &fakeMarket{records: []models.MarketRecord{
		record("alpha", "alp", 150, 100, 0, 0),
	}}
	runner := newRunner(t, market, &fakeNotifier{}, nil)

	_, err := runner.RunScanOverride(context.Background(), 40, 400)
	require.NoError(t, err)
	// TopN is 250 but the window reaches 400, so the page must too.
	assert.Equal(t, 400, market.perPage)
}

func TestRunScanOverrideZeroBoundsFallBack(t *testing.T) {
	market := &fakeMarket{records: []models.MarketRecord{
		record("alpha", "alp", 55, 100, 0, 0),
	}}
	runner := newRunner(t, market, &fakeNotifier{}, nil)

	report, err := runner.RunScanOverride(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 40, report.RankMin)
	assert.Equal(t, 100, report.RankMax)
}

func TestRunScanPublishFailureIsTolerated(t *testing.T) {
	market := &fakeMarket{records: []models.MarketRecord{
		record("alpha", "alp", 55, 500, 5, 5),
		record("pad", "pad", 60, 100, 0, 0),
	}}
	publisher := &fakePublisher{err: errors.New("broker down")}
	runner := newRunner(t, market, &fakeNotifier{configured: true}, publisher)

	report, err := runner.RunScan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count())
	assert.Len(t, publisher.reports, 1)
}

func TestRunScanLatestUpdatedOnZeroCandidates(t *testing.T) {
	market := &fakeMarket{records: []models.MarketRecord{
		record("alpha", "alp", 55, 100, 0, 0),
	}}
	runner := newRunner(t, market, &fakeNotifier{}, nil)

	report, err := runner.RunScan(context.Background())
	require.NoError(t, err)
	assert.Zero(t, report.Count())
	assert.Same(t, report, runner.Latest())
}

func TestRunScanSubjectCountsAllCandidates(t *testing.T) {
	market := &fakeMarket{records: []models.MarketRecord{
		record("alpha", "alp", 45, 500, 5, 5),
		record("beta", "bet", 60, 500, 5, 5),
		record("pad", "pad", 99, 100, 0, 0),
	}}
	notifier := &fakeNotifier{configured: true}
	runner := newRunner(t, market, notifier, nil)

	report, err := runner.RunScan(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.Count())
	require.Len(t, notifier.sent, 1)
	assert.True(t, strings.HasPrefix(notifier.sent[0].subject, "[Scanner] 2 candidate"))
}
