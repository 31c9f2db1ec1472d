package usecase

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"CoinSentry/internal/domain/models"
)

func TestRenderReport(t *testing.T) {
	price := 1234.5
	rate := 0.000125
	report := &models.ScanReport{
		RankMin:     40,
		RankMax:     100,
		GeneratedAt: time.Now().UTC(),
		Candidates: []models.CandidateResult{
			{
				Asset: models.AssetSnapshot{
					ID: "alpha", Symbol: "ALP", Name: "Alpha Coin",
					Rank: 55, Price: &price,
					Volume: 12345678, VolumeKnown: true,
					Change1h: 2.5, Change24h: 4.25,
				},
				Reasons: []string{"1h 2.50% ≥ 2.0%", "24h 4.25% ≥ 3.0%"},
				Funding: &models.FundingRate{Venue: "binance", Symbol: "ALP/USDT", Rate: &rate},
			},
		},
	}

	subject, body := RenderReport(report)

	assert.Equal(t, "[Scanner] 1 candidate(s) found", subject)
	assert.Contains(t, body, "Rank range: 40-100. Found 1 candidates.")
	assert.Contains(t, body, "<td>55</td>")
	assert.Contains(t, body, "Alpha Coin (ALP)")
	assert.Contains(t, body, "<td>1234.5</td>")
	assert.Contains(t, body, "<td>2.50%</td>")
	assert.Contains(t, body, "<td>4.25%</td>")
	assert.Contains(t, body, "<td>12,345,678</td>")
	assert.Contains(t, body, "1h 2.50%")
	assert.Contains(t, body, "0.000125")
}

func TestRenderReportEscapesHTML(t *testing.T) {
	report := &models.ScanReport{
		Candidates: []models.CandidateResult{
			{
				Asset: models.AssetSnapshot{
					Name: "<script>alert(1)</script>", Symbol: "XSS", Rank: 50,
				},
				Reasons: []string{"24h 5.00% ≥ 3.0%"},
			},
		},
	}

	_, body := RenderReport(report)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestRenderReportMissingPrice(t *testing.T) {
	report := &models.ScanReport{
		Candidates: []models.CandidateResult{
			{Asset: models.AssetSnapshot{Name: "NoPrice", Symbol: "NPR", Rank: 42}},
		},
	}

	_, body := RenderReport(report)
	assert.Contains(t, body, "<td>n/a</td>")
}

func TestRenderReportFundingDetailTruncated(t *testing.T) {
	report := &models.ScanReport{
		Candidates: []models.CandidateResult{
			{
				Asset:   models.AssetSnapshot{Name: "Alpha", Symbol: "ALP", Rank: 50},
				Funding: &models.FundingRate{Detail: strings.Repeat("x", 500)},
			},
		},
	}

	_, body := RenderReport(report)
	assert.Contains(t, body, strings.Repeat("x", fundingDetailMax))
	assert.NotContains(t, body, strings.Repeat("x", fundingDetailMax+1))
}

func TestRenderReportReasonsJoined(t *testing.T) {
	report := &models.ScanReport{
		Candidates: []models.CandidateResult{
			{
				Asset:   models.AssetSnapshot{Name: "Alpha", Symbol: "ALP", Rank: 50},
				Reasons: []string{"one", "two", "three"},
			},
		},
	}

	_, body := RenderReport(report)
	assert.Contains(t, body, "one; two; three")
}

func TestRenderCrashReport(t *testing.T) {
	subject, body := RenderCrashReport(errors.New("fetch markets: status 500 <bad>"))

	assert.Equal(t, "[Scanner] ERROR", subject)
	assert.Contains(t, body, "Scanner crashed with exception")
	assert.Contains(t, body, "&lt;bad&gt;")
	assert.NotContains(t, body, "<bad>")
}
