package usecase

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"CoinSentry/internal/domain/models"
	"CoinSentry/pkg/util"
)

// fundingDetailMax bounds the raw-payload fallback in the funding cell.
const fundingDetailMax = 200

// RenderReport builds the notification subject and HTML body for a
// report with at least one candidate.
func RenderReport(report *models.ScanReport) (subject, body string) {
	subject = fmt.Sprintf("[Scanner] %d candidate(s) found", report.Count())

	var b strings.Builder
	b.WriteString("<h2>Crypto Scanner — Candidates</h2>")
	b.WriteString(fmt.Sprintf("<p>Rank range: %d-%d. Found %d candidates.</p>",
		report.RankMin, report.RankMax, report.Count()))
	b.WriteString("<table border='1' cellpadding='6' cellspacing='0'>")
	b.WriteString("<tr><th>Rank</th><th>Name (symbol)</th><th>Price</th><th>1h%</th><th>24h%</th><th>Volume</th><th>Reasons</th><th>Funding (if any)</th></tr>")

	for _, c := range report.Candidates {
		b.WriteString("<tr>")
		b.WriteString(fmt.Sprintf("<td>%d</td>", c.Asset.Rank))
		b.WriteString(fmt.Sprintf("<td>%s (%s)</td>", html.EscapeString(c.Asset.Name), html.EscapeString(c.Asset.Symbol)))
		b.WriteString(fmt.Sprintf("<td>%s</td>", formatPrice(c.Asset.Price)))
		b.WriteString(fmt.Sprintf("<td>%.2f%%</td>", c.Asset.Change1h))
		b.WriteString(fmt.Sprintf("<td>%.2f%%</td>", c.Asset.Change24h))
		b.WriteString(fmt.Sprintf("<td>%s</td>", util.Thousands(c.Asset.Volume)))
		b.WriteString(fmt.Sprintf("<td>%s</td>", html.EscapeString(strings.Join(c.Reasons, "; "))))
		b.WriteString(fmt.Sprintf("<td>%s</td>", html.EscapeString(formatFunding(c.Funding))))
		b.WriteString("</tr>")
	}
	b.WriteString("</table>")

	return subject, b.String()
}

// RenderCrashReport builds the best-effort failure notification.
func RenderCrashReport(err error) (subject, body string) {
	subject = "[Scanner] ERROR"
	body = fmt.Sprintf("<p>Scanner crashed with exception:</p><pre>%s</pre>",
		html.EscapeString(err.Error()))
	return subject, body
}

func formatPrice(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

// formatFunding renders the numeric rate when present, otherwise a
// bounded slice of the opaque payload.
func formatFunding(fr *models.FundingRate) string {
	if fr == nil {
		return ""
	}
	if fr.Rate != nil {
		return strconv.FormatFloat(*fr.Rate, 'f', -1, 64)
	}
	return util.Truncate(fr.Detail, fundingDetailMax)
}
