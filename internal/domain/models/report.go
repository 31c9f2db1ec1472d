package models

import "time"

// CandidateResult is an asset that satisfied the signal quorum, with
// the reason strings that fired and the optional funding annotation.
type CandidateResult struct {
	Asset   AssetSnapshot `json:"asset"`
	Reasons []string      `json:"reasons"`
	Funding *FundingRate  `json:"funding,omitempty"`
}

// ScanReport is the full output of one scan run. Candidates are ordered
// by ascending market-cap rank.
type ScanReport struct {
	RankMin     int               `json:"rank_min"`
	RankMax     int               `json:"rank_max"`
	GeneratedAt time.Time         `json:"generated_at"`
	Candidates  []CandidateResult `json:"candidates"`
}

// Count returns the number of candidates in the report.
func (r *ScanReport) Count() int {
	return len(r.Candidates)
}

// SendOutcome is the result of a notification attempt. Sent is false
// both for failures and for skipped sends; Detail says which.
type SendOutcome struct {
	Sent   bool
	Detail string
}
