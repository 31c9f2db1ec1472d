package models

// ScanRequest optionally overrides the configured rank window for an
// on-demand scan. Zero values mean "use the configured bound".
type ScanRequest struct {
	RankMin int `json:"rank_min" query:"rank_min" validate:"gte=0"`
	RankMax int `json:"rank_max" query:"rank_max" validate:"gte=0"`
}
