package models

// MarketRecord is one raw ranked market row as returned by the data
// provider. Optional provider fields stay pointers until normalization
// so that absent and zero are distinguishable.
type MarketRecord struct {
	ID        string
	Symbol    string
	Name      string
	Rank      *int
	Price     *float64
	Volume    *float64
	Change1h  *float64 // percent over the last hour
	Change24h *float64 // percent over the last 24 hours
}

// AssetSnapshot is the normalized per-asset record used by the
// evaluator. Missing volume and percent changes collapse to 0; price
// stays optional because it is display-only.
type AssetSnapshot struct {
	ID          string   `json:"id"`
	Symbol      string   `json:"symbol"`
	Name        string   `json:"name"`
	Rank        int      `json:"rank"`
	Price       *float64 `json:"price,omitempty"`
	Volume      float64  `json:"volume"`
	VolumeKnown bool     `json:"-"` // only the median computation cares
	Change1h    float64  `json:"change_1h"`
	Change24h   float64  `json:"change_24h"`
}

// FundingRate is the optional derivatives-market annotation attached to
// a candidate. Rate is nil when the venue payload had no numeric rate;
// Detail then carries the raw payload for display.
type FundingRate struct {
	Venue  string   `json:"venue"`
	Symbol string   `json:"symbol"`
	Rate   *float64 `json:"rate,omitempty"`
	Detail string   `json:"detail,omitempty"`
}
