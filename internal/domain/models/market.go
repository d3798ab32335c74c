package models

import "time"

// Bar is one OHLCV observation. Sequences are ordered oldest first and
// immutable once produced by the data source.
type Bar struct {
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    int64     `json:"volume"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Snapshot is the current-moment view of a ticker. Bid/Ask and the
// previous-day bar are optional; zero values mean "not available".
type Snapshot struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Volume    int64     `json:"volume"`
	Bid       float64   `json:"bid,omitempty"`
	Ask       float64   `json:"ask,omitempty"`
	PrevDay   *Bar      `json:"prev_day,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Quote is one streamed bid/ask update for a symbol.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	Timestamp int64   `json:"timestamp"` // unix millis
}

// SpreadBps returns the bid/ask spread in basis points relative to the mid,
// or the fallback when either side of the quote is missing or non-positive.
func (s *Snapshot) SpreadBps(fallback float64) float64 {
	if s.Bid <= 0 || s.Ask <= 0 {
		return fallback
	}
	mid := (s.Bid + s.Ask) / 2
	if mid <= 0 {
		return fallback
	}
	return (s.Ask - s.Bid) / mid * 10000
}
