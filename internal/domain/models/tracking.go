package models

import (
	"time"

	"github.com/google/uuid"
)

// SignalOutcome is the resolved result of a tracked signal.
type SignalOutcome string

const (
	OutcomeTargetHit  SignalOutcome = "target_hit"
	OutcomeStoppedOut SignalOutcome = "stopped_out"
	OutcomeExpired    SignalOutcome = "expired"
	OutcomeStillOpen  SignalOutcome = "still_open"
)

// TradeSide is the direction of a journaled trade.
type TradeSide string

const (
	SideLong  TradeSide = "long"
	SideShort TradeSide = "short"
)

// ExitReason explains how a journaled trade was closed.
type ExitReason string

const (
	ExitTarget    ExitReason = "target"
	ExitStop      ExitReason = "stop"
	ExitManual    ExitReason = "manual"
	ExitTimeLimit ExitReason = "time_limit"
)

// SignalHistory records a scanner signal and its eventual outcome, the raw
// material for future empirical probability calibration.
type SignalHistory struct {
	ID            uuid.UUID     `json:"id"`
	OpportunityID uuid.UUID     `json:"opportunity_id"`
	Symbol        string        `json:"symbol"`
	SignalScore   float64       `json:"signal_score"`
	PTarget       float64       `json:"p_target"`
	Entry         float64       `json:"entry"`
	Stop          float64       `json:"stop"`
	Target1       float64       `json:"target1"`
	RRRatio       float64       `json:"rr_ratio"`
	SignalTime    time.Time     `json:"signal_time"`
	Outcome       SignalOutcome `json:"outcome"`
	OutcomeTime   *time.Time    `json:"outcome_time,omitempty"`
	MFE           float64       `json:"mfe"`
	MAE           float64       `json:"mae"`
	ActualR       float64       `json:"actual_r"`
	Notes         string        `json:"notes,omitempty"`
}

// SignalStats aggregates resolved signal outcomes, the raw material for
// judging whether the calibration curve tracks reality.
type SignalStats struct {
	TotalSignals int64   `json:"total_signals"`
	TargetHit    int64   `json:"target_hit"`
	StoppedOut   int64   `json:"stopped_out"`
	Expired      int64   `json:"expired"`
	StillOpen    int64   `json:"still_open"`
	HitRate      float64 `json:"hit_rate"`
	AvgActualR   float64 `json:"avg_actual_r"`
	AvgPTarget   float64 `json:"avg_p_target"`
}

// TradeEntry is one row of the trade journal.
type TradeEntry struct {
	ID         uuid.UUID  `json:"id"`
	Symbol     string     `json:"symbol"`
	Side       TradeSide  `json:"side"`
	EntryPrice float64    `json:"entry_price"`
	ExitPrice  float64    `json:"exit_price,omitempty"`
	Shares     int        `json:"shares"`
	EntryTime  time.Time  `json:"entry_time"`
	ExitTime   *time.Time `json:"exit_time,omitempty"`
	ExitReason ExitReason `json:"exit_reason,omitempty"`
	RealizedR  float64    `json:"realized_r"`
	Notes      string     `json:"notes,omitempty"`
}
