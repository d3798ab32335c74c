package models

import (
	"time"

	"github.com/google/uuid"
)

// GuardrailStatus classifies a computed opportunity.
type GuardrailStatus string

const (
	GuardrailApproved GuardrailStatus = "approved"
	GuardrailReview   GuardrailStatus = "review"
	GuardrailBlocked  GuardrailStatus = "blocked"
)

// FeatureSet holds the named indicator and derived metrics computed for one
// symbol in one scan. Percentage-style fields are signed fractions
// (0.02 = 2%) unless the name carries a _pct/_percent suffix.
type FeatureSet struct {
	Price  float64 `json:"price"`
	Volume int64   `json:"volume"`

	EMA20  float64 `json:"ema_20"`
	EMA50  float64 `json:"ema_50"`
	EMA200 float64 `json:"ema_200"`
	RSI14  float64 `json:"rsi_14"`

	ATR           float64 `json:"atr_14"`
	ATRPercent    float64 `json:"atr_percent"`
	ATRPercentile float64 `json:"atr_percentile"`

	VWAP            float64 `json:"vwap"`
	VWAPDistancePct float64 `json:"vwap_distance_pct"`

	VolumeAvg20 float64 `json:"volume_avg_20"`
	RVol        float64 `json:"rvol"`

	PivotProximityScore float64 `json:"pivot_proximity_score"`

	DailyRangePct   float64 `json:"daily_range_pct"`
	GapPct          float64 `json:"gap_pct"`
	BidAskSpreadBps float64 `json:"bid_ask_spread_bps"`
}

// FeatureScores holds sub-scores and the weighted overall score, each in [0,100].
type FeatureScores struct {
	Price      float64 `json:"price"`
	Volume     float64 `json:"volume"`
	Volatility float64 `json:"volatility"`
	Overall    float64 `json:"overall"`
}

// TradeSetup is a long-only trade plan derived from price and ATR.
// For a valid setup stop < entry < target1.
type TradeSetup struct {
	Entry             float64 `json:"entry"`
	Stop              float64 `json:"stop"`
	Target1           float64 `json:"target1"`
	Target2           float64 `json:"target2,omitempty"`
	PositionSizeUSD   float64 `json:"position_size_usd"`
	PositionSizeShare int     `json:"position_size_shares"`
	RRRatio           float64 `json:"rr_ratio"`
}

// RiskPerShare returns entry minus stop.
func (t *TradeSetup) RiskPerShare() float64 {
	return t.Entry - t.Stop
}

// RiskMetrics holds probability and cost estimates for one opportunity.
type RiskMetrics struct {
	PTarget      float64 `json:"p_target"`
	NetExpectedR float64 `json:"net_expected_r"`
	CostsR       float64 `json:"costs_r"`
	SlippageBps  float64 `json:"slippage_bps"`
}

// SchemaVersion tags persisted opportunities so stored rows remain
// interpretable across model revisions.
const SchemaVersion = "1.0"

// Opportunity is the scanner's terminal output for one symbol. Never mutated
// after creation.
type Opportunity struct {
	ID        uuid.UUID       `json:"id"`
	Symbol    string          `json:"symbol"`
	Timestamp time.Time       `json:"timestamp"`
	Scores    FeatureScores   `json:"scores"`
	Setup     TradeSetup      `json:"setup"`
	Risk      RiskMetrics     `json:"risk"`
	Features  FeatureSet      `json:"features"`
	Status    GuardrailStatus `json:"guardrail_status"`
	Reason    string          `json:"guardrail_reason,omitempty"`
	Version   string          `json:"version"`
}
