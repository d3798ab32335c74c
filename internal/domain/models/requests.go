package models

// ScanRequest triggers a universe scan. An empty symbol list falls back to
// the configured default universe.
type ScanRequest struct {
	Symbols  []string `json:"symbols" validate:"omitempty,max=500,dive,required"`
	MinScore float64  `json:"min_score" validate:"gte=0,lte=100"`
	Limit    int      `json:"limit" default:"20" validate:"gte=0,lte=500"`
}

// OpportunityListRequest filters persisted opportunities.
type OpportunityListRequest struct {
	Symbol   string  `query:"symbol"`
	Status   string  `query:"status" validate:"omitempty,oneof=approved review blocked"`
	MinScore float64 `query:"min_score" validate:"gte=0,lte=100"`
	Limit    int     `query:"limit" default:"50" validate:"gte=0,lte=500"`
	Offset   int     `query:"offset" validate:"gte=0"`
}

// MonteCarloRequest wraps simulation parameters with output shaping options.
type MonteCarloRequest struct {
	SimulationParameters
	IncludePaths   bool `json:"include_paths"`
	NumSamplePaths int  `json:"num_sample_paths" default:"100" validate:"gte=0,lte=1000"`
}

// MonteCarloResponse is the aggregate simulation output. SamplePaths is
// populated only when the request asked for paths.
type MonteCarloResponse struct {
	Summary     *SimulationResults `json:"summary"`
	Risk        RiskStatistics     `json:"risk"`
	SamplePaths [][]float64        `json:"sample_paths,omitempty"`
}

// SignalListRequest filters tracked signal history. From and To bound
// signal_time and are RFC 3339 timestamps.
type SignalListRequest struct {
	Symbol string `query:"symbol"`
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Limit  int    `query:"limit" default:"50" validate:"gte=0,lte=500"`
	Offset int    `query:"offset" validate:"gte=0"`
}

// SignalCreateRequest starts tracking a persisted opportunity.
type SignalCreateRequest struct {
	OpportunityID string `json:"opportunity_id" validate:"required,uuid"`
	Notes         string `json:"notes"`
}

// ResolveSignalRequest finalizes a tracked signal with its observed outcome.
type ResolveSignalRequest struct {
	Outcome string  `json:"outcome" validate:"required,oneof=target_hit stopped_out expired"`
	MFE     float64 `json:"mfe"`
	MAE     float64 `json:"mae"`
	ActualR float64 `json:"actual_r"`
}

// TradeListRequest filters the trade journal.
type TradeListRequest struct {
	Symbol string `query:"symbol"`
	Limit  int    `query:"limit" default:"50" validate:"gte=0,lte=500"`
	Offset int    `query:"offset" validate:"gte=0"`
}

// TradeCreateRequest appends one journal entry.
type TradeCreateRequest struct {
	Symbol     string  `json:"symbol" validate:"required"`
	Side       string  `json:"side" validate:"omitempty,oneof=long short"`
	EntryPrice float64 `json:"entry_price" validate:"gt=0"`
	ExitPrice  float64 `json:"exit_price" validate:"gte=0"`
	Shares     int     `json:"shares" validate:"gt=0"`
	ExitReason string  `json:"exit_reason" validate:"omitempty,oneof=target stop manual time_limit"`
	RealizedR  float64 `json:"realized_r"`
	Notes      string  `json:"notes"`
}
