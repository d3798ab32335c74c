package models

import "fmt"

// SimulationParameters describe one trading strategy for Monte Carlo runs.
// Validate rejects out-of-range values before any simulation work starts.
type SimulationParameters struct {
	PWin            float64 `json:"p_win" validate:"gte=0,lte=1"`
	RWin            float64 `json:"r_win" validate:"gt=0"`
	RiskPct         float64 `json:"risk_pct" validate:"gt=0,lte=0.1"`
	TradesPerWeek   int     `json:"trades_per_week" validate:"gt=0"`
	Weeks           int     `json:"weeks" validate:"gt=0"`
	CostPerTradeUSD float64 `json:"cost_per_trade_usd" validate:"gte=0"`
	SlippageBps     float64 `json:"slippage_bps" validate:"gte=0"`
	StartingCapital float64 `json:"starting_capital" validate:"gt=0"`
	NumSimulations  int     `json:"num_simulations" validate:"gt=0,lte=10000"`
	Seed            int64   `json:"seed,omitempty"`
}

// InvalidParameterError reports a simulation parameter outside its bound.
type InvalidParameterError struct {
	Field   string
	Message string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Message)
}

// Validate checks all bounds. The first violated bound is returned.
func (p *SimulationParameters) Validate() error {
	switch {
	case p.PWin < 0 || p.PWin > 1:
		return &InvalidParameterError{Field: "p_win", Message: "must be in [0, 1]"}
	case p.RWin <= 0:
		return &InvalidParameterError{Field: "r_win", Message: "must be > 0"}
	case p.RiskPct <= 0 || p.RiskPct > 0.1:
		return &InvalidParameterError{Field: "risk_pct", Message: "must be in (0, 0.1]"}
	case p.TradesPerWeek <= 0:
		return &InvalidParameterError{Field: "trades_per_week", Message: "must be > 0"}
	case p.Weeks <= 0:
		return &InvalidParameterError{Field: "weeks", Message: "must be > 0"}
	case p.CostPerTradeUSD < 0:
		return &InvalidParameterError{Field: "cost_per_trade_usd", Message: "must be >= 0"}
	case p.SlippageBps < 0:
		return &InvalidParameterError{Field: "slippage_bps", Message: "must be >= 0"}
	case p.StartingCapital <= 0:
		return &InvalidParameterError{Field: "starting_capital", Message: "must be > 0"}
	case p.NumSimulations <= 0 || p.NumSimulations > 10000:
		return &InvalidParameterError{Field: "num_simulations", Message: "must be in (0, 10000]"}
	}
	return nil
}

// TotalTrades returns trades_per_week x weeks.
func (p *SimulationParameters) TotalTrades() int {
	return p.TradesPerWeek * p.Weeks
}

// SimulationResults is the atomic output of one simulation run.
type SimulationResults struct {
	EquityPaths  [][]float64 `json:"equity_paths,omitempty"`
	FinalEquity  []float64   `json:"final_equity,omitempty"`
	MaxDrawdowns []float64   `json:"max_drawdowns,omitempty"`
	TradeReturns [][]float64 `json:"trade_returns,omitempty"`

	MeanFinalEquity   float64 `json:"mean_final_equity"`
	MedianFinalEquity float64 `json:"median_final_equity"`
	StdFinalEquity    float64 `json:"std_final_equity"`
	Prob2x            float64 `json:"prob_2x"`
	Prob3x            float64 `json:"prob_3x"`
	ProbLoss          float64 `json:"prob_loss"`
	P95MaxDrawdown    float64 `json:"p95_max_drawdown"`
	SharpeRatio       float64 `json:"sharpe_ratio"`
	MinFinalEquity    float64 `json:"min_final_equity"`
	MaxFinalEquity    float64 `json:"max_final_equity"`
}

// RiskStatistics are derived from the trade-return grid after a run.
type RiskStatistics struct {
	VaR95        float64 `json:"var_95"`
	CVaR95       float64 `json:"cvar_95"`
	ProfitFactor float64 `json:"profit_factor"`
	WinRate      float64 `json:"win_rate"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	LargestWin   float64 `json:"largest_win"`
	LargestLoss  float64 `json:"largest_loss"`
}
