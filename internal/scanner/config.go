package scanner

// Config is the policy surface the scanner consumes. It is passed in
// explicitly; the core never reads process environment.
type Config struct {
	// RiskPct is the fraction of portfolio risked per trade (0.005 = 0.5%).
	RiskPct float64
	// MaxHeatPct caps total concurrent risk across open positions.
	MaxHeatPct float64
	// PortfolioValue is the account size used for position sizing.
	PortfolioValue float64
	// MinScore is the overall-score floor (0-100) for emitting a setup.
	MinScore float64
	// ReviewScore is the overall-score floor below which guardrails flag
	// an opportunity for review.
	ReviewScore float64
	// FeesUSD is the fixed round-trip commission per trade.
	FeesUSD float64
	// HistoryBars is how many daily bars to fetch per symbol. Zero means
	// the HistoryBars package default.
	HistoryBars int
}

// DefaultConfig returns the standard scan policy.
func DefaultConfig() Config {
	return Config{
		RiskPct:        0.005,
		MaxHeatPct:     0.02,
		PortfolioValue: 100000,
		MinScore:       50,
		ReviewScore:    50,
		FeesUSD:        1.0,
		HistoryBars:    HistoryBars,
	}
}
