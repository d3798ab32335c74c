package risk

import (
	"errors"
	"math"
	"testing"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func validParams() models.SimulationParameters {
	return models.SimulationParameters{
		PWin:            0.45,
		RWin:            2.5,
		RiskPct:         0.005,
		TradesPerWeek:   10,
		Weeks:           52,
		CostPerTradeUSD: 1,
		SlippageBps:     10,
		StartingCapital: 10000,
		NumSimulations:  1000,
		Seed:            42,
	}
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SimulationParameters)
		field  string
	}{
		{"p_win above 1", func(p *models.SimulationParameters) { p.PWin = 1.5 }, "p_win"},
		{"negative r_win", func(p *models.SimulationParameters) { p.RWin = -1 }, "r_win"},
		{"risk_pct too large", func(p *models.SimulationParameters) { p.RiskPct = 0.2 }, "risk_pct"},
		{"zero trades", func(p *models.SimulationParameters) { p.TradesPerWeek = 0 }, "trades_per_week"},
		{"zero weeks", func(p *models.SimulationParameters) { p.Weeks = 0 }, "weeks"},
		{"negative cost", func(p *models.SimulationParameters) { p.CostPerTradeUSD = -1 }, "cost_per_trade_usd"},
		{"negative slippage", func(p *models.SimulationParameters) { p.SlippageBps = -5 }, "slippage_bps"},
		{"zero capital", func(p *models.SimulationParameters) { p.StartingCapital = 0 }, "starting_capital"},
		{"too many sims", func(p *models.SimulationParameters) { p.NumSimulations = 20000 }, "num_simulations"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)

			_, err := Run(params)
			var invalid *models.InvalidParameterError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidParameterError, got %v", err)
			}
			if invalid.Field != tt.field {
				t.Fatalf("expected field %q, got %q", tt.field, invalid.Field)
			}
		})
	}
}

func TestRunShape(t *testing.T) {
	params := validParams()
	params.NumSimulations = 50
	params.Weeks = 4

	res, err := Run(params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	totalTrades := params.TotalTrades()
	if len(res.EquityPaths) != 50 {
		t.Fatalf("expected 50 paths, got %d", len(res.EquityPaths))
	}
	for _, path := range res.EquityPaths {
		if len(path) != totalTrades+1 {
			t.Fatalf("expected %d points per path, got %d", totalTrades+1, len(path))
		}
		if path[0] != params.StartingCapital {
			t.Fatalf("path should start at starting capital, got %v", path[0])
		}
	}
	if len(res.TradeReturns) != 50 || len(res.TradeReturns[0]) != totalTrades {
		t.Fatalf("unexpected trade-return grid shape")
	}
}

func TestRunReproducible(t *testing.T) {
	params := validParams()
	params.NumSimulations = 100

	a, err := Run(params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := Run(params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for i := range a.EquityPaths {
		for j := range a.EquityPaths[i] {
			if a.EquityPaths[i][j] != b.EquityPaths[i][j] {
				t.Fatalf("same seed must give bit-identical paths, differ at [%d][%d]", i, j)
			}
		}
	}
	if a.MeanFinalEquity != b.MeanFinalEquity || a.SharpeRatio != b.SharpeRatio {
		t.Fatalf("summary statistics differ across identical runs")
	}

	params.Seed = 43
	c, err := Run(params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if c.MeanFinalEquity == a.MeanFinalEquity {
		t.Fatalf("different seeds should produce different draws")
	}
}

func TestRunDrawdownBounds(t *testing.T) {
	params := validParams()
	params.NumSimulations = 200

	res, err := Run(params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, dd := range res.MaxDrawdowns {
		if dd < 0 || dd > 1 {
			t.Fatalf("max drawdown out of [0,1]: %v", dd)
		}
	}
	if res.P95MaxDrawdown < 0 || res.P95MaxDrawdown > 1 {
		t.Fatalf("p95 drawdown out of [0,1]: %v", res.P95MaxDrawdown)
	}
}

func TestRunDrawdownBoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("max drawdowns stay in [0, 1] and equity stays non-negative", prop.ForAll(
		func(pWin, rWin float64, weeks int, seed int64) bool {
			params := validParams()
			params.PWin = pWin
			params.RWin = rWin
			params.Weeks = weeks
			params.NumSimulations = 20
			params.Seed = seed

			res, err := Run(params)
			if err != nil {
				return false
			}
			for _, dd := range res.MaxDrawdowns {
				if dd < 0 || dd > 1 || math.IsNaN(dd) {
					return false
				}
			}
			for _, eq := range res.FinalEquity {
				if eq < 0 || math.IsNaN(eq) {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0.05, 0.95),
		gen.Float64Range(0.5, 5),
		gen.IntRange(1, 8),
		gen.Int64Range(1, 1<<40),
	))

	properties.TestingRun(t)
}

func TestRunScenarioBand(t *testing.T) {
	res, err := Run(validParams())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.MeanFinalEquity <= 0 || math.IsInf(res.MeanFinalEquity, 0) || math.IsNaN(res.MeanFinalEquity) {
		t.Fatalf("mean final equity should be positive and finite, got %v", res.MeanFinalEquity)
	}
	// 0.45*2.5 - 0.55 ~ +0.575R edge per trade; over 520 trades the mean
	// should sit well above the starting capital.
	if res.MeanFinalEquity <= 10000 {
		t.Fatalf("positive-edge strategy should grow on average, got %v", res.MeanFinalEquity)
	}
	if res.ProbLoss < 0 || res.ProbLoss > 1 {
		t.Fatalf("prob_loss out of [0,1]: %v", res.ProbLoss)
	}
	if res.MinFinalEquity > res.MedianFinalEquity || res.MedianFinalEquity > res.MaxFinalEquity {
		t.Fatalf("min/median/max ordering violated: %v %v %v",
			res.MinFinalEquity, res.MedianFinalEquity, res.MaxFinalEquity)
	}
}

func TestRunCertainWinNoDrawdown(t *testing.T) {
	params := validParams()
	params.PWin = 1.0
	params.CostPerTradeUSD = 0
	params.SlippageBps = 0
	params.NumSimulations = 10
	params.Weeks = 2

	res, err := Run(params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, dd := range res.MaxDrawdowns {
		if dd != 0 {
			t.Fatalf("all-win path should have zero drawdown, got %v", dd)
		}
	}
	want := 10000 * math.Pow(1+2.5*0.005, float64(params.TotalTrades()))
	if math.Abs(res.MeanFinalEquity-want) > 1e-6*want {
		t.Fatalf("deterministic compounding mismatch: want %v got %v", want, res.MeanFinalEquity)
	}
}

func TestSamplePaths(t *testing.T) {
	params := validParams()
	params.NumSimulations = 100
	params.Weeks = 1

	res, err := Run(params)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	sampled := SamplePaths(res, 10)
	if len(sampled) != 10 {
		t.Fatalf("expected 10 paths, got %d", len(sampled))
	}
	if &sampled[0][0] != &res.EquityPaths[0][0] {
		t.Fatalf("first sample should be the first path")
	}
	if &sampled[9][0] != &res.EquityPaths[99][0] {
		t.Fatalf("last sample should be the last path")
	}

	all := SamplePaths(res, 200)
	if len(all) != 100 {
		t.Fatalf("oversampling should return every path, got %d", len(all))
	}
}
