// Package risk implements the Monte Carlo trading-strategy simulation engine.
// All computation is pure and deterministic for a given seed, so every run is
// reproducible in regression tests.
package risk

import (
	"math"
	"math/rand"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	"github.com/david89it/trading-opportunities-platform/internal/indicators"
)

// Run validates params and simulates num_simulations independent trade-return
// paths, compounding each into an equity curve. Validation failures abort the
// call before any simulation work; no partial results are ever returned.
func Run(params models.SimulationParameters) (*models.SimulationResults, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(params.Seed))

	totalTrades := params.TotalTrades()
	winReturn := params.RWin * params.RiskPct
	lossReturn := -params.RiskPct

	// Fixed per-trade drags, applied uniformly to every trade.
	costPct := params.CostPerTradeUSD / params.StartingCapital
	slippageImpact := params.SlippageBps / 10000 * params.RiskPct

	tradeReturns := make([][]float64, params.NumSimulations)
	equityPaths := make([][]float64, params.NumSimulations)
	finalEquity := make([]float64, params.NumSimulations)
	maxDrawdowns := make([]float64, params.NumSimulations)

	for sim := 0; sim < params.NumSimulations; sim++ {
		returns := make([]float64, totalTrades)
		path := make([]float64, totalTrades+1)
		path[0] = params.StartingCapital

		equity := params.StartingCapital
		peak := equity
		maxDD := 0.0

		for t := 0; t < totalTrades; t++ {
			r := lossReturn
			if rng.Float64() < params.PWin {
				r = winReturn
			}
			r -= costPct + slippageImpact
			returns[t] = r

			equity *= 1 + r
			path[t+1] = equity

			if equity > peak {
				peak = equity
			}
			if dd := (peak - equity) / peak; dd > maxDD {
				maxDD = dd
			}
		}

		tradeReturns[sim] = returns
		equityPaths[sim] = path
		finalEquity[sim] = equity
		maxDrawdowns[sim] = maxDD
	}

	res := &models.SimulationResults{
		EquityPaths:  equityPaths,
		FinalEquity:  finalEquity,
		MaxDrawdowns: maxDrawdowns,
		TradeReturns: tradeReturns,
	}
	summarize(res, params)
	return res, nil
}

func summarize(res *models.SimulationResults, params models.SimulationParameters) {
	n := len(res.FinalEquity)
	if n == 0 {
		return
	}

	var sum float64
	count2x, count3x, countLoss := 0, 0, 0
	minEq, maxEq := res.FinalEquity[0], res.FinalEquity[0]
	for _, eq := range res.FinalEquity {
		sum += eq
		if eq >= 2*params.StartingCapital {
			count2x++
		}
		if eq >= 3*params.StartingCapital {
			count3x++
		}
		if eq < params.StartingCapital {
			countLoss++
		}
		if eq < minEq {
			minEq = eq
		}
		if eq > maxEq {
			maxEq = eq
		}
	}
	mean := sum / float64(n)

	var variance float64
	for _, eq := range res.FinalEquity {
		variance += (eq - mean) * (eq - mean)
	}
	variance /= float64(n) // population variance

	res.MeanFinalEquity = mean
	res.MedianFinalEquity = indicators.Median(res.FinalEquity)
	res.StdFinalEquity = math.Sqrt(variance)
	res.Prob2x = float64(count2x) / float64(n)
	res.Prob3x = float64(count3x) / float64(n)
	res.ProbLoss = float64(countLoss) / float64(n)
	res.P95MaxDrawdown = indicators.LinearPercentile(res.MaxDrawdowns, 95)
	res.SharpeRatio = sharpe(res.EquityPaths)
	res.MinFinalEquity = minEq
	res.MaxFinalEquity = maxEq
}

// sharpe computes mean/std over all periodic returns across all paths,
// annualized by sqrt(52). Returns 0 when the deviation is 0.
func sharpe(paths [][]float64) float64 {
	var sum float64
	var count int
	for _, path := range paths {
		for t := 1; t < len(path); t++ {
			sum += path[t]/path[t-1] - 1
			count++
		}
	}
	if count == 0 {
		return 0
	}
	mean := sum / float64(count)

	var variance float64
	for _, path := range paths {
		for t := 1; t < len(path); t++ {
			r := path[t]/path[t-1] - 1
			variance += (r - mean) * (r - mean)
		}
	}
	std := math.Sqrt(variance / float64(count))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(52)
}

// SamplePaths returns numPaths equity curves sampled at evenly spaced indices
// for visualization. The full set is returned when numPaths covers it.
func SamplePaths(res *models.SimulationResults, numPaths int) [][]float64 {
	total := len(res.EquityPaths)
	if numPaths <= 0 {
		return nil
	}
	if numPaths >= total {
		return res.EquityPaths
	}

	out := make([][]float64, numPaths)
	for i := 0; i < numPaths; i++ {
		idx := 0
		if numPaths > 1 {
			idx = i * (total - 1) / (numPaths - 1)
		}
		out[i] = res.EquityPaths[idx]
	}
	return out
}
