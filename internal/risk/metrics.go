package risk

import (
	"math"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	"github.com/david89it/trading-opportunities-platform/internal/indicators"
)

// Ceiling for the reported profit factor when gross loss is zero or tiny.
const maxProfitFactor = 1000.0

// DerivedMetrics computes VaR/CVaR, profit factor, and win/loss statistics
// from the simulation's trade-return grid and final equities.
func DerivedMetrics(res *models.SimulationResults, startingCapital float64) models.RiskStatistics {
	finalReturns := make([]float64, len(res.FinalEquity))
	for i, eq := range res.FinalEquity {
		finalReturns[i] = eq/startingCapital - 1
	}

	var95 := indicators.LinearPercentile(finalReturns, 5)

	var cvarSum float64
	var cvarN int
	for _, r := range finalReturns {
		if r <= var95 {
			cvarSum += r
			cvarN++
		}
	}
	cvar95 := 0.0
	if cvarN > 0 {
		cvar95 = cvarSum / float64(cvarN)
	}

	var grossProfit, grossLoss float64
	var wins, losses, total int
	var largestWin, largestLoss float64
	first := true
	for _, path := range res.TradeReturns {
		for _, r := range path {
			if first {
				largestWin, largestLoss = r, r
				first = false
			}
			if r > largestWin {
				largestWin = r
			}
			if r < largestLoss {
				largestLoss = r
			}
			switch {
			case r > 0:
				grossProfit += r
				wins++
			case r < 0:
				grossLoss += -r
				losses++
			}
			total++
		}
	}

	profitFactor := 1.0
	switch {
	case grossLoss > 0:
		profitFactor = math.Min(grossProfit/grossLoss, maxProfitFactor)
	case wins > 0:
		// No losing trade at all. encoding/json cannot carry +Inf, so the
		// ratio is reported saturated instead.
		profitFactor = maxProfitFactor
	}

	winRate, avgWin, avgLoss := 0.0, 0.0, 0.0
	if total > 0 {
		winRate = float64(wins) / float64(total)
	}
	if wins > 0 {
		avgWin = grossProfit / float64(wins)
	}
	if losses > 0 {
		avgLoss = -grossLoss / float64(losses)
	}

	return models.RiskStatistics{
		VaR95:        var95,
		CVaR95:       cvar95,
		ProfitFactor: profitFactor,
		WinRate:      winRate,
		AvgWin:       avgWin,
		AvgLoss:      avgLoss,
		LargestWin:   largestWin,
		LargestLoss:  largestLoss,
	}
}
