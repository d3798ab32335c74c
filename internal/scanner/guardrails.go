package scanner

import (
	"fmt"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
)

// CheckGuardrails classifies a computed opportunity. Checks run in a fixed
// order and the first failing check wins; BLOCKED checks are evaluated before
// REVIEW checks so a blocking violation always dominates.
func CheckGuardrails(opp *models.Opportunity, cfg Config) (models.GuardrailStatus, string) {
	setup := opp.Setup

	// 1. Position risk as a fraction of the portfolio.
	if cfg.PortfolioValue > 0 {
		riskFraction := float64(setup.PositionSizeShare) * setup.RiskPerShare() / cfg.PortfolioValue
		if riskFraction > 2*cfg.RiskPct {
			return models.GuardrailBlocked, fmt.Sprintf(
				"position risk %.2f%% exceeds 2x per-trade limit %.2f%%",
				riskFraction*100, cfg.RiskPct*100)
		}
	}

	// 2. Minimum risk-reward ratio.
	if setup.RRRatio < 2.0 {
		return models.GuardrailBlocked, fmt.Sprintf("rr_ratio %.2f below minimum 2.0", setup.RRRatio)
	}

	// 3. Net expected value after costs.
	if opp.Risk.NetExpectedR < 0.05 {
		return models.GuardrailBlocked, fmt.Sprintf("net_expected_r %.3f below minimum 0.05", opp.Risk.NetExpectedR)
	}

	// 4. Overall score floor.
	if opp.Scores.Overall < cfg.ReviewScore {
		return models.GuardrailReview, fmt.Sprintf("signal score %.1f below review threshold %.1f", opp.Scores.Overall, cfg.ReviewScore)
	}

	// 5. Volatility sanity.
	if opp.Features.ATRPercent > 5.0 {
		return models.GuardrailReview, fmt.Sprintf("atr_percent %.2f above 5.0", opp.Features.ATRPercent)
	}

	return models.GuardrailApproved, ""
}
