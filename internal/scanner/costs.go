package scanner

// CostsInR converts round-trip slippage and fixed fees into risk multiples.
// Returns 0 when risk per share is non-positive (degenerate setup policy).
func CostsInR(slippageBps, feesUSD, entryPrice, riskPerShare float64) float64 {
	if riskPerShare <= 0 {
		return 0
	}

	slippagePerShare := slippageBps / 10000 * entryPrice * 2 // round trip
	return slippagePerShare/riskPerShare + feesUSD/riskPerShare
}

// NetExpectedR computes the expected value in R after costs, with the loss
// leg fixed at -1R:
// E[R] = pTarget*rRatio - (1-pTarget) - costsR.
func NetExpectedR(pTarget, rRatio, costsR float64) float64 {
	return pTarget*rRatio - (1-pTarget) - costsR
}
