package scanner

import "math"

// Calibrator maps an overall score in [0,100] to an estimated probability of
// reaching target before stop. Implementations must be monotonic
// non-decreasing and never error; inputs are clamped. The analytical default
// is a stand-in until enough tracked outcomes exist to fit an isotonic curve.
type Calibrator interface {
	ScoreToProbability(score float64) float64
}

// Probability bounds of the default calibration curve.
const (
	ProbabilityFloor = 0.35
	ProbabilityCeil  = 0.72
)

// PiecewiseCalibrator is the default three-segment curve:
// [0,20] linear 0.35-0.45, (20,60] linear 0.45-0.58, (60,100] a normalized
// sigmoid rising 0.58-0.72.
type PiecewiseCalibrator struct{}

// ScoreToProbability maps score to [0.35, 0.72], clamping out-of-range input.
func (PiecewiseCalibrator) ScoreToProbability(score float64) float64 {
	s := score
	if s < 0 {
		s = 0
	}
	if s > 100 {
		s = 100
	}

	switch {
	case s <= 20:
		return 0.35 + (0.45-0.35)*(s/20)
	case s <= 60:
		return 0.45 + (0.58-0.45)*((s-20)/40)
	default:
		// Segment-local sigmoid, renormalized so the endpoints land exactly
		// on 0.58 and 0.72.
		x := (s - 60) / 40
		lo, hi := sigmoid(0), sigmoid(1)
		return 0.58 + (0.72-0.58)*(sigmoid(x)-lo)/(hi-lo)
	}
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-5*(x-0.5)))
}
