package scanner

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestCalibratorEndpoints(t *testing.T) {
	cal := PiecewiseCalibrator{}

	tests := []struct {
		score float64
		want  float64
	}{
		{0, 0.35},
		{20, 0.45},
		{60, 0.58},
		{100, 0.72},
	}
	for _, tt := range tests {
		got := cal.ScoreToProbability(tt.score)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("score %v: expected %v, got %v", tt.score, tt.want, got)
		}
	}
}

func TestCalibratorClampsInput(t *testing.T) {
	cal := PiecewiseCalibrator{}
	if got := cal.ScoreToProbability(-50); got != ProbabilityFloor {
		t.Fatalf("negative score should clamp to floor, got %v", got)
	}
	if got := cal.ScoreToProbability(250); got != ProbabilityCeil {
		t.Fatalf("oversized score should clamp to ceiling, got %v", got)
	}
}

func TestCalibratorMonotonicProperty(t *testing.T) {
	cal := PiecewiseCalibrator{}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("p(s1) <= p(s2) for s1 < s2, both in [0.35, 0.72]", prop.ForAll(
		func(a, b float64) bool {
			s1, s2 := a, b
			if s1 > s2 {
				s1, s2 = s2, s1
			}
			p1 := cal.ScoreToProbability(s1)
			p2 := cal.ScoreToProbability(s2)
			if p1 > p2 {
				return false
			}
			return p1 >= ProbabilityFloor && p2 <= ProbabilityCeil
		},
		gen.Float64Range(0, 100),
		gen.Float64Range(0, 100),
	))

	properties.TestingRun(t)
}
