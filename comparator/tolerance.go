package comparator

import "fmt"

// SimilarThreshold is the fixed deviation ceiling for the similar flag
const SimilarThreshold = 5.0

// DefaultTolerance allows no deviation at all
const DefaultTolerance = 100.0

// Tolerance is the user setting behind the identical verdict.
// Higher values allow less deviation: the ceiling is 100 - Percent.
type Tolerance struct {
	Percent float64
}

// NewTolerance validates percent and returns the tolerance
func NewTolerance(percent float64) (Tolerance, error) {
	if percent < 0 || percent > 100 {
		return Tolerance{}, fmt.Errorf("tolerance must be between 0 and 100, got %g", percent)
	}
	return Tolerance{Percent: percent}, nil
}

// MaxAllowedDeviation is the largest deviation percentage still counted as identical
func (t Tolerance) MaxAllowedDeviation() float64 {
	return 100 - t.Percent
}

// Verdict is the classification of one measured deviation
type Verdict struct {
	Identical bool
	Similar   bool
}

// Classify applies the tolerance to a deviation percentage.
// A tolerance of 0 never yields identical. Similar ignores the tolerance.
func (t Tolerance) Classify(percent float64) Verdict {
	return Verdict{
		Identical: t.Percent > 0 && percent <= t.MaxAllowedDeviation(),
		Similar:   percent <= SimilarThreshold,
	}
}
