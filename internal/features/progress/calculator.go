package progress

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Calculate returns round(100*completed/total), half away from zero.
// A course without lessons has no ratio to compute, so fallback is returned.
// The result is clamped to [0,100]. It can round to 100 before the last
// lesson is done (199 of 200), so callers decide completion on the counts.
func Calculate(total, completed, fallback int) int {
	if total <= 0 {
		return clamp(fallback)
	}
	if completed <= 0 {
		return 0
	}

	pct := decimal.NewFromInt(int64(completed)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		Round(0)

	return clamp(int(pct.IntPart()))
}

// ApplyStoredFloor lets a non-zero stored value mask a computed zero.
// This compensates for seeded enrollments whose completion rows were never
// migrated; it is a display workaround and is disabled unless configured.
func ApplyStoredFloor(computed, stored int) int {
	if computed == 0 && stored > 0 {
		return clamp(stored)
	}
	return computed
}

func clamp(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}
