package hail

import "math/big"

// InRegion reports whether a crossing counts: both times non-negative and the
// point inside the closed square described by b.
func InRegion(ix *Intersection, b Bounds) bool {
	if !ix.Future() {
		return false
	}
	low := new(big.Int).Mul(big.NewInt(b.Low), ix.det)
	high := new(big.Int).Mul(big.NewInt(b.High), ix.det)
	return within(ix.xNum, low, high) && within(ix.yNum, low, high)
}

func within(v, low, high *big.Int) bool {
	return v.Cmp(low) >= 0 && v.Cmp(high) <= 0
}

// Crosses combines Intersect and InRegion for a single pair.
func Crosses(a, b Hailstone, bounds Bounds) bool {
	ix, ok := Intersect(a, b)
	if !ok {
		return false
	}
	return InRegion(ix, bounds)
}

// Verdict names the outcome of evaluating one pair.
type Verdict string

const (
	VerdictCounts   Verdict = "counts"
	VerdictOutside  Verdict = "outside"
	VerdictPast     Verdict = "past"
	VerdictParallel Verdict = "parallel"
)

// Classify evaluates a pair and reports the first failing condition, or
// VerdictCounts. Only VerdictCounts contributes to Count.
func Classify(a, b Hailstone, bounds Bounds) Verdict {
	ix, ok := Intersect(a, b)
	switch {
	case !ok:
		return VerdictParallel
	case !ix.Future():
		return VerdictPast
	case !InRegion(ix, bounds):
		return VerdictOutside
	default:
		return VerdictCounts
	}
}
