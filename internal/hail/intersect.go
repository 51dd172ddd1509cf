package hail

import (
	"fmt"
	"math/big"
)

// Intersection is the unique crossing of two non-parallel hailstone paths.
//
// All values are kept as numerators over a shared positive denominator Det:
//
//	t* = tNum / det    s* = sNum / det
//	x  = xNum / det    y  = yNum / det
type Intersection struct {
	det  *big.Int
	tNum *big.Int
	sNum *big.Int
	xNum *big.Int
	yNum *big.Int
}

// Intersect solves pa + t*va = pb + s*vb for t and s.
//
// Returns ok == false when the velocity cross product is zero, which covers
// parallel paths, coincident paths, and zero velocities.
func Intersect(a, b Hailstone) (ix *Intersection, ok bool) {
	avx, avy := big.NewInt(a.Vel.X), big.NewInt(a.Vel.Y)
	bvx, bvy := big.NewInt(b.Vel.X), big.NewInt(b.Vel.Y)

	det := Det(a, b)
	if det.Sign() == 0 {
		return nil, false
	}

	apx, apy := big.NewInt(a.Pos.X), big.NewInt(a.Pos.Y)
	dx := new(big.Int).Sub(big.NewInt(b.Pos.X), apx)
	dy := new(big.Int).Sub(big.NewInt(b.Pos.Y), apy)

	// Crossing d = pb - pa with each velocity isolates one unknown.
	tNum := cross(dx, dy, bvx, bvy)
	sNum := cross(dx, dy, avx, avy)

	if det.Sign() < 0 {
		det.Neg(det)
		tNum.Neg(tNum)
		sNum.Neg(sNum)
	}

	// x*det = pa.x*det + va.x*tNum, same for y.
	xNum := new(big.Int).Mul(apx, det)
	xNum.Add(xNum, new(big.Int).Mul(avx, tNum))
	yNum := new(big.Int).Mul(apy, det)
	yNum.Add(yNum, new(big.Int).Mul(avy, tNum))

	return &Intersection{det: det, tNum: tNum, sNum: sNum, xNum: xNum, yNum: yNum}, true
}

// Det returns the velocity cross product va.x*vb.y - va.y*vb.x. It is zero
// exactly when the two paths are parallel or one velocity is zero.
func Det(a, b Hailstone) *big.Int {
	return cross(big.NewInt(a.Vel.X), big.NewInt(a.Vel.Y), big.NewInt(b.Vel.X), big.NewInt(b.Vel.Y))
}

// cross returns ax*by - ay*bx.
func cross(ax, ay, bx, by *big.Int) *big.Int {
	l := new(big.Int).Mul(ax, by)
	r := new(big.Int).Mul(ay, bx)
	return l.Sub(l, r)
}

// Det returns a copy of the positive common denominator.
func (ix *Intersection) Det() *big.Int { return new(big.Int).Set(ix.det) }

// T returns the parametric time along the first hailstone.
func (ix *Intersection) T() *big.Rat { return new(big.Rat).SetFrac(ix.tNum, ix.det) }

// S returns the parametric time along the second hailstone.
func (ix *Intersection) S() *big.Rat { return new(big.Rat).SetFrac(ix.sNum, ix.det) }

// X returns the x coordinate of the crossing.
func (ix *Intersection) X() *big.Rat { return new(big.Rat).SetFrac(ix.xNum, ix.det) }

// Y returns the y coordinate of the crossing.
func (ix *Intersection) Y() *big.Rat { return new(big.Rat).SetFrac(ix.yNum, ix.det) }

// Future reports whether both hailstones reach the crossing at t >= 0.
func (ix *Intersection) Future() bool {
	return ix.tNum.Sign() >= 0 && ix.sNum.Sign() >= 0
}

// Swap returns the same crossing seen from the second hailstone.
func (ix *Intersection) Swap() *Intersection {
	return &Intersection{det: ix.det, tNum: ix.sNum, sNum: ix.tNum, xNum: ix.xNum, yNum: ix.yNum}
}

// String renders the crossing with three decimal places.
func (ix *Intersection) String() string {
	return fmt.Sprintf("x=%s, y=%s (t=%s, s=%s)",
		ix.X().FloatString(3), ix.Y().FloatString(3),
		ix.T().FloatString(3), ix.S().FloatString(3))
}
