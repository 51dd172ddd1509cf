package hail

import "fmt"

// Vec2 is an integer 2D vector used for both positions and velocities.
type Vec2 struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
}

// Hailstone is an immutable position and velocity pair.
type Hailstone struct {
	Pos Vec2 `json:"pos"`
	Vel Vec2 `json:"vel"`
}

// NewHailstone builds a hailstone from its four components.
func NewHailstone(px, py, vx, vy int64) Hailstone {
	return Hailstone{Pos: Vec2{X: px, Y: py}, Vel: Vec2{X: vx, Y: vy}}
}

// String renders the hailstone in the puzzle's line format without z.
func (h Hailstone) String() string {
	return fmt.Sprintf("%d, %d @ %d, %d", h.Pos.X, h.Pos.Y, h.Vel.X, h.Vel.Y)
}

// Bounds is the closed interval applied to both coordinates of a crossing.
type Bounds struct {
	Low  int64 `json:"low" yaml:"low"`
	High int64 `json:"high" yaml:"high"`
}

// ReferenceBounds is the test area used by the full puzzle input.
var ReferenceBounds = Bounds{Low: 200000000000000, High: 400000000000000}

// Validate reports an error when the interval is empty.
func (b Bounds) Validate() error {
	if b.Low > b.High {
		return fmt.Errorf("invalid bounds: low %d is greater than high %d", b.Low, b.High)
	}
	return nil
}

// Pair identifies an unordered pair of hailstones by index, with I < J.
type Pair struct {
	I int `json:"i"`
	J int `json:"j"`
}
