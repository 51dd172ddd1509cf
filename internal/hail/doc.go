// Package hail counts hailstone path crossings inside a square test area.
//
// A hailstone is a point moving with constant velocity in the plane. Two
// hailstones form a counting pair when their straight-line paths cross at
// non-negative parametric times for both stones, and the crossing point lies
// inside the closed region [Low, High] x [Low, High].
//
// # Exact Arithmetic
//
// Puzzle inputs use coordinates around 4e14, so products of positions and
// velocities overflow int64 and float64 loses the low digits. Intersections are
// solved with Cramer's rule over math/big integers and kept as numerators over
// the (positive) determinant. Region checks compare det-scaled integers, which
// keeps the closed boundaries exact.
//
// # Degenerate Pairs
//
// A zero determinant covers parallel paths, coincident paths, and stones with
// zero velocity. Such a pair never counts, even when coincident paths overlap
// inside the region.
package hail
