package geom

import (
	"image"
	"math"
)

// Point is a sub-pixel position in either display or raster space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Eq reports whether p and q are the same position.
func (p Point) Eq(q Point) bool { return p.X == q.X && p.Y == q.Y }

// Round returns the nearest integer pixel, rounding halves up.
func (p Point) Round() image.Point {
	return image.Pt(RoundHalfUp(p.X), RoundHalfUp(p.Y))
}

// RoundHalfUp rounds v to the nearest integer with .5 going towards
// positive infinity.
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Scale maps display coordinates to raster coordinates. Each axis carries
// its own factor so a non-uniformly stretched display still maps onto the
// raster.
type Scale struct {
	X, Y float64
}

// Identity is the scale used when the raster is displayed at 1:1.
var Identity = Scale{X: 1, Y: 1}

// ScaleFor returns raster/display per axis. Zero display sizes fall back
// to a factor of 1 for that axis.
func ScaleFor(raster, display image.Point) Scale {
	s := Identity
	if display.X > 0 {
		s.X = float64(raster.X) / float64(display.X)
	}
	if display.Y > 0 {
		s.Y = float64(raster.Y) / float64(display.Y)
	}
	return s
}

// ToRaster converts a display-space point to raster space.
func (s Scale) ToRaster(p Point) Point {
	return Point{X: p.X * s.X, Y: p.Y * s.Y}
}

// Valid reports whether both factors are usable.
func (s Scale) Valid() bool {
	return s.X > 0 && s.Y > 0 && !math.IsInf(s.X, 0) && !math.IsInf(s.Y, 0)
}

// Box is an axis-aligned float rectangle with a non-negative size.
type Box struct {
	X, Y, Width, Height float64
}

// Normalize builds the positive-size box spanned by two corners.
func Normalize(a, b Point) Box {
	return Box{
		X:      math.Min(a.X, b.X),
		Y:      math.Min(a.Y, b.Y),
		Width:  math.Abs(b.X - a.X),
		Height: math.Abs(b.Y - a.Y),
	}
}
