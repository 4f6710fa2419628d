// seehuhn.de/go/morph - shape spaces of closed Bézier curves
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package morph

import (
	"math"

	"seehuhn.de/go/geom/vec"
)

// Orientation is the direction in which a closed curve is traversed.
type Orientation int

// Orientation values.  The names refer to a y-up coordinate system: a
// positive signed area means counter-clockwise.
const (
	Degenerate Orientation = iota
	CounterClockwise
	Clockwise
)

func (o Orientation) String() string {
	switch o {
	case CounterClockwise:
		return "counter-clockwise"
	case Clockwise:
		return "clockwise"
	default:
		return "degenerate"
	}
}

// SignedArea returns the area enclosed by the curve.  The result is
// positive for counter-clockwise curves in a y-up coordinate system.
func (c *Curve) SignedArea() float64 {
	var area float64
	for _, seg := range c.Segments() {
		area += seg.SignedArea()
	}
	return area
}

// Orientation returns the traversal direction of the curve.
func (c *Curve) Orientation() Orientation {
	a := c.SignedArea()
	switch {
	case a > 0:
		return CounterClockwise
	case a < 0:
		return Clockwise
	default:
		return Degenerate
	}
}

// SignedArea returns the contribution of the segment to the signed area of
// a closed curve (Green's theorem, integrated exactly for the cubic).
func (s Segment) SignedArea() float64 {
	p0, p1, p2, p3 := s.P0, s.P1, s.P2, s.P3
	v := p0.X*(6*p1.Y+3*p2.Y+p3.Y) +
		3*(p1.X*(-2*p0.Y+p2.Y+p3.Y)-p2.X*(p0.Y+p1.Y-2*p3.Y)) -
		p3.X*(p0.Y+3*p1.Y+6*p2.Y)
	return v / 20
}

// Eval returns the point of the segment at parameter t in [0, 1].
func (s Segment) Eval(t float64) vec.Vec2 {
	// B(t) = (1-t)³P0 + 3(1-t)²tP1 + 3(1-t)t²P2 + t³P3
	omt := 1 - t
	omt2 := omt * omt
	t2 := t * t
	return s.P0.Mul(omt2 * omt).
		Add(s.P1.Mul(3 * omt2 * t)).
		Add(s.P2.Mul(3 * omt * t2)).
		Add(s.P3.Mul(t2 * t))
}

// Flatten approximates the curve by a closed polygon.  No point of the
// curve is further than tolerance from the polygon.  The returned slice
// starts at the first anchor and does not repeat it at the end.
func (c *Curve) Flatten(tolerance float64) []vec.Vec2 {
	var res []vec.Vec2
	for _, seg := range c.Segments() {
		res = append(res, seg.P0)
		seg.flatten(tolerance, func(p vec.Vec2) {
			res = append(res, p)
		})
	}
	return res
}

// flatten calls emit for the interior sample points of the segment, using
// Wang's formula for the number of pieces.  The end point is not emitted.
func (s Segment) flatten(tolerance float64, emit func(vec.Vec2)) {
	d1 := s.P0.Sub(s.P1.Mul(2)).Add(s.P2) // P0 - 2*P1 + P2
	d2 := s.P1.Sub(s.P2.Mul(2)).Add(s.P3) // P1 - 2*P2 + P3

	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 && tolerance > 0 {
		// n = ceil(sqrt(3 * m / (4 * ε)))
		if nFloat := math.Sqrt(3 * m / (4 * tolerance)); nFloat > 1 {
			n = int(math.Ceil(nFloat))
		}
	}

	for i := 1; i < n; i++ {
		emit(s.Eval(float64(i) / float64(n)))
	}
}
