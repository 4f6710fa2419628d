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

package testcases

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// curveFamilies contain shapes made of cubic Bézier segments.
var curveFamilies = []Family{
	{
		Name: "circles",
		Shapes: []*path.Data{
			ellipse(placement(50, 50, 30, 0), 1, 1),
			ellipse(placement(140, 60, 45, 0), 1, 1),
			ellipse(placement(90, 140, 20, 0), 1, 1),
		},
		Width:  200,
		Height: 200,
	},
	{
		Name: "ellipses",
		Shapes: []*path.Data{
			ellipse(placement(60, 60, 40, 0), 1, 0.5),
			ellipse(placement(140, 60, 40, 30), 1, 0.7),
			ellipse(placement(60, 140, 40, -45), 1, 0.35),
			ellipse(placement(140, 140, 40, 90), 1, 0.9),
		},
		Width:  200,
		Height: 200,
	},
	{
		Name: "blobs",
		Shapes: []*path.Data{
			blob(placement(60, 60, 35, 0), 0, 0, 0, 0),
			blob(placement(140, 60, 35, 0), 0.4, 0, -0.2, 0),
			blob(placement(60, 140, 35, 20), 0, 0.3, 0, 0.3),
			blob(placement(140, 140, 35, -10), -0.25, 0.2, 0.35, -0.1),
			blob(placement(100, 100, 25, 75), 0.15, -0.3, 0.1, 0.25),
		},
		Width:  200,
		Height: 200,
	},
	{
		Name: "drops",
		Shapes: []*path.Data{
			drop(placement(50, 100, 30, 0), 1.0),
			drop(placement(100, 100, 30, 10), 1.5),
			drop(placement(150, 100, 30, -10), 2.2),
		},
		Width:  200,
		Height: 200,
	},
}

// ellipse builds an approximate ellipse using four cubic Bezier curves.
func ellipse(f func(vec.Vec2) vec.Vec2, rx, ry float64) *path.Data {
	kx := rx * kappa
	ky := ry * kappa

	return (&path.Data{}).
		MoveTo(f(pt(rx, 0))).                                  // start at right
		CubeTo(f(pt(rx, ky)), f(pt(kx, ry)), f(pt(0, ry))).    // first quadrant
		CubeTo(f(pt(-kx, ry)), f(pt(-rx, ky)), f(pt(-rx, 0))). // second quadrant
		CubeTo(f(pt(-rx, -ky)), f(pt(-kx, -ry)), f(pt(0, -ry))).
		CubeTo(f(pt(kx, -ry)), f(pt(rx, -ky)), f(pt(rx, 0))).
		Close()
}

// blob builds a circle-like shape whose four anchors are pushed outwards
// (or pulled inwards, for negative values) by the given amounts.  The
// tangents at the anchors stay parallel to the circle's tangents.
func blob(f func(vec.Vec2) vec.Vec2, d0, d1, d2, d3 float64) *path.Data {
	r0, r1, r2, r3 := 1+d0, 1+d1, 1+d2, 1+d3
	return (&path.Data{}).
		MoveTo(f(pt(r0, 0))).
		CubeTo(f(pt(r0, kappa*r0)), f(pt(kappa*r1, r1)), f(pt(0, r1))).
		CubeTo(f(pt(-kappa*r1, r1)), f(pt(-r2, kappa*r2)), f(pt(-r2, 0))).
		CubeTo(f(pt(-r2, -kappa*r2)), f(pt(-kappa*r3, -r3)), f(pt(0, -r3))).
		CubeTo(f(pt(kappa*r3, -r3)), f(pt(r0, -kappa*r0)), f(pt(r0, 0))).
		Close()
}

// drop builds a teardrop: a half circle closed by two straight edges which
// meet at a tip at distance length from the centre.
func drop(f func(vec.Vec2) vec.Vec2, length float64) *path.Data {
	return (&path.Data{}).
		MoveTo(f(pt(0, -1))).
		LineTo(f(pt(length, 0))).
		LineTo(f(pt(0, 1))).
		CubeTo(f(pt(-kappa, 1)), f(pt(-1, kappa)), f(pt(-1, 0))).
		CubeTo(f(pt(-1, -kappa)), f(pt(-kappa, -1)), f(pt(0, -1))).
		Close()
}
