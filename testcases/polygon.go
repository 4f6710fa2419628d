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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// polygonFamilies contain shapes made only of straight edges.
var polygonFamilies = []Family{
	{
		Name: "squares",
		Shapes: []*path.Data{
			square(100, 100, 40, 0),
			square(60, 140, 25, 30),
			square(150, 70, 50, -15),
			square(120, 120, 35, 60),
		},
		Width:  200,
		Height: 200,
	},
	{
		// the same square twice, the second copy rotated by a quarter turn
		Name: "rotated_squares",
		Shapes: []*path.Data{
			square(60, 100, 30, 0),
			square(140, 100, 30, 90),
		},
		Width:  200,
		Height: 200,
	},
	{
		Name: "triangles",
		Shapes: []*path.Data{
			triangle(placement(50, 60, 30, 0), pt(-1, -1), pt(1, -1), pt(0, 1)),
			triangle(placement(140, 60, 25, 20), pt(-1, -1), pt(1.4, -1), pt(0.2, 1.2)),
			triangle(placement(100, 150, 35, -40), pt(-1, -0.8), pt(1, -1), pt(-0.2, 0.9)),
		},
		Width:  200,
		Height: 200,
	},
	{
		Name: "quads",
		Shapes: []*path.Data{
			quad(placement(50, 50, 30, 0), 0, 0, 0, 0),
			quad(placement(150, 50, 25, 15), 0.3, 0, -0.2, 0),
			quad(placement(50, 150, 35, -10), 0, 0.4, 0, 0.1),
			quad(placement(150, 150, 30, 45), 0.2, -0.2, 0.3, 0.4),
			quad(placement(100, 100, 20, 100), -0.3, 0.2, 0, -0.1),
		},
		Width:  200,
		Height: 200,
	},
	{
		Name: "stars",
		Shapes: []*path.Data{
			star(placement(60, 60, 40, 0), 0.4),
			star(placement(140, 60, 35, 12), 0.55),
			star(placement(60, 140, 45, -20), 0.3),
			star(placement(140, 140, 30, 36), 0.65),
		},
		Width:  200,
		Height: 200,
	},
}

// square builds an axis-parallel square of half-width r centred at (cx, cy)
// and then rotates it by deg degrees about its centre.
func square(cx, cy, r, deg float64) *path.Data {
	return polygon(placement(cx, cy, r, deg), pt(-1, -1), pt(1, -1), pt(1, 1), pt(-1, 1))
}

// triangle builds a triangular path.
func triangle(f func(vec.Vec2) vec.Vec2, a, b, c vec.Vec2) *path.Data {
	return polygon(f, a, b, c)
}

// quad builds a quadrilateral by moving the corners of the unit square
// around.  Each parameter shifts one corner along the diagonal through it.
func quad(f func(vec.Vec2) vec.Vec2, d0, d1, d2, d3 float64) *path.Data {
	return polygon(f,
		pt(-1-d0, -1-d0),
		pt(1+d1, -1-d1),
		pt(1+d2, 1+d2),
		pt(-1-d3, 1+d3))
}

// star builds a five-pointed star with ten straight edges.  The outer
// points lie on the unit circle, the inner ones on a circle of the given
// radius.
func star(f func(vec.Vec2) vec.Vec2, inner float64) *path.Data {
	corners := make([]vec.Vec2, 10)
	for i := range corners {
		angle := float64(i)*math.Pi/5 - math.Pi/2
		r := 1.0
		if i%2 == 1 {
			r = inner
		}
		corners[i] = pt(r*math.Cos(angle), r*math.Sin(angle))
	}
	return polygon(f, corners...)
}
