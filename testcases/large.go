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

// largeFamilies contain shapes with many segments, for benchmarks and to
// exercise long canonical vectors.
var largeFamilies = []Family{
	{
		Name: "flowers",
		Shapes: []*path.Data{
			flower(placement(128, 128, 80, 0), 32, 5, 0.2),
			flower(placement(384, 128, 80, 10), 32, 5, 0.35),
			flower(placement(128, 384, 80, -20), 32, 5, 0.1),
			flower(placement(384, 384, 80, 45), 32, 5, 0.28),
			flower(placement(256, 256, 60, 0), 32, 5, 0.4),
		},
		Width:  512,
		Height: 512,
	},
}

// flower builds a closed curve through n anchors on the polar curve
// r(θ) = 1 + depth·cos(petals·θ).  Control points are placed along the
// tangent directions, so the curve is smooth.
func flower(f func(vec.Vec2) vec.Vec2, n, petals int, depth float64) *path.Data {
	point := func(theta float64) (vec.Vec2, vec.Vec2) {
		k := float64(petals)
		r := 1 + depth*math.Cos(k*theta)
		dr := -depth * k * math.Sin(k*theta)
		sin, cos := math.Sincos(theta)
		p := pt(r*cos, r*sin)
		d := pt(dr*cos-r*sin, dr*sin+r*cos) // dp/dθ
		return p, d
	}

	step := 2 * math.Pi / float64(n)
	p0, d0 := point(0)
	p := (&path.Data{}).MoveTo(f(p0))
	for i := range n {
		a, da := point(float64(i) * step)
		b, db := point(float64(i+1) * step)
		if i == n-1 {
			b = p0
			db = d0
		}
		c1 := a.Add(da.Mul(step / 3))
		c2 := b.Sub(db.Mul(step / 3))
		p = p.CubeTo(f(c1), f(c2), f(b))
	}
	return p.Close()
}
