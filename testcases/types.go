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
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Family is a named set of shapes which can be aligned against each other.
// All shapes consist of a single closed sub-path, have the same number of
// segments and run in the same direction.
type Family struct {
	Name   string       // lowercase a-z and _ only
	Shapes []*path.Data // the family members, in source coordinates
	Width  float64      // canvas width in source units
	Height float64      // canvas height in source units
}

// Segments returns the number of segments of each shape in the family.
// All shapes return to their start point before closing, so the close
// command adds no segment.
func (f Family) Segments() int {
	if len(f.Shapes) == 0 {
		return 0
	}
	n := 0
	for _, cmd := range f.Shapes[0].Cmds {
		switch cmd {
		case path.CmdLineTo, path.CmdQuadTo, path.CmdCubeTo:
			n++
		}
	}
	return n
}

// kappa for cubic Bezier approximation of a quarter circle
const kappa = 0.5522847498307936

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// placement maps shape-local coordinates to the canvas: the shape is
// scaled by s, rotated by deg degrees and moved to (cx, cy).
func placement(cx, cy, s, deg float64) func(vec.Vec2) vec.Vec2 {
	m := matrix.RotateDeg(deg)
	return func(p vec.Vec2) vec.Vec2 {
		return vec.Vec2{
			X: s*(m[0]*p.X+m[2]*p.Y) + cx,
			Y: s*(m[1]*p.X+m[3]*p.Y) + cy,
		}
	}
}

// polygon builds a closed path through the given corners.
// Straight edges are stored as line segments.
func polygon(f func(vec.Vec2) vec.Vec2, corners ...vec.Vec2) *path.Data {
	p := (&path.Data{}).MoveTo(f(corners[0]))
	for _, c := range corners[1:] {
		p = p.LineTo(f(c))
	}
	// closing edge back to corners[0]
	return p.LineTo(f(corners[0])).Close()
}
