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

package procrustes

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Similarity is an orientation preserving similarity transformation
//
//	p ↦ Scale·R(Angle)·p + Translation
//
// where R(θ) rotates counter-clockwise (in a y-up coordinate system) by θ
// radians.  Reflections cannot be represented.
type Similarity struct {
	Angle       float64  // rotation angle in radians
	Scale       float64  // isotropic scale factor, > 0
	Translation vec.Vec2 // applied after rotation and scaling
}

// Identity is the identity transformation.
var Identity = Similarity{Scale: 1}

// Apply maps p through s.
func (s Similarity) Apply(p vec.Vec2) vec.Vec2 {
	sin, cos := math.Sincos(s.Angle)
	return vec.Vec2{
		X: s.Scale*(cos*p.X-sin*p.Y) + s.Translation.X,
		Y: s.Scale*(sin*p.X+cos*p.Y) + s.Translation.Y,
	}
}

// Inverse returns the transformation which undoes s.
func (s Similarity) Inverse() Similarity {
	inv := Similarity{Angle: -s.Angle, Scale: 1 / s.Scale}
	t := inv.Apply(s.Translation)
	inv.Translation = vec.Vec2{X: -t.X, Y: -t.Y}
	return inv
}

// Then returns the transformation which first applies s and then t.
func (s Similarity) Then(t Similarity) Similarity {
	return Similarity{
		Angle:       normalizeAngle(s.Angle + t.Angle),
		Scale:       s.Scale * t.Scale,
		Translation: t.Apply(s.Translation),
	}
}

// Det returns the determinant of the linear part of s.  It equals
// Scale² and so is always positive.
func (s Similarity) Det() float64 {
	return s.Scale * s.Scale
}

// Matrix returns s as an affine transformation matrix.
func (s Similarity) Matrix() matrix.Matrix {
	sin, cos := math.Sincos(s.Angle)
	return matrix.Matrix{
		s.Scale * cos, s.Scale * sin,
		-s.Scale * sin, s.Scale * cos,
		s.Translation.X, s.Translation.Y,
	}
}

// normalizeAngle maps an angle into (-π, π].
func normalizeAngle(a float64) float64 {
	a = math.Remainder(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
