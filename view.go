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
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// ViewMap maps reconstructed shape coordinates into the coordinate range of
// the display window the user is looking at.  It is unrelated to the
// alignment transforms and must be rebuilt whenever the window changes.
type ViewMap struct {
	m matrix.Matrix
}

// IdentityView leaves reconstructed coordinates unchanged.
var IdentityView = ViewMap{m: matrix.Identity}

// NewViewMap returns the view map for the given visible window.
// Shapes are scaled uniformly by zoom times the shorter side of the
// window and centred on zoom times the window centre.
func NewViewMap(window rect.Rect, zoom float64) (ViewMap, error) {
	w := window.URx - window.LLx
	h := window.URy - window.LLy
	if !(w > 0 && h > 0) || !(zoom > 0) || math.IsInf(zoom, 0) {
		return ViewMap{}, fmt.Errorf("morph: window %v with zoom %g: %w", window, zoom, ErrInvalidView)
	}

	s := zoom * min(w, h)
	cx := zoom * (window.LLx + window.URx) / 2
	cy := zoom * (window.LLy + window.URy) / 2
	return ViewMap{m: matrix.Matrix{s, 0, 0, s, cx, cy}}, nil
}

// Matrix returns the affine transformation of the view map.
func (v ViewMap) Matrix() matrix.Matrix {
	if v.m == (matrix.Matrix{}) {
		return matrix.Identity
	}
	return v.m
}

// Apply maps a point through the view map.
func (v ViewMap) Apply(p vec.Vec2) vec.Vec2 {
	return apply(v.Matrix(), p)
}
