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

import "fmt"

// Family is a validated set of curves which can be aligned against each
// other: all curves have the same number of segments and run in the same
// direction.
type Family struct {
	curves      []*Curve
	numAnchors  int
	orientation Orientation
}

// NewFamily validates the given curves.
//
// An empty family gives [ErrInvalidShape] and curves with different segment
// counts give [ErrSegmentCountMismatch].  A curve whose points all
// coincide gives [ErrDegenerateShape].  Any other curve enclosing no area,
// or a curve which runs the other way round than the first one, gives
// [ErrOrientationMismatch].  Curves are never reversed automatically, since
// this would change which anchors correspond to each other.
func NewFamily(curves ...*Curve) (*Family, error) {
	if len(curves) == 0 {
		return nil, fmt.Errorf("morph: empty family: %w", ErrInvalidShape)
	}

	f := &Family{
		curves: make([]*Curve, len(curves)),
	}
	for i, c := range curves {
		if c == nil || c.NumSegments() == 0 {
			return nil, fmt.Errorf("morph: curve %d is empty: %w", i, ErrInvalidShape)
		}
		n := c.NumSegments()
		if collapsed(c) {
			return nil, fmt.Errorf("morph: all points of curve %d coincide: %w", i, ErrDegenerateShape)
		}
		o := c.Orientation()
		if i == 0 {
			f.numAnchors = n
			f.orientation = o
		}

		if n != f.numAnchors {
			return nil, fmt.Errorf("morph: curve %d has %d segments, curve 0 has %d: %w",
				i, n, f.numAnchors, ErrSegmentCountMismatch)
		}
		if o == Degenerate {
			return nil, fmt.Errorf("morph: curve %d encloses no area: %w", i, ErrOrientationMismatch)
		}
		if o != f.orientation {
			return nil, fmt.Errorf("morph: curve %d is %s, curve 0 is %s: %w",
				i, o, f.orientation, ErrOrientationMismatch)
		}
		f.curves[i] = c
	}
	return f, nil
}

// Len returns the number of curves in the family.
func (f *Family) Len() int {
	return len(f.curves)
}

// Curve returns curve i of the family.
func (f *Family) Curve(i int) *Curve {
	return f.curves[i]
}

// NumAnchors returns the common number of anchors of the curves.
func (f *Family) NumAnchors() int {
	return f.numAnchors
}

// Orientation returns the common orientation of the curves.
func (f *Family) Orientation() Orientation {
	return f.orientation
}

// collapsed reports whether all points of c coincide.
func collapsed(c *Curve) bool {
	for _, p := range c.pts[1:] {
		if p != c.pts[0] {
			return false
		}
	}
	return true
}
