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

	"seehuhn.de/go/geom/vec"
)

// AnchorRecord groups an anchor with the two control points next to it.
//
// For anchor i of an N-segment curve, Left is the second control point of
// segment i, Center is the end point of segment i (which is the start point
// of segment i+1), and Right is the first control point of segment
// (i+1) mod N.
type AnchorRecord struct {
	Left   vec.Vec2
	Center vec.Vec2
	Right  vec.Vec2
}

// anchorOffsets maps anchor i of an n-anchor curve to the indices of its
// three points in the 3n-point store of a [Curve].
func anchorOffsets(i, n int) (left, center, right int) {
	next := 3 * ((i + 1) % n)
	return 3*i + 2, next, next + 1
}

// Anchor returns the anchor record i, for 0 <= i < c.NumSegments().
func (c *Curve) Anchor(i int) AnchorRecord {
	l, m, r := anchorOffsets(i, len(c.pts)/3)
	return AnchorRecord{Left: c.pts[l], Center: c.pts[m], Right: c.pts[r]}
}

// Anchors returns all N anchor records in anchor order.
func (c *Curve) Anchors() []AnchorRecord {
	n := c.NumSegments()
	res := make([]AnchorRecord, n)
	for i := range res {
		res[i] = c.Anchor(i)
	}
	return res
}

// VectorLen returns the length of the canonical vector of a curve with
// numAnchors anchors.
func VectorLen(numAnchors int) int {
	return 6 * numAnchors
}

// Encode returns the canonical vector of c: for every anchor record in
// anchor order the coordinates of Left, Center and Right, as x, y pairs.
// The closing duplicate of the first anchor is implied and not stored, so
// the result has length 6N for an N-segment curve.
func Encode(c *Curve) ([]float64, error) {
	if c == nil || len(c.pts) == 0 || len(c.pts)%3 != 0 {
		return nil, fmt.Errorf("morph: cannot encode curve: %w", ErrSegmentCountMismatch)
	}
	return encode(c.pts), nil
}

// EncodePoints returns the canonical vector of a contour given in curve
// order.  See [CurveFromPoints] for the accepted layouts.
func EncodePoints(contour []vec.Vec2) ([]float64, error) {
	pts, err := openContour(contour)
	if err != nil {
		return nil, err
	}
	return encode(pts), nil
}

func encode(pts []vec.Vec2) []float64 {
	n := len(pts) / 3
	v := make([]float64, 6*n)
	for i := range n {
		l, m, r := anchorOffsets(i, n)
		w := v[6*i : 6*i+6]
		w[0], w[1] = pts[l].X, pts[l].Y
		w[2], w[3] = pts[m].X, pts[m].Y
		w[4], w[5] = pts[r].X, pts[r].Y
	}
	return v
}

// Decode is the inverse of [Encode].  The length of v must be exactly
// 6*numAnchors.  Decoded segment j starts at the centre of anchor j-1, has
// control points Right of anchor j-1 and Left of anchor j, and ends at the
// centre of anchor j (indices modulo numAnchors).
func Decode(v []float64, numAnchors int) (*Curve, error) {
	if numAnchors < 1 || len(v)%6 != 0 || len(v) != 6*numAnchors {
		return nil, fmt.Errorf("morph: vector of length %d for %d anchors: %w",
			len(v), numAnchors, ErrVectorLengthMismatch)
	}
	return &Curve{pts: decode(vectorPoints(v))}, nil
}

// decode rebuilds the point store of a curve from the points of a
// canonical vector.
func decode(q []vec.Vec2) []vec.Vec2 {
	n := len(q) / 3
	pts := make([]vec.Vec2, 3*n)
	for i := range n {
		l, m, r := anchorOffsets(i, n)
		pts[l] = q[3*i]
		pts[m] = q[3*i+1]
		pts[r] = q[3*i+2]
	}
	return pts
}

// vectorPoints reshapes a flat coordinate vector into (x, y) pairs.
func vectorPoints(v []float64) []vec.Vec2 {
	q := make([]vec.Vec2, len(v)/2)
	for i := range q {
		q[i] = vec.Vec2{X: v[2*i], Y: v[2*i+1]}
	}
	return q
}
