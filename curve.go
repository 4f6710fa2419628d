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
	"iter"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Segment is a cubic Bézier segment.
type Segment struct {
	P0 vec.Vec2 // start point
	P1 vec.Vec2 // first control point
	P2 vec.Vec2 // second control point
	P3 vec.Vec2 // end point
}

// LineSegment returns the straight segment from a to b as a degenerate
// cubic, with both control points placed on the corresponding end point.
func LineSegment(a, b vec.Vec2) Segment {
	return Segment{P0: a, P1: a, P2: b, P3: b}
}

// Curve is a closed curve made of N cubic Bézier segments.
// The end point of segment i is the start point of segment i+1, and the
// end point of the last segment is the start point of the first one.
//
// A Curve is immutable once constructed.
type Curve struct {
	// pts holds 3N points: for segment i, pts[3i] is the start point,
	// pts[3i+1] and pts[3i+2] are the control points.  The end point of
	// segment i is pts[3((i+1)%N)], so shared anchors are stored only once.
	pts []vec.Vec2
}

// NewCurve builds a closed curve from its segments.
// Consecutive segments must share their anchor point exactly, and the last
// segment must end where the first one starts.
func NewCurve(segs []Segment) (*Curve, error) {
	n := len(segs)
	if n == 0 {
		return nil, fmt.Errorf("morph: curve without segments: %w", ErrInvalidShape)
	}

	pts := make([]vec.Vec2, 3*n)
	for i, seg := range segs {
		next := segs[(i+1)%n]
		if seg.P3 != next.P0 {
			return nil, fmt.Errorf("morph: segment %d ends at %v but segment %d starts at %v: %w",
				i, seg.P3, (i+1)%n, next.P0, ErrSegmentCountMismatch)
		}
		pts[3*i] = seg.P0
		pts[3*i+1] = seg.P1
		pts[3*i+2] = seg.P2
	}
	return &Curve{pts: pts}, nil
}

// CurveFromPoints builds a closed curve from a contour in curve order:
// start point, then two control points and an end point per segment.
//
// The contour may either repeat the start point at the end (3N+1 points,
// as produced by [Curve.Points]) or leave the closing point implied
// (3N points).
func CurveFromPoints(contour []vec.Vec2) (*Curve, error) {
	pts, err := openContour(contour)
	if err != nil {
		return nil, err
	}
	return &Curve{pts: pts}, nil
}

// openContour validates a contour and returns a copy without the closing
// duplicate.
func openContour(contour []vec.Vec2) ([]vec.Vec2, error) {
	k := len(contour)
	switch {
	case k == 0:
		return nil, fmt.Errorf("morph: empty contour: %w", ErrInvalidShape)
	case k%3 == 0:
		return append([]vec.Vec2(nil), contour...), nil
	case k%3 == 1 && k >= 4:
		if contour[k-1] != contour[0] {
			return nil, fmt.Errorf("morph: contour ends at %v, not at its start %v: %w",
				contour[k-1], contour[0], ErrSegmentCountMismatch)
		}
		return append([]vec.Vec2(nil), contour[:k-1]...), nil
	default:
		return nil, fmt.Errorf("morph: %d points do not form whole cubic segments: %w",
			k, ErrSegmentCountMismatch)
	}
}

// NumSegments returns the number of segments, which equals the number of
// anchors.
func (c *Curve) NumSegments() int {
	return len(c.pts) / 3
}

// Segment returns segment i, for 0 <= i < c.NumSegments().
func (c *Curve) Segment(i int) Segment {
	n := len(c.pts) / 3
	return Segment{
		P0: c.pts[3*i],
		P1: c.pts[3*i+1],
		P2: c.pts[3*i+2],
		P3: c.pts[3*((i+1)%n)],
	}
}

// Segments iterates over the segments in curve order.
func (c *Curve) Segments() iter.Seq2[int, Segment] {
	return func(yield func(int, Segment) bool) {
		for i := range c.NumSegments() {
			if !yield(i, c.Segment(i)) {
				return
			}
		}
	}
}

// Points returns the closed contour of the curve: 3N+1 points, starting
// and ending at the start point of the first segment.
func (c *Curve) Points() []vec.Vec2 {
	res := make([]vec.Vec2, len(c.pts)+1)
	copy(res, c.pts)
	res[len(c.pts)] = c.pts[0]
	return res
}

// Transform returns the image of c under the affine map m.
// Bézier curves are affinely invariant, so transforming the control points
// transforms the curve.
func (c *Curve) Transform(m matrix.Matrix) *Curve {
	pts := make([]vec.Vec2, len(c.pts))
	for i, p := range c.pts {
		pts[i] = apply(m, p)
	}
	return &Curve{pts: pts}
}

// Equal reports whether c and other have the same number of segments and
// all control points agree to within tol in both coordinates.
func (c *Curve) Equal(other *Curve, tol float64) bool {
	if len(c.pts) != len(other.pts) {
		return false
	}
	for i, p := range c.pts {
		q := other.pts[i]
		if math.Abs(p.X-q.X) > tol || math.Abs(p.Y-q.Y) > tol {
			return false
		}
	}
	return true
}

// Path returns the curve as a closed path, for use by renderers.
func (c *Curve) Path() *path.Data {
	p := (&path.Data{}).MoveTo(c.pts[0])
	for _, seg := range c.Segments() {
		p = p.CubeTo(seg.P1, seg.P2, seg.P3)
	}
	return p.Close()
}

// CurveFromPath converts a path consisting of a single closed sub-path of
// straight lines and cubic Bézier segments into a curve.
// Straight lines become degenerate cubics, see [LineSegment].
// An implied closing line is added if the sub-path does not end at its
// start point.
func CurveFromPath(p *path.Data) (*Curve, error) {
	return CurveFromSeq(p.Iter())
}

// CurveFromSeq is like [CurveFromPath], but reads the path from an
// iterator.
func CurveFromSeq(p path.Path) (*Curve, error) {
	var segs []Segment
	var current, start vec.Vec2
	started, closed := false, false

	for cmd, pts := range p {
		if closed {
			return nil, fmt.Errorf("morph: path has more than one sub-path: %w", ErrInvalidShape)
		}
		switch cmd {
		case path.CmdMoveTo:
			if started {
				return nil, fmt.Errorf("morph: path has more than one sub-path: %w", ErrInvalidShape)
			}
			current = pts[0]
			start = current
			started = true

		case path.CmdLineTo:
			segs = append(segs, LineSegment(current, pts[0]))
			current = pts[0]

		case path.CmdQuadTo:
			return nil, fmt.Errorf("morph: quadratic segment %d: %w", len(segs), ErrUnsupportedSegmentKind)

		case path.CmdCubeTo:
			seg := Segment{P0: current, P1: pts[0], P2: pts[1], P3: pts[2]}
			segs = append(segs, seg)
			current = seg.P3

		case path.CmdClose:
			if current != start {
				segs = append(segs, LineSegment(current, start))
			}
			current = start
			closed = true
		}
	}
	if !started {
		return nil, fmt.Errorf("morph: empty path: %w", ErrInvalidShape)
	}
	if !closed && current != start {
		segs = append(segs, LineSegment(current, start))
	}
	return NewCurve(segs)
}

// apply maps p through the affine transformation m.
func apply(m matrix.Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}
