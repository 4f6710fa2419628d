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

	"seehuhn.de/go/geom/vec"
)

// Normalizer centres a point sequence and scales it.
//
// Normalising an already normalised shape with Scale 1 leaves it unchanged
// only if KeepYAxis is set.  Otherwise the second pass inverts the y axis
// again.
type Normalizer struct {
	// Scale is the factor applied after centring.  Must be finite and > 0.
	Scale float64

	// KeepYAxis disables the inversion of the vertical axis.  By default
	// y is multiplied by -Scale, converting between y-down source data and
	// y-up shape coordinates.
	KeepYAxis bool
}

// Normalized is the result of [Normalizer.Normalize].
type Normalized struct {
	Points []vec.Vec2

	// Centroid is the mean of the input points, which was subtracted.
	Centroid vec.Vec2
}

// NewNormalizer returns a normaliser which scales by (scale, -scale).
func NewNormalizer(scale float64) *Normalizer {
	return &Normalizer{Scale: scale}
}

func (n *Normalizer) factors() (sx, sy float64, err error) {
	s := n.Scale
	if !(s > 0) || math.IsInf(s, 0) {
		return 0, 0, fmt.Errorf("morph: normalisation scale %g: %w", s, ErrInvalidShape)
	}
	if n.KeepYAxis {
		return s, s, nil
	}
	return s, -s, nil
}

// Normalize subtracts the centroid of pts from every point and then
// multiplies the coordinates by the scale factors.
func (n *Normalizer) Normalize(pts []vec.Vec2) (*Normalized, error) {
	if len(pts) == 0 {
		return nil, fmt.Errorf("morph: nothing to normalise: %w", ErrInvalidShape)
	}
	sx, sy, err := n.factors()
	if err != nil {
		return nil, err
	}

	centroid := mean(pts)
	res := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		d := p.Sub(centroid)
		res[i] = vec.Vec2{X: d.X * sx, Y: d.Y * sy}
	}
	return &Normalized{Points: res, Centroid: centroid}, nil
}

// Denormalize undoes [Normalizer.Normalize] for points normalised relative
// to the given centroid.
func (n *Normalizer) Denormalize(pts []vec.Vec2, centroid vec.Vec2) ([]vec.Vec2, error) {
	sx, sy, err := n.factors()
	if err != nil {
		return nil, err
	}
	res := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		res[i] = vec.Vec2{X: p.X/sx + centroid.X, Y: p.Y/sy + centroid.Y}
	}
	return res, nil
}

// NormalizeCurve normalises the control points of a curve.  The centroid is
// taken over the 3N stored points, so the first anchor is counted once.
func (n *Normalizer) NormalizeCurve(c *Curve) (*Curve, vec.Vec2, error) {
	res, err := n.Normalize(c.pts)
	if err != nil {
		return nil, vec.Vec2{}, err
	}
	return &Curve{pts: res.Points}, res.Centroid, nil
}

// DenormalizeCurve is the inverse of [Normalizer.NormalizeCurve].
func (n *Normalizer) DenormalizeCurve(c *Curve, centroid vec.Vec2) (*Curve, error) {
	pts, err := n.Denormalize(c.pts, centroid)
	if err != nil {
		return nil, err
	}
	return &Curve{pts: pts}, nil
}

func mean(pts []vec.Vec2) vec.Vec2 {
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	k := float64(len(pts))
	return vec.Vec2{X: sx / k, Y: sy / k}
}
