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
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

func TestNormalize(t *testing.T) {
	pts := v2s(0, 0, 2, 0, 2, 2, 0, 2)

	res, err := NewNormalizer(0.5).Normalize(pts)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(vec.Vec2{X: 1, Y: 1}, res.Centroid, approx); d != "" {
		t.Errorf("centroid (-want +got):\n%s", d)
	}
	want := v2s(-0.5, 0.5, 0.5, 0.5, 0.5, -0.5, -0.5, -0.5)
	if d := cmp.Diff(want, res.Points, approx); d != "" {
		t.Errorf("points (-want +got):\n%s", d)
	}

	keep := &Normalizer{Scale: 0.5, KeepYAxis: true}
	res, err = keep.Normalize(pts)
	if err != nil {
		t.Fatal(err)
	}
	want = v2s(-0.5, -0.5, 0.5, -0.5, 0.5, 0.5, -0.5, 0.5)
	if d := cmp.Diff(want, res.Points, approx); d != "" {
		t.Errorf("KeepYAxis points (-want +got):\n%s", d)
	}

	// the input is not modified
	if d := cmp.Diff(v2s(0, 0, 2, 0, 2, 2, 0, 2), pts); d != "" {
		t.Errorf("input changed:\n%s", d)
	}
}

func TestNormalizeTwice(t *testing.T) {
	pts := v2s(3, 1, 7, 2, 5, 9, 1, 4, 2, 2, 6, 6)

	// with unit scale, the y-inversion undoes itself
	n := NewNormalizer(1)
	once, err := n.Normalize(pts)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := n.Normalize(once.Points)
	if err != nil {
		t.Fatal(err)
	}
	want := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		want[i] = p.Sub(once.Centroid)
	}
	if d := cmp.Diff(want, twice.Points, approx); d != "" {
		t.Errorf("y-inversion is not an involution (-want +got):\n%s", d)
	}

	// without inversion, normalising at unit scale is idempotent
	keep := &Normalizer{Scale: 1, KeepYAxis: true}
	once, err = keep.Normalize(pts)
	if err != nil {
		t.Fatal(err)
	}
	twice, err = keep.Normalize(once.Points)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(once.Points, twice.Points, approx); d != "" {
		t.Errorf("not idempotent (-want +got):\n%s", d)
	}
	if d := cmp.Diff(vec.Vec2{}, twice.Centroid, approx); d != "" {
		t.Errorf("second centroid (-want +got):\n%s", d)
	}
}

func TestDenormalize(t *testing.T) {
	c := circle(40).Transform(matrix.Matrix{1, 0, 0, 1, 250, 120})
	for _, n := range []*Normalizer{NewNormalizer(DefaultScale), {Scale: 3, KeepYAxis: true}} {
		nc, centroid, err := n.NormalizeCurve(c)
		if err != nil {
			t.Fatal(err)
		}
		back, err := n.DenormalizeCurve(nc, centroid)
		if err != nil {
			t.Fatal(err)
		}
		if !back.Equal(c, 1e-9) {
			t.Errorf("scale %g, KeepYAxis %t: denormalised curve differs", n.Scale, n.KeepYAxis)
		}
	}
}

func TestNormalizeErrors(t *testing.T) {
	pts := v2s(0, 0, 1, 1)

	if _, err := NewNormalizer(1).Normalize(nil); !errors.Is(err, ErrInvalidShape) {
		t.Errorf("empty input: expected ErrInvalidShape, got %v", err)
	}
	for _, s := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := NewNormalizer(s).Normalize(pts); !errors.Is(err, ErrInvalidShape) {
			t.Errorf("scale %g: expected ErrInvalidShape, got %v", s, err)
		}
		if _, err := NewNormalizer(s).Denormalize(pts, vec.Vec2{}); !errors.Is(err, ErrInvalidShape) {
			t.Errorf("Denormalize with scale %g: expected ErrInvalidShape, got %v", s, err)
		}
	}
}
