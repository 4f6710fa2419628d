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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/morph/latent"
	"seehuhn.de/go/morph/latent/gplvm"
	"seehuhn.de/go/morph/testcases"
)

// fakeFitter records its input and returns a model which always predicts
// the zero vector, so that every query reproduces the mean shape.
type fakeFitter struct {
	dim    int // latent dimension of the returned model, 0 means as requested
	extra  int // extra entries in predicted vectors
	err    error
	logger *slog.Logger

	samples [][]float64
}

func (f *fakeFitter) SetLogger(l *slog.Logger) {
	f.logger = l
}

func (f *fakeFitter) Fit(samples [][]float64, latentDim int) (latent.Model, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.samples = samples
	dim := latentDim
	if f.dim > 0 {
		dim = f.dim
	}
	return &constModel{
		dim:         dim,
		v:           make([]float64, len(samples[0])+f.extra),
		uncertainty: 0.25,
	}, nil
}

type constModel struct {
	dim         int
	v           []float64
	uncertainty float64
}

func (m *constModel) LatentDim() int { return m.dim }

func (m *constModel) Predict(z []float64) (latent.Prediction, error) {
	if len(z) != m.dim {
		return latent.Prediction{}, latent.ErrLatentDim
	}
	return latent.Prediction{Vector: slices.Clone(m.v), Uncertainty: m.uncertainty}, nil
}

// family returns the curves of a test family.
func family(t *testing.T, name string) []*Curve {
	t.Helper()
	for _, fams := range testcases.All {
		for _, fam := range fams {
			if fam.Name != name {
				continue
			}
			var res []*Curve
			for _, p := range fam.Shapes {
				c, err := CurveFromPath(p)
				require.NoError(t, err)
				res = append(res, c)
			}
			return res
		}
	}
	t.Fatalf("unknown family %q", name)
	return nil
}

func build(t *testing.T, fitter latent.Fitter, opts *Options, curves ...*Curve) *Session {
	t.Helper()
	b := NewBuilder(fitter, opts)
	for _, c := range curves {
		b.Add(c)
	}
	s, err := b.Build(context.Background())
	require.NoError(t, err)
	return s
}

func TestRotatedSquares(t *testing.T) {
	curves := family(t, "rotated_squares")
	s := build(t, gplvm.New(&gplvm.Options{}), nil, curves...)

	require.Equal(t, 4, s.NumAnchors())
	require.Equal(t, DefaultLatentDim, s.LatentDim())
	assert.True(t, s.Alignment().Converged)

	// both squares align onto the same shape
	aligned := s.Alignment().Aligned
	require.Len(t, aligned, 2)
	assert.InDeltaSlice(t, aligned[0], aligned[1], 1e-9)

	mc := s.MeanCurve()
	var side []float64
	for i := range 4 {
		a := mc.Segment(i).P0
		b := mc.Segment((i + 1) % 4).P0
		side = append(side, b.Sub(a).Length())
	}
	for _, l := range side[1:] {
		assert.InDelta(t, side[0], l, 1e-9)
	}
	d1 := mc.Segment(2).P0.Sub(mc.Segment(0).P0).Length()
	d2 := mc.Segment(3).P0.Sub(mc.Segment(1).P0).Length()
	assert.InDelta(t, d1, d2, 1e-9)

	// The mean is the first square, centred, with y pointing up and
	// scaled so that the canonical vector has unit norm.  Every corner
	// appears three times in that vector.
	a := 1 / math.Sqrt(24)
	corners := []vec.Vec2{{X: -a, Y: a}, {X: a, Y: a}, {X: a, Y: -a}, {X: -a, Y: -a}}
	var segs []Segment
	for i, p := range corners {
		segs = append(segs, LineSegment(p, corners[(i+1)%4]))
	}
	want := mustCurve(t, segs)
	assert.True(t, mc.Equal(want, 1e-9), "mean curve %v", mc.Points())
	assert.InDelta(t, 1, floats.Norm(s.Mean(), 2), 1e-9)

	// the second square was rotated by a quarter turn
	tr := s.Alignment().Transforms
	require.Len(t, tr, 2)
	dAngle := math.Remainder(tr[1].Angle-tr[0].Angle, 2*math.Pi)
	assert.InDelta(t, math.Pi/2, math.Abs(dAngle), 1e-9)
	assert.InDelta(t, 1, tr[0].Scale/tr[1].Scale, 1e-9)

	for _, z := range []vec.Vec2{{}, {X: 0.5, Y: -0.3}, {X: 40, Y: 40}} {
		rec, err := s.Query(z, IdentityView)
		require.NoError(t, err)
		assert.True(t, rec.Curve.Equal(mc, 1e-9), "query at %v", z)
		assert.Equal(t, []float64{z.X, z.Y}, rec.Latent)
	}
}

func TestQueryReproducesFamily(t *testing.T) {
	curves := family(t, "quads")
	fitter := gplvm.New(&gplvm.Options{Variance: 1, LengthScale: 1, Noise: 1e-8})
	s := build(t, fitter, nil, curves...)

	z := s.TrainingLatents()
	require.Len(t, z, len(curves))
	for i, zi := range z {
		rec, err := s.QueryLatent(zi, IdentityView)
		require.NoError(t, err)
		v, err := Encode(rec.Shape())
		require.NoError(t, err)
		assert.InDeltaSlice(t, s.Alignment().Aligned[i], v, 1e-3, "shape %d", i)
		assert.Less(t, rec.Uncertainty, 1e-3)
	}

	// far away, the model falls back to the mean shape
	rec, err := s.Query(vec.Vec2{X: 100, Y: 100}, IdentityView)
	require.NoError(t, err)
	assert.True(t, rec.Curve.Equal(s.MeanCurve(), 1e-9))
	assert.Greater(t, rec.Uncertainty, 0.5)
}

func TestBuildDefaults(t *testing.T) {
	s := build(t, gplvm.New(nil), nil, family(t, "stars")...)

	rec, err := s.Query(vec.Vec2{X: 0.1, Y: 0.2}, IdentityView)
	require.NoError(t, err)
	require.Equal(t, 10, rec.Curve.NumSegments())
	for _, p := range rec.Curve.Points() {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y))
	}
	assert.Greater(t, rec.Uncertainty, 0.0)
}

func TestQueryView(t *testing.T) {
	s := build(t, &fakeFitter{}, nil, family(t, "triangles")...)

	view, err := NewViewMap(rect.Rect{LLx: -10, LLy: 0, URx: 10, URy: 4}, 2)
	require.NoError(t, err)
	rec, err := s.Query(vec.Vec2{X: 1, Y: 2}, view)
	require.NoError(t, err)

	want := rec.Shape().Transform(view.Matrix())
	assert.True(t, rec.Curve.Equal(want, 1e-12))
	assert.True(t, rec.Shape().Equal(s.MeanCurve(), 1e-12))
	assert.Equal(t, 0.25, rec.Uncertainty)
}

func TestSource(t *testing.T) {
	curves := family(t, "rotated_squares")
	s := build(t, &fakeFitter{}, nil, curves...)

	rec, err := s.Query(vec.Vec2{}, IdentityView)
	require.NoError(t, err)
	src, err := rec.Source()
	require.NoError(t, err)

	// the squares have side 60 and are centred at (60, 100) and (140, 100)
	c := mean(src.pts)
	assert.InDelta(t, 100, c.X, 1e-6)
	assert.InDelta(t, 100, c.Y, 1e-6)
	assert.InDelta(t, curves[0].SignedArea(), src.SignedArea(), 1e-6)
	assert.InDelta(t, 3600, math.Abs(src.SignedArea()), 1e-6)
}

func TestMinSamples(t *testing.T) {
	sq := family(t, "squares")[0]

	fitter := &fakeFitter{}
	s := build(t, fitter, &Options{MinSamples: 3}, sq)
	require.Len(t, fitter.samples, 3)
	for _, v := range fitter.samples {
		assert.Len(t, v, VectorLen(4))
		assert.InDeltaSlice(t, make([]float64, VectorLen(4)), v, 1e-12)
	}
	assert.Nil(t, s.TrainingLatents())
	assert.Equal(t, rect.Rect{LLx: -3, LLy: -3, URx: 3, URy: 3}, s.LatentBounds(3))

	fitter = &fakeFitter{}
	build(t, fitter, nil, family(t, "quads")...)
	assert.Len(t, fitter.samples, 5)
}

func TestBuildErrors(t *testing.T) {
	ctx := context.Background()
	curves := family(t, "triangles")

	_, err := NewBuilder(&fakeFitter{}, nil).Build(ctx)
	assert.ErrorIs(t, err, ErrInvalidShape)

	b := NewBuilder(&fakeFitter{}, nil)
	b.Add(curves[0])
	b.Add(family(t, "squares")[0])
	_, err = b.Build(ctx)
	assert.ErrorIs(t, err, ErrSegmentCountMismatch)

	p := vec.Vec2{X: 3, Y: 3}
	point := mustCurve(t, []Segment{
		LineSegment(p, p), LineSegment(p, p), LineSegment(p, p), LineSegment(p, p),
	})
	b = NewBuilder(&fakeFitter{}, nil)
	b.Add(mustCurve(t, unitSquare()))
	b.Add(point)
	_, err = b.Build(ctx)
	assert.ErrorIs(t, err, ErrDegenerateShape)
	assert.NotErrorIs(t, err, ErrOrientationMismatch)

	errFit := errors.New("fit failed")
	b = NewBuilder(&fakeFitter{err: errFit}, nil)
	b.Add(curves[0])
	_, err = b.Build(ctx)
	assert.ErrorIs(t, err, errFit)

	b = NewBuilder(&fakeFitter{dim: 3}, nil)
	b.Add(curves[0])
	_, err = b.Build(ctx)
	assert.ErrorIs(t, err, latent.ErrLatentDim)

	b = NewBuilder(&fakeFitter{}, &Options{Scale: -1})
	b.Add(curves[0])
	_, err = b.Build(ctx)
	assert.ErrorIs(t, err, ErrInvalidShape)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	b = NewBuilder(&fakeFitter{}, nil)
	for _, c := range curves {
		b.Add(c)
	}
	_, err = b.Build(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueryErrors(t *testing.T) {
	curves := family(t, "triangles")

	s := build(t, &fakeFitter{}, nil, curves...)
	_, err := s.QueryLatent([]float64{1, 2, 3}, IdentityView)
	assert.ErrorIs(t, err, latent.ErrLatentDim)

	s = build(t, &fakeFitter{extra: 2}, nil, curves...)
	_, err = s.Query(vec.Vec2{}, IdentityView)
	assert.ErrorIs(t, err, ErrVectorLengthMismatch)
}

func TestAddPath(t *testing.T) {
	b := NewBuilder(&fakeFitter{}, nil)
	p := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		LineTo(vec.Vec2{X: 10, Y: 0}).
		LineTo(vec.Vec2{X: 0, Y: 10}).
		Close()
	require.NoError(t, b.AddPath(p))
	require.NoError(t, b.AddPath(p))
	assert.Equal(t, 2, b.Len())

	q := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 0}).
		QuadTo(vec.Vec2{X: 10, Y: 0}, vec.Vec2{X: 0, Y: 10}).
		Close()
	assert.ErrorIs(t, b.AddPath(q), ErrUnsupportedSegmentKind)
	assert.Equal(t, 2, b.Len())

	s, err := b.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, s.NumAnchors())
}

func TestLatentBounds(t *testing.T) {
	s := build(t, gplvm.New(nil), nil, family(t, "quads")...)
	z := s.TrainingLatents()
	require.Len(t, z, 5)

	r := s.LatentBounds(1)
	for _, zi := range z {
		assert.GreaterOrEqual(t, zi[0], r.LLx-1e-12)
		assert.LessOrEqual(t, zi[0], r.URx+1e-12)
		assert.GreaterOrEqual(t, zi[1], r.LLy-1e-12)
		assert.LessOrEqual(t, zi[1], r.URy+1e-12)
	}

	wide := s.LatentBounds(3)
	assert.InDelta(t, 3*(r.URx-r.LLx), wide.URx-wide.LLx, 1e-9)
	assert.InDelta(t, 3*(r.URy-r.LLy), wide.URy-wide.LLy, 1e-9)
	assert.InDelta(t, (r.LLx+r.URx)/2, (wide.LLx+wide.URx)/2, 1e-9)

	// the copy is independent of the session
	z[0][0] = 1e6
	assert.NotEqual(t, 1e6, s.TrainingLatents()[0][0])
}

func TestOptionsDefaults(t *testing.T) {
	got := (*Options)(nil).withDefaults()
	assert.Equal(t, *DefaultOptions(), got)

	align := DefaultOptions().Alignment
	align.MaxIterations = 7
	got = (&Options{Scale: 2, KeepYAxis: true, LatentDim: 3, Alignment: align}).withDefaults()
	assert.Equal(t, 2.0, got.Scale)
	assert.True(t, got.KeepYAxis)
	assert.Equal(t, 3, got.LatentDim)
	assert.Equal(t, DefaultMinSamples, got.MinSamples)
	assert.Equal(t, 7, got.Alignment.MaxIterations)
	assert.NotSame(t, align, got.Alignment)
}

func TestBuildLogging(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer SetLogger(nil)

	fitter := &fakeFitter{}
	build(t, fitter, nil, family(t, "triangles")...)
	assert.Same(t, Logger(), fitter.logger)
	assert.Contains(t, buf.String(), "shape model built")

	buf.Reset()
	build(t, gplvm.New(nil), nil, family(t, "triangles")...)
	assert.Contains(t, buf.String(), "GP-LVM fitted")
}

func TestConcurrentQuery(t *testing.T) {
	s := build(t, gplvm.New(nil), nil, family(t, "quads")...)
	z := vec.Vec2{X: 0.3, Y: -0.2}
	want, err := s.Query(z, IdentityView)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				got, err := s.Query(z, IdentityView)
				if assert.NoError(t, err) {
					assert.True(t, got.Curve.Equal(want.Curve, 0))
					assert.Equal(t, want.Uncertainty, got.Uncertainty)
				}
			}
		}()
	}
	wg.Wait()
}
