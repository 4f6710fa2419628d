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
	"context"
	"fmt"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/morph/latent"
	"seehuhn.de/go/morph/procrustes"
)

// Builder collects a family of curves and fits a shape model to it.
// A Builder is not safe for concurrent use.
type Builder struct {
	fitter latent.Fitter
	opts   Options
	curves []*Curve
}

// NewBuilder returns a builder which uses fitter to learn the latent model.
// If opts is nil, [DefaultOptions] are used.
//
// If the fitter has a SetLogger(*slog.Logger) method, Build passes the
// package logger to it.
func NewBuilder(fitter latent.Fitter, opts *Options) *Builder {
	return &Builder{
		fitter: fitter,
		opts:   opts.withDefaults(),
	}
}

// Add appends a curve to the family.
func (b *Builder) Add(c *Curve) {
	b.curves = append(b.curves, c)
}

// AddPath converts p using [CurveFromPath] and appends the result to the
// family.
func (b *Builder) AddPath(p *path.Data) error {
	c, err := CurveFromPath(p)
	if err != nil {
		return err
	}
	b.Add(c)
	return nil
}

// Len returns the number of curves added so far.
func (b *Builder) Len() int {
	return len(b.curves)
}

// Build fits the shape model.  This runs synchronously and may take a long
// time.  The context is checked between the stages of the pipeline, but
// the model fit itself cannot be interrupted.
//
// The curves are validated as a [Family], normalised, encoded as canonical
// vectors and aligned.  The mean of the aligned vectors is subtracted and
// the remaining variation is passed to the fitter, repeating shapes if
// needed to reach Options.MinSamples samples.
//
// Build does not modify the builder, so it can be called again after more
// curves have been added.
func (b *Builder) Build(ctx context.Context) (*Session, error) {
	logger := Logger()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fam, err := NewFamily(b.curves...)
	if err != nil {
		return nil, err
	}
	m := fam.Len()
	n := fam.NumAnchors()
	logger.Debug("validated family", "shapes", m, "anchors", n, "orientation", fam.Orientation())

	norm := b.opts.normalizer()
	vectors := make([][]float64, m)
	var centroid vec.Vec2
	for i := range m {
		nc, c, err := norm.NormalizeCurve(fam.Curve(i))
		if err != nil {
			return nil, fmt.Errorf("morph: curve %d: %w", i, err)
		}
		vectors[i] = encode(nc.pts)
		centroid = centroid.Add(c)
	}
	centroid = centroid.Mul(1 / float64(m))
	logger.Debug("encoded family", "dim", VectorLen(n))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	alignOpts := *b.opts.Alignment
	alignOpts.Logger = logger
	aligned, err := procrustes.Align(vectors, &alignOpts)
	if err != nil {
		return nil, fmt.Errorf("morph: alignment failed: %w", err)
	}

	mean := make([]float64, VectorLen(n))
	for _, v := range aligned.Aligned {
		for j, x := range v {
			mean[j] += x
		}
	}
	for j := range mean {
		mean[j] /= float64(m)
	}
	centred := make([][]float64, m)
	for i, v := range aligned.Aligned {
		row := make([]float64, len(v))
		for j, x := range v {
			row[j] = x - mean[j]
		}
		centred[i] = row
	}
	samples := centred
	for len(samples) < b.opts.MinSamples {
		samples = append(samples, centred[len(samples)%m])
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ls, ok := b.fitter.(loggerSetter); ok {
		ls.SetLogger(logger)
	}
	logger.Debug("fitting latent model", "samples", len(samples), "latentDim", b.opts.LatentDim)
	model, err := b.fitter.Fit(samples, b.opts.LatentDim)
	if err != nil {
		return nil, fmt.Errorf("morph: model fit failed: %w", err)
	}
	if model.LatentDim() != b.opts.LatentDim {
		return nil, fmt.Errorf("morph: model has latent dimension %d, expected %d: %w",
			model.LatentDim(), b.opts.LatentDim, latent.ErrLatentDim)
	}

	var sourceScale float64
	for _, t := range aligned.Transforms {
		sourceScale += 1 / t.Scale
	}
	sourceScale /= float64(m)

	s := &Session{
		model:       model,
		numAnchors:  n,
		mean:        mean,
		alignment:   aligned,
		normalizer:  *norm,
		centroid:    centroid,
		sourceScale: sourceScale,
	}
	if lp, ok := model.(latentPositions); ok {
		z := lp.Latent()
		if len(z) >= m {
			s.latents = z[:m]
		}
	}

	logger.Info("shape model built",
		"shapes", m, "anchors", n, "latentDim", model.LatentDim(),
		"alignmentIterations", aligned.Iterations, "converged", aligned.Converged)
	return s, nil
}

// latentPositions is implemented by models which expose the latent points
// of their training samples.
type latentPositions interface {
	Latent() [][]float64
}

// Session is a fitted shape model.  It is immutable and safe for
// concurrent use.
type Session struct {
	model      latent.Model
	numAnchors int
	mean       []float64
	alignment  *procrustes.Result

	normalizer  Normalizer
	centroid    vec.Vec2
	sourceScale float64

	latents [][]float64
}

// Reconstruction is a curve generated from a latent point.
type Reconstruction struct {
	// Curve is the reconstructed curve, in view coordinates.
	Curve *Curve

	// Uncertainty is reported by the model.  Its meaning depends on the
	// model; it is passed on unchanged.
	Uncertainty float64

	// Latent is the latent point the curve was generated from.
	Latent []float64

	shape   *Curve
	session *Session
}

// Query reconstructs the curve at a point of a two-dimensional latent
// space and maps it through view.  Latent points far from the training
// data are not rejected.
func (s *Session) Query(z vec.Vec2, view ViewMap) (*Reconstruction, error) {
	return s.QueryLatent([]float64{z.X, z.Y}, view)
}

// QueryLatent is like [Session.Query], for latent spaces of any dimension.
func (s *Session) QueryLatent(z []float64, view ViewMap) (*Reconstruction, error) {
	pred, err := s.model.Predict(z)
	if err != nil {
		return nil, fmt.Errorf("morph: model prediction failed: %w", err)
	}
	if len(pred.Vector) != len(s.mean) {
		return nil, fmt.Errorf("morph: model returned vector of length %d, expected %d: %w",
			len(pred.Vector), len(s.mean), ErrVectorLengthMismatch)
	}

	q := make([]vec.Vec2, len(s.mean)/2)
	m := view.Matrix()
	shape := make([]vec.Vec2, len(q))
	for i := range q {
		p := vec.Vec2{
			X: pred.Vector[2*i] + s.mean[2*i],
			Y: pred.Vector[2*i+1] + s.mean[2*i+1],
		}
		shape[i] = p
		q[i] = apply(m, p)
	}

	return &Reconstruction{
		Curve:       &Curve{pts: decode(q)},
		Uncertainty: pred.Uncertainty,
		Latent:      append([]float64(nil), z...),
		shape:       &Curve{pts: decode(shape)},
		session:     s,
	}, nil
}

// Shape returns the reconstructed curve in the aligned shape space, before
// the view map was applied.
func (r *Reconstruction) Shape() *Curve {
	return r.shape
}

// Source maps the reconstructed curve back to the coordinate system of the
// input curves.  The result is centred on the mean centroid of the family
// and has the size of an average family member.  The view map is not
// involved.
func (r *Reconstruction) Source() (*Curve, error) {
	s := r.session
	pts := make([]vec.Vec2, len(r.shape.pts))
	for i, p := range r.shape.pts {
		pts[i] = p.Mul(s.sourceScale)
	}
	return s.normalizer.DenormalizeCurve(&Curve{pts: pts}, s.centroid)
}

// NumAnchors returns the number of anchors of the curves in the family.
func (s *Session) NumAnchors() int {
	return s.numAnchors
}

// LatentDim returns the dimension of the latent space.
func (s *Session) LatentDim() int {
	return s.model.LatentDim()
}

// Model returns the fitted latent model.
func (s *Session) Model() latent.Model {
	return s.model
}

// Alignment returns the result of the Procrustes alignment of the family.
// The result must not be modified.
func (s *Session) Alignment() *procrustes.Result {
	return s.alignment
}

// Mean returns a copy of the mean of the aligned canonical vectors.
func (s *Session) Mean() []float64 {
	return append([]float64(nil), s.mean...)
}

// MeanCurve returns the mean of the aligned family as a curve.
func (s *Session) MeanCurve() *Curve {
	return &Curve{pts: decode(vectorPoints(s.mean))}
}

// TrainingLatents returns the latent points of the family members, in the
// order the curves were added.  The result is nil if the model does not
// expose its latent points.
func (s *Session) TrainingLatents() [][]float64 {
	if s.latents == nil {
		return nil
	}
	res := make([][]float64, len(s.latents))
	for i, z := range s.latents {
		res[i] = append([]float64(nil), z...)
	}
	return res
}

// LatentBounds returns a rectangle in the plane of the first two latent
// coordinates which covers the training latents, enlarged by the factor
// margin about its centre.  A margin of 3 gives a comfortable exploration
// window.
func (s *Session) LatentBounds(margin float64) rect.Rect {
	if len(s.latents) == 0 {
		return rect.Rect{LLx: -margin, LLy: -margin, URx: margin, URy: margin}
	}

	coord := func(z []float64, k int) float64 {
		if k < len(z) {
			return z[k]
		}
		return 0
	}
	r := rect.Rect{
		LLx: coord(s.latents[0], 0), URx: coord(s.latents[0], 0),
		LLy: coord(s.latents[0], 1), URy: coord(s.latents[0], 1),
	}
	for _, z := range s.latents[1:] {
		x, y := coord(z, 0), coord(z, 1)
		r.LLx, r.URx = min(r.LLx, x), max(r.URx, x)
		r.LLy, r.URy = min(r.LLy, y), max(r.URy, y)
	}

	cx, cy := (r.LLx+r.URx)/2, (r.LLy+r.URy)/2
	hw, hh := (r.URx-r.LLx)/2, (r.URy-r.LLy)/2
	if hw == 0 {
		hw = 1
	}
	if hh == 0 {
		hh = 1
	}
	hw *= margin
	hh *= margin
	return rect.Rect{LLx: cx - hw, LLy: cy - hh, URx: cx + hw, URy: cy + hh}
}
