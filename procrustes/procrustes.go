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

// Package procrustes implements generalized Procrustes analysis for
// families of planar point sets.
//
// Each shape is given as a flat vector x0, y0, x1, y1, ... and points with
// the same index correspond to each other across shapes.  [Align] removes
// translation, isotropic scale and rotation from every shape and returns
// the aligned shapes together with a unit-size reference shape.
// Rotations are always proper: a reflection would reverse the order in
// which a closed curve is traversed.
package procrustes

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"
	"seehuhn.de/go/geom/vec"
)

var (
	// ErrDegenerateShape is returned if a shape has no extent, or if no
	// rotation can be determined between a shape and the reference.
	ErrDegenerateShape = errors.New("degenerate shape")

	// ErrShapeMismatch is returned if the input is empty, or if the shapes
	// do not all have the same even, non-zero length.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Default values for [Options].
const (
	DefaultTolerance     = 1e-9
	DefaultMaxIterations = 500
)

// degenerateEps is the relative size below which a shape or a
// cross-covariance is treated as zero.
const degenerateEps = 1e-12

// Options control the iteration of [Align].
type Options struct {
	// Tolerance is the change of the reference shape (Euclidean norm of
	// the difference) below which the iteration stops.
	Tolerance float64

	// MaxIterations limits the number of reference updates.
	MaxIterations int

	// Logger receives per-iteration diagnostics.  Nil disables logging.
	Logger *slog.Logger
}

// DefaultOptions returns the default alignment options.
func DefaultOptions() *Options {
	return &Options{
		Tolerance:     DefaultTolerance,
		MaxIterations: DefaultMaxIterations,
	}
}

// Result is the outcome of a generalized Procrustes analysis.
type Result struct {
	// Aligned holds the shapes after applying Transforms[i] to shape i.
	Aligned [][]float64

	// Transforms maps each original shape onto its aligned version.
	Transforms []Similarity

	// Reference is the mean of the aligned shapes, centred and scaled to
	// unit Euclidean norm.
	Reference []float64

	// Iterations is the number of reference updates performed.
	Iterations int

	// Converged is false if the iteration stopped at MaxIterations.
	Converged bool
}

// Align performs a generalized Procrustes analysis of the given shapes.
//
// The reference starts as the first shape, centred and scaled to unit
// norm.  Then, until the reference stabilises, every shape is rotated and
// scaled onto the reference and the reference is replaced by the
// normalised mean of the aligned shapes.
func Align(shapes [][]float64, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tol := opts.Tolerance
	if !(tol > 0) {
		tol = DefaultTolerance
	}
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	if err := checkShapes(shapes); err != nil {
		return nil, err
	}

	m := len(shapes)
	centred := make([][]vec.Vec2, m)
	centroids := make([]vec.Vec2, m)
	for i, shape := range shapes {
		pts := toPoints(shape)
		c, err := centre(pts)
		if err != nil {
			return nil, fmt.Errorf("procrustes: shape %d: %w", i, err)
		}
		centred[i] = pts
		centroids[i] = c
	}

	ref := scaled(centred[0], 1/norm(centred[0]))
	aligned := make([][]vec.Vec2, m)
	fits := make([]Similarity, m)

	res := &Result{}
	for res.Iterations < maxIter {
		if err := fitAll(centred, ref, fits, aligned); err != nil {
			return nil, err
		}
		next, err := meanShape(aligned)
		if err != nil {
			return nil, err
		}
		delta := distance(next, ref)
		ref = next
		res.Iterations++
		logger.Debug("procrustes iteration", "iteration", res.Iterations, "delta", delta)
		if delta < tol {
			res.Converged = true
			break
		}
	}
	if !res.Converged {
		logger.Warn("procrustes alignment did not converge", "iterations", res.Iterations)
	}

	// The last update moved the reference, so refit against the final one.
	if err := fitAll(centred, ref, fits, aligned); err != nil {
		return nil, err
	}

	res.Aligned = make([][]float64, m)
	res.Transforms = make([]Similarity, m)
	for i := range shapes {
		res.Aligned[i] = toVector(aligned[i])
		// aligned = s·R·(p - c), so the translation is -s·R·c
		fit := fits[i]
		t := fit.Apply(centroids[i])
		fit.Translation = vec.Vec2{X: -t.X, Y: -t.Y}
		res.Transforms[i] = fit
	}
	res.Reference = toVector(ref)

	logger.Info("procrustes alignment finished",
		"shapes", m, "points", len(ref), "iterations", res.Iterations, "converged", res.Converged)
	return res, nil
}

// Superimpose returns the similarity transformation which maps shape as
// closely as possible onto ref, in the least squares sense.
func Superimpose(shape, ref []float64) (Similarity, error) {
	if err := checkShapes([][]float64{shape, ref}); err != nil {
		return Similarity{}, err
	}
	x := toPoints(shape)
	y := toPoints(ref)
	cx, err := centre(x)
	if err != nil {
		return Similarity{}, fmt.Errorf("procrustes: shape: %w", err)
	}
	cy, err := centre(y)
	if err != nil {
		return Similarity{}, fmt.Errorf("procrustes: reference: %w", err)
	}
	fit, err := fitRotationScale(x, y)
	if err != nil {
		return Similarity{}, err
	}
	t := fit.Apply(cx)
	fit.Translation = cy.Sub(t)
	return fit, nil
}

func checkShapes(shapes [][]float64) error {
	if len(shapes) == 0 {
		return fmt.Errorf("procrustes: no shapes: %w", ErrShapeMismatch)
	}
	d := len(shapes[0])
	if d == 0 || d%2 != 0 {
		return fmt.Errorf("procrustes: shape length %d: %w", d, ErrShapeMismatch)
	}
	for i, shape := range shapes {
		if len(shape) != d {
			return fmt.Errorf("procrustes: shape %d has length %d, expected %d: %w",
				i, len(shape), d, ErrShapeMismatch)
		}
	}
	return nil
}

// fitAll rotates and scales every centred shape onto ref.
func fitAll(centred [][]vec.Vec2, ref []vec.Vec2, fits []Similarity, aligned [][]vec.Vec2) error {
	for i, x := range centred {
		fit, err := fitRotationScale(x, ref)
		if err != nil {
			return fmt.Errorf("procrustes: shape %d: %w", i, err)
		}
		fits[i] = fit
		aligned[i] = transformed(x, fit)
	}
	return nil
}

// fitRotationScale finds the proper rotation R and the scale s > 0 which
// minimise Σ ‖s·R·x_i - y_i‖² for centred point sets x and y.
//
// With the cross-covariance H = Σ x_i y_iᵀ = U Σ Vᵀ, the optimal rotation is
// R = V D Uᵀ where D = diag(1, det(V Uᵀ)) excludes reflections, and
// s = tr(Σ D) / Σ ‖x_i‖².
func fitRotationScale(x, y []vec.Vec2) (Similarity, error) {
	var h00, h01, h10, h11, xx, yy float64
	for i, p := range x {
		q := y[i]
		h00 += p.X * q.X
		h01 += p.X * q.Y
		h10 += p.Y * q.X
		h11 += p.Y * q.Y
		xx += p.X*p.X + p.Y*p.Y
		yy += q.X*q.X + q.Y*q.Y
	}
	if xx == 0 || yy == 0 {
		return Similarity{}, ErrDegenerateShape
	}

	var svd mat.SVD
	ok := svd.Factorize(mat.NewDense(2, 2, []float64{h00, h01, h10, h11}), mat.SVDFull)
	if !ok {
		return Similarity{}, fmt.Errorf("SVD of cross-covariance failed: %w", ErrDegenerateShape)
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	sigma := svd.Values(nil)

	d := 1.0
	if mat.Det(&u)*mat.Det(&v) < 0 {
		d = -1
	}
	trace := sigma[0] + d*sigma[1]
	if trace <= degenerateEps*math.Sqrt(xx*yy) {
		return Similarity{}, fmt.Errorf("cross-covariance vanishes: %w", ErrDegenerateShape)
	}

	// R = V·diag(1, d)·Uᵀ; only the first column is needed for the angle.
	r00 := v.At(0, 0)*u.At(0, 0) + d*v.At(0, 1)*u.At(0, 1)
	r10 := v.At(1, 0)*u.At(0, 0) + d*v.At(1, 1)*u.At(0, 1)

	return Similarity{
		Angle: math.Atan2(r10, r00),
		Scale: trace / xx,
	}, nil
}

// centre moves pts so that their centroid is at the origin, and returns
// the centroid.
func centre(pts []vec.Vec2) (vec.Vec2, error) {
	var c vec.Vec2
	var raw float64
	for _, p := range pts {
		c = c.Add(p)
		raw += p.X*p.X + p.Y*p.Y
	}
	c = c.Mul(1 / float64(len(pts)))
	for i, p := range pts {
		pts[i] = p.Sub(c)
	}

	n := norm(pts)
	if !(n > degenerateEps*math.Sqrt(max(raw, 1))) {
		return c, fmt.Errorf("all points coincide: %w", ErrDegenerateShape)
	}
	return c, nil
}

// meanShape returns the mean of the given centred shapes, scaled to unit
// norm.
func meanShape(shapes [][]vec.Vec2) ([]vec.Vec2, error) {
	res := make([]vec.Vec2, len(shapes[0]))
	for _, shape := range shapes {
		for j, p := range shape {
			res[j] = res[j].Add(p)
		}
	}
	n := norm(res)
	if !(n > degenerateEps) {
		return nil, fmt.Errorf("procrustes: mean shape vanishes: %w", ErrDegenerateShape)
	}
	return scaled(res, 1/n), nil
}

func transformed(pts []vec.Vec2, s Similarity) []vec.Vec2 {
	res := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		res[i] = s.Apply(p)
	}
	return res
}

func scaled(pts []vec.Vec2, f float64) []vec.Vec2 {
	res := make([]vec.Vec2, len(pts))
	for i, p := range pts {
		res[i] = p.Mul(f)
	}
	return res
}

func norm(pts []vec.Vec2) float64 {
	var sum float64
	for _, p := range pts {
		sum += p.X*p.X + p.Y*p.Y
	}
	return math.Sqrt(sum)
}

func distance(a, b []vec.Vec2) float64 {
	var sum float64
	for i, p := range a {
		d := p.Sub(b[i])
		sum += d.X*d.X + d.Y*d.Y
	}
	return math.Sqrt(sum)
}

func toPoints(v []float64) []vec.Vec2 {
	pts := make([]vec.Vec2, len(v)/2)
	for i := range pts {
		pts[i] = vec.Vec2{X: v[2*i], Y: v[2*i+1]}
	}
	return pts
}

func toVector(pts []vec.Vec2) []float64 {
	v := make([]float64, 2*len(pts))
	for i, p := range pts {
		v[2*i], v[2*i+1] = p.X, p.Y
	}
	return v
}
