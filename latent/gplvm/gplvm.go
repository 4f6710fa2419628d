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

// Package gplvm implements a Gaussian process latent variable model.
//
// Every sample y_i is explained as f(z_i) plus Gaussian noise, where z_i is
// a point in a low-dimensional latent space and each output coordinate of f
// is an independent Gaussian process with the squared exponential kernel
//
//	k(a, b) = σ²·exp(-‖a-b‖² / (2ℓ²)).
//
// Latent points start at the principal components of the data.  The kernel
// parameters, and optionally the latent points, are then chosen to minimise
// the negative log marginal likelihood.
package gplvm

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"seehuhn.de/go/morph/latent"
)

// ErrIllConditioned is returned if the kernel matrix of the training
// points cannot be factorised.
var ErrIllConditioned = errors.New("gplvm: kernel matrix is not positive definite")

// DefaultMaxEvaluations is the default limit on likelihood evaluations.
const DefaultMaxEvaluations = 1000

// logParamLimit bounds the log-parameters seen by the optimiser.
const logParamLimit = 40

// Options control model fitting.
//
// Zero kernel parameters are derived from the data: the signal variance
// from the mean squared deviation of the samples, the noise variance as a
// thousandth of that and the length scale as 1.
type Options struct {
	// Optimize enables the optimisation of the kernel parameters.
	Optimize bool

	// OptimizeLatent additionally optimises the latent points, under a
	// standard normal prior.  It has no effect unless Optimize is set.
	OptimizeLatent bool

	// MaxEvaluations limits the number of likelihood evaluations.
	MaxEvaluations int

	Variance    float64 // initial signal variance σ²
	LengthScale float64 // initial length scale ℓ
	Noise       float64 // initial noise variance

	// Logger receives fitting diagnostics.  Nil disables logging.
	Logger *slog.Logger
}

// DefaultOptions returns options which optimise the kernel parameters and
// keep the PCA latent points.
func DefaultOptions() *Options {
	return &Options{
		Optimize:       true,
		MaxEvaluations: DefaultMaxEvaluations,
	}
}

// Fitter fits GP-LVM models.  It implements [latent.Fitter].
type Fitter struct {
	Options Options
}

var _ latent.Fitter = (*Fitter)(nil)

// New returns a fitter with the given options.  If opts is nil,
// [DefaultOptions] are used.
func New(opts *Options) *Fitter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Fitter{Options: *opts}
}

// SetLogger sets the logger used by subsequent calls to Fit.
func (f *Fitter) SetLogger(l *slog.Logger) {
	f.Options.Logger = l
}

// Fit learns a model for the given samples.
func (f *Fitter) Fit(samples [][]float64, latentDim int) (latent.Model, error) {
	d, err := latent.CheckSamples(samples)
	if err != nil {
		return nil, err
	}
	if latentDim < 1 {
		return nil, fmt.Errorf("gplvm: latent dimension %d: %w", latentDim, latent.ErrLatentDim)
	}
	logger := f.Options.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	n := len(samples)

	m := &Model{
		mean: make([]float64, d),
		y:    mat.NewDense(n, d, nil),
	}
	for _, s := range samples {
		for j, v := range s {
			m.mean[j] += v
		}
	}
	for j := range m.mean {
		m.mean[j] /= float64(n)
	}
	var ss float64
	for i, s := range samples {
		for j, v := range s {
			dv := v - m.mean[j]
			m.y.Set(i, j, dv)
			ss += dv * dv
		}
	}
	dataVar := ss / float64(n*d)

	m.z = initLatent(m.y, latentDim)
	m.hyper = f.initialHyper(dataVar)

	if f.Options.Optimize && dataVar > 0 {
		if err := m.optimize(&f.Options, logger); err != nil {
			logger.Warn("GP-LVM optimisation failed, keeping initial parameters", "error", err)
		}
	}

	if err := m.factorize(); err != nil {
		return nil, err
	}
	logger.Info("GP-LVM fitted",
		"samples", n, "dim", d, "latentDim", latentDim,
		"variance", m.hyper.variance, "lengthScale", m.hyper.lengthScale,
		"noise", m.hyper.noise, "nll", m.nll)
	return m, nil
}

func (f *Fitter) initialHyper(dataVar float64) hyper {
	h := hyper{
		variance:    f.Options.Variance,
		lengthScale: f.Options.LengthScale,
		noise:       f.Options.Noise,
	}
	base := max(dataVar, 1e-12)
	if !(h.variance > 0) {
		h.variance = base
	}
	if !(h.lengthScale > 0) {
		h.lengthScale = 1
	}
	if !(h.noise > 0) {
		h.noise = 1e-3 * base
	}
	return h
}

// initLatent projects the centred data onto its first q principal
// components and scales every latent coordinate to unit variance.
// Coordinates beyond the rank of the data are zero.
func initLatent(y *mat.Dense, q int) *mat.Dense {
	n, d := y.Dims()
	z := mat.NewDense(n, q, nil)
	if n < 2 {
		return z
	}

	var pc stat.PC
	if !pc.PrincipalComponents(y, nil) {
		return z
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	k := min(q, n, d)

	var proj mat.Dense
	proj.Mul(y, vecs.Slice(0, d, 0, k))
	for j := range k {
		var ss float64
		for i := range n {
			v := proj.At(i, j)
			ss += v * v
		}
		sd := math.Sqrt(ss / float64(n))
		if sd < 1e-12 {
			continue
		}
		for i := range n {
			z.Set(i, j, proj.At(i, j)/sd)
		}
	}
	return z
}

type hyper struct {
	variance    float64
	lengthScale float64
	noise       float64
}

func (h hyper) kernel(a, b []float64) float64 {
	var d2 float64
	for i, ai := range a {
		d := ai - b[i]
		d2 += d * d
	}
	return h.variance * math.Exp(-0.5*d2/(h.lengthScale*h.lengthScale))
}

// Model is a fitted GP-LVM.  It implements [latent.Model] and is safe for
// concurrent use.
type Model struct {
	z     *mat.Dense // n×q latent points
	y     *mat.Dense // n×d centred samples
	mean  []float64
	hyper hyper

	chol  mat.Cholesky
	alpha *mat.Dense // K⁻¹·y
	nll   float64
}

var _ latent.Model = (*Model)(nil)

// LatentDim implements [latent.Model].
func (m *Model) LatentDim() int {
	_, q := m.z.Dims()
	return q
}

// Latent returns the latent points of the training samples.
func (m *Model) Latent() [][]float64 {
	n, _ := m.z.Dims()
	res := make([][]float64, n)
	for i := range res {
		res[i] = mat.Row(nil, i, m.z)
	}
	return res
}

// Hyperparameters returns the kernel parameters of the model.
func (m *Model) Hyperparameters() (variance, lengthScale, noise float64) {
	return m.hyper.variance, m.hyper.lengthScale, m.hyper.noise
}

// NegLogLikelihood returns the negative log marginal likelihood of the
// training data under the model, without the latent prior.
func (m *Model) NegLogLikelihood() float64 {
	return m.nll
}

// Predict implements [latent.Model].  The vector is the posterior mean of
// the Gaussian process at z and the uncertainty is its predictive variance,
// including the noise variance.
func (m *Model) Predict(z []float64) (latent.Prediction, error) {
	n, q := m.z.Dims()
	if len(z) != q {
		return latent.Prediction{}, fmt.Errorf("gplvm: query of dimension %d for %d-dimensional model: %w",
			len(z), q, latent.ErrLatentDim)
	}

	kStar := mat.NewVecDense(n, nil)
	for i := range n {
		kStar.SetVec(i, m.hyper.kernel(z, m.z.RawRowView(i)))
	}

	out := make([]float64, len(m.mean))
	copy(out, m.mean)
	for j := range out {
		out[j] += mat.Dot(kStar, m.alpha.ColView(j))
	}

	var w mat.VecDense
	if err := m.chol.SolveVecTo(&w, kStar); err != nil {
		return latent.Prediction{}, fmt.Errorf("gplvm: %w", err)
	}
	variance := m.hyper.variance - mat.Dot(kStar, &w) + m.hyper.noise
	variance = max(variance, m.hyper.noise)

	return latent.Prediction{Vector: out, Uncertainty: variance}, nil
}

// factorize computes the Cholesky factor of the kernel matrix and the
// weights used for prediction.
func (m *Model) factorize() error {
	k := m.gram(m.z, m.hyper)
	if ok := m.chol.Factorize(k); !ok {
		return ErrIllConditioned
	}
	m.alpha = &mat.Dense{}
	if err := m.chol.SolveTo(m.alpha, m.y); err != nil {
		return fmt.Errorf("gplvm: %w", err)
	}
	m.nll = m.negLogLik(&m.chol, m.alpha)
	return nil
}

// gram returns the kernel matrix of the latent points z, including noise.
func (m *Model) gram(z *mat.Dense, h hyper) *mat.SymDense {
	n, _ := z.Dims()
	k := mat.NewSymDense(n, nil)
	for i := range n {
		zi := z.RawRowView(i)
		for j := i; j < n; j++ {
			v := h.kernel(zi, z.RawRowView(j))
			if i == j {
				v += h.noise
			}
			k.SetSym(i, j, v)
		}
	}
	return k
}

func (m *Model) negLogLik(chol *mat.Cholesky, alpha *mat.Dense) float64 {
	n, d := m.y.Dims()
	var fit float64
	for i := range n {
		for j := range d {
			fit += m.y.At(i, j) * alpha.At(i, j)
		}
	}
	return 0.5*float64(d)*chol.LogDet() + 0.5*fit + 0.5*float64(n*d)*math.Log(2*math.Pi)
}

// optimize minimises the negative log marginal likelihood with the
// Nelder-Mead method.  The parameters are the logarithms of the kernel
// parameters, followed by the latent points if opts.OptimizeLatent is set.
func (m *Model) optimize(opts *Options, logger *slog.Logger) error {
	n, q := m.z.Dims()
	x0 := []float64{
		math.Log(m.hyper.variance),
		math.Log(m.hyper.lengthScale),
		math.Log(m.hyper.noise),
	}
	if opts.OptimizeLatent {
		x0 = append(x0, m.z.RawMatrix().Data...)
	}

	unpack := func(x []float64) (hyper, *mat.Dense, bool) {
		for _, v := range x[:3] {
			if math.Abs(v) > logParamLimit {
				return hyper{}, nil, false
			}
		}
		h := hyper{
			variance:    math.Exp(x[0]),
			lengthScale: math.Exp(x[1]),
			noise:       math.Exp(x[2]),
		}
		z := m.z
		if opts.OptimizeLatent {
			z = mat.NewDense(n, q, append([]float64(nil), x[3:]...))
		}
		return h, z, true
	}

	objective := func(x []float64) float64 {
		h, z, ok := unpack(x)
		if !ok {
			return math.Inf(1)
		}
		var chol mat.Cholesky
		if !chol.Factorize(m.gram(z, h)) {
			return math.Inf(1)
		}
		var alpha mat.Dense
		if err := chol.SolveTo(&alpha, m.y); err != nil {
			return math.Inf(1)
		}
		f := m.negLogLik(&chol, &alpha)
		if opts.OptimizeLatent {
			for _, v := range x[3:] {
				f += 0.5 * v * v
			}
		}
		if math.IsNaN(f) {
			return math.Inf(1)
		}
		return f
	}

	maxEval := opts.MaxEvaluations
	if maxEval <= 0 {
		maxEval = DefaultMaxEvaluations
	}
	f0 := objective(x0)
	res, err := optimize.Minimize(
		optimize.Problem{Func: objective},
		x0,
		&optimize.Settings{FuncEvaluations: maxEval},
		&optimize.NelderMead{},
	)
	if res == nil {
		return err
	}
	logger.Debug("GP-LVM optimisation finished",
		"status", res.Status, "evaluations", res.FuncEvaluations,
		"initial", f0, "final", res.F)
	if !(res.F < f0) {
		return err
	}

	h, z, _ := unpack(res.X)
	m.hyper = h
	m.z = z
	return nil
}
