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

// Package latent defines the contract between the shape pipeline and a
// low-dimensional generative model of shape vectors.
//
// A [Fitter] learns a [Model] from a set of equally long sample vectors.
// The model maps points of a low-dimensional latent space back to sample
// space, together with a scalar uncertainty whose meaning is left to the
// model.
package latent

import (
	"errors"
	"fmt"
)

var (
	// ErrSampleShape is returned by fitters for an empty sample set or for
	// samples of differing or zero length.
	ErrSampleShape = errors.New("invalid sample shape")

	// ErrLatentDim is returned for a latent dimension which the model does
	// not support, or for a query point of the wrong dimension.
	ErrLatentDim = errors.New("invalid latent dimension")
)

// Fitter learns a model from samples.  Fit may block for a long time and
// is not cancellable.
type Fitter interface {
	Fit(samples [][]float64, latentDim int) (Model, error)
}

// Model is a fitted generative model.  Implementations must be safe for
// concurrent use by multiple goroutines.
type Model interface {
	// LatentDim returns the dimension of the latent space.
	LatentDim() int

	// Predict maps a latent point to sample space.
	Predict(z []float64) (Prediction, error)
}

// Prediction is the result of a model query.
type Prediction struct {
	// Vector is a point in sample space.  It has the length of the
	// training samples.
	Vector []float64

	// Uncertainty is a model-specific measure of the confidence in Vector.
	Uncertainty float64
}

// CheckSamples verifies that samples is non-empty and that all samples have
// the same, non-zero length.  It returns that length.
func CheckSamples(samples [][]float64) (int, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("latent: no samples: %w", ErrSampleShape)
	}
	d := len(samples[0])
	if d == 0 {
		return 0, fmt.Errorf("latent: empty sample: %w", ErrSampleShape)
	}
	for i, s := range samples {
		if len(s) != d {
			return 0, fmt.Errorf("latent: sample %d has length %d, expected %d: %w",
				i, len(s), d, ErrSampleShape)
		}
	}
	return d, nil
}
