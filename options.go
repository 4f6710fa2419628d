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

import "seehuhn.de/go/morph/procrustes"

const (
	// DefaultScale is the normalisation factor applied to source
	// coordinates.  It maps shapes drawn on a canvas of a few hundred
	// units to coordinates of order one.
	DefaultScale = 0.02

	// DefaultLatentDim is the default dimension of the latent space.
	DefaultLatentDim = 2

	// DefaultMinSamples is the default minimum number of training samples
	// passed to the model.
	DefaultMinSamples = 2
)

// Options configure a [Builder].
type Options struct {
	// Scale is the normalisation factor, see [Normalizer].
	Scale float64

	// KeepYAxis disables the inversion of the vertical axis during
	// normalisation.
	KeepYAxis bool

	// LatentDim is the dimension of the latent space of the model.
	LatentDim int

	// MinSamples is the minimum number of samples passed to the model.
	// Smaller families are padded by repeating the aligned shapes.
	MinSamples int

	// Alignment controls the Procrustes iteration.  Nil means
	// [procrustes.DefaultOptions].  The Logger field is ignored; the
	// package logger is used instead.
	Alignment *procrustes.Options
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		Scale:      DefaultScale,
		LatentDim:  DefaultLatentDim,
		MinSamples: DefaultMinSamples,
		Alignment:  procrustes.DefaultOptions(),
	}
}

// withDefaults returns a copy of opts with unset fields replaced by their
// defaults.
func (opts *Options) withDefaults() Options {
	res := *DefaultOptions()
	if opts == nil {
		return res
	}
	if opts.Scale != 0 {
		res.Scale = opts.Scale
	}
	res.KeepYAxis = opts.KeepYAxis
	if opts.LatentDim > 0 {
		res.LatentDim = opts.LatentDim
	}
	if opts.MinSamples > 0 {
		res.MinSamples = opts.MinSamples
	}
	if opts.Alignment != nil {
		a := *opts.Alignment
		res.Alignment = &a
	}
	return res
}

func (opts *Options) normalizer() *Normalizer {
	return &Normalizer{Scale: opts.Scale, KeepYAxis: opts.KeepYAxis}
}
