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

	"seehuhn.de/go/morph/procrustes"
)

// Errors reported by the package.  They describe problems with the data
// passed in by the caller and are never retried internally.  Use errors.Is
// to test for them; the returned errors carry additional context.
var (
	// ErrInvalidShape indicates malformed or empty input.
	ErrInvalidShape = errors.New("invalid shape")

	// ErrSegmentCountMismatch indicates that a point sequence or a family
	// of curves is not a validly closed, uniformly segmented curve set.
	ErrSegmentCountMismatch = errors.New("segment count mismatch")

	// ErrVectorLengthMismatch indicates that a canonical vector does not
	// have length 6*numAnchors.
	ErrVectorLengthMismatch = errors.New("vector length mismatch")

	// ErrDegenerateShape indicates that the alignment could not determine a
	// rotation, for example because a shape collapsed to a single point.
	ErrDegenerateShape = procrustes.ErrDegenerateShape

	// ErrUnsupportedSegmentKind indicates path data which cannot be
	// represented as cubic Bézier segments, for example elliptical arcs.
	ErrUnsupportedSegmentKind = errors.New("unsupported segment kind")

	// ErrOrientationMismatch indicates that the curves of a family do not
	// all run in the same direction, or that a curve has no orientation.
	ErrOrientationMismatch = errors.New("orientation mismatch")

	// ErrInvalidView indicates an empty display window or a non-positive
	// zoom factor.
	ErrInvalidView = errors.New("invalid view")
)
