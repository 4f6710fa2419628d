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

package testcases

import "seehuhn.de/go/geom/path"

// precisionFamilies place shapes far from the origin or make them tiny, to
// check that normalisation and alignment do not lose accuracy.
var precisionFamilies = []Family{
	{
		Name: "large_offset",
		Shapes: []*path.Data{
			blob(placement(1e6, 1e6, 35, 0), 0, 0, 0, 0),
			blob(placement(1e6+100, 1e6, 35, 15), 0.3, 0, -0.1, 0),
			blob(placement(1e6, 1e6+100, 35, -25), 0, 0.2, 0, 0.25),
		},
		Width:  1e6 + 200,
		Height: 1e6 + 200,
	},
	{
		Name: "tiny",
		Shapes: []*path.Data{
			square(0.001, 0.001, 1e-4, 0),
			square(0.002, 0.001, 2e-4, 20),
			square(0.001, 0.002, 1.5e-4, -35),
		},
		Width:  0.003,
		Height: 0.003,
	},
	{
		// coordinates which differ only in the low bits of float64
		Name: "low_bits",
		Shapes: []*path.Data{
			square(32.123456789012345, 32.123456789012345, 10, 0),
			square(32.123456789012346, 32.123456789012346, 10.000000000000002, 0),
			square(32.123456789012345, 32.123456789012346, 10, 1e-9),
		},
		Width:  64,
		Height: 64,
	},
}
