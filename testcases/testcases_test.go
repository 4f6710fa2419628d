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

package testcases_test

import (
	"maps"
	"regexp"
	"slices"
	"testing"

	"seehuhn.de/go/morph"
	"seehuhn.de/go/morph/testcases"
)

var validName = regexp.MustCompile(`^[a-z_]+$`)

// TestFamilies checks that every test family forms a valid family of
// curves.
func TestFamilies(t *testing.T) {
	seen := make(map[string]bool)
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, fam := range testcases.All[category] {
			t.Run(category+"_"+fam.Name, func(t *testing.T) {
				if !validName.MatchString(fam.Name) {
					t.Errorf("invalid name %q", fam.Name)
				}
				if seen[fam.Name] {
					t.Errorf("duplicate name %q", fam.Name)
				}
				seen[fam.Name] = true

				if fam.Width <= 0 || fam.Height <= 0 {
					t.Errorf("invalid canvas %gx%g", fam.Width, fam.Height)
				}
				if len(fam.Shapes) < 2 {
					t.Errorf("family has %d shapes", len(fam.Shapes))
				}

				var curves []*morph.Curve
				for i, p := range fam.Shapes {
					c, err := morph.CurveFromPath(p)
					if err != nil {
						t.Fatalf("shape %d: %v", i, err)
					}
					curves = append(curves, c)
				}

				f, err := morph.NewFamily(curves...)
				if err != nil {
					t.Fatal(err)
				}
				if f.NumAnchors() != fam.Segments() {
					t.Errorf("Segments reports %d, curves have %d", fam.Segments(), f.NumAnchors())
				}
				if f.Orientation() != morph.CounterClockwise {
					t.Errorf("family is %s", f.Orientation())
				}
			})
		}
	}
}
