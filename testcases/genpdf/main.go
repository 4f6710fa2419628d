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

// Command genpdf draws the shape families into PDF sheets.
// The left half of each sheet shows the family members in source
// coordinates.  The right half shows the latent space of the fitted model,
// with the training shapes marked and reconstructions drawn on a grid of
// latent points.  Optionally, the sheets are rendered to PNGs using
// Ghostscript.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"maps"
	"os"
	"os/exec"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/morph"
	"seehuhn.de/go/morph/latent/gplvm"
	"seehuhn.de/go/morph/testcases"
)

const (
	panel  = 400.0 // side length of each half of a sheet, in points
	margin = 20.0
	grid   = 5 // reconstructions per latent axis
)

func main() {
	outDir := flag.String("o", "testdata/sheets", "output directory")
	renderPNGs := flag.Bool("png", false, "render the sheets to PNG using Ghostscript")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		panic(err)
	}

	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, fam := range testcases.All[category] {
			name := category + "_" + fam.Name
			pdfPath := filepath.Join(*outDir, name+".pdf")

			curves, session, err := fit(fam)
			if err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}
			if err := generatePDF(curves, session, pdfPath); err != nil {
				panic(fmt.Errorf("%s: %w", name, err))
			}

			if *renderPNGs {
				pngPath := filepath.Join(*outDir, name+".png")
				if err := renderPNG(pdfPath, pngPath); err != nil {
					panic(fmt.Errorf("%s: %w", name, err))
				}
			}
		}
	}
}

func fit(fam testcases.Family) ([]*morph.Curve, *morph.Session, error) {
	b := morph.NewBuilder(gplvm.New(nil), nil)
	var curves []*morph.Curve
	for i, p := range fam.Shapes {
		c, err := morph.CurveFromPath(p)
		if err != nil {
			return nil, nil, fmt.Errorf("shape %d: %w", i, err)
		}
		b.Add(c)
		curves = append(curves, c)
	}
	s, err := b.Build(context.Background())
	if err != nil {
		return nil, nil, err
	}
	return curves, s, nil
}

func generatePDF(curves []*morph.Curve, s *morph.Session, pdfPath string) error {
	paper := &pdf.Rectangle{
		URx: 2 * panel,
		URy: panel,
	}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	draw := func(c *morph.Curve) {
		for cmd, pts := range c.Path().Iter() {
			switch cmd {
			case path.CmdMoveTo:
				page.MoveTo(pts[0].X, pts[0].Y)
			case path.CmdLineTo:
				page.LineTo(pts[0].X, pts[0].Y)
			case path.CmdCubeTo:
				page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
			case path.CmdClose:
				page.ClosePath()
			}
		}
		page.Stroke()
	}

	page.SetLineCap(graphics.LineCapRound)
	page.SetLineJoin(graphics.LineJoinRound)

	// panel frames
	page.SetStrokeColor(color.DeviceGray(0.8))
	page.SetLineWidth(0.5)
	page.Rectangle(margin/2, margin/2, panel-margin, panel-margin)
	page.Stroke()
	page.Rectangle(panel+margin/2, margin/2, panel-margin, panel-margin)
	page.Stroke()

	// Source shapes.  Source coordinates are y-down, PDF is y-up.
	box := bounds(curves)
	k := (panel - 2*margin) / max(box.URx-box.LLx, box.URy-box.LLy)
	toPage := matrix.Matrix{k, 0, 0, -k, margin - k*box.LLx, panel - margin + k*box.LLy}
	page.SetStrokeColor(color.DeviceGray(0))
	page.SetLineWidth(1)
	for _, c := range curves {
		draw(c.Transform(toPage))
	}

	// latent space
	window := s.LatentBounds(1.5)
	kz := (panel - 2*margin) / max(window.URx-window.LLx, window.URy-window.LLy)
	latentToPage := matrix.Matrix{kz, 0, 0, kz, panel + margin - kz*window.LLx, margin - kz*window.LLy}

	stepX := (window.URx - window.LLx) / grid
	stepY := (window.URy - window.LLy) / grid
	page.SetStrokeColor(color.DeviceGray(0.4))
	page.SetLineWidth(0.75)
	for i := range grid {
		for j := range grid {
			cell := rect.Rect{
				LLx: window.LLx + float64(i)*stepX,
				LLy: window.LLy + float64(j)*stepY,
			}
			cell.URx = cell.LLx + stepX
			cell.URy = cell.LLy + stepY
			view, err := morph.NewViewMap(cell, 1)
			if err != nil {
				return err
			}
			z := vec.Vec2{X: (cell.LLx + cell.URx) / 2, Y: (cell.LLy + cell.URy) / 2}
			r, err := s.Query(z, view)
			if err != nil {
				return err
			}
			draw(r.Curve.Transform(latentToPage))
		}
	}

	page.SetFillColor(color.DeviceGray(0))
	for _, z := range s.TrainingLatents() {
		x := latentToPage[0]*z[0] + latentToPage[4]
		y := latentToPage[5]
		if len(z) > 1 {
			y = latentToPage[3]*z[1] + latentToPage[5]
		}
		page.Rectangle(x-2, y-2, 4, 4)
		page.Fill()
	}

	return page.Close()
}

// bounds returns the bounding box of the control points of all curves.
func bounds(curves []*morph.Curve) rect.Rect {
	box := rect.Rect{LLx: math.Inf(1), LLy: math.Inf(1), URx: math.Inf(-1), URy: math.Inf(-1)}
	for _, c := range curves {
		for _, p := range c.Points() {
			box.LLx = min(box.LLx, p.X)
			box.LLy = min(box.LLy, p.Y)
			box.URx = max(box.URx, p.X)
			box.URy = max(box.URy, p.Y)
		}
	}
	return box
}

func renderPNG(pdfPath, pngPath string) error {
	// -r144: 2 pixels per point
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r144",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
