// Command export writes the shape families to JSON, together with their
// canonical vectors and the result of aligning them.
// Run from the module root directory.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/morph"
	"seehuhn.de/go/morph/procrustes"
	"seehuhn.de/go/morph/testcases"
)

func main() {
	outFile := flag.String("o", "testdata/families.json", "output file")
	scale := flag.Float64("scale", morph.DefaultScale, "normalisation scale")
	flag.Parse()

	var out struct {
		Families []jsonFamily `json:"families"`
	}

	norm := morph.NewNormalizer(*scale)
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, fam := range testcases.All[category] {
			jf, err := toJSON(category, fam, norm)
			if err != nil {
				panic(fmt.Errorf("%s_%s: %w", category, fam.Name, err))
			}
			out.Families = append(out.Families, jf)
		}
	}

	if err := os.MkdirAll(filepath.Dir(*outFile), 0755); err != nil {
		panic(err)
	}
	f, err := os.Create(*outFile)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		panic(err)
	}
}

type jsonFamily struct {
	Name       string          `json:"name"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Anchors    int             `json:"anchors"`
	Shapes     [][]jsonSegment `json:"shapes"`
	Vectors    [][]float64     `json:"vectors"`
	Aligned    [][]float64     `json:"aligned"`
	Transforms []jsonTransform `json:"transforms"`
	Reference  []float64       `json:"reference"`
	Iterations int             `json:"iterations"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts"`
}

type jsonTransform struct {
	Angle       float64   `json:"angle"`
	Scale       float64   `json:"scale"`
	Translation []float64 `json:"translation"`
}

func toJSON(category string, fam testcases.Family, norm *morph.Normalizer) (jsonFamily, error) {
	jf := jsonFamily{
		Name:    category + "_" + fam.Name,
		Width:   fam.Width,
		Height:  fam.Height,
		Anchors: fam.Segments(),
	}

	for i, p := range fam.Shapes {
		jf.Shapes = append(jf.Shapes, pathToJSON(p.Iter()))

		c, err := morph.CurveFromPath(p)
		if err != nil {
			return jf, fmt.Errorf("shape %d: %w", i, err)
		}
		nc, _, err := norm.NormalizeCurve(c)
		if err != nil {
			return jf, fmt.Errorf("shape %d: %w", i, err)
		}
		v, err := morph.Encode(nc)
		if err != nil {
			return jf, fmt.Errorf("shape %d: %w", i, err)
		}
		jf.Vectors = append(jf.Vectors, v)
	}

	res, err := procrustes.Align(jf.Vectors, nil)
	if err != nil {
		return jf, err
	}
	jf.Aligned = res.Aligned
	jf.Reference = res.Reference
	jf.Iterations = res.Iterations
	for _, t := range res.Transforms {
		jf.Transforms = append(jf.Transforms, jsonTransform{
			Angle:       t.Angle,
			Scale:       t.Scale,
			Translation: []float64{t.Translation.X, t.Translation.Y},
		})
	}
	return jf, nil
}

func pathToJSON(p path.Path) []jsonSegment {
	var segs []jsonSegment
	for cmd, pts := range p {
		seg := jsonSegment{Pts: make([][]float64, len(pts))}
		switch cmd {
		case path.CmdMoveTo:
			seg.Cmd = "M"
		case path.CmdLineTo:
			seg.Cmd = "L"
		case path.CmdQuadTo:
			seg.Cmd = "Q"
		case path.CmdCubeTo:
			seg.Cmd = "C"
		case path.CmdClose:
			seg.Cmd = "Z"
		}
		for i, pt := range pts {
			seg.Pts[i] = []float64{pt.X, pt.Y}
		}
		segs = append(segs, seg)
	}
	return segs
}
