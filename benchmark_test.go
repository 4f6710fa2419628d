package morph

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"maps"
	"slices"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/morph/latent/gplvm"
	"seehuhn.de/go/morph/testcases"
)

// benchCurves converts all test families to curves.
func benchCurves(b *testing.B) []*Curve {
	b.Helper()
	var res []*Curve
	for _, category := range slices.Sorted(maps.Keys(testcases.All)) {
		for _, fam := range testcases.All[category] {
			for _, p := range fam.Shapes {
				c, err := CurveFromPath(p)
				if err != nil {
					b.Fatal(err)
				}
				res = append(res, c)
			}
		}
	}
	return res
}

func benchSession(b *testing.B, name string) *Session {
	b.Helper()
	for _, fams := range testcases.All {
		for _, fam := range fams {
			if fam.Name != name {
				continue
			}
			builder := NewBuilder(gplvm.New(nil), nil)
			for _, p := range fam.Shapes {
				if err := builder.AddPath(p); err != nil {
					b.Fatal(err)
				}
			}
			s, err := builder.Build(context.Background())
			if err != nil {
				b.Fatal(err)
			}
			return s
		}
	}
	b.Fatalf("unknown family %q", name)
	return nil
}

// BenchmarkEncodeDecode measures the conversion of all test shapes to
// canonical vectors and back.
func BenchmarkEncodeDecode(b *testing.B) {
	curves := benchCurves(b)

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		for _, c := range curves {
			v, err := Encode(c)
			if err != nil {
				b.Fatal(err)
			}
			if _, err := Decode(v, c.NumSegments()); err != nil {
				b.Fatal(err)
			}
		}
	}
}

// BenchmarkQuery measures the reconstruction of a single curve.
func BenchmarkQuery(b *testing.B) {
	for _, name := range []string{"quads", "stars", "flowers"} {
		b.Run(name, func(b *testing.B) {
			s := benchSession(b, name)
			view, err := NewViewMap(s.LatentBounds(1), 1)
			if err != nil {
				b.Fatal(err)
			}
			z := vec.Vec2{X: 0.3, Y: -0.1}

			b.ResetTimer()
			b.ReportAllocs()
			for b.Loop() {
				if _, err := s.Query(z, view); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkRenderReconstruction measures x/image/vector drawing a
// reconstructed curve at different output sizes.
func BenchmarkRenderReconstruction(b *testing.B) {
	s := benchSession(b, "flowers")
	rec, err := s.Query(vec.Vec2{}, IdentityView)
	if err != nil {
		b.Fatal(err)
	}
	shape := rec.Curve.Flatten(0)
	var bbox [4]float64
	for i, p := range shape {
		if i == 0 {
			bbox = [4]float64{p.X, p.Y, p.X, p.Y}
		}
		bbox[0], bbox[1] = min(bbox[0], p.X), min(bbox[1], p.Y)
		bbox[2], bbox[3] = max(bbox[2], p.X), max(bbox[3], p.Y)
	}

	sizes := []int{20, 200, 2000}
	for _, size := range sizes {
		b.Run(fmt.Sprintf("%dx%d", size, size), func(b *testing.B) {
			// fit the curve into the image, y pointing down
			scale := 0.9 * float64(size) / max(bbox[2]-bbox[0], bbox[3]-bbox[1])
			m := matrix.Matrix{
				scale, 0, 0, -scale,
				float64(size)/2 - scale*(bbox[0]+bbox[2])/2,
				float64(size)/2 + scale*(bbox[1]+bbox[3])/2,
			}
			c := rec.Curve.Transform(m)

			r := vector.NewRasterizer(size, size)
			dst := image.NewAlpha(image.Rect(0, 0, size, size))
			src := image.NewUniform(color.Alpha{255})

			b.ResetTimer()
			b.ReportAllocs()
			for b.Loop() {
				r.Reset(size, size)
				start := c.Segment(0).P0
				r.MoveTo(float32(start.X), float32(start.Y))
				for _, seg := range c.Segments() {
					r.CubeTo(
						float32(seg.P1.X), float32(seg.P1.Y),
						float32(seg.P2.X), float32(seg.P2.Y),
						float32(seg.P3.X), float32(seg.P3.Y))
				}
				r.ClosePath()
				r.Draw(dst, dst.Bounds(), src, image.Point{})
			}
		})
	}
}
