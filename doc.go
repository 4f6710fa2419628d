// Package morph builds shape spaces from families of closed curves made of
// cubic Bézier segments.
//
// A [Curve] with N segments is encoded as a canonical vector of length 6N,
// listing for each anchor point the control point before it, the anchor
// itself and the control point after it.  A [Builder] normalises a family of
// such curves, aligns their vectors with generalized Procrustes analysis
// (package procrustes) and fits a low-dimensional latent model (package
// latent).  The resulting [Session] maps points of the latent space back to
// curves.
//
// Typical use:
//
//	b := morph.NewBuilder(gplvm.New(nil), nil)
//	for _, c := range curves {
//		b.Add(c)
//	}
//	s, err := b.Build(ctx)
//	...
//	view, err := morph.NewViewMap(window, 0.4)
//	...
//	r, err := s.Query(vec.Vec2{X: 0.5, Y: -1}, view)
package morph

//go:generate go run ./testcases/export -o testdata/families.json
