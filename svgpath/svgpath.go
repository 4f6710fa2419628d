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

// Package svgpath reads closed curves from SVG path data.
//
// [Parse] understands the full SVG path grammar.  Only straight lines and
// cubic Bézier segments can be turned into curves; [ToCurve] rejects
// quadratic segments and elliptical arcs.  Straight lines are represented
// as degenerate cubics whose control points coincide with the end points.
package svgpath

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/strconv"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/morph"
)

// ErrSyntax is returned for malformed path data.
var ErrSyntax = errors.New("svg path syntax error")

// Kind is the type of a path segment.
type Kind int

// These are the supported segment kinds.
const (
	Line Kind = iota
	Cubic
	Quadratic
	Arc
)

func (k Kind) String() string {
	switch k {
	case Line:
		return "line"
	case Cubic:
		return "cubic"
	case Quadratic:
		return "quadratic"
	case Arc:
		return "arc"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Segment is one segment of a sub-path, in absolute coordinates.
//
// For lines, P1 equals P0 and P2 equals P3.  For quadratic segments, P1
// and P2 both hold the single control point.  For arcs, only P0 and P3 are
// meaningful.
type Segment struct {
	Kind           Kind
	P0, P1, P2, P3 vec.Vec2
}

// Subpath is a sequence of connected segments.
type Subpath struct {
	Segments []Segment

	// Closed is set if the sub-path was ended by a Z command.
	Closed bool
}

// numArgs gives the number of arguments of every path command.
var numArgs = map[byte]int{
	'M': 2,
	'Z': 0,
	'L': 2,
	'H': 1,
	'V': 1,
	'C': 6,
	'S': 4,
	'Q': 4,
	'T': 2,
	'A': 7,
}

// Parse parses SVG path data.  Every M command starts a new sub-path.
// A Z command adds a closing line only if the current point differs from
// the start of the sub-path.
func Parse(d string) ([]Subpath, error) {
	buf := []byte(d)
	i := skipCommaWhitespace(buf)
	if i == len(buf) {
		return nil, nil
	}
	if buf[i] != 'M' && buf[i] != 'm' {
		return nil, fmt.Errorf("svgpath: path must start with a move command: %w", ErrSyntax)
	}

	var res []Subpath
	cur := -1 // index of the open sub-path, or -1
	var args [7]float64
	var current, start vec.Vec2
	var lastCubic, lastQuad vec.Vec2 // reflected control point candidates
	prevCmd := byte('z')

	add := func(seg Segment) {
		if cur < 0 {
			// drawing after Z continues from the start point
			res = append(res, Subpath{})
			cur = len(res) - 1
		}
		res[cur].Segments = append(res[cur].Segments, seg)
	}

	for {
		i += skipCommaWhitespace(buf[i:])
		if i >= len(buf) {
			break
		}

		cmd := prevCmd
		repeat := true
		if cmd == 'z' || cmd == 'Z' || !isNumberStart(buf[i]) {
			cmd = buf[i]
			repeat = false
			i++
			i += skipCommaWhitespace(buf[i:])
		}

		upper := cmd
		if 'a' <= cmd && cmd <= 'z' {
			upper -= 'a' - 'A'
		}
		n, ok := numArgs[upper]
		if !ok {
			return nil, fmt.Errorf("svgpath: unknown command %q at position %d: %w", cmd, i, ErrSyntax)
		}
		for j := range n {
			if upper == 'A' && (j == 3 || j == 4) {
				if i < len(buf) && (buf[i] == '0' || buf[i] == '1') {
					args[j] = float64(buf[i] - '0')
					i++
				} else {
					return nil, fmt.Errorf("svgpath: arc flag must be 0 or 1 at position %d: %w", i+1, ErrSyntax)
				}
			} else {
				num, k := strconv.ParseFloat(buf[i:])
				if k == 0 {
					if repeat && j == 0 {
						return nil, fmt.Errorf("svgpath: unexpected %q at position %d: %w", buf[i], i+1, ErrSyntax)
					}
					return nil, fmt.Errorf("svgpath: command %q needs %d numbers, missing at position %d: %w",
						cmd, n, i+1, ErrSyntax)
				}
				args[j] = num
				i += k
			}
			i += skipCommaWhitespace(buf[i:])
		}

		rel := cmd != upper
		abs := func(x, y float64) vec.Vec2 {
			p := vec.Vec2{X: x, Y: y}
			if rel {
				p = p.Add(current)
			}
			return p
		}

		next := current
		switch upper {
		case 'M':
			next = abs(args[0], args[1])
			if cur >= 0 && len(res[cur].Segments) == 0 {
				res = res[:cur] // consecutive moves
			}
			res = append(res, Subpath{})
			cur = len(res) - 1
			start = next
			// further coordinate pairs are implicit line commands
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'Z':
			if cur >= 0 {
				if current != start {
					add(lineSegment(current, start))
				}
				res[cur].Closed = true
				cur = -1
			}
			next = start
		case 'L':
			next = abs(args[0], args[1])
			add(lineSegment(current, next))
		case 'H':
			next.X = args[0]
			if rel {
				next.X += current.X
			}
			add(lineSegment(current, next))
		case 'V':
			next.Y = args[0]
			if rel {
				next.Y += current.Y
			}
			add(lineSegment(current, next))
		case 'C':
			c1 := abs(args[0], args[1])
			c2 := abs(args[2], args[3])
			next = abs(args[4], args[5])
			add(Segment{Kind: Cubic, P0: current, P1: c1, P2: c2, P3: next})
			lastCubic = c2
		case 'S':
			c1 := current
			if strings.IndexByte("CcSs", prevCmd) >= 0 {
				c1 = current.Mul(2).Sub(lastCubic)
			}
			c2 := abs(args[0], args[1])
			next = abs(args[2], args[3])
			add(Segment{Kind: Cubic, P0: current, P1: c1, P2: c2, P3: next})
			lastCubic = c2
		case 'Q':
			c := abs(args[0], args[1])
			next = abs(args[2], args[3])
			add(Segment{Kind: Quadratic, P0: current, P1: c, P2: c, P3: next})
			lastQuad = c
		case 'T':
			c := current
			if strings.IndexByte("QqTt", prevCmd) >= 0 {
				c = current.Mul(2).Sub(lastQuad)
			}
			next = abs(args[0], args[1])
			add(Segment{Kind: Quadratic, P0: current, P1: c, P2: c, P3: next})
			lastQuad = c
		case 'A':
			next = abs(args[5], args[6])
			add(Segment{Kind: Arc, P0: current, P1: current, P2: next, P3: next})
		}
		prevCmd = cmd
		current = next
	}
	if cur >= 0 && len(res[cur].Segments) == 0 {
		res = res[:cur] // trailing move
	}
	return res, nil
}

// ToCurve converts a sub-path into a closed curve.  If the sub-path does
// not end at its start point, a closing line is added.
func ToCurve(sp Subpath) (*morph.Curve, error) {
	if len(sp.Segments) == 0 {
		return nil, fmt.Errorf("svgpath: empty sub-path: %w", morph.ErrInvalidShape)
	}
	segs := make([]morph.Segment, 0, len(sp.Segments)+1)
	for i, s := range sp.Segments {
		if s.Kind != Line && s.Kind != Cubic {
			return nil, fmt.Errorf("svgpath: segment %d is a %s: %w", i, s.Kind, morph.ErrUnsupportedSegmentKind)
		}
		segs = append(segs, morph.Segment{P0: s.P0, P1: s.P1, P2: s.P2, P3: s.P3})
	}
	first, last := segs[0].P0, segs[len(segs)-1].P3
	if last != first {
		segs = append(segs, morph.LineSegment(last, first))
	}
	return morph.NewCurve(segs)
}

// ParseCurve parses path data consisting of a single sub-path and returns
// the corresponding curve.
func ParseCurve(d string) (*morph.Curve, error) {
	sps, err := Parse(d)
	if err != nil {
		return nil, err
	}
	if len(sps) != 1 {
		return nil, fmt.Errorf("svgpath: %d sub-paths, expected 1: %w", len(sps), morph.ErrInvalidShape)
	}
	return ToCurve(sps[0])
}

func lineSegment(a, b vec.Vec2) Segment {
	return Segment{Kind: Line, P0: a, P1: a, P2: b, P3: b}
}

func skipCommaWhitespace(buf []byte) int {
	i := 0
	for i < len(buf) && (buf[i] == ',' || parse.IsWhitespace(buf[i])) {
		i++
	}
	return i
}

func isNumberStart(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+'
}
