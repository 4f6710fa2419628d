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

package svgpath

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"

	"seehuhn.de/go/morph"
)

// Load reads an SVG document and returns one curve for every <path>
// element, in document order.  Each path must consist of a single sub-path
// of lines and cubic Bézier segments.  Transform attributes are ignored.
func Load(r io.Reader) ([]*morph.Curve, error) {
	l := xml.NewLexer(parse.NewInput(r))

	var res []*morph.Curve
	inPath := false
	var d []byte
	hasD := false
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			if err := l.Err(); err != io.EOF {
				return nil, fmt.Errorf("svgpath: reading SVG: %w", err)
			}
			return res, nil

		case xml.StartTagToken:
			inPath = isPathTag(l.Text())
			hasD = false
			d = nil

		case xml.AttributeToken:
			if inPath && bytes.Equal(l.Text(), []byte("d")) {
				d = unquote(l.AttrVal())
				hasD = true
			}

		case xml.StartTagCloseToken, xml.StartTagCloseVoidToken:
			if !inPath {
				break
			}
			inPath = false
			idx := len(res)
			if !hasD {
				return nil, fmt.Errorf("svgpath: path %d has no d attribute: %w", idx, morph.ErrInvalidShape)
			}
			c, err := ParseCurve(string(d))
			if err != nil {
				return nil, fmt.Errorf("svgpath: path %d: %w", idx, err)
			}
			res = append(res, c)
		}
	}
}

// isPathTag reports whether name is "path", possibly with a namespace
// prefix.
func isPathTag(name []byte) bool {
	if i := bytes.LastIndexByte(name, ':'); i >= 0 {
		name = name[i+1:]
	}
	return bytes.Equal(name, []byte("path"))
}

// unquote strips the quotes from an attribute value.  The result is a copy,
// since the lexer reuses its buffer.
func unquote(val []byte) []byte {
	if n := len(val); n >= 2 && (val[0] == '"' || val[0] == '\'') && val[n-1] == val[0] {
		val = val[1 : n-1]
	}
	return parse.Copy(val)
}
