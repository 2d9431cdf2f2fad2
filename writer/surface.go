package writer

import (
	"errors"

	"github.com/srwiley/oksvg"

	"github.com/wudi/framepdf/contentstream"
	"github.com/wudi/framepdf/geo"
	"github.com/wudi/framepdf/surface"
)

// psurface emits PDF content stream operators for one page or one
// pattern tile. Document coordinates are y-down with the origin at the
// top-left corner, so the whole stream runs inside a flip transform
// that maps them onto PDF's y-up page space.
type psurface struct {
	doc      *document
	content  *contentstream.Content
	height   float64
	stack    int
	finished bool
}

func newSurface(d *document, height float64) *psurface {
	s := &psurface{
		doc:     d,
		content: &contentstream.Content{},
		height:  height,
	}
	s.content.Op("q")
	s.content.Op("cm",
		contentstream.Number(1), contentstream.Number(0),
		contentstream.Number(0), contentstream.Number(-1),
		contentstream.Number(0), contentstream.Number(height))
	return s
}

// flip maps document coordinates onto the default PDF page space.
// Pattern matrices must include it because patterns anchor to the
// default space, not the current transform.
func (s *psurface) flip() geo.Matrix {
	return geo.Matrix{1, 0, 0, -1, 0, s.height}
}

func (s *psurface) PushTransform(t geo.Matrix) {
	s.content.Op("q")
	s.content.Op("cm",
		contentstream.Number(t[0]), contentstream.Number(t[1]),
		contentstream.Number(t[2]), contentstream.Number(t[3]),
		contentstream.Number(t[4]), contentstream.Number(t[5]))
	s.stack++
}

func (s *psurface) PushClipPath(p *surface.Path, rule surface.FillRule) {
	s.content.Op("q")
	s.writePath(p)
	if rule == surface.EvenOdd {
		s.content.Op("W*")
	} else {
		s.content.Op("W")
	}
	s.content.Op("n")
	s.stack++
}

func (s *psurface) Pop() {
	if s.stack == 0 {
		s.doc.fail(errors.New("writer: unbalanced surface pop"))
		return
	}
	s.content.Op("Q")
	s.stack--
}

func (s *psurface) writePath(p *surface.Path) {
	for _, el := range p.Elements {
		switch el.Verb {
		case surface.VerbMoveTo:
			s.content.Op("m", contentstream.Number(el.P1.X), contentstream.Number(el.P1.Y))
		case surface.VerbLineTo:
			s.content.Op("l", contentstream.Number(el.P1.X), contentstream.Number(el.P1.Y))
		case surface.VerbCubicTo:
			s.content.Op("c",
				contentstream.Number(el.P1.X), contentstream.Number(el.P1.Y),
				contentstream.Number(el.P2.X), contentstream.Number(el.P2.Y),
				contentstream.Number(el.P3.X), contentstream.Number(el.P3.Y))
		case surface.VerbClose:
			s.content.Op("h")
		}
	}
}

// paintName interns a pattern paint and returns its resource name.
func (s *psurface) paintName(p surface.Paint) string {
	switch paint := p.(type) {
	case *surface.LinearGradient:
		return s.doc.ensureShading(&shadingEntry{
			matrix: paint.Transform.Mul(s.flip()),
			linear: paint,
		})
	case *surface.RadialGradient:
		return s.doc.ensureShading(&shadingEntry{
			matrix: paint.Transform.Mul(s.flip()),
			radial: paint,
		})
	case *surface.TilingPattern:
		sub := newSurface(s.doc, paint.Size.H)
		if err := paint.Draw(sub); err != nil {
			s.doc.fail(err)
		}
		sub.Finish()
		return s.doc.addTiling(&tilingEntry{
			matrix:  paint.Transform.Mul(s.flip()),
			size:    paint.Size,
			spacing: paint.Spacing,
			content: sub.content.Bytes(),
		})
	}
	return ""
}

// setFillPaint emits the non-stroking color and opacity state.
func (s *psurface) setFillPaint(paint surface.Paint, opacity float64) {
	if solid, ok := paint.(surface.Solid); ok {
		c := solid.Color
		s.content.Op("rg",
			contentstream.Number(float64(c.R)/255),
			contentstream.Number(float64(c.G)/255),
			contentstream.Number(float64(c.B)/255))
	} else {
		s.content.Op("cs", contentstream.Name("Pattern"))
		s.content.Op("scn", contentstream.Name(s.paintName(paint)))
	}
	if opacity < 1 {
		name := s.doc.ensureExtGState(extgKey{fill: opacity, stroke: -1})
		s.content.Op("gs", contentstream.Name(name))
	}
}

// setStrokePaint emits the stroking color, opacity, and pen state.
func (s *psurface) setStrokePaint(st surface.Stroke) {
	if solid, ok := st.Paint.(surface.Solid); ok {
		c := solid.Color
		s.content.Op("RG",
			contentstream.Number(float64(c.R)/255),
			contentstream.Number(float64(c.G)/255),
			contentstream.Number(float64(c.B)/255))
	} else {
		s.content.Op("CS", contentstream.Name("Pattern"))
		s.content.Op("SCN", contentstream.Name(s.paintName(st.Paint)))
	}
	if st.Opacity < 1 {
		name := s.doc.ensureExtGState(extgKey{fill: -1, stroke: st.Opacity})
		s.content.Op("gs", contentstream.Name(name))
	}
	s.content.Op("w", contentstream.Number(st.Width))
	if st.Cap != surface.ButtCap {
		s.content.Op("J", contentstream.Number(float64(st.Cap)))
	}
	if st.Join != surface.MiterJoin {
		s.content.Op("j", contentstream.Number(float64(st.Join)))
	}
	if st.MiterLimit > 0 {
		s.content.Op("M", contentstream.Number(st.MiterLimit))
	}
	if st.Dash != nil && len(st.Dash.Array) > 0 {
		arr := make(contentstream.Array, len(st.Dash.Array))
		for i, v := range st.Dash.Array {
			arr[i] = contentstream.Number(v)
		}
		s.content.Op("d", arr, contentstream.Number(st.Dash.Phase))
	}
}

func (s *psurface) FillPath(p *surface.Path, f surface.Fill) {
	s.content.Op("q")
	s.setFillPaint(f.Paint, f.Opacity)
	s.writePath(p)
	if f.Rule == surface.EvenOdd {
		s.content.Op("f*")
	} else {
		s.content.Op("f")
	}
	s.content.Op("Q")
}

func (s *psurface) StrokePath(p *surface.Path, st surface.Stroke) {
	s.content.Op("q")
	s.setStrokePaint(st)
	s.writePath(p)
	s.content.Op("S")
	s.content.Op("Q")
}

func (s *psurface) FillGlyphs(origin geo.Point, f surface.Fill, glyphs []surface.Glyph, font surface.Font, text string, size float64) {
	s.content.Op("q")
	s.setFillPaint(f.Paint, f.Opacity)
	s.writeGlyphs(origin, glyphs, font, text, size)
	s.content.Op("Q")
}

func (s *psurface) StrokeGlyphs(origin geo.Point, st surface.Stroke, glyphs []surface.Glyph, font surface.Font, text string, size float64) {
	s.content.Op("q")
	s.setStrokePaint(st)
	s.writeGlyphsMode(origin, glyphs, font, text, size, 1)
	s.content.Op("Q")
}

func (s *psurface) writeGlyphs(origin geo.Point, glyphs []surface.Glyph, font surface.Font, text string, size float64) {
	s.writeGlyphsMode(origin, glyphs, font, text, size, 0)
}

// writeGlyphsMode places each glyph with its own text matrix. The
// matrix carries the y-flip so glyphs render upright inside the flipped
// page space.
func (s *psurface) writeGlyphsMode(origin geo.Point, glyphs []surface.Glyph, font surface.Font, text string, size float64, mode int) {
	wf, ok := font.(*Font)
	if !ok {
		s.doc.fail(errors.New("writer: foreign font handle"))
		return
	}
	st := s.doc.ensureFont(wf)

	s.content.Op("BT")
	s.content.Op("Tf", contentstream.Name(st.name), contentstream.Number(size))
	if mode != 0 {
		s.content.Op("Tr", contentstream.Number(float64(mode)))
	}

	x := origin.X
	y := origin.Y
	for _, g := range glyphs {
		gx := x + g.XOffset*size
		gy := y - g.YOffset*size
		s.content.Op("Tm",
			contentstream.Number(1), contentstream.Number(0),
			contentstream.Number(0), contentstream.Number(-1),
			contentstream.Number(gx), contentstream.Number(gy))
		s.content.Op("Tj", contentstream.Hex{byte(g.ID >> 8), byte(g.ID)})

		if g.Start >= 0 && g.End <= len(text) && g.Start < g.End {
			if _, seen := st.used[int(g.ID)]; !seen {
				st.used[int(g.ID)] = text[g.Start:g.End]
			}
		}
		x += g.XAdvance * size
		y += g.YAdvance * size
	}
	s.content.Op("ET")
}

func (s *psurface) DrawImage(img surface.Image, size geo.Size) {
	wi, ok := img.(*Image)
	if !ok {
		s.doc.fail(errors.New("writer: foreign image handle"))
		return
	}
	name := s.doc.ensureImage(wi)
	s.content.Op("q")
	// Image space is a unit square with a y-up origin; the extra flip
	// puts row zero at the top in document coordinates.
	s.content.Op("cm",
		contentstream.Number(size.W), contentstream.Number(0),
		contentstream.Number(0), contentstream.Number(-size.H),
		contentstream.Number(0), contentstream.Number(size.H))
	s.content.Op("Do", contentstream.Name(name))
	s.content.Op("Q")
}

func (s *psurface) DrawSVG(icon *oksvg.SvgIcon, size geo.Size, settings surface.SVGSettings) {
	img := rasterizeSVG(icon, size)
	s.DrawImage(img, size)
}

func (s *psurface) Finish() {
	if s.finished {
		return
	}
	if s.stack != 0 {
		s.doc.fail(errors.New("writer: surface finished with open saves"))
	}
	s.content.Op("Q")
	s.finished = true
}
