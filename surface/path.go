package surface

import "github.com/wudi/framepdf/geo"

// PathVerb selects the meaning of a path element.
type PathVerb uint8

const (
	VerbMoveTo PathVerb = iota
	VerbLineTo
	VerbCubicTo
	VerbClose
)

// PathElement is one segment of a built path. CubicTo uses P1 and P2 as
// control points and P3 as the end point; MoveTo and LineTo use P1.
type PathElement struct {
	Verb       PathVerb
	P1, P2, P3 geo.Point
}

// Path is an immutable built path.
type Path struct {
	Elements []PathElement
}

// Transform returns a copy of the path with every point mapped through m.
func (p *Path) Transform(m geo.Matrix) *Path {
	out := &Path{Elements: make([]PathElement, len(p.Elements))}
	for i, el := range p.Elements {
		el.P1 = m.Apply(el.P1)
		el.P2 = m.Apply(el.P2)
		el.P3 = m.Apply(el.P3)
		out.Elements[i] = el
	}
	return out
}

// PathBuilder accumulates path segments.
type PathBuilder struct {
	els     []PathElement
	started bool
	start   geo.Point
	drawn   bool
}

// MoveTo starts a new subpath at (x, y).
func (b *PathBuilder) MoveTo(x, y float64) {
	b.els = append(b.els, PathElement{Verb: VerbMoveTo, P1: geo.Point{X: x, Y: y}})
	if !b.started {
		b.started = true
		b.start = geo.Point{X: x, Y: y}
	}
}

// LineTo appends a line segment.
func (b *PathBuilder) LineTo(x, y float64) {
	p := geo.Point{X: x, Y: y}
	b.els = append(b.els, PathElement{Verb: VerbLineTo, P1: p})
	b.markDrawn(p)
}

// CubicTo appends a cubic Bezier segment.
func (b *PathBuilder) CubicTo(x1, y1, x2, y2, x3, y3 float64) {
	b.els = append(b.els, PathElement{
		Verb: VerbCubicTo,
		P1:   geo.Point{X: x1, Y: y1},
		P2:   geo.Point{X: x2, Y: y2},
		P3:   geo.Point{X: x3, Y: y3},
	})
	b.markDrawn(geo.Point{X: x1, Y: y1})
	b.markDrawn(geo.Point{X: x2, Y: y2})
	b.markDrawn(geo.Point{X: x3, Y: y3})
}

// Close closes the current subpath.
func (b *PathBuilder) Close() {
	b.els = append(b.els, PathElement{Verb: VerbClose})
}

// PushRect appends a closed rectangle subpath with corner (x, y).
func (b *PathBuilder) PushRect(x, y, w, h float64) {
	b.MoveTo(x, y)
	b.LineTo(x+w, y)
	b.LineTo(x+w, y+h)
	b.LineTo(x, y+h)
	b.Close()
}

func (b *PathBuilder) markDrawn(p geo.Point) {
	if !b.started {
		// Segment without a preceding MoveTo still counts as drawing
		// from the implicit origin.
		b.started = true
	}
	if p != b.start {
		b.drawn = true
	}
}

// Finish returns the built path, or nil when the path is empty or
// degenerate (no segment ever leaves the starting point).
func (b *PathBuilder) Finish() *Path {
	if len(b.els) == 0 || !b.drawn {
		return nil
	}
	return &Path{Elements: b.els}
}
