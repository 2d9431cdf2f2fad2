package doc

import "github.com/wudi/framepdf/geo"

// Geometry is one of Line, Rect, or Path.
type Geometry interface {
	geometry()
	// BBoxSize returns the size of the geometry's bounding box with the
	// origin at (0,0).
	BBoxSize() geo.Size
}

// Line runs from the item origin to To.
type Line struct {
	To geo.Point
}

// Rect spans the item origin and Size. Negative dimensions mirror the
// rectangle about the corresponding axis.
type Rect struct {
	Size geo.Size
}

// Path is a free-form outline.
type Path struct {
	Items []PathItem
}

// PathOp selects the meaning of a PathItem.
type PathOp uint8

const (
	MoveTo PathOp = iota
	LineTo
	CubicTo
	ClosePath
)

// PathItem is one path segment. CubicTo uses P1 and P2 as control
// points and P3 as the end point; MoveTo and LineTo use only P1.
type PathItem struct {
	Op         PathOp
	P1, P2, P3 geo.Point
}

func (Line) geometry()  {}
func (Rect) geometry()  {}
func (*Path) geometry() {}

func (l Line) BBoxSize() geo.Size { return geo.Size{W: l.To.X, H: l.To.Y}.Abs() }

func (r Rect) BBoxSize() geo.Size { return r.Size.Abs() }

func (p *Path) BBoxSize() geo.Size {
	var pts []geo.Point
	for _, it := range p.Items {
		switch it.Op {
		case MoveTo, LineTo:
			pts = append(pts, it.P1)
		case CubicTo:
			pts = append(pts, it.P1, it.P2, it.P3)
		}
	}
	if len(pts) == 0 {
		return geo.Size{}
	}
	b := geo.BoundingRect(pts)
	return geo.Size{W: b.X1 - b.X0, H: b.Y1 - b.Y0}
}

// MoveTo appends a move segment.
func (p *Path) MoveTo(pt geo.Point) { p.Items = append(p.Items, PathItem{Op: MoveTo, P1: pt}) }

// LineTo appends a line segment.
func (p *Path) LineTo(pt geo.Point) { p.Items = append(p.Items, PathItem{Op: LineTo, P1: pt}) }

// CubicTo appends a cubic Bezier segment.
func (p *Path) CubicTo(c1, c2, end geo.Point) {
	p.Items = append(p.Items, PathItem{Op: CubicTo, P1: c1, P2: c2, P3: end})
}

// Close closes the current subpath.
func (p *Path) Close() { p.Items = append(p.Items, PathItem{Op: ClosePath}) }
