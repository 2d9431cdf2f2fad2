package render

import (
	"math"

	"github.com/wudi/framepdf/doc"
	"github.com/wudi/framepdf/geo"
	"github.com/wudi/framepdf/surface"
)

// convertTransform maps the document affine onto the backend's
// row-major affine.
func convertTransform(t doc.Transform) geo.Matrix {
	return geo.Matrix{t.Sx, t.Ky, t.Kx, t.Sy, t.Tx, t.Ty}
}

func convertFillRule(r doc.FillRule) surface.FillRule {
	switch r {
	case doc.EvenOdd:
		return surface.EvenOdd
	default:
		return surface.NonZero
	}
}

func convertLineCap(c doc.LineCap) surface.LineCap {
	switch c {
	case doc.RoundCap:
		return surface.RoundCap
	case doc.SquareCap:
		return surface.SquareCap
	default:
		return surface.ButtCap
	}
}

func convertLineJoin(j doc.LineJoin) surface.LineJoin {
	switch j {
	case doc.RoundJoin:
		return surface.RoundJoin
	case doc.BevelJoin:
		return surface.BevelJoin
	default:
		return surface.MiterJoin
	}
}

// convertPath replays the document path into the backend builder.
func convertPath(p *doc.Path, b *surface.PathBuilder) {
	for _, it := range p.Items {
		switch it.Op {
		case doc.MoveTo:
			b.MoveTo(it.P1.X, it.P1.Y)
		case doc.LineTo:
			b.LineTo(it.P1.X, it.P1.Y)
		case doc.CubicTo:
			b.CubicTo(it.P1.X, it.P1.Y, it.P2.X, it.P2.Y, it.P3.X, it.P3.Y)
		case doc.ClosePath:
			b.Close()
		}
	}
}

// convertPaint translates a document paint into a backend paint and the
// paint's opacity byte. Gradients and patterns are built in the
// coordinate frame selected by their RelativeTo; construction failures
// degrade to opaque black.
func (ex *exporter) convertPaint(p doc.Paint, t Transforms) (surface.Paint, uint8) {
	switch p := p.(type) {
	case doc.Solid:
		return surface.Solid{Color: surface.Color{R: p.Color.R, G: p.Color.G, B: p.Color.B}}, p.Color.A
	case *doc.Gradient:
		return convertGradient(p, t)
	case *doc.Pattern:
		return ex.convertPattern(p, t)
	default:
		return surface.Solid{Color: surface.Color{}}, 255
	}
}

// paintFrame resolves the reference frame of a gradient or pattern:
// the innermost hard frame for RelativeParent, the item's own bounding
// box for RelativeSelf.
func paintFrame(rel doc.RelativeTo, t Transforms) (geo.Matrix, geo.Size) {
	if rel == doc.RelativeSelf {
		return t.TransformChain, t.Size
	}
	return t.ContainerTransformChain, t.ContainerSize
}

func convertGradient(g *doc.Gradient, t Transforms) (surface.Paint, uint8) {
	if len(g.Stops) == 0 {
		return surface.Solid{Color: surface.Color{}}, 255
	}
	base, size := paintFrame(g.Relative, t)
	stops := make([]surface.Stop, len(g.Stops))
	for i, s := range g.Stops {
		stops[i] = surface.Stop{
			Offset: s.Offset,
			Color:  surface.Color{R: s.Color.R, G: s.Color.G, B: s.Color.B},
		}
	}
	switch g.Kind {
	case doc.RadialGradient:
		r := g.Radius * math.Min(size.W, size.H)
		if r <= 0 {
			return surface.Solid{Color: surface.Color{}}, 255
		}
		return &surface.RadialGradient{
			Transform: base,
			Center:    geo.Point{X: g.Center.X * size.W, Y: g.Center.Y * size.H},
			Radius:    r,
			Stops:     stops,
		}, 255
	default:
		// The axis spans the reference frame in the gradient's
		// direction, measured from the frame origin.
		return &surface.LinearGradient{
			Transform: base,
			From:      geo.Point{},
			To: geo.Point{
				X: math.Cos(g.Angle) * size.W,
				Y: math.Sin(g.Angle) * size.H,
			},
			Stops: stops,
		}, 255
	}
}

func (ex *exporter) convertPattern(p *doc.Pattern, t Transforms) (surface.Paint, uint8) {
	if p.Frame == nil || p.Size.W <= 0 || p.Size.H <= 0 {
		return surface.Solid{Color: surface.Color{}}, 255
	}
	base, _ := paintFrame(p.Relative, t)
	tile := p.Frame
	return &surface.TilingPattern{
		Transform: base,
		Size:      p.Size,
		Spacing:   p.Spacing,
		Draw: func(s surface.Surface) error {
			fc := NewFrameContext(tile.Size)
			sub := ex.forPattern()
			return sub.processFrame(fc, tile, nil, s)
		},
	}, 255
}

// convertFixedStroke combines paint, width, miter limit, cap, join, and
// dash into a backend stroke. Callers must suppress strokes with
// non-positive thickness.
func (ex *exporter) convertFixedStroke(s *doc.FixedStroke, t Transforms) surface.Stroke {
	paint, alpha := ex.convertPaint(s.Paint, t)
	stroke := surface.Stroke{
		Paint:      paint,
		Width:      s.Thickness,
		MiterLimit: s.MiterLimit,
		Cap:        convertLineCap(s.Cap),
		Join:       convertLineJoin(s.Join),
		Opacity:    float64(alpha) / 255,
	}
	if s.Dash != nil {
		stroke.Dash = &surface.Dash{Array: s.Dash.Array, Phase: s.Dash.Phase}
	}
	return stroke
}
