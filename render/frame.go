package render

import (
	"math"

	"github.com/wudi/framepdf/doc"
	"github.com/wudi/framepdf/geo"
	"github.com/wudi/framepdf/observability"
	"github.com/wudi/framepdf/surface"
)

// exporter carries the per-document state of a single PDF() invocation:
// the resource cache, the per-page annotation buffer, and the set of
// tag roles encountered.
type exporter struct {
	res         *resources
	log         observability.Logger
	tags        map[string]struct{}
	annotations []surface.Annotation
	inPattern   bool
}

// forPattern derives an exporter for drawing a pattern tile. Resources
// and tags are shared; links inside tiles are dropped because pattern
// content has no page coordinate system to anchor an annotation to.
func (ex *exporter) forPattern() *exporter {
	return &exporter{
		res:       ex.res,
		log:       ex.log,
		tags:      ex.tags,
		inPattern: true,
	}
}

// processFrame walks one frame. Each item is dispatched inside its own
// stack frame so that sibling transforms stay independent while the
// absolute chain keeps accumulating.
func (ex *exporter) processFrame(fc *FrameContext, frame *doc.Frame, fill doc.Paint, s surface.Surface) error {
	fc.Push()
	defer fc.Pop()

	if frame.Kind == doc.Hard {
		fc.State().SetContainerTransform()
		fc.State().SetContainerSize(frame.Size)
	}

	if fill != nil {
		background := &doc.Shape{
			Geometry: doc.Rect{Size: frame.Size},
			Fill:     fill,
			FillRule: doc.NonZero,
		}
		ex.handleShape(fc, background, s)
	}

	for _, pos := range frame.Items {
		fc.Push()
		fc.State().Concat(geo.Translate(pos.Point.X, pos.Point.Y))

		var err error
		switch item := pos.Item.(type) {
		case *doc.Group:
			err = ex.handleGroup(fc, item, s)
		case *doc.Text:
			err = ex.handleText(fc, item, s)
		case *doc.Shape:
			ex.handleShape(fc, item, s)
		case *doc.Image:
			err = ex.handleImage(fc, item, s)
		case *doc.Link:
			ex.writeLink(fc, item)
		case *doc.Tag:
			ex.tags[item.Role] = struct{}{}
		}
		fc.Pop()
		if err != nil {
			return err
		}
	}
	return nil
}

// handleGroup applies the group transform, installs the optional clip,
// and recurses. Clip pushes and pops match exactly: a clip path that
// converts to nothing installs no clip.
func (ex *exporter) handleGroup(fc *FrameContext, g *doc.Group, s surface.Surface) error {
	fc.Push()
	defer fc.Pop()

	fc.State().Concat(convertTransform(g.Transform))

	var clip *surface.Path
	if g.Clip != nil {
		var b surface.PathBuilder
		convertPath(g.Clip, &b)
		if p := b.Finish(); p != nil {
			clip = p.Transform(fc.State().TransformChain)
		}
	}
	if clip != nil {
		s.PushClipPath(clip, surface.NonZero)
		defer s.Pop()
	}

	return ex.processFrame(fc, g.Frame, nil, s)
}

// handleText interns the font and emits the glyph run. Text paints are
// built against the enclosing container frame, not a per-glyph box, so
// the paint transforms use a zero item size.
func (ex *exporter) handleText(fc *FrameContext, t *doc.Text, s surface.Surface) error {
	font, err := ex.res.font(t.Font)
	if err != nil {
		return err
	}

	state := fc.State()
	paint, alpha := ex.convertPaint(t.Fill, state.Transforms(geo.Size{}))
	fill := surface.Fill{
		Paint:   paint,
		Rule:    surface.NonZero,
		Opacity: float64(alpha) / 255,
	}

	glyphs := make([]surface.Glyph, len(t.Glyphs))
	for i, g := range t.Glyphs {
		glyphs[i] = surface.Glyph{
			ID:       g.ID,
			Start:    g.Start,
			End:      g.End,
			XAdvance: g.XAdvance,
			XOffset:  g.XOffset,
		}
	}

	s.PushTransform(state.TransformChain)
	s.FillGlyphs(geo.Point{}, fill, glyphs, font, t.Text, t.Size)
	if t.Stroke != nil && t.Stroke.Thickness > 0 {
		stroke := ex.convertFixedStroke(t.Stroke, state.Transforms(geo.Size{}))
		s.StrokeGlyphs(geo.Point{}, stroke, glyphs, font, t.Text, t.Size)
	}
	s.Pop()
	return nil
}

// handleShape builds the geometry's path and emits fill and stroke.
// Degenerate geometry draws nothing.
func (ex *exporter) handleShape(fc *FrameContext, shape *doc.Shape, s surface.Surface) {
	var b surface.PathBuilder
	var mirror *geo.Matrix

	switch g := shape.Geometry.(type) {
	case doc.Line:
		b.MoveTo(0, 0)
		b.LineTo(g.To.X, g.To.Y)
	case doc.Rect:
		// Negative dimensions draw the absolute rectangle reflected
		// about the corresponding axis.
		abs := g.Size.Abs()
		b.PushRect(0, 0, abs.W, abs.H)
		if g.Size.W < 0 || g.Size.H < 0 {
			m := geo.Scale(math.Copysign(1, g.Size.W), math.Copysign(1, g.Size.H))
			mirror = &m
		}
	case *doc.Path:
		convertPath(g, &b)
	}

	path := b.Finish()
	if path == nil {
		return
	}
	if mirror != nil {
		path = path.Transform(*mirror)
	}

	state := fc.State()
	s.PushTransform(state.TransformChain)
	if shape.Fill != nil {
		paint, alpha := ex.convertPaint(shape.Fill, state.Transforms(shape.Geometry.BBoxSize()))
		s.FillPath(path, surface.Fill{
			Paint:   paint,
			Rule:    convertFillRule(shape.FillRule),
			Opacity: float64(alpha) / 255,
		})
	}
	if shape.Stroke != nil && shape.Stroke.Thickness > 0 {
		stroke := ex.convertFixedStroke(shape.Stroke, state.Transforms(shape.Geometry.BBoxSize()))
		s.StrokePath(path, stroke)
	}
	s.Pop()
}

// handleImage resolves the image handle and draws it into the item
// rectangle.
func (ex *exporter) handleImage(fc *FrameContext, img *doc.Image, s surface.Surface) error {
	state := fc.State()
	s.PushTransform(state.TransformChain)
	defer s.Pop()

	switch kind := img.Kind.(type) {
	case *doc.Raster:
		handle, err := ex.res.raster(kind)
		if err != nil {
			return err
		}
		s.DrawImage(handle, img.Size)
	case *doc.SVG:
		s.DrawSVG(kind.Icon, img.Size, surface.SVGSettings{EmbedText: !kind.FlattenText})
	}
	return nil
}

// writeLink computes the annotation rectangle in page coordinates and
// buffers it. The corners are mapped through the item's relative
// transform, which is how page coordinates accumulate within the
// enclosing page.
func (ex *exporter) writeLink(fc *FrameContext, link *doc.Link) {
	if ex.inPattern {
		ex.log.Warn("link inside pattern tile dropped")
		return
	}

	var target surface.Target
	switch dest := link.Dest.(type) {
	case doc.URL:
		target = surface.Action{URL: string(dest)}
	case doc.Position:
		target = surface.Destination{PageIndex: dest.Page - 1, Point: dest.Point}
	case *doc.Location:
		if dest.Resolved == nil {
			ex.log.Warn("unresolved link location skipped")
			return
		}
		target = surface.Destination{PageIndex: dest.Resolved.Page - 1, Point: dest.Resolved.Point}
	default:
		return
	}

	m := fc.State().Transform
	corners := []geo.Point{
		m.Apply(geo.Point{}),
		m.Apply(geo.Point{X: link.Size.W}),
		m.Apply(geo.Point{Y: link.Size.H}),
		m.Apply(geo.Point{X: link.Size.W, Y: link.Size.H}),
	}
	ex.annotations = append(ex.annotations, surface.Annotation{
		Rect:   geo.BoundingRect(corners),
		Target: target,
	})
}
