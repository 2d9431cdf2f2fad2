package render

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/srwiley/oksvg"

	"github.com/wudi/framepdf/doc"
	"github.com/wudi/framepdf/geo"
	"github.com/wudi/framepdf/surface"
)

// call is one recorded backend invocation.
type call struct {
	Op     string
	Matrix geo.Matrix
	Points []geo.Point
	Paint  surface.Paint
	Width  float64
	Glyphs int
	Text   string
	Size   geo.Size
	Rect   geo.Rect
	Target surface.Target
}

// recBackend records every drawing call and counts resource builds.
type recBackend struct {
	calls        []call
	fontEmbeds   int
	imageDecodes int
}

type recFont struct{ surface.Font }
type recImage struct{ surface.Image }

func (b *recBackend) NewDocument(settings surface.SerializeSettings) surface.Document {
	return &recDoc{b: b}
}

func (b *recBackend) NewFont(data []byte, index uint32, allowVariations bool) (surface.Font, error) {
	b.fontEmbeds++
	return recFont{}, nil
}

func (b *recBackend) DecodeImage(data []byte, format surface.ImageFormat) (surface.Image, error) {
	b.imageDecodes++
	return recImage{}, nil
}

type recDoc struct{ b *recBackend }

func (d *recDoc) StartPage(settings surface.PageSettings) surface.Page {
	d.b.calls = append(d.b.calls, call{Op: "startPage", Size: geo.Size{W: settings.Width, H: settings.Height}})
	return &recPage{b: d.b}
}

func (d *recDoc) Finish() ([]byte, error) { return []byte("done"), nil }

type recPage struct{ b *recBackend }

func (p *recPage) Surface() surface.Surface { return &recSurface{b: p.b} }

func (p *recPage) AddAnnotation(a surface.Annotation) {
	p.b.calls = append(p.b.calls, call{Op: "annotation", Rect: a.Rect, Target: a.Target})
}

func (p *recPage) Close() {
	p.b.calls = append(p.b.calls, call{Op: "closePage"})
}

type recSurface struct{ b *recBackend }

func pathPoints(p *surface.Path) []geo.Point {
	var pts []geo.Point
	for _, el := range p.Elements {
		switch el.Verb {
		case surface.VerbMoveTo, surface.VerbLineTo:
			pts = append(pts, el.P1)
		case surface.VerbCubicTo:
			pts = append(pts, el.P3)
		}
	}
	return pts
}

func (s *recSurface) PushTransform(t geo.Matrix) {
	s.b.calls = append(s.b.calls, call{Op: "pushTransform", Matrix: t})
}

func (s *recSurface) PushClipPath(p *surface.Path, rule surface.FillRule) {
	s.b.calls = append(s.b.calls, call{Op: "pushClip", Points: pathPoints(p)})
}

func (s *recSurface) Pop() {
	s.b.calls = append(s.b.calls, call{Op: "pop"})
}

func (s *recSurface) FillPath(p *surface.Path, f surface.Fill) {
	s.b.calls = append(s.b.calls, call{Op: "fillPath", Points: pathPoints(p), Paint: f.Paint})
}

func (s *recSurface) StrokePath(p *surface.Path, st surface.Stroke) {
	s.b.calls = append(s.b.calls, call{Op: "strokePath", Points: pathPoints(p), Paint: st.Paint, Width: st.Width})
}

func (s *recSurface) FillGlyphs(origin geo.Point, f surface.Fill, glyphs []surface.Glyph, font surface.Font, text string, size float64) {
	s.b.calls = append(s.b.calls, call{Op: "fillGlyphs", Paint: f.Paint, Glyphs: len(glyphs), Text: text})
}

func (s *recSurface) StrokeGlyphs(origin geo.Point, st surface.Stroke, glyphs []surface.Glyph, font surface.Font, text string, size float64) {
	s.b.calls = append(s.b.calls, call{Op: "strokeGlyphs", Paint: st.Paint, Glyphs: len(glyphs), Text: text})
}

func (s *recSurface) DrawImage(img surface.Image, size geo.Size) {
	s.b.calls = append(s.b.calls, call{Op: "drawImage", Size: size})
}

func (s *recSurface) DrawSVG(icon *oksvg.SvgIcon, size geo.Size, settings surface.SVGSettings) {
	s.b.calls = append(s.b.calls, call{Op: "drawSVG", Size: size})
}

func (s *recSurface) Finish() {
	s.b.calls = append(s.b.calls, call{Op: "finishSurface"})
}

func opNames(calls []call) []string {
	names := make([]string, len(calls))
	for i, c := range calls {
		names[i] = c.Op
	}
	return names
}

func findCalls(calls []call, op string) []call {
	var out []call
	for _, c := range calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func renderWith(t *testing.T, d *doc.Document) *recBackend {
	t.Helper()
	b := &recBackend{}
	if _, err := PDF(d, &Options{Backend: b}); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b
}

func onePage(size geo.Size, items ...doc.Positioned) *doc.Document {
	return &doc.Document{Pages: []*doc.Page{{
		Frame: &doc.Frame{Size: size, Kind: doc.Hard, Items: items},
	}}}
}

func at(x, y float64, item doc.FrameItem) doc.Positioned {
	return doc.Positioned{Point: geo.Point{X: x, Y: y}, Item: item}
}

func TestTextRunCallOrder(t *testing.T) {
	font := &doc.Font{Data: []byte("stub")}
	d := onePage(geo.Size{W: 100, H: 100}, at(10, 20, &doc.Text{
		Font:   font,
		Size:   12,
		Glyphs: []doc.Glyph{{ID: 1, XAdvance: 0.5, Start: 0, End: 1}},
		Text:   "A",
		Fill:   doc.Solid{Color: doc.Black()},
	}))
	b := renderWith(t, d)

	want := []string{"startPage", "pushTransform", "fillGlyphs", "pop", "finishSurface", "closePage"}
	if diff := cmp.Diff(want, opNames(b.calls)); diff != "" {
		t.Fatalf("call order mismatch (-want +got):\n%s", diff)
	}
	pt := findCalls(b.calls, "pushTransform")[0]
	if got, want := pt.Matrix, geo.Translate(10, 20); got != want {
		t.Fatalf("text transform = %v, want %v", got, want)
	}
}

func TestNestedRotationChain(t *testing.T) {
	inner := &doc.Frame{Size: geo.Size{W: 10, H: 10}}
	inner.Push(geo.Point{}, &doc.Shape{
		Geometry: doc.Rect{Size: geo.Size{W: 10, H: 10}},
		Fill:     doc.Solid{Color: doc.Black()},
	})
	rot := doc.Transform{Sx: 0, Ky: 1, Kx: -1, Sy: 0}
	d := onePage(geo.Size{W: 100, H: 100}, at(50, 50, &doc.Group{Frame: inner, Transform: rot}))
	b := renderWith(t, d)

	pts := findCalls(b.calls, "pushTransform")
	if len(pts) != 1 {
		t.Fatalf("got %d transforms, want 1", len(pts))
	}
	want := geo.Matrix{0, 1, -1, 0, 50, 50}
	if pts[0].Matrix != want {
		t.Fatalf("chain = %v, want %v", pts[0].Matrix, want)
	}
}

func TestLinkRectangle(t *testing.T) {
	inner := &doc.Frame{Size: geo.Size{W: 60, H: 40}}
	inner.Push(geo.Point{X: 10, Y: 10}, &doc.Link{
		Dest: doc.URL("https://example.com"),
		Size: geo.Size{W: 40, H: 20},
	})
	d := onePage(geo.Size{W: 100, H: 100}, at(20, 0, &doc.Group{
		Frame:     inner,
		Transform: doc.IdentityTransform(),
	}))
	b := renderWith(t, d)

	annots := findCalls(b.calls, "annotation")
	if len(annots) != 1 {
		t.Fatalf("got %d annotations, want 1", len(annots))
	}
	want := geo.Rect{X0: 30, Y0: 10, X1: 70, Y1: 30}
	if annots[0].Rect != want {
		t.Fatalf("rect = %v, want %v", annots[0].Rect, want)
	}
	if tgt, ok := annots[0].Target.(surface.Action); !ok || tgt.URL != "https://example.com" {
		t.Fatalf("target = %v, want URL action", annots[0].Target)
	}
}

func TestResourcesInternedAcrossPages(t *testing.T) {
	font := &doc.Font{Data: []byte("stub")}
	img := &doc.Raster{Data: []byte("stub"), Format: doc.PNG}
	mkPage := func() *doc.Page {
		f := &doc.Frame{Size: geo.Size{W: 100, H: 100}, Kind: doc.Hard}
		f.Push(geo.Point{}, &doc.Text{
			Font:   font,
			Size:   10,
			Glyphs: []doc.Glyph{{ID: 2, XAdvance: 0.4, Start: 0, End: 1}},
			Text:   "x",
			Fill:   doc.Solid{Color: doc.Black()},
		})
		f.Push(geo.Point{Y: 50}, &doc.Image{Kind: img, Size: geo.Size{W: 20, H: 20}})
		return &doc.Page{Frame: f}
	}
	b := renderWith(t, &doc.Document{Pages: []*doc.Page{mkPage(), mkPage()}})

	if b.fontEmbeds != 1 {
		t.Errorf("font embedded %d times, want 1", b.fontEmbeds)
	}
	if b.imageDecodes != 1 {
		t.Errorf("image decoded %d times, want 1", b.imageDecodes)
	}
	if n := len(findCalls(b.calls, "fillGlyphs")); n != 2 {
		t.Errorf("got %d glyph runs, want 2", n)
	}
	if n := len(findCalls(b.calls, "drawImage")); n != 2 {
		t.Errorf("got %d image draws, want 2", n)
	}
}

func TestNegativeRectMirrored(t *testing.T) {
	d := onePage(geo.Size{W: 100, H: 100}, at(0, 0, &doc.Shape{
		Geometry: doc.Rect{Size: geo.Size{W: -10, H: 20}},
		Fill:     doc.Solid{Color: doc.Black()},
	}))
	b := renderWith(t, d)

	fills := findCalls(b.calls, "fillPath")
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	want := []geo.Point{{X: 0, Y: 0}, {X: -10, Y: 0}, {X: -10, Y: 20}, {X: 0, Y: 20}}
	if diff := cmp.Diff(want, fills[0].Points); diff != "" {
		t.Fatalf("mirrored rect mismatch (-want +got):\n%s", diff)
	}
}

func TestGradientResolvesAgainstHardFrame(t *testing.T) {
	hard := &doc.Frame{Size: geo.Size{W: 40, H: 40}, Kind: doc.Hard}
	hard.Push(geo.Point{}, &doc.Shape{
		Geometry: doc.Rect{Size: geo.Size{W: 40, H: 40}},
		Fill: &doc.Gradient{
			Kind:     doc.LinearGradient,
			Relative: doc.RelativeParent,
			Angle:    0,
			Stops: []doc.GradientStop{
				{Offset: 0, Color: doc.Color{R: 255, A: 255}},
				{Offset: 1, Color: doc.Color{B: 255, A: 255}},
			},
		},
	})
	d := onePage(geo.Size{W: 100, H: 100}, at(20, 20, &doc.Group{
		Frame:     hard,
		Transform: doc.IdentityTransform(),
	}))
	b := renderWith(t, d)

	fills := findCalls(b.calls, "fillPath")
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	grad, ok := fills[0].Paint.(*surface.LinearGradient)
	if !ok {
		t.Fatalf("paint = %T, want linear gradient", fills[0].Paint)
	}
	if want := geo.Translate(20, 20); grad.Transform != want {
		t.Errorf("gradient transform = %v, want %v", grad.Transform, want)
	}
	if want := (geo.Point{X: 40, Y: 0}); grad.To != want {
		t.Errorf("gradient axis end = %v, want %v", grad.To, want)
	}
}

func TestRadialGradientSelfRelative(t *testing.T) {
	d := onePage(geo.Size{W: 100, H: 100}, at(10, 10, &doc.Shape{
		Geometry: doc.Rect{Size: geo.Size{W: 20, H: 40}},
		Fill: &doc.Gradient{
			Kind:     doc.RadialGradient,
			Relative: doc.RelativeSelf,
			Center:   geo.Point{X: 0.5, Y: 0.5},
			Radius:   0.5,
			Stops: []doc.GradientStop{
				{Offset: 0, Color: doc.Color{R: 255, A: 255}},
				{Offset: 1, Color: doc.Color{A: 255}},
			},
		},
	}))
	b := renderWith(t, d)

	fills := findCalls(b.calls, "fillPath")
	grad, ok := fills[0].Paint.(*surface.RadialGradient)
	if !ok {
		t.Fatalf("paint = %T, want radial gradient", fills[0].Paint)
	}
	if want := (geo.Point{X: 10, Y: 20}); grad.Center != want {
		t.Errorf("center = %v, want %v", grad.Center, want)
	}
	// Radius is half the smaller bbox side.
	if math.Abs(grad.Radius-10) > 1e-9 {
		t.Errorf("radius = %v, want 10", grad.Radius)
	}
	if want := geo.Translate(10, 10); grad.Transform != want {
		t.Errorf("transform = %v, want %v", grad.Transform, want)
	}
}

func TestPatternTileDropsLinks(t *testing.T) {
	tile := &doc.Frame{Size: geo.Size{W: 10, H: 10}}
	tile.Push(geo.Point{}, &doc.Shape{
		Geometry: doc.Rect{Size: geo.Size{W: 10, H: 10}},
		Fill:     doc.Solid{Color: doc.Black()},
	})
	tile.Push(geo.Point{}, &doc.Link{
		Dest: doc.URL("https://example.com"),
		Size: geo.Size{W: 10, H: 10},
	})
	d := onePage(geo.Size{W: 100, H: 100}, at(0, 0, &doc.Shape{
		Geometry: doc.Rect{Size: geo.Size{W: 100, H: 100}},
		Fill:     &doc.Pattern{Frame: tile, Size: geo.Size{W: 10, H: 10}},
	}))
	b := renderWith(t, d)

	fills := findCalls(b.calls, "fillPath")
	pat, ok := fills[0].Paint.(*surface.TilingPattern)
	if !ok {
		t.Fatalf("paint = %T, want tiling pattern", fills[0].Paint)
	}

	// Draw the tile and verify it fills but never emits an annotation.
	before := len(b.calls)
	if err := pat.Draw(&recSurface{b: b}); err != nil {
		t.Fatalf("tile draw: %v", err)
	}
	tileCalls := b.calls[before:]
	if n := len(findCalls(tileCalls, "fillPath")); n != 1 {
		t.Errorf("tile drew %d fills, want 1", n)
	}
	if n := len(findCalls(tileCalls, "annotation")); n != 0 {
		t.Errorf("tile emitted %d annotations, want 0", n)
	}
	if n := len(findCalls(b.calls, "annotation")); n != 0 {
		t.Errorf("page emitted %d annotations, want 0", n)
	}
}

func TestUnresolvedLocationSkipped(t *testing.T) {
	d := onePage(geo.Size{W: 100, H: 100}, at(0, 0, &doc.Link{
		Dest: &doc.Location{},
		Size: geo.Size{W: 10, H: 10},
	}))
	b := renderWith(t, d)
	if n := len(findCalls(b.calls, "annotation")); n != 0 {
		t.Fatalf("got %d annotations, want 0", n)
	}
}

func TestZeroThicknessStrokeSuppressed(t *testing.T) {
	d := onePage(geo.Size{W: 100, H: 100}, at(0, 0, &doc.Shape{
		Geometry: doc.Rect{Size: geo.Size{W: 10, H: 10}},
		Fill:     doc.Solid{Color: doc.Black()},
		Stroke:   &doc.FixedStroke{Paint: doc.Solid{Color: doc.Black()}, Thickness: 0},
	}))
	b := renderWith(t, d)

	if n := len(findCalls(b.calls, "strokePath")); n != 0 {
		t.Fatalf("got %d strokes, want 0", n)
	}
	if n := len(findCalls(b.calls, "fillPath")); n != 1 {
		t.Fatalf("got %d fills, want 1", n)
	}
}

func TestDegenerateGeometryDrawsNothing(t *testing.T) {
	d := onePage(geo.Size{W: 100, H: 100},
		at(0, 0, &doc.Shape{
			Geometry: doc.Line{},
			Stroke:   &doc.FixedStroke{Paint: doc.Solid{Color: doc.Black()}, Thickness: 1},
		}),
		at(0, 0, &doc.Shape{
			Geometry: doc.Rect{},
			Fill:     doc.Solid{Color: doc.Black()},
		}),
	)
	b := renderWith(t, d)

	want := []string{"startPage", "finishSurface", "closePage"}
	if diff := cmp.Diff(want, opNames(b.calls)); diff != "" {
		t.Fatalf("degenerate shapes drew (-want +got):\n%s", diff)
	}
}

func TestEmptyClipInstallsNothing(t *testing.T) {
	inner := &doc.Frame{Size: geo.Size{W: 10, H: 10}}
	inner.Push(geo.Point{}, &doc.Shape{
		Geometry: doc.Rect{Size: geo.Size{W: 10, H: 10}},
		Fill:     doc.Solid{Color: doc.Black()},
	})
	d := onePage(geo.Size{W: 100, H: 100}, at(0, 0, &doc.Group{
		Frame:     inner,
		Transform: doc.IdentityTransform(),
		Clip:      &doc.Path{},
	}))
	b := renderWith(t, d)

	if n := len(findCalls(b.calls, "pushClip")); n != 0 {
		t.Fatalf("empty clip installed %d clips, want 0", n)
	}
	pushes := len(findCalls(b.calls, "pushTransform"))
	pops := len(findCalls(b.calls, "pop"))
	if pushes != pops {
		t.Fatalf("unbalanced surface: %d pushes, %d pops", pushes, pops)
	}
}

func TestPageBackgroundFill(t *testing.T) {
	d := &doc.Document{Pages: []*doc.Page{{
		Frame: &doc.Frame{Size: geo.Size{W: 50, H: 30}, Kind: doc.Hard},
		Fill:  doc.Solid{Color: doc.Color{R: 200, G: 200, B: 200, A: 255}},
	}}}
	b := renderWith(t, d)

	fills := findCalls(b.calls, "fillPath")
	if len(fills) != 1 {
		t.Fatalf("got %d fills, want 1", len(fills))
	}
	want := []geo.Point{{}, {X: 50}, {X: 50, Y: 30}, {Y: 30}}
	if diff := cmp.Diff(want, fills[0].Points); diff != "" {
		t.Fatalf("background rect mismatch (-want +got):\n%s", diff)
	}
}

func TestDeterministicPDFOutput(t *testing.T) {
	build := func() *doc.Document {
		f := &doc.Frame{Size: geo.Size{W: 100, H: 100}, Kind: doc.Hard}
		f.Push(geo.Point{X: 10, Y: 10}, &doc.Shape{
			Geometry: doc.Rect{Size: geo.Size{W: 30, H: 30}},
			Fill:     doc.Solid{Color: doc.Color{R: 255, A: 255}},
			Stroke:   &doc.FixedStroke{Paint: doc.Solid{Color: doc.Black()}, Thickness: 2},
		})
		return &doc.Document{Pages: []*doc.Page{{Frame: f}}}
	}
	a, err := PDF(build(), nil)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	b, err := PDF(build(), nil)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("renders differ: %d vs %d bytes", len(a), len(b))
	}
	if !bytes.HasPrefix(a, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF, starts %q", a[:8])
	}
}

func TestNilDocument(t *testing.T) {
	if _, err := PDF(nil, nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
}
