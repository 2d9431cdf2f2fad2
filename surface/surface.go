// Package surface defines the drawing backend driven by the renderer.
// A backend accumulates per-page content and a cross-page resource
// catalog and finally serializes the whole document to bytes. The
// writer package provides the PDF-producing implementation; tests use
// recording backends.
package surface

import (
	"github.com/srwiley/oksvg"

	"github.com/wudi/framepdf/geo"
)

// Backend constructs documents and document-independent resources.
type Backend interface {
	NewDocument(settings SerializeSettings) Document
	// NewFont builds a font handle from raw font bytes and a face index.
	// allowVariations enables variable-font and advanced CFF features.
	NewFont(data []byte, index uint32, allowVariations bool) (Font, error)
	// DecodeImage decodes an encoded raster image.
	DecodeImage(data []byte, format ImageFormat) (Image, error)
}

// Font is an opaque embedded-font handle.
type Font interface{ IsFont() }

// Image is an opaque decoded-image handle.
type Image interface{ IsImage() }

// ImageFormat tags the encoding of raster bytes handed to DecodeImage.
type ImageFormat uint8

const (
	FormatPNG ImageFormat = iota
	FormatJPG
	FormatGIF
)

// Document accumulates pages and resources.
type Document interface {
	StartPage(settings PageSettings) Page
	// Finish serializes the document. No page may be open.
	Finish() ([]byte, error)
}

// PageSettings fixes the dimensions of a page.
type PageSettings struct {
	Width, Height float64
}

// Page is a single page under construction.
type Page interface {
	Surface() Surface
	AddAnnotation(a Annotation)
	// Close flushes the page into the document. The page's surface must
	// already be finished.
	Close()
}

// Surface receives drawing calls for one page. Transforms and clip
// paths form a single LIFO stack: every push is undone by exactly one
// Pop, and the surface must be balanced when Finish is called.
type Surface interface {
	PushTransform(t geo.Matrix)
	PushClipPath(p *Path, rule FillRule)
	Pop()

	FillPath(p *Path, f Fill)
	StrokePath(p *Path, s Stroke)

	// FillGlyphs draws a glyph run starting at origin. text carries the
	// source characters; each glyph's Start/End range indexes into it.
	FillGlyphs(origin geo.Point, f Fill, glyphs []Glyph, font Font, text string, size float64)
	StrokeGlyphs(origin geo.Point, s Stroke, glyphs []Glyph, font Font, text string, size float64)

	DrawImage(img Image, size geo.Size)
	DrawSVG(icon *oksvg.SvgIcon, size geo.Size, settings SVGSettings)

	// Finish flushes the page content stream.
	Finish()
}

// Glyph is one positioned glyph in a run. Advances and offsets are
// normalized to font units per em.
type Glyph struct {
	ID         uint16
	Start, End int // byte range into the run's text
	XAdvance   float64
	XOffset    float64
	YAdvance   float64
	YOffset    float64
}

// SVGSettings controls SVG embedding.
type SVGSettings struct {
	// EmbedText keeps embedded text as text where the backend supports
	// it; otherwise text is flattened to outlines or pixels.
	EmbedText bool
}

// Annotation is a page-level link overlay. The rectangle is in page
// coordinates with the origin at the top-left corner.
type Annotation struct {
	Rect   geo.Rect
	Target Target
}

// Target is either an Action or a Destination.
type Target interface{ isTarget() }

// Action opens an external URL.
type Action struct {
	URL string
}

// Destination jumps to a point on a page of this document, given by a
// zero-based page index.
type Destination struct {
	PageIndex int
	Point     geo.Point
}

func (Action) isTarget()      {}
func (Destination) isTarget() {}
