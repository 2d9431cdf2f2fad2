// Package doc defines the laid-out document model consumed by the
// renderer. The model is read-only from the renderer's point of view:
// pages own a tree of frames, frames own positioned items, and every
// coordinate is expressed in the local space of the owning frame.
package doc

import "github.com/wudi/framepdf/geo"

// Document is an ordered sequence of laid-out pages.
type Document struct {
	Pages []*Page
}

// Page carries a root frame and an optional background fill. The page
// dimensions are the dimensions of the root frame.
type Page struct {
	Frame *Frame
	Fill  Paint // optional; nil means no background
}

// FrameKind tells whether a frame establishes a new container reference.
type FrameKind uint8

const (
	// Soft frames inherit the container context of their parent.
	Soft FrameKind = iota
	// Hard frames freeze the container transform and size for their
	// subtree; gradients and patterns resolve against the innermost
	// hard frame.
	Hard
)

// Frame is a laid-out drawable region.
type Frame struct {
	Size  geo.Size
	Kind  FrameKind
	Items []Positioned
}

// Positioned pairs an item with its origin in frame-local coordinates.
type Positioned struct {
	Point geo.Point
	Item  FrameItem
}

// Push appends an item at the given origin.
func (f *Frame) Push(p geo.Point, item FrameItem) {
	f.Items = append(f.Items, Positioned{Point: p, Item: item})
}

// FrameItem is one of Group, Text, Shape, Image, Link, or Tag.
type FrameItem interface{ frameItem() }

// Group nests a child frame under a local transform and an optional
// clip path.
type Group struct {
	Frame     *Frame
	Transform Transform
	Clip      *Path // optional
}

// Text is a shaped glyph run in a single font and size.
type Text struct {
	Font   *Font
	Size   float64 // font size in document units
	Glyphs []Glyph
	Text   string // source characters the glyph ranges index into
	Fill   Paint
	Stroke *FixedStroke // optional
}

// Glyph is one shaped glyph. Advances and offsets are normalized to
// font units per em.
type Glyph struct {
	ID       uint16
	XAdvance float64
	XOffset  float64
	// Start and End delimit the byte range of the source characters
	// this glyph renders, as indices into the run's Text.
	Start, End int
}

// Shape is a geometric primitive with optional fill and stroke.
type Shape struct {
	Geometry Geometry
	Fill     Paint // nil means no fill
	FillRule FillRule
	Stroke   *FixedStroke // optional
}

// Image places a raster or SVG image into a rectangle of the given size.
type Image struct {
	Kind ImageKind
	Size geo.Size
}

// Link attaches a destination to a rectangle of the given size.
type Link struct {
	Dest Destination
	Size geo.Size
}

// Tag records a semantic role for the following content. The renderer
// collects tags but emits no structure tree.
type Tag struct {
	Role string
}

func (*Group) frameItem() {}
func (*Text) frameItem()  {}
func (*Shape) frameItem() {}
func (*Image) frameItem() {}
func (*Link) frameItem()  {}
func (*Tag) frameItem()   {}

// Transform is the document model's 2D affine:
//
//	x' = Sx*x + Kx*y + Tx
//	y' = Ky*x + Sy*y + Ty
type Transform struct {
	Sx, Ky, Kx, Sy, Tx, Ty float64
}

// IdentityTransform returns the identity affine.
func IdentityTransform() Transform { return Transform{Sx: 1, Sy: 1} }

// Destination is a link target: a URL, a fixed position inside the
// document, or an externally resolved location.
type Destination interface{ destination() }

// URL points outside the document.
type URL string

// Position points at a page (1-based) and a point on it.
type Position struct {
	Page  int
	Point geo.Point
}

// Location is an opaque destination resolved by an external pass. A nil
// Resolved means the location could not be resolved.
type Location struct {
	Resolved *Position
}

func (URL) destination()       {}
func (Position) destination()  {}
func (*Location) destination() {}
