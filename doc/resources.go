package doc

import "github.com/srwiley/oksvg"

// Font carries the raw bytes of a font file and the face selection
// inside it. Fonts are compared by identity: the same *Font placed in
// many runs embeds once, two structurally equal fonts embed twice.
type Font struct {
	Data  []byte
	Index uint32
	// AllowVariations enables variable-font and advanced CFF handling
	// in the backend.
	AllowVariations bool
}

// ImageKind is either *Raster or *SVG.
type ImageKind interface{ imageKind() }

// RasterFormat tags the encoding of raster image bytes.
type RasterFormat uint8

const (
	PNG RasterFormat = iota
	JPG
	GIF
)

// Raster is an encoded raster image. Like fonts, rasters are decoded
// once per identity.
type Raster struct {
	Data   []byte
	Format RasterFormat
}

// SVG is a parsed SVG tree.
type SVG struct {
	Icon *oksvg.SvgIcon
	// FlattenText requests that embedded text be converted to outlines
	// rather than kept as text.
	FlattenText bool
}

func (*Raster) imageKind() {}
func (*SVG) imageKind()    {}
