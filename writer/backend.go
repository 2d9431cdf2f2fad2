// Package writer is the PDF-producing surface backend. It accumulates
// page content streams through the surface interface and serializes a
// classic cross-reference PDF on finish. Output is deterministic: the
// same drawing calls with the same settings produce identical bytes.
package writer

import (
	"fmt"

	"github.com/wudi/framepdf/fonts"
	"github.com/wudi/framepdf/surface"
)

// Backend implements surface.Backend.
type Backend struct{}

// New returns the PDF writer backend.
func New() *Backend { return &Backend{} }

// NewDocument starts an empty document with the given settings.
func (*Backend) NewDocument(settings surface.SerializeSettings) surface.Document {
	return newDocument(settings)
}

// NewFont parses the face at index out of raw font bytes.
func (*Backend) NewFont(data []byte, index uint32, allowVariations bool) (surface.Font, error) {
	f, err := fonts.Parse(data, index, allowVariations)
	if err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}
	return &Font{font: f}, nil
}

// DecodeImage decodes raster bytes into an embeddable image.
func (*Backend) DecodeImage(data []byte, format surface.ImageFormat) (surface.Image, error) {
	img, err := decodeRaster(data, format)
	if err != nil {
		return nil, fmt.Errorf("writer: %w", err)
	}
	return img, nil
}

// Font is the writer's embedded-font handle.
type Font struct {
	font *fonts.Font
}

func (*Font) IsFont() {}

// Image is the writer's decoded-image handle: 8-bit RGB samples plus an
// optional alpha channel that becomes a soft mask.
type Image struct {
	width, height int
	rgb           []byte
	alpha         []byte // nil when fully opaque
}

func (*Image) IsImage() {}
