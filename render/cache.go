package render

import (
	"fmt"

	"github.com/wudi/framepdf/doc"
	"github.com/wudi/framepdf/surface"
)

// resources memoizes backend handles per document. Keys are identities:
// the same *doc.Font or *doc.Raster resolves to the same handle, and
// each underlying resource is embedded exactly once.
type resources struct {
	backend surface.Backend
	fonts   map[*doc.Font]surface.Font
	images  map[*doc.Raster]surface.Image
}

func newResources(backend surface.Backend) *resources {
	return &resources{
		backend: backend,
		fonts:   make(map[*doc.Font]surface.Font),
		images:  make(map[*doc.Raster]surface.Image),
	}
}

// font returns the embedded-font handle for f, building it on first use.
func (r *resources) font(f *doc.Font) (surface.Font, error) {
	if h, ok := r.fonts[f]; ok {
		return h, nil
	}
	h, err := r.backend.NewFont(f.Data, f.Index, f.AllowVariations)
	if err != nil {
		return nil, fmt.Errorf("embed font: %w", err)
	}
	r.fonts[f] = h
	return h, nil
}

// raster returns the decoded-image handle for img, decoding on first use.
func (r *resources) raster(img *doc.Raster) (surface.Image, error) {
	if h, ok := r.images[img]; ok {
		return h, nil
	}
	h, err := r.backend.DecodeImage(img.Data, convertRasterFormat(img.Format))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	r.images[img] = h
	return h, nil
}

func convertRasterFormat(f doc.RasterFormat) surface.ImageFormat {
	switch f {
	case doc.JPG:
		return surface.FormatJPG
	case doc.GIF:
		return surface.FormatGIF
	default:
		return surface.FormatPNG
	}
}
