package writer

import (
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/wudi/framepdf/geo"
)

// svgPixelDensity is the rasterization density in pixels per document
// unit. SVG trees are flattened to pixels; the EmbedText setting cannot
// be honored by this backend.
const svgPixelDensity = 2.0

// rasterizeSVG renders the SVG tree into an RGBA image covering size.
func rasterizeSVG(icon *oksvg.SvgIcon, size geo.Size) *Image {
	w := int(math.Ceil(size.W * svgPixelDensity))
	h := int(math.Ceil(size.H * svgPixelDensity))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	return fromImage(rgba)
}
