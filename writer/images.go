package writer

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"

	"github.com/wudi/framepdf/surface"
)

func decodeRaster(data []byte, format surface.ImageFormat) (*Image, error) {
	var (
		src image.Image
		err error
	)
	r := bytes.NewReader(data)
	switch format {
	case surface.FormatPNG:
		src, err = png.Decode(r)
	case surface.FormatJPG:
		src, err = jpeg.Decode(r)
	case surface.FormatGIF:
		src, err = gif.Decode(r)
	default:
		return nil, fmt.Errorf("unknown raster format %d", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}
	return fromImage(src), nil
}

// fromImage splits a decoded image into non-premultiplied RGB samples
// and, when any pixel is translucent, a separate alpha channel.
func fromImage(src image.Image) *Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	nrgba := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(nrgba, nrgba.Bounds(), src, bounds.Min, draw.Src)

	rgb := make([]byte, 0, w*h*3)
	alpha := make([]byte, 0, w*h)
	hasAlpha := false
	for i := 0; i < w*h; i++ {
		off := i * 4
		rgb = append(rgb, nrgba.Pix[off], nrgba.Pix[off+1], nrgba.Pix[off+2])
		a := nrgba.Pix[off+3]
		alpha = append(alpha, a)
		if a < 255 {
			hasAlpha = true
		}
	}

	img := &Image{width: w, height: h, rgb: rgb}
	if hasAlpha {
		img.alpha = alpha
	}
	return img
}
