// Package fonts parses font files and prepares the metrics the writer
// needs to embed them as Type0 fonts with Identity-H encoding. The full
// font program is embedded; no subsetting is performed.
package fonts

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	gofont "github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Font is a parsed font ready for embedding.
type Font struct {
	Data  []byte
	Index uint32
	// AllowVariations enables variable-font and advanced CFF features
	// when shaping against this face.
	AllowVariations bool

	Name        string // PostScript name
	UnitsPerEm  int
	Ascent      float64 // 1/1000 em
	Descent     float64
	CapHeight   float64
	ItalicAngle float64
	BBox        [4]float64
	// Widths maps glyph IDs to advances in 1/1000 em.
	Widths       map[int]int
	DefaultWidth int

	face *gofont.Face
}

// Face exposes the shaping face for callers that need it.
func (f *Font) Face() *gofont.Face { return f.face }

// Parse reads the face at the given index out of raw font bytes and
// extracts embedding metrics.
func Parse(data []byte, index uint32, allowVariations bool) (*Font, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("font data is empty")
	}

	face, err := parseFace(data, index)
	if err != nil {
		return nil, err
	}
	sf, err := parseSfnt(data, index)
	if err != nil {
		return nil, err
	}

	unitsPerEm := sf.UnitsPerEm()
	if unitsPerEm == 0 {
		return nil, fmt.Errorf("invalid unitsPerEm")
	}
	buf := &sfnt.Buffer{}
	ppem := fixed.Int26_6(unitsPerEm << 6)

	name := "Embedded"
	if ps, _ := sf.Name(buf, sfnt.NameIDPostScript); len(ps) > 0 {
		name = sanitizeName(ps)
	}

	widths := glyphWidths(sf, buf, unitsPerEm, ppem)
	defaultWidth := widths[0]
	if defaultWidth == 0 {
		defaultWidth = 1000
	}

	metrics, _ := sf.Metrics(buf, ppem, xfont.HintingNone)
	bounds, _ := sf.Bounds(buf, ppem, xfont.HintingNone)

	return &Font{
		Data:            data,
		Index:           index,
		AllowVariations: allowVariations,
		Name:            name,
		UnitsPerEm:      int(unitsPerEm),
		Ascent:          scaleFixed(metrics.Ascent, unitsPerEm),
		Descent:         -scaleFixed(metrics.Descent, unitsPerEm),
		CapHeight:       scaleFixed(metrics.CapHeight, unitsPerEm),
		ItalicAngle:     italicAngle(sf),
		BBox: [4]float64{
			scaleFixed(bounds.Min.X, unitsPerEm),
			scaleFixed(bounds.Min.Y, unitsPerEm),
			scaleFixed(bounds.Max.X, unitsPerEm),
			scaleFixed(bounds.Max.Y, unitsPerEm),
		},
		Widths:       widths,
		DefaultWidth: defaultWidth,
		face:         face,
	}, nil
}

func parseFace(data []byte, index uint32) (*gofont.Face, error) {
	r := bytes.NewReader(data)
	if index == 0 {
		face, err := gofont.ParseTTF(r)
		if err != nil {
			return nil, fmt.Errorf("parse font face: %w", err)
		}
		return face, nil
	}
	faces, err := gofont.ParseTTC(r)
	if err != nil {
		return nil, fmt.Errorf("parse font collection: %w", err)
	}
	if int(index) >= len(faces) {
		return nil, fmt.Errorf("face index %d out of range (%d faces)", index, len(faces))
	}
	return faces[index], nil
}

func parseSfnt(data []byte, index uint32) (*sfnt.Font, error) {
	if index == 0 {
		sf, err := sfnt.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse sfnt: %w", err)
		}
		return sf, nil
	}
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse sfnt collection: %w", err)
	}
	if int(index) >= coll.NumFonts() {
		return nil, fmt.Errorf("face index %d out of range (%d faces)", index, coll.NumFonts())
	}
	sf, err := coll.Font(int(index))
	if err != nil {
		return nil, fmt.Errorf("select face %d: %w", index, err)
	}
	return sf, nil
}

func glyphWidths(sf *sfnt.Font, buf *sfnt.Buffer, unitsPerEm sfnt.Units, ppem fixed.Int26_6) map[int]int {
	n := sf.NumGlyphs()
	widths := make(map[int]int, n)
	for i := 0; i < n; i++ {
		adv, err := sf.GlyphAdvance(buf, sfnt.GlyphIndex(i), ppem, xfont.HintingNone)
		if err != nil {
			continue
		}
		widths[i] = int(math.Round(scaleFixed(adv, unitsPerEm)))
	}
	return widths
}

func italicAngle(sf *sfnt.Font) float64 {
	post := sf.PostTable()
	if post == nil {
		return 0
	}
	return post.ItalicAngle
}

func scaleFixed(val fixed.Int26_6, unitsPerEm sfnt.Units) float64 {
	return float64(val) * 1000.0 / (64.0 * float64(unitsPerEm))
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	for _, r := range name {
		if r > 0x20 && r < 0x7f && r != '/' && r != '(' && r != ')' && r != '<' && r != '>' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "Embedded"
	}
	return b.String()
}
