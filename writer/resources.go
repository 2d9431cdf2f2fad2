package writer

import (
	"bytes"
	"sort"

	"github.com/wudi/framepdf/fonts"
	"github.com/wudi/framepdf/geo"
	"github.com/wudi/framepdf/surface"
)

// buildFont emits the Type0 font, its CID descendant, descriptor, font
// program, and ToUnicode CMap.
func (d *document) buildFont(t *objectTable, f *Font, st *fontState) (Ref, error) {
	pf := f.font

	fileDict := Dict{}
	fileStream, err := d.encodeStream(fileDict, pf.Data, false)
	if err != nil {
		return Ref{}, err
	}
	fileRef := t.add(fileStream)

	descriptor := Dict{
		"Type":        Name("FontDescriptor"),
		"FontName":    Name(pf.Name),
		"Flags":       Int(4), // non-symbolic
		"ItalicAngle": Real(pf.ItalicAngle),
		"Ascent":      Real(pf.Ascent),
		"Descent":     Real(-pf.Descent),
		"CapHeight":   Real(pf.CapHeight),
		"StemV":       Int(80),
		"FontBBox":    realArray(pf.BBox[0], pf.BBox[1], pf.BBox[2], pf.BBox[3]),
		"FontFile2":   fileRef,
	}
	descriptorRef := t.add(descriptor)

	descendant := Dict{
		"Type":     Name("Font"),
		"Subtype":  Name("CIDFontType2"),
		"BaseFont": Name(pf.Name),
		"CIDSystemInfo": Dict{
			"Registry":   Str("Adobe"),
			"Ordering":   Str("Identity"),
			"Supplement": Int(0),
		},
		"CIDToGIDMap":    Name("Identity"),
		"DW":             Int(pf.DefaultWidth),
		"W":              encodeCIDWidths(pf.Widths),
		"FontDescriptor": descriptorRef,
	}
	descendantRef := t.add(descendant)

	font := Dict{
		"Type":            Name("Font"),
		"Subtype":         Name("Type0"),
		"BaseFont":        Name(pf.Name),
		"Encoding":        Name("Identity-H"),
		"DescendantFonts": Array{descendantRef},
	}
	if cmap := fonts.ToUnicodeCMap(pf.Name, st.used); cmap != nil {
		cmapStream, err := d.encodeStream(Dict{}, cmap, true)
		if err != nil {
			return Ref{}, err
		}
		font["ToUnicode"] = t.add(cmapStream)
	}
	return t.add(font), nil
}

// encodeCIDWidths renders the W array as runs of consecutive glyph IDs.
func encodeCIDWidths(widths map[int]int) Array {
	gids := make([]int, 0, len(widths))
	for gid := range widths {
		gids = append(gids, gid)
	}
	sort.Ints(gids)

	var arr Array
	for i := 0; i < len(gids); {
		start := i
		for i+1 < len(gids) && gids[i+1] == gids[i]+1 {
			i++
		}
		run := make(Array, 0, i-start+1)
		for j := start; j <= i; j++ {
			run = append(run, Int(widths[gids[j]]))
		}
		arr = append(arr, Int(gids[start]), run)
		i++
	}
	return arr
}

func (d *document) colorSpace() Obj {
	// Device color spaces are promoted through the output intent when
	// NoDeviceCS is requested; samples stay RGB either way.
	return Name("DeviceRGB")
}

func (d *document) buildImage(t *objectTable, img *Image) (Ref, error) {
	dict := Dict{
		"Type":             Name("XObject"),
		"Subtype":          Name("Image"),
		"Width":            Int(img.width),
		"Height":           Int(img.height),
		"ColorSpace":       d.colorSpace(),
		"BitsPerComponent": Int(8),
	}
	if img.alpha != nil {
		maskDict := Dict{
			"Type":             Name("XObject"),
			"Subtype":          Name("Image"),
			"Width":            Int(img.width),
			"Height":           Int(img.height),
			"ColorSpace":       Name("DeviceGray"),
			"BitsPerComponent": Int(8),
		}
		maskStream, err := d.encodeStream(maskDict, img.alpha, false)
		if err != nil {
			return Ref{}, err
		}
		dict["SMask"] = t.add(maskStream)
	}
	stream, err := d.encodeStream(dict, img.rgb, false)
	if err != nil {
		return Ref{}, err
	}
	return t.add(stream), nil
}

// buildShadingPattern emits a type 2 (shading) pattern whose shading is
// an axial or radial blend over the gradient stops.
func (d *document) buildShadingPattern(t *objectTable, e *shadingEntry) Ref {
	var (
		stops  []surface.Stop
		coords Array
		kind   Int
	)
	if e.linear != nil {
		stops = e.linear.Stops
		kind = 2
		coords = realArray(e.linear.From.X, e.linear.From.Y, e.linear.To.X, e.linear.To.Y)
	} else {
		stops = e.radial.Stops
		kind = 3
		coords = realArray(e.radial.Center.X, e.radial.Center.Y, 0,
			e.radial.Center.X, e.radial.Center.Y, e.radial.Radius)
	}

	shading := Dict{
		"ShadingType": kind,
		"ColorSpace":  d.colorSpace(),
		"Coords":      coords,
		"Function":    d.buildStopFunction(t, stops),
		"Extend":      Array{Bool(true), Bool(true)},
	}
	pattern := Dict{
		"Type":        Name("Pattern"),
		"PatternType": Int(2),
		"Shading":     t.add(shading),
		"Matrix":      matrixArray(e.matrix),
	}
	return t.add(pattern)
}

// buildStopFunction builds an exponential function for two stops and a
// stitching function over per-segment exponentials otherwise.
func (d *document) buildStopFunction(t *objectTable, stops []surface.Stop) Ref {
	if len(stops) == 0 {
		stops = []surface.Stop{{}, {}}
	}
	if len(stops) == 1 {
		stops = append(stops, stops[0])
	}
	segment := func(a, b surface.Stop) Dict {
		return Dict{
			"FunctionType": Int(2),
			"Domain":       realArray(0, 1),
			"C0":           colorArray(a.Color),
			"C1":           colorArray(b.Color),
			"N":            Int(1),
		}
	}
	if len(stops) == 2 {
		return t.add(segment(stops[0], stops[1]))
	}

	funcs := make(Array, 0, len(stops)-1)
	var bounds, encode Array
	for i := 0; i+1 < len(stops); i++ {
		funcs = append(funcs, t.add(segment(stops[i], stops[i+1])))
		if i > 0 {
			bounds = append(bounds, Real(stops[i].Offset))
		}
		encode = append(encode, Int(0), Int(1))
	}
	return t.add(Dict{
		"FunctionType": Int(3),
		"Domain":       realArray(0, 1),
		"Functions":    funcs,
		"Bounds":       bounds,
		"Encode":       encode,
	})
}

func (d *document) buildTilingPattern(t *objectTable, e *tilingEntry, resources Ref) (Ref, error) {
	dict := Dict{
		"Type":        Name("Pattern"),
		"PatternType": Int(1),
		"PaintType":   Int(1),
		"TilingType":  Int(1),
		"BBox":        realArray(0, 0, e.size.W, e.size.H),
		"XStep":       Real(e.size.W + e.spacing.W),
		"YStep":       Real(e.size.H + e.spacing.H),
		"Matrix":      matrixArray(e.matrix),
		"Resources":   resources,
	}
	stream, err := d.encodeStream(dict, e.content, true)
	if err != nil {
		return Ref{}, err
	}
	return t.add(stream), nil
}

func matrixArray(m geo.Matrix) Array {
	return realArray(m[0], m[1], m[2], m[3], m[4], m[5])
}

func colorArray(c surface.Color) Array {
	return realArray(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}

// xmpStream renders a minimal deterministic XMP packet. No dates are
// emitted so identical inputs serialize identically.
func (d *document) xmpStream() *Stream {
	var b bytes.Buffer
	b.WriteString(`<?xpacket begin="` + "\xEF\xBB\xBF" + `" id="W5M0MpCehiHzreSzNTczkc9d"?>` + "\n")
	b.WriteString("<x:xmpmeta xmlns:x=\"adobe:ns:meta/\">\n")
	b.WriteString(" <rdf:RDF xmlns:rdf=\"http://www.w3.org/1999/02/22-rdf-syntax-ns#\">\n")
	b.WriteString("  <rdf:Description rdf:about=\"\" xmlns:pdf=\"http://ns.adobe.com/pdf/1.3/\" pdf:Producer=\"framepdf\"/>\n")
	switch d.settings.Validator {
	case surface.ValidatorPDFA1:
		b.WriteString("  <rdf:Description rdf:about=\"\" xmlns:pdfaid=\"http://www.aiim.org/pdfa/ns/id/\" pdfaid:part=\"1\" pdfaid:conformance=\"B\"/>\n")
	case surface.ValidatorPDFA2:
		b.WriteString("  <rdf:Description rdf:about=\"\" xmlns:pdfaid=\"http://www.aiim.org/pdfa/ns/id/\" pdfaid:part=\"2\" pdfaid:conformance=\"B\"/>\n")
	}
	b.WriteString(" </rdf:RDF>\n</x:xmpmeta>\n")
	b.WriteString(`<?xpacket end="w"?>`)
	return &Stream{
		Dict: Dict{"Type": Name("Metadata"), "Subtype": Name("XML")},
		Data: b.Bytes(),
	}
}

// outputIntent emits the ICC output intent when device color spaces are
// forbidden or a conformance level is requested. Without a profile no
// intent can be built.
func (d *document) outputIntent(t *objectTable) *Ref {
	if !d.settings.NoDeviceCS && d.settings.Validator == surface.ValidatorNone {
		return nil
	}
	if len(d.settings.CMYKProfile) == 0 {
		return nil
	}
	profileStream, err := d.encodeStream(Dict{"N": Int(4)}, d.settings.CMYKProfile, false)
	if err != nil {
		return nil
	}
	ref := t.add(Dict{
		"Type":                      Name("OutputIntent"),
		"S":                         Name("GTS_PDFA1"),
		"OutputConditionIdentifier": Str("Custom"),
		"DestOutputProfile":         t.add(profileStream),
	})
	return &ref
}
