package writer

import (
	"errors"
	"fmt"

	"github.com/wudi/framepdf/filters"
	"github.com/wudi/framepdf/geo"
	"github.com/wudi/framepdf/surface"
)

type document struct {
	settings surface.SerializeSettings
	pages    []*page
	open     *page

	fontStates map[*Font]*fontState
	fontOrder  []*Font
	imageNames map[*Image]string
	imageOrder []*Image
	extgNames  map[extgKey]string
	extgOrder  []extgKey
	shadeNames map[string]string
	shadings   []*shadingEntry
	tilings    []*tilingEntry
	patterns   int

	err error
}

// fontState tracks the resource name and the glyph-to-text mapping of
// one embedded font.
type fontState struct {
	name string
	used map[int]string
}

type extgKey struct {
	fill, stroke float64 // -1 when unset
}

type shadingEntry struct {
	name   string
	matrix geo.Matrix
	linear *surface.LinearGradient
	radial *surface.RadialGradient
}

type tilingEntry struct {
	name    string
	matrix  geo.Matrix
	size    geo.Size
	spacing geo.Size
	content []byte
}

func newDocument(settings surface.SerializeSettings) *document {
	return &document{
		settings:   settings,
		fontStates: make(map[*Font]*fontState),
		imageNames: make(map[*Image]string),
		extgNames:  make(map[extgKey]string),
		shadeNames: make(map[string]string),
	}
}

func (d *document) StartPage(settings surface.PageSettings) surface.Page {
	if d.open != nil {
		d.fail(errors.New("writer: previous page not closed"))
	}
	p := newPage(d, settings.Width, settings.Height)
	d.pages = append(d.pages, p)
	d.open = p
	return p
}

func (d *document) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

// ensureFont interns a font handle into the document resources.
func (d *document) ensureFont(f *Font) *fontState {
	if st, ok := d.fontStates[f]; ok {
		return st
	}
	st := &fontState{
		name: fmt.Sprintf("F%d", len(d.fontOrder)+1),
		used: make(map[int]string),
	}
	d.fontStates[f] = st
	d.fontOrder = append(d.fontOrder, f)
	return st
}

func (d *document) ensureImage(img *Image) string {
	if name, ok := d.imageNames[img]; ok {
		return name
	}
	name := fmt.Sprintf("Im%d", len(d.imageOrder)+1)
	d.imageNames[img] = name
	d.imageOrder = append(d.imageOrder, img)
	return name
}

func (d *document) ensureExtGState(key extgKey) string {
	if name, ok := d.extgNames[key]; ok {
		return name
	}
	name := fmt.Sprintf("GS%d", len(d.extgOrder)+1)
	d.extgNames[key] = name
	d.extgOrder = append(d.extgOrder, key)
	return name
}

func (d *document) nextPatternName() string {
	d.patterns++
	return fmt.Sprintf("P%d", d.patterns)
}

// ensureShading interns a gradient, deduplicated by value so repeated
// uses of the same gradient share one pattern object.
func (d *document) ensureShading(e *shadingEntry) string {
	var key string
	if e.linear != nil {
		key = fmt.Sprintf("L%v|%v|%v|%v", e.matrix, e.linear.From, e.linear.To, e.linear.Stops)
	} else {
		key = fmt.Sprintf("R%v|%v|%v|%v", e.matrix, e.radial.Center, e.radial.Radius, e.radial.Stops)
	}
	if name, ok := d.shadeNames[key]; ok {
		return name
	}
	e.name = d.nextPatternName()
	d.shadeNames[key] = e.name
	d.shadings = append(d.shadings, e)
	return e.name
}

func (d *document) addTiling(e *tilingEntry) string {
	e.name = d.nextPatternName()
	d.tilings = append(d.tilings, e)
	return e.name
}

// streamEncoders picks the encoder chain for a stream. Binary resource
// streams are always compressed; content streams follow the settings.
func (d *document) streamEncoders(content bool) []filters.Encoder {
	var enc []filters.Encoder
	if !content || d.settings.CompressContentStreams {
		enc = append(enc, filters.Flate{})
	}
	if d.settings.ASCIICompatible {
		enc = append(enc, filters.ASCIIHex{})
	}
	return enc
}

// encodeStream applies the encoder chain and records the filter names.
func (d *document) encodeStream(dict Dict, data []byte, content bool) (*Stream, error) {
	out, names, err := filters.Chain(data, d.streamEncoders(content)...)
	if err != nil {
		return nil, err
	}
	switch len(names) {
	case 0:
	case 1:
		dict["Filter"] = Name(names[0])
	default:
		arr := make(Array, len(names))
		for i, n := range names {
			arr[i] = Name(n)
		}
		dict["Filter"] = arr
	}
	return &Stream{Dict: dict, Data: out}, nil
}

// version resolves the targeted PDF version under the validator caps.
func (d *document) version() surface.Version {
	v := d.settings.Version
	switch d.settings.Validator {
	case surface.ValidatorPDFA1:
		if v > surface.PDF14 {
			v = surface.PDF14
		}
	case surface.ValidatorPDFA2:
		if v > surface.PDF17 {
			v = surface.PDF17
		}
	}
	return v
}

func (d *document) Finish() ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	if d.open != nil {
		return nil, errors.New("writer: document finished with an open page")
	}

	emitXMP := d.settings.XMPMetadata || d.settings.Validator != surface.ValidatorNone

	t := &objectTable{}
	catalogRef := t.alloc()
	pagesRef := t.alloc()
	pageRefs := make([]Ref, len(d.pages))
	for i := range d.pages {
		pageRefs[i] = t.alloc()
	}

	catalog := Dict{
		"Type":  Name("Catalog"),
		"Pages": pagesRef,
	}
	if emitXMP {
		catalog["Metadata"] = t.add(d.xmpStream())
	}
	if intent := d.outputIntent(t); intent != nil {
		catalog["OutputIntents"] = Array{*intent}
	}
	if d.settings.EnableTagging {
		catalog["MarkInfo"] = Dict{"Marked": Bool(true)}
	}

	resourcesRef, err := d.buildResources(t)
	if err != nil {
		return nil, err
	}

	for i, p := range d.pages {
		pageDict, err := p.build(t, d, pagesRef, resourcesRef, pageRefs)
		if err != nil {
			return nil, err
		}
		t.set(pageRefs[i], pageDict)
	}

	kids := make(Array, len(pageRefs))
	for i, ref := range pageRefs {
		kids[i] = ref
	}
	t.set(pagesRef, Dict{
		"Type":  Name("Pages"),
		"Count": Int(len(pageRefs)),
		"Kids":  kids,
	})
	t.set(catalogRef, catalog)

	return t.serialize(d.version().String(), d.settings.ASCIICompatible, catalogRef), nil
}

// buildResources emits every interned resource and returns the shared
// resource dictionary all pages and pattern streams reference. The
// reference is allocated up front because tiling pattern streams refer
// back to it.
func (d *document) buildResources(t *objectTable) (Ref, error) {
	resRef := t.alloc()
	res := Dict{}

	if len(d.fontOrder) > 0 {
		fontsDict := Dict{}
		for _, f := range d.fontOrder {
			st := d.fontStates[f]
			ref, err := d.buildFont(t, f, st)
			if err != nil {
				return Ref{}, err
			}
			fontsDict[st.name] = ref
		}
		res["Font"] = fontsDict
	}

	if len(d.imageOrder) > 0 {
		xobjects := Dict{}
		for _, img := range d.imageOrder {
			ref, err := d.buildImage(t, img)
			if err != nil {
				return Ref{}, err
			}
			xobjects[d.imageNames[img]] = ref
		}
		res["XObject"] = xobjects
	}

	if len(d.extgOrder) > 0 {
		extg := Dict{}
		for _, key := range d.extgOrder {
			entry := Dict{"Type": Name("ExtGState")}
			if key.fill >= 0 {
				entry["ca"] = Real(key.fill)
			}
			if key.stroke >= 0 {
				entry["CA"] = Real(key.stroke)
			}
			extg[d.extgNames[key]] = entry
		}
		res["ExtGState"] = extg
	}

	if len(d.shadings) > 0 || len(d.tilings) > 0 {
		patterns := Dict{}
		for _, e := range d.shadings {
			patterns[e.name] = d.buildShadingPattern(t, e)
		}
		for _, e := range d.tilings {
			ref, err := d.buildTilingPattern(t, e, resRef)
			if err != nil {
				return Ref{}, err
			}
			patterns[e.name] = ref
		}
		res["Pattern"] = patterns
	}

	t.set(resRef, res)
	return resRef, nil
}
