package writer

import (
	"errors"

	"github.com/wudi/framepdf/surface"
)

// page buffers one page's surface and annotations until Finish.
type page struct {
	doc           *document
	width, height float64
	surf          *psurface
	annots        []surface.Annotation
}

func newPage(d *document, width, height float64) *page {
	return &page{
		doc:    d,
		width:  width,
		height: height,
		surf:   newSurface(d, height),
	}
}

func (p *page) Surface() surface.Surface { return p.surf }

func (p *page) AddAnnotation(a surface.Annotation) {
	p.annots = append(p.annots, a)
}

func (p *page) Close() {
	if !p.surf.finished {
		p.doc.fail(errors.New("writer: page closed before its surface finished"))
	}
	p.doc.open = nil
}

// build emits the page's content stream and annotations and returns the
// page dictionary. Annotation rectangles arrive in top-left document
// coordinates and flip into PDF's bottom-left space here.
func (p *page) build(t *objectTable, d *document, pagesRef, resourcesRef Ref, pageRefs []Ref) (Dict, error) {
	stream, err := d.encodeStream(Dict{}, p.surf.content.Bytes(), true)
	if err != nil {
		return nil, err
	}
	contentRef := t.add(stream)

	dict := Dict{
		"Type":      Name("Page"),
		"Parent":    pagesRef,
		"MediaBox":  realArray(0, 0, p.width, p.height),
		"Contents":  contentRef,
		"Resources": resourcesRef,
	}

	var annots Array
	for _, a := range p.annots {
		entry := Dict{
			"Type":    Name("Annot"),
			"Subtype": Name("Link"),
			"Rect":    realArray(a.Rect.X0, p.height-a.Rect.Y1, a.Rect.X1, p.height-a.Rect.Y0),
			"Border":  Array{Int(0), Int(0), Int(0)},
		}
		switch tgt := a.Target.(type) {
		case surface.Action:
			entry["A"] = Dict{
				"Type": Name("Action"),
				"S":    Name("URI"),
				"URI":  Str(tgt.URL),
			}
		case surface.Destination:
			if tgt.PageIndex < 0 || tgt.PageIndex >= len(pageRefs) {
				continue
			}
			destH := d.pages[tgt.PageIndex].height
			entry["Dest"] = Array{
				pageRefs[tgt.PageIndex],
				Name("XYZ"),
				Real(tgt.Point.X),
				Real(destH - tgt.Point.Y),
				Null{},
			}
		default:
			continue
		}
		annots = append(annots, t.add(entry))
	}
	if len(annots) > 0 {
		dict["Annots"] = annots
	}
	return dict, nil
}
