// Package render translates a laid-out document into a PDF byte stream
// by walking each page's frame tree and driving a surface backend.
package render

import (
	"errors"
	"fmt"

	"github.com/wudi/framepdf/doc"
	"github.com/wudi/framepdf/observability"
	"github.com/wudi/framepdf/surface"
	"github.com/wudi/framepdf/writer"
)

// Options configure a PDF rendering run.
type Options struct {
	// Backend produces the output. Defaults to the PDF writer backend.
	Backend surface.Backend
	// Settings are the document-level backend options.
	Settings surface.SerializeSettings
	// Logger receives progress and skip diagnostics. Defaults to a nop.
	Logger observability.Logger
}

// DefaultSettings mirror the export defaults: compressed binary output.
func DefaultSettings() surface.SerializeSettings {
	return surface.SerializeSettings{
		CompressContentStreams: true,
		Version:                surface.PDF17,
	}
}

// PDF renders the document into a PDF byte stream. Resource failures
// (font construction, image decoding) and backend finalize failures are
// fatal; degenerate geometry, unresolved locations, and unsupported
// paints are recovered locally.
func PDF(d *doc.Document, opts *Options) ([]byte, error) {
	if d == nil {
		return nil, errors.New("render: nil document")
	}
	var o Options
	if opts != nil {
		o = *opts
	}
	if o.Backend == nil {
		o.Backend = writer.New()
		if opts == nil {
			o.Settings = DefaultSettings()
		}
	}
	if o.Logger == nil {
		o.Logger = observability.NopLogger{}
	}

	ex := &exporter{
		res:  newResources(o.Backend),
		log:  o.Logger,
		tags: make(map[string]struct{}),
	}

	sdoc := o.Backend.NewDocument(o.Settings)
	for i, page := range d.Pages {
		if err := renderPage(sdoc, page, ex); err != nil {
			return nil, fmt.Errorf("page %d: %w", i+1, err)
		}
	}

	out, err := sdoc.Finish()
	if err != nil {
		return nil, fmt.Errorf("finalize document: %w", err)
	}
	ex.log.Debug("document rendered",
		observability.Int(observability.MetricPageCount, len(d.Pages)),
		observability.Int(observability.MetricFontEmbeds, len(ex.res.fonts)),
		observability.Int(observability.MetricImageDecodes, len(ex.res.images)),
		observability.Int(observability.MetricOutputBytes, len(out)))
	return out, nil
}

func renderPage(sdoc surface.Document, page *doc.Page, ex *exporter) error {
	settings := surface.PageSettings{
		Width:  page.Frame.Size.W,
		Height: page.Frame.Size.H,
	}
	p := sdoc.StartPage(settings)
	s := p.Surface()

	fc := NewFrameContext(page.Frame.Size)
	ex.annotations = ex.annotations[:0]
	if err := ex.processFrame(fc, page.Frame, page.Fill, s); err != nil {
		return err
	}
	s.Finish()
	for _, a := range ex.annotations {
		p.AddAnnotation(a)
	}
	p.Close()
	return nil
}
