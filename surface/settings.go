package surface

// Version is the targeted PDF version.
type Version uint8

const (
	PDF14 Version = iota
	PDF15
	PDF16
	PDF17
	PDF20
)

// String returns the version as it appears in the file header.
func (v Version) String() string {
	switch v {
	case PDF14:
		return "1.4"
	case PDF15:
		return "1.5"
	case PDF16:
		return "1.6"
	case PDF20:
		return "2.0"
	default:
		return "1.7"
	}
}

// Validator selects a conformance level the backend enforces.
type Validator uint8

const (
	ValidatorNone Validator = iota
	ValidatorPDFA1
	ValidatorPDFA2
)

// SerializeSettings are the document-level backend options.
type SerializeSettings struct {
	// CompressContentStreams flate-compresses page content streams.
	CompressContentStreams bool
	// ASCIICompatible restricts non-binary streams to 7-bit bytes.
	ASCIICompatible bool
	// XMPMetadata emits an XMP packet.
	XMPMetadata bool
	// NoDeviceCS forbids device color spaces; colors are promoted to
	// ICC-based spaces through an output intent.
	NoDeviceCS bool
	// CMYKProfile is the ICC profile used when CMYK colors appear.
	CMYKProfile []byte
	// Validator is the conformance level to enforce.
	Validator Validator
	// EnableTagging allows tag-tree emission.
	EnableTagging bool
	// Version is the targeted PDF version.
	Version Version
}
