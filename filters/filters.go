// Package filters implements the stream encoders the writer applies to
// content streams and embedded resources.
package filters

import (
	"bytes"
	"compress/zlib"
	"encoding/hex"
	"fmt"
)

// Encoder transforms stream data and names the matching decode filter.
type Encoder interface {
	Name() string
	Encode(data []byte) ([]byte, error)
}

// Flate compresses with zlib as required by FlateDecode.
type Flate struct {
	// Level is a compress/flate level; zero means the default.
	Level int
}

func (Flate) Name() string { return "FlateDecode" }

func (f Flate) Encode(data []byte) ([]byte, error) {
	level := f.Level
	if level == 0 {
		level = zlib.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("flate encode: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("flate encode: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("flate encode: %w", err)
	}
	return buf.Bytes(), nil
}

// ASCIIHex renders data as hexadecimal with the EOD marker, keeping the
// stream 7-bit clean.
type ASCIIHex struct{}

func (ASCIIHex) Name() string { return "ASCIIHexDecode" }

func (ASCIIHex) Encode(data []byte) ([]byte, error) {
	dst := make([]byte, hex.EncodedLen(len(data)), hex.EncodedLen(len(data))+1)
	hex.Encode(dst, data)
	return append(dst, '>'), nil
}

// Chain applies encoders in order and returns the transformed data with
// the decode filter names in the order a reader must apply them (the
// reverse of encoding order).
func Chain(data []byte, encoders ...Encoder) ([]byte, []string, error) {
	names := make([]string, 0, len(encoders))
	for _, e := range encoders {
		out, err := e.Encode(data)
		if err != nil {
			return nil, nil, err
		}
		data = out
		names = append([]string{e.Name()}, names...)
	}
	return data, names, nil
}
