package writer

import (
	"bytes"
	"sort"
	"strconv"

	"github.com/wudi/framepdf/contentstream"
)

// Ref identifies an indirect object.
type Ref struct {
	Num, Gen int
}

// Obj is a PDF object value.
type Obj interface {
	writeTo(buf *bytes.Buffer)
}

// Name is a PDF name. Delimiter and non-printable bytes are #-escaped.
type Name string

// Int is an integer number.
type Int int64

// Real is a real number, serialized in shortest decimal form.
type Real float64

// Str is a literal string.
type Str []byte

// Bool is a boolean.
type Bool bool

// Array is an ordered object list.
type Array []Obj

// Dict is a dictionary, serialized with sorted keys for determinism.
type Dict map[string]Obj

// Stream pairs a dictionary with raw stream data. Length is filled in
// during serialization.
type Stream struct {
	Dict Dict
	Data []byte
}

func (r Ref) writeTo(buf *bytes.Buffer) {
	buf.WriteString(strconv.Itoa(r.Num))
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(r.Gen))
	buf.WriteString(" R")
}

func (n Name) writeTo(buf *bytes.Buffer) {
	buf.WriteByte('/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		regular := c > 0x20 && c < 0x7f &&
			c != '/' && c != '#' && c != '(' && c != ')' &&
			c != '<' && c != '>' && c != '[' && c != ']' &&
			c != '{' && c != '}' && c != '%'
		if regular {
			buf.WriteByte(c)
			continue
		}
		buf.WriteByte('#')
		const hexdigits = "0123456789ABCDEF"
		buf.WriteByte(hexdigits[c>>4])
		buf.WriteByte(hexdigits[c&0xf])
	}
}

func (i Int) writeTo(buf *bytes.Buffer) {
	buf.WriteString(strconv.FormatInt(int64(i), 10))
}

func (r Real) writeTo(buf *bytes.Buffer) {
	buf.WriteString(contentstream.FormatNumber(float64(r)))
}

func (s Str) writeTo(buf *bytes.Buffer) {
	buf.Write(contentstream.EscapeString(s))
}

func (b Bool) writeTo(buf *bytes.Buffer) {
	if b {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
}

// Null is the PDF null object.
type Null struct{}

func (Null) writeTo(buf *bytes.Buffer) {
	buf.WriteString("null")
}

func (a Array) writeTo(buf *bytes.Buffer) {
	buf.WriteByte('[')
	for i, it := range a {
		if i > 0 {
			buf.WriteByte(' ')
		}
		it.writeTo(buf)
	}
	buf.WriteByte(']')
}

func (d Dict) writeTo(buf *bytes.Buffer) {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	buf.WriteString("<<")
	for _, k := range keys {
		Name(k).writeTo(buf)
		buf.WriteByte(' ')
		d[k].writeTo(buf)
	}
	buf.WriteString(">>")
}

func (s *Stream) writeTo(buf *bytes.Buffer) {
	d := Dict{}
	for k, v := range s.Dict {
		d[k] = v
	}
	d["Length"] = Int(len(s.Data))
	d.writeTo(buf)
	buf.WriteString("\nstream\n")
	buf.Write(s.Data)
	buf.WriteString("\nendstream")
}

// realArray converts a float slice into an Array of Real values.
func realArray(vals ...float64) Array {
	arr := make(Array, len(vals))
	for i, v := range vals {
		arr[i] = Real(v)
	}
	return arr
}

// objectTable allocates indirect object numbers and remembers objects
// in allocation order.
type objectTable struct {
	refs []Ref
	objs []Obj
}

func (t *objectTable) alloc() Ref {
	ref := Ref{Num: len(t.refs) + 1}
	t.refs = append(t.refs, ref)
	t.objs = append(t.objs, nil)
	return ref
}

func (t *objectTable) set(ref Ref, obj Obj) {
	t.objs[ref.Num-1] = obj
}

func (t *objectTable) add(obj Obj) Ref {
	ref := t.alloc()
	t.set(ref, obj)
	return ref
}

// serialize writes the header, body, xref table, and trailer.
func (t *objectTable) serialize(version string, asciiOnly bool, root Ref) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-")
	buf.WriteString(version)
	buf.WriteByte('\n')
	if !asciiOnly {
		// Binary comment so transfer tools treat the file as binary.
		buf.WriteString("%\xE2\xE3\xCF\xD3\n")
	}

	offsets := make([]int, len(t.refs))
	for i, ref := range t.refs {
		offsets[i] = buf.Len()
		buf.WriteString(strconv.Itoa(ref.Num))
		buf.WriteString(" 0 obj\n")
		t.objs[i].writeTo(&buf)
		buf.WriteString("\nendobj\n")
	}

	xref := buf.Len()
	buf.WriteString("xref\n0 ")
	buf.WriteString(strconv.Itoa(len(t.refs) + 1))
	buf.WriteByte('\n')
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		s := strconv.Itoa(off)
		for len(s) < 10 {
			s = "0" + s
		}
		buf.WriteString(s)
		buf.WriteString(" 00000 n \n")
	}

	trailer := Dict{
		"Size": Int(len(t.refs) + 1),
		"Root": root,
	}
	buf.WriteString("trailer\n")
	trailer.writeTo(&buf)
	buf.WriteString("\nstartxref\n")
	buf.WriteString(strconv.Itoa(xref))
	buf.WriteString("\n%%EOF\n")
	return buf.Bytes()
}
