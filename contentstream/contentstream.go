// Package contentstream builds PDF page content streams as typed
// operation lists and serializes them deterministically.
package contentstream

import (
	"bytes"
	"encoding/hex"
	"strconv"
)

// Operand is a typed operand value.
type Operand interface{ operand() }

// Number is a numeric operand.
type Number float64

// Name is a name operand, serialized with a leading slash.
type Name string

// Str is a literal string operand.
type Str []byte

// Hex is a hexadecimal string operand, used for glyph codes.
type Hex []byte

// Array is an array operand.
type Array []Operand

func (Number) operand() {}
func (Name) operand()   {}
func (Str) operand()    {}
func (Hex) operand()    {}
func (Array) operand()  {}

// Operation is a PDF operator with its operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Content accumulates operations for one stream.
type Content struct {
	ops []Operation
}

// Op appends an operation.
func (c *Content) Op(operator string, operands ...Operand) {
	c.ops = append(c.ops, Operation{Operator: operator, Operands: operands})
}

// Len returns the number of accumulated operations.
func (c *Content) Len() int { return len(c.ops) }

// Operations exposes the accumulated operations.
func (c *Content) Operations() []Operation { return c.ops }

// Bytes serializes the operations. The encoding is deterministic: the
// same operations always produce the same bytes.
func (c *Content) Bytes() []byte {
	if len(c.ops) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for _, op := range c.ops {
		for i, operand := range op.Operands {
			if i > 0 {
				buf.WriteByte(' ')
			}
			writeOperand(&buf, operand)
		}
		if len(op.Operands) > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func writeOperand(buf *bytes.Buffer, op Operand) {
	switch v := op.(type) {
	case Number:
		buf.WriteString(FormatNumber(float64(v)))
	case Name:
		buf.WriteByte('/')
		buf.WriteString(string(v))
	case Str:
		buf.Write(EscapeString(v))
	case Hex:
		buf.WriteByte('<')
		dst := make([]byte, hex.EncodedLen(len(v)))
		hex.Encode(dst, v)
		buf.Write(bytes.ToUpper(dst))
		buf.WriteByte('>')
	case Array:
		buf.WriteByte('[')
		for i, it := range v {
			if i > 0 {
				buf.WriteByte(' ')
			}
			writeOperand(buf, it)
		}
		buf.WriteByte(']')
	default:
		buf.WriteString("null")
	}
}

// FormatNumber renders a number in the shortest decimal form PDF
// accepts: no exponent, no trailing zeros.
func FormatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// EscapeString renders a PDF literal string with backslash escapes;
// bytes outside printable ASCII use octal escapes.
func EscapeString(raw []byte) []byte {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, ch := range raw {
		switch ch {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(ch)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		default:
			if ch < 0x20 || ch >= 0x80 {
				b.WriteByte('\\')
				b.WriteString(pad3(strconv.FormatUint(uint64(ch), 8)))
			} else {
				b.WriteByte(ch)
			}
		}
	}
	b.WriteByte(')')
	return b.Bytes()
}

func pad3(s string) string {
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
