package contentstream

import (
	"bytes"
	"testing"
)

func TestBytesSerializesOperations(t *testing.T) {
	var c Content
	c.Op("q")
	c.Op("cm", Number(1), Number(0), Number(0), Number(1), Number(10.5), Number(15))
	c.Op("Tf", Name("F1"), Number(12))
	c.Op("Tj", Hex([]byte{0x00, 0x41}))
	c.Op("TJ", Array{Hex([]byte{0x00, 0x42}), Number(-120)})
	c.Op("Q")

	want := "q\n1 0 0 1 10.5 15 cm\n/F1 12 Tf\n<0041> Tj\n[<0042> -120] TJ\nQ\n"
	if got := string(c.Bytes()); got != want {
		t.Fatalf("serialized = %q, want %q", got, want)
	}
}

func TestBytesEmpty(t *testing.T) {
	var c Content
	if b := c.Bytes(); b != nil {
		t.Fatalf("empty content produced bytes: %q", b)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{12, "12"},
		{-3, "-3"},
		{0.5, "0.5"},
		{10.25, "10.25"},
		{100000000, "100000000"},
	}
	for _, c := range cases {
		if got := FormatNumber(c.in); got != c.want {
			t.Fatalf("FormatNumber(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEscapeString(t *testing.T) {
	got := EscapeString([]byte("a(b)\\c\nd\x01"))
	want := []byte(`(a\(b\)\\c\nd\001)`)
	if !bytes.Equal(got, want) {
		t.Fatalf("escaped = %q, want %q", got, want)
	}
}
