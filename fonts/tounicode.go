package fonts

import (
	"bytes"
	"fmt"
	"sort"
	"unicode/utf16"
)

// ToUnicodeCMap builds a ToUnicode CMap stream from a glyph-to-text
// mapping. The mapping comes from the glyphs' text ranges into the
// run's source string; glyphs without a mapping are omitted.
func ToUnicodeCMap(name string, mapping map[int]string) []byte {
	if len(mapping) == 0 {
		return nil
	}
	gids := make([]int, 0, len(mapping))
	for gid := range mapping {
		gids = append(gids, gid)
	}
	sort.Ints(gids)

	if name == "" {
		name = "Embedded"
	}

	var buf bytes.Buffer
	buf.WriteString("/CIDInit /ProcSet findresource begin\n")
	buf.WriteString("12 dict begin\n")
	buf.WriteString("begincmap\n")
	buf.WriteString("/CIDSystemInfo << /Registry (Adobe) /Ordering (Identity) /Supplement 0 >> def\n")
	fmt.Fprintf(&buf, "/CMapName /%s-UTF16 def\n", name)
	buf.WriteString("/CMapType 2 def\n")
	buf.WriteString("1 begincodespacerange\n")
	fmt.Fprintf(&buf, "<%04X> <%04X>\n", gids[0], gids[len(gids)-1])
	buf.WriteString("endcodespacerange\n")
	for i := 0; i < len(gids); {
		chunk := len(gids) - i
		if chunk > 100 {
			chunk = 100
		}
		fmt.Fprintf(&buf, "%d beginbfchar\n", chunk)
		for j := 0; j < chunk; j++ {
			gid := gids[i+j]
			fmt.Fprintf(&buf, "<%04X> <%s>\n", gid, utf16Hex([]rune(mapping[gid])))
		}
		buf.WriteString("endbfchar\n")
		i += chunk
	}
	buf.WriteString("endcmap\n")
	buf.WriteString("CMapName currentdict /CMap defineresource pop\n")
	buf.WriteString("end\nend\n")
	return buf.Bytes()
}

func utf16Hex(runes []rune) string {
	var b bytes.Buffer
	for _, u := range utf16.Encode(runes) {
		fmt.Fprintf(&b, "%04X", u)
	}
	return b.String()
}
