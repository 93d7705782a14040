package sourcemap

import (
	"encoding/json"
	"strings"
)

// Mapping pairs a position in the generated output with a position in the
// original source. Lines and columns are 0-based; columns count bytes.
type Mapping struct {
	GeneratedLine   int32
	GeneratedColumn int32
	OriginalLine    int32
	OriginalColumn  int32
}

// LineOffsetTable records the byte offset at which each line of a source
// starts, so source offsets can be turned into line/column pairs without
// rescanning the file per lookup.
type LineOffsetTable struct {
	offsets []int32
}

func MakeLineOffsetTable(contents string) LineOffsetTable {
	offsets := []int32{0}
	for i := 0; i < len(contents); i++ {
		c := contents[i]
		switch c {
		case '\r':
			if i+1 < len(contents) && contents[i+1] == '\n' {
				continue
			}
			offsets = append(offsets, int32(i+1))
		case '\n':
			offsets = append(offsets, int32(i+1))
		default:
			// U+2028 and U+2029 also terminate lines
			if c == 0xE2 && i+2 < len(contents) && contents[i+1] == 0x80 &&
				(contents[i+2] == 0xA8 || contents[i+2] == 0xA9) {
				offsets = append(offsets, int32(i+3))
			}
		}
	}
	return LineOffsetTable{offsets: offsets}
}

// LineAndColumn converts a byte offset into a 0-based line and column.
func (t LineOffsetTable) LineAndColumn(offset int32) (int32, int32) {
	// Binary search for the last line start <= offset
	lo, hi := 0, len(t.offsets)
	for lo < hi {
		mid := (lo + hi) / 2
		if t.offsets[mid] <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line := int32(lo - 1)
	return line, offset - t.offsets[line]
}

// SourceMap builds a version 3 source map for a single input file.
type SourceMap struct {
	mappings []Mapping
}

// AddMapping appends one mapping. Mappings must be added in generated
// position order, which is how a single-pass printer produces them.
func (sm *SourceMap) AddMapping(mapping Mapping) {
	sm.mappings = append(sm.mappings, mapping)
}

// String serializes the map as JSON with the original source inlined.
func (sm *SourceMap) String(sourceSpecifier string, sourceContents string) string {
	var sb strings.Builder
	sb.WriteString("{\"version\":3,\"sources\":[")
	sb.Write(quoteJSON(sourceSpecifier))
	sb.WriteString("],\"sourcesContent\":[")
	sb.Write(quoteJSON(sourceContents))
	sb.WriteString("],\"names\":[],\"mappings\":\"")
	sb.WriteString(sm.encodeMappings())
	sb.WriteString("\"}")
	return sb.String()
}

func (sm *SourceMap) encodeMappings() string {
	var buf []byte
	var prevGeneratedColumn, prevOriginalLine, prevOriginalColumn int32
	currentLine := int32(0)
	needComma := false

	for _, m := range sm.mappings {
		for currentLine < m.GeneratedLine {
			buf = append(buf, ';')
			currentLine++
			prevGeneratedColumn = 0
			needComma = false
		}
		if needComma {
			buf = append(buf, ',')
		}

		buf = encodeVLQ(buf, m.GeneratedColumn-prevGeneratedColumn)
		buf = encodeVLQ(buf, 0) // always the single source
		buf = encodeVLQ(buf, m.OriginalLine-prevOriginalLine)
		buf = encodeVLQ(buf, m.OriginalColumn-prevOriginalColumn)

		prevGeneratedColumn = m.GeneratedColumn
		prevOriginalLine = m.OriginalLine
		prevOriginalColumn = m.OriginalColumn
		needComma = true
	}
	return string(buf)
}

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

func encodeVLQ(buf []byte, value int32) []byte {
	var v uint32
	if value < 0 {
		v = (uint32(-value) << 1) | 1
	} else {
		v = uint32(value) << 1
	}
	for {
		digit := v & 31
		v >>= 5
		if v != 0 {
			digit |= 32
		}
		buf = append(buf, base64Chars[digit])
		if v == 0 {
			return buf
		}
	}
}

func quoteJSON(text string) []byte {
	// encoding/json never fails on a string
	out, _ := json.Marshal(text)
	return out
}
