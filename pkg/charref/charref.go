// Package charref decodes character references in markup text and composes
// UTF-16 surrogate pairs into scalar values.
package charref

import (
	"strings"
	"unicode/utf16"

	"golang.org/x/net/html"
)

const (
	highSurrogateStart = 0xD800
	lowSurrogateStart  = 0xDC00
	// first code unit past the low-surrogate band
	surrogateEnd = 0xE000
)

// Decode resolves named, decimal and hexadecimal character references in raw.
// Text without an ampersand is returned unchanged without allocating.
func Decode(raw string) string {
	if !strings.Contains(raw, "&") {
		return raw
	}
	return html.UnescapeString(raw)
}

// CodeUnits converts s into the UTF-16 code unit sequence CodePointAt
// expects. Callers holding UTF-8 text must go through here first.
func CodeUnits(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// CodePointAt returns the scalar value encoded at index i of a UTF-16 code
// unit sequence. A unit outside the surrogate bands is returned as is; a unit
// inside them is treated as the high half of a pair and combined with the
// unit that follows. A trailing surrogate with nothing after it is returned
// unchanged.
//
// The index addresses code units, not bytes.
func CodePointAt(units []uint16, i int) rune {
	c := rune(units[i])
	if c < highSurrogateStart || c >= surrogateEnd {
		return c
	}
	if i+1 >= len(units) {
		return c
	}
	low := rune(units[i+1])
	return (c-highSurrogateStart)*0x400 + (low - lowSurrogateStart) + 0x10000
}
