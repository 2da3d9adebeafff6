// Package csshash computes the short content hash that names a component's
// scoping class.
package csshash

import (
	"strconv"
	"strings"
)

const seed int32 = 5381

// Hash returns the base 36 hash of a style block's raw text. Carriage
// returns are ignored so that the same file hashes identically with either
// line ending. Bytes are mixed from last to first.
//
// Hash("") is "45h", the encoding of the seed.
func Hash(source string) string {
	source = strings.ReplaceAll(source, "\r", "")

	h := seed
	for i := len(source) - 1; i >= 0; i-- {
		h = ((h << 5) - h) ^ int32(source[i])
	}
	return strconv.FormatUint(uint64(uint32(h)), 36)
}
