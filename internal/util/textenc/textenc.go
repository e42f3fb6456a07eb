// Package textenc decodes user-submitted text files that may be UTF-8 or
// Latin-1. Mod archives predate any encoding policy, so both are accepted.
package textenc

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decode returns the contents of data as a string. Valid UTF-8 passes through
// unchanged; anything else is decoded as ISO 8859-1, which cannot fail since
// every byte sequence is valid Latin-1.
func Decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// Unreachable for Latin-1, but keep the fallback honest.
		return string(data)
	}
	return string(decoded)
}
