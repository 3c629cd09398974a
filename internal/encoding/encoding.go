// Package encoding decodes raw telematics export bytes into text.
// Exports arrive in UTF-16 (both byte orders), UTF-8 with or without a
// byte-order mark, Latin-1, and Windows-1252; the detector always
// produces text and never fails.
package encoding

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Byte-order-mark signatures, checked in order.
var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
)

// fallbackChain is tried in order when no BOM is present and the bytes are
// not valid UTF-8. The last entry accepts any byte sequence, which is what
// guarantees Decode is total.
var fallbackChain = []encoding.Encoding{
	charmap.ISO8859_1,
	charmap.Windows1252,
}

// Decode converts the raw bytes of an uploaded file into text.
//
// Detection order, first match wins: UTF-16LE BOM, UTF-16BE BOM, UTF-8 BOM
// (stripped), strict UTF-8, then the Latin-1 → Windows-1252 fallback chain.
// Pure function; always returns text.
func Decode(raw []byte) string {
	switch {
	case bytes.HasPrefix(raw, bomUTF16LE):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), raw[len(bomUTF16LE):])
	case bytes.HasPrefix(raw, bomUTF16BE):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), raw[len(bomUTF16BE):])
	case bytes.HasPrefix(raw, bomUTF8):
		return string(raw[len(bomUTF8):])
	}

	if utf8.Valid(raw) {
		return string(raw)
	}

	for _, enc := range fallbackChain {
		if decoded, err := enc.NewDecoder().Bytes(raw); err == nil {
			return string(decoded)
		}
	}

	// Unreachable in practice (Windows-1252 decoding is total), kept so the
	// function visibly upholds its never-fails contract.
	return string(raw)
}

// decodeWith runs raw through a decoder, falling back to the raw bytes if
// the transform reports an error.
func decodeWith(enc encoding.Encoding, raw []byte) string {
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
