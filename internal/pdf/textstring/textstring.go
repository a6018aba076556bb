// Package textstring decodes and encodes PDF "text string" objects.
//
// A text string is either UTF-16 (big or little endian, announced by a
// byte order mark) or UTF-8. The byte order mark always takes priority;
// inputs shorter than two bytes are decoded as UTF-8.
package textstring

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	pdferrors "github.com/a3tai/mcp-pdf-links/internal/pdf/errors"
)

// Encoding is the byte encoding of a text string.
type Encoding int

const (
	UTF8 Encoding = iota
	UTF16BE
	UTF16LE
)

// Detect reports the encoding Decode uses for b.
func Detect(b []byte) Encoding {
	if len(b) >= 2 {
		switch {
		case b[0] == 0xFE && b[1] == 0xFF:
			return UTF16BE
		case b[0] == 0xFF && b[1] == 0xFE:
			return UTF16LE
		}
	}
	return UTF8
}

// Decode converts the raw bytes of a text string into a Go string.
func Decode(b []byte) (string, error) {
	switch Detect(b) {
	case UTF16BE:
		return decodeUTF16(b[2:], true)
	case UTF16LE:
		return decodeUTF16(b[2:], false)
	default:
		return decodeUTF8(b)
	}
}

// Encode returns the bytes of s in enc. UTF-16 output starts with a byte
// order mark, so Decode(Encode(s, enc)) == s for every enc.
func Encode(s string, enc Encoding) []byte {
	if enc != UTF16BE && enc != UTF16LE {
		return []byte(s)
	}
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, 2+2*len(units))
	if enc == UTF16BE {
		out = append(out, 0xFE, 0xFF)
		for _, u := range units {
			out = append(out, byte(u>>8), byte(u))
		}
		return out
	}
	out = append(out, 0xFF, 0xFE)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}

func decodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", &pdferrors.EncodingError{Encoding: pdferrors.UTF8}
	}
	return string(b), nil
}

func decodeUTF16(b []byte, bigEndian bool) (string, error) {
	if len(b)%2 != 0 {
		return "", &pdferrors.EncodingError{
			Encoding: pdferrors.UTF16,
			Err:      fmt.Errorf("odd number of bytes (%d) after byte order mark", len(b)),
		}
	}

	units := make([]uint16, 0, len(b)/2)
	for i := 0; i < len(b); i += 2 {
		if bigEndian {
			units = append(units, uint16(b[i])<<8|uint16(b[i+1]))
		} else {
			units = append(units, uint16(b[i+1])<<8|uint16(b[i]))
		}
	}

	runes := make([]rune, 0, len(units))
	for i := 0; i < len(units); i++ {
		u := rune(units[i])
		if !utf16.IsSurrogate(u) {
			runes = append(runes, u)
			continue
		}
		if i+1 < len(units) {
			if r := utf16.DecodeRune(u, rune(units[i+1])); r != utf8.RuneError {
				runes = append(runes, r)
				i++
				continue
			}
		}
		return "", &pdferrors.EncodingError{
			Encoding: pdferrors.UTF16,
			Err:      fmt.Errorf("unpaired surrogate 0x%04X at code unit %d", u, i),
		}
	}

	return string(runes), nil
}

// Bytes returns the raw bytes held by a string-like object: a literal
// string (escape sequences resolved), a hex string, or a name.
func Bytes(o types.Object) ([]byte, error) {
	switch v := o.(type) {
	case types.StringLiteral:
		return types.Unescape(v.Value())
	case types.HexLiteral:
		return v.Bytes()
	case types.Name:
		return []byte(v.Value()), nil
	default:
		return nil, pdferrors.NewPDFError(pdferrors.ErrorTypeMalformedObject, "read text string",
			fmt.Sprintf("expected a name or string, got %T", o))
	}
}

// DecodeObject decodes a string-like object as a text string.
func DecodeObject(o types.Object) (string, error) {
	b, err := Bytes(o)
	if err != nil {
		return "", err
	}
	return Decode(b)
}

// Literal encodes s as a literal string object. The text is stored as UTF-8.
func Literal(s string) (types.StringLiteral, error) {
	return LiteralBytes([]byte(s))
}

// LiteralBytes wraps raw text string bytes in a literal string object.
func LiteralBytes(b []byte) (types.StringLiteral, error) {
	escaped, err := types.Escape(string(b))
	if err != nil {
		return "", fmt.Errorf("escaping text string: %w", err)
	}
	return types.StringLiteral(*escaped), nil
}
