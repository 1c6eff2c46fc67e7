package parser

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin-1"
)

// ErrDecode is returned when a resource is neither UTF-8 nor Latin-1 text.
var ErrDecode = errors.New("text could not be decoded")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns data as UTF-8 text. Input that is not valid UTF-8 is decoded once more as
// Latin-1; there is no further fallback.
func Decode(data []byte) (string, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if !utf8.Valid(decoded) {
		return "", "", fmt.Errorf("%w: latin-1 fallback produced invalid text", ErrDecode)
	}
	return string(decoded), EncodingLatin1, nil
}
