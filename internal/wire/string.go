// Package wire implements the small fixed-shape primitives the Minecraft
// Java-edition protocol layers everything else on top of: length-prefixed
// strings and the packed 64-bit block position.
package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/brinewood/hollow/internal/varint"
)

// MaxStringLength is the protocol's cap on string length, in characters.
const MaxStringLength = 32767

// ErrStringTooLong is returned when a decoded or to-be-encoded string
// exceeds MaxStringLength.
var ErrStringTooLong = errors.New("wire: string exceeds protocol length cap")

// StringSize returns the encoded size of s: its VarInt length prefix plus
// its raw UTF-8 byte length.
func StringSize(s string) int {
	return varint.Size(int32(len(s))) + len(s)
}

// WriteString writes a VarInt length prefix followed by the raw bytes of s.
func WriteString(w *bytes.Buffer, s string) error {
	if n := utf8.RuneCountInString(s); n > MaxStringLength {
		return fmt.Errorf("%w: %d characters", ErrStringTooLong, n)
	}
	if _, err := varint.Encode(w, int32(len(s))); err != nil {
		return err
	}
	_, err := w.WriteString(s)
	return err
}

// ReadString reads a VarInt-prefixed UTF-8 string, allocating exactly the
// number of bytes the length prefix specifies.
func ReadString(r *bytes.Reader) (string, error) {
	n, err := varint.Decode(r)
	if err != nil {
		return "", err
	}
	if n < 0 || n > MaxStringLength*utf8.UTFMax {
		return "", fmt.Errorf("%w: declared length %d", ErrStringTooLong, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	if c := utf8.RuneCount(buf); c > MaxStringLength {
		return "", fmt.Errorf("%w: %d characters", ErrStringTooLong, c)
	}
	return string(buf), nil
}
