package protocol

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/unicode"
)

// legacyKickContent is the five-field, NUL-joined pre-Netty kick string:
// a "§1" marker, then protocol version, server version, motd, online
// count, and max count. Hollow's legacy-ping responder never varies this
// by configuration — spec.md §4.7 calls the response "fixed".
const legacyKickContent = "§1\x000\x001.18\x00\x000\x00"

// LegacyKickBuffer is the full wire buffer spec.md §6 names: a 0xFF
// marker, a big-endian u16 UTF-16 code-unit count, then the UCS-2
// (UTF-16BE, no surrogate pairs needed — every field here is BMP)
// encoded content. Computed once at init so EmitLegacyKick never fails.
var LegacyKickBuffer = mustEncodeLegacyKick()

func mustEncodeLegacyKick() []byte {
	buf, err := encodeLegacyKick(legacyKickContent)
	if err != nil {
		panic(fmt.Sprintf("protocol: encode legacy kick buffer: %v", err))
	}
	return buf
}

func encodeLegacyKick(content string) ([]byte, error) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()
	encoded, err := enc.String(content)
	if err != nil {
		return nil, fmt.Errorf("ucs-2 encode: %w", err)
	}
	units := len(encoded) / 2

	var buf bytes.Buffer
	buf.WriteByte(0xff)
	writeUint16(&buf, uint16(units))
	buf.WriteString(encoded)
	return buf.Bytes(), nil
}
