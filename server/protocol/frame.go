package protocol

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/brinewood/hollow/internal/varint"
)

// Frame reads and writes the VarInt-length-prefixed packet envelope
// spec.md §4.6 describes, optionally negotiating zlib compression.
// Compression is one-way to negotiate: an implementation must always be
// able to read a compressed packet, even with outgoing compression
// disabled (spec.md §1 lists outgoing compression as a non-goal).
type Frame struct {
	r io.Reader
	w io.Writer

	// threshold is the compression threshold negotiated at login; <0
	// means compression was never enabled and outgoing packets are
	// never compressed. Hollow never enables it (§1 non-goal) but still
	// decodes incoming compressed frames correctly.
	threshold int
}

// NewFrame wraps a connection's reader and writer halves.
func NewFrame(r io.Reader, w io.Writer) *Frame {
	return &Frame{r: r, w: w, threshold: -1}
}

// EnableCompression sets the negotiated compression threshold, used both
// when decoding incoming frames and when WritePacket frames outgoing
// ones.
func (f *Frame) EnableCompression(threshold int) { f.threshold = threshold }

// ReadPacketBody reads one framed packet and returns its uncompressed
// "id · payload" body, ready for Decode.
func (f *Frame) ReadPacketBody() ([]byte, error) {
	totalLen, err := varint.Decode(byteReader{f.r})
	if err != nil {
		return nil, fmt.Errorf("protocol: read frame length: %w", err)
	}
	if totalLen < 0 {
		return nil, fmt.Errorf("protocol: negative frame length %d", totalLen)
	}
	buf := make([]byte, totalLen)
	if _, err := io.ReadFull(f.r, buf); err != nil {
		return nil, fmt.Errorf("protocol: read frame body: %w", err)
	}

	if f.threshold < 0 {
		return buf, nil
	}
	return f.decompress(buf)
}

// decompress parses a compressed frame's body: VarInt(uncompressed_length)
// followed by either raw bytes (uncompressed_length == 0) or a zlib
// stream.
func (f *Frame) decompress(buf []byte) ([]byte, error) {
	r := bytes.NewReader(buf)
	uncompressedLen, err := varint.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("protocol: read uncompressed length: %w", err)
	}
	rest := buf[len(buf)-r.Len():]
	if uncompressedLen == 0 {
		return rest, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, fmt.Errorf("protocol: open zlib stream: %w", err)
	}
	defer zr.Close()
	out := make([]byte, uncompressedLen)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("protocol: inflate packet: %w", err)
	}
	return out, nil
}

// WritePacket frames and writes pk. No caller currently calls
// EnableCompression (outgoing compression is a §1 non-goal), so in
// practice threshold stays -1 and this always takes the uncompressed
// path; the >= 0 branch exists so the framing stays correct if that
// ever changes.
func (f *Frame) WritePacket(pk Packet) error {
	body, err := EncodePayload(pk)
	if err != nil {
		return fmt.Errorf("protocol: encode %T: %w", pk, err)
	}

	var out bytes.Buffer
	if f.threshold >= 0 {
		if err := f.writeCompressed(&out, body); err != nil {
			return err
		}
	} else {
		out.Write(body)
	}

	var frame bytes.Buffer
	if _, err := varint.Encode(&frame, int32(out.Len())); err != nil {
		return err
	}
	frame.Write(out.Bytes())

	_, err = f.w.Write(frame.Bytes())
	return err
}

// writeCompressed writes the compressed-frame body format decompress
// reads: VarInt(uncompressed_length) followed by either raw bytes
// (length 0, below threshold) or a zlib stream.
func (f *Frame) writeCompressed(out *bytes.Buffer, body []byte) error {
	if len(body) < f.threshold {
		if _, err := varint.Encode(out, 0); err != nil {
			return err
		}
		out.Write(body)
		return nil
	}
	if _, err := varint.Encode(out, int32(len(body))); err != nil {
		return err
	}
	zw := zlib.NewWriter(out)
	if _, err := zw.Write(body); err != nil {
		return err
	}
	return zw.Close()
}

// PeekLegacyPingByte reads one byte and reports whether it is the legacy
// server-list-ping marker 0xfe, per spec.md §4.7. It is only valid to
// call before any other frame has been read in the handshaking phase.
func PeekLegacyPingByte(r io.Reader) (isLegacy bool, b byte, err error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return false, 0, err
	}
	return buf[0] == 0xfe, buf[0], nil
}

// byteReader adapts an io.Reader to io.ByteReader one byte at a time, for
// varint.Decode's sake, without requiring the caller's reader to already
// implement it (a plain net.Conn does not).
type byteReader struct{ io.Reader }

func (b byteReader) ReadByte() (byte, error) {
	var buf [1]byte
	_, err := io.ReadFull(b, buf[:])
	return buf[0], err
}
