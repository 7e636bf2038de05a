package nbt

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Reader is a forward-only cursor over an NBT byte slice. It never
// materializes a tree: ReadNamedTag yields one token's type and name, the
// caller decides whether to consume its payload with a type-specific
// reader or discard the whole subtree with SkipPayload.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps data for tokenized reading.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.data) - r.pos }

func (r *Reader) need(n int) error {
	if r.Len() < n {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func (r *Reader) readByte() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

func (r *Reader) readN(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadNamedTag reads one tag byte and, unless it is TagEnd, the u16-length
// name string that follows it (root compounds included, per spec.md
// §4.2). It fails with ErrInvalidTag on an unrecognised tag byte.
func (r *Reader) ReadNamedTag() (tag Tag, name string, err error) {
	b, err := r.readByte()
	if err != nil {
		return 0, "", err
	}
	tag = Tag(b)
	if !tag.valid() {
		return 0, "", ErrInvalidTag{Byte: b}
	}
	if tag == TagEnd {
		return TagEnd, "", nil
	}
	name, err = r.readName()
	return tag, name, err
}

func (r *Reader) readName() (string, error) {
	raw, err := r.readN(2)
	if err != nil {
		return "", err
	}
	n := int(binary.BigEndian.Uint16(raw))
	b, err := r.readN(n)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Byte reads a TagByte payload.
func (r *Reader) Byte() (int8, error) {
	b, err := r.readByte()
	return int8(b), err
}

// Short reads a TagShort payload.
func (r *Reader) Short() (int16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.BigEndian.Uint16(b)), nil
}

// Int reads a TagInt payload.
func (r *Reader) Int() (int32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b)), nil
}

// Long reads a TagLong payload.
func (r *Reader) Long() (int64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// Float reads a TagFloat payload.
func (r *Reader) Float() (float32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b)), nil
}

// Double reads a TagDouble payload.
func (r *Reader) Double() (float64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
}

// String reads a TagString payload (u16-length-prefixed UTF-8).
func (r *Reader) String() (string, error) {
	return r.readName()
}

// ByteArray reads a TagByteArray payload: an i32 length then that many
// raw bytes, returned as a lazy view.
func (r *Reader) ByteArray() (ByteArrayView, error) {
	n, err := r.Int()
	if err != nil {
		return ByteArrayView{}, err
	}
	b, err := r.readN(int(n))
	if err != nil {
		return ByteArrayView{}, err
	}
	return ByteArrayView{data: b}, nil
}

// IntArray reads a TagIntArray payload as a lazy view.
func (r *Reader) IntArray() (IntArrayView, error) {
	n, err := r.Int()
	if err != nil {
		return IntArrayView{}, err
	}
	b, err := r.readN(int(n) * 4)
	if err != nil {
		return IntArrayView{}, err
	}
	return IntArrayView{data: b}, nil
}

// LongArray reads a TagLongArray payload as a lazy view.
func (r *Reader) LongArray() (LongArrayView, error) {
	n, err := r.Int()
	if err != nil {
		return LongArrayView{}, err
	}
	b, err := r.readN(int(n) * 8)
	if err != nil {
		return LongArrayView{}, err
	}
	return LongArrayView{data: b}, nil
}

// ListHeader reads a TagList payload's header: the element tag followed
// by an i32 length. Subsequent reads for the list's elements are
// nameless — call the payload reader matching elem, length times in a
// row, per spec.md §4.2's "next_nameless mode".
func (r *Reader) ListHeader() (elem Tag, length int32, err error) {
	b, err := r.readByte()
	if err != nil {
		return 0, 0, err
	}
	elem = Tag(b)
	if !elem.valid() {
		return 0, 0, ErrInvalidTag{Byte: b}
	}
	length, err = r.Int()
	return elem, length, err
}

// SkipPayload advances the cursor past one payload of the given tag type
// without materializing it, recursing into compounds and lists. It is
// used both for unknown/unwanted named tags (after ReadNamedTag) and for
// list elements (which have no name of their own).
func (r *Reader) SkipPayload(tag Tag) error {
	switch tag {
	case TagEnd:
		return nil
	case TagByte:
		_, err := r.readByte()
		return err
	case TagShort:
		_, err := r.readN(2)
		return err
	case TagInt, TagFloat:
		_, err := r.readN(4)
		return err
	case TagLong, TagDouble:
		_, err := r.readN(8)
		return err
	case TagByteArray:
		n, err := r.Int()
		if err != nil {
			return err
		}
		_, err = r.readN(int(n))
		return err
	case TagString:
		_, err := r.readName()
		return err
	case TagIntArray:
		n, err := r.Int()
		if err != nil {
			return err
		}
		_, err = r.readN(int(n) * 4)
		return err
	case TagLongArray:
		n, err := r.Int()
		if err != nil {
			return err
		}
		_, err = r.readN(int(n) * 8)
		return err
	case TagList:
		elem, length, err := r.ListHeader()
		if err != nil {
			return err
		}
		for i := int32(0); i < length; i++ {
			if err := r.SkipPayload(elem); err != nil {
				return err
			}
		}
		return nil
	case TagCompound:
		for {
			t, _, err := r.ReadNamedTag()
			if err != nil {
				return err
			}
			if t == TagEnd {
				return nil
			}
			if err := r.SkipPayload(t); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("nbt: cannot skip %v", tag)
	}
}
