// Package region implements the bootstrap-only Anvil region-file loader
// spec.md §4.5 describes: a 4 KiB location table over 1024 chunks, each
// chunk a length-prefixed, zlib-compressed NBT blob.
package region

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
	"github.com/sirupsen/logrus"

	"github.com/brinewood/hollow/internal/nbt"
	"github.com/brinewood/hollow/server/block"
	"github.com/brinewood/hollow/server/world/chunk"
)

const (
	sectorSize     = 4096
	locationTable  = 1024 * 4
	compressionGzip = 1
	compressionZlib = 2
	compressionRaw  = 3
)

// ErrChunkNotPresent is returned by Load when the region file's location
// table has no entry for the requested chunk.
var ErrChunkNotPresent = errors.New("region: chunk not present")

// ErrUnsupportedCompression is returned when a chunk blob names a
// compression scheme other than zlib, which spec.md §4.5 requires this
// loader to reject.
var ErrUnsupportedCompression = errors.New("region: unsupported compression scheme")

// index computes the location-table slot for chunk (x, z) within its
// region, using Euclidean-mod semantics so negative coordinates resolve
// the same slot a positive-coordinate client would expect.
func index(x, z int32) int {
	mod := func(v int32) int32 {
		m := v % 32
		if m < 0 {
			m += 32
		}
		return m
	}
	return int(mod(x)) + int(mod(z))*32
}

// Load reads chunk (x, z) out of a region file and materializes it
// against reg, resolving block name+properties to state ids via the
// catalog. r must support random access (an *os.File opened on a
// .mca region file). log receives a warning for every palette entry
// that fails to resolve and silently falls back to air.
func Load(r io.ReaderAt, x, z int32, reg *block.Registry, log logrus.FieldLogger) (*chunk.Chunk, error) {
	var table [locationTable]byte
	if _, err := r.ReadAt(table[:], 0); err != nil {
		return nil, fmt.Errorf("region: read location table: %w", err)
	}

	idx := index(x, z)
	entry := table[idx*4 : idx*4+4]
	sectorOffset := int64(entry[0])<<16 | int64(entry[1])<<8 | int64(entry[2])
	sectorCount := entry[3]
	if sectorOffset == 0 && sectorCount == 0 {
		return nil, ErrChunkNotPresent
	}

	blob := make([]byte, int64(sectorCount)*sectorSize)
	if _, err := r.ReadAt(blob, sectorOffset*sectorSize); err != nil {
		return nil, fmt.Errorf("region: read chunk blob: %w", err)
	}

	length := binary.BigEndian.Uint32(blob[0:4])
	if length == 0 || int(length) > len(blob)-4 {
		return nil, fmt.Errorf("region: chunk length %d out of bounds", length)
	}
	compression := blob[4]
	payload := blob[5 : 4+length]

	if compression != compressionZlib {
		return nil, fmt.Errorf("%w: tag %d", ErrUnsupportedCompression, compression)
	}
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("region: open zlib stream: %w", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("region: inflate chunk: %w", err)
	}

	return decodeChunk(raw, reg, log)
}

// decodeChunk walks the top-level chunk compound's NBT tree as spec.md §3
// describes, pulling out xPos/zPos/yPos and the section list, and
// resolving each section's block palette through reg.
func decodeChunk(data []byte, reg *block.Registry, log logrus.FieldLogger) (*chunk.Chunk, error) {
	r := nbt.NewReader(data)
	tag, _, err := r.ReadNamedTag()
	if err != nil {
		return nil, fmt.Errorf("region: read root tag: %w", err)
	}
	if tag != nbt.TagCompound {
		return nil, fmt.Errorf("region: root tag is %s, want Compound", tag)
	}

	var xPos, zPos, yPos int32
	var sections []*chunk.Section
	var sectionYs []int32

	for {
		childTag, name, err := r.ReadNamedTag()
		if err != nil {
			return nil, fmt.Errorf("region: read chunk field: %w", err)
		}
		if childTag == nbt.TagEnd {
			break
		}
		switch name {
		case "xPos":
			v, err := r.Int()
			if err != nil {
				return nil, err
			}
			xPos = v
		case "zPos":
			v, err := r.Int()
			if err != nil {
				return nil, err
			}
			zPos = v
		case "yPos":
			v, err := r.Int()
			if err != nil {
				return nil, err
			}
			yPos = v
		case "sections":
			secs, ys, err := decodeSections(r, reg, log)
			if err != nil {
				return nil, err
			}
			sections, sectionYs = secs, ys
		default:
			if err := r.SkipPayload(childTag); err != nil {
				return nil, fmt.Errorf("region: skip field %q: %w", name, err)
			}
		}
	}

	if len(sections) == 0 {
		return chunk.New(xPos, zPos, yPos*16, 1), nil
	}
	minY := sectionYs[0]
	for _, y := range sectionYs {
		if y < minY {
			minY = y
		}
	}
	sectionCount := 0
	for _, y := range sectionYs {
		if int(y-minY)+1 > sectionCount {
			sectionCount = int(y-minY) + 1
		}
	}
	c := chunk.New(xPos, zPos, minY*16, sectionCount)
	for i, y := range sectionYs {
		c.Sections[y-minY] = sections[i]
	}
	return c, nil
}

// decodeSections reads the chunk's `sections` list: one compound per
// vertical slice, each naming its Y index and an optional block_states
// compound of {palette, data}.
func decodeSections(r *nbt.Reader, reg *block.Registry, log logrus.FieldLogger) (sections []*chunk.Section, ys []int32, err error) {
	elem, length, err := r.ListHeader()
	if err != nil {
		return nil, nil, err
	}
	if elem != nbt.TagCompound {
		for i := int32(0); i < length; i++ {
			if err := r.SkipPayload(elem); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	}

	for i := int32(0); i < length; i++ {
		sec, y, err := decodeOneSection(r, reg, log)
		if err != nil {
			return nil, nil, err
		}
		sections = append(sections, sec)
		ys = append(ys, y)
	}
	return sections, ys, nil
}

func decodeOneSection(r *nbt.Reader, reg *block.Registry, log logrus.FieldLogger) (*chunk.Section, int32, error) {
	sec := chunk.NewSection()
	var y int32
	for {
		tag, name, err := r.ReadNamedTag()
		if err != nil {
			return nil, 0, err
		}
		if tag == nbt.TagEnd {
			break
		}
		switch name {
		case "Y":
			v, err := r.Byte()
			if err != nil {
				return nil, 0, err
			}
			y = int32(v)
		case "block_states":
			if err := decodeBlockStates(r, sec, reg, log); err != nil {
				return nil, 0, err
			}
		default:
			if err := r.SkipPayload(tag); err != nil {
				return nil, 0, err
			}
		}
	}
	return sec, y, nil
}

// decodeBlockStates reads a section's block_states compound: a palette
// list of {Name, Properties} compounds and a packed data long array,
// resolving every palette entry to a state id up front so per-cell
// ChangeBlock calls never miss the catalog.
func decodeBlockStates(r *nbt.Reader, sec *chunk.Section, reg *block.Registry, log logrus.FieldLogger) error {
	var stateIDs []uint16
	var packed []uint64

	for {
		tag, name, err := r.ReadNamedTag()
		if err != nil {
			return err
		}
		if tag == nbt.TagEnd {
			break
		}
		switch name {
		case "palette":
			ids, err := decodePalette(r, reg, log)
			if err != nil {
				return err
			}
			stateIDs = ids
		case "data":
			view, err := r.LongArray()
			if err != nil {
				return err
			}
			packed = view.MaterializeUint64()
		default:
			if err := r.SkipPayload(tag); err != nil {
				return err
			}
		}
	}

	if len(stateIDs) == 0 {
		return nil
	}
	if len(stateIDs) == 1 {
		for i := 0; i < 4096; i++ {
			x, y, z := i&15, (i>>8)&15, (i>>4)&15
			sec.ChangeBlock(x, y, z, stateIDs[0])
		}
		return nil
	}

	bpb := bitsPerEntryFor(len(stateIDs))
	blocksPerWord := 64 / bpb
	mask := uint64(1)<<uint(bpb) - 1
	for i := 0; i < 4096; i++ {
		word := packed[i/blocksPerWord]
		shift := uint((i % blocksPerWord) * bpb)
		idx := (word >> shift) & mask
		if int(idx) >= len(stateIDs) {
			return fmt.Errorf("region: palette index %d out of range (len %d)", idx, len(stateIDs))
		}
		x, y, z := i&15, (i>>8)&15, (i>>4)&15
		sec.ChangeBlock(x, y, z, stateIDs[idx])
	}
	return nil
}

func bitsPerEntryFor(paletteLen int) int {
	bits := 0
	for (1 << bits) < paletteLen {
		bits++
	}
	if bits < 4 {
		bits = 4
	}
	return bits
}

// decodePalette resolves each palette entry's Name (and optional
// Properties compound) into a global state id via the catalog, per
// spec.md §4.5: strip the `minecraft:` namespace, fall back to air with
// a diagnostic on an unrecognized tag.
func decodePalette(r *nbt.Reader, reg *block.Registry, log logrus.FieldLogger) ([]uint16, error) {
	elem, length, err := r.ListHeader()
	if err != nil {
		return nil, err
	}
	ids := make([]uint16, 0, length)
	for i := int32(0); i < length; i++ {
		if elem != nbt.TagCompound {
			if err := r.SkipPayload(elem); err != nil {
				return nil, err
			}
			continue
		}
		id, err := decodePaletteEntry(r, reg, log)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func decodePaletteEntry(r *nbt.Reader, reg *block.Registry, log logrus.FieldLogger) (uint16, error) {
	var name string
	props := map[string]string{}
	for {
		tag, fieldName, err := r.ReadNamedTag()
		if err != nil {
			return 0, err
		}
		if tag == nbt.TagEnd {
			break
		}
		switch fieldName {
		case "Name":
			v, err := r.String()
			if err != nil {
				return 0, err
			}
			name = v
		case "Properties":
			if tag != nbt.TagCompound {
				if err := r.SkipPayload(tag); err != nil {
					return 0, err
				}
				continue
			}
			if err := decodeProperties(r, props); err != nil {
				return 0, err
			}
		default:
			if err := r.SkipPayload(tag); err != nil {
				return 0, err
			}
		}
	}

	tagName := stripNamespace(name)
	id, ok := reg.FastIDFromNameAndProperties(tagName, props)
	if !ok {
		if log != nil {
			log.Warnf("region: unresolvable block %q, falling back to air", name)
		}
		id, ok = reg.DefaultID("air")
		if !ok {
			return 0, fmt.Errorf("region: unresolvable fallback air state for unknown block %q", name)
		}
	}
	return id, nil
}

func decodeProperties(r *nbt.Reader, out map[string]string) error {
	for {
		tag, name, err := r.ReadNamedTag()
		if err != nil {
			return err
		}
		if tag == nbt.TagEnd {
			return nil
		}
		if tag != nbt.TagString {
			if err := r.SkipPayload(tag); err != nil {
				return err
			}
			continue
		}
		v, err := r.String()
		if err != nil {
			return err
		}
		out[name] = v
	}
}

// stripNamespace removes a resource location's leading "minecraft:" (or
// any other) namespace, since the catalog indexes block kinds by their
// bare name.
func stripNamespace(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return name[i+1:]
	}
	return name
}
