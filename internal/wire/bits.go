package wire

// PackedLongArray is a sequence of 64-bit words storing fixed-width
// entries, `bitsPerEntry` bits each, packed LSB-first with no entry
// straddling a word boundary — the layout spec.md §3/§4.4 mandates for
// both the block and biome paletted containers.
type PackedLongArray struct {
	words          []uint64
	bitsPerEntry   int
	entriesPerWord int
}

// NewPackedLongArray allocates a PackedLongArray able to hold count
// entries of bitsPerEntry bits each, all initialised to zero.
func NewPackedLongArray(bitsPerEntry, count int) *PackedLongArray {
	if bitsPerEntry == 0 {
		return &PackedLongArray{bitsPerEntry: 0}
	}
	perWord := 64 / bitsPerEntry
	words := (count + perWord - 1) / perWord
	return &PackedLongArray{
		words:          make([]uint64, words),
		bitsPerEntry:   bitsPerEntry,
		entriesPerWord: perWord,
	}
}

// WrapPackedLongArray wraps pre-existing words (e.g. decoded off the wire)
// as a PackedLongArray of the given bit width.
func WrapPackedLongArray(words []uint64, bitsPerEntry int) *PackedLongArray {
	if bitsPerEntry == 0 {
		return &PackedLongArray{bitsPerEntry: 0}
	}
	return &PackedLongArray{
		words:          words,
		bitsPerEntry:   bitsPerEntry,
		entriesPerWord: 64 / bitsPerEntry,
	}
}

// Words returns the underlying packed words.
func (p *PackedLongArray) Words() []uint64 {
	return p.words
}

// BitsPerEntry returns the fixed width of each entry.
func (p *PackedLongArray) BitsPerEntry() int {
	return p.bitsPerEntry
}

// Get returns the entry at index i.
func (p *PackedLongArray) Get(i int) uint32 {
	if p.bitsPerEntry == 0 {
		return 0
	}
	wordIdx := i / p.entriesPerWord
	bitOffset := uint((i % p.entriesPerWord) * p.bitsPerEntry)
	mask := uint64(1)<<uint(p.bitsPerEntry) - 1
	return uint32((p.words[wordIdx] >> bitOffset) & mask)
}

// Set writes value into the entry at index i. The write is a single
// shift-and-mask merge into one word, so a concurrent reader sees either
// the old or the new value and never a torn word.
func (p *PackedLongArray) Set(i int, value uint32) {
	if p.bitsPerEntry == 0 {
		return
	}
	wordIdx := i / p.entriesPerWord
	bitOffset := uint((i % p.entriesPerWord) * p.bitsPerEntry)
	mask := uint64(1)<<uint(p.bitsPerEntry) - 1
	p.words[wordIdx] = (p.words[wordIdx] &^ (mask << bitOffset)) | (uint64(value)&mask)<<bitOffset
}
