package dimcodec

import "testing"

func TestCodecEncodesWithoutError(t *testing.T) {
	data, err := Codec()
	if err != nil {
		t.Fatalf("Codec: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty codec blob")
	}
}

func TestOverworldElementEncodesWithoutError(t *testing.T) {
	data, err := OverworldElement()
	if err != nil {
		t.Fatalf("OverworldElement: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty element blob")
	}
}

func TestHeightmapWordCount(t *testing.T) {
	data, err := Heightmap(64)
	if err != nil {
		t.Fatalf("Heightmap: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty heightmap blob")
	}
}

func TestPackHeightmapBitLayout(t *testing.T) {
	words := packHeightmap(64)
	if len(words) != heightmapWordCount {
		t.Fatalf("word count = %d, want %d", len(words), heightmapWordCount)
	}
	mask := int64(1<<heightmapBitsPerEntry - 1)
	first := words[0] & mask
	if first != 64 {
		t.Fatalf("first packed height = %d, want 64", first)
	}
	second := (words[0] >> heightmapBitsPerEntry) & mask
	if second != 64 {
		t.Fatalf("second packed height = %d, want 64", second)
	}
}
