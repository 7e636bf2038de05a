package playerdb

import (
	"testing"

	"github.com/google/uuid"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	id := uuid.New()
	want := Record{
		UUID:      id.String(),
		Name:      "tester",
		Dimension: "overworld",
		X:         1.5, Y: 70, Z: -3.25,
		Hotbar: [9]int32{1, 2, 3, 0, 0, 0, 0, 0, 0},
	}
	if err := store.Save(id, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, exists, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected record to exist")
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestLoadMissingRecord(t *testing.T) {
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	_, exists, err := store.Load(uuid.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected no record for an unsaved uuid")
	}
}
