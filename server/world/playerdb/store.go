// Package playerdb persists the handful of fields a returning player
// needs across sessions — uuid, name, last position, dimension, hotbar —
// the supplemented continuity feature SPEC_FULL.md adds. Full world
// persistence beyond the region-file bootstrap loader is an explicit
// spec.md non-goal; this store only ever touches per-player records.
package playerdb

import (
	"errors"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/google/uuid"
	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// Record is the continuity data kept for one player, grounded on
// server/world/mcdb/db.go's playerData/serverData split, collapsed into
// a single struct since Hollow has no equivalent of Bedrock's
// Xbox-Live-identity indirection.
type Record struct {
	UUID      string  `nbt:"uuid"`
	Name      string  `nbt:"name"`
	Dimension string  `nbt:"dimension"`
	X         float64 `nbt:"x"`
	Y         float64 `nbt:"y"`
	Z         float64 `nbt:"z"`
	Hotbar    [9]int32 `nbt:"hotbar"`
}

// Store wraps a leveldb database keyed by player uuid, the way
// mcdb.DB.ldb is keyed by "player_"+uuid.
type Store struct {
	ldb *leveldb.DB
}

// Open opens (creating if absent) the leveldb database at dir.
func Open(dir string) (*Store, error) {
	ldb, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("playerdb: open %s: %w", dir, err)
	}
	return &Store{ldb: ldb}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.ldb.Close()
}

func key(id uuid.UUID) []byte {
	return []byte("player_" + id.String())
}

// Load returns the stored record for id. exists is false if no record
// has been saved yet, mirroring mcdb.DB.LoadPlayerData's not-found
// signalling.
func (s *Store) Load(id uuid.UUID) (rec Record, exists bool, err error) {
	data, err := s.ldb.Get(key(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("playerdb: read %s: %w", id, err)
	}
	if err := nbt.UnmarshalEncoding(data, &rec, nbt.LittleEndian); err != nil {
		return Record{}, true, fmt.Errorf("playerdb: decode %s: %w", id, err)
	}
	return rec, true, nil
}

// Save writes rec under id, overwriting any prior record.
func (s *Store) Save(id uuid.UUID, rec Record) error {
	data, err := nbt.MarshalEncoding(rec, nbt.LittleEndian)
	if err != nil {
		return fmt.Errorf("playerdb: encode %s: %w", id, err)
	}
	if err := s.ldb.Put(key(id), data, nil); err != nil {
		return fmt.Errorf("playerdb: write %s: %w", id, err)
	}
	return nil
}
