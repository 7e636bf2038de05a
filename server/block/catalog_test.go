package block

import "testing"

func TestCatalogIDStateRoundTrip(t *testing.T) {
	for id := 0; id < Catalog.Total(); id++ {
		s := Catalog.StateFromID(uint16(id))
		got, err := Catalog.IDFromState(s)
		if err != nil {
			t.Fatalf("id %d: %v", id, err)
		}
		if got != uint16(id) {
			t.Fatalf("id %d round-tripped to %d (state %s)", id, got, s)
		}
	}
}

func TestCatalogKindRangesContiguous(t *testing.T) {
	for _, k := range Catalog.kindOrder {
		if k.Start >= k.End {
			t.Fatalf("kind %s has empty range [%d,%d)", k.Tag, k.Start, k.End)
		}
		if k.Default < k.Start || k.Default >= k.End {
			t.Fatalf("kind %s default %d outside range [%d,%d)", k.Tag, k.Default, k.Start, k.End)
		}
	}
}

func TestCatalogDefaultID(t *testing.T) {
	id, ok := Catalog.DefaultID("grass_block")
	if !ok {
		t.Fatal("grass_block not found")
	}
	s := Catalog.StateFromID(id)
	if s.Values["snowy"] != false {
		t.Fatalf("default grass_block should have snowy=false, got %v", s.Values["snowy"])
	}

	if _, ok := Catalog.DefaultID("does_not_exist"); ok {
		t.Fatal("expected unknown kind to miss")
	}
}

func TestCatalogStatelessKindHasSingleState(t *testing.T) {
	k, ok := Catalog.Kind("stone")
	if !ok {
		t.Fatal("stone not found")
	}
	if got := k.End - k.Start; got != 1 {
		t.Fatalf("stone should have exactly 1 state, got %d", got)
	}
}

func TestCatalogStateFromPropertyList(t *testing.T) {
	s := Catalog.StateFromPropertyList("oak_log", [][2]string{{"axis", "x"}})
	if s.Values["axis"] != "x" {
		t.Fatalf("expected axis=x, got %v", s.Values["axis"])
	}

	def, _ := Catalog.DefaultID("oak_log")
	if s.ID == def {
		t.Fatal("axis=x should differ from the y-axis default")
	}
}

func TestCatalogStateFromPropertyListUnknownPropertyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown property")
		}
	}()
	Catalog.StateFromPropertyList("stone", [][2]string{{"nope", "x"}})
}

func TestCatalogStateFromPropertyListUnknownKindPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown kind")
		}
	}()
	Catalog.StateFromPropertyList("nonexistent", nil)
}

func TestCatalogFastIDFromNameAndProperties(t *testing.T) {
	id, ok := Catalog.FastIDFromNameAndProperties("oak_stairs", map[string]string{
		"facing":      "east",
		"half":        "top",
		"shape":       "straight",
		"waterlogged": "false",
	})
	if !ok {
		t.Fatal("expected a match")
	}
	s := Catalog.StateFromID(id)
	if s.Values["facing"] != "east" || s.Values["half"] != "top" {
		t.Fatalf("unexpected state resolved: %s", s)
	}
}

func TestCatalogItemToBlock(t *testing.T) {
	found := false
	for i := uint32(0); i < 32; i++ {
		if tag, ok := Catalog.ItemToBlock(i); ok && tag == "glass" {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected some item id to resolve to glass")
	}

	if _, ok := Catalog.ItemToBlock(10000); ok {
		t.Fatal("expected out-of-range item id to miss")
	}
}

func TestAirAndStoneIDsResolved(t *testing.T) {
	if AirID == StoneID {
		t.Fatal("air and stone ids should differ")
	}
	if Catalog.StateFromID(AirID).Kind.Tag != "air" {
		t.Fatalf("AirID resolves to %s", Catalog.StateFromID(AirID).Kind)
	}
	if Catalog.StateFromID(StoneID).Kind.Tag != "stone" {
		t.Fatalf("StoneID resolves to %s", Catalog.StateFromID(StoneID).Kind)
	}
}
