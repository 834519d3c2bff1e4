package arena2d

import "testing"

func TestSpatialHashInsertAndQueryPoint(t *testing.T) {
	h := newSpatialHash()
	owner := NewNode("owner")
	h.insert(&SpatialEntry{Owner: owner, AABB: Rect{X: 10, Y: 10, Width: 20, Height: 20}})

	hits := h.query(15, 15)
	if len(hits) != 1 || hits[0].Owner != owner {
		t.Fatalf("expected to find owner at (15,15), got %v", hits)
	}

	miss := h.query(1000, 1000)
	if len(miss) != 0 {
		t.Fatalf("expected no hits far from the entry, got %v", miss)
	}
}

func TestSpatialHashInsertTwiceMovesEntry(t *testing.T) {
	h := newSpatialHash()
	owner := NewNode("owner")
	h.insert(&SpatialEntry{Owner: owner, AABB: Rect{X: 0, Y: 0, Width: 1, Height: 1}})
	h.insert(&SpatialEntry{Owner: owner, AABB: Rect{X: 1000, Y: 1000, Width: 1, Height: 1}})

	if hits := h.query(0, 0); len(hits) != 0 {
		t.Fatalf("expected the old location to be vacated, got %v", hits)
	}
	if hits := h.query(1000, 1000); len(hits) != 1 {
		t.Fatalf("expected the new location to hold the entry, got %v", hits)
	}
}

func TestSpatialHashRemove(t *testing.T) {
	h := newSpatialHash()
	owner := NewNode("owner")
	h.insert(&SpatialEntry{Owner: owner, AABB: Rect{X: 0, Y: 0, Width: 5, Height: 5}})
	h.remove(owner)

	if hits := h.query(0, 0); len(hits) != 0 {
		t.Fatalf("expected no hits after remove, got %v", hits)
	}
	if len(h.allEntries()) != 0 {
		t.Fatal("expected allEntries to be empty after remove")
	}
}

func TestSpatialHashQueryAABBDedupesAcrossCells(t *testing.T) {
	h := newSpatialHash()
	owner := NewNode("owner")
	// An AABB spanning several cells (cellSize is 128) must still produce
	// exactly one result for a query that also spans those cells.
	h.insert(&SpatialEntry{Owner: owner, AABB: Rect{X: 0, Y: 0, Width: 300, Height: 10}})

	hits := h.queryAABB(Rect{X: 0, Y: 0, Width: 300, Height: 10})
	if len(hits) != 1 {
		t.Fatalf("expected exactly one deduplicated hit, got %d", len(hits))
	}
}

func TestSpatialHashAllEntriesOnePerOwner(t *testing.T) {
	h := newSpatialHash()
	a := NewNode("a")
	b := NewNode("b")
	h.insert(&SpatialEntry{Owner: a, AABB: Rect{X: 0, Y: 0, Width: 300, Height: 300}})
	h.insert(&SpatialEntry{Owner: b, AABB: Rect{X: 1000, Y: 1000, Width: 5, Height: 5}})

	all := h.allEntries()
	if len(all) != 2 {
		t.Fatalf("expected one entry per owner (2 total), got %d", len(all))
	}
}

func TestSpatialHashClear(t *testing.T) {
	h := newSpatialHash()
	owner := NewNode("owner")
	h.insert(&SpatialEntry{Owner: owner, AABB: Rect{X: 0, Y: 0, Width: 5, Height: 5}})
	h.clear()

	if len(h.cells) != 0 || len(h.location) != 0 {
		t.Fatal("expected clear to empty both maps")
	}
	if hits := h.query(0, 0); len(hits) != 0 {
		t.Fatalf("expected no hits after clear, got %v", hits)
	}
}
