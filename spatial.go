package arena2d

import "math"

// SpatialEntry is one broad-phase record: an owning node and its current
// world AABB. The interaction manager keeps one entry per visible,
// interactive node.
type SpatialEntry struct {
	Owner *Node
	AABB  Rect
}

// spatialHash is a uniform grid broad-phase index. Each entry is inserted
// into every cell its AABB overlaps; queries union the candidate cells and
// deduplicate.
//
// Built directly on the uniform-grid hashing technique and stdlib only —
// this is pure bucketing arithmetic with no natural third-party library to
// delegate to.
type spatialHash struct {
	cellSize float64
	cells    map[cellKey][]*SpatialEntry
	location map[*Node][]cellKey // cells each entry's owner currently occupies

	queryBuf []*SpatialEntry // reused result buffer
	seen     map[*Node]bool  // reused dedup set for queryAABB
}

type cellKey struct{ cx, cy int32 }

const defaultCellSize = 128

func newSpatialHash() *spatialHash {
	return &spatialHash{
		cellSize: defaultCellSize,
		cells:    make(map[cellKey][]*SpatialEntry),
		location: make(map[*Node][]cellKey),
		seen:     make(map[*Node]bool),
	}
}

func (h *spatialHash) cellRange(r Rect) (x0, y0, x1, y1 int32) {
	x0 = int32(math.Floor(r.X / h.cellSize))
	y0 = int32(math.Floor(r.Y / h.cellSize))
	x1 = int32(math.Floor((r.X + r.Width) / h.cellSize))
	y1 = int32(math.Floor((r.Y + r.Height) / h.cellSize))
	return
}

// insert adds or updates entry in the grid. If its owner is already
// present, the previous placement is removed first.
func (h *spatialHash) insert(entry *SpatialEntry) {
	h.remove(entry.Owner)

	x0, y0, x1, y1 := h.cellRange(entry.AABB)
	keys := make([]cellKey, 0, (x1-x0+1)*(y1-y0+1))
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			k := cellKey{cx, cy}
			h.cells[k] = append(h.cells[k], entry)
			keys = append(keys, k)
		}
	}
	h.location[entry.Owner] = keys
}

// remove drops owner's entry from every cell it occupies.
func (h *spatialHash) remove(owner *Node) {
	keys, ok := h.location[owner]
	if !ok {
		return
	}
	for _, k := range keys {
		bucket := h.cells[k]
		for i, e := range bucket {
			if e.Owner == owner {
				bucket[i] = bucket[len(bucket)-1]
				bucket = bucket[:len(bucket)-1]
				break
			}
		}
		if len(bucket) == 0 {
			delete(h.cells, k)
		} else {
			h.cells[k] = bucket
		}
	}
	delete(h.location, owner)
}

// query returns every entry whose cell contains point (px, py). The
// returned slice is reused across calls — callers must not retain it past
// the next query/queryAABB.
func (h *spatialHash) query(px, py float64) []*SpatialEntry {
	k := cellKey{int32(math.Floor(px / h.cellSize)), int32(math.Floor(py / h.cellSize))}
	h.queryBuf = h.queryBuf[:0]
	h.queryBuf = append(h.queryBuf, h.cells[k]...)
	return h.queryBuf
}

// queryAABB returns the deduplicated union of entries across every cell
// overlapping rect. Reused buffer, same retention rule as query.
func (h *spatialHash) queryAABB(rect Rect) []*SpatialEntry {
	x0, y0, x1, y1 := h.cellRange(rect)
	h.queryBuf = h.queryBuf[:0]
	for k := range h.seen {
		delete(h.seen, k)
	}
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			for _, e := range h.cells[cellKey{cx, cy}] {
				if h.seen[e.Owner] {
					continue
				}
				h.seen[e.Owner] = true
				h.queryBuf = append(h.queryBuf, e)
			}
		}
	}
	return h.queryBuf
}

// allEntries returns one SpatialEntry per currently-tracked owner,
// deduplicated across cells. Used by the hit buffer, which needs the full
// visible set rather than a spatial query.
func (h *spatialHash) allEntries() []*SpatialEntry {
	out := make([]*SpatialEntry, 0, len(h.location))
	seen := make(map[*Node]bool, len(h.location))
	for owner, keys := range h.location {
		if len(keys) == 0 || seen[owner] {
			continue
		}
		seen[owner] = true
		for _, e := range h.cells[keys[0]] {
			if e.Owner == owner {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// clear empties the grid, for a full rebuild.
func (h *spatialHash) clear() {
	for k := range h.cells {
		delete(h.cells, k)
	}
	for k := range h.location {
		delete(h.location, k)
	}
}
