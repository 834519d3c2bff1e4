package arena2d

import "sort"

// hitBuffer is a scene-resolution offscreen raster painted with a flat
// solid color per interactive node, derived from its uid, so a single
// pixel sample resolves the top-most hit without walking the tree.
//
// The offscreen raster is an ordinary Layer, resized with the scene and
// otherwise kept for the scene's lifetime; the encode/sample logic for
// pixel-perfect picking is new.
type hitBuffer struct {
	width, height int
	layer         Layer
	backendOK     bool // false once GetImageData has refused once this scene
	pixels        []byte
	pixelsValid   bool

	sortBuf []*SpatialEntry // reused scratch buffer for repaint's back-to-front sort
}

func newHitBuffer(width, height int, layer Layer) *hitBuffer {
	return &hitBuffer{width: width, height: height, layer: layer, backendOK: true}
}

func (b *hitBuffer) resize(width, height int) {
	b.width, b.height = width, height
	if b.layer != nil {
		b.layer.Resize(width, height)
	}
	b.pixelsValid = false
}

// uidColor encodes uid into an opaque RGBA color. uid must be in
// [1, 2^24-1]; 0 is reserved for "no element".
func uidColor(uid uint32) (r, g, b, a byte) {
	return byte(uid >> 16), byte(uid >> 8), byte(uid), 255
}

// decodeUID inverts uidColor. Returns 0 (no element) when the pixel's RGB
// is black; alpha is not an input here (sample checks it first).
func decodeUID(r, g, b byte) uint32 {
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// repaint redraws the buffer: every node in entries gets a flat rect filled
// with its uid color, sorted back-to-front by the same (zIndex, uid) order
// paint uses, so the top-most interactive node wins ties exactly like the
// visible picture does.
func (b *hitBuffer) repaint(entries []*SpatialEntry) {
	if b.layer == nil {
		return
	}
	if cap(b.sortBuf) < len(entries) {
		b.sortBuf = make([]*SpatialEntry, len(entries))
	}
	b.sortBuf = b.sortBuf[:len(entries)]
	copy(b.sortBuf, entries)
	sort.Slice(b.sortBuf, func(i, j int) bool {
		oi, oj := compositeOrder(b.sortBuf[i].Owner), compositeOrder(b.sortBuf[j].Owner)
		if oi != oj {
			return oi < oj
		}
		return b.sortBuf[i].Owner.UID < b.sortBuf[j].Owner.UID
	})

	ctx := b.layer.Context()
	ctx.ClearRect(0, 0, float64(b.width), float64(b.height))
	for _, e := range b.sortBuf {
		n := e.Owner
		if !n.Visible || !n.Interactive || n.Display == DisplayHidden {
			continue
		}
		r, g, bl, a := uidColor(n.UID)
		ctx.Save()
		ctx.SetTransform(n.worldMatrix[0], n.worldMatrix[1], n.worldMatrix[2], n.worldMatrix[3], n.worldMatrix[4], n.worldMatrix[5])
		ctx.SetFillColor(r, g, bl, a)
		bounds := n.LocalBounds()
		ctx.FillRect(bounds.X, bounds.Y, bounds.Width, bounds.Height)
		ctx.Restore()
	}
	b.pixelsValid = false
}

// sample reads the uid painted at scene coordinate (x, y). Returns 0 for
// out-of-bounds points, for pixels below alphaThreshold, and whenever the
// backend refuses GetImageData (caller should fall back to the geometric
// narrow phase in that case; ok reports which).
func (b *hitBuffer) sample(x, y int, alphaThreshold byte) (uid uint32, ok bool) {
	if b.layer == nil || x < 0 || y < 0 || x >= b.width || y >= b.height {
		return 0, true
	}
	if !b.backendOK {
		return 0, false
	}
	data, readOK := b.layer.Context().GetImageData(x, y, 1, 1)
	if !readOK || len(data) < 4 {
		b.backendOK = false
		debugWarn("hit buffer backend refused GetImageData, falling back to geometric hit testing")
		return 0, false
	}
	if data[3] < alphaThreshold {
		return 0, true
	}
	return decodeUID(data[0], data[1], data[2]), true
}
