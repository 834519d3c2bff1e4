package arena2d

import "testing"

// fakePaintContext is a minimal PaintContext double that records FillRect
// calls and returns a programmable pixel for GetImageData, enough to drive
// hitBuffer.repaint/sample without a real graphics backend.
type fakePaintContext struct {
	lastFillColor [4]byte
	fillCount     int
	pixelData     []byte
	pixelOK       bool

	lastUID        uint32
	onFillRect     func()
	onSetFillColor func(r, g, b byte)

	log []string // optional call-order trace for submit/clip nesting tests
}

func (f *fakePaintContext) logEvent(s string) {
	if f.log != nil {
		f.log = append(f.log, s)
	}
}

func (f *fakePaintContext) Save()                                                          { f.logEvent("save") }
func (f *fakePaintContext) Restore()                                                       { f.logEvent("restore") }
func (f *fakePaintContext) SetTransform(a, b, c, d, tx, ty float64)                          {}
func (f *fakePaintContext) SetGlobalAlpha(alpha float64)                                     {}
func (f *fakePaintContext) SetCompositeOperation(mode BlendMode)                             {}
func (f *fakePaintContext) SetFillColor(r, g, b, a byte) {
	f.lastFillColor = [4]byte{r, g, b, a}
	if f.onSetFillColor != nil {
		f.onSetFillColor(r, g, b)
	}
}
func (f *fakePaintContext) SetStrokeColor(r, g, b, a byte) {}
func (f *fakePaintContext) ClearRect(x, y, w, h float64)   {}
func (f *fakePaintContext) FillRect(x, y, w, h float64) {
	f.fillCount++
	if f.onFillRect != nil {
		f.onFillRect()
	}
}
func (f *fakePaintContext) StrokeRect(x, y, w, h float64)                                    {}
func (f *fakePaintContext) BeginPath()                                                       {}
func (f *fakePaintContext) MoveTo(x, y float64)                                              {}
func (f *fakePaintContext) LineTo(x, y float64)                                              {}
func (f *fakePaintContext) Rect(x, y, w, h float64)                                          {}
func (f *fakePaintContext) RoundRect(x, y, w, h, radius float64)                             {}
func (f *fakePaintContext) Arc(cx, cy, radius, startAngle, endAngle float64)                 {}
func (f *fakePaintContext) Ellipse(cx, cy, rx, ry, rotation, startAngle, endAngle float64)   {}
func (f *fakePaintContext) QuadraticCurveTo(cpx, cpy, x, y float64)                          {}
func (f *fakePaintContext) BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64)               {}
func (f *fakePaintContext) ClosePath()                                                       {}
func (f *fakePaintContext) Fill()                                                            {}
func (f *fakePaintContext) Stroke()                                                          {}
func (f *fakePaintContext) Clip()                                                            { f.logEvent("clip") }
func (f *fakePaintContext) DrawImage(img Image, sx, sy, sw, sh, dx, dy, dw, dh float64)      {}
func (f *fakePaintContext) MeasureText(text string) TextMetrics                              { return TextMetrics{} }
func (f *fakePaintContext) FillText(text string, x, y float64)                               {}
func (f *fakePaintContext) GetImageData(x, y, w, h int) (data []byte, ok bool) {
	return f.pixelData, f.pixelOK
}

type fakeLayer struct {
	ctx          *fakePaintContext
	w, h         int
	resizeCalled bool
}

func (l *fakeLayer) Size() (w, h int)  { return l.w, l.h }
func (l *fakeLayer) Resize(w, h int)   { l.w, l.h = w, h; l.resizeCalled = true }
func (l *fakeLayer) Context() PaintContext { return l.ctx }
func (l *fakeLayer) AsImage() Image    { return nil }
func (l *fakeLayer) Dispose()          {}

func TestUIDColorRoundTrip(t *testing.T) {
	uid := uint32(0x123456)
	r, g, b, a := uidColor(uid)
	if a != 255 {
		t.Fatalf("expected uidColor to be fully opaque, got a=%v", a)
	}
	if got := decodeUID(r, g, b); got != uid {
		t.Fatalf("expected decodeUID to invert uidColor, got %#x want %#x", got, uid)
	}
}

func TestDecodeUIDZeroMeansNoElement(t *testing.T) {
	if got := decodeUID(0, 0, 0); got != 0 {
		t.Fatalf("expected transparent/black to decode to uid 0, got %v", got)
	}
}

func TestHitBufferSampleNilLayerAlwaysMisses(t *testing.T) {
	b := newHitBuffer(100, 100, nil)
	uid, ok := b.sample(10, 10, 10)
	if uid != 0 || !ok {
		t.Fatalf("expected a nil-layer buffer to report (0, true), got (%v, %v)", uid, ok)
	}
}

func TestHitBufferSampleOutOfBoundsMisses(t *testing.T) {
	fake := &fakePaintContext{pixelOK: true, pixelData: []byte{1, 2, 3, 255}}
	b := newHitBuffer(100, 100, &fakeLayer{ctx: fake, w: 100, h: 100})
	uid, ok := b.sample(-1, 0, 10)
	if uid != 0 || !ok {
		t.Fatalf("expected an out-of-bounds sample to report (0, true), got (%v, %v)", uid, ok)
	}
	uid, ok = b.sample(200, 0, 10)
	if uid != 0 || !ok {
		t.Fatalf("expected an out-of-bounds sample to report (0, true), got (%v, %v)", uid, ok)
	}
}

func TestHitBufferSampleBelowAlphaThresholdMisses(t *testing.T) {
	fake := &fakePaintContext{pixelOK: true, pixelData: []byte{10, 20, 30, 5}}
	b := newHitBuffer(100, 100, &fakeLayer{ctx: fake, w: 100, h: 100})
	uid, ok := b.sample(5, 5, 10)
	if uid != 0 || !ok {
		t.Fatalf("expected a below-threshold alpha to miss, got (%v, %v)", uid, ok)
	}
}

func TestHitBufferSampleDecodesUIDAboveThreshold(t *testing.T) {
	r, g, bl, _ := uidColor(7)
	fake := &fakePaintContext{pixelOK: true, pixelData: []byte{r, g, bl, 255}}
	b := newHitBuffer(100, 100, &fakeLayer{ctx: fake, w: 100, h: 100})
	uid, ok := b.sample(5, 5, 10)
	if !ok || uid != 7 {
		t.Fatalf("expected a decoded uid of 7, got (%v, %v)", uid, ok)
	}
}

func TestHitBufferSampleBackendRefusalFallsBack(t *testing.T) {
	fake := &fakePaintContext{pixelOK: false}
	b := newHitBuffer(100, 100, &fakeLayer{ctx: fake, w: 100, h: 100})
	uid, ok := b.sample(5, 5, 10)
	if uid != 0 || ok {
		t.Fatalf("expected a refused read to report (0, false), got (%v, %v)", uid, ok)
	}
	if b.backendOK {
		t.Fatal("expected backendOK to latch false after a refusal")
	}
}

func TestHitBufferRepaintSkipsNonInteractiveNodes(t *testing.T) {
	fake := &fakePaintContext{}
	layer := &fakeLayer{ctx: fake, w: 100, h: 100}
	b := newHitBuffer(100, 100, layer)

	visible := newHitTestNode("visible", 0, 0, 10, 10)
	hidden := newHitTestNode("hidden", 0, 0, 10, 10)
	hidden.Interactive = false

	b.repaint([]*SpatialEntry{
		{Owner: visible, AABB: visible.WorldAABB()},
		{Owner: hidden, AABB: hidden.WorldAABB()},
	})

	if fake.fillCount != 1 {
		t.Fatalf("expected exactly one FillRect for the single interactive node, got %d", fake.fillCount)
	}
}

func TestHitBufferRepaintOrdersEntriesByCompositeOrder(t *testing.T) {
	fake := &fakePaintContext{}
	layer := &fakeLayer{ctx: fake, w: 100, h: 100}
	b := newHitBuffer(100, 100, layer)

	back := newHitTestNode("back", 0, 0, 10, 10)
	back.SetZIndex(1)
	front := newHitTestNode("front", 0, 0, 10, 10)
	front.SetZIndex(5)

	var paintOrder []uint32
	fake.onFillRect = func() { paintOrder = append(paintOrder, fake.lastUID) }
	fake.onSetFillColor = func(r, g, bl byte) { fake.lastUID = decodeUID(r, g, bl) }

	// Entries arrive in the opposite of paint order to prove repaint sorts
	// them rather than trusting caller order.
	b.repaint([]*SpatialEntry{
		{Owner: front, AABB: front.WorldAABB()},
		{Owner: back, AABB: back.WorldAABB()},
	})

	if len(paintOrder) != 2 || paintOrder[0] != back.UID || paintOrder[1] != front.UID {
		t.Fatalf("expected back (zIndex 1) painted before front (zIndex 5), got uid order %v (back=%v front=%v)", paintOrder, back.UID, front.UID)
	}
}

func TestHitBufferResizePropagatesToLayer(t *testing.T) {
	fake := &fakePaintContext{}
	layer := &fakeLayer{ctx: fake, w: 100, h: 100}
	b := newHitBuffer(100, 100, layer)
	b.resize(200, 150)

	if !layer.resizeCalled || layer.w != 200 || layer.h != 150 {
		t.Fatalf("expected resize to propagate to the layer, got %v %vx%v", layer.resizeCalled, layer.w, layer.h)
	}
	if b.pixelsValid {
		t.Fatal("expected resize to invalidate cached pixels")
	}
}
