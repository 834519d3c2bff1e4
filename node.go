package arena2d

// DirtyBit is a bitmask flag tracking which of a node's cached, derived
// states are stale.
type DirtyBit uint8

const (
	// DirtyTransform: local/world matrix is stale.
	DirtyTransform DirtyBit = 1 << iota
	// DirtyVisual: pixels are stale (repaint needed).
	DirtyVisual
	// DirtyLayout: geometry is stale (needs a layout resolve pass).
	DirtyLayout
	// DirtySpatial: AABB used for broad-phase hit testing is stale.
	DirtySpatial
	// DirtyOrder: sibling z-order is stale (needs a re-sort).
	DirtyOrder

	dirtyAll = DirtyTransform | DirtyVisual | DirtyLayout | DirtySpatial | DirtyOrder
)

// Drawable is the contract a leaf node's visual/geometric payload must
// satisfy. Nil means the node is a plain container with no visual output
// of its own.
type Drawable interface {
	// Paint renders this node's content. Called by the paint orchestrator
	// with the host surface already positioned at this node's world
	// transform and effective alpha.
	Paint(ctx PaintContext)
	// ContainsPoint reports whether local-space (x, y) is inside this
	// drawable's shape, used by the narrow-phase geometric hit-test
	// fallback.
	ContainsPoint(x, y float64) bool
	// MinContentWidth and MaxContentWidth report intrinsic sizing to the
	// layout resolver when a style width is "auto".
	MinContentWidth() float64
	MaxContentWidth() float64
}

// BoundsProvider is an optional extension of Drawable for geometry whose
// local bounds differ from (0, 0, Width, Height) — e.g. a shape centered on
// its pivot.
type BoundsProvider interface {
	LocalBounds() Rect
}

// Node is the fundamental scene-graph participant: transform, visual state,
// dirty bitmask, and (if non-leaf) an ordered child list. A single flat
// struct serves every node role; dynamic dispatch belongs only at the
// Drawable boundary, not in tree mechanics.
type Node struct {
	// Identity

	// ID is an opaque, user-chosen identifier, unique within the owning
	// scene's lookup scope. Empty string means "not registered by ID".
	ID string
	// UID is a monotonically assigned integer ≥ 1, stable for the node's
	// lifetime; used as the hit-buffer color and sibling sort tie-breaker.
	UID uint32
	// Name is a human-readable debug label; never used for lookups.
	Name string

	// Topology

	Parent   *Node
	children []*Node
	scene    *Scene

	// Transform (local, relative to Parent)

	X, Y                 float64
	Rotation             float64 // radians, clockwise
	ScaleX, ScaleY       float64
	SkewX, SkewY         float64 // radians
	PivotX, PivotY       float64

	// Size

	Width, Height float64

	// Style drives the layout resolver (component F) when Display == flex
	// or anchor on this node's parent.
	Style Style

	// Visual state

	Visible      bool
	Display      Display
	Alpha        float64
	ZIndex       int
	BlendMode    BlendMode
	CacheAsBitmap bool
	ClipContent  bool // meaningful for containers only

	// Interaction

	Interactive     bool
	Focusable       bool
	Draggable       bool
	DragConstraint  DragConstraint
	DragHitTestMode DragHitTestMode
	Cursor          string

	// Drawable is the leaf payload (nil for plain containers).
	Drawable Drawable

	// Scroll, when non-nil, offsets this node's children by a clamped
	// content scroll instead of drawing/hit-testing them at the node's own
	// world transform directly.
	Scroll *ScrollContainer

	// UserData is an arbitrary application-attached value.
	UserData any

	// Events is this node's named-channel emitter (component B).
	Events Emitter

	// Lifecycle hooks. nil is a valid "no hook".
	OnAdded        func(parent *Node)
	OnRemoved      func(parent *Node)
	OnSceneChanged func(newScene, oldScene *Scene)

	// Computed caches (valid iff DirtyTransform is clear)
	localMatrix Matrix
	worldMatrix Matrix

	dirty DirtyBit

	childrenSorted bool
	sortedChildren []*Node // reused buffer; stable order by (ZIndex, UID)

	cacheRaster Layer // offscreen raster for CacheAsBitmap containers
	cacheValid  bool

	disposed bool
}

// NewNode creates a detached node with its default field values: ScaleX/Y =
// 1, Alpha = 1, Visible = true, Interactive = true, every dirty bit set.
func NewNode(name string) *Node {
	n := &Node{
		Name:     name,
		UID:      nextUID(),
		ScaleX:   1,
		ScaleY:   1,
		Alpha:    1,
		Visible:  true,
		Interactive: true,
		Style:    defaultStyle(),
		dirty:    dirtyAll,
		childrenSorted: true,
	}
	return n
}

// Scene returns the scene this node's subtree is currently attached to, or
// nil if detached.
func (n *Node) Scene() *Scene { return n.scene }

// IsContainer reports whether this node owns children. Any node may own
// children — "container" is a role, not a distinct type.
func (n *Node) IsContainer() bool { return len(n.children) > 0 || n.ClipContent }

// Dirty returns the node's current dirty bitmask.
func (n *Node) Dirty() DirtyBit { return n.dirty }

// LocalBounds returns the node's local-space bounding rectangle: the
// Drawable's override if present, else (0, 0, Width, Height).
func (n *Node) LocalBounds() Rect {
	if bp, ok := n.Drawable.(BoundsProvider); ok {
		return bp.LocalBounds()
	}
	return Rect{Width: n.Width, Height: n.Height}
}

// WorldMatrix returns the cached world transform. Valid only after a frame
// resolution pass (a FrameDriver tick, which runs resolveTransforms) has
// run with DirtyTransform clear.
func (n *Node) WorldMatrix() Matrix { return n.worldMatrix }

// LocalMatrix returns the cached local transform.
func (n *Node) LocalMatrix() Matrix { return n.localMatrix }

// WorldAABB returns the world-space AABB of LocalBounds under WorldMatrix.
func (n *Node) WorldAABB() Rect {
	return transformAABB(n.worldMatrix, n.LocalBounds())
}

// WorldToLocal converts a world-space point into this node's local space.
// Returns (0, 0) if the world matrix is singular — hit-testing treats this
// as a miss, since a degenerate point cannot plausibly fall inside any
// node's local bounds.
func (n *Node) WorldToLocal(wx, wy float64) (float64, float64) {
	inv, ok := n.worldMatrix.Invert()
	if !ok {
		return 0, 0
	}
	return inv.TransformPoint(wx, wy)
}

// LocalToWorld converts a local-space point to world space.
func (n *Node) LocalToWorld(lx, ly float64) (float64, float64) {
	return n.worldMatrix.TransformPoint(lx, ly)
}

// --- Dirty bit setters ---

func (n *Node) setSelf(bits DirtyBit) {
	n.dirty |= bits
}

func (n *Node) markParentLayout() {
	if n.Parent != nil {
		n.Parent.setSelf(DirtyLayout)
	}
}

func (n *Node) markParentOrder() {
	if n.Parent != nil {
		n.Parent.setSelf(DirtyOrder)
	}
}

// cascadeTransformDirty sets DirtyTransform on every descendant of n,
// eagerly, so the bit is directly observable without running a frame. It
// only ever sets DirtyTransform — it never re-bubbles a cache invalidation
// per child, since one bubble from the mutating node already covers the
// whole subtree.
func cascadeTransformDirty(n *Node) {
	for _, c := range n.children {
		c.dirty |= DirtyTransform
		cascadeTransformDirty(c)
	}
}

// bubbleCacheInvalidate walks up from n to the nearest CacheAsBitmap
// ancestor and marks its Visual bit. This is the only cross-component
// action a mutation setter performs.
func bubbleCacheInvalidate(n *Node) {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.CacheAsBitmap {
			p.setSelf(DirtyVisual)
			return
		}
	}
}

func markTransformDirty(n *Node) {
	n.setSelf(DirtyTransform)
	cascadeTransformDirty(n)
	bubbleCacheInvalidate(n)
	if n.scene != nil {
		n.scene.markSpatialDirty(n)
	}
}

// SetPosition sets X and Y. No-op (no dirty bits set) if the values are
// unchanged.
func (n *Node) SetPosition(x, y float64) {
	if n.X == x && n.Y == y {
		return
	}
	n.X, n.Y = x, y
	markTransformDirty(n)
}

// SetRotation sets the rotation in radians.
func (n *Node) SetRotation(r float64) {
	if n.Rotation == r {
		return
	}
	n.Rotation = r
	markTransformDirty(n)
}

// SetScale sets ScaleX and ScaleY.
func (n *Node) SetScale(sx, sy float64) {
	if n.ScaleX == sx && n.ScaleY == sy {
		return
	}
	n.ScaleX, n.ScaleY = sx, sy
	markTransformDirty(n)
}

// SetSkew sets SkewX and SkewY in radians.
func (n *Node) SetSkew(sx, sy float64) {
	if n.SkewX == sx && n.SkewY == sy {
		return
	}
	n.SkewX, n.SkewY = sx, sy
	markTransformDirty(n)
}

// SetPivot sets PivotX and PivotY.
func (n *Node) SetPivot(px, py float64) {
	if n.PivotX == px && n.PivotY == py {
		return
	}
	n.PivotX, n.PivotY = px, py
	markTransformDirty(n)
}

// SetSize sets Width and Height. Marks Visual on self and Layout on the
// parent.
func (n *Node) SetSize(w, h float64) {
	if n.Width == w && n.Height == h {
		return
	}
	n.Width, n.Height = w, h
	n.setSelf(DirtyVisual)
	n.markParentLayout()
}

// SetAlpha clamps a to [0, 1] and, if changed, marks Visual on self and
// bubbles to the nearest cache-as-bitmap ancestor.
func (n *Node) SetAlpha(a float64) {
	a = clamp01(a)
	if n.Alpha == a {
		return
	}
	n.Alpha = a
	n.setSelf(DirtyVisual)
	bubbleCacheInvalidate(n)
}

// SetBlendMode sets the blend-mode token.
func (n *Node) SetBlendMode(b BlendMode) {
	if n.BlendMode == b {
		return
	}
	n.BlendMode = b
	n.setSelf(DirtyVisual)
	bubbleCacheInvalidate(n)
}

// SetCacheAsBitmap toggles the cache-as-bitmap flag.
func (n *Node) SetCacheAsBitmap(v bool) {
	if n.CacheAsBitmap == v {
		return
	}
	n.CacheAsBitmap = v
	n.cacheValid = false
	n.setSelf(DirtyVisual)
	bubbleCacheInvalidate(n)
}

// SetVisible sets Visible. Marks Visual on self and Layout on the parent.
func (n *Node) SetVisible(v bool) {
	if n.Visible == v {
		return
	}
	n.Visible = v
	n.setSelf(DirtyVisual)
	n.markParentLayout()
	if n.scene != nil {
		n.scene.markSpatialDirty(n)
	}
}

// SetDisplay sets Display. Marks Visual only — display does not affect
// layout.
func (n *Node) SetDisplay(d Display) {
	if n.Display == d {
		return
	}
	n.Display = d
	n.setSelf(DirtyVisual)
}

// SetZIndex sets ZIndex. Marks Visual on self and Order on the parent.
func (n *Node) SetZIndex(z int) {
	if n.ZIndex == z {
		return
	}
	n.ZIndex = z
	n.setSelf(DirtyVisual)
	n.markParentOrder()
}

// MarkStyleDirty marks Layout on self, for use after bulk style field
// mutation.
func (n *Node) MarkStyleDirty() {
	n.setSelf(DirtyLayout)
	if n.scene != nil {
		n.scene.markLayoutDirty()
	}
}

// clearBit clears bits from the dirty mask, used by the frame resolution
// and layout passes once they have consumed a bit.
func (n *Node) clearBit(bits DirtyBit) {
	n.dirty &^= bits
}

// --- Lifecycle ---

// Destroy detaches this node from its parent (no-op if already detached),
// then recursively disposes the whole subtree: caches cleared, listeners
// released, IsDisposed set. Setters called afterwards are not rejected;
// only AddChild/AddChildAt check the flag, and only in debug mode.
func (n *Node) Destroy() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.destroy()
}

func (n *Node) destroy() {
	n.disposed = true
	for _, c := range n.children {
		c.Parent = nil
		c.destroy()
	}
	n.children = nil
	n.sortedChildren = nil
	n.Parent = nil
	n.Drawable = nil
	n.UserData = nil
	n.Events = Emitter{}
	n.cacheRaster = nil
	n.setScene(nil)
}

// IsDisposed reports whether Destroy has been called on this node.
func (n *Node) IsDisposed() bool { return n.disposed }

// setScene propagates a scene reference through the subtree rooted at n,
// firing OnSceneChanged on every node whose scene actually changes.
func (n *Node) setScene(s *Scene) {
	old := n.scene
	if old == s {
		return
	}
	n.scene = s
	if n.OnSceneChanged != nil {
		n.OnSceneChanged(s, old)
	}
	for _, c := range n.children {
		c.setScene(s)
	}
}
