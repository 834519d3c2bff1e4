package arena2d

// Scene is the top-level object that owns the node tree, the id/uid
// element index, the shared hit buffer, the frame driver, and the set of
// views rendering it.
//
// Scene is the one root-owning, tree-registering top-level type, built
// around a view-list-plus-per-view-InteractionManager design rather than a
// single fixed camera with a flat handler registry, and given an explicit
// id/uid lookup index so nodes can be found by a caller-assigned name
// instead of only by the Go pointer already in hand.
type Scene struct {
	root *Node

	Width, Height float64

	// AlphaThreshold is the minimum alpha (0-255) the hit buffer requires
	// at a sampled pixel for it to count as a hit; default 10.
	AlphaThreshold byte

	hitBuf *hitBuffer

	views []*View

	Frame *FrameDriver

	nodesByID  map[string]*Node
	nodesByUID map[uint32]*Node

	spatialDirty bool

	renderBuf []RenderCommand
}

// NewScene creates an empty scene with a default-constructed root
// container, sized to (width, height), with a nil (backend-less) hit
// buffer layer until SetHitBufferLayer is called.
func NewScene(width, height float64) *Scene {
	root := NewNode("root")
	root.Width, root.Height = width, height
	s := &Scene{
		root:           root,
		Width:          width,
		Height:         height,
		AlphaThreshold: 10,
		nodesByID:      make(map[string]*Node),
		nodesByUID:     make(map[uint32]*Node),
	}
	s.hitBuf = newHitBuffer(int(width), int(height), nil)
	s.Frame = NewFrameDriver(s)
	root.setScene(s)
	s.registerNode(root)
	return s
}

// SetHitBufferLayer attaches the backend-provided offscreen raster the hit
// buffer paints into. Picking falls back to the geometric narrow phase
// until this is called.
func (s *Scene) SetHitBufferLayer(layer Layer) {
	s.hitBuf = newHitBuffer(int(s.Width), int(s.Height), layer)
}

// Root returns the scene's root container.
func (s *Scene) Root() *Node { return s.root }

// AddView attaches a view, giving it its own InteractionManager and
// triggering a first spatial-index build.
func (s *Scene) AddView(v *View) {
	v.scene = s
	v.Interaction = newInteractionManager(s)
	v.Interaction.rebuildSpatialIndex()
	s.views = append(s.views, v)
}

// RemoveView detaches a view.
func (s *Scene) RemoveView(v *View) {
	for i, existing := range s.views {
		if existing == v {
			s.views = append(s.views[:i], s.views[i+1:]...)
			return
		}
	}
}

// Views returns the scene's attached views.
func (s *Scene) Views() []*View { return s.views }

// GetElementByID looks up a node by its registered ID, or nil.
func (s *Scene) GetElementByID(id string) *Node { return s.nodesByID[id] }

// GetElementByUID looks up a node by its UID, or nil.
func (s *Scene) GetElementByUID(uid uint32) *Node { return s.nodesByUID[uid] }

// registerNode indexes n (and, transitively, every descendant already in
// its subtree) by ID/UID. Called by AddChild and NewScene.
func (s *Scene) registerNode(n *Node) {
	s.nodesByUID[n.UID] = n
	if n.ID != "" {
		s.nodesByID[n.ID] = n
	}
	for _, c := range n.children {
		s.registerNode(c)
	}
	s.spatialDirty = true
}

// unregisterTree removes n and its whole subtree from the id/uid index.
// Called by RemoveChild before the subtree's scene pointer is cleared.
func (s *Scene) unregisterTree(n *Node) {
	delete(s.nodesByUID, n.UID)
	if n.ID != "" {
		delete(s.nodesByID, n.ID)
	}
	for _, c := range n.children {
		s.unregisterTree(c)
	}
	s.spatialDirty = true
}

// SetID assigns n's ID within this scene's lookup scope, updating the
// index. Passing "" clears any existing registration.
func (s *Scene) SetID(n *Node, id string) {
	if n.ID != "" {
		delete(s.nodesByID, n.ID)
	}
	n.ID = id
	if id != "" {
		s.nodesByID[id] = n
	}
}

// markSpatialDirty flags that n's broad-phase placement needs refreshing
// before the next hit test. Called by Node's dirty-bit setters.
func (s *Scene) markSpatialDirty(n *Node) {
	s.spatialDirty = true
}

// markLayoutDirty flags that at least one node's Style changed outside the
// normal transform/size setters. Currently a no-op beyond the bit already
// set on the node itself — kept as the hook Node.MarkStyleDirty calls so a
// future scheduler (e.g. an async layout worker) has a scene-level signal
// to observe.
func (s *Scene) markLayoutDirty() {}

// refreshSpatialIndexes rebuilds every view's broad-phase index and
// repaints the shared hit buffer. Called once per frame by the FrameDriver
// when spatialDirty is set.
func (s *Scene) refreshSpatialIndexes() {
	for _, v := range s.views {
		v.Interaction.rebuildSpatialIndex()
	}
	if len(s.views) > 0 {
		s.hitBuf.repaint(s.views[0].Interaction.spatial.allEntries())
	}
}

// paintAll resolves and submits the paint command list for every attached
// view in turn, repainting any CacheAsBitmap containers whose Visual bit
// is dirty along the way.
func (s *Scene) paintAll() {
	var walk func(n *Node)
	walk = func(n *Node) {
		if n.CacheAsBitmap && (!n.cacheValid || n.dirty&DirtyVisual != 0) && n.cacheRaster != nil {
			paintCacheTarget(n, n.cacheRaster)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(s.root)

	for _, v := range s.views {
		v.Update(0)
		if v.Layer == nil {
			continue
		}
		sceneRect := v.VisibleBounds()
		s.renderBuf = resolvePaint(s.root, v.ViewMatrix(), sceneRect, s.renderBuf)
		submit(v.Layer.Context(), s.renderBuf)
	}
}

// Resize changes the scene's logical size, resizes the hit buffer to
// match, and marks the root subtree for a fresh layout + transform pass.
func (s *Scene) Resize(width, height float64) {
	s.Width, s.Height = width, height
	s.root.Width, s.root.Height = width, height
	s.hitBuf.resize(int(width), int(height))
	s.root.setSelf(DirtyLayout | DirtyTransform)
	cascadeTransformDirty(s.root)
}

// Destroy tears down every view and disposes the whole node tree.
func (s *Scene) Destroy() {
	s.Frame.Stop()
	s.views = nil
	s.root.destroy()
	s.nodesByID = make(map[string]*Node)
	s.nodesByUID = make(map[uint32]*Node)
}
