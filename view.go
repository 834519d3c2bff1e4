package arena2d

import "math"

// View is a camera into a Scene: position, zoom, rotation, device pixel
// ratio, and an independent viewport rectangle. Every View owns its own
// InteractionManager (and therefore its own broad-phase spatial index),
// since two views of the same scene can disagree about which node is
// "under the pointer" at a given screen coordinate.
//
// The position/zoom/rotation fields, Follow/bounds-clamp logic, and
// view-matrix composition follow a typical 2D camera design; tweened
// ScrollTo/ScrollToTile transitions are dropped (see DESIGN.md — no
// animation dependency survives in this stack) in favor of plain position
// assignment, with DPR, named render layers, and a per-view
// InteractionManager added on top.
type View struct {
	Name string

	// PanX and PanY are the world-space position this view centers on.
	PanX, PanY float64
	// Zoom is the scale factor (1.0 = no zoom, >1 = zoom in, <1 = zoom out).
	Zoom float64
	// Rotation is the view rotation in radians (clockwise).
	Rotation float64
	// Viewport is the screen-space rectangle this view renders into.
	Viewport Rect
	// DPR is the device pixel ratio, multiplied into the zoom scale by
	// ViewMatrix. The view does not size its backing Layer; whoever
	// supplies the Layer chooses its resolution.
	DPR float64

	CullEnabled bool

	// BoundsEnabled clamps the view position so the visible area stays
	// within Bounds.
	BoundsEnabled bool
	Bounds        Rect

	// Layer is this view's primary backing render target, painted with the
	// full scene. AddLayer registers additional named rasters a host
	// application can composite separately (e.g. a UI layer painted with
	// its own sub-root).
	Layer Layer

	Interaction *InteractionManager

	// Projection optionally overrides the default view matrix composition
	// (e.g. an isometric or custom lens); nil uses the standard
	// translate/zoom/rotate composition below.
	Projection func(v *View) Matrix

	layers     map[string]Layer
	layerOrder []string

	projections map[string]Projection

	scene *Scene

	followTarget  *Node
	followOffsetX float64
	followOffsetY float64
	followLerp    float64

	viewMatrix    Matrix
	invViewMatrix Matrix
	dirty         bool
}

// NewView creates a View with default values: no zoom, DPR 1, culling on.
func NewView(name string, viewport Rect) *View {
	return &View{
		Name:        name,
		Zoom:        1.0,
		DPR:         1.0,
		Viewport:    viewport,
		CullEnabled: true,
		dirty:       true,
	}
}

// SetZoom sets the zoom factor, floored to 0.01 as the minimum positive
// scale the view matrix tolerates without becoming visually degenerate.
func (v *View) SetZoom(zoom float64) {
	if zoom < 0.01 {
		zoom = 0.01
	}
	if v.Zoom == zoom {
		return
	}
	v.Zoom = zoom
	v.dirty = true
}

// AddLayer registers a named render target under this view. Returns
// ErrLayerExists if name is already registered.
func (v *View) AddLayer(name string, layer Layer) error {
	if v.layers == nil {
		v.layers = make(map[string]Layer)
	}
	if _, exists := v.layers[name]; exists {
		return ErrLayerExists
	}
	v.layers[name] = layer
	v.layerOrder = append(v.layerOrder, name)
	return nil
}

// RemoveLayer drops a named layer. Returns ErrLayerNotFound if name isn't
// registered.
func (v *View) RemoveLayer(name string) error {
	if _, exists := v.layers[name]; !exists {
		return ErrLayerNotFound
	}
	delete(v.layers, name)
	for i, n := range v.layerOrder {
		if n == name {
			v.layerOrder = append(v.layerOrder[:i], v.layerOrder[i+1:]...)
			break
		}
	}
	return nil
}

// NamedLayer returns a named layer, or ErrLayerNotFound.
func (v *View) NamedLayer(name string) (Layer, error) {
	l, exists := v.layers[name]
	if !exists {
		return nil, ErrLayerNotFound
	}
	return l, nil
}

// Layers returns the view's named layers in registration order. The
// caller must not mutate the returned slice.
func (v *View) Layers() []string { return v.layerOrder }

// Projection is a named source-rect -> dest-rect remapping of the scene,
// letting one view paint the same content into more than one screen
// region (e.g. a minimap projecting the whole scene into a small corner
// rect).
type Projection struct {
	Name   string
	Source Rect
	Dest   Rect
}

// AddProjection registers a named projection. A later call with the same
// name replaces it.
func (v *View) AddProjection(p Projection) {
	if v.projections == nil {
		v.projections = make(map[string]Projection)
	}
	v.projections[p.Name] = p
}

// RemoveProjection drops a named projection.
func (v *View) RemoveProjection(name string) {
	delete(v.projections, name)
}

// ProjectionMatrix returns the matrix mapping a point in the projection's
// Source rect (scene/world space) to its Dest rect (screen space), or
// false if name isn't registered or its Source rect has zero width or height.
func (v *View) ProjectionMatrix(name string) (Matrix, bool) {
	p, ok := v.projections[name]
	if !ok || p.Source.Width == 0 || p.Source.Height == 0 {
		return Identity, false
	}
	sx := p.Dest.Width / p.Source.Width
	sy := p.Dest.Height / p.Source.Height
	m := Translate(p.Dest.X, p.Dest.Y)
	m = m.Multiply(Scale(sx, sy))
	m = m.Multiply(Translate(-p.Source.X, -p.Source.Y))
	return m, true
}

// Follow makes the view track a target node with the given offset and lerp
// factor. A lerp of 1.0 snaps immediately; lower values give smoother
// following.
func (v *View) Follow(node *Node, offsetX, offsetY, lerp float64) {
	v.followTarget = node
	v.followOffsetX = offsetX
	v.followOffsetY = offsetY
	v.followLerp = lerp
}

// Unfollow stops tracking the current target node.
func (v *View) Unfollow() {
	v.followTarget = nil
}

// SetBounds enables view bounds clamping.
func (v *View) SetBounds(bounds Rect) {
	v.BoundsEnabled = true
	v.Bounds = bounds
}

// ClearBounds disables view bounds clamping.
func (v *View) ClearBounds() {
	v.BoundsEnabled = false
}

// ClampToBounds immediately clamps the view position so the visible area
// stays within Bounds. No-op if BoundsEnabled is false.
func (v *View) ClampToBounds() {
	if v.BoundsEnabled {
		v.clampToBounds()
	}
}

// Update advances follow tracking and bounds clamping. Called once per
// frame by the owning Scene before paint.
func (v *View) Update(dt float64) {
	prevX, prevY, prevZoom, prevRot := v.PanX, v.PanY, v.Zoom, v.Rotation

	if v.followTarget != nil && !v.followTarget.IsDisposed() {
		targetX := v.followTarget.worldMatrix[4] + v.followOffsetX
		targetY := v.followTarget.worldMatrix[5] + v.followOffsetY
		v.PanX += (targetX - v.PanX) * v.followLerp
		v.PanY += (targetY - v.PanY) * v.followLerp
	}

	if v.BoundsEnabled {
		v.clampToBounds()
	}

	if v.PanX != prevX || v.PanY != prevY || v.Zoom != prevZoom || v.Rotation != prevRot {
		v.dirty = true
	}
}

func (v *View) clampToBounds() {
	halfW := v.Viewport.Width / (2 * v.Zoom)
	halfH := v.Viewport.Height / (2 * v.Zoom)

	minX := v.Bounds.X + halfW
	maxX := v.Bounds.X + v.Bounds.Width - halfW
	minY := v.Bounds.Y + halfH
	maxY := v.Bounds.Y + v.Bounds.Height - halfH

	if minX > maxX {
		v.PanX = v.Bounds.X + v.Bounds.Width/2
	} else {
		v.PanX = math.Max(minX, math.Min(v.PanX, maxX))
	}
	if minY > maxY {
		v.PanY = v.Bounds.Y + v.Bounds.Height/2
	} else {
		v.PanY = math.Max(minY, math.Min(v.PanY, maxY))
	}
}

// ViewMatrix returns the cached world-to-screen matrix, recomposing it if
// dirty: Translate(cx, cy) * Scale(zoom*DPR) * Rotate(-rotation) *
// Translate(-X, -Y), or the result of Projection when set.
func (v *View) ViewMatrix() Matrix {
	if !v.dirty {
		return v.viewMatrix
	}
	v.dirty = false

	if v.Projection != nil {
		v.viewMatrix = v.Projection(v)
	} else {
		dpr := v.DPR
		if dpr == 0 {
			dpr = 1
		}
		cx := v.Viewport.X + v.Viewport.Width/2
		cy := v.Viewport.Y + v.Viewport.Height/2
		m := Translate(cx, cy)
		m = m.Multiply(Scale(v.Zoom*dpr, v.Zoom*dpr))
		m = m.Multiply(Rotate(-v.Rotation))
		m = m.Multiply(Translate(-v.PanX, -v.PanY))
		v.viewMatrix = m
	}
	if inv, ok := v.viewMatrix.Invert(); ok {
		v.invViewMatrix = inv
	}
	return v.viewMatrix
}

// WorldToScreen converts world coordinates to screen coordinates.
func (v *View) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return v.ViewMatrix().TransformPoint(wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (v *View) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	v.ViewMatrix()
	return v.invViewMatrix.TransformPoint(sx, sy)
}

// VisibleBounds returns the axis-aligned world-space rectangle this view
// currently sees.
func (v *View) VisibleBounds() Rect {
	v.ViewMatrix()
	inv := v.invViewMatrix

	vx, vy := v.Viewport.X, v.Viewport.Y
	vr, vb := vx+v.Viewport.Width, vy+v.Viewport.Height

	x0, y0 := inv.TransformPoint(vx, vy)
	x1, y1 := inv.TransformPoint(vr, vy)
	x2, y2 := inv.TransformPoint(vr, vb)
	x3, y3 := inv.TransformPoint(vx, vb)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MarkDirty forces recomputation of the view matrix next access.
func (v *View) MarkDirty() {
	v.dirty = true
}
