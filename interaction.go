package arena2d

import "math"

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch contacts

// PointerEvent is the payload delivered on pointerdown/up/move/enter/leave/
// click/dblclick/wheel channels.
type PointerEvent struct {
	Target            *Node
	PointerID         int
	WorldX, WorldY    float64
	LocalX, LocalY    float64
	Button            MouseButton
	Modifiers         KeyModifiers
	WheelDeltaX       float64
	WheelDeltaY       float64
	propagationStopped bool
}

// StopPropagation halts bubbling for this dispatch after the current
// handler returns.
func (e *PointerEvent) StopPropagation() { e.propagationStopped = true }

// KeyEvent is the payload delivered on keydown/keyup.
type KeyEvent struct {
	Key                string
	Modifiers          KeyModifiers
	propagationStopped bool
}

func (e *KeyEvent) StopPropagation() { e.propagationStopped = true }

// FocusEvent is the payload delivered on focus/blur.
type FocusEvent struct {
	Node *Node
}

type pointerState struct {
	down      bool
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	hitNode   *Node
	hoverNode *Node
	button    MouseButton
}

// InteractionManager owns one view's broad-phase spatial index, per-pointer
// dispatch state, pointer capture table, and keyboard focus. The per-pointer
// state machine and capture table generalize a scene-level callback
// registry into bubbling dispatch through each Node's own Emitter.
type InteractionManager struct {
	scene *Scene

	spatial  *spatialHash
	captured [maxPointers]*Node
	pointers [maxPointers]pointerState

	focused *Node

	dragDeadZone float64
	drag         dragManager
}

func newInteractionManager(scene *Scene) *InteractionManager {
	im := &InteractionManager{
		scene:        scene,
		spatial:      newSpatialHash(),
		dragDeadZone: 5,
	}
	im.drag.manager = im
	return im
}

// rebuildSpatialIndex does a full rebuild from the current visible &&
// interactive node set. Called when the scene signals a structural change.
func (im *InteractionManager) rebuildSpatialIndex() {
	im.spatial.clear()
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible || n.Display == DisplayHidden {
			return
		}
		if n.Interactive {
			im.spatial.insert(&SpatialEntry{Owner: n, AABB: n.WorldAABB()})
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(im.scene.root)
}

// updateEntry refreshes n's broad-phase placement after its AABB changes.
func (im *InteractionManager) updateEntry(n *Node) {
	if !n.Visible || !n.Interactive || n.Display == DisplayHidden {
		im.spatial.remove(n)
		return
	}
	im.spatial.insert(&SpatialEntry{Owner: n, AABB: n.WorldAABB()})
}

// CapturePointer routes all events for pointerID to node regardless of what
// is under the cursor, until ReleasePointer or the next pointer-up.
func (im *InteractionManager) CapturePointer(pointerID int, node *Node) {
	if pointerID < 0 || pointerID >= maxPointers {
		return
	}
	im.captured[pointerID] = node
}

// ReleasePointer cancels an explicit capture set by CapturePointer.
func (im *InteractionManager) ReleasePointer(pointerID int) {
	if pointerID < 0 || pointerID >= maxPointers {
		return
	}
	im.captured[pointerID] = nil
}

// hitTest resolves the interactive node under scene-space point (x, y):
// pixel-perfect hit-buffer sample first, geometric back-to-front fallback
// second.
func (im *InteractionManager) hitTest(x, y float64) *Node {
	if im.scene.hitBuf != nil && im.scene.hitBuf.layer != nil {
		uid, ok := im.scene.hitBuf.sample(int(x), int(y), im.scene.AlphaThreshold)
		if ok {
			if uid == 0 {
				return nil
			}
			if n := im.scene.GetElementByUID(uid); n != nil {
				return n
			}
		}
	}
	return im.hitTestGeometric(x, y, nil)
}

// hitTestGeometric is the broad+narrow fallback: spatial-hash point query,
// then back-to-front geometric containsPoint against each candidate.
// exclude, if non-nil, is skipped (used by drag to ignore the dragged
// subtree).
func (im *InteractionManager) hitTestGeometric(x, y float64, exclude *Node) *Node {
	candidates := im.spatial.query(x, y)
	var best *Node
	var bestOrder int64 = -1
	for _, e := range candidates {
		n := e.Owner
		if exclude != nil && isAncestor(exclude, n) {
			continue
		}
		if !n.Visible || !n.Interactive || n.Display == DisplayHidden {
			continue
		}
		inv, ok := n.worldMatrix.Invert()
		if !ok {
			continue // a singular world matrix is a miss
		}
		lx, ly := inv.TransformPoint(x, y)
		contains := n.LocalBounds().Contains(lx, ly)
		if c, ok := n.Drawable.(Drawable); ok && contains {
			contains = c.ContainsPoint(lx, ly)
		}
		if !contains {
			continue
		}
		order := compositeOrder(n)
		// On equal order a descendant paints over its ancestor, so it wins.
		if order > bestOrder || (order == bestOrder && best != nil && isAncestor(best, n)) {
			bestOrder = order
			best = n
		}
	}
	return best
}

// hitTestAABB is the drag-time variant: broad-phase queryAABB, narrow phase
// is plain AABB-vs-AABB intersection (no pixel-buffer read). filter, if
// non-nil, must return true for a node to be considered a candidate.
func (im *InteractionManager) hitTestAABB(box Rect, exclude *Node, filter func(*Node) bool) *Node {
	candidates := im.spatial.queryAABB(box)
	var best *Node
	var bestOrder int64 = -1
	for _, e := range candidates {
		n := e.Owner
		if exclude != nil && isAncestor(exclude, n) {
			continue
		}
		if filter != nil && !filter(n) {
			continue
		}
		if !e.AABB.Intersects(box) {
			continue
		}
		order := compositeOrder(n)
		if order > bestOrder {
			bestOrder = order
			best = n
		}
	}
	return best
}

// compositeOrder is a depth-scaled running product of ancestor ZIndex used
// to rank overlapping candidates back-to-front without a full tree walk.
func compositeOrder(n *Node) int64 {
	var order int64
	scale := int64(1)
	for p := n; p != nil; p = p.Parent {
		order += int64(p.ZIndex) * scale
		scale *= 100000
	}
	return order
}

// DispatchPointer feeds one host-surface pointer sample (mouse or a touch
// slot) through hover tracking, press/release, click synthesis, and drag,
// firing through each node's own Emitter with bubbling instead of a flat
// scene-level handler list.
func (im *InteractionManager) DispatchPointer(pointerID int, wx, wy float64, pressed bool, button MouseButton, mods KeyModifiers) {
	if pointerID < 0 || pointerID >= maxPointers {
		return
	}
	ps := &im.pointers[pointerID]

	var target *Node
	if im.captured[pointerID] != nil {
		target = im.captured[pointerID]
	} else {
		target = im.hitTest(wx, wy)
	}

	if target != ps.hoverNode {
		if ps.hoverNode != nil {
			im.fireUnbubbled(ps.hoverNode, EventPointerLeave, pointerID, wx, wy, button, mods)
		}
		if target != nil {
			im.fireUnbubbled(target, EventPointerEnter, pointerID, wx, wy, button, mods)
		}
		ps.hoverNode = target
	}

	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.button = button
		ps.startX, ps.startY = wx, wy
		ps.lastX, ps.lastY = wx, wy
		ps.hitNode = target
		im.fireBubbled(target, EventPointerDown, pointerID, wx, wy, button, mods)
		im.drag.onPointerDown(pointerID, target, wx, wy, button, mods)

	case !pressed && ps.down:
		wasDragging := im.drag.isDragging(pointerID)
		im.drag.onPointerUp(pointerID, wx, wy, mods)
		if !wasDragging && ps.hitNode != nil && ps.hitNode == target {
			im.fireBubbled(target, EventClick, pointerID, wx, wy, button, mods)
		}
		im.fireBubbled(target, EventPointerUp, pointerID, wx, wy, button, mods)
		im.captured[pointerID] = nil
		ps.down = false
		ps.hitNode = nil

	case pressed && ps.down:
		if wx != ps.lastX || wy != ps.lastY {
			im.drag.onPointerMove(pointerID, wx, wy, mods)
			ps.lastX, ps.lastY = wx, wy
		}

	default: // hover move
		if wx != ps.lastX || wy != ps.lastY {
			im.fireBubbled(target, EventPointerMove, pointerID, wx, wy, button, mods)
			ps.lastX, ps.lastY = wx, wy
		}
	}
}

// DispatchWheel fires a wheel event at the hit node and bubbles.
func (im *InteractionManager) DispatchWheel(wx, wy, deltaX, deltaY float64, mods KeyModifiers) {
	target := im.hitTest(wx, wy)
	if target == nil {
		return
	}
	ev := &PointerEvent{Target: target, WorldX: wx, WorldY: wy, WheelDeltaX: deltaX, WheelDeltaY: deltaY, Modifiers: mods}
	im.bubble(target, EventWheel, ev, &ev.propagationStopped)
}

// DispatchDblClick fires dblclick at the hit node and bubbles. Synthesized
// by the host surface's native double-click event; this core keeps no
// temporal accumulation of its own.
func (im *InteractionManager) DispatchDblClick(wx, wy float64, button MouseButton, mods KeyModifiers) {
	target := im.hitTest(wx, wy)
	if target == nil {
		return
	}
	im.fireBubbled(target, EventDblClick, 0, wx, wy, button, mods)
}

func (im *InteractionManager) fireBubbled(target *Node, eventType EventType, pointerID int, wx, wy float64, button MouseButton, mods KeyModifiers) {
	if target == nil {
		return
	}
	lx, ly := target.WorldToLocal(wx, wy)
	ev := &PointerEvent{
		Target: target, PointerID: pointerID,
		WorldX: wx, WorldY: wy, LocalX: lx, LocalY: ly,
		Button: button, Modifiers: mods,
	}
	im.bubble(target, eventType, ev, &ev.propagationStopped)
}

func (im *InteractionManager) fireUnbubbled(target *Node, eventType EventType, pointerID int, wx, wy float64, button MouseButton, mods KeyModifiers) {
	lx, ly := target.WorldToLocal(wx, wy)
	ev := PointerEvent{
		Target: target, PointerID: pointerID,
		WorldX: wx, WorldY: wy, LocalX: lx, LocalY: ly,
		Button: button, Modifiers: mods,
	}
	target.Events.Emit(eventType, &ev)
}

// bubble emits eventType on target, then walks up Parent, re-emitting the
// same payload, until stopped is set or the root is reached. pointerenter/
// leave never call this — those target-only events go through fireUnbubbled.
func (im *InteractionManager) bubble(target *Node, eventType EventType, payload any, stopped *bool) {
	for n := target; n != nil; n = n.Parent {
		n.Events.Emit(eventType, payload)
		if *stopped {
			return
		}
	}
}

// --- Keyboard & focus ---

// SetFocus blurs the previously focused node (if any) and focuses node (if
// non-nil and focusable). Passing nil clears focus.
func (im *InteractionManager) SetFocus(node *Node) {
	if node == im.focused {
		return
	}
	if node != nil && !node.Focusable {
		return
	}
	prev := im.focused
	im.focused = node
	if prev != nil {
		prev.Events.Emit(EventBlur, &FocusEvent{Node: prev})
	}
	if node != nil {
		node.Events.Emit(EventFocus, &FocusEvent{Node: node})
	}
}

// Focused returns the currently focused node, or nil.
func (im *InteractionManager) Focused() *Node { return im.focused }

// DispatchKey fires keydown/keyup on the focused node and bubbles.
func (im *InteractionManager) DispatchKey(eventType EventType, key string, mods KeyModifiers) {
	if im.focused == nil {
		return
	}
	ev := &KeyEvent{Key: key, Modifiers: mods}
	im.bubble(im.focused, eventType, ev, &ev.propagationStopped)
}

// tabOrder returns the depth-first pre-order list of visible && focusable
// nodes under root.
func tabOrder(root *Node) []*Node {
	var order []*Node
	var walk func(n *Node)
	walk = func(n *Node) {
		if !n.Visible || n.Display == DisplayHidden {
			return
		}
		if n.Focusable {
			order = append(order, n)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)
	return order
}

// TabNext moves focus to the next focusable node in tab order, wrapping
// around. If nothing is focused, focuses the first entry.
func (im *InteractionManager) TabNext() {
	order := tabOrder(im.scene.root)
	if len(order) == 0 {
		return
	}
	if im.focused == nil {
		im.SetFocus(order[0])
		return
	}
	for i, n := range order {
		if n == im.focused {
			im.SetFocus(order[(i+1)%len(order)])
			return
		}
	}
	im.SetFocus(order[0])
}

// TabPrev moves focus to the previous focusable node in tab order, wrapping
// around.
func (im *InteractionManager) TabPrev() {
	order := tabOrder(im.scene.root)
	if len(order) == 0 {
		return
	}
	if im.focused == nil {
		im.SetFocus(order[len(order)-1])
		return
	}
	for i, n := range order {
		if n == im.focused {
			im.SetFocus(order[(i-1+len(order))%len(order)])
			return
		}
	}
	im.SetFocus(order[len(order)-1])
}

// refreshHover re-evaluates the hit at each pointer's last known position.
// Called once per frame after paint/hit-buffer refresh so elements that
// moved under a stationary cursor still generate enter/leave.
func (im *InteractionManager) refreshHover() {
	for pid := range im.pointers {
		ps := &im.pointers[pid]
		if !ps.down && ps.hoverNode == nil && ps.lastX == 0 && ps.lastY == 0 {
			continue
		}
		im.DispatchPointer(pid, ps.lastX, ps.lastY, ps.down, ps.button, 0)
	}
}

func distance(x0, y0, x1, y1 float64) float64 {
	dx, dy := x1-x0, y1-y0
	return math.Sqrt(dx*dx + dy*dy)
}
