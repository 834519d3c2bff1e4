package arena2d

// DragEvent is the payload delivered on dragstart/dragmove/dragend/
// dragenter/dragleave/drop.
type DragEvent struct {
	Node                   *Node
	CurrentItem            *Node // the node being dragged, set on drop/dragenter/dragleave
	PointerID              int
	WorldX, WorldY         float64
	StartX, StartY         float64
	DeltaX, DeltaY         float64
	Button                 MouseButton
	Modifiers              KeyModifiers
}

type dragPointerState uint8

const (
	dragIdle dragPointerState = iota
	dragArmed
	dragDragging
)

const dragThreshold = 5.0

type dragSession struct {
	state       dragPointerState
	node        *Node
	startX      float64
	startY      float64
	nodeStartX  float64
	nodeStartY  float64
	lastX       float64
	lastY       float64
	button      MouseButton
	dropTarget  *Node
}

// dragManager implements the per-pointer drag state machine: idle -> armed
// -> dragging, with a 5-unit movement threshold before a press becomes a
// drag, extended with drop-target enter/leave/drop via hitTestAABB.
type dragManager struct {
	manager  *InteractionManager
	sessions [maxPointers]dragSession
}

func (d *dragManager) isDragging(pointerID int) bool {
	return d.sessions[pointerID].state == dragDragging
}

func (d *dragManager) onPointerDown(pointerID int, target *Node, wx, wy float64, button MouseButton, mods KeyModifiers) {
	node := draggableAncestor(target)
	if node == nil {
		d.sessions[pointerID] = dragSession{}
		return
	}
	d.sessions[pointerID] = dragSession{
		state:      dragArmed,
		node:       node,
		startX:     wx,
		startY:     wy,
		nodeStartX: node.X,
		nodeStartY: node.Y,
		lastX:      wx,
		lastY:      wy,
		button:     button,
	}
	d.manager.CapturePointer(pointerID, node)
}

func draggableAncestor(n *Node) *Node {
	for p := n; p != nil; p = p.Parent {
		if p.Draggable {
			return p
		}
	}
	return nil
}

func (d *dragManager) onPointerMove(pointerID int, wx, wy float64, mods KeyModifiers) {
	s := &d.sessions[pointerID]
	if s.state == dragIdle {
		return
	}
	switch s.state {
	case dragArmed:
		if distance(s.startX, s.startY, wx, wy) < dragThreshold {
			return
		}
		s.state = dragDragging
		d.emit(s, EventDragStart, pointerID, wx, wy, mods)
		fallthrough
	case dragDragging:
		deltaX, deltaY := wx-s.lastX, wy-s.lastY
		d.applyDelta(s, deltaX, deltaY)
		s.lastX, s.lastY = wx, wy
		d.emit(s, EventDrag, pointerID, wx, wy, mods)
		d.updateDropTarget(s)
	}
}

func (d *dragManager) applyDelta(s *dragSession, deltaX, deltaY float64) {
	switch s.node.DragConstraint {
	case DragConstraintX:
		deltaY = 0
	case DragConstraintY:
		deltaX = 0
	}
	s.node.SetPosition(s.node.X+deltaX, s.node.Y+deltaY)
}

func (d *dragManager) onPointerUp(pointerID int, wx, wy float64, mods KeyModifiers) {
	s := &d.sessions[pointerID]
	if s.state == dragDragging {
		d.emit(s, EventDragEnd, pointerID, wx, wy, mods)
		if s.dropTarget != nil {
			d.emitDrop(s, wx, wy, mods)
		}
	}
	*s = dragSession{}
	d.manager.ReleasePointer(pointerID)
}

// Cancel aborts an in-progress drag without firing drop. Nothing in the
// package calls it: the Escape key and destroying the dragged node do not
// cancel a drag by themselves.
func (d *dragManager) Cancel(pointerID int) {
	s := &d.sessions[pointerID]
	if s.state == dragDragging {
		d.emit(s, EventDragEnd, pointerID, s.lastX, s.lastY, 0)
		if s.dropTarget != nil {
			s.dropTarget.Events.Emit(EventDragLeave, &DragEvent{Node: s.dropTarget, CurrentItem: s.node})
		}
	}
	*s = dragSession{}
	d.manager.ReleasePointer(pointerID)
}

func (d *dragManager) updateDropTarget(s *dragSession) {
	// The cached world matrix is only refreshed on the next frame, so the
	// dragged box swaps the cached local transform for its just-moved one.
	world := s.node.worldMatrix
	if invLocal, ok := s.node.localMatrix.Invert(); ok {
		world = world.Multiply(invLocal).Multiply(composeLocal(s.node))
	}
	box := transformAABB(world, s.node.LocalBounds())
	candidate := d.manager.hitTestAABB(box, s.node, func(n *Node) bool {
		return n.Events.HasListener(EventDragEnter) || n.Events.HasListener(EventDrop)
	})
	if candidate == s.dropTarget {
		return
	}
	if s.dropTarget != nil {
		s.dropTarget.Events.Emit(EventDragLeave, &DragEvent{Node: s.dropTarget, CurrentItem: s.node})
	}
	if candidate != nil {
		candidate.Events.Emit(EventDragEnter, &DragEvent{Node: candidate, CurrentItem: s.node})
	}
	s.dropTarget = candidate
}

func (d *dragManager) emit(s *dragSession, eventType EventType, pointerID int, wx, wy float64, mods KeyModifiers) {
	ev := &DragEvent{
		Node: s.node, PointerID: pointerID,
		WorldX: wx, WorldY: wy,
		StartX: s.startX, StartY: s.startY,
		DeltaX: wx - s.startX, DeltaY: wy - s.startY,
		Button: s.button, Modifiers: mods,
	}
	s.node.Events.Emit(eventType, ev)
}

func (d *dragManager) emitDrop(s *dragSession, wx, wy float64, mods KeyModifiers) {
	s.dropTarget.Events.Emit(EventDrop, &DragEvent{
		Node: s.dropTarget, CurrentItem: s.node, PointerID: 0,
		WorldX: wx, WorldY: wy,
		StartX: s.startX, StartY: s.startY,
		DeltaX: wx - s.startX, DeltaY: wy - s.startY,
		Modifiers: mods,
	})
}
