package arena2d

import "math"

// ScrollContainer adds clamped, wheel/drag-scrollable content offset to a
// Node, exposing a separate matrix for its children so paint and hit
// testing see content shifted by (-scrollX, -scrollY) without moving the
// container's own transform.
//
// Built directly on the formula
// `worldMatrixForChildren = worldMatrix · T(-scrollX, -scrollY)`, with a
// dead-zone pattern for the click-deferral threshold.
type ScrollContainer struct {
	Node *Node

	ContentWidth, ContentHeight float64
	ClickDeferThreshold         float64 // seconds; default 0.25; 0 = deliver click immediately

	Friction float64 // inertia decay per 60Hz tick, default 0.95

	scrollX, scrollY float64
	velocityX        float64
	velocityY        float64

	pointerDown   bool
	pointerStartX float64
	pointerStartY float64
	pointerLastX  float64
	pointerLastY  float64
	deferring     bool
	deferElapsed  float64
	becameScroll  bool
	deferredChild *Node
}

// NewScrollContainer wraps node with scroll state using its documented
// defaults.
func NewScrollContainer(node *Node) *ScrollContainer {
	return &ScrollContainer{
		Node:                node,
		ClickDeferThreshold: 0.25,
		Friction:            0.95,
	}
}

// ScrollX and ScrollY report the current content offset.
func (s *ScrollContainer) ScrollX() float64 { return s.scrollX }
func (s *ScrollContainer) ScrollY() float64 { return s.scrollY }

func (s *ScrollContainer) maxScrollX() float64 {
	return math.Max(0, s.ContentWidth-s.Node.Width)
}
func (s *ScrollContainer) maxScrollY() float64 {
	return math.Max(0, s.ContentHeight-s.Node.Height)
}

// SetScroll sets the offset, clamped to [0, contentSize-nodeSize], and
// marks every child Transform-dirty so their cached world matrices
// re-compose against the new children matrix.
func (s *ScrollContainer) SetScroll(x, y float64) {
	x = clampRange(x, 0, s.maxScrollX())
	y = clampRange(y, 0, s.maxScrollY())
	if x == s.scrollX && y == s.scrollY {
		return
	}
	s.scrollX, s.scrollY = x, y
	cascadeTransformDirty(s.Node)
}

func clampRange(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ChildrenMatrix returns the matrix children should be composed against
// instead of the container's own world matrix.
func (s *ScrollContainer) ChildrenMatrix() Matrix {
	return s.Node.worldMatrix.Multiply(Translate(-s.scrollX, -s.scrollY))
}

// OnWheel adds (deltaX, deltaY) to the scroll offset and stops propagation.
func (s *ScrollContainer) OnWheel(ev *PointerEvent) {
	s.SetScroll(s.scrollX+ev.WheelDeltaX, s.scrollY+ev.WheelDeltaY)
	s.velocityX, s.velocityY = 0, 0
	ev.StopPropagation()
}

// BeginPointer arms the click-deferral timer on a press over the
// container. child is the node under the pointer at press time, the one a
// deferred click would land on.
func (s *ScrollContainer) BeginPointer(x, y float64, child *Node) {
	s.pointerDown = true
	s.pointerStartX, s.pointerStartY = x, y
	s.pointerLastX, s.pointerLastY = x, y
	s.deferring = s.ClickDeferThreshold > 0
	s.deferElapsed = 0
	s.becameScroll = false
	s.deferredChild = child
	s.velocityX, s.velocityY = 0, 0
}

// MovePointer advances the drag. Past the 5-unit threshold the gesture
// becomes a scroll: the deferred child permanently loses its click, and
// subsequent movement pans the content and accumulates velocity for
// inertia.
func (s *ScrollContainer) MovePointer(x, y, dt float64) {
	if !s.pointerDown {
		return
	}
	if !s.becameScroll {
		if distance(s.pointerStartX, s.pointerStartY, x, y) >= dragThreshold {
			s.becameScroll = true
			s.deferring = false
		} else {
			s.pointerLastX, s.pointerLastY = x, y
			return
		}
	}
	dx := x - s.pointerLastX
	dy := y - s.pointerLastY
	s.SetScroll(s.scrollX-dx, s.scrollY-dy)
	if dt > 0 {
		s.velocityX = -dx / dt
		s.velocityY = -dy / dt
	}
	s.pointerLastX, s.pointerLastY = x, y
}

// EndPointer releases the drag. It reports whether the deferred child
// should still receive its click (gesture never crossed the scroll
// threshold).
func (s *ScrollContainer) EndPointer() (deliverClick bool, target *Node) {
	deliverClick = s.pointerDown && !s.becameScroll
	target = s.deferredChild
	s.pointerDown = false
	s.deferring = false
	s.deferredChild = nil
	return
}

const inertiaEpsilon = 0.01

// UpdateInertia advances the decay phase by dt seconds. Called every frame
// once the pointer is no longer down. velocity *= friction^(dt*60), scroll
// advances by velocity*dt until velocity falls below epsilon.
func (s *ScrollContainer) UpdateInertia(dt float64) {
	if s.pointerDown {
		return
	}
	if math.Abs(s.velocityX) < inertiaEpsilon && math.Abs(s.velocityY) < inertiaEpsilon {
		s.velocityX, s.velocityY = 0, 0
		return
	}
	decay := math.Pow(s.Friction, dt*60)
	s.velocityX *= decay
	s.velocityY *= decay
	s.SetScroll(s.scrollX+s.velocityX*dt, s.scrollY+s.velocityY*dt)
}

// CancelInertia stops any in-progress decay, e.g. on a new pointerdown.
func (s *ScrollContainer) CancelInertia() {
	s.velocityX, s.velocityY = 0, 0
}
