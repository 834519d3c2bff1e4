package arena2d

import "testing"

func newHitTestNode(name string, x, y, w, h float64) *Node {
	n := NewNode(name)
	n.Width, n.Height = w, h
	n.worldMatrix = Translate(x, y)
	n.localMatrix = n.worldMatrix
	return n
}

func TestHitTestGeometricFindsNodeUnderPoint(t *testing.T) {
	s := NewScene(200, 200)
	n := newHitTestNode("box", 10, 10, 50, 50)
	s.root.AddChild(n)
	im := newInteractionManager(s)
	im.rebuildSpatialIndex()

	if got := im.hitTestGeometric(30, 30, nil); got != n {
		t.Fatalf("expected to hit box at (30,30), got %v", got)
	}
	if got := im.hitTestGeometric(500, 500, nil); got != nil {
		t.Fatalf("expected no hit far away, got %v", got)
	}
}

func TestHitTestGeometricExcludesAncestor(t *testing.T) {
	s := NewScene(200, 200)
	parent := newHitTestNode("parent", 0, 0, 100, 100)
	s.root.AddChild(parent)
	im := newInteractionManager(s)
	im.rebuildSpatialIndex()

	if got := im.hitTestGeometric(50, 50, parent); got != nil {
		t.Fatalf("expected excluded ancestor to be skipped, got %v", got)
	}
}

func TestHitTestGeometricPicksHighestCompositeOrder(t *testing.T) {
	s := NewScene(200, 200)
	back := newHitTestNode("back", 0, 0, 100, 100)
	front := newHitTestNode("front", 0, 0, 100, 100)
	back.SetZIndex(0)
	front.SetZIndex(1)
	s.root.AddChild(back)
	s.root.AddChild(front)
	im := newInteractionManager(s)
	im.rebuildSpatialIndex()

	if got := im.hitTestGeometric(50, 50, nil); got != front {
		t.Fatalf("expected the higher z-index node to win an overlapping hit, got %v", got)
	}
}

func TestCapturePointerOverridesHitTest(t *testing.T) {
	s := NewScene(200, 200)
	n := newHitTestNode("box", 10, 10, 50, 50)
	s.root.AddChild(n)
	im := newInteractionManager(s)
	im.rebuildSpatialIndex()

	captured := NewNode("captured")
	im.CapturePointer(0, captured)

	var downTarget *Node
	captured.Events.On(EventPointerDown, func(payload any) {
		downTarget = payload.(*PointerEvent).Target
	})

	im.DispatchPointer(0, 30, 30, true, MouseButtonLeft, 0)

	if downTarget != captured {
		t.Fatalf("expected the captured node to receive pointerdown regardless of hit test, got %v", downTarget)
	}

	im.ReleasePointer(0)
	if im.captured[0] != nil {
		t.Fatal("expected ReleasePointer to clear the capture")
	}
}

func TestDispatchPointerFiresClickOnMatchingPressRelease(t *testing.T) {
	s := NewScene(200, 200)
	n := newHitTestNode("box", 10, 10, 50, 50)
	s.root.AddChild(n)
	im := newInteractionManager(s)
	im.rebuildSpatialIndex()

	clicked := false
	n.Events.On(EventClick, func(payload any) { clicked = true })

	im.DispatchPointer(0, 30, 30, true, MouseButtonLeft, 0)
	im.DispatchPointer(0, 30, 30, false, MouseButtonLeft, 0)

	if !clicked {
		t.Fatal("expected a press and release over the same node to fire click")
	}
}

func TestDispatchPointerBubblesAndStopsPropagation(t *testing.T) {
	s := NewScene(200, 200)
	parent := newHitTestNode("parent", 0, 0, 200, 200)
	child := newHitTestNode("child", 10, 10, 50, 50)
	parent.AddChild(child)
	s.root.AddChild(parent)
	im := newInteractionManager(s)
	im.rebuildSpatialIndex()

	parentFired := false
	child.Events.On(EventPointerDown, func(payload any) {
		payload.(*PointerEvent).StopPropagation()
	})
	parent.Events.On(EventPointerDown, func(payload any) { parentFired = true })

	im.DispatchPointer(0, 30, 30, true, MouseButtonLeft, 0)

	if parentFired {
		t.Fatal("expected StopPropagation on the child to prevent the parent from receiving the bubbled event")
	}
}

func TestSetFocusBlursPreviousAndFocusesNew(t *testing.T) {
	s := NewScene(200, 200)
	im := newInteractionManager(s)
	a := NewNode("a")
	a.Focusable = true
	b := NewNode("b")
	b.Focusable = true

	var blurred, focused *Node
	a.Events.On(EventBlur, func(payload any) { blurred = payload.(*FocusEvent).Node })
	b.Events.On(EventFocus, func(payload any) { focused = payload.(*FocusEvent).Node })

	im.SetFocus(a)
	im.SetFocus(b)

	if blurred != a {
		t.Fatalf("expected a to be blurred, got %v", blurred)
	}
	if focused != b {
		t.Fatalf("expected b to be focused, got %v", focused)
	}
	if im.Focused() != b {
		t.Fatal("expected Focused() to report b")
	}
}

func TestSetFocusRejectsNonFocusable(t *testing.T) {
	s := NewScene(200, 200)
	im := newInteractionManager(s)
	n := NewNode("n")

	im.SetFocus(n)
	if im.Focused() != nil {
		t.Fatal("expected SetFocus to reject a non-focusable node")
	}
}

func TestTabNextWrapsAround(t *testing.T) {
	s := NewScene(200, 200)
	a := NewNode("a")
	a.Focusable = true
	b := NewNode("b")
	b.Focusable = true
	s.root.AddChild(a)
	s.root.AddChild(b)
	im := newInteractionManager(s)

	im.TabNext()
	if im.Focused() != a {
		t.Fatalf("expected first TabNext to focus a, got %v", im.Focused())
	}
	im.TabNext()
	if im.Focused() != b {
		t.Fatalf("expected second TabNext to focus b, got %v", im.Focused())
	}
	im.TabNext()
	if im.Focused() != a {
		t.Fatal("expected TabNext to wrap back around to a")
	}
}

func TestDispatchKeyBubblesToFocusedNodeAncestors(t *testing.T) {
	s := NewScene(200, 200)
	parent := NewNode("parent")
	child := NewNode("child")
	child.Focusable = true
	parent.AddChild(child)
	s.root.AddChild(parent)
	im := newInteractionManager(s)

	var gotKey string
	parent.Events.On(EventKeyDown, func(payload any) { gotKey = payload.(*KeyEvent).Key })

	im.SetFocus(child)
	im.DispatchKey(EventKeyDown, "a", 0)

	if gotKey != "a" {
		t.Fatalf("expected the keydown to bubble up to parent, got %q", gotKey)
	}
}

func TestCompositeOrderFavorsDeeperAncestorZIndex(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)
	parent.SetZIndex(1)

	sibling := NewNode("sibling")

	if compositeOrder(child) <= compositeOrder(sibling) {
		t.Fatal("expected a node under a higher-z-index ancestor to rank above an unrelated sibling")
	}
}
