package arena2d

import "testing"

func TestAddChildReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	child := NewNode("child")

	a.AddChild(child)
	if child.Parent != a {
		t.Fatalf("expected child's parent to be a, got %v", child.Parent)
	}

	b.AddChild(child)
	if child.Parent != b {
		t.Fatal("expected child to be reparented to b")
	}
	if a.NumChildren() != 0 {
		t.Fatalf("expected a to have 0 children after reparenting, got %d", a.NumChildren())
	}
	if b.NumChildren() != 1 {
		t.Fatalf("expected b to have 1 child, got %d", b.NumChildren())
	}
}

func TestAddChildCyclePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected AddChild to panic on a cycle")
		}
	}()
	a := NewNode("a")
	b := NewNode("b")
	a.AddChild(b)
	b.AddChild(a) // a is an ancestor of b; this would create a cycle
}

func TestAddChildNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected AddChild(nil) to panic")
		}
	}()
	NewNode("a").AddChild(nil)
}

func TestAddChildAtInsertsAtIndex(t *testing.T) {
	parent := NewNode("parent")
	first := NewNode("first")
	third := NewNode("third")
	second := NewNode("second")

	parent.AddChild(first)
	parent.AddChild(third)
	parent.AddChildAt(second, 1)

	got := parent.Children()
	if len(got) != 3 || got[0] != first || got[1] != second || got[2] != third {
		t.Fatalf("unexpected child order: %v", got)
	}
}

func TestRemoveChildNonMemberIsNoop(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	child := NewNode("child")
	a.AddChild(child)

	b.RemoveChild(child) // child isn't b's, must be a no-op

	if child.Parent != a {
		t.Fatalf("expected child's parent to remain a, got %v", child.Parent)
	}
	if a.NumChildren() != 1 {
		t.Fatalf("expected a to still have 1 child, got %d", a.NumChildren())
	}
	if b.NumChildren() != 0 {
		t.Fatalf("expected b to have 0 children, got %d", b.NumChildren())
	}
}

func TestRemoveFromParentNoopWhenDetached(t *testing.T) {
	n := NewNode("n")
	n.RemoveFromParent() // must not panic
}

func TestRemoveChildrenDetachesAllWithoutDisposing(t *testing.T) {
	parent := NewNode("parent")
	c1 := NewNode("c1")
	c2 := NewNode("c2")
	parent.AddChild(c1)
	parent.AddChild(c2)

	parent.RemoveChildren()

	if parent.NumChildren() != 0 {
		t.Fatalf("expected 0 children, got %d", parent.NumChildren())
	}
	if c1.Parent != nil || c2.Parent != nil {
		t.Fatal("expected removed children to have a nil parent")
	}
	if c1.IsDisposed() || c2.IsDisposed() {
		t.Fatal("RemoveChildren must not dispose the removed children")
	}
}

func TestSortedChildrenOrdersByZIndexThenUID(t *testing.T) {
	parent := NewNode("parent")
	low := NewNode("low")
	high := NewNode("high")
	mid := NewNode("mid")
	parent.AddChild(high)
	parent.AddChild(low)
	parent.AddChild(mid)

	high.SetZIndex(10)
	low.SetZIndex(0)
	mid.SetZIndex(5)

	sorted := parent.SortedChildren()
	if len(sorted) != 3 || sorted[0] != low || sorted[1] != mid || sorted[2] != high {
		t.Fatalf("expected ascending z-order [low, mid, high], got %v", sorted)
	}
}

func TestSetChildIndexMoves(t *testing.T) {
	parent := NewNode("parent")
	a := NewNode("a")
	b := NewNode("b")
	c := NewNode("c")
	parent.AddChild(a)
	parent.AddChild(b)
	parent.AddChild(c)

	parent.SetChildIndex(a, 2)

	got := parent.Children()
	if got[0] != b || got[1] != c || got[2] != a {
		t.Fatalf("unexpected order after SetChildIndex: %v", got)
	}
}

func TestGetChildByID(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	child.ID = "target"
	parent.AddChild(child)

	if got := parent.GetChildByID("target"); got != child {
		t.Fatalf("expected to find child by ID, got %v", got)
	}
	if got := parent.GetChildByID("missing"); got != nil {
		t.Fatalf("expected nil for an unknown ID, got %v", got)
	}
}
