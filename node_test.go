package arena2d

import "testing"

func assertDirty(t *testing.T, n *Node, bits DirtyBit, want bool, what string) {
	t.Helper()
	got := n.Dirty()&bits != 0
	if got != want {
		t.Fatalf("%s: dirty bit %b set=%v, want %v", what, bits, got, want)
	}
}

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode("box")
	if n.Name != "box" {
		t.Fatalf("expected Name %q, got %q", "box", n.Name)
	}
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Fatalf("expected default scale 1,1, got %v,%v", n.ScaleX, n.ScaleY)
	}
	if n.Alpha != 1 {
		t.Fatalf("expected default alpha 1, got %v", n.Alpha)
	}
	if !n.Visible || !n.Interactive {
		t.Fatal("expected new node to be visible and interactive by default")
	}
	if n.UID == 0 {
		t.Fatal("expected a non-zero UID")
	}
	assertDirty(t, n, dirtyAll, true, "fresh node")
}

func TestNodeIsContainer(t *testing.T) {
	parent := NewNode("parent")
	if parent.IsContainer() {
		t.Fatal("leaf node with no children or clip should not be a container")
	}
	child := NewNode("child")
	parent.AddChild(child)
	if !parent.IsContainer() {
		t.Fatal("a node with children must report IsContainer")
	}

	clipped := NewNode("clipped")
	clipped.ClipContent = true
	if !clipped.IsContainer() {
		t.Fatal("ClipContent alone should make a node a container")
	}
}

func TestSetPositionMarksTransformDirtyAndCascades(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	parent.AddChild(child)

	parent.clearBit(dirtyAll)
	child.clearBit(dirtyAll)

	parent.SetPosition(10, 20)

	assertDirty(t, parent, DirtyTransform, true, "parent after SetPosition")
	assertDirty(t, child, DirtyTransform, true, "child cascaded from parent move")
}

func TestSetPositionNoopWhenUnchanged(t *testing.T) {
	n := NewNode("n")
	n.SetPosition(5, 5)
	n.clearBit(dirtyAll)
	n.SetPosition(5, 5)
	assertDirty(t, n, DirtyTransform, false, "unchanged SetPosition")
}

func TestSetAlphaClamps(t *testing.T) {
	n := NewNode("n")
	n.SetAlpha(5)
	if n.Alpha != 1 {
		t.Fatalf("expected alpha clamped to 1, got %v", n.Alpha)
	}
	n.SetAlpha(-3)
	if n.Alpha != 0 {
		t.Fatalf("expected alpha clamped to 0, got %v", n.Alpha)
	}
}

func TestBubbleCacheInvalidateStopsAtNearestCacheAncestor(t *testing.T) {
	grandparent := NewNode("grandparent")
	parent := NewNode("parent")
	child := NewNode("child")
	grandparent.AddChild(parent)
	parent.AddChild(child)

	grandparent.CacheAsBitmap = true
	parent.CacheAsBitmap = true

	grandparent.clearBit(dirtyAll)
	parent.clearBit(dirtyAll)

	child.SetAlpha(0.5)

	assertDirty(t, parent, DirtyVisual, true, "nearest cache ancestor")
	assertDirty(t, grandparent, DirtyVisual, false, "farther cache ancestor should not be touched")
}

func TestWorldToLocalSingularMatrixReturnsZero(t *testing.T) {
	n := NewNode("degenerate")
	n.worldMatrix = Matrix{0, 0, 0, 0, 0, 0}
	x, y := n.WorldToLocal(42, 42)
	if x != 0 || y != 0 {
		t.Fatalf("expected (0, 0) for a singular world matrix, got (%v, %v)", x, y)
	}
}

func TestDestroyDetachesAndDisposesSubtree(t *testing.T) {
	parent := NewNode("parent")
	child := NewNode("child")
	grandchild := NewNode("grandchild")
	parent.AddChild(child)
	child.AddChild(grandchild)

	child.Destroy()

	if parent.NumChildren() != 0 {
		t.Fatalf("expected parent to have 0 children after child Destroy, got %d", parent.NumChildren())
	}
	if !child.IsDisposed() || !grandchild.IsDisposed() {
		t.Fatal("expected Destroy to dispose the whole subtree")
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	n := NewNode("n")
	n.Destroy()
	n.Destroy() // must not panic
	if !n.IsDisposed() {
		t.Fatal("expected node to remain disposed")
	}
}
