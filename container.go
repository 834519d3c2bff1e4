package arena2d

import "sort"

// AddChild appends child to n's child list. If child already has a parent it
// is removed from that parent first. Panics if child is nil or if child is
// an ancestor of n (would create a cycle).
//
// Reparenting marks Transform (eager cascade) and Layout/Order on n, rather
// than collapsing dirtiness into a single flag the way a simpler two-bit
// dirty scheme would.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("arena2d: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("arena2d: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	n.childrenSorted = false
	n.setSelf(DirtyLayout | DirtyOrder)
	markTransformDirty(child)
	bubbleCacheInvalidate(n)
	child.setScene(n.scene)
	if n.scene != nil {
		n.scene.registerNode(child)
	}
	if child.OnAdded != nil {
		child.OnAdded(n)
	}
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// AddChildAt inserts child at index among n's children. Same reparenting
// and cycle-check behavior as AddChild.
func (n *Node) AddChildAt(child *Node, index int) {
	if child == nil {
		panic("arena2d: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChildAt (parent)")
		debugCheckDisposed(child, "AddChildAt (child)")
	}
	if isAncestor(child, n) {
		panic("arena2d: adding child would create a cycle")
	}
	if index < 0 || index > len(n.children) {
		panic("arena2d: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	n.childrenSorted = false
	n.setSelf(DirtyLayout | DirtyOrder)
	markTransformDirty(child)
	bubbleCacheInvalidate(n)
	child.setScene(n.scene)
	if n.scene != nil {
		n.scene.registerNode(child)
	}
	if child.OnAdded != nil {
		child.OnAdded(n)
	}
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from n. No-op if child is nil or not currently
// one of n's children.
func (n *Node) RemoveChild(child *Node) {
	if child == nil || child.Parent != n {
		return
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	n.childrenSorted = false
	n.setSelf(DirtyLayout | DirtyOrder)
	bubbleCacheInvalidate(n)
	parent := child
	if n.scene != nil {
		n.scene.unregisterTree(parent)
	}
	child.setScene(nil)
	if child.OnRemoved != nil {
		child.OnRemoved(n)
	}
}

// RemoveChildAt removes and returns the child at index. Panics if index is
// out of range.
func (n *Node) RemoveChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		panic("arena2d: child index out of range")
	}
	child := n.children[index]
	n.RemoveChild(child)
	return child
}

// RemoveFromParent detaches n from its parent. No-op if n has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// RemoveChildren detaches all children from n without disposing them.
func (n *Node) RemoveChildren() {
	for _, child := range n.children {
		child.Parent = nil
		if n.scene != nil {
			n.scene.unregisterTree(child)
		}
		child.setScene(nil)
		if child.OnRemoved != nil {
			child.OnRemoved(n)
		}
	}
	n.children = n.children[:0]
	n.sortedChildren = n.sortedChildren[:0]
	n.childrenSorted = true
	n.setSelf(DirtyLayout | DirtyOrder)
	bubbleCacheInvalidate(n)
}

// Children returns n's child list in insertion order. The caller must not
// mutate the returned slice.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at index. Panics if index is out of range.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// SortedChildren returns n's children ordered for paint/hit traversal:
// stable ascending by ZIndex, ties broken by ascending UID (insertion
// order, since UID is assigned monotonically at construction).
func (n *Node) SortedChildren() []*Node {
	if n.childrenSorted && n.dirty&DirtyOrder == 0 {
		return n.sortedChildren
	}
	if cap(n.sortedChildren) < len(n.children) {
		n.sortedChildren = make([]*Node, len(n.children))
	} else {
		n.sortedChildren = n.sortedChildren[:len(n.children)]
	}
	copy(n.sortedChildren, n.children)
	sort.SliceStable(n.sortedChildren, func(i, j int) bool {
		a, b := n.sortedChildren[i], n.sortedChildren[j]
		if a.ZIndex != b.ZIndex {
			return a.ZIndex < b.ZIndex
		}
		return a.UID < b.UID
	})
	n.childrenSorted = true
	n.clearBit(DirtyOrder)
	return n.sortedChildren
}

// SetChildIndex moves child to a new insertion index among its siblings.
// Panics if child is not a child of n or if index is out of range.
func (n *Node) SetChildIndex(child *Node, index int) {
	if child.Parent != n {
		panic("arena2d: child's parent is not this node")
	}
	nc := len(n.children)
	if index < 0 || index >= nc {
		panic("arena2d: child index out of range")
	}
	oldIndex := -1
	for i, c := range n.children {
		if c == child {
			oldIndex = i
			break
		}
	}
	if oldIndex == index {
		return
	}
	if oldIndex < index {
		copy(n.children[oldIndex:], n.children[oldIndex+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:oldIndex])
	}
	n.children[index] = child
	n.childrenSorted = false
	n.setSelf(DirtyOrder)
}

// GetChildByID searches n's direct children for one with the given ID.
// Returns nil if none match. Does not search grandchildren.
func (n *Node) GetChildByID(id string) *Node {
	for _, c := range n.children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// isAncestor reports whether candidate is an ancestor of node (or node
// itself), walking the Parent chain.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without touching
// child.Parent. Clears the vacated slot so the backing array doesn't retain
// a dangling pointer.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
