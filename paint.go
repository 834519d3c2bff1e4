package arena2d

// commandKind distinguishes a draw instruction from the clip-scope markers
// a ClipContent container brackets its children's commands with.
type commandKind uint8

const (
	cmdDraw commandKind = iota
	cmdPushClip
	cmdPopClip
)

// RenderCommand is one emitted instruction: a node reference plus the
// resolved state the backend needs to submit it. The paint walker appends
// these to an ordered slice instead of drawing eagerly node-by-node, then
// submits them in one pass. This stays a generic node-reference command
// rather than a per-texture vertex batch, since arena2d has no built-in
// sprite/atlas type to batch by texture page.
//
// A ClipContent container emits a cmdPushClip command before its children's
// commands and a matching cmdPopClip after, so submit's single flat Save
// stack still nests the clip scope around every descendant the way a
// recursive walk-and-restore would.
type RenderCommand struct {
	Kind      commandKind
	Node      *Node
	Transform Matrix
	Alpha     float64
}

// paintWalker carries the per-view state threaded through a recursive paint
// pass: the accumulated command list (reused across frames) and the view's
// combined DPR·Zoom·Pan matrix.
type paintWalker struct {
	viewMatrix Matrix
	sceneRect  Rect
	commands   []RenderCommand
}

// resolvePaint runs the paint walker over root and returns the ordered command
// list for this frame, reusing buf's backing array when possible.
func resolvePaint(root *Node, viewMatrix Matrix, sceneRect Rect, buf []RenderCommand) []RenderCommand {
	w := &paintWalker{viewMatrix: viewMatrix, sceneRect: sceneRect, commands: buf[:0]}
	w.walk(root, 1.0)
	return w.commands
}

func (w *paintWalker) walk(n *Node, parentAlpha float64) {
	if !n.Visible || n.Alpha <= 0 || n.Display == DisplayHidden {
		return
	}
	effectiveAlpha := parentAlpha * n.Alpha
	transform := w.viewMatrix.Multiply(n.worldMatrix)

	isLeaf := len(n.children) == 0
	if isLeaf || n.ClipContent {
		worldAABB := n.WorldAABB()
		if !worldAABB.Intersects(w.sceneRect) {
			return
		}
	}

	if n.CacheAsBitmap && n.cacheValid {
		w.commands = append(w.commands, RenderCommand{Kind: cmdDraw, Node: n, Transform: transform, Alpha: effectiveAlpha})
		return
	}

	if n.Drawable != nil {
		w.commands = append(w.commands, RenderCommand{Kind: cmdDraw, Node: n, Transform: transform, Alpha: effectiveAlpha})
	}

	if isLeaf {
		return
	}

	if n.ClipContent {
		w.commands = append(w.commands, RenderCommand{Kind: cmdPushClip, Node: n, Transform: transform})
	}
	for _, c := range n.SortedChildren() {
		w.walk(c, effectiveAlpha)
	}
	if n.ClipContent {
		w.commands = append(w.commands, RenderCommand{Kind: cmdPopClip})
	}
}

// submit drives ctx through the resolved command list, managing the
// save/restore/clip balance the orchestrator guarantees. A cmdPushClip
// command Saves and installs its node's clip without a matching Restore;
// the Restore only happens at the corresponding cmdPopClip once every
// command for that node's children has been submitted, so the clip stays
// in effect for the whole subtree instead of being popped immediately.
func submit(ctx PaintContext, commands []RenderCommand) {
	for _, cmd := range commands {
		switch cmd.Kind {
		case cmdPushClip:
			n := cmd.Node
			ctx.Save()
			ctx.SetTransform(cmd.Transform[0], cmd.Transform[1], cmd.Transform[2], cmd.Transform[3], cmd.Transform[4], cmd.Transform[5])
			bounds := n.LocalBounds()
			ctx.BeginPath()
			ctx.Rect(bounds.X, bounds.Y, bounds.Width, bounds.Height)
			ctx.Clip()
			continue
		case cmdPopClip:
			ctx.Restore()
			continue
		}

		n := cmd.Node
		ctx.Save()
		ctx.SetTransform(cmd.Transform[0], cmd.Transform[1], cmd.Transform[2], cmd.Transform[3], cmd.Transform[4], cmd.Transform[5])
		ctx.SetGlobalAlpha(cmd.Alpha)
		ctx.SetCompositeOperation(n.BlendMode)

		if n.CacheAsBitmap && n.cacheValid && n.cacheRaster != nil {
			img := n.cacheRaster.AsImage()
			w, h := img.Size()
			ctx.DrawImage(img, 0, 0, float64(w), float64(h), 0, 0, float64(w), float64(h))
			ctx.Restore()
			continue
		}

		if n.Drawable != nil {
			n.Drawable.Paint(ctx)
		}

		ctx.Restore()
	}
}

// paintCacheTarget repaints a CacheAsBitmap container's raster. Called by
// Scene.paintAll before the views are painted when the container's cache is
// invalid or its Visual bit is set.
func paintCacheTarget(n *Node, layer Layer) {
	aabb := cacheContentAABB(n)
	w := int(aabb.Width)
	h := int(aabb.Height)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	layer.Resize(w, h)

	ctx := layer.Context()
	ctx.ClearRect(0, 0, float64(w), float64(h))

	offset := Translate(-aabb.X, -aabb.Y)
	cmds := resolvePaint(n, offset, Rect{X: 0, Y: 0, Width: float64(w), Height: float64(h)}, nil)
	submit(ctx, cmds)

	n.cacheValid = true
	n.clearBit(DirtyVisual)
}

// cacheContentAABB returns the union, in n's local space, of n's own box
// and every descendant's world-space AABB reprojected into n's frame.
func cacheContentAABB(n *Node) Rect {
	union := n.LocalBounds()
	inv, ok := n.worldMatrix.Invert()
	if !ok {
		return union
	}
	var walk func(c *Node)
	walk = func(c *Node) {
		world := c.WorldAABB()
		local := transformAABB(inv, world)
		union = union.Union(local)
		for _, cc := range c.children {
			walk(cc)
		}
	}
	for _, c := range n.children {
		walk(c)
	}
	return union
}
