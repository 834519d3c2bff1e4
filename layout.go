package arena2d

import "math"

// ResolveLayout runs the two-pass layout resolver over the subtree rooted
// at n: a bottom-up measure pass computes each node's resolved size, then a
// top-down arrange pass positions children per their parent's Style.Display
// (flex distribution or anchor constraints). Called by the frame driver
// whenever any node in the tree carries DirtyLayout.
//
// Built on the Style/Unit types defined alongside it.
func ResolveLayout(n *Node, availableWidth, availableHeight float64) {
	measureNode(n, availableWidth, availableHeight)
	n.X, n.Y = n.X, n.Y // root position is caller-controlled, not arranged
	arrangeChildren(n)
	n.clearBit(DirtyLayout)
}

// measureNode resolves n's own Width/Height against the space its parent
// offers, falling back to intrinsic content sizing for axes left Auto, then
// clamps to Min/Max. Writes the result into n.Width/n.Height.
func measureNode(n *Node, parentContentW, parentContentH float64) {
	w, wok := n.Style.Width.Resolve(parentContentW)
	h, hok := n.Style.Height.Resolve(parentContentH)

	if !wok || !hok {
		// Commit whichever axis is already known before measuring intrinsic
		// content, so a wrapping flex container sizing its auto cross axis
		// can see the real main-axis size instead of a stale field value.
		if wok {
			n.Width = w
		}
		if hok {
			n.Height = h
		}
		iw, ih := intrinsicSize(n, wok, hok)
		if !wok {
			w = iw
		}
		if !hok {
			h = ih
		}
	}

	if n.Style.MinWidth != nil {
		if mw, ok := n.Style.MinWidth.Resolve(parentContentW); ok {
			w = math.Max(w, mw)
		}
	}
	if n.Style.MaxWidth != nil {
		if mw, ok := n.Style.MaxWidth.Resolve(parentContentW); ok {
			w = math.Min(w, mw)
		}
	}
	if n.Style.MinHeight != nil {
		if mh, ok := n.Style.MinHeight.Resolve(parentContentH); ok {
			h = math.Max(h, mh)
		}
	}
	if n.Style.MaxHeight != nil {
		if mh, ok := n.Style.MaxHeight.Resolve(parentContentH); ok {
			h = math.Min(h, mh)
		}
	}

	n.Width, n.Height = w, h
}

// intrinsicSize computes a node's natural size when its Style leaves an
// axis Auto: a leaf defers to its Drawable's content-width hint (height has
// no such hook, so it keeps its last explicit Height); a flex container sums
// its children's measured extents along its own main axis and takes the max
// along the cross axis, plus padding and inter-child gap, while any other
// container takes the max of its children on both axes plus padding. widthKnown and
// heightKnown report whether n.Width/n.Height already hold the node's
// resolved (non-auto) size for that axis, which a wrapping flex container
// needs to know where its own main axis actually ends.
func intrinsicSize(n *Node, widthKnown, heightKnown bool) (w, h float64) {
	if len(n.children) == 0 {
		w = n.Width
		if n.Drawable != nil {
			w = n.Drawable.MaxContentWidth()
		}
		return w, n.Height
	}

	pad := n.Style.Padding
	contentW := n.Width - pad.Left - pad.Right
	contentH := n.Height - pad.Top - pad.Bottom

	if n.Style.Display != LayoutFlex {
		for _, c := range n.children {
			measureNode(c, contentW, contentH)
			w = math.Max(w, c.Width)
			h = math.Max(h, c.Height)
		}
		return w + pad.Left + pad.Right, h + pad.Top + pad.Bottom
	}

	horizontal := n.Style.FlexDirection == FlexRow
	mainKnown := widthKnown
	if !horizontal {
		mainKnown = heightKnown
	}
	if n.Style.FlexWrap == FlexWrapOn && mainKnown {
		return intrinsicFlexWrapSize(n, contentW, contentH, horizontal)
	}

	var mainSum, crossMax float64
	for i, c := range n.children {
		measureNode(c, contentW, contentH)
		if i > 0 {
			mainSum += n.Style.Gap
		}
		if horizontal {
			mainSum += c.Width
			crossMax = math.Max(crossMax, c.Height)
		} else {
			mainSum += c.Height
			crossMax = math.Max(crossMax, c.Width)
		}
	}
	if horizontal {
		return mainSum + pad.Left + pad.Right, crossMax + pad.Top + pad.Bottom
	}
	return crossMax + pad.Left + pad.Right, mainSum + pad.Top + pad.Bottom
}

// intrinsicFlexWrapSize measures a wrapping flex container whose main axis
// is already fixed: children are bucketed into lines against that fixed
// main size, and the auto cross axis sums each line's cross extent (plus
// inter-line gap) instead of the single-line max.
func intrinsicFlexWrapSize(n *Node, contentW, contentH float64, horizontal bool) (w, h float64) {
	mainSize := contentW
	if !horizontal {
		mainSize = contentH
	}
	for _, c := range n.children {
		measureNode(c, contentW, contentH)
	}
	lines := splitFlexLines(n.children, mainSize, n.Style.Gap, horizontal)

	var crossTotal float64
	for i, line := range lines {
		if i > 0 {
			crossTotal += n.Style.Gap
		}
		crossTotal += lineCrossExtent(line, horizontal)
	}

	pad := n.Style.Padding
	if horizontal {
		return mainSize + pad.Left + pad.Right, crossTotal + pad.Top + pad.Bottom
	}
	return crossTotal + pad.Left + pad.Right, mainSize + pad.Top + pad.Bottom
}

// splitFlexLines buckets children into wrap lines: a child starts a new
// line when adding its main-axis basis (plus the preceding gap) to the
// current line would exceed mainSize and the current line already holds at
// least one child — so a single oversized child never produces an empty
// line ahead of it.
func splitFlexLines(children []*Node, mainSize, gap float64, horizontal bool) [][]*Node {
	var lines [][]*Node
	var cur []*Node
	var used float64
	for _, c := range children {
		basis := c.Width
		if !horizontal {
			basis = c.Height
		}
		if b, ok := c.Style.FlexBasis.Resolve(mainSize); ok {
			basis = b
		}
		next := used + basis
		if len(cur) > 0 {
			next += gap
		}
		if len(cur) > 0 && next > mainSize {
			lines = append(lines, cur)
			cur = []*Node{c}
			used = basis
			continue
		}
		cur = append(cur, c)
		used = next
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}

// lineCrossExtent returns a wrap line's cross size: the max of its items'
// own (pre-stretch) cross extents.
func lineCrossExtent(line []*Node, horizontal bool) float64 {
	var cross float64
	for _, c := range line {
		if horizontal {
			cross = math.Max(cross, c.Height)
		} else {
			cross = math.Max(cross, c.Width)
		}
	}
	return cross
}

// arrangeChildren positions n's direct children according to n.Style, then
// recurses so every descendant is fully measured and arranged before paint.
func arrangeChildren(n *Node) {
	if len(n.children) == 0 {
		return
	}
	if n.Style.Display == LayoutFlex || n.Style.Display == LayoutAnchor {
		// Children of a fixed-size parent were skipped by the measure pass.
		pad := n.Style.Padding
		for _, c := range n.children {
			measureNode(c, n.Width-pad.Left-pad.Right, n.Height-pad.Top-pad.Bottom)
		}
	}
	switch n.Style.Display {
	case LayoutFlex:
		arrangeFlex(n)
	case LayoutAnchor:
		arrangeAnchor(n)
	}
	for _, c := range n.children {
		arrangeChildren(c)
	}
}

// arrangeFlex distributes children along n's main axis in one pass: no
// growth/shrink redistribution iteration is performed past the first pass,
// so a shrink factor that cannot fully absorb overflow leaves the line
// overflowing (matching the documented one-pass semantics) rather than
// looping to convergence. When FlexWrap is on, children are first split
// into main-axis lines and each line is distributed independently, stacked
// along the cross axis in encounter order.
func arrangeFlex(n *Node) {
	pad := n.Style.Padding
	contentX := pad.Left
	contentY := pad.Top
	contentW := n.Width - pad.Left - pad.Right
	contentH := n.Height - pad.Top - pad.Bottom

	horizontal := n.Style.FlexDirection == FlexRow
	mainSize := contentW
	crossSize := contentH
	if !horizontal {
		mainSize = contentH
		crossSize = contentW
	}

	wrap := n.Style.FlexWrap == FlexWrapOn
	var lines [][]*Node
	if wrap {
		lines = splitFlexLines(n.children, mainSize, n.Style.Gap, horizontal)
	} else {
		lines = [][]*Node{n.children}
	}

	lineCross := make([]float64, len(lines))
	if wrap {
		for i, line := range lines {
			lineCross[i] = lineCrossExtent(line, horizontal)
		}
	} else if len(lines) > 0 {
		// Single-line (non-wrap) containers keep their existing semantics:
		// the line occupies the full cross size so align=stretch fills it.
		lineCross[0] = crossSize
	}

	crossCursor := contentY
	if !horizontal {
		crossCursor = contentX
	}
	for li, line := range lines {
		arrangeFlexLine(n, line, horizontal, mainSize, lineCross[li], contentX, contentY, crossCursor)
		crossCursor += lineCross[li] + n.Style.Gap
	}
}

// arrangeFlexLine lays out one main-axis line of children: flexGrow/
// flexShrink distribution and justify-content along the main axis, then
// per-child cross-axis alignment within lineCrossSize, offset by
// crossOffset to stack lines on top of one another.
func arrangeFlexLine(n *Node, children []*Node, horizontal bool, mainSize, lineCrossSize, contentX, contentY, crossOffset float64) {
	count := len(children)
	if count == 0 {
		return
	}
	gapTotal := n.Style.Gap * float64(max(0, count-1))

	basisSum := 0.0
	bases := make([]float64, count)
	for i, c := range children {
		if horizontal {
			bases[i] = c.Width
		} else {
			bases[i] = c.Height
		}
		if b, ok := c.Style.FlexBasis.Resolve(mainSize); ok {
			bases[i] = b
		}
		basisSum += bases[i]
	}

	free := mainSize - gapTotal - basisSum
	finalMain := make([]float64, count)
	if free > 0 {
		growSum := 0.0
		for _, c := range children {
			growSum += c.Style.FlexGrow
		}
		for i, c := range children {
			finalMain[i] = bases[i]
			if growSum > 0 {
				finalMain[i] += free * (c.Style.FlexGrow / growSum)
			}
		}
	} else if free < 0 {
		shrinkSum := 0.0
		for i, c := range children {
			shrinkSum += c.Style.FlexShrink * bases[i]
		}
		for i, c := range children {
			finalMain[i] = bases[i]
			if shrinkSum > 0 {
				finalMain[i] += free * (c.Style.FlexShrink * bases[i] / shrinkSum)
			}
			if finalMain[i] < 0 {
				finalMain[i] = 0
			}
		}
	} else {
		copy(finalMain, bases)
	}

	usedMain := gapTotal
	for _, m := range finalMain {
		usedMain += m
	}
	leftover := mainSize - usedMain
	cursor, gap := justifyOffsets(n.Style.JustifyContent, leftover, n.Style.Gap, count)

	for i, c := range children {
		if horizontal {
			c.Width = finalMain[i]
		} else {
			c.Height = finalMain[i]
		}

		align := n.Style.AlignItems
		if c.Style.AlignSelf != nil {
			align = *c.Style.AlignSelf
		}
		crossExtent := lineCrossSize
		if horizontal {
			crossExtent = c.Height
		} else {
			crossExtent = c.Width
		}
		if align == AlignStretch {
			crossExtent = lineCrossSize
			if horizontal {
				c.Height = crossExtent
			} else {
				c.Width = crossExtent
			}
		}
		crossAlign := alignOffset(align, lineCrossSize, crossExtent)

		var x, y float64
		if horizontal {
			x = contentX + cursor
			y = crossOffset + crossAlign
		} else {
			x = crossOffset + crossAlign
			y = contentY + cursor
		}
		setArrangedPosition(c, x, y)

		cursor += finalMain[i] + gap
	}
}

// justifyOffsets returns the starting cursor position and per-gap spacing
// for the given justify mode and leftover main-axis space.
func justifyOffsets(j Justify, leftover, baseGap float64, count int) (start, gap float64) {
	gap = baseGap
	switch j {
	case JustifyCenter:
		return leftover / 2, gap
	case JustifyEnd:
		return leftover, gap
	case JustifySpaceBetween:
		if count > 1 {
			return 0, gap + leftover/float64(count-1)
		}
		return 0, gap
	case JustifySpaceAround:
		if count > 0 {
			extra := leftover / float64(count)
			return extra / 2, gap + extra
		}
		return 0, gap
	default: // JustifyStart
		return 0, gap
	}
}

func alignOffset(a Align, containerSize, itemSize float64) float64 {
	switch a {
	case AlignCenter:
		return (containerSize - itemSize) / 2
	case AlignEnd:
		return containerSize - itemSize
	default: // AlignStart, AlignStretch
		return 0
	}
}

// arrangeAnchor resolves each child's position/size from its Style's
// Top/Left/Right/Bottom edge constraints against n's content box. A pair of
// opposing anchors (e.g. Left and Right both set) stretches that axis to
// fill the gap between them instead of using the child's own size.
func arrangeAnchor(n *Node) {
	pad := n.Style.Padding
	contentW := n.Width - pad.Left - pad.Right
	contentH := n.Height - pad.Top - pad.Bottom

	for _, c := range n.children {
		s := c.Style
		left, hasLeft := resolveEdge(s.Left, contentW)
		right, hasRight := resolveEdge(s.Right, contentW)
		top, hasTop := resolveEdge(s.Top, contentH)
		bottom, hasBottom := resolveEdge(s.Bottom, contentH)

		x, width := c.X, c.Width
		switch {
		case hasLeft && hasRight:
			x = pad.Left + left
			width = contentW - left - right
		case hasLeft:
			x = pad.Left + left
		case hasRight:
			x = pad.Left + contentW - right - c.Width
		}

		y, height := c.Y, c.Height
		switch {
		case hasTop && hasBottom:
			y = pad.Top + top
			height = contentH - top - bottom
		case hasTop:
			y = pad.Top + top
		case hasBottom:
			y = pad.Top + contentH - bottom - c.Height
		}

		if width < 0 {
			width = 0
		}
		if height < 0 {
			height = 0
		}
		c.Width, c.Height = width, height
		setArrangedPosition(c, x, y)
	}
}

func resolveEdge(u *Unit, containingSize float64) (float64, bool) {
	if u == nil {
		return 0, false
	}
	px, ok := u.Resolve(containingSize)
	return px, ok
}

// setArrangedPosition writes a snapped integer position directly into the
// node's transform fields without going through SetPosition, since the
// layout pass runs inside the same frame tick that will cascade transform
// dirtiness for the whole tree anyway.
func setArrangedPosition(n *Node, x, y float64) {
	n.X = math.Round(x)
	n.Y = math.Round(y)
	n.setSelf(DirtyTransform)
}
