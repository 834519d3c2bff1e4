package arena2d

import "math"

// FrameDriver owns the per-scene tick loop: clamping delta time, throttling
// to a target FPS, and running the fixed layout -> transforms -> paint ->
// spatial index / hit-buffer refresh -> hover pipeline in that order every
// tick it actually fires.
//
// The Update/Draw split and dt accumulation follow a typical game-loop
// shell, generalized with arena2d's own throttle/pause/bypass FPS
// semantics — a host loop already paced by its own framework (Ebiten's
// RunGame, for instance) has no need for this throttling itself.
type FrameDriver struct {
	Scene *Scene

	// FPS is the target tick rate. math.Inf(1) bypasses throttling entirely
	// (every driver Advance call ticks); 0 pauses the driver (no ticks ever
	// fire); any other finite value throttles via an accumulator.
	FPS float64

	// MaxDeltaTime clamps a single tick's dt, default 0.1s, so a stall (tab
	// backgrounded, breakpoint, GC pause) can't produce a physics-breaking
	// jump.
	MaxDeltaTime float64

	started      bool
	firstTick    bool
	accumulator  float64
	renderBuf    []RenderCommand
}

// NewFrameDriver returns a driver with its documented defaults: uncapped
// FPS, 0.1s max delta.
func NewFrameDriver(scene *Scene) *FrameDriver {
	return &FrameDriver{
		Scene:        scene,
		FPS:          math.Inf(1),
		MaxDeltaTime: 0.1,
	}
}

// Start (re)arms the driver so its next Advance call reports dt = 0,
// matching the documented first-tick-after-start behavior.
func (d *FrameDriver) Start() {
	d.started = true
	d.firstTick = true
	d.accumulator = 0
}

// Stop halts the driver; subsequent Advance calls are no-ops until Start is
// called again.
func (d *FrameDriver) Stop() {
	d.started = false
}

// Running reports whether the driver will act on Advance calls.
func (d *FrameDriver) Running() bool { return d.started }

// Advance offers wallDT seconds of elapsed wall-clock time to the driver.
// It runs zero or more ticks (almost always zero or one; the accumulator
// can in principle fire more than one catch-up tick if FPS is low and
// wallDT is large, but each individual tick's dt is still clamped).
func (d *FrameDriver) Advance(wallDT float64) {
	if !d.started {
		return
	}
	if d.FPS == 0 {
		return
	}
	if math.IsInf(d.FPS, 1) {
		d.tick(d.clampedDT(wallDT))
		return
	}

	period := 1.0 / d.FPS
	d.accumulator += wallDT
	for d.accumulator >= period {
		d.tick(d.clampedDT(period))
		d.accumulator -= period
	}
}

func (d *FrameDriver) clampedDT(dt float64) float64 {
	if d.firstTick {
		d.firstTick = false
		return 0
	}
	if dt > d.MaxDeltaTime {
		return d.MaxDeltaTime
	}
	return dt
}

// tick runs the deterministic per-frame pipeline: caller-supplied Update
// hooks have already run by the time Advance is called (the driver itself
// has no update-hook registry — Scene.Update or the embedding application
// drives node logic), so tick's job is strictly the derived-state pipeline:
// resolve layout if dirty, resolve transforms, repaint, refresh the hit
// buffer if spatial state moved, then re-evaluate hover state.
func (d *FrameDriver) tick(dt float64) {
	s := d.Scene
	if s == nil {
		return
	}

	if s.root.dirty&DirtyLayout != 0 || anyDescendantLayoutDirty(s.root) {
		ResolveLayout(s.root, s.Width, s.Height)
	}

	resolveTransforms(s.root, Identity)

	s.paintAll()

	if s.spatialDirty {
		s.refreshSpatialIndexes()
		s.spatialDirty = false
	}

	for _, v := range s.views {
		v.Interaction.refreshHover()
	}
}

func anyDescendantLayoutDirty(n *Node) bool {
	for _, c := range n.children {
		if c.dirty&DirtyLayout != 0 || anyDescendantLayoutDirty(c) {
			return true
		}
	}
	return false
}

// resolveTransforms recomposes localMatrix/worldMatrix for every node whose
// DirtyTransform bit is set, walking top-down so a parent's world matrix is
// final before any child composes against it.
func resolveTransforms(n *Node, parentWorld Matrix) {
	if n.dirty&DirtyTransform != 0 {
		n.localMatrix = composeLocal(n)
		n.worldMatrix = parentWorld.Multiply(n.localMatrix)
		n.clearBit(DirtyTransform)
	} else {
		n.worldMatrix = parentWorld.Multiply(n.localMatrix)
	}

	childWorld := n.worldMatrix
	if n.Scroll != nil {
		childWorld = n.Scroll.ChildrenMatrix()
	}
	for _, c := range n.children {
		resolveTransforms(c, childWorld)
	}
}
