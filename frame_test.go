package arena2d

import (
	"math"
	"testing"
)

func TestFrameDriverStartArmsFirstTick(t *testing.T) {
	s := NewScene(100, 100)
	s.Frame.Start()
	if !s.Frame.Running() {
		t.Fatal("expected Start to leave the driver running")
	}
	if !s.Frame.firstTick {
		t.Fatal("expected Start to arm firstTick so the next Advance reports dt=0")
	}
}

func TestFrameDriverStopPreventsTicks(t *testing.T) {
	s := NewScene(100, 100)
	s.Frame.Start()
	s.Frame.Stop()
	if s.Frame.Running() {
		t.Fatal("expected Stop to leave the driver not running")
	}
	s.root.SetPosition(1, 1)
	s.Frame.Advance(1.0)
	assertDirty(t, s.root, DirtyTransform, true, "stopped driver must not tick")
}

func TestFrameDriverFPSZeroPauses(t *testing.T) {
	s := NewScene(100, 100)
	s.Frame.FPS = 0
	s.Frame.Start()
	s.root.SetPosition(1, 1)
	s.Frame.Advance(10.0)
	assertDirty(t, s.root, DirtyTransform, true, "FPS=0 must never tick")
}

func TestFrameDriverInfiniteFPSTicksEveryAdvance(t *testing.T) {
	s := NewScene(100, 100)
	s.Frame.Start()
	child := NewNode("child")
	s.root.AddChild(child)
	s.root.clearBit(dirtyAll)
	child.clearBit(dirtyAll)
	child.SetPosition(5, 5)

	s.Frame.Advance(1.0 / 60)

	assertDirty(t, child, DirtyTransform, false, "an unthrottled tick must resolve pending transforms")
}

func TestFrameDriverThrottledFPSAccumulates(t *testing.T) {
	s := NewScene(100, 100)
	s.Frame.FPS = 10 // period = 0.1s
	s.Frame.Start()
	s.root.clearBit(dirtyAll)
	s.root.SetPosition(1, 0)

	s.Frame.Advance(0.05) // under one period, must not tick
	assertDirty(t, s.root, DirtyTransform, true, "half a period must not fire a tick yet")

	s.root.SetPosition(2, 0)
	s.Frame.Advance(0.06) // crosses the 0.1s period boundary
	assertDirty(t, s.root, DirtyTransform, false, "a fired tick resolves the pending transform")
}

func TestFrameDriverClampsLargeDeltaTime(t *testing.T) {
	d := &FrameDriver{FPS: math.Inf(1), MaxDeltaTime: 0.1}
	d.Start()
	d.firstTick = false // simulate being past the very first tick
	if got := d.clampedDT(5.0); got != 0.1 {
		t.Fatalf("expected dt clamped to MaxDeltaTime 0.1, got %v", got)
	}
	if got := d.clampedDT(0.02); got != 0.02 {
		t.Fatalf("expected a small dt to pass through unclamped, got %v", got)
	}
}

func TestFrameDriverFirstTickDTIsZero(t *testing.T) {
	d := &FrameDriver{FPS: math.Inf(1), MaxDeltaTime: 0.1}
	d.Start()
	if got := d.clampedDT(5.0); got != 0 {
		t.Fatalf("expected the first tick's dt to be 0, got %v", got)
	}
	if got := d.clampedDT(5.0); got != 0.1 {
		t.Fatalf("expected the second tick to clamp normally, got %v", got)
	}
}

func TestResolveTransformsUsesScrollChildrenMatrixForChildren(t *testing.T) {
	viewport := NewNode("viewport")
	viewport.Width, viewport.Height = 100, 100
	content := NewNode("content")
	viewport.AddChild(content)

	scroll := NewScrollContainer(viewport)
	viewport.Scroll = scroll
	scroll.ContentWidth, scroll.ContentHeight = 500, 500
	scroll.SetScroll(30, 40)

	resolveTransforms(viewport, Identity)

	x, y := content.worldMatrix.TransformPoint(0, 0)
	if x != -30 || y != -40 {
		t.Fatalf("expected content's world origin offset by (-30, -40) via ChildrenMatrix, got (%v, %v)", x, y)
	}
}
