package ebitenhost

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dragonworx/arena2d"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch, matching arena2d's own slot count

// inputPoller polls ebiten's mouse/touch/keyboard/wheel state once per
// Update and translates it into View.Interaction dispatch calls.
//
// The touch-ID-to-slot allocation and the mouse-always-pointer-0 convention
// follow a standard host-input mapping, generalized to arena2d's
// one-poller-feeds-every-view model (every view gets the same raw screen
// input, since arena2d has no per-view input routing policy to decide
// between).
type inputPoller struct {
	scene *arena2d.Scene

	touchUsed [maxPointers]bool
	touchMap  [maxPointers]ebiten.TouchID
	prevTouch []ebiten.TouchID

	prevKeys map[ebiten.Key]bool
}

func newInputPoller(scene *arena2d.Scene) *inputPoller {
	return &inputPoller{scene: scene, prevKeys: make(map[ebiten.Key]bool)}
}

func (p *inputPoller) poll() {
	mods := readModifiers()
	for _, v := range p.scene.Views() {
		p.pollMouse(v, mods)
		p.pollTouch(v, mods)
		p.pollWheel(v, mods)
	}
	p.pollKeyboard(mods)
}

func readModifiers() arena2d.KeyModifiers {
	var mods arena2d.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= arena2d.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= arena2d.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= arena2d.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= arena2d.ModMeta
	}
	return mods
}

func (p *inputPoller) pollMouse(v *arena2d.View, mods arena2d.KeyModifiers) {
	mx, my := ebiten.CursorPosition()
	wx, wy := v.ScreenToWorld(float64(mx), float64(my))

	var pressed bool
	var button arena2d.MouseButton
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		pressed, button = true, arena2d.MouseButtonLeft
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		pressed, button = true, arena2d.MouseButtonRight
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle):
		pressed, button = true, arena2d.MouseButtonMiddle
	}

	v.Interaction.DispatchPointer(0, wx, wy, pressed, button, mods)
}

func (p *inputPoller) pollTouch(v *arena2d.View, mods arena2d.KeyModifiers) {
	ids := ebiten.AppendTouchIDs(p.prevTouch[:0])
	p.prevTouch = ids

	var active [maxPointers]bool
	for _, tid := range ids {
		slot := p.touchSlot(tid)
		if slot < 0 {
			continue
		}
		active[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		wx, wy := v.ScreenToWorld(float64(tx), float64(ty))
		v.Interaction.DispatchPointer(slot, wx, wy, true, arena2d.MouseButtonLeft, mods)
	}

	for i := 1; i < maxPointers; i++ {
		if p.touchUsed[i] && !active[i] {
			p.touchUsed[i] = false
			p.touchMap[i] = 0
		}
	}
}

// touchSlot maps an ebiten.TouchID to a stable pointer slot in [1, 9],
// allocating on first sight and freeing only once the touch disappears.
func (p *inputPoller) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if p.touchUsed[i] && p.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !p.touchUsed[i] {
			p.touchUsed[i] = true
			p.touchMap[i] = tid
			return i
		}
	}
	return -1
}

func (p *inputPoller) pollWheel(v *arena2d.View, mods arena2d.KeyModifiers) {
	dx, dy := ebiten.Wheel()
	if dx == 0 && dy == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	wx, wy := v.ScreenToWorld(float64(mx), float64(my))
	v.Interaction.DispatchWheel(wx, wy, dx, dy, mods)
}

// pollKeyboard edge-detects every pressed key once per frame and dispatches
// keydown/keyup to the first view's focus chain; arena2d has no notion of
// per-view keyboard focus, so keyboard events aren't routed per-view the
// way pointer events are.
func (p *inputPoller) pollKeyboard(mods arena2d.KeyModifiers) {
	views := p.scene.Views()
	if len(views) == 0 {
		return
	}
	im := views[0].Interaction

	var pressed []ebiten.Key
	pressed = ebiten.AppendPressedKeys(pressed[:0])
	now := make(map[ebiten.Key]bool, len(pressed))
	for _, k := range pressed {
		now[k] = true
		if !p.prevKeys[k] {
			im.DispatchKey(arena2d.EventKeyDown, k.String(), mods)
		}
	}
	for k := range p.prevKeys {
		if !now[k] {
			im.DispatchKey(arena2d.EventKeyUp, k.String(), mods)
		}
	}
	p.prevKeys = now
}
