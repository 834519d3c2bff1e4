package ebitenhost

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/dragonworx/arena2d"
)

// whitePixel is a 1x1 opaque white image used as the source texture for
// flat-color triangle fills (Fill/Stroke), mirroring the stock approach
// ebiten's own vector package uses internally for solid-color geometry.
var whitePixel = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(whiteColor)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

// whitePixelSrcXY is the source coordinate every Fill/Stroke triangle
// vertex samples: the center of whitePixel's 1x1 sub-image.
const whitePixelSrcXY = 1.5

func rectOf(x0, y0, x1, y1 int) image.Rectangle {
	return image.Rect(x0, y0, x1, y1)
}

// Image adapts an *ebiten.Image to arena2d.Image, the opaque bitmap handle
// Drawables pass to PaintContext.DrawImage.
type Image struct {
	img *ebiten.Image
}

// NewImage wraps an already-decoded ebiten image.
func NewImage(img *ebiten.Image) *Image {
	return &Image{img: img}
}

func (i *Image) Size() (w, h int) {
	if i.img == nil {
		return 0, 0
	}
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

// Layer is arena2d.Layer backed by an offscreen *ebiten.Image, used both as
// a View's backing render target and as a CacheAsBitmap container's cached
// raster.
//
// The resize/dispose lifecycle follows a typical pooled-render-target
// pattern (see DESIGN.md); the pooling/reuse layer itself is dropped since
// arena2d's paint.go only ever (re)creates a Layer on a Resize, not once
// per frame.
type Layer struct {
	img *ebiten.Image
	ctx *Context
}

// NewLayer allocates a w x h offscreen layer.
func NewLayer(w, h int) *Layer {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := ebiten.NewImage(w, h)
	return &Layer{img: img, ctx: NewContext(img)}
}

func (l *Layer) Size() (w, h int) {
	b := l.img.Bounds()
	return b.Dx(), b.Dy()
}

func (l *Layer) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if cw, ch := l.Size(); cw == w && ch == h {
		return
	}
	l.img.Deallocate()
	l.img = ebiten.NewImage(w, h)
	l.ctx.Retarget(l.img)
}

func (l *Layer) Context() arena2d.PaintContext { return l.ctx }

func (l *Layer) AsImage() arena2d.Image { return &Image{img: l.img} }

func (l *Layer) Dispose() {
	l.img.Deallocate()
}

// Raw exposes the underlying *ebiten.Image for the Game shell's final
// composite blit, which needs a concrete ebiten type rather than the
// arena2d.Layer interface.
func (l *Layer) Raw() *ebiten.Image { return l.img }
