package ebitenhost

import (
	"bytes"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/dragonworx/arena2d"
)

var whiteColor = color.White

// defaultFace is the fallback text face used when a Drawable doesn't carry
// its own font: the go font family ebiten's own examples ship for exactly
// this purpose, routed through text/v2's GoTextFaceSource.
var defaultFace = func() *text.GoTextFace {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil
	}
	return &text.GoTextFace{Source: src, Size: 14}
}()

// FontSize overrides the point size used for subsequent MeasureText/FillText
// calls on this context. Zero resets to the default face's size.
func (c *Context) FontSize(size float64) {
	if defaultFace == nil {
		return
	}
	if size <= 0 {
		size = 14
	}
	c.fontSize = size
}

func (c *Context) face() *text.GoTextFace {
	if defaultFace == nil {
		return nil
	}
	if c.fontSize == 0 {
		return defaultFace
	}
	return &text.GoTextFace{Source: defaultFace.Source, Size: c.fontSize}
}

func (c *Context) MeasureText(s string) arena2d.TextMetrics {
	f := c.face()
	if f == nil {
		return arena2d.TextMetrics{}
	}
	w, h := text.Measure(s, f, f.Size*1.2)
	return arena2d.TextMetrics{
		Width:                  w,
		FontBoundingBoxAscent:  h * 0.8,
		FontBoundingBoxDescent: h * 0.2,
	}
}

func (c *Context) FillText(s string, x, y float64) {
	f := c.face()
	if f == nil {
		return
	}
	px, py := c.state.geom.Apply(x, y)
	op := &text.DrawOptions{}
	op.GeoM.Translate(px, py)
	col := c.withAlpha(c.state.fillColor)
	op.ColorScale.ScaleWithColor(col)
	op.Blend = c.ebitenBlend()
	text.Draw(c.target, s, f, op)
}

func (c *Context) GetImageData(x, y, w, h int) (data []byte, ok bool) {
	if w <= 0 || h <= 0 {
		return nil, true
	}
	bounds := c.target.Bounds()
	if x < bounds.Min.X || y < bounds.Min.Y || x+w > bounds.Max.X || y+h > bounds.Max.Y {
		return nil, true
	}
	sub := c.target.SubImage(rectOf(x, y, x+w, y+h)).(*ebiten.Image)
	data = make([]byte, 4*w*h)
	sub.ReadPixels(data)
	return data, true
}
