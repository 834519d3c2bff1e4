package arena2d

// PaintContext is the host surface backend the paint orchestrator draws
// through. It abstracts draw operations (GeoM/ColorScale/DrawImage/
// DrawTriangles style calls) behind a vector interface so the core package
// never imports a concrete graphics library; the concrete implementation
// lives in the ebitenhost subpackage.
type PaintContext interface {
	Save()
	Restore()

	// SetTransform replaces the current transform with the affine matrix
	// [a b c d tx ty].
	SetTransform(a, b, c, d, tx, ty float64)

	SetGlobalAlpha(alpha float64)
	SetCompositeOperation(mode BlendMode)

	// SetFillColor and SetStrokeColor set the solid color used by the next
	// Fill/FillRect/FillText or Stroke/StrokeRect call, mirroring the host
	// canvas's fillStyle/strokeStyle mutable fields for the common solid-color
	// case (gradients are covered separately, best-effort, by the backend).
	SetFillColor(r, g, b, a byte)
	SetStrokeColor(r, g, b, a byte)

	ClearRect(x, y, w, h float64)
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Rect(x, y, w, h float64)
	RoundRect(x, y, w, h, radius float64)
	Arc(cx, cy, radius, startAngle, endAngle float64)
	Ellipse(cx, cy, rx, ry, rotation, startAngle, endAngle float64)
	QuadraticCurveTo(cpx, cpy, x, y float64)
	BezierCurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64)
	ClosePath()
	Fill()
	Stroke()
	Clip()

	DrawImage(img Image, sx, sy, sw, sh, dx, dy, dw, dh float64)

	MeasureText(text string) TextMetrics
	FillText(text string, x, y float64)

	// GetImageData reads back w×h pixels at (x, y). ok is false when the
	// backend refuses the read (e.g. a cross-origin host canvas); callers
	// fall back to the geometric hit-test path and log one debug warning.
	GetImageData(x, y, w, h int) (data []byte, ok bool)
}

// Image is an opaque handle to a decoded bitmap a Drawable can blit via
// PaintContext.DrawImage. The concrete type is supplied by the host surface
// backend (an *ebiten.Image in the ebitenhost adapter).
type Image interface {
	Size() (w, h int)
}

// TextMetrics mirrors the host canvas TextMetrics contract text collaborators
// need from MeasureText.
type TextMetrics struct {
	Width                    float64
	FontBoundingBoxAscent    float64
	FontBoundingBoxDescent   float64
}

// Layer is an offscreen raster surface owned either by a CacheAsBitmap
// container (the cached subtree's flattened pixels) or by a View (one of
// its named render layers). The core package only needs to hold and discard
// the handle; drawing into one happens through a PaintContext bound to it.
type Layer interface {
	Size() (w, h int)
	Resize(w, h int)
	Context() PaintContext
	AsImage() Image
	Dispose()
}
