package appstate

import (
	"image"
	"math"

	"github.com/example/shotmark/internal/geom"
)

// fitFraction is the share of the available area the initial window may
// cover.
const fitFraction = 0.75

// FitScale returns the initial view scale for a canvas shown in an area of
// avail pixels: 1 when the canvas fits in 75% of the area, otherwise the
// largest scale that makes it fit. An empty area yields 1.
func FitScale(canvas, avail image.Point) float64 {
	if canvas.X <= 0 || canvas.Y <= 0 || avail.X <= 0 || avail.Y <= 0 {
		return 1
	}
	maxW := float64(avail.X) * fitFraction
	maxH := float64(avail.Y) * fitFraction
	if float64(canvas.X) <= maxW && float64(canvas.Y) <= maxH {
		return 1
	}
	return math.Min(maxW/float64(canvas.X), maxH/float64(canvas.Y))
}

// viewRect returns where a canvas of the given size is drawn in a window
// when scaled. The canvas is centred and never placed above or left of the
// window origin.
func viewRect(canvas image.Point, scale float64, win image.Point) image.Rectangle {
	w := int(math.Round(float64(canvas.X) * scale))
	h := int(math.Round(float64(canvas.Y) * scale))
	x0 := max((win.X-w)/2, 0)
	y0 := max((win.Y-h)/2, 0)
	return image.Rect(x0, y0, x0+w, y0+h)
}

// ScreenToCanvas maps a window position into canvas coordinates for a
// canvas drawn at view with the given scale, clamped to the canvas.
func ScreenToCanvas(x, y float64, view image.Rectangle, scale float64, canvas image.Point) geom.Point {
	if scale <= 0 {
		scale = 1
	}
	p := geom.Pt((x-float64(view.Min.X))/scale, (y-float64(view.Min.Y))/scale)
	return p.Clamp(float64(canvas.X), float64(canvas.Y))
}

// canvasToScreen maps a canvas rectangle into window coordinates.
func canvasToScreen(r image.Rectangle, view image.Rectangle, scale float64) image.Rectangle {
	at := func(v int, origin int) int { return origin + int(math.Round(float64(v)*scale)) }
	return image.Rect(at(r.Min.X, view.Min.X), at(r.Min.Y, view.Min.Y), at(r.Max.X, view.Min.X), at(r.Max.Y, view.Min.Y))
}
