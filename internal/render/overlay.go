package render

import (
	"image"
	"image/color"
	"image/draw"
)

const handleSize = 8

var (
	cropShade    = color.NRGBA{A: 0x80}
	handleFill   = color.White
	handleBorder = color.Black
)

// DrawCropOverlay shades everything outside sel and draws a dashed border
// with eight resize handles around it. sel is in dst coordinates.
func DrawCropOverlay(dst *image.RGBA, sel image.Rectangle) {
	sel = sel.Canon()
	b := dst.Bounds()
	shade := image.NewUniform(cropShade)
	for _, r := range []image.Rectangle{
		image.Rect(b.Min.X, b.Min.Y, b.Max.X, sel.Min.Y),
		image.Rect(b.Min.X, sel.Max.Y, b.Max.X, b.Max.Y),
		image.Rect(b.Min.X, sel.Min.Y, sel.Min.X, sel.Max.Y),
		image.Rect(sel.Max.X, sel.Min.Y, b.Max.X, sel.Max.Y),
	} {
		draw.Draw(dst, r.Canon().Intersect(b), shade, image.Point{}, draw.Over)
	}
	drawDashedRect(dst, sel, 4, 2, color.White, color.Black)
	for _, h := range CropHandleRects(sel) {
		draw.Draw(dst, h.Intersect(b), image.NewUniform(handleFill), image.Point{}, draw.Src)
		drawRect(dst, h.Intersect(b), handleBorder, 1)
	}
}

// CropHandleRects returns the handle squares of rect, clockwise from the
// top-left corner.
func CropHandleRects(rect image.Rectangle) []image.Rectangle {
	hs := handleSize / 2
	cx := (rect.Min.X + rect.Max.X) / 2
	cy := (rect.Min.Y + rect.Max.Y) / 2
	at := func(x, y int) image.Rectangle { return image.Rect(x-hs, y-hs, x+hs, y+hs) }
	return []image.Rectangle{
		at(rect.Min.X, rect.Min.Y),
		at(cx, rect.Min.Y),
		at(rect.Max.X, rect.Min.Y),
		at(rect.Max.X, cy),
		at(rect.Max.X, rect.Max.Y),
		at(cx, rect.Max.Y),
		at(rect.Min.X, rect.Max.Y),
		at(rect.Min.X, cy),
	}
}

// dashedLine draws an axis-aligned line alternating c1 and c2 every dash
// pixels.
func dashedLine(dst *image.RGBA, x0, y0, x1, y1, dash, thickness int, c1, c2 color.Color) {
	horiz := y0 == y1
	length := x1 - x0
	if !horiz {
		length = y1 - y0
	}
	dir := 1
	if length < 0 {
		length, dir = -length, -1
	}
	for i := 0; i <= length; i++ {
		col := c1
		if (i/dash)%2 == 1 {
			col = c2
		}
		for t := 0; t < thickness; t++ {
			if horiz {
				dst.Set(x0+dir*i, y0+t, col)
			} else {
				dst.Set(x0+t, y0+dir*i, col)
			}
		}
	}
}

func drawDashedRect(dst *image.RGBA, r image.Rectangle, dash, thickness int, c1, c2 color.Color) {
	dashedLine(dst, r.Min.X, r.Min.Y, r.Max.X, r.Min.Y, dash, thickness, c1, c2)
	dashedLine(dst, r.Max.X, r.Min.Y, r.Max.X, r.Max.Y, dash, thickness, c1, c2)
	dashedLine(dst, r.Max.X, r.Max.Y, r.Min.X, r.Max.Y, dash, thickness, c1, c2)
	dashedLine(dst, r.Min.X, r.Max.Y, r.Min.X, r.Min.Y, dash, thickness, c1, c2)
}
