// Package theme holds the colours of the editor window around the canvas.
package theme

import (
	"embed"
	"image"
	"image/color"
	"image/draw"
)

// EmbeddedThemes are the themes shipped in the binary, selectable by name.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Theme defines the colour palette of the editor window.
type Theme struct {
	Name string

	// Background fills the window outside the canvas.
	Background color.NRGBA

	// Checker squares show through transparent canvas pixels.
	CheckerLight color.NRGBA
	CheckerDark  color.NRGBA
	CheckerSize  int
}

// Default returns the built-in dark theme.
func Default() *Theme {
	return &Theme{
		Name:         "dark",
		Background:   color.NRGBA{0x30, 0x30, 0x30, 0xFF},
		CheckerLight: color.NRGBA{0x99, 0x99, 0x99, 0xFF},
		CheckerDark:  color.NRGBA{0x66, 0x66, 0x66, 0xFF},
		CheckerSize:  8,
	}
}

// DrawBackground fills dst with the background and r, in dst coordinates,
// with the checkerboard.
func (t *Theme) DrawBackground(dst draw.Image, r image.Rectangle) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(t.Background), image.Point{}, draw.Src)
	r = r.Intersect(dst.Bounds())
	size := max(t.CheckerSize, 1)
	light, dark := image.NewUniform(t.CheckerLight), image.NewUniform(t.CheckerDark)
	for y := r.Min.Y; y < r.Max.Y; y += size {
		for x := r.Min.X; x < r.Max.X; x += size {
			src := light
			if ((x-r.Min.X)/size+(y-r.Min.Y)/size)%2 == 1 {
				src = dark
			}
			cell := image.Rect(x, y, x+size, y+size).Intersect(r)
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}
