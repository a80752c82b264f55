// Package compositor stitches per-output captures into one logical canvas.
package compositor

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/example/shotmark/internal/capture"
	"github.com/example/shotmark/internal/geom"
)

// Canvas is the logical region being composited and the number of canvas
// pixels per logical unit.
type Canvas struct {
	Box     geom.Box
	Density float64
}

// NewCanvas picks the density of the densest capture so no output is
// downsampled.
func NewCanvas(box geom.Box, caps capture.Captures) Canvas {
	density := 1
	for _, c := range caps {
		if c.Output.Scale > density {
			density = c.Output.Scale
		}
	}
	return Canvas{Box: box, Density: float64(density)}
}

// Size returns the canvas dimensions in pixels.
func (c Canvas) Size() image.Point {
	d := c.density()
	return image.Pt(int(math.Ceil(float64(c.Box.Width)*d)), int(math.Ceil(float64(c.Box.Height)*d)))
}

func (c Canvas) density() float64 {
	if c.Density <= 0 {
		return 1
	}
	return c.Density
}

// OutputMatrix maps canvas pixels to pixels of oc's buffer. Reading the
// chain from the bottom up:
//
//  1. canvas pixels to logical units (1/density)
//  2. canvas-relative to output-relative logical position
//  3. centre the output on the origin
//  4. logical to raw pixels, flipping axes as reported
//  5. rotate into buffer orientation
//  6. move the origin to the buffer's top-left corner
func OutputMatrix(oc *capture.OutputCapture, canvas Canvas) Matrix {
	out := oc.Output
	bufW, bufH := float64(oc.Buffer.Width), float64(oc.Buffer.Height)
	rawW, rawH := bufW, bufH
	if out.Transform.SwapsAxes() {
		rawW, rawH = rawH, rawW
	}
	logW, logH := float64(out.Logical.Width), float64(out.Logical.Height)

	fx, fy := 1.0, 1.0
	if out.Transform.Flipped() {
		fx = -1
	}
	if oc.Flags&capture.FlagYInvert != 0 {
		// Y-invert is a buffer-space flip; after a quarter turn that is the
		// logical x axis.
		if out.Transform.SwapsAxes() {
			fx = -fx
		} else {
			fy = -fy
		}
	}

	d := canvas.density()
	return Identity().
		Translate(bufW/2, bufH/2).
		Rotate(float64(out.Transform.QuarterTurns())*math.Pi/2).
		Scale(rawW/logW*fx, rawH/logH*fy).
		Translate(-logW/2, -logH/2).
		Translate(-float64(out.Logical.X-canvas.Box.X), -float64(out.Logical.Y-canvas.Box.Y)).
		Scale(1/d, 1/d)
}

// Composite draws every capture onto a new canvas image over a black
// background. Captures are painted last-discovered first, so where outputs
// overlap the first discovered output wins.
func Composite(canvas Canvas, caps capture.Captures) (*image.RGBA, error) {
	size := canvas.Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("canvas %s has no area", canvas.Box)
	}
	dst := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, xdraw.Src)
	for i := len(caps) - 1; i >= 0; i-- {
		oc := caps[i]
		if err := drawCapture(dst, canvas, oc); err != nil {
			return nil, fmt.Errorf("composite %s: %w", oc.Output.Name, err)
		}
	}
	return dst, nil
}

func drawCapture(dst *image.RGBA, canvas Canvas, oc *capture.OutputCapture) error {
	if oc.Output.Logical.Empty() {
		log.Printf("compositor: skipping %s with empty logical size", oc.Output.Name)
		return nil
	}
	src, err := oc.Buffer.Image()
	if err != nil {
		return err
	}
	s2d, ok := OutputMatrix(oc, canvas).Invert()
	if !ok {
		return fmt.Errorf("singular output transform")
	}
	kernel := xdraw.Interpolator(xdraw.CatmullRom)
	if isAxisAlignedUnit(s2d) {
		kernel = xdraw.NearestNeighbor
	}
	kernel.Transform(dst, s2d.Aff3(), src, src.Bounds(), xdraw.Over, nil)
	return nil
}

// isAxisAlignedUnit reports whether m only translates by whole pixels and
// turns or flips by quarter steps, where resampling would only blur.
func isAxisAlignedUnit(m Matrix) bool {
	whole := func(v float64) bool { return v == math.Trunc(v) }
	unit := func(v float64) bool { return v == 0 || v == 1 || v == -1 }
	return unit(m.A) && unit(m.B) && unit(m.D) && unit(m.E) &&
		math.Abs(m.Det()) == 1 && whole(m.C) && whole(m.F)
}
