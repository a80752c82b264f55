package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// ShadowOptions configures the drop shadow added to exported snapshots.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// ShadowResult is the output of ApplyShadow.
type ShadowResult struct {
	Image *image.RGBA
	// Offset is where the original image's top-left corner ended up inside
	// the expanded image.
	Offset image.Point
}

// DefaultShadowOptions returns a soft shadow below and to the right.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{
		Radius:  24,
		Offset:  image.Pt(16, 16),
		Opacity: 0.55,
	}
}

// ApplyShadow returns img over a blurred copy of its alpha channel. The
// shadow uses the same separable Gaussian kernel as the blur tool, with sigma
// at half the radius. The result has a zero origin.
func ApplyShadow(img *image.RGBA, opts ShadowOptions) ShadowResult {
	if img == nil {
		return ShadowResult{}
	}
	if img.Bounds().Empty() || opts.Opacity <= 0 {
		return ShadowResult{Image: img}
	}
	opacity := math.Min(opts.Opacity, 1)
	radius := max(opts.Radius, 0)

	src := img.Bounds()
	padded := src.Inset(-radius)
	shadow := padded.Add(opts.Offset)
	all := src.Union(shadow)

	mask := image.NewGray(padded.Sub(padded.Min))
	for y := src.Min.Y; y < src.Max.Y; y++ {
		for x := src.Min.X; x < src.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 0 {
				mask.SetGray(x-padded.Min.X, y-padded.Min.Y, color.Gray{Y: a})
			}
		}
	}
	blurred := blurGray(mask, NewKernel(radius, float64(radius)/2))

	dst := image.NewRGBA(all.Sub(all.Min))
	if a := uint8(opacity*255 + 0.5); a > 0 {
		at := shadow.Min.Sub(all.Min)
		draw.DrawMask(dst, blurred.Bounds().Add(at), image.NewUniform(color.RGBA{A: a}), image.Point{}, blurred, image.Point{}, draw.Over)
	}
	draw.Draw(dst, src.Sub(all.Min), img, src.Min, draw.Over)
	return ShadowResult{Image: dst, Offset: src.Min.Sub(all.Min)}
}

// blurGray runs the separable kernel over a single channel, clamping samples
// to the image.
func blurGray(src *image.Gray, k Kernel) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(b)
	if k.Radius == 0 || k.Sum == 0 {
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := b.Dx(), b.Dy()
	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i, t := range k.Taps {
				sx := min(max(x+i-k.Radius, 0), w-1)
				acc += float64(src.Pix[y*src.Stride+sx]) * t
			}
			tmp[y*w+x] = acc / k.Sum
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var acc float64
			for i, t := range k.Taps {
				sy := min(max(y+i-k.Radius, 0), h-1)
				acc += tmp[sy*w+x] * t
			}
			out.Pix[y*out.Stride+x] = uint8(math.Min(math.Round(acc/k.Sum), 255))
		}
	}
	return out
}
