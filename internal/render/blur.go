package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/shotmark/internal/paint"
)

// Defaults for the blur tool.
const (
	DefaultBlurRadius = 15
	DefaultBlurSigma  = 7.5
	kernelScale       = 0xff
)

var (
	blurOverlayColor = color.NRGBA{R: 0x80, G: 0x80, B: 0xFF, A: 0x30}
	blurBorderColor  = color.NRGBA{R: 0x40, G: 0x40, B: 0xC0, A: 0xC0}
)

// Kernel is a one-dimensional Gaussian kernel of 2*Radius+1 taps. Taps are
// unnormalised; Sum is the value convolutions divide by.
type Kernel struct {
	Radius int
	Sigma  float64
	Taps   []float64
	Sum    float64
}

// NewKernel builds the kernel for radius and sigma. A non-positive sigma is
// derived from the radius.
func NewKernel(radius int, sigma float64) Kernel {
	radius = max(radius, 0)
	if sigma <= 0 {
		sigma = math.Max(float64(radius)/2, 0.5)
	}
	k := Kernel{Radius: radius, Sigma: sigma, Taps: make([]float64, 2*radius+1)}
	for i := range k.Taps {
		x := float64(i - radius)
		k.Taps[i] = math.Exp(-(x*x)/(2*sigma*sigma)) * kernelScale
		k.Sum += k.Taps[i]
	}
	return k
}

// Weights returns the taps divided by Sum.
func (k Kernel) Weights() []float64 {
	w := make([]float64, len(k.Taps))
	for i, t := range k.Taps {
		w[i] = t / k.Sum
	}
	return w
}

// BlurRegion blurs r of img in place with two separable passes. Taps are
// clamped to the image bounds, so neighbours just outside r contribute, but
// only pixels inside r are written. The clamped region is returned.
func BlurRegion(img *image.RGBA, r image.Rectangle, k Kernel) image.Rectangle {
	b := img.Bounds()
	r = r.Intersect(b)
	if r.Empty() || len(k.Taps) == 0 || k.Sum == 0 {
		return r
	}
	// Rows the vertical pass reads from.
	rows := image.Rect(r.Min.X, r.Min.Y-k.Radius, r.Max.X, r.Max.Y+k.Radius).Intersect(b)
	w := r.Dx()
	tmp := make([]float64, w*rows.Dy()*4)

	for y := rows.Min.Y; y < rows.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var acc [4]float64
			for i, t := range k.Taps {
				sx := min(max(x+i-k.Radius, b.Min.X), b.Max.X-1)
				o := img.PixOffset(sx, y)
				for c := 0; c < 4; c++ {
					acc[c] += float64(img.Pix[o+c]) * t
				}
			}
			o := ((y-rows.Min.Y)*w + x - r.Min.X) * 4
			for c := 0; c < 4; c++ {
				tmp[o+c] = acc[c] / k.Sum
			}
		}
	}

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			var acc [4]float64
			for i, t := range k.Taps {
				sy := min(max(y+i-k.Radius, b.Min.Y), b.Max.Y-1)
				o := ((sy-rows.Min.Y)*w + x - r.Min.X) * 4
				for c := 0; c < 4; c++ {
					acc[c] += tmp[o+c] * t
				}
			}
			o := img.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				img.Pix[o+c] = uint8(math.Min(math.Round(acc[c]/k.Sum), 255))
			}
		}
	}
	return r
}

// DrawBlur blurs the paint's rectangle of dst. A committed paint stores the
// result in its cache on first draw and reuses it afterwards. A temporary
// paint is recomputed and outlined on every call.
func DrawBlur(dst *image.RGBA, p *paint.Paint, b *paint.Blur, k Kernel) {
	if b.Cache != nil {
		cb := b.Cache.Bounds()
		draw.Draw(dst, cb.Sub(cb.Min).Add(b.CacheAt), b.Cache, cb.Min, draw.Src)
		return
	}
	r := BlurRegion(dst, paint.Bounds(b.From, b.To), k)
	if r.Empty() {
		return
	}
	if p.Committed {
		cache := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		draw.Draw(cache, cache.Bounds(), dst, r.Min, draw.Src)
		b.Cache, b.CacheAt = cache, r.Min
		return
	}
	draw.Draw(dst, r, image.NewUniform(blurOverlayColor), image.Point{}, draw.Over)
	drawRect(dst, r, blurBorderColor, 1)
}

// drawRect outlines rect with thick pixels inside its edges.
func drawRect(dst *image.RGBA, rect image.Rectangle, col color.Color, thick int) {
	src := image.NewUniform(col)
	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+thick),
		image.Rect(rect.Min.X, rect.Max.Y-thick, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y+thick, rect.Min.X+thick, rect.Max.Y-thick),
		image.Rect(rect.Max.X-thick, rect.Min.Y+thick, rect.Max.X, rect.Max.Y-thick),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(rect), src, image.Point{}, draw.Over)
	}
}
