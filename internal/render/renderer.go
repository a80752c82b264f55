package render

import (
	"image"
	"image/draw"

	"github.com/example/shotmark/internal/paint"
)

// Renderer redraws the annotated canvas from the composited base image and
// a paint model.
type Renderer struct {
	base   *image.RGBA
	kernel Kernel
	frame  *image.RGBA
}

// NewRenderer returns a renderer over base. base is never modified.
func NewRenderer(base *image.RGBA, k Kernel) *Renderer {
	return &Renderer{base: base, kernel: k}
}

// Base returns the composited canvas.
func (r *Renderer) Base() *image.RGBA { return r.base }

// Render draws the base, then committed paints oldest to newest, then the
// temporary paint. The returned image is reused by the next call.
func (r *Renderer) Render(m *paint.Model) *image.RGBA {
	b := r.base.Bounds()
	if r.frame == nil || !r.frame.Bounds().Eq(b) {
		r.frame = image.NewRGBA(b)
	}
	draw.Draw(r.frame, b, image.Black, image.Point{}, draw.Src)
	draw.Draw(r.frame, b, r.base, b.Min, draw.Over)
	m.History(func(p *paint.Paint) {
		DrawPaint(r.frame, p, r.kernel)
	})
	if t := m.Temporary(); t != nil {
		DrawPaint(r.frame, t, r.kernel)
	}
	return r.frame
}

// Snapshot renders m into a new image that later renders do not touch.
func (r *Renderer) Snapshot(m *paint.Model) *image.RGBA {
	f := r.Render(m)
	out := image.NewRGBA(f.Bounds())
	copy(out.Pix, f.Pix)
	return out
}

// DrawPaint renders a single paint onto dst. Paints that cannot be drawn yet
// are skipped.
func DrawPaint(dst *image.RGBA, p *paint.Paint, k Kernel) {
	if p == nil || !p.CanDraw {
		return
	}
	switch c := p.Content.(type) {
	case *paint.Brush:
		DrawBrush(dst, c)
	case *paint.Shape:
		DrawShape(dst, c)
	case *paint.Text:
		DrawText(dst, c)
	case *paint.Blur:
		DrawBlur(dst, p, c, k)
	}
}
