package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/shotmark/internal/geom"
	"github.com/example/shotmark/internal/paint"
)

func commitFilled(t *testing.T, m *paint.Model, c color.NRGBA) {
	t.Helper()
	s := paint.DefaultSettings()
	s.Color = c
	s.Fill = true
	m.AddTemporary(geom.Pt(0, 0), paint.KindRectangle, s)
	if err := m.UpdateTemporary(geom.Pt(20, 20), false); err != nil {
		t.Fatalf("UpdateTemporary: %v", err)
	}
	if _, err := m.CommitTemporary(); err != nil {
		t.Fatalf("CommitTemporary: %v", err)
	}
}

func TestRendererDrawsHistoryOldestFirst(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 20, 20))
	fillRGBA(base, base.Bounds(), color.RGBA{255, 255, 255, 255})
	r := NewRenderer(base, NewKernel(2, 1))
	m := paint.NewModel()

	blue := color.NRGBA{B: 0xFF, A: 0xFF}
	commitFilled(t, m, red)
	commitFilled(t, m, blue)
	if got := r.Render(m).RGBAAt(5, 5); got != (color.RGBA{B: 0xFF, A: 0xFF}) {
		t.Fatalf("newest paint should be on top, got %+v", got)
	}
	m.Undo()
	if got := r.Render(m).RGBAAt(5, 5); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Fatalf("after undo got %+v", got)
	}
	if got := base.RGBAAt(5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("base image modified: %+v", got)
	}
}

func TestRendererDrawsTemporaryLast(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 20, 20))
	r := NewRenderer(base, NewKernel(2, 1))
	m := paint.NewModel()
	commitFilled(t, m, red)

	s := paint.DefaultSettings()
	s.Color = color.NRGBA{G: 0xFF, A: 0xFF}
	m.AddTemporary(geom.Pt(2, 2), paint.KindBrush, s)
	if got := r.Render(m).RGBAAt(3, 3); got != (color.RGBA{G: 0xFF, A: 0xFF}) {
		t.Fatalf("temporary brush not drawn over history: %+v", got)
	}
}

func TestRendererBackgroundIsBlack(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 4, 4))
	r := NewRenderer(base, NewKernel(2, 1))
	if got := r.Render(paint.NewModel()).RGBAAt(1, 1); got != (color.RGBA{A: 0xFF}) {
		t.Fatalf("transparent base should show black, got %+v", got)
	}
}

func TestSnapshotIsIndependent(t *testing.T) {
	base := image.NewRGBA(image.Rect(0, 0, 20, 20))
	r := NewRenderer(base, NewKernel(2, 1))
	m := paint.NewModel()
	commitFilled(t, m, red)
	snap := r.Snapshot(m)
	m.Undo()
	r.Render(m)
	if got := snap.RGBAAt(5, 5); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Fatalf("snapshot changed by a later render: %+v", got)
	}
}

func TestDrawPaintSkipsUndrawable(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	p := paint.New(paint.KindRectangle, geom.Pt(1, 1), paint.DefaultSettings())
	DrawPaint(dst, p, NewKernel(2, 1))
	for _, v := range dst.Pix {
		if v != 0 {
			t.Fatal("paint without geometry was drawn")
		}
	}
}

func TestDrawCropOverlay(t *testing.T) {
	dst := image.NewRGBA(image.Rect(0, 0, 100, 100))
	sel := image.Rect(20, 20, 80, 80)
	DrawCropOverlay(dst, sel)
	if dst.RGBAAt(5, 50).A == 0 {
		t.Fatal("outside of the selection should be shaded")
	}
	if dst.RGBAAt(50, 50).A != 0 {
		t.Fatal("inside of the selection should be untouched")
	}
	hs := CropHandleRects(sel)
	if len(hs) != 8 {
		t.Fatalf("%d handles, want 8", len(hs))
	}
	if c := hs[4].Min.Add(image.Pt(handleSize/2, handleSize/2)); c != sel.Max {
		t.Fatalf("bottom-right handle centred at %v, want %v", c, sel.Max)
	}
	if got := dst.RGBAAt(sel.Min.X+1, sel.Min.Y+1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("top-left handle not drawn: %+v", got)
	}
}
