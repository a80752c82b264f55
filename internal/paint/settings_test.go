package paint

import (
	"image/color"
	"testing"

	"github.com/example/shotmark/internal/geom"
)

var ptZero = geom.Point{}

func TestWidthSteps(t *testing.T) {
	s := DefaultSettings()
	s.Width = 9
	s.IncreaseWidth()
	if s.Width != 10 {
		t.Fatalf("9 -> %v, want 10", s.Width)
	}
	s.IncreaseWidth()
	if s.Width != 15 {
		t.Fatalf("10 -> %v, want 15", s.Width)
	}
	s.DecreaseWidth()
	s.DecreaseWidth()
	if s.Width != 9 {
		t.Fatalf("15 down twice -> %v, want 9", s.Width)
	}
	s.Width = MaxWidth
	s.IncreaseWidth()
	if s.Width != MaxWidth {
		t.Fatalf("width exceeded max: %v", s.Width)
	}
	s.Width = MinWidth
	s.DecreaseWidth()
	if s.Width != MinWidth {
		t.Fatalf("width below min: %v", s.Width)
	}
}

func TestTextSizeSteps(t *testing.T) {
	s := DefaultSettings()
	s.IncreaseTextSize()
	if s.TextSize != 25 {
		t.Fatalf("20 -> %v, want 25", s.TextSize)
	}
	s.DecreaseTextSize()
	s.DecreaseTextSize()
	if s.TextSize != 19 {
		t.Fatalf("25 down twice -> %v, want 19", s.TextSize)
	}
	s.TextSize = MinTextSize
	s.DecreaseTextSize()
	if s.TextSize != MinTextSize {
		t.Fatalf("text size below min: %v", s.TextSize)
	}
}

func TestPaintColorTransparency(t *testing.T) {
	s := DefaultSettings()
	s.Color = color.NRGBA{G: 200, A: 200}
	if got := s.PaintColor(); got != s.Color {
		t.Fatalf("opaque color changed: %v", got)
	}
	s.Transparent = true
	s.Transparency = 50
	if got := s.PaintColor(); got.A != 100 || got.G != 200 {
		t.Fatalf("50%% transparency = %v", got)
	}
	for i := 0; i < 20; i++ {
		s.IncreaseTransparency()
	}
	if s.Transparency != 100 || s.PaintColor().A != 0 {
		t.Fatalf("transparency not clamped: %d", s.Transparency)
	}
	for i := 0; i < 20; i++ {
		s.DecreaseTransparency()
	}
	if s.Transparency != 0 {
		t.Fatalf("transparency not clamped at 0: %d", s.Transparency)
	}
}
