package paint

import (
	"image/color"
	"math"
)

// Size limits and steps for the stroke width and text size controls.
const (
	MinWidth         = 1
	MaxWidth         = 50
	MinTextSize      = 10
	MaxTextSize      = 50
	TransparencyStep = 10
)

// Settings are the tool parameters applied to new paints.
type Settings struct {
	Color    color.NRGBA
	Width    float64
	TextSize float64
	TextFont string
	Fill     bool
	// Transparent applies Transparency, a percentage, to the paint alpha.
	Transparent  bool
	Transparency int
}

// DefaultSettings returns the settings used without a config file.
func DefaultSettings() Settings {
	return Settings{
		Color:        color.NRGBA{R: 0xFF, A: 0xFF},
		Width:        5,
		TextSize:     20,
		TextFont:     "sans-serif",
		Transparency: 50,
	}
}

// PaintColor is the colour new paints receive.
func (s Settings) PaintColor() color.NRGBA {
	c := s.Color
	if s.Transparent {
		t := math.Min(math.Max(float64(s.Transparency), 0), 100)
		c.A = uint8(math.Round(float64(c.A) * (100 - t) / 100))
	}
	return c
}

// IncreaseWidth steps the stroke width up by 1 below 10 and by 5 from 10
// upwards.
func (s *Settings) IncreaseWidth() {
	s.Width = math.Min(s.Width+widthStep(s.Width, 10), MaxWidth)
}

// DecreaseWidth is the inverse of IncreaseWidth.
func (s *Settings) DecreaseWidth() {
	step := 1.0
	if s.Width > 10 {
		step = 5
	}
	s.Width = math.Max(s.Width-step, MinWidth)
}

// IncreaseTextSize steps by 1 below 20 and by 5 from 20 upwards.
func (s *Settings) IncreaseTextSize() {
	s.TextSize = math.Min(s.TextSize+widthStep(s.TextSize, 20), MaxTextSize)
}

// DecreaseTextSize is the inverse of IncreaseTextSize.
func (s *Settings) DecreaseTextSize() {
	step := 1.0
	if s.TextSize > 20 {
		step = 5
	}
	s.TextSize = math.Max(s.TextSize-step, MinTextSize)
}

// IncreaseTransparency raises the transparency percentage by one step.
func (s *Settings) IncreaseTransparency() {
	s.Transparency = min(s.Transparency+TransparencyStep, 100)
}

// DecreaseTransparency lowers the transparency percentage by one step.
func (s *Settings) DecreaseTransparency() {
	s.Transparency = max(s.Transparency-TransparencyStep, 0)
}

func widthStep(v, threshold float64) float64 {
	if v >= threshold {
		return 5
	}
	return 1
}
