// Package crop implements the interactive crop selection: hit-testing a
// press against the selection's edges and dragging the picked edges.
package crop

import (
	"image"
	"math"

	"github.com/example/shotmark/internal/geom"
)

// Margin is the on-screen distance, in window pixels, within which a press
// grabs an edge.
const Margin = 30

// Mode says which edges of one axis a drag moves.
type Mode int

const (
	None Mode = iota
	// Low moves the left or top edge.
	Low
	// High moves the right or bottom edge.
	High
	// Both moves the two edges together.
	Both
)

func (m Mode) String() string {
	switch m {
	case Low:
		return "low"
	case High:
		return "high"
	case Both:
		return "both"
	}
	return "none"
}

func (m Mode) flip() Mode {
	switch m {
	case Low:
		return High
	case High:
		return Low
	}
	return m
}

// Phase is the coarse state of the selection.
type Phase int

const (
	Idle Phase = iota
	Creating
	Resizing
)

// State is a crop selection on a canvas of Width x Height pixels. Edges
// always satisfy Left <= Right and Top <= Bottom.
type State struct {
	Left, Right      float64
	Top, Bottom      float64
	ResizeX, ResizeY Mode
	Width, Height    float64
	creating         bool
}

// Press hit-tests pt against s and returns the state the following drag
// acts on. scaling is the view scale, so the grab margin stays constant on
// screen. A nil s, or a press away from the selection, starts a new
// selection at pt.
func Press(s *State, pt geom.Point, width, height, scaling float64) *State {
	pt = pt.Clamp(width, height)
	if s != nil && !s.Empty() {
		if s.grab(pt, Margin/math.Max(scaling, 1e-9)) {
			s.Width, s.Height = width, height
			return s
		}
	}
	return &State{
		Left: pt.X, Right: pt.X,
		Top: pt.Y, Bottom: pt.Y,
		ResizeX: High, ResizeY: High,
		Width: width, Height: height,
		creating: true,
	}
}

// grab sets the resize modes for a press at pt and reports whether the
// press touched the selection at all.
func (s *State) grab(pt geom.Point, m float64) bool {
	if pt.X < s.Left-m || pt.X > s.Right+m || pt.Y < s.Top-m || pt.Y > s.Bottom+m {
		return false
	}
	x, xin := axisMode(pt.X, s.Left, s.Right, m)
	y, yin := axisMode(pt.Y, s.Top, s.Bottom, m)
	if xin && yin {
		x, y = Both, Both
	}
	s.ResizeX, s.ResizeY = x, y
	s.creating = false
	return true
}

// axisMode classifies v against the edges lo and hi. interior is true when
// v is between the edges and near neither.
func axisMode(v, lo, hi, m float64) (mode Mode, interior bool) {
	nearLo := math.Abs(v-lo) < m
	nearHi := math.Abs(v-hi) < m
	switch {
	case nearLo && nearHi:
		return Both, false
	case nearLo:
		return Low, false
	case nearHi:
		return High, false
	}
	return None, v > lo && v < hi
}

// Update drags the grabbed edges by (dx, dy) canvas pixels.
func (s *State) Update(dx, dy float64) {
	s.Left, s.Right, s.ResizeX = drag(s.Left, s.Right, s.ResizeX, dx, s.Width)
	s.Top, s.Bottom, s.ResizeY = drag(s.Top, s.Bottom, s.ResizeY, dy, s.Height)
}

func drag(lo, hi float64, mode Mode, d, limit float64) (float64, float64, Mode) {
	switch mode {
	case Low:
		lo = clamp(lo+d, limit)
	case High:
		hi = clamp(hi+d, limit)
	case Both:
		d = math.Min(math.Max(d, -lo), limit-hi)
		lo, hi = lo+d, hi+d
	}
	if lo > hi {
		lo, hi, mode = hi, lo, mode.flip()
	}
	return lo, hi, mode
}

func clamp(v, limit float64) float64 {
	return math.Min(math.Max(v, 0), limit)
}

// Release ends the drag.
func (s *State) Release() {
	s.ResizeX, s.ResizeY = None, None
	s.creating = false
}

// Phase reports whether a drag is creating or resizing the selection.
func (s *State) Phase() Phase {
	switch {
	case s == nil || (s.ResizeX == None && s.ResizeY == None):
		return Idle
	case s.creating:
		return Creating
	}
	return Resizing
}

// Empty reports whether the selection has no area.
func (s *State) Empty() bool {
	return s == nil || s.Right-s.Left < 1 || s.Bottom-s.Top < 1
}

// Rect returns the selection in whole canvas pixels.
func (s *State) Rect() image.Rectangle {
	if s == nil {
		return image.Rectangle{}
	}
	return image.Rect(int(math.Round(s.Left)), int(math.Round(s.Top)), int(math.Round(s.Right)), int(math.Round(s.Bottom)))
}
