// Package geom holds the small geometry types shared by capture, paint and
// rendering code.
package geom

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"
)

// ErrInvalidBox is returned by ParseBox for malformed input.
var ErrInvalidBox = errors.New("invalid box")

// Box is an axis-aligned rectangle in compositor logical coordinates.
type Box struct {
	X, Y          int
	Width, Height int
}

// ParseBox reads a box in the "x,y WxH" form used by slurp and friends.
func ParseBox(s string) (Box, error) {
	s = strings.TrimSpace(s)
	pos, size, ok := strings.Cut(s, " ")
	if !ok {
		return Box{}, fmt.Errorf("%w: %q: expected \"x,y WxH\"", ErrInvalidBox, s)
	}
	xs, ys, ok := strings.Cut(pos, ",")
	if !ok {
		return Box{}, fmt.Errorf("%w: %q: missing comma", ErrInvalidBox, s)
	}
	ws, hs, ok := strings.Cut(strings.TrimSpace(size), "x")
	if !ok {
		return Box{}, fmt.Errorf("%w: %q: missing size separator", ErrInvalidBox, s)
	}
	var vals [4]int
	for i, part := range []string{xs, ys, ws, hs} {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return Box{}, fmt.Errorf("%w: %q: %v", ErrInvalidBox, s, err)
		}
		vals[i] = v
	}
	return Box{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}

// String formats the box the same way ParseBox reads it.
func (b Box) String() string {
	return fmt.Sprintf("%d,%d %dx%d", b.X, b.Y, b.Width, b.Height)
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Intersects reports whether b and o share any area.
func (b Box) Intersects(o Box) bool {
	if b.Empty() || o.Empty() {
		return false
	}
	x1 := max(b.X, o.X)
	y1 := max(b.Y, o.Y)
	x2 := min(b.X+b.Width, o.X+o.Width)
	y2 := min(b.Y+b.Height, o.Y+o.Height)
	return x1 < x2 && y1 < y2
}

// Union returns the smallest box containing both b and o. Empty boxes are
// ignored.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	x1 := min(b.X, o.X)
	y1 := min(b.Y, o.Y)
	x2 := max(b.X+b.Width, o.X+o.Width)
	y2 := max(b.Y+b.Height, o.Y+o.Height)
	return Box{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// FromRect converts an image.Rectangle to a Box.
func FromRect(r image.Rectangle) Box {
	r = r.Canon()
	return Box{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}
