package capture

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/shotmark/internal/geom"
)

var errNoOutputs = errors.New("no outputs available")

// Transform mirrors the wl_output transform enum: the low two bits count
// quarter turns and bit 2 marks a horizontal flip applied before rotating.
type Transform uint8

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// QuarterTurns returns the rotation part of t as a count of 90° steps.
func (t Transform) QuarterTurns() int { return int(t & 3) }

// Flipped reports whether t mirrors the output about its vertical axis.
func (t Transform) Flipped() bool { return t&4 != 0 }

// SwapsAxes reports whether the buffer width and height are exchanged
// relative to the logical layout.
func (t Transform) SwapsAxes() bool { return t&1 != 0 }

func (t Transform) String() string {
	deg := strconv.Itoa(t.QuarterTurns() * 90)
	if t.Flipped() {
		return "flipped-" + deg
	}
	return deg
}

// Output describes one monitor as reported by the capture backend.
type Output struct {
	Name string
	// Geometry is the physical position and current mode size in pixels,
	// before the transform is applied.
	Geometry geom.Box
	// Logical is the position and size in compositor logical coordinates.
	Logical   geom.Box
	Transform Transform
	// Scale is the integer scale factor advertised for the output.
	Scale   int
	Primary bool
}

// LogicalScale is the effective physical/logical pixel ratio, which differs
// from Scale under fractional scaling.
func (o Output) LogicalScale() float64 {
	w := o.Geometry.Width
	if o.Transform.SwapsAxes() {
		w = o.Geometry.Height
	}
	if o.Logical.Width <= 0 {
		return float64(o.scale())
	}
	return float64(w) / float64(o.Logical.Width)
}

func (o Output) scale() int {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

func (o Output) String() string {
	return fmt.Sprintf("%s %s transform=%s scale=%d", o.Name, o.Logical, o.Transform, o.scale())
}

// FindOutput resolves a selector against outputs. It accepts an index, the
// word "primary", or a case-insensitive substring of the output name.
func FindOutput(outputs []Output, selector string) (Output, error) {
	if len(outputs) == 0 {
		return Output{}, errNoOutputs
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" {
		return outputs[0], nil
	}
	if sel == "primary" {
		for _, out := range outputs {
			if out.Primary {
				return out, nil
			}
		}
		return outputs[0], nil
	}
	sel = strings.TrimPrefix(sel, "#")
	if idx, err := strconv.Atoi(sel); err == nil {
		if idx < 0 || idx >= len(outputs) {
			return Output{}, fmt.Errorf("output index %d out of range", idx)
		}
		return outputs[idx], nil
	}
	for _, out := range outputs {
		if strings.Contains(strings.ToLower(out.Name), sel) {
			return out, nil
		}
	}
	return Output{}, fmt.Errorf("output %q not found", selector)
}

// Layout returns the union of the logical geometry of outputs.
func Layout(outputs []Output) geom.Box {
	var b geom.Box
	for _, out := range outputs {
		b = b.Union(out.Logical)
	}
	return b
}
