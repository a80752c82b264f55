// Package paint holds the annotation model: the paint variants, the single
// in-progress temporary paint and the undo/redo history.
package paint

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/google/uuid"

	"github.com/example/shotmark/internal/geom"
)

var (
	// ErrNoTemporary is returned when an operation needs a temporary paint
	// and there is none.
	ErrNoTemporary = errors.New("no temporary paint")
	// ErrNotEditing is returned by text operations when the temporary paint
	// is not text in edit mode.
	ErrNotEditing = errors.New("temporary paint is not editable text")
)

// Kind selects the tool used for a new paint.
type Kind int

const (
	KindBrush Kind = iota
	KindText
	KindRectangle
	KindEllipse
	KindArrow
	KindLine
	KindBlur
)

var kindNames = [...]string{
	KindBrush:     "brush",
	KindText:      "text",
	KindRectangle: "rectangle",
	KindEllipse:   "ellipse",
	KindArrow:     "arrow",
	KindLine:      "line",
	KindBlur:      "blur",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind resolves a tool name. "rect" and "circle" are accepted as
// aliases.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "rect":
		return KindRectangle, nil
	case "circle":
		return KindEllipse, nil
	}
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown paint mode %q", s)
}

// IsShape reports whether k is drawn by the shape renderer.
func (k Kind) IsShape() bool {
	switch k {
	case KindRectangle, KindEllipse, KindArrow, KindLine:
		return true
	}
	return false
}

// Content is implemented by the paint variants: *Brush, *Shape, *Text and
// *Blur.
type Content interface {
	Kind() Kind
}

// Brush is a freehand stroke.
type Brush struct {
	Color color.NRGBA
	Width float64
	// Points are ordered newest first.
	Points []geom.Point
}

func (*Brush) Kind() Kind { return KindBrush }

// Shape is a two-point figure.
type Shape struct {
	Type     Kind
	From, To geom.Point
	Color    color.NRGBA
	Width    float64
	Fill     bool
	// FromCenter anchors the figure's centre at From instead of a corner.
	FromCenter bool
}

func (s *Shape) Kind() Kind { return s.Type }

// TextMode is the editing state of a text paint.
type TextMode int

const (
	TextEdit TextMode = iota
	TextDone
)

// Text is a block of text laid out inside From/To.
type Text struct {
	From, To geom.Point
	Color    color.NRGBA
	Text     string
	// Cursor is a codepoint offset into Text.
	Cursor int
	Font   string
	Size   float64
	Mode   TextMode
}

func (*Text) Kind() Kind { return KindText }

// Blur obscures the rectangle spanned by From and To.
type Blur struct {
	From, To geom.Point
	// Cache holds the blurred pixels once the paint is committed. CacheAt is
	// its canvas position.
	Cache   *image.RGBA
	CacheAt image.Point
}

func (*Blur) Kind() Kind { return KindBlur }

// Paint is one annotation.
type Paint struct {
	ID uuid.UUID
	// CanDraw is set once the paint has enough geometry to render.
	CanDraw   bool
	Committed bool
	Content   Content
}

// Kind returns the kind of the paint's content.
func (p *Paint) Kind() Kind { return p.Content.Kind() }

// New creates a temporary paint of kind k anchored at pt.
func New(k Kind, pt geom.Point, s Settings) *Paint {
	p := &Paint{ID: uuid.New()}
	col := s.PaintColor()
	switch k {
	case KindBrush:
		p.CanDraw = true
		p.Content = &Brush{Color: col, Width: s.Width, Points: []geom.Point{pt}}
	case KindText:
		p.Content = &Text{From: pt, To: pt, Color: col, Font: s.TextFont, Size: s.TextSize, Mode: TextEdit}
	case KindBlur:
		p.Content = &Blur{From: pt, To: pt}
	default:
		p.Content = &Shape{Type: k, From: pt, To: pt, Color: col, Width: s.Width, Fill: s.Fill}
	}
	return p
}

// Bounds returns the canvas rectangle spanned by two points.
func Bounds(a, b geom.Point) image.Rectangle {
	return image.Rect(int(a.X), int(a.Y), int(b.X), int(b.Y)).Canon()
}
