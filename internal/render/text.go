package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/shotmark/internal/paint"
)

var (
	editBoxColor = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x40}
	caretWidth   = 2
)

type faceKey struct {
	family string
	size   float64
}

var (
	facesMu sync.Mutex
	fonts   = map[string]*opentype.Font{}
	faces   = map[faceKey]font.Face{}
)

// fontData maps a font family name onto one of the Go fonts.
func fontData(family string) (string, []byte) {
	f := strings.ToLower(family)
	mono := strings.Contains(f, "mono") || strings.Contains(f, "courier")
	bold := strings.Contains(f, "bold")
	switch {
	case mono && bold:
		return "gomonobold", gomonobold.TTF
	case mono:
		return "gomono", gomono.TTF
	case bold:
		return "gobold", gobold.TTF
	case strings.Contains(f, "italic"):
		return "goitalic", goitalic.TTF
	case strings.Contains(f, "medium"):
		return "gomedium", gomedium.TTF
	case strings.Contains(f, "smallcaps"):
		return "gosmallcaps", gosmallcaps.TTF
	}
	return "goregular", goregular.TTF
}

// Face returns a cached face for the family at size points. Unparseable
// fonts fall back to a fixed bitmap face.
func Face(family string, size float64) font.Face {
	name, data := fontData(family)
	key := faceKey{name, size}
	facesMu.Lock()
	defer facesMu.Unlock()
	if face, ok := faces[key]; ok {
		return face
	}
	f, ok := fonts[name]
	if !ok {
		var err error
		f, err = opentype.Parse(data)
		if err != nil {
			log.Printf("parse font %s: %v", name, err)
			return basicfont.Face7x13
		}
		fonts[name] = f
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("font face %s %.0f: %v", name, size, err)
		return basicfont.Face7x13
	}
	faces[key] = face
	return face
}

// TextLine is one laid-out line, as codepoint offsets into the text.
type TextLine struct {
	Start, End int
}

// LayoutText breaks s into lines no wider than maxWidth pixels. Lines break
// at newlines and after the last space that fits; words wider than a line are
// broken between codepoints. maxWidth <= 0 disables wrapping.
func LayoutText(face font.Face, s string, maxWidth int) []TextLine {
	runes := []rune(s)
	limit := fixed.I(maxWidth)
	var lines []TextLine
	start := 0
	for start <= len(runes) {
		end := start
		for end < len(runes) && runes[end] != '\n' {
			end++
		}
		lines = appendWrapped(lines, face, runes, start, end, limit, maxWidth > 0)
		start = end + 1
	}
	return lines
}

func appendWrapped(lines []TextLine, face font.Face, runes []rune, start, end int, limit fixed.Int26_6, wrap bool) []TextLine {
	if !wrap {
		return append(lines, TextLine{start, end})
	}
	lineStart := start
	var width fixed.Int26_6
	lastSpace := -1
	for i := start; i < end; i++ {
		adv, ok := face.GlyphAdvance(runes[i])
		if !ok {
			adv, _ = face.GlyphAdvance('?')
		}
		if width+adv > limit && i > lineStart {
			brk := i
			if lastSpace >= lineStart {
				brk = lastSpace + 1
			}
			lines = append(lines, TextLine{lineStart, brk})
			lineStart = brk
			width = measureRunes(face, runes[lineStart:i])
			lastSpace = -1
		}
		if runes[i] == ' ' {
			lastSpace = i
		}
		width += adv
	}
	return append(lines, TextLine{lineStart, end})
}

func measureRunes(face font.Face, rs []rune) fixed.Int26_6 {
	return font.MeasureString(face, string(rs))
}

// caretLine returns the index of the line holding the cursor.
func caretLine(lines []TextLine, cursor int) int {
	idx := 0
	for i, l := range lines {
		if l.Start <= cursor {
			idx = i
		}
	}
	return idx
}

// DrawText renders t word-wrapped inside its box. Text in edit mode also gets
// a translucent box and a caret at the cursor.
func DrawText(dst *image.RGBA, t *paint.Text) {
	box := paint.Bounds(t.From, t.To)
	face := Face(t.Font, t.Size)
	m := face.Metrics()
	ascent, height := m.Ascent.Ceil(), m.Height.Ceil()
	runes := []rune(t.Text)
	lines := LayoutText(face, t.Text, box.Dx())

	if t.Mode == paint.TextEdit {
		draw.Draw(dst, box, image.NewUniform(editBoxColor), image.Point{}, draw.Over)
	}

	d := &font.Drawer{Dst: dst, Src: image.NewUniform(t.Color), Face: face}
	for i, l := range lines {
		d.Dot = fixed.P(box.Min.X, box.Min.Y+ascent+i*height)
		d.DrawString(strings.TrimRight(string(runes[l.Start:l.End]), "\n"))
	}

	if t.Mode != paint.TextEdit {
		return
	}
	cursor := min(max(t.Cursor, 0), len(runes))
	li := caretLine(lines, cursor)
	l := lines[li]
	x := box.Min.X + measureRunes(face, runes[l.Start:min(cursor, l.End)]).Round()
	y := box.Min.Y + li*height
	caret := image.Rect(x, y, x+caretWidth, y+height)
	draw.Draw(dst, caret, image.NewUniform(t.Color), image.Point{}, draw.Over)
}
