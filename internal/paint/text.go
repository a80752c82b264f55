package paint

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RuneLen returns the length of the text in codepoints.
func (t *Text) RuneLen() int {
	return utf8.RuneCountInString(t.Text)
}

func (t *Text) clampCursor() {
	t.Cursor = min(max(t.Cursor, 0), t.RuneLen())
}

// byteOffset converts a codepoint offset into a byte offset.
func (t *Text) byteOffset(pos int) int {
	if pos <= 0 {
		return 0
	}
	i := 0
	for off := range t.Text {
		if i == pos {
			return off
		}
		i++
	}
	return len(t.Text)
}

// Insert places s at the cursor and moves the cursor past it. Control
// characters other than newline are dropped.
func (t *Text) Insert(s string) {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return
	}
	t.clampCursor()
	at := t.byteOffset(t.Cursor)
	t.Text = t.Text[:at] + s + t.Text[at:]
	t.Cursor += utf8.RuneCountInString(s)
}

// Backspace removes the codepoint before the cursor.
func (t *Text) Backspace() {
	t.clampCursor()
	if t.Cursor == 0 {
		return
	}
	t.removeAt(t.Cursor - 1)
	t.Cursor--
}

// Delete removes the codepoint under the cursor.
func (t *Text) Delete() {
	t.clampCursor()
	if t.Cursor >= t.RuneLen() {
		return
	}
	t.removeAt(t.Cursor)
}

func (t *Text) removeAt(pos int) {
	start := t.byteOffset(pos)
	_, size := utf8.DecodeRuneInString(t.Text[start:])
	t.Text = t.Text[:start] + t.Text[start+size:]
}

// CursorLeft moves the cursor one codepoint left.
func (t *Text) CursorLeft() {
	t.Cursor--
	t.clampCursor()
}

// CursorRight moves the cursor one codepoint right.
func (t *Text) CursorRight() {
	t.Cursor++
	t.clampCursor()
}

// CursorHome moves the cursor to the start of the text.
func (t *Text) CursorHome() { t.Cursor = 0 }

// CursorEnd moves the cursor to the end of the text.
func (t *Text) CursorEnd() { t.Cursor = t.RuneLen() }
