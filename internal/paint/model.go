package paint

import (
	"slices"

	"github.com/example/shotmark/internal/geom"
)

// Model owns every paint of a session. Paints move between the committed
// and redo stacks; they are never copied.
type Model struct {
	temp *Paint
	// Both stacks keep their top at the end of the slice.
	committed []*Paint
	redo      []*Paint
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// Temporary returns the in-progress paint, or nil.
func (m *Model) Temporary() *Paint {
	return m.temp
}

// Committed returns the committed paints, newest first.
func (m *Model) Committed() []*Paint {
	out := slices.Clone(m.committed)
	slices.Reverse(out)
	return out
}

// RedoStack returns the undone paints, most recently undone first.
func (m *Model) RedoStack() []*Paint {
	out := slices.Clone(m.redo)
	slices.Reverse(out)
	return out
}

// History calls fn for each committed paint from oldest to newest.
func (m *Model) History(fn func(*Paint)) {
	for _, p := range m.committed {
		fn(p)
	}
}

// CanUndo reports whether Undo would do anything.
func (m *Model) CanUndo() bool { return len(m.committed) > 0 }

// CanRedo reports whether Redo would do anything.
func (m *Model) CanRedo() bool { return len(m.redo) > 0 }

// AddTemporary starts a new paint at pt. An existing temporary text paint is
// committed first; any other temporary paint is dropped.
func (m *Model) AddTemporary(pt geom.Point, k Kind, s Settings) *Paint {
	if m.temp != nil {
		if m.temp.Kind() == KindText {
			m.CommitTemporary()
		} else {
			m.temp = nil
		}
	}
	m.temp = New(k, pt, s)
	return m.temp
}

// UpdateTemporary extends the temporary paint to pt. centered anchors
// shapes at their starting point.
func (m *Model) UpdateTemporary(pt geom.Point, centered bool) error {
	if m.temp == nil {
		return ErrNoTemporary
	}
	switch c := m.temp.Content.(type) {
	case *Brush:
		c.Points = slices.Insert(c.Points, 0, pt)
	case *Shape:
		c.To = pt
		c.FromCenter = centered
	case *Text:
		if c.Mode != TextEdit {
			return ErrNotEditing
		}
		c.To = pt
	case *Blur:
		c.To = pt
	}
	m.temp.CanDraw = true
	return nil
}

// SetCentered toggles the centre anchor of a temporary shape while it is
// being dragged.
func (m *Model) SetCentered(centered bool) bool {
	if m.temp == nil {
		return false
	}
	s, ok := m.temp.Content.(*Shape)
	if !ok || s.FromCenter == centered {
		return false
	}
	s.FromCenter = centered
	return true
}

// CommitTemporary moves the temporary paint into history and clears the
// redo stack. Paints that cannot be drawn, and text with no content, are
// discarded instead; the result is then nil.
func (m *Model) CommitTemporary() (*Paint, error) {
	p := m.temp
	if p == nil {
		return nil, ErrNoTemporary
	}
	m.temp = nil
	if t, ok := p.Content.(*Text); ok {
		t.Mode = TextDone
		if t.Text == "" {
			p.CanDraw = false
		}
	}
	if !p.CanDraw {
		return nil, nil
	}
	p.Committed = true
	m.committed = append(m.committed, p)
	clear(m.redo)
	m.redo = m.redo[:0]
	return p, nil
}

// DiscardTemporary drops the temporary paint without committing it.
func (m *Model) DiscardTemporary() {
	m.temp = nil
}

// Undo moves the newest committed paint onto the redo stack.
func (m *Model) Undo() bool {
	n := len(m.committed)
	if n == 0 {
		return false
	}
	p := m.committed[n-1]
	m.committed[n-1] = nil
	m.committed = m.committed[:n-1]
	m.redo = append(m.redo, p)
	return true
}

// Redo moves the most recently undone paint back into history.
func (m *Model) Redo() bool {
	n := len(m.redo)
	if n == 0 {
		return false
	}
	p := m.redo[n-1]
	m.redo[n-1] = nil
	m.redo = m.redo[:n-1]
	m.committed = append(m.committed, p)
	return true
}

// ClearAll empties both stacks and drops the temporary paint.
func (m *Model) ClearAll() {
	m.temp = nil
	m.committed = nil
	m.redo = nil
}

// EditText runs fn on the temporary text paint if it is being edited.
func (m *Model) EditText(fn func(*Text)) error {
	if m.temp == nil {
		return ErrNoTemporary
	}
	t, ok := m.temp.Content.(*Text)
	if !ok || t.Mode != TextEdit {
		return ErrNotEditing
	}
	fn(t)
	return nil
}
