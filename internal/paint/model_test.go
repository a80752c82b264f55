package paint

import (
	"errors"
	"slices"
	"testing"

	"github.com/example/shotmark/internal/geom"
)

func commitShape(t *testing.T, m *Model, x float64) *Paint {
	t.Helper()
	m.AddTemporary(geom.Pt(x, x), KindRectangle, DefaultSettings())
	if err := m.UpdateTemporary(geom.Pt(x+10, x+10), false); err != nil {
		t.Fatalf("UpdateTemporary: %v", err)
	}
	p, err := m.CommitTemporary()
	if err != nil || p == nil {
		t.Fatalf("CommitTemporary = %v, %v", p, err)
	}
	return p
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := NewModel()
	for i := 0; i < 4; i++ {
		commitShape(t, m, float64(i))
	}
	// Mix in some undos so both stacks are populated.
	m.Undo()
	m.Undo()

	for step := 0; step < 3; step++ {
		committed, redo := m.Committed(), m.RedoStack()
		if !m.Undo() {
			t.Fatalf("step %d: Undo reported nothing to undo", step)
		}
		if !m.Redo() {
			t.Fatalf("step %d: Redo reported nothing to redo", step)
		}
		if !slices.Equal(committed, m.Committed()) || !slices.Equal(redo, m.RedoStack()) {
			t.Fatalf("step %d: undo+redo changed state", step)
		}
		m.Redo()
	}
}

func TestUndoRedoMovesPaints(t *testing.T) {
	m := NewModel()
	a := commitShape(t, m, 0)
	b := commitShape(t, m, 1)

	if got := m.Committed(); !slices.Equal(got, []*Paint{b, a}) {
		t.Fatalf("committed not newest first")
	}
	m.Undo()
	if got := m.RedoStack(); !slices.Equal(got, []*Paint{b}) {
		t.Fatalf("redo = %v, want [b]", got)
	}
	if got := m.Committed(); !slices.Equal(got, []*Paint{a}) {
		t.Fatalf("committed = %v, want [a]", got)
	}
	m.Undo()
	if m.Undo() {
		t.Fatalf("Undo on empty history reported success")
	}
	if got := m.RedoStack(); !slices.Equal(got, []*Paint{a, b}) {
		t.Fatalf("redo order wrong")
	}
	m.Redo()
	if got := m.Committed(); !slices.Equal(got, []*Paint{a}) {
		t.Fatalf("redo restored wrong paint")
	}
}

func TestCommitClearsRedo(t *testing.T) {
	m := NewModel()
	commitShape(t, m, 0)
	commitShape(t, m, 1)
	m.Undo()
	m.Undo()
	if !m.CanRedo() {
		t.Fatalf("expected redo history")
	}
	p := commitShape(t, m, 5)
	if m.CanRedo() {
		t.Fatalf("redo history survived a commit")
	}
	if m.Redo() {
		t.Fatalf("Redo after commit should be a no-op")
	}
	if got := m.Committed(); !slices.Equal(got, []*Paint{p}) {
		t.Fatalf("committed = %v", got)
	}
}

func TestCommitDiscardsUndrawable(t *testing.T) {
	for _, k := range []Kind{KindRectangle, KindEllipse, KindArrow, KindLine, KindText, KindBlur} {
		m := NewModel()
		m.AddTemporary(geom.Pt(1, 1), k, DefaultSettings())
		p, err := m.CommitTemporary()
		if err != nil || p != nil {
			t.Fatalf("%v: CommitTemporary = %v, %v; want discard", k, p, err)
		}
		if m.CanUndo() || m.Temporary() != nil {
			t.Fatalf("%v: undrawable paint left state behind", k)
		}
	}
}

func TestBrushIsDrawableImmediately(t *testing.T) {
	m := NewModel()
	m.AddTemporary(geom.Pt(3, 4), KindBrush, DefaultSettings())
	p, err := m.CommitTemporary()
	if err != nil || p == nil || !p.Committed {
		t.Fatalf("single point brush not committed: %v, %v", p, err)
	}
}

func TestBrushPrependsPoints(t *testing.T) {
	m := NewModel()
	p := m.AddTemporary(geom.Pt(0, 0), KindBrush, DefaultSettings())
	_ = m.UpdateTemporary(geom.Pt(1, 1), false)
	_ = m.UpdateTemporary(geom.Pt(2, 2), false)
	want := []geom.Point{{X: 2, Y: 2}, {X: 1, Y: 1}, {X: 0, Y: 0}}
	if got := p.Content.(*Brush).Points; !slices.Equal(got, want) {
		t.Fatalf("points = %v, want %v", got, want)
	}
}

func TestEmptyTextIsDiscarded(t *testing.T) {
	m := NewModel()
	m.AddTemporary(geom.Pt(0, 0), KindText, DefaultSettings())
	_ = m.UpdateTemporary(geom.Pt(100, 40), false)
	if p, _ := m.CommitTemporary(); p != nil {
		t.Fatalf("empty text committed")
	}
}

func TestAddTemporaryDiscardsOrCommits(t *testing.T) {
	m := NewModel()
	m.AddTemporary(geom.Pt(0, 0), KindRectangle, DefaultSettings())
	_ = m.UpdateTemporary(geom.Pt(10, 10), false)
	m.AddTemporary(geom.Pt(5, 5), KindArrow, DefaultSettings())
	if m.CanUndo() {
		t.Fatalf("switching away from a shape must discard it, not commit")
	}

	text := m.AddTemporary(geom.Pt(0, 0), KindText, DefaultSettings())
	_ = m.UpdateTemporary(geom.Pt(100, 30), false)
	if err := m.EditText(func(tx *Text) { tx.Insert("hi") }); err != nil {
		t.Fatalf("EditText: %v", err)
	}
	m.AddTemporary(geom.Pt(50, 50), KindBrush, DefaultSettings())
	got := m.Committed()
	if len(got) != 1 || got[0] != text {
		t.Fatalf("text was not auto-committed on switch")
	}
	if tx := text.Content.(*Text); tx.Mode != TextDone {
		t.Fatalf("committed text still in edit mode")
	}
	if m.Temporary().Kind() != KindBrush {
		t.Fatalf("new temporary paint not started")
	}
}

func TestShapeCenterModifier(t *testing.T) {
	m := NewModel()
	p := m.AddTemporary(geom.Pt(50, 50), KindEllipse, DefaultSettings())
	_ = m.UpdateTemporary(geom.Pt(60, 70), true)
	s := p.Content.(*Shape)
	if !s.FromCenter || s.To != geom.Pt(60, 70) || !p.CanDraw {
		t.Fatalf("shape = %+v, CanDraw=%v", s, p.CanDraw)
	}
	if !m.SetCentered(false) || s.FromCenter {
		t.Fatalf("SetCentered(false) did not apply")
	}
	if m.SetCentered(false) {
		t.Fatalf("SetCentered reported a change when none happened")
	}
}

func TestDefensiveErrors(t *testing.T) {
	m := NewModel()
	if err := m.UpdateTemporary(geom.Pt(1, 1), false); !errors.Is(err, ErrNoTemporary) {
		t.Fatalf("UpdateTemporary err = %v", err)
	}
	if _, err := m.CommitTemporary(); !errors.Is(err, ErrNoTemporary) {
		t.Fatalf("CommitTemporary err = %v", err)
	}
	if err := m.EditText(func(*Text) {}); !errors.Is(err, ErrNoTemporary) {
		t.Fatalf("EditText err = %v", err)
	}
	m.AddTemporary(geom.Pt(0, 0), KindBrush, DefaultSettings())
	if err := m.EditText(func(*Text) {}); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("EditText on brush err = %v", err)
	}
}

func TestClearAll(t *testing.T) {
	m := NewModel()
	commitShape(t, m, 0)
	commitShape(t, m, 1)
	m.Undo()
	m.AddTemporary(geom.Pt(0, 0), KindBrush, DefaultSettings())
	m.ClearAll()
	if m.CanUndo() || m.CanRedo() || m.Temporary() != nil {
		t.Fatalf("ClearAll left state behind")
	}
}

func TestParseKind(t *testing.T) {
	for k := KindBrush; k <= KindBlur; k++ {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Fatalf("ParseKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if got, _ := ParseKind(" Rect "); got != KindRectangle {
		t.Fatalf("rect alias = %v", got)
	}
	if _, err := ParseKind("spray"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}
