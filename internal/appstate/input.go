package appstate

import (
	"log"

	"golang.org/x/mobile/event/key"

	"github.com/example/shotmark/internal/paint"
)

// Editing reports whether a text paint is taking keyboard input.
func (a *AppState) Editing() bool {
	t := a.model.Temporary()
	if t == nil {
		return false
	}
	txt, ok := t.Content.(*paint.Text)
	return ok && txt.Mode == paint.TextEdit
}

// HandleKey applies a key event and returns the action it triggered.
func (a *AppState) HandleKey(e key.Event) Action {
	if e.Code == key.CodeLeftControl || e.Code == key.CodeRightControl {
		switch e.Direction {
		case key.DirPress:
			a.SetCentered(true)
		case key.DirRelease:
			a.SetCentered(false)
		}
		return ActionNone
	}
	if e.Direction == key.DirRelease {
		return ActionNone
	}
	if a.Editing() {
		act := a.keymap.Lookup(e, true)
		if act == ActionNone {
			if s, ok := textInput(e); ok {
				a.editText(func(t *paint.Text) { t.Insert(s) })
			}
			return ActionNone
		}
		a.Do(act)
		return act
	}
	act := a.keymap.Lookup(e, false)
	a.Do(act)
	return act
}

// Do runs an action.
func (a *AppState) Do(act Action) {
	switch act {
	case ActionToolBrush:
		a.SetTool(paint.KindBrush)
	case ActionToolText:
		a.SetTool(paint.KindText)
	case ActionToolRectangle:
		a.SetTool(paint.KindRectangle)
	case ActionToolEllipse:
		a.SetTool(paint.KindEllipse)
	case ActionToolArrow:
		a.SetTool(paint.KindArrow)
	case ActionToolLine:
		a.SetTool(paint.KindLine)
	case ActionToolBlur:
		a.SetTool(paint.KindBlur)
	case ActionToolCrop:
		a.SetCropTool()
	case ActionClear:
		a.ClearAll()
	case ActionColorRed:
		a.SelectColor(Red.Color)
	case ActionColorGreen:
		a.SelectColor(Green.Color)
	case ActionColorBlue:
		a.SelectColor(Blue.Color)
	case ActionColorCustom:
		a.SelectColor(a.cfg.CustomColor)
	case ActionSizeDecrease:
		a.DecreaseSize()
	case ActionSizeReset:
		a.ResetSize()
	case ActionSizeIncrease:
		a.IncreaseSize()
	case ActionToggleFill:
		a.ToggleFill()
	case ActionToggleTransparent:
		a.ToggleTransparent()
	case ActionUndo:
		a.Undo()
	case ActionRedo:
		a.Redo()
	case ActionCopy:
		a.Copy()
	case ActionSave:
		a.Save()
	case ActionQuit:
		a.Quit()
	case ActionCancel:
		if a.cropping && a.crop != nil {
			a.ClearCrop()
			return
		}
		a.Quit()
	case ActionTextCommit:
		a.CommitTemporary()
	case ActionTextBackspace:
		a.editText((*paint.Text).Backspace)
	case ActionTextDelete:
		a.editText((*paint.Text).Delete)
	case ActionTextLeft:
		a.editText((*paint.Text).CursorLeft)
	case ActionTextRight:
		a.editText((*paint.Text).CursorRight)
	case ActionTextHome:
		a.editText((*paint.Text).CursorHome)
	case ActionTextEnd:
		a.editText((*paint.Text).CursorEnd)
	case ActionTextNewline:
		a.editText(func(t *paint.Text) { t.Insert("\n") })
	case ActionTextPaste:
		a.pasteText()
	}
}

func (a *AppState) editText(fn func(*paint.Text)) {
	if err := a.model.EditText(fn); err != nil {
		log.Printf("edit text: %v", err)
		return
	}
	a.changed()
}

func (a *AppState) pasteText() {
	if a.paste == nil {
		return
	}
	s, err := a.paste()
	if err != nil {
		log.Printf("paste: %v", err)
		return
	}
	a.editText(func(t *paint.Text) { t.Insert(s) })
}
