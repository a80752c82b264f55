package appstate

import (
	"unicode"

	"golang.org/x/mobile/event/key"
)

// Action is a command triggered from the keyboard.
type Action int

const (
	ActionNone Action = iota
	ActionToolBrush
	ActionToolText
	ActionToolRectangle
	ActionToolEllipse
	ActionToolArrow
	ActionToolLine
	ActionToolBlur
	ActionToolCrop
	ActionClear
	ActionColorRed
	ActionColorGreen
	ActionColorBlue
	ActionColorCustom
	ActionSizeDecrease
	ActionSizeReset
	ActionSizeIncrease
	ActionToggleFill
	ActionToggleTransparent
	ActionUndo
	ActionRedo
	ActionCopy
	ActionSave
	ActionQuit
	ActionCancel

	// Text editing actions apply while a text paint is being edited.
	ActionTextCommit
	ActionTextBackspace
	ActionTextDelete
	ActionTextLeft
	ActionTextRight
	ActionTextHome
	ActionTextEnd
	ActionTextNewline
	ActionTextPaste
)

var actionNames = map[Action]string{
	ActionToolBrush:         "brush",
	ActionToolText:          "text",
	ActionToolRectangle:     "rectangle",
	ActionToolEllipse:       "ellipse",
	ActionToolArrow:         "arrow",
	ActionToolLine:          "line",
	ActionToolBlur:          "blur",
	ActionToolCrop:          "crop",
	ActionClear:             "clear",
	ActionColorRed:          "red",
	ActionColorGreen:        "green",
	ActionColorBlue:         "blue",
	ActionColorCustom:       "custom color",
	ActionSizeDecrease:      "smaller",
	ActionSizeReset:         "reset size",
	ActionSizeIncrease:      "larger",
	ActionToggleFill:        "fill",
	ActionToggleTransparent: "transparent",
	ActionUndo:              "undo",
	ActionRedo:              "redo",
	ActionCopy:              "copy",
	ActionSave:              "save",
	ActionQuit:              "quit",
	ActionCancel:            "cancel",
	ActionTextCommit:        "finish text",
	ActionTextBackspace:     "backspace",
	ActionTextDelete:        "delete",
	ActionTextLeft:          "cursor left",
	ActionTextRight:         "cursor right",
	ActionTextHome:          "cursor home",
	ActionTextEnd:           "cursor end",
	ActionTextNewline:       "newline",
	ActionTextPaste:         "paste",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return "none"
}

// KeyShortcut describes a keyboard combination. Printable keys match on
// Rune with shift folded into the rune's case; other keys match on Code.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// Keymap maps shortcuts to actions. Text bindings take precedence while a
// text paint is being edited; everything else uses the global bindings.
type Keymap struct {
	global map[KeyShortcut]Action
	text   map[KeyShortcut]Action
}

// NewKeymap returns an empty keymap.
func NewKeymap() Keymap {
	return Keymap{
		global: make(map[KeyShortcut]Action),
		text:   make(map[KeyShortcut]Action),
	}
}

// DefaultKeymap returns the standard bindings.
func DefaultKeymap() Keymap {
	km := NewKeymap()
	for r, a := range map[rune]Action{
		'b': ActionToolBrush,
		't': ActionToolText,
		'e': ActionToolText,
		'r': ActionToolRectangle,
		's': ActionToolRectangle,
		'o': ActionToolEllipse,
		'c': ActionToolEllipse,
		'a': ActionToolArrow,
		'l': ActionToolLine,
		'd': ActionToolBlur,
		'p': ActionToolCrop,
		'x': ActionClear,
		'k': ActionClear,
		'R': ActionColorRed,
		'G': ActionColorGreen,
		'B': ActionColorBlue,
		'C': ActionColorCustom,
		'-': ActionSizeDecrease,
		'=': ActionSizeReset,
		'+': ActionSizeIncrease,
		'f': ActionToggleFill,
		'T': ActionToggleTransparent,
		'q': ActionQuit,
	} {
		km.Bind(KeyShortcut{Rune: r}, a)
	}
	km.Bind(KeyShortcut{Code: key.CodeEscape}, ActionCancel)
	km.Bind(KeyShortcut{Rune: 'z', Modifiers: key.ModControl}, ActionUndo)
	km.Bind(KeyShortcut{Rune: 'Z', Modifiers: key.ModControl}, ActionRedo)
	km.Bind(KeyShortcut{Rune: 'y', Modifiers: key.ModControl}, ActionRedo)
	km.Bind(KeyShortcut{Rune: 'c', Modifiers: key.ModControl}, ActionCopy)
	km.Bind(KeyShortcut{Rune: 's', Modifiers: key.ModControl}, ActionSave)
	km.Bind(KeyShortcut{Rune: 'w', Modifiers: key.ModControl}, ActionQuit)

	km.BindText(KeyShortcut{Code: key.CodeEscape}, ActionTextCommit)
	km.BindText(KeyShortcut{Code: key.CodeDeleteBackspace}, ActionTextBackspace)
	km.BindText(KeyShortcut{Code: key.CodeDeleteForward}, ActionTextDelete)
	km.BindText(KeyShortcut{Code: key.CodeLeftArrow}, ActionTextLeft)
	km.BindText(KeyShortcut{Code: key.CodeRightArrow}, ActionTextRight)
	km.BindText(KeyShortcut{Code: key.CodeHome}, ActionTextHome)
	km.BindText(KeyShortcut{Code: key.CodeEnd}, ActionTextEnd)
	km.BindText(KeyShortcut{Code: key.CodeReturnEnter}, ActionTextNewline)
	km.BindText(KeyShortcut{Code: key.CodeKeypadEnter}, ActionTextNewline)
	km.BindText(KeyShortcut{Rune: 'v', Modifiers: key.ModControl}, ActionTextPaste)
	return km
}

// Bind adds a global binding.
func (km Keymap) Bind(sc KeyShortcut, a Action) { km.global[sc] = a }

// BindText adds a binding used while editing text.
func (km Keymap) BindText(sc KeyShortcut, a Action) { km.text[sc] = a }

// Lookup resolves a key press. editing selects the text bindings.
func (km Keymap) Lookup(e key.Event, editing bool) Action {
	sc := shortcutOf(e)
	if editing {
		return km.text[sc]
	}
	return km.global[sc]
}

// shortcutOf normalizes e. Control characters produced by Ctrl+letter are
// mapped back to their letter.
func shortcutOf(e key.Event) KeyShortcut {
	r, mods := e.Rune, e.Modifiers
	if mods&key.ModControl != 0 && r > 0 && r < 27 {
		r = 'a' + r - 1
	}
	if r > 0 && unicode.IsPrint(r) && r != ' ' {
		if mods&key.ModShift != 0 {
			r = unicode.ToUpper(r)
		}
		return KeyShortcut{Rune: r, Modifiers: mods &^ key.ModShift}
	}
	return KeyShortcut{Code: e.Code, Modifiers: mods}
}

// textInput returns the text a key press types into a text paint, if any.
func textInput(e key.Event) (string, bool) {
	if e.Modifiers&(key.ModControl|key.ModAlt|key.ModMeta) != 0 {
		return "", false
	}
	if e.Rune <= 0 || !unicode.IsPrint(e.Rune) {
		return "", false
	}
	return string(e.Rune), true
}
