package appstate

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/mobile/event/key"

	"github.com/example/layerpaint/internal/paint"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

func (k KeyShortcut) String() string {
	var parts []string
	if k.Modifiers&key.ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if k.Modifiers&key.ModShift != 0 {
		parts = append(parts, "Shift")
	}
	switch {
	case k.Rune > 0:
		parts = append(parts, strings.ToUpper(string(k.Rune)))
	case k.Code == key.CodeReturnEnter:
		parts = append(parts, "Enter")
	case k.Code == key.CodeEscape:
		parts = append(parts, "Esc")
	default:
		parts = append(parts, fmt.Sprintf("key(%d)", k.Code))
	}
	return strings.Join(parts, "+")
}

// Binding pairs an action name with its shortcuts and a description.
type Binding struct {
	Action string
	Keys   []KeyShortcut
	Help   string
}

func ctrl(r rune) KeyShortcut { return KeyShortcut{Rune: r, Modifiers: key.ModControl} }
func plain(r rune) KeyShortcut { return KeyShortcut{Rune: r} }

// Bindings lists the window's keyboard shortcuts.
func Bindings() []Binding {
	return []Binding{
		{"view", []KeyShortcut{plain('v')}, "view mode (input ignored)"},
		{"draw", []KeyShortcut{plain('d')}, "draw mode"},
		{"mask", []KeyShortcut{plain('m')}, "mask mode; releasing a stroke inpaints"},
		{"crop", []KeyShortcut{plain('c')}, "crop mode; releasing a drag crops"},
		{"freehand", []KeyShortcut{plain('p')}, "freehand pen"},
		{"eraser", []KeyShortcut{plain('e')}, "eraser"},
		{"rectangle", []KeyShortcut{plain('r')}, "filled rectangle"},
		{"circle", []KeyShortcut{plain('i')}, "filled circle"},
		{"oval", []KeyShortcut{plain('o')}, "filled oval"},
		{"triangle", []KeyShortcut{plain('t')}, "filled triangle"},
		{"line", []KeyShortcut{plain('l')}, "straight line"},
		{"text", []KeyShortcut{plain('x')}, "text stamp (Ctrl+T edits the text)"},
		{"fill", []KeyShortcut{plain('f')}, "flood fill transparent area"},
		{"undo", []KeyShortcut{ctrl('z')}, "undo"},
		{"redo", []KeyShortcut{ctrl('y'), {Rune: 'z', Modifiers: key.ModControl | key.ModShift}}, "redo"},
		{"save", []KeyShortcut{ctrl('s')}, "save composite"},
		{"pdf", []KeyShortcut{ctrl('e')}, "export composite as PDF"},
		{"copy", []KeyShortcut{ctrl('c')}, "copy composite to clipboard"},
		{"paste", []KeyShortcut{ctrl('v')}, "replace image from clipboard"},
		{"addlayer", []KeyShortcut{plain('n')}, "add layer"},
		{"dellayer", []KeyShortcut{ctrl('d')}, "delete active layer (press twice)"},
		{"hide", []KeyShortcut{plain('h')}, "toggle active layer visibility"},
		{"layerup", []KeyShortcut{plain(']')}, "select layer above"},
		{"layerdown", []KeyShortcut{plain('[')}, "select layer below"},
		{"opaque", []KeyShortcut{plain('.')}, "raise layer opacity"},
		{"fade", []KeyShortcut{plain(',')}, "lower layer opacity"},
		{"wider", []KeyShortcut{plain('+'), plain('=')}, "wider brush"},
		{"thinner", []KeyShortcut{plain('-')}, "thinner brush"},
		{"clear", []KeyShortcut{plain('k')}, "clear active layer drawing"},
		{"autocolor", []KeyShortcut{plain('a')}, "auto colour (remote)"},
		{"removebg", []KeyShortcut{plain('b')}, "remove background (remote)"},
		{"upscale", []KeyShortcut{plain('u')}, "super resolution (remote)"},
		{"cancel", []KeyShortcut{{Code: key.CodeEscape}}, "cancel and return to view mode"},
		{"quit", []KeyShortcut{plain('q')}, "quit"},
	}
}

func keymap() map[KeyShortcut]string {
	m := make(map[KeyShortcut]string)
	for _, b := range Bindings() {
		for _, k := range b.Keys {
			m[k] = b.Action
		}
	}
	return m
}

// shortcutFor normalises a key event into a lookup key. Letters are
// lower-cased; Shift is kept only together with Ctrl.
func shortcutFor(e key.Event) KeyShortcut {
	mods := e.Modifiers & (key.ModControl | key.ModShift)
	if mods&key.ModControl == 0 {
		mods = 0
	}
	r := unicode.ToLower(e.Rune)
	if r > 0 && mods&key.ModControl != 0 && r < ' ' {
		// Some drivers report Ctrl+letter as the control character.
		r += 'a' - 1
	}
	if r > 0 {
		return KeyShortcut{Rune: r, Modifiers: mods}
	}
	return KeyShortcut{Code: e.Code, Modifiers: mods}
}

// HandleKey applies a key press. It reports true when the window should
// close.
func (a *AppState) HandleKey(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	if a.editingText() {
		a.editText(e)
		return false
	}
	ks := shortcutFor(e)
	if ks == ctrl('t') {
		a.mu.Lock()
		a.textEditing = true
		a.mu.Unlock()
		a.Session.SetTool(paint.ToolText)
		a.Flash("type text, Enter to finish")
		return false
	}
	action, ok := keymap()[ks]
	if !ok {
		a.setConfirmDelete(false)
		return false
	}
	switch action {
	case "quit":
		return true
	case "dellayer":
		if !a.setConfirmDelete(true) {
			a.Flash("press Ctrl+D again to delete the layer")
			return false
		}
		a.setConfirmDelete(false)
	default:
		a.setConfirmDelete(false)
	}
	a.Perform(action)
	return false
}

// setConfirmDelete stores v and returns the previous value.
func (a *AppState) setConfirmDelete(v bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.confirmDelete
	a.confirmDelete = v
	return prev
}

func (a *AppState) editingText() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.textEditing
}

func (a *AppState) editText(e key.Event) {
	st := a.Session.Settings()
	switch e.Code {
	case key.CodeReturnEnter, key.CodeEscape:
		a.mu.Lock()
		a.textEditing = false
		a.mu.Unlock()
		a.Flash(fmt.Sprintf("text %q", st.Text))
		return
	case key.CodeDeleteBackspace:
		if r := []rune(st.Text); len(r) > 0 {
			st.Text = string(r[:len(r)-1])
		}
	default:
		if e.Rune <= 0 || !unicode.IsPrint(e.Rune) {
			return
		}
		st.Text += string(e.Rune)
	}
	a.Session.SetSettings(st)
	a.NotifyImageChanged()
}
