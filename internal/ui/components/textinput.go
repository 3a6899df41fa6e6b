package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
)

// TextInput wraps bubbles/textinput for hash filtering.
type TextInput struct {
	Model   textinput.Model
	HexOnly bool
}

// NewTextInput creates a new text input. With hexOnly set, keystrokes that
// cannot appear in a signal hash are dropped.
func NewTextInput(placeholder string, hexOnly bool, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return TextInput{Model: ti, HexOnly: hexOnly}
}

// Focus activates the input.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur deactivates the input.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input takes keystrokes.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update handles messages.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.HexOnly {
		if kmsg, ok := msg.(tea.KeyPressMsg); ok {
			if key := kmsg.String(); len(key) == 1 && !isHashRune(key[0]) {
				return t, nil
			}
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	return t.Model.View()
}

// Value returns the lower-cased current value.
func (t TextInput) Value() string {
	return strings.ToLower(t.Model.Value())
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}

func isHashRune(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' || c == 'x' || c == 'X'
}
