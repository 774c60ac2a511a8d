package table

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// EditState is the state of an inline cell editor.
type EditState int

const (
	Viewing EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// Editor drives the inline editing of one cell. Focus starts an edit and
// remembers the original text; Enter commits, Escape restores, and leaving
// the cell (Blur) keeps the new text only if it passes the column validator.
type Editor struct {
	kind     ColumnType
	state    EditState
	original string
	text     string
}

// NewEditor returns an editor for a cell of the given type showing text.
func NewEditor(kind ColumnType, text string) *Editor {
	return &Editor{kind: kind, text: text}
}

func (e *Editor) State() EditState { return e.state }

// Text returns the cell's current text.
func (e *Editor) Text() string { return e.text }

// Focus enters editing and captures the trimmed current text.
func (e *Editor) Focus() {
	if e.state == Editing {
		return
	}
	e.original = strings.TrimSpace(e.text)
	e.state = Editing
}

// Input replaces the text being edited. Ignored while viewing.
func (e *Editor) Input(text string) {
	if e.state != Editing {
		return
	}
	e.text = text
}

// Key handles a key press while editing. Enter ends the edit, Escape puts
// the original text back first. It reports whether the key was consumed.
func (e *Editor) Key(key string) bool {
	if e.state != Editing {
		return false
	}

	switch key {
	case "Enter":
		e.Blur()
		return true
	case "Escape":
		e.text = e.original
		e.Blur()
		return true
	}
	return false
}

// Blur ends editing. The trimmed new text is kept when valid, otherwise the
// original comes back. It reports whether the new text was kept.
func (e *Editor) Blur() bool {
	if e.state != Editing {
		return true
	}
	e.state = Viewing

	value := strings.TrimSpace(e.text)
	if !Valid(e.kind, value) {
		log.Debug().
			Str("type", string(e.kind)).
			Str("value", value).
			Str("original", e.original).
			Msg("Rejected cell edit")
		e.text = e.original
		return false
	}

	e.text = value
	return true
}
