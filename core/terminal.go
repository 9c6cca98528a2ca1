package core

import (
	"sync"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// raw tty bytes the terminal mode reacts to.
const (
	byteCtrlC     = 3
	byteCtrlD     = 4
	byteBackspace = 8
	byteTab       = 9
	byteNewline   = '\n'
	byteReturn    = '\r'
	byteCtrlR     = 18
	byteCtrlT     = 20
	byteCtrlX     = 24
	byteEscape    = 27
	byteDelete    = 127
)

// escape sequence progress. Arrow and function keys arrive as ESC [ ... or
// ESC O x and are swallowed whole.
type escapeState int

const (
	escapeNone escapeState = iota
	escapeStarted
	escapeCSI
	escapeSS3
)

// CursorTarget says which list the terminal cursor points into.
type CursorTarget int

const (
	CursorNone CursorTarget = iota
	CursorSuggestion
	CursorRecent
)

// TerminalInput keeps a local copy of what the user typed in a raw terminal
// and turns each byte into an orchestrator intent.
//
// Tab cycles through suggestions, Ctrl+R through recent searches, Enter
// searches the highlighted entry (or the typed text), Ctrl+T toggles the
// theme, Ctrl+X clears the history, Ctrl+C/Ctrl+D quit. A lone Esc quits
// too; Esc followed by [ or O starts a key sequence that is ignored.
type TerminalInput struct {
	o *Orchestrator

	// mu guards the fields below and is never held while calling o.
	mu     sync.Mutex
	input  []byte
	target CursorTarget
	index  int
	escape escapeState
}

// NewTerminalInput starts with initial as the typed text.
func NewTerminalInput(o *Orchestrator, initial string) *TerminalInput {
	return &TerminalInput{o: o, input: []byte(initial)}
}

// Text is the current line.
func (t *TerminalInput) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.input)
}

// Cursor returns the highlighted list and index.
func (t *TerminalInput) Cursor() (CursorTarget, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.target, t.index
}

// edit applies fn to the line, clears the cursor and reports the new text
// and whether it is complete utf-8.
func (t *TerminalInput) edit(fn func([]byte) []byte) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = fn(t.input)
	t.target = CursorNone
	t.index = 0
	return string(t.input), utf8.Valid(t.input)
}

// Feed handles one byte. It reports whether the session should end.
func (t *TerminalInput) Feed(b byte) bool {
	if consumed, quit := t.feedEscape(b); consumed {
		return quit
	}
	switch {
	case b == byteCtrlC || b == byteCtrlD:
		return true
	case b == byteReturn || b == byteNewline:
		t.enter()
	case b == byteDelete || b == byteBackspace:
		if t.Text() == "" {
			return false
		}
		text, _ := t.edit(func(in []byte) []byte {
			_, size := utf8.DecodeLastRune(in)
			return in[:len(in)-size]
		})
		t.o.Keystroke(text, KeyNone)
	case b == byteTab:
		t.cycle(CursorSuggestion, len(t.o.View().Suggestions))
	case b == byteCtrlR:
		t.cycle(CursorRecent, len(t.o.View().Recent.Tags))
	case b == byteCtrlT:
		if err := t.o.ToggleTheme(); err != nil {
			logrus.WithError(err).Warn("theme toggle failed")
		}
	case b == byteCtrlX:
		if err := t.o.ClearHistory(); err != nil {
			logrus.WithError(err).Warn("clearing history failed")
		}
	case b >= 32:
		// printable ascii and utf-8 continuation bytes
		text, complete := t.edit(func(in []byte) []byte { return append(in, b) })
		if complete {
			t.o.Keystroke(text, KeyNone)
		}
	}
	return false
}

// Pause is called when no more input is waiting. It reports whether the
// session should end, which is the case when the last byte was a lone Esc.
func (t *TerminalInput) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.escape == escapeStarted {
		t.escape = escapeNone
		return true
	}
	return false
}

// feedEscape advances the escape sequence state. consumed means b belonged
// to a sequence and needs no further handling.
func (t *TerminalInput) feedEscape(b byte) (consumed, quit bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.escape {
	case escapeStarted:
		switch b {
		case '[':
			t.escape = escapeCSI
			return true, false
		case 'O':
			t.escape = escapeSS3
			return true, false
		}
		// Esc on its own, then another key
		t.escape = escapeNone
		return true, true
	case escapeCSI:
		// parameters until a final byte in @..~
		if b >= 0x40 && b <= 0x7e {
			t.escape = escapeNone
		}
		return true, false
	case escapeSS3:
		t.escape = escapeNone
		return true, false
	}
	if b == byteEscape {
		t.escape = escapeStarted
		return true, false
	}
	return false, false
}

func (t *TerminalInput) cycle(target CursorTarget, count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch {
	case count == 0:
		t.target = CursorNone
		t.index = 0
	case t.target != target:
		t.target = target
		t.index = 0
	default:
		t.index = (t.index + 1) % count
	}
}

func (t *TerminalInput) enter() {
	t.mu.Lock()
	target, index := t.target, t.index
	t.target = CursorNone
	t.index = 0
	t.mu.Unlock()

	view := t.o.View()
	switch target {
	case CursorSuggestion:
		if index < len(view.Suggestions) {
			t.setText(view.Suggestions[index])
			if err := t.o.SelectSuggestion(index); err != nil {
				logrus.WithError(err).Debug("suggestion vanished before selection")
			}
			return
		}
	case CursorRecent:
		if index < len(view.Recent.Tags) {
			term := view.Recent.Tags[index]
			t.setText(term)
			t.o.SelectRecent(term)
			return
		}
	}
	t.o.Keystroke(t.Text(), KeyEnter)
}

func (t *TerminalInput) setText(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.input = []byte(text)
}
