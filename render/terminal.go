package render

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/hamidzr/recipemenu/core"
	"github.com/hamidzr/recipemenu/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// TerminalSession repaints the whole screen on every change and feeds typed
// bytes to a core.TerminalInput.
type TerminalSession struct {
	o     *core.Orchestrator
	input *core.TerminalInput
	out   io.Writer
	title string
	// prompt is shown before the typed text.
	prompt string

	mu     sync.Mutex
	closed bool
}

// NewTerminalSession prepares a session writing to out.
func NewTerminalSession(o *core.Orchestrator, cfg *model.Config, out io.Writer) *TerminalSession {
	s := &TerminalSession{
		o:      o,
		input:  core.NewTerminalInput(o, cfg.InitialQuery),
		out:    out,
		title:  cfg.Title,
		prompt: "> ",
	}
	if cfg.Prompt != "" {
		s.prompt = cfg.Prompt + " "
	}
	o.OnChange(func(v core.View) { s.paint(v) })
	return s
}

func (s *TerminalSession) paint(v core.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	target, index := s.input.Cursor()
	err := WriteText(s.out, v, TextOptions{
		Title:       s.title,
		Prompt:      s.prompt,
		Cursor:      target,
		CursorIndex: index,
		Clear:       true,
	})
	if err != nil {
		logrus.WithError(err).Debug("failed to paint terminal")
	}
}

// Run reads bytes from r until a quit key or EOF.
func (s *TerminalSession) Run(r io.Reader) error {
	defer func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
	}()

	if text := s.input.Text(); text != "" {
		s.o.Keystroke(text, core.KeyNone)
	}
	s.paint(s.o.View())

	reader := bufio.NewReader(r)
	for {
		b, err := reader.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "failed to read terminal input")
		}
		if s.input.Feed(b) {
			return nil
		}
		if reader.Buffered() == 0 && s.input.Pause() {
			return nil
		}
		// cursor moves do not change the view
		s.paint(s.o.View())
	}
}

// Text is what the user has typed so far.
func (s *TerminalSession) Text() string {
	return s.input.Text()
}

// RunTerminal puts stdin in raw mode and runs a session on stdout.
func RunTerminal(o *core.Orchestrator, cfg *model.Config) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "failed to set raw terminal mode")
	}
	defer func() {
		if err := term.Restore(fd, oldState); err != nil {
			logrus.WithError(err).Error("failed to restore terminal")
		}
		_, _ = io.WriteString(os.Stdout, ansiReset+"\r\n")
	}()

	return NewTerminalSession(o, cfg, os.Stdout).Run(os.Stdin)
}
