package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// StderrHook copies warnings and errors to stderr while everything else goes
// to the logger's regular output.
type StderrHook struct {
	Writer io.Writer
}

func (h *StderrHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.WarnLevel, logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel}
}

func (h *StderrHook) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	_, err = io.WriteString(h.Writer, line)
	return err
}

// levelSplitter drops warn and above from the regular output; StderrHook
// writes those instead.
type levelSplitter struct {
	out io.Writer
}

func (s *levelSplitter) Levels() []logrus.Level {
	return []logrus.Level{logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel}
}

func (s *levelSplitter) Fire(entry *logrus.Entry) error {
	line, err := entry.String()
	if err != nil {
		return err
	}
	_, err = io.WriteString(s.out, line)
	return err
}

// SetupLogger configures the standard logger: info and below to stdout,
// warnings and errors to stderr.
func SetupLogger(level string) error {
	return setup(logrus.StandardLogger(), level, os.Stdout, os.Stderr)
}

// SetupTerminalLogger silences everything below error so log lines do not
// tear up the raw terminal screen.
func SetupTerminalLogger() {
	log := logrus.StandardLogger()
	log.SetOutput(io.Discard)
	log.ReplaceHooks(make(logrus.LevelHooks))
	log.SetLevel(logrus.ErrorLevel)
}

func setup(log *logrus.Logger, level string, stdout, stderr io.Writer) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetOutput(io.Discard)
	log.SetLevel(lvl)
	hooks := make(logrus.LevelHooks)
	hooks.Add(&levelSplitter{out: stdout})
	hooks.Add(&StderrHook{Writer: stderr})
	log.ReplaceHooks(hooks)
	return nil
}
