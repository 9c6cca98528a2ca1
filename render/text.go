package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/hamidzr/recipemenu/core"
)

const (
	ansiReset     = "\x1b[0m"
	ansiBold      = "\x1b[1m"
	ansiReverse   = "\x1b[7m"
	ansiClear     = "\x1b[H\x1b[2J"
	ansiClearLine = "\x1b[K"
)

// palette is the set of ANSI colors for one theme.
type palette struct {
	text   string
	muted  string
	accent string
	danger string
}

var (
	lightPalette = palette{
		text:   "\x1b[30m",
		muted:  "\x1b[90m",
		accent: "\x1b[34m",
		danger: "\x1b[31m",
	}
	darkPalette = palette{
		text:   "\x1b[97m",
		muted:  "\x1b[37m",
		accent: "\x1b[93m",
		danger: "\x1b[91m",
	}
)

func paletteFor(v core.View) palette {
	if v.Dark() {
		return darkPalette
	}
	return lightPalette
}

// TextOptions control WriteText.
type TextOptions struct {
	Title  string
	Prompt string
	// Cursor highlights an entry of the suggestion or recent list.
	Cursor      core.CursorTarget
	CursorIndex int
	// Clear redraws from the top left corner.
	Clear bool
}

// WriteText paints v for a raw terminal. Lines end in \r\n.
func WriteText(w io.Writer, v core.View, opts TextOptions) error {
	p := paletteFor(v)
	var b strings.Builder
	line := func(format string, args ...any) {
		b.WriteString(fmt.Sprintf(format, args...))
		b.WriteString(ansiClearLine + ansiReset + "\r\n")
	}
	highlight := func(selected bool, s string) string {
		if selected {
			return ansiReverse + s + ansiReset
		}
		return s
	}

	if opts.Clear {
		b.WriteString(ansiClear)
	}
	line("%s%s%s%s  %s%s [%s]", ansiBold, p.accent, opts.Title, ansiReset, p.muted, themeGlyph(v.ThemeIcon), v.Phase)
	line("%s%s%s", p.text, opts.Prompt, v.Input)

	for i, name := range v.Suggestions {
		selected := opts.Cursor == core.CursorSuggestion && opts.CursorIndex == i
		line("  %s%d.%s %s", p.muted, i+1, ansiReset+p.text, highlight(selected, name))
	}
	if v.SuggestionNotice != "" {
		line("  %s%s", p.danger, v.SuggestionNotice)
	}
	line("")

	switch v.Results.Status {
	case core.ResultsReady:
		for _, card := range v.Results.Cards {
			line("%s%s*%s %s%s%s %s(%s)", p.accent, ansiBold, ansiReset, p.text+ansiBold, card.Title, ansiReset, p.muted, card.Category)
			if card.Link != "" {
				line("    %s%s", p.accent, card.Link)
			}
		}
	case core.ResultsFailed:
		line("%s%s", p.danger, v.Results.Message)
	default:
		if v.Results.Message != "" {
			line("%s%s", p.muted, v.Results.Message)
		}
	}
	line("")

	if len(v.Recent.Tags) == 0 {
		line("%sRecent: %s", p.muted, v.Recent.EmptyMessage)
	} else {
		tags := make([]string, len(v.Recent.Tags))
		for i, tag := range v.Recent.Tags {
			selected := opts.Cursor == core.CursorRecent && opts.CursorIndex == i
			tags[i] = highlight(selected, "["+tag+"]") + p.text
		}
		line("%sRecent: %s%s", p.muted, p.text, strings.Join(tags, " "))
	}
	line("%sTab suggestions  Ctrl+R recent  Enter search  Ctrl+T theme  Ctrl+X clear  Esc quit", p.muted)

	_, err := io.WriteString(w, b.String())
	return err
}
