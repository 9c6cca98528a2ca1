package render

import (
	"slices"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/hamidzr/recipemenu/core"
	"github.com/hamidzr/recipemenu/model"
	"github.com/sirupsen/logrus"
)

// GUI is the fyne front end of an Orchestrator.
type GUI struct {
	app    fyne.App
	window fyne.Window
	o      *core.Orchestrator
	cfg    *model.Config

	SearchEntry *SearchEntry
	ThemeButton *widget.Button
	Suggestions *SuggestionsCanvas
	Notice      *widget.Label
	Results     *ResultsGrid
	Recent      *fyne.Container

	mu          sync.Mutex
	dark        bool
	suggestions []string
	selected    int
	recent      []string
	rendered    bool
}

// NewGUI builds the window on app and subscribes to o. Call ShowAndRun to
// start the event loop.
func NewGUI(app fyne.App, o *core.Orchestrator, images *core.ImageLoader, cfg *model.Config) *GUI {
	g := &GUI{app: app, o: o, cfg: cfg, selected: -1}

	g.window = app.NewWindow(cfg.Title)

	g.SearchEntry = NewSearchEntry(cfg.Prompt)
	g.ThemeButton = widget.NewButton(themeGlyph(core.IconMoon), g.toggleTheme)
	g.ThemeButton.Importance = widget.LowImportance
	g.Suggestions = NewSuggestionsCanvas(g.selectSuggestion)
	g.Notice = widget.NewLabel("")
	g.Notice.Importance = widget.DangerImportance
	g.Notice.Hide()
	g.Results = NewResultsGrid(images)
	g.Recent = container.NewHBox()

	header := container.NewVBox(
		NewInputArea(g.SearchEntry, g.ThemeButton),
		g.Suggestions.Container,
		g.Notice,
		g.Recent,
		widget.NewSeparator(),
	)
	g.window.SetContent(container.NewBorder(header, nil, nil, nil, g.Results.Container))
	g.window.Resize(fyne.NewSize(cfg.MinWidth, cfg.MinHeight))

	g.SearchEntry.OnChanged = func(text string) {
		g.mu.Lock()
		g.selected = -1
		g.mu.Unlock()
		o.Keystroke(text, core.KeyNone)
	}
	g.SearchEntry.OnNavigate = g.handleKey
	g.window.Canvas().SetOnTypedKey(g.handleKey)

	o.OnChange(g.Apply)
	g.Apply(o.View())
	if cfg.InitialQuery != "" {
		g.SearchEntry.SetText(cfg.InitialQuery)
		g.SearchEntry.SelectAll()
	}
	g.window.Canvas().Focus(g.SearchEntry)
	return g
}

// Window exposes the main window.
func (g *GUI) Window() fyne.Window {
	return g.window
}

// ShowAndRun blocks until the window is closed.
func (g *GUI) ShowAndRun() {
	g.window.Show()
	g.app.Run()
}

func (g *GUI) handleKey(key *fyne.KeyEvent) {
	g.mu.Lock()
	count := len(g.suggestions)
	switch key.Name {
	case fyne.KeyDown, fyne.KeyTab:
		if count > 0 {
			g.selected = (g.selected + 1) % count
		}
	case fyne.KeyUp:
		if count > 0 {
			if g.selected <= 0 {
				g.selected = count - 1
			} else {
				g.selected--
			}
		}
	case fyne.KeyReturn, fyne.KeyEnter:
		selected := g.selected
		g.mu.Unlock()
		if selected >= 0 && selected < count {
			g.selectSuggestion(selected)
		} else {
			g.o.Keystroke(g.SearchEntry.Text, core.KeyEnter)
		}
		return
	case fyne.KeyEscape:
		g.mu.Unlock()
		g.app.Quit()
		return
	default:
		g.mu.Unlock()
		return
	}
	names, selected := g.suggestions, g.selected
	g.mu.Unlock()
	g.Suggestions.Render(names, selected)
}

// setEntryText replaces the entry text without producing a keystroke.
func (g *GUI) setEntryText(text string) {
	onChanged := g.SearchEntry.OnChanged
	g.SearchEntry.OnChanged = nil
	g.SearchEntry.SetText(text)
	g.SearchEntry.OnChanged = onChanged
}

func (g *GUI) selectSuggestion(idx int) {
	g.mu.Lock()
	if idx < 0 || idx >= len(g.suggestions) {
		g.mu.Unlock()
		return
	}
	name := g.suggestions[idx]
	g.selected = -1
	g.mu.Unlock()

	g.setEntryText(name)
	if err := g.o.SelectSuggestion(idx); err != nil {
		logrus.WithError(err).Debug("suggestion vanished before selection")
	}
}

func (g *GUI) selectRecent(term string) {
	g.setEntryText(term)
	g.o.SelectRecent(term)
}

func (g *GUI) toggleTheme() {
	if err := g.o.ToggleTheme(); err != nil {
		logrus.WithError(err).Warn("theme toggle failed")
	}
}

// Apply paints v. It is safe to call from any goroutine.
func (g *GUI) Apply(v core.View) {
	g.mu.Lock()
	themeChanged := !g.rendered || g.dark != v.Dark()
	g.dark = v.Dark()
	suggestionsChanged := !g.rendered || !slices.Equal(g.suggestions, v.Suggestions)
	if suggestionsChanged {
		g.suggestions = append([]string(nil), v.Suggestions...)
		g.selected = -1
	}
	names, selected := g.suggestions, g.selected
	recentChanged := !g.rendered || !slices.Equal(g.recent, v.Recent.Tags)
	if recentChanged {
		g.recent = append([]string(nil), v.Recent.Tags...)
	}
	g.rendered = true
	g.mu.Unlock()

	if themeChanged {
		g.app.Settings().SetTheme(NewMainTheme(v.Dark()))
		g.ThemeButton.SetText(themeGlyph(v.ThemeIcon))
	}
	if suggestionsChanged {
		g.Suggestions.Render(names, selected)
	}
	g.Notice.SetText(v.SuggestionNotice)
	if v.SuggestionNotice == "" {
		g.Notice.Hide()
	} else {
		g.Notice.Show()
	}
	if recentChanged {
		g.renderRecent(v.Recent)
	}
	g.Results.Apply(v.Results, v.Dark())
}

func (g *GUI) renderRecent(recent core.RecentView) {
	objects := []fyne.CanvasObject{widget.NewLabel("Recent:")}
	if len(recent.Tags) == 0 {
		hint := widget.NewLabel(recent.EmptyMessage)
		hint.TextStyle = fyne.TextStyle{Italic: true}
		objects = append(objects, hint)
	}
	for _, tag := range recent.Tags {
		term := tag
		button := widget.NewButton(term, func() { g.selectRecent(term) })
		button.Importance = widget.LowImportance
		objects = append(objects, button)
	}
	if len(recent.Tags) > 0 {
		clearButton := widget.NewButton("Clear", func() {
			if err := g.o.ClearHistory(); err != nil {
				logrus.WithError(err).Warn("clearing history failed")
			}
		})
		clearButton.Importance = widget.DangerImportance
		objects = append(objects, clearButton)
	}
	g.Recent.Objects = objects
	g.Recent.Refresh()
}
