package render

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// navigationKeys never reach the underlying entry: they drive the suggestion
// list and the search instead of moving the caret or submitting.
var navigationKeys = []fyne.KeyName{fyne.KeyUp, fyne.KeyDown, fyne.KeyTab, fyne.KeyReturn, fyne.KeyEnter}

// SearchEntry is the recipe search box. Every typed key is offered to
// OnNavigate first; captured keys stop there.
type SearchEntry struct {
	widget.Entry
	OnNavigate func(key *fyne.KeyEvent)

	captured map[fyne.KeyName]bool
}

// NewSearchEntry builds an entry that captures the navigation keys.
func NewSearchEntry(placeholder string) *SearchEntry {
	entry := &SearchEntry{}
	entry.Capture(navigationKeys...)
	entry.ExtendBaseWidget(entry)
	entry.SetPlaceHolder(placeholder)
	return entry
}

// Capture stops keys from reaching the entry's own handling.
func (e *SearchEntry) Capture(keys ...fyne.KeyName) {
	if e.captured == nil {
		e.captured = make(map[fyne.KeyName]bool, len(keys))
	}
	for _, key := range keys {
		e.captured[key] = true
	}
}

// Captures reports whether key is kept from the entry.
func (e *SearchEntry) Captures(key fyne.KeyName) bool {
	return e.captured[key]
}

// SelectAll selects the whole query so typing replaces it.
func (e *SearchEntry) SelectAll() {
	e.Entry.TypedShortcut(&fyne.ShortcutSelectAll{})
}

// AcceptsTab keeps Tab inside the entry so it can cycle suggestions.
func (e *SearchEntry) AcceptsTab() bool {
	return true
}

func (e *SearchEntry) TypedKey(key *fyne.KeyEvent) {
	if e.OnNavigate != nil {
		e.OnNavigate(key)
	}
	if e.Captures(key.Name) {
		return
	}
	e.Entry.TypedKey(key)
}

// NewInputArea puts the search entry next to a fixed width theme toggle.
func NewInputArea(searchEntry *SearchEntry, themeButton *widget.Button) *fyne.Container {
	return container.New(NewProportionalLayout(48), searchEntry, themeButton)
}
