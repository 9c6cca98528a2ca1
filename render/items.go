package render

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

/*
render the suggestion list under the search box
*/

// SuggestionsCanvas is a container for showing suggested recipe names.
type SuggestionsCanvas struct {
	Container *fyne.Container
	// OnSelect runs with the index of a tapped suggestion.
	OnSelect func(idx int)
}

// NewSuggestionsCanvas initializes SuggestionsCanvas with a container.
func NewSuggestionsCanvas(onSelect func(idx int)) *SuggestionsCanvas {
	return &SuggestionsCanvas{
		Container: container.NewVBox(),
		OnSelect:  onSelect,
	}
}

// RenderSuggestion draws one suggestion row. onTap may be nil.
func RenderSuggestion(name string, idx int, selected bool, onTap func()) *fyne.Container {
	if name == "" {
		name = "Unnamed recipe"
	}

	nameText := widget.NewLabel(name)
	nameText.Truncation = fyne.TextTruncateEllipsis
	if selected {
		nameText.TextStyle = fyne.TextStyle{Bold: true}
	}

	var textContent *fyne.Container
	if idx < 9 {
		numberHint := widget.NewLabel(fmt.Sprintf("%d", idx+1))
		numberHint.TextStyle = fyne.TextStyle{Italic: true}
		numberHint.Importance = widget.MediumImportance
		textContent = container.NewBorder(nil, nil, numberHint, nil, nameText)
	} else {
		textContent = container.NewStack(nameText)
	}

	background := canvas.NewRectangle(theme.BackgroundColor())
	if selected {
		background.FillColor = theme.SelectionColor()
	} else {
		background.StrokeColor = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x40}
		background.StrokeWidth = 1
	}

	area := newTapTarget(onTap, func(hovered bool) {
		if selected {
			return
		}
		if hovered {
			background.FillColor = theme.HoverColor()
		} else {
			background.FillColor = theme.BackgroundColor()
		}
		background.Refresh()
	})

	row := container.NewStack(background, area, textContent)
	row.Layout = layout.NewStackLayout()
	return row
}

// Render replaces the rows, highlighting selected (-1 for none).
func (c *SuggestionsCanvas) Render(names []string, selected int) {
	if c == nil || c.Container == nil {
		return
	}

	c.Container.Objects = nil
	for i, name := range names {
		idx := i
		var onTap func()
		if c.OnSelect != nil {
			onTap = func() { c.OnSelect(idx) }
		}
		c.Container.Add(RenderSuggestion(name, i, i == selected, onTap))
	}
	if len(names) == 0 {
		c.Container.Hide()
	} else {
		c.Container.Show()
	}
	c.Container.Refresh()
}
