package render

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// tapTarget is an invisible layer stacked under a suggestion row or a recipe
// card. It turns the whole surface into one click target and reports hover
// changes so the owner can repaint its background.
type tapTarget struct {
	widget.BaseWidget
	onTap         func()
	onHoverChange func(hovered bool)
	hovered       bool
}

var (
	_ fyne.Tappable      = (*tapTarget)(nil)
	_ desktop.Hoverable  = (*tapTarget)(nil)
	_ desktop.Cursorable = (*tapTarget)(nil)
)

func newTapTarget(onTap func(), onHoverChange func(bool)) *tapTarget {
	t := &tapTarget{onTap: onTap, onHoverChange: onHoverChange}
	t.ExtendBaseWidget(t)
	return t
}

func (t *tapTarget) Tapped(*fyne.PointEvent) {
	if t.onTap != nil {
		t.onTap()
	}
}

// Cursor shows a pointer only when a tap does something.
func (t *tapTarget) Cursor() desktop.Cursor {
	if t.onTap == nil {
		return desktop.DefaultCursor
	}
	return desktop.PointerCursor
}

func (t *tapTarget) MouseIn(*desktop.MouseEvent) { t.setHovered(true) }

func (t *tapTarget) MouseMoved(*desktop.MouseEvent) {}

func (t *tapTarget) MouseOut() { t.setHovered(false) }

func (t *tapTarget) setHovered(hovered bool) {
	if t.hovered == hovered {
		return
	}
	t.hovered = hovered
	if t.onHoverChange != nil {
		t.onHoverChange(hovered)
	}
}

func (t *tapTarget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}
