package render

import (
	"fyne.io/fyne/v2"
)

// ProportionalLayout gives the second object a fixed width and the first one
// everything that is left.
type ProportionalLayout struct {
	trailingWidth float32
}

// NewProportionalLayout creates a new instance of ProportionalLayout.
func NewProportionalLayout(trailingWidth float32) *ProportionalLayout {
	return &ProportionalLayout{trailingWidth: trailingWidth}
}

// Layout places exactly two objects side by side.
func (l *ProportionalLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) != 2 {
		return
	}

	leadingSize := fyne.NewSize(size.Width-l.trailingWidth, size.Height)
	objects[0].Resize(leadingSize)
	objects[0].Move(fyne.NewPos(0, 0))

	objects[1].Resize(fyne.NewSize(l.trailingWidth, size.Height))
	objects[1].Move(fyne.NewPos(leadingSize.Width, 0))
}

// MinSize is the leading minimum width plus the fixed trailing width.
func (l *ProportionalLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var minWidth, minHeight float32
	for i, o := range objects {
		min := o.MinSize()
		if i == 0 {
			minWidth += min.Width
		}
		if min.Height > minHeight {
			minHeight = min.Height
		}
	}
	return fyne.NewSize(minWidth+l.trailingWidth, minHeight)
}
