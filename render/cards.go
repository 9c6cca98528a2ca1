package render

import (
	"net/url"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/hamidzr/recipemenu/core"
	"github.com/sirupsen/logrus"
)

const (
	cardImageWidth  = 200
	cardImageHeight = 150
)

// RecipeCard shows one search result.
type RecipeCard struct {
	widget.BaseWidget

	image      *canvas.Image
	title      *widget.Label
	category   *widget.Label
	link       *widget.Hyperlink
	background *canvas.Rectangle
	dark       bool
	hovered    bool
	target     *url.URL
}

// NewRecipeCard builds an empty card; SetCard fills it.
func NewRecipeCard() *RecipeCard {
	card := &RecipeCard{
		image:      canvas.NewImageFromResource(theme.FileImageIcon()),
		title:      widget.NewLabel(""),
		category:   widget.NewLabel(""),
		link:       widget.NewHyperlink("View Recipe", nil),
		background: canvas.NewRectangle(cardBackground(false, false)),
	}
	card.image.FillMode = canvas.ImageFillContain
	card.image.SetMinSize(fyne.NewSize(cardImageWidth, cardImageHeight))
	card.title.TextStyle = fyne.TextStyle{Bold: true}
	card.title.Truncation = fyne.TextTruncateEllipsis
	card.category.TextStyle = fyne.TextStyle{Italic: true}
	card.background.CornerRadius = 6
	card.ExtendBaseWidget(card)
	return card
}

// SetCard shows c. A nil thumbnail keeps the placeholder icon.
func (c *RecipeCard) SetCard(card core.Card, thumbnail fyne.Resource, dark bool) {
	c.title.SetText(card.Title)
	c.category.SetText(card.Category)

	c.target = nil
	if card.Link != "" {
		if u, err := url.Parse(card.Link); err == nil {
			c.target = u
		}
	}
	if c.target != nil {
		c.link.SetURL(c.target)
		c.link.Show()
	} else {
		c.link.Hide()
	}

	if thumbnail == nil {
		thumbnail = theme.FileImageIcon()
	}
	if c.image.Resource != thumbnail {
		c.image.Resource = thumbnail
		c.image.Refresh()
	}

	c.dark = dark
	c.paint()
}

func (c *RecipeCard) paint() {
	c.background.FillColor = cardBackground(c.dark, c.hovered)
	c.background.Refresh()
}

// Title is the shown recipe name.
func (c *RecipeCard) Title() string {
	return c.title.Text
}

func (c *RecipeCard) open() {
	if c.target == nil {
		return
	}
	if app := fyne.CurrentApp(); app != nil {
		if err := app.OpenURL(c.target); err != nil {
			logrus.WithError(err).WithField("url", c.target.String()).Warn("failed to open recipe link")
		}
	}
}

func (c *RecipeCard) CreateRenderer() fyne.WidgetRenderer {
	area := newTapTarget(c.open, func(hovered bool) {
		c.hovered = hovered
		c.paint()
	})
	details := container.NewVBox(c.title, c.category, c.link)
	content := container.NewPadded(container.NewBorder(nil, details, nil, nil, c.image))
	return widget.NewSimpleRenderer(container.NewStack(c.background, area, content))
}

// ResultsGrid shows the results area: a status message or a grid of cards.
// Thumbnails are only fetched for cards the grid actually draws.
type ResultsGrid struct {
	Container *fyne.Container
	Message   *widget.Label

	grid   *widget.GridWrap
	images *core.ImageLoader

	mu         sync.Mutex
	cards      []core.Card
	lazy       []*core.LazyImage
	thumbnails map[string]fyne.Resource
	dark       bool
}

// NewResultsGrid wires the grid to images.
func NewResultsGrid(images *core.ImageLoader) *ResultsGrid {
	r := &ResultsGrid{
		Message:    widget.NewLabel(""),
		images:     images,
		thumbnails: map[string]fyne.Resource{},
	}
	r.Message.Alignment = fyne.TextAlignCenter
	r.Message.Wrapping = fyne.TextWrapWord
	r.Message.Hide()
	r.grid = widget.NewGridWrap(r.length, func() fyne.CanvasObject { return NewRecipeCard() }, r.updateItem)
	r.grid.Hide()
	r.Container = container.NewStack(r.Message, r.grid)
	return r
}

func (r *ResultsGrid) length() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cards)
}

// updateItem is only called for cells inside the viewport.
func (r *ResultsGrid) updateItem(id widget.GridWrapItemID, obj fyne.CanvasObject) {
	r.mu.Lock()
	if id < 0 || id >= len(r.cards) {
		r.mu.Unlock()
		return
	}
	card, lazy := r.cards[id], r.lazy[id]
	thumbnail, dark := r.thumbnails[card.ImageURL], r.dark
	r.mu.Unlock()

	obj.(*RecipeCard).SetCard(card, thumbnail, dark)
	lazy.Reveal()
}

func (r *ResultsGrid) onThumbnail(imageURL string, data []byte, err error) {
	if err != nil {
		return
	}
	r.mu.Lock()
	r.thumbnails[imageURL] = fyne.NewStaticResource(imageURL, data)
	var ids []int
	for i, card := range r.cards {
		if card.ImageURL == imageURL {
			ids = append(ids, i)
		}
	}
	r.mu.Unlock()
	for _, id := range ids {
		r.grid.RefreshItem(id)
	}
}

// Apply shows results.
func (r *ResultsGrid) Apply(results core.ResultsView, dark bool) {
	if results.Status != core.ResultsReady {
		r.mu.Lock()
		r.cards, r.lazy, r.dark = nil, nil, dark
		r.mu.Unlock()
		r.grid.Hide()
		r.Message.SetText(results.Message)
		if results.Message == "" {
			r.Message.Hide()
		} else {
			r.Message.Show()
		}
		return
	}

	r.mu.Lock()
	same := sameCards(r.cards, results.Cards)
	themeChanged := r.dark != dark
	r.dark = dark
	if !same {
		r.cards = append([]core.Card(nil), results.Cards...)
		r.lazy = make([]*core.LazyImage, len(r.cards))
		for i, card := range r.cards {
			imageURL := card.ImageURL
			r.lazy[i] = r.images.Lazy(imageURL, func(data []byte, err error) {
				r.onThumbnail(imageURL, data, err)
			})
		}
	}
	r.mu.Unlock()

	r.Message.Hide()
	r.grid.Show()
	if !same {
		r.grid.ScrollToTop()
	}
	if !same || themeChanged {
		r.grid.Refresh()
	}
}

// Revealed reports which cards have had their thumbnail requested.
func (r *ResultsGrid) Revealed() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	revealed := make([]bool, len(r.lazy))
	for i, lazy := range r.lazy {
		revealed[i] = lazy.Revealed()
	}
	return revealed
}

func sameCards(a, b []core.Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
