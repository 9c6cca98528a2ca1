package main

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/hamidzr/recipemenu/core"
	"github.com/hamidzr/recipemenu/model"
	"github.com/hamidzr/recipemenu/pkg/config"
	"github.com/hamidzr/recipemenu/render"
	"github.com/hamidzr/recipemenu/store"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

func main() {
	code, cause := model.ExitCodeFromError(run(os.Args))
	if cause != nil {
		fmt.Fprintln(os.Stderr, cause)
	}
	os.Exit(int(code))
}

func usage() {
	fmt.Println("Usage: go run ./cmd/visual-test <demo>")
	fmt.Println("Available demos:")
	fmt.Println("  typing  - Type a query, pick a suggestion and browse the cards")
	fmt.Println("  stress  - Rapid keystrokes against a slow catalog")
	fmt.Println("  theme   - Flip the theme every second")
}

func run(args []string) error {
	if len(args) < 2 {
		usage()
		return model.NewExitError(model.UnknownError, nil)
	}

	var script func(*render.GUI, *core.Orchestrator)
	switch args[1] {
	case "typing":
		script = typingScript
	case "stress":
		script = stressScript
	case "theme":
		script = themeScript
	default:
		fmt.Printf("Unknown demo: %s\n", args[1])
		usage()
		return model.NewExitError(model.UnknownError, nil)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Ignoring config file: %v\n", err)
		cfg = model.DefaultConfig()
	}
	cfg.Title = "recipemenu visual test: " + args[1]
	cfg.DebounceMs = 150

	kv := store.NewMemoryStore()
	history := store.NewRecentSearches(kv, cfg.MaxRecentSearches)
	themes := store.NewThemeStore(kv)
	lookup := newCatalog(400 * time.Millisecond)

	o := core.NewOrchestrator(lookup, history, themes, core.OptionsFromConfig(cfg))
	defer o.Close()
	images := core.NewImageLoader(lookup, cfg.ImageConcurrency)
	defer images.Close()

	gui := render.NewGUI(fyneapp.New(), o, images, cfg)
	go func() {
		time.Sleep(time.Second)
		script(gui, o)
	}()
	gui.ShowAndRun()
	return nil
}

func typeSlowly(gui *render.GUI, text string, delay time.Duration) {
	for i := range text {
		gui.SearchEntry.SetText(text[:i+1])
		time.Sleep(delay)
	}
}

func typingScript(gui *render.GUI, o *core.Orchestrator) {
	fmt.Println("Typing 'chi'...")
	typeSlowly(gui, "chi", 200*time.Millisecond)
	time.Sleep(time.Second)
	fmt.Printf("Suggestions: %v\n", o.View().Suggestions)

	fmt.Println("Selecting the first suggestion...")
	if err := o.SelectSuggestion(0); err != nil {
		fmt.Printf("Selection failed: %v\n", err)
		return
	}
	time.Sleep(2 * time.Second)

	fmt.Println("Searching for 'cake' with Enter...")
	gui.SearchEntry.SetText("")
	typeSlowly(gui, "cake", 150*time.Millisecond)
	o.Keystroke("cake", core.KeyEnter)
	time.Sleep(2 * time.Second)
	fmt.Printf("Recent searches: %v\n", o.View().Recent.Tags)
}

func stressScript(gui *render.GUI, o *core.Orchestrator) {
	queries := []string{"b", "be", "bee", "beef", "bee", "be", "p", "po", "por", "pork"}
	for round := 0; round < 5; round++ {
		fmt.Printf("=== Round %d ===\n", round+1)
		for _, q := range queries {
			gui.SearchEntry.SetText(q)
			time.Sleep(30 * time.Millisecond)
		}
		o.Keystroke("pork", core.KeyEnter)
		time.Sleep(500 * time.Millisecond)
		o.Search("beef")
		time.Sleep(time.Second)
		o.Wait()
		fmt.Printf("Results shown for: %q, cards: %d\n", o.State().LastSearch, len(o.View().Results.Cards))
	}
	fmt.Println("Stress demo finished")
}

func themeScript(gui *render.GUI, o *core.Orchestrator) {
	o.Search("a")
	for i := 0; i < 6; i++ {
		time.Sleep(time.Second)
		if err := o.ToggleTheme(); err != nil {
			fmt.Printf("Toggle failed: %v\n", err)
			return
		}
		fmt.Printf("Theme: %s\n", o.View().ThemeIcon)
	}
}

// catalog is an offline recipe service with jittered latency and generated
// thumbnails.
type catalog struct {
	recipes []model.Recipe
	latency time.Duration
}

func newCatalog(latency time.Duration) *catalog {
	dishes := []struct{ name, category string }{
		{"Chicken Handi", "Chicken"},
		{"Chicken Congee", "Chicken"},
		{"Chilli prawn linguine", "Pasta"},
		{"Chocolate Gateau", "Dessert"},
		{"Carrot Cake", "Dessert"},
		{"Cake Pops", "Dessert"},
		{"Beef Wellington", "Beef"},
		{"Beef Stroganoff", "Beef"},
		{"Pork Cassoulet", "Pork"},
		{"Apple Frangipan Tart", "Dessert"},
		{"Bakewell tart", ""},
		{"Banana Pancakes", "Dessert"},
	}
	c := &catalog{latency: latency}
	for i, dish := range dishes {
		id := fmt.Sprintf("%d", 52700+i)
		c.recipes = append(c.recipes, model.Recipe{
			ID:        id,
			Name:      dish.name,
			Category:  dish.category,
			Thumbnail: "catalog://" + id + ".png",
		})
	}
	return c
}

func (c *catalog) wait(ctx context.Context) error {
	jitter := time.Duration(rand.Int63n(int64(c.latency) + 1))
	select {
	case <-time.After(c.latency/2 + jitter):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *catalog) LookupByName(ctx context.Context, term string) ([]model.Recipe, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	term = strings.ToLower(term)
	var matches []model.Recipe
	for _, recipe := range c.recipes {
		if strings.Contains(strings.ToLower(recipe.Name), term) {
			matches = append(matches, recipe)
		}
	}
	return matches, nil
}

// FetchImage paints a solid tile whose color is derived from the url.
func (c *catalog) FetchImage(ctx context.Context, imageURL string) ([]byte, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(imageURL))
	sum := h.Sum32()
	fill := color.RGBA{R: uint8(sum >> 16), G: uint8(sum >> 8), B: uint8(sum), A: 0xff}

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(err, "encoding thumbnail")
	}
	return buf.Bytes(), nil
}
