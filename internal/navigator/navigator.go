// Package navigator implements the slide/fragment state machine behind a
// rendered deck. It owns the (slide, fragment) cursor and keeps the DOM's
// active/visible markers, page counter and URL hash consistent with it.
package navigator

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ErrNoSlides is returned by New when the page has no slide elements.
var ErrNoSlides = errors.New("navigator: no slides found")

// Controller is the navigation state for one page load. It is not safe for
// concurrent use; browsers dispatch events one at a time.
type Controller struct {
	dom    DOM
	log    *slog.Logger
	slides []Element

	idx  int // current slide
	frag int // revealed fragments on the current slide

	touchX   float64
	touching bool
}

// New resolves the slides, restores the slide named by the URL hash and
// activates it. It fails with ErrNoSlides, leaving the page untouched, when
// there is nothing to navigate.
func New(dom DOM, log *slog.Logger) (*Controller, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	slides := dom.Slides()
	if len(slides) == 0 {
		log.Warn("presentation: no slides found")
		return nil, ErrNoSlides
	}

	c := &Controller{dom: dom, log: log, slides: slides}
	if i, ok := parseHash(dom.Hash()); ok && i >= 0 && i < len(slides) {
		c.idx = i
	}
	c.Fit()
	c.setActive(c.idx, false)
	log.Debug("presentation ready", "slides", len(slides), "index", c.idx)
	return c, nil
}

// Slides returns the resolved slide list.
func (c *Controller) Slides() []Element { return c.slides }

// CurrentIndex is the zero-based index of the active slide.
func (c *Controller) CurrentIndex() int { return c.idx }

// FragmentIndex is the number of revealed fragments on the active slide.
func (c *Controller) FragmentIndex() int { return c.frag }

// Next reveals the next fragment of the active slide, or moves to the next
// slide once all fragments are shown. It is a no-op at the very end.
func (c *Controller) Next() {
	frags := c.fragments()
	if c.frag < len(frags) {
		frags[c.frag].AddClass(ClassVisible)
		c.frag++
		return
	}
	if c.idx < len(c.slides)-1 {
		c.setActive(c.idx+1, false)
	}
}

// Prev hides the most recently revealed fragment, or moves to the previous
// slide with all of its fragments revealed. It is a no-op at the very start.
func (c *Controller) Prev() {
	frags := c.fragments()
	if c.frag > 0 {
		c.frag--
		frags[c.frag].RemoveClass(ClassVisible)
		return
	}
	if c.idx > 0 {
		c.setActive(c.idx-1, false)
		frags := c.fragments()
		for _, f := range frags {
			f.AddClass(ClassVisible)
		}
		c.frag = len(frags)
	}
}

// Go jumps to slide n, clamped to the deck, with no fragments revealed.
func (c *Controller) Go(n int) {
	c.setActive(n, false)
}

// GoTo jumps to the slide named by ref, read like a URL hash ("2", "#2",
// "2.5"). Refs without a leading integer are ignored and GoTo reports false.
func (c *Controller) GoTo(ref string) bool {
	i, ok := parseHash(ref)
	if !ok {
		return false
	}
	c.Go(i)
	return true
}

// HashChanged follows an externally edited URL hash. The hash is not written
// back, so the page does not loop on its own hashchange events.
func (c *Controller) HashChanged() {
	i, ok := parseHash(c.dom.Hash())
	if !ok || i == c.idx {
		return
	}
	c.setActive(i, true)
}

func (c *Controller) setActive(i int, fromHash bool) {
	i = clamp(i, 0, len(c.slides)-1)
	for _, s := range c.slides {
		s.RemoveClass(ClassActive)
		for _, f := range c.dom.Fragments(s) {
			f.RemoveClass(ClassVisible)
		}
	}
	c.slides[i].AddClass(ClassActive)
	c.idx = i
	c.frag = 0
	if !fromHash {
		c.dom.ReplaceHash(strconv.Itoa(i))
	}
	c.dom.SetFooter(fmt.Sprintf("%d / %d", i+1, len(c.slides)))
}

func (c *Controller) fragments() []Element {
	return c.dom.Fragments(c.slides[c.idx])
}

// parseHash reads a leading integer from a URL fragment, the way the
// browser's parseInt does ("3", "#3", "3-intro").
func parseHash(h string) (int, bool) {
	h = strings.TrimSpace(strings.TrimPrefix(h, "#"))
	end := 0
	if end < len(h) && (h[end] == '-' || h[end] == '+') {
		end++
	}
	digits := end
	for end < len(h) && h[end] >= '0' && h[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	v, err := strconv.Atoi(h[:end])
	if err != nil {
		return 0, false
	}
	return v, true
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
