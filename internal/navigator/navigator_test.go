package navigator

import (
	"errors"
	"strconv"
	"testing"
)

type fakeElement struct {
	classes map[string]bool
	frags   []*fakeElement
}

func newFakeElement() *fakeElement {
	return &fakeElement{classes: make(map[string]bool)}
}

func (e *fakeElement) AddClass(name string)      { e.classes[name] = true }
func (e *fakeElement) RemoveClass(name string)   { delete(e.classes, name) }
func (e *fakeElement) HasClass(name string) bool { return e.classes[name] }

type fakeDOM struct {
	slides   []*fakeElement
	hash     string
	replaces int
	footer   string
	vw, vh   float64
	cw, ch   float64
	scale    float64
}

// newFakeDOM builds a deck where slide i has fragments[i] fragments.
func newFakeDOM(fragments ...int) *fakeDOM {
	d := &fakeDOM{vw: 1920, vh: 1080}
	for _, n := range fragments {
		s := newFakeElement()
		for range n {
			s.frags = append(s.frags, newFakeElement())
		}
		d.slides = append(d.slides, s)
	}
	return d
}

func (d *fakeDOM) Slides() []Element {
	out := make([]Element, len(d.slides))
	for i, s := range d.slides {
		out[i] = s
	}
	return out
}

func (d *fakeDOM) Fragments(slide Element) []Element {
	s := slide.(*fakeElement)
	out := make([]Element, len(s.frags))
	for i, f := range s.frags {
		out[i] = f
	}
	return out
}

func (d *fakeDOM) SetFooter(text string)          { d.footer = text }
func (d *fakeDOM) Hash() string                   { return d.hash }
func (d *fakeDOM) ReplaceHash(h string)           { d.hash = h; d.replaces++ }
func (d *fakeDOM) Viewport() (float64, float64)   { return d.vw, d.vh }
func (d *fakeDOM) CanvasSize() (float64, float64) { return d.cw, d.ch }
func (d *fakeDOM) SetScale(s float64)             { d.scale = s }

func (d *fakeDOM) visible(slide int) int {
	n := 0
	for _, f := range d.slides[slide].frags {
		if f.HasClass(ClassVisible) {
			n++
		}
	}
	return n
}

// assertInvariants checks exactly one active slide and that the visible
// fragments of the active slide form a prefix of length FragmentIndex.
func assertInvariants(t *testing.T, c *Controller, d *fakeDOM) {
	t.Helper()
	active := 0
	for i, s := range d.slides {
		if s.HasClass(ClassActive) {
			active++
			if i != c.CurrentIndex() {
				t.Errorf("slide %d active but current index is %d", i, c.CurrentIndex())
			}
		}
	}
	if active != 1 {
		t.Errorf("expected exactly one active slide, got %d", active)
	}
	for i, f := range d.slides[c.CurrentIndex()].frags {
		want := i < c.FragmentIndex()
		if f.HasClass(ClassVisible) != want {
			t.Errorf("fragment %d: visible=%v, want %v (fragment index %d)", i, !want, want, c.FragmentIndex())
		}
	}
}

func mustNew(t *testing.T, d *fakeDOM) *Controller {
	t.Helper()
	c, err := New(d, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestNew_NoSlides(t *testing.T) {
	d := newFakeDOM()
	c, err := New(d, nil)
	if !errors.Is(err, ErrNoSlides) {
		t.Fatalf("expected ErrNoSlides, got %v", err)
	}
	if c != nil {
		t.Errorf("expected nil controller")
	}
	if d.footer != "" || d.replaces != 0 {
		t.Errorf("page must stay untouched, footer=%q replaces=%d", d.footer, d.replaces)
	}
}

func TestNew_InitialIndexFromHash(t *testing.T) {
	tests := []struct {
		hash string
		want int
	}{
		{"", 0},
		{"2", 2},
		{"#2", 2},
		{"3-intro", 3},
		{"9", 0},
		{"-1", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		d := newFakeDOM(0, 0, 0, 0, 0)
		d.hash = tt.hash
		c := mustNew(t, d)
		if c.CurrentIndex() != tt.want {
			t.Errorf("hash %q: expected index %d, got %d", tt.hash, tt.want, c.CurrentIndex())
		}
		if d.hash != strconv.Itoa(tt.want) {
			t.Errorf("hash %q: expected hash rewritten to %q, got %q", tt.hash, strconv.Itoa(tt.want), d.hash)
		}
		if c.FragmentIndex() != 0 {
			t.Errorf("fragments must not be pre-revealed")
		}
		assertInvariants(t, c, d)
	}
}

func TestNew_FooterAndScale(t *testing.T) {
	d := newFakeDOM(0, 0, 0)
	mustNew(t, d)
	if d.footer != "1 / 3" {
		t.Errorf("expected footer %q, got %q", "1 / 3", d.footer)
	}
	if d.scale != 1.0 {
		t.Errorf("expected scale capped at 1, got %v", d.scale)
	}
}

func TestNext_NoOpAtEnd(t *testing.T) {
	d := newFakeDOM(0, 0, 0, 0, 0)
	d.hash = "4"
	c := mustNew(t, d)
	replaces := d.replaces
	for range 4 {
		c.Next()
	}
	if c.CurrentIndex() != 4 || c.FragmentIndex() != 0 {
		t.Errorf("expected (4, 0), got (%d, %d)", c.CurrentIndex(), c.FragmentIndex())
	}
	if d.replaces != replaces {
		t.Errorf("no-op must not rewrite the hash")
	}
	assertInvariants(t, c, d)
}

func TestPrev_NoOpAtStart(t *testing.T) {
	d := newFakeDOM(2, 0)
	c := mustNew(t, d)
	c.Prev()
	c.Prev()
	if c.CurrentIndex() != 0 || c.FragmentIndex() != 0 {
		t.Errorf("expected (0, 0), got (%d, %d)", c.CurrentIndex(), c.FragmentIndex())
	}
	assertInvariants(t, c, d)
}

func TestNext_RevealsFragmentsBeforeAdvancing(t *testing.T) {
	d := newFakeDOM(3, 0)
	c := mustNew(t, d)

	for i := 1; i <= 3; i++ {
		c.Next()
		if c.CurrentIndex() != 0 {
			t.Fatalf("step %d: advanced slide too early", i)
		}
		if c.FragmentIndex() != i || d.visible(0) != i {
			t.Errorf("step %d: expected %d fragments revealed, got index %d visible %d", i, i, c.FragmentIndex(), d.visible(0))
		}
		assertInvariants(t, c, d)
	}

	c.Next()
	if c.CurrentIndex() != 1 || c.FragmentIndex() != 0 {
		t.Errorf("expected (1, 0) after fourth next, got (%d, %d)", c.CurrentIndex(), c.FragmentIndex())
	}
	if d.visible(0) != 0 {
		t.Errorf("leaving a slide must clear its fragment markers")
	}
	if d.hash != "1" || d.footer != "2 / 2" {
		t.Errorf("expected hash 1 and footer 2 / 2, got %q %q", d.hash, d.footer)
	}
	assertInvariants(t, c, d)
}

func TestPrev_RestoresFullyRevealedSlide(t *testing.T) {
	d := newFakeDOM(0, 2, 0, 0)
	d.hash = "2"
	c := mustNew(t, d)

	c.Prev()
	if c.CurrentIndex() != 1 {
		t.Fatalf("expected slide 1, got %d", c.CurrentIndex())
	}
	if c.FragmentIndex() != 2 || d.visible(1) != 2 {
		t.Errorf("expected all fragments of slide 1 visible, got index %d visible %d", c.FragmentIndex(), d.visible(1))
	}
	assertInvariants(t, c, d)

	c.Prev()
	if c.CurrentIndex() != 1 || c.FragmentIndex() != 1 || d.visible(1) != 1 {
		t.Errorf("expected last fragment hidden, got (%d, %d) visible %d", c.CurrentIndex(), c.FragmentIndex(), d.visible(1))
	}
	assertInvariants(t, c, d)
}

func TestGo_RoundTrip(t *testing.T) {
	d := newFakeDOM(1, 1, 1, 1, 1)
	c := mustNew(t, d)
	c.Next() // reveal a fragment on slide 0

	for n := range 5 {
		c.Go(n)
		if c.CurrentIndex() != n {
			t.Errorf("Go(%d): current index %d", n, c.CurrentIndex())
		}
		if d.hash != strconv.Itoa(n) {
			t.Errorf("Go(%d): hash %q", n, d.hash)
		}
		if c.FragmentIndex() != 0 {
			t.Errorf("Go(%d): fragments must reset", n)
		}
		assertInvariants(t, c, d)
	}
}

func TestGo_Clamps(t *testing.T) {
	d := newFakeDOM(0, 0, 0)
	c := mustNew(t, d)
	c.Go(99)
	if c.CurrentIndex() != 2 {
		t.Errorf("expected clamp to 2, got %d", c.CurrentIndex())
	}
	c.Go(-5)
	if c.CurrentIndex() != 0 {
		t.Errorf("expected clamp to 0, got %d", c.CurrentIndex())
	}
}

func TestGoTo(t *testing.T) {
	tests := []struct {
		ref  string
		ok   bool
		want int
	}{
		{"2", true, 2},
		{"#1", true, 1},
		{"3.9", true, 3},
		{"99", true, 4},
		{"NaN", false, 0},
		{"", false, 0},
		{"undefined", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			d := newFakeDOM(0, 0, 0, 0, 0)
			c := mustNew(t, d)
			if got := c.GoTo(tt.ref); got != tt.ok {
				t.Errorf("GoTo(%q) = %v, want %v", tt.ref, got, tt.ok)
			}
			if c.CurrentIndex() != tt.want {
				t.Errorf("GoTo(%q): current index %d, want %d", tt.ref, c.CurrentIndex(), tt.want)
			}
			assertInvariants(t, c, d)
		})
	}
}

func TestHashChanged(t *testing.T) {
	d := newFakeDOM(0, 0, 0, 0)
	c := mustNew(t, d)
	replaces := d.replaces

	d.hash = "3"
	c.HashChanged()
	if c.CurrentIndex() != 3 {
		t.Errorf("expected jump to 3, got %d", c.CurrentIndex())
	}
	if d.replaces != replaces {
		t.Errorf("hash-originated jump must not rewrite the hash")
	}
	if d.footer != "4 / 4" {
		t.Errorf("expected footer updated, got %q", d.footer)
	}

	d.hash = "42"
	c.HashChanged()
	if c.CurrentIndex() != 3 {
		t.Errorf("expected clamp to last slide, got %d", c.CurrentIndex())
	}

	d.hash = "nope"
	c.HashChanged()
	if c.CurrentIndex() != 3 {
		t.Errorf("unparseable hash must be ignored")
	}
	assertInvariants(t, c, d)
}

func TestHandleKey(t *testing.T) {
	d := newFakeDOM(1, 0, 0)
	c := mustNew(t, d)

	steps := []struct {
		key      string
		consumed bool
		idx      int
		frag     int
	}{
		{"ArrowRight", true, 0, 1},
		{"PageDown", true, 1, 0},
		{"End", true, 2, 0},
		{"PageUp", true, 1, 0},
		{"ArrowLeft", true, 0, 1},
		{"x", false, 0, 1},
		{"End", true, 2, 0},
		{"Home", true, 0, 0},
	}
	for i, s := range steps {
		if got := c.HandleKey(s.key); got != s.consumed {
			t.Errorf("step %d (%s): consumed=%v, want %v", i, s.key, got, s.consumed)
		}
		if c.CurrentIndex() != s.idx || c.FragmentIndex() != s.frag {
			t.Errorf("step %d (%s): expected (%d, %d), got (%d, %d)", i, s.key, s.idx, s.frag, c.CurrentIndex(), c.FragmentIndex())
		}
		assertInvariants(t, c, d)
	}
}

func TestClick(t *testing.T) {
	d := newFakeDOM(0, 0)
	c := mustNew(t, d)
	c.Click(true)
	if c.CurrentIndex() != 0 {
		t.Errorf("click on interactive element must not advance")
	}
	c.Click(false)
	if c.CurrentIndex() != 1 {
		t.Errorf("click on canvas must advance")
	}
}

func TestTouch(t *testing.T) {
	d := newFakeDOM(0, 0, 0)
	c := mustNew(t, d)

	c.TouchStart(300)
	c.TouchEnd(270) // 30px: below threshold
	if c.CurrentIndex() != 0 {
		t.Errorf("short swipe must be ignored")
	}

	c.TouchStart(300)
	c.TouchEnd(200)
	if c.CurrentIndex() != 1 {
		t.Errorf("leftward swipe must advance, got %d", c.CurrentIndex())
	}

	c.TouchStart(100)
	c.TouchEnd(250)
	if c.CurrentIndex() != 0 {
		t.Errorf("rightward swipe must go back, got %d", c.CurrentIndex())
	}

	c.TouchEnd(0) // no matching start
	if c.CurrentIndex() != 0 {
		t.Errorf("touchend without touchstart must be ignored")
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		name           string
		vw, vh, cw, ch float64
		want           float64
	}{
		{"large viewport caps at 1", 3840, 2160, 1280, 720, 1},
		{"width bound", 1000, 1000, 1280, 720, (1000 - 80) / 1280.0},
		{"height bound", 1920, 600, 1280, 720, (600 - 48) / 720.0},
		{"fallback canvas size", 1000, 1000, 0, 0, (1000 - 80) / 1280.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newFakeDOM(0)
			d.vw, d.vh, d.cw, d.ch = tt.vw, tt.vh, tt.cw, tt.ch
			c := mustNew(t, d)
			got := c.Fit()
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected scale %v, got %v", tt.want, got)
			}
			if d.scale != got {
				t.Errorf("expected scale applied to canvas")
			}
		})
	}
}
