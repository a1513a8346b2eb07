package navigator

// Class names and selectors shared with the deck stylesheet.
const (
	ClassActive  = "active"
	ClassVisible = "visible"

	StageClass    = "presentation-stage"
	CanvasClass   = "presentation-canvas"
	FooterClass   = "presentation-footer"
	SlidesClass   = "slides"
	SlideSelector = "section.slide"
	FragmentClass = "fragment"

	// InteractiveSelector matches click targets that must not advance the deck.
	InteractiveSelector = "a, button, input, select, textarea"
)

// Element is a DOM element whose class list the controller toggles.
type Element interface {
	AddClass(name string)
	RemoveClass(name string)
	HasClass(name string) bool
}

// DOM is the page the controller drives. Implementations resolve (or create)
// the stage and canvas containers before Slides is first called.
type DOM interface {
	// Slides returns the section.slide elements inside the canvas, in
	// document order.
	Slides() []Element
	// Fragments returns the .fragment descendants of slide, in document order.
	Fragments(slide Element) []Element
	// SetFooter writes text into the page counter, creating it if needed.
	SetFooter(text string)
	// Hash returns the URL fragment without the leading '#'.
	Hash() string
	// ReplaceHash rewrites the URL fragment without adding a history entry.
	ReplaceHash(hash string)
	// Viewport returns the window's inner size in CSS pixels.
	Viewport() (width, height float64)
	// CanvasSize returns the canvas' computed size, or zeros when unknown.
	CanvasSize() (width, height float64)
	// SetScale applies a uniform scale transform to the canvas.
	SetScale(scale float64)
}
