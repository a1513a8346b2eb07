package navigator

import "math"

// SwipeThreshold is the horizontal distance, in pixels, a touch must travel
// to count as a swipe.
const SwipeThreshold = 40

// Canvas size assumed when the page reports none.
const (
	fallbackCanvasWidth  = 1280
	fallbackCanvasHeight = 720
)

// HandleKey applies a keyboard binding. It reports whether the key was
// consumed, in which case the caller should prevent the default action.
func (c *Controller) HandleKey(key string) bool {
	switch key {
	case "ArrowRight", "PageDown":
		c.Next()
	case "ArrowLeft", "PageUp":
		c.Prev()
	case "Home":
		c.Go(0)
	case "End":
		c.Go(len(c.slides) - 1)
	default:
		return false
	}
	return true
}

// Click advances the deck unless the click landed on an interactive element
// (see InteractiveSelector).
func (c *Controller) Click(onInteractive bool) {
	if onInteractive {
		return
	}
	c.Next()
}

// TouchStart records where a touch began.
func (c *Controller) TouchStart(x float64) {
	c.touchX = x
	c.touching = true
}

// TouchEnd completes a touch: a leftward swipe advances, a rightward swipe
// goes back. Shorter movements are ignored.
func (c *Controller) TouchEnd(x float64) {
	if !c.touching {
		return
	}
	c.touching = false
	dx := x - c.touchX
	if math.Abs(dx) <= SwipeThreshold {
		return
	}
	if dx < 0 {
		c.Next()
	} else {
		c.Prev()
	}
}

// Fit scales the canvas to the viewport, keeping its aspect ratio and a
// small margin. The canvas is never scaled above 1. Fit returns the scale
// applied.
func (c *Controller) Fit() float64 {
	vw, vh := c.dom.Viewport()
	margin := math.Min(48, math.Round(math.Min(vw, vh)*0.04))
	availW := vw - margin*2
	availH := vh - margin*2

	w, h := c.dom.CanvasSize()
	if w <= 0 {
		w = fallbackCanvasWidth
	}
	if h <= 0 {
		h = fallbackCanvasHeight
	}
	scale := math.Min(math.Min(availW/w, availH/h), 1.0)
	if scale < 0 {
		scale = 0
	}
	c.dom.SetScale(scale)
	return scale
}
