package htmldom

import (
	"bytes"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/dgallion1/asciislide/internal/navigator"
)

// Snapshot returns deck with slide n active and all of its fragments
// revealed, as the navigator would leave it after stepping through that
// slide. Out-of-range slides fall back to the first one.
func Snapshot(deck string, n int, log *slog.Logger) (string, error) {
	page, err := Parse(strings.NewReader(deck))
	if err != nil {
		return "", err
	}
	page.SetHash(strconv.Itoa(n))

	ctrl, err := navigator.New(page, log)
	if err != nil {
		return "", fmt.Errorf("snapshot: %w", err)
	}
	slide := ctrl.Slides()[ctrl.CurrentIndex()]
	for range page.Fragments(slide) {
		ctrl.Next()
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		return "", fmt.Errorf("render snapshot: %w", err)
	}
	return buf.String(), nil
}
