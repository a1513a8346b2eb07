// Package converter renders a parsed document tree into an HTML slide deck.
//
// Every top-level section becomes a <section class="slide"> element carrying
// pagination and transition data for the navigator; nested sections and
// blocks render inline. Rendering never fails: missing attributes fall back
// to defaults and unknown block kinds emit their host-rendered content.
package converter

import (
	"log/slog"
	"strings"

	"github.com/dgallion1/asciislide/internal/doctree"
	"golang.org/x/sync/errgroup"
)

// Roles with converter-level meaning.
const (
	RoleCanvas       = "canvas"
	RoleContain      = "contain"
	RoleNoPagination = "no-pagination"
)

// Attribute defaults.
const (
	DefaultAssetsDir      = "../../assets"
	DefaultStylesheet     = "css/slides.css"
	DefaultTransition     = "zoom"
	DefaultTitleSeparator = ":"
)

// Converter maps document nodes to HTML.
type Converter struct {
	log     *slog.Logger
	workers int
}

// Option configures a Converter.
type Option func(*Converter)

// WithLogger sets the logger used for render diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(c *Converter) {
		if log != nil {
			c.log = log
		}
	}
}

// WithWorkers bounds how many top-level slides render concurrently.
func WithWorkers(n int) Option {
	return func(c *Converter) {
		if n > 0 {
			c.workers = n
		}
	}
}

// New creates a Converter.
func New(opts ...Option) *Converter {
	c := &Converter{
		log:     slog.New(slog.DiscardHandler),
		workers: 1,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Convert dispatches on the node's context.
func (c *Converter) Convert(n doctree.Node) string {
	switch n.Context() {
	case doctree.KindDocument:
		return c.Document(n.Document())
	case doctree.KindSection:
		return c.Section(n)
	case doctree.KindParagraph:
		return c.Paragraph(n)
	case doctree.KindOpen:
		return c.Open(n)
	case doctree.KindImage:
		return c.Image(n)
	default:
		return c.content(n)
	}
}

// content is the inner HTML of n: its converted child blocks, or the
// host-supplied content for leaf nodes.
func (c *Converter) content(n doctree.Node) string {
	blocks := n.Blocks()
	if len(blocks) == 0 {
		return n.Content()
	}
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if s := c.Convert(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// renderSlides converts top-level sections, possibly in parallel. Output
// order matches input order.
func (c *Converter) renderSlides(sections []doctree.Node) []string {
	out := make([]string, len(sections))
	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, s := range sections {
		g.Go(func() error {
			out[i] = c.Section(s)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// attrOr returns the attribute value, or fallback when unset or empty.
func attrOr(n doctree.Node, name, fallback string) string {
	if n == nil {
		return fallback
	}
	if v, ok := n.Attr(name); ok && v != "" {
		return v
	}
	return fallback
}

// docAttrOr reads a document attribute through any node.
func docAttrOr(n doctree.Node, name, fallback string) string {
	doc := n.Document()
	if doc == nil {
		return fallback
	}
	return attrOr(doc, name, fallback)
}

func imageURI(n doctree.Node, target string) string {
	if doc := n.Document(); doc != nil {
		return doc.ImageURI(target)
	}
	return target
}
