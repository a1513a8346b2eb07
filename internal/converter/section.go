package converter

import (
	"fmt"
	"html"
	"strings"

	"github.com/dgallion1/asciislide/internal/doctree"
)

// Section renders a section. Level-1 sections are slides and get the
// <section> wrapper; deeper sections render as a heading followed by their
// content.
func (c *Converter) Section(n doctree.Node) string {
	if n.Level() != 1 {
		if n.Title() == "" {
			return c.content(n)
		}
		return SectionTitle(n) + "\n" + c.content(n)
	}

	canvas := findCanvas(n)
	classes := append([]string{"slide"}, n.Roles()...)
	if canvas != nil {
		classes = append(classes, "image")
	}
	noTitle := n.Title() == "!"
	if noTitle {
		classes = append(classes, "no-title")
	}
	number, count := Pagination(n)

	var b strings.Builder
	fmt.Fprintf(&b, `<section%s class="%s" transition="%s" data-slide-number="%d" data-slide-count="%d"`,
		idAttr(n), html.EscapeString(strings.Join(classes, " ")), html.EscapeString(Transition(n)), number, count)
	if canvas != nil {
		size := "cover"
		if n.HasRole(RoleContain) {
			size = "contain"
		}
		target, _ := canvas.Attr("target")
		fmt.Fprintf(&b, ` style="%s"`, html.EscapeString(backgroundStyle(imageURI(n, target), size)))
	}
	b.WriteString(">\n")
	if !noTitle && n.Title() != "" {
		b.WriteString(SectionTitle(n))
		b.WriteString("\n")
	}
	if content := c.content(n); content != "" {
		b.WriteString(content)
		b.WriteString("\n")
	}
	b.WriteString("</section>")
	return b.String()
}

// SectionTitle renders the heading of n, split into a title/subtitle pair
// when the title contains the document's title separator. Heading levels
// are offset by the section level.
func SectionTitle(n doctree.Node) string {
	level := n.Level()
	sep := DefaultTitleSeparator
	if n.Document() != nil {
		sep = docAttrOr(n, "title-separator", DefaultTitleSeparator)
	}
	if main, sub, ok := partitionTitle(n.Title(), sep); ok {
		h1, h2 := headingLevel(level+1), headingLevel(level+2)
		return fmt.Sprintf("<header>\n  <h%d>%s</h%d>\n  <h%d>%s</h%d>\n</header>", h1, main, h1, h2, sub, h2)
	}
	h := headingLevel(level + 1)
	return fmt.Sprintf("<h%d>%s</h%d>", h, n.Title(), h)
}

// Transition resolves the slide transition: the section's own transition
// attribute, then the document's slide-transition, then the default.
func Transition(n doctree.Node) string {
	if v := attrOr(n, "transition", ""); v != "" {
		return v
	}
	return docAttrOr(n, "slide-transition", DefaultTransition)
}

// Pagination returns the 1-based page number of a top-level section and the
// deck's page count. Sibling sections with the no-pagination role are not
// counted, and each one preceding n lowers its number by one.
func Pagination(n doctree.Node) (number, count int) {
	parent := n.Parent()
	if parent == nil {
		return 1, 1
	}
	ordinal, skipped := 0, 0
	for _, sib := range parent.Blocks() {
		if sib.Context() != doctree.KindSection {
			continue
		}
		unpaged := sib.HasRole(RoleNoPagination)
		if !unpaged {
			count++
		}
		if number != 0 {
			continue
		}
		ordinal++
		if sib.Index() == n.Index() {
			number = ordinal - skipped
		} else if unpaged {
			skipped++
		}
	}
	if number == 0 {
		number = 1
	}
	return number, count
}

// findCanvas returns the first descendant image with the canvas role.
func findCanvas(n doctree.Node) doctree.Node {
	for _, b := range n.Blocks() {
		if b.Context() == doctree.KindImage && b.HasRole(RoleCanvas) {
			return b
		}
		if found := findCanvas(b); found != nil {
			return found
		}
	}
	return nil
}

func backgroundStyle(uri, size string) string {
	return fmt.Sprintf("background-image: url(%s); background-size: %s; background-repeat: no-repeat", uri, size)
}

// partitionTitle splits title on the first separator outside of markup.
// It reports false when there is no separator or nothing follows it.
func partitionTitle(title, sep string) (main, sub string, ok bool) {
	if sep == "" {
		return "", "", false
	}
	i := indexOutsideTags(title, sep)
	if i < 0 {
		return "", "", false
	}
	main = strings.TrimSpace(title[:i])
	sub = strings.TrimSpace(title[i+len(sep):])
	if sub == "" {
		return "", "", false
	}
	return main, sub, true
}

func indexOutsideTags(s, sep string) int {
	inTag := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '<':
			inTag = true
		case s[i] == '>':
			inTag = false
		case !inTag && strings.HasPrefix(s[i:], sep):
			return i
		}
	}
	return -1
}

func headingLevel(h int) int {
	return min(max(h, 1), 6)
}
