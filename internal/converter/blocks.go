package converter

import (
	"fmt"
	"html"
	"strings"

	"github.com/dgallion1/asciislide/internal/doctree"
)

// Paragraph wraps the paragraph content in <p> with its role classes.
func (c *Converter) Paragraph(n doctree.Node) string {
	return fmt.Sprintf("<p%s>%s</p>", classAttr(n.Roles()), c.content(n))
}

// Open wraps the block content in a <div> carrying the block id and roles.
func (c *Converter) Open(n doctree.Node) string {
	return fmt.Sprintf("<div%s%s>%s</div>", idAttr(n), classAttr(n.Roles()), c.content(n))
}

// Image renders a figure. Canvas images render nothing here; they become
// the background of their slide.
func (c *Converter) Image(n doctree.Node) string {
	if n.HasRole(RoleCanvas) {
		return ""
	}
	target, _ := n.Attr("target")
	classes := append([]string{"image"}, n.Roles()...)

	var b strings.Builder
	fmt.Fprintf(&b, `<figure%s class="%s"><img src="%s"`, idAttr(n),
		html.EscapeString(strings.Join(classes, " ")), html.EscapeString(imageURI(n, target)))
	if alt, ok := n.Attr("alt"); ok {
		fmt.Fprintf(&b, ` alt="%s"`, html.EscapeString(alt))
	}
	for _, name := range []string{"width", "height"} {
		if v := attrOr(n, name, ""); v != "" {
			fmt.Fprintf(&b, ` %s="%s"`, name, html.EscapeString(v))
		}
	}
	b.WriteString("/>")
	if caption := figureCaption(n); caption != "" {
		fmt.Fprintf(&b, "\n<figcaption>%s</figcaption>", caption)
	}
	b.WriteString("</figure>")
	return b.String()
}

// figureCaption prefers the plain-text figcaption attribute over the block
// title.
func figureCaption(n doctree.Node) string {
	if v := attrOr(n, "figcaption", ""); v != "" {
		return html.EscapeString(v)
	}
	return n.Title()
}

func classAttr(roles []string) string {
	if len(roles) == 0 {
		return ""
	}
	return fmt.Sprintf(` class="%s"`, html.EscapeString(strings.Join(roles, " ")))
}

func idAttr(n doctree.Node) string {
	if id := n.ID(); id != "" {
		return fmt.Sprintf(` id="%s"`, html.EscapeString(id))
	}
	return ""
}
