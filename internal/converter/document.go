package converter

import (
	"fmt"
	"html"
	"path"
	"path/filepath"
	"strings"

	"github.com/dgallion1/asciislide/internal/doctree"
	"github.com/microcosm-cc/bluemonday"
)

// Third-party assets loaded by every deck.
const (
	fontAwesomeCSS = "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/4.7.0/css/font-awesome.min.css"
	highlightCSS   = "https://cdnjs.cloudflare.com/ajax/libs/highlight.js/9.13.1/styles/github.min.css"
	highlightJS    = "https://cdnjs.cloudflare.com/ajax/libs/highlight.js/9.13.1/highlight.min.js"
	mathJaxJS      = "https://cdnjs.cloudflare.com/ajax/libs/mathjax/2.7.9/MathJax.js?config=TeX-MML-AM_HTMLorMML"
)

var plainText = bluemonday.StrictPolicy()

// Document renders the full HTML page: head, title slide, then every
// top-level section.
func (c *Converter) Document(doc doctree.Document) string {
	var sections []doctree.Node
	for _, b := range doc.Blocks() {
		if b.Context() == doctree.KindSection {
			sections = append(sections, b)
		}
	}
	assets := AssetsDir(doc)

	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html lang=\"%s\">\n<head>\n", html.EscapeString(attrOr(doc, "lang", "en")))
	b.WriteString("<meta charset=\"UTF-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	if title := plainText.Sanitize(doc.Title()); title != "" {
		fmt.Fprintf(&b, "<title>%s</title>\n", title)
	}
	fmt.Fprintf(&b, "<link rel=\"stylesheet\" href=\"%s\">\n", html.EscapeString(joinRef(assets, "css/asciidoctor.css")))
	fmt.Fprintf(&b, "<link rel=\"stylesheet\" href=\"%s\">\n", html.EscapeString(StylesheetHref(doc)))
	b.WriteString("<link rel=\"preconnect\" href=\"https://fonts.googleapis.com\">\n")
	b.WriteString("<link rel=\"preconnect\" href=\"https://fonts.gstatic.com\" crossorigin>\n")
	fmt.Fprintf(&b, "<link rel=\"stylesheet\" href=\"%s\">\n", fontAwesomeCSS)
	fmt.Fprintf(&b, "<link rel=\"stylesheet\" href=\"%s\">\n", highlightCSS)
	b.WriteString("</head>\n<body>\n")

	b.WriteString(c.TitleSlide(doc))
	b.WriteString("\n")
	for _, s := range c.renderSlides(sections) {
		b.WriteString(s)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "<script src=\"%s\"></script>\n", highlightJS)
	b.WriteString("<script>\nhljs.initHighlightingOnLoad();\n</script>\n")
	fmt.Fprintf(&b, "<script src=\"%s\"></script>\n", mathJaxJS)
	fmt.Fprintf(&b, "<script src=\"%s\"></script>\n", html.EscapeString(joinRef(assets, "js/wasm_exec.js")))
	fmt.Fprintf(&b, "<script>\nconst go = new Go();\nWebAssembly.instantiateStreaming(fetch(%q), go.importObject).then((r) => go.run(r.instance));\n</script>\n",
		joinRef(assets, "js/presentation.wasm"))
	b.WriteString("</body>\n</html>\n")

	c.log.Debug("converted document", "slides", len(sections), "bytes", b.Len())
	return b.String()
}

// TitleSlide renders the synthesized first slide. Metadata paragraphs are
// emitted only for attributes that are set; preamble blocks render between
// the header and the footer.
func (c *Converter) TitleSlide(doc doctree.Document) string {
	classes := []string{"title", "slide"}
	style := ""
	if bg := attrOr(doc, "title-background", ""); bg != "" {
		classes = append(classes, "image")
		style = fmt.Sprintf(` style="%s"`, html.EscapeString(backgroundStyle(doc.ImageURI(bg), "cover")))
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<section class="%s" transition="%s"%s>`, strings.Join(classes, " "),
		html.EscapeString(attrOr(doc, "slide-transition", DefaultTransition)), style)
	b.WriteString("\n")

	if title := doc.Title(); title != "" {
		b.WriteString("  <header>\n")
		if main, sub, ok := partitionTitle(title, docAttrOr(doc, "title-separator", DefaultTitleSeparator)); ok {
			fmt.Fprintf(&b, "    <h1>%s</h1>\n    <h2>%s</h2>\n", main, sub)
		} else {
			fmt.Fprintf(&b, "    <h1>%s</h1>\n", title)
		}
		b.WriteString("  </header>\n")
	}

	for _, blk := range doc.Blocks() {
		if blk.Context() == doctree.KindSection {
			continue
		}
		if s := c.Convert(blk); s != "" {
			b.WriteString("  ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}

	var footer []string
	if author := doc.Author(); author != "" {
		footer = append(footer, metaParagraph("author", author))
	}
	for _, name := range []string{"institute", "collaborators"} {
		if v := attrOr(doc, name, ""); v != "" {
			footer = append(footer, metaParagraph(name, v))
		}
	}
	if v := attrOr(doc, "title-footnote", ""); v != "" {
		footer = append(footer, metaParagraph("footnote", v))
	}
	if len(footer) > 0 {
		b.WriteString("  <footer>\n")
		for _, p := range footer {
			b.WriteString("    ")
			b.WriteString(p)
			b.WriteString("\n")
		}
		b.WriteString("  </footer>\n")
	}

	b.WriteString("</section>")
	return b.String()
}

func metaParagraph(class, text string) string {
	return fmt.Sprintf(`<p class="%s">%s</p>`, class, html.EscapeString(text))
}

// AssetsDir is the directory holding the bundled css/ and js/ assets.
func AssetsDir(doc doctree.Document) string {
	return attrOr(doc, "assetsdir", DefaultAssetsDir)
}

// StylesDir resolves the stylesdir attribute: absolute URLs and absolute
// paths are used verbatim, relative paths resolve against the document's
// base directory, and an unset attribute falls back to the assets dir.
func StylesDir(doc doctree.Document) string {
	dir := attrOr(doc, "stylesdir", "")
	switch {
	case dir == "":
		return AssetsDir(doc)
	case doctree.IsURL(dir), isAbsPath(dir):
		return dir
	default:
		return path.Join(filepath.ToSlash(doc.BaseDir()), filepath.ToSlash(dir))
	}
}

// StylesheetHref is the href of the deck stylesheet.
func StylesheetHref(doc doctree.Document) string {
	sheet := attrOr(doc, "stylesheet", DefaultStylesheet)
	if doctree.IsURL(sheet) || isAbsPath(sheet) {
		return sheet
	}
	return joinRef(StylesDir(doc), sheet)
}

func isAbsPath(p string) bool {
	return filepath.IsAbs(p) || strings.HasPrefix(p, "/")
}

// joinRef appends rel to dir, keeping URL schemes intact.
func joinRef(dir, rel string) string {
	if doctree.IsURL(dir) {
		return strings.TrimSuffix(dir, "/") + "/" + strings.TrimPrefix(rel, "/")
	}
	return path.Join(filepath.ToSlash(dir), rel)
}
