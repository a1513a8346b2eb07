package parser

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/asciislide/internal/doctree"
	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. The Title paragraph style names the
// deck; HeadingN styles open level-N sections; other paragraphs are kept as
// plain text.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read docx: %w", err)
	}
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	b := newTreeBuilder(escapeText(stem(filename)))
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		switch style := docxStyle(para); {
		case isDocxTitle(style):
			b.setTitle(escapeText(text))
		case docxHeadingLevel(style) > 0:
			b.section(docxHeadingLevel(style), escapeText(text))
		default:
			b.add(&doctree.DocNode{Kind: doctree.KindParagraph, Text: text})
		}
	}
	return b.finish(), nil
}

func docxStyle(para *docx.Paragraph) string {
	if para.Properties == nil || para.Properties.Style == nil {
		return ""
	}
	return para.Properties.Style.Val
}

func isDocxTitle(style string) bool {
	return strings.EqualFold(style, "Title")
}

// docxHeadingLevel maps "Heading2" / "heading 2" style names to 2.
func docxHeadingLevel(style string) int {
	name := strings.ToLower(strings.ReplaceAll(style, " ", ""))
	if !strings.HasPrefix(name, "heading") {
		return 0
	}
	level, err := strconv.Atoi(strings.TrimPrefix(name, "heading"))
	if err != nil || level < 1 || level > 6 {
		return 0
	}
	return level
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
