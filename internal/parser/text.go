package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/asciislide/internal/doctree"
)

// TextParser handles plain text files. Each blank-line separated paragraph
// becomes a slide titled by its first line.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	b := newTreeBuilder(escapeText(stem(filename)))
	for _, para := range splitParagraphs(strings.Join(lines, "\n")) {
		title, body, _ := strings.Cut(para, "\n")
		b.section(1, escapeText(strings.TrimSpace(title)))
		if body = strings.TrimSpace(body); body != "" {
			b.add(&doctree.DocNode{Kind: doctree.KindParagraph, Text: body})
		}
	}
	return b.finish(), nil
}

// splitParagraphs splits on blank lines, dropping empty paragraphs.
func splitParagraphs(s string) []string {
	var out []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			out = append(out, strings.Join(current, "\n"))
			current = current[:0]
		}
	}
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimRight(line, " \t\r"))
	}
	flush()
	return out
}
