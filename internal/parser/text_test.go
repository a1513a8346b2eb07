package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/asciislide/internal/doctree"
)

func TestTextParser_ParagraphsBecomeSlides(t *testing.T) {
	input := "First slide\nline one.\nline two.\n\nSecond slide\n\nThird & last\nbody"
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", tree.Title)
	}
	slides := tree.Sections()
	if len(slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(slides))
	}

	want := []struct {
		title string
		body  string
	}{
		{"First slide", "line one.\nline two."},
		{"Second slide", ""},
		{"Third &amp; last", "body"},
	}
	for i, w := range want {
		s := slides[i]
		if s.Title != w.title {
			t.Errorf("slide %d: expected title %q, got %q", i, w.title, s.Title)
		}
		if w.body == "" {
			if len(s.Children) != 0 {
				t.Errorf("slide %d: expected no body, got %d blocks", i, len(s.Children))
			}
			continue
		}
		if len(s.Children) != 1 || s.Children[0].Kind != doctree.KindParagraph || s.Children[0].Text != w.body {
			t.Errorf("slide %d: expected body %q, got %+v", i, w.body, s.Children)
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	tree, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", tree.Title)
	}
	if len(tree.Children) != 0 {
		t.Errorf("expected 0 children for empty input, got %d", len(tree.Children))
	}
}

func TestTextParser_BlankLineVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"multiple blank lines", "Para one.\n\n\n\nPara two."},
		{"whitespace-only line", "Para one.\n   \nPara two."},
		{"crlf", "Para one.\r\n\r\nPara two.\r\n"},
	}
	p := &TextParser{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := p.Parse(strings.NewReader(tt.input), "gaps.txt")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			slides := tree.Sections()
			if len(slides) != 2 {
				t.Fatalf("expected 2 slides, got %d", len(slides))
			}
			if slides[1].Title != "Para two." {
				t.Errorf("expected clean title, got %q", slides[1].Title)
			}
		})
	}
}
