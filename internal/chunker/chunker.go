// Package chunker splits slides whose plain-text body is too long to fit on
// one canvas into consecutive continuation slides.
package chunker

import (
	"fmt"
	"maps"
	"strings"

	"github.com/dgallion1/asciislide/internal/doctree"
)

// Config controls splitting behavior.
type Config struct {
	MaxTokens int // Largest body a slide may carry, in estimated tokens.
	Overlap   int // Tokens repeated when a paragraph is split mid-way.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens: 250,
		Overlap:   0,
	}
}

// SplitSlides replaces every oversized top-level slide in tree with slides
// titled "Title (i/n)". Only slides made entirely of plain-text paragraphs
// are split; host-rendered content is left alone. It returns the number of
// slides added.
func SplitSlides(tree *doctree.DocTree, cfg Config) int {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if cfg.Overlap < 0 {
		cfg.Overlap = 0
	}

	added := 0
	out := make([]*doctree.DocNode, 0, len(tree.Children))
	for _, child := range tree.Children {
		if child.Kind != doctree.KindSection || !splittable(child) || bodyTokens(child) <= cfg.MaxTokens {
			out = append(out, child)
			continue
		}
		parts := splitSlide(child, cfg)
		added += len(parts) - 1
		out = append(out, parts...)
	}
	tree.Children = out
	return added
}

func splittable(slide *doctree.DocNode) bool {
	if len(slide.Children) == 0 {
		return false
	}
	for _, c := range slide.Children {
		if c.Kind != doctree.KindParagraph || c.HTML != "" || len(c.Children) > 0 {
			return false
		}
	}
	return true
}

func bodyTokens(slide *doctree.DocNode) int {
	total := 0
	for _, c := range slide.Children {
		total += EstimateTokens(c.Text)
	}
	return total
}

func splitSlide(slide *doctree.DocNode, cfg Config) []*doctree.DocNode {
	// Break overlong paragraphs on sentence boundaries first.
	var units []*doctree.DocNode
	for _, para := range slide.Children {
		if EstimateTokens(para.Text) <= cfg.MaxTokens {
			units = append(units, para)
			continue
		}
		for _, part := range splitBySentences(para.Text, cfg.MaxTokens, cfg.Overlap) {
			units = append(units, cloneBlock(para, part))
		}
	}

	var groups [][]*doctree.DocNode
	var current []*doctree.DocNode
	currentTokens := 0
	for _, u := range units {
		tokens := EstimateTokens(u.Text)
		if currentTokens+tokens > cfg.MaxTokens && len(current) > 0 {
			groups = append(groups, current)
			current = nil
			currentTokens = 0
		}
		current = append(current, u)
		currentTokens += tokens
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	out := make([]*doctree.DocNode, len(groups))
	for i, g := range groups {
		s := &doctree.DocNode{
			Kind:       slide.Kind,
			ID:         slide.ID,
			Title:      fmt.Sprintf("%s (%d/%d)", slide.Title, i+1, len(groups)),
			Level:      slide.Level,
			Roles:      append([]string(nil), slide.Roles...),
			Attributes: maps.Clone(slide.Attributes),
			Page:       slide.Page,
			Children:   g,
		}
		if i > 0 && s.ID != "" {
			s.ID = fmt.Sprintf("%s-%d", slide.ID, i+1)
		}
		out[i] = s
	}
	return out
}

func cloneBlock(n *doctree.DocNode, text string) *doctree.DocNode {
	return &doctree.DocNode{
		Kind:       n.Kind,
		Roles:      append([]string(nil), n.Roles...),
		Attributes: maps.Clone(n.Attributes),
		Text:       text,
		Page:       n.Page,
	}
}

// splitBySentences breaks a large paragraph into sentence-based parts.
func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	sentences := splitSentences(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range sentences {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}
	return result
}

// splitSentences does basic sentence splitting.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\n') {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// getOverlapText extracts the last N tokens worth of text for overlap.
func getOverlapText(text string, targetTokens int) string {
	words := strings.Fields(text)
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}
