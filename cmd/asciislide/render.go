package main

import (
	"fmt"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/asciislide/internal/chunker"
	"github.com/dgallion1/asciislide/internal/converter"
	"github.com/dgallion1/asciislide/internal/doctree"
	"github.com/dgallion1/asciislide/internal/parser"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	output    string
	attrs     []string
	title     string
	baseDir   string
	maxTokens int
	overlap   int
	workers   int
	pdftotext bool
}

func newRenderCmd() *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "render a document into an HTML slide deck",
		Long: `Render FILE (Markdown, HTML, DOCX, PDF, text or CSV) into a single HTML
page. Level-1 sections become slides; document attributes given with -a
override those set in the source.`,
		Args: cobra.ExactArgs(1),
		Example: `  asciislide render talk.md -o talk.html
  asciislide render talk.md -a slide-transition=fade -a stylesheet=theme.css`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, err := renderFile(args[0], opts, logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, deck)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringArrayVarP(&opts.attrs, "attribute", "a", nil, "document attribute as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.title, "title", "", "override the document title")
	cmd.Flags().StringVar(&opts.baseDir, "base-dir", "", "directory relative references resolve against (default: the input's directory)")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "split plain-text slides longer than this many tokens (0 disables)")
	cmd.Flags().IntVar(&opts.overlap, "overlap", 0, "tokens of a split paragraph repeated at the top of the next slide")
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "slides rendered concurrently")
	cmd.Flags().BoolVar(&opts.pdftotext, "pdftotext", true, "fall back to pdftotext for PDFs the built-in reader cannot handle")

	return cmd
}

func renderFile(path string, opts renderOptions, log *slog.Logger) (string, error) {
	p, err := parser.ForFile(path, parser.Options{PDFFallbackPdftotext: opts.pdftotext})
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	tree, err := p.Parse(f, filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	if err := applyRenderOptions(tree, path, opts); err != nil {
		return "", err
	}

	if opts.maxTokens > 0 {
		if added := chunker.SplitSlides(tree, chunker.Config{MaxTokens: opts.maxTokens, Overlap: opts.overlap}); added > 0 {
			log.Info("split long slides", "slides_added", added)
		}
	}

	conv := converter.New(converter.WithLogger(log), converter.WithWorkers(opts.workers))
	return conv.Document(tree.View()), nil
}

func applyRenderOptions(tree *doctree.DocTree, path string, opts renderOptions) error {
	tree.BaseDir = opts.baseDir
	if tree.BaseDir == "" {
		tree.BaseDir = filepath.Dir(path)
	}
	if opts.title != "" {
		tree.Title = html.EscapeString(opts.title)
	}
	for _, a := range opts.attrs {
		k, v, _ := strings.Cut(a, "=")
		if k = strings.TrimSpace(k); k == "" {
			return fmt.Errorf("invalid attribute %q: want key=value", a)
		}
		tree.SetAttr(k, strings.TrimSpace(v))
	}
	return nil
}
