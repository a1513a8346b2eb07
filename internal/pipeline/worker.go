package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/asciislide/internal/chunker"
	"github.com/dgallion1/asciislide/internal/converter"
	"github.com/dgallion1/asciislide/internal/parser"
)

// Worker renders a single deck job.
type Worker struct {
	jobs       *JobStore
	conv       *converter.Converter
	stats      *RenderStats
	log        *slog.Logger
	splitCfg   chunker.Config
	parserOpts parser.Options
	assetsURL  string
}

// WorkerConfig carries the per-deck render settings.
type WorkerConfig struct {
	Split      chunker.Config // MaxTokens 0 disables splitting
	Parser     parser.Options
	AssetsURL  string // default assetsdir for rendered decks
	RenderPool int    // converter fan-out
}

func NewWorker(jobs *JobStore, stats *RenderStats, log *slog.Logger, cfg WorkerConfig) *Worker {
	return &Worker{
		jobs:       jobs,
		conv:       converter.New(converter.WithLogger(log), converter.WithWorkers(cfg.RenderPool)),
		stats:      stats,
		log:        log,
		splitCfg:   cfg.Split,
		parserOpts: cfg.Parser,
		assetsURL:  cfg.AssetsURL,
	}
}

// Process runs parse, split and render for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	start := time.Now()

	// Identical uploads reuse the finished deck.
	if prev := w.jobs.FindCompleted(job.ContentHash, job.ID); prev != nil {
		snap := prev.Snapshot()
		job.SetResult(prev.HTML(), snap.Progress.Slides, snap.Progress.SlidesAdded)
		job.SetStatus(StatusCompleted, PhaseDedup)
		log.Info("duplicate upload, reusing deck", "existing_job_id", snap.ID)
		return
	}

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parserOpts)
	if err != nil {
		w.fail(log, job, "parsing", err)
		return
	}
	tree, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		w.fail(log, job, "parsing", fmt.Errorf("parse: %w", err))
		return
	}
	if job.Title != "" {
		tree.Title = html.EscapeString(job.Title)
	}
	if w.assetsURL != "" {
		tree.SetAttr("assetsdir", w.assetsURL)
	}
	for k, v := range job.Attributes {
		tree.SetAttr(k, v)
	}
	if err := ctx.Err(); err != nil {
		w.fail(log, job, "parsing", err)
		return
	}

	// Phase 2: Split overlong slides
	job.SetStatus(StatusSplitting, "splitting")
	added := 0
	if w.splitCfg.MaxTokens > 0 {
		added = chunker.SplitSlides(tree, w.splitCfg)
	}
	slides := len(tree.Sections())
	log.Info("parsed deck", "slides", slides, "slides_added", added)

	// Phase 3: Render
	job.SetStatus(StatusRendering, "rendering")
	deck := w.conv.Document(tree.View())
	if err := ctx.Err(); err != nil {
		w.fail(log, job, "rendering", err)
		return
	}

	elapsed := time.Since(start)
	w.stats.Record(elapsed)
	job.SetResult(deck, slides, added)
	job.SetStatus(StatusCompleted, "done")
	log.Info("rendered deck", "bytes", len(deck), "duration_ms", elapsed.Milliseconds())
}

func (w *Worker) fail(log *slog.Logger, job *Job, phase string, err error) {
	log.Error("render failed", "phase", phase, "error", err)
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}

func extOf(filename string) string {
	return strings.ToLower(filepath.Ext(filename))
}
