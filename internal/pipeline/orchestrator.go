package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/asciislide/internal/chunker"
	"github.com/dgallion1/asciislide/internal/config"
	"github.com/dgallion1/asciislide/internal/parser"
)

// Orchestrator manages the deck render pipeline.
type Orchestrator struct {
	jobs      *JobStore
	stats     *RenderStats
	queue     chan *Job
	log       *slog.Logger
	cfg       config.Config
	workerCfg WorkerConfig

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the pipeline; call Start to run workers.
func NewOrchestrator(cfg config.Config, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		stats: NewRenderStats(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		log:   log,
		cfg:   cfg,
		workerCfg: WorkerConfig{
			Split:      chunker.Config{MaxTokens: cfg.MaxSlideTokens, Overlap: cfg.SlideOverlap},
			Parser:     parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext},
			AssetsURL:  cfg.DeckAssetsURL,
			RenderPool: cfg.RenderWorkers,
		},
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range max(o.cfg.WorkerCount, 1) {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.jobs, o.stats, o.log, o.workerCfg)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// DeleteJob drops a job and its deck.
func (o *Orchestrator) DeleteJob(id string) bool {
	return o.jobs.Delete(id)
}

// ListJobs returns every known job, oldest first.
func (o *Orchestrator) ListJobs() []JobSnapshot {
	return o.jobs.List()
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Stats is the pipeline summary served by the stats endpoint.
type Stats struct {
	QueueDepth int               `json:"queue_depth"`
	Workers    int               `json:"workers"`
	Jobs       map[JobStatus]int `json:"jobs"`
	Render     LatencySnapshot   `json:"render"`
}

func (o *Orchestrator) Stats() Stats {
	return Stats{
		QueueDepth: o.QueueDepth(),
		Workers:    max(o.cfg.WorkerCount, 1),
		Jobs:       o.jobs.Counts(),
		Render:     o.stats.Snapshot(),
	}
}
