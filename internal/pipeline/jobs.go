package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"
)

// JobStatus represents the state of a render job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusSplitting JobStatus = "splitting"
	StatusRendering JobStatus = "rendering"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// PhaseDedup marks a completed job whose deck was reused from an identical
// earlier upload.
const PhaseDedup = "dedup"

// Job tracks the state of a single deck render.
type Job struct {
	mu sync.Mutex

	ID         string            `json:"job_id"`
	Status     JobStatus         `json:"status"`
	Phase      string            `json:"phase"`
	Filename   string            `json:"filename"`
	Title      string            `json:"title"`
	Attributes map[string]string `json:"attributes,omitempty"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	html     string
	errors   []string
}

// Progress describes the rendered deck.
type Progress struct {
	Slides      int      `json:"slides"`
	SlidesAdded int      `json:"slides_added"`
	HTMLBytes   int      `json:"html_bytes"`
	Errors      []string `json:"errors"`
}

// NewJob creates a queued job for data. The content hash covers the bytes,
// the filename extension, the title override and every attribute, so equal
// hashes render to equal decks.
func NewJob(filename, title string, attrs map[string]string, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:          generateULID(),
		Status:      StatusQueued,
		Phase:       "queued",
		Filename:    filename,
		Title:       title,
		Attributes:  attrs,
		ContentHash: RenderHash(data, filename, title, attrs),
		CreatedAt:   now,
		UpdatedAt:   now,
		fileData:    data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Delete removes a job, reporting whether it existed.
func (s *JobStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return false
	}
	delete(s.jobs, id)
	return true
}

// List returns snapshots of every job, oldest first.
func (s *JobStore) List() []JobSnapshot {
	s.mu.Lock()
	jobs := slices.Collect(maps.Values(s.jobs))
	s.mu.Unlock()

	out := make([]JobSnapshot, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, j.Snapshot())
	}
	// ULIDs sort by creation time.
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

// FindCompleted returns a completed job other than exclude with the given
// content hash, or nil.
func (s *JobStore) FindCompleted(hash, exclude string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		if id == exclude {
			continue
		}
		job.mu.Lock()
		match := job.ContentHash == hash && job.Status == StatusCompleted
		job.mu.Unlock()
		if match {
			return job
		}
	}
	return nil
}

// Counts tallies jobs by status.
func (s *JobStore) Counts() map[JobStatus]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[JobStatus]int)
	for _, job := range s.jobs {
		job.mu.Lock()
		counts[job.Status]++
		job.mu.Unlock()
	}
	return counts
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetResult stores the rendered deck and releases the upload.
func (j *Job) SetResult(html string, slides, added int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.html = html
	j.fileData = nil
	j.Progress.Slides = slides
	j.Progress.SlidesAdded = added
	j.Progress.HTMLBytes = len(html)
	j.UpdatedAt = time.Now()
}

// HTML returns the rendered deck, empty until the job completes.
func (j *Job) HTML() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.html
}

// SetFileData sets the raw file bytes for processing.
func (j *Job) SetFileData(data []byte) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = data
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID        string    `json:"job_id"`
	Status    JobStatus `json:"status"`
	Phase     string    `json:"phase"`
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	Progress  Progress  `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := slices.Clone(j.Progress.Errors)
	if errs == nil {
		errs = []string{}
	}
	p := j.Progress
	p.Errors = errs
	return JobSnapshot{
		ID:        j.ID,
		Status:    j.Status,
		Phase:     j.Phase,
		Filename:  j.Filename,
		Title:     j.Title,
		Progress:  p,
		CreatedAt: j.CreatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// RenderHash fingerprints everything that influences a rendered deck.
func RenderHash(data []byte, filename, title string, attrs map[string]string) string {
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(extOf(filename)))
	h.Write([]byte{0})
	h.Write([]byte(title))
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		h.Write([]byte{0})
		h.Write([]byte(k + "=" + attrs[k]))
	}
	return hex.EncodeToString(h.Sum(nil))
}
