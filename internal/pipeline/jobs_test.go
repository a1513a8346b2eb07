package pipeline

import (
	"testing"
	"time"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_DifferentInputs(t *testing.T) {
	h1 := ContentHashHex([]byte("aaa"))
	h2 := ContentHashHex([]byte("bbb"))
	if h1 == h2 {
		t.Error("expected different hashes for different inputs")
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	// SHA-256 of empty input is well-known.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("deck.md", "", nil, []byte("# Deck"))
	if job.Status != StatusQueued || job.Phase != "queued" {
		t.Fatalf("expected new job queued, got %q/%q", job.Status, job.Phase)
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusSplitting, "splitting"},
		{StatusRendering, "rendering"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("parse: bad input")
	job.AddError("second")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "parse: bad input" {
		t.Errorf("expected first error %q, got %q", "parse: bad input", snap.Progress.Errors[0])
	}
}

func TestJob_SetResultReleasesUpload(t *testing.T) {
	job := NewJob("deck.md", "", nil, []byte("file content here"))
	if string(job.FileData()) != "file content here" {
		t.Fatalf("expected upload kept until rendered")
	}
	job.SetResult("<html></html>", 3, 1)

	if job.FileData() != nil {
		t.Error("expected upload released once rendered")
	}
	if job.HTML() != "<html></html>" {
		t.Errorf("unexpected html %q", job.HTML())
	}
	p := job.Snapshot().Progress
	if p.Slides != 3 || p.SlidesAdded != 1 || p.HTMLBytes != 13 {
		t.Errorf("unexpected progress %+v", p)
	}
}

func TestRenderHash(t *testing.T) {
	data := []byte("# Deck")
	base := RenderHash(data, "a.md", "", map[string]string{"x": "1", "y": "2"})

	if got := RenderHash(data, "other.MD", "", map[string]string{"y": "2", "x": "1"}); got != base {
		t.Error("expected hash independent of basename and attribute order")
	}
	variants := []string{
		RenderHash([]byte("# Other"), "a.md", "", map[string]string{"x": "1", "y": "2"}),
		RenderHash(data, "a.txt", "", map[string]string{"x": "1", "y": "2"}),
		RenderHash(data, "a.md", "Title", map[string]string{"x": "1", "y": "2"}),
		RenderHash(data, "a.md", "", map[string]string{"x": "1"}),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d: expected a different hash", i)
		}
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	// Wait for the TTL to pass.
	time.Sleep(100 * time.Millisecond)

	// Add a fresh job.
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_DeleteListFind(t *testing.T) {
	store := NewJobStore(time.Hour)
	a := NewJob("a.md", "", nil, []byte("same"))
	b := NewJob("b.md", "", nil, []byte("same"))
	store.Put(b)
	store.Put(a)

	list := store.List()
	if len(list) != 2 || list[0].ID != a.ID {
		t.Fatalf("expected jobs ordered by id, got %+v", list)
	}

	if store.FindCompleted(a.ContentHash, b.ID) != nil {
		t.Error("expected no match before completion")
	}
	a.SetStatus(StatusCompleted, "done")
	if got := store.FindCompleted(a.ContentHash, b.ID); got != a {
		t.Errorf("expected completed job with the same hash, got %v", got)
	}
	if store.FindCompleted(a.ContentHash, a.ID) != nil {
		t.Error("expected excluded job skipped")
	}

	counts := store.Counts()
	if counts[StatusCompleted] != 1 || counts[StatusQueued] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}

	if !store.Delete(a.ID) || store.Delete(a.ID) {
		t.Error("expected delete to report existence once")
	}
	if store.Get(a.ID) != nil {
		t.Error("expected deleted job gone")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	// Should not panic on empty store.
	store.Cleanup()
}
