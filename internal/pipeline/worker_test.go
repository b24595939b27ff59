package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgallion1/regprofiler/internal/config"
	"github.com/dgallion1/regprofiler/internal/metrics"
	"github.com/dgallion1/regprofiler/internal/parser"
	"github.com/dgallion1/regprofiler/internal/pathstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu       sync.Mutex
	profiles []pathstore.Profile
	err      error
}

func (f *fakePublisher) PublishProfile(_ context.Context, p pathstore.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.profiles = append(f.profiles, p)
	return nil
}

func (f *fakePublisher) published() []pathstore.Profile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pathstore.Profile(nil), f.profiles...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestJob(filename, content string) *Job {
	job := &Job{
		ID:        "job-" + filename,
		DocID:     "doc-" + filename,
		Filename:  filename,
		Status:    StatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	job.SetFileData([]byte(content))
	return job
}

func newTestWorker(pub Publisher) (*Worker, *RunStats) {
	stats := NewRunStats(time.Hour)
	return NewWorker(pub, stats, metrics.New(), discardLogger(), parser.Options{}, "Hedging"), stats
}

func messageTexts(job *Job) []string {
	var out []string
	for _, m := range job.Messages() {
		out = append(out, m.Text)
	}
	return out
}

func TestWorker_CompletesAndPublishes(t *testing.T) {
	pub := &fakePublisher{}
	w, stats := newTestWorker(pub)
	job := newTestJob("template.txt", hedgingTemplate)

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, "template", snap.Title)
	assert.NotEmpty(t, snap.ContentHash)
	assert.Equal(t, 4, snap.Progress.TotalChunks)
	assert.Equal(t, 4, snap.Progress.ChunksProcessed)
	assert.Equal(t, 4, snap.Progress.RulesExtracted)
	assert.Empty(t, snap.Progress.Errors)
	assert.Nil(t, job.FileData(), "file data should be released after decoding")

	texts := messageTexts(job)
	require.NotEmpty(t, texts)
	assert.Regexp(t, `^Extracted text length: \d+ characters$`, texts[0])
	assert.Equal(t, "Generated 4 rules.", texts[len(texts)-1])

	published := pub.published()
	require.Len(t, published, 1)
	assert.Equal(t, snap.DocID, published[0].Meta.DocID)
	assert.Equal(t, snap.ContentHash, published[0].Meta.ContentHash)
	assert.Len(t, published[0].Rules, 4)

	assert.Equal(t, 1, stats.Snapshot().Runs)
	assert.Equal(t, 4, stats.Snapshot().TotalRules)
}

func TestWorker_NoPublisher(t *testing.T) {
	w, _ := newTestWorker(nil)
	job := newTestJob("template.txt", hedgingTemplate)

	w.Process(context.Background(), job)

	assert.Equal(t, StatusCompleted, job.Snapshot().Status)
	assert.Len(t, job.Rules(), 4)
}

func TestWorker_PublishFailureKeepsRules(t *testing.T) {
	pub := &fakePublisher{err: errors.New("pathstore down")}
	w, _ := newTestWorker(pub)
	job := newTestJob("template.txt", hedgingTemplate)

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Len(t, job.Rules(), 4)
	require.Len(t, snap.Progress.Errors, 1)
	assert.Contains(t, snap.Progress.Errors[0], "pathstore down")
}

func TestWorker_CancelledContextSkipsPublish(t *testing.T) {
	pub := &fakePublisher{}
	w, _ := newTestWorker(pub)
	job := newTestJob("template.txt", hedgingTemplate)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Process(ctx, job)

	snap := job.Snapshot()
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Len(t, job.Rules(), 4)
	assert.Empty(t, pub.published())
	require.Len(t, snap.Progress.Errors, 1)
	assert.Contains(t, snap.Progress.Errors[0], "Publish skipped")
}

func TestWorker_DecodeFailure(t *testing.T) {
	w, _ := newTestWorker(nil)
	job := newTestJob("broken.pdf", "not a pdf")

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "decoding", snap.Phase)
	require.NotEmpty(t, snap.Progress.Errors)
	assert.Contains(t, snap.Progress.Errors[0], "Error processing file")
}

func TestWorker_EmptyDocumentFails(t *testing.T) {
	w, _ := newTestWorker(nil)
	job := newTestJob("blank.txt", "  \n\n ")

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Contains(t, messageTexts(job), "No content found in document.")
}

func TestWorker_NoHeadersIsEmpty(t *testing.T) {
	pub := &fakePublisher{}
	w, _ := newTestWorker(pub)
	job := newTestJob("prose.txt", "This document has no numbered fields.\nJust prose.")

	w.Process(context.Background(), job)

	assert.Equal(t, StatusEmpty, job.Snapshot().Status)
	assert.Empty(t, job.Rules())
	assert.Empty(t, pub.published())
}

func TestWorker_JobCategoryOverridesDefault(t *testing.T) {
	w, _ := newTestWorker(nil)
	job := newTestJob("template.txt", hedgingTemplate)
	job.Category = "Derivatives"

	w.Process(context.Background(), job)

	for _, r := range job.Rules() {
		assert.Equal(t, "Derivatives", r.Category)
	}
}

func TestOrchestrator_ProcessesSubmittedJobs(t *testing.T) {
	cfg := config.Config{
		WorkerCount:  2,
		MaxQueueSize: 10,
		JobTTL:       time.Hour,
		StatsWindow:  time.Hour,
		RuleCategory: "Hedging",
	}
	pub := &fakePublisher{}
	o := NewOrchestrator(cfg, pub, discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	jobs := []*Job{
		newTestJob("a.txt", hedgingTemplate),
		newTestJob("b.txt", "no fields here"),
	}
	for _, j := range jobs {
		require.NoError(t, o.Submit(j))
	}

	require.Eventually(t, func() bool {
		for _, j := range jobs {
			if !j.Snapshot().Status.Done() {
				return false
			}
		}
		return true
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, StatusCompleted, o.GetJob(jobs[0].ID).Snapshot().Status)
	assert.Equal(t, StatusEmpty, o.GetJob(jobs[1].ID).Snapshot().Status)
	assert.Equal(t, 2, o.Stats().Snapshot().Runs)
	assert.True(t, o.PublishEnabled())
	assert.Len(t, pub.published(), 1)
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour, StatsWindow: time.Hour}
	o := NewOrchestrator(cfg, nil, discardLogger())
	// Not started: nothing drains the queue.

	require.NoError(t, o.Submit(newTestJob("first.txt", "x")))
	second := newTestJob("second.txt", "x")
	err := o.Submit(second)
	require.Error(t, err)
	assert.Equal(t, StatusFailed, second.Snapshot().Status)
	assert.Equal(t, 1, o.QueueDepth())
	assert.NotNil(t, o.GetJob(second.ID))
}

func TestOrchestrator_RepublishWithoutPublisher(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour, StatsWindow: time.Hour}
	o := NewOrchestrator(cfg, nil, discardLogger())
	assert.False(t, o.PublishEnabled())
	assert.NoError(t, o.Republish(context.Background(), newTestJob("x.txt", "")))
}
