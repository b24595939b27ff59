package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/dgallion1/regprofiler/internal/metrics"
	"github.com/dgallion1/regprofiler/internal/parser"
	"github.com/dgallion1/regprofiler/internal/pathstore"
)

// Publisher stores finished rule sets.
type Publisher interface {
	PublishProfile(ctx context.Context, p pathstore.Profile) error
}

// Worker processes a single document job.
type Worker struct {
	publisher  Publisher
	stats      *RunStats
	metrics    *metrics.Metrics
	log        *slog.Logger
	parserOpts parser.Options
	category   string
}

// NewWorker creates a worker. A nil publisher disables publishing.
func NewWorker(pub Publisher, stats *RunStats, m *metrics.Metrics, log *slog.Logger, opts parser.Options, category string) *Worker {
	return &Worker{
		publisher:  pub,
		stats:      stats,
		metrics:    m,
		log:        log,
		parserOpts: opts,
		category:   category,
	}
}

// Process decodes the job's document, runs the pipeline over its text and
// publishes the resulting rules.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "filename", job.Filename)
	start := time.Now()

	// Phase 1: Decode
	job.SetStatus(StatusDecoding, "decoding")
	tree, text, err := parser.Decode(bytes.NewReader(job.FileData()), job.Filename, w.parserOpts)
	if err != nil {
		log.Error("decode failed", "error", err)
		job.Error(fmt.Sprintf("Error processing file: %s", err))
		w.finish(log, job, StatusFailed, "decoding", start, 0)
		return
	}
	job.SetFileData(nil)
	job.SetDocument(tree.Title, ContentHashHex([]byte(text)))
	job.Info(fmt.Sprintf("Extracted text length: %d characters", utf8.RuneCountInString(text)))

	// Phase 2: Chunk and extract
	category := job.Category
	if category == "" {
		category = w.category
	}
	job.SetStatus(StatusChunking, "chunking")
	res, err := RunText(text, Options{
		Category: category,
		Sink:     job,
		OnChunk: func(processed, total, rules int) {
			if processed == 1 {
				job.SetStatus(StatusExtracting, "extracting")
			}
			job.SetChunkProgress(processed, total, rules)
		},
	})
	job.SetTotalChunks(res.Chunks)
	job.SetRules(res.Rules, false)
	for _, r := range res.Rules {
		w.metrics.RecordRule(r.Confidence)
	}

	switch {
	case errors.Is(err, ErrEmptyDocument):
		log.Warn("document has no text")
		w.finish(log, job, StatusFailed, "chunking", start, res.Chunks)
		return
	case errors.Is(err, ErrNoChunks), errors.Is(err, ErrNoRules):
		log.Info("no rules extracted", "lines", res.Lines, "chunks", res.Chunks)
		w.finish(log, job, StatusEmpty, "done", start, res.Chunks)
		return
	case err != nil:
		log.Error("run failed", "error", err)
		job.Error(err.Error())
		w.finish(log, job, StatusFailed, "extracting", start, res.Chunks)
		return
	}
	log.Info("extraction complete", "lines", res.Lines, "chunks", res.Chunks, "rules", len(res.Rules))

	// Phase 3: Publish
	if err := ctx.Err(); err != nil && w.publisher != nil {
		log.Warn("publish skipped", "error", err)
		job.Error(fmt.Sprintf("Publish skipped: %s", err))
	} else if w.publisher != nil {
		job.SetStatus(StatusPublishing, "publishing")
		if err := Publish(ctx, w.publisher, job); err != nil {
			log.Error("publish failed", "error", err)
			job.Error(fmt.Sprintf("Publish failed: %s", err))
			w.metrics.RecordPublishFailure()
		}
	}

	w.finish(log, job, StatusCompleted, "done", start, res.Chunks)
}

func (w *Worker) finish(log *slog.Logger, job *Job, status JobStatus, phase string, start time.Time, chunks int) {
	elapsed := time.Since(start)
	rules := job.Snapshot().Progress.RulesExtracted
	job.SetStatus(status, phase)
	w.stats.Record(elapsed, rules)
	w.metrics.RecordRun(string(status), elapsed.Seconds(), chunks)
	log.Info("job finished", "status", status, "rules", rules, "elapsed_ms", elapsed.Milliseconds())
}

// Publish writes the job's current rules and metadata.
func Publish(ctx context.Context, pub Publisher, job *Job) error {
	snap := job.Snapshot()
	return pub.PublishProfile(ctx, pathstore.Profile{
		Meta: pathstore.ProfileMeta{
			DocID:       snap.DocID,
			Filename:    snap.Filename,
			Title:       snap.Title,
			Category:    snap.Category,
			ContentHash: snap.ContentHash,
			Reviewed:    snap.Progress.Reviewed,
		},
		Rules: job.Rules(),
	})
}
