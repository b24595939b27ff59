package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/regprofiler/internal/extract"
)

// JobStatus represents the state of a profiling job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusDecoding   JobStatus = "decoding"
	StatusChunking   JobStatus = "chunking"
	StatusExtracting JobStatus = "extracting"
	StatusPublishing JobStatus = "publishing"
	StatusCompleted  JobStatus = "completed"
	StatusEmpty      JobStatus = "empty"
	StatusFailed     JobStatus = "failed"
)

// Done reports whether the status is final.
func (s JobStatus) Done() bool {
	return s == StatusCompleted || s == StatusEmpty || s == StatusFailed
}

// Message is one line of the job's progress log.
type Message struct {
	Level string    `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

// Job tracks the state of a single document run. It is also the run's
// progress Sink.
type Job struct {
	mu sync.Mutex

	ID       string `json:"job_id"`
	DocID    string `json:"doc_id"`
	Filename string `json:"filename"`
	Title    string `json:"title"`
	Category string `json:"category"`

	Status JobStatus `json:"status"`
	Phase  string    `json:"phase"`

	Progress Progress `json:"progress"`

	ContentHash string    `json:"content_hash,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	rules    []extract.Rule
	messages []Message
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalChunks     int      `json:"total_chunks"`
	ChunksProcessed int      `json:"chunks_processed"`
	RulesExtracted  int      `json:"rules_extracted"`
	Reviewed        bool     `json:"reviewed"`
	Errors          []string `json:"errors"`
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

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		updated := job.UpdatedAt
		job.mu.Unlock()
		if now.Sub(updated) > s.ttl {
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

// Info appends an informational line to the progress log.
func (j *Job) Info(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.messages = append(j.messages, Message{Level: "info", Text: msg, At: time.Now()})
	j.UpdatedAt = time.Now()
}

// Error appends an error line to the progress log and the error list.
func (j *Job) Error(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	now := time.Now()
	j.messages = append(j.messages, Message{Level: "error", Text: msg, At: now})
	j.errors = append(j.errors, msg)
	j.Progress.Errors = j.errors
	j.UpdatedAt = now
}

// SetDocument records what decoding learned about the document. An
// explicit title from the request is kept.
func (j *Job) SetDocument(title, contentHash string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Title == "" {
		j.Title = title
	}
	j.ContentHash = contentHash
	j.UpdatedAt = time.Now()
}

// SetTotalChunks records total chunk count.
func (j *Job) SetTotalChunks(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalChunks = n
	j.UpdatedAt = time.Now()
}

// SetChunkProgress records how many chunks have been processed and the
// running rule count.
func (j *Job) SetChunkProgress(processed, total, rules int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.ChunksProcessed = processed
	j.Progress.TotalChunks = total
	j.Progress.RulesExtracted = rules
	j.UpdatedAt = time.Now()
}

// SetRules replaces the job's rules. reviewed marks a human-edited list.
func (j *Job) SetRules(rules []extract.Rule, reviewed bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.rules = append([]extract.Rule(nil), rules...)
	j.Progress.RulesExtracted = len(rules)
	j.Progress.Reviewed = reviewed
	j.UpdatedAt = time.Now()
}

// Rules returns a copy of the job's rules.
func (j *Job) Rules() []extract.Rule {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]extract.Rule, len(j.rules))
	copy(out, j.rules)
	return out
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

// Messages returns a copy of the progress log.
func (j *Job) Messages() []Message {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Message, len(j.messages))
	copy(out, j.messages)
	return out
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID          string    `json:"job_id"`
	DocID       string    `json:"doc_id"`
	Status      JobStatus `json:"status"`
	Phase       string    `json:"phase"`
	Filename    string    `json:"filename"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	ContentHash string    `json:"content_hash,omitempty"`
	Progress    Progress  `json:"progress"`
	Messages    []Message `json:"messages"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Snapshot returns a JSON-safe copy of the job state.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := make([]string, len(j.errors))
	copy(errs, j.errors)
	msgs := make([]Message, len(j.messages))
	copy(msgs, j.messages)
	progress := j.Progress
	progress.Errors = errs
	return JobSnapshot{
		ID:          j.ID,
		DocID:       j.DocID,
		Status:      j.Status,
		Phase:       j.Phase,
		Filename:    j.Filename,
		Title:       j.Title,
		Category:    j.Category,
		ContentHash: j.ContentHash,
		Progress:    progress,
		Messages:    msgs,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
