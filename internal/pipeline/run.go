package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/regprofiler/internal/chunker"
	"github.com/dgallion1/regprofiler/internal/extract"
)

// Run-level outcomes. The Result returned alongside them is always usable.
var (
	ErrEmptyDocument = errors.New("empty document")
	ErrNoChunks      = errors.New("no chunks produced")
	ErrNoRules       = errors.New("no rules extracted")
)

// Sink receives user-facing progress messages.
type Sink interface {
	Info(msg string)
	Error(msg string)
}

// NopSink discards all messages.
type NopSink struct{}

func (NopSink) Info(string)  {}
func (NopSink) Error(string) {}

// LogSink forwards progress messages to a structured logger.
type LogSink struct {
	Log *slog.Logger
}

func (s LogSink) Info(msg string)  { s.Log.Info("progress", "message", msg) }
func (s LogSink) Error(msg string) { s.Log.Warn("progress", "message", msg) }

// Options configures a single run.
type Options struct {
	Category string // Category stamped on every rule; empty means doctree.DefaultCategory.
	Sink     Sink   // Nil discards progress messages.

	// OnChunk, if set, is called after each chunk with the number of chunks
	// processed so far and the running rule count.
	OnChunk func(processed, total, rules int)
}

func (o Options) sink() Sink {
	if o.Sink == nil {
		return NopSink{}
	}
	return o.Sink
}

// Result is the output of one run.
type Result struct {
	Lines  int            `json:"lines"`
	Chunks int            `json:"chunks"`
	Rules  []extract.Rule `json:"rules"`
}

// RunText normalizes decoded document text and runs the pipeline over it.
func RunText(text string, opts Options) (Result, error) {
	return Run(chunker.Normalize(text), opts)
}

// Run chunks the lines and extracts one rule per qualifying chunk. Rules
// are numbered from 1 in document order.
func Run(lines []string, opts Options) (Result, error) {
	sink := opts.sink()
	res := Result{Lines: len(lines), Rules: []extract.Rule{}}

	if len(lines) == 0 {
		sink.Error("No content found in document.")
		return res, ErrEmptyDocument
	}
	sink.Info(fmt.Sprintf("Normalized %d lines.", len(lines)))

	sink.Info("Chunking document...")
	chunks := chunker.Chunk(lines, opts.Category)
	res.Chunks = len(chunks)
	sink.Info(fmt.Sprintf("Parsed %d potential chunks", len(chunks)))
	if len(chunks) == 0 {
		sink.Info("No field headers found; nothing to extract.")
	} else {
		sink.Info(fmt.Sprintf("Created %d chunks.", len(chunks)))
		sink.Info("Generating rules...")
		next := 1
		for i, c := range chunks {
			rules := extract.Extract(c)
			for j := range rules {
				rules[j].Ordinal = next
				next++
			}
			res.Rules = append(res.Rules, rules...)
			if opts.OnChunk != nil {
				opts.OnChunk(i+1, len(chunks), len(res.Rules))
			}
		}
	}
	sink.Info(fmt.Sprintf("Total rules extracted: %d", len(res.Rules)))

	if len(res.Rules) == 0 {
		sink.Error("No rules generated. Check document format.")
		if len(chunks) == 0 {
			return res, ErrNoChunks
		}
		return res, ErrNoRules
	}
	sink.Info(fmt.Sprintf("Generated %d rules.", len(res.Rules)))
	return res, nil
}
