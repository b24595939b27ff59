package chunker

import (
	"regexp"

	"github.com/dgallion1/regprofiler/internal/doctree"
)

// State is the chunker's position within a field block.
type State int

const (
	// SeekingHeader skips lines until the next numbered field header.
	SeekingHeader State = iota
	// CollectingTitle takes the line after a bare numeric header as the field name.
	CollectingTitle
	// CollectingDescription appends lines to the current field's description.
	CollectingDescription
)

func (s State) String() string {
	switch s {
	case SeekingHeader:
		return "seeking_header"
	case CollectingTitle:
		return "collecting_title"
	case CollectingDescription:
		return "collecting_description"
	}
	return "unknown"
}

var (
	bareHeaderPattern     = regexp.MustCompile(`^\d+$`)
	titledHeaderPattern   = regexp.MustCompile(`^\d+\s+(.+)`)
	crossReferencePattern = regexp.MustCompile(`(?i)See Securities`)
)

// IsHeaderLine reports whether line opens a new field block: a bare index
// ("12") or an index followed by the field name ("12 Notional Amount").
func IsHeaderLine(line string) bool {
	return bareHeaderPattern.MatchString(line) || titledHeaderPattern.MatchString(line)
}

// IsCrossReferenceMarker reports whether line points at an external filing.
// Such a line ends the current description.
func IsCrossReferenceMarker(line string) bool {
	return crossReferencePattern.MatchString(line)
}

// headerTitle returns the field name trailing a header index, if any.
func headerTitle(line string) (string, bool) {
	m := titledHeaderPattern.FindStringSubmatch(line)
	if len(m) < 2 || m[1] == "" {
		return "", false
	}
	return m[1], true
}

type action int

const (
	ignoreLine action = iota
	startChunk
	adoptTitle
	appendDescription
)

// step is the transition function. lookahead is the following line, or ""
// at end of input.
func step(state State, line, lookahead string) (action, State) {
	if line == "" {
		return ignoreLine, state
	}
	if IsHeaderLine(line) {
		if title, ok := headerTitle(line); ok && title != doctree.UnknownTitle {
			return startChunk, CollectingDescription
		}
		return startChunk, CollectingTitle
	}

	switch state {
	case CollectingTitle:
		if IsCrossReferenceMarker(line) {
			return appendDescription, SeekingHeader
		}
		return adoptTitle, CollectingDescription
	case CollectingDescription:
		if IsCrossReferenceMarker(line) || IsHeaderLine(lookahead) {
			return appendDescription, SeekingHeader
		}
		return appendDescription, CollectingDescription
	}
	return ignoreLine, state
}

// builder is the mutable working record for the chunk in progress.
type builder struct {
	title    string
	lines    []string
	category string
}

func newBuilder(category string) *builder {
	return &builder{title: doctree.UnknownTitle, category: category}
}

// snapshot returns an immutable copy; the builder's slice is never shared.
func (b *builder) snapshot() doctree.Chunk {
	lines := make([]string, len(b.lines))
	copy(lines, b.lines)
	return doctree.Chunk{
		Title:            b.title,
		DescriptionLines: lines,
		Category:         b.category,
		Constraints:      doctree.DefaultConstraints(),
	}
}

// Chunk segments normalized lines into per-field chunks. Chunks that never
// collected a description line are dropped. An empty category falls back
// to doctree.DefaultCategory.
func Chunk(lines []string, category string) []doctree.Chunk {
	if category == "" {
		category = doctree.DefaultCategory
	}

	var chunks []doctree.Chunk
	cur := newBuilder(category)
	state := SeekingHeader

	for i, line := range lines {
		lookahead := ""
		if i+1 < len(lines) {
			lookahead = lines[i+1]
		}

		var act action
		act, state = step(state, line, lookahead)

		switch act {
		case startChunk:
			if len(cur.lines) > 0 {
				chunks = append(chunks, cur.snapshot())
			}
			cur = newBuilder(category)
			if title, ok := headerTitle(line); ok {
				cur.title = title
			}
		case adoptTitle:
			cur.title = line
		case appendDescription:
			cur.lines = append(cur.lines, line)
		}
	}

	if len(cur.lines) > 0 {
		chunks = append(chunks, cur.snapshot())
	}
	return chunks
}
