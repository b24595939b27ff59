package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/regprofiler/internal/doctree"
)

func TestIsHeaderLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"1", true},
		{"12", true},
		{"12 Notional Amount", true},
		{"3\tCounterparty ID", true},
		{"12abc", false},
		{"1=Yes", false},
		{"Notional Amount", false},
		{"Field 12", false},
		{"", false},
	}
	for _, tc := range tests {
		t.Run(tc.line, func(t *testing.T) {
			assert.Equal(t, tc.want, IsHeaderLine(tc.line))
		})
	}
}

func TestIsCrossReferenceMarker(t *testing.T) {
	assert.True(t, IsCrossReferenceMarker("See Securities Exchange Act filing."))
	assert.True(t, IsCrossReferenceMarker("as described, see securities law"))
	assert.False(t, IsCrossReferenceMarker("See section 4"))
}

func TestChunk_TitledHeader(t *testing.T) {
	lines := []string{"1 Notional Amount", "The notional amount of the trade.", "Decimal, up to 15 digits"}

	chunks := Chunk(lines, "")
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.Equal(t, "Notional Amount", c.Title)
	assert.Equal(t, []string{"The notional amount of the trade.", "Decimal, up to 15 digits"}, c.DescriptionLines)
	assert.Equal(t, doctree.DefaultCategory, c.Category)
	assert.Equal(t, doctree.DefaultConstraints(), c.Constraints)
}

func TestChunk_BareHeaderCollectsTitle(t *testing.T) {
	lines := []string{"2", "Hedge Designation Date", "Date the hedge was designated.", "yyyy-mm-dd"}

	chunks := Chunk(lines, "")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Hedge Designation Date", chunks[0].Title)
	assert.Equal(t, "Date the hedge was designated.\nyyyy-mm-dd", chunks[0].Description())
}

func TestChunk_PlaceholderTitleStillCollectsTitle(t *testing.T) {
	lines := []string{"3 Unknown Field", "Hedge Type", "Type of hedge."}

	chunks := Chunk(lines, "")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Hedge Type", chunks[0].Title)
	assert.Equal(t, []string{"Type of hedge."}, chunks[0].DescriptionLines)
}

func TestChunk_CrossReferenceStopsDescription(t *testing.T) {
	lines := []string{"3 Counterparty ID", "See Securities Exchange Act filing.", "Trailing noise", "More noise"}

	chunks := Chunk(lines, "")
	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"See Securities Exchange Act filing."}, chunks[0].DescriptionLines)
}

func TestChunk_CrossReferenceInTitlePosition(t *testing.T) {
	lines := []string{"4", "See Securities Act", "ignored"}

	chunks := Chunk(lines, "")
	require.Len(t, chunks, 1)
	assert.False(t, chunks[0].HasTitle())
	assert.Equal(t, []string{"See Securities Act"}, chunks[0].DescriptionLines)
}

func TestChunk_EmptyChunkDiscarded(t *testing.T) {
	chunks := Chunk([]string{"1", "2", "Field Two", "desc"}, "")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Field Two", chunks[0].Title)
	assert.Equal(t, []string{"desc"}, chunks[0].DescriptionLines)
}

func TestChunk_LookaheadEndsDescriptionBeforeHeader(t *testing.T) {
	lines := []string{
		"1 Alpha", "alpha line one", "alpha line two",
		"2 Beta", "beta line",
	}

	chunks := Chunk(lines, "")
	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"alpha line one", "alpha line two"}, chunks[0].DescriptionLines)
	assert.Equal(t, "Beta", chunks[1].Title)
	assert.Equal(t, []string{"beta line"}, chunks[1].DescriptionLines)
}

func TestChunk_LinesBeforeFirstHeaderIgnored(t *testing.T) {
	chunks := Chunk([]string{"Reporting Template", "Field table", "1 Alpha", "desc"}, "")
	require.Len(t, chunks, 1)
	assert.Equal(t, []string{"desc"}, chunks[0].DescriptionLines)
}

func TestChunk_CustomCategory(t *testing.T) {
	chunks := Chunk([]string{"1 Alpha", "desc"}, "Collateral")
	require.Len(t, chunks, 1)
	assert.Equal(t, "Collateral", chunks[0].Category)
}

func TestChunk_EmptyInput(t *testing.T) {
	assert.Empty(t, Chunk(nil, ""))
	assert.Empty(t, Chunk([]string{}, ""))
}

func TestChunk_NeverEmitsEmptyDescription(t *testing.T) {
	inputs := [][]string{
		{"1", "2", "3"},
		{"1 A", "2 B", "3 C"},
		{"1", "Title only", "2", "Another title"},
		{"noise", "1", "See Securities", "2 X"},
	}
	for _, lines := range inputs {
		for _, c := range Chunk(lines, "") {
			assert.NotEmpty(t, c.DescriptionLines, "lines=%v", lines)
		}
	}
}

func TestChunk_Deterministic(t *testing.T) {
	lines := []string{"1 Alpha", "a", "2", "Beta", "b", "1=Yes", "3 Gamma", "See Securities", "x"}
	assert.Equal(t, Chunk(lines, ""), Chunk(lines, ""))
}

func TestChunk_SnapshotsDoNotShareStorage(t *testing.T) {
	chunks := Chunk([]string{"1 A", "one", "2 B", "two"}, "")
	require.Len(t, chunks, 2)
	chunks[0].DescriptionLines[0] = "mutated"
	assert.Equal(t, "two", chunks[1].DescriptionLines[0])
}

func TestStep_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		state     State
		line      string
		lookahead string
		wantAct   action
		wantState State
	}{
		{"noise while seeking", SeekingHeader, "preamble", "", ignoreLine, SeekingHeader},
		{"bare header", SeekingHeader, "7", "", startChunk, CollectingTitle},
		{"titled header", CollectingDescription, "7 Rate", "", startChunk, CollectingDescription},
		{"header titled with placeholder", SeekingHeader, "7 Unknown Field", "", startChunk, CollectingTitle},
		{"title line", CollectingTitle, "Rate", "", adoptTitle, CollectingDescription},
		{"cross reference as title", CollectingTitle, "See Securities Act", "", appendDescription, SeekingHeader},
		{"description continues", CollectingDescription, "text", "more", appendDescription, CollectingDescription},
		{"description before header", CollectingDescription, "text", "8", appendDescription, SeekingHeader},
		{"description cross reference", CollectingDescription, "see securities", "more", appendDescription, SeekingHeader},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			act, next := step(tc.state, tc.line, tc.lookahead)
			assert.Equal(t, tc.wantAct, act)
			assert.Equal(t, tc.wantState, next, "got %s", next)
		})
	}
}
