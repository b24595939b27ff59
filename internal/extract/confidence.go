package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/regprofiler/internal/doctree"
)

// MaxConfidence caps every score; the heuristic never claims certainty.
const MaxConfidence = 95

// Score estimates how reliable an extracted rule is from the signals that
// were present. Each condition adds points independently.
func Score(title, description, allowedValues, format string) int {
	score := 0
	if title != "" && title != doctree.UnknownTitle {
		score += 15
	}
	if description != "" {
		score += 15
	}
	if allowedValues != "" && allowedValues != NotApplicable {
		score += 15
	}
	if utf8.RuneCountInString(description) > 20 {
		score += 5
	}
	if strings.Contains(strings.ToLower(description), "asc 815") {
		score += 5
	}
	switch format {
	case FormatDecimal, FormatInteger, FormatDate:
		score += 5
	}
	return min(score, MaxConfidence)
}
