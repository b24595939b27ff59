package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/regprofiler/internal/doctree"
)

// Data formats a rule can be inferred to carry.
const (
	FormatString  = "string"
	FormatDecimal = "decimal"
	FormatInteger = "integer"
	FormatDate    = "date"
)

// NotApplicable marks a rule with no recognizable allowed-values text.
const NotApplicable = "N/A"

// Rule is a candidate data-validation rule derived from one field chunk.
type Rule struct {
	Ordinal     int                 `json:"id,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Confidence  int                 `json:"confidence"`
	Constraints doctree.Constraints `json:"constraints"`
}

var (
	enumLinePattern    = regexp.MustCompile(`^\d+=`)
	enumTokenPattern   = regexp.MustCompile(`\d+=`)
	decimalPattern     = regexp.MustCompile(`(?i)decimal`)
	datePattern        = regexp.MustCompile(`(?i)yyyy-mm-dd`)
	wholeDollarPattern = regexp.MustCompile(`(?i)whole dollar`)
	numericPattern     = regexp.MustCompile(`(?i)integer|number`)
)

func isEnumToken(s string) bool         { return enumTokenPattern.MatchString(s) }
func mentionsDecimal(s string) bool     { return decimalPattern.MatchString(s) }
func isDateToken(s string) bool         { return datePattern.MatchString(s) }
func mentionsWholeDollar(s string) bool { return wholeDollarPattern.MatchString(s) }
func mentionsNumeric(s string) bool     { return numericPattern.MatchString(s) }

// startsAllowedValues reports whether a description line begins the
// allowed-values tail of a field block, e.g. "1=Yes" or "yyyy-mm-dd".
func startsAllowedValues(line string) bool {
	return enumLinePattern.MatchString(line) ||
		mentionsDecimal(line) ||
		isDateToken(line) ||
		mentionsWholeDollar(line)
}

// splitDescription divides chunk lines at the first allowed-values line.
// Both halves are space-joined.
func splitDescription(lines []string) (description, allowed string) {
	trimmed := make([]string, len(lines))
	for i, l := range lines {
		trimmed[i] = strings.TrimSpace(l)
	}

	boundary := len(trimmed)
	for i, l := range trimmed {
		if startsAllowedValues(l) {
			boundary = i
			break
		}
	}
	description = strings.TrimSpace(strings.Join(trimmed[:boundary], " "))
	allowed = strings.TrimSpace(strings.Join(trimmed[boundary:], " "))
	return description, allowed
}

// InferFormat picks a data format; the first matching rule wins:
// decimal, then integer, then date, then string.
func InferFormat(description, allowed string) string {
	switch {
	case mentionsDecimal(allowed) || mentionsDecimal(description):
		return FormatDecimal
	case isEnumToken(allowed) || mentionsWholeDollar(allowed) || mentionsNumeric(description):
		return FormatInteger
	case isDateToken(allowed):
		return FormatDate
	}
	return FormatString
}

// Extract turns a chunk into at most one rule. Chunks without a resolved
// title or a lead description yield nothing. The returned rules carry no
// ordinal; numbering belongs to the caller.
func Extract(c doctree.Chunk) []Rule {
	fieldName := ""
	if c.HasTitle() {
		fieldName = c.Title
	}
	description, allowed := splitDescription(c.DescriptionLines)
	if fieldName == "" || description == "" {
		return nil
	}

	format := InferFormat(description, allowed)
	if allowed == "" {
		allowed = NotApplicable
	}

	return []Rule{{
		Title:       fieldName,
		Description: description,
		Category:    c.Category,
		Confidence:  Score(fieldName, description, allowed, format),
		Constraints: doctree.Constraints{
			AllowedValues: allowed,
			Format:        format,
		},
	}}
}
