package chunker

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// boilerplatePattern matches the compliance preamble some filings open with.
var boilerplatePattern = regexp.MustCompile(`(?i)^Must comply with:\s*`)

// Normalize prepares decoded document text for chunking. It folds
// compatibility characters (ligatures, non-breaking spaces) that PDF
// extraction tends to produce and drops the boilerplate when the text opens
// with it. The result is the trimmed, non-empty lines in source order.
func Normalize(text string) []string {
	text = norm.NFKC.String(text)
	text = boilerplatePattern.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
