package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/regprofiler/internal/doctree"
)

var validFormats = map[string]bool{
	FormatString:  true,
	FormatDecimal: true,
	FormatInteger: true,
	FormatDate:    true,
}

// ValidateRule checks a reviewed rule submitted back by a user. It trims
// text fields and fills defaults in place. Returns true if valid.
func ValidateRule(r *Rule) bool {
	if r == nil {
		return false
	}
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	if r.Title == "" || r.Title == doctree.UnknownTitle || len(r.Title) > 300 {
		return false
	}
	if r.Description == "" {
		return false
	}
	if r.Confidence < 0 || r.Confidence > MaxConfidence {
		return false
	}
	if r.Constraints.Format == "" {
		r.Constraints.Format = FormatString
	}
	if !validFormats[r.Constraints.Format] {
		return false
	}
	r.Constraints.AllowedValues = strings.TrimSpace(r.Constraints.AllowedValues)
	if r.Constraints.AllowedValues == "" {
		r.Constraints.AllowedValues = NotApplicable
	}
	if strings.TrimSpace(r.Category) == "" {
		r.Category = doctree.DefaultCategory
	}
	return true
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	slugRepeat  = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a filename/path-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugRepeat.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}
