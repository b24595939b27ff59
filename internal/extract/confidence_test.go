package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dgallion1/regprofiler/internal/doctree"
)

func TestScore_PointTable(t *testing.T) {
	long := "A description longer than twenty characters."
	tests := []struct {
		name        string
		title       string
		description string
		allowed     string
		format      string
		want        int
	}{
		{"nothing", "", "", "", FormatString, 0},
		{"sentinel title", doctree.UnknownTitle, "", NotApplicable, FormatString, 0},
		{"title only", "Field", "", NotApplicable, FormatString, 15},
		{"short description", "Field", "short", NotApplicable, FormatString, 30},
		{"long description", "Field", long, NotApplicable, FormatString, 35},
		{"twenty multibyte characters", "Field", "Zinsänderungsrisikoü", NotApplicable, FormatString, 30},
		{"twenty-one multibyte characters", "Field", "Zinsänderungsrisikoüä", NotApplicable, FormatString, 35},
		{"allowed values", "Field", long, "1=Yes", FormatString, 50},
		{"typed format", "Field", long, "1=Yes", FormatInteger, 55},
		{"asc 815", "Field", "Designated per asc 815.", "1=Yes", FormatDate, 60},
		{"format alone", "", "", "", FormatDecimal, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.title, tc.description, tc.allowed, tc.format))
		})
	}
}

func TestScore_Bounds(t *testing.T) {
	titles := []string{"", doctree.UnknownTitle, "Field"}
	descs := []string{"", "x", strings.Repeat("ASC 815 ", 10)}
	allowed := []string{"", NotApplicable, "1=Yes"}
	formats := []string{FormatString, FormatDecimal, FormatInteger, FormatDate, "bogus"}

	for _, ti := range titles {
		for _, d := range descs {
			for _, a := range allowed {
				for _, f := range formats {
					s := Score(ti, d, a, f)
					assert.GreaterOrEqual(t, s, 0)
					assert.LessOrEqual(t, s, MaxConfidence)
				}
			}
		}
	}
}

func TestScore_Monotonic(t *testing.T) {
	base := Score("Field", "short", NotApplicable, FormatString)
	steps := []int{
		Score("Field", "short", "1=Yes", FormatString),
		Score("Field", "short", "1=Yes", FormatInteger),
		Score("Field", "a much longer description", "1=Yes", FormatInteger),
		Score("Field", "a much longer description, ASC 815", "1=Yes", FormatInteger),
	}
	prev := base
	for i, s := range steps {
		assert.GreaterOrEqual(t, s, prev, "step %d", i)
		prev = s
	}
}
