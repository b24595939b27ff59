package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/regprofiler/internal/doctree"
)

// CSVParser handles field tables exported as CSV. The header row names the
// columns; each data row is rendered as a numbered field block:
//
//	<index> <name>
//	<description>
//	<allowed values>
//
// Rows are numbered by position when the table has no index column.
type CSVParser struct{}

type csvColumns struct {
	index, name, description, allowed int
}

func (p *CSVParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	tree := &doctree.DocTree{
		Title: strings.TrimSuffix(filename, ".csv"),
	}
	if len(records) < 2 {
		return tree, nil
	}

	cols := detectColumns(records[0])
	var text strings.Builder
	for i, row := range records[1:] {
		name := cell(row, cols.name)
		if name == "" {
			continue
		}
		idx := cell(row, cols.index)
		if idx == "" {
			idx = strconv.Itoa(i + 1)
		}
		text.WriteString(idx + " " + name + "\n")
		if d := cell(row, cols.description); d != "" {
			text.WriteString(d + "\n")
		}
		if a := cell(row, cols.allowed); a != "" {
			text.WriteString(a + "\n")
		}
	}

	if t := strings.TrimSpace(text.String()); t != "" {
		tree.Children = []*doctree.DocNode{{Text: t}}
	}
	return tree, nil
}

// detectColumns maps header names to column positions. Missing columns are
// -1; without a recognizable name column the first non-index column is used.
func detectColumns(header []string) csvColumns {
	cols := csvColumns{index: -1, name: -1, description: -1, allowed: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "#", "no", "no.", "number", "id", "field number", "field #":
			if cols.index < 0 {
				cols.index = i
			}
		case "field", "name", "field name", "data element", "title":
			if cols.name < 0 {
				cols.name = i
			}
		case "description", "definition", "specification", "requirement":
			if cols.description < 0 {
				cols.description = i
			}
		case "allowed values", "valid values", "values", "format":
			if cols.allowed < 0 {
				cols.allowed = i
			}
		}
	}
	if cols.name < 0 {
		for i := range header {
			if i != cols.index && i != cols.description && i != cols.allowed {
				cols.name = i
				break
			}
		}
	}
	return cols
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
