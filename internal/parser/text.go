package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/regprofiler/internal/doctree"
)

// TextParser handles plain text files, typically the output of an external
// PDF-to-text conversion. Form feeds split pages.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	tree := &doctree.DocTree{
		Title: strings.TrimSuffix(filename, ".txt"),
	}

	page := 1
	var current strings.Builder
	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			tree.Children = append(tree.Children, &doctree.DocNode{
				Text: strings.TrimRight(current.String(), "\n"),
				Page: page,
			})
		}
		current.Reset()
	}

	for scanner.Scan() {
		parts := strings.Split(scanner.Text(), "\f")
		for i, part := range parts {
			if i > 0 {
				flush()
				page++
			}
			current.WriteString(part)
		}
		current.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return tree, nil
}
