package parser

import (
	"strings"

	"github.com/dgallion1/regprofiler/internal/doctree"
)

// sectionBuilder nests text under headings by level. Text is kept one
// source line per line.
type sectionBuilder struct {
	root  *doctree.DocNode
	stack []stackEntry
	text  strings.Builder
}

type stackEntry struct {
	node  *doctree.DocNode
	level int
}

func newSectionBuilder(title string) *sectionBuilder {
	root := &doctree.DocNode{Title: title}
	return &sectionBuilder{
		root:  root,
		stack: []stackEntry{{node: root, level: 0}},
	}
}

func (b *sectionBuilder) flush() {
	t := strings.TrimSpace(b.text.String())
	b.text.Reset()
	if t == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	if top.Text != "" {
		top.Text += "\n" + t
	} else {
		top.Text = t
	}
}

// heading opens a section; it closes any open section at the same or deeper level.
func (b *sectionBuilder) heading(title string, level int) {
	b.flush()
	node := &doctree.DocNode{Title: title}
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	parent := b.stack[len(b.stack)-1].node
	parent.Children = append(parent.Children, node)
	b.stack = append(b.stack, stackEntry{node: node, level: level})
}

func (b *sectionBuilder) line(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	if b.text.Len() > 0 {
		b.text.WriteString("\n")
	}
	b.text.WriteString(s)
}

// finish returns the top-level sections. Text seen before the first
// heading comes first as an untitled section.
func (b *sectionBuilder) finish() []*doctree.DocNode {
	b.flush()
	var out []*doctree.DocNode
	if b.root.Text != "" {
		out = append(out, &doctree.DocNode{Text: b.root.Text})
	}
	return append(out, b.root.Children...)
}
