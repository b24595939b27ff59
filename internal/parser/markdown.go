package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/regprofiler/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. GFM tables are
// enabled; each body cell becomes its own line.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.DocTree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	tree := &doctree.DocTree{
		Title: strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown"),
	}

	b := newSectionBuilder(tree.Title)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			b.heading(blockText(h, src), h.Level)
			continue
		}
		b.line(blockText(n, src))
	}
	tree.Children = b.finish()
	return tree, nil
}

// blockText returns a block's text. Nested blocks, table cells and soft
// breaks start new lines; code and raw HTML blocks keep their source lines.
func blockText(n ast.Node, src []byte) string {
	var buf strings.Builder
	newline := func() {
		if buf.Len() > 0 && !strings.HasSuffix(buf.String(), "\n") {
			buf.WriteByte('\n')
		}
	}

	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *extast.TableHeader:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			buf.Write(node.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
			return ast.WalkContinue, nil
		case *ast.String:
			buf.Write(node.Value)
			return ast.WalkContinue, nil
		}

		if c.Type() == ast.TypeBlock {
			newline()
			if c.FirstChild() == nil {
				lines := c.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.Write(seg.Value(src))
				}
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}
