package doctree

import "strings"

// DocTree is the root of a decoded document.
type DocTree struct {
	Title    string     // Document title (from metadata or filename)
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content of this node (may be empty for container nodes)
	Page     int        // Source page (0 if N/A)
	Children []*DocNode // Subsections
}

// Text flattens the tree into newline-separated text in document order.
// Section headings are emitted as their own line ahead of the section body,
// since field tables often carry the field name in a heading.
func (t *DocTree) Text() string {
	var sb strings.Builder
	var walk func(nodes []*DocNode)
	walk = func(nodes []*DocNode) {
		for _, n := range nodes {
			for _, s := range []string{n.Title, n.Text} {
				if s == "" {
					continue
				}
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(s)
			}
			walk(n.Children)
		}
	}
	walk(t.Children)
	return sb.String()
}

// UnknownTitle is the placeholder title of a chunk whose field name has not been seen yet.
const UnknownTitle = "Unknown Field"

// DefaultCategory is the category assigned to every chunk unless configured otherwise.
const DefaultCategory = "Hedging"

// Constraints holds the value constraints of a candidate field.
type Constraints struct {
	AllowedValues string `json:"allowedValues"`
	Format        string `json:"format"`
}

// DefaultConstraints returns the neutral constraints of a fresh chunk.
func DefaultConstraints() Constraints {
	return Constraints{AllowedValues: "N/A", Format: "string"}
}

// Chunk is the span of document lines describing one candidate field.
type Chunk struct {
	Title            string
	DescriptionLines []string
	Category         string
	Constraints      Constraints
}

// Description joins the collected description lines.
func (c Chunk) Description() string {
	return strings.Join(c.DescriptionLines, "\n")
}

// HasTitle reports whether the chunk's title was resolved from the document.
func (c Chunk) HasTitle() bool {
	return c.Title != "" && c.Title != UnknownTitle
}
