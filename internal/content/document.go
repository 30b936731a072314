package content

// Node types of the Contentful rich-text tree that the site inspects.
const (
	NodeDocument  = "document"
	NodeParagraph = "paragraph"
	NodeText      = "text"
	NodeHeading2  = "heading-2"
	NodeHyperlink = "hyperlink"
)

// Document is a structured rich-text document: an ordered list of typed nodes.
type Document struct {
	NodeType string `json:"nodeType"`
	Content  []Node `json:"content"`
}

// Node is one element of a Document. Text nodes carry Value; block and
// inline nodes carry children in Content.
type Node struct {
	NodeType string `json:"nodeType"`
	Value    string `json:"value,omitempty"`
	Content  []Node `json:"content,omitempty"`
}

// Paragraphs returns the top-level paragraph nodes in document order.
func (d Document) Paragraphs() []Node {
	var out []Node
	for _, n := range d.Content {
		if n.NodeType == NodeParagraph {
			out = append(out, n)
		}
	}
	return out
}
