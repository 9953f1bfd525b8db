package xmltree

import (
	"thinktrends.com/icsr/types"
	"bytes"
	"encoding/xml"
	"golang.org/x/net/html/charset"
	"io"
	"strings"
)

// Node is a generic, order-preserving element tree with no domain knowledge.
// Tags and attribute names are lowercased with namespace prefixes stripped
// so downstream matching is case- and namespace-agnostic.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
}

type Attr struct {
	Name  string
	Value string
}

// Parse turns raw bytes into a Node tree or fails with MalformedDocumentError.
// Character encodings are resolved from the XML declaration via the charset
// reader. External entity references are never fetched: the decoder only
// knows the predefined XML entities, so untrusted input cannot trigger
// expansion or disclosure.
func Parse(data []byte) (*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &types.MalformedDocumentError{Reason: "document is empty"}
	}
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Strict = true

	var root *Node
	var stack []*Node
	var texts []*strings.Builder

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &types.MalformedDocumentError{Reason: "unparseable markup", Err: err}
		}
		switch tok := token.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, &types.MalformedDocumentError{Reason: "content after document element"}
			}
			node := &Node{Tag: strings.ToLower(tok.Name.Local)}
			for _, a := range tok.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				node.Attrs = append(node.Attrs, Attr{
					Name:  strings.ToLower(a.Name.Local),
					Value: a.Value,
				})
			}
			if len(stack) == 0 {
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)
			texts = append(texts, &strings.Builder{})
		case xml.CharData:
			if len(stack) > 0 {
				texts[len(texts)-1].Write(tok)
			} else if len(bytes.TrimSpace(tok)) != 0 {
				return nil, &types.MalformedDocumentError{Reason: "text outside the document element"}
			}
		case xml.EndElement:
			node := stack[len(stack)-1]
			node.Text = strings.TrimSpace(texts[len(texts)-1].String())
			stack = stack[:len(stack)-1]
			texts = texts[:len(texts)-1]
		}
	}
	if len(stack) != 0 {
		return nil, &types.MalformedDocumentError{Reason: "document truncated inside an element"}
	}
	if root == nil {
		return nil, &types.MalformedDocumentError{Reason: "no root element"}
	}
	return root, nil
}

// Child returns the first direct child with the given tag, or nil.
func (n *Node) Child(tag string) *Node {
	tag = strings.ToLower(tag)
	for _, child := range n.Children {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// ChildText returns the trimmed text of the first direct child with the
// given tag. The bool distinguishes an absent element from an empty one.
func (n *Node) ChildText(tag string) (string, bool) {
	child := n.Child(tag)
	if child == nil {
		return "", false
	}
	return child.Text, true
}

// Find returns the first descendant (depth-first, document order) with the
// given tag, excluding the node itself.
func (n *Node) Find(tag string) *Node {
	tag = strings.ToLower(tag)
	for _, child := range n.Children {
		if child.Tag == tag {
			return child
		}
		if found := child.find(tag); found != nil {
			return found
		}
	}
	return nil
}

func (n *Node) find(tag string) *Node {
	for _, child := range n.Children {
		if child.Tag == tag {
			return child
		}
		if found := child.find(tag); found != nil {
			return found
		}
	}
	return nil
}

// FindAll collects every descendant with the given tag in document order.
func (n *Node) FindAll(tag string) []*Node {
	tag = strings.ToLower(tag)
	var out []*Node
	n.findAll(tag, &out)
	return out
}

func (n *Node) findAll(tag string, out *[]*Node) {
	for _, child := range n.Children {
		if child.Tag == tag {
			*out = append(*out, child)
		}
		child.findAll(tag, out)
	}
}

// Attr returns the value of the named attribute, if present.
func (n *Node) Attr(name string) (string, bool) {
	name = strings.ToLower(name)
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
