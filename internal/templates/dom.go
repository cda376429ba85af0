package templates

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Document is a thin handle over a parsed HTML tree exposing only the
// capabilities the engine needs: element lookup by id and tag, title
// read/write, content injection, and serialization.
type Document struct {
	root *html.Node
}

// ParseDocument parses HTML text into a Document.
func ParseDocument(text string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{root: root}, nil
}

// GetElementByID returns the first element carrying the given id, or nil.
func (d *Document) GetElementByID(id string) *html.Node {
	return find(d.root, func(n *html.Node) bool {
		return getAttr(n, "id") == id
	})
}

// FirstByTag returns the first element with the given tag name, or nil.
func (d *Document) FirstByTag(tag string) *html.Node {
	return find(d.root, func(n *html.Node) bool {
		return n.Data == tag
	})
}

// Title returns the text content of the document's title element, or "".
func (d *Document) Title() string {
	title := d.FirstByTag("title")
	if title == nil {
		return ""
	}
	return innerText(title)
}

// SetTitle sets the document title, creating the title element under head if
// the template did not carry one.
func (d *Document) SetTitle(text string) {
	title := d.FirstByTag("title")
	if title == nil {
		head := d.FirstByTag("head")
		if head == nil {
			return
		}
		title = &html.Node{Type: html.ElementNode, Data: "title"}
		head.AppendChild(title)
	}
	for c := title.FirstChild; c != nil; c = title.FirstChild {
		title.RemoveChild(c)
	}
	title.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// SetInnerHTML replaces n's children with the parsed fragment.
func SetInnerHTML(n *html.Node, fragment string) error {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), n)
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// SerializeRoot renders the html element, including its tag, to text.
func (d *Document) SerializeRoot() (string, error) {
	root := d.FirstByTag("html")
	if root == nil {
		return "", fmt.Errorf("document has no html element")
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("serialize html: %w", err)
	}
	return buf.String(), nil
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func innerText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
