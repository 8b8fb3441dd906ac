package xmlparser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// Attr атрибут элемента; порядок атрибутов сохраняется как в документе
type Attr struct {
	Name  string
	Value string
}

// Node элемент XML-дерева
type Node struct {
	Tag      string
	Attrs    []Attr
	Children []*Node
	// Text собственный текст элемента без текста потомков
	Text string

	inner string
}

// InnerText возвращает текст элемента вместе с текстом потомков в порядке документа
func (n *Node) InnerText() string {
	return n.inner
}

// Parse разбирает документ в дерево. Кодировка из пролога (например, windows-1251)
// перекодируется в UTF-8.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = xml.HTMLEntity

	var (
		root  *Node
		stack []*Node
		own   [][]byte
		inner [][]byte
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse feed: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: t.Name.Local}
			for _, a := range t.Attr {
				if isNamespaceDecl(a.Name) {
					continue
				}
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			} else if root == nil {
				root = n
			}
			stack = append(stack, n)
			own = append(own, nil)
			inner = append(inner, nil)
		case xml.CharData:
			if top := len(stack) - 1; top >= 0 {
				own[top] = append(own[top], t...)
				inner[top] = append(inner[top], t...)
			}
		case xml.EndElement:
			top := len(stack) - 1
			n := stack[top]
			n.Text = string(own[top])
			n.inner = string(inner[top])
			stack, own, inner = stack[:top], own[:top], inner[:top]
			if top > 0 {
				inner[top-1] = append(inner[top-1], n.inner...)
			}
		}
	}

	if root == nil {
		return nil, errors.New("parse feed: document has no root element")
	}
	return root, nil
}

// isNamespaceDecl: объявления xmlns и xmlns:p не являются данными
func isNamespaceDecl(name xml.Name) bool {
	return name.Space == "xmlns" || (name.Space == "" && name.Local == "xmlns")
}

// Sections возвращает узлы второго уровня под корнем (yml_catalog -> shop -> секции)
func Sections(root *Node) []*Node {
	var out []*Node
	for _, c := range root.Children {
		out = append(out, c.Children...)
	}
	return out
}
