package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XML namespaces used in PresentationML and DrawingML parts.
const (
	nsA     = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsP     = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsR     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsXML   = "http://www.w3.org/XML/1998/namespace"
	nsXMLNS = "xmlns"
)

// Node is one element of a parsed XML part. The tree keeps every
// attribute and child element in document order so that a decode/encode
// round trip preserves formatting the translator never touched.
type Node struct {
	Name     xml.Name // Space holds the resolved namespace URL
	Attrs    []xml.Attr
	Children []*Node
	Text     string
}

// parseXML decodes an XML part into a Node tree rooted at the document element.
func parseXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("no document element found")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse xml: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return parseElement(dec, start)
		}
	}
}

func parseElement(dec *xml.Decoder, start xml.StartElement) (*Node, error) {
	n := &Node{Name: start.Name}
	n.Attrs = append(n.Attrs, start.Attr...)

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("unexpected end of element %s: %w", start.Name.Local, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case xml.CharData:
			n.Text += string(t)
		case xml.EndElement:
			// Whitespace between child elements is layout noise, not content.
			if len(n.Children) > 0 && strings.TrimSpace(n.Text) == "" {
				n.Text = ""
			}
			return n, nil
		}
	}
}

// nsScope resolves namespace URLs back to the prefixes declared in the
// document, so the encoder reproduces the original qualified names.
type nsScope struct {
	parent   *nsScope
	prefixes map[string]string // namespace URL -> prefix ("" for default)
}

func (s *nsScope) push(attrs []xml.Attr) *nsScope {
	child := &nsScope{parent: s}
	for _, a := range attrs {
		switch {
		case a.Name.Space == nsXMLNS:
			if child.prefixes == nil {
				child.prefixes = make(map[string]string)
			}
			child.prefixes[a.Value] = a.Name.Local
		case a.Name.Space == "" && a.Name.Local == nsXMLNS:
			if child.prefixes == nil {
				child.prefixes = make(map[string]string)
			}
			child.prefixes[a.Value] = ""
		}
	}
	return child
}

func (s *nsScope) prefix(space string) (string, bool) {
	if space == nsXML {
		return "xml", true
	}
	for scope := s; scope != nil; scope = scope.parent {
		if p, ok := scope.prefixes[space]; ok {
			return p, true
		}
	}
	return "", false
}

// encodeXML serializes a Node tree back to bytes with the standard XML
// declaration used by Office packages.
func encodeXML(root *Node) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	buf.WriteString("\r\n")
	if err := encodeElement(&buf, root, &nsScope{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeElement(buf *bytes.Buffer, n *Node, scope *nsScope) error {
	scope = scope.push(n.Attrs)

	name, err := qualifyElement(n.Name, scope)
	if err != nil {
		return err
	}

	buf.WriteByte('<')
	buf.WriteString(name)
	for _, a := range n.Attrs {
		attrName, err := qualifyAttr(a.Name, scope)
		if err != nil {
			return err
		}
		buf.WriteByte(' ')
		buf.WriteString(attrName)
		buf.WriteString(`="`)
		if err := xml.EscapeText(buf, []byte(a.Value)); err != nil {
			return err
		}
		buf.WriteByte('"')
	}

	if len(n.Children) == 0 && n.Text == "" {
		buf.WriteString("/>")
		return nil
	}

	buf.WriteByte('>')
	if n.Text != "" {
		if err := xml.EscapeText(buf, []byte(n.Text)); err != nil {
			return err
		}
	}
	for _, child := range n.Children {
		if err := encodeElement(buf, child, scope); err != nil {
			return err
		}
	}
	buf.WriteString("</")
	buf.WriteString(name)
	buf.WriteByte('>')
	return nil
}

func qualifyElement(name xml.Name, scope *nsScope) (string, error) {
	if name.Space == "" {
		return name.Local, nil
	}
	prefix, ok := scope.prefix(name.Space)
	if !ok {
		return "", fmt.Errorf("undeclared namespace %q for element %s", name.Space, name.Local)
	}
	if prefix == "" {
		return name.Local, nil
	}
	return prefix + ":" + name.Local, nil
}

func qualifyAttr(name xml.Name, scope *nsScope) (string, error) {
	switch {
	case name.Space == "":
		return name.Local, nil
	case name.Space == nsXMLNS:
		return "xmlns:" + name.Local, nil
	}
	prefix, ok := scope.prefix(name.Space)
	if !ok {
		return "", fmt.Errorf("undeclared namespace %q for attribute %s", name.Space, name.Local)
	}
	if prefix == "" {
		// Unprefixed attributes never inherit the default namespace.
		return name.Local, nil
	}
	return prefix + ":" + name.Local, nil
}

// child returns the first child element with the given local name.
func (n *Node) child(local string) *Node {
	for _, c := range n.Children {
		if c.Name.Local == local {
			return c
		}
	}
	return nil
}

// childrenNamed returns all child elements with the given local name, in order.
func (n *Node) childrenNamed(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Name.Local == local {
			out = append(out, c)
		}
	}
	return out
}

// attr returns the value of the named unqualified attribute.
func (n *Node) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// setAttr sets or replaces an unqualified attribute.
func (n *Node) setAttr(local, value string) {
	for i, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: local}, Value: value})
}

// removeAttr deletes an unqualified attribute if present.
func (n *Node) removeAttr(local string) {
	for i, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

// removeChildren deletes all child elements with the given local name.
func (n *Node) removeChildren(local string) {
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.Name.Local != local {
			kept = append(kept, c)
		}
	}
	n.Children = kept
}

// insertChild inserts a child element at the given index.
func (n *Node) insertChild(index int, child *Node) {
	if index < 0 || index > len(n.Children) {
		index = len(n.Children)
	}
	n.Children = append(n.Children, nil)
	copy(n.Children[index+1:], n.Children[index:])
	n.Children[index] = child
}

// elem creates a new element in the DrawingML namespace.
func elem(local string) *Node {
	return &Node{Name: xml.Name{Space: nsA, Local: local}}
}
