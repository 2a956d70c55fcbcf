package pptx

import (
	"fmt"
	"strings"
)

// Presentation is a parsed slide deck. It is exclusively owned by one
// translation job: no concurrent mutation of the same instance is
// supported, and nothing here outlives a single Open/Save cycle.
type Presentation struct {
	pkg    *pkg
	slides []*Slide
}

// Slide wraps one parsed slide part.
type Slide struct {
	partName string
	root     *Node
}

// Shape is one entry of a slide's shape tree: a group, a text-bearing
// shape, or anything else (pictures, charts, connectors), which the
// translator skips.
type Shape struct {
	node *Node
}

// TextFrame wraps a shape's txBody element.
type TextFrame struct {
	node *Node
}

// Paragraph wraps one a:p element.
type Paragraph struct {
	node *Node
}

// Run wraps one a:r element, the smallest unit of styled text.
type Run struct {
	node *Node
}

// Open parses a presentation from a byte buffer. A buffer that is not a
// readable package is rejected with ErrBadPackage before any traversal.
func Open(data []byte) (*Presentation, error) {
	p, err := openPackage(data)
	if err != nil {
		return nil, err
	}

	pres := &Presentation{pkg: p}
	for _, partName := range p.slideParts() {
		content, _ := p.part(partName)
		root, err := parseXML(content)
		if err != nil {
			return nil, fmt.Errorf("%w: slide part %s: %v", ErrBadPackage, partName, err)
		}
		pres.slides = append(pres.slides, &Slide{partName: partName, root: root})
	}
	return pres, nil
}

// Slides returns the slides in presentation order.
func (p *Presentation) Slides() []*Slide {
	return p.slides
}

// Save re-encodes every slide part and serializes the package back to
// bytes. Parts the translator never touched are copied bit-for-bit.
func (p *Presentation) Save() ([]byte, error) {
	for _, s := range p.slides {
		encoded, err := encodeXML(s.root)
		if err != nil {
			return nil, fmt.Errorf("failed to encode slide part %s: %w", s.partName, err)
		}
		p.pkg.setPart(s.partName, encoded)
	}
	return p.pkg.bytes()
}

// shapeTreeLocals are the spTree children that participate in traversal.
var shapeTreeLocals = map[string]bool{
	"sp":           true,
	"grpSp":        true,
	"pic":          true,
	"graphicFrame": true,
	"cxnSp":        true,
	"contentPart":  true,
}

// Shapes returns the slide's top-level shapes in document order.
func (s *Slide) Shapes() []*Shape {
	cSld := s.root.child("cSld")
	if cSld == nil {
		return nil
	}
	spTree := cSld.child("spTree")
	if spTree == nil {
		return nil
	}
	return shapesOf(spTree)
}

func shapesOf(container *Node) []*Shape {
	var shapes []*Shape
	for _, c := range container.Children {
		if shapeTreeLocals[c.Name.Local] {
			shapes = append(shapes, &Shape{node: c})
		}
	}
	return shapes
}

// IsGroup reports whether the shape is a group shape.
func (sh *Shape) IsGroup() bool {
	return sh.node.Name.Local == "grpSp"
}

// Shapes returns a group shape's children in document order. Non-group
// shapes have no children.
func (sh *Shape) Shapes() []*Shape {
	if !sh.IsGroup() {
		return nil
	}
	return shapesOf(sh.node)
}

// HasTextFrame reports whether the shape carries a text frame.
func (sh *Shape) HasTextFrame() bool {
	return sh.node.child("txBody") != nil
}

// TextFrame returns the shape's text frame, or nil.
func (sh *Shape) TextFrame() *TextFrame {
	txBody := sh.node.child("txBody")
	if txBody == nil {
		return nil
	}
	return &TextFrame{node: txBody}
}

// Paragraphs returns the text frame's paragraphs in document order.
func (tf *TextFrame) Paragraphs() []*Paragraph {
	paras := tf.node.childrenNamed("p")
	out := make([]*Paragraph, len(paras))
	for i, p := range paras {
		out[i] = &Paragraph{node: p}
	}
	return out
}

// Text returns the concatenated text of the frame, one line per paragraph.
func (tf *TextFrame) Text() string {
	var lines []string
	for _, p := range tf.Paragraphs() {
		var sb strings.Builder
		for _, r := range p.Runs() {
			sb.WriteString(r.Text())
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// Runs returns the paragraph's runs in document order. Line breaks and
// paragraph properties are not runs and stay in place across a rebuild.
func (p *Paragraph) Runs() []*Run {
	runs := p.node.childrenNamed("r")
	out := make([]*Run, len(runs))
	for i, r := range runs {
		out[i] = &Run{node: r}
	}
	return out
}

// Text returns the run's text content.
func (r *Run) Text() string {
	t := r.node.child("t")
	if t == nil {
		return ""
	}
	return t.Text
}

// SetText replaces the run's text content.
func (r *Run) SetText(text string) {
	t := r.node.child("t")
	if t == nil {
		t = elem("t")
		r.node.Children = append(r.node.Children, t)
	}
	t.Text = text
}

// newRun creates an empty run element ready to be inserted into a paragraph.
func newRun() *Run {
	r := elem("r")
	r.Children = append(r.Children, elem("t"))
	return &Run{node: r}
}
