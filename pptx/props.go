package pptx

import (
	"strconv"
)

// AutoSize describes a text frame's autofit behavior.
type AutoSize string

// Autofit variants as they appear under a:bodyPr. The empty value means
// no autofit element was recorded.
const (
	AutoSizeUnset          AutoSize = ""
	AutoSizeNone           AutoSize = "noAutofit"
	AutoSizeShapeToFitText AutoSize = "spAutoFit"
	AutoSizeTextToFitShape AutoSize = "normAutofit"
)

var autofitLocals = []string{"noAutofit", "spAutoFit", "normAutofit"}

// TextFrameProps is the immutable formatting snapshot of a text frame.
// Absent attributes are recorded as nil, never as an error.
type TextFrameProps struct {
	MarginLeft     *int64 // EMU
	MarginRight    *int64
	MarginTop      *int64
	MarginBottom   *int64
	VerticalAnchor *string
	WordWrap       *string
	AutoSize       AutoSize
}

// Spacing is a paragraph spacing value, either a percentage of the line
// height or an absolute point size. The stored units match the XML:
// thousandths of a percent and hundredths of a point respectively.
type Spacing struct {
	Percent *int
	Points  *int
}

// ParagraphProps is the immutable formatting snapshot of a paragraph.
type ParagraphProps struct {
	Alignment   *string
	Level       *int
	LineSpacing *Spacing
	SpaceBefore *Spacing
	SpaceAfter  *Spacing
}

// RunProps is the immutable formatting snapshot of a run's font.
type RunProps struct {
	Size      *int // hundredths of a point
	Name      *string
	Bold      *bool
	Italic    *bool
	Underline *string
	Color     ColorSpec
	Fill      ColorSpec
}

// ExtractTextFrameProps snapshots a text frame's formatting. A missing
// bodyPr yields an all-absent snapshot.
func ExtractTextFrameProps(tf *TextFrame) TextFrameProps {
	var props TextFrameProps
	bodyPr := tf.node.child("bodyPr")
	if bodyPr == nil {
		return props
	}

	props.MarginLeft = int64Attr(bodyPr, "lIns")
	props.MarginRight = int64Attr(bodyPr, "rIns")
	props.MarginTop = int64Attr(bodyPr, "tIns")
	props.MarginBottom = int64Attr(bodyPr, "bIns")
	props.VerticalAnchor = strAttr(bodyPr, "anchor")
	props.WordWrap = strAttr(bodyPr, "wrap")

	for _, local := range autofitLocals {
		if bodyPr.child(local) != nil {
			props.AutoSize = AutoSize(local)
			break
		}
	}
	return props
}

// ApplyTextFrameProps writes a snapshot back onto a text frame.
func ApplyTextFrameProps(tf *TextFrame, props TextFrameProps) {
	bodyPr := tf.node.child("bodyPr")
	if bodyPr == nil {
		bodyPr = elem("bodyPr")
		tf.node.insertChild(0, bodyPr)
	}

	setOrRemoveInt64(bodyPr, "lIns", props.MarginLeft)
	setOrRemoveInt64(bodyPr, "rIns", props.MarginRight)
	setOrRemoveInt64(bodyPr, "tIns", props.MarginTop)
	setOrRemoveInt64(bodyPr, "bIns", props.MarginBottom)
	setOrRemoveStr(bodyPr, "anchor", props.VerticalAnchor)
	setOrRemoveStr(bodyPr, "wrap", props.WordWrap)

	for _, local := range autofitLocals {
		bodyPr.removeChildren(local)
	}
	if props.AutoSize != AutoSizeUnset {
		bodyPr.Children = append(bodyPr.Children, elem(string(props.AutoSize)))
	}
}

// ExtractParagraphProps snapshots a paragraph's formatting. A missing
// pPr yields an all-absent snapshot.
func ExtractParagraphProps(p *Paragraph) ParagraphProps {
	var props ParagraphProps
	pPr := p.node.child("pPr")
	if pPr == nil {
		return props
	}

	props.Alignment = strAttr(pPr, "algn")
	props.Level = intAttr(pPr, "lvl")
	props.LineSpacing = extractSpacing(pPr.child("lnSpc"))
	props.SpaceBefore = extractSpacing(pPr.child("spcBef"))
	props.SpaceAfter = extractSpacing(pPr.child("spcAft"))
	return props
}

// ApplyParagraphProps writes a snapshot back onto a paragraph.
func ApplyParagraphProps(p *Paragraph, props ParagraphProps) {
	pPr := p.node.child("pPr")
	if pPr == nil {
		if propsEmpty(props) {
			return
		}
		pPr = elem("pPr")
		p.node.insertChild(0, pPr)
	}

	setOrRemoveStr(pPr, "algn", props.Alignment)
	setOrRemoveInt(pPr, "lvl", props.Level)

	// Spacing children are schema-ordered: lnSpc, spcBef, spcAft ahead of
	// everything else, so they are re-inserted front-first in reverse.
	applySpacing(pPr, "spcAft", props.SpaceAfter)
	applySpacing(pPr, "spcBef", props.SpaceBefore)
	applySpacing(pPr, "lnSpc", props.LineSpacing)
}

func propsEmpty(props ParagraphProps) bool {
	return props.Alignment == nil && props.Level == nil &&
		props.LineSpacing == nil && props.SpaceBefore == nil && props.SpaceAfter == nil
}

// ExtractRunProps snapshots a run's font formatting. A run with no rPr
// yields an all-absent snapshot.
func ExtractRunProps(r *Run) RunProps {
	var props RunProps
	rPr := r.node.child("rPr")
	if rPr == nil {
		return props
	}

	props.Size = intAttr(rPr, "sz")
	props.Bold = boolAttr(rPr, "b")
	props.Italic = boolAttr(rPr, "i")
	props.Underline = strAttr(rPr, "u")
	if latin := rPr.child("latin"); latin != nil {
		props.Name = strAttr(latin, "typeface")
	}
	props.Color = extractColorSpec(rPr.child("solidFill"))
	props.Fill = extractColorSpec(rPr.child("highlight"))
	return props
}

// ApplyRunProps writes a snapshot back onto a run. Following the source
// formatting contract, only recorded fields are applied; a color that
// fails to apply is dropped and the run keeps its creation default.
func ApplyRunProps(r *Run, props RunProps) {
	rPr := r.node.child("rPr")
	if rPr == nil {
		rPr = elem("rPr")
		r.node.insertChild(0, rPr)
	}

	if props.Size != nil {
		rPr.setAttr("sz", strconv.Itoa(*props.Size))
	}
	if props.Bold != nil {
		rPr.setAttr("b", boolVal(*props.Bold))
	}
	if props.Italic != nil {
		rPr.setAttr("i", boolVal(*props.Italic))
	}
	if props.Underline != nil {
		rPr.setAttr("u", *props.Underline)
	}

	applyRunColor(rPr, "solidFill", props.Color)
	applyRunColor(rPr, "highlight", props.Fill)

	if props.Name != nil {
		latin := rPr.child("latin")
		if latin == nil {
			latin = elem("latin")
			rPr.Children = append(rPr.Children, latin)
		}
		latin.setAttr("typeface", *props.Name)
	}
}

// applyRunColor builds the fill element for a recorded color and swaps
// it in only when the color applied cleanly. This is the one place a
// formatting failure is swallowed: losing a color beats aborting the
// paragraph.
func applyRunColor(rPr *Node, local string, spec ColorSpec) {
	if spec.IsZero() {
		return
	}
	fill := elem(local)
	if err := applyColorSpec(fill, spec); err != nil || len(fill.Children) == 0 {
		return
	}
	rPr.removeChildren(local)
	rPr.Children = append(rPr.Children, fill)
}

func extractSpacing(n *Node) *Spacing {
	if n == nil {
		return nil
	}
	var sp Spacing
	if pct := n.child("spcPct"); pct != nil {
		sp.Percent = intAttr(pct, "val")
	}
	if pts := n.child("spcPts"); pts != nil {
		sp.Points = intAttr(pts, "val")
	}
	if sp.Percent == nil && sp.Points == nil {
		return nil
	}
	return &sp
}

func applySpacing(pPr *Node, local string, sp *Spacing) {
	pPr.removeChildren(local)
	if sp == nil {
		return
	}
	n := elem(local)
	if sp.Percent != nil {
		pct := elem("spcPct")
		pct.setAttr("val", strconv.Itoa(*sp.Percent))
		n.Children = append(n.Children, pct)
	} else if sp.Points != nil {
		pts := elem("spcPts")
		pts.setAttr("val", strconv.Itoa(*sp.Points))
		n.Children = append(n.Children, pts)
	}
	pPr.insertChild(0, n)
}

func strAttr(n *Node, local string) *string {
	if v, ok := n.attr(local); ok {
		return &v
	}
	return nil
}

func intAttr(n *Node, local string) *int {
	if v, ok := n.attr(local); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return &i
		}
	}
	return nil
}

func int64Attr(n *Node, local string) *int64 {
	if v, ok := n.attr(local); ok {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return &i
		}
	}
	return nil
}

func boolAttr(n *Node, local string) *bool {
	if v, ok := n.attr(local); ok {
		b := v == "1" || v == "true"
		return &b
	}
	return nil
}

func boolVal(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func setOrRemoveStr(n *Node, local string, v *string) {
	if v == nil {
		n.removeAttr(local)
		return
	}
	n.setAttr(local, *v)
}

func setOrRemoveInt(n *Node, local string, v *int) {
	if v == nil {
		n.removeAttr(local)
		return
	}
	n.setAttr(local, strconv.Itoa(*v))
}

func setOrRemoveInt64(n *Node, local string, v *int64) {
	if v == nil {
		n.removeAttr(local)
		return
	}
	n.setAttr(local, strconv.FormatInt(*v, 10))
}
