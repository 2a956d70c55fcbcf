package pptx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseFragment parses a DrawingML fragment and returns its first element.
func parseFragment(t *testing.T, inner string) *Node {
	t.Helper()
	doc := fmt.Sprintf(`<root xmlns:a=%q xmlns:r=%q xmlns:p=%q>%s</root>`, nsA, nsR, nsP, inner)
	root, err := parseXML([]byte(doc))
	require.NoError(t, err)
	require.NotEmpty(t, root.Children)
	return root.Children[0]
}

func TestRunPropsRoundTrip(t *testing.T) {
	node := parseFragment(t, `<a:r><a:rPr sz="2400" b="1" i="0" u="sng"><a:solidFill><a:srgbClr val="FF00AA"/></a:solidFill><a:highlight><a:srgbClr val="FFFF00"/></a:highlight><a:latin typeface="Calibri"/></a:rPr><a:t>styled</a:t></a:r>`)
	props := ExtractRunProps(&Run{node: node})

	require.NotNil(t, props.Size)
	assert.Equal(t, 2400, *props.Size)
	require.NotNil(t, props.Bold)
	assert.True(t, *props.Bold)
	require.NotNil(t, props.Italic)
	assert.False(t, *props.Italic)
	require.NotNil(t, props.Underline)
	assert.Equal(t, "sng", *props.Underline)
	require.NotNil(t, props.Name)
	assert.Equal(t, "Calibri", *props.Name)
	require.NotNil(t, props.Color.RGB)
	assert.Equal(t, "FF00AA", props.Color.RGB.Hex())
	require.NotNil(t, props.Fill.RGB)
	assert.Equal(t, "FFFF00", props.Fill.RGB.Hex())

	fresh := newRun()
	fresh.SetText("styled")
	ApplyRunProps(fresh, props)
	assert.Equal(t, props, ExtractRunProps(fresh))
	assert.Equal(t, "rPr", fresh.node.Children[0].Name.Local, "rPr must come before the text element")
}

func TestRunPropsAbsent(t *testing.T) {
	node := parseFragment(t, `<a:r><a:t>plain</a:t></a:r>`)
	props := ExtractRunProps(&Run{node: node})
	assert.Equal(t, RunProps{}, props)

	fresh := newRun()
	fresh.SetText("plain")
	ApplyRunProps(fresh, props)
	rPr := fresh.node.child("rPr")
	require.NotNil(t, rPr)
	assert.Empty(t, rPr.Attrs, "absent properties must not be invented")
	assert.Empty(t, rPr.Children)
}

func TestParagraphPropsRoundTrip(t *testing.T) {
	node := parseFragment(t, `<a:p><a:pPr algn="ctr" lvl="2"><a:lnSpc><a:spcPct val="150000"/></a:lnSpc><a:spcBef><a:spcPts val="600"/></a:spcBef><a:spcAft><a:spcPts val="300"/></a:spcAft></a:pPr><a:r><a:t>x</a:t></a:r></a:p>`)
	para := &Paragraph{node: node}
	props := ExtractParagraphProps(para)

	require.NotNil(t, props.Alignment)
	assert.Equal(t, "ctr", *props.Alignment)
	require.NotNil(t, props.Level)
	assert.Equal(t, 2, *props.Level)
	require.NotNil(t, props.LineSpacing)
	assert.Equal(t, 150000, *props.LineSpacing.Percent)
	require.NotNil(t, props.SpaceBefore)
	assert.Equal(t, 600, *props.SpaceBefore.Points)
	require.NotNil(t, props.SpaceAfter)
	assert.Equal(t, 300, *props.SpaceAfter.Points)

	fresh := parseFragment(t, `<a:p><a:r><a:t>x</a:t></a:r></a:p>`)
	ApplyParagraphProps(&Paragraph{node: fresh}, props)
	assert.Equal(t, props, ExtractParagraphProps(&Paragraph{node: fresh}))

	pPr := fresh.child("pPr")
	require.NotNil(t, pPr)
	assert.Equal(t, "pPr", fresh.Children[0].Name.Local)
	locals := []string{pPr.Children[0].Name.Local, pPr.Children[1].Name.Local, pPr.Children[2].Name.Local}
	assert.Equal(t, []string{"lnSpc", "spcBef", "spcAft"}, locals, "spacing children keep schema order")
}

func TestParagraphPropsEmptySnapshotAddsNothing(t *testing.T) {
	fresh := parseFragment(t, `<a:p><a:r><a:t>x</a:t></a:r></a:p>`)
	ApplyParagraphProps(&Paragraph{node: fresh}, ParagraphProps{})
	assert.Nil(t, fresh.child("pPr"))
}

func TestTextFramePropsRoundTrip(t *testing.T) {
	node := parseFragment(t, `<p:txBody><a:bodyPr lIns="91440" rIns="91440" tIns="45720" bIns="45720" anchor="ctr" wrap="none"><a:normAutofit/></a:bodyPr><a:p/></p:txBody>`)
	tf := &TextFrame{node: node}
	props := ExtractTextFrameProps(tf)

	require.NotNil(t, props.MarginLeft)
	assert.Equal(t, int64(91440), *props.MarginLeft)
	require.NotNil(t, props.MarginTop)
	assert.Equal(t, int64(45720), *props.MarginTop)
	require.NotNil(t, props.VerticalAnchor)
	assert.Equal(t, "ctr", *props.VerticalAnchor)
	require.NotNil(t, props.WordWrap)
	assert.Equal(t, "none", *props.WordWrap)
	assert.Equal(t, AutoSizeTextToFitShape, props.AutoSize)

	fresh := parseFragment(t, `<p:txBody><a:bodyPr/><a:p/></p:txBody>`)
	ApplyTextFrameProps(&TextFrame{node: fresh}, props)
	assert.Equal(t, props, ExtractTextFrameProps(&TextFrame{node: fresh}))
}

func TestTextFramePropsAutofitReplaced(t *testing.T) {
	fresh := parseFragment(t, `<p:txBody><a:bodyPr><a:noAutofit/></a:bodyPr><a:p/></p:txBody>`)
	tf := &TextFrame{node: fresh}

	ApplyTextFrameProps(tf, TextFrameProps{AutoSize: AutoSizeShapeToFitText})
	bodyPr := fresh.child("bodyPr")
	assert.Nil(t, bodyPr.child("noAutofit"))
	assert.NotNil(t, bodyPr.child("spAutoFit"))

	ApplyTextFrameProps(tf, TextFrameProps{})
	assert.Nil(t, bodyPr.child("spAutoFit"), "an unset snapshot clears the autofit element")
}

func TestColorSpecExtract(t *testing.T) {
	t.Run("literal rgb", func(t *testing.T) {
		fill := parseFragment(t, `<a:solidFill><a:srgbClr val="336699"/></a:solidFill>`)
		spec := extractColorSpec(fill)
		require.NotNil(t, spec.RGB)
		assert.Equal(t, "336699", spec.RGB.Hex())
		assert.Empty(t, spec.Theme)
	})

	t.Run("theme with positive brightness", func(t *testing.T) {
		fill := parseFragment(t, `<a:solidFill><a:schemeClr val="accent1"><a:lumMod val="60000"/><a:lumOff val="40000"/></a:schemeClr></a:solidFill>`)
		spec := extractColorSpec(fill)
		assert.Nil(t, spec.RGB)
		assert.Equal(t, ThemeColorAccent1, spec.Theme)
		require.NotNil(t, spec.Brightness)
		assert.InDelta(t, 0.4, *spec.Brightness, 1e-9)
	})

	t.Run("theme with negative brightness", func(t *testing.T) {
		fill := parseFragment(t, `<a:solidFill><a:schemeClr val="accent2"><a:lumMod val="75000"/></a:schemeClr></a:solidFill>`)
		spec := extractColorSpec(fill)
		assert.Equal(t, ThemeColorAccent2, spec.Theme)
		require.NotNil(t, spec.Brightness)
		assert.InDelta(t, -0.25, *spec.Brightness, 1e-9)
	})

	t.Run("empty fill", func(t *testing.T) {
		fill := parseFragment(t, `<a:solidFill/>`)
		assert.True(t, extractColorSpec(fill).IsZero())
	})
}

func TestColorSpecApply(t *testing.T) {
	t.Run("rgb wins over theme", func(t *testing.T) {
		rgb := RGBColor{0x11, 0x22, 0x33}
		b := 0.5
		fill := elem("solidFill")
		err := applyColorSpec(fill, ColorSpec{RGB: &rgb, Theme: ThemeColorAccent1, Brightness: &b})
		require.NoError(t, err)
		require.NotNil(t, fill.child("srgbClr"))
		val, _ := fill.child("srgbClr").attr("val")
		assert.Equal(t, "112233", val)
		assert.Nil(t, fill.child("schemeClr"))
	})

	t.Run("theme brightness round trip", func(t *testing.T) {
		for _, b := range []float64{0.4, -0.25, 0} {
			brightness := b
			fill := elem("solidFill")
			err := applyColorSpec(fill, ColorSpec{Theme: ThemeColorAccent3, Brightness: &brightness})
			require.NoError(t, err)

			spec := extractColorSpec(fill)
			assert.Equal(t, ThemeColorAccent3, spec.Theme)
			require.NotNil(t, spec.Brightness)
			assert.InDelta(t, b, *spec.Brightness, 1e-9)
		}
	})

	t.Run("sentinel is a no-op", func(t *testing.T) {
		fill := parseFragment(t, `<a:solidFill><a:srgbClr val="ABCDEF"/></a:solidFill>`)
		err := applyColorSpec(fill, ColorSpec{Theme: NotThemeColor})
		require.NoError(t, err)
		val, _ := fill.child("srgbClr").attr("val")
		assert.Equal(t, "ABCDEF", val, "the existing color stays")
	})

	t.Run("brightness out of range", func(t *testing.T) {
		b := 1.5
		fill := elem("solidFill")
		err := applyColorSpec(fill, ColorSpec{Theme: ThemeColorAccent1, Brightness: &b})
		assert.Error(t, err)
	})
}

func TestParseRGB(t *testing.T) {
	rgb, ok := parseRGB("0A1B2C")
	require.True(t, ok)
	assert.Equal(t, RGBColor{0x0A, 0x1B, 0x2C}, rgb)

	for _, bad := range []string{"", "FFF", "GGGGGG", "AABBCCDD"} {
		_, ok := parseRGB(bad)
		assert.False(t, ok, "%q should not parse", bad)
	}
}
