package pptx

import (
	"fmt"
	"strconv"
)

// ThemeColor identifies an entry of the document-wide color palette.
type ThemeColor string

// Theme color values as they appear in schemeClr elements.
const (
	// NotThemeColor is the sentinel for "no theme color recorded";
	// applying it is a no-op.
	NotThemeColor ThemeColor = "none"

	ThemeColorAccent1     ThemeColor = "accent1"
	ThemeColorAccent2     ThemeColor = "accent2"
	ThemeColorAccent3     ThemeColor = "accent3"
	ThemeColorAccent4     ThemeColor = "accent4"
	ThemeColorAccent5     ThemeColor = "accent5"
	ThemeColorAccent6     ThemeColor = "accent6"
	ThemeColorDark1       ThemeColor = "dk1"
	ThemeColorDark2       ThemeColor = "dk2"
	ThemeColorLight1      ThemeColor = "lt1"
	ThemeColorLight2      ThemeColor = "lt2"
	ThemeColorHyperlink   ThemeColor = "hlink"
	ThemeColorFollowed    ThemeColor = "folHlink"
	ThemeColorText1       ThemeColor = "tx1"
	ThemeColorText2       ThemeColor = "tx2"
	ThemeColorBackground1 ThemeColor = "bg1"
	ThemeColorBackground2 ThemeColor = "bg2"
)

// RGBColor is a literal color value.
type RGBColor [3]uint8

// Hex returns the six-digit uppercase hex form used in srgbClr elements.
func (c RGBColor) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c[0], c[1], c[2])
}

// parseRGB parses a six-digit hex color value.
func parseRGB(hex string) (RGBColor, bool) {
	if len(hex) != 6 {
		return RGBColor{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGBColor{}, false
	}
	return RGBColor{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
}

// ColorSpec is the tagged snapshot of one color: a literal RGB value, a
// theme color reference with optional brightness, or unset. When both
// are recorded, RGB is authoritative on reapplication.
type ColorSpec struct {
	RGB        *RGBColor
	Theme      ThemeColor // empty string means absent
	Brightness *float64   // -1.0 .. 1.0, only meaningful with Theme
}

// IsZero reports whether no color is recorded at all.
func (c ColorSpec) IsZero() bool {
	return c.RGB == nil && c.Theme == ""
}

const lumScale = 100000 // schemeClr luminance values are in 1000ths of a percent

// extractColorSpec reads a color from a fill parent (a:solidFill or
// a:highlight). Missing children yield an absent spec, never an error.
func extractColorSpec(fill *Node) ColorSpec {
	var spec ColorSpec
	if fill == nil {
		return spec
	}

	if srgb := fill.child("srgbClr"); srgb != nil {
		if hex, ok := srgb.attr("val"); ok {
			if rgb, ok := parseRGB(hex); ok {
				spec.RGB = &rgb
			}
		}
		return spec
	}

	scheme := fill.child("schemeClr")
	if scheme == nil {
		return spec
	}
	val, ok := scheme.attr("val")
	if !ok {
		return spec
	}
	spec.Theme = ThemeColor(val)

	// Brightness follows the lumMod/lumOff convention: a positive
	// brightness is recorded as lumOff, a negative one as lumMod below
	// full luminance.
	if lumOff := scheme.child("lumOff"); lumOff != nil {
		if v, ok := lumOff.attr("val"); ok {
			if n, err := strconv.Atoi(v); err == nil {
				b := float64(n) / lumScale
				spec.Brightness = &b
			}
		}
	} else if lumMod := scheme.child("lumMod"); lumMod != nil {
		if v, ok := lumMod.attr("val"); ok {
			if n, err := strconv.Atoi(v); err == nil {
				b := float64(n)/lumScale - 1.0
				spec.Brightness = &b
			}
		}
	}
	return spec
}

// applyColorSpec writes a recorded color back into a fill parent,
// replacing any color children. RGB takes precedence over the theme
// color; the NotThemeColor sentinel and the absent spec leave whatever
// color the fresh run already has.
func applyColorSpec(fill *Node, spec ColorSpec) error {
	if fill == nil {
		return fmt.Errorf("no fill element to apply color to")
	}

	if spec.RGB != nil {
		fill.removeChildren("schemeClr")
		fill.removeChildren("srgbClr")
		srgb := elem("srgbClr")
		srgb.setAttr("val", spec.RGB.Hex())
		fill.Children = append(fill.Children, srgb)
		return nil
	}

	if spec.Theme == "" || spec.Theme == NotThemeColor {
		return nil
	}

	fill.removeChildren("srgbClr")
	fill.removeChildren("schemeClr")
	scheme := elem("schemeClr")
	scheme.setAttr("val", string(spec.Theme))
	if spec.Brightness != nil {
		b := *spec.Brightness
		if b < -1.0 || b > 1.0 {
			return fmt.Errorf("brightness %v out of range", b)
		}
		if b >= 0 {
			lumMod := elem("lumMod")
			lumMod.setAttr("val", strconv.Itoa(int((1.0-b)*lumScale)))
			lumOff := elem("lumOff")
			lumOff.setAttr("val", strconv.Itoa(int(b*lumScale)))
			scheme.Children = append(scheme.Children, lumMod, lumOff)
		} else {
			lumMod := elem("lumMod")
			lumMod.setAttr("val", strconv.Itoa(int((1.0+b)*lumScale)))
			scheme.Children = append(scheme.Children, lumMod)
		}
	}
	fill.Children = append(fill.Children, scheme)
	return nil
}
