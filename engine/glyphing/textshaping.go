/*
Package glyphing defines the interface to text shapers.

A shaper turns a run of Unicode code-points into a sequence of positioned
glyphs of a typecase. Positions and advances are given in 26.6 fixed point
pixels of the typecase's output device.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glyphing

import (
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/hbrender/core/dimen"
	"github.com/npillmayer/hbrender/core/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
)

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in.
const (
	LeftToRight Direction = iota
	RightToLeft
	TopToBottom
	BottomToTop
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "ltr"
	case RightToLeft:
		return "rtl"
	case TopToBottom:
		return "ttb"
	case BottomToTop:
		return "btt"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// IsHorizontal is true for left-to-right and right-to-left.
func (d Direction) IsHorizontal() bool {
	return d == LeftToRight || d == RightToLeft
}

// ParseDirection reads a direction from its short name ("ltr", "rtl", "ttb",
// "btt").
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ltr":
		return LeftToRight, nil
	case "rtl":
		return RightToLeft, nil
	case "ttb":
		return TopToBottom, nil
	case "btt":
		return BottomToTop, nil
	}
	return LeftToRight, core.Error(core.EINVALID, "unknown text direction %q", s)
}

// A ShapedGlyph is a glyph of a typecase together with its position
// relative to the pen, as the shaper has calculated it.
//
// XOffset and YOffset displace the glyph from the pen position, without
// moving the pen. XAdvance and YAdvance are the amount the pen moves
// after the glyph has been set. Both are in 26.6 pixels.
type ShapedGlyph struct {
	ClusterID int             // position of code-point(s) for this glyph in original string
	XAdvance  fixed.Int26_6   // advance after glyph has been set
	YAdvance  fixed.Int26_6   //
	XOffset   fixed.Int26_6   // displacement of glyph from the pen position
	YOffset   fixed.Int26_6   //
	GID       font.GlyphIndex // glyph index within font
	CodePoint rune            // code-point of first rune to produce this glyph
}

func (g ShapedGlyph) String() string {
	return fmt.Sprintf("(GID=%d, cluster=%d, advance=%.2f)", g.GID, g.ClusterID,
		dimen.ToPixels(g.XAdvance))
}

// A Shaper creates a sequence of glyphs from a sequence of
// Unicode code-points. Glyphs are taken from a font, given in a specific point-size.
//
// Clients may provide additional information in Params, as well as
// textual context ([2][]rune).
// Clients may provide a buffer to avoid allocating memory by Shape.
type Shaper interface {
	Shape(io.RuneReader, []ShapedGlyph, [][]rune, Params) (GlyphSequence, error)
}

// Params collects shaping parameters.
type Params struct {
	Font      *font.TypeCase  // use a font at a given point-size
	Direction Direction       // writing direction
	Script    language.Script // 4-letter ISO 15924 script identifier
	Language  language.Tag    // BCP 47 language tag
	Features  []FeatureRange  // OpenType features to apply
}

// GlyphSequence contains a sequence of shaped glyphs.
type GlyphSequence struct {
	Glyphs []ShapedGlyph // resulting sequence of glyphs
	W, H   fixed.Int26_6 // total advance in x and y
}

// Advance returns the total pen movement of the sequence.
func (seq GlyphSequence) Advance() (x fixed.Int26_6, y fixed.Int26_6) {
	return seq.W, seq.H
}

// Len returns the number of glyphs in the sequence.
func (seq GlyphSequence) Len() int {
	return len(seq.Glyphs)
}

// SumAdvances sums up the advances of all glyphs of seq and stores the
// result in seq.W and seq.H.
func (seq *GlyphSequence) SumAdvances() {
	seq.W, seq.H = 0, 0
	for _, g := range seq.Glyphs {
		seq.W += g.XAdvance
		seq.H += g.YAdvance
	}
}
