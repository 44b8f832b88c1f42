package glypher

import (
	"io"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/hbrender/engine/glyphing"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
)

// Shaper is a simple glyphing.Shaper, mapping grapheme clusters to glyphs
// one by one.
type Shaper struct{}

var _ glyphing.Shaper = Shaper{}

var graphemeClassesSetup sync.Once

// NewShaper creates a simple shaper.
func NewShaper() Shaper {
	graphemeClassesSetup.Do(grapheme.SetupGraphemeClasses)
	return Shaper{}
}

// Shape creates a glyph sequence from a text.
//
// Glyphs for right-to-left text are returned in visual order, i.e. reversed.
// Vertical directions are not supported.
// Kerning is on unless switched off by params.Features; other features are
// ignored.
func (sh Shaper) Shape(text io.RuneReader, buf []glyphing.ShapedGlyph, ctx [][]rune,
	params glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	tc := params.Font
	if tc == nil || tc.Closed() {
		return glyphing.GlyphSequence{}, core.Error(core.EINVALID, "shaping needs an open typecase")
	}
	if !params.Direction.IsHorizontal() {
		return glyphing.GlyphSequence{}, core.Error(core.EINVALID,
			"simple shaper cannot typeset in direction %s", params.Direction)
	}
	if text == nil {
		return glyphing.GlyphSequence{}, nil
	}
	seq := glyphing.GlyphSequence{Glyphs: buf[:0]}
	splitter := segment.NewSegmenter(grapheme.NewBreaker(1))
	splitter.Init(text)
	pos := 0 // position of grapheme in runes
	for splitter.Next() {
		grphm := splitter.Bytes()
		codepoint, _ := utf8.DecodeRune(grphm)
		gid, err := tc.GlyphIndex(codepoint)
		if err != nil {
			return seq, err
		}
		if gid == 0 {
			tracer().Infof("no glyph for %#U", codepoint)
		}
		adv, err := tc.GlyphAdvance(gid)
		if err != nil {
			return seq, err
		}
		seq.Glyphs = append(seq.Glyphs, glyphing.ShapedGlyph{
			ClusterID: pos,
			GID:       gid,
			XAdvance:  adv,
			CodePoint: codepoint,
		})
		pos += utf8.RuneCount(grphm)
	}
	if err := splitter.Err(); err != nil {
		return seq, core.WrapError(err, core.EINVALID, "cannot segment text")
	}
	if params.Direction == glyphing.RightToLeft {
		reverse(seq.Glyphs)
	}
	kern(&seq, params)
	seq.SumAdvances()
	return seq, nil
}

// kern applies pair kerning to visually adjacent glyphs, adjusting the
// advance of the left glyph of a pair.
func kern(seq *glyphing.GlyphSequence, params glyphing.Params) {
	for i := 1; i < len(seq.Glyphs); i++ {
		left, right := &seq.Glyphs[i-1], &seq.Glyphs[i]
		if !glyphing.Enabled(params.Features, glyphing.KernTag, right.ClusterID, true) {
			continue
		}
		if k := params.Font.Kern(left.GID, right.GID); k != 0 {
			tracer().Debugf("kerning %#U|%#U by %s", left.CodePoint, right.CodePoint, k)
			left.XAdvance += k
		}
	}
}

func reverse(glyphs []glyphing.ShapedGlyph) {
	for i, j := 0, len(glyphs)-1; i < j; i, j = i+1, j-1 {
		glyphs[i], glyphs[j] = glyphs[j], glyphs[i]
	}
}
