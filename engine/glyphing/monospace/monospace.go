package monospace

import (
	"io"
	"sync"
	"unicode/utf8"

	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/hbrender/engine/glyphing"
	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax11"
	"golang.org/x/image/math/fixed"
)

type msshape struct {
	em      fixed.Int26_6
	context *uax11.Context
}

var graphemeClassesSetup sync.Once

// Shaper creates a shaper for monospace typesetting.
// An em-dimension (cell width in 26.6 pixels) may be given which will then be
// used for shaping text. If it is zero, the advance of the digit '0' of the
// typecase in use will be taken. If context is nil, a context for Latin
// text is assumed.
func Shaper(em fixed.Int26_6, context *uax11.Context) glyphing.Shaper {
	graphemeClassesSetup.Do(grapheme.SetupGraphemeClasses)
	sh := &msshape{
		em:      em,
		context: context,
	}
	if context == nil {
		sh.context = uax11.LatinContext
	}
	return sh
}

// Shape creates a glyph sequence from a text.
func (ms *msshape) Shape(text io.RuneReader, buf []glyphing.ShapedGlyph, ctx [][]rune,
	p glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	if p.Font == nil || p.Font.Closed() {
		return glyphing.GlyphSequence{}, core.Error(core.EINVALID, "shaping needs an open typecase")
	}
	if text == nil {
		return glyphing.GlyphSequence{}, nil
	}
	em := ms.em
	if em == 0 {
		zero, err := p.Font.GlyphIndex('0')
		if err != nil {
			return glyphing.GlyphSequence{}, err
		}
		if em, err = p.Font.GlyphAdvance(zero); err != nil {
			return glyphing.GlyphSequence{}, err
		}
	}
	seq := glyphing.GlyphSequence{Glyphs: buf[:0]}
	splitter := segment.NewSegmenter(grapheme.NewBreaker(1))
	splitter.Init(text)
	pos := 0
	for splitter.Next() {
		grphm := splitter.Bytes()
		w := uax11.Width(grphm, ms.context)
		codepoint, _ := utf8.DecodeRune(grphm)
		gid, err := p.Font.GlyphIndex(codepoint)
		if err != nil {
			return seq, err
		}
		g := glyphing.ShapedGlyph{
			GID:       gid,
			ClusterID: pos,
			CodePoint: codepoint,
		}
		switch p.Direction {
		case glyphing.TopToBottom, glyphing.BottomToTop:
			g.YAdvance = fixed.Int26_6(w) * em
			if p.Direction == glyphing.TopToBottom { // y-axis points upwards
				g.YAdvance = -g.YAdvance
			}
		default:
			g.XAdvance = fixed.Int26_6(w) * em
		}
		seq.Glyphs = append(seq.Glyphs, g)
		pos += utf8.RuneCount(grphm)
	}
	if p.Direction == glyphing.RightToLeft {
		for i, j := 0, len(seq.Glyphs)-1; i < j; i, j = i+1, j-1 {
			seq.Glyphs[i], seq.Glyphs[j] = seq.Glyphs[j], seq.Glyphs[i]
		}
	}
	seq.SumAdvances()
	tracer().Debugf("monospace shaped %d clusters at cell width %s", len(seq.Glyphs), em)
	return seq, nil
}
