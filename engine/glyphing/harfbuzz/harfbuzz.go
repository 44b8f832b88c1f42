/*
Package harfbuzz uses HarfBuzz to convert text to sequences of glyphs.

We use the pure Go port of HarfBuzz by Benoit Kugler. HarfBuzz works on
fonts scaled to the pixels per em of a typecase, which makes it output
advances and offsets as 26.6 pixels.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package harfbuzz

import (
	"bytes"
	"encoding/binary"
	"io"
	"sync"
	"unicode"

	hbtt "github.com/benoitkugler/textlayout/fonts/truetype"
	hb "github.com/benoitkugler/textlayout/harfbuzz"
	hblang "github.com/benoitkugler/textlayout/language"
	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/hbrender/core/font"
	"github.com/npillmayer/hbrender/engine/glyphing"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/language"
)

// tracer traces with key 'hbrender.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("hbrender.glyphs")
}

// --- Type conversion -------------------------------------------------------

// Lang4HB returns a language tag as a HarfBuzz language.
func Lang4HB(l language.Tag) hblang.Language {
	return hblang.NewLanguage(l.String())
}

// Script4HB returns a script as a HarfBuzz script.
func Script4HB(s language.Script) hblang.Script {
	b := []byte(s.String())
	b[0] = byte(unicode.ToLower(rune(b[0])))
	h := binary.BigEndian.Uint32(b)
	return hblang.Script(h)
}

// Direction4HB translates a direction to a HarfBuzz direction.
func Direction4HB(d glyphing.Direction) hb.Direction {
	switch d {
	case glyphing.LeftToRight:
		return hb.LeftToRight
	case glyphing.RightToLeft:
		return hb.RightToLeft
	case glyphing.TopToBottom:
		return hb.TopToBottom
	case glyphing.BottomToTop:
		return hb.BottomToTop
	}
	return hb.LeftToRight
}

// Feature4HB makes a typecast from an OpenType feature tag to a HarfBuzz truetype tag.
func Feature4HB(t glyphing.Tag) hbtt.Tag {
	return hbtt.Tag(t)
}

// FeatureRange4HB converts a feature range struct to a HarfBuzz Feature switch.
func FeatureRange4HB(frng glyphing.FeatureRange) hb.Feature {
	return hb.Feature{
		Tag:   Feature4HB(frng.Feature),
		Value: frng.Value(),
		Start: frng.Start,
		End:   frng.End,
	}
}

// --- Shaper ----------------------------------------------------------------

// Shaper is a glyphing.Shaper backed by HarfBuzz. It holds one HarfBuzz
// font per scalable font it has seen, so fonts are parsed only once.
//
// A Shaper may be used from multiple goroutines.
type Shaper struct {
	mx    sync.Mutex
	fonts map[*font.ScalableFont]*hb.Font
}

var _ glyphing.Shaper = (*Shaper)(nil)

// NewShaper creates a HarfBuzz shaper.
func NewShaper() *Shaper {
	return &Shaper{
		fonts: make(map[*font.ScalableFont]*hb.Font),
	}
}

// hbFont returns the HarfBuzz font for a scalable font, parsing it on
// first use. Must be called with s.mx held.
func (s *Shaper) hbFont(sf *font.ScalableFont) (*hb.Font, error) {
	if f, ok := s.fonts[sf]; ok {
		return f, nil
	}
	face, err := hbtt.Parse(bytes.NewReader(sf.Binary), true)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "HarfBuzz cannot parse font %s", sf.Fontname)
	}
	f := hb.NewFont(face)
	s.fonts[sf] = f
	tracer().Debugf("created HarfBuzz font for %s", sf.Fontname)
	return f, nil
}

// Shape calls the HarfBuzz shaper.
//
// Shape shapes a sequence of code-points (runes), turning its Unicode characters to
// positioned glyphs. It will select a shape plan based on params, including the
// selected font, and the properties of the input text. If params carry no script,
// it is taken from the first rune with a distinct script. Language defaults to
// the locale's language.
//
// If `params.Features` is not empty, it will be used to control the
// features applied during shaping. If two features have the same tag but
// overlapping ranges the value of the feature with the higher index takes
// precedence.
//
// params.Font must be set and open, otherwise an error is returned.
//
// Clients may provide `buf` to avoid allocating memory by Shape. Shape will wrap it
// into the GlyphSequence returned.
func (s *Shaper) Shape(text io.RuneReader, buf []glyphing.ShapedGlyph, context [][]rune,
	params glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	if params.Font == nil || params.Font.Closed() {
		return glyphing.GlyphSequence{}, core.Error(core.EINVALID, "shaping needs an open typecase")
	}
	if text == nil {
		return glyphing.GlyphSequence{}, nil
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	hbFont, err := s.hbFont(params.Font.ScalableFontParent())
	if err != nil {
		return glyphing.GlyphSequence{}, err
	}
	ppemX, ppemY := params.Font.PPEM()
	hbFont.XScale = int32(ppemX)
	hbFont.YScale = int32(ppemY)
	// Prepare shaping parameters
	features := make([]hb.Feature, 0, len(params.Features))
	for _, feat := range params.Features {
		features = append(features, FeatureRange4HB(feat))
	}
	// Prepare HarfBuzz buffer
	hbBuf := hb.NewBuffer()
	convertParams(&hbBuf.Props, params)
	runes, offset, length := bufferText(text, context)
	hbBuf.AddRunes(runes, offset, length)
	if hbBuf.Props.Script == 0 {
		hbBuf.Props.Script = guessScript(runes[offset : offset+length])
	}
	if hbBuf.Props.Language == "" {
		hbBuf.Props.Language = hblang.DefaultLanguage()
	}
	hbBuf.Shape(hbFont, features)
	// Prepare shaped output
	n := len(hbBuf.Info)
	if cap(buf) < n {
		buf = make([]glyphing.ShapedGlyph, n)
	}
	buf = buf[:n]
	seq := glyphing.GlyphSequence{
		Glyphs: buf,
	}
	// move HarfBuzz output to glyph sequence output
	for i, ginfo := range hbBuf.Info {
		gpos := &hbBuf.Pos[i]
		g := &buf[i]
		*g = glyphing.ShapedGlyph{
			ClusterID: ginfo.Cluster - offset,
			GID:       font.GlyphIndex(ginfo.Glyph),
			XAdvance:  fixed.Int26_6(gpos.XAdvance),
			YAdvance:  fixed.Int26_6(gpos.YAdvance),
			XOffset:   fixed.Int26_6(gpos.XOffset),
			YOffset:   fixed.Int26_6(gpos.YOffset),
		}
		if ginfo.Cluster >= 0 && ginfo.Cluster < len(runes) {
			g.CodePoint = runes[ginfo.Cluster]
		}
		tracer().Debugf("[%3d] %s", i, g)
	}
	seq.SumAdvances()
	return seq, nil
}

// convertParams is a helper function to convert glyphing parameters to
// HarfBuzz's format.
func convertParams(hbProps *hb.SegmentProperties, params glyphing.Params) {
	if params.Language != language.Und {
		hbProps.Language = Lang4HB(params.Language)
	}
	var none language.Script
	if params.Script != none {
		hbProps.Script = Script4HB(params.Script)
	}
	hbProps.Direction = Direction4HB(params.Direction)
}

// guessScript returns the script of the first rune which is not common to
// several scripts, or 0 if there is none.
func guessScript(runes []rune) hblang.Script {
	for _, r := range runes {
		switch script := hblang.LookupScript(r); script {
		case hblang.Common, hblang.Inherited, hblang.Unknown:
			continue
		default:
			return script
		}
	}
	return 0
}

// bufferText collects the input text of a call to Shape(…) as a slice of runes.
// To conform to HarfBuzz's API, context is pre-/appended to the input runes.
//
// bufferText returns the start position of the input within the returned slice,
// together with the input's length (= rune count).
func bufferText(text io.RuneReader, context [][]rune) (runes []rune, off int, length int) {
	runes = make([]rune, 0, 64)
	if len(context) > 0 && len(context[0]) > 0 {
		runes = append(runes, context[0]...)
		off = len(context[0])
	}
	for {
		r, sz, err := text.ReadRune()
		if sz == 0 || err != nil {
			break
		}
		length++
		runes = append(runes, r)
	}
	if len(context) > 1 && len(context[1]) > 0 {
		runes = append(runes, context[1]...)
	}
	return runes, off, length
}
