package font

import (
	"fmt"

	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/hbrender/core/dimen"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Limits for font sizes, in points.
const (
	MinPtSize = 1
	MaxPtSize = 1000
)

// TypeCase is a scalable font bound to a point size and an output device
// resolution. Horizontal and vertical resolution may differ.
//
// A TypeCase is not safe for concurrent use. Clients should call Close
// when they are done with it.
type TypeCase struct {
	scalableFontParent *ScalableFont
	ptSize             fixed.Int26_6 // size in points
	hdpi, vdpi         int           // device resolution
	ppemX, ppemY       fixed.Int26_6 // pixels per em
	buf                sfnt.Buffer
	rasterizer         vector.Rasterizer
	closed             bool
}

// PrepareCase creates a typecase from a scalable font. ptSize is the font
// size in 26.6 points, hdpi and vdpi the horizontal and vertical resolution
// of the output device.
func (sf *ScalableFont) PrepareCase(ptSize fixed.Int26_6, hdpi, vdpi int) (*TypeCase, error) {
	if sf == nil || sf.SFNT == nil {
		return nil, core.Error(core.EINVALID, "cannot prepare typecase from null font")
	}
	if ptSize < dimen.FromPoints(MinPtSize) || ptSize > dimen.FromPoints(MaxPtSize) {
		return nil, core.Error(core.EINVALID, "font size must be %dpt <= size <= %dpt, is %s",
			MinPtSize, MaxPtSize, ptSize)
	}
	if hdpi <= 0 || vdpi <= 0 {
		return nil, core.Error(core.EINVALID, "device resolution must be positive, is %dx%d",
			hdpi, vdpi)
	}
	typecase := &TypeCase{
		scalableFontParent: sf,
		ptSize:             ptSize,
		hdpi:               hdpi,
		vdpi:               vdpi,
		ppemX:              dimen.PPEM(ptSize, hdpi),
		ppemY:              dimen.PPEM(ptSize, vdpi),
	}
	tracer().Debugf("prepared typecase %s", typecase)
	return typecase, nil
}

func (tc *TypeCase) String() string {
	return fmt.Sprintf("%s@%gpt[%dx%d dpi]", tc.scalableFontParent.Fontname,
		dimen.ToPixels(tc.ptSize), tc.hdpi, tc.vdpi)
}

// ScalableFontParent returns the font this typecase is derived from.
func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

// PtSize returns the font size in points.
func (tc *TypeCase) PtSize() float64 {
	return dimen.ToPixels(tc.ptSize)
}

// DPI returns the horizontal and vertical device resolution.
func (tc *TypeCase) DPI() (int, int) {
	return tc.hdpi, tc.vdpi
}

// PPEM returns the horizontal and vertical pixels per em in 26.6.
func (tc *TypeCase) PPEM() (fixed.Int26_6, fixed.Int26_6) {
	return tc.ppemX, tc.ppemY
}

// Encoding returns the character map scheme of the underlying font.
func (tc *TypeCase) Encoding() Encoding {
	return tc.scalableFontParent.Encoding
}

// Closed is true after Close has been called.
func (tc *TypeCase) Closed() bool {
	return tc.closed
}

// Close releases the typecase. Subsequent calls to methods which access
// font data will return an error.
func (tc *TypeCase) Close() error {
	if tc.closed {
		return nil
	}
	tracer().Debugf("releasing typecase %s", tc)
	tc.closed = true
	tc.buf = sfnt.Buffer{}
	tc.rasterizer = vector.Rasterizer{}
	return nil
}

func (tc *TypeCase) checkOpen() error {
	if tc == nil || tc.closed {
		return core.Error(core.EINVALID, "typecase is closed")
	}
	return nil
}

// GlyphIndex returns the glyph index for a rune, using the font's encoding.
// A glyph index of 0 denotes a missing glyph.
func (tc *TypeCase) GlyphIndex(r rune) (GlyphIndex, error) {
	if err := tc.checkOpen(); err != nil {
		return 0, err
	}
	gid, err := tc.scalableFontParent.SFNT.GlyphIndex(&tc.buf, encode(r, tc.Encoding()))
	if err != nil {
		return 0, core.WrapError(err, core.ECHARMAP, "cannot look up glyph for %#U", r)
	}
	return GlyphIndex(gid), nil
}

// GlyphAdvance returns the horizontal advance of a glyph in 26.6 pixels.
func (tc *TypeCase) GlyphAdvance(gid GlyphIndex) (fixed.Int26_6, error) {
	if err := tc.checkOpen(); err != nil {
		return 0, err
	}
	adv, err := tc.scalableFontParent.SFNT.GlyphAdvance(&tc.buf, sfnt.GlyphIndex(gid),
		tc.ppemX, xfont.HintingNone)
	if err != nil {
		return 0, core.WrapError(err, core.EMISSING, "no advance for glyph %d", gid)
	}
	return adv, nil
}

// Kern returns the horizontal kerning adjustment for a pair of glyphs in
// 26.6 pixels. Fonts without a kern table yield 0.
func (tc *TypeCase) Kern(left, right GlyphIndex) fixed.Int26_6 {
	if tc.checkOpen() != nil {
		return 0
	}
	k, err := tc.scalableFontParent.SFNT.Kern(&tc.buf, sfnt.GlyphIndex(left),
		sfnt.GlyphIndex(right), tc.ppemX, xfont.HintingNone)
	if err != nil {
		return 0
	}
	return k
}

// Metrics returns the vertical font metrics at this typecase's size.
func (tc *TypeCase) Metrics() (xfont.Metrics, error) {
	if err := tc.checkOpen(); err != nil {
		return xfont.Metrics{}, err
	}
	m, err := tc.scalableFontParent.SFNT.Metrics(&tc.buf, tc.ppemY, xfont.HintingNone)
	if err != nil {
		return xfont.Metrics{}, core.WrapError(err, core.EINVALID, "cannot read font metrics")
	}
	return m, nil
}

// LineHeight returns the recommended baseline-to-baseline distance in
// pixels. If metrics are not available, it falls back to 1.2 em.
func (tc *TypeCase) LineHeight() float64 {
	m, err := tc.Metrics()
	if err != nil || m.Height <= 0 {
		return 1.2 * dimen.ToPixels(tc.ppemY)
	}
	return dimen.ToPixels(m.Height)
}

// Ascent returns the distance from the top of a line to its baseline in
// pixels.
func (tc *TypeCase) Ascent() float64 {
	m, err := tc.Metrics()
	if err != nil {
		return dimen.ToPixels(tc.ppemY)
	}
	return dimen.ToPixels(m.Ascent)
}
