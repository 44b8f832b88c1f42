package font

import (
	"image"
	"image/draw"
	"math"

	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/hbrender/core/dimen"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Rasterize renders the outline of glyph gid into a coverage mask.
// The mask is sized to the whole pixels touched by the outline. Glyphs
// without an outline, e.g. white space, result in an empty glyph, which is
// not an error.
//
// The returned glyph must be released by the caller.
func (tc *TypeCase) Rasterize(gid GlyphIndex) (*Glyph, error) {
	if err := tc.checkOpen(); err != nil {
		return nil, err
	}
	f := tc.scalableFontParent.SFNT
	if int(gid) >= f.NumGlyphs() {
		return nil, core.Error(core.EMISSING, "glyph index %d out of range [0…%d)", gid, f.NumGlyphs())
	}
	segments, err := f.LoadGlyph(&tc.buf, sfnt.GlyphIndex(gid), tc.ppemY, nil)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot load outline of glyph %d", gid)
	}
	if len(segments) == 0 {
		return newGlyph(gid, 0, 0), nil
	}
	// outlines are scaled for the vertical resolution; stretch them
	// horizontally if the device has non-square pixels
	sx := float64(tc.hdpi) / float64(tc.vdpi)
	bounds := segments.Bounds()
	minX := int(math.Floor(dimen.ToPixels(bounds.Min.X) * sx))
	maxX := int(math.Ceil(dimen.ToPixels(bounds.Max.X) * sx))
	minY := bounds.Min.Y.Floor()
	maxY := bounds.Max.Y.Ceil()
	glyph := newGlyph(gid, maxX-minX, maxY-minY)
	if glyph.Empty() {
		return glyph, nil
	}
	glyph.BearingX = float64(minX)
	glyph.BearingY = float64(-minY) // outline y-axis points downwards
	//
	tc.rasterizer.Reset(glyph.Width, glyph.Height)
	tc.rasterizer.DrawOp = draw.Src
	coords := func(p fixed.Point26_6) (float32, float32) {
		x := dimen.ToPixels(p.X)*sx - float64(minX)
		y := dimen.ToPixels(p.Y) - float64(minY)
		return float32(x), float32(y)
	}
	for i, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if i > 0 {
				tc.rasterizer.ClosePath()
			}
			tc.rasterizer.MoveTo(coords(seg.Args[0]))
		case sfnt.SegmentOpLineTo:
			tc.rasterizer.LineTo(coords(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			cx, cy := coords(seg.Args[0])
			x, y := coords(seg.Args[1])
			tc.rasterizer.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := coords(seg.Args[0])
			c2x, c2y := coords(seg.Args[1])
			x, y := coords(seg.Args[2])
			tc.rasterizer.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	tc.rasterizer.ClosePath()
	mask := &image.Alpha{
		Pix:    glyph.Mask,
		Stride: glyph.Width,
		Rect:   image.Rect(0, 0, glyph.Width, glyph.Height),
	}
	// the source is uniform, so the source point is irrelevant
	tc.rasterizer.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	tracer().Debugf("rasterized glyph %d: %dx%d, bearing (%g,%g)", gid,
		glyph.Width, glyph.Height, glyph.BearingX, glyph.BearingY)
	return glyph, nil
}
