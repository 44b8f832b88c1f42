/*
Package gfx composites rasterized glyphs onto pixel surfaces.

Surfaces are plain *image.RGBA images. Glyph masks are added onto a surface
with saturating arithmetic, so overlapping glyphs accumulate coverage
instead of overwriting each other. Compositing always renders white-on-black:
coverage is added to all three color channels, and alpha becomes opaque.

Glyph positions are given in a coordinate system with the y-axis pointing
upwards, with the surface's bottom row at y = 0. The compositor flips them
to the surface's y-down pixel rows.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package gfx

import (
	"image"
	"math"

	"github.com/npillmayer/hbrender/core/font"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hbrender.gfx'.
func tracer() tracing.Trace {
	return tracing.Select("hbrender.gfx")
}

// Composite adds a glyph's coverage mask onto dst. The glyph is positioned
// at pen position (penX, penY), displaced by (xOffset, yOffset), all in
// pixels with the y-axis pointing upwards.
//
// Composite never fails: a nil surface, an empty glyph or a glyph placed
// completely outside of dst result in no changes to dst.
func Composite(dst *image.RGBA, g *font.Glyph, penX, penY, xOffset, yOffset float64) {
	if dst == nil || g.Empty() {
		return
	}
	x0, y0 := GlyphOrigin(dst, g, penX, penY, xOffset, yOffset)
	Blit(dst, g, x0, y0)
}

// GlyphOrigin calculates the position of the top-left corner of a glyph's
// mask in surface coordinates (y-axis pointing downwards).
//
// The vertical position is rounded down to whole pixels before it is
// flipped at the bottom edge of dst, which is the last row of dst.Rect.
func GlyphOrigin(dst *image.RGBA, g *font.Glyph, penX, penY, xOffset, yOffset float64) (x0, y0 float64) {
	x0 = penX + xOffset + g.BearingX
	y0 = math.Floor(penY + yOffset + g.BearingY)
	bottom := float64(dst.Rect.Max.Y - 1)
	return x0, bottom - y0
}

// Blit adds a glyph's coverage mask onto dst, with the top-left corner of the
// mask at (x0, y0) in surface coordinates. The mask is clipped to the bounds
// of dst.
//
// For every pixel covered, each color channel of dst is increased by the
// coverage value, saturating at 255. Alpha is set to 255.
func Blit(dst *image.RGBA, g *font.Glyph, x0, y0 float64) {
	if dst == nil || g.Empty() {
		return
	}
	// glyph area and bounds of dst, both with inclusive corners
	left := math.Max(x0, float64(dst.Rect.Min.X))
	top := math.Max(y0, float64(dst.Rect.Min.Y))
	right := math.Min(x0+float64(g.Width-1), float64(dst.Rect.Max.X-1))
	bottom := math.Min(y0+float64(g.Height-1), float64(dst.Rect.Max.Y-1))
	if left > right || top > bottom {
		return
	}
	ixmin, ixmax := int(left), int(right)
	iymin, iymax := int(top), int(bottom)
	gx0 := int(left - x0) // glyph column corresponding to ixmin
	gy := int(top - y0)   // glyph row corresponding to iymin
	for iy := iymin; iy <= iymax && gy < g.Height; iy++ {
		row := g.Mask[gy*g.Width : (gy+1)*g.Width]
		p := dst.PixOffset(ixmin, iy)
		for ix, gx := ixmin, gx0; ix <= ixmax && gx < g.Width; ix, gx = ix+1, gx+1 {
			c := row[gx]
			pix := dst.Pix[p : p+4 : p+4]
			pix[0] = addSaturated(pix[0], c)
			pix[1] = addSaturated(pix[1], c)
			pix[2] = addSaturated(pix[2], c)
			pix[3] = 255
			p += 4
		}
		gy++
	}
}

func addSaturated(a, b uint8) uint8 {
	if s := uint16(a) + uint16(b); s < 255 {
		return uint8(s)
	}
	return 255
}
