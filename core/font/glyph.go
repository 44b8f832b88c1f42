package font

import "sync"

// Glyph is a rasterized glyph: a coverage mask with one byte per pixel,
// stored row by row, plus the offset of the mask's top-left corner from
// the pen position.
//
// BearingX is the horizontal distance from the pen position to the left
// edge of the mask. BearingY is the distance from the baseline up to the
// top row of the mask (y-axis pointing upwards).
//
// Glyphs are owned by the client which requested them and must be
// released exactly once. Released glyphs have zero size.
type Glyph struct {
	GID      GlyphIndex
	Mask     []byte
	Width    int
	Height   int
	BearingX float64
	BearingY float64
	pooled   *[]byte
}

// Empty is true for glyphs without any pixels, e.g. for white space.
func (g *Glyph) Empty() bool {
	return g == nil || g.Width <= 0 || g.Height <= 0
}

// Coverage returns the coverage value of the mask at column x and row y.
// Out-of-range positions have coverage 0.
func (g *Glyph) Coverage(x, y int) uint8 {
	if g.Empty() || x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return 0
	}
	return g.Mask[y*g.Width+x]
}

// Release hands the glyph's mask back for re-use. Calling Release more
// than once has no effect.
func (g *Glyph) Release() {
	if g == nil {
		return
	}
	if g.pooled != nil {
		*g.pooled = g.Mask[:0]
		maskPool.Put(g.pooled)
	}
	*g = Glyph{}
}

var maskPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 4096)
		return &b
	},
}

// newGlyph creates a glyph with a zeroed mask of size w × h.
func newGlyph(gid GlyphIndex, w, h int) *Glyph {
	g := &Glyph{GID: gid, Width: w, Height: h}
	if w <= 0 || h <= 0 {
		g.Width, g.Height = 0, 0
		return g
	}
	bp := maskPool.Get().(*[]byte)
	if cap(*bp) < w*h {
		*bp = make([]byte, w*h)
	}
	g.Mask = (*bp)[:w*h]
	clear(g.Mask)
	g.pooled = bp
	return g
}
