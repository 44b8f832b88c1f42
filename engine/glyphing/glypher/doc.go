/*
Package glypher implements a home-grown shaper for easy cases where we can
afford to not rely on HarfBuzz.

A text-processing client follows a standard process to convert a string of
characters into positioned glyphs (see
https://docs.microsoft.com/en-us/typography/opentype/spec/ttochap1#text-processing-with-opentype-layout-fonts):

* Using the 'cmap' table in the font, the client converts the character codes into a string of glyph indices.

* Using information in the GSUB table, the client modifies the resulting string, substituting positional or vertical glyphs, ligatures, or other alternatives as appropriate.

* Using positioning information in the GPOS table and baseline offset information in the BASE table, the client then positions the glyphs.

The glypher does the first step only, and positions glyphs by their advance
plus pair kerning from the font's 'kern' table. Input is segmented into
grapheme clusters, each of which results in exactly one glyph. This suffices
for simple scripts like Latin, Greek or Cyrillic without combining marks.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package glypher

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hbrender.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("hbrender.glyphs")
}
