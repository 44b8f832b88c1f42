/*
Package monospace implements a simple shaper for monospace output.

Every grapheme cluster is set in a cell of fixed width, or in two cells for
East Asian wide characters. The glyph is taken from the typecase, but its
advance is ignored.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package monospace

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'hbrender.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("hbrender.glyphs")
}
