/*
Package font is for typeface and font handling.

There is a certain confusion in the nomenclature of typesetting. We will
stick to the following definitions:

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

* A "typecase" is a scaled font, i.e. a font in a certain size for
a certain output device resolution. The name is reminiscend on the wooden
boxes of typesetters in the aera of metal type.
An example is "Helvetica regular 11pt at 300 dpi".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner. A typecase is
what FreeType and HarfBuzz call a face.

A typecase is able to rasterize glyphs, given by their glyph index, to
coverage masks. Glyphs are handed out to clients, which must release them
after use.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package font

import (
	"os"
	"strings"
	"sync"

	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
)

// tracer writes to trace with key 'hbrender.font'
func tracer() tracing.Trace {
	return tracing.Select("hbrender.font")
}

// GlyphIndex is the index of a glyph within a font's glyph table.
type GlyphIndex uint16

// Encoding is the character map scheme a font is accessed with.
type Encoding int

const (
	// EncodingUnicode denotes a Unicode character map (UCS-2 or UCS-4).
	EncodingUnicode Encoding = iota
	// EncodingSymbol denotes a Microsoft Symbol character map, which maps
	// code points to the private use area U+F000–U+F0FF.
	EncodingSymbol
)

func (enc Encoding) String() string {
	if enc == EncodingSymbol {
		return "symbol"
	}
	return "unicode"
}

// symbolBase is the offset of symbol-encoded code points.
const symbolBase = 0xF000

// ScalableFont is a parsed font, not yet bound to a size.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container; not safe for concurrent glyph loading
	Encoding Encoding   // character map used to look up runes
}

// Descriptor describes a font available on the system, by family name,
// file path and known variants.
type Descriptor struct {
	Family   string
	Path     string
	Variants []string
}

// LoadOpenTypeFont reads and parses a font file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses the binary data of an OpenType or TrueType font.
// The font must provide a character map usable for Unicode text, otherwise
// an error with code core.ECHARMAP is returned.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		// sfnt does not export its cmap errors
		if strings.Contains(err.Error(), "cmap") {
			return nil, core.WrapError(err, core.ECHARMAP, "font has no supported character map")
		}
		return nil, core.WrapError(err, core.EINVALID, "cannot parse font")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	if f.Encoding, err = selectCharmap(f.SFNT); err != nil {
		return nil, err
	}
	tracer().Debugf("parsed font %q, %d glyphs, %s encoding", f.Fontname,
		f.SFNT.NumGlyphs(), f.Encoding)
	return f, nil
}

// probe runes to test a character map with
var charmapProbes = []rune{' ', 'A', 'a', '0', '.'}

// glyphIndexer looks up runes in a character map. *sfnt.Font is a glyphIndexer.
type glyphIndexer interface {
	GlyphIndex(*sfnt.Buffer, rune) (sfnt.GlyphIndex, error)
}

// selectCharmap checks if runes can be looked up in a font's character map.
// If the Unicode mapping does not work, it falls back to the symbol
// encoding, where code points are shifted to the private use area.
func selectCharmap(f glyphIndexer) (Encoding, error) {
	var buf sfnt.Buffer
	for _, enc := range []Encoding{EncodingUnicode, EncodingSymbol} {
		for _, r := range charmapProbes {
			gid, err := f.GlyphIndex(&buf, encode(r, enc))
			if err != nil {
				return EncodingUnicode, core.WrapError(err, core.ECHARMAP,
					"font character map cannot be read")
			}
			if gid != 0 {
				return enc, nil
			}
		}
		tracer().Infof("font does not support %s character map", enc)
	}
	return EncodingUnicode, core.Error(core.ECHARMAP, "font maps neither Unicode nor symbol code points")
}

func encode(r rune, enc Encoding) rune {
	if enc == EncodingSymbol && r < 0x100 {
		return symbolBase | r
	}
	return r
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
// Currently we use Go Sans.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	gofont, err := ParseOpenTypeFont(goregular.TTF)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	gofont.Fontname = "Go Sans"
	gofont.Filepath = "internal"
	return gofont
}
