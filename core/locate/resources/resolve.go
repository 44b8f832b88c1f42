package resources

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/hbrender/core/font"
	"github.com/npillmayer/hbrender/core/font/fontregistry"
	"github.com/npillmayer/schuko"
	"golang.org/x/image/math/fixed"
)

// NotFound returns an application error for a missing font.
func NotFound(name string) error {
	e := fmt.Errorf("resource missing: %v", name)
	return core.WrapError(e, core.EMISSING, "font not found: %s", name)
}

// fallbackNames are identifiers which select the built-in font.
var fallbackNames = map[string]bool{
	"fallback": true,
	"go":       true,
	"go_sans":  true,
	"gosans":   true,
}

// LoadFace loads a font by identifier and prepares a typecase from it with a
// given size (26.6 points) and device resolution.
//
// Failing to resolve the identifier is fatal: LoadFace will not substitute
// the fallback font for a missing font. conf may be nil, which disables
// fontconfig lookup.
//
// The returned typecase is owned by the caller, which should release it
// with ReleaseFace.
func LoadFace(conf schuko.Configuration, identifier string, ptSize fixed.Int26_6,
	hdpi, vdpi int) (*font.TypeCase, error) {
	//
	sf, err := ResolveFont(conf, identifier)
	if err != nil {
		return nil, err
	}
	tc, err := sf.PrepareCase(ptSize, hdpi, vdpi)
	if err != nil {
		return nil, err
	}
	tracer().Infof("loaded face %s", tc)
	return tc, nil
}

// ReleaseFace releases a typecase loaded with LoadFace. It is safe to call
// ReleaseFace with nil.
func ReleaseFace(tc *font.TypeCase) {
	if tc == nil {
		return
	}
	if err := tc.Close(); err != nil {
		tracer().Errorf("releasing face: %v", err)
	}
}

// ResolveFont locates and parses a font by identifier. See the package
// documentation for the order in which sources are searched.
func ResolveFont(conf schuko.Configuration, identifier string) (*font.ScalableFont, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, core.Error(core.EINVALID, "empty font identifier")
	}
	style, weight := fontregistry.GuessStyleAndWeight(identifier)
	key := fontregistry.NormalizeFontname(filepath.Base(identifier), style, weight)
	fi, staterr := os.Stat(identifier)
	isFile := staterr == nil && !fi.IsDir()
	if isFile {
		// font files with equal names may live in different folders
		if abs, err := filepath.Abs(identifier); err == nil {
			key = abs
		} else {
			key = filepath.Clean(identifier)
		}
	}
	registry := fontregistry.GlobalRegistry()
	if f, ok := registry.Font(key); ok {
		tracer().Debugf("font %s found in registry", key)
		return f, nil
	}
	var f *font.ScalableFont
	var err error
	if isFile {
		tracer().Debugf("%s is a font file", identifier)
		if f, err = font.LoadOpenTypeFont(identifier); err != nil {
			return nil, err
		}
	} else if fallbackNames[key] {
		f = font.FallbackFont()
	} else if fpath, err := findfont.Find(identifier); err == nil && fpath != "" {
		tracer().Debugf("%s is a system font", identifier)
		if f, err = font.LoadOpenTypeFont(fpath); err != nil {
			return nil, err
		}
	} else if conf != nil {
		desc, variant := findFontConfigFont(conf, identifier, style, weight)
		if desc.Path != "" {
			tracer().Debugf("fontconfig found %s (%s) for %s", desc.Family, variant, identifier)
			if f, err = font.LoadOpenTypeFont(desc.Path); err != nil {
				return nil, err
			}
		}
	}
	if f == nil {
		tracer().Infof("cannot resolve font %s", identifier)
		return nil, NotFound(identifier)
	}
	registry.StoreFont(key, f)
	return f, nil
}
