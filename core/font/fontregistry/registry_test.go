package fontregistry

import (
	"testing"

	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/hbrender/core/dimen"
	"github.com/npillmayer/hbrender/core/font"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	xfont "golang.org/x/image/font"
)

type sw struct {
	s xfont.Style
	w xfont.Weight
}

func TestGuess(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.font")
	defer teardown()
	//
	for k, v := range map[string]sw{
		"fonts/Clarendon-bold.ttf":               {xfont.StyleNormal, xfont.WeightBold},
		"Microsoft/Gill Sans MT Bold Italic.ttf": {xfont.StyleItalic, xfont.WeightBold},
		"Cambria Math.ttf":                       {xfont.StyleNormal, xfont.WeightNormal},
	} {
		style, weight := GuessStyleAndWeight(k)
		t.Logf("style = %d, weight = %d", style, weight)
		if style != v.s || weight != v.w {
			t.Errorf("expected different style or weight for %s", k)
		}
	}
}

func TestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.font")
	defer teardown()
	//
	if !Matches("fonts/Clarendon-bold.ttf",
		"clarendon", xfont.StyleNormal, xfont.WeightBold) {
		t.Errorf("expected match for Clarendon, haven't")
	}
	if !Matches("Microsoft/Gill Sans MT Bold Italic.ttf",
		"gill sans", xfont.StyleItalic, xfont.WeightBold) {
		t.Errorf("expected match for Gill, haven't")
	}
	if Matches("Cambria Math.ttf", "gill", xfont.StyleNormal, xfont.WeightNormal) {
		t.Errorf("expected Cambria not to match 'gill'")
	}
}

func TestNormalizeFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.font")
	defer teardown()
	//
	n := NormalizeFontname("Clarendon", xfont.StyleItalic, xfont.WeightBold)
	assert.Equal(t, "clarendon-italic-bold", n)
	n = NormalizeFontname(" Go Sans.ttf ", xfont.StyleNormal, xfont.WeightNormal)
	assert.Equal(t, "go_sans", n)
}

func TestClosestMatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.font")
	defer teardown()
	//
	descs := []font.Descriptor{
		{Family: "DejaVu Sans", Path: "/fonts/DejaVuSans.ttf", Variants: []string{"regular"}},
		{Family: "DejaVu Sans", Path: "/fonts/DejaVuSans-Bold.ttf", Variants: []string{"bold"}},
		{Family: "Noto Serif", Path: "/fonts/NotoSerif.ttf", Variants: []string{"regular"}},
	}
	desc, variant, conf := ClosestMatch(descs, "dejavu", xfont.StyleNormal, xfont.WeightBold)
	assert.Equal(t, "/fonts/DejaVuSans-Bold.ttf", desc.Path)
	assert.Equal(t, "bold", variant)
	assert.True(t, conf > LowConfidence, "confidence is %s", conf)
	desc, _, conf = ClosestMatch(descs, "dejavu", xfont.StyleNormal, xfont.WeightNormal)
	assert.Equal(t, "/fonts/DejaVuSans.ttf", desc.Path)
	assert.Equal(t, PerfectConfidence, conf)
	_, _, conf = ClosestMatch(descs, "helvetica", xfont.StyleNormal, xfont.WeightNormal)
	assert.Equal(t, NoConfidence, conf)
}

func TestRegistryTypeCase(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.font")
	defer teardown()
	//
	fr := NewRegistry()
	_, err := fr.TypeCase("go_sans", dimen.FromPoints(12), 72, 72)
	assert.Equal(t, core.EMISSING, core.Code(err))
	fr.StoreFont("go_sans", font.FallbackFont())
	fr.StoreFont("go_sans", nil)
	tc, err := fr.TypeCase("go_sans", dimen.FromPoints(12), 72, 72)
	if assert.NoError(t, err) {
		assert.Equal(t, 12.0, tc.PtSize())
		assert.Same(t, font.FallbackFont(), tc.ScalableFontParent())
	}
	tc2, _ := fr.TypeCase("go_sans", dimen.FromPoints(12), 72, 72)
	assert.NotSame(t, tc, tc2, "typecases are not shared")
	fr.LogFontList()
}
