package monospace

import (
	"strings"
	"testing"

	"github.com/npillmayer/hbrender/core/dimen"
	"github.com/npillmayer/hbrender/core/font"
	"github.com/npillmayer/hbrender/engine/glyphing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonospaceCells(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.glyphs")
	defer teardown()
	//
	tc, err := font.FallbackFont().PrepareCase(dimen.FromPoints(20), 72, 72)
	require.NoError(t, err)
	sh := Shaper(dimen.FromPixels(10), nil)
	seq, err := sh.Shape(strings.NewReader("iWm"), nil, nil, glyphing.Params{Font: tc})
	require.NoError(t, err)
	require.Equal(t, 3, seq.Len())
	for _, g := range seq.Glyphs {
		assert.Equal(t, dimen.FromPixels(10), g.XAdvance)
		assert.NotZero(t, g.GID)
	}
	assert.Equal(t, dimen.FromPixels(30), seq.W)
}

func TestMonospaceDefaultEm(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.glyphs")
	defer teardown()
	//
	tc, err := font.FallbackFont().PrepareCase(dimen.FromPoints(20), 72, 72)
	require.NoError(t, err)
	zero, _ := tc.GlyphIndex('0')
	adv, _ := tc.GlyphAdvance(zero)
	seq, err := Shaper(0, nil).Shape(strings.NewReader("ab"), nil, nil, glyphing.Params{
		Font:      tc,
		Direction: glyphing.TopToBottom,
	})
	require.NoError(t, err)
	assert.Equal(t, -2*adv, seq.H)
	assert.Zero(t, seq.W)
}
