package glyphing

import (
	"testing"

	"github.com/npillmayer/hbrender/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTag(t *testing.T) {
	assert.Equal(t, Tag(0x6b65726e), T("kern"))
	assert.Equal(t, "kern", KernTag.String())
	assert.Equal(t, "aa  ", T("aa").String())
	assert.Equal(t, T("liga"), T("ligature"))
}

func TestPredefinedFeatures(t *testing.T) {
	assert.Equal(t, KernTag, KerningOn.Feature)
	assert.True(t, KerningOn.On)
	assert.False(t, KerningOff.On)
	assert.Equal(t, LigatureTag, LigatureOff.Feature)
	assert.Equal(t, ContextualLigatureTag, ContextualLigatureOn.Feature)
	assert.True(t, LigatureOn.IsGlobal())
	assert.Equal(t, uint32(1), KerningOn.Value())
	assert.Equal(t, uint32(0), KerningOff.Value())
	assert.Equal(t, "+kern", KerningOn.String())
	assert.Equal(t, "-clig", ContextualLigatureOff.String())
}

func TestEnabled(t *testing.T) {
	features := []FeatureRange{KerningOff, LigatureOn, KerningOn}
	assert.True(t, Enabled(features, KernTag, 0, false), "later switch should win")
	assert.True(t, Enabled(nil, KernTag, 0, true))
	assert.False(t, Enabled([]FeatureRange{KerningOff}, KernTag, 5, true))
	partial := FeatureRange{Feature: KernTag, On: false, Start: 2, End: 4}
	assert.True(t, Enabled([]FeatureRange{partial}, KernTag, 1, true))
	assert.False(t, Enabled([]FeatureRange{partial}, KernTag, 3, true))
}

func TestParseFeature(t *testing.T) {
	f, err := ParseFeature("-liga")
	require.NoError(t, err)
	assert.Equal(t, LigatureOff, f)
	f, err = ParseFeature("kern")
	require.NoError(t, err)
	assert.Equal(t, KerningOn, f)
	f, err = ParseFeature("salt=2")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), f.Value())
	f, err = ParseFeature("kern[3:5]")
	require.NoError(t, err)
	assert.Equal(t, 3, f.Start)
	assert.Equal(t, 5, f.End)
	assert.Equal(t, "+kern[3:5]", f.String())
	f, err = ParseFeature("smcp[7]")
	require.NoError(t, err)
	assert.Equal(t, 8, f.End)
	_, err = ParseFeature("toolong")
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = ParseFeature("kern[1:2")
	assert.Error(t, err)
	fs, err := ParseFeatures("-kern, liga,,+clig")
	require.NoError(t, err)
	assert.Equal(t, []FeatureRange{KerningOff, LigatureOn, ContextualLigatureOn}, fs)
}

func TestDirection(t *testing.T) {
	d, err := ParseDirection("RTL")
	require.NoError(t, err)
	assert.Equal(t, RightToLeft, d)
	assert.True(t, d.IsHorizontal())
	assert.False(t, TopToBottom.IsHorizontal())
	_, err = ParseDirection("sideways")
	assert.Equal(t, core.EINVALID, core.Code(err))
	assert.Equal(t, "btt", BottomToTop.String())
}
