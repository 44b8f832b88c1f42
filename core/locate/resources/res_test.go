package resources

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/hbrender/core/dimen"
	"github.com/npillmayer/hbrender/core/font"
	"github.com/npillmayer/hbrender/core/font/fontregistry"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func TestResolveFallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.resources")
	defer teardown()
	//
	for _, id := range []string{"fallback", "Go", "Go Sans"} {
		f, err := ResolveFont(nil, id)
		require.NoError(t, err, "identifier %q", id)
		assert.Same(t, font.FallbackFont(), f)
	}
}

func TestResolveFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.resources")
	defer teardown()
	//
	fontfile := filepath.Join(t.TempDir(), "GoTest-Regular.ttf")
	require.NoError(t, os.WriteFile(fontfile, goregular.TTF, 0644))
	f, err := ResolveFont(nil, fontfile)
	require.NoError(t, err)
	assert.Equal(t, fontfile, f.Filepath)
	cached, ok := fontregistry.GlobalRegistry().Font(fontfile)
	assert.True(t, ok, "font should have been registered")
	assert.Same(t, f, cached)
	again, err := ResolveFont(nil, fontfile)
	require.NoError(t, err)
	assert.Same(t, f, again, "second lookup should be served from registry")
}

func TestResolveSameFilenames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.resources")
	defer teardown()
	//
	regular := filepath.Join(t.TempDir(), "GoTwin.ttf")
	require.NoError(t, os.WriteFile(regular, goregular.TTF, 0644))
	bold := filepath.Join(t.TempDir(), "GoTwin.ttf")
	require.NoError(t, os.WriteFile(bold, gobold.TTF, 0644))
	f1, err := ResolveFont(nil, regular)
	require.NoError(t, err)
	f2, err := ResolveFont(nil, bold)
	require.NoError(t, err)
	assert.NotSame(t, f1, f2)
	assert.Equal(t, regular, f1.Filepath)
	assert.Equal(t, bold, f2.Filepath)
	assert.NotEqual(t, f1.Fontname, f2.Fontname)
	// a relative path denotes the same file
	wd, err := os.Getwd()
	require.NoError(t, err)
	if rel, err := filepath.Rel(wd, regular); err == nil {
		again, err := ResolveFont(nil, rel)
		require.NoError(t, err)
		assert.Same(t, f1, again)
	}
}

func TestResolveMissing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.resources")
	defer teardown()
	//
	_, err := ResolveFont(nil, "No-Such-Font-Anywhere-9f3a")
	require.Error(t, err)
	assert.Equal(t, core.EMISSING, core.Code(err))
	_, err = ResolveFont(nil, "   ")
	assert.Equal(t, core.EINVALID, core.Code(err))
}

func TestLoadAndReleaseFace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.resources")
	defer teardown()
	//
	tc, err := LoadFace(nil, "fallback", dimen.FromPoints(50), 72, 72)
	require.NoError(t, err)
	assert.Equal(t, 50.0, tc.PtSize())
	ReleaseFace(tc)
	assert.True(t, tc.Closed())
	ReleaseFace(nil) // must not panic
	//
	_, err = LoadFace(nil, "fallback", dimen.FromPoints(5000), 72, 72)
	assert.Equal(t, core.EINVALID, core.Code(err))
	_, err = LoadFace(nil, "No-Such-Font-Anywhere-9f3a", dimen.FromPoints(12), 72, 72)
	assert.Equal(t, core.EMISSING, core.Code(err))
}

const fcListOutput = `
/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf: DejaVu Sans:style=Book
/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf: DejaVu Sans:style=Bold
/usr/share/fonts/truetype/dejavu/DejaVuSerif-BoldItalic.ttf: DejaVu Serif:style=Bold Italic
/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc: Noto Sans CJK JP,Noto Sans CJK JP Regular:style=Regular
/System/Library/Fonts/Helvetica.ttf: .Helvetica,Helvetica Neue:style=Light
garbage line
`

func TestParseFontConfigList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.resources")
	defer teardown()
	//
	descs, err := parseFontConfigList(strings.NewReader(fcListOutput))
	require.NoError(t, err)
	require.Len(t, descs, 4, "TTC collection and garbage should be skipped")
	assert.Equal(t, "DejaVu Sans", descs[0].Family)
	assert.Equal(t, []string{"regular"}, descs[0].Variants)
	assert.Equal(t, []string{"bold"}, descs[1].Variants)
	assert.Equal(t, []string{"bolditalic"}, descs[2].Variants)
	assert.Equal(t, "Helvetica", descs[3].Family)
	assert.Equal(t, []string{"light"}, descs[3].Variants)
	//
	desc, variant, conf := fontregistry.ClosestMatch(descs, "dejavu sans",
		xfont.StyleNormal, xfont.WeightBold)
	assert.Equal(t, "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf", desc.Path)
	assert.Equal(t, "bold", variant)
	assert.True(t, conf > fontregistry.LowConfidence)
}

func TestResolveFontConfig(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.resources")
	defer teardown()
	//
	if runtime.GOOS != "linux" {
		t.Skip("user config directory is taken from XDG_CONFIG_HOME on Linux only")
	}
	confdir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", confdir)
	fontfile := filepath.Join(t.TempDir(), "Qwzx.ttf")
	require.NoError(t, os.WriteFile(fontfile, goregular.TTF, 0644))
	// a cached font list is used without calling fc-list
	require.NoError(t, os.MkdirAll(filepath.Join(confdir, "hbrender-test"), 0755))
	fclist := fontfile + ": Qwzx Sans:style=Regular\n"
	require.NoError(t, os.WriteFile(filepath.Join(confdir, "hbrender-test", "fontlist.txt"),
		[]byte(fclist), 0644))
	conf := testconfig.Conf{
		"fontconfig": "/no/such/fc-list",
		"app-key":    "hbrender-test",
	}
	f, err := ResolveFont(conf, "Qwzx Sans")
	require.NoError(t, err)
	assert.Equal(t, fontfile, f.Filepath)
	_, err = ResolveFont(conf, "Zzyq Serif")
	assert.Equal(t, core.EMISSING, core.Code(err))
}
