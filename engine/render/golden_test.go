package render

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/npillmayer/hbrender/backend/gfx"
	"github.com/npillmayer/hbrender/engine/glyphing"
	"github.com/npillmayer/hbrender/engine/glyphing/harfbuzz"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var update = flag.Bool("update", false, "update golden files")

// golden is the recorded outcome of drawing a text: the final pen position
// and the bounding box of all inked pixels, corners inclusive.
type golden struct {
	penX float64
	ink  image.Rectangle
}

func readGolden(t *testing.T, path string) golden {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		t.Fatalf("golden file %s missing, re-run with -update to record it", path)
	}
	require.NoError(t, err)
	defer f.Close()
	var g golden
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
		case strings.HasPrefix(line, "penx "):
			_, err = fmt.Sscanf(line, "penx %g", &g.penX)
		case strings.HasPrefix(line, "ink "):
			_, err = fmt.Sscanf(line, "ink %d %d %d %d", &g.ink.Min.X, &g.ink.Min.Y, &g.ink.Max.X, &g.ink.Max.Y)
		default:
			t.Fatalf("unknown entry in golden file %s: %q", path, line)
		}
		require.NoError(t, err, line)
	}
	require.NoError(t, scanner.Err())
	return g
}

func writeGolden(t *testing.T, path, header string, g golden) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	content := fmt.Sprintf("# %s\npenx %g\nink %d %d %d %d\n", header, g.penX,
		g.ink.Min.X, g.ink.Min.Y, g.ink.Max.X, g.ink.Max.Y)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Logf("wrote golden file %s", path)
}

// inkBounds returns the box of pixels with non-zero alpha, corners inclusive.
func inkBounds(img *image.RGBA) image.Rectangle {
	ink := image.Rect(img.Rect.Max.X, img.Rect.Max.Y, -1, -1)
	for py := img.Rect.Min.Y; py < img.Rect.Max.Y; py++ {
		for px := img.Rect.Min.X; px < img.Rect.Max.X; px++ {
			if img.RGBAAt(px, py).A == 0 {
				continue
			}
			ink.Min.X, ink.Max.X = min(ink.Min.X, px), max(ink.Max.X, px)
			ink.Min.Y, ink.Max.Y = min(ink.Min.Y, py), max(ink.Max.Y, py)
		}
	}
	return ink
}

// renderHi draws "Hi!" with Go Regular at 50pt/72dpi onto a fresh surface.
func renderHi(t *testing.T) (*image.RGBA, float64, *Renderer) {
	face := goFace(t, 50)
	r, err := New(face, harfbuzz.NewShaper())
	require.NoError(t, err)
	dst := gfx.NewSurface(200, 100)
	x, y, err := r.DrawText(Text{Data: "Hi!", Direction: glyphing.LeftToRight}, dst, 10, 30)
	require.NoError(t, err)
	assert.Equal(t, 30.0, y)
	if testing.Verbose() {
		require.NoError(t, gfx.ShipoutFile(dst, filepath.Join(t.TempDir(), "hi.png")))
	}
	return dst, x, r
}

func TestGoldenHi(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "hbrender.render")
	defer teardown()
	//
	dst, x, r := renderHi(t)
	again, _, _ := renderHi(t)
	assert.Equal(t, gfx.Checksum(dst), gfx.Checksum(again), "rendering must be deterministic")
	w, _, err := r.Measure(Text{Data: "Hi!"})
	require.NoError(t, err)
	assert.Equal(t, 10+w, x)
	ink := inkBounds(dst)
	// glyphs without descenders rest on the baseline, i.e. row 99-30
	assert.InDelta(t, 69, ink.Max.Y, 1)
	//
	path := filepath.Join("testdata", "hi_50pt.golden")
	if *update {
		writeGolden(t, path, `"Hi!" in Go Regular, 50pt at 72 dpi, pen starting at (10,30) on a 200x100 surface`,
			golden{penX: x, ink: ink})
		return
	}
	expected := readGolden(t, path)
	assert.InDelta(t, expected.penX, x, 1.0/64, "pen position after drawing")
	assert.InDelta(t, expected.ink.Min.X, ink.Min.X, 1, "left edge of ink")
	assert.InDelta(t, expected.ink.Min.Y, ink.Min.Y, 1, "top edge of ink")
	assert.InDelta(t, expected.ink.Max.X, ink.Max.X, 1, "right edge of ink")
	assert.InDelta(t, expected.ink.Max.Y, ink.Max.Y, 1, "bottom edge of ink")
}
