package render

import (
	"image"
	"strings"

	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax14"
	"golang.org/x/text/unicode/norm"
)

// Wrap breaks a text into lines no wider than width pixels, if possible.
// Line wrap opportunities are found according to UAX#14; explicit newlines
// always start a new line. Lines are filled greedily. A fragment which is
// wider than width on its own gets a line of its own.
//
// The resulting lines inherit language, script and direction from txt.
// Wrap does not reorder lines for vertical directions.
func (r *Renderer) Wrap(txt Text, width float64) ([]Text, error) {
	if width <= 0 {
		return nil, core.Error(core.EINVALID, "line width must be positive, is %g", width)
	}
	var lines []Text
	emit := func(s string) {
		line := txt
		line.Data = strings.TrimRight(s, " \t")
		lines = append(lines, line)
	}
	for _, para := range strings.Split(norm.NFC.String(txt.Data), "\n") {
		linewrap := uax14.NewLineWrap()
		seg := segment.NewSegmenter(linewrap)
		seg.Init(strings.NewReader(para))
		var line strings.Builder
		for seg.Next() {
			fragment := seg.Text()
			if line.Len() == 0 {
				line.WriteString(fragment)
				continue
			}
			candidate := txt
			candidate.Data = strings.TrimRight(line.String()+fragment, " \t")
			w, _, err := r.Measure(candidate)
			if err != nil {
				return lines, err
			}
			if w > width {
				tracer().Debugf("wrapping line %q at %.2f px", line.String(), width)
				emit(line.String())
				line.Reset()
			}
			line.WriteString(fragment)
		}
		emit(line.String())
	}
	return lines, nil
}

// DrawParagraph wraps a text to a given width and draws the resulting lines,
// as DrawLines does.
func (r *Renderer) DrawParagraph(txt Text, dst *image.RGBA, x, y, width float64) (float64, float64, error) {
	lines, err := r.Wrap(txt, width)
	if err != nil {
		return x, y, err
	}
	return r.DrawLines(lines, dst, x, y)
}
