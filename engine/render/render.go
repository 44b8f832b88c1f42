/*
Package render draws runs of text onto pixel surfaces.

A Renderer ties together a typecase, a shaper and a compositor: text is
shaped into positioned glyphs, every glyph is rasterized by its glyph index
and composited onto a surface, and the pen is advanced by the glyph's
advance.

Pen positions are given in pixels, with the y-axis pointing upwards and
y = 0 denoting the bottom row of the surface. They are carried as floating
point values along a run and only rounded when a glyph is placed, so
fractional advances do not accumulate rounding errors.

	face, _ := resources.LoadFace(conf, "fallback", dimen.FromPoints(50), 72, 72)
	r, _ := render.New(face, harfbuzz.NewShaper())
	r.AddFeature(glyphing.KerningOn)
	x, y, err := r.DrawText(render.Text{Data: "Hi!"}, surface, 10, 20)

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package render

import (
	"image"
	"strings"

	"github.com/npillmayer/hbrender/backend/gfx"
	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/hbrender/core/dimen"
	"github.com/npillmayer/hbrender/core/font"
	"github.com/npillmayer/hbrender/engine/glyphing"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// tracer traces with key 'hbrender.render'.
func tracer() tracing.Trace {
	return tracing.Select("hbrender.render")
}

// Text is a run of text with uniform script, language and direction.
// Script and language are left to the shaper to guess if unset.
type Text struct {
	Data      string
	Language  language.Tag
	Script    language.Script
	Direction glyphing.Direction
}

// GlyphRasterizer produces glyph coverage masks by glyph index.
// *font.TypeCase is a GlyphRasterizer.
type GlyphRasterizer interface {
	Rasterize(font.GlyphIndex) (*font.Glyph, error)
}

// Renderer draws text with a single face. It collects OpenType feature
// switches, which apply to every run drawn afterwards.
//
// A Renderer is not safe for concurrent use.
type Renderer struct {
	face       *font.TypeCase
	shaper     glyphing.Shaper
	rasterizer GlyphRasterizer
	normalize  bool
	features   []glyphing.FeatureRange
	buf        []glyphing.ShapedGlyph
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRasterizer substitutes the source of glyph masks, which otherwise is
// the renderer's face.
func WithRasterizer(rasterizer GlyphRasterizer) Option {
	return func(r *Renderer) {
		if rasterizer != nil {
			r.rasterizer = rasterizer
		}
	}
}

// WithNormalization makes the renderer convert text to Unicode normal form
// NFC before shaping.
func WithNormalization(on bool) Option {
	return func(r *Renderer) {
		r.normalize = on
	}
}

// WithFeatures adds feature switches, as AddFeature does.
func WithFeatures(features ...glyphing.FeatureRange) Option {
	return func(r *Renderer) {
		r.features = append(r.features, features...)
	}
}

// New creates a renderer for a face and a shaper. The renderer does not take
// ownership of the face, i.e. clients are responsible for releasing it.
func New(face *font.TypeCase, shaper glyphing.Shaper, opts ...Option) (*Renderer, error) {
	if face == nil {
		return nil, core.Error(core.EINVALID, "renderer needs a face")
	}
	if shaper == nil {
		return nil, core.Error(core.EINVALID, "renderer needs a shaper")
	}
	r := &Renderer{
		face:       face,
		shaper:     shaper,
		rasterizer: face,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Face returns the renderer's typecase.
func (r *Renderer) Face() *font.TypeCase {
	return r.face
}

// AddFeature appends an OpenType feature switch. Switches are kept in the
// order they have been added, without removing duplicates. If switches
// contradict each other, the shaper will decide which one wins (HarfBuzz
// lets the later one win).
func (r *Renderer) AddFeature(f glyphing.FeatureRange) {
	tracer().Debugf("adding feature %s", f)
	r.features = append(r.features, f)
}

// Features returns a copy of the feature switches collected so far.
func (r *Renderer) Features() []glyphing.FeatureRange {
	return append([]glyphing.FeatureRange(nil), r.features...)
}

// shape shapes a text run with a snapshot of the current feature switches.
func (r *Renderer) shape(txt Text) (glyphing.GlyphSequence, error) {
	if r.face.Closed() {
		return glyphing.GlyphSequence{}, core.Error(core.EINVALID, "cannot render with a released face")
	}
	data := txt.Data
	if r.normalize {
		data = norm.NFC.String(data)
	}
	params := glyphing.Params{
		Font:      r.face,
		Direction: txt.Direction,
		Script:    txt.Script,
		Language:  txt.Language,
		Features:  r.Features(),
	}
	seq, err := r.shaper.Shape(strings.NewReader(data), r.buf[:0], nil, params)
	if err != nil {
		return seq, core.WrapError(err, core.Code(err), "cannot shape text %q", txt.Data)
	}
	r.buf = seq.Glyphs
	return seq, nil
}

// DrawText draws a run of text onto a surface, starting at pen position
// (x, y). It returns the pen position after the last glyph, which is where
// a subsequent run should start.
//
// If the run cannot be shaped, DrawText returns an error before drawing
// anything. Glyphs which cannot be rasterized are skipped, but the pen is
// advanced nevertheless.
func (r *Renderer) DrawText(txt Text, dst *image.RGBA, x, y float64) (float64, float64, error) {
	seq, err := r.shape(txt)
	if err != nil {
		tracer().Errorf("%v", err)
		return x, y, err
	}
	tracer().Debugf("drawing %d glyphs at (%.2f,%.2f)", seq.Len(), x, y)
	for _, sg := range seq.Glyphs {
		g, err := r.rasterizer.Rasterize(sg.GID)
		if err != nil {
			tracer().Infof("skipping glyph %d for %#U: %v", sg.GID, sg.CodePoint, err)
		} else {
			gfx.Composite(dst, g, x, y, dimen.ToPixels(sg.XOffset), dimen.ToPixels(sg.YOffset))
			g.Release()
		}
		x += dimen.ToPixels(sg.XAdvance)
		y += dimen.ToPixels(sg.YAdvance)
	}
	return x, y, nil
}

// DrawLines draws runs of text line by line, each one starting at x. After
// each run the pen moves down by the face's line height. DrawLines returns
// the pen position after the last glyph of the last line.
//
// Drawing stops at the first run which cannot be shaped.
func (r *Renderer) DrawLines(lines []Text, dst *image.RGBA, x, y float64) (float64, float64, error) {
	lineHeight := r.face.LineHeight()
	penX, penY := x, y
	for i, line := range lines {
		baseline := y - float64(i)*lineHeight
		var err error
		if penX, penY, err = r.DrawText(line, dst, x, baseline); err != nil {
			return penX, penY, err
		}
	}
	return penX, penY, nil
}

// Measure returns the pen movement a run of text would cause, in pixels.
func (r *Renderer) Measure(txt Text) (float64, float64, error) {
	seq, err := r.shape(txt)
	if err != nil {
		return 0, 0, err
	}
	var dx, dy float64
	for _, sg := range seq.Glyphs {
		dx += dimen.ToPixels(sg.XAdvance)
		dy += dimen.ToPixels(sg.YAdvance)
	}
	return dx, dy, nil
}
