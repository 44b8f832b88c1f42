package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/hbrender/backend/gfx"
	"github.com/npillmayer/hbrender/core"
	"github.com/npillmayer/hbrender/core/dimen"
	"github.com/npillmayer/hbrender/core/locate/resources"
	"github.com/npillmayer/hbrender/engine/glyphing"
	"github.com/npillmayer/hbrender/engine/glyphing/glypher"
	"github.com/npillmayer/hbrender/engine/glyphing/harfbuzz"
	"github.com/npillmayer/hbrender/engine/glyphing/monospace"
	"github.com/npillmayer/hbrender/engine/render"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
	"golang.org/x/text/language"
)

// tracer traces with key 'hbrender.cli'
func tracer() tracing.Trace {
	return tracing.Select("hbrender.cli")
}

var traceKeys = []string{"cli", "render", "glyphs", "gfx", "resources", "font"}

func main() {
	initDisplay()

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	logger := flag.String("log", "", "Tracing adapter [go|logrus]")
	fontname := flag.String("font", "fallback", "Font to use: file path, system font name or 'fallback'")
	size := flag.String("size", "24pt", "Font size, e.g. 12pt, 16px, 5mm")
	dpi := flag.Int("dpi", 72, "Device resolution")
	text := flag.String("text", "", "Text to render")
	lang := flag.String("lang", "", "BCP 47 language tag of the text")
	script := flag.String("script", "", "ISO 15924 script code of the text")
	dir := flag.String("dir", "ltr", "Text direction [ltr|rtl|ttb|btt]")
	features := flag.String("features", "", "Comma separated OpenType feature switches, e.g. '-kern,+liga'")
	shapername := flag.String("shaper", "harfbuzz", "Shaper to use [harfbuzz|glypher|monospace]")
	width := flag.Int("width", 640, "Surface width in pixels")
	height := flag.Int("height", 200, "Surface height in pixels")
	penX := flag.Float64("x", 10, "Horizontal pen start position")
	penY := flag.Float64("y", -1, "Vertical pen start position (y-axis upwards), default is one line from the top")
	wrap := flag.Float64("wrap", 0, "Wrap text at this line width in pixels")
	out := flag.String("out", "hbrender.png", "Output PNG file")
	fc := flag.String("fontconfig", "", "Path of the fc-list binary")
	interactive := flag.Bool("i", false, "Interactive mode")
	flag.Parse()

	// set up configuration and logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	conf := koanfadapter.New(nil, "hbrender", []string{"nt"})
	conf.InitDefaults()
	if *logger != "" {
		conf.Set("tracing.adapter", *logger)
	}
	for _, key := range traceKeys {
		if !conf.IsSet("trace.hbrender." + key) {
			conf.Set("trace.hbrender."+key, *tlevel)
		}
	}
	if *fc != "" {
		conf.Set("fontconfig", *fc)
	}
	if !conf.IsSet("app-key") {
		conf.Set("app-key", "hbrender")
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	pterm.Info.Println("Welcome to the HarfBuzz render CLI") // colored welcome message
	tracer().Infof("Trace level is %s", *tlevel)

	// prepare font, shaper and renderer
	ptsize, err := dimen.ParseSize(*size, *dpi)
	exitOnError(err, 2)
	face, err := resources.LoadFace(conf, *fontname, ptsize, *dpi, *dpi)
	exitOnError(err, 3)
	defer resources.ReleaseFace(face)
	shaper, err := selectShaper(*shapername)
	exitOnError(err, 2)
	feats, err := glyphing.ParseFeatures(*features)
	exitOnError(err, 2)
	r, err := render.New(face, shaper, render.WithFeatures(feats...), render.WithNormalization(true))
	exitOnError(err, 2)
	txt, err := textTemplate(*lang, *script, *dir)
	exitOnError(err, 2)

	intp := &Intp{
		renderer: r,
		surface:  gfx.NewSurface(*width, *height),
		template: txt,
		startX:   *penX,
		wrap:     *wrap,
		out:      *out,
	}
	intp.startY = *penY
	if intp.startY < 0 {
		intp.startY = float64(*height) - face.Ascent()
	}
	intp.penY = intp.startY
	if *text != "" {
		exitOnError(intp.draw(*text), 4)
	}
	if !*interactive {
		exitOnError(intp.save(*out), 5)
		return
	}

	// set up REPL
	repl, err := readline.New("hbrender > ")
	exitOnError(err, 3)
	intp.repl = repl
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()                             // go into interactive mode
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func exitOnError(err error, code int) {
	if err == nil {
		return
	}
	pterm.Error.Println(core.UserMessage(err))
	tracer().Errorf("%v", err)
	os.Exit(code)
}

func selectShaper(name string) (glyphing.Shaper, error) {
	switch strings.ToLower(name) {
	case "harfbuzz", "hb":
		return harfbuzz.NewShaper(), nil
	case "glypher":
		return glypher.NewShaper(), nil
	case "monospace", "mono":
		return monospace.Shaper(0, nil), nil
	}
	return nil, core.Error(core.EINVALID, "unknown shaper %q", name)
}

// textTemplate creates an empty text run carrying language, script and
// direction from the command line.
func textTemplate(lang, script, dir string) (render.Text, error) {
	var txt render.Text
	var err error
	if txt.Direction, err = glyphing.ParseDirection(dir); err != nil {
		return txt, err
	}
	if lang != "" {
		if txt.Language, err = language.Parse(lang); err != nil {
			return txt, core.WrapError(err, core.EINVALID, "unknown language %q", lang)
		}
	}
	if script != "" {
		if txt.Script, err = language.ParseScript(script); err != nil {
			return txt, core.WrapError(err, core.EINVALID, "unknown script %q", script)
		}
	}
	return txt, nil
}

// Intp is our interpreter object. It draws every line of input
// below the previous one.
type Intp struct {
	renderer *render.Renderer
	surface  *image.RGBA
	template render.Text
	repl     *readline.Instance
	startX   float64
	startY   float64
	penY     float64
	wrap     float64
	out      string
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !strings.HasPrefix(line, ":") {
			if err := intp.draw(line); err != nil {
				pterm.Error.Println(core.UserMessage(err))
			}
			continue
		}
		quit, err := intp.execute(strings.Fields(line[1:]))
		if err != nil {
			pterm.Error.Println(core.UserMessage(err))
			tracer().Errorf("%v", err)
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

func (intp *Intp) execute(cmd []string) (bool, error) {
	if len(cmd) == 0 {
		help()
		return false, nil
	}
	tracer().Debugf("command = %v", cmd)
	arg := ""
	if len(cmd) > 1 {
		arg = cmd[1]
	}
	switch strings.ToLower(cmd[0]) {
	case "quit", "q":
		return true, intp.save(intp.out)
	case "save", "s":
		if arg == "" {
			arg = intp.out
		}
		return false, intp.save(arg)
	case "clear":
		gfx.Clear(intp.surface)
		intp.penY = intp.startY
	case "feature", "f":
		f, err := glyphing.ParseFeature(arg)
		if err != nil {
			return false, err
		}
		intp.renderer.AddFeature(f)
		pterm.Printfln("features: %v", intp.renderer.Features())
	case "dir":
		d, err := glyphing.ParseDirection(arg)
		if err != nil {
			return false, err
		}
		intp.template.Direction = d
	case "wrap":
		if _, err := fmt.Sscanf(arg, "%g", &intp.wrap); err != nil {
			return false, core.WrapError(err, core.EINVALID, "wrap width not numeric: %q", arg)
		}
	case "measure", "m":
		txt := intp.template
		txt.Data = strings.Join(cmd[1:], " ")
		dx, dy, err := intp.renderer.Measure(txt)
		if err != nil {
			return false, err
		}
		pterm.Printfln("advance = (%.2f, %.2f) px", dx, dy)
	default:
		help()
	}
	return false, nil
}

// draw renders a line of text below the previously drawn one.
func (intp *Intp) draw(s string) error {
	txt := intp.template
	txt.Data = s
	var err error
	if intp.wrap > 0 {
		_, _, err = intp.renderer.DrawParagraph(txt, intp.surface, intp.startX, intp.penY, intp.wrap)
		if err == nil {
			lines, _ := intp.renderer.Wrap(txt, intp.wrap)
			intp.penY -= float64(len(lines)) * intp.renderer.Face().LineHeight()
		}
	} else {
		var x, y float64
		x, y, err = intp.renderer.DrawText(txt, intp.surface, intp.startX, intp.penY)
		tracer().Infof("pen ends at (%.2f,%.2f)", x, y)
		intp.penY -= intp.renderer.Face().LineHeight()
	}
	return err
}

func (intp *Intp) save(filename string) error {
	if err := gfx.ShipoutFile(intp.surface, filename); err != nil {
		return err
	}
	pterm.Info.Printfln("wrote %s (checksum %s)", filename, gfx.Checksum(intp.surface)[:12])
	return nil
}

func help() {
	pterm.Info.Println("Commands")
	pterm.Println(`
	<text>              draw text on the next line
	:feature +kern      add an OpenType feature switch
	:dir rtl            set the text direction
	:wrap 300           wrap lines at 300 pixels, 0 to switch off
	:measure <text>     print the advance of a text
	:clear              clear the surface
	:save [file.png]    write the surface to a PNG file
	:quit               save and quit
	`)
}
