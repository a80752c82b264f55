package main

import (
	"flag"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/example/shotmark/internal/config"
	"github.com/example/shotmark/internal/geom"
	"github.com/example/shotmark/internal/paint"
	"github.com/example/shotmark/internal/render"
)

// drawCmd applies one annotation to an image without opening a window. It
// goes through the same paint model and renderer as the editor.
type drawCmd struct {
	file        string
	output      string
	toClipboard bool
	colorSpec   string
	width       float64
	textSize    float64
	font        string
	fill        bool
	transparent bool
	center      bool
	kind        paint.Kind
	points      []geom.Point
	text        string
	settings    paint.Settings
	*root
	fs *flag.FlagSet
}

func (d *drawCmd) FlagSet() *flag.FlagSet {
	return d.fs
}

func (d *drawCmd) cfg() *config.Config {
	if d.root == nil || d.root.config == nil {
		return config.New()
	}
	return d.root.config
}

func parseDrawCmd(args []string, r *root) (*drawCmd, error) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	d := &drawCmd{root: r, fs: fs}
	fs.Usage = usageFunc(d)
	cfg := d.cfg()
	fs.StringVar(&d.file, "file", "", "input image file; - reads stdin")
	fs.StringVar(&d.output, "output-file", "", "output file path (defaults to the input file, or stdout for stdin)")
	fs.StringVar(&d.output, "o", "", "output file path (alias)")
	fs.BoolVar(&d.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.StringVar(&d.colorSpec, "color", "red", "paint color as a name, #RRGGBB[AA] or rgb()/rgba()")
	fs.Float64Var(&d.width, "width", cfg.LineSize, "stroke width in pixels")
	fs.Float64Var(&d.textSize, "text-size", cfg.TextSize, "text size in points")
	fs.StringVar(&d.font, "font", cfg.TextFont, "text font family")
	fs.BoolVar(&d.fill, "fill", cfg.FillShape, "fill rectangles and ellipses")
	fs.BoolVar(&d.transparent, "transparent", cfg.Transparent, "apply the configured transparency")
	fs.BoolVar(&d.center, "center", false, "anchor rectangles and ellipses at their centre")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	positionals := fs.Args()
	if len(positionals) < 1 {
		return nil, &UsageError{of: d}
	}
	kind, err := paint.ParseKind(positionals[0])
	if err != nil {
		return nil, err
	}
	d.kind = kind
	if err := d.parseOperands(positionals[1:]); err != nil {
		return nil, err
	}
	if d.file == "" {
		return nil, fmt.Errorf("input file is required")
	}
	if d.output == "" {
		d.output = d.file
	}

	col, err := config.ParseColor(d.colorSpec)
	if err != nil {
		return nil, err
	}
	d.settings = cfg.Settings()
	d.settings.Color = col
	d.settings.Width = min(max(d.width, paint.MinWidth), paint.MaxWidth)
	d.settings.TextSize = min(max(d.textSize, paint.MinTextSize), paint.MaxTextSize)
	d.settings.TextFont = d.font
	d.settings.Fill = d.fill
	d.settings.Transparent = d.transparent
	return d, nil
}

func (d *drawCmd) parseOperands(ops []string) error {
	name := d.kind.String()
	switch d.kind {
	case paint.KindBrush:
		if len(ops) < 2 || len(ops)%2 != 0 {
			return fmt.Errorf("%s requires x y pairs", name)
		}
		pts, err := parsePoints(ops)
		if err != nil {
			return err
		}
		d.points = pts
	case paint.KindText:
		if len(ops) < 5 {
			return fmt.Errorf("%s requires x0 y0 x1 y1 and content", name)
		}
		pts, err := parsePoints(ops[:4])
		if err != nil {
			return err
		}
		d.points = pts
		d.text = strings.Join(ops[4:], " ")
		if strings.TrimSpace(d.text) == "" {
			return fmt.Errorf("text content cannot be empty")
		}
	default:
		if len(ops) != 4 {
			return fmt.Errorf("%s requires 4 coordinates", name)
		}
		pts, err := parsePoints(ops)
		if err != nil {
			return err
		}
		d.points = pts
	}
	return nil
}

func parsePoints(args []string) ([]geom.Point, error) {
	vals := make([]float64, len(args))
	for i, raw := range args {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid coordinate %q", raw)
		}
		vals[i] = v
	}
	pts := make([]geom.Point, 0, len(vals)/2)
	for i := 0; i+1 < len(vals); i += 2 {
		pts = append(pts, geom.Pt(vals[i], vals[i+1]))
	}
	return pts, nil
}

func (d *drawCmd) Run() error {
	src, err := loadFileFn(d.file)
	if err != nil {
		return err
	}
	img, err := d.apply(src)
	if err != nil {
		return err
	}
	e := d.root.exporter()
	if _, err := e.Save(img, d.output); err != nil {
		return err
	}
	if d.toClipboard {
		return e.Copy(img)
	}
	return nil
}

// apply draws the annotation onto a copy of src.
func (d *drawCmd) apply(src *image.RGBA) (*image.RGBA, error) {
	m := paint.NewModel()
	m.AddTemporary(d.points[0], d.kind, d.settings)
	for _, pt := range d.points[1:] {
		if err := m.UpdateTemporary(pt, d.center); err != nil {
			return nil, err
		}
	}
	if d.kind == paint.KindText {
		if err := m.EditText(func(t *paint.Text) { t.Insert(d.text) }); err != nil {
			return nil, err
		}
	}
	p, err := m.CommitTemporary()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%s has nothing to draw", d.kind)
	}
	cfg := d.cfg()
	r := render.NewRenderer(src, render.NewKernel(cfg.BlurRadius, cfg.BlurSigma))
	return r.Snapshot(m), nil
}
