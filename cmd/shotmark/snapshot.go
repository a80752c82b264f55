package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/example/shotmark/internal/export"
	"github.com/example/shotmark/internal/render"
)

// snapshotCmd captures without opening the editor and writes the result.
type snapshotCmd struct {
	source        sourceFlags
	output        string
	stdout        bool
	toClipboard   bool
	shadow        bool
	shadowRadius  int
	shadowOffset  string
	shadowPoint   image.Point
	shadowOpacity float64
	*root
	fs *flag.FlagSet
}

func (s *snapshotCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseSnapshotCmd(args []string, r *root) (*snapshotCmd, error) {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	s := &snapshotCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	defaults := render.DefaultShadowOptions()
	s.source.register(fs)
	fs.StringVar(&s.output, "output-file", "", "write the capture to this file (default: save_dir and save_filename_format)")
	fs.StringVar(&s.output, "o", "", "write the capture to this file (alias)")
	fs.BoolVar(&s.stdout, "stdout", false, "write PNG data to stdout")
	fs.BoolVar(&s.toClipboard, "to-clipboard", false, "copy the capture to the clipboard")
	fs.BoolVar(&s.toClipboard, "to-clip", false, "copy the capture to the clipboard (alias)")
	fs.BoolVar(&s.shadow, "shadow", false, "apply a drop shadow to the captured image")
	fs.IntVar(&s.shadowRadius, "shadow-radius", defaults.Radius, "drop shadow blur radius in pixels")
	fs.StringVar(&s.shadowOffset, "shadow-offset", formatShadowOffset(defaults.Offset), "drop shadow offset as dx,dy")
	fs.Float64Var(&s.shadowOpacity, "shadow-opacity", defaults.Opacity, "drop shadow opacity between 0 and 1")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	pt, err := parseShadowOffset(s.shadowOffset)
	if err != nil {
		return nil, err
	}
	s.shadowPoint = pt
	if s.toClipboard && s.stdout {
		return nil, fmt.Errorf("-stdout cannot be used with -to-clipboard")
	}
	if s.stdout {
		s.output = export.Stdout
	}
	if err := s.source.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *snapshotCmd) Run() error {
	c, err := s.source.load(context.Background())
	if err != nil {
		return fmt.Errorf("snapshot %s: %w", s.source.describe(), err)
	}
	img := c.Image
	if s.shadow {
		img = render.ApplyShadow(img, s.shadowOptions()).Image
	}
	e := s.root.exporter()
	if s.toClipboard {
		return e.Copy(img)
	}
	_, err = e.Save(img, s.output)
	return err
}

func (s *snapshotCmd) shadowOptions() render.ShadowOptions {
	opts := render.DefaultShadowOptions()
	opts.Radius = max(s.shadowRadius, 0)
	opts.Offset = s.shadowPoint
	opts.Opacity = min(max(s.shadowOpacity, 0), 1)
	return opts
}

func parseShadowOffset(val string) (image.Point, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 2 {
		return image.Point{}, fmt.Errorf("invalid shadow offset %q", val)
	}
	vals := make([]int, 2)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Point{}, fmt.Errorf("invalid shadow offset %q", val)
		}
		vals[i] = v
	}
	return image.Pt(vals[0], vals[1]), nil
}

func formatShadowOffset(pt image.Point) string {
	return fmt.Sprintf("%d,%d", pt.X, pt.Y)
}
