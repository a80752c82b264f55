package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"strings"

	"github.com/example/shotmark/internal/capture"
	"github.com/example/shotmark/internal/compositor"
	"github.com/example/shotmark/internal/geom"
)

// sourceFlags selects where the canvas comes from: a file, stdin, or a
// screen capture of a region, one output or the whole layout.
type sourceFlags struct {
	file     string
	backend  string
	geometry string
	display  string
}

func (s *sourceFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&s.file, "file", "", "annotate this image instead of capturing; - reads stdin")
	fs.StringVar(&s.backend, "backend", capture.BackendAuto, "capture backend: auto, x11 or portal")
	fs.StringVar(&s.geometry, "geometry", "", "capture region as \"x,y WxH\" in logical coordinates")
	fs.StringVar(&s.display, "display", "", "capture one output by index, name or \"primary\"")
}

func (s *sourceFlags) validate() error {
	if s.geometry != "" && s.display != "" {
		return fmt.Errorf("-geometry cannot be used with -display")
	}
	if s.file != "" && (s.geometry != "" || s.display != "") {
		return fmt.Errorf("-file cannot be combined with capture options")
	}
	if s.geometry != "" {
		if _, err := geom.ParseBox(s.geometry); err != nil {
			return err
		}
	}
	return nil
}

func (s *sourceFlags) describe() string {
	switch {
	case s.file == capture.StdinPath:
		return "stdin"
	case s.file != "":
		return s.file
	case s.geometry != "":
		return "region " + s.geometry
	case s.display != "":
		return "output " + s.display
	}
	return "screen"
}

// canvas is a composited image together with the outputs it came from.
type canvas struct {
	Image   *image.RGBA
	Outputs []capture.Output
}

// screenSize is the logical size of the captured layout, or zero for file
// input.
func (c canvas) screenSize() image.Point {
	b := capture.Layout(c.Outputs)
	return image.Pt(b.Width, b.Height)
}

var (
	openProtocolFn = capture.Open
	loadFileFn     = capture.LoadFile
)

// load produces the canvas. Captures are released once composited.
func (s *sourceFlags) load(ctx context.Context) (canvas, error) {
	if s.file != "" {
		img, err := loadFileFn(s.file)
		if err != nil {
			return canvas{}, err
		}
		caps := capture.FromImage(s.file, img)
		defer caps.Release()
		out, err := compositor.Composite(compositor.NewCanvas(capture.Layout(caps.Outputs()), caps), caps)
		if err != nil {
			return canvas{}, err
		}
		return canvas{Image: out}, nil
	}

	p, err := openProtocolFn(s.backend)
	if err != nil {
		return canvas{}, err
	}
	defer p.Close()

	region, err := s.region(ctx, p)
	if err != nil {
		return canvas{}, err
	}
	caps, err := capture.CaptureLayout(ctx, p, region)
	if err != nil {
		return canvas{}, err
	}
	defer caps.Release()

	box := capture.Layout(caps.Outputs())
	if region != nil {
		box = *region
	}
	img, err := compositor.Composite(compositor.NewCanvas(box, caps), caps)
	if err != nil {
		return canvas{}, err
	}
	return canvas{Image: img, Outputs: caps.Outputs()}, nil
}

func (s *sourceFlags) region(ctx context.Context, p capture.Protocol) (*geom.Box, error) {
	if strings.TrimSpace(s.geometry) != "" {
		box, err := geom.ParseBox(s.geometry)
		if err != nil {
			return nil, err
		}
		return &box, nil
	}
	if strings.TrimSpace(s.display) == "" {
		return nil, nil
	}
	outputs, err := p.Outputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	out, err := capture.FindOutput(outputs, s.display)
	if err != nil {
		return nil, err
	}
	return &out.Logical, nil
}
