package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/example/shotmark/internal/capture"
)

type outputsCmd struct {
	backend string
	out     io.Writer
	*root
	fs *flag.FlagSet
}

func parseOutputsCmd(args []string, r *root) (*outputsCmd, error) {
	fs := flag.NewFlagSet("outputs", flag.ExitOnError)
	cmd := &outputsCmd{root: r, fs: fs, out: os.Stdout}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.backend, "backend", capture.BackendAuto, "capture backend: auto, x11 or portal")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *outputsCmd) Run() error {
	p, err := openProtocolFn(c.backend)
	if err != nil {
		return err
	}
	defer p.Close()
	outputs, err := p.Outputs(context.Background())
	if err != nil {
		return fmt.Errorf("list outputs: %w", err)
	}
	if len(outputs) == 0 {
		fmt.Fprintln(c.out, "no outputs available")
		return nil
	}
	fmt.Fprintln(c.out, "available outputs (* marks the primary output):")
	for idx, out := range outputs {
		marker := " "
		if out.Primary {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %2d: %-12s logical=%s mode=%dx%d transform=%s scale=%d (%.2f)\n",
			marker, idx, out.Name, out.Logical, out.Geometry.Width, out.Geometry.Height,
			out.Transform, max(out.Scale, 1), out.LogicalScale())
	}
	fmt.Fprintf(c.out, "layout: %s\n", capture.Layout(outputs))
	return nil
}

func (c *outputsCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
