package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/example/shotmark/internal/appstate"
	"github.com/example/shotmark/internal/clipboard"
	"github.com/example/shotmark/internal/theme"
)

// annotateCmd opens the interactive editor on a capture or a file.
type annotateCmd struct {
	source sourceFlags
	output string
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

var runSessionFn = func(st *appstate.AppState) { st.Run() }

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	a.source.register(fs)
	fs.StringVar(&a.output, "output-file", "", "file written on save and quit; - writes stdout")
	fs.StringVar(&a.output, "o", "", "file written on save and quit (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: a}
	}
	if err := a.source.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	c, err := a.source.load(context.Background())
	if err != nil {
		return fmt.Errorf("annotate %s: %w", a.source.describe(), err)
	}
	th, err := theme.NewLoader().Load(a.root.config.Theme)
	if err != nil {
		log.Printf("theme: %v", err)
		th = theme.Default()
	}
	st := appstate.New(c.Image,
		appstate.WithConfig(a.root.config),
		appstate.WithExporter(a.root.exporter()),
		appstate.WithOutput(a.output),
		appstate.WithPaste(clipboard.PasteText),
		appstate.WithScreenSize(c.screenSize()),
		appstate.WithTheme(th),
	)
	runSessionFn(st)
	return nil
}
