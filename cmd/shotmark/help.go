package main

import (
	"embed"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var helpFS embed.FS

// HelpData is implemented by every command that has a help page.
type HelpData interface {
	Program() string
	Template() string
	FlagSet() *flag.FlagSet
}

type flagInfo struct {
	Name     string
	DefValue string
	Usage    string
}

// flagRows lists the flags of fs in the order flag.VisitAll reports them.
func flagRows(fs *flag.FlagSet) []flagInfo {
	var rows []flagInfo
	if fs != nil {
		fs.VisitAll(func(f *flag.Flag) {
			rows = append(rows, flagInfo{Name: f.Name, DefValue: f.DefValue, Usage: f.Usage})
		})
	}
	return rows
}

var helpTemplates = sync.OnceValue(func() *template.Template {
	return template.Must(template.New("help").
		Funcs(template.FuncMap{"flags": flagRows}).
		ParseFS(helpFS, "templates/*.txt"))
})

// helpText renders the help page of h.
func helpText(h HelpData) (string, error) {
	var sb strings.Builder
	if err := helpTemplates().ExecuteTemplate(&sb, h.Template(), h); err != nil {
		return "", fmt.Errorf("render help %s: %w", h.Template(), err)
	}
	return sb.String(), nil
}

// UsageError reports bad command line usage. Its message is the help page
// of the command that rejected the arguments.
type UsageError struct {
	of HelpData
}

func (e *UsageError) Error() string {
	text, err := helpText(e.of)
	if err != nil {
		return err.Error()
	}
	return text
}

// usageFunc prints the help page of h to stderr. It is installed as the
// FlagSet's Usage.
func usageFunc(h HelpData) func() {
	return func() { fmt.Fprint(os.Stderr, (&UsageError{of: h}).Error()) }
}

func (r *root) Template() string        { return "root.txt" }
func (a *annotateCmd) Template() string { return "annotate.txt" }
func (s *snapshotCmd) Template() string { return "snapshot.txt" }
func (d *drawCmd) Template() string     { return "draw.txt" }
func (o *outputsCmd) Template() string  { return "outputs.txt" }
func (c *configCmd) Template() string   { return "config.txt" }
