// Package export writes the annotated canvas to disk, stdout or the
// clipboard.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/shotmark/internal/clipboard"
	"github.com/example/shotmark/internal/config"
	"github.com/example/shotmark/internal/notify"
)

// Stdout is the output path that selects standard output.
const Stdout = "-"

// ErrEmptyFilename is returned when the filename format expands to nothing.
var ErrEmptyFilename = errors.New("save filename format produced an empty name")

var (
	now       = time.Now
	copyImage = clipboard.CopyImage
)

// Exporter saves and copies images and announces the result.
type Exporter struct {
	Config   *config.Config
	Notifier *notify.Notifier
	// Status receives one line per completed export.
	Status io.Writer
	// Stdout receives PNG data when the output path is "-".
	Stdout io.Writer
}

// New returns an Exporter writing status lines to stderr.
func New(cfg *config.Config, n *notify.Notifier) *Exporter {
	if cfg == nil {
		cfg = config.New()
	}
	return &Exporter{Config: cfg, Notifier: n, Status: os.Stderr, Stdout: os.Stdout}
}

// Save writes img to path. An empty path saves into the configured save
// directory and "-" writes to stdout. It returns the absolute path written,
// or "-" for stdout.
func (e *Exporter) Save(img image.Image, path string) (string, error) {
	switch path {
	case "":
		return e.SaveToDir(img)
	case Stdout:
		if err := WritePNG(e.stdout(), img); err != nil {
			return "", fmt.Errorf("write PNG to stdout: %w", err)
		}
		e.status("wrote PNG data to stdout")
		return Stdout, nil
	}
	return e.SaveFile(img, path)
}

// SaveToDir writes img into the resolved save directory under a name
// generated from save_filename_format.
func (e *Exporter) SaveToDir(img image.Image) (string, error) {
	dir, err := e.Config.ResolveSaveDir()
	if err != nil {
		return "", err
	}
	format := e.Config.SaveFilenameFormat
	if strings.TrimSpace(format) == "" {
		format = config.DefaultFilenameFormat
	}
	name := FormatFilename(format, now())
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyFilename
	}
	return e.SaveFile(img, filepath.Join(dir, name))
}

// SaveFile writes img as PNG to path and sends the save notification.
func (e *Exporter) SaveFile(img image.Image, path string) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %q: %w", path, err)
	}
	if err := WritePNG(f, img); err != nil {
		if cerr := f.Close(); cerr != nil {
			log.Printf("close %q: %v", path, cerr)
		}
		return "", fmt.Errorf("write PNG to %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %q: %w", path, err)
	}
	saved := path
	if abs, err := filepath.Abs(path); err == nil {
		saved = abs
	}
	e.status("saved %s", saved)
	e.Notifier.Save(saved)
	return saved, nil
}

// Copy places img on the clipboard and sends the copy notification.
func (e *Exporter) Copy(img image.Image) error {
	if err := copyImage(img); err != nil {
		return fmt.Errorf("copy image to clipboard: %w", err)
	}
	b := img.Bounds()
	detail := fmt.Sprintf("%dx%d image", b.Dx(), b.Dy())
	e.status("copied %s to clipboard", detail)
	e.Notifier.Copy(detail)
	return nil
}

func (e *Exporter) status(format string, args ...any) {
	if e.Status == nil {
		return
	}
	fmt.Fprintf(e.Status, format+"\n", args...)
}

func (e *Exporter) stdout() io.Writer {
	if e.Stdout == nil {
		return os.Stdout
	}
	return e.Stdout
}

// WritePNG encodes img to w.
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Crop returns the part of img inside r as a new image with its origin at
// zero. An empty intersection returns img unchanged.
func Crop(img *image.RGBA, r image.Rectangle) *image.RGBA {
	r = r.Intersect(img.Bounds())
	if r.Empty() || r == img.Bounds() {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return out
}
