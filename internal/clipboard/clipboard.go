// Package clipboard copies the annotated canvas to the desktop clipboard
// and reads text back for pasting into a text paint.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"sync"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
)

// ErrEmpty is returned by PasteText when the clipboard holds no text.
var ErrEmpty = errors.New("clipboard does not contain text data")

// backend is the platform clipboard. It is replaced in tests.
var backend interface {
	setup() error
	writeImage(data []byte) error
	readText() ([]byte, error)
}

func ensureInit() error {
	initOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			initErr = errNoDisplay
			return
		}
		initErr = backend.setup()
	})
	return initErr
}

// CopyImage publishes img to the clipboard as PNG.
func CopyImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode clipboard image: %w", err)
	}
	return backend.writeImage(buf.Bytes())
}

// PasteText returns the clipboard text with carriage returns and trailing
// NULs removed.
func PasteText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data, err := backend.readText()
	if err != nil {
		return "", err
	}
	s := strings.TrimRight(string(data), "\x00")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	if s == "" {
		return "", ErrEmpty
	}
	return s, nil
}
