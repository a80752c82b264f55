//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"golang.design/x/clipboard"
)

type systemClipboard struct{}

func init() { backend = systemClipboard{} }

func (systemClipboard) setup() error { return clipboard.Init() }

func (systemClipboard) writeImage(data []byte) error {
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func (systemClipboard) readText() ([]byte, error) {
	return clipboard.Read(clipboard.FmtText), nil
}
