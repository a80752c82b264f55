//go:build !((linux || freebsd || openbsd || netbsd || dragonfly) && cgo)

package clipboard

import "errors"

var errUnsupported = errors.New("clipboard operations require cgo on a unix desktop")

type unsupportedClipboard struct{}

func init() { backend = unsupportedClipboard{} }

func (unsupportedClipboard) setup() error { return errUnsupported }

func (unsupportedClipboard) writeImage([]byte) error { return errUnsupported }

func (unsupportedClipboard) readText() ([]byte, error) { return nil, errUnsupported }
