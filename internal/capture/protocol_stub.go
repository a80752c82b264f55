//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import (
	"context"
	"fmt"
)

// X11Protocol is unavailable on this platform.
type X11Protocol struct{ unsupported }

// NewX11Protocol always fails with ErrProtocolMissing on this platform.
func NewX11Protocol() (*X11Protocol, error) {
	return nil, fmt.Errorf("%w: X11 is not supported on this platform", ErrProtocolMissing)
}

// PortalProtocol is unavailable on this platform.
type PortalProtocol struct{ unsupported }

// NewPortalProtocol returns a backend whose every call fails.
func NewPortalProtocol([]Output) *PortalProtocol { return &PortalProtocol{} }

type unsupported struct{}

func (unsupported) Outputs(context.Context) ([]Output, error) {
	return nil, fmt.Errorf("%w: not supported on this platform", ErrProtocolMissing)
}

func (unsupported) CaptureOutput(Output) (Frame, error) {
	return nil, fmt.Errorf("%w: not supported on this platform", ErrProtocolMissing)
}

func (unsupported) Dispatch(ctx context.Context) (Event, error) {
	<-ctx.Done()
	return Event{}, ctx.Err()
}

func (unsupported) Close() error { return nil }
