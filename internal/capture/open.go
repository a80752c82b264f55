package capture

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/example/shotmark/internal/geom"
)

// Backend names accepted by Open.
const (
	BackendAuto   = "auto"
	BackendX11    = "x11"
	BackendPortal = "portal"
)

// Open selects a protocol. In auto mode a Wayland session uses the portal
// and anything else tries X11 first, falling back to the portal.
func Open(backend string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendAuto:
		if runningOnWayland() {
			return NewPortalProtocol(nil), nil
		}
		x, err := NewX11Protocol()
		if err != nil {
			return NewPortalProtocol(nil), nil
		}
		return x, nil
	case BackendX11:
		return NewX11Protocol()
	case BackendPortal:
		return NewPortalProtocol(nil), nil
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrProtocolMissing, backend)
}

// CaptureLayout discovers outputs and captures region, or the whole layout
// when region is nil.
func CaptureLayout(ctx context.Context, p Protocol, region *geom.Box) (Captures, error) {
	outputs, err := p.Outputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list outputs: %w", err)
	}
	box := Layout(outputs)
	if region != nil {
		box = *region
	}
	return Capture(ctx, p, outputs, box)
}

func runningOnWayland() bool {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")), "wayland") {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}
