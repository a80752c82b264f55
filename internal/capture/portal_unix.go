//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/example/shotmark/internal/geom"
)

var portalHandleToken = newPortalHandleToken

// PortalProtocol captures through the xdg-desktop-portal Screenshot
// interface. The portal returns one image of the whole layout, which is
// sliced per output.
type PortalProtocol struct {
	layout []Output
	shot   *image.RGBA
	queue  *eventQueue

	// screenshot is swapped in tests.
	screenshot func(ctx context.Context) (*image.RGBA, error)
}

// NewPortalProtocol returns a portal backend. When layout is empty a
// single output covering the whole screenshot is reported.
func NewPortalProtocol(layout []Output) *PortalProtocol {
	return &PortalProtocol{layout: layout, queue: newEventQueue(), screenshot: portalScreenshot}
}

func (p *PortalProtocol) grab(ctx context.Context) (*image.RGBA, error) {
	if p.shot != nil {
		return p.shot, nil
	}
	shot, err := p.screenshot(ctx)
	if err != nil {
		return nil, err
	}
	p.shot = shot
	return shot, nil
}

// Outputs maps the known layout onto screenshot pixels.
func (p *PortalProtocol) Outputs(ctx context.Context) ([]Output, error) {
	shot, err := p.grab(ctx)
	if err != nil {
		return nil, err
	}
	size := geom.FromRect(shot.Bounds())
	if len(p.layout) == 0 {
		return []Output{{Name: "screen", Geometry: size, Logical: size, Scale: 1, Primary: true}}, nil
	}
	layout := Layout(p.layout)
	sx := float64(size.Width) / float64(layout.Width)
	sy := float64(size.Height) / float64(layout.Height)
	outputs := make([]Output, len(p.layout))
	for i, out := range p.layout {
		out.Geometry = geom.Box{
			X:      int(float64(out.Logical.X-layout.X) * sx),
			Y:      int(float64(out.Logical.Y-layout.Y) * sy),
			Width:  int(float64(out.Logical.Width) * sx),
			Height: int(float64(out.Logical.Height) * sy),
		}
		out.Transform = TransformNormal
		outputs[i] = out
	}
	return outputs, nil
}

// CaptureOutput queues a buffer for the output's slice of the screenshot.
func (p *PortalProtocol) CaptureOutput(out Output) (Frame, error) {
	if out.Geometry.Empty() {
		return nil, fmt.Errorf("output %s has empty geometry", out.Name)
	}
	f := &portalFrame{p: p, box: out.Geometry}
	p.queue.push(Event{
		Frame:  f,
		Kind:   EventBuffer,
		Format: FormatABGR8888,
		Width:  out.Geometry.Width,
		Height: out.Geometry.Height,
		Stride: out.Geometry.Width * 4,
	})
	return f, nil
}

// Dispatch returns the next queued frame event.
func (p *PortalProtocol) Dispatch(ctx context.Context) (Event, error) {
	return p.queue.next(ctx)
}

// Close drops the cached screenshot.
func (p *PortalProtocol) Close() error {
	p.shot = nil
	return nil
}

type portalFrame struct {
	p   *PortalProtocol
	box geom.Box
}

func (f *portalFrame) Copy(buf *Buffer) error {
	if f.p.shot == nil {
		return errors.New("portal screenshot not taken")
	}
	dst := &image.RGBA{Pix: buf.Data, Stride: buf.Stride, Rect: image.Rect(0, 0, buf.Width, buf.Height)}
	draw.Draw(dst, dst.Bounds(), f.p.shot, f.box.Rect().Min, draw.Src)
	f.p.queue.push(Event{Frame: f, Kind: EventReady})
	return nil
}

func (f *portalFrame) Destroy() {}

func portalScreenshot(ctx context.Context) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: dbus connect: %v", ErrProtocolMissing, err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Printf("dbus close: %v", cerr)
		}
	}()

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	var handle dbus.ObjectPath
	call := obj.CallWithContext(ctx, "org.freedesktop.portal.Screenshot.Screenshot", 0, "", portalScreenshotOptions())
	if call.Err != nil {
		return nil, fmt.Errorf("%w: portal screenshot call: %v", ErrProtocolMissing, call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}

	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case sig, ok := <-sigc:
			if !ok {
				return nil, errors.New("portal screenshot: connection closed")
			}
			if sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" {
				continue
			}
			return portalResponseImage(sig.Body)
		}
	}
}

func portalResponseImage(body []interface{}) (*image.RGBA, error) {
	if len(body) < 2 {
		return nil, errors.New("portal screenshot: malformed response")
	}
	if code, ok := body[0].(uint32); ok && code != 0 {
		return nil, fmt.Errorf("portal screenshot: request ended with code %d", code)
	}
	res, ok := body[1].(map[string]dbus.Variant)
	if !ok {
		return nil, errors.New("portal screenshot: malformed results")
	}
	uriVar, ok := res["uri"]
	if !ok {
		return nil, errors.New("portal screenshot: response missing image data")
	}
	uri, ok := uriVar.Value().(string)
	if !ok {
		return nil, errors.New("portal screenshot: uri is not a string")
	}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("portal screenshot uri: %w", err)
	}
	defer func() {
		if err := os.Remove(u.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("remove %s: %v", u.Path, err)
		}
	}()
	return LoadFile(u.Path)
}

func newPortalHandleToken() string {
	return fmt.Sprintf("shotmark-%d", time.Now().UnixNano())
}

func portalScreenshotOptions() map[string]dbus.Variant {
	return map[string]dbus.Variant{
		"interactive":  dbus.MakeVariant(false),
		"modal":        dbus.MakeVariant(false),
		"handle_token": dbus.MakeVariant(portalHandleToken()),
	}
}
