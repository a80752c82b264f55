//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"context"
	"fmt"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"

	"github.com/example/shotmark/internal/geom"
)

// X11Protocol captures outputs by reading the root window of an X server.
// RandR supplies the output layout.
type X11Protocol struct {
	conn  *xgb.Conn
	setup *xproto.SetupInfo
	root  xproto.Window
	queue *eventQueue
}

// NewX11Protocol connects to the X server named by $DISPLAY.
func NewX11Protocol() (*X11Protocol, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("%w: connect X server: %v", ErrProtocolMissing, err)
	}
	setup := xproto.Setup(conn)
	if setup == nil {
		conn.Close()
		return nil, fmt.Errorf("%w: xproto setup unavailable", ErrProtocolMissing)
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		conn.Close()
		return nil, fmt.Errorf("%w: xproto screen unavailable", ErrProtocolMissing)
	}
	if err := randr.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: init randr: %v", ErrProtocolMissing, err)
	}
	return &X11Protocol{conn: conn, setup: setup, root: screen.Root, queue: newEventQueue()}, nil
}

// Outputs lists connected outputs with an active CRTC. The root window
// already holds rotated pixels, so every output is reported untransformed
// with its physical size equal to the CRTC size.
func (p *X11Protocol) Outputs(ctx context.Context) ([]Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := randr.GetScreenResources(p.conn, p.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}
	primary := randr.Output(0)
	if reply, err := randr.GetOutputPrimary(p.conn, p.root).Reply(); err == nil {
		primary = reply.Output
	}
	outputs := make([]Output, 0, len(res.Outputs))
	for _, id := range res.Outputs {
		info, err := randr.GetOutputInfo(p.conn, id, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(p.conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		box := geom.Box{X: int(crtc.X), Y: int(crtc.Y), Width: int(crtc.Width), Height: int(crtc.Height)}
		if box.Empty() {
			continue
		}
		outputs = append(outputs, Output{
			Name:      strings.TrimSpace(string(info.Name)),
			Geometry:  box,
			Logical:   box,
			Transform: TransformNormal,
			Scale:     1,
			Primary:   id == primary,
		})
	}
	if len(outputs) == 0 {
		return nil, errNoOutputs
	}
	return outputs, nil
}

// CaptureOutput queues the buffer description for out. The pixels are read
// when the caller hands a buffer to Copy.
func (p *X11Protocol) CaptureOutput(out Output) (Frame, error) {
	if out.Geometry.Empty() {
		return nil, fmt.Errorf("output %s has empty geometry", out.Name)
	}
	f := &x11Frame{p: p, box: out.Geometry}
	p.queue.push(Event{
		Frame:  f,
		Kind:   EventBuffer,
		Format: FormatXRGB8888,
		Width:  out.Geometry.Width,
		Height: out.Geometry.Height,
		Stride: out.Geometry.Width * 4,
	})
	return f, nil
}

// Dispatch returns the next queued frame event.
func (p *X11Protocol) Dispatch(ctx context.Context) (Event, error) {
	return p.queue.next(ctx)
}

// Close disconnects from the X server.
func (p *X11Protocol) Close() error {
	p.conn.Close()
	return nil
}

type x11Frame struct {
	p    *X11Protocol
	box  geom.Box
	done bool
}

func (f *x11Frame) Copy(buf *Buffer) error {
	if f.done {
		return fmt.Errorf("frame already copied")
	}
	f.done = true
	width, height, stride := buf.Width, buf.Height, buf.Stride
	go func() {
		reply, err := xproto.GetImage(f.p.conn, xproto.ImageFormatZPixmap, xproto.Drawable(f.p.root),
			int16(f.box.X), int16(f.box.Y), uint16(f.box.Width), uint16(f.box.Height), 0xffffffff).Reply()
		var pix []byte
		if err == nil {
			pix = make([]byte, stride*height)
			err = copyXImage(f.p.setup, reply, pix, width, height, stride)
		}
		if err != nil {
			f.p.queue.push(Event{Frame: f, Kind: EventFailed, Err: err})
			return
		}
		f.p.queue.push(Event{Frame: f, Kind: EventReady, Data: pix})
	}()
	return nil
}

func (f *x11Frame) Destroy() {}

// copyXImage writes a ZPixmap reply into dst as B, G, R, X bytes.
func copyXImage(setup *xproto.SetupInfo, reply *xproto.GetImageReply, dst []byte, width, height, stride int) error {
	if reply == nil || len(reply.Data) == 0 {
		return fmt.Errorf("get image: empty reply")
	}
	bitsPerPixel := 0
	for _, format := range setup.PixmapFormats {
		if format.Depth == reply.Depth {
			bitsPerPixel = int(format.BitsPerPixel)
			break
		}
	}
	bytesPerPixel := bitsPerPixel / 8
	if bytesPerPixel < 3 {
		return fmt.Errorf("unsupported depth %d (%d bpp)", reply.Depth, bitsPerPixel)
	}
	srcStride := len(reply.Data) / height
	if srcStride < width*bytesPerPixel {
		return fmt.Errorf("get image: stride %d too small", srcStride)
	}
	for y := 0; y < height; y++ {
		src := reply.Data[y*srcStride:]
		row := dst[y*stride:]
		for x := 0; x < width; x++ {
			s := x * bytesPerPixel
			d := x * 4
			row[d+0] = src[s+0]
			row[d+1] = src[s+1]
			row[d+2] = src[s+2]
			row[d+3] = 0xFF
		}
	}
	return nil
}
