// Package capture acquires one pixel buffer per output through a
// request/event screen-capture protocol.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/example/shotmark/internal/geom"
)

var (
	// ErrEmptyRegion means no output intersects the requested region.
	ErrEmptyRegion = errors.New("no output intersects the capture region")
	// ErrProtocolMissing means no usable capture protocol is available.
	ErrProtocolMissing = errors.New("screen capture protocol unavailable")
	// ErrFrameCopyFailed is wrapped by FrameCopyError.
	ErrFrameCopyFailed = errors.New("frame copy failed")
)

// FrameCopyError reports the output whose frame could not be copied.
type FrameCopyError struct {
	Output string
	Err    error
}

func (e *FrameCopyError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v on output %s", ErrFrameCopyFailed, e.Output)
	}
	return fmt.Sprintf("%v on output %s: %v", ErrFrameCopyFailed, e.Output, e.Err)
}

func (e *FrameCopyError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFrameCopyFailed}
	}
	return []error{ErrFrameCopyFailed, e.Err}
}

// EventKind enumerates the frame events a protocol can emit.
type EventKind int

const (
	// EventBuffer announces the buffer layout the frame needs.
	EventBuffer EventKind = iota
	// EventFlags carries FrameFlags for the frame.
	EventFlags
	// EventReady means the frame has been written into its buffer.
	EventReady
	// EventFailed means the frame cannot be delivered.
	EventFailed
)

// FrameFlags are per-frame bits reported by the protocol.
type FrameFlags uint32

// FlagYInvert marks a buffer stored bottom row first.
const FlagYInvert FrameFlags = 1

// Event is one message from a Protocol about a requested frame.
type Event struct {
	Frame Frame
	Kind  EventKind

	// Set for EventBuffer.
	Format        PixelFormat
	Width, Height int
	Stride        int

	// Set for EventFlags.
	Flags FrameFlags

	// Optional detail for EventFailed.
	Err error

	// Optional pixels for EventReady, laid out like the frame's buffer.
	// Capture copies them into the buffer, so backends that grab on another
	// goroutine never write to a buffer that may already be released.
	Data []byte
}

// Frame is a pending frame request for one output.
type Frame interface {
	// Copy asks the backend to write the frame into buf. Completion is
	// reported later as EventReady or EventFailed.
	Copy(buf *Buffer) error
	Destroy()
}

// Protocol is a compositor screen-capture protocol.
type Protocol interface {
	Outputs(ctx context.Context) ([]Output, error)
	CaptureOutput(out Output) (Frame, error)
	// Dispatch blocks until the next event arrives or ctx is done.
	Dispatch(ctx context.Context) (Event, error)
	Close() error
}

type frameState int

const (
	framePending frameState = iota
	frameReady
)

// OutputCapture is the result of capturing a single output.
type OutputCapture struct {
	Output Output
	Buffer *Buffer
	Flags  FrameFlags

	frame Frame
	state frameState
}

// Release frees the buffer and any outstanding protocol resources.
func (c *OutputCapture) Release() {
	if c == nil {
		return
	}
	if c.frame != nil {
		c.frame.Destroy()
		c.frame = nil
	}
	c.Buffer.Release()
}

// Captures is the ordered result of a capture, in output discovery order.
type Captures []*OutputCapture

// Release frees every capture.
func (cs Captures) Release() {
	for _, c := range cs {
		c.Release()
	}
}

// Outputs lists the output metadata of every capture.
func (cs Captures) Outputs() []Output {
	out := make([]Output, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Output)
	}
	return out
}

// Capture requests a frame for every output intersecting region and blocks
// until each one is ready. Any failure aborts the whole capture and releases
// the buffers acquired so far.
func Capture(ctx context.Context, p Protocol, outputs []Output, region geom.Box) (Captures, error) {
	if p == nil {
		return nil, ErrProtocolMissing
	}
	var caps Captures
	byFrame := make(map[Frame]*OutputCapture)
	for _, out := range outputs {
		if !out.Logical.Intersects(region) {
			continue
		}
		frame, err := p.CaptureOutput(out)
		if err != nil {
			caps.Release()
			return nil, fmt.Errorf("capture output %s: %w", out.Name, err)
		}
		oc := &OutputCapture{Output: out, frame: frame}
		caps = append(caps, oc)
		byFrame[frame] = oc
	}
	if len(caps) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyRegion, region)
	}

	pending := len(caps)
	for pending > 0 {
		ev, err := p.Dispatch(ctx)
		if err != nil {
			caps.Release()
			return nil, fmt.Errorf("capture dispatch: %w", err)
		}
		oc, ok := byFrame[ev.Frame]
		if !ok {
			log.Printf("capture: event %d for unknown frame", ev.Kind)
			continue
		}
		switch ev.Kind {
		case EventBuffer:
			oc.Buffer.Release()
			buf, err := NewBuffer(ev.Format, ev.Width, ev.Height, ev.Stride)
			if err != nil {
				caps.Release()
				return nil, &FrameCopyError{Output: oc.Output.Name, Err: err}
			}
			oc.Buffer = buf
			if err := ev.Frame.Copy(buf); err != nil {
				caps.Release()
				return nil, &FrameCopyError{Output: oc.Output.Name, Err: err}
			}
		case EventFlags:
			oc.Flags = ev.Flags
		case EventReady:
			if oc.state == frameReady {
				continue
			}
			if oc.Buffer == nil {
				caps.Release()
				return nil, &FrameCopyError{Output: oc.Output.Name, Err: errors.New("ready before buffer")}
			}
			if ev.Data != nil {
				if len(ev.Data) < len(oc.Buffer.Data) {
					caps.Release()
					return nil, &FrameCopyError{Output: oc.Output.Name, Err: fmt.Errorf("frame data truncated: %d of %d bytes", len(ev.Data), len(oc.Buffer.Data))}
				}
				copy(oc.Buffer.Data, ev.Data)
			}
			oc.state = frameReady
			pending--
		case EventFailed:
			caps.Release()
			return nil, &FrameCopyError{Output: oc.Output.Name, Err: ev.Err}
		}
	}
	for _, oc := range caps {
		oc.frame.Destroy()
		oc.frame = nil
	}
	return caps, nil
}

// eventQueue is an unbounded FIFO that backends use to hand events to
// Dispatch. Pushing never blocks, so backends may push from inside Copy.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	signal chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{signal: make(chan struct{}, 1)}
}

func (q *eventQueue) push(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

func (q *eventQueue) next(ctx context.Context) (Event, error) {
	for {
		q.mu.Lock()
		if len(q.events) > 0 {
			ev := q.events[0]
			q.events = q.events[1:]
			q.mu.Unlock()
			return ev, nil
		}
		q.mu.Unlock()
		select {
		case <-q.signal:
		case <-ctx.Done():
			return Event{}, ctx.Err()
		}
	}
}
