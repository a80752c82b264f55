package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"testing"

	"github.com/example/shotmark/internal/geom"
)

type fakeFrame struct {
	p         *fakeProtocol
	out       Output
	buf       *Buffer
	destroyed bool
}

func (f *fakeFrame) Copy(buf *Buffer) error {
	f.buf = buf
	if f.p.silent {
		return nil
	}
	if gate, ok := f.p.async[f.out.Name]; ok {
		n := len(buf.Data)
		f.p.wg.Add(1)
		go func() {
			defer f.p.wg.Done()
			<-gate
			pix := make([]byte, n)
			for i := range pix {
				pix[i] = 0xAB
			}
			f.p.queue.push(Event{Frame: f, Kind: EventReady, Data: pix})
		}()
		return nil
	}
	for i := range buf.Data {
		buf.Data[i] = byte(i)
	}
	if err, ok := f.p.fail[f.out.Name]; ok {
		f.p.queue.push(Event{Frame: f, Kind: EventFailed, Err: err})
		return nil
	}
	if f.p.yInvert[f.out.Name] {
		f.p.queue.push(Event{Frame: f, Kind: EventFlags, Flags: FlagYInvert})
	}
	f.p.queue.push(Event{Frame: f, Kind: EventReady})
	return nil
}

func (f *fakeFrame) Destroy() { f.destroyed = true }

type fakeProtocol struct {
	queue   *eventQueue
	outputs []Output
	fail    map[string]error
	yInvert map[string]bool
	silent  bool
	frames  []*fakeFrame
	// async outputs complete on a goroutine once their gate is closed.
	async   map[string]chan struct{}
	wg      sync.WaitGroup
}

func newFakeProtocol(outputs ...Output) *fakeProtocol {
	return &fakeProtocol{queue: newEventQueue(), outputs: outputs, fail: map[string]error{}, yInvert: map[string]bool{}, async: map[string]chan struct{}{}}
}

func (p *fakeProtocol) Outputs(context.Context) ([]Output, error) { return p.outputs, nil }

func (p *fakeProtocol) CaptureOutput(out Output) (Frame, error) {
	f := &fakeFrame{p: p, out: out}
	p.frames = append(p.frames, f)
	p.queue.push(Event{Frame: f, Kind: EventBuffer, Format: FormatXRGB8888, Width: out.Geometry.Width, Height: out.Geometry.Height, Stride: out.Geometry.Width * 4})
	return f, nil
}

func (p *fakeProtocol) Dispatch(ctx context.Context) (Event, error) { return p.queue.next(ctx) }

func (p *fakeProtocol) Close() error { return nil }

func twoOutputs() []Output {
	left := geom.Box{X: 0, Y: 0, Width: 40, Height: 30}
	right := geom.Box{X: 40, Y: 0, Width: 20, Height: 30}
	return []Output{
		{Name: "DP-1", Geometry: left, Logical: left, Scale: 1},
		{Name: "HDMI-1", Geometry: geom.Box{Width: 40, Height: 60}, Logical: right, Scale: 2},
	}
}

func TestCaptureAllOutputs(t *testing.T) {
	outs := twoOutputs()
	p := newFakeProtocol(outs...)
	p.yInvert["HDMI-1"] = true

	caps, err := CaptureLayout(context.Background(), p, nil)
	if err != nil {
		t.Fatalf("CaptureLayout: %v", err)
	}
	defer caps.Release()
	if len(caps) != 2 {
		t.Fatalf("got %d captures, want 2", len(caps))
	}
	for i, c := range caps {
		if c.Output.Name != outs[i].Name {
			t.Fatalf("capture %d is %s, want %s", i, c.Output.Name, outs[i].Name)
		}
		if c.Buffer == nil || c.Buffer.Width != outs[i].Geometry.Width || c.Buffer.Height != outs[i].Geometry.Height {
			t.Fatalf("capture %d buffer = %+v", i, c.Buffer)
		}
	}
	if caps[0].Flags != 0 || caps[1].Flags != FlagYInvert {
		t.Fatalf("flags = %v, %v", caps[0].Flags, caps[1].Flags)
	}
	for _, f := range p.frames {
		if !f.destroyed {
			t.Fatalf("frame for %s not destroyed after capture", f.out.Name)
		}
	}
}

func TestCaptureRegionSkipsOutputs(t *testing.T) {
	p := newFakeProtocol(twoOutputs()...)
	caps, err := Capture(context.Background(), p, p.outputs, geom.Box{X: 45, Y: 5, Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	defer caps.Release()
	if len(caps) != 1 || caps[0].Output.Name != "HDMI-1" {
		t.Fatalf("captured %v, want only HDMI-1", caps.Outputs())
	}
	if len(p.frames) != 1 {
		t.Fatalf("requested %d frames, want 1", len(p.frames))
	}
}

func TestCaptureEmptyRegion(t *testing.T) {
	p := newFakeProtocol(twoOutputs()...)
	_, err := Capture(context.Background(), p, p.outputs, geom.Box{X: 500, Y: 500, Width: 10, Height: 10})
	if !errors.Is(err, ErrEmptyRegion) {
		t.Fatalf("err = %v, want ErrEmptyRegion", err)
	}
}

func TestCaptureNilProtocol(t *testing.T) {
	if _, err := Capture(context.Background(), nil, nil, geom.Box{}); !errors.Is(err, ErrProtocolMissing) {
		t.Fatalf("err = %v, want ErrProtocolMissing", err)
	}
}

func TestCaptureFailureIsFatal(t *testing.T) {
	p := newFakeProtocol(twoOutputs()...)
	cause := errors.New("buffer rejected")
	p.fail["HDMI-1"] = cause

	caps, err := CaptureLayout(context.Background(), p, nil)
	if caps != nil {
		t.Fatalf("expected no captures on failure")
	}
	if !errors.Is(err, ErrFrameCopyFailed) || !errors.Is(err, cause) {
		t.Fatalf("err = %v, want frame copy failure wrapping cause", err)
	}
	var fce *FrameCopyError
	if !errors.As(err, &fce) || fce.Output != "HDMI-1" {
		t.Fatalf("err = %#v, want FrameCopyError for HDMI-1", err)
	}
	for _, f := range p.frames {
		if f.buf != nil && !f.buf.Released() {
			t.Fatalf("buffer for %s still held after failure", f.out.Name)
		}
	}
}

func TestCaptureCancelled(t *testing.T) {
	p := newFakeProtocol(twoOutputs()...)
	p.silent = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CaptureLayout(ctx, p, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	for _, f := range p.frames {
		if f.buf != nil && !f.buf.Released() {
			t.Fatalf("buffer for %s still held after cancel", f.out.Name)
		}
	}
}

func TestBufferImageFormats(t *testing.T) {
	tests := []struct {
		format PixelFormat
		pixel  [4]byte
		want   color.RGBA
	}{
		{FormatXRGB8888, [4]byte{0x10, 0x20, 0x30, 0x00}, color.RGBA{0x30, 0x20, 0x10, 0xFF}},
		{FormatARGB8888, [4]byte{0x10, 0x20, 0x30, 0x80}, color.RGBA{0x30, 0x20, 0x10, 0x80}},
		{FormatXBGR8888, [4]byte{0x10, 0x20, 0x30, 0x00}, color.RGBA{0x10, 0x20, 0x30, 0xFF}},
		{FormatABGR8888, [4]byte{0x10, 0x20, 0x30, 0x40}, color.RGBA{0x10, 0x20, 0x30, 0x40}},
	}
	for _, tc := range tests {
		buf, err := NewBuffer(tc.format, 2, 2, 12)
		if err != nil {
			t.Fatalf("NewBuffer: %v", err)
		}
		copy(buf.Data[12+4:], tc.pixel[:])
		img, err := buf.Image()
		if err != nil {
			t.Fatalf("%v: Image: %v", tc.format, err)
		}
		if got := img.RGBAAt(1, 1); got != tc.want {
			t.Fatalf("%v: pixel = %v, want %v", tc.format, got, tc.want)
		}
		buf.Release()
		buf.Release()
		if _, err := buf.Image(); err == nil {
			t.Fatalf("%v: Image after Release should fail", tc.format)
		}
	}
}

func TestNewBufferRejectsBadLayout(t *testing.T) {
	if _, err := NewBuffer(FormatARGB8888, 0, 10, 0); err == nil {
		t.Fatalf("expected error for empty buffer")
	}
	if _, err := NewBuffer(FormatARGB8888, 10, 10, 20); err == nil {
		t.Fatalf("expected error for short stride")
	}
}

func TestFromImageAndDecode(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(2, 1, color.RGBA{R: 200, A: 255})
	var enc bytes.Buffer
	if err := png.Encode(&enc, src); err != nil {
		t.Fatalf("encode: %v", err)
	}
	prev := stdin
	stdin = &enc
	t.Cleanup(func() { stdin = prev })

	img, err := LoadFile(StdinPath)
	if err != nil {
		t.Fatalf("LoadFile(stdin): %v", err)
	}
	caps := FromImage("stdin", img)
	defer caps.Release()
	if len(caps) != 1 || caps[0].Output.Logical != (geom.Box{Width: 3, Height: 2}) {
		t.Fatalf("FromImage = %+v", caps)
	}
	out, err := caps[0].Buffer.Image()
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	if got := out.RGBAAt(2, 1); got != (color.RGBA{R: 200, A: 255}) {
		t.Fatalf("pixel = %v", got)
	}
}

func TestFindOutput(t *testing.T) {
	outs := twoOutputs()
	outs[1].Primary = true
	tests := []struct {
		sel     string
		want    string
		wantErr bool
	}{
		{"", "DP-1", false},
		{"primary", "HDMI-1", false},
		{"1", "HDMI-1", false},
		{"#0", "DP-1", false},
		{"hdmi", "HDMI-1", false},
		{"5", "", true},
		{"VGA", "", true},
	}
	for _, tc := range tests {
		got, err := FindOutput(outs, tc.sel)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("FindOutput(%q) expected error", tc.sel)
			}
			continue
		}
		if err != nil || got.Name != tc.want {
			t.Fatalf("FindOutput(%q) = %s, %v; want %s", tc.sel, got.Name, err, tc.want)
		}
	}
	if _, err := FindOutput(nil, ""); !errors.Is(err, errNoOutputs) {
		t.Fatalf("FindOutput(nil) err = %v", err)
	}
}

func TestTransformBits(t *testing.T) {
	tests := []struct {
		t       Transform
		turns   int
		flipped bool
		swaps   bool
		name    string
	}{
		{TransformNormal, 0, false, false, "0"},
		{Transform90, 1, false, true, "90"},
		{Transform180, 2, false, false, "180"},
		{TransformFlipped270, 3, true, true, "flipped-270"},
	}
	for _, tc := range tests {
		if tc.t.QuarterTurns() != tc.turns || tc.t.Flipped() != tc.flipped || tc.t.SwapsAxes() != tc.swaps || tc.t.String() != tc.name {
			t.Fatalf("transform %d: turns=%d flipped=%v swaps=%v name=%s", tc.t, tc.t.QuarterTurns(), tc.t.Flipped(), tc.t.SwapsAxes(), tc.t)
		}
	}
	out := Output{Geometry: geom.Box{Width: 1600, Height: 2560}, Logical: geom.Box{Width: 1280, Height: 800}, Transform: Transform90, Scale: 2}
	if got := out.LogicalScale(); got != 2 {
		t.Fatalf("LogicalScale = %v, want 2", got)
	}
}

func TestCaptureAsyncFrameData(t *testing.T) {
	p := newFakeProtocol(twoOutputs()...)
	gate := make(chan struct{})
	close(gate)
	p.async["DP-1"] = gate

	caps, err := CaptureLayout(context.Background(), p, nil)
	if err != nil {
		t.Fatalf("CaptureLayout: %v", err)
	}
	defer caps.Release()
	for i, b := range caps[0].Buffer.Data {
		if b != 0xAB {
			t.Fatalf("byte %d = %#x, want the delivered frame data", i, b)
		}
	}
}

func TestCaptureLateFrameAfterSiblingFailure(t *testing.T) {
	p := newFakeProtocol(twoOutputs()...)
	gate := make(chan struct{})
	p.async["DP-1"] = gate
	p.fail["HDMI-1"] = errors.New("output unplugged")

	_, err := CaptureLayout(context.Background(), p, nil)
	var ferr *FrameCopyError
	if !errors.As(err, &ferr) || ferr.Output != "HDMI-1" {
		t.Fatalf("err = %v, want a frame copy error for HDMI-1", err)
	}
	slow := p.frames[0]
	if !slow.buf.Released() {
		t.Fatalf("DP-1 buffer not released after the failure")
	}

	close(gate)
	p.wg.Wait()
	if slow.buf.Data != nil {
		t.Fatalf("late frame wrote into a released buffer")
	}
}
