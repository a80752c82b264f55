// Package appstate drives an interactive annotation session: it maps
// pointer and keyboard input onto the paint model and crop selection and
// presents the rendered canvas in a shiny window.
package appstate

import (
	"image"
	"image/draw"
	"log"

	xdraw "golang.org/x/image/draw"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/shotmark/internal/render"
	"github.com/example/shotmark/internal/theme"
)

// WindowTitle is the title of the annotation window.
const WindowTitle = "shotmark"

// WithTheme sets the window colours. Without it the default theme is used.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.theme = t } }

// WithScreenSize sets the display area used to size the initial window.
func WithScreenSize(p image.Point) Option { return func(a *AppState) { a.screen = p } }

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main runs the event loop on s until the window closes or the session
// quits.
func (a *AppState) Main(s screen.Screen) {
	canvas := a.CanvasSize()
	a.SetScale(FitScale(canvas, a.screen))
	view := viewRect(canvas, a.scale, image.Point{})
	width, height := view.Dx(), view.Dy()

	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: WindowTitle})
	if err != nil {
		log.Printf("new window: %v", err)
		a.finish()
		return
	}
	defer w.Release()
	defer a.finish()

	updateCh := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()
	defer close(done)
	a.AddRedrawListener(func() {
		select {
		case updateCh <- struct{}{}:
		default:
		}
	})

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			view = viewRect(canvas, a.scale, image.Pt(width, height))
			w.Send(paint.Event{})
		case paint.Event:
			a.drawFrame(s, w, image.Pt(width, height), view)
		case mouse.Event:
			if e.Button != mouse.ButtonLeft && e.Direction != mouse.DirNone {
				continue
			}
			pt := ScreenToCanvas(float64(e.X), float64(e.Y), view, a.scale, canvas)
			switch e.Direction {
			case mouse.DirPress:
				a.Press(pt)
			case mouse.DirNone:
				a.Drag(pt, e.Modifiers&key.ModControl != 0)
			case mouse.DirRelease:
				a.Release()
			}
		case key.Event:
			a.HandleKey(e)
		}
		if a.done {
			return
		}
	}
}

func (a *AppState) drawFrame(s screen.Screen, w screen.Window, win image.Point, view image.Rectangle) {
	if win.X <= 0 || win.Y <= 0 {
		return
	}
	b, err := s.NewBuffer(win)
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	dst := b.RGBA()
	th := a.theme
	if th == nil {
		th = theme.Default()
	}
	th.DrawBackground(dst, view)
	frame := a.Render()
	if a.scale == 1 {
		draw.Draw(dst, view, frame, frame.Bounds().Min, draw.Over)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, view, frame, frame.Bounds(), draw.Over, nil)
	}
	if a.cropping && a.crop != nil {
		sel := canvasToScreen(a.crop.Rect(), view, a.scale)
		render.DrawCropOverlay(dst.SubImage(view).(*image.RGBA), sel)
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
