package appstate

import (
	"image"
	"image/color"
	"log"
	"sync"

	"github.com/example/shotmark/internal/config"
	"github.com/example/shotmark/internal/crop"
	"github.com/example/shotmark/internal/export"
	"github.com/example/shotmark/internal/geom"
	"github.com/example/shotmark/internal/paint"
	"github.com/example/shotmark/internal/render"
	"github.com/example/shotmark/internal/theme"
)

// Exporter writes the finished image. *export.Exporter implements it.
type Exporter interface {
	Save(img image.Image, path string) (string, error)
	Copy(img image.Image) error
}

// PaletteColor is a named quick-select colour.
type PaletteColor struct {
	Name  string
	Color color.NRGBA
}

var (
	Red   = PaletteColor{Name: "red", Color: color.NRGBA{R: 0xFF, A: 0xFF}}
	Green = PaletteColor{Name: "green", Color: color.NRGBA{G: 0xFF, A: 0xFF}}
	Blue  = PaletteColor{Name: "blue", Color: color.NRGBA{B: 0xFF, A: 0xFF}}
)

// AppState is one annotation session over a composited canvas.
type AppState struct {
	cfg      *config.Config
	model    *paint.Model
	renderer *render.Renderer
	keymap   Keymap
	exporter Exporter
	output   string
	paste    func() (string, error)
	theme    *theme.Theme

	settings paint.Settings
	tool     paint.Kind
	cropping bool
	crop     *crop.State
	cropLast geom.Point
	scale    float64
	screen   image.Point
	drawing  bool

	listenersMu sync.Mutex
	listeners   []func()
	onClose     func()
	closeOnce   sync.Once
	done        bool
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithConfig sets the configuration the session starts from.
func WithConfig(cfg *config.Config) Option { return func(a *AppState) { a.cfg = cfg } }

// WithExporter sets where save and copy send the image.
func WithExporter(e Exporter) Option { return func(a *AppState) { a.exporter = e } }

// WithOutput sets the file written by save. Empty uses the save directory
// and "-" writes to stdout.
func WithOutput(out string) Option { return func(a *AppState) { a.output = out } }

// WithKeymap replaces the default key bindings.
func WithKeymap(km Keymap) Option { return func(a *AppState) { a.keymap = km } }

// WithPaste sets the clipboard text source used by the paste key.
func WithPaste(fn func() (string, error)) Option { return func(a *AppState) { a.paste = fn } }

// WithRedrawListener registers a callback run after every change that
// needs a repaint.
func WithRedrawListener(fn func()) Option {
	return func(a *AppState) { a.listeners = append(a.listeners, fn) }
}

// WithOnClose registers a callback invoked once when the session ends.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates a session over base.
func New(base *image.RGBA, opts ...Option) *AppState {
	a := &AppState{
		model:  paint.NewModel(),
		keymap: DefaultKeymap(),
		scale:  1,
	}
	for _, o := range opts {
		o(a)
	}
	if a.cfg == nil {
		a.cfg = config.New()
	}
	a.settings = a.cfg.Settings()
	a.tool = a.cfg.PaintMode
	a.renderer = render.NewRenderer(base, render.NewKernel(a.cfg.BlurRadius, a.cfg.BlurSigma))
	return a
}

// AddRedrawListener registers fn to run after every change.
func (a *AppState) AddRedrawListener(fn func()) {
	a.listenersMu.Lock()
	a.listeners = append(a.listeners, fn)
	a.listenersMu.Unlock()
}

func (a *AppState) changed() {
	a.listenersMu.Lock()
	fns := append([]func(){}, a.listeners...)
	a.listenersMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Model returns the paint model.
func (a *AppState) Model() *paint.Model { return a.model }

// Settings returns the current tool settings.
func (a *AppState) Settings() paint.Settings { return a.settings }

// Tool returns the paint tool in use.
func (a *AppState) Tool() paint.Kind { return a.tool }

// Cropping reports whether the crop tool is selected.
func (a *AppState) Cropping() bool { return a.cropping }

// Done reports whether the session asked to quit.
func (a *AppState) Done() bool { return a.done }

// CanvasSize returns the canvas dimensions.
func (a *AppState) CanvasSize() image.Point { return a.renderer.Base().Bounds().Size() }

// Scale returns the view scale used for the crop grab margin.
func (a *AppState) Scale() float64 { return a.scale }

// SetScale sets the view scale.
func (a *AppState) SetScale(s float64) {
	if s > 0 {
		a.scale = s
	}
}

// SetTool selects a paint tool and leaves crop mode. A text paint being
// edited is committed first.
func (a *AppState) SetTool(k paint.Kind) {
	a.commitText()
	a.tool = k
	a.cropping = false
	a.changed()
}

// SetCropTool selects the crop tool.
func (a *AppState) SetCropTool() {
	a.commitText()
	a.cropping = true
	a.changed()
}

func (a *AppState) commitText() {
	if t := a.model.Temporary(); t != nil && t.Kind() == paint.KindText {
		a.CommitTemporary()
	}
}

// AddTemporary starts a paint with the current tool at pt.
func (a *AppState) AddTemporary(pt geom.Point) {
	a.model.AddTemporary(pt, a.tool, a.settings)
	a.changed()
}

// UpdateTemporary extends the temporary paint to pt.
func (a *AppState) UpdateTemporary(pt geom.Point, centered bool) {
	if err := a.model.UpdateTemporary(pt, centered); err != nil {
		log.Printf("update paint: %v", err)
		return
	}
	a.changed()
}

// CommitTemporary moves the temporary paint into history.
func (a *AppState) CommitTemporary() {
	if _, err := a.model.CommitTemporary(); err != nil {
		log.Printf("commit paint: %v", err)
		return
	}
	a.changed()
}

// Undo removes the newest committed paint.
func (a *AppState) Undo() {
	a.commitText()
	if a.model.Undo() {
		a.changed()
	}
}

// Redo restores the most recently undone paint.
func (a *AppState) Redo() {
	if a.model.Redo() {
		a.changed()
	}
}

// ClearAll removes every paint.
func (a *AppState) ClearAll() {
	a.model.ClearAll()
	a.changed()
}

// CanUndo reports whether Undo would do anything.
func (a *AppState) CanUndo() bool { return a.model.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (a *AppState) CanRedo() bool { return a.model.CanRedo() }

// StartCrop hit-tests pt against the crop selection and begins a drag.
func (a *AppState) StartCrop(pt geom.Point) {
	size := a.CanvasSize()
	a.crop = crop.Press(a.crop, pt, float64(size.X), float64(size.Y), a.scale)
	a.cropLast = pt.Clamp(float64(size.X), float64(size.Y))
	a.changed()
}

// UpdateCrop drags the grabbed crop edges to follow the pointer at pt.
func (a *AppState) UpdateCrop(pt geom.Point) {
	if a.crop == nil {
		return
	}
	size := a.CanvasSize()
	pt = pt.Clamp(float64(size.X), float64(size.Y))
	d := pt.Sub(a.cropLast)
	a.cropLast = pt
	a.crop.Update(d.X, d.Y)
	a.changed()
}

// EndCrop finishes the crop drag. A selection without area is dropped.
func (a *AppState) EndCrop() {
	if a.crop == nil {
		return
	}
	a.crop.Release()
	if a.crop.Empty() {
		a.crop = nil
	}
	a.changed()
}

// ClearCrop drops the crop selection.
func (a *AppState) ClearCrop() {
	a.crop = nil
	a.changed()
}

// CropRect returns the crop selection, or an empty rectangle.
func (a *AppState) CropRect() image.Rectangle {
	if a.crop.Empty() {
		return image.Rectangle{}
	}
	return a.crop.Rect()
}

// Render redraws the canvas with every paint. The result is reused by the
// next call.
func (a *AppState) Render() *image.RGBA {
	return a.renderer.Render(a.model)
}

// Image returns the finished image: a fresh render cropped to the
// selection.
func (a *AppState) Image() *image.RGBA {
	img := a.renderer.Snapshot(a.model)
	if r := a.CropRect(); !r.Empty() {
		img = export.Crop(img, r)
	}
	return img
}

// Press handles a primary button press at canvas position pt.
func (a *AppState) Press(pt geom.Point) {
	a.drawing = true
	if a.cropping {
		a.StartCrop(pt)
		return
	}
	a.AddTemporary(pt)
}

// Drag handles pointer motion with the primary button held.
func (a *AppState) Drag(pt geom.Point, centered bool) {
	if !a.drawing {
		return
	}
	if a.cropping {
		a.UpdateCrop(pt)
		return
	}
	a.UpdateTemporary(pt, centered)
}

// Release handles the primary button release. Text paints stay open for
// typing; a text press without a drag is dropped.
func (a *AppState) Release() {
	if !a.drawing {
		return
	}
	a.drawing = false
	if a.cropping {
		a.EndCrop()
		return
	}
	t := a.model.Temporary()
	if t == nil {
		return
	}
	if t.Kind() == paint.KindText {
		if !t.CanDraw {
			a.model.DiscardTemporary()
			a.changed()
		}
		return
	}
	a.CommitTemporary()
}

// SetCentered applies the centre modifier to a shape being dragged.
func (a *AppState) SetCentered(centered bool) {
	if a.model.SetCentered(centered) {
		a.changed()
	}
}

// SelectColor switches the paint colour.
func (a *AppState) SelectColor(c color.NRGBA) {
	a.settings.Color = c
	a.changed()
}

func (a *AppState) sizingText() bool {
	return !a.cropping && a.tool == paint.KindText
}

// IncreaseSize steps the text size when the text tool is active and the
// stroke width otherwise.
func (a *AppState) IncreaseSize() {
	if a.sizingText() {
		a.settings.IncreaseTextSize()
	} else {
		a.settings.IncreaseWidth()
	}
	a.changed()
}

// DecreaseSize is the inverse of IncreaseSize.
func (a *AppState) DecreaseSize() {
	if a.sizingText() {
		a.settings.DecreaseTextSize()
	} else {
		a.settings.DecreaseWidth()
	}
	a.changed()
}

// ResetSize restores the configured size for the active tool.
func (a *AppState) ResetSize() {
	if a.sizingText() {
		a.settings.TextSize = a.cfg.TextSize
	} else {
		a.settings.Width = a.cfg.LineSize
	}
	a.changed()
}

// ToggleFill switches shapes between outlined and filled.
func (a *AppState) ToggleFill() {
	a.settings.Fill = !a.settings.Fill
	a.changed()
}

// ToggleTransparent switches the transparency of new paints.
func (a *AppState) ToggleTransparent() {
	a.settings.Transparent = !a.settings.Transparent
	a.changed()
}

// Save commits pending text and exports the image to the output path.
// Export errors are logged and the session continues.
func (a *AppState) Save() {
	a.commitText()
	if a.exporter == nil {
		log.Printf("save: no exporter configured")
		return
	}
	if _, err := a.exporter.Save(a.Image(), a.output); err != nil {
		log.Printf("save: %v", err)
		return
	}
	if a.cfg.EarlyExit {
		a.finish()
	}
}

// Copy commits pending text and copies the image to the clipboard.
func (a *AppState) Copy() {
	a.commitText()
	if a.exporter == nil {
		log.Printf("copy: no exporter configured")
		return
	}
	if err := a.exporter.Copy(a.Image()); err != nil {
		log.Printf("copy: %v", err)
		return
	}
	if a.cfg.EarlyExit {
		a.finish()
	}
}

// Quit ends the session. With auto_save, or an explicit output path, the
// image is saved first.
func (a *AppState) Quit() {
	if a.done {
		return
	}
	if a.exporter != nil && (a.cfg.AutoSave || a.output != "") {
		a.commitText()
		if _, err := a.exporter.Save(a.Image(), a.output); err != nil {
			log.Printf("save on exit: %v", err)
		}
	}
	a.finish()
}

func (a *AppState) finish() {
	a.done = true
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}
