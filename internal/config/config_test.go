package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/shotmark/internal/paint"
)

func TestParse(t *testing.T) {
	input := `
# comment
[Default]
save_dir = /tmp/screens
save_filename_format = "shot-%H%M.png"
line_size = 12
text_size = 30
text_font = monospace
paint_mode = rect
fill_shape = true
custom_color = rgba(10,20,30,0.5)
transparent = true
transparency = 70
blur_radius = 8

[notify]
save = false
copy = true
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.SaveDir != "/tmp/screens" {
		t.Errorf("Expected save_dir '/tmp/screens', got '%s'", cfg.SaveDir)
	}
	if cfg.SaveFilenameFormat != "shot-%H%M.png" {
		t.Errorf("quoted filename format not unquoted: %q", cfg.SaveFilenameFormat)
	}
	if cfg.LineSize != 12 || cfg.TextSize != 30 || cfg.TextFont != "monospace" {
		t.Errorf("sizes = %v %v %q", cfg.LineSize, cfg.TextSize, cfg.TextFont)
	}
	if cfg.PaintMode != paint.KindRectangle {
		t.Errorf("paint_mode = %v", cfg.PaintMode)
	}
	if want := (color.NRGBA{10, 20, 30, 128}); cfg.CustomColor != want {
		t.Errorf("custom_color = %+v, want %+v", cfg.CustomColor, want)
	}
	if cfg.BlurRadius != 8 || cfg.BlurSigma != 7.5 {
		t.Errorf("blur = %d %v", cfg.BlurRadius, cfg.BlurSigma)
	}
	if cfg.Notify.Save || !cfg.Notify.Copy {
		t.Errorf("notify = %+v", cfg.Notify)
	}

	s := cfg.Settings()
	if s.Width != 12 || !s.Fill || !s.Transparent || s.Transparency != 70 {
		t.Errorf("settings = %+v", s)
	}
}

func TestParseRootKeysWithoutSection(t *testing.T) {
	cfg, err := Parse(strings.NewReader("save_dir: ~/shots\n[other]\nline_size = nonsense\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.SaveDir != "~/shots" {
		t.Errorf("save_dir = %q", cfg.SaveDir)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"line_size = 0",
		"text_size = 51",
		"transparency = -1",
		"show_panel = maybe",
		"paint_mode = spray",
		"custom_color = #12345",
		"custom_color = notacolor",
		"[notify]\nsave = 2",
	}
	for _, in := range tests {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", in)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#FF8000", color.NRGBA{255, 128, 0, 255}},
		{"#ff800080", color.NRGBA{255, 128, 0, 128}},
		{"rgb(1, 2, 3)", color.NRGBA{1, 2, 3, 255}},
		{"RGBA(193,125,17,1)", color.NRGBA{193, 125, 17, 255}},
		{"cornflowerblue", color.NRGBA{100, 149, 237, 255}},
		{"Red", color.NRGBA{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestCircular(t *testing.T) {
	cfg := New()
	cfg.SaveDir = "/home/user/shots"
	cfg.LineSize = 7
	cfg.PaintMode = paint.KindArrow
	cfg.CustomColor = color.NRGBA{1, 2, 3, 4}
	cfg.EarlyExit = true
	cfg.Notify = Notify{Save: true}

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Circular parse failed: %v", err)
	}
	if *cfg != *cfg2 {
		t.Errorf("round trip mismatch:\n%+v\n%+v", cfg, cfg2)
	}
}

func TestResolveSaveDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DESKTOP_DIR", "")

	cfg := New()
	got, err := cfg.ResolveSaveDir()
	if err != nil || got != home {
		t.Fatalf("without a desktop dir got %q, %v; want home", got, err)
	}

	desktop := filepath.Join(home, "Desktop")
	if err := os.Mkdir(desktop, 0o755); err != nil {
		t.Fatal(err)
	}
	if got, _ := cfg.ResolveSaveDir(); got != desktop {
		t.Fatalf("got %q, want %q", got, desktop)
	}

	shots := filepath.Join(home, "shots")
	if err := os.Mkdir(shots, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg.SaveDir = "~/shots"
	if got, _ := cfg.ResolveSaveDir(); got != shots {
		t.Fatalf("got %q, want %q", got, shots)
	}

	cfg.SaveDir = filepath.Join(home, "missing")
	if got, _ := cfg.ResolveSaveDir(); got != desktop {
		t.Fatalf("missing save_dir should fall back, got %q", got)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	l := NewLoader("v1", "")
	if l.ConfigPath() != "" {
		t.Fatal("expected no config file")
	}
	cfg, err := l.Load()
	if err != nil || cfg.LineSize != New().LineSize {
		t.Fatalf("Load without file = %+v, %v", cfg, err)
	}

	path := filepath.Join(xdg, "shotmark", "config.rc")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[Default]\nline_size = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := l.ConfigPath(); got != path {
		t.Fatalf("ConfigPath = %q, want %q", got, path)
	}
	cfg, err = l.Load()
	if err != nil || cfg.LineSize != 9 {
		t.Fatalf("Load = %+v, %v", cfg, err)
	}

	override := filepath.Join(t.TempDir(), "custom.rc")
	if err := os.WriteFile(override, []byte("line_size = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader("v1", override).Load(); err == nil || !strings.Contains(err.Error(), override) {
		t.Fatalf("expected error naming %s, got %v", override, err)
	}
}
