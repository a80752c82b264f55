package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/shotmark/internal/paint"
)

// DefaultFilenameFormat is the strftime-style pattern for saved files.
const DefaultFilenameFormat = "shotmark-%Y%m%d_%H%M%S.png"

// Notify holds notification settings.
type Notify struct {
	Save bool
	Copy bool
}

// Config holds the application configuration.
type Config struct {
	SaveDir            string
	SaveFilenameFormat string
	ShowPanel          bool
	LineSize           float64
	TextSize           float64
	TextFont           string
	PaintMode          paint.Kind
	EarlyExit          bool
	FillShape          bool
	AutoSave           bool
	CustomColor        color.NRGBA
	Transparent        bool
	Transparency       int
	BlurRadius         int
	BlurSigma          float64
	// Theme names the editor window theme, or a path to a theme file.
	Theme              string
	Notify             Notify
}

// New creates a new Config with defaults.
func New() *Config {
	s := paint.DefaultSettings()
	return &Config{
		SaveFilenameFormat: DefaultFilenameFormat,
		LineSize:           s.Width,
		TextSize:           s.TextSize,
		TextFont:           s.TextFont,
		PaintMode:          paint.KindBrush,
		CustomColor:        color.NRGBA{R: 193, G: 125, B: 17, A: 255},
		Transparency:       s.Transparency,
		BlurRadius:         15,
		BlurSigma:          7.5,
	}
}

// Settings returns the tool settings a new session starts with.
func (c *Config) Settings() paint.Settings {
	s := paint.DefaultSettings()
	s.Width = c.LineSize
	s.TextSize = c.TextSize
	s.TextFont = c.TextFont
	s.Fill = c.FillShape
	s.Transparent = c.Transparent
	s.Transparency = c.Transparency
	return s
}

// ResolveSaveDir returns the first existing directory among the configured
// save_dir, $XDG_DESKTOP_DIR, ~/Desktop and the home directory.
func (c *Config) ResolveSaveDir() (string, error) {
	home, _ := os.UserHomeDir()
	var candidates []string
	if c.SaveDir != "" {
		candidates = append(candidates, expandPath(c.SaveDir, home))
	}
	if d := os.Getenv("XDG_DESKTOP_DIR"); d != "" {
		candidates = append(candidates, expandPath(d, home))
	}
	if home != "" {
		candidates = append(candidates, filepath.Join(home, "Desktop"), home)
	}
	for _, dir := range candidates {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			return dir, nil
		}
	}
	return "", fmt.Errorf("no save directory: tried %s", strings.Join(candidates, ", "))
}

func expandPath(p, home string) string {
	p = os.ExpandEnv(p)
	if home != "" && (p == "~" || strings.HasPrefix(p, "~/")) {
		p = filepath.Join(home, p[1:])
	}
	return p
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	sb.WriteString("[Default]\n")
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	fmt.Fprintf(&sb, "save_filename_format = %s\n", c.SaveFilenameFormat)
	fmt.Fprintf(&sb, "show_panel = %v\n", c.ShowPanel)
	fmt.Fprintf(&sb, "line_size = %v\n", c.LineSize)
	fmt.Fprintf(&sb, "text_size = %v\n", c.TextSize)
	fmt.Fprintf(&sb, "text_font = %s\n", c.TextFont)
	fmt.Fprintf(&sb, "paint_mode = %s\n", c.PaintMode)
	fmt.Fprintf(&sb, "early_exit = %v\n", c.EarlyExit)
	fmt.Fprintf(&sb, "fill_shape = %v\n", c.FillShape)
	fmt.Fprintf(&sb, "auto_save = %v\n", c.AutoSave)
	fmt.Fprintf(&sb, "custom_color = %s\n", ToHex(c.CustomColor))
	fmt.Fprintf(&sb, "transparent = %v\n", c.Transparent)
	fmt.Fprintf(&sb, "transparency = %d\n", c.Transparency)
	fmt.Fprintf(&sb, "blur_radius = %d\n", c.BlurRadius)
	fmt.Fprintf(&sb, "blur_sigma = %v\n", c.BlurSigma)
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)

	return sb.String()
}

// ToHex formats c as #RRGGBB, or #RRGGBBAA when it is not opaque.
func ToHex(c color.NRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
