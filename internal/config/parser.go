package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/example/shotmark/internal/paint"
)

// Parse reads configuration from an io.Reader. Keys outside a section and
// keys in [Default] are equivalent. Unknown sections and keys are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			key, value, ok = strings.Cut(line, ":")
		}
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "", "default":
			err = setDefaultField(cfg, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			name := section
			if name == "" {
				name = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, name, err)
		}
	}

	return cfg, scanner.Err()
}

func setDefaultField(cfg *Config, key, value string) error {
	var err error
	switch key {
	case "save_dir":
		cfg.SaveDir = value
	case "save_filename_format":
		if value == "" {
			return fmt.Errorf("empty %s", key)
		}
		cfg.SaveFilenameFormat = value
	case "show_panel":
		cfg.ShowPanel, err = parseBool(key, value)
	case "line_size":
		cfg.LineSize, err = parseRange(key, value, paint.MinWidth, paint.MaxWidth)
	case "text_size":
		cfg.TextSize, err = parseRange(key, value, paint.MinTextSize, paint.MaxTextSize)
	case "text_font":
		cfg.TextFont = value
	case "paint_mode":
		cfg.PaintMode, err = paint.ParseKind(value)
	case "early_exit":
		cfg.EarlyExit, err = parseBool(key, value)
	case "fill_shape":
		cfg.FillShape, err = parseBool(key, value)
	case "auto_save":
		cfg.AutoSave, err = parseBool(key, value)
	case "custom_color":
		cfg.CustomColor, err = ParseColor(value)
	case "transparent":
		cfg.Transparent, err = parseBool(key, value)
	case "transparency":
		var v float64
		v, err = parseRange(key, value, 0, 100)
		cfg.Transparency = int(v)
	case "blur_radius":
		var v float64
		v, err = parseRange(key, value, 1, 100)
		cfg.BlurRadius = int(v)
	case "blur_sigma":
		cfg.BlurSigma, err = parseRange(key, value, 0.1, 100)
	case "theme":
		cfg.Theme = value
	}
	return err
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch key {
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseRange(key, value string, lo, hi float64) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	if v < lo || v > hi {
		return 0, fmt.Errorf("%s %v out of range [%v, %v]", key, v, lo, hi)
	}
	return v, nil
}

// ParseColor accepts #RRGGBB, #RRGGBBAA, rgb(r,g,b), rgba(r,g,b,a) with a
// in [0,1], or an SVG colour name.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s[1:])
	case strings.HasPrefix(lower, "rgba(") || strings.HasPrefix(lower, "rgb("):
		return parseFunc(lower)
	}
	if c, ok := colornames.Map[lower]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	return color.NRGBA{}, fmt.Errorf("unknown color %q", s)
}

func parseHex(hex string) (color.NRGBA, error) {
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex length in #%s", hex)
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color #%s: %w", hex, err)
	}
	if len(hex) == 6 {
		val = val<<8 | 0xFF
	}
	return color.NRGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}

func parseFunc(s string) (color.NRGBA, error) {
	start, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if end < start {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	parts := strings.Split(s[start+1:end], ",")
	want := 3
	if strings.HasPrefix(s, "rgba") {
		want = 4
	}
	if len(parts) != want {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: want %d components", s, want)
	}
	c := color.NRGBA{A: 255}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		if i == 3 {
			if v < 0 || v > 1 {
				return color.NRGBA{}, fmt.Errorf("invalid color %q: alpha out of range", s)
			}
			c.A = uint8(v*255 + 0.5)
			continue
		}
		if v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: component out of range", s)
		}
		switch i {
		case 0:
			c.R = uint8(v)
		case 1:
			c.G = uint8(v)
		case 2:
			c.B = uint8(v)
		}
	}
	return c, nil
}
