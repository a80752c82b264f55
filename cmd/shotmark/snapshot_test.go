package main

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseSnapshotErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "stdout and clipboard", args: []string{"-stdout", "-to-clip"}, wantErr: "-to-clipboard"},
		{name: "bad offset", args: []string{"-shadow-offset", "3"}, wantErr: "invalid shadow offset"},
		{name: "region and display", args: []string{"-geometry", "0,0 10x10", "-display", "1"}, wantErr: "-display"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseSnapshotCmd(tt.args, testRoot(t))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSnapshotStdoutSetsOutput(t *testing.T) {
	s, err := parseSnapshotCmd([]string{"-stdout"}, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.output != "-" {
		t.Fatalf("output = %q, want -", s.output)
	}
}

func TestSnapshotRunLoadError(t *testing.T) {
	sentinel := errors.New("boom")
	stubLoadFile(t, nil, sentinel)
	cmd := &snapshotCmd{source: sourceFlags{file: "shot.png"}, root: testRoot(t)}
	err := cmd.Run()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
	if want := "snapshot shot.png"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to contain %q, got %v", want, err)
	}
}

func TestSnapshotRunShadow(t *testing.T) {
	stubLoadFile(t, solidImage(10, 6, color.RGBA{0, 0, 255, 255}), nil)
	out := filepath.Join(t.TempDir(), "shot.png")
	s, err := parseSnapshotCmd([]string{"-file", "in.png", "-o", out, "-shadow", "-shadow-radius", "4", "-shadow-offset", "2,3"}, testRoot(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.shadowPoint != image.Pt(2, 3) {
		t.Fatalf("offset = %v", s.shadowPoint)
	}
	if err := s.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got := img.Bounds().Size(); got.X <= 10 || got.Y <= 6 {
		t.Fatalf("expected shadow to grow the image, got %v", got)
	}
}
