package geom

import (
	"errors"
	"image"
	"testing"
)

func TestParseBox(t *testing.T) {
	tests := []struct {
		in      string
		want    Box
		wantErr bool
	}{
		{in: "10,20 300x400", want: Box{X: 10, Y: 20, Width: 300, Height: 400}},
		{in: "  -5,0 1x1 ", want: Box{X: -5, Y: 0, Width: 1, Height: 1}},
		{in: "10,20", wantErr: true},
		{in: "10 20x30", wantErr: true},
		{in: "1,2 3-4", wantErr: true},
		{in: "a,2 3x4", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseBox(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidBox) {
				t.Fatalf("ParseBox(%q) error = %v, want ErrInvalidBox", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseBox(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseBox(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
		if back, _ := ParseBox(got.String()); back != got {
			t.Fatalf("String round trip = %+v, want %+v", back, got)
		}
	}
}

func TestBoxIntersects(t *testing.T) {
	a := Box{X: 0, Y: 0, Width: 100, Height: 100}
	tests := []struct {
		name string
		b    Box
		want bool
	}{
		{"overlap", Box{X: 50, Y: 50, Width: 100, Height: 100}, true},
		{"inside", Box{X: 10, Y: 10, Width: 5, Height: 5}, true},
		{"touching edge", Box{X: 100, Y: 0, Width: 10, Height: 10}, false},
		{"disjoint", Box{X: 200, Y: 200, Width: 10, Height: 10}, false},
		{"empty", Box{X: 10, Y: 10, Width: 0, Height: 10}, false},
	}
	for _, tc := range tests {
		if got := a.Intersects(tc.b); got != tc.want {
			t.Errorf("%s: Intersects = %v, want %v", tc.name, got, tc.want)
		}
		if got := tc.b.Intersects(a); got != tc.want {
			t.Errorf("%s: reversed Intersects = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestBoxUnionAndRect(t *testing.T) {
	a := Box{X: 0, Y: 0, Width: 1920, Height: 1080}
	b := Box{X: 1920, Y: -200, Width: 1080, Height: 1920}
	u := a.Union(b)
	want := Box{X: 0, Y: -200, Width: 3000, Height: 1920}
	if u != want {
		t.Fatalf("Union = %+v, want %+v", u, want)
	}
	if r := u.Rect(); r != image.Rect(0, -200, 3000, 1720) {
		t.Fatalf("Rect = %v", r)
	}
	if FromRect(u.Rect()) != u {
		t.Fatalf("FromRect did not invert Rect")
	}
	if got := (Box{}).Union(a); got != a {
		t.Fatalf("empty Union = %+v, want %+v", got, a)
	}
}
