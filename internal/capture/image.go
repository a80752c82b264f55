package capture

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/example/shotmark/internal/geom"
)

// StdinPath selects standard input in LoadFile.
const StdinPath = "-"

var stdin io.Reader = os.Stdin

// LoadFile decodes an image from path, or from standard input when path is
// "-".
func LoadFile(path string) (*image.RGBA, error) {
	if path == StdinPath {
		img, err := Decode(stdin)
		if err != nil {
			return nil, fmt.Errorf("read image from stdin: %w", err)
		}
		return img, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("close %s: %v", path, cerr)
		}
	}()
	img, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Decode reads any registered image format into RGBA with a zero origin.
func Decode(r io.Reader) (*image.RGBA, error) {
	img, _, err := image.Decode(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}

// FromImage wraps an already decoded image as a single-output capture so
// files and stdin go through the same compositing path as screen captures.
func FromImage(name string, img *image.RGBA) Captures {
	b := img.Bounds()
	box := geom.Box{Width: b.Dx(), Height: b.Dy()}
	buf := &Buffer{
		Format: FormatABGR8888,
		Width:  box.Width,
		Height: box.Height,
		Stride: box.Width * 4,
		Data:   make([]byte, box.Width*box.Height*4),
	}
	dst := &image.RGBA{Pix: buf.Data, Stride: buf.Stride, Rect: image.Rect(0, 0, box.Width, box.Height)}
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return Captures{{
		Output: Output{Name: name, Geometry: box, Logical: box, Scale: 1, Primary: true},
		Buffer: buf,
		state:  frameReady,
	}}
}
