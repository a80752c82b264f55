package capture

import (
	"fmt"
	"image"
)

// PixelFormat names the memory layout of a captured frame. The names follow
// the little-endian wl_shm convention, so ARGB8888 is stored as B, G, R, A.
type PixelFormat int

const (
	FormatARGB8888 PixelFormat = iota
	FormatXRGB8888
	FormatABGR8888
	FormatXBGR8888
)

func (f PixelFormat) String() string {
	switch f {
	case FormatARGB8888:
		return "argb8888"
	case FormatXRGB8888:
		return "xrgb8888"
	case FormatABGR8888:
		return "abgr8888"
	case FormatXBGR8888:
		return "xbgr8888"
	}
	return fmt.Sprintf("format(%d)", int(f))
}

func (f PixelFormat) opaque() bool {
	return f == FormatXRGB8888 || f == FormatXBGR8888
}

func (f PixelFormat) bgr() bool {
	return f == FormatARGB8888 || f == FormatXRGB8888
}

// Buffer owns the pixels of one captured frame. Release must be called once
// the frame is no longer needed; it is safe to call more than once.
type Buffer struct {
	Format        PixelFormat
	Width, Height int
	Stride        int
	Data          []byte

	img     *image.RGBA
	release func()
}

// NewBuffer allocates a zeroed buffer sized for the given frame description.
func NewBuffer(format PixelFormat, width, height, stride int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("buffer %dx%d has no area", width, height)
	}
	if stride < width*4 {
		return nil, fmt.Errorf("buffer stride %d too small for width %d", stride, width)
	}
	return &Buffer{
		Format: format,
		Width:  width,
		Height: height,
		Stride: stride,
		Data:   make([]byte, stride*height),
	}, nil
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool {
	return b == nil || b.Data == nil
}

// Release drops the pixel data and runs any backend cleanup.
func (b *Buffer) Release() {
	if b == nil || b.Data == nil {
		return
	}
	b.Data = nil
	b.img = nil
	if b.release != nil {
		b.release()
		b.release = nil
	}
}

// Image returns the frame as premultiplied RGBA. The conversion runs once
// and the result is shared by later calls.
func (b *Buffer) Image() (*image.RGBA, error) {
	if b.Released() {
		return nil, fmt.Errorf("buffer already released")
	}
	if b.img != nil {
		return b.img, nil
	}
	if len(b.Data) < b.Stride*(b.Height-1)+b.Width*4 {
		return nil, fmt.Errorf("buffer data truncated: %d bytes for %dx%d stride %d", len(b.Data), b.Width, b.Height, b.Stride)
	}
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	bgr := b.Format.bgr()
	opaque := b.Format.opaque()
	for y := 0; y < b.Height; y++ {
		row := b.Data[y*b.Stride : y*b.Stride+b.Width*4]
		out := img.Pix[y*img.Stride : y*img.Stride+b.Width*4]
		for x := 0; x < len(row); x += 4 {
			if bgr {
				out[x+0] = row[x+2]
				out[x+1] = row[x+1]
				out[x+2] = row[x+0]
			} else {
				out[x+0] = row[x+0]
				out[x+1] = row[x+1]
				out[x+2] = row[x+2]
			}
			if opaque {
				out[x+3] = 0xFF
			} else {
				out[x+3] = row[x+3]
			}
		}
	}
	b.img = img
	return img, nil
}
