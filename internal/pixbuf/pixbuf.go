// Package pixbuf provides the bounds-checked view over the shared pixel
// memory. It is the only place that indexes pixel storage.
package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"unsafe"
)

// BytesPerPixel is the size of one packed XRGB8888 word.
const BytesPerPixel = 4

// ErrOutOfBounds is returned for any access outside [0,width)x[0,height).
var ErrOutOfBounds = errors.New("pixel access out of bounds")

// Buffer is a width x height grid of packed XRGB8888 pixels. Stride equals
// width. Not safe for concurrent use.
type Buffer struct {
	width  int
	height int
	stride int
	pixels []uint32
}

// New allocates a buffer in process memory.
func New(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	return &Buffer{
		width:  width,
		height: height,
		stride: width,
		pixels: make([]uint32, width*height),
	}, nil
}

// Wrap views mem as a width x height buffer. mem is typically a shared
// mapping and must hold at least width*height*4 bytes; trailing bytes are
// left untouched.
func Wrap(mem []byte, width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	need := width * height * BytesPerPixel
	if len(mem) < need {
		return nil, fmt.Errorf("mapping too small: have %d bytes, need %d", len(mem), need)
	}
	if uintptr(unsafe.Pointer(&mem[0]))%unsafe.Alignof(uint32(0)) != 0 {
		return nil, fmt.Errorf("mapping is not 4-byte aligned")
	}
	return &Buffer{
		width:  width,
		height: height,
		stride: width,
		pixels: unsafe.Slice((*uint32)(unsafe.Pointer(&mem[0])), width*height),
	}, nil
}

func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// Stride returns the row length in pixels.
func (b *Buffer) Stride() int { return b.stride }

// StrideBytes returns the row length in bytes, as the display server expects it.
func (b *Buffer) StrideBytes() int { return b.stride * BytesPerPixel }

// InBounds reports whether (x, y) addresses a pixel.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Buffer) index(x, y int) (int, error) {
	if !b.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	return y*b.stride + x, nil
}

// Get returns the pixel at (x, y).
func (b *Buffer) Get(x, y int) (uint32, error) {
	i, err := b.index(x, y)
	if err != nil {
		return 0, err
	}
	return b.pixels[i], nil
}

// Set stores p at (x, y).
func (b *Buffer) Set(x, y int, p uint32) error {
	i, err := b.index(x, y)
	if err != nil {
		return err
	}
	b.pixels[i] = p
	return nil
}

// Xor flips the mask bits at (x, y).
func (b *Buffer) Xor(x, y int, mask uint32) error {
	i, err := b.index(x, y)
	if err != nil {
		return err
	}
	b.pixels[i] ^= mask
	return nil
}

// Or sets the mask bits at (x, y).
func (b *Buffer) Or(x, y int, mask uint32) error {
	i, err := b.index(x, y)
	if err != nil {
		return err
	}
	b.pixels[i] |= mask
	return nil
}

// AndNot clears the mask bits at (x, y).
func (b *Buffer) AndNot(x, y int, mask uint32) error {
	i, err := b.index(x, y)
	if err != nil {
		return err
	}
	b.pixels[i] &^= mask
	return nil
}

// Fill sets every pixel to p.
func (b *Buffer) Fill(p uint32) {
	for i := range b.pixels {
		b.pixels[i] = p
	}
}

// Image returns a read-only image.Image view of the buffer. The view shares
// storage, so later writes show through.
func (b *Buffer) Image() image.Image {
	return xrgbImage{b}
}

type xrgbImage struct {
	b *Buffer
}

func (im xrgbImage) ColorModel() color.Model { return color.RGBAModel }

func (im xrgbImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, im.b.width, im.b.height)
}

func (im xrgbImage) At(x, y int) color.Color {
	p, err := im.b.Get(x, y)
	if err != nil {
		return color.RGBA{}
	}
	return color.RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 0xff}
}
