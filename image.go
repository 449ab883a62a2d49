package mandel

import (
	"fmt"
	"image"
	"image/color"
)

// Image is a width × height grid of packed 0xRRGGBB values.
// It does no locking: concurrent writers must keep to disjoint pixels.
type Image struct {
	width  int
	height int
	pix    []uint32
}

func NewImage(width, height int) *Image {
	if width < 1 || height < 1 {
		panic(fmt.Sprintf("image dimensions must be positive, got %dx%d", width, height))
	}
	return &Image{
		width:  width,
		height: height,
		pix:    make([]uint32, width*height),
	}
}

func (m *Image) Width() int  { return m.width }
func (m *Image) Height() int { return m.height }

func (m *Image) SetPixel(col, row int, c uint32) {
	if col < 0 || col >= m.width || row < 0 || row >= m.height {
		panic(fmt.Sprintf("pixel (%d,%d) out of bounds %dx%d", col, row, m.width, m.height))
	}
	m.pix[row*m.width+col] = c
}

func (m *Image) Pixel(col, row int) uint32 {
	if col < 0 || col >= m.width || row < 0 || row >= m.height {
		panic(fmt.Sprintf("pixel (%d,%d) out of bounds %dx%d", col, row, m.width, m.height))
	}
	return m.pix[row*m.width+col]
}

// Fill sets every pixel to c.
func (m *Image) Fill(c uint32) {
	for i := range m.pix {
		m.pix[i] = c
	}
}

// Equal reports whether both images hold the same pixels.
func (m *Image) Equal(o *Image) bool {
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i, p := range m.pix {
		if o.pix[i] != p {
			return false
		}
	}
	return true
}

// image.Image, so encoders can take the buffer as is.

func (m *Image) ColorModel() color.Model { return color.RGBAModel }
func (m *Image) Bounds() image.Rectangle { return image.Rect(0, 0, m.width, m.height) }

func (m *Image) At(x, y int) color.Color {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return color.RGBA{}
	}
	p := m.pix[y*m.width+x]
	return color.RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 0xff}
}

var _ image.Image = (*Image)(nil)
