package stdimg

import (
	"image"
	"image/color"
)

// Buffer is a width x height grid of 8-bit RGB pixels backed by an
// *image.NRGBA whose bounds always start at (0,0). The alpha byte is carried
// through untouched by every transform.
type Buffer struct {
	img *image.NRGBA
}

// NewBuffer allocates a zeroed buffer. Negative sizes are treated as zero.
func NewBuffer(w, h int) *Buffer {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Buffer{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// FromImage copies any image.Image into a new Buffer.
func FromImage(src image.Image) *Buffer {
	if src == nil {
		return NewBuffer(0, 0)
	}
	b := src.Bounds()
	out := NewBuffer(b.Dx(), b.Dy())
	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			si := n.PixOffset(b.Min.X, b.Min.Y+y)
			di := out.img.PixOffset(0, y)
			copy(out.img.Pix[di:di+4*b.Dx()], n.Pix[si:si+4*b.Dx()])
		}
		return out
	}
	idx := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			out.img.Pix[idx+0] = c.R
			out.img.Pix[idx+1] = c.G
			out.img.Pix[idx+2] = c.B
			out.img.Pix[idx+3] = c.A
			idx += 4
		}
	}
	return out
}

// Clone returns a full pixel-data copy.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{img: image.NewNRGBA(b.img.Rect)}
	copy(out.img.Pix, b.img.Pix)
	return out
}

func (b *Buffer) Width() int  { return b.img.Rect.Dx() }
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Len is the number of pixels.
func (b *Buffer) Len() int { return b.Width() * b.Height() }

// Image exposes the backing image. Callers that mutate it own the result.
func (b *Buffer) Image() *image.NRGBA { return b.img }

// RGB returns the channels at (x,y). It panics outside the buffer like
// slice indexing does.
func (b *Buffer) RGB(x, y int) (r, g, bl uint8) {
	i := b.offset(x, y)
	return b.img.Pix[i], b.img.Pix[i+1], b.img.Pix[i+2]
}

// SetRGB writes the channels at (x,y), leaving alpha alone.
func (b *Buffer) SetRGB(x, y int, r, g, bl uint8) {
	i := b.offset(x, y)
	b.img.Pix[i] = r
	b.img.Pix[i+1] = g
	b.img.Pix[i+2] = bl
}

// Channel returns channel c (0=R, 1=G, 2=B) at (x,y).
func (b *Buffer) Channel(x, y, c int) uint8 {
	return b.img.Pix[b.offset(x, y)+c]
}

// Fill sets every pixel to c, alpha included.
func (b *Buffer) Fill(c color.NRGBA) {
	for i := 0; i < len(b.img.Pix); i += 4 {
		b.img.Pix[i+0] = c.R
		b.img.Pix[i+1] = c.G
		b.img.Pix[i+2] = c.B
		b.img.Pix[i+3] = c.A
	}
}

// Equal reports whether both buffers have the same size and RGB bytes.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.Width() != o.Width() || b.Height() != o.Height() {
		return false
	}
	for i := 0; i < len(b.img.Pix); i += 4 {
		if b.img.Pix[i] != o.img.Pix[i] || b.img.Pix[i+1] != o.img.Pix[i+1] || b.img.Pix[i+2] != o.img.Pix[i+2] {
			return false
		}
	}
	return true
}

func (b *Buffer) offset(x, y int) int {
	if x < 0 || y < 0 || x >= b.Width() || y >= b.Height() {
		panic("stdimg: pixel coordinate out of range")
	}
	return y*b.img.Stride + x*4
}

func (b *Buffer) validate() error {
	if b == nil || b.Width() == 0 || b.Height() == 0 {
		return ErrInvalidBuffer
	}
	return nil
}
