package stdimg

// PixelAccess is a mutable view of one pixel's R, G and B bytes. The pipeline
// reuses a single PixelAccess for every scan step, so a pass must not keep
// the pointer after its callback returns.
type PixelAccess struct {
	X, Y int
	pix  []uint8
}

func (p *PixelAccess) R() uint8 { return p.pix[0] }
func (p *PixelAccess) G() uint8 { return p.pix[1] }
func (p *PixelAccess) B() uint8 { return p.pix[2] }

func (p *PixelAccess) RGB() (r, g, b uint8) { return p.pix[0], p.pix[1], p.pix[2] }

// Channel returns channel c (0=R, 1=G, 2=B).
func (p *PixelAccess) Channel(c int) uint8 { return p.pix[c] }

func (p *PixelAccess) SetChannel(c int, v uint8) { p.pix[c] = v }

func (p *PixelAccess) SetRGB(r, g, b uint8) {
	p.pix[0] = r
	p.pix[1] = g
	p.pix[2] = b
}

// SetGray replicates v into all three channels.
func (p *PixelAccess) SetGray(v uint8) { p.SetRGB(v, v, v) }

// bind points the view at the pixel starting at offset i of pix.
func (p *PixelAccess) bind(pix []uint8, i, x, y int) {
	p.pix = pix[i : i+3 : i+3]
	p.X = x
	p.Y = y
}
