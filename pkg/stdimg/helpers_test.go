package stdimg

import (
	"image/color"
	"math/rand"
)

func makeSolid(w, h int, c color.NRGBA) *Buffer {
	b := NewBuffer(w, h)
	b.Fill(c)
	return b
}

func gray(v uint8) color.NRGBA { return color.NRGBA{R: v, G: v, B: v, A: 255} }

// makeGrayRow builds a w x 1 gray buffer from vals.
func makeGrayRow(vals ...uint8) *Buffer {
	b := NewBuffer(len(vals), 1)
	for x, v := range vals {
		b.SetRGB(x, 0, v, v, v)
	}
	return b
}

func makeRandom(w, h int, seed int64, grayOnly bool) *Buffer {
	rng := rand.New(rand.NewSource(seed))
	b := makeSolid(w, h, gray(0))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if grayOnly {
				v := uint8(rng.Intn(256))
				b.SetRGB(x, y, v, v, v)
				continue
			}
			b.SetRGB(x, y, uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)))
		}
	}
	return b
}

// seqSource replays fixed uniforms.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}
