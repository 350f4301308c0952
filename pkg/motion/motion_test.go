package motion

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/Fepozopo/imgcp/pkg/stdimg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func noiseFrame(w, h int, seed int64) *stdimg.Buffer {
	rng := rand.New(rand.NewSource(seed))
	b := stdimg.NewBuffer(w, h)
	b.Fill(color.NRGBA{A: 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.SetRGB(x, y, uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)))
		}
	}
	return b
}

// shifted returns a frame whose pixel (x,y) is src(x+dx,y), black past the edge.
func shifted(src *stdimg.Buffer, dx int) *stdimg.Buffer {
	out := stdimg.NewBuffer(src.Width(), src.Height())
	out.Fill(color.NRGBA{A: 255})
	for y := 0; y < src.Height(); y++ {
		for x := 0; x+dx < src.Width(); x++ {
			r, g, b := src.RGB(x+dx, y)
			out.SetRGB(x, y, r, g, b)
		}
	}
	return out
}

func TestEstimateFindsShift(t *testing.T) {
	anchor := noiseFrame(48, 48, 1)
	target := shifted(anchor, 2)

	res, err := Estimate(anchor, target, DefaultOptions())
	require.NoError(t, err)

	for c := 0; c < 3; c++ {
		ch := res.Channels[c]
		require.Len(t, ch.Vectors, 9)
		var centre Vector
		for _, v := range ch.Vectors {
			if v.X == 16 && v.Y == 16 {
				centre = v
			}
		}
		assert.Equal(t, Vector{X: 16, Y: 16, DX: 2, DY: 0}, centre, "channel %d", c)

		block := ch.Residual.Slice(16, 32, 16, 32)
		assert.Zero(t, mat.Norm(block, 1), "channel %d residual", c)
	}
}

func TestEstimateReconstructsTarget(t *testing.T) {
	anchor := noiseFrame(40, 36, 2)
	target := noiseFrame(40, 36, 3)

	res, err := Estimate(anchor, target, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, res.ReconstructedBuffer().Equal(target))

	for c := 0; c < 3; c++ {
		// 40x36 holds two rows of two blocks; the remainder predicts 255
		assert.Equal(t, 255.0, res.Channels[c].Predicted.At(35, 39))
		assert.Equal(t, 255.0, res.Channels[c].Predicted.At(0, 32))
	}
}

func TestEstimateUniformFrames(t *testing.T) {
	frame := stdimg.NewBuffer(32, 32)
	frame.Fill(color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	res, err := Estimate(frame, frame.Clone(), DefaultOptions())
	require.NoError(t, err)
	for _, ch := range res.Channels {
		assert.Equal(t, 0.0, ch.ResidualBits)
		assert.Equal(t, 0.0, ch.DiffBits)
		assert.InDelta(t, math.Log2(101), ch.AnchorBits, 1e-12)
	}
	assert.True(t, math.IsInf(res.CompressionRatio(), 1))
	assert.True(t, math.IsInf(res.DiffRatio(), 1))
	assert.True(t, res.PredictedBuffer().Equal(frame))
}

func TestEstimateSmallFrame(t *testing.T) {
	frame := noiseFrame(8, 8, 4)
	res, err := Estimate(frame, frame, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, res.Channels[0].Vectors)

	white := stdimg.NewBuffer(8, 8)
	white.Fill(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	assert.True(t, res.PredictedBuffer().Equal(white))
}

func TestEstimateErrors(t *testing.T) {
	a := noiseFrame(16, 16, 5)

	_, err := Estimate(a, noiseFrame(16, 8, 5), DefaultOptions())
	assert.ErrorIs(t, err, ErrFrameMismatch)
	assert.ErrorIs(t, err, stdimg.ErrConfiguration)

	_, err = Estimate(a, a, Options{BlockSize: 0, SearchArea: 7})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = Estimate(stdimg.NewBuffer(0, 0), a, DefaultOptions())
	assert.ErrorIs(t, err, stdimg.ErrInvalidBuffer)
}

func TestBitsPerPixel(t *testing.T) {
	m := mat.NewDense(2, 2, []float64{0, 1, 3, -7})
	assert.InDelta(t, 1.5, BitsPerPixel(m), 1e-12)
}
