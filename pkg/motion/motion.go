// Package motion estimates block motion between two frames and measures how
// much a motion-compensated residual saves over coding the frame directly.
package motion

import (
	"fmt"
	"image/color"
	"math"

	"github.com/Fepozopo/imgcp/pkg/stdimg"
	"gonum.org/v1/gonum/mat"
)

// Options configures the block search.
type Options struct {
	BlockSize  int `yaml:"blockSize"`
	SearchArea int `yaml:"searchArea"`
}

// DefaultOptions uses 16x16 blocks and a 7 pixel search margin.
func DefaultOptions() Options {
	return Options{BlockSize: 16, SearchArea: 7}
}

var (
	ErrFrameMismatch  = fmt.Errorf("%w: anchor and target frames differ in size", stdimg.ErrConfiguration)
	ErrInvalidOptions = fmt.Errorf("%w: block size must be positive and search area non-negative", stdimg.ErrConfiguration)
)

// Vector is the displacement chosen for the block whose top-left corner is
// (X,Y) in the target frame.
type Vector struct {
	X, Y   int
	DX, DY int
}

// Channel holds the planes and bit estimates for one color channel.
type Channel struct {
	Diff          *mat.Dense
	Predicted     *mat.Dense
	Residual      *mat.Dense
	Reconstructed *mat.Dense
	Vectors       []Vector

	AnchorBits   float64
	DiffBits     float64
	ResidualBits float64
}

// Result is the outcome of Estimate for the R, G and B channels.
type Result struct {
	Options  Options
	Channels [3]Channel
}

// CompressionRatio is the total anchor bits per pixel over the total residual
// bits per pixel. Identical frames give +Inf.
func (r *Result) CompressionRatio() float64 {
	var anchor, residual float64
	for _, c := range r.Channels {
		anchor += c.AnchorBits
		residual += c.ResidualBits
	}
	return anchor / residual
}

// DiffRatio is the same ratio for plain frame differencing.
func (r *Result) DiffRatio() float64 {
	var anchor, diff float64
	for _, c := range r.Channels {
		anchor += c.AnchorBits
		diff += c.DiffBits
	}
	return anchor / diff
}

func (r *Result) DiffBuffer() *stdimg.Buffer {
	return r.buffer(func(c Channel) *mat.Dense { return c.Diff })
}

func (r *Result) PredictedBuffer() *stdimg.Buffer {
	return r.buffer(func(c Channel) *mat.Dense { return c.Predicted })
}

// ResidualBuffer saturates negative residuals to 0.
func (r *Result) ResidualBuffer() *stdimg.Buffer {
	return r.buffer(func(c Channel) *mat.Dense { return c.Residual })
}

func (r *Result) ReconstructedBuffer() *stdimg.Buffer {
	return r.buffer(func(c Channel) *mat.Dense { return c.Reconstructed })
}

func (r *Result) buffer(pick func(Channel) *mat.Dense) *stdimg.Buffer {
	h, w := pick(r.Channels[0]).Dims()
	out := stdimg.NewBuffer(w, h)
	out.Fill(color.NRGBA{A: 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetRGB(x, y,
				saturate(pick(r.Channels[0]).At(y, x)),
				saturate(pick(r.Channels[1]).At(y, x)),
				saturate(pick(r.Channels[2]).At(y, x)),
			)
		}
	}
	return out
}

// Estimate predicts target from anchor one channel at a time.
func Estimate(anchor, target *stdimg.Buffer, opts Options) (*Result, error) {
	if anchor == nil || target == nil || anchor.Len() == 0 || target.Len() == 0 {
		return nil, stdimg.ErrInvalidBuffer
	}
	if anchor.Width() != target.Width() || anchor.Height() != target.Height() {
		return nil, ErrFrameMismatch
	}
	if opts.BlockSize <= 0 || opts.SearchArea < 0 {
		return nil, ErrInvalidOptions
	}

	res := &Result{Options: opts}
	for c := 0; c < 3; c++ {
		a := Plane(anchor, c)
		t := Plane(target, c)

		var diff mat.Dense
		diff.Apply(func(i, j int, v float64) float64 { return math.Abs(v - t.At(i, j)) }, a)

		predicted, vectors := blockSearch(a, t, opts.BlockSize, opts.SearchArea)

		var residual, reconstructed mat.Dense
		residual.Sub(t, predicted)
		reconstructed.Add(&residual, predicted)

		res.Channels[c] = Channel{
			Diff:          &diff,
			Predicted:     predicted,
			Residual:      &residual,
			Reconstructed: &reconstructed,
			Vectors:       vectors,
			AnchorBits:    BitsPerPixel(a),
			DiffBits:      BitsPerPixel(&diff),
			ResidualBits:  BitsPerPixel(&residual),
		}
	}
	return res, nil
}

// Plane copies channel c of buf into a rows x cols matrix.
func Plane(buf *stdimg.Buffer, c int) *mat.Dense {
	w, h := buf.Width(), buf.Height()
	m := mat.NewDense(h, w, nil)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(y, x, float64(buf.Channel(x, y, c)))
		}
	}
	return m
}

// BitsPerPixel estimates the coding cost of m as the mean of log2(|p|+1).
func BitsPerPixel(m mat.Matrix) float64 {
	h, w := m.Dims()
	bits := 0.0
	for i := 0; i < h; i++ {
		for j := 0; j < w; j++ {
			bits += math.Log2(math.Abs(m.At(i, j)) + 1)
		}
	}
	return bits / float64(h*w)
}

// blockSearch builds the predicted frame. Pixels outside whole blocks stay 255.
func blockSearch(anchor, target *mat.Dense, bs, sa int) (*mat.Dense, []Vector) {
	h, w := anchor.Dims()
	fill := make([]float64, h*w)
	for i := range fill {
		fill[i] = 255
	}
	predicted := mat.NewDense(h, w, fill)

	var vectors []Vector
	for y := 0; y+bs <= h; y += bs {
		for x := 0; x+bs <= w; x += bs {
			sx, sy := max(0, x-sa), max(0, y-sa)
			ex, ey := min(sx+2*sa+bs, w), min(sy+2*sa+bs, h)
			search := anchor.Slice(sy, ey, sx, ex)
			tBlock := target.Slice(y, y+bs, x, x+bs)

			px, py := bestMatch(tBlock, search, bs)
			predicted.Slice(y, y+bs, x, x+bs).(*mat.Dense).Copy(search.(*mat.Dense).Slice(py, py+bs, px, px+bs))
			vectors = append(vectors, Vector{X: x, Y: y, DX: sx + px - x, DY: sy + py - y})
		}
	}
	return predicted, vectors
}

// bestMatch runs a three-step search (steps 4, 2, 1) over nine points around
// the centre of the search area and returns the top-left corner, relative to
// search, of the block with the lowest mean absolute difference. The centre
// stays fixed between steps.
func bestMatch(tBlock, search mat.Matrix, bs int) (int, int) {
	ah, aw := search.Dims()
	acx, acy := aw/2, ah/2
	minMAD := math.Inf(1)
	bx, by := 0, 0
	for step := 4; step >= 1; step /= 2 {
		points := [9][2]int{
			{acx, acy},
			{acx + step, acy},
			{acx, acy + step},
			{acx + step, acy + step},
			{acx - step, acy},
			{acx, acy - step},
			{acx - step, acy - step},
			{acx + step, acy - step},
			{acx - step, acy + step},
		}
		for _, p := range points {
			px, py := blockCorner(p[0], aw, bs), blockCorner(p[1], ah, bs)
			if d := mad(tBlock, search, px, py, bs); d < minMAD {
				minMAD = d
				bx, by = px, py
			}
		}
	}
	return bx, by
}

// blockCorner turns a candidate centre into a corner that keeps the block
// inside a search area of the given extent.
func blockCorner(center, extent, bs int) int {
	return max(0, min(center-bs/2, extent-bs))
}

func mad(tBlock, search mat.Matrix, px, py, bs int) float64 {
	sum := 0.0
	for i := 0; i < bs; i++ {
		for j := 0; j < bs; j++ {
			sum += math.Abs(tBlock.At(i, j) - search.At(py+i, px+j))
		}
	}
	return sum / float64(bs*bs)
}

func saturate(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
