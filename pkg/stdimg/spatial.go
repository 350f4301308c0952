package stdimg

import (
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// MeanFilter replaces every channel value with the floor of the average of
// its k x k neighborhood. Neighbors outside the image are left out, so border
// pixels average over fewer samples.
func MeanFilter(src *Buffer, k int) (*Buffer, error) {
	return neighborhood(src, k, func(vals []int) uint8 {
		sum := 0
		for _, v := range vals {
			sum += v
		}
		return uint8(sum / len(vals))
	})
}

// MedianFilter replaces every channel value with the median of its k x k
// neighborhood. For an even sample count it averages the elements at n/2 and
// n/2+1 of the sorted samples.
func MedianFilter(src *Buffer, k int) (*Buffer, error) {
	return neighborhood(src, k, func(vals []int) uint8 {
		slices.Sort(vals)
		n := len(vals)
		if n%2 == 1 {
			return uint8(vals[n/2])
		}
		upper := n/2 + 1
		if upper >= n {
			upper = n - 1
		}
		return uint8((vals[n/2] + vals[upper]) / 2)
	})
}

// Despeckle is a 3x3 median filter.
func Despeckle(src *Buffer) (*Buffer, error) {
	return MedianFilter(src, 3)
}

// neighborhood applies reduce to the in-bounds k x k window of every pixel
// and channel. Windows are read from src only; dst starts as a clone so the
// alpha channel survives. Rows are processed concurrently.
func neighborhood(src *Buffer, k int, reduce func(vals []int) uint8) (*Buffer, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}
	if k <= 0 || k%2 == 0 {
		return nil, ErrInvalidKernel
	}
	dst := src.Clone()
	w, h := src.Width(), src.Height()
	half := k / 2

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for y := 0; y < h; y++ {
		y := y
		g.Go(func() error {
			vals := make([]int, 0, min(k, w)*min(k, h))
			y0 := clampInt(y-half, 0, h-1)
			y1 := clampInt(y+half, 0, h-1)
			for x := 0; x < w; x++ {
				x0 := clampInt(x-half, 0, w-1)
				x1 := clampInt(x+half, 0, w-1)
				for c := 0; c < 3; c++ {
					vals = vals[:0]
					for py := y0; py <= y1; py++ {
						for px := x0; px <= x1; px++ {
							vals = append(vals, int(src.Channel(px, py, c)))
						}
					}
					i := dst.offset(x, y)
					dst.img.Pix[i+c] = reduce(vals)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dst, nil
}
