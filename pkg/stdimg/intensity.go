package stdimg

import "math"

// ToneParams configures the gamma tone curve.
type ToneParams struct {
	LowOut  float64 `yaml:"lowOut"`
	HighOut float64 `yaml:"highOut"`
	Gamma   float64 `yaml:"gamma"`
}

// DefaultToneParams maps the observed range onto [45,220] with gamma 1.5.
func DefaultToneParams() ToneParams {
	return ToneParams{LowOut: 45, HighOut: 220, Gamma: 1.5}
}

// ObservePass feeds the red channel of every pixel into Stats.
type ObservePass struct {
	Stats *StatTracker
}

func (p ObservePass) Apply(px *PixelAccess) { p.Stats.Observe(float64(px.R())) }

// AccumulatePass counts the red channel of every pixel into Stats.Histogram.
type AccumulatePass struct {
	Stats *StatTracker
}

func (p AccumulatePass) Apply(px *PixelAccess) { p.Stats.Accumulate(px.R()) }

// CDFPass finalizes Stats.CDF on its first pixel; later pixels are no-ops.
type CDFPass struct {
	Stats *StatTracker
	Total int
}

func (p CDFPass) Apply(*PixelAccess) { p.Stats.FinalizeCDF(p.Total) }

// RemapPass replaces intensity i with round(CDF[i]*255) in all channels.
type RemapPass struct {
	Stats *StatTracker
}

func (p RemapPass) Apply(px *PixelAccess) {
	px.SetGray(clampByte(math.Round(p.Stats.CDF[px.R()] * 255)))
}

// GrayscalePass writes the luma of each pixel into R, G and B.
var GrayscalePass Pass = PassFunc(func(px *PixelAccess) {
	px.SetGray(luma(px.RGB()))
})

// Grayscale converts to luma and records the resulting intensities.
func Grayscale() Transform[*StatTracker] {
	return func() ([]Pass, *StatTracker) {
		st := NewStatTracker()
		return Stage{Prepare: Identity, Modify: GrayscalePass, Evaluate: ObservePass{st}}.Passes(), st
	}
}

// Observe collects statistics without altering any pixel.
func Observe() Transform[*StatTracker] {
	return func() ([]Pass, *StatTracker) {
		st := NewStatTracker()
		return []Pass{Identity, ObservePass{st}}, st
	}
}

// ToneMap reshapes intensities observed in prev with a gamma curve onto
// [LowOut,HighOut]. A degenerate range (LMax == LMin) maps every pixel to
// LowOut.
func ToneMap(prev *StatTracker, tp ToneParams) Transform[*StatTracker] {
	lmin, lmax := prev.LMin, prev.LMax
	return func() ([]Pass, *StatTracker) {
		st := NewStatTracker()
		modify := PassFunc(func(px *PixelAccess) {
			i := float64(px.R())
			pos := math.Pow((i-lmin)/(lmax-lmin), tp.Gamma)
			if math.IsNaN(pos) {
				pos = 0
			}
			px.SetGray(clampByte(tp.LowOut + (tp.HighOut-tp.LowOut)*pos))
		})
		return Stage{Prepare: Identity, Modify: modify, Evaluate: ObservePass{st}}.Passes(), st
	}
}

// Distension stretches [lmin,lmax] toward [0,255]. Values whose stretched
// position falls below lmin become 0 and above lmax become 255; the bounds are
// compared against the input range on purpose.
func Distension(lmin, lmax float64) Transform[*StatTracker] {
	return func() ([]Pass, *StatTracker) {
		st := NewStatTracker()
		modify := PassFunc(func(px *PixelAccess) {
			k := lmax - lmin
			scaled := 255.0 / k * (float64(px.R()) - lmin)
			var v uint8
			switch {
			case scaled < lmin:
				v = 0
			case scaled > lmax:
				v = 255
			default:
				v = clampByte(scaled)
			}
			px.SetGray(v)
		})
		return []Pass{modify, ObservePass{st}}, st
	}
}

// Equalize performs histogram equalization on an already gray buffer.
// totalPixels is the pixel count of the image the histogram is built from.
func Equalize(totalPixels int) Transform[*StatTracker] {
	return func() ([]Pass, *StatTracker) {
		st := NewStatTracker()
		return []Pass{
			AccumulatePass{st},
			CDFPass{Stats: st, Total: totalPixels},
			RemapPass{st},
			ObservePass{st},
		}, st
	}
}

// Negative inverts intensities against the maximum observed in prev.
func Negative(prev *StatTracker) Transform[*StatTracker] {
	lmax := prev.LMax
	return func() ([]Pass, *StatTracker) {
		st := NewStatTracker()
		modify := PassFunc(func(px *PixelAccess) {
			px.SetGray(clampByte(lmax - float64(px.R())))
		})
		return Stage{Prepare: Identity, Modify: modify, Evaluate: ObservePass{st}}.Passes(), st
	}
}
