package stdimg

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Levels is the number of 8-bit intensity values.
const Levels = 256

// StatTracker accumulates intensity statistics as a side effect of the passes
// of one pipeline invocation.
type StatTracker struct {
	LMin float64
	LMax float64

	// Histogram and CDF are the equalization tables filled by the
	// accumulate and CDF passes.
	Histogram [Levels]int
	CDF       [Levels]float64

	// Samples holds every observed intensity in scan order.
	Samples []float64

	cdfDone bool
}

// NewStatTracker returns a tracker whose extremes are replaced by the first
// observed value.
func NewStatTracker() *StatTracker {
	return &StatTracker{LMin: math.Inf(1), LMax: math.Inf(-1)}
}

// Observe folds v into LMin/LMax and records it as a sample.
func (s *StatTracker) Observe(v float64) {
	s.LMin = math.Min(s.LMin, v)
	s.LMax = math.Max(s.LMax, v)
	s.Samples = append(s.Samples, v)
}

// K is the contrast ratio (LMax-LMin)/LMax. LMax == 0 yields NaN or ±Inf.
func (s *StatTracker) K() float64 {
	return (s.LMax - s.LMin) / s.LMax
}

// Accumulate counts one pixel of intensity v.
func (s *StatTracker) Accumulate(v uint8) {
	s.Histogram[v]++
}

// FinalizeCDF computes the cumulative distribution of Histogram over total
// pixels. Only the first call has any effect.
func (s *StatTracker) FinalizeCDF(total int) {
	if s.cdfDone {
		return
	}
	cumulative := 0
	for i := 0; i < Levels; i++ {
		cumulative += s.Histogram[i]
		s.CDF[i] = float64(cumulative) / float64(total)
	}
	s.cdfDone = true
}

// CDFFinalized reports whether FinalizeCDF has run.
func (s *StatTracker) CDFFinalized() bool { return s.cdfDone }

// Snapshot is the read-only view of a finished tracker handed to callers.
type Snapshot struct {
	LMin float64 `yaml:"lmin"`
	LMax float64 `yaml:"lmax"`
	K    float64 `yaml:"k"`

	// Histogram and CDF describe the observed output intensities.
	Histogram [Levels]int     `yaml:"histogram,flow"`
	CDF       [Levels]float64 `yaml:"cdf,flow"`

	EqualizationHistogram [Levels]int     `yaml:"equalizationHistogram,flow"`
	EqualizationCDF       [Levels]float64 `yaml:"equalizationCdf,flow"`

	Samples []float64 `yaml:"-"`
}

// Snapshot copies the tracker state.
func (s *StatTracker) Snapshot() Snapshot {
	snap := Snapshot{
		LMin:                  s.LMin,
		LMax:                  s.LMax,
		K:                     s.K(),
		EqualizationHistogram: s.Histogram,
		EqualizationCDF:       s.CDF,
		Samples:               append([]float64(nil), s.Samples...),
	}
	for _, v := range s.Samples {
		snap.Histogram[clampByte(v)]++
	}
	if n := len(s.Samples); n > 0 {
		cumulative := 0
		for i := 0; i < Levels; i++ {
			cumulative += snap.Histogram[i]
			snap.CDF[i] = float64(cumulative) / float64(n)
		}
	}
	return snap
}

// Summary is a compact description of the observed intensity distribution.
type Summary struct {
	Count  int     `yaml:"count"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
	Median float64 `yaml:"median"`
	P05    float64 `yaml:"p05"`
	P95    float64 `yaml:"p95"`
}

// Summary describes Samples. Percentiles use the nearest-rank method so small
// samples work. A tracker with no samples yields a zero Summary.
func (s *StatTracker) Summary() (Summary, error) {
	if len(s.Samples) == 0 {
		return Summary{}, nil
	}
	mean, std := stat.MeanStdDev(s.Samples, nil)
	if len(s.Samples) == 1 {
		std = 0
	}
	data := stats.Float64Data(s.Samples)
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, err
	}
	p05, err := stats.PercentileNearestRank(data, 5)
	if err != nil {
		return Summary{}, err
	}
	p95, err := stats.PercentileNearestRank(data, 95)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Count:  len(s.Samples),
		Mean:   mean,
		StdDev: std,
		Median: median,
		P05:    p05,
		P95:    p95,
	}, nil
}
