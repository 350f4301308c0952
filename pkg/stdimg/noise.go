package stdimg

import (
	"math"
	"math/rand"
)

// Float64Source yields uniform values in [0,1). *rand.Rand satisfies it.
type Float64Source interface {
	Float64() float64
}

type sharedSource struct{}

func (sharedSource) Float64() float64 { return rand.Float64() }

// DefaultSource returns the process-wide generator.
func DefaultSource() Float64Source { return sharedSource{} }

// NewSeededSource returns an independent deterministic generator.
func NewSeededSource(seed int64) Float64Source {
	return rand.New(rand.NewSource(seed))
}

// NoiseParams configures the three generators. Gaussian values are on the
// [0,1] channel scale and multiplied by 255 when applied.
type NoiseParams struct {
	GaussianMean        float64 `yaml:"gaussianMean"`
	GaussianSigma       float64 `yaml:"gaussianSigma"`
	MultiplicativeMean  float64 `yaml:"multiplicativeMean"`
	MultiplicativeSigma float64 `yaml:"multiplicativeSigma"`
	Density             float64 `yaml:"density"`
}

func DefaultNoiseParams() NoiseParams {
	return NoiseParams{
		GaussianMean:        0,
		GaussianSigma:       0.08,
		MultiplicativeMean:  1,
		MultiplicativeSigma: 0.08,
		Density:             0.18,
	}
}

// NextGaussian returns a normal(mean,sigma) sample using Box-Muller. Both
// uniforms are taken as 1-u so the logarithm never sees 0.
func NextGaussian(rng Float64Source, mean, sigma float64) float64 {
	u1 := 1.0 - rng.Float64()
	u2 := 1.0 - rng.Float64()
	z := math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
	return mean + sigma*z
}

// NextMultiplicative returns a factor uniform in [mean-sigma, mean+sigma).
func NextMultiplicative(rng Float64Source, mean, sigma float64) float64 {
	return mean + sigma*(rng.Float64()*2-1)
}

// NextSaltPepper corrupts input when rnd < d, choosing 0 or 255 by rnd2.
func NextSaltPepper(rnd, rnd2, input, d float64) float64 {
	if rnd < d {
		if rnd2 < 0.5 {
			return 0
		}
		return 255
	}
	return input
}

// GaussianNoise adds independent normal noise to each channel.
func GaussianNoise(rng Float64Source, np NoiseParams) Transform[NoiseParams] {
	return func() ([]Pass, NoiseParams) {
		return []Pass{PassFunc(func(px *PixelAccess) {
			for c := 0; c < 3; c++ {
				v := float64(px.Channel(c)) + NextGaussian(rng, np.GaussianMean, np.GaussianSigma)*255
				px.SetChannel(c, clampByte(v))
			}
		})}, np
	}
}

// MultiplicativeNoise scales each channel by an independent random factor.
func MultiplicativeNoise(rng Float64Source, np NoiseParams) Transform[NoiseParams] {
	return func() ([]Pass, NoiseParams) {
		return []Pass{PassFunc(func(px *PixelAccess) {
			for c := 0; c < 3; c++ {
				v := float64(px.Channel(c)) * NextMultiplicative(rng, np.MultiplicativeMean, np.MultiplicativeSigma)
				px.SetChannel(c, clampByte(v))
			}
		})}, np
	}
}

// SaltPepperNoise replaces a pixel with black or white with probability
// Density. The two draws are shared by the pixel's channels.
func SaltPepperNoise(rng Float64Source, np NoiseParams) Transform[NoiseParams] {
	return func() ([]Pass, NoiseParams) {
		return []Pass{PassFunc(func(px *PixelAccess) {
			rnd := rng.Float64()
			rnd2 := rng.Float64()
			for c := 0; c < 3; c++ {
				px.SetChannel(c, clampByte(NextSaltPepper(rnd, rnd2, float64(px.Channel(c)), np.Density)))
			}
		})}, np
	}
}
