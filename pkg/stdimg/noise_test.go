package stdimg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNoiseDeterministic(t *testing.T) {
	src := makeSolid(4, 4, gray(128))
	np := DefaultNoiseParams()

	a, _, err := Apply(src, GaussianNoise(NewSeededSource(42), np))
	if err != nil {
		t.Fatalf("gaussian: %v", err)
	}
	b, _, err := Apply(src, GaussianNoise(NewSeededSource(42), np))
	if err != nil {
		t.Fatalf("gaussian: %v", err)
	}
	if !a.Equal(b) {
		t.Fatal("same seed produced different output")
	}
	// at least one pixel should move away from the original
	if a.Equal(src) {
		t.Fatal("expected at least one pixel to change")
	}
}

func TestNextGaussianBoxMuller(t *testing.T) {
	// u1 = 1-0.5, u2 = 1-0.75 => z = sqrt(-2 ln 0.5) * sin(pi/2)
	rng := &seqSource{vals: []float64{0.5, 0.75}}
	assert.InDelta(t, 0.08*1.1774100225154747, NextGaussian(rng, 0, 0.08), 1e-12)
	assert.Equal(t, 2, rng.i)
}

func TestNextMultiplicativeRange(t *testing.T) {
	assert.InDelta(t, 1.04, NextMultiplicative(&seqSource{vals: []float64{0.75}}, 1, 0.08), 1e-12)
	assert.InDelta(t, 0.92, NextMultiplicative(&seqSource{vals: []float64{0}}, 1, 0.08), 1e-12)
}

func TestNextSaltPepper(t *testing.T) {
	assert.Equal(t, 77.0, NextSaltPepper(0.5, 0.1, 77, 0.18))
	assert.Equal(t, 0.0, NextSaltPepper(0.1, 0.2, 77, 0.18))
	assert.Equal(t, 255.0, NextSaltPepper(0.1, 0.5, 77, 0.18))
}

func TestZeroNoiseIsIdentity(t *testing.T) {
	src := makeRandom(8, 6, 5, false)
	np := NoiseParams{GaussianMean: 0, GaussianSigma: 0, MultiplicativeMean: 1, MultiplicativeSigma: 0, Density: 0}

	for name, tr := range map[string]Transform[NoiseParams]{
		"gaussian":       GaussianNoise(NewSeededSource(1), np),
		"multiplicative": MultiplicativeNoise(NewSeededSource(1), np),
		"saltPepper":     SaltPepperNoise(NewSeededSource(1), np),
	} {
		out, got, err := Apply(src, tr)
		require.NoError(t, err, name)
		assert.Equal(t, np, got, name)
		assert.True(t, src.Equal(out), "%s changed pixels", name)
	}
}

func TestSaltPepperFullDensity(t *testing.T) {
	np := DefaultNoiseParams()
	np.Density = 1
	out, _, err := Apply(makeRandom(10, 10, 8, false), SaltPepperNoise(NewSeededSource(3), np))
	require.NoError(t, err)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			r, g, b := out.RGB(x, y)
			require.Contains(t, []uint8{0, 255}, r)
			require.Equal(t, r, g)
			require.Equal(t, r, b)
		}
	}
}

func TestSaltPepperDrawsTwicePerPixel(t *testing.T) {
	rng := &seqSource{vals: []float64{0.9}}
	_, _, err := Apply(makeSolid(3, 2, gray(10)), SaltPepperNoise(rng, DefaultNoiseParams()))
	require.NoError(t, err)
	assert.Equal(t, 12, rng.i)
}

func TestGaussianNoiseSaturates(t *testing.T) {
	np := DefaultNoiseParams()
	np.GaussianSigma = 5
	out, _, err := Apply(makeSolid(16, 16, gray(250)), GaussianNoise(NewSeededSource(9), np))
	require.NoError(t, err)
	saw0, saw255 := false, false
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := out.Channel(x, y, 0)
			saw0 = saw0 || v == 0
			saw255 = saw255 || v == 255
		}
	}
	assert.True(t, saw0 && saw255, "large sigma should hit both rails")
}

func TestMultiplicativeNoiseSaturates(t *testing.T) {
	np := DefaultNoiseParams()
	np.MultiplicativeSigma = 5
	out, _, err := Apply(makeSolid(16, 16, gray(250)), MultiplicativeNoise(NewSeededSource(9), np))
	require.NoError(t, err)
	saw0, saw255 := false, false
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := out.Channel(x, y, 0)
			saw0 = saw0 || v == 0
			saw255 = saw255 || v == 255
		}
	}
	assert.True(t, saw0 && saw255, "large sigma should hit both rails")
}
