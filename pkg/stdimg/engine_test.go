package stdimg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDespeckleEngine(t *testing.T) {
	e := NewEngine(NewSeededSource(1))
	src := makeSolid(5, 5, gray(100))
	src.SetRGB(2, 2, 0, 0, 0)

	out, st, err := e.Apply(src, "despeckle", nil)
	if err != nil {
		t.Fatalf("despeckle: %v", err)
	}
	if st != nil {
		t.Fatalf("despeckle should not report statistics")
	}
	if out.Width() != 5 || out.Height() != 5 {
		t.Fatalf("unexpected bounds %dx%d", out.Width(), out.Height())
	}
	if v := out.Channel(2, 2, 0); v != 100 {
		t.Fatalf("expected speck removed, got %d", v)
	}
}

func TestEngineEveryCommandRuns(t *testing.T) {
	src := makeRandom(6, 6, 2, false)
	for _, spec := range Commands {
		e := NewEngine(NewSeededSource(7))
		var args []string
		for _, a := range spec.Args {
			if a.Required {
				args = append(args, "3")
			}
		}
		out, st, err := e.Apply(src, spec.Name, args)
		require.NoError(t, err, spec.Name)
		require.NotNil(t, out, spec.Name)
		assert.Equal(t, spec.Intensity, st != nil, spec.Name)
		assert.Equal(t, spec.Intensity, e.Stats() != nil, spec.Name)
	}
}

func TestEngineChainsStatistics(t *testing.T) {
	e := NewEngine(nil)
	src := makeGrayRow(50, 100, 150)

	g, st, err := e.Apply(src, "grayscale", nil)
	require.NoError(t, err)
	assert.Same(t, st, e.Stats())

	neg, st, err := e.Apply(g, "negate", nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(100), neg.Channel(0, 0, 0))
	assert.Equal(t, uint8(0), neg.Channel(2, 0, 0))
	assert.Equal(t, 0.0, st.LMin)
	assert.Equal(t, 100.0, st.LMax)

	// distension now stretches [0,100]
	dist, _, err := e.Apply(neg, "distension", nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(255), dist.Channel(0, 0, 0))
	assert.Equal(t, uint8(0), dist.Channel(2, 0, 0))
}

func TestEngineToneArgs(t *testing.T) {
	e := NewEngine(nil)
	src := makeGrayRow(0, 255)
	out, _, err := e.Apply(src, "tone", []string{"1", "10", "20"})
	require.NoError(t, err)
	assert.Equal(t, uint8(10), out.Channel(0, 0, 0))
	assert.Equal(t, uint8(20), out.Channel(1, 0, 0))

	// each bound applies on its own, the other keeps its default
	out, _, err = NewEngine(nil).Apply(src, "tone", []string{"1", "10", ""})
	require.NoError(t, err)
	assert.Equal(t, uint8(10), out.Channel(0, 0, 0))
	assert.Equal(t, uint8(220), out.Channel(1, 0, 0))

	out, _, err = NewEngine(nil).Apply(src, "tone", []string{"1", "", "30"})
	require.NoError(t, err)
	assert.Equal(t, uint8(45), out.Channel(0, 0, 0))
	assert.Equal(t, uint8(30), out.Channel(1, 0, 0))

	_, _, err = e.Apply(src, "tone", []string{"1", "low"})
	assert.ErrorContains(t, err, "invalid lowOut")

	_, _, err = e.Apply(src, "tone", []string{"steep"})
	assert.Error(t, err)
}

func TestEngineErrors(t *testing.T) {
	e := NewEngine(nil)
	src := makeSolid(3, 3, gray(1))

	_, _, err := e.Apply(src, "sharpen", nil)
	assert.EqualError(t, err, "unsupported command: sharpen")

	_, _, err = e.Apply(src, "mean", nil)
	assert.Error(t, err)

	_, _, err = e.Apply(src, "median", []string{"4"})
	assert.ErrorIs(t, err, ErrInvalidKernel)

	_, _, err = e.Apply(NewBuffer(0, 0), "grayscale", nil)
	assert.ErrorIs(t, err, ErrInvalidBuffer)
	assert.Nil(t, e.Stats())
}

func TestLookup(t *testing.T) {
	spec, ok := Lookup("median")
	require.True(t, ok)
	require.Len(t, spec.Args, 1)
	assert.Equal(t, "odd", spec.Args[0].Type)

	_, ok = Lookup("nope")
	assert.False(t, ok)
}
