package stdimg

import (
	"fmt"
	"strconv"
)

// Engine applies named commands to a buffer and remembers the statistics of
// the last intensity transform, which tone, distension and negate build on.
type Engine struct {
	Tone  ToneParams
	Noise NoiseParams
	Rand  Float64Source

	last *StatTracker
}

// NewEngine returns an engine with default parameters drawing from rng. A nil
// rng selects the process-wide generator.
func NewEngine(rng Float64Source) *Engine {
	if rng == nil {
		rng = DefaultSource()
	}
	return &Engine{Tone: DefaultToneParams(), Noise: DefaultNoiseParams(), Rand: rng}
}

// Stats returns the statistics of the last intensity transform, or nil.
func (e *Engine) Stats() *StatTracker { return e.last }

// Apply runs commandName with args over buf and returns the new buffer. buf is
// not modified. The returned tracker is non-nil only for intensity commands.
func (e *Engine) Apply(buf *Buffer, commandName string, args []string) (*Buffer, *StatTracker, error) {
	if err := buf.validate(); err != nil {
		return nil, nil, err
	}
	switch commandName {
	case "grayscale":
		return e.intensity(Apply(buf, Grayscale()))

	case "observe":
		return e.intensity(Apply(buf, Observe()))

	case "tone":
		tp := e.Tone
		if len(args) >= 1 && args[0] != "" {
			g, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid gamma: %w", err)
			}
			tp.Gamma = g
		}
		if len(args) >= 2 && args[1] != "" {
			lo, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid lowOut: %w", err)
			}
			tp.LowOut = lo
		}
		if len(args) >= 3 && args[2] != "" {
			hi, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid highOut: %w", err)
			}
			tp.HighOut = hi
		}
		prev, err := e.previous(buf)
		if err != nil {
			return nil, nil, err
		}
		return e.intensity(Apply(buf, ToneMap(prev, tp)))

	case "distension":
		prev, err := e.previous(buf)
		if err != nil {
			return nil, nil, err
		}
		return e.intensity(Apply(buf, Distension(prev.LMin, prev.LMax)))

	case "equalize":
		return e.intensity(Apply(buf, Equalize(buf.Len())))

	case "negate":
		prev, err := e.previous(buf)
		if err != nil {
			return nil, nil, err
		}
		return e.intensity(Apply(buf, Negative(prev)))

	case "gaussianNoise":
		np := e.Noise
		if len(args) >= 1 && args[0] != "" {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid sigma: %w", err)
			}
			np.GaussianSigma = v
		}
		if len(args) >= 2 && args[1] != "" {
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid mean: %w", err)
			}
			np.GaussianMean = v
		}
		out, _, err := Apply(buf, GaussianNoise(e.Rand, np))
		return out, nil, err

	case "multiplicativeNoise":
		np := e.Noise
		if len(args) >= 1 && args[0] != "" {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid sigma: %w", err)
			}
			np.MultiplicativeSigma = v
		}
		if len(args) >= 2 && args[1] != "" {
			v, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid mean: %w", err)
			}
			np.MultiplicativeMean = v
		}
		out, _, err := Apply(buf, MultiplicativeNoise(e.Rand, np))
		return out, nil, err

	case "saltPepper":
		np := e.Noise
		if len(args) >= 1 && args[0] != "" {
			v, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid density: %w", err)
			}
			np.Density = v
		}
		out, _, err := Apply(buf, SaltPepperNoise(e.Rand, np))
		return out, nil, err

	case "mean", "median":
		if len(args) != 1 {
			return nil, nil, fmt.Errorf("%s requires 1 arg: kernel", commandName)
		}
		k, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid kernel: %w", err)
		}
		var out *Buffer
		if commandName == "mean" {
			out, err = MeanFilter(buf, k)
		} else {
			out, err = MedianFilter(buf, k)
		}
		return out, nil, err

	case "despeckle":
		out, err := Despeckle(buf)
		return out, nil, err

	default:
		return nil, nil, fmt.Errorf("unsupported command: %s", commandName)
	}
}

func (e *Engine) intensity(out *Buffer, st *StatTracker, err error) (*Buffer, *StatTracker, error) {
	if err != nil {
		return nil, nil, err
	}
	e.last = st
	return out, st, nil
}

// previous returns the last statistics, observing buf first if there are none.
func (e *Engine) previous(buf *Buffer) (*StatTracker, error) {
	if e.last != nil {
		return e.last, nil
	}
	_, st, err := Apply(buf, Observe())
	if err != nil {
		return nil, err
	}
	return st, nil
}
