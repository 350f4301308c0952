package stdimg

// Pass is one unit of per-pixel logic. A pipeline applies each pass to every
// pixel, in row-major order, before starting the next pass.
type Pass interface {
	Apply(px *PixelAccess)
}

// PassFunc adapts a plain function to Pass.
type PassFunc func(px *PixelAccess)

func (f PassFunc) Apply(px *PixelAccess) { f(px) }

// Identity leaves every pixel alone. It is useful as a placeholder phase.
var Identity Pass = PassFunc(func(*PixelAccess) {})

// Transform builds the ordered passes of one pipeline invocation together
// with the accumulator those passes write into.
type Transform[T any] func() ([]Pass, T)

// Stage groups a three-phase transform: every pixel is prepared, then every
// pixel is modified, then every pixel is evaluated. Nil phases are skipped.
type Stage struct {
	Prepare  Pass
	Modify   Pass
	Evaluate Pass
}

// Passes flattens the stage into pipeline order.
func (s Stage) Passes() []Pass {
	out := make([]Pass, 0, 3)
	for _, p := range []Pass{s.Prepare, s.Modify, s.Evaluate} {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Run clones src and applies passes to the clone. src is never written.
func Run(src *Buffer, passes ...Pass) (*Buffer, error) {
	if err := src.validate(); err != nil {
		return nil, err
	}
	out := src.Clone()
	scan(out, passes)
	return out, nil
}

// Apply runs the passes produced by t over a clone of src and returns the
// clone together with the accumulated result.
func Apply[T any](src *Buffer, t Transform[T]) (*Buffer, T, error) {
	var zero T
	if err := src.validate(); err != nil {
		return nil, zero, err
	}
	passes, result := t()
	out := src.Clone()
	scan(out, passes)
	return out, result, nil
}

func scan(buf *Buffer, passes []Pass) {
	pix := buf.img.Pix
	stride := buf.img.Stride
	w, h := buf.Width(), buf.Height()
	var px PixelAccess
	for _, p := range passes {
		for y := 0; y < h; y++ {
			row := y * stride
			for x := 0; x < w; x++ {
				px.bind(pix, row+x*4, x, y)
				p.Apply(&px)
			}
		}
	}
}
