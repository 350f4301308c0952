package stdimg

import (
	"errors"
	"fmt"
)

// ErrConfiguration is the root of all up-front validation failures. No pixel
// is touched when an operation returns an error wrapping it.
var ErrConfiguration = errors.New("stdimg: configuration error")

var (
	// ErrInvalidBuffer reports a buffer with zero width or height.
	ErrInvalidBuffer = fmt.Errorf("%w: buffer has zero width or height", ErrConfiguration)
	// ErrInvalidKernel reports an even or non-positive kernel size.
	ErrInvalidKernel = fmt.Errorf("%w: kernel size must be odd and positive", ErrConfiguration)
)
