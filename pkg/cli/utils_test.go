package cli

import (
	"bufio"
	"bytes"
	"image/color"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fepozopo/imgcp/pkg/stdimg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradient returns a w x h opaque buffer with distinct channel ramps.
func gradient(w, h int) *stdimg.Buffer {
	b := stdimg.NewBuffer(w, h)
	b.Fill(color.NRGBA{A: 255})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.SetRGB(x, y, uint8(x*255/max(w-1, 1)), uint8(y*255/max(h-1, 1)), uint8((x+y)*7))
		}
	}
	return b
}

func TestSaveLoadPNG(t *testing.T) {
	src := gradient(9, 5)
	path := filepath.Join(t.TempDir(), "sub", "img.png")
	require.NoError(t, SaveImage(path, src))

	got, format, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, "PNG", format)
	assert.True(t, src.Equal(got))
}

func TestSaveUnknownExtensionWritesPNG(t *testing.T) {
	src := gradient(4, 4)
	path := filepath.Join(t.TempDir(), "img.raw")
	require.NoError(t, SaveImage(path, src))

	got, format, err := LoadImage(path)
	require.NoError(t, err)
	assert.Empty(t, format)
	assert.True(t, src.Equal(got))
}

func TestLoadImageMissing(t *testing.T) {
	_, _, err := LoadImage(filepath.Join(t.TempDir(), "absent.png"))
	assert.ErrorContains(t, err, "failed to read image")
}

func TestResize(t *testing.T) {
	out := Resize(gradient(8, 4), 4, 0)
	assert.Equal(t, 4, out.Width())
	assert.Equal(t, 2, out.Height())
}

func TestGetImageInfo(t *testing.T) {
	assert.Equal(t, "Format: PNG, Width: 3, Height: 2", GetImageInfo(gradient(3, 2), "png"))
	assert.Equal(t, "Format: UNKNOWN, Width: 3, Height: 2", GetImageInfo(gradient(3, 2), ""))
}

func TestPromptLine(t *testing.T) {
	var out bytes.Buffer
	r := bufio.NewReader(strings.NewReader("  median 3 \nlast"))

	line, err := PromptLine(r, &out, "> ")
	require.NoError(t, err)
	assert.Equal(t, "median 3", line)

	line, err = PromptLine(r, &out, "> ")
	require.NoError(t, err)
	assert.Equal(t, "last", line)

	_, err = PromptLine(r, &out, "> ")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "> > > ", out.String())
}
