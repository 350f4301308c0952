package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Fepozopo/imgcp/pkg/stdimg"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// PromptLine writes prompt to w and reads a full line from reader. The
// returned string is trimmed of surrounding whitespace (including the newline).
// A final line without a newline is returned before io.EOF is reported.
func PromptLine(reader *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// LoadImage decodes the file at path into a buffer, honoring the EXIF
// orientation of JPEG files. The returned format is derived from the
// extension ("" when unknown).
func LoadImage(path string) (*stdimg.Buffer, string, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image %s: %w", path, err)
	}
	format := ""
	if f, ferr := imaging.FormatFromFilename(path); ferr == nil {
		format = f.String()
	}
	debugf("loaded %s (%s) %dx%d", path, format, img.Bounds().Dx(), img.Bounds().Dy())
	return stdimg.FromImage(img), format, nil
}

// SaveImage saves buf to disk using the format inferred from the filename
// extension. Unknown extensions are written as PNG.
func SaveImage(path string, buf *stdimg.Buffer) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating output directory: %w", err)
		}
	}
	if _, err := imaging.FormatFromFilename(path); err != nil {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := imaging.Encode(f, buf.Image(), imaging.PNG); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return imaging.Save(buf.Image(), path, imaging.JPEGQuality(92))
}

// Resize scales buf with a Lanczos filter. A zero width or height keeps the
// aspect ratio.
func Resize(buf *stdimg.Buffer, w, h int) *stdimg.Buffer {
	return stdimg.FromImage(imaging.Resize(buf.Image(), w, h, imaging.Lanczos))
}

// GetImageInfo returns a short info string for a buffer.
func GetImageInfo(buf *stdimg.Buffer, format string) string {
	if format == "" {
		format = "unknown"
	}
	return fmt.Sprintf("Format: %s, Width: %d, Height: %d", strings.ToUpper(format), buf.Width(), buf.Height())
}
