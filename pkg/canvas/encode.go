package canvas

import (
	"bufio"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output image format
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".ppm":
		return FormatPPM, nil
	case ".png":
		return FormatPNG, nil
	case ".bmp":
		return FormatBMP, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}
}

// Encode writes the canvas to w in the given format
func (c *Canvas) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatPPM:
		_, err := io.WriteString(w, c.ToPPM())
		return err
	case FormatPNG:
		return png.Encode(w, c.Image())
	case FormatBMP:
		return bmp.Encode(w, c.Image())
	case FormatTIFF:
		return tiff.Encode(w, c.Image(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// Save writes the canvas to path, choosing the format by extension
func (c *Canvas) Save(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)
	if err := c.Encode(w, format); err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return file.Close()
}
