package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	// ErrInvalidSize is returned for a canvas with a non-positive dimension
	ErrInvalidSize = errors.New("invalid canvas size")
	// ErrOutOfBounds is returned when reading or writing outside the canvas
	ErrOutOfBounds = errors.New("pixel out of bounds")
)

// ppmLineLength is the maximum length of a PPM data line
const ppmLineLength = 70

// Canvas is a grid of linear colors, row-major, with (0, 0) at the top left
type Canvas struct {
	Width  int
	Height int
	pixels []core.Color
}

// New creates a black canvas
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Canvas{
		Width:  width,
		Height: height,
		pixels: make([]core.Color, width*height),
	}, nil
}

func (c *Canvas) inBounds(x, y int) error {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return fmt.Errorf("%w: (%d, %d) on %dx%d canvas", ErrOutOfBounds, x, y, c.Width, c.Height)
	}
	return nil
}

// WritePixel sets the color at (x, y)
func (c *Canvas) WritePixel(x, y int, col core.Color) error {
	if err := c.inBounds(x, y); err != nil {
		return err
	}
	c.pixels[y*c.Width+x] = col
	return nil
}

// PixelAt returns the color at (x, y)
func (c *Canvas) PixelAt(x, y int) (core.Color, error) {
	if err := c.inBounds(x, y); err != nil {
		return core.Color{}, err
	}
	return c.pixels[y*c.Width+x], nil
}

// ToRGBA converts a linear color to 8 bits per channel, clamping to [0, 1]
// and rounding to the nearest value
func ToRGBA(col core.Color) color.RGBA {
	r, g, b := colorful.Color{R: col.R, G: col.G, B: col.B}.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Image converts the canvas to an 8-bit RGBA image
func (c *Canvas) Image() *image.RGBA {
	return c.SubImage(image.Rect(0, 0, c.Width, c.Height))
}

// SubImage converts a region of the canvas to an image whose origin is the
// region's top-left corner. The region is clipped to the canvas.
func (c *Canvas) SubImage(r image.Rectangle) *image.RGBA {
	r = r.Intersect(image.Rect(0, 0, c.Width, c.Height))
	img := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x-r.Min.X, y-r.Min.Y, ToRGBA(c.pixels[y*c.Width+x]))
		}
	}
	return img
}

// ToPPM renders the canvas as a plain (P3) PPM document. Data lines are
// wrapped at 70 characters and the document ends with a newline.
func (c *Canvas) ToPPM() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "P3\n%d %d\n255\n", c.Width, c.Height)

	values := make([]string, 0, c.Width*3)
	for y := range c.Height {
		values = values[:0]
		for x := range c.Width {
			px := ToRGBA(c.pixels[y*c.Width+x])
			values = append(values,
				strconv.Itoa(int(px.R)),
				strconv.Itoa(int(px.G)),
				strconv.Itoa(int(px.B)),
			)
		}
		writeWrapped(&sb, values, ppmLineLength)
	}
	return sb.String()
}

// writeWrapped joins values with spaces, starting a new line before any value
// that would push the line past maxLen
func writeWrapped(sb *strings.Builder, values []string, maxLen int) {
	lineLen := 0
	for _, v := range values {
		switch {
		case lineLen == 0:
		case lineLen+1+len(v) > maxLen:
			sb.WriteByte('\n')
			lineLen = 0
		default:
			sb.WriteByte(' ')
			lineLen++
		}
		sb.WriteString(v)
		lineLen += len(v)
	}
	sb.WriteByte('\n')
}
