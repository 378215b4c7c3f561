package animation

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

// ErrNoFrames is returned when encoding an empty animation
var ErrNoFrames = errors.New("no frames to encode")

// EncodeGIF writes frames as a looping GIF. Each frame is dithered onto the
// Plan 9 palette; fps is converted to the GIF delay in 100ths of a second.
func EncodeGIF(w io.Writer, frames []image.Image, fps int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if fps < 1 {
		return fmt.Errorf("%w: fps must be at least 1, got %d", ErrInvalidOrbit, fps)
	}
	delay := max(1, 100/fps)

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0,
	}
	for _, frame := range frames {
		bounds := frame.Bounds()
		paletted := image.NewPaletted(image.Rect(0, 0, bounds.Dx(), bounds.Dy()), palette.Plan9)
		draw.FloydSteinberg.Draw(paletted, paletted.Bounds(), frame, bounds.Min)

		out.Image = append(out.Image, paletted)
		out.Delay = append(out.Delay, delay)
	}
	return gif.EncodeAll(w, out)
}

// SaveGIF encodes the rendered frames of an orbit to path
func SaveGIF(path string, frames []Frame, fps int) error {
	images := make([]image.Image, len(frames))
	for i, f := range frames {
		images[i] = f.Image
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := EncodeGIF(file, images, fps); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
