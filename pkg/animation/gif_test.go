package animation

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"path/filepath"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestEncodeGIF(t *testing.T) {
	frames := []image.Image{
		solidImage(4, 3, color.RGBA{255, 0, 0, 255}),
		solidImage(4, 3, color.RGBA{0, 0, 255, 255}),
	}

	var buf bytes.Buffer
	if err := EncodeGIF(&buf, frames, 10); err != nil {
		t.Fatal(err)
	}

	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("Failed to decode GIF: %v", err)
	}
	if len(decoded.Image) != 2 {
		t.Fatalf("Expected 2 frames, got %d", len(decoded.Image))
	}
	if decoded.LoopCount != 0 {
		t.Errorf("Expected endless loop, got %d", decoded.LoopCount)
	}
	for i, d := range decoded.Delay {
		if d != 10 {
			t.Errorf("Frame %d: expected delay 10, got %d", i, d)
		}
	}

	r, _, b, _ := decoded.Image[0].At(1, 1).RGBA()
	if r>>8 < 200 || b>>8 > 50 {
		t.Errorf("First frame should be red, got r=%d b=%d", r>>8, b>>8)
	}
	r, _, b, _ = decoded.Image[1].At(1, 1).RGBA()
	if b>>8 < 200 || r>>8 > 50 {
		t.Errorf("Second frame should be blue, got r=%d b=%d", r>>8, b>>8)
	}
}

func TestEncodeGIF_OffsetBounds(t *testing.T) {
	full := solidImage(8, 8, color.RGBA{0, 255, 0, 255})
	sub := full.SubImage(image.Rect(4, 4, 8, 8))

	var buf bytes.Buffer
	if err := EncodeGIF(&buf, []image.Image{sub}, 24); err != nil {
		t.Fatal(err)
	}
	decoded, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := decoded.Image[0].Bounds(); b != image.Rect(0, 0, 4, 4) {
		t.Errorf("Expected bounds rebased to the origin, got %v", b)
	}
	if decoded.Delay[0] != 4 {
		t.Errorf("Expected delay 4 at 24 fps, got %d", decoded.Delay[0])
	}
}

func TestEncodeGIF_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeGIF(&buf, nil, 10); !errors.Is(err, ErrNoFrames) {
		t.Errorf("Expected ErrNoFrames, got %v", err)
	}
	frames := []image.Image{solidImage(2, 2, color.RGBA{A: 255})}
	if err := EncodeGIF(&buf, frames, 0); !errors.Is(err, ErrInvalidOrbit) {
		t.Errorf("Expected ErrInvalidOrbit for zero fps, got %v", err)
	}
}

func TestSaveGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orbit.gif")
	frames := []Frame{
		{Index: 0, Image: solidImage(3, 3, color.RGBA{255, 255, 255, 255})},
		{Index: 1, Image: solidImage(3, 3, color.RGBA{A: 255})},
	}
	if err := SaveGIF(path, frames, 12); err != nil {
		t.Fatal(err)
	}
	if err := SaveGIF(filepath.Join(t.TempDir(), "missing", "x.gif"), frames, 12); err == nil {
		t.Error("Expected error for a missing directory")
	}
}
