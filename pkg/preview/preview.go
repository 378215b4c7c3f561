// Package preview draws rendered images in a terminal using half-block cells.
// Every cell shows two vertically stacked pixels: the upper one as the
// foreground of "▀" and the lower one as the background.
package preview

import (
	"image"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/image/draw"
)

const halfBlock = "▀"

// CellSetter is the part of a terminal screen the preview draws on
type CellSetter interface {
	SetCell(x, y int, c *uv.Cell)
}

// Fit returns the largest pixel size that keeps the aspect ratio of a
// width x height image and fits in cols x rows cells. Images are never enlarged.
func Fit(width, height, cols, rows int) (int, int) {
	if width <= 0 || height <= 0 || cols <= 0 || rows <= 0 {
		return 0, 0
	}
	scale := min(1, float64(cols)/float64(width), float64(2*rows)/float64(height))
	w := max(1, int(float64(width)*scale))
	h := max(1, int(float64(height)*scale))
	return min(w, cols), min(h, 2*rows)
}

// Scale resamples img to exactly width x height pixels
func Scale(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	if img.Bounds().Dx() == width && img.Bounds().Dy() == height {
		draw.Copy(dst, image.Point{}, img, img.Bounds(), draw.Src, nil)
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Rows returns the number of terminal rows needed for an image height
func Rows(height int) int {
	return (height + 1) / 2
}

// Draw writes img onto scr starting at the top-left cell. An odd final pixel
// row leaves the cell background unset.
func Draw(scr CellSetter, img *image.RGBA) {
	b := img.Bounds()
	for row := range Rows(b.Dy()) {
		topY := b.Min.Y + row*2
		botY := topY + 1
		for col := range b.Dx() {
			x := b.Min.X + col
			cell := &uv.Cell{
				Content: halfBlock,
				Width:   1,
				Style: uv.Style{
					Fg: img.RGBAAt(x, topY),
				},
			}
			if botY < b.Max.Y {
				cell.Style.Bg = img.RGBAAt(x, botY)
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// Render fits img into cols x rows cells and returns the styled text
func Render(img image.Image, cols, rows int) string {
	w, h := Fit(img.Bounds().Dx(), img.Bounds().Dy(), cols, rows)
	if w == 0 {
		return ""
	}
	buf := uv.NewScreenBuffer(w, Rows(h))
	Draw(buf, Scale(img, w, h))
	return buf.Render()
}
