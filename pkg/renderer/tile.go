package renderer

import "image"

// Tile is a rectangular block of pixels rendered as one unit of work
type Tile struct {
	ID              int
	Bounds          image.Rectangle
	PassesCompleted int
}

// NewTileGrid covers a width x height image with tiles in row-major order.
// Tiles on the right and bottom edges are clipped to the image.
func NewTileGrid(width, height, tileSize int) []*Tile {
	frame := image.Rect(0, 0, width, height)
	var tiles []*Tile
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			bounds := frame.Intersect(image.Rect(x, y, x+tileSize, y+tileSize))
			tiles = append(tiles, &Tile{ID: len(tiles), Bounds: bounds})
		}
	}
	return tiles
}
