/*
Package semigfx implements a converter from raster images to PC-8801
semi-graphic block data.

A semi-graphic block covers a 2 by 4 dot cell and is stored as one 8-bit
dot pattern plus a 3-bit color code into the fixed eight color digital
palette. The pattern packs the left column into the low nibble and the
right column into the high nibble, each ordered top to bottom: bit 0 is
dot (0,0), bit 3 is dot (0,3), bit 4 is dot (1,0) and bit 7 is dot (1,3).
*/
package semigfx

import (
	"errors"
	"image/color"
)

const (
	// BlockWidth and BlockHeight are the dot dimensions of one block.
	BlockWidth  = 2
	BlockHeight = 4

	numColors = 8

	// Pixels with an alpha channel above this are opaque.
	alphaThreshold = 127
)

// Digital palette color codes.
const (
	ColorBlack = iota
	ColorBlue
	ColorRed
	ColorMagenta
	ColorGreen
	ColorCyan
	ColorYellow
	ColorWhite
)

// Palette is the digital palette of the target hardware, indexed by color
// code.
var Palette = [numColors]color.RGBA{
	{0x00, 0x00, 0x00, 0xff},
	{0x00, 0x00, 0xff, 0xff},
	{0xff, 0x00, 0x00, 0xff},
	{0xff, 0x00, 0xff, 0xff},
	{0x00, 0xff, 0x00, 0xff},
	{0x00, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0x00, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

var colorNames = [numColors]string{
	"black",
	"blue",
	"red",
	"magenta",
	"green",
	"cyan",
	"yellow",
	"white",
}

// ColorName returns the human readable name of a color code, or "unknown"
// for codes outside the palette.
func ColorName(code int) string {
	if code < 0 || code >= numColors {
		return "unknown"
	}
	return colorNames[code]
}

// Block is one semi-graphic cell.
type Block struct {
	Pattern byte
	Color   byte
}

// Grid is a rectangular arrangement of blocks, row major. It is not
// modified once built.
type Grid struct {
	Width  int
	Height int

	blocks []Block
}

// NewGrid builds a grid from a row major block slice. The slice is copied.
func NewGrid(width, height int, blocks []Block) (*Grid, error) {
	if width <= 0 || height <= 0 || len(blocks) != width*height {
		return nil, errors.New("semigfx: block count does not match grid size")
	}
	g := &Grid{
		Width:  width,
		Height: height,
		blocks: make([]Block, len(blocks)),
	}
	copy(g.blocks, blocks)
	return g, nil
}

// At returns the block at grid position (x, y).
func (g *Grid) At(x, y int) Block {
	return g.blocks[y*g.Width+x]
}

// Row returns one grid row of blocks.
func (g *Grid) Row(y int) []Block {
	return g.blocks[y*g.Width : (y+1)*g.Width]
}

// Colors returns the color codes of one grid row.
func (g *Grid) Colors(y int) []byte {
	row := g.Row(y)
	colors := make([]byte, len(row))
	for i, b := range row {
		colors[i] = b.Color
	}
	return colors
}

// PixelSize returns the dot dimensions covered by a grid of gw by gh
// blocks.
func PixelSize(gw, gh int) (int, int) {
	return gw * BlockWidth, gh * BlockHeight
}

// GridSize returns the size in blocks of the grid covering a pw by ph dot
// image. Partial blocks at the right and bottom edges count.
func GridSize(pw, ph int) (int, int) {
	return (pw + BlockWidth - 1) / BlockWidth, (ph + BlockHeight - 1) / BlockHeight
}

// BlockAt returns the grid position of the block containing dot (px, py).
func BlockAt(px, py int) (int, int) {
	return px / BlockWidth, py / BlockHeight
}

// Stats summarises a converted grid.
type Stats struct {
	Blocks int
	Drawn  int // blocks with at least one dot set
	Colors [numColors]int
}

// Stats counts the blocks of g per color code.
func (g *Grid) Stats() Stats {
	s := Stats{Blocks: len(g.blocks)}
	for _, b := range g.blocks {
		s.Colors[b.Color]++
		if b.Pattern != 0 {
			s.Drawn++
		}
	}
	return s
}
