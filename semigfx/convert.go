package semigfx

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/ericpauley/go-quantize/quantize"
)

// Convert maps a width by height RGBA pixel buffer onto a semi-graphic
// grid of ceil(width/2) by ceil(height/4) blocks. A pixel sets its dot
// when its alpha channel is above 127; set pixels also vote for the
// palette color nearest to their RGB value and each block takes the most
// frequent non-black vote, the lowest color code winning ties. Source
// pixels outside the image contribute nothing, so edge blocks of images
// that are not multiples of 2 by 4 are partially filled.
func Convert(width, height int, pix []byte) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("semigfx: invalid image size %dx%d", width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("semigfx: pixel buffer is %d bytes, want %d for %dx%d", len(pix), width*height*4, width, height)
	}

	gw, gh := GridSize(width, height)
	g := &Grid{
		Width:  gw,
		Height: gh,
		blocks: make([]Block, gw*gh),
	}

	for by := 0; by < gh; by++ {
		for bx := 0; bx < gw; bx++ {
			g.blocks[by*gw+bx] = convertBlock(width, height, pix, bx*BlockWidth, by*BlockHeight)
		}
	}

	return g, nil
}

func convertBlock(width, height int, pix []byte, ox, oy int) Block {
	var b Block
	var votes [numColors]int

	for dy := 0; dy < BlockHeight; dy++ {
		for dx := 0; dx < BlockWidth; dx++ {
			x, y := ox+dx, oy+dy
			if x >= width || y >= height {
				continue
			}
			i := (y*width + x) * 4
			if pix[i+3] <= alphaThreshold {
				continue
			}
			// Left column fills the low nibble, right column the
			// high nibble, both top to bottom.
			b.Pattern |= 1 << uint(dx*4+dy)
			votes[NearestColor(pix[i], pix[i+1], pix[i+2])]++
		}
	}

	b.Color = byte(majority(votes))

	return b
}

// majority picks the most frequent non-black vote, the lowest color code
// winning ties. Black never wins; a block with no votes at all stays
// black.
func majority(votes [numColors]int) int {
	best, n := ColorBlack, 0
	for c := ColorBlue; c < numColors; c++ {
		if votes[c] > n {
			best, n = c, votes[c]
		}
	}
	return best
}

// NearestColor returns the color code of the palette entry closest to the
// given channel values by Euclidean distance, the lowest code winning
// ties.
func NearestColor(r, g, b byte) int {
	best, min := 0, int(^uint(0)>>1)
	for c, p := range Palette {
		dr := int(r) - int(p.R)
		dg := int(g) - int(p.G)
		db := int(b) - int(p.B)
		if d := dr*dr + dg*dg + db*db; d < min {
			best, min = c, d
		}
	}
	return best
}

// FromImage converts any image by flattening it to non-premultiplied RGBA
// first. It yields the same grid as Convert would for equivalent pixel
// content.
func FromImage(m image.Image) (*Grid, error) {
	b := m.Bounds()

	nrgba, ok := m.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) || nrgba.Stride != b.Dx()*4 {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), m, b.Min, draw.Src)
	}

	return Convert(b.Dx(), b.Dy(), nrgba.Pix)
}

// LoadFile decodes the image at path and converts it. Callers register
// the formats they need, typically with blank imports of image/png and
// friends.
func LoadFile(path string) (*Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("semigfx: decode %s: %w", path, err)
	}

	return FromImage(m)
}

// Posterize reduces m to at most eight colors with a median cut quantizer
// while keeping the original alpha channel. Running it before conversion
// steadies the per-block color vote on photographic input.
func Posterize(m image.Image) image.Image {
	b := m.Bounds()

	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, numColors), m)

	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			if c.A > 0 && len(p) > 0 {
				n := color.NRGBAModel.Convert(p.Convert(c)).(color.NRGBA)
				c.R, c.G, c.B = n.R, n.G, n.B
			}
			out.SetNRGBA(x-b.Min.X, y-b.Min.Y, c)
		}
	}

	return out
}
