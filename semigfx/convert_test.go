package semigfx

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pixelBuffer returns a fully transparent RGBA buffer.
func pixelBuffer(w, h int) []byte {
	return make([]byte, w*h*4)
}

func setPixel(pix []byte, w, x, y int, c color.RGBA) {
	i := (y*w + x) * 4
	pix[i+0] = c.R
	pix[i+1] = c.G
	pix[i+2] = c.B
	pix[i+3] = c.A
}

var opaqueWhite = color.RGBA{0xff, 0xff, 0xff, 0xff}

func TestPatternBitOrder(t *testing.T) {
	for dx := 0; dx < BlockWidth; dx++ {
		for dy := 0; dy < BlockHeight; dy++ {
			pix := pixelBuffer(BlockWidth, BlockHeight)
			setPixel(pix, BlockWidth, dx, dy, opaqueWhite)

			g, err := Convert(BlockWidth, BlockHeight, pix)
			require.NoError(t, err)

			assert.Equal(t, byte(1)<<uint(dx*4+dy), g.At(0, 0).Pattern, "dot (%d,%d)", dx, dy)
		}
	}
}

func TestPatternShapes(t *testing.T) {
	tests := []struct {
		name    string
		dots    func(dx, dy int) bool
		pattern byte
	}{
		{"full", func(dx, dy int) bool { return true }, 0xff},
		{"bottom two rows", func(dx, dy int) bool { return dy >= 2 }, 0xcc},
		{"top two rows", func(dx, dy int) bool { return dy < 2 }, 0x33},
		{"left column", func(dx, dy int) bool { return dx == 0 }, 0x0f},
		{"right column", func(dx, dy int) bool { return dx == 1 }, 0xf0},
		{"empty", func(dx, dy int) bool { return false }, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pix := pixelBuffer(BlockWidth, BlockHeight)
			for dy := 0; dy < BlockHeight; dy++ {
				for dx := 0; dx < BlockWidth; dx++ {
					if tt.dots(dx, dy) {
						setPixel(pix, BlockWidth, dx, dy, opaqueWhite)
					}
				}
			}

			g, err := Convert(BlockWidth, BlockHeight, pix)
			require.NoError(t, err)

			assert.Equal(t, tt.pattern, g.At(0, 0).Pattern)
			if tt.pattern == 0 {
				assert.Equal(t, byte(ColorBlack), g.At(0, 0).Color)
			} else {
				assert.Equal(t, byte(ColorWhite), g.At(0, 0).Color)
			}
		})
	}
}

func TestAlphaThreshold(t *testing.T) {
	for _, tt := range []struct {
		alpha byte
		set   bool
	}{
		{0, false},
		{127, false},
		{128, true},
		{255, true},
	} {
		pix := pixelBuffer(BlockWidth, BlockHeight)
		setPixel(pix, BlockWidth, 0, 0, color.RGBA{0xff, 0xff, 0xff, tt.alpha})

		g, err := Convert(BlockWidth, BlockHeight, pix)
		require.NoError(t, err)

		if tt.set {
			assert.Equal(t, byte(0x01), g.At(0, 0).Pattern, "alpha %d", tt.alpha)
		} else {
			assert.Equal(t, byte(0x00), g.At(0, 0).Pattern, "alpha %d", tt.alpha)
		}
	}
}

func TestNearestColor(t *testing.T) {
	for c, p := range Palette {
		assert.Equal(t, c, NearestColor(p.R, p.G, p.B))
	}

	assert.Equal(t, ColorBlack, NearestColor(50, 50, 50))
	assert.Equal(t, ColorWhite, NearestColor(200, 200, 200))
	assert.Equal(t, ColorRed, NearestColor(200, 100, 0))
}

func TestMajorityVote(t *testing.T) {
	t.Run("most frequent wins", func(t *testing.T) {
		// Four red dots, two green, two transparent.
		pix := pixelBuffer(BlockWidth, BlockHeight)
		red := color.RGBA{0xff, 0x00, 0x00, 0xff}
		green := color.RGBA{0x00, 0xff, 0x00, 0xff}
		setPixel(pix, BlockWidth, 0, 0, red)
		setPixel(pix, BlockWidth, 1, 0, red)
		setPixel(pix, BlockWidth, 0, 1, red)
		setPixel(pix, BlockWidth, 1, 1, red)
		setPixel(pix, BlockWidth, 0, 2, green)
		setPixel(pix, BlockWidth, 1, 2, green)

		g, err := Convert(BlockWidth, BlockHeight, pix)
		require.NoError(t, err)

		assert.Equal(t, byte(ColorRed), g.At(0, 0).Color)
		assert.Equal(t, byte(0x77), g.At(0, 0).Pattern)
	})

	t.Run("black never wins", func(t *testing.T) {
		// Five black dots outnumber three blue ones but black is
		// excluded from the tally.
		pix := pixelBuffer(BlockWidth, BlockHeight)
		black := color.RGBA{0x00, 0x00, 0x00, 0xff}
		blue := color.RGBA{0x00, 0x00, 0xff, 0xff}
		for dy := 0; dy < BlockHeight; dy++ {
			for dx := 0; dx < BlockWidth; dx++ {
				setPixel(pix, BlockWidth, dx, dy, black)
			}
		}
		setPixel(pix, BlockWidth, 0, 0, blue)
		setPixel(pix, BlockWidth, 1, 0, blue)
		setPixel(pix, BlockWidth, 0, 1, blue)

		g, err := Convert(BlockWidth, BlockHeight, pix)
		require.NoError(t, err)

		assert.Equal(t, byte(ColorBlue), g.At(0, 0).Color)
		assert.Equal(t, byte(0xff), g.At(0, 0).Pattern)
	})

	t.Run("all black keeps its dots", func(t *testing.T) {
		pix := pixelBuffer(BlockWidth, BlockHeight)
		for dy := 0; dy < BlockHeight; dy++ {
			for dx := 0; dx < BlockWidth; dx++ {
				setPixel(pix, BlockWidth, dx, dy, color.RGBA{0x00, 0x00, 0x00, 0xff})
			}
		}

		g, err := Convert(BlockWidth, BlockHeight, pix)
		require.NoError(t, err)

		assert.Equal(t, byte(ColorBlack), g.At(0, 0).Color)
		assert.Equal(t, byte(0xff), g.At(0, 0).Pattern)
	})

	t.Run("tie goes to the lowest code", func(t *testing.T) {
		pix := pixelBuffer(BlockWidth, BlockHeight)
		setPixel(pix, BlockWidth, 0, 0, color.RGBA{0xff, 0x00, 0x00, 0xff})
		setPixel(pix, BlockWidth, 0, 1, color.RGBA{0x00, 0x00, 0xff, 0xff})

		g, err := Convert(BlockWidth, BlockHeight, pix)
		require.NoError(t, err)

		assert.Equal(t, byte(ColorBlue), g.At(0, 0).Color)
	})
}

func TestGridDimensions(t *testing.T) {
	tests := []struct {
		w, h   int
		gw, gh int
	}{
		{2, 4, 1, 1},
		{3, 4, 2, 1},
		{4, 8, 2, 2},
		{5, 5, 3, 2},
		{1, 1, 1, 1},
	}

	for _, tt := range tests {
		pix := pixelBuffer(tt.w, tt.h)
		g, err := Convert(tt.w, tt.h, pix)
		require.NoError(t, err)

		assert.Equal(t, tt.gw, g.Width, "%dx%d", tt.w, tt.h)
		assert.Equal(t, tt.gh, g.Height, "%dx%d", tt.w, tt.h)
	}
}

func TestPartialEdgeBlocks(t *testing.T) {
	// A 5x5 all-white image; the bottom right block covers only source
	// dot (4,4), which is its top left corner.
	pix := pixelBuffer(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			setPixel(pix, 5, x, y, opaqueWhite)
		}
	}

	g, err := Convert(5, 5, pix)
	require.NoError(t, err)

	assert.Equal(t, byte(0x01), g.At(2, 1).Pattern)
	assert.Equal(t, byte(ColorWhite), g.At(2, 1).Color)
}

func TestConvertBadInput(t *testing.T) {
	_, err := Convert(2, 4, make([]byte, 3))
	assert.Error(t, err)

	_, err = Convert(0, 4, nil)
	assert.Error(t, err)

	_, err = Convert(2, -1, nil)
	assert.Error(t, err)
}

func testImage() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, 6, 8))
	colors := []color.NRGBA{
		{0xff, 0x00, 0x00, 0xff},
		{0x00, 0x00, 0xff, 0xff},
		{0xc8, 0x64, 0x00, 0xff},
		{0xff, 0xff, 0xff, 0xff},
		{0x00, 0x00, 0x00, 0x00},
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 6; x++ {
			m.SetNRGBA(x, y, colors[(x+y*3)%len(colors)])
		}
	}
	return m
}

func TestFromImageMatchesConvert(t *testing.T) {
	m := testImage()

	want, err := Convert(6, 8, m.Pix)
	require.NoError(t, err)

	got, err := FromImage(m)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestFromImageOffsetBounds(t *testing.T) {
	// A sub-image with a non-zero origin must convert like its
	// zero-based equivalent.
	m := testImage()
	big := image.NewNRGBA(image.Rect(0, 0, 10, 12))
	for y := 0; y < 8; y++ {
		for x := 0; x < 6; x++ {
			big.Set(x+2, y+4, m.NRGBAAt(x, y))
		}
	}

	want, err := FromImage(m)
	require.NoError(t, err)

	got, err := FromImage(big.SubImage(image.Rect(2, 4, 8, 12)))
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestLoadFileMatchesConvert(t *testing.T) {
	m := testImage()

	path := filepath.Join(t.TempDir(), "sprite.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, m))
	require.NoError(t, f.Close())

	want, err := Convert(6, 8, m.Pix)
	require.NoError(t, err)

	got, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestLoadFileMissing(t *testing.T) {
	g, err := LoadFile(filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
	assert.Nil(t, g)
}

func TestLoadFileNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	g, err := LoadFile(path)
	assert.Error(t, err)
	assert.Nil(t, g)
}

func TestPosterize(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			m.SetNRGBA(x, y, color.NRGBA{byte(x * 30), byte(y * 30), 0x80, 0xff})
		}
	}
	m.SetNRGBA(0, 0, color.NRGBA{}) // keep one transparent dot

	out := Posterize(m)
	assert.Equal(t, m.Bounds(), out.Bounds())

	seen := make(map[color.Color]struct{})
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := color.NRGBAModel.Convert(out.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			seen[color.NRGBA{c.R, c.G, c.B, 0xff}] = struct{}{}
		}
	}
	assert.LessOrEqual(t, len(seen), 8)

	_, _, _, a := out.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), a)
}
