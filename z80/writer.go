package z80

import (
	"errors"
	"fmt"
	"io"

	"github.com/ueno1969/DancingStar/semigfx"
)

type encoder struct {
	w io.Writer
}

func (e *encoder) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(e.w, format, args...)
	return err
}

func (e *encoder) patternTable(g *semigfx.Grid, label string) error {
	if err := e.printf("%s:\n\t; %d x %d blocks\n", label, g.Width, g.Height); err != nil {
		return err
	}

	// Chunking restarts on every grid row so a row never shares a DB
	// line with its neighbour.
	for y := 0; y < g.Height; y++ {
		row := g.Row(y)
		for off := 0; off < len(row); off += bytesPerLine {
			end := off + bytesPerLine
			if end > len(row) {
				end = len(row)
			}
			if err := e.printf("\tDB\t"); err != nil {
				return err
			}
			for i, b := range row[off:end] {
				sep := ","
				if i == 0 {
					sep = ""
				}
				if err := e.printf("%s$%02X", sep, b.Pattern); err != nil {
					return err
				}
			}
			if err := e.printf("\n"); err != nil {
				return err
			}
		}
	}

	return nil
}

func (e *encoder) colorTable(g *semigfx.Grid, label string) error {
	if err := e.printf("%s:\n\t; %d rows\n", label, g.Height); err != nil {
		return err
	}

	for y := 0; y < g.Height; y++ {
		changes := EncodeRow(g.Colors(y))
		if err := e.printf("\tDB\t%d", len(changes)); err != nil {
			return err
		}
		for _, c := range changes {
			if err := e.printf(", %d,$%02X", c.X, c.Attr); err != nil {
				return err
			}
		}
		if err := e.printf("\n"); err != nil {
			return err
		}
	}

	return nil
}

// Change is one color transition within a grid row.
type Change struct {
	X    int
	Attr byte
}

// EncodeRow reduces one row of color codes to its color change list.
//
// A leading run of white is dropped: the hardware idles on white, so
// nothing needs saying until the first non-white code. Trailing white is
// kept because the hardware must be told to revert after the last
// colored run. Black never becomes a change and never updates the active
// color. A row that produces no changes at all still emits a single
// white entry at position zero so every row carries at least one record.
func EncodeRow(colors []byte) []Change {
	start := 0
	for start < len(colors) && colors[start] == semigfx.ColorWhite {
		start++
	}
	if start == len(colors) {
		return []Change{{0, attrWhite}}
	}

	var changes []Change
	cur := byte(0xff) // no active color yet
	for x := start; x < len(colors); x++ {
		c := colors[x]
		if c == semigfx.ColorBlack {
			continue
		}
		if c != cur {
			changes = append(changes, Change{x, Attr(c)})
			cur = c
		}
	}
	if len(changes) == 0 {
		return []Change{{0, attrWhite}}
	}

	return changes
}

// TableSizes returns how many bytes the pattern and color tables of g
// occupy once assembled.
func TableSizes(g *semigfx.Grid) (pattern, color int) {
	pattern = g.Width * g.Height
	for y := 0; y < g.Height; y++ {
		color += 1 + 2*len(EncodeRow(g.Colors(y)))
	}
	return
}

// EncodePatternTable writes the pattern table for g under label to w: the
// label, a dimension comment, then the block pattern bytes row major with
// sixteen bytes per DB line.
func EncodePatternTable(w io.Writer, g *semigfx.Grid, label string) error {
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return errors.New("z80: empty grid")
	}

	e := &encoder{w: w}

	return e.patternTable(g, label)
}

// EncodeColorTable writes the run length encoded color table for g under
// label to w, one DB line per grid row holding the change count followed
// by the (position, attribute) pairs.
func EncodeColorTable(w io.Writer, g *semigfx.Grid, label string) error {
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return errors.New("z80: empty grid")
	}

	e := &encoder{w: w}

	return e.colorTable(g, label)
}
