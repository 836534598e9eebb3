/*
Package z80 emits semi-graphic grids as assembler data tables.

Two tables are produced per image: a pattern table holding one raw byte
per block, and a run length encoded color table holding, for every grid
row, a change count followed by (position, attribute) pairs. The hardware
only needs to be told where the active color changes, so runs of equal
color collapse into one pair, black passes through without touching the
active color and a leading run of white is omitted entirely because white
is the idle state of the attribute system.
*/
package z80

// attrTable maps a color code to the hardware attribute byte carried in
// the color table. Each entry is (code<<5)|0x18.
var attrTable = [8]byte{0x18, 0x38, 0x58, 0x78, 0x98, 0xB8, 0xD8, 0xF8}

const attrWhite = 0xF8

// Attr returns the attribute byte for a color code. Codes outside the
// palette fall back to white.
func Attr(code byte) byte {
	if int(code) >= len(attrTable) {
		return attrWhite
	}
	return attrTable[code]
}

// bytesPerLine is how many pattern bytes go on one DB line.
const bytesPerLine = 16
