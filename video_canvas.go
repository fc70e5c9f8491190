// video_canvas.go - braille dot canvas for the terminal frontend
//
// Each terminal cell carries a 2x4 grid of braille dots, so a W x H cell
// region gives a 2W x 4H pixel surface. Unicode braille starts at U+2800
// and the eight dots map onto the low byte of the rune.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// Dot offsets within one braille cell. Column-major: the left column is
// dots 1,2,3,7 and the right column is dots 4,5,6,8.
var brailleDots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

type BrailleCanvas struct {
	cellsW int
	cellsH int
	cells  []uint8
}

func NewBrailleCanvas(cellsW, cellsH int) *BrailleCanvas {
	bc := &BrailleCanvas{}
	bc.Resize(cellsW, cellsH)
	return bc
}

// Resize reallocates only when the cell count grows.
func (bc *BrailleCanvas) Resize(cellsW, cellsH int) {
	cellsW = max(cellsW, 0)
	cellsH = max(cellsH, 0)
	bc.cellsW = cellsW
	bc.cellsH = cellsH
	if need := cellsW * cellsH; need > cap(bc.cells) {
		bc.cells = make([]uint8, need)
	} else {
		bc.cells = bc.cells[:need]
	}
}

func (bc *BrailleCanvas) Width() int  { return bc.cellsW * 2 }
func (bc *BrailleCanvas) Height() int { return bc.cellsH * 4 }

func (bc *BrailleCanvas) Clear() {
	clear(bc.cells)
}

// Set turns on the dot at pixel (x, y). Out of range is ignored.
func (bc *BrailleCanvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= bc.Width() || y >= bc.Height() {
		return
	}
	cell := (y/4)*bc.cellsW + x/2
	bc.cells[cell] |= brailleDots[x&1][y&3]
}

// VLine draws a vertical run of dots from y0 to y1 inclusive, either order.
func (bc *BrailleCanvas) VLine(x, y0, y1 int) {
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		bc.Set(x, y)
	}
}

// Rune returns the braille character for the cell at (cx, cy).
func (bc *BrailleCanvas) Rune(cx, cy int) rune {
	if cx < 0 || cy < 0 || cx >= bc.cellsW || cy >= bc.cellsH {
		return ' '
	}
	mask := bc.cells[cy*bc.cellsW+cx]
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 | uint32(mask))
}
