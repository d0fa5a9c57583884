// Package chaincode reconstructs binary region masks from the compact
// boundary encoding used by DDSM overlay files. A chain code is a start
// coordinate followed by 8-connected direction steps, written as a single
// line of integers terminated by a '#' sentinel. The encoding stores the
// start as (column, row) — in that order — which is easy to mis-transcribe;
// the ordering here has been verified against reference masks and must not
// be "corrected".
package chaincode

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ddsm2pnm/internal/models"
)

// Sentinel terminates every chain code line in the source encoding.
const Sentinel = "#"

var (
	// ErrFormat is returned for a malformed chain code: missing sentinel,
	// missing start coordinate or a token that is not a direction in 0..7.
	ErrFormat = errors.New("malformed chain code")

	// ErrBadDimensions is returned when the requested mask dimensions are
	// not positive.
	ErrBadDimensions = errors.New("rows and cols must be positive")

	// ErrOutOfBounds is returned when the traced boundary leaves the
	// requested raster bounds. The encoding has no defined behavior for
	// this, and clamping or wrapping would silently corrupt the mask
	// geometry, so it is a hard failure.
	ErrOutOfBounds = errors.New("chain code leaves raster bounds")

	// ErrDimensionMismatch is returned if a generated mask does not have
	// the requested shape. This is an internal invariant violation kept as
	// a final check.
	ErrDimensionMismatch = errors.New("mask shape does not match requested dimensions")
)

// offsets maps each direction code to its (row, col) delta. Directions run
// clockwise from "up": 0 is one row up, 2 one column right, 4 one row down,
// 6 one column left, odd codes are the diagonals between them.
var offsets = [8][2]int{
	{-1, 0},
	{-1, 1},
	{0, 1},
	{1, 1},
	{1, 0},
	{1, -1},
	{0, -1},
	{-1, -1},
}

// Code is a parsed chain code: the first marked pixel and the direction
// steps that trace the rest of the boundary.
type Code struct {
	// StartRow and StartCol locate the first marked pixel.
	StartRow int
	StartCol int

	// Steps are the direction codes, each in 0..7.
	Steps []uint8
}

// Parse decodes one chain code line. The line must end with the sentinel
// and begin with the start coordinate, encoded as column first, then row.
func Parse(line string) (*Code, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 || tokens[len(tokens)-1] != Sentinel {
		return nil, fmt.Errorf("%w: missing %q terminator", ErrFormat, Sentinel)
	}
	tokens = tokens[:len(tokens)-1]

	if len(tokens) < 2 {
		return nil, fmt.Errorf("%w: no start coordinate", ErrFormat)
	}

	// Column before row, as encoded.
	startCol, err := strconv.Atoi(tokens[0])
	if err != nil {
		return nil, fmt.Errorf("%w: bad start column %q", ErrFormat, tokens[0])
	}
	startRow, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad start row %q", ErrFormat, tokens[1])
	}

	code := &Code{StartRow: startRow, StartCol: startCol}
	code.Steps = make([]uint8, 0, len(tokens)-2)
	for _, tok := range tokens[2:] {
		d, err := strconv.Atoi(tok)
		if err != nil || d < 0 || d > 7 {
			return nil, fmt.Errorf("%w: bad direction %q", ErrFormat, tok)
		}
		code.Steps = append(code.Steps, uint8(d))
	}
	return code, nil
}

// Rasterize traces the chain code onto a zero-filled mask of the requested
// shape and fills the enclosed interior, so the mask denotes the solid
// region rather than just its outline. Any step (or the start itself)
// outside the bounds fails with ErrOutOfBounds.
func Rasterize(code *Code, rows, cols int) (*models.Mask, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrBadDimensions, rows, cols)
	}

	mask := models.NewMask(rows, cols)

	row, col := code.StartRow, code.StartCol
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return nil, fmt.Errorf("%w: start (%d,%d) outside %dx%d", ErrOutOfBounds, row, col, rows, cols)
	}
	mask.Set(row, col, 1)

	for i, d := range code.Steps {
		row += offsets[d][0]
		col += offsets[d][1]
		if row < 0 || row >= rows || col < 0 || col >= cols {
			return nil, fmt.Errorf("%w: step %d reaches (%d,%d) outside %dx%d",
				ErrOutOfBounds, i, row, col, rows, cols)
		}
		mask.Set(row, col, 1)
	}

	fillInterior(mask)

	if mask.Rows != rows || mask.Cols != cols || len(mask.Pix) != rows*cols {
		return nil, fmt.Errorf("%w: got %dx%d with %d pixels, requested %dx%d",
			ErrDimensionMismatch, mask.Rows, mask.Cols, len(mask.Pix), rows, cols)
	}
	return mask, nil
}

// fillInterior marks every pixel enclosed by the traced boundary. It flood
// fills the exterior from the mask border with 4-connectivity (the dual of
// the 8-connected boundary, so diagonal boundary runs do not leak) and then
// marks everything that is neither exterior nor already boundary.
func fillInterior(mask *models.Mask) {
	rows, cols := mask.Rows, mask.Cols
	exterior := make([]bool, rows*cols)
	queue := make([]int, 0, 2*(rows+cols))

	seed := func(row, col int) {
		i := row*cols + col
		if mask.Pix[i] == 0 && !exterior[i] {
			exterior[i] = true
			queue = append(queue, i)
		}
	}

	for col := 0; col < cols; col++ {
		seed(0, col)
		seed(rows-1, col)
	}
	for row := 0; row < rows; row++ {
		seed(row, 0)
		seed(row, cols-1)
	}

	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		row, col := i/cols, i%cols

		if row > 0 {
			seed(row-1, col)
		}
		if row < rows-1 {
			seed(row+1, col)
		}
		if col > 0 {
			seed(row, col-1)
		}
		if col < cols-1 {
			seed(row, col+1)
		}
	}

	for i := range mask.Pix {
		if !exterior[i] {
			mask.Pix[i] = 1
		}
	}
}
