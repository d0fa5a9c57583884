package models

// Raster holds a decoded, normalized grayscale image.
type Raster struct {
	// Pix is the pixel data as a 1D array in row-major order.
	// Values are normalized grey levels in [0, 65535], directly
	// comparable across all digitizers.
	Pix []uint16

	// Rows is the number of image rows.
	Rows int

	// Cols is the number of image columns.
	Cols int
}

// NewRaster allocates a zero-filled raster of the given shape.
func NewRaster(rows, cols int) *Raster {
	return &Raster{
		Pix:  make([]uint16, rows*cols),
		Rows: rows,
		Cols: cols,
	}
}

// At returns the pixel value at the given row and column.
func (r *Raster) At(row, col int) uint16 {
	return r.Pix[row*r.Cols+col]
}

// Set stores a pixel value at the given row and column.
func (r *Raster) Set(row, col int, v uint16) {
	r.Pix[row*r.Cols+col] = v
}

// Mask is a binary raster marking which pixels belong to an annotated
// region. It has the same shape contract as Raster but values are
// restricted to {0, 1}.
type Mask struct {
	// Pix is the mask data as a 1D array in row-major order.
	Pix []uint8

	// Rows is the number of mask rows.
	Rows int

	// Cols is the number of mask columns.
	Cols int
}

// NewMask allocates a zero-filled mask of the given shape.
func NewMask(rows, cols int) *Mask {
	return &Mask{
		Pix:  make([]uint8, rows*cols),
		Rows: rows,
		Cols: cols,
	}
}

// At returns the mask value at the given row and column.
func (m *Mask) At(row, col int) uint8 {
	return m.Pix[row*m.Cols+col]
}

// Set stores a mask value at the given row and column.
func (m *Mask) Set(row, col int, v uint8) {
	m.Pix[row*m.Cols+col] = v
}
