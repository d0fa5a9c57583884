// Package pnm serializes rasters into the plain ("P2") PNM text format and
// masks into the plain ("P1") bitmap format. The P2 layout is byte-for-byte
// compatible with the files the original archive tooling produced, which
// downstream conversion scripts depend on.
package pnm

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"ddsm2pnm/internal/models"
)

const (
	// maxVal is the fixed maximum grey value written to the header.
	// Output is always normalized to the full 16-bit range.
	maxVal = 65535

	// valuesPerLine is how many pixel values go on one text line. The PNM
	// specification caps lines at 70 characters; with at most 5 characters
	// plus a separator per value, 10 values keep lines around column 50.
	valuesPerLine = 10
)

// ErrWrite is returned when the underlying writer fails. The output file
// may be partially written at that point and must be discarded.
var ErrWrite = errors.New("pnm write failed")

// Comment builds the provenance comment recorded in the file header. The
// bit depth is that of the original digitizer; the pixel data itself is
// always normalized 16-bit.
func Comment(bitsPerPixel int) string {
	return fmt.Sprintf("Generated by ddsm2pnm. Original data was digitized at %d bits/pixel.", bitsPerPixel)
}

// Writer emits a P2 file one sample at a time. The header is written on
// construction, so a failed conversion can leave a partial file behind;
// callers must treat any non-nil error from WriteSample or Flush as "file
// contents are unreliable".
type Writer struct {
	bw     *bufio.Writer
	inLine int
}

// NewWriter writes the P2 header for an image of the given shape and
// returns a writer ready to accept rows*cols samples in row-major order.
func NewWriter(w io.Writer, rows, cols int, comment string) (*Writer, error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P2\n# %s\n%d\n%d\n%d\n", comment, cols, rows, maxVal); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return &Writer{bw: bw}, nil
}

// WriteSample appends one pixel value, inserting a line break after every
// tenth value.
func (w *Writer) WriteSample(v uint16) error {
	if _, err := fmt.Fprintf(w.bw, "%d ", v); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	w.inLine++
	if w.inLine == valuesPerLine {
		if err := w.bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
		w.inLine = 0
	}
	return nil
}

// Flush drains buffered output to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// WriteRaster serializes a whole raster at once. Equivalent to streaming
// every pixel through a Writer.
func WriteRaster(w io.Writer, r *models.Raster, comment string) error {
	pw, err := NewWriter(w, r.Rows, r.Cols, comment)
	if err != nil {
		return err
	}
	for _, pix := range r.Pix {
		if err := pw.WriteSample(pix); err != nil {
			return err
		}
	}
	return pw.Flush()
}

// WriteMask serializes a binary mask as a plain P1 bitmap, one mask row
// per text line.
func WriteMask(w io.Writer, m *models.Mask, comment string) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P1\n# %s\n%d %d\n", comment, m.Cols, m.Rows); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	for row := 0; row < m.Rows; row++ {
		for col := 0; col < m.Cols; col++ {
			if col > 0 {
				if err := bw.WriteByte(' '); err != nil {
					return fmt.Errorf("%w: %v", ErrWrite, err)
				}
			}
			if err := bw.WriteByte('0' + m.At(row, col)); err != nil {
				return fmt.Errorf("%w: %v", ErrWrite, err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("%w: %v", ErrWrite, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
