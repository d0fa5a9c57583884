// Package rawimage decodes DDSM raw sample streams into normalized rasters.
// The raw format is a plain sequence of big-endian unsigned 16-bit samples in
// row-major order, exactly rows*cols of them; the image dimensions are not
// carried in the stream and must come from the case description file.
package rawimage

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"ddsm2pnm/internal/models"
	"ddsm2pnm/pkg/calibration"
)

var (
	// ErrBadDimensions is returned when the declared rows or cols are not
	// positive.
	ErrBadDimensions = errors.New("rows and cols must be positive")

	// ErrSizeMismatch is returned when the stream does not hold exactly
	// rows*cols samples. It covers both truncated and oversized input.
	ErrSizeMismatch = errors.New("sample count does not match rows*cols")

	// ErrRead is returned when the underlying stream fails mid-read.
	ErrRead = errors.New("stream read failed")
)

// Decoder reads a raw sample stream and calibrates every sample for one
// digitizer. A decoder is single-use per stream but carries no state
// between streams other than its configuration.
type Decoder struct {
	digitizer calibration.Digitizer
	rows      int
	cols      int
	log       zerolog.Logger
}

// NewDecoder creates a decoder for the given digitizer and declared image
// dimensions. Both dimensions must be positive.
func NewDecoder(d calibration.Digitizer, rows, cols int, log zerolog.Logger) (*Decoder, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrBadDimensions, rows, cols)
	}
	return &Decoder{digitizer: d, rows: rows, cols: cols, log: log}, nil
}

// DecodeStream consumes the full stream, calibrating each sample and
// passing the normalized grey level to emit. It processes one sample at a
// time and never buffers the stream, so peak memory stays bounded for
// arbitrarily large images. Any calibration error, read fault or emit
// error aborts the decode; a sample count different from rows*cols fails
// with ErrSizeMismatch after the stream is drained.
func (d *Decoder) DecodeStream(r io.Reader, emit func(uint16) error) error {
	br := bufio.NewReader(r)
	want := d.rows * d.cols

	var buf [2]byte
	count := 0
	minPix := uint16(65535)
	maxPix := uint16(0)

	for {
		_, err := io.ReadFull(br, buf[:])
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			// An odd trailing byte means the last sample is truncated.
			return fmt.Errorf("%w: stream ends mid-sample after %d samples", ErrSizeMismatch, count)
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrRead, err)
		}

		// First byte of the pair is the most significant.
		raw := uint16(buf[0])<<8 | uint16(buf[1])

		pix, err := d.digitizer.Normalize(raw)
		if err != nil {
			return fmt.Errorf("sample %d (raw=%d): %w", count, raw, err)
		}

		if err := emit(pix); err != nil {
			return err
		}

		if pix < minPix {
			minPix = pix
		}
		if pix > maxPix {
			maxPix = pix
		}
		count++
	}

	if count != want {
		return fmt.Errorf("%w: read %d samples, expected %d (%dx%d)",
			ErrSizeMismatch, count, want, d.rows, d.cols)
	}

	d.log.Debug().
		Str("digitizer", d.digitizer.String()).
		Int("samples", count).
		Uint16("min", minPix).
		Uint16("max", maxPix).
		Msg("decoded raw stream")

	return nil
}

// Decode consumes the full stream into a raster. Use DecodeStream when the
// raster itself is not needed and the output can be produced sample by
// sample.
func (d *Decoder) Decode(r io.Reader) (*models.Raster, error) {
	raster := models.NewRaster(d.rows, d.cols)
	i := 0
	err := d.DecodeStream(r, func(pix uint16) error {
		// DecodeStream fails on oversized input only after draining it,
		// so guard the raster bounds here.
		if i < len(raster.Pix) {
			raster.Pix[i] = pix
		}
		i++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return raster, nil
}
