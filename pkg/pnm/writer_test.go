package pnm

import (
	"bytes"
	"strings"
	"testing"

	"ddsm2pnm/internal/models"
)

// TestWriteRasterExactLayout checks the output byte for byte against the
// legacy-compatible layout: magic, comment, cols, rows, maxval, then
// space-separated values with a newline after every tenth value.
func TestWriteRasterExactLayout(t *testing.T) {
	raster := models.NewRaster(3, 4)
	for i := range raster.Pix {
		raster.Pix[i] = uint16(i * 1000)
	}

	var buf bytes.Buffer
	if err := WriteRaster(&buf, raster, Comment(12)); err != nil {
		t.Fatalf("WriteRaster: unexpected error: %v", err)
	}

	want := "P2\n" +
		"# Generated by ddsm2pnm. Original data was digitized at 12 bits/pixel.\n" +
		"4\n" +
		"3\n" +
		"65535\n" +
		"0 1000 2000 3000 4000 5000 6000 7000 8000 9000 \n" +
		"10000 11000 "

	if got := buf.String(); got != want {
		t.Errorf("output mismatch:\nexpected %q\ngot      %q", want, got)
	}
}

// TestWriteSampleLineBreaks verifies the soft wrap happens exactly every
// ten values regardless of value width.
func TestWriteSampleLineBreaks(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 5, 6, Comment(16))
	if err != nil {
		t.Fatalf("NewWriter: unexpected error: %v", err)
	}
	for i := 0; i < 30; i++ {
		if err := w.WriteSample(65535); err != nil {
			t.Fatalf("WriteSample: unexpected error: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: unexpected error: %v", err)
	}

	lines := strings.Split(buf.String(), "\n")
	// Header occupies the first five lines; then three full value lines
	// and the final terminating newline.
	if len(lines) != 9 {
		t.Fatalf("expected 9 lines, got %d", len(lines))
	}
	for _, line := range lines[5:8] {
		if got := strings.Count(line, "65535"); got != 10 {
			t.Errorf("expected 10 values per line, got %d in %q", got, line)
		}
	}
}

// TestWriteMask checks the P1 bitmap layout for a small mask.
func TestWriteMask(t *testing.T) {
	mask := models.NewMask(2, 3)
	mask.Set(0, 1, 1)
	mask.Set(1, 2, 1)

	var buf bytes.Buffer
	if err := WriteMask(&buf, mask, "boundary"); err != nil {
		t.Fatalf("WriteMask: unexpected error: %v", err)
	}

	want := "P1\n# boundary\n3 2\n0 1 0\n0 0 1\n"
	if got := buf.String(); got != want {
		t.Errorf("output mismatch:\nexpected %q\ngot      %q", want, got)
	}
}
