package status

import (
	"errors"
	"fmt"
	"testing"

	"ddsm2pnm/pkg/calibration"
	"ddsm2pnm/pkg/chaincode"
	"ddsm2pnm/pkg/overlay"
	"ddsm2pnm/pkg/rawimage"
)

// TestFromError checks every error kind maps to its own exit code, also
// when wrapped.
func TestFromError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, Success},
		{rawimage.ErrBadDimensions, Range},
		{chaincode.ErrBadDimensions, Range},
		{calibration.ErrRangeExceeded, CalibrationRange},
		{rawimage.ErrSizeMismatch, SizeMismatch},
		{overlay.ErrFormat, Format},
		{chaincode.ErrFormat, Format},
		{chaincode.ErrDimensionMismatch, DimensionMismatch},
		{chaincode.ErrOutOfBounds, OutOfBounds},
		{rawimage.ErrRead, File},
		{errors.New("open failed"), File},
		{fmt.Errorf("sample 12: %w", calibration.ErrRangeExceeded), CalibrationRange},
	}

	for _, tc := range tests {
		if got := FromError(tc.err); got != tc.want {
			t.Errorf("FromError(%v): expected %d, got %d", tc.err, tc.want, got)
		}
	}
}
