// Package status maps the error kinds of the ddsm2pnm libraries to process
// exit codes, so calling scripts can branch on the failure kind. The
// original archive tooling used one exit code per error kind; that contract
// is kept here with a closed code set.
package status

import (
	"errors"

	"ddsm2pnm/pkg/calibration"
	"ddsm2pnm/pkg/chaincode"
	"ddsm2pnm/pkg/overlay"
	"ddsm2pnm/pkg/pnm"
	"ddsm2pnm/pkg/rawimage"
)

// Exit codes, one per error kind.
const (
	Success           = 0
	Syntax            = 1
	Range             = 2
	File              = 3
	CalibrationRange  = 4
	SizeMismatch      = 5
	Format            = 6
	DimensionMismatch = 7
	OutOfBounds       = 8
)

// FromError returns the exit code for an error. Errors that are not one of
// the typed kinds are treated as file errors, since the only untyped
// failures the tools produce are I/O faults.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, rawimage.ErrBadDimensions),
		errors.Is(err, chaincode.ErrBadDimensions):
		return Range
	case errors.Is(err, calibration.ErrRangeExceeded):
		return CalibrationRange
	case errors.Is(err, rawimage.ErrSizeMismatch):
		return SizeMismatch
	case errors.Is(err, overlay.ErrFormat),
		errors.Is(err, chaincode.ErrFormat):
		return Format
	case errors.Is(err, chaincode.ErrDimensionMismatch):
		return DimensionMismatch
	case errors.Is(err, chaincode.ErrOutOfBounds):
		return OutOfBounds
	case errors.Is(err, rawimage.ErrRead),
		errors.Is(err, pnm.ErrWrite):
		return File
	default:
		return File
	}
}
