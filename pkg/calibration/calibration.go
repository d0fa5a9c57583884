// Package calibration converts raw DDSM digitizer samples into normalized
// grey levels. The archive was produced by four different scanners, each with
// its own calibration curve mapping raw grey level to optical density; this
// package applies the appropriate curve and then maps optical density to a
// companded 16-bit grey level so that a given output value corresponds to the
// same optical density regardless of which digitizer produced the image.
package calibration

import (
	"errors"
	"fmt"
	"math"
)

// maxOD is the maximum optical density that maps to an output grey level
// of 65535. A few samples in the archive sit slightly outside the nominal
// calibration domains, which is why each curve clamps its input first.
const maxOD = 4.0

// maxGrey is the largest value representable with 16 bits.
const maxGrey = 65535

// ErrRangeExceeded is returned when a calibrated grey level falls outside
// [0, 65535]. With the documented clamp domains this cannot happen for any
// 16-bit input; Verify checks that exhaustively.
var ErrRangeExceeded = errors.New("calibrated grey level out of range")

// Digitizer identifies one of the four scanners used to digitize the
// archive. Each selects a calibration curve and bit-depth metadata.
type Digitizer int

const (
	// DBA is the DBA scanner (the only one that digitized at 16 bits/pixel).
	DBA Digitizer = iota

	// HowtekMGH is the Howtek scanner operated at MGH.
	HowtekMGH

	// HowtekISMD is the Howtek scanner operated at ISMD.
	HowtekISMD

	// Lumisys is the Lumisys scanner.
	Lumisys
)

// digitizerNames are the names used by the archive case files and accepted
// on the command line.
var digitizerNames = map[Digitizer]string{
	DBA:        "dba",
	HowtekMGH:  "howtek-mgh",
	HowtekISMD: "howtek-ismd",
	Lumisys:    "lumisys",
}

// Digitizers returns all known digitizers in a fixed order.
func Digitizers() []Digitizer {
	return []Digitizer{DBA, HowtekMGH, HowtekISMD, Lumisys}
}

// ParseDigitizer maps a digitizer name to its Digitizer value.
func ParseDigitizer(name string) (Digitizer, error) {
	for d, n := range digitizerNames {
		if n == name {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown digitizer %q (want dba, howtek-mgh, howtek-ismd or lumisys)", name)
}

// String returns the archive name of the digitizer.
func (d Digitizer) String() string {
	if n, ok := digitizerNames[d]; ok {
		return n
	}
	return fmt.Sprintf("digitizer(%d)", int(d))
}

// BitsPerPixel returns the bit depth the scanner operated at. This is
// provenance metadata only; output grey levels always use 16 bits.
func (d Digitizer) BitsPerPixel() int {
	if d == DBA {
		return 16
	}
	return 12
}

// OpticalDensity converts a raw sample to an optical density value using
// the digitizer's calibration curve. Inputs outside the curve's valid
// domain saturate to the nearest bound; the curves produce out-of-range
// densities beyond it.
func (d Digitizer) OpticalDensity(raw uint16) float64 {
	switch d {
	case DBA:
		if raw == 0 {
			return 0
		}
		if raw < 4 {
			raw = 4
		}
		if raw > 64064 {
			raw = 64064
		}
		return (math.Log10(float64(raw)) - 4.80662) / (-1.07553)
	case HowtekMGH:
		if raw > 4006 {
			raw = 4006
		}
		return 3.789 + (-0.00094568)*float64(raw)
	case HowtekISMD:
		if raw > 4003 {
			raw = 4003
		}
		return 3.96604096240593 + (-0.00099055807612)*float64(raw)
	case Lumisys:
		if raw < 61 {
			raw = 61
		}
		if raw > 4097 {
			raw = 4097
		}
		return (float64(raw) - 4096.99) / (-1009.01)
	}
	return 0
}

// NormGreyLevel converts an optical density value to a normalized 16-bit
// grey level. The scanner output is dark-light inverted relative to the
// display convention, so the value is inverted, then quadratically companded
// to give more precision to the tissue grey levels than to the air region.
// The compand squares in full precision before the truncating division;
// changing that order changes output values.
func NormGreyLevel(od float64) (uint16, error) {
	v := int64((maxGrey / maxOD) * od)
	if v > maxGrey {
		return 0, fmt.Errorf("%w: optical density %v", ErrRangeExceeded, od)
	}
	if v < 0 {
		v = 0
	}
	v = maxGrey - v
	v = (v * v) / maxGrey
	return uint16(v), nil
}

// Normalize runs the full calibration pipeline for one raw sample:
// raw grey level to optical density to normalized grey level.
func (d Digitizer) Normalize(raw uint16) (uint16, error) {
	return NormGreyLevel(d.OpticalDensity(raw))
}
