package calibration

import (
	"fmt"
	"math"
)

// Verify exhaustively checks every digitizer's calibration over the full
// 16-bit input domain and reports the first input whose normalized grey
// level cannot be produced. The archive tooling historically ran this check
// on every invocation; it is exposed here as an explicit conformance routine
// so callers (and tests) decide when to pay for it.
func Verify() error {
	for _, d := range Digitizers() {
		for raw := 0; raw <= maxGrey; raw++ {
			if _, err := d.Normalize(uint16(raw)); err != nil {
				return fmt.Errorf("digitizer %s: raw value %d: %v", d, raw, err)
			}
		}
	}
	return nil
}

// CurveRange returns the smallest and largest optical density the
// digitizer's calibration curve can produce over the full 16-bit input
// domain. Useful when sanity-checking a curve against its published
// domain.
func (d Digitizer) CurveRange() (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for raw := 0; raw <= maxGrey; raw++ {
		od := d.OpticalDensity(uint16(raw))
		if od < min {
			min = od
		}
		if od > max {
			max = od
		}
	}
	return min, max
}
