package calibration

import (
	"errors"
	"testing"
)

// TestNormalizeKnownValues checks exact normalized grey levels for raw
// samples computed from the published calibration formulas, including the
// saturation bounds of each curve.
func TestNormalizeKnownValues(t *testing.T) {
	tests := []struct {
		digitizer Digitizer
		raw       uint16
		want      uint16
	}{
		// DBA: raw=0 maps to od=0 directly, raw<4 saturates to 4.
		{DBA, 0, 65535},
		{DBA, 3, 33},
		{DBA, 4, 33},
		{DBA, 1000, 22051},
		{DBA, 64064, 65535},
		{DBA, 65535, 65535},

		// Howtek MGH: linear curve, saturates above 4006.
		{HowtekMGH, 0, 182},
		{HowtekMGH, 1234, 7777},
		{HowtekMGH, 2000, 18104},
		{HowtekMGH, 4006, 65517},

		// Howtek ISMD: linear curve, saturates above 4003.
		{HowtekISMD, 0, 4},
		{HowtekISMD, 4003, 65509},

		// Lumisys: saturates below 61 and above 4097.
		{Lumisys, 0, 0},
		{Lumisys, 61, 0},
		{Lumisys, 2048, 15885},
		{Lumisys, 4097, 65535},
		{Lumisys, 65535, 65535},
	}

	for _, tc := range tests {
		got, err := tc.digitizer.Normalize(tc.raw)
		if err != nil {
			t.Errorf("%s raw=%d: unexpected error: %v", tc.digitizer, tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s raw=%d: expected %d, got %d", tc.digitizer, tc.raw, got, tc.want)
		}
	}
}

// TestVerify runs the exhaustive range-safety check: for every digitizer
// and every 16-bit input, the normalized grey level must be producible
// without a range error.
func TestVerify(t *testing.T) {
	if err := Verify(); err != nil {
		t.Errorf("calibration self-check failed: %v", err)
	}
}

// TestNormGreyLevelRange verifies that an optical density above the
// supported maximum is rejected rather than wrapped.
func TestNormGreyLevelRange(t *testing.T) {
	if _, err := NormGreyLevel(4.1); !errors.Is(err, ErrRangeExceeded) {
		t.Errorf("expected ErrRangeExceeded for od=4.1, got %v", err)
	}
	if v, err := NormGreyLevel(0); err != nil || v != 65535 {
		t.Errorf("expected 65535 for od=0, got %d (err=%v)", v, err)
	}
	if v, err := NormGreyLevel(4.0); err != nil || v != 0 {
		t.Errorf("expected 0 for od=4.0, got %d (err=%v)", v, err)
	}
}

// TestCurveRange checks each curve stays inside the density range the
// normalizer can represent.
func TestCurveRange(t *testing.T) {
	for _, d := range Digitizers() {
		min, max := d.CurveRange()
		if max >= 4.0002 {
			t.Errorf("%s: curve maximum %v exceeds representable density", d, max)
		}
		if min < -0.001 {
			t.Errorf("%s: curve minimum %v unexpectedly negative", d, min)
		}
	}
}

// TestParseDigitizer checks name round-tripping and rejection of unknown
// names.
func TestParseDigitizer(t *testing.T) {
	for _, d := range Digitizers() {
		got, err := ParseDigitizer(d.String())
		if err != nil {
			t.Errorf("ParseDigitizer(%q): unexpected error: %v", d.String(), err)
		}
		if got != d {
			t.Errorf("ParseDigitizer(%q): expected %v, got %v", d.String(), d, got)
		}
	}

	if _, err := ParseDigitizer("agfa"); err == nil {
		t.Errorf("expected error for unknown digitizer name")
	}
}

// TestBitsPerPixel checks the provenance bit depth for each scanner.
func TestBitsPerPixel(t *testing.T) {
	for _, d := range Digitizers() {
		want := 12
		if d == DBA {
			want = 16
		}
		if got := d.BitsPerPixel(); got != want {
			t.Errorf("%s: expected %d bits/pixel, got %d", d, want, got)
		}
	}
}
