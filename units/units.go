// Package units converts between millimetres and printer dots.
package units

import (
	"fmt"
	"math"
)

const mmPerInch = 25.4

// MMToDots converts a millimetre quantity to dots at the given DPI, rounding
// half away from zero (floor(value + 0.5), matching ZPL's own dot grid).
func MMToDots(mm float64, dpi int) (int, error) {
	if mm < 0 {
		return 0, fmt.Errorf("units: mm must be >= 0, got %g", mm)
	}
	if dpi <= 0 {
		return 0, fmt.Errorf("units: dpi must be > 0, got %d", dpi)
	}
	value := (mm / mmPerInch) * float64(dpi)
	return int(math.Floor(value + 0.5)), nil
}

// MustMMToDots panics on invalid input; used where the caller has already
// validated mm/dpi and an error here would indicate a programmer mistake.
func MustMMToDots(mm float64, dpi int) int {
	d, err := MMToDots(mm, dpi)
	if err != nil {
		panic(err)
	}
	return d
}

// DotsToMM converts dots back to millimetres at the given DPI.
func DotsToMM(dots int, dpi int) (float64, error) {
	if dots < 0 {
		return 0, fmt.Errorf("units: dots must be >= 0, got %d", dots)
	}
	if dpi <= 0 {
		return 0, fmt.Errorf("units: dpi must be > 0, got %d", dpi)
	}
	return (float64(dots) / float64(dpi)) * mmPerInch, nil
}

// ClampInt restricts value to the closed interval [lo, hi].
func ClampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
