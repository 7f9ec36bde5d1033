package zpl

import "fmt"

// qrCapacityCodewordsLMQH is the per-version total data-codeword capacity
// for error correction levels L, M, Q, H (indices 0-3), for QR versions
// 1-40 (index = version-1).
var qrCapacityCodewordsLMQH = [40][4]int{
	{19, 16, 13, 9}, {34, 28, 22, 16}, {55, 44, 34, 26}, {80, 64, 48, 36},
	{108, 86, 62, 46}, {136, 108, 76, 60}, {156, 124, 88, 66}, {194, 154, 110, 86},
	{232, 182, 132, 100}, {274, 216, 154, 122}, {324, 254, 180, 140}, {370, 290, 206, 158},
	{428, 334, 244, 180}, {461, 365, 261, 197}, {523, 415, 295, 223}, {589, 453, 325, 253},
	{647, 507, 367, 283}, {721, 563, 397, 313}, {795, 627, 445, 341}, {861, 669, 485, 385},
	{932, 714, 512, 406}, {1006, 782, 568, 442}, {1094, 860, 614, 464}, {1174, 914, 664, 514},
	{1276, 1000, 718, 538}, {1370, 1062, 754, 596}, {1468, 1128, 808, 628}, {1531, 1193, 871, 661},
	{1631, 1267, 911, 701}, {1735, 1373, 985, 745}, {1843, 1455, 1033, 793}, {1955, 1541, 1115, 845},
	{2071, 1631, 1171, 901}, {2191, 1725, 1231, 961}, {2306, 1812, 1286, 986}, {2434, 1914, 1354, 1054},
	{2566, 1992, 1426, 1096}, {2702, 2102, 1502, 1142}, {2812, 2216, 1582, 1222}, {2956, 2334, 1666, 1276},
}

// qrForcedTopModules is blank vertical space the printer's ^BQ firmware
// reserves above the visible QR square; it counts toward the symbol's
// total footprint for box-fitting and alignment but carries no ink.
const qrForcedTopModules = 5

// QRForcedTopDots is qrForcedTopModules scaled to the given magnification.
func QRForcedTopDots(magnification int) int {
	return qrForcedTopModules * magnification
}

func qrEccIndex(ecc string) int {
	switch ecc {
	case "L":
		return 0
	case "M":
		return 1
	case "Q":
		return 2
	case "H":
		return 3
	default:
		return 1
	}
}

const qrAlphanumSet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// qrModeForData classifies data the way the printer's own QR encoder would,
// to size the length-indicator field correctly.
func qrModeForData(data string) string {
	if data == "" {
		return "numeric"
	}
	allDigit := true
	for _, r := range data {
		if r < '0' || r > '9' {
			allDigit = false
			break
		}
	}
	if allDigit {
		return "numeric"
	}
	allAlnum := true
	for _, r := range data {
		if !containsRune(qrAlphanumSet, r) {
			allAlnum = false
			break
		}
	}
	if allAlnum {
		return "alphanumeric"
	}
	return "byte"
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func qrLengthBits(mode string, version int) int {
	switch mode {
	case "numeric":
		switch {
		case version < 10:
			return 10
		case version < 27:
			return 12
		default:
			return 14
		}
	case "alphanumeric":
		switch {
		case version < 10:
			return 9
		case version < 27:
			return 11
		default:
			return 13
		}
	default: // byte
		if version < 10 {
			return 8
		}
		return 16
	}
}

func qrDataBits(mode string, length int) int {
	switch mode {
	case "numeric":
		whole, rem := length/3, length%3
		extra := 0
		switch rem {
		case 1:
			extra = 4
		case 2:
			extra = 7
		}
		return whole*10 + extra
	case "alphanumeric":
		whole, rem := length/2, length%2
		extra := 0
		if rem == 1 {
			extra = 6
		}
		return whole*11 + extra
	default:
		return length * 8
	}
}

func qrRequiredBits(mode string, length, version int) int {
	return 4 + qrLengthBits(mode, version) + qrDataBits(mode, length)
}

// QRVersionForData selects the smallest QR version (1-40) that can hold
// data at the given ECC level, returning the chosen version and the mode
// the printer's own encoder would use.
func QRVersionForData(data string, ecc string) (version int, mode string, err error) {
	length := len(data)
	mode = qrModeForData(data)
	eccIdx := qrEccIndex(ecc)
	for v := 1; v <= 40; v++ {
		dataBits := qrCapacityCodewordsLMQH[v-1][eccIdx] * 8
		if qrRequiredBits(mode, length, v) <= dataBits {
			return v, mode, nil
		}
	}
	return 0, mode, fmt.Errorf("zpl: data too large for QR (len=%d, ecc=%s, mode=%s)", length, ecc, mode)
}

// QRModulesPerSide returns the module dimension (width == height) of a QR
// symbol at the given version.
func QRModulesPerSide(version int) int {
	return 4*version + 17
}

// QRMaxMagnificationForBox searches magnification 10 down to 1 and returns
// the largest value whose full symbol footprint fits within innerW x innerH,
// or 0 if even magnification 1 does not fit. The footprint's width is
// modules * magnification; its height adds qrForcedTopModules, since that
// blank band occupies real box space even though it prints no ink.
func QRMaxMagnificationForBox(modules, innerW, innerH int) int {
	for m := 10; m >= 1; m-- {
		if modules*m <= innerW && (modules+qrForcedTopModules)*m <= innerH {
			return m
		}
	}
	return 0
}

// QRDefaultMagnification is the DPI-based default used when size_mode=fixed
// and the template does not specify a magnification (spec.md §4.5 table,
// which takes precedence over the original implementation's table).
func QRDefaultMagnification(dpi int) int {
	switch {
	case dpi <= 203:
		return 3
	case dpi <= 300:
		return 4
	default:
		return 6
	}
}
