package zpl

import "fmt"

// EncodeFieldData hex-escapes text for safe inclusion in a ^FD field body.
// ASCII bytes in [0x20, 0x7E] pass through unchanged except '^' (0x5E),
// '~' (0x7E), and the hex indicator character itself, which ZPL would
// otherwise interpret as control characters; everything else (including
// all non-ASCII bytes) is escaped as "{indicator}{byte:02X}". The second
// return value reports whether any escaping occurred, so the caller knows
// whether a ^FH directive is required before the ^FD.
func EncodeFieldData(text string, hexIndicator byte) (needsHex bool, encoded string) {
	var out []byte
	for i := 0; i < len(text); i++ {
		b := text[i]
		switch {
		case b == '^' || b == '~' || b == hexIndicator:
			needsHex = true
			out = append(out, hexIndicator)
			out = append(out, []byte(fmt.Sprintf("%02X", b))...)
		case b >= 0x20 && b <= 0x7E:
			out = append(out, b)
		default:
			needsHex = true
			out = append(out, hexIndicator)
			out = append(out, []byte(fmt.Sprintf("%02X", b))...)
		}
	}
	return needsHex, string(out)
}
