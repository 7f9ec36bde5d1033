// Package zpl is the low-level ZPL II emitter: one method per field command
// the compiler is allowed to use (§6.5), plus the field-data hex-escaping
// contract and the QR/DataMatrix exact module-count derivation.
package zpl

import (
	"fmt"
	"strings"
)

// Options configures label-level directives.
type Options struct {
	EmitCI28 bool
}

// Builder accumulates ZPL lines and renders them as one program string.
// It has no validation logic of its own — by the time the compiler calls
// it, every geometry value is already a valid dot integer.
type Builder struct {
	lines    []string
	options  Options
	originX  int
	originY  int
}

// New returns an empty Builder.
func New(options Options) *Builder {
	return &Builder{options: options}
}

// StartLabel opens the format and sets print width, length, and home
// offset, emitting CI28 right after if configured.
func (b *Builder) StartLabel(widthDots, heightDots, originX, originY int) {
	b.originX = originX
	b.originY = originY
	b.lines = append(b.lines,
		"^XA",
		fmt.Sprintf("^PW%d", widthDots),
		fmt.Sprintf("^LL%d", heightDots),
		fmt.Sprintf("^LH%d,%d", originX, originY),
	)
	if b.options.EmitCI28 {
		b.lines = append(b.lines, "^CI28")
	}
}

// EndLabel closes the format.
func (b *Builder) EndLabel() {
	b.lines = append(b.lines, "^XZ")
}

// FieldOrigin sets the next field's top-left in dots, relative to the
// label home offset.
func (b *Builder) FieldOrigin(x, y int) {
	b.lines = append(b.lines, fmt.Sprintf("^FO%d,%d", x, y))
}

// FieldSeparator terminates the current field.
func (b *Builder) FieldSeparator() {
	b.lines = append(b.lines, "^FS")
}

// FontA0 selects the scalable font at the given dot height/width.
func (b *Builder) FontA0(height, width int) {
	b.lines = append(b.lines, fmt.Sprintf("^A0N,%d,%d", height, width))
}

// FieldBlock wraps the following field-data into a block of the given
// width with justification and line spacing.
func (b *Builder) FieldBlock(width, maxLines, lineSpacing int, justification string, hangingIndent int) {
	b.lines = append(b.lines, fmt.Sprintf("^FB%d,%d,%d,%s,%d", width, maxLines, lineSpacing, justification, hangingIndent))
}

// FieldHex enables hex-escape decoding in the following field-data, using
// indicator as the escape marker ("_" if empty).
func (b *Builder) FieldHex(indicator string) {
	if indicator == "" || indicator == "_" {
		b.lines = append(b.lines, "^FH")
		return
	}
	b.lines = append(b.lines, "^FH"+indicator)
}

// FieldData emits the field body text (already hex-escaped if needed).
func (b *Builder) FieldData(data string) {
	b.lines = append(b.lines, "^FD"+data)
}

// QRCode emits a QR Code field at the given model and magnification.
func (b *Builder) QRCode(model, magnification int) {
	b.lines = append(b.lines, fmt.Sprintf("^BQN,%d,%d", model, magnification))
}

// DataMatrix emits a DataMatrix field.
func (b *Builder) DataMatrix(moduleSize, quality, columns, rows, formatID int, escapeChar string) {
	esc := escapeChar
	if esc == "" {
		esc = "_"
	}
	b.lines = append(b.lines, fmt.Sprintf("^BXN,%d,%d,%d,%d,%d,%s", moduleSize, quality, columns, rows, formatID, esc))
}

// GraphicBox emits a rectangle (used for lines, borders, and debug guides).
func (b *Builder) GraphicBox(width, height, thickness int, color string, rounding int) {
	if color == "" {
		color = "B"
	}
	b.lines = append(b.lines, fmt.Sprintf("^GB%d,%d,%d,%s,%d", width, height, thickness, color, rounding))
}

// GraphicField emits a packed 1-bit bitmap.
func (b *Builder) GraphicField(totalBytes, bytesPerRow int, data string) {
	b.lines = append(b.lines, fmt.Sprintf("^GFA,%d,%d,%d,%s", totalBytes, totalBytes, bytesPerRow, data))
}

// Build renders the accumulated lines as one newline-terminated program.
func (b *Builder) Build() string {
	var sb strings.Builder
	for _, line := range b.lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
