// Package measure provides the injectable text-measurement capability the
// text compiler's shrink-to-fit heuristic depends on. Production uses a
// width-per-glyph x character-count approximation; tests substitute a
// deterministic measurer.
package measure

import (
	"math"
	"strings"
)

// Metrics is the estimated shape of a run of (possibly wrapped) text.
type Metrics struct {
	Lines      int
	WidthDots  int
	HeightDots int
}

// Measurer estimates how a run of text lays out inside a fixed-width box at
// a given font size, without actually rendering it.
type Measurer interface {
	Estimate(text string, boxWidthDots, fontHeightDots, fontWidthDots int, wrap string, lineSpacingDots int) Metrics
}

// Monospace is the default production measurer: a fixed-advance
// approximation (glyph width ~= 60% of font width), used by the
// shrink-to-fit loop and by word/char wrapping.
type Monospace struct{}

func (Monospace) Estimate(text string, boxWidthDots, fontHeightDots, fontWidthDots int, wrap string, lineSpacingDots int) Metrics {
	if boxWidthDots <= 0 || fontWidthDots <= 0 || fontHeightDots <= 0 {
		return Metrics{}
	}
	charW := charWidth(fontWidthDots)
	lineH := fontHeightDots + lineSpacingDots
	maxChars := maxOf(1, boxWidthDots/charW)

	paragraphs := splitParagraphs(text)
	lines := 0
	for _, p := range paragraphs {
		trimmed := p
		if trimmed == "" {
			lines++
			continue
		}
		switch wrap {
		case "none":
			lines++
		case "char":
			lines += int(math.Ceil(float64(len([]rune(trimmed))) / float64(maxChars)))
		default: // "word"
			lines += wordWrapLineCount(trimmed, maxChars)
		}
	}

	width := minOf(boxWidthDots, maxChars*charW)
	height := lines * lineH
	return Metrics{Lines: lines, WidthDots: width, HeightDots: height}
}

func charWidth(fontWidthDots int) int {
	return maxOf(1, int(float64(fontWidthDots)*0.6))
}

func splitParagraphs(text string) []string {
	normalized := strings.ReplaceAll(strings.ReplaceAll(text, "\r\n", "\n"), "\r", "\n")
	return strings.Split(normalized, "\n")
}

func wordWrapLineCount(text string, maxChars int) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 1
	}
	lines := 1
	current := 0
	for _, w := range words {
		wlen := len([]rune(w))
		if current == 0 {
			current = wlen
			continue
		}
		if current+1+wlen <= maxChars {
			current += 1 + wlen
		} else {
			lines++
			current = wlen
		}
	}
	return lines
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minOf(a, b int) int {
	if a < b {
		return a
	}
	return b
}
