package measure

import "strings"

// WrapLines splits text into the actual lines the Monospace approximation
// would produce, for callers (fit=truncate, fit=wrap) that need real line
// strings rather than just a count.
func WrapLines(text string, boxWidthDots, fontWidthDots int, wrap string) []string {
	if boxWidthDots <= 0 || fontWidthDots <= 0 {
		return []string{text}
	}
	charW := charWidth(fontWidthDots)
	maxChars := maxOf(1, boxWidthDots/charW)

	paragraphs := splitParagraphs(text)
	var lines []string
	for _, p := range paragraphs {
		if p == "" {
			lines = append(lines, "")
			continue
		}
		switch wrap {
		case "none":
			lines = append(lines, p)
		case "char":
			lines = append(lines, wrapChar(p, maxChars)...)
		default:
			lines = append(lines, wrapWord(p, maxChars)...)
		}
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func wrapWord(text string, maxChars int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if len([]rune(candidate)) <= maxChars {
			current = candidate
		} else {
			lines = append(lines, current)
			current = w
		}
	}
	lines = append(lines, current)
	return lines
}

// wrapChar hard-wraps at maxChars runes, hyphenating at an alphanumeric
// boundary when the break would otherwise split a word and both sides of
// the hyphen would have at least two characters.
func wrapChar(text string, maxChars int) []string {
	remaining := []rune(text)
	var lines []string
	for len(remaining) > 0 {
		if maxChars >= len(remaining) {
			lines = append(lines, string(remaining))
			break
		}
		line := remaining[:maxChars]
		next := remaining[maxChars]
		if shouldHyphenate(line[len(line)-1], next) && maxChars > 2 {
			prefix := remaining[:maxChars-1]
			suffixLen := len(remaining) - (maxChars - 1)
			if isAlnum(prefix) && len(prefix) >= 2 && suffixLen >= 2 {
				lines = append(lines, string(prefix)+"-")
				remaining = remaining[maxChars-1:]
				continue
			}
		}
		lines = append(lines, string(line))
		remaining = remaining[maxChars:]
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return lines
}

func shouldHyphenate(prev, next rune) bool {
	if isSpace(prev) || isSpace(next) {
		return false
	}
	return isAlnumRune(prev) && isAlnumRune(next)
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }

func isAlnumRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isAlnum(rs []rune) bool {
	for _, r := range rs {
		if !isAlnumRune(r) {
			return false
		}
	}
	return len(rs) > 0
}
