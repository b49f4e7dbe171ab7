package quran

import (
	"strings"
	"unicode/utf8"
)

// WrapText breaks text on whitespace so no line exceeds maxWidth runes,
// except single words longer than the limit.
func WrapText(text string, maxWidth int) string {
	var sb strings.Builder
	lineLength := 0

	for _, word := range strings.Fields(text) {
		wordLength := utf8.RuneCountInString(word)

		if lineLength > 0 && lineLength+1+wordLength > maxWidth {
			sb.WriteByte('\n')
			lineLength = 0
		} else if lineLength > 0 {
			sb.WriteByte(' ')
			lineLength++
		}

		sb.WriteString(word)
		lineLength += wordLength
	}

	return sb.String()
}
