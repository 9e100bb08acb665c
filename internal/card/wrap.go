package card

import (
	"strings"

	"golang.org/x/image/font"
)

// Wrap greedily packs words into lines no wider than maxWidth. A word wider
// than maxWidth is broken between runes. Empty text yields no lines.
func Wrap(face font.Face, text string, maxWidth int) []string {
	var lines []string
	line := ""
	for _, w := range strings.Fields(text) {
		if textWidth(face, w) > maxWidth {
			if line != "" {
				lines = append(lines, line)
			}
			pieces := breakWord(face, w, maxWidth)
			lines = append(lines, pieces[:len(pieces)-1]...)
			line = pieces[len(pieces)-1]
			continue
		}
		candidate := w
		if line != "" {
			candidate = line + " " + w
		}
		if line != "" && textWidth(face, candidate) > maxWidth {
			lines = append(lines, line)
			line = w
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// breakWord splits w into runs no wider than maxWidth. A single rune wider
// than maxWidth still gets a run of its own.
func breakWord(face font.Face, w string, maxWidth int) []string {
	var pieces []string
	piece := ""
	for _, r := range w {
		next := piece + string(r)
		if piece != "" && textWidth(face, next) > maxWidth {
			pieces = append(pieces, piece)
			next = string(r)
		}
		piece = next
	}
	return append(pieces, piece)
}

func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}
