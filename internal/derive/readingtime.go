// Package derive computes display-ready values from fetched content and
// market data. Every function here is pure.
package derive

import (
	"strings"
	"unicode/utf8"

	"sitedata/internal/content"
)

const (
	avgWordLength = 6   // letters
	avgReadSpeed  = 250 // words per minute
)

// ReadingTime estimates the minutes needed to read doc. Only paragraph text
// counts, measured as the total length of its space-delimited words. A
// document without paragraph text takes 0 minutes.
func ReadingTime(doc content.Document) int {
	chars := 0
	for _, p := range doc.Paragraphs() {
		chars += paragraphChars(p)
	}
	if chars == 0 {
		return 0
	}

	// words = chars / avgWordLength; minutes = ceil(words / avgReadSpeed)
	perMinute := avgReadSpeed * avgWordLength
	return (chars + perMinute - 1) / perMinute
}

func paragraphChars(p content.Node) int {
	n := 0
	for _, child := range p.Content {
		for _, word := range strings.Split(child.Value, " ") {
			n += utf8.RuneCountInString(word)
		}
	}
	return n
}
