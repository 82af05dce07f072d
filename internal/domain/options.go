package domain

import (
	"strings"
	"unicode/utf8"
)

// DefaultExtractLength is the snippet length used when Options.ExtractLength
// is not positive.
const DefaultExtractLength = 10

// Options tunes a row or table check.
type Options struct {
	// ExtractLength controls how much surrounding text a notice extract
	// includes. Zero or negative means DefaultExtractLength.
	ExtractLength int
	// DisableLinkFetching skips the reference-article existence and
	// outbound-link lookups.
	DisableLinkFetching bool
}

// Normalized returns a copy of o with defaults applied.
func (o Options) Normalized() Options {
	if o.ExtractLength <= 0 {
		o.ExtractLength = DefaultExtractLength
	}
	return o
}

// Location prefixes a non-empty location with a space so it reads as a
// suffix of a message ("... in TIT").
func Location(loc string) string {
	if loc != "" && loc[0] != ' ' {
		return " " + loc
	}
	return loc
}

// IsWhitespace reports whether s is non-empty and consists only of whitespace.
func IsWhitespace(s string) bool {
	return s != "" && strings.TrimSpace(s) == ""
}

// ZeroWidthSpace is the character flagged in SupportReference and Annotation.
const ZeroWidthSpace = "\u200b"

// RuneIndex returns the rune offset of the first instance of substr in s,
// or -1 if substr is not present.
func RuneIndex(s, substr string) int {
	i := strings.Index(s, substr)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(s[:i])
}

// Extract returns a snippet of text centred on rune offset index with about
// length runes, marking truncation with an ellipsis. Spaces are shown as ␣
// and zero-width spaces as ‼ so they are visible in reports.
func Extract(text string, index, length int) string {
	runes := []rune(text)
	half := length / 2
	halfPlus := (length + 1) / 2
	start := index - half
	if start < 0 {
		start = 0
	}
	end := index + halfPlus
	if end > len(runes) {
		end = len(runes)
	}
	if start > end {
		start = end
	}
	var b strings.Builder
	if index > half {
		b.WriteString("…")
	}
	for _, r := range runes[start:end] {
		switch r {
		case ' ':
			b.WriteRune('␣')
		case '\u200b':
			b.WriteRune('‼')
		default:
			b.WriteRune(r)
		}
	}
	if index+halfPlus < len(runes) {
		b.WriteString("…")
	}
	return b.String()
}
