package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Sentinel chapter and verse values that are valid without a number.
const (
	FrontChapter = "front"
	IntroVerse   = "intro"
)

// TokenKind classifies a chapter or verse token.
type TokenKind int

const (
	// TokenEmpty is a missing value.
	TokenEmpty TokenKind = iota
	// TokenNumeric is a string of ASCII digits.
	TokenNumeric
	// TokenSentinel is "front" in chapter position or "intro" in verse position.
	TokenSentinel
	// TokenMalformed is anything else.
	TokenMalformed
)

// String returns a lowercase name for the kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEmpty:
		return "empty"
	case TokenNumeric:
		return "numeric"
	case TokenSentinel:
		return "sentinel"
	default:
		return "malformed"
	}
}

// Token is a classified chapter or verse value as found in the document.
type Token struct {
	Text   string
	Kind   TokenKind
	Number int // set only for TokenNumeric
}

var digitsRegex = regexp.MustCompile(`^\d+$`)

// IsNumber reports whether s consists only of ASCII digits.
func IsNumber(s string) bool {
	return digitsRegex.MatchString(s)
}

func classify(text, sentinel string) Token {
	switch {
	case text == "":
		return Token{Text: text, Kind: TokenEmpty}
	case text == sentinel:
		return Token{Text: text, Kind: TokenSentinel}
	case IsNumber(text):
		n, err := strconv.Atoi(text)
		if err != nil {
			// Too many digits to fit an int: still numeric, but never in range.
			n = int(^uint(0) >> 1)
		}
		return Token{Text: text, Kind: TokenNumeric, Number: n}
	default:
		return Token{Text: text, Kind: TokenMalformed}
	}
}

// ClassifyChapter classifies a chapter token.
func ClassifyChapter(text string) Token {
	return classify(text, FrontChapter)
}

// ClassifyVerse classifies a verse token.
func ClassifyVerse(text string) Token {
	return classify(text, IntroVerse)
}

// Reference is a parsed "C:V" cell.
type Reference struct {
	Chapter Token
	Verse   Token
}

// SplitReference splits a reference cell on colons and returns the first two
// parts. A cell with no colon has an empty verse; parts after a second colon
// are ignored.
func SplitReference(cell string) (c, v string) {
	parts := strings.Split(cell, ":")
	c = parts[0]
	if len(parts) > 1 {
		v = parts[1]
	}
	return c, v
}

// ParseReference splits a reference cell and classifies each side.
func ParseReference(cell string) Reference {
	c, v := SplitReference(cell)
	return Reference{
		Chapter: ClassifyChapter(c),
		Verse:   ClassifyVerse(v),
	}
}
