// Package textcheck lints the free-text and markdown fields of annotation
// rows: spacing, Unicode normalization, stray links, paired punctuation and
// markdown structure.
package textcheck

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/eykd/notecheck-go/internal/domain"
)

// Field types accepted by CheckTextField.
const (
	FieldTypeRaw      = "raw"
	FieldTypeMarkdown = "markdown"
)

// Checker lints text fields. It is safe for concurrent use.
type Checker struct {
	md     goldmark.Markdown
	logger *zap.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		md:     goldmark.New(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var linkRe = regexp.MustCompile(`https?://|www\.|rc://`)

// pairs are punctuation characters that must balance within one field.
var pairs = [][2]string{
	{"(", ")"},
	{"[", "]"},
	{"{", "}"},
	{"“", "”"},
	{"«", "»"},
}

// runeOffset converts a byte offset in s to a character index.
func runeOffset(s string, byteIndex int) int {
	return utf8.RuneCountInString(s[:byteIndex])
}

// CheckTextField lints one line of text. fieldType is FieldTypeRaw or
// FieldTypeMarkdown; markdown lines may be indented and may end in a hard
// line break.
func (c *Checker) CheckTextField(fieldType, fieldName, text string, allowLinks bool, location string, opts domain.Options) []domain.Notice {
	if text == "" {
		return nil
	}
	opts = opts.Normalized()
	markdown := fieldType == FieldTypeMarkdown

	var notices []domain.Notice
	add := func(priority int, message, details string, index int) {
		n := domain.Notice{
			Priority:  priority,
			Message:   message,
			Details:   details,
			FieldName: fieldName,
			Location:  location,
		}
		if index >= 0 {
			n.CharacterIndex = domain.At(index)
			n.Extract = domain.Extract(text, index, opts.ExtractLength)
		}
		notices = append(notices, n)
	}

	if i := strings.IndexAny(text, "\t\r"); i >= 0 {
		add(562, "Unexpected tab or carriage return character", "", runeOffset(text, i))
	}

	// body excludes markdown indentation and a trailing hard break.
	body, offset := text, 0
	if markdown {
		trimmed := strings.TrimLeft(body, " ")
		offset = len(body) - len(trimmed)
		body = trimmed
		if strings.HasSuffix(body, "  ") && !strings.HasSuffix(body, "   ") {
			body = body[:len(body)-2]
		}
	} else if strings.HasPrefix(text, " ") {
		add(110, "Unexpected leading space", "", 0)
	}
	if strings.HasSuffix(body, " ") {
		add(95, "Unexpected trailing space(s)", "", runeOffset(text, offset+len(body)-1))
	}
	if i := strings.Index(body, "  "); i >= 0 {
		add(124, "Unexpected double spaces", "", runeOffset(text, offset+i))
	}

	if !norm.NFC.IsNormalString(text) {
		add(104, "String is not in Unicode NFC form", "", -1)
	}
	if !allowLinks {
		if loc := linkRe.FindStringIndex(text); loc != nil {
			add(765, "Unexpected link", "", runeOffset(text, loc[0]))
		}
	}

	if i := strings.Index(text, "… "); i >= 0 {
		add(178, "Unexpected space after … character", "", runeOffset(text, i))
	}
	if i := strings.Index(text, " …"); i >= 0 {
		add(191, "Unexpected … character after space", "", runeOffset(text, i))
	}

	for _, p := range pairs {
		open, closing := strings.Count(text, p[0]), strings.Count(text, p[1])
		if open == closing {
			continue
		}
		i := strings.Index(text, p[1])
		if open > closing {
			i = strings.LastIndex(text, p[0])
		}
		add(462, fmt.Sprintf("Mismatched %s%s characters", p[0], p[1]),
			fmt.Sprintf("left=%d, right=%d", open, closing), runeOffset(text, i))
	}
	return notices
}
