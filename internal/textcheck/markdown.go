package textcheck

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"github.com/eykd/notecheck-go/internal/domain"
)

// lineBreakRe matches the two encodings of a line break inside a TSV cell.
var lineBreakRe = regexp.MustCompile(`<br>|\\n`)

// SplitLines splits a markdown cell into its lines.
func SplitLines(text string) []string {
	return lineBreakRe.Split(text, -1)
}

// CheckMarkdownText lints each line of a markdown cell, then the structure
// of the cell as a whole.
func (c *Checker) CheckMarkdownText(fieldName, text, location string, opts domain.Options) []domain.Notice {
	if text == "" {
		return nil
	}
	opts = opts.Normalized()
	lines := SplitLines(text)

	var notices []domain.Notice
	for i, line := range lines {
		for _, n := range c.CheckTextField(FieldTypeMarkdown, fieldName, line, true, location, opts) {
			if len(lines) > 1 {
				n.Details = joinDetails(n.Details, fmt.Sprintf("line %d", i+1))
			}
			notices = append(notices, n)
		}
	}
	notices = append(notices, c.checkStructure(fieldName, strings.Join(lines, "\n"), location, opts)...)

	c.logger.Debug("checked markdown",
		zap.String("field", fieldName),
		zap.Int("lines", len(lines)),
		zap.Int("notices", len(notices)),
	)
	return notices
}

func joinDetails(details, more string) string {
	if details == "" {
		return more
	}
	return details + " " + more
}

// checkStructure parses doc as markdown and flags heading jumps and empty
// link destinations.
func (c *Checker) checkStructure(fieldName, doc, location string, opts domain.Options) []domain.Notice {
	src := []byte(doc)
	root := c.md.Parser().Parse(gmtext.NewReader(src))

	var notices []domain.Notice
	lastLevel := 0
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *ast.Heading:
			if lastLevel > 0 && n.Level > lastLevel+1 {
				notices = append(notices, domain.Notice{
					Priority:  282,
					Message:   "Markdown header levels should only increase by one",
					Details:   fmt.Sprintf("'%s' after '%s'", strings.Repeat("#", n.Level), strings.Repeat("#", lastLevel)),
					FieldName: fieldName,
					Location:  location,
				})
			}
			lastLevel = n.Level
		case *ast.Link:
			if len(n.Destination) == 0 {
				notices = append(notices, domain.Notice{
					Priority:  281,
					Message:   "Empty markdown link destination",
					FieldName: fieldName,
					Extract:   domain.Extract(PlainText(n, src), 0, opts.ExtractLength),
					Location:  location,
				})
			}
		}
		return ast.WalkContinue, nil
	})
	return notices
}

// PlainText returns the concatenated text content beneath n.
func PlainText(n ast.Node, src []byte) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if t, ok := child.(*ast.Text); ok {
			b.Write(t.Segment.Value(src))
			continue
		}
		b.WriteString(PlainText(child, src))
	}
	return b.String()
}
