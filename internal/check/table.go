package check

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/eykd/notecheck-go/internal/domain"
)

// TableInput describes one annotation table to check.
type TableInput struct {
	LanguageCode   string
	AnnotationType domain.AnnotationType
	BookID         string
	Filename       string
	Text           string
	Location       string
	Options        domain.Options
}

// TableResult holds the outcome of checking a whole table.
type TableResult struct {
	// Successes are informational summaries, not diagnostics.
	Successes []string
	Notices   []domain.Notice
	Checked   domain.CheckedContent
}

// splitLines splits a document on line breaks, dropping a carriage return
// before each break.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// CheckTable checks every line of an annotation table, then the sequencing of
// chapters, verses and row IDs across rows. Validation always completes for
// any input; an error means a collaborator failed or ctx is done.
func (c *Checker) CheckTable(ctx context.Context, in TableInput) (*TableResult, error) {
	in.Options = in.Options.Normalized()
	loc := domain.Location(in.Location)
	result := &TableResult{}
	var acc domain.Accumulator
	tableTag := domain.Notice{BookID: in.BookID, Filename: in.Filename}
	add := func(n domain.Notice) { acc.Add(n.Tagged(tableTag)) }

	result.Successes = append(result.Successes, fmt.Sprintf("Checking %s %s rows", in.BookID, in.AnnotationType))

	numChapters, ok := 0, false
	if c.books != nil {
		numChapters, ok = c.books.ChaptersInBook(in.BookID)
	}
	if !ok && (c.books == nil || !c.books.IsValidBookID(in.BookID)) {
		add(domain.Notice{
			Priority: 747,
			Message:  "Bad function call: should be given a valid book abbreviation",
			Extract:  in.BookID,
			Location: fmt.Sprintf(" (not '%s')%s", in.BookID, loc),
		})
	}

	lines := splitLines(in.Text)
	seq := newSequence(c.books, in.BookID, numChapters)
	dataLines := 0

	for n, line := range lines {
		lineNumber := n + 1
		if n == 0 {
			if line != domain.HeaderLine {
				add(domain.Notice{
					Priority:   746,
					Message:    "Bad TSV header",
					Details:    fmt.Sprintf("expected '%s'", strings.ReplaceAll(domain.HeaderLine, "\t", ", ")),
					LineNumber: lineNumber,
					Location:   loc,
				})
			}
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		last := n == len(lines)-1
		if !(last && line == "") {
			dataLines++
		}

		fields := domain.SplitFields(line)
		if len(fields) != domain.NumFields {
			// A dangling final newline leaves a harmless empty last line.
			if !last {
				var rowID string
				if len(fields) > 1 {
					rowID = fields[1]
				}
				add(domain.Notice{
					Priority:   988,
					Message:    fmt.Sprintf("Wrong number of tabbed fields (expected %d)", domain.NumFields),
					Details:    fmt.Sprintf("Found %d field%s", len(fields), domain.Plural(len(fields))),
					RowID:      rowID,
					LineNumber: lineNumber,
					Extract:    domain.Extract(line, 0, in.Options.ExtractLength),
					Location:   loc,
				})
			}
			continue
		}

		C, V := domain.SplitReference(fields[0])
		rowID := fields[1]

		rr, err := c.checkRow(ctx, RowInput{
			LanguageCode:   in.LanguageCode,
			AnnotationType: in.AnnotationType,
			Line:           line,
			BookID:         in.BookID,
			C:              C,
			V:              V,
			Location:       in.Location,
			Options:        in.Options,
		})
		if err != nil {
			return nil, fmt.Errorf("checking line %d: %w", lineNumber, err)
		}
		lineTag := domain.Notice{Filename: in.Filename, LineNumber: lineNumber}
		for _, rn := range rr.Notices {
			if rn.Extra != "" {
				acc.Add(rn)
				continue
			}
			acc.Add(rn.Tagged(lineTag))
		}
		acc.Merge(rr.Checked)

		for _, sn := range seq.advance(C, V, rowID, loc) {
			sn.LineNumber = lineNumber
			add(sn)
		}
	}

	result.Notices = acc.Notices()
	result.Checked = acc.Checked()
	result.Successes = append(result.Successes,
		fmt.Sprintf("Checked all %d data line%s%s.", dataLines, domain.Plural(dataLines), loc))
	if count := len(result.Notices); count > 0 {
		result.Successes = append(result.Successes,
			fmt.Sprintf("Table check finished with %d notice%s", count, domain.Plural(count)))
	} else {
		result.Successes = append(result.Successes, "No errors or warnings found by table check")
	}

	c.logger.Info("checked table",
		zap.String("bookID", in.BookID),
		zap.String("filename", in.Filename),
		zap.Int("lines", dataLines),
		zap.Int("notices", len(result.Notices)),
	)
	return result, nil
}
