package check

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/eykd/notecheck-go/internal/domain"
	"github.com/eykd/notecheck-go/internal/rules"
)

// RowInput describes one row to check.
type RowInput struct {
	LanguageCode   string
	AnnotationType domain.AnnotationType
	Line           string
	BookID         string
	// C and V are the chapter and verse the caller expects this row to have.
	C        string
	V        string
	Location string
	Options  domain.Options
}

// RowResult holds the notices for one row and any external content scanned
// while checking it.
type RowResult struct {
	Notices []domain.Notice
	Checked domain.CheckedContent
}

// CheckRow checks one annotation row in isolation. An error is returned only
// when a collaborator fails or ctx is done; every problem with the row itself
// is reported as a notice.
func (c *Checker) CheckRow(ctx context.Context, in RowInput) (*RowResult, error) {
	in.Options = in.Options.Normalized()
	return c.checkRow(ctx, in)
}

// rowCheck carries the state of one CheckRow call.
type rowCheck struct {
	*Checker
	in  RowInput
	loc string
	acc domain.Accumulator
}

// add appends notices with the book and expected chapter/verse filled in.
func (r *rowCheck) add(notices []domain.Notice) {
	r.acc.AddAll(notices, domain.Notice{BookID: r.in.BookID, C: r.in.C, V: r.in.V})
}

// addField appends collaborator notices, filling the row ID and field name
// as well as the book and chapter/verse.
func (r *rowCheck) addField(rowID, fieldName string, notices []domain.Notice) {
	r.acc.AddAll(notices, domain.Notice{BookID: r.in.BookID, C: r.in.C, V: r.in.V, RowID: rowID, FieldName: fieldName})
}

func (c *Checker) checkRow(ctx context.Context, in RowInput) (*RowResult, error) {
	r := &rowCheck{Checker: c, in: in, loc: domain.Location(in.Location)}

	// A reprinted header cannot be told apart from an intentional one.
	if in.Line == domain.HeaderLine {
		return &RowResult{}, nil
	}

	row, fields, err := domain.ParseRow(in.Line)
	if err != nil {
		r.add([]domain.Notice{{
			Priority: 984,
			Message:  fmt.Sprintf("Found wrong number of tabbed fields (expected %d)", domain.NumFields),
			Details:  fmt.Sprintf("Found %d field%s", len(fields), domain.Plural(len(fields))),
			Extract:  domain.Extract(in.Line, 0, in.Options.ExtractLength),
			Location: r.loc,
		}})
		return r.result(), nil
	}

	site := rules.Site{RowID: row.ID, Location: r.loc, ExtractLength: in.Options.ExtractLength}

	r.checkReference(site, row)
	r.add(rules.CheckRowID(site, row.ID))
	// Tags carry no rules yet.

	if err := r.checkSupportReference(ctx, site, row); err != nil {
		return nil, err
	}
	if err := r.checkQuote(ctx, site, row); err != nil {
		return nil, err
	}
	if err := r.checkAnnotation(ctx, site, row); err != nil {
		return nil, err
	}

	c.logger.Debug("checked row",
		zap.String("bookID", in.BookID),
		zap.String("reference", row.Reference),
		zap.String("rowID", row.ID),
		zap.Int("notices", r.acc.Len()),
	)
	return r.result(), nil
}

func (r *rowCheck) result() *RowResult {
	return &RowResult{Notices: r.acc.Notices(), Checked: r.acc.Checked()}
}

func (r *rowCheck) checkReference(site rules.Site, row domain.Row) {
	var book rules.BookInfo
	if r.books != nil {
		book.NumChapters, book.Resolved = r.books.ChaptersInBook(r.in.BookID)
	}
	if !book.Resolved && (r.books == nil || !r.books.IsValidBookID(r.in.BookID)) {
		r.add([]domain.Notice{{
			Priority: 979,
			Message:  "Invalid book identifier passed to row check",
			Extract:  r.in.BookID,
			Location: fmt.Sprintf(" '%s'%s", r.in.BookID, r.loc),
		}})
	}

	ref := domain.ParseReference(row.Reference)
	var chapter rules.ChapterInfo
	if ch := ref.Chapter; book.Resolved && ch.Kind == domain.TokenNumeric && ch.Number >= 1 && ch.Number <= book.NumChapters {
		chapter.NumVerses, chapter.Resolved = r.books.VersesInChapter(r.in.BookID, ch.Number)
	}

	r.add(rules.CheckChapter(site, ref, r.in.C, book))
	r.add(rules.CheckVerse(site, ref, r.in.V, chapter))
}

func (r *rowCheck) checkSupportReference(ctx context.Context, site rules.Site, row domain.Row) error {
	sr := row.SupportReference
	if sr == "" {
		return nil
	}
	r.add(rules.CheckSupportReference(site, r.in.AnnotationType, sr, row.Annotation))
	if domain.IsWhitespace(sr) {
		return nil
	}

	if r.text != nil {
		r.addField(row.ID, domain.FieldSupportReference,
			r.text.CheckTextField("raw", domain.FieldSupportReference, sr, true, r.loc, r.in.Options))
	}
	if r.articles != nil && !r.in.Options.DisableLinkFetching {
		notices, err := r.articles.CheckReferenceArticle(ctx, domain.FieldSupportReference, sr, r.loc, r.in.Options)
		if err != nil {
			return fmt.Errorf("checking reference article %q: %w", sr, err)
		}
		r.addField(row.ID, domain.FieldSupportReference, notices)
	}
	return nil
}

func (r *rowCheck) checkQuote(ctx context.Context, site rules.Site, row domain.Row) error {
	if row.Quote != "" {
		if r.text != nil {
			r.addField(row.ID, domain.FieldQuote,
				r.text.CheckTextField("raw", domain.FieldQuote, row.Quote, false, r.loc, r.in.Options))
		}
		if r.quotes != nil && row.Occurrence != "" {
			notices, err := r.quotes.CheckOriginalLanguageQuote(ctx, domain.QuoteQuery{
				LanguageCode: r.in.LanguageCode,
				FieldName:    domain.FieldQuote,
				Quote:        row.Quote,
				Occurrence:   row.Occurrence,
				BookID:       r.in.BookID,
				C:            r.in.C,
				V:            r.in.V,
				Location:     r.loc,
			}, r.in.Options)
			if err != nil {
				return fmt.Errorf("checking original language quote: %w", err)
			}
			r.addField(row.ID, domain.FieldQuote, notices)
		}
	}
	r.add(rules.CheckQuoteOccurrence(site, r.in.AnnotationType, r.in.V, row.Quote, row.Occurrence))
	return nil
}

// ellipsisAfterSpace is the prefix of a markdown notice about an ellipsis,
// which in annotations is ordinary prose, not an omission marker.
const ellipsisAfterSpace = "Unexpected … character after space"

func isProseEllipsisNotice(n domain.Notice) bool {
	return n.Priority == 178 || n.Priority == 179 || strings.HasPrefix(n.Message, ellipsisAfterSpace)
}

func (r *rowCheck) checkAnnotation(ctx context.Context, site rules.Site, row domain.Row) error {
	note := row.Annotation
	r.add(rules.CheckAnnotation(site, r.in.AnnotationType, r.in.V, row.SupportReference, note))
	if note == "" || domain.IsWhitespace(note) {
		return nil
	}

	if r.text != nil {
		var kept []domain.Notice
		for _, n := range r.text.CheckMarkdownText(domain.FieldAnnotation, note, r.loc, r.in.Options) {
			if !isProseEllipsisNotice(n) {
				kept = append(kept, n)
			}
		}
		r.addField(row.ID, domain.FieldAnnotation, kept)
	}

	if r.links != nil && !r.in.Options.DisableLinkFetching {
		res, err := r.links.CheckOutboundLinks(ctx, r.in.BookID, domain.FieldAnnotation, note, r.loc, r.in.Options)
		if err != nil {
			return fmt.Errorf("checking outbound links: %w", err)
		}
		for _, n := range res.Notices {
			if n.Extra != "" {
				// Found inside a linked document, not in this row.
				r.acc.Add(n)
				continue
			}
			r.addField(row.ID, domain.FieldAnnotation, []domain.Notice{n})
		}
		r.acc.Merge(res.Checked)
	}
	return nil
}
