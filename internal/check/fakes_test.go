package check

import (
	"context"

	"github.com/eykd/notecheck-go/internal/domain"
)

// fakeTextChecker returns canned notices and records the fields it saw.
type fakeTextChecker struct {
	fieldNotices    []domain.Notice
	markdownNotices []domain.Notice
	fields          []string
}

func (f *fakeTextChecker) CheckTextField(fieldType, fieldName, text string, allowLinks bool, location string, opts domain.Options) []domain.Notice {
	f.fields = append(f.fields, fieldName)
	return f.fieldNotices
}

func (f *fakeTextChecker) CheckMarkdownText(fieldName, text, location string, opts domain.Options) []domain.Notice {
	f.fields = append(f.fields, fieldName)
	return f.markdownNotices
}

// fakeArticleChecker records the links it was asked about.
type fakeArticleChecker struct {
	notices []domain.Notice
	err     error
	links   []string
}

func (f *fakeArticleChecker) CheckReferenceArticle(ctx context.Context, fieldName, linkText, location string, opts domain.Options) ([]domain.Notice, error) {
	f.links = append(f.links, linkText)
	return f.notices, f.err
}

// fakeQuoteChecker records the queries it received.
type fakeQuoteChecker struct {
	notices []domain.Notice
	err     error
	queries []domain.QuoteQuery
}

func (f *fakeQuoteChecker) CheckOriginalLanguageQuote(ctx context.Context, q domain.QuoteQuery, opts domain.Options) ([]domain.Notice, error) {
	f.queries = append(f.queries, q)
	return f.notices, f.err
}

// fakeLinkChecker returns a canned result.
type fakeLinkChecker struct {
	result domain.LinkResult
	err    error
	calls  int
}

func (f *fakeLinkChecker) CheckOutboundLinks(ctx context.Context, bookID, fieldName, text, location string, opts domain.Options) (domain.LinkResult, error) {
	f.calls++
	return f.result, f.err
}

// fakeCatalog is a book catalog with a single configurable book.
type fakeCatalog struct {
	id     string
	verses []int
}

func (f *fakeCatalog) IsValidBookID(id string) bool {
	return id == f.id
}

func (f *fakeCatalog) ChaptersInBook(id string) (int, bool) {
	if id != f.id {
		return 0, false
	}
	return len(f.verses), true
}

func (f *fakeCatalog) VersesInChapter(id string, chapter int) (int, bool) {
	if id != f.id || chapter < 1 || chapter > len(f.verses) {
		return 0, false
	}
	return f.verses[chapter-1], true
}

// titus mirrors the real chapter shape of Titus.
func titus() *fakeCatalog {
	return &fakeCatalog{id: "TIT", verses: []int{16, 15, 15}}
}

func priorities(notices []domain.Notice) []int {
	out := []int{}
	for _, n := range notices {
		out = append(out, n.Priority)
	}
	return out
}

func hasPriority(notices []domain.Notice, p int) bool {
	for _, n := range notices {
		if n.Priority == p {
			return true
		}
	}
	return false
}
