// Package check validates annotation tables one row at a time and across
// rows.
package check

import (
	"context"

	"go.uber.org/zap"

	"github.com/eykd/notecheck-go/internal/domain"
)

// BookCatalog answers book, chapter and verse questions.
type BookCatalog interface {
	IsValidBookID(id string) bool
	ChaptersInBook(id string) (int, bool)
	VersesInChapter(id string, chapter int) (int, bool)
}

// TextChecker lints free-text and markdown fields.
type TextChecker interface {
	CheckTextField(fieldType, fieldName, text string, allowLinks bool, location string, opts domain.Options) []domain.Notice
	CheckMarkdownText(fieldName, text, location string, opts domain.Options) []domain.Notice
}

// ArticleChecker verifies that a structured link names a known reference article.
type ArticleChecker interface {
	CheckReferenceArticle(ctx context.Context, fieldName, linkText, location string, opts domain.Options) ([]domain.Notice, error)
}

// QuoteChecker verifies that a quote occurs in the source-language text.
type QuoteChecker interface {
	CheckOriginalLanguageQuote(ctx context.Context, q domain.QuoteQuery, opts domain.Options) ([]domain.Notice, error)
}

// LinkChecker verifies outbound links to other content repositories.
type LinkChecker interface {
	CheckOutboundLinks(ctx context.Context, bookID, fieldName, text, location string, opts domain.Options) (domain.LinkResult, error)
}

// Checker runs row and table checks. The book catalog is required; any other
// collaborator left nil is skipped.
type Checker struct {
	books    BookCatalog
	text     TextChecker
	articles ArticleChecker
	quotes   QuoteChecker
	links    LinkChecker
	logger   *zap.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithTextChecker sets the text and markdown linter.
func WithTextChecker(t TextChecker) Option {
	return func(c *Checker) { c.text = t }
}

// WithArticleChecker sets the reference-article lookup.
func WithArticleChecker(a ArticleChecker) Option {
	return func(c *Checker) { c.articles = a }
}

// WithQuoteChecker sets the original-language quote lookup.
func WithQuoteChecker(q QuoteChecker) Option {
	return func(c *Checker) { c.quotes = q }
}

// WithLinkChecker sets the outbound-link lookup.
func WithLinkChecker(l LinkChecker) Option {
	return func(c *Checker) { c.links = l }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Checker backed by the given book catalog.
func New(books BookCatalog, opts ...Option) *Checker {
	c := &Checker{
		books:  books,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
