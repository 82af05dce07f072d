// Package quotes checks that quoted phrases occur in the original-language
// (Hebrew or Greek) source text of a verse.
package quotes

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/eykd/notecheck-go/internal/books"
	"github.com/eykd/notecheck-go/internal/domain"
)

// Directories under the source root holding each testament's USFM files.
const (
	HebrewDir = "hbo_uhb"
	GreekDir  = "el-x-koine_ugnt"
)

// Catalog names the USFM file and testament of a book.
type Catalog interface {
	USFMFilename(id string) (string, bool)
	Testament(id string) (books.Testament, bool)
}

// Store loads and caches parsed USFM books from a source root. It is safe
// for concurrent use.
type Store struct {
	root    fs.FS
	catalog Catalog
	logger  *zap.Logger

	mu    sync.Mutex
	texts map[string]*Text
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store reading from root.
func NewStore(root fs.FS, catalog Catalog, opts ...Option) *Store {
	s := &Store{
		root:    root,
		catalog: catalog,
		logger:  zap.NewNop(),
		texts:   make(map[string]*Text),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BookPath returns the path of a book's USFM file under the source root.
func (s *Store) BookPath(bookID string) (string, bool) {
	name, ok := s.catalog.USFMFilename(bookID)
	if !ok {
		return "", false
	}
	testament, _ := s.catalog.Testament(bookID)
	dir := GreekDir
	if testament == books.OldTestament {
		dir = HebrewDir
	}
	return path.Join(dir, name), true
}

// Book returns the parsed text of bookID. A book with no USFM file is
// reported as not found.
func (s *Store) Book(ctx context.Context, bookID string) (*Text, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	name, ok := s.BookPath(bookID)
	if !ok {
		return nil, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.texts[name]; ok {
		return t, t != nil, nil
	}
	data, err := fs.ReadFile(s.root, name)
	if errors.Is(err, fs.ErrNotExist) {
		s.texts[name] = nil
		s.logger.Debug("source text not found", zap.String("path", name))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading source text %s: %w", name, err)
	}
	t := ParseUSFM(string(data))
	s.texts[name] = t
	s.logger.Debug("loaded source text", zap.String("path", name), zap.Int("bytes", len(data)))
	return t, true, nil
}

// VerseText returns the source text of one verse.
func (s *Store) VerseText(ctx context.Context, bookID, c, v string) (string, bool, error) {
	t, ok, err := s.Book(ctx, bookID)
	if err != nil || !ok {
		return "", false, err
	}
	text, ok := t.Verse(c, v)
	return text, ok, nil
}

var partSeparatorRe = regexp.MustCompile(`\s*…\s*| & `)

// SplitQuote splits a quote into the discontiguous parts separated by "…"
// or " & ".
func SplitQuote(quote string) []string {
	var parts []string
	for _, p := range partSeparatorRe.Split(quote, -1) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// CheckOriginalLanguageQuote reports a quote, or a part of one, that does
// not occur in its verse, and a single-part quote that occurs fewer times
// than its occurrence number. Introductions and front matter are skipped.
func (s *Store) CheckOriginalLanguageQuote(ctx context.Context, q domain.QuoteQuery, opts domain.Options) ([]domain.Notice, error) {
	if q.C == domain.FrontChapter || q.V == domain.IntroVerse || q.Quote == "" || s.root == nil {
		return nil, ctx.Err()
	}
	opts = opts.Normalized()
	notice := func(priority int, message, details, extract string) domain.Notice {
		return domain.Notice{
			Priority:  priority,
			Message:   message,
			Details:   details,
			BookID:    q.BookID,
			C:         q.C,
			V:         q.V,
			FieldName: q.FieldName,
			Extract:   extract,
			Location:  q.Location,
		}
	}

	verse, found, err := s.VerseText(ctx, q.BookID, q.C, q.V)
	if err != nil {
		return nil, err
	}
	if !found {
		return []domain.Notice{notice(851, "Unable to load original language verse text",
			fmt.Sprintf("%s %s:%s", q.BookID, q.C, q.V), "")}, nil
	}

	parts := SplitQuote(norm.NFC.String(q.Quote))
	var notices []domain.Notice
	for i, part := range parts {
		if strings.Contains(verse, part) {
			continue
		}
		var details string
		if len(parts) > 1 {
			details = fmt.Sprintf("part %d of %d", i+1, len(parts))
		}
		notices = append(notices, notice(916, "Unable to find original language quote in verse text",
			details, domain.Extract(part, 0, opts.ExtractLength)))
	}
	if len(notices) > 0 || len(parts) != 1 {
		return notices, nil
	}

	occurrence, err := strconv.Atoi(q.Occurrence)
	if err != nil || occurrence <= 0 {
		return nil, nil
	}
	if count := strings.Count(verse, parts[0]); count < occurrence {
		return []domain.Notice{notice(917, "Unable to find occurrence of original language quote in verse text",
			fmt.Sprintf("occurrence %d, only %d found", occurrence, count),
			domain.Extract(parts[0], 0, opts.ExtractLength))}, nil
	}
	return nil, nil
}
