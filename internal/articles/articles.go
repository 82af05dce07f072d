// Package articles looks up reference articles (translation academy) and
// word articles (translation words) in content repositories laid out on a
// filesystem.
package articles

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/eykd/notecheck-go/internal/domain"
)

// DefaultCategory is assumed for an article given by name alone.
const DefaultCategory = "translate"

// Article describes one article file.
type Article struct {
	Path string
	Size int64
	// Empty is true when the file holds only whitespace.
	Empty bool
}

// Store reads articles from a translation academy tree laid out as
// "<category>/<article>/01.md" and a translation words tree laid out as
// "bible/<category>/<word>.md". Either tree may be absent. Results are
// cached; a Store is safe for concurrent use.
type Store struct {
	academy fs.FS
	words   fs.FS
	logger  *zap.Logger

	mu    sync.Mutex
	cache map[string]cached
}

type cached struct {
	article Article
	found   bool
}

// Option configures a Store.
type Option func(*Store)

// WithAcademy sets the translation academy tree.
func WithAcademy(fsys fs.FS) Option {
	return func(s *Store) { s.academy = fsys }
}

// WithWords sets the translation words tree.
func WithWords(fsys fs.FS) Option {
	return func(s *Store) { s.words = fsys }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		logger: zap.NewNop(),
		cache:  make(map[string]cached),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasAcademy reports whether a translation academy tree is configured.
func (s *Store) HasAcademy() bool { return s.academy != nil }

// HasWords reports whether a translation words tree is configured.
func (s *Store) HasWords() bool { return s.words != nil }

// AcademyPath returns the path of an academy article within its tree.
func AcademyPath(category, name string) string {
	return path.Join(category, name, "01.md")
}

// WordsPath returns the path of a words article within its tree.
func WordsPath(category, word string) string {
	return path.Join("bible", category, word+".md")
}

// AcademyArticle looks up an academy article. A missing tree or file is
// reported as not found.
func (s *Store) AcademyArticle(ctx context.Context, category, name string) (Article, bool, error) {
	return s.lookup(ctx, "ta", s.academy, AcademyPath(category, name))
}

// WordsArticle looks up a words article. A missing tree or file is reported
// as not found.
func (s *Store) WordsArticle(ctx context.Context, category, word string) (Article, bool, error) {
	return s.lookup(ctx, "tw", s.words, WordsPath(category, word))
}

func (s *Store) lookup(ctx context.Context, tree string, fsys fs.FS, name string) (Article, bool, error) {
	if err := ctx.Err(); err != nil {
		return Article{}, false, err
	}
	if fsys == nil || !fs.ValidPath(name) {
		return Article{}, false, nil
	}

	key := tree + ":" + name
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cache[key]; ok {
		return c.article, c.found, nil
	}

	data, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		s.cache[key] = cached{}
		s.logger.Debug("article not found", zap.String("tree", tree), zap.String("path", name))
		return Article{}, false, nil
	}
	if err != nil {
		return Article{}, false, fmt.Errorf("reading %s article %s: %w", tree, name, err)
	}
	a := Article{
		Path:  name,
		Size:  int64(len(data)),
		Empty: strings.TrimSpace(string(data)) == "",
	}
	s.cache[key] = cached{article: a, found: true}
	return a, true, nil
}

// academyLinkRe matches a full academy link and captures category and name.
var academyLinkRe = regexp.MustCompile(`^rc://[^/\s]+/ta/man/([^/\s]+)/([^/\s]+)$`)

// ParseAcademyReference splits a SupportReference into category and article
// name. Both "rc://*/ta/man/<category>/<name>" and a bare name are accepted.
func ParseAcademyReference(ref string) (category, name string, ok bool) {
	ref = strings.TrimSpace(ref)
	if m := academyLinkRe.FindStringSubmatch(ref); m != nil {
		return m[1], m[2], true
	}
	if ref == "" || strings.ContainsAny(ref, "/: \t") {
		return "", "", false
	}
	return DefaultCategory, ref, true
}

// CheckReferenceArticle reports a SupportReference that does not resolve to
// an academy article. Nothing is reported when no academy tree is
// configured.
func (s *Store) CheckReferenceArticle(ctx context.Context, fieldName, linkText, location string, opts domain.Options) ([]domain.Notice, error) {
	if s.academy == nil {
		return nil, ctx.Err()
	}
	opts = opts.Normalized()
	notFound := domain.Notice{
		Priority:  883,
		Message:   "Unable to find TA article",
		FieldName: fieldName,
		Extract:   domain.Extract(linkText, 0, opts.ExtractLength),
		Location:  location,
	}

	category, name, ok := ParseAcademyReference(linkText)
	if !ok {
		return []domain.Notice{notFound}, nil
	}
	_, found, err := s.AcademyArticle(ctx, category, name)
	if err != nil {
		return nil, err
	}
	if !found {
		notFound.Details = AcademyPath(category, name)
		return []domain.Notice{notFound}, nil
	}
	return nil, nil
}
