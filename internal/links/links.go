// Package links checks the outbound links in annotation text: rc:// links
// to academy and words articles, and relative markdown links to other
// verses.
package links

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"github.com/eykd/notecheck-go/internal/articles"
	"github.com/eykd/notecheck-go/internal/domain"
)

// Default repository names reported in checked-content tallies.
const (
	DefaultAcademyRepo = "en_ta"
	DefaultWordsRepo   = "en_tw"
)

// ArticleStore resolves linked articles.
type ArticleStore interface {
	HasAcademy() bool
	HasWords() bool
	AcademyArticle(ctx context.Context, category, name string) (articles.Article, bool, error)
	WordsArticle(ctx context.Context, category, word string) (articles.Article, bool, error)
}

// BookCatalog answers chapter and verse range questions.
type BookCatalog interface {
	ChaptersInBook(id string) (int, bool)
	VersesInChapter(id string, chapter int) (int, bool)
}

// Checker checks outbound links. It is safe for concurrent use when its
// collaborators are.
type Checker struct {
	articles    ArticleStore
	books       BookCatalog
	academyRepo string
	wordsRepo   string
	md          goldmark.Markdown
	logger      *zap.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithArticles sets the article store used for rc:// links.
func WithArticles(s ArticleStore) Option {
	return func(c *Checker) { c.articles = s }
}

// WithBooks sets the catalog used for relative verse links.
func WithBooks(b BookCatalog) Option {
	return func(c *Checker) { c.books = b }
}

// WithRepoNames sets the repository names reported for checked articles.
// Empty names keep the defaults.
func WithRepoNames(academy, words string) Option {
	return func(c *Checker) {
		if academy != "" {
			c.academyRepo = academy
		}
		if words != "" {
			c.wordsRepo = words
		}
	}
}

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
		academyRepo: DefaultAcademyRepo,
		wordsRepo:   DefaultWordsRepo,
		md:          goldmark.New(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	rcLinkRe    = regexp.MustCompile(`rc://[^/\s]+/(ta|tw)/(?:man|dict)/([^\s\]\)]+)`)
	sameBookRe  = regexp.MustCompile(`^\.\./(\d+)/(\d+)\.md$`)
	otherBookRe = regexp.MustCompile(`^\.\./\.\./([a-z0-9]{3})/(\d+)/(\d+)\.md$`)
)

// CheckOutboundLinks checks every distinct rc:// link and relative verse
// link in text. Notices found inside a linked article carry Extra.
func (c *Checker) CheckOutboundLinks(ctx context.Context, bookID, fieldName, text, location string, opts domain.Options) (domain.LinkResult, error) {
	var res domain.LinkResult
	if text == "" || opts.DisableLinkFetching {
		return res, ctx.Err()
	}
	opts = opts.Normalized()
	lc := &linkCheck{Checker: c, fieldName: fieldName, location: location, opts: opts, res: &res}

	seen := make(map[string]bool)
	for _, m := range rcLinkRe.FindAllStringSubmatch(text, -1) {
		link := m[0]
		if seen[link] {
			continue
		}
		seen[link] = true
		var err error
		switch m[1] {
		case "ta":
			err = lc.academyLink(ctx, link, m[2])
		case "tw":
			err = lc.wordsLink(ctx, link, m[2])
		}
		if err != nil {
			return domain.LinkResult{}, err
		}
	}

	if c.books != nil {
		lc.verseLinks(bookID, text)
	}

	c.logger.Debug("checked outbound links",
		zap.String("bookID", bookID),
		zap.Int("links", len(seen)),
		zap.Int("notices", len(res.Notices)),
	)
	return res, nil
}

// linkCheck carries the state of one CheckOutboundLinks call.
type linkCheck struct {
	*Checker
	fieldName string
	location  string
	opts      domain.Options
	res       *domain.LinkResult
}

func (lc *linkCheck) notice(priority int, message, details, extract string) domain.Notice {
	return domain.Notice{
		Priority:  priority,
		Message:   message,
		Details:   details,
		FieldName: lc.fieldName,
		Extract:   domain.Extract(extract, 0, lc.opts.ExtractLength),
		Location:  lc.location,
	}
}

func (lc *linkCheck) tally(a articles.Article, repo string) {
	lc.res.Checked.Merge(domain.CheckedContent{
		FileCount:          1,
		FileSizes:          a.Size,
		RepoNames:          []string{repo},
		FilenameExtensions: []string{"md"},
	})
}

func (lc *linkCheck) academyLink(ctx context.Context, link, rest string) error {
	if lc.articles == nil || !lc.articles.HasAcademy() {
		return nil
	}
	category, name, ok := strings.Cut(rest, "/")
	if !ok || name == "" || strings.Contains(name, "/") {
		lc.res.Notices = append(lc.res.Notices, lc.notice(886, "Unable to find linked TA article", "", link))
		return nil
	}
	a, found, err := lc.articles.AcademyArticle(ctx, category, name)
	if err != nil {
		return fmt.Errorf("checking %s: %w", link, err)
	}
	if !found {
		lc.res.Notices = append(lc.res.Notices,
			lc.notice(886, "Unable to find linked TA article", articles.AcademyPath(category, name), link))
		return nil
	}
	lc.tally(a, lc.academyRepo)
	if a.Empty {
		lc.res.Notices = append(lc.res.Notices, domain.Notice{
			Priority: 881,
			Message:  "Linked TA article is empty",
			Details:  a.Path,
			Extract:  domain.Extract(link, 0, lc.opts.ExtractLength),
			Location: " in " + lc.academyRepo,
			Extra:    "TA",
		})
	}
	return nil
}

func (lc *linkCheck) wordsLink(ctx context.Context, link, rest string) error {
	if lc.articles == nil || !lc.articles.HasWords() {
		return nil
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[0] != "bible" {
		lc.res.Notices = append(lc.res.Notices, lc.notice(885, "Unable to find linked TW article", "", link))
		return nil
	}
	a, found, err := lc.articles.WordsArticle(ctx, parts[1], parts[2])
	if err != nil {
		return fmt.Errorf("checking %s: %w", link, err)
	}
	if !found {
		lc.res.Notices = append(lc.res.Notices,
			lc.notice(885, "Unable to find linked TW article", articles.WordsPath(parts[1], parts[2]), link))
		return nil
	}
	lc.tally(a, lc.wordsRepo)
	return nil
}

// verseLinks checks markdown links of the form "../CC/VV.md" (this book) and
// "../../book/CC/VV.md" (another book) against the catalog.
func (lc *linkCheck) verseLinks(bookID, text string) {
	src := []byte(text)
	root := lc.md.Parser().Parse(gmtext.NewReader(src))
	_ = ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		link, ok := node.(*ast.Link)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		dest := string(link.Destination)
		target, ch, vs := bookID, "", ""
		if m := sameBookRe.FindStringSubmatch(dest); m != nil {
			ch, vs = m[1], m[2]
		} else if m := otherBookRe.FindStringSubmatch(dest); m != nil {
			target, ch, vs = strings.ToUpper(m[1]), m[2], m[3]
		} else {
			return ast.WalkContinue, nil
		}
		if details := lc.verseProblem(target, ch, vs); details != "" {
			lc.res.Notices = append(lc.res.Notices, lc.notice(743, "Bad relative verse link", details, dest))
		}
		return ast.WalkContinue, nil
	})
}

// verseProblem describes why target ch:vs does not exist, or returns "".
func (lc *linkCheck) verseProblem(target, ch, vs string) string {
	chapters, ok := lc.books.ChaptersInBook(target)
	if !ok {
		return fmt.Sprintf("unknown book '%s'", target)
	}
	c, _ := strconv.Atoi(ch)
	if c < 1 || c > chapters {
		return fmt.Sprintf("chapter %d not in %s", c, target)
	}
	verses, _ := lc.books.VersesInChapter(target, c)
	if v, _ := strconv.Atoi(vs); v < 1 || v > verses {
		return fmt.Sprintf("verse %d not in %s %d", v, target, c)
	}
	return ""
}
