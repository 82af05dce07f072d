package cmd

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eykd/notecheck-go/internal/articles"
	"github.com/eykd/notecheck-go/internal/books"
	"github.com/eykd/notecheck-go/internal/check"
	"github.com/eykd/notecheck-go/internal/config"
	"github.com/eykd/notecheck-go/internal/domain"
	"github.com/eykd/notecheck-go/internal/fs"
	"github.com/eykd/notecheck-go/internal/links"
	"github.com/eykd/notecheck-go/internal/quotes"
	"github.com/eykd/notecheck-go/internal/textcheck"
)

// environment is what the service reads from the process.
type environment struct {
	getwd  func() (string, error)
	lookup config.LookupFunc
}

func defaultEnvironment() environment {
	return environment{getwd: os.Getwd, lookup: os.LookupEnv}
}

// lazyService wires a service on first use, so that commands which never
// check anything (help, init) do not need a valid config.
type lazyService struct {
	env environment

	mu  sync.Mutex
	svc *service
}

func newLazyService(env environment) *lazyService {
	return &lazyService{env: env}
}

func (l *lazyService) get() (*service, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.svc != nil {
		return l.svc, nil
	}
	cwd, err := l.env.getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	svc, err := wireService(cwd, l.env.lookup, GetLogger())
	if err != nil {
		return nil, err
	}
	l.svc = svc
	return svc, nil
}

// CheckFiles implements CheckRunner.
func (l *lazyService) CheckFiles(ctx context.Context, req CheckRequest) ([]FileReport, error) {
	svc, err := l.get()
	if err != nil {
		return nil, err
	}
	return svc.CheckFiles(ctx, req)
}

// CheckRow implements RowRunner.
func (l *lazyService) CheckRow(ctx context.Context, req RowRequest) (*RowReport, error) {
	svc, err := l.get()
	if err != nil {
		return nil, err
	}
	return svc.CheckRow(ctx, req)
}

// service runs checks with collaborators built from the project config.
type service struct {
	cwd     string
	cfg     config.Config
	catalog *books.Catalog
	checker *check.Checker
	reader  *fs.OSReader
	logger  *zap.Logger
}

// wireService resolves the config for the project containing cwd and builds
// the checker. Table paths are read relative to cwd.
func wireService(cwd string, lookup config.LookupFunc, logger *zap.Logger) (*service, error) {
	root, err := fs.FindProjectRoot(cwd, config.FileName)
	if errors.Is(err, fs.ErrNotInProject) {
		root = cwd
	} else if err != nil {
		return nil, err
	}

	cfg, err := config.Resolve(root, lookup)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	trees := make(map[string]iofs.FS, 3)
	for name, dir := range map[string]string{"ta_root": cfg.TARoot, "tw_root": cfg.TWRoot, "source_root": cfg.SourceRoot} {
		tree, err := fs.OpenTree(root, dir)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		trees[name] = tree
	}

	catalog := books.Default()
	store := articles.NewStore(
		articles.WithAcademy(trees["ta_root"]),
		articles.WithWords(trees["tw_root"]),
		articles.WithLogger(logger),
	)
	opts := []check.Option{
		check.WithTextChecker(textcheck.New(textcheck.WithLogger(logger))),
		check.WithArticleChecker(store),
		check.WithLinkChecker(links.New(
			links.WithArticles(store),
			links.WithBooks(catalog),
			links.WithRepoNames(cfg.TARepo, cfg.TWRepo),
			links.WithLogger(logger),
		)),
		check.WithLogger(logger),
	}
	if src := trees["source_root"]; src != nil {
		opts = append(opts, check.WithQuoteChecker(quotes.NewStore(src, catalog, quotes.WithLogger(logger))))
	}

	logger.Debug("wired checker",
		zap.String("root", root),
		zap.String("language", cfg.Language),
		zap.String("type", cfg.AnnotationType),
		zap.Bool("academy", store.HasAcademy()),
		zap.Bool("words", store.HasWords()),
		zap.Bool("source", trees["source_root"] != nil),
	)

	return &service{
		cwd:     cwd,
		cfg:     cfg,
		catalog: catalog,
		checker: check.New(catalog, opts...),
		reader:  &fs.OSReader{Root: cwd},
		logger:  logger,
	}, nil
}

// settings merges per-request overrides onto the config.
func (s *service) settings(annotationType, lang string, minPriority int) (domain.AnnotationType, string, int, error) {
	if annotationType == "" {
		annotationType = s.cfg.AnnotationType
	}
	t, err := domain.ParseAnnotationType(annotationType)
	if err != nil {
		return "", "", 0, err
	}
	if lang == "" {
		lang = s.cfg.Language
	}
	if minPriority < 0 {
		minPriority = s.cfg.MinPriority
	}
	return t, lang, minPriority, nil
}

// expandFiles replaces each directory argument with the tables inside it.
func (s *service) expandFiles(ctx context.Context, args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		path := arg
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.cwd, path)
		}
		info, err := os.Stat(path)
		if err != nil {
			return nil, &ContextError{Op: "check", Path: arg, Err: err}
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		names, err := s.reader.List(ctx, arg, ".tsv")
		if err != nil {
			return nil, err
		}
		files = append(files, names...)
	}
	return files, nil
}

// CheckFiles checks tables concurrently, at most cfg.Workers at a time.
func (s *service) CheckFiles(ctx context.Context, req CheckRequest) ([]FileReport, error) {
	t, lang, minPriority, err := s.settings(req.AnnotationType, req.LanguageCode, req.MinPriority)
	if err != nil {
		return nil, err
	}
	files, err := s.expandFiles(ctx, req.Files)
	if err != nil {
		return nil, err
	}

	reports := make([]FileReport, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, name := range files {
		g.Go(func() error {
			r, err := s.checkFile(ctx, name, req.BookID, t, lang, minPriority)
			if err != nil {
				return &ContextError{Op: "check", Path: name, Err: err}
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *service) checkFile(ctx context.Context, name, bookID string, t domain.AnnotationType, lang string, minPriority int) (FileReport, error) {
	base := filepath.Base(name)
	if bookID == "" {
		var ok bool
		if bookID, ok = s.catalog.BookFromFilename(base); !ok {
			return FileReport{}, ErrNoBook
		}
	}
	bookID = strings.ToUpper(bookID)

	text, err := s.reader.ReadFile(ctx, name)
	if err != nil {
		return FileReport{}, err
	}
	res, err := s.checker.CheckTable(ctx, check.TableInput{
		LanguageCode:   lang,
		AnnotationType: t,
		BookID:         bookID,
		Filename:       base,
		Text:           text,
		Location:       "in " + base,
		Options:        s.cfg.Options(),
	})
	if err != nil {
		return FileReport{}, err
	}
	return FileReport{
		Filename:  name,
		BookID:    bookID,
		Successes: res.Successes,
		Notices:   filterNotices(res.Notices, minPriority),
		Checked:   res.Checked,
	}, nil
}

// CheckRow checks one row, taking the expected chapter and verse from the
// row itself when the request leaves them empty.
func (s *service) CheckRow(ctx context.Context, req RowRequest) (*RowReport, error) {
	t, lang, minPriority, err := s.settings(req.AnnotationType, req.LanguageCode, req.MinPriority)
	if err != nil {
		return nil, err
	}
	C, V := req.C, req.V
	if C == "" || V == "" {
		fields := domain.SplitFields(req.Line)
		rc, rv := domain.SplitReference(fields[0])
		if C == "" {
			C = rc
		}
		if V == "" {
			V = rv
		}
	}

	res, err := s.checker.CheckRow(ctx, check.RowInput{
		LanguageCode:   lang,
		AnnotationType: t,
		Line:           req.Line,
		BookID:         strings.ToUpper(req.BookID),
		C:              C,
		V:              V,
		Options:        s.cfg.Options(),
	})
	if err != nil {
		return nil, err
	}
	return &RowReport{Notices: filterNotices(res.Notices, minPriority), Checked: res.Checked}, nil
}
