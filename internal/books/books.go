// Package books provides book, chapter and verse metadata for the canonical
// books of the Bible.
package books

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed versification.yaml
var versificationYAML []byte

// Testament identifies which half of the canon a book belongs to.
type Testament string

const (
	OldTestament Testament = "OT"
	NewTestament Testament = "NT"
)

// Book holds the metadata for one book.
type Book struct {
	ID        string    `yaml:"id"`
	Number    int       `yaml:"number"`
	Testament Testament `yaml:"testament"`
	Verses    []int     `yaml:"verses"`
}

type versification struct {
	Books []Book   `yaml:"books"`
	Extra []string `yaml:"extra"`
}

// Catalog answers book metadata questions. Lookups are case-insensitive and
// report not-found explicitly rather than failing.
type Catalog struct {
	books map[string]Book
	order []string
	extra map[string]struct{}
}

// Parse builds a Catalog from versification YAML.
func Parse(data []byte) (*Catalog, error) {
	var v versification
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing versification: %w", err)
	}
	c := &Catalog{
		books: make(map[string]Book, len(v.Books)),
		extra: make(map[string]struct{}, len(v.Extra)),
	}
	for _, b := range v.Books {
		id := strings.ToUpper(b.ID)
		if _, dup := c.books[id]; dup {
			return nil, fmt.Errorf("parsing versification: duplicate book %s", id)
		}
		b.ID = id
		c.books[id] = b
		c.order = append(c.order, id)
	}
	for _, id := range v.Extra {
		c.extra[strings.ToUpper(id)] = struct{}{}
	}
	return c, nil
}

var defaultCatalog *Catalog

func init() {
	c, err := Parse(versificationYAML)
	if err != nil {
		panic(err)
	}
	defaultCatalog = c
}

// Default returns the catalog built from the embedded versification.
func Default() *Catalog {
	return defaultCatalog
}

// IsValidBookID reports whether id names a canonical book or a known
// front/back matter identifier.
func (c *Catalog) IsValidBookID(id string) bool {
	up := strings.ToUpper(id)
	if _, ok := c.books[up]; ok {
		return true
	}
	_, ok := c.extra[up]
	return ok
}

// Book returns the metadata for id.
func (c *Catalog) Book(id string) (Book, bool) {
	b, ok := c.books[strings.ToUpper(id)]
	return b, ok
}

// ChaptersInBook returns the number of chapters in id.
func (c *Catalog) ChaptersInBook(id string) (int, bool) {
	b, ok := c.Book(id)
	if !ok {
		return 0, false
	}
	return len(b.Verses), true
}

// VersesInChapter returns the number of verses in chapter of id.
func (c *Catalog) VersesInChapter(id string, chapter int) (int, bool) {
	b, ok := c.Book(id)
	if !ok || chapter < 1 || chapter > len(b.Verses) {
		return 0, false
	}
	return b.Verses[chapter-1], true
}

// IDs returns the canonical book IDs in order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// BookNumber returns the USFM file number of id. New Testament books are
// numbered from 41.
func (c *Catalog) BookNumber(id string) (int, bool) {
	b, ok := c.Book(id)
	return b.Number, ok
}

// USFMFilename returns the conventional "NN-BOOK.usfm" filename for id.
func (c *Catalog) USFMFilename(id string) (string, bool) {
	b, ok := c.Book(id)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%02d-%s.usfm", b.Number, b.ID), true
}

// Testament returns the testament id belongs to.
func (c *Catalog) Testament(id string) (Testament, bool) {
	b, ok := c.Book(id)
	return b.Testament, ok
}

// filenameBookRe captures the book ID ending a table filename, as in
// "en_tn_57-TIT.tsv" or "tn_TIT.tsv".
var filenameBookRe = regexp.MustCompile(`(?i)(?:^|[_-])([0-9a-z]{3})\.tsv$`)

// BookFromFilename infers a book ID from a table filename.
func (c *Catalog) BookFromFilename(name string) (string, bool) {
	m := filenameBookRe.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return "", false
	}
	id := strings.ToUpper(m[1])
	if !c.IsValidBookID(id) {
		return "", false
	}
	return id, true
}
