package rules

import (
	"fmt"

	"github.com/eykd/notecheck-go/internal/domain"
)

// BookInfo is what the reference checks know about the row's book.
type BookInfo struct {
	// Resolved is false when the book's chapter data could not be loaded.
	Resolved    bool
	NumChapters int
}

// ChapterInfo is what the verse checks know about the row's chapter.
type ChapterInfo struct {
	// Resolved is true only for a numeric, in-range chapter whose verse
	// count was found.
	Resolved  bool
	NumVerses int
}

// CheckChapter checks the chapter half of a reference cell against the
// expected chapter and, when numeric, against the book's chapter count.
func CheckChapter(s Site, ref domain.Reference, expectedC string, book BookInfo) []domain.Notice {
	c := ref.Chapter
	if c.Kind == domain.TokenEmpty {
		n := s.notice(820, domain.FieldReference, "Missing chapter number")
		n.Location = fmt.Sprintf(" ?:%s%s", ref.Verse.Text, s.Location)
		return []domain.Notice{n}
	}

	var notices []domain.Notice
	if c.Text != expectedC {
		n := s.notice(976, domain.FieldReference, "Wrong chapter number")
		n.Details = fmt.Sprintf("expected '%s'", expectedC)
		n.Extract = c.Text
		notices = append(notices, n)
	}

	switch c.Kind {
	case domain.TokenSentinel:
	case domain.TokenNumeric:
		notices = append(notices, ChapterRange(s, c, book)...)
	default:
		n := s.notice(821, domain.FieldReference, "Bad chapter number")
		n.Extract = c.Text
		notices = append(notices, n)
	}
	return notices
}

// ChapterRange checks a numeric chapter token against the book's chapter count.
func ChapterRange(s Site, c domain.Token, book BookInfo) []domain.Notice {
	var n domain.Notice
	switch {
	case c.Number == 0:
		n = s.notice(824, domain.FieldReference, "Invalid zero chapter number")
	case !book.Resolved:
		n = s.notice(822, domain.FieldReference, "Unable to check chapter number")
	case c.Number > book.NumChapters:
		n = s.notice(823, domain.FieldReference, "Invalid large chapter number")
	default:
		return nil
	}
	n.Extract = c.Text
	return []domain.Notice{n}
}

// CheckVerse checks the verse half of a reference cell against the expected
// verse and, when numeric, against the chapter's verse count.
func CheckVerse(s Site, ref domain.Reference, expectedV string, chapter ChapterInfo) []domain.Notice {
	v := ref.Verse
	if v.Kind == domain.TokenEmpty {
		n := s.notice(810, domain.FieldReference, "Missing verse number")
		n.Location = fmt.Sprintf(" after %s:?%s", ref.Chapter.Text, s.Location)
		return []domain.Notice{n}
	}

	var notices []domain.Notice
	if v.Text != expectedV {
		n := s.notice(975, domain.FieldReference, "Wrong verse number")
		n.Details = fmt.Sprintf("expected '%s'", expectedV)
		n.Extract = v.Text
		notices = append(notices, n)
	}

	switch v.Kind {
	case domain.TokenSentinel:
	case domain.TokenNumeric:
		notices = append(notices, VerseRange(s, ref.Chapter.Text, v, chapter)...)
	default:
		n := s.notice(811, domain.FieldReference, "Bad verse number")
		n.Extract = v.Text
		n.Location = fmt.Sprintf(" %s:%s%s", ref.Chapter.Text, v.Text, s.Location)
		notices = append(notices, n)
	}
	return notices
}

// VerseRange checks a numeric verse token against the chapter's verse count.
func VerseRange(s Site, chapterText string, v domain.Token, chapter ChapterInfo) []domain.Notice {
	var n domain.Notice
	switch {
	case v.Number == 0:
		n = s.notice(814, domain.FieldReference, "Invalid zero verse number")
	case !chapter.Resolved:
		n = s.notice(812, domain.FieldReference, "Unable to check verse number")
	case v.Number > chapter.NumVerses:
		n = s.notice(813, domain.FieldReference, "Invalid large verse number")
		n.Details = "for chapter " + chapterText
	default:
		return nil
	}
	n.Extract = v.Text
	return []domain.Notice{n}
}
