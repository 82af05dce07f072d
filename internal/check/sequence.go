package check

import (
	"fmt"

	"github.com/eykd/notecheck-go/internal/domain"
)

// sequence tracks chapter, verse and row-ID state across the data rows of
// one table. It is owned by a single CheckTable call.
type sequence struct {
	books       BookCatalog
	bookID      string
	numChapters int

	lastC, lastV string
	// rowIDs holds the IDs seen since (C, V) last changed.
	rowIDs map[string]struct{}
	// numVerses is recomputed only when the chapter token changes.
	numVerses int
}

func newSequence(books BookCatalog, bookID string, numChapters int) *sequence {
	return &sequence{
		books:       books,
		bookID:      bookID,
		numChapters: numChapters,
		rowIDs:      make(map[string]struct{}),
	}
}

// advance records one data row and returns the cross-row notices it causes.
func (s *sequence) advance(C, V, rowID, loc string) []domain.Notice {
	var notices []domain.Notice
	add := func(priority int, fieldName, message, details, extract string) {
		notices = append(notices, domain.Notice{
			Priority:  priority,
			Message:   message,
			Details:   details,
			C:         C,
			V:         V,
			RowID:     rowID,
			FieldName: fieldName,
			Extract:   extract,
			Location:  loc,
		})
	}

	chapter := domain.ClassifyChapter(C)
	switch chapter.Kind {
	case domain.TokenSentinel:
	case domain.TokenNumeric:
		if C != s.lastC {
			// Looked up even for an out-of-range chapter, which leaves a
			// zero verse count behind.
			s.numVerses = 0
			if s.books != nil {
				s.numVerses, _ = s.books.VersesInChapter(s.bookID, chapter.Number)
			}
		}
		if chapter.Number == 0 {
			add(551, domain.FieldReference, "Invalid zero chapter number", "", C)
		}
		if chapter.Number > s.numChapters {
			add(737, domain.FieldReference, "Invalid large chapter number", "", C)
		}
		if last := domain.ClassifyChapter(s.lastC); last.Kind == domain.TokenNumeric {
			if chapter.Number < last.Number {
				add(736, domain.FieldReference, "Receding chapter number", fmt.Sprintf("'%s' after '%s'", C, s.lastC), "")
			} else if chapter.Number > last.Number+1 {
				add(735, domain.FieldReference, "Advancing chapter number", fmt.Sprintf("'%s' after '%s'", C, s.lastC), "")
			}
		}
	default:
		add(739, domain.FieldReference, "Bad chapter number", "", C)
	}

	verse := domain.ClassifyVerse(V)
	switch verse.Kind {
	case domain.TokenSentinel:
	case domain.TokenNumeric:
		if verse.Number == 0 {
			add(552, domain.FieldReference, "Invalid zero verse number", "", V)
		}
		if verse.Number > s.numVerses {
			add(734, domain.FieldReference, "Invalid large verse number", "for chapter "+C, V)
		}
		// Skipped verses are fine: not every verse needs a note.
		if last := domain.ClassifyVerse(s.lastV); last.Kind == domain.TokenNumeric && C == s.lastC && verse.Number < last.Number {
			add(733, domain.FieldReference, "Receding verse number", fmt.Sprintf("'%s' after '%s' for chapter %s", V, s.lastV, C), V)
		}
	default:
		add(738, domain.FieldReference, "Bad verse number", "", V)
	}

	if C != s.lastC || V != s.lastV {
		s.rowIDs = make(map[string]struct{})
		s.lastC, s.lastV = C, V
	}
	if rowID == "" {
		add(730, domain.FieldID, "Missing ID", "", "")
	} else {
		if _, seen := s.rowIDs[rowID]; seen {
			add(729, domain.FieldID, fmt.Sprintf("Duplicate '%s' ID", rowID), "", rowID)
		}
		s.rowIDs[rowID] = struct{}{}
	}
	return notices
}
