// Package rules holds the per-field checks applied to one annotation row.
//
// Every function is pure: it receives already-parsed values and returns the
// notices that apply, in a fixed order. None of them stops row processing.
package rules

import "github.com/eykd/notecheck-go/internal/domain"

// Site is the row context every notice from this package carries.
type Site struct {
	RowID         string
	Location      string
	ExtractLength int
}

// notice builds a notice for fieldName at s.
func (s Site) notice(priority int, fieldName, message string) domain.Notice {
	return domain.Notice{
		Priority:  priority,
		Message:   message,
		RowID:     s.RowID,
		FieldName: fieldName,
		Location:  s.Location,
	}
}

// zeroWidthSpace flags the first zero-width space in text, if any.
func zeroWidthSpace(s Site, fieldName, text string) []domain.Notice {
	i := domain.RuneIndex(text, domain.ZeroWidthSpace)
	if i < 0 {
		return nil
	}
	n := s.notice(374, fieldName, "Field contains zero-width space(s)")
	n.CharacterIndex = domain.At(i)
	n.Extract = domain.Extract(text, i, s.ExtractLength)
	return []domain.Notice{n}
}

// onlyWhitespace flags a non-empty field containing only whitespace.
func onlyWhitespace(s Site, fieldName, text string) []domain.Notice {
	if !domain.IsWhitespace(text) {
		return nil
	}
	return []domain.Notice{s.notice(373, fieldName, "Field is only whitespace")}
}
