package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/eykd/notecheck-go/internal/domain"
)

// RowIDLength is the required length of a row ID.
const RowIDLength = 4

func isLowerOrDigit(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// CheckRowID checks the shape of a row ID. Only the first violation found
// is reported, in the order: missing, length, first, last, second, third.
func CheckRowID(s Site, rowID string) []domain.Notice {
	if rowID == "" {
		return []domain.Notice{s.notice(779, domain.FieldID, "Missing ID field")}
	}
	if n := utf8.RuneCountInString(rowID); n != RowIDLength {
		notice := s.notice(778, domain.FieldID, fmt.Sprintf("ID should be exactly %d characters", RowIDLength))
		notice.Details = fmt.Sprintf("not %d", n)
		notice.Extract = rowID
		return []domain.Notice{notice}
	}

	runes := []rune(rowID)
	checks := []struct {
		index    int
		priority int
		message  string
	}{
		{0, 176, "ID should start with a lowercase letter or digit"},
		{3, 175, "ID should end with a lowercase letter or digit"},
		{1, 174, "ID characters should only be lowercase letters or digits"},
		{2, 173, "ID characters should only be lowercase letters or digits"},
	}
	for _, c := range checks {
		if !isLowerOrDigit(runes[c.index]) {
			n := s.notice(c.priority, domain.FieldID, c.message)
			n.CharacterIndex = domain.At(c.index)
			n.Extract = rowID
			return []domain.Notice{n}
		}
	}
	return nil
}

// TranslateArticlePrefix is stripped from a SupportReference before its
// article name is inspected.
const TranslateArticlePrefix = "rc://*/ta/man/translate/"

// allowedArticlePrefixes are the article families a translation note may
// reference.
var allowedArticlePrefixes = []string{"figs-", "grammar-", "translate-", "writing-"}

// allowedArticleNames are individually whitelisted articles.
var allowedArticleNames = []string{"guidelines-sonofgodprinciples"}

// ArticleName strips TranslateArticlePrefix from a SupportReference.
func ArticleName(supportReference string) string {
	return strings.Replace(supportReference, TranslateArticlePrefix, "", 1)
}

// IsAllowedArticle reports whether a stripped article name is one a
// translation note may cite.
func IsAllowedArticle(article string) bool {
	for _, name := range allowedArticleNames {
		if article == name {
			return true
		}
	}
	for _, p := range allowedArticlePrefixes {
		if strings.HasPrefix(article, p) {
			return true
		}
	}
	return false
}

// CheckSupportReference checks a non-empty SupportReference against the
// annotation type's vocabulary and against the Annotation that should
// repeat it.
func CheckSupportReference(s Site, annotationType domain.AnnotationType, supportReference, annotation string) []domain.Notice {
	if supportReference == "" {
		return nil
	}
	var notices []domain.Notice
	if ws := onlyWhitespace(s, domain.FieldSupportReference, supportReference); ws != nil {
		notices = append(notices, ws...)
	} else {
		if annotationType.IsTranslationNotes() && !IsAllowedArticle(ArticleName(supportReference)) {
			n := s.notice(788, domain.FieldSupportReference, "Only 'Just-In-Time Training' TA articles allowed here")
			n.Extract = supportReference
			notices = append(notices, n)
		}
		if !strings.Contains(annotation, supportReference) {
			n := s.notice(787, domain.FieldSupportReference, "Link to TA should also be in Annotation")
			n.Extract = supportReference
			notices = append(notices, n)
		}
	}
	return append(notices, zeroWidthSpace(s, domain.FieldSupportReference, supportReference)...)
}

// IsValidOccurrence reports whether a non-empty occurrence is 0, -1, or a
// single digit from 1 to 7.
func IsValidOccurrence(occurrence string) bool {
	switch occurrence {
	case "0", "-1", "1", "2", "3", "4", "5", "6", "7":
		return true
	}
	return false
}

// CheckQuoteOccurrence checks how the Quote and Occurrence fields agree.
func CheckQuoteOccurrence(s Site, annotationType domain.AnnotationType, verse, quote, occurrence string) []domain.Notice {
	var notices []domain.Notice
	if quote == "" && annotationType.IsTranslationNotes() && verse != domain.IntroVerse && occurrence != "0" {
		notices = append(notices, s.notice(919, domain.FieldQuote, "Missing Quote field"))
	}

	switch {
	case occurrence == "":
		if quote != "" {
			n := s.notice(791, domain.FieldOccurrence, "Missing occurrence field")
			n.Extract = quote
			notices = append(notices, n)
		}
	case occurrence == "0":
		if quote != "" {
			n := s.notice(550, domain.FieldOccurrence, "Invalid zero occurrence field when we have an original quote")
			n.Extract = quote
			notices = append(notices, n)
		}
	case !IsValidOccurrence(occurrence):
		n := s.notice(792, domain.FieldOccurrence, "Invalid occurrence field")
		n.Extract = occurrence
		notices = append(notices, n)
	}
	return notices
}

// taLinkRegex matches a bracketed link to a reference article and captures
// the article name.
var taLinkRegex = regexp.MustCompile(`\[\[rc://[^ /]+?/ta/man/[^ /]+?/([^ \]]+?)\]\]`)

// ArticleLinks returns the article names of every bracketed reference
// article link in text, in order.
func ArticleLinks(text string) []string {
	matches := taLinkRegex.FindAllStringSubmatch(text, -1)
	articles := make([]string, 0, len(matches))
	for _, m := range matches {
		articles = append(articles, m[1])
	}
	return articles
}

// CheckAnnotation checks the Annotation field's own shape and its
// reference-article links against the SupportReference.
func CheckAnnotation(s Site, annotationType domain.AnnotationType, verse, supportReference, annotation string) []domain.Notice {
	if annotation == "" {
		if annotationType.IsTranslationNotes() {
			return []domain.Notice{s.notice(274, domain.FieldAnnotation, "Missing Annotation field")}
		}
		return nil
	}

	notices := zeroWidthSpace(s, domain.FieldAnnotation, annotation)
	if ws := onlyWhitespace(s, domain.FieldAnnotation, annotation); ws != nil {
		return append(notices, ws...)
	}
	if verse == domain.IntroVerse {
		return notices
	}

	want := ArticleName(supportReference)
	for _, article := range ArticleLinks(annotation) {
		if article == want {
			continue
		}
		n := s.notice(786, domain.FieldAnnotation, "Should have a SupportReference when Annotation has a TA link")
		if supportReference != "" {
			n.Details = fmt.Sprintf("(SR='%s')", supportReference)
		} else {
			n.Details = "(empty SR field)"
		}
		n.Extract = article
		notices = append(notices, n)
	}
	return notices
}
