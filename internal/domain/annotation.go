package domain

import (
	"errors"
	"fmt"
	"strings"
)

// AnnotationType identifies which kind of annotation table is being checked.
type AnnotationType string

const (
	// TranslationNotes is the only type with required Quote and Annotation
	// fields and a restricted SupportReference vocabulary.
	TranslationNotes     AnnotationType = "TN"
	TranslationQuestions AnnotationType = "TQ"
	StudyNotes           AnnotationType = "SN"
	StudyQuestions       AnnotationType = "SQ"
)

// AnnotationTypes lists every supported annotation type.
var AnnotationTypes = []AnnotationType{TranslationNotes, TranslationQuestions, StudyNotes, StudyQuestions}

// ErrUnknownAnnotationType is returned when an annotation type is not supported.
var ErrUnknownAnnotationType = errors.New("unknown annotation type")

// ParseAnnotationType parses a case-insensitive annotation type code.
func ParseAnnotationType(s string) (AnnotationType, error) {
	up := AnnotationType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range AnnotationTypes {
		if t == up {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAnnotationType, s)
}

// IsTranslationNotes reports whether t is TranslationNotes.
func (t AnnotationType) IsTranslationNotes() bool {
	return t == TranslationNotes
}
