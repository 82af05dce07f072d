package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Column names of an annotation table, in order.
const (
	FieldReference        = "Reference"
	FieldID               = "ID"
	FieldTags             = "Tags"
	FieldSupportReference = "SupportReference"
	FieldQuote            = "Quote"
	FieldOccurrence       = "Occurrence"
	FieldAnnotation       = "Annotation"
)

// NumFields is the number of tab-separated cells in every row.
const NumFields = 7

// HeaderLine is the canonical first line of an annotation table.
const HeaderLine = FieldReference + "\t" + FieldID + "\t" + FieldTags + "\t" +
	FieldSupportReference + "\t" + FieldQuote + "\t" + FieldOccurrence + "\t" + FieldAnnotation

// ErrWrongFieldCount is returned by ParseRow when a line does not split
// into exactly NumFields cells.
var ErrWrongFieldCount = errors.New("wrong number of tabbed fields")

// Row is one well-formed data line.
type Row struct {
	Reference        string
	ID               string
	Tags             string
	SupportReference string
	Quote            string
	Occurrence       string
	Annotation       string
}

// SplitFields splits a line into its tab-separated cells.
func SplitFields(line string) []string {
	return strings.Split(line, "\t")
}

// ParseRow splits a line into a Row. It returns the cells it found alongside
// ErrWrongFieldCount when the cell count is not NumFields.
func ParseRow(line string) (Row, []string, error) {
	fields := SplitFields(line)
	if len(fields) != NumFields {
		return Row{}, fields, fmt.Errorf("%w: found %d", ErrWrongFieldCount, len(fields))
	}
	return Row{
		Reference:        fields[0],
		ID:               fields[1],
		Tags:             fields[2],
		SupportReference: fields[3],
		Quote:            fields[4],
		Occurrence:       fields[5],
		Annotation:       fields[6],
	}, fields, nil
}

// Plural returns "s" unless n is 1.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
