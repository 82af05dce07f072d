// Package domain holds the annotation row, reference and notice types shared
// by every checker.
package domain

// ErrorPriority is the priority at or above which callers conventionally
// treat a notice as an error rather than a warning.
const ErrorPriority = 700

// Notice represents one diagnostic discovered while checking a row or table.
//
// Priority, Message and Location are always set. The remaining fields are
// filled in by whichever layer has that context; a layer never overwrites a
// field an inner layer already set.
type Notice struct {
	Priority       int    `json:"priority"`
	Message        string `json:"message"`
	Details        string `json:"details,omitempty"`
	BookID         string `json:"bookID,omitempty"`
	C              string `json:"C,omitempty"`
	V              string `json:"V,omitempty"`
	RowID          string `json:"rowID,omitempty"`
	FieldName      string `json:"fieldName,omitempty"`
	Filename       string `json:"filename,omitempty"`
	LineNumber     int    `json:"lineNumber,omitempty"`
	CharacterIndex *int   `json:"characterIndex,omitempty"`
	Extract        string `json:"extract,omitempty"`
	Location       string `json:"location"`
	// Extra marks a notice that came from a secondary document reached
	// through a link (for example "TA"). Such notices are forwarded as-is.
	Extra string `json:"extra,omitempty"`
}

// At returns a pointer to i for use as Notice.CharacterIndex.
func At(i int) *int {
	return &i
}

// IsError reports whether the notice is at or above ErrorPriority.
func (n Notice) IsError() bool {
	return n.Priority >= ErrorPriority
}

// Tagged returns a copy of n with any empty context fields filled from ctx.
// Fields already present on n are left untouched.
func (n Notice) Tagged(ctx Notice) Notice {
	if n.BookID == "" {
		n.BookID = ctx.BookID
	}
	if n.C == "" {
		n.C = ctx.C
	}
	if n.V == "" {
		n.V = ctx.V
	}
	if n.RowID == "" {
		n.RowID = ctx.RowID
	}
	if n.FieldName == "" {
		n.FieldName = ctx.FieldName
	}
	if n.Filename == "" {
		n.Filename = ctx.Filename
	}
	if n.LineNumber == 0 {
		n.LineNumber = ctx.LineNumber
	}
	return n
}

