package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/eykd/notecheck-go/internal/domain"
)

// Severity is how a notice is reported, derived from its priority.
type Severity string

const (
	// SeverityError is used for notices at or above domain.ErrorPriority.
	SeverityError Severity = "error"
	// SeverityWarning is used for every other notice.
	SeverityWarning Severity = "warning"
)

func severityOf(n domain.Notice) Severity {
	if n.IsError() {
		return SeverityError
	}
	return SeverityWarning
}

// noticeJSON is a notice as written by --json.
type noticeJSON struct {
	domain.Notice
	Severity Severity `json:"severity"`
}

func toJSONNotices(notices []domain.Notice) []noticeJSON {
	out := make([]noticeJSON, 0, len(notices))
	for _, n := range notices {
		out = append(out, noticeJSON{Notice: n, Severity: severityOf(n)})
	}
	return out
}

type summaryJSON struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// writeJSON encodes v as JSON to w, handling I/O errors at the boundary.
func writeJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(w, "{\"error\":%q}\n", err.Error())
	}
}

// countBySeverity counts errors and warnings in a slice of notices.
func countBySeverity(notices []domain.Notice) (errCount, warnCount int) {
	for _, n := range notices {
		if n.IsError() {
			errCount++
		} else {
			warnCount++
		}
	}
	return
}

// filterNotices keeps notices at or above minPriority, highest priority
// first. Notices of equal priority keep their order.
func filterNotices(notices []domain.Notice, minPriority int) []domain.Notice {
	out := make([]domain.Notice, 0, len(notices))
	for _, n := range notices {
		if n.Priority >= minPriority {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

// formatNoticeHuman writes one notice as a line of text.
func formatNoticeHuman(w io.Writer, n domain.Notice) {
	var where strings.Builder
	where.WriteString(n.Filename)
	if n.LineNumber > 0 {
		fmt.Fprintf(&where, ":%d", n.LineNumber)
	}
	if where.Len() > 0 {
		where.WriteString(" ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s %d] %s", where.String(), severityOf(n), n.Priority, n.Message)
	if n.Details != "" {
		fmt.Fprintf(&b, " (%s)", n.Details)
	}
	if n.C != "" || n.V != "" {
		fmt.Fprintf(&b, " at %s %s:%s", n.BookID, n.C, n.V)
	}
	if n.RowID != "" {
		fmt.Fprintf(&b, " row %s", n.RowID)
	}
	if n.FieldName != "" {
		fmt.Fprintf(&b, " in %s", n.FieldName)
	}
	if n.Extract != "" {
		fmt.Fprintf(&b, " near '%s'", n.Extract)
	}
	if n.Extra != "" {
		fmt.Fprintf(&b, " [%s]", n.Extra)
	}
	fmt.Fprintln(w, b.String())
}

// formatSummaryHuman writes the closing counts line when there is anything
// to count.
func formatSummaryHuman(w io.Writer, errCount, warnCount int) {
	if errCount > 0 || warnCount > 0 {
		fmt.Fprintf(w, "\n%d error(s), %d warning(s)\n", errCount, warnCount)
	}
}
