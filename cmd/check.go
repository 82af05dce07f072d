package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/notecheck-go/internal/domain"
)

// CheckRequest describes a table check run.
type CheckRequest struct {
	// Files are table paths or directories of tables.
	Files          []string
	// BookID overrides the book inferred from each filename.
	BookID         string
	AnnotationType string
	LanguageCode   string
	// MinPriority filters notices; a negative value uses the configured one.
	MinPriority    int
}

// FileReport is the outcome of checking one table.
type FileReport struct {
	Filename  string                `json:"filename"`
	BookID    string                `json:"bookID"`
	Successes []string              `json:"successes"`
	Notices   []domain.Notice       `json:"-"`
	Checked   domain.CheckedContent `json:"checked"`
}

// CheckRunner checks annotation tables. Reports come back in the order the
// files were requested, with notices already filtered and sorted.
type CheckRunner interface {
	CheckFiles(ctx context.Context, req CheckRequest) ([]FileReport, error)
}

type fileReportJSON struct {
	FileReport
	Notices []noticeJSON `json:"notices"`
}

type checkJSONResponse struct {
	Files   []fileReportJSON `json:"files"`
	Summary summaryJSON      `json:"summary"`
}

func allNotices(reports []FileReport) []domain.Notice {
	var all []domain.Notice
	for _, r := range reports {
		all = append(all, r.Notices...)
	}
	return all
}

// formatCheckJSON writes reports as JSON to w.
func formatCheckJSON(w io.Writer, reports []FileReport, errCount, warnCount int) {
	out := checkJSONResponse{Files: make([]fileReportJSON, 0, len(reports))}
	for _, r := range reports {
		if r.Successes == nil {
			r.Successes = []string{}
		}
		out.Files = append(out.Files, fileReportJSON{FileReport: r, Notices: toJSONNotices(r.Notices)})
	}
	out.Summary = summaryJSON{Errors: errCount, Warnings: warnCount}
	writeJSON(w, out)
}

// formatCheckHuman writes reports as human-readable text to w.
func formatCheckHuman(w io.Writer, reports []FileReport, errCount, warnCount int) {
	for _, r := range reports {
		for _, s := range r.Successes {
			fmt.Fprintln(w, s)
		}
		for _, n := range r.Notices {
			formatNoticeHuman(w, n)
		}
	}
	formatSummaryHuman(w, errCount, warnCount)
}

// runCheckAndReport runs the checker and formats notices as JSON or
// human-readable text. It returns a NoticesFoundError if any notices remain.
func runCheckAndReport(cmd *cobra.Command, runner CheckRunner, req CheckRequest, asJSON bool) error {
	reports, err := runner.CheckFiles(cmd.Context(), req)
	if err != nil {
		return err
	}

	notices := allNotices(reports)
	errCount, warnCount := countBySeverity(notices)

	if asJSON {
		formatCheckJSON(cmd.OutOrStdout(), reports, errCount, warnCount)
	} else {
		formatCheckHuman(cmd.OutOrStdout(), reports, errCount, warnCount)
	}

	if len(notices) > 0 {
		return &NoticesFoundError{Errors: errCount, Warnings: warnCount}
	}
	return nil
}

// NewCheckCmd creates the check command with the given runner.
func NewCheckCmd(runner CheckRunner) *cobra.Command {
	req := CheckRequest{}

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Check annotation tables",
		Long: "Check one or more annotation tables. Directories are searched for *.tsv files.\n" +
			"The book is taken from a filename ending in _BOOK.tsv unless --book is given.",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runner == nil {
				return ErrNotWired
			}
			req.Files = args
			return runCheckAndReport(cmd, runner, req, GetJSON())
		},
	}

	cmd.Flags().StringVar(&req.BookID, "book", "", "Book ID for every table, e.g. TIT")
	cmd.Flags().StringVar(&req.AnnotationType, "type", "", "Annotation type: TN, TQ, SN or SQ")
	cmd.Flags().StringVar(&req.LanguageCode, "lang", "", "Language code of the annotations")
	cmd.Flags().IntVar(&req.MinPriority, "min-priority", -1, "Hide notices below this priority")

	return cmd
}
