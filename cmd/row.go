package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/notecheck-go/internal/domain"
)

// RowRequest describes a single-row check.
type RowRequest struct {
	Line           string
	BookID         string
	// C and V are the expected chapter and verse. Empty values are taken
	// from the row's own Reference field.
	C, V           string
	AnnotationType string
	LanguageCode   string
	// MinPriority filters notices; a negative value uses the configured one.
	MinPriority    int
}

// RowReport is the outcome of a single-row check.
type RowReport struct {
	Notices []domain.Notice       `json:"-"`
	Checked domain.CheckedContent `json:"checked"`
}

// RowRunner checks one annotation row.
type RowRunner interface {
	CheckRow(ctx context.Context, req RowRequest) (*RowReport, error)
}

type rowJSONResponse struct {
	RowReport
	Notices []noticeJSON `json:"notices"`
	Summary summaryJSON  `json:"summary"`
}

// unescapeRow turns literal \t sequences into tabs when the line holds no
// real tab, so a row can be typed on a shell command line.
func unescapeRow(line string) string {
	if strings.Contains(line, "\t") {
		return line
	}
	return strings.ReplaceAll(line, `\t`, "\t")
}

// NewRowCmd creates the row command with the given runner.
func NewRowCmd(runner RowRunner) *cobra.Command {
	req := RowRequest{}

	cmd := &cobra.Command{
		Use:   "row LINE",
		Short: "Check a single annotation row",
		Long: "Check one tab-separated annotation row. Write \\t between fields if the\n" +
			"shell makes real tabs awkward.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runner == nil {
				return ErrNotWired
			}
			r := req
			r.Line = unescapeRow(args[0])
			report, err := runner.CheckRow(cmd.Context(), r)
			if err != nil {
				return err
			}

			errCount, warnCount := countBySeverity(report.Notices)
			w := cmd.OutOrStdout()
			if GetJSON() {
				writeJSON(w, rowJSONResponse{
					RowReport: *report,
					Notices:   toJSONNotices(report.Notices),
					Summary:   summaryJSON{Errors: errCount, Warnings: warnCount},
				})
			} else {
				for _, n := range report.Notices {
					formatNoticeHuman(w, n)
				}
				formatSummaryHuman(w, errCount, warnCount)
			}

			if len(report.Notices) > 0 {
				return &NoticesFoundError{Errors: errCount, Warnings: warnCount}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&req.BookID, "book", "", "Book ID of the row, e.g. TIT")
	cmd.Flags().StringVar(&req.C, "c", "", "Expected chapter (default: from the row)")
	cmd.Flags().StringVar(&req.V, "v", "", "Expected verse (default: from the row)")
	cmd.Flags().StringVar(&req.AnnotationType, "type", "", "Annotation type: TN, TQ, SN or SQ")
	cmd.Flags().StringVar(&req.LanguageCode, "lang", "", "Language code of the annotation")
	cmd.Flags().IntVar(&req.MinPriority, "min-priority", -1, "Hide notices below this priority")
	_ = cmd.MarkFlagRequired("book")

	return cmd
}
