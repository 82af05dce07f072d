package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/eykd/notecheck-go/internal/domain"
)

// mockCheckRunner is a test double for CheckRunner.
type mockCheckRunner struct {
	reports []FileReport
	err     error
	got     CheckRequest
}

func (m *mockCheckRunner) CheckFiles(ctx context.Context, req CheckRequest) ([]FileReport, error) {
	m.got = req
	return m.reports, m.err
}

// checkJSONOutput is a test-only type for parsing notecheck check --json.
type checkJSONOutput struct {
	Files []struct {
		Filename  string   `json:"filename"`
		BookID    string   `json:"bookID"`
		Successes []string `json:"successes"`
		Notices   []struct {
			Priority   int    `json:"priority"`
			Message    string `json:"message"`
			Severity   string `json:"severity"`
			LineNumber int    `json:"lineNumber"`
			RowID      string `json:"rowID"`
		} `json:"notices"`
	} `json:"files"`
	Summary struct {
		Errors   int `json:"errors"`
		Warnings int `json:"warnings"`
	} `json:"summary"`
}

var sampleReport = FileReport{
	Filename:  "en_tn_57-TIT.tsv",
	BookID:    "TIT",
	Successes: []string{"Checking TIT TN rows", "Checked all 2 data lines in en_tn_57-TIT.tsv."},
	Notices: []domain.Notice{
		{Priority: 729, Message: "Duplicate 'ab12' ID", BookID: "TIT", C: "1", V: "1", RowID: "ab12", FieldName: "ID", Filename: "en_tn_57-TIT.tsv", LineNumber: 3, Extract: "ab12"},
		{Priority: 124, Message: "Unexpected double spaces", FieldName: "Annotation", Filename: "en_tn_57-TIT.tsv", LineNumber: 2},
	},
}

func executeCheck(t *testing.T, runner CheckRunner, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	code = RunCLI(BuildCommandTree(runner, nil), append([]string{"check"}, args...), out, errOut)
	return out.String(), errOut.String(), code
}

func TestCheckCmd_RegisteredWithRoot(t *testing.T) {
	found := false
	for _, sub := range rootCmd.Commands() {
		if sub.Name() == "check" {
			found = true
			break
		}
	}
	if !found {
		t.Error("check command not registered with root")
	}
}

func TestCheckCmd_NoNotices(t *testing.T) {
	runner := &mockCheckRunner{reports: []FileReport{{
		Filename:  "en_tn_57-TIT.tsv",
		Successes: []string{"Checking TIT TN rows", "No errors or warnings found by table check"},
	}}}

	stdout, stderr, code := executeCheck(t, runner, "en_tn_57-TIT.tsv")

	if code != 0 {
		t.Fatalf("exit code = %d, want 0 (stderr %q)", code, stderr)
	}
	want := "Checking TIT TN rows\nNo errors or warnings found by table check\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestCheckCmd_HumanOutput(t *testing.T) {
	runner := &mockCheckRunner{reports: []FileReport{sampleReport}}

	stdout, stderr, code := executeCheck(t, runner, "en_tn_57-TIT.tsv")

	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	for _, want := range []string{
		"Checked all 2 data lines in en_tn_57-TIT.tsv.",
		"en_tn_57-TIT.tsv:3 [error 729] Duplicate 'ab12' ID at TIT 1:1 row ab12 in ID near 'ab12'",
		"en_tn_57-TIT.tsv:2 [warning 124] Unexpected double spaces in Annotation",
		"1 error(s), 1 warning(s)",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if got, want := stderr, "notecheck: check found 1 errors, 1 warnings\n"; got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestCheckCmd_JSONOutput(t *testing.T) {
	runner := &mockCheckRunner{reports: []FileReport{sampleReport}}

	stdout, _, code := executeCheck(t, runner, "--json", "en_tn_57-TIT.tsv")

	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	var out checkJSONOutput
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(out.Files) != 1 {
		t.Fatalf("got %d files, want 1", len(out.Files))
	}
	f := out.Files[0]
	if f.BookID != "TIT" || len(f.Successes) != 2 {
		t.Errorf("file = %+v", f)
	}
	if len(f.Notices) != 2 {
		t.Fatalf("got %d notices, want 2", len(f.Notices))
	}
	if n := f.Notices[0]; n.Priority != 729 || n.Severity != "error" || n.LineNumber != 3 || n.RowID != "ab12" {
		t.Errorf("notice[0] = %+v", n)
	}
	if n := f.Notices[1]; n.Severity != "warning" {
		t.Errorf("notice[1].Severity = %q, want warning", n.Severity)
	}
	if out.Summary.Errors != 1 || out.Summary.Warnings != 1 {
		t.Errorf("summary = %+v, want 1 error, 1 warning", out.Summary)
	}
}

func TestCheckCmd_JSONEmptyArrays(t *testing.T) {
	runner := &mockCheckRunner{reports: []FileReport{{Filename: "a_TIT.tsv"}}}

	stdout, _, code := executeCheck(t, runner, "--json", "a_TIT.tsv")

	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, `"notices":[]`) || !strings.Contains(stdout, `"successes":[]`) {
		t.Errorf("expected empty arrays, got %s", stdout)
	}
}

func TestCheckCmd_FlagsReachRunner(t *testing.T) {
	runner := &mockCheckRunner{}

	_, _, code := executeCheck(t, runner,
		"--book", "tit", "--type", "tq", "--lang", "fr", "--min-priority", "500", "a.tsv", "b.tsv")

	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	want := CheckRequest{
		Files:          []string{"a.tsv", "b.tsv"},
		BookID:         "tit",
		AnnotationType: "tq",
		LanguageCode:   "fr",
		MinPriority:    500,
	}
	if diff := cmp.Diff(want, runner.got); diff != "" {
		t.Errorf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckCmd_DefaultMinPriority(t *testing.T) {
	runner := &mockCheckRunner{}

	executeCheck(t, runner, "a.tsv")

	if runner.got.MinPriority != -1 {
		t.Errorf("MinPriority = %d, want -1 (use config)", runner.got.MinPriority)
	}
}

func TestCheckCmd_RequiresFile(t *testing.T) {
	_, stderr, code := executeCheck(t, &mockCheckRunner{})

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "requires at least 1 arg") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCheckCmd_RunnerError(t *testing.T) {
	runner := &mockCheckRunner{err: &ContextError{Op: "check", Path: "x.tsv", Err: ErrNoBook}}

	stdout, stderr, code := executeCheck(t, runner, "x.tsv")

	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if stdout != "" {
		t.Errorf("stdout = %q, want empty", stdout)
	}
	if !strings.Contains(stderr, "check: x.tsv: cannot determine book") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestCheckCmd_NilRunner(t *testing.T) {
	cmd := NewCheckCmd(nil)
	cmd.SetArgs([]string{"a.tsv"})
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	if err := cmd.Execute(); !errors.Is(err, ErrNotWired) {
		t.Errorf("err = %v, want ErrNotWired", err)
	}
}
