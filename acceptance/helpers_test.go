package acceptance_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const header = "Reference\tID\tTags\tSupportReference\tQuote\tOccurrence\tAnnotation"

// table joins rows under the standard header, ending with a newline.
func table(rows ...string) string {
	return strings.Join(append([]string{header}, rows...), "\n") + "\n"
}

// runNotecheck executes the notecheck binary and returns stdout, stderr, and
// exit code. NOTECHECK_* variables from the caller's environment are dropped.
func runNotecheck(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(notecheckBinary, args...)
	cmd.Dir = dir
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "NOTECHECK_") {
			cmd.Env = append(cmd.Env, kv)
		}
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run notecheck: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// runNotecheckSuccess runs notecheck expecting exit code 0 and returns stdout.
func runNotecheckSuccess(t *testing.T, dir string, args ...string) string {
	t.Helper()
	stdout, stderr, exitCode := runNotecheck(t, dir, args...)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d\nargs: %v\nstdout: %s\nstderr: %s", exitCode, args, stdout, stderr)
	}
	return stdout
}

// initProject creates a temp dir and initializes a notecheck project.
func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	runNotecheckSuccess(t, dir, "init")
	return dir
}

// checkJSON runs notecheck check --json, expecting the given exit code, and
// parses the result.
func checkJSON(t *testing.T, dir string, wantCode int, args ...string) map[string]interface{} {
	t.Helper()
	stdout, stderr, code := runNotecheck(t, dir, append([]string{"check", "--json"}, args...)...)
	if code != wantCode {
		t.Fatalf("exit code = %d, want %d\nstdout: %s\nstderr: %s", code, wantCode, stdout, stderr)
	}
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse check JSON: %v\noutput: %s", err, stdout)
	}
	return result
}

// noticePriorities collects the priorities of every notice in a check --json
// result, file by file.
func noticePriorities(t *testing.T, result map[string]interface{}) []int {
	t.Helper()
	files, ok := result["files"].([]interface{})
	if !ok {
		t.Fatal("missing files in result")
	}
	var out []int
	for _, f := range files {
		notices, _ := f.(map[string]interface{})["notices"].([]interface{})
		for _, n := range notices {
			out = append(out, int(n.(map[string]interface{})["priority"].(float64)))
		}
	}
	return out
}

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// readFile reads a file's content.
func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	return string(content)
}

// fileExists checks if a file exists.
func fileExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
