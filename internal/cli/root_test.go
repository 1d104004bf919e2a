package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// notebookJSON builds a two-cell notebook: prose, then a code cell with one reference
func notebookJSON(prose, reference string, tags ...string) string {
	tagList := "[]"
	if len(tags) > 0 {
		tagList = `["` + strings.Join(tags, `", "`) + `"]`
	}
	return fmt.Sprintf(`{
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": %q},
  {"cell_type": "code", "execution_count": null, "outputs": [], "metadata": {"tags": %s},
   "source": ["#| content: %s\n", "assert answer == 42"]}
 ],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}`, prose, tagList, reference)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// run executes the command tree in isolation from the user's config
func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRun_NoPaths(t *testing.T) {
	stdout, _, err := run(t)
	if err != nil {
		t.Fatalf("expected success with no paths, got %v", err)
	}
	if stdout != "" {
		t.Errorf("expected no output, got %q", stdout)
	}
}

func TestRun_Pass(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "good.ipynb", notebookJSON("The answer is 42.", "The answer is 42.", "remove-cell"))

	stdout, _, err := run(t, "--color", "never", path)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if stdout != "✅ "+path+"\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestRun_MissingTag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.ipynb", notebookJSON("The answer is 42.", "The answer is 42."))

	stdout, _, err := run(t, "--color", "never", path)

	var failed *FailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected FailedError, got %v", err)
	}
	if failed.Count != 1 {
		t.Errorf("expected 1 failed notebook, got %d", failed.Count)
	}

	want := "❌ " + path + "\n" +
		"  The following cells are missing \"remove-cell\" tags:\n" +
		"  Cell 1 which contains references:\n" +
		"    #| content: The answer is 42.\n" +
		"\n" +
		"\nProblems detected in 1 notebook(s).\n"
	if stdout != want {
		t.Errorf("unexpected output:\n got: %q\nwant: %q", stdout, want)
	}
}

func TestRun_MissingText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "missing.ipynb", notebookJSON("The answer is 42.", "Not present anywhere.", "remove-cell"))

	stdout, _, err := run(t, "--color", "never", path)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(stdout, "Cell 1: #| content: Not present anywhere.") {
		t.Errorf("expected existence diagnostics, got %q", stdout)
	}
	if strings.Contains(stdout, "missing \"remove-cell\" tags") {
		t.Errorf("expected tag check to pass, got %q", stdout)
	}
}

func TestRun_MultipleNotebooks(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.ipynb", notebookJSON("prose", "gone"))
	good := writeFile(t, dir, "good.ipynb", notebookJSON("The answer is 42.", "The answer is 42.", "remove-cell"))
	broken := writeFile(t, dir, "broken.ipynb", `{"cells": [`)

	stdout, stderr, err := run(t, "--color", "never", bad, broken, good)

	var failed *FailedError
	if !errors.As(err, &failed) || failed.Count != 2 {
		t.Fatalf("expected 2 failed notebooks, got %v", err)
	}

	badAt := strings.Index(stdout, "❌ "+bad)
	goodAt := strings.Index(stdout, "✅ "+good)
	if badAt < 0 || goodAt < 0 || badAt > goodAt {
		t.Errorf("expected results in input order, got:\n%s", stdout)
	}
	if !strings.HasSuffix(stdout, "\nProblems detected in 2 notebook(s).\n") {
		t.Errorf("expected summary line, got %q", stdout)
	}
	if !strings.Contains(stderr, "❌ "+broken+": read notebook:") {
		t.Errorf("expected read error on stderr, got %q", stderr)
	}
}

func TestRun_ParallelJobs(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 6; i++ {
		paths = append(paths, writeFile(t, dir, fmt.Sprintf("nb%d.ipynb", i),
			notebookJSON("The answer is 42.", "The answer is 42.", "remove-cell")))
	}

	args := append([]string{"--color", "never", "--jobs", "3"}, paths...)
	stdout, _, err := run(t, args...)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	var want strings.Builder
	for _, p := range paths {
		want.WriteString("✅ " + p + "\n")
	}
	if stdout != want.String() {
		t.Errorf("expected ordered output:\n got: %q\nwant: %q", stdout, want.String())
	}
}

func TestRun_FromFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.ipynb", notebookJSON("The answer is 42.", "The answer is 42.", "remove-cell"))
	list := writeFile(t, dir, "list.txt", "# notebooks\n"+good+"\n")

	stdout, _, err := run(t, "--color", "never", "--from-file", list)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if stdout != "✅ "+good+"\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestRun_CustomTag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hide.ipynb", notebookJSON("The answer is 42.", "The answer is 42.", "hide-cell"))

	if _, _, err := run(t, "--color", "never", path); err == nil {
		t.Error("expected default tag requirement to fail")
	}
	if _, _, err := run(t, "--color", "never", "--tag", "hide-cell", path); err != nil {
		t.Errorf("expected --tag hide-cell to pass, got %v", err)
	}
}

func TestRun_TagFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hide.ipynb", notebookJSON("The answer is 42.", "The answer is 42.", "hide-cell"))
	t.Setenv("CTENFORCE_CHECK_TAG", "hide-cell")

	if _, _, err := run(t, "--color", "never", path); err != nil {
		t.Errorf("expected env tag to pass, got %v", err)
	}
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hide.ipynb", notebookJSON("The answer is 42.", "The answer is 42.", "hide-cell"))
	cfgPath := writeFile(t, dir, "config.yaml", "check:\n  tag: hide-cell\noutput:\n  color: never\n")

	if _, _, err := run(t, "--config", cfgPath, path); err != nil {
		t.Errorf("expected config file tag to pass, got %v", err)
	}

	// Flags win over the config file
	if _, _, err := run(t, "--config", cfgPath, "--tag", "remove-cell", path); err == nil {
		t.Error("expected --tag to override the config file")
	}
}

func TestRun_MissingConfigFile(t *testing.T) {
	_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("expected config read error, got %v", err)
	}
}

func TestRun_InvalidFlagValue(t *testing.T) {
	_, _, err := run(t, "--format", "xml")
	if err == nil || !strings.Contains(err.Error(), "output.format") {
		t.Errorf("expected invalid format error, got %v", err)
	}
}

func TestRun_JSONFormat(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.ipynb", notebookJSON("The answer is 42.", "The answer is 42.", "remove-cell"))
	bad := writeFile(t, dir, "bad.ipynb", notebookJSON("The answer is 42.", "The answer is 42."))

	stdout, _, err := run(t, "--format", "json", good, bad)
	if err == nil {
		t.Fatal("expected failure")
	}

	var decoded struct {
		Passed    bool `json:"passed"`
		Failed    int  `json:"failed"`
		Documents []struct {
			Path   string `json:"path"`
			Passed bool   `json:"passed"`
		} `json:"documents"`
	}
	if err := json.Unmarshal([]byte(stdout), &decoded); err != nil {
		t.Fatalf("expected pure JSON on stdout: %v\n%s", err, stdout)
	}
	if decoded.Passed || decoded.Failed != 1 || len(decoded.Documents) != 2 {
		t.Errorf("unexpected run %+v", decoded)
	}
	if decoded.Documents[0].Path != good || !decoded.Documents[0].Passed {
		t.Errorf("unexpected first document %+v", decoded.Documents[0])
	}
}

func TestRun_Verbose(t *testing.T) {
	_, stderr, err := run(t, "-v")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !strings.Contains(stderr, "Checking 0 notebook(s)") {
		t.Errorf("expected progress on stderr, got %q", stderr)
	}
	if !strings.Contains(stderr, "color: false") {
		t.Errorf("expected color state for a non-terminal stdout, got %q", stderr)
	}
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := run(t, "version")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if !strings.HasPrefix(stdout, "content-test-enforcer ") {
		t.Errorf("unexpected version output %q", stdout)
	}
}

func TestFailedError(t *testing.T) {
	err := &FailedError{Count: 3}
	if err.Error() != "problems detected in 3 notebook(s)" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
