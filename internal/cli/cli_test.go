package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mfields/ctrlmig/internal/domain"
	"github.com/mfields/ctrlmig/internal/drift"
)

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// writeExportFixture lays down a minimal export directory.
func writeExportFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"organizations.json": `[{"id": 1, "name": "Default", "max_hosts": 0}]`,
		"projects.json": `[{"id": 4, "name": "App Deploy", "organization": 1,
			"scm_type": "git", "scm_url": "https://git.example.com/app.git", "scm_branch": "main"}]`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestParseTypeFilter(t *testing.T) {
	tests := []struct {
		name    string
		filter  string
		wantLen int
		wantErr bool
	}{
		{name: "empty selects all", filter: "", wantLen: len(domain.AllTypes())},
		{name: "plural", filter: "organizations,projects", wantLen: 2},
		{name: "singular", filter: "organization", wantLen: 1},
		{name: "mixed with spaces", filter: " organizations , job_template ", wantLen: 2},
		{name: "unknown", filter: "widgets", wantErr: true},
		{name: "only commas", filter: ",,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			types, err := parseTypeFilter(tt.filter)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseTypeFilter() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(types) != tt.wantLen {
				t.Errorf("got %d types, want %d", len(types), tt.wantLen)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d", got)
	}
	if got := ExitCode(&domain.StrictModeError{}); got != 1 {
		t.Errorf("ExitCode(strict) = %d", got)
	}
	if got := ExitCode(&drift.MismatchError{}); got != 1 {
		t.Errorf("ExitCode(mismatch) = %d", got)
	}
	if got := ExitCode(errors.New("boom")); got != 2 {
		t.Errorf("ExitCode(generic) = %d", got)
	}
}

func TestTransformCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	exportDir := writeExportFixture(t)
	outA := filepath.Join(t.TempDir(), "a")
	outB := filepath.Join(t.TempDir(), "b")

	if _, err := execute(t, "transform", "--export-dir", exportDir, "--out", outA, "--no-journal"); err != nil {
		t.Fatalf("transform failed: %v", err)
	}
	if _, err := execute(t, "transform", "--export-dir", exportDir, "--out", outB, "--no-journal"); err != nil {
		t.Fatalf("transform failed: %v", err)
	}

	// Both documents written, and only those.
	for _, name := range []string{"controller_organizations.yml", "controller_projects.yml"} {
		dataA, err := os.ReadFile(filepath.Join(outA, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		dataB, err := os.ReadFile(filepath.Join(outB, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if !bytes.Equal(dataA, dataB) {
			t.Errorf("%s not byte-identical across runs", name)
		}
	}
	if _, err := os.Stat(filepath.Join(outA, "controller_teams.yml")); !os.IsNotExist(err) {
		t.Error("absent export type should not produce a document")
	}

	// Identical sets diff clean; a modified file is reported.
	if _, err := execute(t, "diff", outA, outB); err != nil {
		t.Errorf("diff of identical sets failed: %v", err)
	}
	orgPath := filepath.Join(outB, "controller_organizations.yml")
	if err := os.WriteFile(orgPath, []byte("controller_organizations: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "diff", outA, outB); err == nil {
		t.Error("diff of differing sets should fail")
	}
}

func TestTransformStrictFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	exportDir := t.TempDir()
	payload := `[{"id": 1, "name": "Default", "mystery_field": true}]`
	if err := os.WriteFile(filepath.Join(exportDir, "organizations.json"), []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(t.TempDir(), "out")

	_, err := execute(t, "transform", "--export-dir", exportDir, "--out", outDir, "--strict", "--no-journal")
	var strictErr *domain.StrictModeError
	if !errors.As(err, &strictErr) {
		t.Fatalf("expected StrictModeError, got %v", err)
	}
	if ExitCode(err) != 1 {
		t.Errorf("strict failure exit code = %d, want 1", ExitCode(err))
	}

	// Nothing may be written on a failed run.
	if _, err := os.Stat(outDir); !os.IsNotExist(err) {
		t.Error("strict failure must not write output")
	}

	// Reset for later executions.
	transformStrict = false
}

func TestDriftCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()

	expected := filepath.Join(dir, "expected.json")
	actual := filepath.Join(dir, "actual.json")
	if err := os.WriteFile(expected, []byte(`{"organizations": 3, "projects": 5}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(actual, []byte(`{"organizations": 3, "projects": 4}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "drift", "--expected", expected, "--actual", actual, "--no-journal")
	var mismatchErr *drift.MismatchError
	if !errors.As(err, &mismatchErr) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if len(mismatchErr.Mismatches) != 1 {
		t.Fatalf("got %d mismatches, want 1", len(mismatchErr.Mismatches))
	}
	m := mismatchErr.Mismatches[0]
	if m.Type != domain.TypeProject || m.Expected != 5 || m.Actual != 4 {
		t.Errorf("mismatch = %+v", m)
	}
	if ExitCode(err) != 1 {
		t.Errorf("drift exit code = %d, want 1", ExitCode(err))
	}

	// Matching counts succeed.
	if err := os.WriteFile(actual, []byte(`{"organizations": 3, "projects": 5}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "drift", "--expected", expected, "--actual", actual, "--no-journal"); err != nil {
		t.Errorf("matching drift check failed: %v", err)
	}
}

func TestCountsCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	exportDir := writeExportFixture(t)

	out, err := execute(t, "counts", "--export-dir", exportDir)
	if err != nil {
		t.Fatalf("counts failed: %v", err)
	}
	for _, want := range []string{`"organizations": 1`, `"projects": 1`} {
		if !bytes.Contains([]byte(out), []byte(want)) {
			t.Errorf("counts output missing %q:\n%s", want, out)
		}
	}
}
