package cli

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const seedDoc = `{
  "properties": {"petcount": 2},
  "rentdata": {
    "Beta": {"beds": 1, "baths": 1, "deposit": 300, "petdeposit": 0, "petmonthly": 0, "parkingmonthly": 0, "monthlyrent": 800, "link": ""},
    "Alpha": {"beds": 2, "baths": 1, "deposit": 500, "petdeposit": 250, "petmonthly": 50, "parkingmonthly": 25, "monthlyrent": 1000, "link": "https://alpha"},
    "Broken": {"beds": 2}
  }
}`

func seedFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rentdata.json")
	if err := os.WriteFile(path, []byte(seedDoc), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestList_JSONSortedWithDerivedFields(t *testing.T) {
	path := seedFile(t)

	out, _, err := runCLI(t, "--file", path, "list", "--sort", "total-rent")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (Broken skipped); got %d", len(rows))
	}
	if rows[0]["name"] != "Beta" || rows[1]["name"] != "Alpha" {
		t.Fatalf("expected Beta then Alpha by total rent; got %v, %v", rows[0]["name"], rows[1]["name"])
	}
	if rows[1]["totalrent"].(float64) != 1125 || rows[1]["rentfor4"].(float64) != 356.25 {
		t.Fatalf("unexpected derived fields: %v", rows[1])
	}

	// Read-only: the file must not be rewritten.
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != seedDoc {
		t.Fatalf("list must not modify the data file")
	}
}

func TestList_EDNAndYAML(t *testing.T) {
	path := seedFile(t)

	out, _, err := runCLI(t, "--file", path, "--format", "edn", "list")
	if err != nil {
		t.Fatalf("list edn: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), `[{:name "Alpha"`) {
		t.Fatalf("unexpected edn output:\n%s", out)
	}

	out, _, err = runCLI(t, "--file", path, "--format", "yaml", "list")
	if err != nil {
		t.Fatalf("list yaml: %v", err)
	}
	if !strings.Contains(out, "- name: Alpha") {
		t.Fatalf("unexpected yaml output:\n%s", out)
	}
}

func TestList_UnknownSortField(t *testing.T) {
	path := seedFile(t)

	_, errOut, err := runCLI(t, "--file", path, "list", "--sort", "sqft")
	if err == nil {
		t.Fatalf("expected error for unknown sort field")
	}
	if !strings.Contains(errOut, "unknown field") {
		t.Fatalf("expected error message on stderr; got %q", errOut)
	}
}

func TestReport_Raw(t *testing.T) {
	path := seedFile(t)

	out, _, err := runCLI(t, "--file", path, "report", "--raw")
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "# Rental cost report") || !strings.Contains(out, "| Alpha |") {
		t.Fatalf("unexpected report:\n%s", out)
	}
}

func TestReport_Out(t *testing.T) {
	path := seedFile(t)
	dest := filepath.Join(t.TempDir(), "report.md")

	if _, _, err := runCLI(t, "--file", path, "report", "--out", dest); err != nil {
		t.Fatalf("report --out: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected report file: %v", err)
	}
	if _, _, err := runCLI(t, "--file", path, "report", "--out", dest); err == nil {
		t.Fatalf("expected refusal to overwrite")
	}
}

func TestExport_SQLite(t *testing.T) {
	path := seedFile(t)
	dest := filepath.Join(t.TempDir(), "rent.sqlite")

	if _, _, err := runCLI(t, "--file", path, "export", "--sqlite", dest); err != nil {
		t.Fatalf("export: %v", err)
	}

	db, err := sql.Open("sqlite", dest)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 exported rows; got %d", n)
	}

	if _, _, err := runCLI(t, "--file", path, "export"); err == nil {
		t.Fatalf("expected error without --sqlite")
	}
}

func TestRoot_RejectsPositionalArgs(t *testing.T) {
	if _, _, err := runCLI(t, "something"); err == nil {
		t.Fatalf("expected error for unexpected argument")
	}
}

func TestDocs(t *testing.T) {
	out, _, err := runCLI(t, "docs")
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if !strings.Contains(out, `"topic":"formulas","title":"Formulas"`) {
		t.Fatalf("expected topic list; got %s", out)
	}

	out, _, err = runCLI(t, "docs", "formulas", "--raw")
	if err != nil {
		t.Fatalf("docs formulas: %v", err)
	}
	if !strings.HasPrefix(out, "# Formulas") {
		t.Fatalf("unexpected topic body: %q", out)
	}

	out, _, err = runCLI(t, "docs", "File Format", "--raw")
	if err != nil || !strings.HasPrefix(out, "# Data file") {
		t.Fatalf("docs \"File Format\": err=%v out=%q", err, out)
	}

	if _, _, err := runCLI(t, "docs", "nope"); err == nil {
		t.Fatalf("expected unknown topic error")
	}
}
