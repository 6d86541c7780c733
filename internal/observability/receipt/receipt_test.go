package receipt

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apimguard/apimguard/internal/observability"
)

func readReceipt(t *testing.T, path string) Receipt {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read receipt: %v", err)
	}
	var r Receipt
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("failed to parse receipt: %v", err)
	}
	return r
}

func TestSessionFinishWritesReceipt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.json")
	w, err := NewWriter(path, string(ModeOverwrite))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	ctx := observability.WithRunID(context.Background())
	ctx = WithWriter(ctx, w)

	sess := Start(ctx, "apimguard validate", []string{"validate", "deploy/"})
	if err := sess.Finish(nil, WithFindings(0, 2, 1, "PASS")); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	r := readReceipt(t, path)
	if r.SchemaVersion != SchemaVersion {
		t.Errorf("unexpected schema version %q", r.SchemaVersion)
	}
	if r.RunID == "" {
		t.Error("receipt must carry the run ID")
	}
	if r.Command != "apimguard validate" {
		t.Errorf("unexpected command %q", r.Command)
	}
	if r.Result.Status != "success" {
		t.Errorf("expected success status, got %q", r.Result.Status)
	}
	if r.Findings == nil || r.Findings.Warnings != 2 || r.Findings.Total != 3 || r.Findings.Outcome != "PASS" {
		t.Errorf("unexpected findings summary: %+v", r.Findings)
	}
	if r.TsStart == "" || r.TsEnd == "" {
		t.Error("receipt must carry timestamps")
	}
}

func TestSessionFinishRecordsFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.json")
	w, err := NewWriter(path, string(ModeOverwrite))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	ctx := WithWriter(observability.WithRunID(context.Background()), w)

	sess := Start(ctx, "apimguard validate", nil)
	if err := sess.Finish(errors.New("validate failed: 3 error(s)")); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	w.Close()

	r := readReceipt(t, path)
	if r.Result.Status != "fail" {
		t.Errorf("expected fail status, got %q", r.Result.Status)
	}
	if r.Result.Error != "validate failed: 3 error(s)" {
		t.Errorf("unexpected error %q", r.Result.Error)
	}
}

func TestSessionFinishRedactsArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.json")
	w, err := NewWriter(path, string(ModeOverwrite))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	ctx := WithWriter(observability.WithRunID(context.Background()), w)

	sess := Start(ctx, "apimguard secrets", []string{"secrets", "--token=ghp_veryrealsecret", "config/"})
	if err := sess.Finish(nil); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	w.Close()

	r := readReceipt(t, path)
	if !r.ArgsRedacted {
		t.Error("expected args_redacted flag")
	}
	for _, a := range r.Args {
		if strings.Contains(a, "ghp_") {
			t.Errorf("secret leaked into receipt args: %v", r.Args)
		}
	}
}

func TestSessionFinishWithoutWriterIsNoop(t *testing.T) {
	sess := Start(context.Background(), "apimguard validate", nil)
	if err := sess.Finish(nil); err != nil {
		t.Fatalf("Finish without writer should be a no-op, got %v", err)
	}
}

func TestWithInputHashesSingleFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "api.yaml")
	if err := os.WriteFile(input, []byte("kind: ApiDefinition\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var r Receipt
	WithInput(input)(&r)
	if r.Input == nil || r.Input.Path != input {
		t.Fatalf("expected input ref, got %+v", r.Input)
	}
	if len(r.Input.SHA256) != 64 {
		t.Errorf("expected hex sha256, got %q", r.Input.SHA256)
	}

	var dr Receipt
	WithInput(dir)(&dr)
	if dr.Input == nil || dr.Input.SHA256 != "" {
		t.Errorf("directories must not carry a hash: %+v", dr.Input)
	}
}

func TestWriterAppendModeJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipts.jsonl")
	w, err := NewWriter(path, string(ModeAppend))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := w.Write(Receipt{SchemaVersion: SchemaVersion, Command: "apimguard validate"}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	w.Close()

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	lines := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var r Receipt
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines+1, err)
		}
		lines++
	}
	if lines != 3 {
		t.Errorf("expected 3 JSONL records, got %d", lines)
	}
}

func TestWriterOverwriteModeKeepsLastReceipt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.json")
	w, err := NewWriter(path, string(ModeOverwrite))
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	if err := w.Write(Receipt{Command: "first"}); err != nil {
		t.Fatal(err)
	}
	w.Close()

	// New writer truncates.
	w, err = NewWriter(path, string(ModeOverwrite))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Write(Receipt{Command: "second"}); err != nil {
		t.Fatal(err)
	}
	w.Close()

	r := readReceipt(t, path)
	if r.Command != "second" {
		t.Errorf("expected last receipt only, got %q", r.Command)
	}
}

func TestTruncateError(t *testing.T) {
	long := strings.Repeat("x", MaxErrorLength+100)
	got := truncateError(long)
	if len(got) != MaxErrorLength {
		t.Errorf("expected %d chars, got %d", MaxErrorLength, len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated error should end with ellipsis")
	}
	if truncateError("short") != "short" {
		t.Error("short errors must pass through")
	}
}
