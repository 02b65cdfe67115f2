package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestRunScanEndToEnd exercises the full config -> corpus -> clone -> report
// pipeline through the cobra command directly, rather than via a subprocess.
func TestRunScanEndToEnd(t *testing.T) {
	root := t.TempDir()
	shared := "mov r0, #1\nmov r1, #2\nmov r2, #3\nbx lr\n"
	writeFile(t, filepath.Join(root, "alice", "main.s"), shared)
	writeFile(t, filepath.Join(root, "bob", "main.s"), shared)

	cmd := scanCmd
	cmd.SetArgs([]string{})
	_ = cmd.Flags().Set("format", "json")
	_ = cmd.Flags().Set("noise-threshold", "2")
	_ = cmd.Flags().Set("guarantee-threshold", "2")
	_ = cmd.Flags().Set("min-matches", "1")

	var buf bytes.Buffer
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := cmd.RunE(cmd, []string{root})

	w.Close()
	os.Stdout = old
	buf.ReadFrom(r)

	if err != nil {
		t.Fatalf("runScan failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected JSON output on stdout")
	}
}

func TestGetFormatAndOutputFile(t *testing.T) {
	cmd := scanCmd
	_ = cmd.Flags().Set("format", "markdown")
	_ = cmd.Flags().Set("output", "")

	if got := getFormat(cmd); got != "markdown" {
		t.Fatalf("getFormat() = %q, want markdown", got)
	}
	if got := getOutputFile(cmd); got != "" {
		t.Fatalf("getOutputFile() = %q, want empty", got)
	}
}
