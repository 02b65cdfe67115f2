package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coursewatch/clonewatch/pkg/config"
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

func TestScanGroupsFilesByProjectDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "main.s"), "mov r0, #1\n")
	writeFile(t, filepath.Join(root, "alice", "lib.S"), "mov r1, #2\n")
	writeFile(t, filepath.Join(root, "bob", "main.s"), "mov r0, #1\n")
	writeFile(t, filepath.Join(root, "bob", "notes.txt"), "ignore me\n")

	s := NewScanner(config.CorpusConfig{}, config.CacheConfig{Enabled: true}, nil)
	result, err := s.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Documents) != 3 {
		t.Fatalf("expected 3 source files, got %d: %+v", len(result.Documents), result.Documents)
	}

	byProject := map[string]int{}
	for _, f := range result.Documents {
		byProject[f.Project]++
	}
	if byProject["alice"] != 2 || byProject["bob"] != 1 {
		t.Fatalf("unexpected project grouping: %+v", byProject)
	}
}

func TestScanSeparatesStarterDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "starter", "template.s"), "push {lr}\n")
	writeFile(t, filepath.Join(root, "alice", "main.s"), "push {lr}\nmov r0, #1\n")

	s := NewScanner(config.CorpusConfig{StarterDir: "starter"}, config.CacheConfig{Enabled: true}, nil)
	result, err := s.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.IgnoredDocuments) != 1 || result.IgnoredDocuments[0].Project != "starter" {
		t.Fatalf("expected 1 starter document, got %+v", result.IgnoredDocuments)
	}
	if len(result.Documents) != 1 || result.Documents[0].Project != "alice" {
		t.Fatalf("expected 1 project document, got %+v", result.Documents)
	}
}

func TestScanAppliesExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "main.s"), "mov r0, #1\n")
	writeFile(t, filepath.Join(root, "alice", "build", "out.s"), "generated\n")

	s := NewScanner(config.CorpusConfig{Patterns: []string{"build/"}}, config.CacheConfig{Enabled: true}, nil)
	result, err := s.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Documents) != 1 {
		t.Fatalf("expected build/ to be excluded, got %+v", result.Documents)
	}
}

func TestScanMemoizesDigests(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "main.s"), "mov r0, #1\n")

	s := NewScanner(config.CorpusConfig{}, config.CacheConfig{Enabled: true}, nil)
	if _, err := s.Scan(root); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	path := filepath.Join(root, "alice", "main.s")
	d1 := s.Digest(path)
	if d1 == "" {
		t.Fatal("expected a memoized digest after Scan")
	}
	s.memoizeDigest(path, []byte("different content should not override"))
	if s.Digest(path) != d1 {
		t.Fatal("memoizeDigest must not overwrite an existing digest for the same path")
	}
}

func TestScanRejectsSymlinkEscapingProjectRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "secret.s"), "mov r9, #9999\n")
	writeFile(t, filepath.Join(root, "alice", "main.s"), "mov r0, #1\n")
	if err := os.Symlink(filepath.Join(outside, "secret.s"), filepath.Join(root, "alice", "escape.s")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	s := NewScanner(config.CorpusConfig{}, config.CacheConfig{Enabled: true}, nil)
	result, err := s.Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(result.Documents) != 1 {
		t.Fatalf("expected only the non-symlinked file, got %+v", result.Documents)
	}
	for _, f := range result.Documents {
		if f.Contents == "mov r9, #9999\n" {
			t.Fatal("symlink escaping project root must not be read")
		}
	}
	if len(result.Warnings) == 0 {
		t.Fatal("expected a warning about the rejected symlink")
	}
}

func TestScanSkipsDigestsWhenCacheDisabled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "main.s"), "mov r0, #1\n")

	s := NewScanner(config.CorpusConfig{}, config.CacheConfig{Enabled: false}, nil)
	if _, err := s.Scan(root); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	path := filepath.Join(root, "alice", "main.s")
	if d := s.Digest(path); d != "" {
		t.Fatalf("expected no memoized digest with cache.enabled=false, got %q", d)
	}
}
