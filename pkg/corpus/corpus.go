// Package corpus discovers the source files that make up a clone-detection
// run: one directory per project, each holding a student's ARM assembly
// submission, plus an optional starter-code directory whose content should
// never itself count as evidence of copying.
//
// Discovery follows a filepath.WalkDir + go-git gitignore exclusion
// approach, generalized from single-directory language detection to
// project-subdirectory grouping.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/zeebo/blake3"

	"github.com/coursewatch/clonewatch/pkg/clone"
	"github.com/coursewatch/clonewatch/pkg/config"
	"github.com/coursewatch/clonewatch/pkg/source"
)

// defaultExtensions are the file suffixes treated as ARM assembly source.
// Matching is case-insensitive so both GNU as's lowercase .s convention and
// the preprocessed-source .S convention are picked up.
var defaultExtensions = []string{".s", ".asm"}

// Scanner walks a corpus root directory and produces clone.File values.
type Scanner struct {
	cfg      config.CorpusConfig
	cache    config.CacheConfig
	src      source.ContentSource
	matchers []gitignore.Matcher

	digestOf map[string]string // path -> hex digest, intra-run memoization only
}

// NewScanner creates a Scanner. A nil src defaults to reading the local
// filesystem. When cache.Enabled is false, digests are never memoized and
// Digest always reports "" — every path is hashed fresh, if at all.
func NewScanner(cfg config.CorpusConfig, cache config.CacheConfig, src source.ContentSource) *Scanner {
	if src == nil {
		src = source.NewFilesystem()
	}
	return &Scanner{cfg: cfg, cache: cache, src: src, digestOf: make(map[string]string)}
}

// Warning describes a file or directory that was skipped during discovery.
type Warning struct {
	Path    string
	Message string
}

// Result is the outcome of scanning a corpus root.
type Result struct {
	Documents        []clone.File
	IgnoredDocuments []clone.File
	Warnings         []Warning
}

// Scan walks root, treating each immediate subdirectory as one project
// (skipping the configured starter-code directory, if any), and returns
// every matching source file grouped into Documents and IgnoredDocuments.
func (s *Scanner) Scan(root string) (Result, error) {
	var result Result

	s.digestOf = make(map[string]string)
	s.loadExcludePatterns(root)

	entries, err := os.ReadDir(root)
	if err != nil {
		return result, fmt.Errorf("corpus: reading root %s: %w", root, err)
	}

	starterDir := ""
	if s.cfg.StarterDir != "" {
		starterDir = filepath.Clean(s.cfg.StarterDir)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		projectRoot := filepath.Join(root, name)
		if starterDir != "" && (name == starterDir || filepath.Clean(projectRoot) == starterDir) {
			files, warnings := s.walkProject(projectRoot)
			result.Warnings = append(result.Warnings, warnings...)
			for _, f := range files {
				result.IgnoredDocuments = append(result.IgnoredDocuments, clone.File{
					Project:  "starter",
					Path:     f.relPath,
					Contents: f.contents,
				})
			}
			continue
		}

		files, warnings := s.walkProject(projectRoot)
		result.Warnings = append(result.Warnings, warnings...)
		for _, f := range files {
			result.Documents = append(result.Documents, clone.File{
				Project:  name,
				Path:     f.relPath,
				Contents: f.contents,
			})
		}
	}

	return result, nil
}

type scannedFile struct {
	relPath  string
	contents string
}

func (s *Scanner) walkProject(root string) ([]scannedFile, []Warning) {
	var files []scannedFile
	var warnings []Warning

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return files, []Warning{{Path: root, Message: err.Error()}}
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return files, []Warning{{Path: root, Message: err.Error()}}
	}

	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			warnings = append(warnings, Warning{Path: path, Message: err.Error()})
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		// A submission directory is untrusted input: a symlink inside it
		// must not be followed outside its own project root.
		if d.Type()&fs.ModeSymlink != 0 {
			resolved, resolveErr := filepath.EvalSymlinks(path)
			if resolveErr != nil || !isWithinRoot(resolved, absRoot) {
				if resolveErr != nil {
					warnings = append(warnings, Warning{Path: path, Message: resolveErr.Error()})
				} else {
					warnings = append(warnings, Warning{Path: path, Message: "symlink escapes project root, skipped"})
				}
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if s.isExcluded(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.isExcluded(rel, false) {
			return nil
		}
		if !hasSourceExtension(path) {
			return nil
		}

		raw, readErr := s.src.Read(path)
		if readErr != nil {
			warnings = append(warnings, Warning{Path: path, Message: readErr.Error()})
			return nil
		}
		s.memoizeDigest(path, raw)
		files = append(files, scannedFile{relPath: rel, contents: string(raw)})
		return nil
	})

	sort.Slice(files, func(i, j int) bool { return files[i].relPath < files[j].relPath })
	return files, warnings
}

// isWithinRoot reports whether path is contained within root, guarding
// against a symlink (or relative path) that resolves outside of it.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	if absPath == root {
		return true
	}
	return strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// Digest returns the memoized blake3 content digest for a path previously
// read by the most recent Scan call, or "" if the path was not read. The
// digest is a hex-encoded BLAKE3 sum. The memo table is reset at the start
// of every Scan call: there is no TTL and nothing is persisted to disk,
// since a corpus scan's content never needs to survive past the run that
// read it.
func (s *Scanner) Digest(path string) string {
	return s.digestOf[path]
}

func (s *Scanner) memoizeDigest(path string, content []byte) {
	if !s.cache.Enabled {
		return
	}
	if _, ok := s.digestOf[path]; ok {
		return
	}
	sum := blake3.Sum256(content)
	s.digestOf[path] = fmt.Sprintf("%x", sum)
}

func hasSourceExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range defaultExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

func (s *Scanner) loadExcludePatterns(root string) {
	var patterns []gitignore.Pattern
	for _, p := range s.cfg.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(p, nil))
	}
	if s.cfg.Gitignore {
		gitRoot := findGitRoot(root)
		if gitRoot != "" {
			fs := osfs.New(gitRoot)
			if gitPatterns, err := gitignore.ReadPatterns(fs, nil); err == nil {
				patterns = append(patterns, gitPatterns...)
			}
		}
	}
	if len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

func (s *Scanner) isExcluded(relPath string, isDir bool) bool {
	if len(s.matchers) == 0 || relPath == "." {
		return false
	}
	parts := strings.Split(relPath, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

func findGitRoot(start string) string {
	dir := start
	for {
		info, err := os.Stat(filepath.Join(dir, ".git"))
		if err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
