// Package clone implements the similarity detection pipeline: tokenize,
// fingerprint, subtract starter code, filter common hashes, extract
// pairwise matches, and optionally expand them. The package never imports
// encoding/json or any output-formatting library — it returns plain
// structs with json tags so a caller may serialize them however it likes.
package clone

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/coursewatch/clonewatch/pkg/clone/expand"
	"github.com/coursewatch/clonewatch/pkg/clone/hashdb"
	"github.com/coursewatch/clonewatch/pkg/clone/matcher"
	"github.com/coursewatch/clonewatch/pkg/clone/starter"
	"github.com/coursewatch/clonewatch/pkg/clone/token"
	"github.com/coursewatch/clonewatch/pkg/clone/winnow"
)

// Re-exported domain types so callers depend only on this package.
type (
	FileID      = hashdb.FileID
	Location    = matcher.Location
	Match       = matcher.Match
	ProjectPair = matcher.ProjectPair
)

// File is one source file belonging to one project.
type File struct {
	Project  string
	Path     string
	Contents string
}

func (f File) id() FileID { return FileID{Project: f.Project, Path: f.Path} }

// WarningKind classifies a Warning.
type WarningKind int

const (
	WarningArgs WarningKind = iota
	WarningInput
	WarningFingerprint
)

func (k WarningKind) String() string {
	switch k {
	case WarningArgs:
		return "Args"
	case WarningInput:
		return "Input"
	case WarningFingerprint:
		return "Fingerprint"
	default:
		return "Unknown"
	}
}

// Warning reports a non-fatal issue encountered during analysis. File is
// nil for Args warnings, which are not attributable to one file.
type Warning struct {
	File    *FileID     `json:"file,omitempty"`
	Message string      `json:"message"`
	Kind    WarningKind `json:"kind"`
}

// Options bundles every input the analyzer consumes.
type Options struct {
	NoiseThreshold      int
	GuaranteeThreshold  int
	MaxTokenOffset      int
	TokenizingStrategy  token.Strategy
	IgnoreWhitespace    bool
	ExpandMatches       bool
	MinMatches          int
	CommonHashThreshold float64
	Documents           []File
	IgnoredDocuments    []File
}

// Validate checks every precondition on Options, aggregating every
// violation with errors.Join instead of failing on the first one found —
// the same aggregate-all-errors style as pkg/config.Config.Validate — so a
// caller fixing a bad set of parameters sees every problem in one pass.
func (o Options) Validate() error {
	var errs []error

	if o.NoiseThreshold < 1 {
		errs = append(errs, errors.New("noise_threshold must be at least 1"))
	}
	if o.TokenizingStrategy != token.Relative && o.MaxTokenOffset != 0 {
		errs = append(errs, errors.New("max_token_offset must be 0 unless tokenizing_strategy is relative"))
	}
	if o.MaxTokenOffset < 0 {
		errs = append(errs, errors.New("max_token_offset must be non-negative"))
	}
	if o.GuaranteeThreshold < o.NoiseThreshold+o.MaxTokenOffset {
		errs = append(errs, fmt.Errorf(
			"guarantee_threshold (%d) must be >= noise_threshold + max_token_offset (%d)",
			o.GuaranteeThreshold, o.NoiseThreshold+o.MaxTokenOffset))
	}
	if o.IgnoreWhitespace && o.TokenizingStrategy == token.Bytes {
		errs = append(errs, errors.New("ignore_whitespace is not supported for byte-mode tokenization"))
	}
	if o.MinMatches < 0 {
		errs = append(errs, errors.New("min_matches must be non-negative"))
	}
	if o.CommonHashThreshold != 0 && (o.CommonHashThreshold < 0 || o.CommonHashThreshold > 1) {
		errs = append(errs, errors.New("common_hash_threshold must be in (0, 1] when set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

type fileResult struct {
	id      FileID
	raw     []token.HashedToken
	fp      []token.HashedToken
	warning *Warning
}

func processFile(f File, strategy token.Strategy, ignoreWhitespace bool, k, w int) fileResult {
	id := f.id()
	raw, err := token.TokenizeAndHash(f.Contents, strategy, ignoreWhitespace)
	if err != nil {
		id := id
		return fileResult{id: id, warning: &Warning{File: &id, Message: err.Error(), Kind: WarningInput}}
	}
	fp, err := winnow.Fingerprint(raw, k, w)
	if err != nil {
		id := id
		return fileResult{id: id, raw: raw, warning: &Warning{File: &id, Message: err.Error(), Kind: WarningFingerprint}}
	}
	return fileResult{id: id, raw: raw, fp: fp}
}

// tokenizeAndFingerprintAll runs processFile over every document using a
// bounded worker pool (§5: file-granularity parallelism for tokenize and
// fingerprint, serialized thereafter).
func tokenizeAndFingerprintAll(docs []File, strategy token.Strategy, ignoreWhitespace bool, k, w int) []fileResult {
	results := make([]fileResult, 0, len(docs))
	if len(docs) == 0 {
		return results
	}
	var mu sync.Mutex
	p := pool.New().WithMaxGoroutines(runtime.NumCPU())
	for _, f := range docs {
		f := f
		p.Go(func() {
			r := processFile(f, strategy, ignoreWhitespace, k, w)
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
		})
	}
	p.Wait()
	return results
}

// Analyze runs the full pipeline and returns the deterministic, sorted
// ProjectPair list alongside every Warning encountered. No error returned
// here is fatal after Validate passes: the analyzer always returns a
// (possibly empty) result along with its warnings.
func Analyze(opts Options) ([]ProjectPair, []Warning, error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	w := opts.GuaranteeThreshold - opts.MaxTokenOffset - opts.NoiseThreshold + 1

	results := tokenizeAndFingerprintAll(opts.Documents, opts.TokenizingStrategy, opts.IgnoreWhitespace, opts.NoiseThreshold, w)

	var warnings []Warning
	rawStreams := make(map[FileID][]token.HashedToken, len(results))
	fingerprints := make(map[FileID][]token.HashedToken, len(results))
	for _, r := range results {
		if r.warning != nil {
			warnings = append(warnings, *r.warning)
		}
		if r.raw != nil {
			rawStreams[r.id] = r.raw
		}
		if r.fp != nil {
			fingerprints[r.id] = r.fp
		}
	}

	if len(opts.IgnoredDocuments) > 0 {
		ignoredResults := tokenizeAndFingerprintAll(opts.IgnoredDocuments, opts.TokenizingStrategy, opts.IgnoreWhitespace, opts.NoiseThreshold, 1)
		var ignoredFP []token.HashedToken
		for _, r := range ignoredResults {
			if r.warning != nil {
				warnings = append(warnings, *r.warning)
			}
			ignoredFP = append(ignoredFP, r.fp...)
		}
		rawStreams = starter.Subtract(rawStreams, fingerprints, ignoredFP)
		// Re-fingerprint the pruned raw streams so the database reflects
		// starter-subtracted content.
		fingerprints = make(map[FileID][]token.HashedToken, len(rawStreams))
		for id, raw := range rawStreams {
			fp, err := winnow.Fingerprint(raw, opts.NoiseThreshold, w)
			if err != nil {
				warnings = append(warnings, Warning{File: &id, Message: err.Error(), Kind: WarningFingerprint})
				continue
			}
			fingerprints[id] = fp
		}
	}

	db := hashdb.Build(fingerprints)

	if opts.CommonHashThreshold > 0 {
		projects := make(map[string]struct{})
		for id := range fingerprints {
			projects[id.Project] = struct{}{}
		}
		db = matcher.FilterCommonHashes(db, opts.CommonHashThreshold, len(projects))
	}

	pairs := matcher.ExtractPairs(db)

	if opts.ExpandMatches {
		pairs = expand.Expand(pairs, expand.Streams(rawStreams))
	}

	pairs = matcher.FilterAndSort(pairs, opts.MinMatches)

	return pairs, warnings, nil
}
