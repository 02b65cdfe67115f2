// Package starter implements starter-code subtraction: removing any token
// range from an input file's hashed stream that verbatim-matches a span of
// instructor-distributed starter code.
package starter

import (
	"sort"

	"github.com/coursewatch/clonewatch/pkg/clone/hashdb"
	"github.com/coursewatch/clonewatch/pkg/clone/token"
)

// Subtract builds a temporary hash database from the input fingerprints
// (computed with the caller's real (k, t) parameters), then walks every
// ignored-corpus fingerprint hash (computed with window size 1, so every
// k-gram of the starter corpus is represented) against that database.
// Every matched byte span is converted to a token-index range within the
// corresponding file's full hashed stream, overlapping ranges per file are
// merged, and the covered tokens are deleted. The returned map holds a new
// slice per file; rawStreams itself is left untouched.
func Subtract(
	rawStreams map[hashdb.FileID][]token.HashedToken,
	inputFingerprints map[hashdb.FileID][]token.HashedToken,
	ignoredFingerprint []token.HashedToken,
) map[hashdb.FileID][]token.HashedToken {
	db := hashdb.Build(inputFingerprints)

	ranges := make(map[hashdb.FileID][][2]int)
	for _, ig := range ignoredFingerprint {
		for _, loc := range db[ig.Hash] {
			stream := rawStreams[loc.File]
			start, end, ok := hashdb.LocateSpan(stream, loc.Span)
			if !ok {
				continue
			}
			ranges[loc.File] = append(ranges[loc.File], [2]int{start, end})
		}
	}

	result := make(map[hashdb.FileID][]token.HashedToken, len(rawStreams))
	for file, stream := range rawStreams {
		merged := mergeRanges(ranges[file])
		result[file] = deleteRanges(stream, merged)
	}
	return result
}

// mergeRanges sorts and coalesces overlapping or adjacent [start, end)
// index ranges.
func mergeRanges(ranges [][2]int) [][2]int {
	if len(ranges) == 0 {
		return nil
	}
	sorted := make([][2]int, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i][0] < sorted[j][0] })

	merged := [][2]int{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if r[0] <= last[1] {
			if r[1] > last[1] {
				last[1] = r[1]
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// deleteRanges returns stream with every index covered by ranges removed,
// preserving relative order of the surviving elements.
func deleteRanges(stream []token.HashedToken, ranges [][2]int) []token.HashedToken {
	if len(ranges) == 0 {
		out := make([]token.HashedToken, len(stream))
		copy(out, stream)
		return out
	}
	out := make([]token.HashedToken, 0, len(stream))
	ri := 0
	for i := 0; i < len(stream); i++ {
		for ri < len(ranges) && i >= ranges[ri][1] {
			ri++
		}
		if ri < len(ranges) && i >= ranges[ri][0] && i < ranges[ri][1] {
			continue
		}
		out = append(out, stream[i])
	}
	return out
}
