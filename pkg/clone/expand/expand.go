// Package expand implements optional match expansion: growing every
// winnowing-detected "seed" match to the longest contiguous run of equal
// token hashes surrounding it.
package expand

import (
	"github.com/coursewatch/clonewatch/pkg/clone/hashdb"
	"github.com/coursewatch/clonewatch/pkg/clone/matcher"
	"github.com/coursewatch/clonewatch/pkg/clone/token"
)

// Streams maps a file to its full (unwinnowed) hashed token stream,
// needed to walk outward from a seed match on both sides.
type Streams map[hashdb.FileID][]token.HashedToken

// Expand grows every match in pairs to its maximal identical run, then
// deduplicates exact span-pair equalities. Matches whose files are not
// present in streams (should not happen for well-formed input) are left
// unexpanded.
func Expand(pairs []matcher.ProjectPair, streams Streams) []matcher.ProjectPair {
	out := make([]matcher.ProjectPair, len(pairs))
	for i, pair := range pairs {
		out[i] = matcher.ProjectPair{ProjectA: pair.ProjectA, ProjectB: pair.ProjectB}
		seen := make(map[[2]token.Span]struct{})
		for _, m := range pair.Matches {
			expanded := expandOne(m, streams)
			key := [2]token.Span{expanded.Loc1.Span, expanded.Loc2.Span}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out[i].Matches = append(out[i].Matches, expanded)
		}
	}
	return out
}

func expandOne(m matcher.Match, streams Streams) matcher.Match {
	s1, ok1 := streams[m.Loc1.File]
	s2, ok2 := streams[m.Loc2.File]
	if !ok1 || !ok2 {
		return m
	}

	i1s, i1e, ok := hashdb.LocateSpan(s1, m.Loc1.Span)
	if !ok {
		return m
	}
	i2s, i2e, ok := hashdb.LocateSpan(s2, m.Loc2.Span)
	if !ok {
		return m
	}
	// LocateSpan returns a half-open [start, end) range; expansion walks
	// inclusive endpoints.
	i1e--
	i2e--

	for i1s > 0 && i2s > 0 && s1[i1s-1].Hash == s2[i2s-1].Hash {
		i1s--
		i2s--
	}
	for i1e < len(s1)-1 && i2e < len(s2)-1 && s1[i1e+1].Hash == s2[i2e+1].Hash {
		i1e++
		i2e++
	}

	return matcher.Match{
		Loc1: matcher.Location{File: m.Loc1.File, Span: token.Span{Start: s1[i1s].Span.Start, End: s1[i1e].Span.End}},
		Loc2: matcher.Location{File: m.Loc2.File, Span: token.Span{Start: s2[i2s].Span.Start, End: s2[i2e].Span.End}},
	}
}
