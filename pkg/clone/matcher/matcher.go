// Package matcher implements common-hash filtering, pairwise match
// extraction across distinct projects, and the final sorting/filtering
// pass over ProjectPair results.
package matcher

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/coursewatch/clonewatch/pkg/clone/hashdb"
)

// Location is a (file, byte span) pair, reused from hashdb.
type Location = hashdb.Location

// Match pairs two Locations drawn from two different projects.
type Match struct {
	Loc1 Location `json:"loc1"`
	Loc2 Location `json:"loc2"`
}

// ProjectPair buckets every Match found between two distinct projects.
// ProjectA is always lexicographically less than ProjectB.
type ProjectPair struct {
	ProjectA string  `json:"project_a"`
	ProjectB string  `json:"project_b"`
	Matches  []Match `json:"matches"`
}

// FilterCommonHashes drops every hash whose distinct-project count is
// >= threshold * totalProjects. A threshold <= 0 disables filtering.
//
// Each hash's contributing projects are recorded as bits in a
// RoaringBitmap rather than a map[string]struct{}: a corpus of hundreds of
// student projects times the number of distinct winnowed hashes is
// exactly the regime a compressed bitmap is built for.
func FilterCommonHashes(db hashdb.DB, threshold float64, totalProjects int) hashdb.DB {
	if threshold <= 0 {
		return db
	}

	projectID := make(map[string]uint32)
	var nextID uint32

	cutoff := threshold * float64(totalProjects)
	out := make(hashdb.DB, len(db))

	for hash, locs := range db {
		bm := roaring.New()
		for _, loc := range locs {
			id, ok := projectID[loc.File.Project]
			if !ok {
				id = nextID
				projectID[loc.File.Project] = id
				nextID++
			}
			bm.Add(id)
		}
		if float64(bm.GetCardinality()) >= cutoff {
			continue
		}
		out[hash] = locs
	}
	return out
}

// ExtractPairs groups every database entry with at least two locations by
// project, then emits one Match per element of the Cartesian product of
// every unordered pair of distinct projects, bucketed into ProjectPair
// entries keyed by (projectA, projectB).
func ExtractPairs(db hashdb.DB) []ProjectPair {
	pairs := make(map[[2]string]*ProjectPair)

	for _, locs := range db {
		if len(locs) < 2 {
			continue
		}
		byProject := make(map[string][]Location)
		for _, l := range locs {
			byProject[l.File.Project] = append(byProject[l.File.Project], l)
		}
		if len(byProject) < 2 {
			continue
		}

		projects := make([]string, 0, len(byProject))
		for p := range byProject {
			projects = append(projects, p)
		}
		sort.Strings(projects)

		for i := 0; i < len(projects); i++ {
			for j := i + 1; j < len(projects); j++ {
				pa, pb := projects[i], projects[j]
				key := [2]string{pa, pb}
				pp, ok := pairs[key]
				if !ok {
					pp = &ProjectPair{ProjectA: pa, ProjectB: pb}
					pairs[key] = pp
				}
				for _, la := range byProject[pa] {
					for _, lb := range byProject[pb] {
						pp.Matches = append(pp.Matches, Match{Loc1: la, Loc2: lb})
					}
				}
			}
		}
	}

	out := make([]ProjectPair, 0, len(pairs))
	for _, pp := range pairs {
		out = append(out, *pp)
	}
	return out
}

// FilterAndSort drops any ProjectPair with fewer than minMatches matches,
// sorts the surviving pairs by descending match count (ties by ProjectA,
// then ProjectB), and sorts the matches within each pair by
// (project_1_file, span.start) ascending, with the remaining span and
// Loc2 fields breaking ties, so the output order is deterministic.
func FilterAndSort(pairs []ProjectPair, minMatches int) []ProjectPair {
	filtered := make([]ProjectPair, 0, len(pairs))
	for _, p := range pairs {
		if len(p.Matches) < minMatches {
			continue
		}
		sortMatches(p.Matches)
		filtered = append(filtered, p)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if len(filtered[i].Matches) != len(filtered[j].Matches) {
			return len(filtered[i].Matches) > len(filtered[j].Matches)
		}
		if filtered[i].ProjectA != filtered[j].ProjectA {
			return filtered[i].ProjectA < filtered[j].ProjectA
		}
		return filtered[i].ProjectB < filtered[j].ProjectB
	})
	return filtered
}

func sortMatches(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].Loc1, matches[j].Loc1
		if a.File.Path != b.File.Path {
			return a.File.Path < b.File.Path
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End < b.Span.End
		}
		c, d := matches[i].Loc2, matches[j].Loc2
		if c.File.Path != d.File.Path {
			return c.File.Path < d.File.Path
		}
		if c.Span.Start != d.Span.Start {
			return c.Span.Start < d.Span.Start
		}
		return c.Span.End < d.Span.End
	})
}
