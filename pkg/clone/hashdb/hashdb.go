// Package hashdb implements the identity-keyed hash database: a mapping
// from a 64-bit fingerprint hash to every (file, span) occurrence of that
// hash across the corpus.
//
// An "identity hasher" is the textbook fit here — a hash function for
// the map's key that returns the key unchanged, since the keys here are
// already uniformly distributed 64-bit hashes produced by winnowing, and
// re-hashing them under a general-purpose hash function is pure overhead.
// DB does not use an identity hasher: it is a plain Go map[uint64][]Location,
// and the Go runtime hashes every uint64 key with its own seeded hash
// function on insert and lookup. Go maps offer no hook for replacing that
// hash function.
package hashdb

import "github.com/coursewatch/clonewatch/pkg/clone/token"

// FileID identifies a single file within a single project. Equality is
// structural (both fields compare equal), which is exactly what a Go
// struct used as a map key or compared with == already gives us.
type FileID struct {
	Project string
	Path    string
}

// Location is a (file, byte span) pair: one occurrence of a hash.
type Location struct {
	File FileID
	Span token.Span
}

// DB maps a fingerprint hash to every location where it occurred.
type DB map[uint64][]Location

// Build constructs a hash database from a set of per-file fingerprints.
func Build(fingerprints map[FileID][]token.HashedToken) DB {
	db := make(DB)
	for file, fp := range fingerprints {
		for _, h := range fp {
			db[h.Hash] = append(db[h.Hash], Location{File: file, Span: h.Span})
		}
	}
	return db
}

// ProjectCount returns the number of distinct projects with at least one
// location recorded against hash.
func (db DB) ProjectCount(hash uint64) int {
	seen := make(map[string]struct{})
	for _, loc := range db[hash] {
		seen[loc.File.Project] = struct{}{}
	}
	return len(seen)
}

// LocateSpan finds the index range [start, end) into stream whose tokens
// exactly cover span: the index whose span starts at span.Start, and the
// rightmost index whose span ends at span.End. Endpoints are matched
// exactly (no containment or overlap matching), which is the conservative
// reading when two spans could otherwise coincide ambiguously.
func LocateSpan(stream []token.HashedToken, span token.Span) (start, end int, ok bool) {
	start = -1
	end = -1
	for i, h := range stream {
		if h.Span.Start == span.Start && start == -1 {
			start = i
		}
		if h.Span.End == span.End {
			end = i
		}
	}
	if start == -1 || end == -1 || end < start {
		return 0, 0, false
	}
	return start, end + 1, true
}
