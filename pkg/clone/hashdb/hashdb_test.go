package hashdb

import (
	"testing"

	"github.com/coursewatch/clonewatch/pkg/clone/token"
)

func TestBuildGroupsByHash(t *testing.T) {
	f1 := FileID{Project: "P1", Path: "f1"}
	f2 := FileID{Project: "P2", Path: "f"}

	fps := map[FileID][]token.HashedToken{
		f1: {{Hash: 42, Span: token.Span{Start: 0, End: 3}}},
		f2: {{Hash: 42, Span: token.Span{Start: 3, End: 6}}},
	}

	db := Build(fps)
	locs := db[42]
	if len(locs) != 2 {
		t.Fatalf("expected 2 locations for hash 42, got %d", len(locs))
	}
	if db.ProjectCount(42) != 2 {
		t.Fatalf("expected 2 distinct projects, got %d", db.ProjectCount(42))
	}
}

func TestLocateSpanExactEndpoints(t *testing.T) {
	stream := []token.HashedToken{
		{Hash: 1, Span: token.Span{Start: 0, End: 3}},
		{Hash: 2, Span: token.Span{Start: 3, End: 6}},
		{Hash: 3, Span: token.Span{Start: 6, End: 9}},
	}
	start, end, ok := LocateSpan(stream, token.Span{Start: 3, End: 9})
	if !ok {
		t.Fatal("expected a located range")
	}
	if start != 1 || end != 3 {
		t.Fatalf("got [%d,%d) want [1,3)", start, end)
	}
}

func TestLocateSpanNoMatch(t *testing.T) {
	stream := []token.HashedToken{
		{Hash: 1, Span: token.Span{Start: 0, End: 3}},
	}
	_, _, ok := LocateSpan(stream, token.Span{Start: 5, End: 9})
	if ok {
		t.Fatal("expected no match")
	}
}
