// Package winnow implements the MOSS-style robust winnowing algorithm:
// k-gram hashing followed by rolling-window local-minimum selection.
package winnow

import (
	"fmt"

	"github.com/coursewatch/clonewatch/pkg/clone/token"
)

// ErrTooShort is returned when a hashed token stream has fewer than k
// tokens; the caller should emit a Fingerprint warning and exclude the
// file rather than treat this as fatal.
var ErrTooShort = fmt.Errorf("hashed token stream shorter than k")

// Fingerprint winnows a hashed token stream with k-gram size k and
// window size w, returning the selected (hash, span) entries ordered by
// span start with consecutive duplicate hash values suppressed.
func Fingerprint(stream []token.HashedToken, k, w int) ([]token.HashedToken, error) {
	if k < 1 {
		return nil, fmt.Errorf("k-gram size must be at least 1, got %d", k)
	}
	if w < 1 {
		return nil, fmt.Errorf("window size must be at least 1, got %d", w)
	}
	if len(stream) < k {
		return nil, ErrTooShort
	}

	kgrams := kgramHashes(stream, k)
	selected := selectWindowMinima(hashesOf(kgrams), w)

	out := make([]token.HashedToken, 0, len(selected))
	var lastHash uint64
	haveLast := false
	for _, idx := range selected {
		kg := kgrams[idx]
		if haveLast && kg.Hash == lastHash {
			continue
		}
		out = append(out, kg)
		lastHash = kg.Hash
		haveLast = true
	}
	return out, nil
}

// kgramHashes slides a window of k tokens over stream, hashing each
// window's tuple of token hashes with a fresh hasher per k-gram. The
// k-gram's span is the combined span of its first and last token.
func kgramHashes(stream []token.HashedToken, k int) []token.HashedToken {
	n := len(stream) - k + 1
	out := make([]token.HashedToken, n)
	hashes := make([]uint64, k)
	for i := 0; i < n; i++ {
		for j := 0; j < k; j++ {
			hashes[j] = stream[i+j].Hash
		}
		out[i] = token.HashedToken{
			Hash: token.HashKGram(hashes),
			Span: token.Cover(stream[i].Span, stream[i+k-1].Span),
		}
	}
	return out
}

func hashesOf(kgrams []token.HashedToken) []uint64 {
	hs := make([]uint64, len(kgrams))
	for i, kg := range kgrams {
		hs[i] = kg.Hash
	}
	return hs
}

// selectWindowMinima returns, for each consecutive window of w hashes, the
// index of the minimum value within that window, breaking ties by
// rightmost position (the latest minimum wins). It uses a deque-based O(n)
// rolling-minimum scan that tracks index so an expired minimum is detected
// and dropped. If there are fewer than w hashes in total, the whole slice
// is treated as a single window.
func selectWindowMinima(hashes []uint64, w int) []int {
	if len(hashes) == 0 {
		return nil
	}
	if w < 1 {
		w = 1
	}
	if w > len(hashes) {
		w = len(hashes)
	}

	var deque []int // indices, hashes non-decreasing front-to-back with rightmost-tie-break
	var selected []int

	pushIndex := func(i int) {
		for len(deque) > 0 && hashes[deque[len(deque)-1]] >= hashes[i] {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
	}

	for i := 0; i < len(hashes); i++ {
		pushIndex(i)
		for deque[0] <= i-w {
			deque = deque[1:]
		}
		if i >= w-1 {
			selected = append(selected, deque[0])
		}
	}
	return selected
}
