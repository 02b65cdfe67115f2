package token

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// HashToken feeds a single token to a fresh xxhash digest and returns the
// finalized 64-bit code. A fresh xxhash.New() is allocated per call: Sum64
// is a pure read of the accumulated state, not a reset, so reusing a digest
// across tokens would make later hashes depend on earlier ones.
func HashToken(t Token) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeKind := func() { d.Write([]byte{byte(t.Kind)}) }
	switch t.Kind {
	case Symbol, KeySymbol, Comment, Character:
		writeKind()
		d.WriteString(t.Text)
	case RelativeSymbol:
		writeKind()
		binary.LittleEndian.PutUint64(buf[:], uint64(t.Offset))
		d.Write(buf[:])
	case Integer:
		writeKind()
		binary.LittleEndian.PutUint64(buf[:], uint64(t.Int))
		d.Write(buf[:])
	case FloatingPoint:
		writeKind()
		binary.LittleEndian.PutUint64(buf[:], t.FloatBits)
		d.Write(buf[:])
	default:
		writeKind()
	}
	return d.Sum64()
}

// HashByte hashes a single raw byte for byte-mode tokenization.
func HashByte(b byte) uint64 {
	d := xxhash.New()
	d.Write([]byte{b})
	return d.Sum64()
}

// HashKGram hashes a contiguous run of already-computed token hashes into
// one k-gram hash, again using a fresh digest so the result never depends
// on hashing performed for a previous k-gram.
func HashKGram(hashes []uint64) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, h := range hashes {
		binary.LittleEndian.PutUint64(buf[:], h)
		d.Write(buf[:])
	}
	return d.Sum64()
}
