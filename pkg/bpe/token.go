// Package bpe implements byte-level Byte Pair Encoding: a trainer that
// learns a vocabulary of variable-length byte sequences from a corpus,
// and an encoder/decoder pair that losslessly maps UTF-8 text to and
// from token sequences using that vocabulary.
package bpe

import "fmt"

// Token identifies a vocabulary entry. Ids 0..255 alias raw byte values;
// every id from 256 onward is assigned in merge order during training.
type Token uint32

// NumBaseTokens is the number of single-byte tokens every Vocabulary
// starts with. Composite tokens are assigned ids starting here.
const NumBaseTokens = 256

// IsBase reports whether t is one of the 256 reserved single-byte
// tokens, in which case its byte-sequence is exactly []byte{byte(t)}.
func (t Token) IsBase() bool {
	return t < NumBaseTokens
}

func (t Token) String() string {
	if t.IsBase() {
		b := byte(t)
		if b >= 0x20 && b < 0x7f {
			return fmt.Sprintf("T<%d(%q)>", uint32(t), rune(b))
		}
	}
	return fmt.Sprintf("T<%d>", uint32(t))
}

// tokenPair is a (left, right) pair of adjacent tokens, comparable so it
// can key a map directly.
type tokenPair struct {
	a, b Token
}

// less implements the deterministic tie-break from SPEC_FULL.md §9,
// Open Question #1: lexicographic order on (a, b).
func (p tokenPair) less(other tokenPair) bool {
	if p.a != other.a {
		return p.a < other.a
	}
	return p.b < other.b
}
