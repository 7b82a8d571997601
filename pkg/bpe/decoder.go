package bpe

import (
	"fmt"
	"unicode/utf8"
)

// Decoder reconstructs text from a token sequence, enforcing the strict
// UTF-8 validity contract SPEC_FULL.md §4.3 requires of Codec.Decode. It
// is distinct from Encoder.Decode, which pkg/compress uses on arbitrary
// (possibly non-UTF-8) binary file contents and must not reject.
type Decoder struct {
	vocab *Vocabulary
}

// NewDecoder returns a Decoder over the given vocabulary.
func NewDecoder(vocab *Vocabulary) *Decoder {
	return &Decoder{vocab: vocab}
}

// Decode concatenates the byte-sequences for tokens and returns the
// result as a string. Fails with ErrUnknownToken if any token id is not
// installed, or ErrInvalidInput if the concatenated bytes are not valid
// UTF-8 (possible when tokens is a truncated prefix of a longer stream
// whose tokens span a UTF-8 boundary).
func (d *Decoder) Decode(tokens []Token) (string, error) {
	total := 0
	sequences := make([][]byte, len(tokens))
	for i, t := range tokens {
		bytes, err := d.vocab.DecodeOne(t)
		if err != nil {
			return "", err
		}
		sequences[i] = bytes
		total += len(bytes)
	}

	out := make([]byte, 0, total)
	for _, bytes := range sequences {
		out = append(out, bytes...)
	}

	if !utf8.Valid(out) {
		return "", fmt.Errorf("bpe: decoded %d bytes are not valid utf-8: %w", len(out), ErrInvalidInput)
	}
	return string(out), nil
}
