package bpe

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const persistMagic = "BPE1"

// Codec is the user-facing façade pairing a Vocabulary with an
// Encoder/Decoder, matching original_source's Codec trait impl for
// BytePairEncodingCodec. Construct one via Trainer.IntoCodec, NewCodec,
// or Load.
type Codec struct {
	vocab   *Vocabulary
	encoder *Encoder
	decoder *Decoder
}

func newCodec(vocab *Vocabulary) *Codec {
	return &Codec{
		vocab:   vocab,
		encoder: NewEncoder(vocab),
		decoder: NewDecoder(vocab),
	}
}

// NewCodec wraps an already-built Vocabulary (e.g. from LoadTiktoken)
// into a Codec, for callers that did not train one via Trainer.
func NewCodec(vocab *Vocabulary) *Codec {
	return newCodec(vocab)
}

// Encode tokenizes input with greedy longest-match.
func (c *Codec) Encode(input string) ([]Token, error) {
	if len(input) == 0 {
		return nil, nil
	}
	return c.encoder.EncodeTokens([]byte(input)), nil
}

// Decode reconstructs text from tokens, failing with ErrUnknownToken or
// ErrInvalidInput rather than returning malformed output.
func (c *Codec) Decode(tokens []Token) (string, error) {
	return c.decoder.Decode(tokens)
}

// VocabSize returns the number of tokens in the codec's vocabulary.
func (c *Codec) VocabSize() int {
	return c.vocab.Size()
}

// Vocabulary returns the codec's underlying vocabulary, for callers
// that need the lower-level Encoder/Vocabulary.LongestMatch surface
// directly (pkg/compress).
func (c *Codec) Vocabulary() *Vocabulary {
	return c.vocab
}

// Save writes the codec's vocabulary to path in the binary format from
// SPEC_FULL.md §6.1: a 4-byte magic, the total vocabulary size, a
// CRC32 of the rule payload, then one length-prefixed byte-sequence
// per composite token. The 256 base rules are never serialized, since
// every Vocabulary already starts with them.
func (c *Codec) Save(path string) error {
	var payload bytes.Buffer
	for id := NumBaseTokens; id < c.vocab.Size(); id++ {
		rule, _ := c.vocab.GetToken(id)
		if len(rule) > 0xffff {
			return fmt.Errorf("bpe: save: token %d byte-sequence longer than %d: %w", id, 0xffff, ErrIoError)
		}
		if err := binary.Write(&payload, binary.LittleEndian, uint16(len(rule))); err != nil {
			return fmt.Errorf("bpe: save %s: %w", path, ErrIoError)
		}
		payload.Write(rule)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bpe: save %s: %w", path, ErrIoError)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(persistMagic); err != nil {
		return fmt.Errorf("bpe: save %s: %w", path, ErrIoError)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(c.vocab.Size())); err != nil {
		return fmt.Errorf("bpe: save %s: %w", path, ErrIoError)
	}
	if err := binary.Write(w, binary.LittleEndian, crc32.ChecksumIEEE(payload.Bytes())); err != nil {
		return fmt.Errorf("bpe: save %s: %w", path, ErrIoError)
	}
	if _, err := w.Write(payload.Bytes()); err != nil {
		return fmt.Errorf("bpe: save %s: %w", path, ErrIoError)
	}
	return w.Flush()
}

// Load reads a codec previously written by Save.
func Load(path string) (*Codec, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bpe: load %s: %w", path, ErrIoError)
	}
	defer f.Close()

	var magic [4]byte
	if _, err := io.ReadFull(f, magic[:]); err != nil || string(magic[:]) != persistMagic {
		return nil, fmt.Errorf("bpe: load %s: bad magic: %w", path, ErrIoError)
	}

	var vocabSize uint32
	if err := binary.Read(f, binary.LittleEndian, &vocabSize); err != nil {
		return nil, fmt.Errorf("bpe: load %s: %w", path, ErrIoError)
	}
	if vocabSize < NumBaseTokens {
		return nil, fmt.Errorf("bpe: load %s: vocab size %d smaller than base %d: %w", path, vocabSize, NumBaseTokens, ErrIoError)
	}

	var wantCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &wantCRC); err != nil {
		return nil, fmt.Errorf("bpe: load %s: %w", path, ErrIoError)
	}

	payload, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("bpe: load %s: %w", path, ErrIoError)
	}
	if gotCRC := crc32.ChecksumIEEE(payload); gotCRC != wantCRC {
		return nil, fmt.Errorf("bpe: load %s: crc32 mismatch (want %x, got %x): %w", path, wantCRC, gotCRC, ErrIoError)
	}

	vocab := newBaseVocabulary()
	r := bytes.NewReader(payload)
	for id := Token(NumBaseTokens); id < Token(vocabSize); id++ {
		var length uint16
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, fmt.Errorf("bpe: load %s: truncated rule for token %v: %w", path, id, ErrIoError)
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, fmt.Errorf("bpe: load %s: truncated rule bytes for token %v: %w", path, id, ErrIoError)
		}
		if err := vocab.InstallRule(id, buf); err != nil {
			return nil, fmt.Errorf("bpe: load %s: %w", path, err)
		}
	}

	return newCodec(vocab), nil
}
