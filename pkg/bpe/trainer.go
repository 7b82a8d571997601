package bpe

import "fmt"

// Trainer learns a Vocabulary from a corpus by iteratively merging the
// most frequent adjacent token pair, exactly as described in
// SPEC_FULL.md §4.4. It is grounded on original_source's
// BytePairEncodingCodecTrainer: a derivation map from each composite
// token to the pair it was merged from, a pair-count-and-pick-winner
// step per round, and a non-overlapping left-to-right stream rewrite.
//
// A Trainer is single-use: once IntoCodec has consumed it, further
// calls return ErrTrainerConsumed.
type Trainer struct {
	vocab      *Vocabulary
	derivation map[Token]tokenPair
	nextID     Token
	consumed   bool

	sampleAfter int // merge index at which to truncate; 0 disables sampling
	sampleSize  int
}

// NewTrainer returns a Trainer seeded with the 256 base byte rules and
// no merges yet performed.
func NewTrainer() *Trainer {
	return &Trainer{
		vocab:      newBaseVocabulary(),
		derivation: make(map[Token]tokenPair),
		nextID:     NumBaseTokens,
	}
}

// EnableSampling configures the corpus-truncation heuristic original_source
// hardcoded as "after 2000 merges, keep only the first 200000 tokens"
// (see SPEC_FULL.md §9, Open Question #2). Passing afterMerges <= 0
// disables sampling, which is also the default for a new Trainer.
// Sampling only ever shrinks the in-flight token stream; it has no
// effect if the stream is already at or below sampleSize tokens when
// the configured merge index is reached.
func (t *Trainer) EnableSampling(afterMerges, sampleSize int) {
	t.sampleAfter = afterMerges
	t.sampleSize = sampleSize
}

// Train runs additionalMerges more merge rounds against corpus,
// extending the Trainer's vocabulary in place. Each round: count every
// adjacent token pair in the current stream, pick the most frequent
// (breaking ties on the lexicographically smallest pair per
// tokenPair.less), install it as a new rule, and rewrite the stream by
// replacing non-overlapping left-to-right occurrences of the pair with
// the new token.
//
// Train fails with ErrNoPairsAvailable if a round finds the stream has
// fewer than two tokens left to pair up; merges already installed by
// earlier rounds in the same call remain in the vocabulary (no
// all-or-nothing rollback — see SPEC_FULL.md §4.4 edge cases).
func (t *Trainer) Train(corpus []byte, additionalMerges int) error {
	if t.consumed {
		return ErrTrainerConsumed
	}
	if additionalMerges < 0 {
		return fmt.Errorf("bpe: additionalMerges must be >= 0, got %d", additionalMerges)
	}
	if additionalMerges == 0 {
		return nil
	}

	tokens := make([]Token, len(corpus))
	for i, b := range corpus {
		tokens[i] = Token(b)
	}
	// Replay merges learned by earlier calls, in order, so this call
	// continues from them instead of re-learning the same rules.
	for id := Token(NumBaseTokens); id < t.nextID; id++ {
		tokens = rewriteStream(tokens, t.derivation[id], id)
	}

	for merge := 0; merge < additionalMerges; merge++ {
		if t.sampleAfter > 0 && merge == t.sampleAfter && len(tokens) > t.sampleSize {
			tokens = append([]Token(nil), tokens[:t.sampleSize]...)
		}

		winner, found := pickWinner(countPairs(tokens))
		if !found {
			return fmt.Errorf("bpe: merge %d of %d: %w", merge, additionalMerges, ErrNoPairsAvailable)
		}

		newID := t.nextID
		bytes := append(t.expand(winner.a), t.expand(winner.b)...)
		if err := t.vocab.InstallRule(newID, bytes); err != nil {
			return fmt.Errorf("bpe: merge %d of %d: %w", merge, additionalMerges, err)
		}

		t.derivation[newID] = winner
		t.nextID++
		tokens = rewriteStream(tokens, winner, newID)
	}
	return nil
}

// expand recursively reconstructs the byte-sequence a token stands for
// by walking the derivation tree, matching original_source's
// decode_token. Base tokens bottom the recursion out directly from
// their byte value rather than a map lookup.
func (t *Trainer) expand(tok Token) []byte {
	if tok.IsBase() {
		return []byte{byte(tok)}
	}
	pair := t.derivation[tok]
	return append(t.expand(pair.a), t.expand(pair.b)...)
}

// countPairs tallies every adjacent (tokens[i], tokens[i+1]) occurrence.
func countPairs(tokens []Token) map[tokenPair]int {
	if len(tokens) < 2 {
		return nil
	}
	counts := make(map[tokenPair]int, len(tokens))
	for i := 0; i+1 < len(tokens); i++ {
		counts[tokenPair{tokens[i], tokens[i+1]}]++
	}
	return counts
}

// pickWinner returns the highest-count pair, breaking ties on
// tokenPair.less so that training is deterministic regardless of map
// iteration order.
func pickWinner(counts map[tokenPair]int) (tokenPair, bool) {
	var best tokenPair
	bestCount := 0
	found := false
	for pair, count := range counts {
		if !found || count > bestCount || (count == bestCount && pair.less(best)) {
			best, bestCount, found = pair, count, true
		}
	}
	return best, found
}

// rewriteStream replaces every non-overlapping left-to-right occurrence
// of winner with newID, scanning once through tokens.
func rewriteStream(tokens []Token, winner tokenPair, newID Token) []Token {
	out := make([]Token, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		if i+1 < len(tokens) && tokens[i] == winner.a && tokens[i+1] == winner.b {
			out = append(out, newID)
			i++
			continue
		}
		out = append(out, tokens[i])
	}
	return out
}

// IntoCodec consumes the Trainer and returns a Codec wrapping the
// vocabulary it learned. The Trainer cannot be used afterward.
func (t *Trainer) IntoCodec() (*Codec, error) {
	if t.consumed {
		return nil, ErrTrainerConsumed
	}
	t.consumed = true
	return newCodec(t.vocab), nil
}

// VocabSize returns the number of tokens learned so far, including the
// 256 base tokens.
func (t *Trainer) VocabSize() int {
	return t.vocab.Size()
}

// Train is a convenience wrapper for callers that just want a
// vocabulary from a single training pass, with no need for sampling
// configuration or reuse across multiple corpora. Merge failures
// (ErrNoPairsAvailable on a too-short corpus) are not surfaced; the
// vocabulary learned up to that point is returned regardless.
func Train(corpus []byte, additionalMerges int) *Vocabulary {
	t := NewTrainer()
	t.Train(corpus, additionalMerges)
	codec, _ := t.IntoCodec()
	return codec.Vocabulary()
}
