// Package vocab provides built-in BPE vocabularies for compression,
// trained on first use from embedded sample corpora.
package vocab

import (
	"sync"

	"github.com/vantacode/unz/pkg/bpe"
)

// Merge counts for each built-in vocabulary. Language vocabularies are
// trained deeper than the plain-text one since source code has more
// multi-character idioms worth capturing as single tokens (indentation
// runs, keyword-plus-space pairs, common punctuation clusters).
const (
	textMerges = 900
	langMerges = 2000
)

// train runs a fresh Trainer to completion over corpus and returns its
// vocabulary. If the corpus is exhausted before merges rounds complete
// (ErrNoPairsAvailable), the partially trained vocabulary — still a
// valid, usable superset of the 256 base tokens — is returned rather
// than discarded; see Trainer.Train's no-rollback-per-call semantics.
func train(corpus []byte, merges int) *bpe.Vocabulary {
	trainer := bpe.NewTrainer()
	trainer.Train(corpus, merges)
	codec, err := trainer.IntoCodec()
	if err != nil {
		// IntoCodec only fails on a Trainer already consumed, which
		// cannot happen for a Trainer we just constructed above.
		panic(err)
	}
	return codec.Vocabulary()
}

// Language represents a programming language or text type.
type Language int

const (
	LangText       Language = iota // Natural language text (default)
	LangGo                         // Go source code
	LangPython                     // Python source code
	LangJavaScript                 // JavaScript/TypeScript source code
)

func (l Language) String() string {
	switch l {
	case LangGo:
		return "Go"
	case LangPython:
		return "Python"
	case LangJavaScript:
		return "JavaScript"
	default:
		return "Text"
	}
}

var (
	defaultOnce  sync.Once
	defaultVocab *bpe.Vocabulary

	goOnce  sync.Once
	goVocab *bpe.Vocabulary

	pythonOnce  sync.Once
	pythonVocab *bpe.Vocabulary

	jsOnce  sync.Once
	jsVocab *bpe.Vocabulary
)

// Default returns the default BPE vocabulary for natural language text,
// training it on first call and reusing it afterward.
func Default() *bpe.Vocabulary {
	defaultOnce.Do(func() {
		defaultVocab = train(textCorpus, textMerges)
	})
	return defaultVocab
}

// ForLanguage returns the BPE vocabulary for the specified language,
// training it on first call and reusing it afterward. Unrecognized
// languages fall back to Default.
func ForLanguage(lang Language) *bpe.Vocabulary {
	switch lang {
	case LangGo:
		goOnce.Do(func() { goVocab = train(goCorpus, langMerges) })
		return goVocab
	case LangPython:
		pythonOnce.Do(func() { pythonVocab = train(pythonCorpus, langMerges) })
		return pythonVocab
	case LangJavaScript:
		jsOnce.Do(func() { jsVocab = train(jsCorpus, langMerges) })
		return jsVocab
	default:
		return Default()
	}
}

// Size returns the number of tokens in the default vocabulary.
func Size() int {
	return Default().Size()
}

// SizeForLanguage returns the number of tokens in a language vocabulary.
func SizeForLanguage(lang Language) int {
	return ForLanguage(lang).Size()
}
