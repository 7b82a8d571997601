// Command mkdict trains a BPE vocabulary from a corpus file and emits
// it either as a binary codec file (for Load) or as generated Go
// source (a map[string]int suitable for embedding, e.g. an offline copy
// of a vocabulary that pkg/vocab otherwise trains in-process).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/vantacode/unz/pkg/bpe"
)

var (
	emit      = flag.String("emit", "bpe", "output format: \"bpe\" (binary codec) or \"go\" (generated source)")
	out       = flag.String("out", "", "output path for a single run (required for -emit bpe unless -sizes is set)")
	sizes     = flag.String("sizes", "", "comma-separated target vocab sizes to sweep, e.g. \"256,768,1280,20278\" (writes one .bpe per size next to the corpus; -emit bpe only)")
	numMerges = flag.Int("merges", 1500, "number of merge rounds to train (ignored when -sizes is set)")
	topN      = flag.Int("top", 10, "number of highest-impact tokens to report per size in the -sizes sweep")
	goPackage = flag.String("package", "vocab", "package name for -emit go output")
	varName   = flag.String("var", "tokenRanks", "variable name for -emit go output")
	help      = flag.Bool("h", false, "display this help")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help || flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fatal("reading corpus: %v", err)
	}

	if *sizes != "" {
		if *emit != "bpe" {
			fatal("-sizes only applies to -emit bpe")
		}
		runSweep(flag.Arg(0), data)
		return
	}

	start := time.Now()
	tokenRanks := trainBPE(data, *numMerges)
	elapsed := time.Since(start)

	fmt.Fprintf(os.Stderr, "mkdict: trained %d tokens from %d bytes in %s\n", len(tokenRanks), len(data), elapsed)

	switch *emit {
	case "go":
		w := io.Writer(os.Stdout)
		if *out != "" {
			f, err := os.Create(*out)
			if err != nil {
				fatal("creating %s: %v", *out, err)
			}
			defer f.Close()
			w = f
		}
		writeGoSource(w, tokenRanks)
	case "bpe":
		if *out == "" {
			fatal("-out is required for -emit bpe")
		}
		codec := bpe.NewCodec(bpe.NewVocabulary(tokenRanks))
		if err := codec.Save(*out); err != nil {
			fatal("saving %s: %v", *out, err)
		}
	default:
		fatal("unknown -emit value %q (want \"bpe\" or \"go\")", *emit)
	}
}

// runSweep trains a codec at each target vocabulary size in -sizes,
// writing one .bpe file per size next to corpusPath and printing the
// diagnostic summary from SPEC_FULL.md §6.2, matching the original
// Rust codec_trainer binary's demo_train_codec loop
// (target sizes [0, 256, 768, 1280, 20278]).
func runSweep(corpusPath string, data []byte) {
	base := strings.TrimSuffix(corpusPath, filepath.Ext(corpusPath))

	for _, field := range strings.Split(*sizes, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		target, err := strconv.Atoi(field)
		if err != nil {
			fatal("invalid target size %q: %v", field, err)
		}

		merges := target - bpe.NumBaseTokens
		if merges < 0 {
			merges = 0
		}

		trainer := bpe.NewTrainer()
		start := time.Now()
		trainErr := trainer.Train(data, merges)
		trainElapsed := time.Since(start)

		codec, err := trainer.IntoCodec()
		if err != nil {
			fatal("sweep at size %d: %v", target, err)
		}
		if trainErr != nil {
			fmt.Fprintf(os.Stderr, "mkdict: size %d: corpus exhausted after %d tokens (wanted %d merges): %v\n", target, codec.VocabSize()-bpe.NumBaseTokens, merges, trainErr)
		}

		decodeStart := time.Now()
		tokens, err := codec.Encode(string(data))
		if err != nil {
			fatal("sweep at size %d: encode: %v", target, err)
		}
		if _, err := codec.Decode(tokens); err != nil {
			fatal("sweep at size %d: decode: %v", target, err)
		}
		decodeElapsed := time.Since(decodeStart)

		outPath := fmt.Sprintf("%s.%d.bpe", base, target)
		if err := codec.Save(outPath); err != nil {
			fatal("sweep at size %d: saving %s: %v", target, outPath, err)
		}

		ratio := float64(len(data)) / float64(max(1, len(tokens)))
		fmt.Fprintf(os.Stderr, "mkdict: vocab=%d corpus=%dB tokens=%d ratio=%.2f train=%s encode+decode=%s -> %s\n",
			codec.VocabSize(), len(data), len(tokens), ratio, trainElapsed, decodeElapsed, outPath)
		for _, line := range topTokensByImpact(codec.Vocabulary(), tokens, *topN) {
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		}
	}
}

// topTokensByImpact reports the tokens that contribute the most bytes
// to the corpus's own encoding (impact = occurrence count x
// byte-length), the same heuristic original_source's diagnostic
// printing used to show which merges were "worth" the most.
func topTokensByImpact(vocab *bpe.Vocabulary, tokens []bpe.Token, n int) []string {
	counts := make(map[bpe.Token]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}

	type scored struct {
		tok    bpe.Token
		impact int
	}
	all := make([]scored, 0, len(counts))
	for t, c := range counts {
		if t.IsBase() {
			continue
		}
		bytes, ok := vocab.GetToken(int(t))
		if !ok {
			continue
		}
		all = append(all, scored{t, c * len(bytes)})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].impact > all[j].impact })
	if len(all) > n {
		all = all[:n]
	}

	lines := make([]string, len(all))
	for i, s := range all {
		bytes, _ := vocab.GetToken(int(s.tok))
		lines[i] = fmt.Sprintf("%-6d impact=%-6d %q", s.tok, s.impact, bytes)
	}
	return lines
}

// trainBPE runs numMerges rounds of training over data and returns the
// resulting bytes-to-id ranks, always including the 256 base tokens
// regardless of corpus content. Training is best-effort: if a merge
// round runs out of pairs before numMerges is reached (e.g. an empty
// or very short corpus), the tokens merged so far are still returned
// rather than discarded.
func trainBPE(data []byte, numMerges int) map[string]int {
	trainer := bpe.NewTrainer()
	if numMerges > 0 {
		trainer.Train(data, numMerges)
	}
	codec, err := trainer.IntoCodec()
	if err != nil {
		return nil
	}
	return codec.Vocabulary().AllTokens()
}

// goStringLiteral renders s as a Go string literal, escaping
// non-printable and invalid-UTF-8 bytes the way the compiler's own
// %q verb does.
func goStringLiteral(s string) string {
	return fmt.Sprintf("%q", s)
}

// writeGoSource writes tokenRanks as a generated Go source file
// declaring a map[string]int, ordered by rank for a stable diff.
func writeGoSource(w io.Writer, tokenRanks map[string]int) {
	fmt.Fprintf(w, "// Code generated by cmd/mkdict from %d merges; DO NOT EDIT.\n\n", *numMerges)
	fmt.Fprintf(w, "package %s\n\n", *goPackage)
	fmt.Fprintf(w, "var %s = map[string]int{\n", *varName)

	keys := make([]string, 0, len(tokenRanks))
	for k := range tokenRanks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return tokenRanks[keys[i]] < tokenRanks[keys[j]] })

	for _, k := range keys {
		fmt.Fprintf(w, "\t%s: %d,\n", goStringLiteral(k), tokenRanks[k])
	}
	fmt.Fprintf(w, "}\n")
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: mkdict [-emit bpe|go] [-out path] [-merges n] corpus
       mkdict -sizes 256,768,1280,20278 corpus

Train a BPE vocabulary from corpus and emit it as a binary codec file
or as generated Go source, or sweep a fixed set of target vocabulary
sizes and write one .bpe file per size next to corpus.

Options:
  -emit format   output format: "bpe" or "go" (default "bpe")
  -out path      output path (required for -emit bpe, stdout if empty for -emit go)
  -sizes list    comma-separated target vocab sizes to sweep (-emit bpe only)
  -top n         tokens to report per size in a -sizes sweep (default 10)
  -merges n      number of merge rounds to train, single-run mode (default 1500)
  -package name  package name for -emit go output (default "vocab")
  -var name      variable name for -emit go output (default "tokenRanks")
  -h             display this help

Examples:
  mkdict -out dict.bpe corpus.txt
  mkdict -sizes 256,768,1280,20278 corpus.txt
  mkdict -emit go -package vocab -var GoTokens -merges 2000 corpus.go.txt > gotokens.go
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "mkdict: "+format+"\n", args...)
	os.Exit(1)
}
