// Command benchmark reports training and round-trip throughput for
// the BPE codec across a few small sample corpora (prose, Go, Python)
// defined in this file.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vantacode/unz/pkg/bpe"
	"github.com/vantacode/unz/pkg/compress"
	"github.com/vantacode/unz/pkg/vocab"
)

var (
	merges = flag.Int("merges", 1500, "number of merge rounds to train per corpus")
	help   = flag.Bool("h", false, "display this help")
)

type corpus struct {
	name string
	data []byte
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if *help {
		usage()
		os.Exit(0)
	}

	corpora := []corpus{
		{"text", []byte(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 400))},
		{"go", goSample()},
		{"python", pythonSample()},
	}

	fmt.Printf("%-8s %10s %12s %12s %12s %8s\n", "corpus", "bytes", "train", "encode", "decode", "ratio")
	for _, c := range corpora {
		report(c)
	}
}

func report(c corpus) {
	trainer := bpe.NewTrainer()

	start := time.Now()
	trainer.Train(c.data, *merges)
	trainTime := time.Since(start)

	codec, err := trainer.IntoCodec()
	if err != nil {
		fmt.Fprintf(os.Stderr, "benchmark: %s: %v\n", c.name, err)
		return
	}

	start = time.Now()
	tokens, err := codec.Encode(string(c.data))
	if err != nil {
		fmt.Fprintf(os.Stderr, "benchmark: %s: encode: %v\n", c.name, err)
		return
	}
	encodeTime := time.Since(start)

	start = time.Now()
	if _, err := codec.Decode(tokens); err != nil {
		fmt.Fprintf(os.Stderr, "benchmark: %s: decode: %v\n", c.name, err)
		return
	}
	decodeTime := time.Since(start)

	ratio := float64(len(c.data)) / float64(max(1, len(tokens)))
	fmt.Printf("%-8s %10d %12s %12s %12s %7.2fx\n",
		c.name, len(c.data), trainTime.Round(time.Microsecond), encodeTime.Round(time.Microsecond),
		decodeTime.Round(time.Microsecond), ratio)

	archiveRoundTrip(c)
}

// archiveRoundTrip exercises the same data through pkg/compress with
// pkg/vocab's built-in vocabularies (not the codec trained in report),
// confirming the archive round-trips with whichever method CompressFile
// picks and reporting the resulting archive size alongside the raw
// codec numbers.
func archiveRoundTrip(c corpus) {
	comp := compress.New(vocab.Default())
	archive, err := comp.CompressFile(c.data, c.name, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "benchmark: %s: archive: %v\n", c.name, err)
		return
	}

	info, err := compress.GetFileInfo(archive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "benchmark: %s: archive info: %v\n", c.name, err)
		return
	}

	restored, err := comp.Decompress(archive)
	if err != nil || string(restored) != string(c.data) {
		fmt.Fprintf(os.Stderr, "benchmark: %s: archive round-trip mismatch\n", c.name)
		return
	}

	fmt.Printf("         archive: %s, %d -> %d bytes\n", info.Method, info.Size, info.CompSize)
}

func goSample() []byte {
	return []byte(strings.Repeat(`package sample

import "fmt"

func Add(a, b int) int {
	return a + b
}

func main() {
	if err := run(); err != nil {
		fmt.Println("error:", err)
	}
}
`, 60))
}

func pythonSample() []byte {
	return []byte(strings.Repeat(`def add(a, b):
    return a + b

class Sample:
    def __init__(self, value):
        self.value = value

    def __repr__(self):
        return f"Sample({self.value})"
`, 60))
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: benchmark [-merges n]

Train a BPE codec over each of a few built-in sample corpora and report
training/encode/decode throughput, the token compression ratio, and
the archive size pkg/compress achieves on the same data.

Options:
  -merges n   number of merge rounds to train per corpus (default 1500)
  -h          display this help
`)
}
