// Command enz compresses a single file into a .unz archive using
// adaptive BPE/DEFLATE compression.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vantacode/unz/pkg/compress"
	"github.com/vantacode/unz/pkg/vocab"
)

var (
	store   = flag.Bool("0", false, "store only (no compression)")
	quiet   = flag.Bool("q", false, "quiet operation")
	verbose = flag.Bool("v", false, "verbose operation")
	help    = flag.Bool("h", false, "display this help")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}
	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "enz: expected an archive path and one input file")
		fmt.Fprintln(os.Stderr, "Try 'enz -h' for more information.")
		os.Exit(1)
	}

	archivePath := flag.Arg(0)
	if !strings.HasSuffix(archivePath, ".unz") {
		archivePath += ".unz"
	}
	inputPath := flag.Arg(1)

	inputInfo, err := os.Stat(inputPath)
	if err != nil {
		fatal("cannot access '%s': %v", inputPath, err)
	}
	if inputInfo.IsDir() {
		fatal("'%s' is a directory (directories not supported)", inputPath)
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		fatal("cannot read '%s': %v", inputPath, err)
	}

	comp := compress.New(vocab.Default())

	start := time.Now()
	var output []byte
	if *store {
		output, err = comp.CompressFileAs(input, inputPath, inputInfo.ModTime(), compress.MethodStore)
	} else {
		output, err = comp.CompressFile(input, inputPath, inputInfo.ModTime())
	}
	if err != nil {
		fatal("compression failed: %v", err)
	}
	elapsed := time.Since(start)

	if err := os.WriteFile(archivePath, output, 0644); err != nil {
		fatal("cannot write '%s': %v", archivePath, err)
	}

	if !*quiet {
		info, _ := compress.GetFileInfo(output)
		ratio := 100.0 - float64(info.CompSize)*100/float64(info.Size)
		if info.Size == 0 || ratio < 0 {
			ratio = 0
		}
		fmt.Fprintf(os.Stderr, "  adding: %s (%s %.0f%%)\n", inputPath, strings.ToLower(info.Method.String()), ratio)
	}
	if *verbose {
		fmt.Fprintf(os.Stderr, "  %d bytes -> %d bytes in %v\n", len(input), len(output), elapsed.Round(time.Millisecond))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: enz [-0] [-qv] archive[.unz] file

Compress file into a single-file .unz archive using adaptive
BPE/DEFLATE compression. The compressor detects text vs. Go/Python/
JavaScript source and trains/selects the matching BPE vocabulary
automatically.

Options:
  -0   store only (no compression)
  -q   quiet operation
  -v   verbose operation
  -h   display this help

Examples:
  enz archive document.txt       Compress document.txt into archive.unz
  enz -0 backup.unz data.bin     Store without compression
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "enz: "+format+"\n", args...)
	os.Exit(1)
}
