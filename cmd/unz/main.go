// Command unz extracts or inspects .unz archives produced by enz.
package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"os"

	"github.com/vantacode/unz/pkg/compress"
	"github.com/vantacode/unz/pkg/vocab"
)

var (
	list    = flag.Bool("l", false, "show archive info instead of extracting")
	test    = flag.Bool("t", false, "test archive integrity without writing output")
	quiet   = flag.Bool("q", false, "quiet operation")
	pipe    = flag.Bool("p", false, "extract to stdout")
	outPath = flag.String("o", "", "output path (defaults to the name stored in the archive)")
	help    = flag.Bool("h", false, "display this help")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "unz: missing archive argument")
		fmt.Fprintln(os.Stderr, "Try 'unz -h' for more information.")
		os.Exit(1)
	}

	archivePath := flag.Arg(0)
	data, err := os.ReadFile(archivePath)
	if err != nil {
		fatal("cannot open '%s': %v", archivePath, err)
	}
	if !compress.IsValidFormat(data) {
		fatal("'%s' is not a valid .unz archive", archivePath)
	}

	info, err := compress.GetFileInfo(data)
	if err != nil {
		fatal("cannot read archive: %v", err)
	}

	if *list {
		printInfo(archivePath, info)
		return
	}

	decomp := compress.New(vocab.Default())
	output, err := decomp.Decompress(data)
	if err != nil {
		fatal("decompression failed: %v", err)
	}

	if *test {
		if crc32.ChecksumIEEE(output) != info.CRC32 {
			fatal("'%s': CRC-32 mismatch", info.Name)
		}
		if !*quiet {
			fmt.Printf("    testing: %-40s OK\n", info.Name)
		}
		return
	}

	if *pipe {
		os.Stdout.Write(output)
		return
	}

	dest := *outPath
	if dest == "" {
		dest = info.Name
	}
	if err := os.WriteFile(dest, output, 0644); err != nil {
		fatal("cannot write '%s': %v", dest, err)
	}
	if !*quiet {
		fmt.Printf("  inflating: %s\n", dest)
	}
	if !info.ModTime.IsZero() {
		os.Chtimes(dest, info.ModTime, info.ModTime)
	}
}

func printInfo(archivePath string, info *compress.FileInfo) {
	ratio := 0
	if info.Size > 0 {
		ratio = 100 - int(info.CompSize*100/info.Size)
		if ratio < 0 {
			ratio = 0
		}
	}
	fmt.Printf("Archive:  %s\n", archivePath)
	fmt.Printf("  Name:     %s\n", info.Name)
	fmt.Printf("  Method:   %s\n", info.Method)
	fmt.Printf("  Language: %s\n", info.ProgLang)
	fmt.Printf("  Size:     %d -> %d bytes (%d%% smaller)\n", info.Size, info.CompSize, ratio)
	fmt.Printf("  CRC-32:   %08x\n", info.CRC32)
	fmt.Printf("  Modified: %s\n", info.ModTime.Format("2006-01-02 15:04"))
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: unz [-l|-t] [-p] [-o path] [-q] archive.unz

Extract or inspect a single-file .unz archive.

Options:
  -l        show archive info instead of extracting
  -t        test archive integrity without writing output
  -p        extract to stdout
  -o path   output path (defaults to the name stored in the archive)
  -q        quiet operation
  -h        display this help

Supported methods:
  Stored   - no compression
  Deflate  - standard DEFLATE
  Unzlate  - BPE + rANS
  Bpelate  - BPE + DEFLATE

Examples:
  unz archive.unz           Extract to the stored name
  unz -l archive.unz        Show archive info
  unz -p archive.unz > out  Extract to stdout
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "unz: "+format+"\n", args...)
	os.Exit(1)
}
