package ans

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressDecompressRoundtrip(t *testing.T) {
	cases := []string{
		"",
		"a",
		"hello, world!",
		strings.Repeat("the quick brown fox jumps over the lazy dog. ", 50),
		string([]byte{0x00, 0x01, 0xff, 0xfe, 0x00}),
	}
	for _, text := range cases {
		t.Run(text[:min(len(text), 16)], func(t *testing.T) {
			compressed, err := Compress([]byte(text))
			if err != nil {
				t.Fatalf("Compress: %v", err)
			}
			decompressed, err := Decompress(compressed)
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(decompressed, []byte(text)) {
				t.Errorf("roundtrip mismatch: got %q, want %q", decompressed, text)
			}
		})
	}
}

func TestDecompressRejectsShortInput(t *testing.T) {
	if _, err := Decompress([]byte{1, 2}); err != ErrCorrupted {
		t.Errorf("Decompress(short): got %v, want ErrCorrupted", err)
	}
}

func TestBuildTableAllOnSymbolZeroWhenEmpty(t *testing.T) {
	tab := BuildTable(make([]uint32, 256))
	if tab.Symbols[0].Freq != ProbScale {
		t.Errorf("empty counts: Symbols[0].Freq = %d, want %d", tab.Symbols[0].Freq, ProbScale)
	}
}

func TestBuildTableNormalizesToProbScale(t *testing.T) {
	counts := make([]uint32, 256)
	counts['a'] = 100
	counts['b'] = 1
	counts['c'] = 1

	tab := BuildTable(counts)
	var total uint32
	for _, s := range tab.Symbols {
		total += s.Freq
	}
	if total != ProbScale {
		t.Errorf("normalized total = %d, want %d", total, ProbScale)
	}
}

func TestCompressSkewedDistributionShrinks(t *testing.T) {
	data := []byte(strings.Repeat("a", 1000) + strings.Repeat("b", 10))
	compressed, err := Compress(data)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(compressed) >= len(data) {
		t.Errorf("compressed size %d should beat raw size %d for a skewed distribution", len(compressed), len(data))
	}
}
