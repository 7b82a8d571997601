package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vantacode/unz/pkg/compress"
	"github.com/vantacode/unz/pkg/vocab"
)

func TestCompressFile(t *testing.T) {
	tmpDir := t.TempDir()

	inputPath := filepath.Join(tmpDir, "test.txt")
	inputData := []byte("The quick brown fox jumps over the lazy dog. This is a test of compression.")
	if err := os.WriteFile(inputPath, inputData, 0644); err != nil {
		t.Fatalf("failed to create input file: %v", err)
	}

	info, _ := os.Stat(inputPath)
	comp := compress.New(vocab.Default())

	archive, err := comp.CompressFile(inputData, "test.txt", info.ModTime())
	if err != nil {
		t.Fatalf("compression failed: %v", err)
	}
	if !compress.IsValidFormat(archive) {
		t.Fatal("produced archive fails IsValidFormat")
	}

	restored, err := comp.Decompress(archive)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(restored) != string(inputData) {
		t.Errorf("roundtrip mismatch: got %q, want %q", restored, inputData)
	}
}

func TestCompressStore(t *testing.T) {
	comp := compress.New(vocab.Default())
	data := []byte("incompressible-ish content 12345")

	archive, err := comp.CompressFileAs(data, "x.bin", time.Now(), compress.MethodStore)
	if err != nil {
		t.Fatalf("CompressFileAs: %v", err)
	}
	fi, err := compress.GetFileInfo(archive)
	if err != nil {
		t.Fatalf("GetFileInfo: %v", err)
	}
	if fi.Method != compress.MethodStore {
		t.Errorf("Method = %v, want %v", fi.Method, compress.MethodStore)
	}
	if fi.CompSize != fi.Size {
		t.Errorf("stored entry: CompSize %d != Size %d", fi.CompSize, fi.Size)
	}
}

func TestCompressEmptyFile(t *testing.T) {
	comp := compress.New(vocab.Default())

	archive, err := comp.CompressFile(nil, "empty.txt", time.Now())
	if err != nil {
		t.Fatalf("CompressFile(empty): %v", err)
	}
	restored, err := comp.Decompress(archive)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(restored) != 0 {
		t.Errorf("Decompress(empty archive) = %v, want empty", restored)
	}
}

func TestCompressCRC32(t *testing.T) {
	comp := compress.New(vocab.Default())
	data := []byte("checksum me please")

	archive, err := comp.CompressFileAs(data, "c.txt", time.Now(), compress.MethodDEFLATE)
	if err != nil {
		t.Fatalf("CompressFileAs: %v", err)
	}
	info, err := compress.GetFileInfo(archive)
	if err != nil {
		t.Fatalf("GetFileInfo: %v", err)
	}
	if info.CRC32 == 0 {
		t.Error("CRC32 = 0, want a nonzero checksum for non-empty data")
	}
}
