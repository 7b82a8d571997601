package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/vantacode/unz/pkg/compress"
	"github.com/vantacode/unz/pkg/vocab"
)

func TestDecompressRoundtrip(t *testing.T) {
	comp := compress.New(vocab.Default())
	data := []byte("The quick brown fox jumps over the lazy dog.")

	for _, method := range []compress.Method{compress.MethodStore, compress.MethodDEFLATE, compress.MethodUNZLATE, compress.MethodBPELATE} {
		archive, err := comp.CompressFileAs(data, "test.txt", time.Now(), method)
		if err != nil {
			t.Fatalf("CompressFileAs(%v): %v", method, err)
		}
		restored, err := comp.Decompress(archive)
		if err != nil {
			t.Fatalf("Decompress(%v): %v", method, err)
		}
		if !bytes.Equal(restored, data) {
			t.Errorf("%v: roundtrip mismatch: got %q, want %q", method, restored, data)
		}
	}
}

func TestDecompressAutoMethod(t *testing.T) {
	comp := compress.New(vocab.Default())
	data := []byte(`package main

func main() {
	println("hi")
}
`)

	archive, err := comp.CompressFile(data, "main.go", time.Now())
	if err != nil {
		t.Fatalf("CompressFile: %v", err)
	}
	restored, err := comp.Decompress(archive)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(restored, data) {
		t.Errorf("roundtrip mismatch: got %q, want %q", restored, data)
	}
}

func TestDecompressInvalidFormat(t *testing.T) {
	if compress.IsValidFormat([]byte("not an archive")) {
		t.Error("IsValidFormat(garbage) = true, want false")
	}
	if _, err := compress.GetFileInfo([]byte("not an archive")); err == nil {
		t.Error("GetFileInfo(garbage): got nil error, want ErrInvalidFormat")
	}
}

func TestFileInfoRoundtrip(t *testing.T) {
	comp := compress.New(vocab.Default())
	modTime := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	archive, err := comp.CompressFileAs([]byte("hello"), "hello.txt", modTime, compress.MethodDEFLATE)
	if err != nil {
		t.Fatalf("CompressFileAs: %v", err)
	}

	info, err := compress.GetFileInfo(archive)
	if err != nil {
		t.Fatalf("GetFileInfo: %v", err)
	}
	if info.Name != "hello.txt" {
		t.Errorf("Name = %q, want %q", info.Name, "hello.txt")
	}
	if !info.ModTime.Equal(modTime) {
		t.Errorf("ModTime = %v, want %v", info.ModTime, modTime)
	}
}
