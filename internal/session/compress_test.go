package session

import (
	"bytes"
	"strings"
	"testing"
)

func TestCompressRoundTrip(t *testing.T) {
	original := []byte(strings.Repeat("how do I recycle this? ", 50))

	compressed, err := compressHistory(original)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	if len(compressed) >= len(original) {
		t.Fatalf("repetitive payload did not shrink: %d >= %d", len(compressed), len(original))
	}

	restored, err := decompressHistory(compressed)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if !bytes.Equal(restored, original) {
		t.Fatalf("round trip mismatch")
	}
}

func TestDecompressRejectsGarbage(t *testing.T) {
	if _, err := decompressHistory([]byte("not a zstd frame")); err == nil {
		t.Fatalf("expected error for invalid input")
	}
}

func TestCompressEmpty(t *testing.T) {
	compressed, err := compressHistory(nil)
	if err != nil {
		t.Fatalf("compress empty: %v", err)
	}
	restored, err := decompressHistory(compressed)
	if err != nil {
		t.Fatalf("decompress empty: %v", err)
	}
	if len(restored) != 0 {
		t.Fatalf("expected empty payload, got %d bytes", len(restored))
	}
}
