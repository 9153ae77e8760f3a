package splitter

import (
	"strings"
	"testing"
)

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	chunks := Split("hello world", DefaultConfig())
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != "hello world" {
		t.Errorf("expected text unchanged, got %q", chunks[0])
	}
}

func TestSplit_EmptyAndBlankInput(t *testing.T) {
	if chunks := Split("", DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected no chunks for empty input, got %d", len(chunks))
	}
	if chunks := Split("\n\n  \n", DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected no chunks for blank input, got %d", len(chunks))
	}
}

func TestSplit_PacksLinesUpToChunkSize(t *testing.T) {
	// 10 lines of 60 chars each. With a 500-char budget and newline joins,
	// 8 lines (8*60+7 = 487) fit in the first chunk.
	line := strings.Repeat("a", 60)
	text := strings.TrimSuffix(strings.Repeat(line+"\n", 10), "\n")

	chunks := Split(text, DefaultConfig())
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 500 {
			t.Errorf("chunk %d: length %d exceeds 500", i, len(c))
		}
	}
}

func TestSplit_OverlapCarriedAcrossChunks(t *testing.T) {
	line := strings.Repeat("x", 400)
	text := line + "\n" + line

	chunks := Split(text, Config{ChunkSize: 500, ChunkOverlap: 15})
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	tail := chunks[0][len(chunks[0])-15:]
	if !strings.HasPrefix(chunks[1], tail) {
		t.Errorf("second chunk does not begin with the previous 15-char tail")
	}
}

func TestSplit_LongSingleLineHardSplit(t *testing.T) {
	// 1200 chars, no newlines: windows step by 485, so 3 chunks.
	text := strings.Repeat("abcde", 240)

	chunks := Split(text, Config{ChunkSize: 500, ChunkOverlap: 15})
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	for i := 1; i < len(chunks); i++ {
		prevTail := chunks[i-1][len(chunks[i-1])-15:]
		if !strings.HasPrefix(chunks[i], prevTail) {
			t.Errorf("chunk %d does not begin with the last 15 chars of chunk %d", i, i-1)
		}
	}
	if len(chunks[0]) != 500 || len(chunks[1]) != 500 {
		t.Errorf("expected full 500-char windows, got %d and %d", len(chunks[0]), len(chunks[1]))
	}
	if len(chunks[2]) != 230 {
		t.Errorf("expected 230-char final window, got %d", len(chunks[2]))
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog.\n", 40)
	a := Split(text, DefaultConfig())
	b := Split(text, DefaultConfig())
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
