package jobs

import (
    "strings"
    "testing"
)

func TestChunkText_ShortTextIsOnePiece(t *testing.T) {
    got := chunkText("hello", 3500)
    if len(got) != 1 || got[0] != "hello" { t.Fatalf("got %#v", got) }
}

func TestChunkText_SplitsOnLineBoundaries(t *testing.T) {
    var b strings.Builder
    for i := 0; i < 100; i++ { b.WriteString("line line line line\n") }
    text := b.String()
    chunks := chunkText(text, 500)
    if len(chunks) < 2 { t.Fatalf("expected multiple chunks, got %d", len(chunks)) }
    var total int
    for _, c := range chunks {
        if len(c) > 500 { t.Fatalf("chunk too long: %d", len(c)) }
        total += len(c)
    }
    if total != len(text) { t.Fatalf("reassembled length %d, want %d", total, len(text)) }
}

func TestChunkText_UnbreakableRunIsHardCut(t *testing.T) {
    text := strings.Repeat("x", 1200)
    chunks := chunkText(text, 500)
    if len(chunks) != 3 { t.Fatalf("got %d chunks, want 3", len(chunks)) }
}
