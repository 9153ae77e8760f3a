package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seoscope/seoscope/internal/llm"
	"github.com/seoscope/seoscope/internal/splitter"
	"github.com/seoscope/seoscope/internal/vectorstore"
)

type fakeStore struct {
	records   []vectorstore.Record
	clears    int
	insertErr error
}

func (f *fakeStore) Clear(ctx context.Context) error {
	f.clears++
	f.records = nil
	return nil
}

func (f *fakeStore) Insert(ctx context.Context, records []vectorstore.Record) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeStore) Search(ctx context.Context, vector []float32, k int) ([]vectorstore.Record, error) {
	if k > len(f.records) {
		k = len(f.records)
	}
	return f.records[:k], nil
}

type fakeEmbedder struct {
	err   error
	calls [][]string
}

func (f *fakeEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.calls = append(f.calls, inputs)
	out := make([][]float32, len(inputs))
	for i := range inputs {
		out[i] = []float32{float32(len(inputs[i]))}
	}
	return out, nil
}

type fakeChat struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeChat) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	if len(req.Messages) > 0 {
		f.prompt = req.Messages[0].Content
	}
	return f.reply, f.err
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestRebuild_FullReplaceIsIdempotent(t *testing.T) {
	src := writeSource(t, "data.txt", "line one\nline two\nline three\n")
	store := &fakeStore{}
	state := NewState()
	ix := NewIndexer(store, &fakeEmbedder{}, []string{src}, splitter.DefaultConfig(), state, discard())

	if err := ix.Rebuild(context.Background()); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	first := len(store.records)
	if first == 0 {
		t.Fatal("expected records after rebuild")
	}
	if !state.Ready() {
		t.Fatal("state must be ready after successful rebuild")
	}

	if err := ix.Rebuild(context.Background()); err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	if len(store.records) != first {
		t.Errorf("store grew across rebuilds: %d -> %d", first, len(store.records))
	}
	if store.clears != 2 {
		t.Errorf("expected clear before each rebuild, got %d", store.clears)
	}
}

func TestRebuild_FailureMarksIndexFailed(t *testing.T) {
	src := writeSource(t, "data.txt", "some content\n")
	store := &fakeStore{}
	state := NewState()
	embedErr := errors.New("quota exceeded")
	ix := NewIndexer(store, &fakeEmbedder{err: embedErr}, []string{src}, splitter.DefaultConfig(), state, discard())

	if err := ix.Rebuild(context.Background()); !errors.Is(err, embedErr) {
		t.Fatalf("expected embed error to propagate, got %v", err)
	}
	if state.Ready() {
		t.Error("state must not be ready after failed rebuild")
	}
	snap := state.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("status: got %v, want failed", snap.Status)
	}
	if snap.LastError == "" {
		t.Error("snapshot must carry the failure")
	}
}

func TestRebuild_MissingSourceAborts(t *testing.T) {
	state := NewState()
	ix := NewIndexer(&fakeStore{}, &fakeEmbedder{}, []string{"/does/not/exist.txt"}, splitter.DefaultConfig(), state, discard())

	if err := ix.Rebuild(context.Background()); err == nil {
		t.Fatal("expected error for missing source file")
	}
	if state.Snapshot().Status != StatusFailed {
		t.Error("missing source must fail the rebuild")
	}
}

func TestRebuild_ConcurrentRebuildRejected(t *testing.T) {
	state := NewState()
	if err := state.BeginIndexing(); err != nil {
		t.Fatalf("first begin: %v", err)
	}
	if err := state.BeginIndexing(); !errors.Is(err, ErrIndexing) {
		t.Fatalf("expected ErrIndexing, got %v", err)
	}
	state.Complete(1)
	if err := state.BeginIndexing(); err != nil {
		t.Errorf("rebuild from ready must be allowed: %v", err)
	}
}

func TestAnswer_BeforeIndexingRejected(t *testing.T) {
	r := NewResponder(&fakeStore{}, &fakeEmbedder{}, &fakeChat{}, NewState(), "gpt-4o", discard())
	if _, err := r.Answer(context.Background(), "what is SEO?"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
}

func TestAnswer_RetrievesContextAndAsksModel(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 8; i++ {
		store.records = append(store.records, vectorstore.Record{Text: fmt.Sprintf("chunk-%d", i)})
	}
	state := NewState()
	state.Complete(len(store.records))
	chat := &fakeChat{reply: "the answer"}

	r := NewResponder(store, &fakeEmbedder{}, chat, state, "gpt-4o", discard())
	got, err := r.Answer(context.Background(), "what is in the data?")
	if err != nil {
		t.Fatalf("answer: %v", err)
	}
	if got != "the answer" {
		t.Errorf("got %q", got)
	}

	// Top 5 of 8 chunks end up in the prompt, along with the question.
	for i := 0; i < 5; i++ {
		if !strings.Contains(chat.prompt, fmt.Sprintf("chunk-%d", i)) {
			t.Errorf("prompt missing chunk-%d", i)
		}
	}
	if strings.Contains(chat.prompt, "chunk-5") {
		t.Errorf("prompt contains more than topK chunks")
	}
	if !strings.Contains(chat.prompt, "USER QUESTION: what is in the data?") {
		t.Errorf("prompt missing question: %q", chat.prompt)
	}
}

func TestAnswer_ChatFailurePropagates(t *testing.T) {
	store := &fakeStore{records: []vectorstore.Record{{Text: "chunk"}}}
	state := NewState()
	state.Complete(1)
	chatErr := errors.New("rate limited")

	r := NewResponder(store, &fakeEmbedder{}, &fakeChat{err: chatErr}, state, "gpt-4o", discard())
	if _, err := r.Answer(context.Background(), "q"); !errors.Is(err, chatErr) {
		t.Fatalf("expected chat error to propagate, got %v", err)
	}
}
