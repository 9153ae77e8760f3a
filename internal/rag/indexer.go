package rag

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/seoscope/seoscope/internal/splitter"
	"github.com/seoscope/seoscope/internal/vectorstore"
)

// Embedder computes one vector per input string.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// ChunkStore is the write side of the vector store.
type ChunkStore interface {
	Clear(ctx context.Context) error
	Insert(ctx context.Context, records []vectorstore.Record) error
}

// Indexer rebuilds the vector store from configured source files. Rebuilds
// are full-replace: existing records are deleted before new ones go in, so
// running twice on the same inputs never grows the store.
type Indexer struct {
	store   ChunkStore
	embed   Embedder
	sources []string
	cfg     splitter.Config
	state   *State
	log     *slog.Logger
}

func NewIndexer(store ChunkStore, embed Embedder, sources []string, cfg splitter.Config, state *State, log *slog.Logger) *Indexer {
	return &Indexer{
		store:   store,
		embed:   embed,
		sources: sources,
		cfg:     cfg,
		state:   state,
		log:     log,
	}
}

// Rebuild clears the store and re-indexes every source file: read, split,
// embed, insert, per file in order. Any failure aborts the rebuild and marks
// the index failed; queries are rejected until a later rebuild succeeds.
func (ix *Indexer) Rebuild(ctx context.Context) error {
	if err := ix.state.BeginIndexing(); err != nil {
		return err
	}

	total, err := ix.rebuild(ctx)
	if err != nil {
		ix.state.Fail(err)
		ix.log.Error("index rebuild failed", "error", err)
		return err
	}

	ix.state.Complete(total)
	ix.log.Info("index rebuilt", "chunks", total, "sources", len(ix.sources))
	return nil
}

func (ix *Indexer) rebuild(ctx context.Context) (int, error) {
	if err := ix.store.Clear(ctx); err != nil {
		return 0, err
	}

	total := 0
	for _, path := range ix.sources {
		data, err := os.ReadFile(path)
		if err != nil {
			return 0, fmt.Errorf("read source %s: %w", path, err)
		}

		chunks := splitter.Split(string(data), ix.cfg)
		if len(chunks) == 0 {
			ix.log.Warn("source produced no chunks", "path", path)
			continue
		}

		vectors, err := ix.embed.Embed(ctx, chunks)
		if err != nil {
			return 0, fmt.Errorf("embed %s: %w", path, err)
		}

		records := make([]vectorstore.Record, len(chunks))
		for i, chunk := range chunks {
			records[i] = vectorstore.Record{
				Text:      chunk,
				Embedding: vectors[i],
				Source:    path,
			}
		}
		if err := ix.store.Insert(ctx, records); err != nil {
			return 0, fmt.Errorf("insert %s: %w", path, err)
		}
		total += len(records)
	}
	return total, nil
}
