package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/seoscope/seoscope/internal/llm"
	"github.com/seoscope/seoscope/internal/vectorstore"
)

// Searcher is the read side of the vector store.
type Searcher interface {
	Search(ctx context.Context, vector []float32, k int) ([]vectorstore.Record, error)
}

// ChatClient requests language-model completions.
type ChatClient interface {
	Chat(ctx context.Context, req llm.ChatRequest) (string, error)
}

const answerTemplate = "You are a agent that will analyse and give statistical responses for the data CONTEXT: %s USER QUESTION: %s"

// defaultTopK is how many chunks are retrieved per question.
const defaultTopK = 5

// Responder answers questions against the indexed documents. Errors
// propagate as typed failures; presenting a fallback message is the HTTP
// boundary's concern.
type Responder struct {
	search Searcher
	embed  Embedder
	chat   ChatClient
	state  *State
	model  string
	topK   int
	log    *slog.Logger
}

func NewResponder(search Searcher, embed Embedder, chat ChatClient, state *State, model string, log *slog.Logger) *Responder {
	return &Responder{
		search: search,
		embed:  embed,
		chat:   chat,
		state:  state,
		model:  model,
		topK:   defaultTopK,
		log:    log,
	}
}

// Answer embeds the question, retrieves the nearest chunks and asks the
// model. Returns ErrNotReady until the indexer has completed; querying an
// uninitialized or partial index never silently succeeds.
func (r *Responder) Answer(ctx context.Context, question string) (string, error) {
	if !r.state.Ready() {
		return "", ErrNotReady
	}

	vectors, err := r.embed.Embed(ctx, []string{question})
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	hits, err := r.search.Search(ctx, vectors[0], r.topK)
	if err != nil {
		return "", fmt.Errorf("similarity search: %w", err)
	}
	r.log.Info("retrieved context", "chunks", len(hits))

	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Text
	}
	prompt := fmt.Sprintf(answerTemplate, strings.Join(texts, "\n\n"), question)

	answer, err := r.chat.Chat(ctx, llm.ChatRequest{
		Model:    r.model,
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}
	return answer, nil
}
