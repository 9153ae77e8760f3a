package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/seoscope/seoscope/internal/api"
	"github.com/seoscope/seoscope/internal/audit"
	"github.com/seoscope/seoscope/internal/backlinks"
	"github.com/seoscope/seoscope/internal/browser"
	"github.com/seoscope/seoscope/internal/config"
	"github.com/seoscope/seoscope/internal/llm"
	"github.com/seoscope/seoscope/internal/rag"
	"github.com/seoscope/seoscope/internal/seo"
	"github.com/seoscope/seoscope/internal/splitter"
	"github.com/seoscope/seoscope/internal/vectorstore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Clients.
	openai := llm.NewClient(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	store, err := vectorstore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, cfg.VectorIndexName)
	if err != nil {
		log.Error("vector store unavailable", "error", err)
		os.Exit(1)
	}
	backlinkClient := backlinks.NewClient(cfg.DataForSEOLogin, cfg.DataForSEOPassword, cfg.BacklinkTarget)

	// Page analysis pipeline.
	launcher := browser.NewLauncher(cfg.NavigationTimeout)
	runner := audit.NewRunner(cfg.LighthousePath, cfg.AuditTimeout, log)
	analyzer := seo.NewAnalyzer(launcher, runner, openai, cfg.ChatModel, log)

	// RAG pipeline.
	ragState := rag.NewState()
	splitCfg := splitter.Config{ChunkSize: cfg.ChunkSize, ChunkOverlap: cfg.ChunkOverlap}
	indexer := rag.NewIndexer(store, openai, cfg.RAGSources, splitCfg, ragState, log)
	responder := rag.NewResponder(store, openai, openai, ragState, cfg.RAGChatModel, log)

	srv := api.NewServer(analyzer, indexer, responder, ragState, backlinkClient, log)

	httpServer := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     srv,
		ReadTimeout: 30 * time.Second,
		// Generous write window: responses carry base64 screenshots and
		// wait on model completions.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		openai.Close()
		backlinkClient.Close()
		store.Close(shutdownCtx)
		cancel()
	}()

	log.Info("starting seoscope", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
