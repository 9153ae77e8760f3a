package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Port string

	// OpenAI
	OpenAIAPIKey   string
	ChatModel      string // SEO analysis and audit feedback
	RAGChatModel   string // retrieval answers
	EmbeddingModel string

	// Vector store
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	VectorIndexName string

	// Lighthouse
	LighthousePath string
	AuditTimeout   time.Duration

	// Browser
	NavigationTimeout time.Duration

	// DataForSEO (optional)
	DataForSEOLogin    string
	DataForSEOPassword string
	BacklinkTarget     string

	// RAG indexing
	RAGSources   []string
	ChunkSize    int
	ChunkOverlap int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "3000"),

		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		ChatModel:      envOr("OPENAI_CHAT_MODEL", "gpt-4"),
		RAGChatModel:   envOr("OPENAI_RAG_MODEL", "gpt-4o"),
		EmbeddingModel: envOr("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),

		MongoURI:        os.Getenv("MONGODB_URI"),
		MongoDatabase:   envOr("MONGODB_DATABASE", "embeddings"),
		MongoCollection: envOr("MONGODB_COLLECTION", "embeddings_col"),
		VectorIndexName: envOr("VECTOR_INDEX_NAME", "vector_index"),

		LighthousePath: envOr("LIGHTHOUSE_PATH", "lighthouse"),
		AuditTimeout:   envDuration("AUDIT_TIMEOUT", 3*time.Minute),

		NavigationTimeout: envDuration("NAVIGATION_TIMEOUT", 60*time.Second),

		DataForSEOLogin:    os.Getenv("DATAFORSEO_LOGIN"),
		DataForSEOPassword: os.Getenv("DATAFORSEO_PASSWORD"),
		BacklinkTarget:     envOr("BACKLINK_TARGET", "https://team-gpt.com/"),

		RAGSources:   splitList(envOr("RAG_SOURCES", "data/data.txt")),
		ChunkSize:    envInt("CHUNK_SIZE", 500),
		ChunkOverlap: envInt("CHUNK_OVERLAP", 15),
	}

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 500
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 15
	}

	// A YAML manifest overrides the env-provided source list and store names.
	if path := os.Getenv("RAG_SOURCES_FILE"); path != "" {
		if manifest, err := LoadManifest(path); err == nil {
			cfg.applyManifest(manifest)
		}
	}

	return cfg
}

// Validate fails fast on missing credentials instead of erroring lazily at
// first use. DataForSEO credentials are optional; the backlinks endpoint
// reports unavailable when they are absent.
func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.MongoURI == "" {
		return fmt.Errorf("MONGODB_URI is required")
	}
	if len(c.RAGSources) == 0 {
		return fmt.Errorf("at least one RAG source file is required")
	}
	return nil
}

// Manifest is an optional YAML file naming the documents to index and the
// vector store layout.
type Manifest struct {
	Database   string   `yaml:"database"`
	Collection string   `yaml:"collection"`
	IndexName  string   `yaml:"index_name"`
	Files      []string `yaml:"files"`
}

func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

func (c *Config) applyManifest(m *Manifest) {
	if m.Database != "" {
		c.MongoDatabase = m.Database
	}
	if m.Collection != "" {
		c.MongoCollection = m.Collection
	}
	if m.IndexName != "" {
		c.VectorIndexName = m.IndexName
	}
	if len(m.Files) > 0 {
		c.RAGSources = m.Files
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
