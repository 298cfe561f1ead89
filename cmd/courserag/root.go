package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"courserag/internal/chunker"
	"courserag/internal/config"
	"courserag/internal/domain"
	"courserag/internal/embedding/openai"
	"courserag/internal/embedding/tfidf"
	"courserag/internal/llm"
	"courserag/internal/observability"
	"courserag/internal/orchestrator"
	"courserag/internal/search"
	"courserag/internal/service"
	"courserag/internal/session"
	"courserag/internal/summarizer"
	"courserag/internal/tools"
	"courserag/internal/vectorstore"
	"courserag/internal/vectorstore/memory"
	"courserag/internal/vectorstore/qdrant"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "courserag",
	Short: "Course materials assistant with retrieval-augmented answers",
	Long: `courserag indexes course transcripts and answers questions about them.

Answers are generated by Claude with access to two retrieval tools: semantic
search over course content and course outline lookup. Run "ingest" to index
transcripts, "serve" for the HTTP API or "chat" for the terminal client.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (optional)")
}

// app bundles everything a command needs after assembly.
type app struct {
	cfg      *config.AppConfig
	service  *service.RAGServiceImpl
	sessions *session.Manager
}

// buildApp loads configuration and wires the full component graph.
func buildApp() (*app, error) {
	_ = godotenv.Load()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	observability.InitLogger(cfg.Logging.Level, cfg.Logging.Pretty)

	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		emb = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			return nil, fmt.Errorf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedder init: %w", err)
		}
		emb = client
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var content vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory", "":
		content = memory.NewStorage()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		content = qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	catalog := search.NewCourseStore(emb, content, cfg.Search.MaxResults)

	apiKey := os.Getenv(cfg.Anthropic.APIKeyEnv)
	provider, err := llm.NewAnthropic(llm.AnthropicConfig{
		APIKey:      apiKey,
		Model:       cfg.Anthropic.Model,
		BaseURL:     cfg.Anthropic.BaseURL,
		MaxTokens:   cfg.Anthropic.MaxTokens,
		Temperature: cfg.Anthropic.Temperature,
		Timeout:     time.Duration(cfg.Anthropic.TimeoutSecs) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic init: %w", err)
	}

	registry := tools.NewRegistry()
	registry.Register(tools.NewCourseSearchTool(catalog))
	registry.Register(tools.NewCourseOutlineTool(catalog))

	orch := orchestrator.New(
		provider,
		registry,
		orchestrator.WithMaxRounds(cfg.Anthropic.MaxRounds),
		orchestrator.WithLogger(observability.ComponentLogger("orchestrator")),
	)

	sessions := session.NewManager(cfg.Session.MaxHistory)
	svc := service.NewRAGService(
		chunker.NewSentenceChunker(cfg.Chunker.MaxChars, cfg.Chunker.OverlapChars),
		emb,
		content,
		catalog,
		summarizer.NewFrequencySummarizer(),
		cfg.Summarizer.MaxSentences,
		orch,
		sessions,
	)

	return &app{cfg: cfg, service: svc, sessions: sessions}, nil
}

// ingestDocs loads the configured docs folder if it exists. Both serve and
// chat run this at startup so a fresh process answers from indexed content.
func (a *app) ingestDocs() error {
	dir := a.cfg.Server.DocsDir
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	courses, chunks, err := a.service.AddCourseFolder(dir, false)
	if err != nil {
		return err
	}
	if courses > 0 {
		fmt.Printf("Indexed %d courses (%d chunks) from %s\n", courses, chunks, dir)
	}
	return nil
}
