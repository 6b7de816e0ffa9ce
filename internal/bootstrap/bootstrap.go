package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/AswanthAllu/agentic/internal/config"
	"github.com/AswanthAllu/agentic/internal/core/ports"
	"github.com/AswanthAllu/agentic/internal/core/usecase"
	"github.com/AswanthAllu/agentic/internal/infrastructure/chunking"
	"github.com/AswanthAllu/agentic/internal/infrastructure/extractor"
	"github.com/AswanthAllu/agentic/internal/infrastructure/extractor/pdf"
	"github.com/AswanthAllu/agentic/internal/infrastructure/extractor/plaintext"
	"github.com/AswanthAllu/agentic/internal/infrastructure/extractor/spreadsheet"
	"github.com/AswanthAllu/agentic/internal/infrastructure/llm/gemini"
	"github.com/AswanthAllu/agentic/internal/infrastructure/llm/ollama"
	"github.com/AswanthAllu/agentic/internal/infrastructure/llm/openaicompat"
	"github.com/AswanthAllu/agentic/internal/infrastructure/queue/nats"
	"github.com/AswanthAllu/agentic/internal/infrastructure/repository/postgres"
	"github.com/AswanthAllu/agentic/internal/infrastructure/resilience"
	"github.com/AswanthAllu/agentic/internal/infrastructure/storage/localfs"
	"github.com/AswanthAllu/agentic/internal/infrastructure/vector/memory"
	"github.com/AswanthAllu/agentic/internal/infrastructure/vector/qdrant"
	"github.com/AswanthAllu/agentic/internal/infrastructure/websearch/duckduckgo"
)

type App struct {
	Config config.Config

	Queue    ports.MessageQueue
	Repo     ports.FileRepository
	Index    ports.VectorIndex
	Files    ports.FileService
	Ingestor ports.FileIngestor
	Chat     ports.ChatService
	MindMaps ports.MindMapService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewFileRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject)
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	generator, embedder, err := buildProvider(cfg, executor)
	if err != nil {
		return nil, err
	}

	var index ports.VectorIndex
	switch cfg.VectorBackend {
	case "qdrant":
		index = qdrant.NewIndex(cfg.QdrantURL, cfg.QdrantCollection, embedder)
	case "memory", "":
		index = memory.NewIndex(embedder)
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}

	extract := extractor.NewDispatcher(
		plaintext.NewExtractor(storage),
		pdf.NewExtractor(storage),
		spreadsheet.NewExtractor(storage),
	)
	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)

	policy, err := usecase.LoadModelPolicy(cfg.ModelPolicyPath)
	if err != nil {
		return nil, fmt.Errorf("load model policy: %w", err)
	}
	gateway := usecase.NewLLMGateway(generator, policy)

	ingestUC := usecase.NewIngestUseCase(repo, extract, chunker, index)
	loader := usecase.NewIndexLoader(index, ingestUC)
	web := duckduckgo.New(cfg.WebSearchURL, cfg.WebSearchRPS)

	chatUC := usecase.NewChatUseCase(gateway, index, loader, repo, extract, web, usecase.ChatConfig{
		TopK:                cfg.RAGTopK,
		ConfidenceThreshold: cfg.RAGConfidenceThreshold,
		MaxSubQueries:       cfg.DeepSearchMaxSubQueries,
		SubQueryDelay:       time.Duration(cfg.DeepSearchDelaySeconds) * time.Second,
		EarlyStopResults:    cfg.DeepSearchEarlyStopResults,
		MaxAgentSteps:       cfg.MaxAgentSteps,
	})
	filesUC := usecase.NewFileUseCase(repo, storage, queue, index)
	mindMapUC := usecase.NewMindMapUseCase(gateway, repo, extract)

	return &App{
		Config: cfg,

		Queue:    queue,
		Repo:     repo,
		Index:    index,
		Files:    filesUC,
		Ingestor: ingestUC,
		Chat:     chatUC,
		MindMaps: mindMapUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func buildProvider(cfg config.Config, executor *resilience.Executor) (ports.TextGenerator, ports.Embedder, error) {
	switch cfg.LLMProvider {
	case "gemini", "":
		client := gemini.New(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.EmbedModel, executor)
		return client, gemini.NewEmbedder(client), nil
	case "openai":
		client := openaicompat.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbedModel, executor)
		return client, client, nil
	case "ollama":
		client := ollama.New(cfg.OllamaURL, cfg.EmbedModel, executor)
		return client, ollama.NewEmbedder(client), nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
