package config

import "testing"

func TestLoadIncludesRetrievalDefaults(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "")
	t.Setenv("CHUNK_OVERLAP", "")
	t.Setenv("RAG_TOP_K", "")
	t.Setenv("RAG_CONFIDENCE_THRESHOLD", "")
	t.Setenv("DEEP_SEARCH_MAX_SUB_QUERIES", "")

	cfg := Load()
	if cfg.ChunkSize != 512 {
		t.Fatalf("expected default chunk size 512, got %d", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 100 {
		t.Fatalf("expected default chunk overlap 100, got %d", cfg.ChunkOverlap)
	}
	if cfg.RAGTopK != 5 {
		t.Fatalf("expected default top k 5, got %d", cfg.RAGTopK)
	}
	if cfg.RAGConfidenceThreshold != 0.65 {
		t.Fatalf("expected default confidence threshold 0.65, got %v", cfg.RAGConfidenceThreshold)
	}
	if cfg.DeepSearchMaxSubQueries != 2 {
		t.Fatalf("expected default max sub-queries 2, got %d", cfg.DeepSearchMaxSubQueries)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("VECTOR_BACKEND", "qdrant")
	t.Setenv("RAG_CONFIDENCE_THRESHOLD", "0.8")
	t.Setenv("WEB_SEARCH_RPS", "2")
	t.Setenv("MAX_AGENT_STEPS", "4")

	cfg := Load()
	if cfg.LLMProvider != "ollama" {
		t.Fatalf("expected provider override, got %q", cfg.LLMProvider)
	}
	if cfg.VectorBackend != "qdrant" {
		t.Fatalf("expected vector backend override, got %q", cfg.VectorBackend)
	}
	if cfg.RAGConfidenceThreshold != 0.8 {
		t.Fatalf("expected confidence threshold 0.8, got %v", cfg.RAGConfidenceThreshold)
	}
	if cfg.WebSearchRPS != 2 {
		t.Fatalf("expected web search rps 2, got %v", cfg.WebSearchRPS)
	}
	if cfg.MaxAgentSteps != 4 {
		t.Fatalf("expected max agent steps 4, got %d", cfg.MaxAgentSteps)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("RAG_TOP_K", "not-a-number")
	t.Setenv("RAG_CONFIDENCE_THRESHOLD", "also-not")

	cfg := Load()
	if cfg.RAGTopK != 5 {
		t.Fatalf("expected fallback top k 5, got %d", cfg.RAGTopK)
	}
	if cfg.RAGConfidenceThreshold != 0.65 {
		t.Fatalf("expected fallback threshold 0.65, got %v", cfg.RAGConfidenceThreshold)
	}
}
