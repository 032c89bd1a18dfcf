package config

import "testing"

func TestLoadSearchDefaults(t *testing.T) {
	t.Setenv("SEMANTIC_CANDIDATES", "")
	t.Setenv("MIN_SIMILARITY", "")
	t.Setenv("EMBEDDING_DIM", "")
	t.Setenv("NATS_SUBJECT", "")

	cfg := Load()
	if cfg.SemanticCandidates != 50 {
		t.Fatalf("expected default semantic candidates 50, got %d", cfg.SemanticCandidates)
	}
	if cfg.MinSimilarity != 0.3 {
		t.Fatalf("expected default minimum similarity 0.3, got %v", cfg.MinSimilarity)
	}
	if cfg.EmbeddingDim != 384 {
		t.Fatalf("expected default embedding dimension 384, got %d", cfg.EmbeddingDim)
	}
	if cfg.NATSSubject != "entities.reindex" {
		t.Fatalf("expected default reindex subject, got %q", cfg.NATSSubject)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("SEMANTIC_CANDIDATES", "120")
	t.Setenv("MIN_SIMILARITY", "0.45")
	t.Setenv("API_RATE_LIMIT_RPS", "5.5")
	t.Setenv("QDRANT_COLLECTION", "entities_v2")

	cfg := Load()
	if cfg.SemanticCandidates != 120 {
		t.Fatalf("expected semantic candidates override, got %d", cfg.SemanticCandidates)
	}
	if cfg.MinSimilarity != 0.45 {
		t.Fatalf("expected minimum similarity override, got %v", cfg.MinSimilarity)
	}
	if cfg.APIRateLimitRPS != 5.5 {
		t.Fatalf("expected rate limit override, got %v", cfg.APIRateLimitRPS)
	}
	if cfg.QdrantCollection != "entities_v2" {
		t.Fatalf("expected collection override, got %q", cfg.QdrantCollection)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SEMANTIC_CANDIDATES", "many")
	t.Setenv("MIN_SIMILARITY", "high")

	cfg := Load()
	if cfg.SemanticCandidates != 50 {
		t.Fatalf("malformed int should fall back, got %d", cfg.SemanticCandidates)
	}
	if cfg.MinSimilarity != 0.3 {
		t.Fatalf("malformed float should fall back, got %v", cfg.MinSimilarity)
	}
}
