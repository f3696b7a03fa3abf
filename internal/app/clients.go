package app

import (
	"fmt"

	"github.com/opendoorspartners/odp-backend/internal/platform/anthropic"
	"github.com/opendoorspartners/odp-backend/internal/platform/cache"
	"github.com/opendoorspartners/odp-backend/internal/platform/llm"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/platform/openai"
)

type Clients struct {
	Chat       llm.ChatClient
	Embeddings llm.EmbeddingClient
	Cache      *cache.Cache
}

// wireClients builds the outbound clients. Embeddings always come from
// OpenAI so stored vectors stay comparable; AI_PROVIDER only switches the
// chat model.
func wireClients(cfg Config, log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	oai, err := openai.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init openai client: %w", err)
	}

	var chat llm.ChatClient = oai
	if cfg.AIProvider == "anthropic" {
		ant, err := anthropic.NewClient(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init anthropic client: %w", err)
		}
		chat = ant
	}

	redisCache, err := cache.New(log)
	if err != nil {
		log.Warn("redis cache unavailable, continuing without it", "error", err)
		redisCache = nil
	}

	return Clients{
		Chat:       chat,
		Embeddings: oai,
		Cache:      redisCache,
	}, nil
}
