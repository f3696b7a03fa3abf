package app

import (
	"github.com/opendoorspartners/odp-backend/internal/modules/bot/steps"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/services"
)

type Services struct {
	Bot services.BotService
}

func wireServices(log *logger.Logger, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")

	dealCtx := steps.NewDealContext(reposet.Deal, reposet.ToneRule, reposet.DynamicFact, clients.Cache, log)
	dynamicKB := steps.NewDynamicKB(reposet.DynamicFact, clients.Embeddings, log)
	rewriter := steps.NewRewriter(clients.Chat, log)
	clarifier := steps.NewClarifier(clients.Chat, log)
	generator := steps.NewGenerator(clients.Chat, log)
	factExtractor := steps.NewFactExtractor(clients.Chat, reposet.DynamicFact, log)

	pipeline := steps.NewPipeline(
		reposet.Conversation,
		reposet.Message,
		reposet.Document,
		reposet.Chunk,
		dealCtx,
		dynamicKB,
		rewriter,
		clarifier,
		generator,
		factExtractor,
		clients.Embeddings,
		log,
	)

	return Services{
		Bot: services.NewBotService(pipeline, reposet.Conversation, reposet.Message, log),
	}
}
