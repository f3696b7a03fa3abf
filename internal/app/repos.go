package app

import (
	"gorm.io/gorm"

	"github.com/opendoorspartners/odp-backend/internal/data/repos"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
)

type Repos struct {
	Deal         repos.DealRepo
	ToneRule     repos.ToneRuleRepo
	Document     repos.DocumentRepo
	Chunk        repos.ChunkRepo
	DynamicFact  repos.DynamicFactRepo
	Conversation repos.ConversationRepo
	Message      repos.MessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Deal:         repos.NewDealRepo(db, log),
		ToneRule:     repos.NewToneRuleRepo(db, log),
		Document:     repos.NewDocumentRepo(db, log),
		Chunk:        repos.NewChunkRepo(db, log),
		DynamicFact:  repos.NewDynamicFactRepo(db, log),
		Conversation: repos.NewConversationRepo(db, log),
		Message:      repos.NewMessageRepo(db, log),
	}
}
