package app

import (
	"github.com/gin-gonic/gin"

	"github.com/opendoorspartners/odp-backend/internal/http/handlers"
	"github.com/opendoorspartners/odp-backend/internal/platform/logger"
	"github.com/opendoorspartners/odp-backend/internal/server"
)

type Handlers struct {
	Bot    *handlers.BotHandler
	Health *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Bot:    handlers.NewBotHandler(serviceset.Bot),
		Health: handlers.NewHealthHandler(),
	}
}

func wireRouter(handlerset Handlers) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		BotHandler:    handlerset.Bot,
		HealthHandler: handlerset.Health,
	})
}
