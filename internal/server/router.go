package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/opendoorspartners/odp-backend/internal/http/handlers"
	"github.com/opendoorspartners/odp-backend/internal/platform/envutil"
)

type RouterConfig struct {
	BotHandler    *handlers.BotHandler
	HealthHandler *handlers.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	origins := envutil.Str("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(origins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	router.Use(otelgin.Middleware("odp-backend"))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	bot := router.Group("/bot")
	{
		bot.POST("/ask", cfg.BotHandler.Ask)
		bot.POST("/ask/:deal_id", cfg.BotHandler.AskDeal)
		bot.POST("/generate-draft", cfg.BotHandler.GenerateDraft)
		bot.GET("/conversation/:session_id", cfg.BotHandler.GetConversation)
		bot.DELETE("/conversation/:session_id", cfg.BotHandler.ClearConversation)
		bot.GET("/sessions/:user_id", cfg.BotHandler.GetUserSessions)
	}

	return router
}
