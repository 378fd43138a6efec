package server

import (
  "github.com/gin-gonic/gin"
  "github.com/gin-contrib/cors"
  "github.com/yungbote/climatematch-backend/internal/handlers"
)

type RouterConfig struct {
  InterventionHandler *handlers.InterventionHandler
  DeckHandler         *handlers.DeckHandler
  ChatHandler         *handlers.ChatHandler
  MatchHandler        *handlers.MatchHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  router.GET("/healthcheck", handlers.HealthCheck)

  api := router.Group("/api")
  {
    // Catalog
    api.GET("/interventions", cfg.InterventionHandler.GetAll)
    api.GET("/interventions/:interventionID", cfg.InterventionHandler.GetByID)
    // Deck
    api.GET("/deck/current", cfg.DeckHandler.Current)
    api.GET("/deck/remaining", cfg.DeckHandler.Remaining)
    api.POST("/deck/decide", cfg.DeckHandler.Decide)
    api.POST("/deck/reset", cfg.DeckHandler.Reset)
    // Matches
    api.GET("/matches", cfg.MatchHandler.GetMatches)
    // Chat
    api.GET("/chat/:interventionID/messages", cfg.ChatHandler.GetMessages)
    api.POST("/chat/:interventionID/messages", cfg.ChatHandler.SendMessage)
    api.DELETE("/chat/:interventionID/messages", cfg.ChatHandler.ClearMessages)
    api.DELETE("/chat/:interventionID/error", cfg.ChatHandler.DismissError)
  }

  return router
}
