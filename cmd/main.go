package main

import (
  "context"
  "fmt"
  "os"
  "github.com/yungbote/climatematch-backend/internal/db"
  "github.com/yungbote/climatematch-backend/internal/handlers"
  "github.com/yungbote/climatematch-backend/internal/logger"
  "github.com/yungbote/climatematch-backend/internal/repos"
  "github.com/yungbote/climatematch-backend/internal/server"
  "github.com/yungbote/climatematch-backend/internal/services"
  "github.com/yungbote/climatematch-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Database
  databaseService, err := db.NewDatabaseService(log)
  if err != nil {
    log.Error("Database init failed", "error", err)
    os.Exit(1)
  }
  if err = databaseService.AutoMigrateAll(); err != nil {
    log.Error("Auto migration failed", "error", err)
    os.Exit(1)
  }
  theDB := databaseService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  interventionRepo := repos.NewInterventionRepo(theDB, log)
  swipeDecisionRepo := repos.NewSwipeDecisionRepo(theDB, log)
  chatMessageRepo := repos.NewChatMessageRepo(theDB, log)

  // Services
  log.Info("Setting up Services from main...")
  catalogPath := utils.GetEnv("INTERVENTIONS_PATH", "data/interventions.yaml", log)
  catalogService := services.NewCatalogService(log, interventionRepo, catalogPath)
  if err := catalogService.SeedIfEmpty(context.Background()); err != nil {
    log.Warn("Catalog seeding failed", "error", err)
  }

  llmConfig := services.LoadLLMConfig(log)
  llmClient, err := services.NewLLMClient(log, llmConfig)
  if err != nil {
    log.Error("Could not init LLMClient", "error", err)
    os.Exit(1)
  }

  chatService := services.NewChatService(log, interventionRepo, chatMessageRepo, llmClient)
  deckService := services.NewDeckService(log, interventionRepo, swipeDecisionRepo)
  matchService := services.NewMatchService(log, interventionRepo, swipeDecisionRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  interventionHandler := handlers.NewInterventionHandler(catalogService)
  deckHandler := handlers.NewDeckHandler(deckService)
  chatHandler := handlers.NewChatHandler(chatService)
  matchHandler := handlers.NewMatchHandler(matchService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    InterventionHandler: interventionHandler,
    DeckHandler:         deckHandler,
    ChatHandler:         chatHandler,
    MatchHandler:        matchHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
