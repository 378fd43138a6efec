package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/yungbote/climatematch-backend/internal/services"
)

type MatchHandler struct {
  matchService services.MatchService
}

func NewMatchHandler(matchService services.MatchService) *MatchHandler {
  return &MatchHandler{matchService: matchService}
}

func (mh *MatchHandler) GetMatches(c *gin.Context) {
  matches, err := mh.matchService.GetMatches(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "matches_load_failed", err)
    return
  }
  RespondOK(c, gin.H{"matches": matches})
}
