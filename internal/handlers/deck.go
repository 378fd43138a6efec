package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/yungbote/climatematch-backend/internal/services"
)

type DeckHandler struct {
  deckService services.DeckService
}

func NewDeckHandler(deckService services.DeckService) *DeckHandler {
  return &DeckHandler{deckService: deckService}
}

func (dh *DeckHandler) Current(c *gin.Context) {
  intervention, err := dh.deckService.Current(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "deck_load_failed", err)
    return
  }
  if intervention == nil {
    RespondOK(c, gin.H{"intervention": nil, "exhausted": true})
    return
  }
  RespondOK(c, gin.H{"intervention": intervention, "exhausted": false})
}

func (dh *DeckHandler) Remaining(c *gin.Context) {
  remaining, err := dh.deckService.Remaining(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "deck_load_failed", err)
    return
  }
  RespondOK(c, gin.H{"remaining": remaining})
}

type decideRequest struct {
  InterventionID uuid.UUID `json:"intervention_id" binding:"required"`
  Liked          *bool     `json:"liked" binding:"required"`
}

func (dh *DeckHandler) Decide(c *gin.Context) {
  var req decideRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }
  if err := dh.deckService.Decide(c.Request.Context(), req.InterventionID, *req.Liked); err != nil {
    if errors.Is(err, services.ErrDuplicateDecision) {
      RespondError(c, http.StatusConflict, "duplicate_decision", err)
      return
    }
    RespondError(c, http.StatusInternalServerError, "decision_failed", err)
    return
  }
  RespondOK(c, gin.H{"decided": true})
}

func (dh *DeckHandler) Reset(c *gin.Context) {
  if err := dh.deckService.Reset(c.Request.Context()); err != nil {
    RespondError(c, http.StatusInternalServerError, "reset_failed", err)
    return
  }
  RespondOK(c, gin.H{"reset": true})
}
