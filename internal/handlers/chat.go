package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/yungbote/climatematch-backend/internal/services"
)

type ChatHandler struct {
  chatService services.ChatService
}

func NewChatHandler(chatService services.ChatService) *ChatHandler {
  return &ChatHandler{chatService: chatService}
}

func (ch *ChatHandler) GetMessages(c *gin.Context) {
  interventionID, err := uuid.Parse(c.Param("interventionID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_intervention_id", err)
    return
  }
  messages, err := ch.chatService.Initialize(c.Request.Context(), interventionID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "conversation_load_failed", err)
    return
  }
  RespondOK(c, gin.H{
    "messages": messages,
    "error":    ch.chatService.ErrorState(interventionID),
  })
}

type sendMessageRequest struct {
  Content string `json:"content" binding:"required"`
}

func (ch *ChatHandler) SendMessage(c *gin.Context) {
  interventionID, err := uuid.Parse(c.Param("interventionID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_intervention_id", err)
    return
  }
  var req sendMessageRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_request", err)
    return
  }

  reply, err := ch.chatService.SendMessage(c.Request.Context(), interventionID, req.Content)
  if err != nil {
    switch {
    case errors.Is(err, services.ErrSendInFlight):
      RespondError(c, http.StatusConflict, "send_in_flight", err)
    case errors.Is(err, services.ErrInvalidAPIKey):
      RespondError(c, http.StatusBadGateway, "invalid_api_key", err)
    default:
      RespondError(c, http.StatusBadGateway, "send_failed", err)
    }
    return
  }
  if reply == nil {
    // Whitespace-only input is a silent no-op, mirroring the send button
    // doing nothing on an empty field.
    RespondOK(c, gin.H{"message": nil})
    return
  }
  RespondOK(c, gin.H{"message": reply})
}

func (ch *ChatHandler) ClearMessages(c *gin.Context) {
  interventionID, err := uuid.Parse(c.Param("interventionID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_intervention_id", err)
    return
  }
  messages, err := ch.chatService.Clear(c.Request.Context(), interventionID)
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "clear_failed", err)
    return
  }
  RespondOK(c, gin.H{"messages": messages})
}

func (ch *ChatHandler) DismissError(c *gin.Context) {
  interventionID, err := uuid.Parse(c.Param("interventionID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_intervention_id", err)
    return
  }
  ch.chatService.DismissError(interventionID)
  RespondOK(c, gin.H{"dismissed": true})
}
