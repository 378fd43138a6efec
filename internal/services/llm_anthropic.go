package services

import (
  "encoding/json"
  "fmt"
  "net/http"

  "github.com/yungbote/climatematch-backend/internal/types"
)

const anthropicVersion = "2023-06-01"

// anthropicAdapter speaks the messages format: the system prompt is a
// top-level field, the turn list holds only user/assistant roles, and auth
// is an x-api-key header plus a version header.
type anthropicAdapter struct{}

type anthropicMessage struct {
  Role    string `json:"role"`
  Content string `json:"content"`
}

type anthropicRequest struct {
  Model       string             `json:"model"`
  MaxTokens   int                `json:"max_tokens"`
  Temperature float64            `json:"temperature"`
  System      string             `json:"system"`
  Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
  Content []struct {
    Type string `json:"type"`
    Text string `json:"text"`
  } `json:"content"`
}

func (anthropicAdapter) endpoint(baseURL string) string {
  return baseURL + "/v1/messages"
}

func (anthropicAdapter) setHeaders(h http.Header, apiKey string) {
  h.Set("x-api-key", apiKey)
  h.Set("anthropic-version", anthropicVersion)
}

func (anthropicAdapter) buildBody(cfg LLMConfig, systemPrompt string, history []*types.ChatMessage, userMessage string) any {
  messages := make([]anthropicMessage, 0, len(history)+1)
  for _, m := range history {
    messages = append(messages, anthropicMessage{Role: historyRole(m), Content: m.Content})
  }
  messages = append(messages, anthropicMessage{Role: "user", Content: userMessage})

  return anthropicRequest{
    Model:       cfg.Model,
    MaxTokens:   cfg.MaxTokens,
    Temperature: cfg.Temperature,
    System:      systemPrompt,
    Messages:    messages,
  }
}

func (anthropicAdapter) parseReply(raw []byte) (string, error) {
  var resp anthropicResponse
  if err := json.Unmarshal(raw, &resp); err != nil {
    return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
  }
  if len(resp.Content) == 0 || resp.Content[0].Text == "" {
    return "", ErrInvalidResponse
  }
  return resp.Content[0].Text, nil
}
