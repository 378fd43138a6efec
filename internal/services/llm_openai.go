package services

import (
  "encoding/json"
  "fmt"
  "net/http"

  "github.com/yungbote/climatematch-backend/internal/types"
)

// openAIAdapter speaks the chat-completions format: the system prompt rides
// inside the messages list as the first turn, auth is a bearer token.
type openAIAdapter struct{}

type openAIChatMessage struct {
  Role    string `json:"role"`
  Content string `json:"content"`
}

type openAIChatRequest struct {
  Model       string              `json:"model"`
  Messages    []openAIChatMessage `json:"messages"`
  Temperature float64             `json:"temperature"`
  MaxTokens   int                 `json:"max_tokens"`
}

type openAIChatResponse struct {
  Choices []struct {
    Message struct {
      Content string `json:"content"`
    } `json:"message"`
  } `json:"choices"`
}

func (openAIAdapter) endpoint(baseURL string) string {
  return baseURL + "/v1/chat/completions"
}

func (openAIAdapter) setHeaders(h http.Header, apiKey string) {
  h.Set("Authorization", "Bearer "+apiKey)
}

func (openAIAdapter) buildBody(cfg LLMConfig, systemPrompt string, history []*types.ChatMessage, userMessage string) any {
  messages := make([]openAIChatMessage, 0, len(history)+2)
  messages = append(messages, openAIChatMessage{Role: "system", Content: systemPrompt})
  for _, m := range history {
    messages = append(messages, openAIChatMessage{Role: historyRole(m), Content: m.Content})
  }
  messages = append(messages, openAIChatMessage{Role: "user", Content: userMessage})

  return openAIChatRequest{
    Model:       cfg.Model,
    Messages:    messages,
    Temperature: cfg.Temperature,
    MaxTokens:   cfg.MaxTokens,
  }
}

func (openAIAdapter) parseReply(raw []byte) (string, error) {
  var resp openAIChatResponse
  if err := json.Unmarshal(raw, &resp); err != nil {
    return "", fmt.Errorf("%w: %v", ErrInvalidResponse, err)
  }
  if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
    return "", ErrInvalidResponse
  }
  return resp.Choices[0].Message.Content, nil
}
