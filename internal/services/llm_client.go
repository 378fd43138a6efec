package services

import (
  "bytes"
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "net/http"
  "strings"
  "time"

  "github.com/yungbote/climatematch-backend/internal/logger"
  "github.com/yungbote/climatematch-backend/internal/types"
  "github.com/yungbote/climatematch-backend/internal/utils"
)

const (
  ProviderOpenAI    = "openai"
  ProviderAnthropic = "anthropic"

  defaultOpenAIModel    = "gpt-4o"
  defaultAnthropicModel = "claude-3-5-sonnet-20241022"
)

var (
  ErrInvalidAPIKey       = errors.New("invalid or missing API key")
  ErrUnsupportedProvider = errors.New("unsupported LLM provider")
  ErrInvalidResponse     = errors.New("invalid response from API")
)

// APIError is a rejection the provider itself reported (rate limit, bad
// request, quota). The message is the provider's own wording.
type APIError struct {
  Message string
}

func (e *APIError) Error() string {
  return fmt.Sprintf("api error: %s", e.Message)
}

// NetworkError wraps a transport-level failure before any response arrived.
type NetworkError struct {
  Err error
}

func (e *NetworkError) Error() string {
  return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
  return e.Err
}

// replyStyleDirectives is appended to every persona's system prompt, for
// every provider. It constrains replies to short, casual, texting-style
// messages with sparse emoji.
const replyStyleDirectives = `

CRITICAL INSTRUCTIONS:
- Keep responses EXTREMELY short (1-2 sentences MAX, often just 1)
- Sound like texting a crush on Tinder - casual, playful, natural
- Use lowercase sometimes, contractions, casual language
- Be flirty but conversational - like a real human would text
- NO formal language, NO essay-style responses
- Think: "how would I text this?" not "how would I write this?"
- Brief, punchy, fun - this is casual texting, not a presentation
- Use emojis VERY sparingly - maybe 1 in every 5-6 messages, not every message`

type LLMConfig struct {
  Provider    string
  APIKey      string
  Model       string
  Temperature float64
  MaxTokens   int
  BaseURL     string
  Timeout     time.Duration
}

// LoadLLMConfig reads the provider selection and credentials from the
// environment. Unset keys resolve to "YOUR_..." placeholders, which the
// client rejects at send time rather than at startup, so the rest of the
// app (deck, catalog, history) works without a configured provider.
func LoadLLMConfig(log *logger.Logger) LLMConfig {
  provider := strings.ToLower(utils.GetEnv("LLM_PROVIDER", ProviderOpenAI, log))

  var apiKey, baseURL, model string
  switch provider {
  case ProviderAnthropic:
    apiKey = utils.GetEnv("ANTHROPIC_API_KEY", "YOUR_ANTHROPIC_API_KEY", nil)
    baseURL = utils.GetEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com", log)
    model = utils.GetEnv("LLM_MODEL", defaultAnthropicModel, log)
  default:
    apiKey = utils.GetEnv("OPENAI_API_KEY", "YOUR_OPENAI_API_KEY", nil)
    baseURL = utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com", log)
    model = utils.GetEnv("LLM_MODEL", defaultOpenAIModel, log)
  }

  return LLMConfig{
    Provider:    provider,
    APIKey:      apiKey,
    Model:       model,
    Temperature: utils.GetEnvAsFloat("LLM_TEMPERATURE", 0.8, log),
    MaxTokens:   utils.GetEnvAsInt("LLM_MAX_TOKENS", 250, log),
    BaseURL:     baseURL,
    Timeout:     time.Duration(utils.GetEnvAsInt("LLM_TIMEOUT_SECONDS", 60, log)) * time.Second,
  }
}

type LLMClient interface {
  SendMessage(ctx context.Context, systemPrompt string, history []*types.ChatMessage, userMessage string) (string, error)
}

// providerAdapter isolates one provider's wire format. Each adapter only
// shapes bytes and headers; transport and error mapping live in llmClient.
type providerAdapter interface {
  endpoint(baseURL string) string
  setHeaders(h http.Header, apiKey string)
  buildBody(cfg LLMConfig, systemPrompt string, history []*types.ChatMessage, userMessage string) any
  parseReply(raw []byte) (string, error)
}

type llmClient struct {
  log        *logger.Logger
  cfg        LLMConfig
  adapter    providerAdapter
  httpClient *http.Client
}

func NewLLMClient(log *logger.Logger, cfg LLMConfig) (LLMClient, error) {
  var adapter providerAdapter
  switch cfg.Provider {
  case ProviderOpenAI:
    adapter = openAIAdapter{}
  case ProviderAnthropic:
    adapter = anthropicAdapter{}
  default:
    return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
  }

  timeout := cfg.Timeout
  if timeout <= 0 {
    timeout = 60 * time.Second
  }

  return &llmClient{
    log:        log.With("service", "LLMClient", "provider", cfg.Provider),
    cfg:        cfg,
    adapter:    adapter,
    httpClient: &http.Client{Timeout: timeout},
  }, nil
}

// SendMessage issues exactly one request and returns the provider's reply
// text as-is. Retry policy belongs to the caller; here failures surface to
// the user, who can resend.
func (c *llmClient) SendMessage(ctx context.Context, systemPrompt string, history []*types.ChatMessage, userMessage string) (string, error) {
  if c.cfg.APIKey == "" || strings.Contains(c.cfg.APIKey, "YOUR_") {
    return "", ErrInvalidAPIKey
  }

  body := c.adapter.buildBody(c.cfg, systemPrompt+replyStyleDirectives, history, userMessage)

  var buf bytes.Buffer
  if err := json.NewEncoder(&buf).Encode(body); err != nil {
    return "", err
  }

  req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.adapter.endpoint(c.cfg.BaseURL), &buf)
  if err != nil {
    return "", err
  }
  req.Header.Set("Content-Type", "application/json")
  c.adapter.setHeaders(req.Header, c.cfg.APIKey)

  c.log.Debug("Sending chat request", "model", c.cfg.Model, "history_len", len(history))

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return "", &NetworkError{Err: err}
  }

  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return "", &NetworkError{Err: readErr}
  }

  if resp.StatusCode != http.StatusOK {
    return "", providerError(resp.StatusCode, raw)
  }

  reply, err := c.adapter.parseReply(raw)
  if err != nil {
    c.log.Warn("Could not parse provider response", "status", resp.StatusCode, "error", err)
    return "", err
  }
  return reply, nil
}

// Both providers report rejections as {"error": {"message": "..."}}. When
// the body doesn't match that shape, the status code is all we have.
func providerError(status int, raw []byte) error {
  var envelope struct {
    Error struct {
      Message string `json:"message"`
    } `json:"error"`
  }
  if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
    return &APIError{Message: envelope.Error.Message}
  }
  return &APIError{Message: fmt.Sprintf("HTTP %d", status)}
}

func historyRole(m *types.ChatMessage) string {
  if m.IsFromUser {
    return "user"
  }
  return "assistant"
}
