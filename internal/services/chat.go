package services

import (
  "context"
  "errors"
  "fmt"
  "strings"
  "sync"
  "time"

  "github.com/google/uuid"
  "github.com/yungbote/climatematch-backend/internal/logger"
  "github.com/yungbote/climatematch-backend/internal/repos"
  "github.com/yungbote/climatematch-backend/internal/types"
)

// ErrSendInFlight rejects a second send on a conversation whose previous
// send has not resolved yet. One outstanding request per persona.
var ErrSendInFlight = errors.New("a message is already being sent in this conversation")

// ChatService orchestrates one conversation per intervention: it loads and
// bootstraps history, appends the user's message before the provider call
// resolves, and records the reply or a conversation-level error state.
type ChatService interface {
  Initialize(ctx context.Context, interventionID uuid.UUID) ([]*types.ChatMessage, error)
  SendMessage(ctx context.Context, interventionID uuid.UUID, content string) (*types.ChatMessage, error)
  Clear(ctx context.Context, interventionID uuid.UUID) ([]*types.ChatMessage, error)
  History(ctx context.Context, interventionID uuid.UUID) ([]*types.ChatMessage, error)
  ErrorState(interventionID uuid.UUID) string
  DismissError(interventionID uuid.UUID)
}

type chatSession struct {
  messages     []*types.ChatMessage
  errorMessage string
  sending      bool
}

type chatService struct {
  log              *logger.Logger
  interventionRepo repos.InterventionRepo
  chatMessageRepo  repos.ChatMessageRepo
  llmClient        LLMClient

  mu       sync.Mutex
  sessions map[uuid.UUID]*chatSession
}

func NewChatService(log *logger.Logger, interventionRepo repos.InterventionRepo, chatMessageRepo repos.ChatMessageRepo, llmClient LLMClient) ChatService {
  serviceLog := log.With("service", "ChatService")
  return &chatService{
    log:              serviceLog,
    interventionRepo: interventionRepo,
    chatMessageRepo:  chatMessageRepo,
    llmClient:        llmClient,
    sessions:         map[uuid.UUID]*chatSession{},
  }
}

// Initialize loads the persisted log in timestamp order. A conversation that
// has never been opened gets the intervention's opening line persisted as
// its first assistant message, so an initialized log is never empty.
func (cs *chatService) Initialize(ctx context.Context, interventionID uuid.UUID) ([]*types.ChatMessage, error) {
  intervention, err := cs.interventionRepo.GetByID(ctx, nil, interventionID)
  if err != nil {
    return nil, fmt.Errorf("intervention not found: %w", err)
  }

  cs.mu.Lock()
  if sess, ok := cs.sessions[interventionID]; ok {
    out := snapshotMessages(sess.messages)
    cs.mu.Unlock()
    return out, nil
  }
  cs.mu.Unlock()

  messages, err := cs.chatMessageRepo.GetByInterventionID(ctx, nil, interventionID)
  if err != nil {
    return nil, fmt.Errorf("error loading messages: %w", err)
  }

  if len(messages) == 0 {
    opening, err := cs.appendMessage(ctx, interventionID, intervention.OpeningLine, false)
    if err != nil {
      return nil, err
    }
    messages = []*types.ChatMessage{opening}
  }

  cs.mu.Lock()
  cs.sessions[interventionID] = &chatSession{messages: messages}
  out := snapshotMessages(messages)
  cs.mu.Unlock()
  return out, nil
}

// SendMessage appends the user's message optimistically, asks the provider
// for a reply with the prior history, and appends the reply on success. On
// failure the user message stays (resending is the recovery path) and the
// failure is kept as the session's error state.
func (cs *chatService) SendMessage(ctx context.Context, interventionID uuid.UUID, content string) (*types.ChatMessage, error) {
  content = strings.TrimSpace(content)
  if content == "" {
    return nil, nil
  }

  if _, err := cs.Initialize(ctx, interventionID); err != nil {
    return nil, err
  }
  intervention, err := cs.interventionRepo.GetByID(ctx, nil, interventionID)
  if err != nil {
    return nil, fmt.Errorf("intervention not found: %w", err)
  }

  cs.mu.Lock()
  sess := cs.sessions[interventionID]
  if sess.sending {
    cs.mu.Unlock()
    return nil, ErrSendInFlight
  }
  sess.sending = true
  sess.errorMessage = ""
  history := snapshotMessages(sess.messages)

  userMessage := &types.ChatMessage{
    ID:             uuid.New(),
    InterventionID: interventionID,
    Content:        content,
    IsFromUser:     true,
    Timestamp:      time.Now().UTC(),
  }
  sess.messages = append(sess.messages, userMessage)
  cs.mu.Unlock()

  defer func() {
    cs.mu.Lock()
    sess.sending = false
    cs.mu.Unlock()
  }()

  if _, err := cs.chatMessageRepo.Create(ctx, nil, userMessage); err != nil {
    cs.log.Error("Failed to persist user message", "intervention_id", interventionID, "error", err)
    cs.setError(interventionID, "Could not save your message")
    return nil, fmt.Errorf("error saving message: %w", err)
  }

  // The new text travels as its own argument; history stops before it.
  reply, err := cs.llmClient.SendMessage(ctx, intervention.SystemPrompt, history, content)
  if err != nil {
    cs.log.Warn("LLM send failed", "intervention_id", interventionID, "error", err)
    cs.setError(interventionID, describeLLMError(err))
    return nil, err
  }

  assistantMessage, err := cs.appendMessage(ctx, interventionID, reply, false)
  if err != nil {
    cs.setError(interventionID, "Could not save the reply")
    return nil, err
  }
  return assistantMessage, nil
}

// Clear deletes the persisted log and re-runs the opening-line bootstrap, so
// a cleared conversation always comes back with exactly one message.
func (cs *chatService) Clear(ctx context.Context, interventionID uuid.UUID) ([]*types.ChatMessage, error) {
  intervention, err := cs.interventionRepo.GetByID(ctx, nil, interventionID)
  if err != nil {
    return nil, fmt.Errorf("intervention not found: %w", err)
  }

  if err := cs.chatMessageRepo.DeleteByInterventionID(ctx, nil, interventionID); err != nil {
    return nil, fmt.Errorf("error clearing messages: %w", err)
  }

  cs.mu.Lock()
  cs.sessions[interventionID] = &chatSession{}
  cs.mu.Unlock()

  opening, err := cs.appendMessage(ctx, interventionID, intervention.OpeningLine, false)
  if err != nil {
    return nil, err
  }
  return []*types.ChatMessage{opening}, nil
}

func (cs *chatService) History(ctx context.Context, interventionID uuid.UUID) ([]*types.ChatMessage, error) {
  return cs.Initialize(ctx, interventionID)
}

func (cs *chatService) ErrorState(interventionID uuid.UUID) string {
  cs.mu.Lock()
  defer cs.mu.Unlock()
  if sess, ok := cs.sessions[interventionID]; ok {
    return sess.errorMessage
  }
  return ""
}

func (cs *chatService) DismissError(interventionID uuid.UUID) {
  cs.mu.Lock()
  defer cs.mu.Unlock()
  if sess, ok := cs.sessions[interventionID]; ok {
    sess.errorMessage = ""
  }
}

// appendMessage persists an assistant message and appends it to the session
// if one exists.
func (cs *chatService) appendMessage(ctx context.Context, interventionID uuid.UUID, content string, fromUser bool) (*types.ChatMessage, error) {
  message := &types.ChatMessage{
    ID:             uuid.New(),
    InterventionID: interventionID,
    Content:        content,
    IsFromUser:     fromUser,
    Timestamp:      time.Now().UTC(),
  }
  if _, err := cs.chatMessageRepo.Create(ctx, nil, message); err != nil {
    cs.log.Error("Failed to persist message", "intervention_id", interventionID, "error", err)
    return nil, fmt.Errorf("error saving message: %w", err)
  }

  cs.mu.Lock()
  if sess, ok := cs.sessions[interventionID]; ok {
    sess.messages = append(sess.messages, message)
  }
  cs.mu.Unlock()
  return message, nil
}

func (cs *chatService) setError(interventionID uuid.UUID, msg string) {
  cs.mu.Lock()
  defer cs.mu.Unlock()
  if sess, ok := cs.sessions[interventionID]; ok {
    sess.errorMessage = msg
  }
}

func snapshotMessages(messages []*types.ChatMessage) []*types.ChatMessage {
  out := make([]*types.ChatMessage, len(messages))
  copy(out, messages)
  return out
}

func describeLLMError(err error) string {
  var apiErr *APIError
  var netErr *NetworkError
  switch {
  case errors.Is(err, ErrInvalidAPIKey):
    return "Invalid or missing API key"
  case errors.Is(err, ErrUnsupportedProvider):
    return "Unsupported LLM provider"
  case errors.Is(err, ErrInvalidResponse):
    return "Invalid response from API"
  case errors.As(err, &apiErr):
    return fmt.Sprintf("API error: %s", apiErr.Message)
  case errors.As(err, &netErr):
    return fmt.Sprintf("Network error: %v", netErr.Err)
  default:
    return err.Error()
  }
}
