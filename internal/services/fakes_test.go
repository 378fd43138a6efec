package services

import (
  "context"
  "errors"
  "sort"
  "testing"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/climatematch-backend/internal/logger"
  "github.com/yungbote/climatematch-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
  t.Helper()
  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  return log
}

type fakeInterventionRepo struct {
  interventions []*types.Intervention
  created       []*types.Intervention
  failAll       error
}

func (f *fakeInterventionRepo) Create(ctx context.Context, tx *gorm.DB, interventions []*types.Intervention) ([]*types.Intervention, error) {
  f.created = append(f.created, interventions...)
  f.interventions = append(f.interventions, interventions...)
  return interventions, nil
}

func (f *fakeInterventionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Intervention, error) {
  if f.failAll != nil {
    return nil, f.failAll
  }
  out := make([]*types.Intervention, len(f.interventions))
  copy(out, f.interventions)
  sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
  return out, nil
}

func (f *fakeInterventionRepo) GetByID(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) (*types.Intervention, error) {
  for _, intervention := range f.interventions {
    if intervention.ID == interventionID {
      return intervention, nil
    }
  }
  return nil, gorm.ErrRecordNotFound
}

func (f *fakeInterventionRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
  return int64(len(f.interventions)), nil
}

type fakeSwipeDecisionRepo struct {
  decisions []*types.SwipeDecision
}

func (f *fakeSwipeDecisionRepo) Create(ctx context.Context, tx *gorm.DB, decision *types.SwipeDecision) (*types.SwipeDecision, error) {
  f.decisions = append(f.decisions, decision)
  return decision, nil
}

func (f *fakeSwipeDecisionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.SwipeDecision, error) {
  out := make([]*types.SwipeDecision, len(f.decisions))
  copy(out, f.decisions)
  return out, nil
}

func (f *fakeSwipeDecisionRepo) GetLiked(ctx context.Context, tx *gorm.DB) ([]*types.SwipeDecision, error) {
  var out []*types.SwipeDecision
  for _, d := range f.decisions {
    if d.Liked {
      out = append(out, d)
    }
  }
  sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
  return out, nil
}

func (f *fakeSwipeDecisionRepo) ExistsForIntervention(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) (bool, error) {
  for _, d := range f.decisions {
    if d.InterventionID == interventionID {
      return true, nil
    }
  }
  return false, nil
}

func (f *fakeSwipeDecisionRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
  f.decisions = nil
  return nil
}

type fakeChatMessageRepo struct {
  messages   []*types.ChatMessage
  failCreate error
}

func (f *fakeChatMessageRepo) Create(ctx context.Context, tx *gorm.DB, message *types.ChatMessage) (*types.ChatMessage, error) {
  if f.failCreate != nil {
    return nil, f.failCreate
  }
  f.messages = append(f.messages, message)
  return message, nil
}

func (f *fakeChatMessageRepo) GetByInterventionID(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) ([]*types.ChatMessage, error) {
  var out []*types.ChatMessage
  for _, m := range f.messages {
    if m.InterventionID == interventionID {
      out = append(out, m)
    }
  }
  sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
  return out, nil
}

func (f *fakeChatMessageRepo) DeleteByInterventionID(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) error {
  kept := f.messages[:0]
  for _, m := range f.messages {
    if m.InterventionID != interventionID {
      kept = append(kept, m)
    }
  }
  f.messages = kept
  return nil
}

// fakeLLMClient records what the manager hands it and replies from a queue.
type fakeLLMClient struct {
  reply       string
  err         error
  gotPrompt   string
  gotHistory  []*types.ChatMessage
  gotUserText string

  // When set, SendMessage signals started and blocks until released.
  started  chan struct{}
  released chan struct{}
}

var errFakeTransport = errors.New("connection refused")

func (f *fakeLLMClient) SendMessage(ctx context.Context, systemPrompt string, history []*types.ChatMessage, userMessage string) (string, error) {
  f.gotPrompt = systemPrompt
  f.gotHistory = history
  f.gotUserText = userMessage
  if f.started != nil {
    f.started <- struct{}{}
    <-f.released
  }
  if f.err != nil {
    return "", f.err
  }
  return f.reply, nil
}

func makeIntervention(name string) *types.Intervention {
  return &types.Intervention{
    ID:           uuid.New(),
    Name:         name,
    Category:     types.CategoryOceanBased,
    Bio:          "test bio",
    OpeningLine:  "hey, it's " + name,
    SystemPrompt: "You are " + name + ".",
  }
}
