package services

import (
  "context"
  "errors"
  "testing"

  "github.com/yungbote/climatematch-backend/internal/types"
)

func newChatFixture(t *testing.T, llm LLMClient) (ChatService, *types.Intervention, *fakeChatMessageRepo) {
  t.Helper()
  intervention := makeIntervention("Marine Cloud Brightening")
  interventionRepo := &fakeInterventionRepo{interventions: []*types.Intervention{intervention}}
  messageRepo := &fakeChatMessageRepo{}
  chat := NewChatService(newTestLogger(t), interventionRepo, messageRepo, llm)
  return chat, intervention, messageRepo
}

func TestInitializeBootstrapsOpeningLine(t *testing.T) {
  chat, intervention, messageRepo := newChatFixture(t, &fakeLLMClient{})
  ctx := context.Background()

  messages, err := chat.Initialize(ctx, intervention.ID)
  if err != nil {
    t.Fatalf("Initialize: %v", err)
  }
  if len(messages) != 1 {
    t.Fatalf("got %d messages, want 1", len(messages))
  }
  if messages[0].Content != intervention.OpeningLine {
    t.Fatalf("first message = %q, want opening line", messages[0].Content)
  }
  if messages[0].IsFromUser {
    t.Fatalf("opening line marked as user message")
  }
  if len(messageRepo.messages) != 1 {
    t.Fatalf("opening line not persisted")
  }

  // Second initialize must not bootstrap again.
  again, err := chat.Initialize(ctx, intervention.ID)
  if err != nil {
    t.Fatalf("Initialize again: %v", err)
  }
  if len(again) != 1 || len(messageRepo.messages) != 1 {
    t.Fatalf("re-initialize duplicated the opening line")
  }
}

func TestInitializeLoadsExistingHistory(t *testing.T) {
  chat, intervention, messageRepo := newChatFixture(t, &fakeLLMClient{})
  ctx := context.Background()

  if _, err := chat.Initialize(ctx, intervention.ID); err != nil {
    t.Fatalf("Initialize: %v", err)
  }
  persisted := len(messageRepo.messages)

  // A fresh service over the same store sees the same log and does not
  // bootstrap another opening line.
  interventionRepo := &fakeInterventionRepo{interventions: []*types.Intervention{intervention}}
  fresh := NewChatService(newTestLogger(t), interventionRepo, messageRepo, &fakeLLMClient{})
  messages, err := fresh.Initialize(ctx, intervention.ID)
  if err != nil {
    t.Fatalf("fresh Initialize: %v", err)
  }
  if len(messages) != persisted {
    t.Fatalf("fresh service sees %d messages, want %d", len(messages), persisted)
  }
}

func TestSendMessageSuccess(t *testing.T) {
  llm := &fakeLLMClient{reply: "miss me already? 😏"}
  chat, intervention, messageRepo := newChatFixture(t, llm)
  ctx := context.Background()

  reply, err := chat.SendMessage(ctx, intervention.ID, "hey you")
  if err != nil {
    t.Fatalf("SendMessage: %v", err)
  }
  if reply == nil || reply.Content != "miss me already? 😏" {
    t.Fatalf("reply = %+v", reply)
  }
  if reply.IsFromUser {
    t.Fatalf("assistant reply marked as user message")
  }

  if llm.gotPrompt != intervention.SystemPrompt {
    t.Fatalf("client got prompt %q", llm.gotPrompt)
  }
  if llm.gotUserText != "hey you" {
    t.Fatalf("client got user text %q", llm.gotUserText)
  }
  // History handed to the client stops before the new user message.
  if len(llm.gotHistory) != 1 || llm.gotHistory[0].Content != intervention.OpeningLine {
    t.Fatalf("client history = %+v", llm.gotHistory)
  }

  history, err := chat.History(ctx, intervention.ID)
  if err != nil {
    t.Fatalf("History: %v", err)
  }
  if len(history) != 3 {
    t.Fatalf("history has %d messages, want 3", len(history))
  }
  // opening (assistant), user, assistant — strict alternation, ordered.
  wantFromUser := []bool{false, true, false}
  for i, m := range history {
    if m.IsFromUser != wantFromUser[i] {
      t.Fatalf("message %d IsFromUser=%v", i, m.IsFromUser)
    }
    if i > 0 && m.Timestamp.Before(history[i-1].Timestamp) {
      t.Fatalf("timestamps not non-decreasing at %d", i)
    }
  }
  if len(messageRepo.messages) != 3 {
    t.Fatalf("persisted %d messages, want 3", len(messageRepo.messages))
  }
}

func TestSendMessageEmptyInputIsNoOp(t *testing.T) {
  chat, intervention, messageRepo := newChatFixture(t, &fakeLLMClient{reply: "should never be sent"})
  ctx := context.Background()

  reply, err := chat.SendMessage(ctx, intervention.ID, "   \n\t ")
  if err != nil {
    t.Fatalf("SendMessage: %v", err)
  }
  if reply != nil {
    t.Fatalf("whitespace input produced reply %+v", reply)
  }
  if len(messageRepo.messages) != 0 {
    t.Fatalf("whitespace input persisted %d messages", len(messageRepo.messages))
  }
}

func TestSendMessageFailureKeepsUserMessage(t *testing.T) {
  llm := &fakeLLMClient{err: &NetworkError{Err: errFakeTransport}}
  chat, intervention, messageRepo := newChatFixture(t, llm)
  ctx := context.Background()

  _, err := chat.SendMessage(ctx, intervention.ID, "are you there?")
  var netErr *NetworkError
  if !errors.As(err, &netErr) {
    t.Fatalf("expected NetworkError, got %v", err)
  }

  // Optimistic append survives the failure; no assistant message follows.
  history, err := chat.History(ctx, intervention.ID)
  if err != nil {
    t.Fatalf("History: %v", err)
  }
  if len(history) != 2 {
    t.Fatalf("history has %d messages, want opening + user", len(history))
  }
  last := history[len(history)-1]
  if !last.IsFromUser || last.Content != "are you there?" {
    t.Fatalf("last message = %+v", last)
  }
  if len(messageRepo.messages) != 2 {
    t.Fatalf("persisted %d messages, want 2", len(messageRepo.messages))
  }

  if chat.ErrorState(intervention.ID) == "" {
    t.Fatalf("error state not set after failure")
  }

  // A successful resend clears the error state.
  llm.err = nil
  llm.reply = "yeah, sorry, signal's bad up here ☁️"
  if _, err := chat.SendMessage(ctx, intervention.ID, "hello??"); err != nil {
    t.Fatalf("resend: %v", err)
  }
  if got := chat.ErrorState(intervention.ID); got != "" {
    t.Fatalf("error state not cleared on success: %q", got)
  }
}

func TestSendMessagePlaceholderCredential(t *testing.T) {
  llm := &fakeLLMClient{err: ErrInvalidAPIKey}
  chat, intervention, messageRepo := newChatFixture(t, llm)
  ctx := context.Background()

  _, err := chat.SendMessage(ctx, intervention.ID, "hello")
  if !errors.Is(err, ErrInvalidAPIKey) {
    t.Fatalf("expected ErrInvalidAPIKey, got %v", err)
  }
  for _, m := range messageRepo.messages {
    if !m.IsFromUser && m.Content != intervention.OpeningLine {
      t.Fatalf("assistant message appended despite credential failure: %+v", m)
    }
  }
  if got := chat.ErrorState(intervention.ID); got != "Invalid or missing API key" {
    t.Fatalf("error state = %q", got)
  }
}

func TestDismissError(t *testing.T) {
  llm := &fakeLLMClient{err: ErrInvalidAPIKey}
  chat, intervention, _ := newChatFixture(t, llm)
  ctx := context.Background()

  _, _ = chat.SendMessage(ctx, intervention.ID, "hello")
  if chat.ErrorState(intervention.ID) == "" {
    t.Fatalf("error state not set")
  }
  chat.DismissError(intervention.ID)
  if got := chat.ErrorState(intervention.ID); got != "" {
    t.Fatalf("error state not dismissed: %q", got)
  }
}

func TestClearRebootstraps(t *testing.T) {
  llm := &fakeLLMClient{reply: "ok!"}
  chat, intervention, messageRepo := newChatFixture(t, llm)
  ctx := context.Background()

  if _, err := chat.SendMessage(ctx, intervention.ID, "hi"); err != nil {
    t.Fatalf("SendMessage: %v", err)
  }
  if len(messageRepo.messages) != 3 {
    t.Fatalf("expected 3 persisted messages before clear")
  }

  messages, err := chat.Clear(ctx, intervention.ID)
  if err != nil {
    t.Fatalf("Clear: %v", err)
  }
  if len(messages) != 1 || messages[0].Content != intervention.OpeningLine {
    t.Fatalf("clear left %+v", messages)
  }
  if len(messageRepo.messages) != 1 {
    t.Fatalf("store holds %d messages after clear, want 1", len(messageRepo.messages))
  }

  // Clearing an already-cleared conversation reproduces the same single
  // opening line.
  again, err := chat.Clear(ctx, intervention.ID)
  if err != nil {
    t.Fatalf("second Clear: %v", err)
  }
  if len(again) != 1 || len(messageRepo.messages) != 1 {
    t.Fatalf("second clear not idempotent: %d in store", len(messageRepo.messages))
  }
}

func TestSendMessageRejectsOverlappingSend(t *testing.T) {
  llm := &fakeLLMClient{
    reply:    "done",
    started:  make(chan struct{}),
    released: make(chan struct{}),
  }
  chat, intervention, _ := newChatFixture(t, llm)
  ctx := context.Background()

  if _, err := chat.Initialize(ctx, intervention.ID); err != nil {
    t.Fatalf("Initialize: %v", err)
  }

  firstDone := make(chan error, 1)
  go func() {
    _, err := chat.SendMessage(ctx, intervention.ID, "first")
    firstDone <- err
  }()

  <-llm.started
  _, err := chat.SendMessage(ctx, intervention.ID, "second")
  if !errors.Is(err, ErrSendInFlight) {
    t.Fatalf("expected ErrSendInFlight, got %v", err)
  }
  close(llm.released)

  if err := <-firstDone; err != nil {
    t.Fatalf("first send: %v", err)
  }
}
