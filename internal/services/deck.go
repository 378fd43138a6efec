package services

import (
  "context"
  "errors"
  "fmt"
  "math/rand"
  "sync"
  "time"

  "github.com/google/uuid"
  "github.com/yungbote/climatematch-backend/internal/logger"
  "github.com/yungbote/climatematch-backend/internal/repos"
  "github.com/yungbote/climatematch-backend/internal/types"
)

// ErrDuplicateDecision rejects a second decision on an intervention that
// already has one. The queue filters decided interventions out at build
// time; this guards callers that bypass Current.
var ErrDuplicateDecision = errors.New("intervention has already been decided")

// DeckService holds the shuffled queue of not-yet-decided interventions and
// records one decision per swipe. The shuffle order is intentionally not
// reproducible across rebuilds; tests can pin it with WithShuffleSeed.
type DeckService interface {
  Current(ctx context.Context) (*types.Intervention, error)
  Remaining(ctx context.Context) (int, error)
  Decide(ctx context.Context, interventionID uuid.UUID, liked bool) error
  Reset(ctx context.Context) error
}

type deckService struct {
  log              *logger.Logger
  interventionRepo repos.InterventionRepo
  decisionRepo     repos.SwipeDecisionRepo

  mu     sync.Mutex
  rng    *rand.Rand
  queue  []*types.Intervention
  cursor int
  loaded bool
}

type DeckOption func(*deckService)

func WithShuffleSeed(seed int64) DeckOption {
  return func(ds *deckService) {
    ds.rng = rand.New(rand.NewSource(seed))
  }
}

func NewDeckService(log *logger.Logger, interventionRepo repos.InterventionRepo, decisionRepo repos.SwipeDecisionRepo, opts ...DeckOption) DeckService {
  serviceLog := log.With("service", "DeckService")
  ds := &deckService{
    log:              serviceLog,
    interventionRepo: interventionRepo,
    decisionRepo:     decisionRepo,
    rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
  }
  for _, opt := range opts {
    opt(ds)
  }
  return ds
}

// rebuild computes {all interventions} minus {decided interventions} and
// shuffles the remainder. Caller must hold ds.mu.
func (ds *deckService) rebuild(ctx context.Context) error {
  interventions, err := ds.interventionRepo.GetAll(ctx, nil)
  if err != nil {
    return fmt.Errorf("error loading interventions: %w", err)
  }
  decisions, err := ds.decisionRepo.GetAll(ctx, nil)
  if err != nil {
    return fmt.Errorf("error loading decisions: %w", err)
  }

  decided := make(map[uuid.UUID]struct{}, len(decisions))
  for _, d := range decisions {
    decided[d.InterventionID] = struct{}{}
  }

  queue := make([]*types.Intervention, 0, len(interventions))
  for _, intervention := range interventions {
    if _, ok := decided[intervention.ID]; !ok {
      queue = append(queue, intervention)
    }
  }
  ds.rng.Shuffle(len(queue), func(i, j int) {
    queue[i], queue[j] = queue[j], queue[i]
  })

  ds.queue = queue
  ds.cursor = 0
  ds.loaded = true
  ds.log.Info("Deck rebuilt", "total", len(interventions), "remaining", len(queue))
  return nil
}

func (ds *deckService) ensureLoaded(ctx context.Context) error {
  if ds.loaded {
    return nil
  }
  return ds.rebuild(ctx)
}

// Current returns the intervention at the cursor, or nil once the deck is
// exhausted.
func (ds *deckService) Current(ctx context.Context) (*types.Intervention, error) {
  ds.mu.Lock()
  defer ds.mu.Unlock()
  if err := ds.ensureLoaded(ctx); err != nil {
    return nil, err
  }
  if ds.cursor >= len(ds.queue) {
    return nil, nil
  }
  return ds.queue[ds.cursor], nil
}

func (ds *deckService) Remaining(ctx context.Context) (int, error) {
  ds.mu.Lock()
  defer ds.mu.Unlock()
  if err := ds.ensureLoaded(ctx); err != nil {
    return 0, err
  }
  return len(ds.queue) - ds.cursor, nil
}

// Decide persists one decision and advances the cursor. A second decision
// on the same intervention is rejected rather than overwritten.
func (ds *deckService) Decide(ctx context.Context, interventionID uuid.UUID, liked bool) error {
  ds.mu.Lock()
  defer ds.mu.Unlock()
  if err := ds.ensureLoaded(ctx); err != nil {
    return err
  }

  exists, err := ds.decisionRepo.ExistsForIntervention(ctx, nil, interventionID)
  if err != nil {
    return fmt.Errorf("error checking prior decision: %w", err)
  }
  if exists {
    return ErrDuplicateDecision
  }

  decision := &types.SwipeDecision{
    ID:             uuid.New(),
    InterventionID: interventionID,
    Liked:          liked,
    Timestamp:      time.Now().UTC(),
  }
  if _, err := ds.decisionRepo.Create(ctx, nil, decision); err != nil {
    return fmt.Errorf("error saving decision: %w", err)
  }

  ds.cursor++
  ds.log.Debug("Decision recorded", "intervention_id", interventionID, "liked", liked, "remaining", len(ds.queue)-ds.cursor)
  return nil
}

// Reset deletes every decision and rebuilds the queue, so all interventions
// come back freshly reshuffled.
func (ds *deckService) Reset(ctx context.Context) error {
  ds.mu.Lock()
  defer ds.mu.Unlock()

  if err := ds.decisionRepo.DeleteAll(ctx, nil); err != nil {
    return fmt.Errorf("error deleting decisions: %w", err)
  }
  return ds.rebuild(ctx)
}
