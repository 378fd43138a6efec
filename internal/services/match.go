package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"
  "github.com/yungbote/climatematch-backend/internal/logger"
  "github.com/yungbote/climatematch-backend/internal/repos"
  "github.com/yungbote/climatematch-backend/internal/types"
)

// Match is a liked intervention paired with when it was liked.
type Match struct {
  Intervention *types.Intervention `json:"intervention"`
  LikedAt      time.Time           `json:"liked_at"`
}

// MatchService is the read-only view over liked decisions.
type MatchService interface {
  GetMatches(ctx context.Context) ([]*Match, error)
}

type matchService struct {
  log              *logger.Logger
  interventionRepo repos.InterventionRepo
  decisionRepo     repos.SwipeDecisionRepo
}

func NewMatchService(log *logger.Logger, interventionRepo repos.InterventionRepo, decisionRepo repos.SwipeDecisionRepo) MatchService {
  serviceLog := log.With("service", "MatchService")
  return &matchService{
    log:              serviceLog,
    interventionRepo: interventionRepo,
    decisionRepo:     decisionRepo,
  }
}

// GetMatches returns liked interventions, most recently liked first.
func (ms *matchService) GetMatches(ctx context.Context) ([]*Match, error) {
  liked, err := ms.decisionRepo.GetLiked(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("error loading decisions: %w", err)
  }
  if len(liked) == 0 {
    return []*Match{}, nil
  }

  interventions, err := ms.interventionRepo.GetAll(ctx, nil)
  if err != nil {
    return nil, fmt.Errorf("error loading interventions: %w", err)
  }
  byID := make(map[uuid.UUID]*types.Intervention, len(interventions))
  for _, intervention := range interventions {
    byID[intervention.ID] = intervention
  }

  matches := make([]*Match, 0, len(liked))
  for _, decision := range liked {
    intervention, ok := byID[decision.InterventionID]
    if !ok {
      ms.log.Warn("Decision references unknown intervention", "intervention_id", decision.InterventionID)
      continue
    }
    matches = append(matches, &Match{Intervention: intervention, LikedAt: decision.Timestamp})
  }
  return matches, nil
}
