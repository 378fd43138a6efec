package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/climatematch-backend/internal/logger"
  "github.com/yungbote/climatematch-backend/internal/types"
)

type SwipeDecisionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, decision *types.SwipeDecision) (*types.SwipeDecision, error)
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.SwipeDecision, error)
  GetLiked(ctx context.Context, tx *gorm.DB) ([]*types.SwipeDecision, error)
  ExistsForIntervention(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) (bool, error)
  DeleteAll(ctx context.Context, tx *gorm.DB) error
}

type swipeDecisionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSwipeDecisionRepo(db *gorm.DB, baseLog *logger.Logger) SwipeDecisionRepo {
  repoLog := baseLog.With("repo", "SwipeDecisionRepo")
  return &swipeDecisionRepo{db: db, log: repoLog}
}

func (sr *swipeDecisionRepo) Create(ctx context.Context, tx *gorm.DB, decision *types.SwipeDecision) (*types.SwipeDecision, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if err := transaction.WithContext(ctx).Create(decision).Error; err != nil {
    return nil, err
  }

  return decision, nil
}

func (sr *swipeDecisionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.SwipeDecision, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var results []*types.SwipeDecision

  if err := transaction.WithContext(ctx).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *swipeDecisionRepo) GetLiked(ctx context.Context, tx *gorm.DB) ([]*types.SwipeDecision, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var results []*types.SwipeDecision

  if err := transaction.WithContext(ctx).
    Where("liked = ?", true).
    Order("timestamp DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (sr *swipeDecisionRepo) ExistsForIntervention(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var count int64

  if err := transaction.WithContext(ctx).
    Model(&types.SwipeDecision{}).
    Where("intervention_id = ?", interventionID).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}

func (sr *swipeDecisionRepo) DeleteAll(ctx context.Context, tx *gorm.DB) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if err := transaction.WithContext(ctx).
    Where("1 = 1").
    Delete(&types.SwipeDecision{}).Error; err != nil {
    return err
  }
  return nil
}
