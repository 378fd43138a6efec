package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/climatematch-backend/internal/logger"
  "github.com/yungbote/climatematch-backend/internal/types"
)

type InterventionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, interventions []*types.Intervention) ([]*types.Intervention, error)
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Intervention, error)
  GetByID(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) (*types.Intervention, error)
  Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type interventionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewInterventionRepo(db *gorm.DB, baseLog *logger.Logger) InterventionRepo {
  repoLog := baseLog.With("repo", "InterventionRepo")
  return &interventionRepo{db: db, log: repoLog}
}

func (ir *interventionRepo) Create(ctx context.Context, tx *gorm.DB, interventions []*types.Intervention) ([]*types.Intervention, error) {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }

  if len(interventions) == 0 {
    return []*types.Intervention{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&interventions).Error; err != nil {
    return nil, err
  }

  return interventions, nil
}

func (ir *interventionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Intervention, error) {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }

  var results []*types.Intervention

  if err := transaction.WithContext(ctx).
    Order("name ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (ir *interventionRepo) GetByID(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) (*types.Intervention, error) {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }

  var result types.Intervention

  if err := transaction.WithContext(ctx).
    Where("id = ?", interventionID).
    First(&result).Error; err != nil {
    return nil, err
  }
  return &result, nil
}

func (ir *interventionRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = ir.db
  }

  var count int64

  if err := transaction.WithContext(ctx).
    Model(&types.Intervention{}).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}
