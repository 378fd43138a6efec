package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/climatematch-backend/internal/logger"
  "github.com/yungbote/climatematch-backend/internal/types"
)

type ChatMessageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, message *types.ChatMessage) (*types.ChatMessage, error)
  GetByInterventionID(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) ([]*types.ChatMessage, error)
  DeleteByInterventionID(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) error
}

type chatMessageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
  repoLog := baseLog.With("repo", "ChatMessageRepo")
  return &chatMessageRepo{db: db, log: repoLog}
}

func (cr *chatMessageRepo) Create(ctx context.Context, tx *gorm.DB, message *types.ChatMessage) (*types.ChatMessage, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if err := transaction.WithContext(ctx).Create(message).Error; err != nil {
    return nil, err
  }

  return message, nil
}

func (cr *chatMessageRepo) GetByInterventionID(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) ([]*types.ChatMessage, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.ChatMessage

  if err := transaction.WithContext(ctx).
    Where("intervention_id = ?", interventionID).
    Order("timestamp ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (cr *chatMessageRepo) DeleteByInterventionID(ctx context.Context, tx *gorm.DB, interventionID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if err := transaction.WithContext(ctx).
    Where("intervention_id = ?", interventionID).
    Delete(&types.ChatMessage{}).Error; err != nil {
    return err
  }
  return nil
}
