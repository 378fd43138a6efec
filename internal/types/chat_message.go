package types

import (
  "time"
  "github.com/google/uuid"
)

// ChatMessage is one turn in an intervention's conversation log. Rows are
// append-only; the only delete path is clearing a whole conversation.
type ChatMessage struct {
  ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  InterventionID uuid.UUID  `gorm:"type:uuid;not null;index;column:intervention_id" json:"intervention_id"`
  Content        string     `gorm:"not null;column:content" json:"content"`
  IsFromUser     bool       `gorm:"not null;column:is_from_user" json:"is_from_user"`
  Timestamp      time.Time  `gorm:"not null;index;column:timestamp" json:"timestamp"`
}

func (ChatMessage) TableName() string {
  return "chat_message"
}
