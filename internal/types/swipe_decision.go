package types

import (
  "time"
  "github.com/google/uuid"
)

// SwipeDecision records the user's accept/reject choice on one intervention.
// The deck never re-offers an intervention that has a decision, so under
// normal operation there is at most one row per intervention.
type SwipeDecision struct {
  ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
  InterventionID uuid.UUID  `gorm:"type:uuid;not null;index;column:intervention_id" json:"intervention_id"`
  Liked          bool       `gorm:"not null;column:liked" json:"liked"`
  Timestamp      time.Time  `gorm:"not null;column:timestamp" json:"timestamp"`
}

func (SwipeDecision) TableName() string {
  return "swipe_decision"
}
