package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

// Intervention is one persona in the catalog. Rows are created once at seed
// time and never mutated afterwards; decisions and chat messages reference
// them but never own them.
type Intervention struct {
  ID             uuid.UUID                     `gorm:"type:uuid;primaryKey" json:"id"`
  Name           string                        `gorm:"uniqueIndex;not null;column:name" json:"name"`
  Category       InterventionCategory          `gorm:"not null;column:category" json:"category"`
  Bio            string                        `gorm:"not null;column:bio" json:"bio"`
  Pros           datatypes.JSONSlice[string]   `gorm:"column:pros" json:"pros"`
  Cons           datatypes.JSONSlice[string]   `gorm:"column:cons" json:"cons"`
  Icon           string                        `gorm:"column:icon" json:"icon"`
  GradientColors datatypes.JSONSlice[string]   `gorm:"column:gradient_colors" json:"gradient_colors"`
  ResearchLevel  int                           `gorm:"not null;column:research_level" json:"research_level"`
  TechReadiness  int                           `gorm:"not null;column:tech_readiness" json:"tech_readiness"`
  PublicSupport  int                           `gorm:"not null;column:public_support" json:"public_support"`
  FlirtStyle     string                        `gorm:"column:flirt_style" json:"flirt_style"`
  OpeningLine    string                        `gorm:"not null;column:opening_line" json:"opening_line"`
  SystemPrompt   string                        `gorm:"not null;column:system_prompt" json:"system_prompt"`
  CreatedAt      time.Time                     `gorm:"not null" json:"created_at"`
}

func (Intervention) TableName() string {
  return "intervention"
}
