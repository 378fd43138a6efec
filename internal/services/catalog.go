package services

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/google/uuid"
  "gopkg.in/yaml.v3"
  "gorm.io/datatypes"
  "github.com/yungbote/climatematch-backend/internal/logger"
  "github.com/yungbote/climatematch-backend/internal/repos"
  "github.com/yungbote/climatematch-backend/internal/types"
)

// CatalogService loads the intervention catalog from a YAML file and seeds
// the database on first run. A missing or unreadable file yields an empty
// catalog, not a startup failure.
type CatalogService interface {
  SeedIfEmpty(ctx context.Context) error
  GetAll(ctx context.Context) ([]*types.Intervention, error)
  GetByID(ctx context.Context, interventionID uuid.UUID) (*types.Intervention, error)
}

type catalogRecord struct {
  Name           string   `yaml:"name"`
  Category       string   `yaml:"category"`
  Bio            string   `yaml:"bio"`
  Pros           []string `yaml:"pros"`
  Cons           []string `yaml:"cons"`
  Icon           string   `yaml:"icon"`
  GradientColors []string `yaml:"gradient_colors"`
  ResearchLevel  int      `yaml:"research_level"`
  TechReadiness  int      `yaml:"tech_readiness"`
  PublicSupport  int      `yaml:"public_support"`
  FlirtStyle     string   `yaml:"flirt_style"`
  OpeningLine    string   `yaml:"opening_line"`
  SystemPrompt   string   `yaml:"system_prompt"`
}

type catalogService struct {
  log              *logger.Logger
  interventionRepo repos.InterventionRepo
  path             string
}

func NewCatalogService(log *logger.Logger, interventionRepo repos.InterventionRepo, path string) CatalogService {
  serviceLog := log.With("service", "CatalogService")
  return &catalogService{
    log:              serviceLog,
    interventionRepo: interventionRepo,
    path:             path,
  }
}

// SeedIfEmpty inserts the catalog file's personas when the table has no
// rows. Existing rows always win; the catalog is immutable after first load.
func (cs *catalogService) SeedIfEmpty(ctx context.Context) error {
  count, err := cs.interventionRepo.Count(ctx, nil)
  if err != nil {
    return fmt.Errorf("error counting interventions: %w", err)
  }
  if count > 0 {
    cs.log.Info("Catalog already seeded", "count", count)
    return nil
  }

  records, err := loadCatalogFile(cs.path)
  if err != nil {
    cs.log.Warn("Could not load catalog file, starting with empty catalog", "path", cs.path, "error", err)
    return nil
  }

  interventions := make([]*types.Intervention, 0, len(records))
  for _, r := range records {
    interventions = append(interventions, &types.Intervention{
      ID:             uuid.New(),
      Name:           r.Name,
      Category:       types.ParseCategory(r.Category),
      Bio:            r.Bio,
      Pros:           datatypes.NewJSONSlice(r.Pros),
      Cons:           datatypes.NewJSONSlice(r.Cons),
      Icon:           r.Icon,
      GradientColors: datatypes.NewJSONSlice(r.GradientColors),
      ResearchLevel:  r.ResearchLevel,
      TechReadiness:  r.TechReadiness,
      PublicSupport:  r.PublicSupport,
      FlirtStyle:     r.FlirtStyle,
      OpeningLine:    r.OpeningLine,
      SystemPrompt:   r.SystemPrompt,
      CreatedAt:      time.Now().UTC(),
    })
  }

  if _, err := cs.interventionRepo.Create(ctx, nil, interventions); err != nil {
    return fmt.Errorf("error seeding interventions: %w", err)
  }
  cs.log.Info("Catalog seeded", "count", len(interventions))
  return nil
}

func (cs *catalogService) GetAll(ctx context.Context) ([]*types.Intervention, error) {
  return cs.interventionRepo.GetAll(ctx, nil)
}

func (cs *catalogService) GetByID(ctx context.Context, interventionID uuid.UUID) (*types.Intervention, error) {
  return cs.interventionRepo.GetByID(ctx, nil, interventionID)
}

func loadCatalogFile(path string) ([]catalogRecord, error) {
  raw, err := os.ReadFile(path)
  if err != nil {
    return nil, err
  }
  var records []catalogRecord
  if err := yaml.Unmarshal(raw, &records); err != nil {
    return nil, fmt.Errorf("invalid catalog yaml: %w", err)
  }
  return records, nil
}
