package types

type InterventionCategory string

const (
  CategoryStratospheric   InterventionCategory = "Stratospheric/SRM"
  CategoryOceanBased      InterventionCategory = "Ocean-Based"
  CategoryIcePreservation InterventionCategory = "Ice Preservation"
  CategoryLocalized       InterventionCategory = "Localized/Regional"
  CategoryOpenSystems     InterventionCategory = "Open Systems"
  CategoryLandBased       InterventionCategory = "Land-Based"
)

var AllCategories = []InterventionCategory{
  CategoryStratospheric,
  CategoryOceanBased,
  CategoryIcePreservation,
  CategoryLocalized,
  CategoryOpenSystems,
  CategoryLandBased,
}

func (c InterventionCategory) Valid() bool {
  for _, known := range AllCategories {
    if c == known {
      return true
    }
  }
  return false
}

// ParseCategory falls back to Open Systems for unknown values so a stale
// catalog file never produces an unloadable persona.
func ParseCategory(raw string) InterventionCategory {
  c := InterventionCategory(raw)
  if !c.Valid() {
    return CategoryOpenSystems
  }
  return c
}
