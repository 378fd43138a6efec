package handlers

import (
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/yungbote/climatematch-backend/internal/services"
)

type InterventionHandler struct {
  catalogService services.CatalogService
}

func NewInterventionHandler(catalogService services.CatalogService) *InterventionHandler {
  return &InterventionHandler{catalogService: catalogService}
}

func (ih *InterventionHandler) GetAll(c *gin.Context) {
  interventions, err := ih.catalogService.GetAll(c.Request.Context())
  if err != nil {
    RespondError(c, http.StatusInternalServerError, "catalog_load_failed", err)
    return
  }
  RespondOK(c, gin.H{"interventions": interventions})
}

func (ih *InterventionHandler) GetByID(c *gin.Context) {
  interventionID, err := uuid.Parse(c.Param("interventionID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_intervention_id", err)
    return
  }
  intervention, err := ih.catalogService.GetByID(c.Request.Context(), interventionID)
  if err != nil {
    RespondError(c, http.StatusNotFound, "intervention_not_found", err)
    return
  }
  RespondOK(c, gin.H{"intervention": intervention})
}
