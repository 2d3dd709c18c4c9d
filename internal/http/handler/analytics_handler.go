package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/natemoovs/salesops-api/internal/domain"
	"github.com/natemoovs/salesops-api/internal/service"
)

type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
	logger           *zap.Logger
}

func NewAnalyticsHandler(analyticsService *service.AnalyticsService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// GetPipelineReport handles GET /analytics/pipeline?period=30d&pipeline=default
func (h *AnalyticsHandler) GetPipelineReport(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	pipelineID := r.URL.Query().Get("pipeline")

	report, err := h.analyticsService.GetPipelineReport(r.Context(), period, pipelineID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPeriod) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		if errors.Is(err, domain.ErrInconsistentStageCatalog) {
			h.logger.Error("Stage catalog is inconsistent", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		h.logger.Error("Failed to build pipeline report", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to build pipeline report")
		return
	}

	respondJSON(w, http.StatusOK, report)
}
