package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/natemoovs/salesops-api/internal/domain"
	"github.com/natemoovs/salesops-api/internal/service"
)

type StageHandler struct {
	stageService *service.StageService
	logger       *zap.Logger
}

func NewStageHandler(stageService *service.StageService, logger *zap.Logger) *StageHandler {
	return &StageHandler{
		stageService: stageService,
		logger:       logger,
	}
}

// List handles GET /stages?pipeline=default
func (h *StageHandler) List(w http.ResponseWriter, r *http.Request) {
	stages, err := h.stageService.List(r.Context(), r.URL.Query().Get("pipeline"))
	if err != nil {
		h.logger.Error("Failed to list stages", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list stages")
		return
	}

	respondJSON(w, http.StatusOK, stages)
}

// Create handles POST /stages
func (h *StageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	stage, err := h.stageService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("Failed to create stage", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create stage")
		return
	}

	respondJSON(w, http.StatusCreated, stage)
}

// Update handles PUT /stages/{id}
func (h *StageHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	stage, err := h.stageService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Stage not found")
			return
		}
		h.logger.Error("Failed to update stage", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update stage")
		return
	}

	respondJSON(w, http.StatusOK, stage)
}

// Delete handles DELETE /stages/{id}
func (h *StageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.stageService.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Stage not found")
		case errors.Is(err, service.ErrStageNotEmpty):
			respondWithError(w, http.StatusConflict, err.Error())
		default:
			h.logger.Error("Failed to delete stage", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to delete stage")
		}
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
