package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/natemoovs/salesops-api/internal/domain"
	"github.com/natemoovs/salesops-api/internal/repository"
	"github.com/natemoovs/salesops-api/internal/service"
)

type DealHandler struct {
	dealService *service.DealService
	logger      *zap.Logger
}

func NewDealHandler(dealService *service.DealService, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		dealService: dealService,
		logger:      logger,
	}
}

// List handles GET /deals with optional filters
func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}

	filters := &repository.DealFilters{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.DealStatus(s)
		if !status.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		filters.Status = &status
	}
	if st := r.URL.Query().Get("stageId"); st != "" {
		filters.StageID = &st
	}
	if o := r.URL.Query().Get("ownerId"); o != "" {
		filters.OwnerID = &o
	}
	if p := r.URL.Query().Get("pipeline"); p != "" {
		filters.PipelineID = &p
	}
	if minVal := r.URL.Query().Get("minAmount"); minVal != "" {
		if v, err := strconv.ParseFloat(minVal, 64); err == nil {
			filters.MinAmount = &v
		}
	}
	if maxVal := r.URL.Query().Get("maxAmount"); maxVal != "" {
		if v, err := strconv.ParseFloat(maxVal, 64); err == nil {
			filters.MaxAmount = &v
		}
	}
	if ca := r.URL.Query().Get("createdAfter"); ca != "" {
		if t, err := time.Parse("2006-01-02", ca); err == nil {
			filters.CreatedAfter = &t
		}
	}
	if cb := r.URL.Query().Get("createdBefore"); cb != "" {
		if t, err := time.Parse("2006-01-02", cb); err == nil {
			filters.CreatedBefore = &t
		}
	}
	if q := r.URL.Query().Get("search"); q != "" {
		filters.SearchQuery = &q
	}

	sortBy := repository.DealSortOption(r.URL.Query().Get("sort"))

	result, err := h.dealService.List(r.Context(), page, pageSize, filters, sortBy)
	if err != nil {
		h.logger.Error("Failed to list deals", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list deals")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create handles POST /deals
func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Create(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to create deal")
		return
	}

	respondJSON(w, http.StatusCreated, deal)
}

// Get handles GET /deals/{id}
func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	deal, err := h.dealService.GetByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// Update handles PUT /deals/{id}
func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req domain.UpdateDealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to update deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// MoveStage handles POST /deals/{id}/move
func (h *DealHandler) MoveStage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req domain.MoveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	deal, err := h.dealService.MoveStage(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to move deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// Win handles POST /deals/{id}/win
func (h *DealHandler) Win(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	deal, err := h.dealService.Win(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "Failed to win deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// Lose handles POST /deals/{id}/lose
func (h *DealHandler) Lose(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	var req domain.LoseDealRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := validate.Struct(&req); err != nil {
			respondValidationError(w, err)
			return
		}
	}

	deal, err := h.dealService.Lose(r.Context(), id, &req)
	if err != nil {
		h.handleServiceError(w, err, "Failed to lose deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// Reopen handles POST /deals/{id}/reopen
func (h *DealHandler) Reopen(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	deal, err := h.dealService.Reopen(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "Failed to reopen deal")
		return
	}

	respondJSON(w, http.StatusOK, deal)
}

// GetStageHistory handles GET /deals/{id}/history
func (h *DealHandler) GetStageHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	history, err := h.dealService.GetStageHistory(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, "Failed to get stage history")
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Delete handles DELETE /deals/{id}
func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.dealService.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "Failed to delete deal")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

func (h *DealHandler) parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid deal ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *DealHandler) handleServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Deal not found")
	case errors.Is(err, service.ErrDealClosed):
		respondWithError(w, http.StatusConflict, "Deal is already closed")
	case errors.Is(err, service.ErrUnknownStage):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error(fallback, zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
