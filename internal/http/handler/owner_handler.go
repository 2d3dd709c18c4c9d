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

type OwnerHandler struct {
	ownerService *service.OwnerService
	logger       *zap.Logger
}

func NewOwnerHandler(ownerService *service.OwnerService, logger *zap.Logger) *OwnerHandler {
	return &OwnerHandler{
		ownerService: ownerService,
		logger:       logger,
	}
}

// List handles GET /owners?active=true
func (h *OwnerHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	owners, err := h.ownerService.List(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list owners", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list owners")
		return
	}

	respondJSON(w, http.StatusOK, owners)
}

// Get handles GET /owners/{id}
func (h *OwnerHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, err := h.ownerService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Owner not found")
			return
		}
		h.logger.Error("Failed to get owner", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to get owner")
		return
	}

	respondJSON(w, http.StatusOK, owner)
}

// Create handles POST /owners
func (h *OwnerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	owner, err := h.ownerService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrConflict) {
			respondWithError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("Failed to create owner", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create owner")
		return
	}

	respondJSON(w, http.StatusCreated, owner)
}

// Update handles PUT /owners/{id}
func (h *OwnerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	owner, err := h.ownerService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Owner not found")
			return
		}
		h.logger.Error("Failed to update owner", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update owner")
		return
	}

	respondJSON(w, http.StatusOK, owner)
}
