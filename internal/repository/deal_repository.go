package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/natemoovs/salesops-api/internal/domain"
)

// DealFilters contains all filter options for listing deals
type DealFilters struct {
	Status        *domain.DealStatus
	StageID       *string
	OwnerID       *string
	PipelineID    *string
	MinAmount     *float64
	MaxAmount     *float64
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	SearchQuery   *string
}

// DealSortOption represents available sort options
type DealSortOption string

const (
	DealSortByCreatedDesc DealSortOption = "created_desc"
	DealSortByCreatedAsc  DealSortOption = "created_asc"
	DealSortByAmountDesc  DealSortOption = "amount_desc"
	DealSortByAmountAsc   DealSortOption = "amount_asc"
	DealSortByNameAsc     DealSortOption = "name_asc"
)

type DealRepository struct {
	db *gorm.DB
}

func NewDealRepository(db *gorm.DB) *DealRepository {
	return &DealRepository{db: db}
}

func (r *DealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	// Omit associations to avoid GORM trying to validate related records
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(deal).Error
}

func (r *DealRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deal, error) {
	var deal domain.Deal
	err := r.db.WithContext(ctx).
		Preload("Stage").
		Preload("Owner").
		Where("id = ?", id).
		First(&deal).Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

func (r *DealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(deal).Error
}

func (r *DealRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Deal{}, "id = ?", id).Error
}

func (r *DealRepository) List(ctx context.Context, page, pageSize int, filters *DealFilters, sortBy DealSortOption) ([]domain.Deal, int64, error) {
	var deals []domain.Deal
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Deal{}).Preload("Stage").Preload("Owner")
	query = r.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.applySorting(query, sortBy)

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&deals).Error

	return deals, total, err
}

// ListForAnalytics loads the full deal snapshot the analytics engine runs
// over. pipelineID "" or "all" loads every pipeline. No pagination: the
// report needs the complete population to aggregate correctly.
func (r *DealRepository) ListForAnalytics(ctx context.Context, pipelineID string) ([]domain.Deal, error) {
	var deals []domain.Deal
	query := r.db.WithContext(ctx).Model(&domain.Deal{})
	if pipelineID != "" && pipelineID != domain.PipelineAll {
		query = query.Where("pipeline_id = ?", pipelineID)
	}
	err := query.Order("created_at ASC, id ASC").Find(&deals).Error
	return deals, err
}

// UpdateStage moves a deal to a new stage and restamps the stage entry time
func (r *DealRepository) UpdateStage(ctx context.Context, id uuid.UUID, stageID string, enteredAt time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Deal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"stage_id":                 stageID,
			"entered_current_stage_at": enteredAt,
			"updated_at":               enteredAt,
		}).Error
}

// MarkAsWon closes a deal as won
func (r *DealRepository) MarkAsWon(ctx context.Context, id uuid.UUID, closedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Deal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     domain.DealStatusWon,
			"closed_at":  closedAt,
			"updated_at": closedAt,
		}).Error
}

// MarkAsLost closes a deal as lost with an optional reason
func (r *DealRepository) MarkAsLost(ctx context.Context, id uuid.UUID, reason *string, closedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.Deal{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      domain.DealStatusLost,
			"loss_reason": reason,
			"closed_at":   closedAt,
			"updated_at":  closedAt,
		}).Error
}

func (r *DealRepository) applyFilters(query *gorm.DB, filters *DealFilters) *gorm.DB {
	if filters == nil {
		return query
	}

	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StageID != nil {
		query = query.Where("stage_id = ?", *filters.StageID)
	}
	if filters.OwnerID != nil {
		query = query.Where("owner_id = ?", *filters.OwnerID)
	}
	if filters.PipelineID != nil && *filters.PipelineID != domain.PipelineAll {
		query = query.Where("pipeline_id = ?", *filters.PipelineID)
	}
	if filters.MinAmount != nil {
		query = query.Where("amount >= ?", *filters.MinAmount)
	}
	if filters.MaxAmount != nil {
		query = query.Where("amount <= ?", *filters.MaxAmount)
	}
	if filters.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filters.CreatedAfter)
	}
	if filters.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filters.CreatedBefore)
	}
	if filters.SearchQuery != nil && *filters.SearchQuery != "" {
		search := "%" + strings.ToLower(*filters.SearchQuery) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(company_name) LIKE ?", search, search)
	}

	return query
}

func (r *DealRepository) applySorting(query *gorm.DB, sortBy DealSortOption) *gorm.DB {
	switch sortBy {
	case DealSortByCreatedAsc:
		return query.Order("created_at ASC")
	case DealSortByAmountDesc:
		return query.Order("amount DESC NULLS LAST")
	case DealSortByAmountAsc:
		return query.Order("amount ASC NULLS LAST")
	case DealSortByNameAsc:
		return query.Order("name ASC")
	default:
		return query.Order("created_at DESC")
	}
}
