package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/natemoovs/salesops-api/internal/domain"
)

type StageTransitionRepository struct {
	db *gorm.DB
}

func NewStageTransitionRepository(db *gorm.DB) *StageTransitionRepository {
	return &StageTransitionRepository{db: db}
}

// RecordTransition appends a stage change to a deal's history.
// FromStageID is nil for the transition that creates the deal.
func (r *StageTransitionRepository) RecordTransition(ctx context.Context, dealID uuid.UUID, fromStageID *string, toStageID, notes string, occurredAt time.Time) error {
	transition := &domain.StageTransition{
		ID:          uuid.New(),
		DealID:      dealID,
		FromStageID: fromStageID,
		ToStageID:   toStageID,
		Notes:       notes,
		OccurredAt:  occurredAt,
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(transition).Error
}

// ListByDeal returns a deal's transitions in chronological order
func (r *StageTransitionRepository) ListByDeal(ctx context.Context, dealID uuid.UUID) ([]domain.StageTransition, error) {
	var transitions []domain.StageTransition
	err := r.db.WithContext(ctx).
		Where("deal_id = ?", dealID).
		Order("occurred_at ASC").
		Find(&transitions).Error
	return transitions, err
}

// ListAll returns every transition in chronological order, for the
// analytics snapshot
func (r *StageTransitionRepository) ListAll(ctx context.Context) ([]domain.StageTransition, error) {
	var transitions []domain.StageTransition
	err := r.db.WithContext(ctx).
		Order("occurred_at ASC, id ASC").
		Find(&transitions).Error
	return transitions, err
}

// DeleteByDeal removes a deal's history, used when the deal itself is deleted
func (r *StageTransitionRepository) DeleteByDeal(ctx context.Context, dealID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.StageTransition{}, "deal_id = ?", dealID).Error
}
