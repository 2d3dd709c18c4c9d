package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/natemoovs/salesops-api/internal/domain"
)

type StageRepository struct {
	db *gorm.DB
}

func NewStageRepository(db *gorm.DB) *StageRepository {
	return &StageRepository{db: db}
}

func (r *StageRepository) Create(ctx context.Context, stage *domain.Stage) error {
	return r.db.WithContext(ctx).Create(stage).Error
}

func (r *StageRepository) GetByID(ctx context.Context, id string) (*domain.Stage, error) {
	var stage domain.Stage
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&stage).Error
	if err != nil {
		return nil, err
	}
	return &stage, nil
}

func (r *StageRepository) Update(ctx context.Context, stage *domain.Stage) error {
	return r.db.WithContext(ctx).Save(stage).Error
}

func (r *StageRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Stage{}, "id = ?", id).Error
}

// List returns stages ordered by display order, optionally scoped to one
// pipeline. Unscoped stages (nil pipeline id) are always included since
// they belong to the default pipeline.
func (r *StageRepository) List(ctx context.Context, pipelineID string) ([]domain.Stage, error) {
	var stages []domain.Stage
	query := r.db.WithContext(ctx).Model(&domain.Stage{})
	if pipelineID != "" && pipelineID != domain.PipelineAll {
		query = query.Where("pipeline_id = ? OR pipeline_id IS NULL", pipelineID)
	}
	err := query.Order("display_order ASC").Find(&stages).Error
	return stages, err
}

// CountDeals returns the number of deals currently sitting in a stage
func (r *StageRepository) CountDeals(ctx context.Context, stageID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Deal{}).
		Where("stage_id = ?", stageID).
		Count(&count).Error
	return count, err
}
