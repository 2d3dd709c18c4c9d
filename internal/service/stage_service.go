package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/natemoovs/salesops-api/internal/domain"
	"github.com/natemoovs/salesops-api/internal/repository"
)

type StageService struct {
	stageRepo *repository.StageRepository
	logger    *zap.Logger
}

func NewStageService(stageRepo *repository.StageRepository, logger *zap.Logger) *StageService {
	return &StageService{stageRepo: stageRepo, logger: logger}
}

func (s *StageService) Create(ctx context.Context, req *domain.CreateStageRequest) (*domain.Stage, error) {
	if existing, err := s.stageRepo.GetByID(ctx, req.ID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: stage %s already exists", ErrConflict, req.ID)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check stage: %w", err)
	}

	now := time.Now().UTC()
	stage := &domain.Stage{
		ID:           req.ID,
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
		PipelineID:   req.PipelineID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.stageRepo.Create(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}

	s.logger.Info("Stage created",
		zap.String("stage_id", stage.ID),
		zap.Int("display_order", stage.DisplayOrder),
	)

	return stage, nil
}

func (s *StageService) List(ctx context.Context, pipelineID string) ([]domain.Stage, error) {
	stages, err := s.stageRepo.List(ctx, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	return stages, nil
}

func (s *StageService) Update(ctx context.Context, id string, req *domain.UpdateStageRequest) (*domain.Stage, error) {
	stage, err := s.stageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}

	stage.Name = req.Name
	stage.DisplayOrder = req.DisplayOrder
	stage.UpdatedAt = time.Now().UTC()

	if err := s.stageRepo.Update(ctx, stage); err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}

	return stage, nil
}

// Delete removes an empty stage. Stages holding deals cannot be removed
// since that would orphan funnel attribution.
func (s *StageService) Delete(ctx context.Context, id string) error {
	if _, err := s.stageRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get stage: %w", err)
	}

	count, err := s.stageRepo.CountDeals(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count deals in stage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d deals in stage %s", ErrStageNotEmpty, count, id)
	}

	if err := s.stageRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete stage: %w", err)
	}

	s.logger.Info("Stage deleted", zap.String("stage_id", id))
	return nil
}
