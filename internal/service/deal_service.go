package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/natemoovs/salesops-api/internal/domain"
	"github.com/natemoovs/salesops-api/internal/mapper"
	"github.com/natemoovs/salesops-api/internal/repository"
)

type DealService struct {
	dealRepo       *repository.DealRepository
	transitionRepo *repository.StageTransitionRepository
	stageRepo      *repository.StageRepository
	ownerRepo      *repository.OwnerRepository
	logger         *zap.Logger
	db             *gorm.DB
}

func NewDealService(
	dealRepo *repository.DealRepository,
	transitionRepo *repository.StageTransitionRepository,
	stageRepo *repository.StageRepository,
	ownerRepo *repository.OwnerRepository,
	logger *zap.Logger,
	db *gorm.DB,
) *DealService {
	return &DealService{
		dealRepo:       dealRepo,
		transitionRepo: transitionRepo,
		stageRepo:      stageRepo,
		ownerRepo:      ownerRepo,
		logger:         logger,
		db:             db,
	}
}

// Create opens a new deal in the requested stage. The stage entry timestamp
// and the first history row are written together so stage dwell times can be
// derived from day one.
func (s *DealService) Create(ctx context.Context, req *domain.CreateDealRequest) (*domain.DealDTO, error) {
	if _, err := s.stageRepo.GetByID(ctx, req.StageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStage, req.StageID)
		}
		return nil, fmt.Errorf("failed to verify stage: %w", err)
	}

	if req.OwnerID != nil {
		if _, err := s.ownerRepo.GetByID(ctx, *req.OwnerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: owner %s not found", ErrInvalidInput, *req.OwnerID)
			}
			return nil, fmt.Errorf("failed to verify owner: %w", err)
		}
	}

	now := time.Now().UTC()
	pipelineID := req.PipelineID
	if pipelineID == "" {
		pipelineID = domain.PipelineDefault
	}

	deal := &domain.Deal{
		ID:                    uuid.New(),
		Name:                  req.Name,
		CompanyName:           req.CompanyName,
		Amount:                req.Amount,
		StageID:               req.StageID,
		Status:                domain.DealStatusOpen,
		OwnerID:               req.OwnerID,
		PipelineID:            pipelineID,
		EnteredCurrentStageAt: &now,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		dealRepo := repository.NewDealRepository(tx)
		transitionRepo := repository.NewStageTransitionRepository(tx)

		if err := dealRepo.Create(ctx, deal); err != nil {
			return fmt.Errorf("failed to create deal: %w", err)
		}
		if err := transitionRepo.RecordTransition(ctx, deal.ID, nil, deal.StageID, "", now); err != nil {
			return fmt.Errorf("failed to record initial transition: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deal created",
		zap.String("deal_id", deal.ID.String()),
		zap.String("stage_id", deal.StageID),
		zap.String("pipeline_id", deal.PipelineID),
	)

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) GetByID(ctx context.Context, id uuid.UUID) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

// Update changes a deal's descriptive fields. Stage and status moves go
// through MoveStage, Win and Lose so history stays consistent.
func (s *DealService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateDealRequest) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	if req.OwnerID != nil {
		if _, err := s.ownerRepo.GetByID(ctx, *req.OwnerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: owner %s not found", ErrInvalidInput, *req.OwnerID)
			}
			return nil, fmt.Errorf("failed to verify owner: %w", err)
		}
	}

	deal.Name = req.Name
	deal.CompanyName = req.CompanyName
	deal.Amount = req.Amount
	deal.OwnerID = req.OwnerID
	deal.UpdatedAt = time.Now().UTC()

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to update deal: %w", err)
	}

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

func (s *DealService) List(ctx context.Context, page, pageSize int, filters *repository.DealFilters, sortBy repository.DealSortOption) (*domain.PaginatedResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	deals, total, err := s.dealRepo.List(ctx, page, pageSize, filters, sortBy)
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}

	return &domain.PaginatedResponse{
		Data:       mapper.ToDealDTOs(deals),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// MoveStage transfers an open deal to another stage, restamping the stage
// entry time and appending a history row in the same transaction
func (s *DealService) MoveStage(ctx context.Context, id uuid.UUID, req *domain.MoveStageRequest) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	if deal.IsClosed() {
		return nil, ErrDealClosed
	}
	if deal.StageID == req.StageID {
		dto := mapper.ToDealDTO(deal)
		return &dto, nil
	}

	if _, err := s.stageRepo.GetByID(ctx, req.StageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStage, req.StageID)
		}
		return nil, fmt.Errorf("failed to verify stage: %w", err)
	}

	now := time.Now().UTC()
	fromStage := deal.StageID

	err = s.db.Transaction(func(tx *gorm.DB) error {
		dealRepo := repository.NewDealRepository(tx)
		transitionRepo := repository.NewStageTransitionRepository(tx)

		if err := dealRepo.UpdateStage(ctx, id, req.StageID, now); err != nil {
			return fmt.Errorf("failed to move deal: %w", err)
		}
		if err := transitionRepo.RecordTransition(ctx, id, &fromStage, req.StageID, req.Notes, now); err != nil {
			return fmt.Errorf("failed to record transition: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Deal moved",
		zap.String("deal_id", id.String()),
		zap.String("from_stage", fromStage),
		zap.String("to_stage", req.StageID),
	)

	return s.GetByID(ctx, id)
}

// Win closes an open deal as won
func (s *DealService) Win(ctx context.Context, id uuid.UUID) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	if deal.IsClosed() {
		return nil, ErrDealClosed
	}

	now := time.Now().UTC()
	if err := s.dealRepo.MarkAsWon(ctx, id, now); err != nil {
		return nil, fmt.Errorf("failed to mark deal as won: %w", err)
	}

	s.logger.Info("Deal won",
		zap.String("deal_id", id.String()),
		zap.Float64("amount", deal.AmountOrZero()),
	)

	return s.GetByID(ctx, id)
}

// Lose closes an open deal as lost. An empty reason is stored as null so
// analytics can bucket it as unspecified.
func (s *DealService) Lose(ctx context.Context, id uuid.UUID, req *domain.LoseDealRequest) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	if deal.IsClosed() {
		return nil, ErrDealClosed
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	now := time.Now().UTC()
	if err := s.dealRepo.MarkAsLost(ctx, id, reason, now); err != nil {
		return nil, fmt.Errorf("failed to mark deal as lost: %w", err)
	}

	s.logger.Info("Deal lost",
		zap.String("deal_id", id.String()),
		zap.Stringp("reason", reason),
	)

	return s.GetByID(ctx, id)
}

// Reopen puts a closed deal back into play, clearing its close metadata.
// The deal keeps its current stage and stage entry time.
func (s *DealService) Reopen(ctx context.Context, id uuid.UUID) (*domain.DealDTO, error) {
	deal, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	if !deal.IsClosed() {
		return nil, fmt.Errorf("%w: deal is not closed", ErrInvalidInput)
	}

	deal.Status = domain.DealStatusOpen
	deal.ClosedAt = nil
	deal.LossReason = nil
	deal.UpdatedAt = time.Now().UTC()

	if err := s.dealRepo.Update(ctx, deal); err != nil {
		return nil, fmt.Errorf("failed to reopen deal: %w", err)
	}

	s.logger.Info("Deal reopened", zap.String("deal_id", id.String()))

	dto := mapper.ToDealDTO(deal)
	return &dto, nil
}

// GetStageHistory returns a deal's stage transitions in chronological order
func (s *DealService) GetStageHistory(ctx context.Context, id uuid.UUID) ([]domain.StageTransitionDTO, error) {
	if _, err := s.dealRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}

	transitions, err := s.transitionRepo.ListByDeal(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get stage history: %w", err)
	}

	return mapper.ToStageTransitionDTOs(transitions), nil
}

// Delete removes a deal and its transition history together
func (s *DealService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.dealRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get deal: %w", err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		dealRepo := repository.NewDealRepository(tx)
		transitionRepo := repository.NewStageTransitionRepository(tx)

		if err := transitionRepo.DeleteByDeal(ctx, id); err != nil {
			return fmt.Errorf("failed to delete stage history: %w", err)
		}
		if err := dealRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete deal: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Deal deleted", zap.String("deal_id", id.String()))
	return nil
}
