package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/natemoovs/salesops-api/internal/domain"
	"github.com/natemoovs/salesops-api/internal/repository"
)

type OwnerService struct {
	ownerRepo *repository.OwnerRepository
	logger    *zap.Logger
}

func NewOwnerService(ownerRepo *repository.OwnerRepository, logger *zap.Logger) *OwnerService {
	return &OwnerService{ownerRepo: ownerRepo, logger: logger}
}

func (s *OwnerService) Create(ctx context.Context, req *domain.CreateOwnerRequest) (*domain.Owner, error) {
	if existing, err := s.ownerRepo.GetByID(ctx, req.ID); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: owner %s already exists", ErrConflict, req.ID)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check owner: %w", err)
	}

	now := time.Now().UTC()
	owner := &domain.Owner{
		ID:        req.ID,
		Name:      req.Name,
		Email:     req.Email,
		Teams:     pq.StringArray(req.Teams),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ownerRepo.Create(ctx, owner); err != nil {
		return nil, fmt.Errorf("failed to create owner: %w", err)
	}

	s.logger.Info("Owner created", zap.String("owner_id", owner.ID))
	return owner, nil
}

func (s *OwnerService) GetByID(ctx context.Context, id string) (*domain.Owner, error) {
	owner, err := s.ownerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}
	return owner, nil
}

func (s *OwnerService) List(ctx context.Context, activeOnly bool) ([]domain.Owner, error) {
	owners, err := s.ownerRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list owners: %w", err)
	}
	return owners, nil
}

func (s *OwnerService) Update(ctx context.Context, id string, req *domain.UpdateOwnerRequest) (*domain.Owner, error) {
	owner, err := s.ownerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}

	owner.Name = req.Name
	owner.Email = req.Email
	owner.Teams = pq.StringArray(req.Teams)
	if req.IsActive != nil {
		owner.IsActive = *req.IsActive
	}
	owner.UpdatedAt = time.Now().UTC()

	if err := s.ownerRepo.Update(ctx, owner); err != nil {
		return nil, fmt.Errorf("failed to update owner: %w", err)
	}

	return owner, nil
}
