package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/natemoovs/salesops-api/internal/domain"
)

type OwnerRepository struct {
	db *gorm.DB
}

func NewOwnerRepository(db *gorm.DB) *OwnerRepository {
	return &OwnerRepository{db: db}
}

func (r *OwnerRepository) Create(ctx context.Context, owner *domain.Owner) error {
	return r.db.WithContext(ctx).Create(owner).Error
}

func (r *OwnerRepository) GetByID(ctx context.Context, id string) (*domain.Owner, error) {
	var owner domain.Owner
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&owner).Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *OwnerRepository) Update(ctx context.Context, owner *domain.Owner) error {
	return r.db.WithContext(ctx).Save(owner).Error
}

func (r *OwnerRepository) List(ctx context.Context, activeOnly bool) ([]domain.Owner, error) {
	var owners []domain.Owner
	query := r.db.WithContext(ctx).Model(&domain.Owner{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&owners).Error
	return owners, err
}
