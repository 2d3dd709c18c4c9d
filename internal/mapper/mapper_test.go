package mapper_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/natemoovs/salesops-api/internal/domain"
	"github.com/natemoovs/salesops-api/internal/mapper"
	"github.com/stretchr/testify/assert"
)

func TestToDealDTO(t *testing.T) {
	created := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	closed := time.Date(2025, 6, 10, 16, 0, 0, 0, time.UTC)
	amount := 2500.0
	ownerID := "alice"
	reason := "Price"

	deal := &domain.Deal{
		ID:          uuid.New(),
		Name:        "Acme renewal",
		CompanyName: "Acme AS",
		Amount:      &amount,
		StageID:     "negotiation",
		Stage:       &domain.Stage{ID: "negotiation", Name: "Negotiation"},
		Status:      domain.DealStatusLost,
		OwnerID:     &ownerID,
		Owner:       &domain.Owner{ID: "alice", Name: "Alice Hansen"},
		PipelineID:  domain.PipelineDefault,
		LossReason:  &reason,
		ClosedAt:    &closed,
		CreatedAt:   created,
		UpdatedAt:   closed,
	}

	dto := mapper.ToDealDTO(deal)

	assert.Equal(t, deal.ID, dto.ID)
	assert.Equal(t, "Acme renewal", dto.Name)
	assert.Equal(t, "Negotiation", dto.StageName)
	assert.Equal(t, "Alice Hansen", dto.OwnerName)
	assert.Equal(t, domain.DealStatusLost, dto.Status)
	assert.Equal(t, "2025-06-01T09:30:00Z", dto.CreatedAt)
	assert.Equal(t, "2025-06-10T16:00:00Z", *dto.ClosedAt)
	assert.Equal(t, "Price", *dto.LossReason)
	assert.Nil(t, dto.EnteredCurrentStageAt)
}

func TestToDealDTO_WithoutAssociations(t *testing.T) {
	deal := &domain.Deal{
		ID:         uuid.New(),
		Name:       "Bare deal",
		StageID:    "lead",
		Status:     domain.DealStatusOpen,
		PipelineID: domain.PipelineDefault,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	dto := mapper.ToDealDTO(deal)

	assert.Empty(t, dto.StageName)
	assert.Empty(t, dto.OwnerName)
	assert.Nil(t, dto.Amount)
	assert.Nil(t, dto.ClosedAt)
}

func TestToStageTransitionDTOs(t *testing.T) {
	from := "lead"
	dealID := uuid.New()
	transitions := []domain.StageTransition{
		{
			ID:         uuid.New(),
			DealID:     dealID,
			ToStageID:  "lead",
			OccurredAt: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		},
		{
			ID:          uuid.New(),
			DealID:      dealID,
			FromStageID: &from,
			ToStageID:   "qualified",
			Notes:       "Budget confirmed",
			OccurredAt:  time.Date(2025, 6, 3, 8, 0, 0, 0, time.UTC),
		},
	}

	dtos := mapper.ToStageTransitionDTOs(transitions)

	assert.Len(t, dtos, 2)
	assert.Nil(t, dtos[0].FromStageID)
	assert.Equal(t, "lead", *dtos[1].FromStageID)
	assert.Equal(t, "Budget confirmed", dtos[1].Notes)
	assert.Equal(t, "2025-06-03T08:00:00Z", dtos[1].OccurredAt)

	assert.Empty(t, mapper.ToStageTransitionDTOs(nil))
}
