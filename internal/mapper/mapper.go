package mapper

import (
	"github.com/natemoovs/salesops-api/internal/domain"
)

// ToDealDTO converts Deal to DealDTO. Stage and Owner names come from the
// preloaded associations when present.
func ToDealDTO(deal *domain.Deal) domain.DealDTO {
	dto := domain.DealDTO{
		ID:                    deal.ID,
		Name:                  deal.Name,
		CompanyName:           deal.CompanyName,
		Amount:                deal.Amount,
		StageID:               deal.StageID,
		Status:                deal.Status,
		OwnerID:               deal.OwnerID,
		PipelineID:            deal.PipelineID,
		LossReason:            deal.LossReason,
		ClosedAt:              domain.FormatTimePtr(deal.ClosedAt),
		EnteredCurrentStageAt: domain.FormatTimePtr(deal.EnteredCurrentStageAt),
		CreatedAt:             domain.FormatTime(deal.CreatedAt),
		UpdatedAt:             domain.FormatTime(deal.UpdatedAt),
	}

	if deal.Stage != nil {
		dto.StageName = deal.Stage.Name
	}
	if deal.Owner != nil {
		dto.OwnerName = deal.Owner.Name
	}

	return dto
}

// ToDealDTOs converts a slice of Deals to DTOs
func ToDealDTOs(deals []domain.Deal) []domain.DealDTO {
	dtos := make([]domain.DealDTO, 0, len(deals))
	for i := range deals {
		dtos = append(dtos, ToDealDTO(&deals[i]))
	}
	return dtos
}

// ToStageTransitionDTO converts StageTransition to StageTransitionDTO
func ToStageTransitionDTO(t *domain.StageTransition) domain.StageTransitionDTO {
	return domain.StageTransitionDTO{
		ID:          t.ID,
		DealID:      t.DealID,
		FromStageID: t.FromStageID,
		ToStageID:   t.ToStageID,
		Notes:       t.Notes,
		OccurredAt:  domain.FormatTime(t.OccurredAt),
	}
}

// ToStageTransitionDTOs converts a slice of StageTransitions to DTOs
func ToStageTransitionDTOs(transitions []domain.StageTransition) []domain.StageTransitionDTO {
	dtos := make([]domain.StageTransitionDTO, 0, len(transitions))
	for i := range transitions {
		dtos = append(dtos, ToStageTransitionDTO(&transitions[i]))
	}
	return dtos
}
