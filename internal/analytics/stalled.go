package analytics

import (
	"sort"
	"time"

	"github.com/natemoovs/salesops-api/internal/domain"
)

// DefaultStallThresholdDays is the policy default for when an open deal
// counts as stalled. It is a parameter rather than a constant burned into
// the math so a business-rule change does not require a code change.
const DefaultStallThresholdDays = 14

// DetectStalledDeals returns every open deal that has spent thresholdDays or
// more whole days in its current stage, annotated with daysInStage. Deals
// without an EnteredCurrentStageAt timestamp cannot be judged and are
// excluded, so absence of signal does not bias the count either way.
//
// Results are ordered by daysInStage descending, then deal id ascending, so
// repeated runs over identical input produce identical output.
func DetectStalledDeals(deals []domain.Deal, catalog *StageCatalog, ownerNames map[string]string, now time.Time, thresholdDays int) []domain.StalledDealDTO {
	if thresholdDays <= 0 {
		thresholdDays = DefaultStallThresholdDays
	}

	stalled := make([]domain.StalledDealDTO, 0)
	for i := range deals {
		d := &deals[i]
		if d.Status != domain.DealStatusOpen || d.EnteredCurrentStageAt == nil {
			continue
		}

		days := wholeDays(*d.EnteredCurrentStageAt, now)
		if days < thresholdDays {
			continue
		}

		stalled = append(stalled, domain.StalledDealDTO{
			ID:          d.ID,
			Name:        d.Name,
			CompanyName: d.CompanyName,
			Amount:      d.AmountOrZero(),
			StageName:   catalog.StageName(d.StageID),
			DaysInStage: days,
			OwnerName:   ownerLabel(d.OwnerID, ownerNames),
		})
	}

	sort.SliceStable(stalled, func(i, j int) bool {
		if stalled[i].DaysInStage != stalled[j].DaysInStage {
			return stalled[i].DaysInStage > stalled[j].DaysInStage
		}
		return stalled[i].ID.String() < stalled[j].ID.String()
	})

	return stalled
}

// ownerLabel resolves a nullable owner id to a display name
func ownerLabel(ownerID *string, ownerNames map[string]string) string {
	if ownerID == nil {
		return UnassignedOwnerName
	}
	if name, ok := ownerNames[*ownerID]; ok {
		return name
	}
	return *ownerID
}
