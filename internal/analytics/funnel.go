package analytics

import (
	"github.com/natemoovs/salesops-api/internal/domain"
)

// BuildStageFunnel produces one conversion row per catalog stage, in display
// order. Deal counts are current-stage counts across open, won and lost
// deals; conversion rate for stage i is the rounded percentage of stage i's
// count reached by stage i+1, clamped to [0,100]. The last stage carries no
// conversion rate. avgTimeInStage comes from AverageTimeInStage, merged by
// stage id with 0 for stages that have no transition data.
//
// Deals referencing a stage id absent from the catalog cannot be attributed
// to a funnel row; their count is returned so the caller can flag the
// data-quality problem. They still belong in pipeline-wide summary totals.
func BuildStageFunnel(deals []domain.Deal, catalog *StageCatalog, avgTimeInStage map[string]int) ([]domain.StageConversionRow, int) {
	counts := make(map[string]int, catalog.Len())
	values := make(map[string]float64, catalog.Len())

	unknown := 0
	for i := range deals {
		d := &deals[i]
		if _, ok := catalog.Lookup(d.StageID); !ok {
			unknown++
			continue
		}
		counts[d.StageID]++
		values[d.StageID] += d.AmountOrZero()
	}

	ordered := catalog.Ordered()
	rows := make([]domain.StageConversionRow, 0, len(ordered))
	for i, stage := range ordered {
		row := domain.StageConversionRow{
			ID:             stage.ID,
			Name:           stage.Name,
			DisplayOrder:   stage.DisplayOrder,
			DealCount:      counts[stage.ID],
			TotalValue:     values[stage.ID],
			AvgTimeInStage: avgTimeInStage[stage.ID],
		}

		if i < len(ordered)-1 {
			rate := 0
			if counts[stage.ID] > 0 {
				rate = roundPercent(float64(counts[ordered[i+1].ID]), float64(counts[stage.ID]))
				if rate > 100 {
					rate = 100
				}
			}
			row.ConversionRate = &rate
		}

		rows = append(rows, row)
	}

	return rows, unknown
}
