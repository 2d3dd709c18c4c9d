package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natemoovs/salesops-api/internal/analytics"
	"github.com/natemoovs/salesops-api/internal/domain"
)

func mustCatalog(t *testing.T, stages []domain.Stage) *analytics.StageCatalog {
	t.Helper()
	catalog, err := analytics.NewStageCatalog(stages, "")
	require.NoError(t, err)
	return catalog
}

func TestBuildStageFunnel(t *testing.T) {
	t.Run("counts and values per current stage", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusOpen, withAmount(100)),
			makeDeal("b", "lead", domain.DealStatusOpen, withAmount(200)),
			makeDeal("c", "qualified", domain.DealStatusWon, withAmount(500)),
			makeDeal("d", "qualified", domain.DealStatusOpen), // no amount
		}

		rows, unknown := analytics.BuildStageFunnel(deals, mustCatalog(t, defaultStages()), nil)
		require.Len(t, rows, 4)
		assert.Equal(t, 0, unknown)

		assert.Equal(t, "lead", rows[0].ID)
		assert.Equal(t, 2, rows[0].DealCount)
		assert.Equal(t, 300.0, rows[0].TotalValue)

		assert.Equal(t, "qualified", rows[1].ID)
		assert.Equal(t, 2, rows[1].DealCount)
		assert.Equal(t, 500.0, rows[1].TotalValue)

		assert.Equal(t, 0, rows[2].DealCount)
		assert.Equal(t, 0.0, rows[2].TotalValue)
	})

	t.Run("conversion rate is next stage over this stage", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusOpen),
			makeDeal("b", "lead", domain.DealStatusOpen),
			makeDeal("c", "lead", domain.DealStatusOpen),
			makeDeal("d", "qualified", domain.DealStatusOpen),
		}

		rows, _ := analytics.BuildStageFunnel(deals, mustCatalog(t, defaultStages()), nil)

		require.NotNil(t, rows[0].ConversionRate)
		assert.Equal(t, 33, *rows[0].ConversionRate) // 1/3 rounded
		require.NotNil(t, rows[1].ConversionRate)
		assert.Equal(t, 0, *rows[1].ConversionRate)
	})

	t.Run("last stage has no conversion rate", func(t *testing.T) {
		rows, _ := analytics.BuildStageFunnel(nil, mustCatalog(t, defaultStages()), nil)
		require.Len(t, rows, 4)
		assert.Nil(t, rows[len(rows)-1].ConversionRate)
		for _, row := range rows[:len(rows)-1] {
			assert.NotNil(t, row.ConversionRate)
		}
	})

	t.Run("conversion rate clamps at 100", func(t *testing.T) {
		// More deals sitting in qualified than in lead.
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusOpen),
			makeDeal("b", "qualified", domain.DealStatusOpen),
			makeDeal("c", "qualified", domain.DealStatusOpen),
			makeDeal("d", "qualified", domain.DealStatusOpen),
		}

		rows, _ := analytics.BuildStageFunnel(deals, mustCatalog(t, defaultStages()), nil)
		require.NotNil(t, rows[0].ConversionRate)
		assert.Equal(t, 100, *rows[0].ConversionRate)
	})

	t.Run("empty stage has zero rate not nil", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "qualified", domain.DealStatusOpen),
		}

		rows, _ := analytics.BuildStageFunnel(deals, mustCatalog(t, defaultStages()), nil)
		require.NotNil(t, rows[0].ConversionRate)
		assert.Equal(t, 0, *rows[0].ConversionRate)
	})

	t.Run("unknown stage deals are counted and excluded", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusOpen),
			makeDeal("b", "retired-stage", domain.DealStatusOpen, withAmount(900)),
		}

		rows, unknown := analytics.BuildStageFunnel(deals, mustCatalog(t, defaultStages()), nil)
		assert.Equal(t, 1, unknown)

		total := 0
		for _, row := range rows {
			total += row.DealCount
		}
		assert.Equal(t, 1, total)
	})

	t.Run("avg time in stage merged by id", func(t *testing.T) {
		avg := map[string]int{"lead": 7, "proposal": 21}

		rows, _ := analytics.BuildStageFunnel(nil, mustCatalog(t, defaultStages()), avg)
		assert.Equal(t, 7, rows[0].AvgTimeInStage)
		assert.Equal(t, 0, rows[1].AvgTimeInStage)
		assert.Equal(t, 21, rows[2].AvgTimeInStage)
	})
}
