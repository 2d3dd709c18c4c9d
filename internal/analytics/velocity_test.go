package analytics_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natemoovs/salesops-api/internal/analytics"
	"github.com/natemoovs/salesops-api/internal/domain"
)

func transition(dealID uuid.UUID, from *string, to string, at time.Time) domain.StageTransition {
	return domain.StageTransition{
		ID:          uuid.New(),
		DealID:      dealID,
		FromStageID: from,
		ToStageID:   to,
		OccurredAt:  at,
	}
}

func TestAverageTimeInStage(t *testing.T) {
	t.Run("closed segments use transition timestamps", func(t *testing.T) {
		deal := makeDeal("a", "proposal", domain.DealStatusOpen, withCreatedAt(daysAgo(20)))
		transitions := []domain.StageTransition{
			transition(deal.ID, nil, "lead", daysAgo(20)),
			transition(deal.ID, strPtr("lead"), "qualified", daysAgo(10)),
			transition(deal.ID, strPtr("qualified"), "proposal", daysAgo(4)),
		}

		avg := analytics.AverageTimeInStage([]domain.Deal{deal}, transitions, testNow)

		assert.Equal(t, 10, avg["lead"])
		assert.Equal(t, 6, avg["qualified"])
		assert.Equal(t, 4, avg["proposal"]) // trailing segment closed by now
	})

	t.Run("trailing segment of a closed deal ends at close", func(t *testing.T) {
		deal := makeDeal("a", "qualified", domain.DealStatusWon,
			withCreatedAt(daysAgo(30)), withClosedAt(daysAgo(5)))
		transitions := []domain.StageTransition{
			transition(deal.ID, nil, "lead", daysAgo(30)),
			transition(deal.ID, strPtr("lead"), "qualified", daysAgo(15)),
		}

		avg := analytics.AverageTimeInStage([]domain.Deal{deal}, transitions, testNow)

		assert.Equal(t, 15, avg["lead"])
		assert.Equal(t, 10, avg["qualified"])
	})

	t.Run("averages across deals round half up", func(t *testing.T) {
		a := makeDeal("a", "qualified", domain.DealStatusOpen)
		b := makeDeal("b", "qualified", domain.DealStatusOpen)
		transitions := []domain.StageTransition{
			transition(a.ID, nil, "lead", daysAgo(10)),
			transition(a.ID, strPtr("lead"), "qualified", daysAgo(7)), // lead: 3 days
			transition(b.ID, nil, "lead", daysAgo(10)),
			transition(b.ID, strPtr("lead"), "qualified", daysAgo(4)), // lead: 6 days
		}

		avg := analytics.AverageTimeInStage([]domain.Deal{a, b}, transitions, testNow)
		assert.Equal(t, 5, avg["lead"]) // (3+6)/2 = 4.5 rounds up
	})

	t.Run("unsorted transitions are ordered before segmenting", func(t *testing.T) {
		deal := makeDeal("a", "qualified", domain.DealStatusOpen)
		transitions := []domain.StageTransition{
			transition(deal.ID, strPtr("lead"), "qualified", daysAgo(2)),
			transition(deal.ID, nil, "lead", daysAgo(9)),
		}

		avg := analytics.AverageTimeInStage([]domain.Deal{deal}, transitions, testNow)
		assert.Equal(t, 7, avg["lead"])
		assert.Equal(t, 2, avg["qualified"])
	})

	t.Run("deals without transitions contribute nothing", func(t *testing.T) {
		deal := makeDeal("a", "lead", domain.DealStatusOpen)

		avg := analytics.AverageTimeInStage([]domain.Deal{deal}, nil, testNow)
		assert.Empty(t, avg)
	})

	t.Run("transitions of unknown deals are ignored", func(t *testing.T) {
		deal := makeDeal("a", "lead", domain.DealStatusOpen)
		stray := transition(uuid.New(), nil, "lead", daysAgo(100))

		avg := analytics.AverageTimeInStage([]domain.Deal{deal}, []domain.StageTransition{stray}, testNow)
		assert.Empty(t, avg)
	})
}

func TestAverageDaysToClose(t *testing.T) {
	window, err := analytics.ResolveTimeWindow("all", testNow)
	require.NoError(t, err)

	t.Run("mean whole days creation to close", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusWon,
				withCreatedAt(daysAgo(20)), withClosedAt(daysAgo(10))), // 10 days
			makeDeal("b", "lead", domain.DealStatusLost,
				withCreatedAt(daysAgo(30)), withClosedAt(daysAgo(25))), // 5 days
		}

		assert.Equal(t, 8, analytics.AverageDaysToClose(deals, window)) // 7.5 rounds up
	})

	t.Run("open deals excluded", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusOpen, withCreatedAt(daysAgo(50))),
		}
		assert.Equal(t, 0, analytics.AverageDaysToClose(deals, window))
	})

	t.Run("closes outside the window excluded", func(t *testing.T) {
		w30, err := analytics.ResolveTimeWindow("30d", testNow)
		require.NoError(t, err)

		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusWon,
				withCreatedAt(daysAgo(400)), withClosedAt(daysAgo(200))),
		}
		assert.Equal(t, 0, analytics.AverageDaysToClose(deals, w30))
	})
}
