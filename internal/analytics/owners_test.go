package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natemoovs/salesops-api/internal/analytics"
	"github.com/natemoovs/salesops-api/internal/domain"
)

func TestRankOwnerPerformance(t *testing.T) {
	names := map[string]string{
		"alice": "Alice Moran",
		"bob":   "Bob Tate",
	}

	t.Run("win rate counts closed deals only", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("w1", "lead", domain.DealStatusWon, withOwner("alice"), withAmount(100)),
			makeDeal("w2", "lead", domain.DealStatusWon, withOwner("alice"), withAmount(100)),
			makeDeal("w3", "lead", domain.DealStatusWon, withOwner("alice"), withAmount(100)),
			makeDeal("l1", "lead", domain.DealStatusLost, withOwner("alice"), withAmount(400)),
			makeDeal("o1", "lead", domain.DealStatusOpen, withOwner("alice"), withAmount(900)),
		}

		rows := analytics.RankOwnerPerformance(deals, names)
		require.Len(t, rows, 1)

		row := rows[0]
		assert.Equal(t, "alice", row.OwnerID)
		assert.Equal(t, "Alice Moran", row.OwnerName)
		assert.Equal(t, 5, row.TotalDeals)
		assert.Equal(t, 3, row.WonDeals)
		assert.Equal(t, 1, row.LostDeals)
		assert.Equal(t, 1, row.OpenDeals)
		assert.Equal(t, 75, row.WinRate)       // 3 of 4 closed, open deal excluded
		assert.Equal(t, 300.0, row.TotalValue) // won value only
	})

	t.Run("owner with no closed deals has zero win rate", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("o1", "lead", domain.DealStatusOpen, withOwner("bob")),
		}

		rows := analytics.RankOwnerPerformance(deals, names)
		require.Len(t, rows, 1)
		assert.Equal(t, 0, rows[0].WinRate)
	})

	t.Run("unowned deals form the unassigned bucket", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusWon, withAmount(50)),
			makeDeal("b", "lead", domain.DealStatusOpen),
		}

		rows := analytics.RankOwnerPerformance(deals, names)
		require.Len(t, rows, 1)
		assert.Equal(t, analytics.UnassignedOwnerID, rows[0].OwnerID)
		assert.Equal(t, analytics.UnassignedOwnerName, rows[0].OwnerName)
		assert.Equal(t, 2, rows[0].TotalDeals)
	})

	t.Run("unknown owner id keeps raw id as name", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusOpen, withOwner("carol")),
		}

		rows := analytics.RankOwnerPerformance(deals, names)
		require.Len(t, rows, 1)
		assert.Equal(t, "carol", rows[0].OwnerName)
	})

	t.Run("avg days to close per owner", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusWon, withOwner("alice"),
				withCreatedAt(daysAgo(20)), withClosedAt(daysAgo(10))), // 10 days
			makeDeal("b", "lead", domain.DealStatusLost, withOwner("alice"),
				withCreatedAt(daysAgo(9)), withClosedAt(daysAgo(4))), // 5 days
		}

		rows := analytics.RankOwnerPerformance(deals, names)
		require.Len(t, rows, 1)
		assert.Equal(t, 8, rows[0].AvgDaysToClose) // 7.5 rounds up
	})

	t.Run("ranked by wins then value then id", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusWon, withOwner("bob"), withAmount(100)),
			makeDeal("b", "lead", domain.DealStatusWon, withOwner("alice"), withAmount(100)),
			makeDeal("c", "lead", domain.DealStatusWon, withOwner("alice"), withAmount(100)),
			makeDeal("d", "lead", domain.DealStatusWon, withOwner("carol"), withAmount(300)),
		}

		rows := analytics.RankOwnerPerformance(deals, names)
		require.Len(t, rows, 3)

		assert.Equal(t, "alice", rows[0].OwnerID) // most wins
		assert.Equal(t, "carol", rows[1].OwnerID) // one win, higher value
		assert.Equal(t, "bob", rows[2].OwnerID)
	})
}
