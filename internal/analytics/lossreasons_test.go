package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natemoovs/salesops-api/internal/analytics"
	"github.com/natemoovs/salesops-api/internal/domain"
)

func TestClassifyLossReasons(t *testing.T) {
	t.Run("missing reason buckets as Unspecified", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusLost, withLossReason("Price")),
			makeDeal("b", "lead", domain.DealStatusLost),
		}

		buckets := analytics.ClassifyLossReasons(deals)
		require.Len(t, buckets, 2)

		assert.Equal(t, "Price", buckets[0].Reason)
		assert.Equal(t, 1, buckets[0].Count)
		assert.Equal(t, 50, buckets[0].Percentage)

		assert.Equal(t, analytics.UnspecifiedLossReason, buckets[1].Reason)
		assert.Equal(t, 50, buckets[1].Percentage)
	})

	t.Run("empty string reason treated as missing", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusLost, withLossReason("")),
		}

		buckets := analytics.ClassifyLossReasons(deals)
		require.Len(t, buckets, 1)
		assert.Equal(t, analytics.UnspecifiedLossReason, buckets[0].Reason)
	})

	t.Run("only lost deals count", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusWon),
			makeDeal("b", "lead", domain.DealStatusOpen),
		}

		assert.Empty(t, analytics.ClassifyLossReasons(deals))
	})

	t.Run("ordered by count descending then reason", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusLost, withLossReason("Timing")),
			makeDeal("b", "lead", domain.DealStatusLost, withLossReason("Price")),
			makeDeal("c", "lead", domain.DealStatusLost, withLossReason("Price")),
			makeDeal("d", "lead", domain.DealStatusLost, withLossReason("Competitor")),
		}

		buckets := analytics.ClassifyLossReasons(deals)
		require.Len(t, buckets, 3)

		assert.Equal(t, "Price", buckets[0].Reason)
		assert.Equal(t, "Competitor", buckets[1].Reason) // tie broken alphabetically
		assert.Equal(t, "Timing", buckets[2].Reason)
	})

	t.Run("percentages use round half up", func(t *testing.T) {
		deals := []domain.Deal{
			makeDeal("a", "lead", domain.DealStatusLost, withLossReason("Price")),
			makeDeal("b", "lead", domain.DealStatusLost, withLossReason("Price")),
			makeDeal("c", "lead", domain.DealStatusLost, withLossReason("Timing")),
		}

		buckets := analytics.ClassifyLossReasons(deals)
		require.Len(t, buckets, 2)
		assert.Equal(t, 67, buckets[0].Percentage)
		assert.Equal(t, 33, buckets[1].Percentage)
	})
}
