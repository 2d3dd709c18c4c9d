package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natemoovs/salesops-api/internal/repository"
	"github.com/natemoovs/salesops-api/internal/testutil"
)

func TestStageTransitionRepository(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedDefaultStages(t, db)
	repo := repository.NewStageTransitionRepository(db)
	ctx := context.Background()

	deal := testutil.CreateTestDeal(t, db, "traveler", "proposal", nil)
	base := time.Now().UTC().Add(-72 * time.Hour)

	require.NoError(t, repo.RecordTransition(ctx, deal.ID, nil, "lead", "", base))
	require.NoError(t, repo.RecordTransition(ctx, deal.ID, strPtr("lead"), "qualified", "intro call done", base.Add(24*time.Hour)))
	require.NoError(t, repo.RecordTransition(ctx, deal.ID, strPtr("qualified"), "proposal", "", base.Add(48*time.Hour)))

	t.Run("list by deal in chronological order", func(t *testing.T) {
		transitions, err := repo.ListByDeal(ctx, deal.ID)
		require.NoError(t, err)
		require.Len(t, transitions, 3)

		assert.Nil(t, transitions[0].FromStageID)
		assert.Equal(t, "lead", transitions[0].ToStageID)
		assert.Equal(t, "qualified", transitions[1].ToStageID)
		assert.Equal(t, "intro call done", transitions[1].Notes)
		assert.Equal(t, "proposal", transitions[2].ToStageID)
	})

	t.Run("list all", func(t *testing.T) {
		other := testutil.CreateTestDeal(t, db, "other", "lead", nil)
		require.NoError(t, repo.RecordTransition(ctx, other.ID, nil, "lead", "", time.Now().UTC()))

		transitions, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, transitions, 4)
	})

	t.Run("delete by deal", func(t *testing.T) {
		require.NoError(t, repo.DeleteByDeal(ctx, deal.ID))

		transitions, err := repo.ListByDeal(ctx, deal.ID)
		require.NoError(t, err)
		assert.Empty(t, transitions)
	})
}
