package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/natemoovs/salesops-api/internal/domain"
	"github.com/natemoovs/salesops-api/internal/repository"
	"github.com/natemoovs/salesops-api/internal/service"
	"github.com/natemoovs/salesops-api/internal/testutil"
)

func floatPtr(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }

func newDealService(db *gorm.DB) *service.DealService {
	return service.NewDealService(
		repository.NewDealRepository(db),
		repository.NewStageTransitionRepository(db),
		repository.NewStageRepository(db),
		repository.NewOwnerRepository(db),
		zap.NewNop(),
		db,
	)
}

func TestDealService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedDefaultStages(t, db)
	testutil.CreateTestOwner(t, db, "alice", "Alice Moran")
	svc := newDealService(db)
	ctx := context.Background()

	t.Run("create with minimal fields", func(t *testing.T) {
		deal, err := svc.Create(ctx, &domain.CreateDealRequest{
			Name:    "New Deal",
			StageID: "lead",
		})
		require.NoError(t, err)

		assert.Equal(t, "New Deal", deal.Name)
		assert.Equal(t, "lead", deal.StageID)
		assert.Equal(t, domain.DealStatusOpen, deal.Status)
		assert.Equal(t, "default", deal.PipelineID)
		assert.Nil(t, deal.Amount)
		assert.NotNil(t, deal.EnteredCurrentStageAt)
	})

	t.Run("create records the initial transition", func(t *testing.T) {
		deal, err := svc.Create(ctx, &domain.CreateDealRequest{
			Name:    "Tracked Deal",
			StageID: "qualified",
			OwnerID: strPtr("alice"),
			Amount:  floatPtr(12000),
		})
		require.NoError(t, err)

		history, err := svc.GetStageHistory(ctx, deal.ID)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Nil(t, history[0].FromStageID)
		assert.Equal(t, "qualified", history[0].ToStageID)
	})

	t.Run("unknown stage rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateDealRequest{
			Name:    "Bad Deal",
			StageID: "ghost",
		})
		assert.ErrorIs(t, err, service.ErrUnknownStage)
	})

	t.Run("unknown owner rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, &domain.CreateDealRequest{
			Name:    "Bad Owner",
			StageID: "lead",
			OwnerID: strPtr("nobody"),
		})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func TestDealService_MoveStage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedDefaultStages(t, db)
	svc := newDealService(db)
	ctx := context.Background()

	deal, err := svc.Create(ctx, &domain.CreateDealRequest{Name: "Mover", StageID: "lead"})
	require.NoError(t, err)

	t.Run("move appends history", func(t *testing.T) {
		moved, err := svc.MoveStage(ctx, deal.ID, &domain.MoveStageRequest{
			StageID: "qualified",
			Notes:   "discovery complete",
		})
		require.NoError(t, err)
		assert.Equal(t, "qualified", moved.StageID)

		history, err := svc.GetStageHistory(ctx, deal.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		require.NotNil(t, history[1].FromStageID)
		assert.Equal(t, "lead", *history[1].FromStageID)
		assert.Equal(t, "qualified", history[1].ToStageID)
		assert.Equal(t, "discovery complete", history[1].Notes)
	})

	t.Run("move to same stage is a no-op", func(t *testing.T) {
		_, err := svc.MoveStage(ctx, deal.ID, &domain.MoveStageRequest{StageID: "qualified"})
		require.NoError(t, err)

		history, err := svc.GetStageHistory(ctx, deal.ID)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})

	t.Run("move to unknown stage fails", func(t *testing.T) {
		_, err := svc.MoveStage(ctx, deal.ID, &domain.MoveStageRequest{StageID: "ghost"})
		assert.ErrorIs(t, err, service.ErrUnknownStage)
	})

	t.Run("missing deal", func(t *testing.T) {
		_, err := svc.MoveStage(ctx, uuid.New(), &domain.MoveStageRequest{StageID: "lead"})
		assert.ErrorIs(t, err, service.ErrNotFound)
	})
}

func TestDealService_WinAndLose(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedDefaultStages(t, db)
	svc := newDealService(db)
	ctx := context.Background()

	t.Run("win sets status and close time", func(t *testing.T) {
		deal, err := svc.Create(ctx, &domain.CreateDealRequest{Name: "Winner", StageID: "negotiation"})
		require.NoError(t, err)

		won, err := svc.Win(ctx, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DealStatusWon, won.Status)
		assert.NotNil(t, won.ClosedAt)
	})

	t.Run("lose keeps empty reason as null", func(t *testing.T) {
		deal, err := svc.Create(ctx, &domain.CreateDealRequest{Name: "Loser", StageID: "proposal"})
		require.NoError(t, err)

		lost, err := svc.Lose(ctx, deal.ID, &domain.LoseDealRequest{})
		require.NoError(t, err)
		assert.Equal(t, domain.DealStatusLost, lost.Status)
		assert.Nil(t, lost.LossReason)
	})

	t.Run("lose with reason", func(t *testing.T) {
		deal, err := svc.Create(ctx, &domain.CreateDealRequest{Name: "Priced out", StageID: "proposal"})
		require.NoError(t, err)

		lost, err := svc.Lose(ctx, deal.ID, &domain.LoseDealRequest{Reason: "Price"})
		require.NoError(t, err)
		require.NotNil(t, lost.LossReason)
		assert.Equal(t, "Price", *lost.LossReason)
	})

	t.Run("closing twice conflicts", func(t *testing.T) {
		deal, err := svc.Create(ctx, &domain.CreateDealRequest{Name: "Done", StageID: "lead"})
		require.NoError(t, err)

		_, err = svc.Win(ctx, deal.ID)
		require.NoError(t, err)

		_, err = svc.Win(ctx, deal.ID)
		assert.ErrorIs(t, err, service.ErrDealClosed)
		_, err = svc.Lose(ctx, deal.ID, &domain.LoseDealRequest{})
		assert.ErrorIs(t, err, service.ErrDealClosed)
	})

	t.Run("reopen clears close metadata", func(t *testing.T) {
		deal, err := svc.Create(ctx, &domain.CreateDealRequest{Name: "Second chance", StageID: "lead"})
		require.NoError(t, err)

		_, err = svc.Lose(ctx, deal.ID, &domain.LoseDealRequest{Reason: "Timing"})
		require.NoError(t, err)

		reopened, err := svc.Reopen(ctx, deal.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.DealStatusOpen, reopened.Status)
		assert.Nil(t, reopened.ClosedAt)
		assert.Nil(t, reopened.LossReason)
	})
}

func TestDealService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SeedDefaultStages(t, db)
	svc := newDealService(db)
	ctx := context.Background()

	deal, err := svc.Create(ctx, &domain.CreateDealRequest{Name: "Gone", StageID: "lead"})
	require.NoError(t, err)
	_, err = svc.MoveStage(ctx, deal.ID, &domain.MoveStageRequest{StageID: "qualified"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, deal.ID))

	_, err = svc.GetByID(ctx, deal.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// History goes with the deal
	var count int64
	require.NoError(t, db.Model(&domain.StageTransition{}).Where("deal_id = ?", deal.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
