package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/natemoovs/salesops-api/internal/analytics"
	"github.com/natemoovs/salesops-api/internal/domain"
	"github.com/natemoovs/salesops-api/internal/repository"
)

// AnalyticsService loads the data snapshot and hands it to the pure
// aggregation engine. The engine never touches the database; this service
// is the only place where clock and storage meet the computation.
type AnalyticsService struct {
	dealRepo           *repository.DealRepository
	stageRepo          *repository.StageRepository
	transitionRepo     *repository.StageTransitionRepository
	ownerRepo          *repository.OwnerRepository
	aggregator         *analytics.Aggregator
	stallThresholdDays int
	defaultPeriod      string
	logger             *zap.Logger
}

func NewAnalyticsService(
	dealRepo *repository.DealRepository,
	stageRepo *repository.StageRepository,
	transitionRepo *repository.StageTransitionRepository,
	ownerRepo *repository.OwnerRepository,
	stallThresholdDays int,
	defaultPeriod string,
	logger *zap.Logger,
) *AnalyticsService {
	if defaultPeriod == "" {
		defaultPeriod = analytics.Period30d
	}
	return &AnalyticsService{
		dealRepo:           dealRepo,
		stageRepo:          stageRepo,
		transitionRepo:     transitionRepo,
		ownerRepo:          ownerRepo,
		aggregator:         analytics.NewAggregator(logger),
		stallThresholdDays: stallThresholdDays,
		defaultPeriod:      defaultPeriod,
		logger:             logger,
	}
}

// GetPipelineReport builds the full analytics report for a period and
// optional pipeline filter. The four snapshot queries run concurrently;
// the computation itself is synchronous and deterministic.
func (s *AnalyticsService) GetPipelineReport(ctx context.Context, period, pipelineID string) (*domain.AnalyticsReport, error) {
	if period == "" {
		period = s.defaultPeriod
	}

	started := time.Now()

	var (
		deals       []domain.Deal
		stages      []domain.Stage
		transitions []domain.StageTransition
		owners      []domain.Owner
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		deals, err = s.dealRepo.ListForAnalytics(gctx, pipelineID)
		if err != nil {
			return fmt.Errorf("failed to load deals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stages, err = s.stageRepo.List(gctx, pipelineID)
		if err != nil {
			return fmt.Errorf("failed to load stages: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		transitions, err = s.transitionRepo.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load transitions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		owners, err = s.ownerRepo.List(gctx, false)
		if err != nil {
			return fmt.Errorf("failed to load owners: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report, err := s.aggregator.BuildReport(analytics.Input{
		Period:             period,
		PipelineID:         pipelineID,
		Deals:              deals,
		Stages:             stages,
		Transitions:        transitions,
		Owners:             owners,
		Now:                time.Now().UTC(),
		StallThresholdDays: s.stallThresholdDays,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Pipeline report built",
		zap.String("period", period),
		zap.String("pipeline_id", pipelineID),
		zap.Int("deal_count", report.Summary.TotalDeals),
		zap.Duration("elapsed", time.Since(started)),
	)

	return report, nil
}
