package analytics

import (
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/natemoovs/salesops-api/internal/domain"
)

// Input is an already-fetched, read-only snapshot plus the reporting
// parameters. Now is explicit so the whole computation is reproducible:
// calling BuildReport twice with identical Input yields identical output.
type Input struct {
	Period      string
	PipelineID  string // "" or "all" disables pipeline filtering
	Deals       []domain.Deal
	Stages      []domain.Stage
	Transitions []domain.StageTransition
	Owners      []domain.Owner
	Now         time.Time

	// StallThresholdDays overrides DefaultStallThresholdDays when > 0
	StallThresholdDays int
}

// Aggregator orchestrates the pipeline analytics computation. It keeps no
// state between calls and is safe for concurrent use.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates an aggregator. A nil logger disables data-quality
// logging.
func NewAggregator(logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger}
}

// BuildReport computes the full analytics report for the snapshot.
//
// Only ErrInvalidPeriod and ErrInconsistentStageCatalog surface as errors;
// every other anomaly (missing amounts, owners, timestamps, unknown stage
// references) degrades into the documented defaults. Deals pointing at a
// stage absent from the catalog are dropped from funnel attribution but
// still count in the summary totals, where stage is irrelevant.
func (a *Aggregator) BuildReport(in Input) (*domain.AnalyticsReport, error) {
	window, err := ResolveTimeWindow(in.Period, in.Now)
	if err != nil {
		return nil, err
	}

	catalog, err := NewStageCatalog(in.Stages, in.PipelineID)
	if err != nil {
		return nil, err
	}

	deals := filterDeals(in.Deals, window, in.PipelineID)
	transitions := in.Transitions
	ownerNames := make(map[string]string, len(in.Owners))
	for _, o := range in.Owners {
		ownerNames[o.ID] = o.Name
	}

	report := &domain.AnalyticsReport{Period: in.Period}

	// The four sub-aggregations are mutually independent; each writes only
	// its own report field.
	var g errgroup.Group
	var unknownStages int

	g.Go(func() error {
		avgTime := AverageTimeInStage(deals, transitions, in.Now)
		report.StageConversion, unknownStages = BuildStageFunnel(deals, catalog, avgTime)
		return nil
	})
	g.Go(func() error {
		report.StalledDeals = DetectStalledDeals(deals, catalog, ownerNames, in.Now, in.StallThresholdDays)
		return nil
	})
	g.Go(func() error {
		report.OwnerPerformance = RankOwnerPerformance(deals, ownerNames)
		return nil
	})
	g.Go(func() error {
		report.LossReasons = ClassifyLossReasons(deals)
		return nil
	})

	report.Summary = buildSummary(deals, window)
	_ = g.Wait()

	if unknownStages > 0 {
		a.logger.Warn("deals reference stages missing from the catalog; excluded from funnel attribution",
			zap.Int("deal_count", unknownStages),
			zap.String("pipeline_id", in.PipelineID),
		)
	}

	return report, nil
}

// filterDeals keeps deals created inside the window and, when a concrete
// pipeline filter is given, belonging to that pipeline.
func filterDeals(deals []domain.Deal, window TimeWindow, pipelineID string) []domain.Deal {
	filterAll := pipelineID == "" || pipelineID == domain.PipelineAll

	kept := make([]domain.Deal, 0, len(deals))
	for i := range deals {
		d := deals[i]
		if !window.Contains(d.CreatedAt) {
			continue
		}
		if !filterAll && d.PipelineID != pipelineID {
			continue
		}
		kept = append(kept, d)
	}
	return kept
}

func buildSummary(deals []domain.Deal, window TimeWindow) domain.PipelineSummary {
	var s domain.PipelineSummary

	for i := range deals {
		d := &deals[i]
		amount := d.AmountOrZero()

		s.TotalDeals++
		s.TotalValue += amount

		switch d.Status {
		case domain.DealStatusWon:
			s.WonDeals++
			s.WonValue += amount
		case domain.DealStatusLost:
			s.LostDeals++
			s.LostValue += amount
		default:
			s.OpenDeals++
			s.OpenValue += amount
		}
	}

	s.WinRate = roundPercent(float64(s.WonDeals), float64(s.WonDeals+s.LostDeals))
	if s.TotalDeals > 0 {
		s.AvgDealSize = math.Floor(s.TotalValue/float64(s.TotalDeals) + 0.5)
	}
	s.AvgDaysToClose = AverageDaysToClose(deals, window)

	return s
}
