package analytics_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/natemoovs/salesops-api/internal/domain"
)

// Fixed reference instant so every computation in the suite is reproducible.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func floatPtr(v float64) *float64 { return &v }

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func daysAgo(n int) time.Time {
	return testNow.AddDate(0, 0, -n)
}

func testStage(id, name string, order int) domain.Stage {
	return domain.Stage{ID: id, Name: name, DisplayOrder: order}
}

func defaultStages() []domain.Stage {
	return []domain.Stage{
		testStage("lead", "Lead", 1),
		testStage("qualified", "Qualified", 2),
		testStage("proposal", "Proposal", 3),
		testStage("negotiation", "Negotiation", 4),
	}
}

type dealOpt func(*domain.Deal)

func withAmount(v float64) dealOpt {
	return func(d *domain.Deal) { d.Amount = floatPtr(v) }
}

func withOwner(id string) dealOpt {
	return func(d *domain.Deal) { d.OwnerID = strPtr(id) }
}

func withCreatedAt(t time.Time) dealOpt {
	return func(d *domain.Deal) { d.CreatedAt = t }
}

func withClosedAt(t time.Time) dealOpt {
	return func(d *domain.Deal) { d.ClosedAt = timePtr(t) }
}

func withEnteredStageAt(t time.Time) dealOpt {
	return func(d *domain.Deal) { d.EnteredCurrentStageAt = timePtr(t) }
}

func withLossReason(reason string) dealOpt {
	return func(d *domain.Deal) { d.LossReason = strPtr(reason) }
}

func withPipeline(id string) dealOpt {
	return func(d *domain.Deal) { d.PipelineID = id }
}

func makeDeal(name, stageID string, status domain.DealStatus, opts ...dealOpt) domain.Deal {
	d := domain.Deal{
		ID:         uuid.New(),
		Name:       name,
		StageID:    stageID,
		Status:     status,
		PipelineID: "default",
		CreatedAt:  daysAgo(10),
		UpdatedAt:  daysAgo(1),
	}
	if status != domain.DealStatusOpen {
		d.ClosedAt = timePtr(daysAgo(1))
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
