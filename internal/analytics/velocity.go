package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/natemoovs/salesops-api/internal/domain"
)

// AverageTimeInStage computes, per stage id, the average number of whole days
// deals spend in that stage, derived from stage-transition history. A deal's
// time in a stage runs from the transition that entered it to the transition
// that left it; the trailing segment is closed by "now" for open deals and by
// ClosedAt for closed ones. Deals with no recorded transitions contribute
// nothing (they are excluded, not counted as zero).
func AverageTimeInStage(deals []domain.Deal, transitions []domain.StageTransition, now time.Time) map[string]int {
	dealsByID := make(map[uuid.UUID]*domain.Deal, len(deals))
	for i := range deals {
		dealsByID[deals[i].ID] = &deals[i]
	}

	byDeal := make(map[uuid.UUID][]domain.StageTransition)
	for _, t := range transitions {
		if _, ok := dealsByID[t.DealID]; !ok {
			continue
		}
		byDeal[t.DealID] = append(byDeal[t.DealID], t)
	}

	type acc struct {
		totalDays int
		segments  int
	}
	perStage := make(map[string]*acc)

	add := func(stageID string, days int) {
		a := perStage[stageID]
		if a == nil {
			a = &acc{}
			perStage[stageID] = a
		}
		a.totalDays += days
		a.segments++
	}

	for dealID, events := range byDeal {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].OccurredAt.Before(events[j].OccurredAt)
		})

		for i := 0; i < len(events)-1; i++ {
			add(events[i].ToStageID, wholeDays(events[i].OccurredAt, events[i+1].OccurredAt))
		}

		// Trailing segment: the stage the deal is still in, or was in when
		// it closed.
		last := events[len(events)-1]
		deal := dealsByID[dealID]
		switch {
		case deal.Status == domain.DealStatusOpen:
			add(last.ToStageID, wholeDays(last.OccurredAt, now))
		case deal.ClosedAt != nil:
			add(last.ToStageID, wholeDays(last.OccurredAt, *deal.ClosedAt))
		}
	}

	averages := make(map[string]int, len(perStage))
	for stageID, a := range perStage {
		averages[stageID] = roundToInt(float64(a.totalDays) / float64(a.segments))
	}
	return averages
}

// AverageDaysToClose computes the mean whole-day duration from creation to
// close across deals whose ClosedAt falls inside the window. Deals without a
// close date are excluded from the average.
func AverageDaysToClose(deals []domain.Deal, window TimeWindow) int {
	total, count := 0, 0
	for i := range deals {
		d := &deals[i]
		if d.ClosedAt == nil || !window.Contains(*d.ClosedAt) {
			continue
		}
		total += wholeDays(d.CreatedAt, *d.ClosedAt)
		count++
	}
	if count == 0 {
		return 0
	}
	return roundToInt(float64(total) / float64(count))
}
