// Package analytics computes derived sales-pipeline metrics from in-memory
// snapshots of deals, stages and stage-transition history. Every function in
// the package is a pure transformation: no I/O, no clocks (time is an explicit
// argument), no mutation of its inputs. Identical inputs always produce
// identical output, including element order.
package analytics

import (
	"fmt"
	"time"

	"github.com/natemoovs/salesops-api/internal/domain"
)

// Period tokens accepted by ResolveTimeWindow
const (
	Period30d  = "30d"
	Period90d  = "90d"
	Period180d = "180d"
	Period365d = "365d"
	PeriodAll  = "all"
)

var periodDays = map[string]int{
	Period30d:  30,
	Period90d:  90,
	Period180d: 180,
	Period365d: 365,
}

// TimeWindow is an inclusive [Start, End] interval. Unbounded windows have
// no lower bound and contain everything up to End.
type TimeWindow struct {
	Start     time.Time
	End       time.Time
	Unbounded bool
}

// Contains reports whether t falls inside the window
func (w TimeWindow) Contains(t time.Time) bool {
	if t.After(w.End) {
		return false
	}
	return w.Unbounded || !t.Before(w.Start)
}

// ResolveTimeWindow maps a period token to a concrete interval ending at now.
// A 30d window starts 29 days back at the midnight boundary, so the window
// spans 30 calendar days including today. "all" has no lower bound.
func ResolveTimeWindow(period string, now time.Time) (TimeWindow, error) {
	if period == PeriodAll {
		return TimeWindow{End: now, Unbounded: true}, nil
	}

	days, ok := periodDays[period]
	if !ok {
		return TimeWindow{}, fmt.Errorf("%w: %q", domain.ErrInvalidPeriod, period)
	}

	from := now.AddDate(0, 0, -(days - 1))
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, now.Location())
	return TimeWindow{Start: start, End: now}, nil
}
