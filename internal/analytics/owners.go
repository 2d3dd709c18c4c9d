package analytics

import (
	"sort"

	"github.com/natemoovs/salesops-api/internal/domain"
)

// Bucket identity for deals that have no owner. They are reported
// separately, never silently dropped.
const (
	UnassignedOwnerID   = "unassigned"
	UnassignedOwnerName = "Unassigned"
)

// RankOwnerPerformance aggregates deal outcomes per owner. Win rate counts
// only closed deals (won / (won + lost)); totalValue sums won-deal amounts
// only; avgDaysToClose averages creation-to-close whole days over the
// owner's closed deals. Rows are ranked by wonDeals descending, ties broken
// by totalValue descending, then owner id ascending.
func RankOwnerPerformance(deals []domain.Deal, ownerNames map[string]string) []domain.OwnerPerformanceRow {
	type acc struct {
		row        domain.OwnerPerformanceRow
		closeDays  int
		closeCount int
	}
	buckets := make(map[string]*acc)

	for i := range deals {
		d := &deals[i]

		id := UnassignedOwnerID
		if d.OwnerID != nil {
			id = *d.OwnerID
		}

		a := buckets[id]
		if a == nil {
			a = &acc{row: domain.OwnerPerformanceRow{
				OwnerID:   id,
				OwnerName: ownerLabel(d.OwnerID, ownerNames),
			}}
			buckets[id] = a
		}

		a.row.TotalDeals++
		switch d.Status {
		case domain.DealStatusWon:
			a.row.WonDeals++
			a.row.TotalValue += d.AmountOrZero()
		case domain.DealStatusLost:
			a.row.LostDeals++
		default:
			a.row.OpenDeals++
		}

		if d.ClosedAt != nil {
			a.closeDays += wholeDays(d.CreatedAt, *d.ClosedAt)
			a.closeCount++
		}
	}

	rows := make([]domain.OwnerPerformanceRow, 0, len(buckets))
	for _, a := range buckets {
		a.row.WinRate = roundPercent(float64(a.row.WonDeals), float64(a.row.WonDeals+a.row.LostDeals))
		if a.closeCount > 0 {
			a.row.AvgDaysToClose = roundToInt(float64(a.closeDays) / float64(a.closeCount))
		}
		rows = append(rows, a.row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].WonDeals != rows[j].WonDeals {
			return rows[i].WonDeals > rows[j].WonDeals
		}
		if rows[i].TotalValue != rows[j].TotalValue {
			return rows[i].TotalValue > rows[j].TotalValue
		}
		return rows[i].OwnerID < rows[j].OwnerID
	})

	return rows
}
