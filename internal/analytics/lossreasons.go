package analytics

import (
	"sort"

	"github.com/natemoovs/salesops-api/internal/domain"
)

// UnspecifiedLossReason is the bucket for lost deals that carry no reason
const UnspecifiedLossReason = "Unspecified"

// ClassifyLossReasons tallies closed-lost deals by loss reason. Nil or empty
// reasons go to the "Unspecified" bucket; percentage is each bucket's share
// of all lost deals. No lost deals means an empty list, not a list of
// zero-percentage buckets. Buckets are ordered by count descending, ties
// broken alphabetically by reason.
func ClassifyLossReasons(deals []domain.Deal) []domain.LossReasonBucket {
	counts := make(map[string]int)
	totalLost := 0

	for i := range deals {
		d := &deals[i]
		if d.Status != domain.DealStatusLost {
			continue
		}

		reason := UnspecifiedLossReason
		if d.LossReason != nil && *d.LossReason != "" {
			reason = *d.LossReason
		}
		counts[reason]++
		totalLost++
	}

	buckets := make([]domain.LossReasonBucket, 0, len(counts))
	for reason, count := range counts {
		buckets = append(buckets, domain.LossReasonBucket{
			Reason:     reason,
			Count:      count,
			Percentage: roundPercent(float64(count), float64(totalLost)),
		})
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		return buckets[i].Reason < buckets[j].Reason
	})

	return buckets
}
