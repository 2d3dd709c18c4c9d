package analytics

import (
	"fmt"
	"sort"

	"github.com/natemoovs/salesops-api/internal/domain"
)

// StageCatalog is the ordered list of pipeline stages used to sequence the
// funnel. Ordering always comes from DisplayOrder, never from the incoming
// slice order or from deal data.
type StageCatalog struct {
	ordered []domain.Stage
	byID    map[string]domain.Stage
}

// NewStageCatalog builds a catalog from the given stages, keeping only those
// belonging to pipelineID ("" or "all" keeps every stage). Display orders
// must be unique within a pipeline; two stages in the same pipeline sharing
// one returns ErrInconsistentStageCatalog. Distinct pipelines may reuse the
// same display order, so an unfiltered catalog sorts by display order first
// and pipeline id, then stage id, to stay deterministic.
func NewStageCatalog(stages []domain.Stage, pipelineID string) (*StageCatalog, error) {
	c := &StageCatalog{byID: make(map[string]domain.Stage)}

	filterAll := pipelineID == "" || pipelineID == domain.PipelineAll
	for _, s := range stages {
		if !filterAll && s.PipelineID != nil && *s.PipelineID != pipelineID {
			continue
		}
		c.ordered = append(c.ordered, s)
	}

	sort.SliceStable(c.ordered, func(i, j int) bool {
		a, b := &c.ordered[i], &c.ordered[j]
		if a.DisplayOrder != b.DisplayOrder {
			return a.DisplayOrder < b.DisplayOrder
		}
		if ak, bk := stagePipelineKey(a), stagePipelineKey(b); ak != bk {
			return ak < bk
		}
		return a.ID < b.ID
	})

	type orderKey struct {
		pipeline string
		order    int
	}
	seen := make(map[orderKey]string, len(c.ordered))
	for _, s := range c.ordered {
		key := orderKey{pipeline: stagePipelineKey(&s), order: s.DisplayOrder}
		if other, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: stages %q and %q in pipeline %q share display order %d",
				domain.ErrInconsistentStageCatalog, other, s.ID, key.pipeline, s.DisplayOrder)
		}
		seen[key] = s.ID
		c.byID[s.ID] = s
	}

	return c, nil
}

// stagePipelineKey buckets unscoped stages under the default pipeline, the
// same way the stages table indexes them.
func stagePipelineKey(s *domain.Stage) string {
	if s.PipelineID == nil {
		return domain.PipelineDefault
	}
	return *s.PipelineID
}

// Ordered returns the stages sorted by display order ascending
func (c *StageCatalog) Ordered() []domain.Stage {
	return c.ordered
}

// Lookup returns the stage with the given id, if present
func (c *StageCatalog) Lookup(id string) (domain.Stage, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// StageName returns the display name for a stage id, falling back to the
// raw id when the stage is unknown to the catalog
func (c *StageCatalog) StageName(id string) string {
	if s, ok := c.byID[id]; ok {
		return s.Name
	}
	return id
}

// Len returns the number of stages in the catalog
func (c *StageCatalog) Len() int {
	return len(c.ordered)
}
