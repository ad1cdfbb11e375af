package planner

import (
	"log"
	"sort"

	"econtent/types"
)

// PlanningError indicates content planning failed due to invalid inputs
type PlanningError struct {
	Reason string
}

func (e *PlanningError) Error() string {
	return "content planning failed: " + e.Reason
}

// CreateTasks matches plan slots with news items. Breaking news is assigned
// first, then the most recent items; each news item is used at most once.
// Slots are filled in input order and a slot with no remaining news item is
// skipped with a warning.
func CreateTasks(planSlots []types.PlanSlot, newsItems []*types.NewsItem) ([]types.ContentTask, error) {
	if len(planSlots) == 0 {
		return nil, &PlanningError{Reason: "at least one plan slot is required"}
	}
	if len(newsItems) == 0 {
		return nil, &PlanningError{Reason: "at least one news item is required"}
	}

	sorted := make([]*types.NewsItem, len(newsItems))
	copy(sorted, newsItems)
	sort.SliceStable(sorted, func(i, j int) bool {
		return newsLess(sorted[i], sorted[j])
	})

	tasks := make([]types.ContentTask, 0, len(planSlots))
	used := make(map[string]bool, len(sorted))

	for _, slot := range planSlots {
		var matched *types.NewsItem
		for _, item := range sorted {
			if !used[item.NewsID] {
				matched = item
				break
			}
		}
		if matched == nil {
			log.Printf("Warning: no available news item for slot %s", slot.SlotID)
			continue
		}

		used[matched.NewsID] = true
		tasks = append(tasks, types.ContentTask{
			SlotID:   slot.SlotID,
			PostType: slot.PostType,
			NewsID:   matched.NewsID,
			Headline: matched.Headline,
		})
	}

	return tasks, nil
}

// newsLess is the composite assignment ordering: breaking items first, then
// published time descending. An item without a published time sorts last
// (treated as oldest). Equal keys keep input order via the stable sort.
func newsLess(a, b *types.NewsItem) bool {
	if a.IsBreaking != b.IsBreaking {
		return a.IsBreaking
	}
	if a.PublishedAt == nil {
		return false
	}
	if b.PublishedAt == nil {
		return true
	}
	return a.PublishedAt.After(*b.PublishedAt)
}
