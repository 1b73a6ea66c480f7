package query

import (
	"sort"

	"github.com/chromalens/chromalens-go/internal/domain/item"
)

// Scored pairs an item with its distance to the query vector.
type Scored struct {
	item     item.Item
	distance float64
}

// NewScored creates a scored result.
func NewScored(it item.Item, distance float64) Scored {
	return Scored{item: it, distance: distance}
}

// Item returns the matched item.
func (s Scored) Item() item.Item { return s.item }

// Distance returns the distance to the query vector.
func (s Scored) Distance() float64 { return s.distance }

// Sort orders results by ascending distance; equal distances are broken by
// ascending item id so repeated queries return identical orderings.
func Sort(results []Scored) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].distance != results[j].distance {
			return results[i].distance < results[j].distance
		}
		return results[i].item.ID() < results[j].item.ID()
	})
}
