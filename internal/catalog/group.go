package catalog

import "math"

// Bucket holds the items of one category and their share of the whole.
type Bucket[T any] struct {
	Category   CategoryID `json:"category"`
	Items      []T        `json:"items"`
	Count      int        `json:"count"`
	Percentage int        `json:"percentage"`
}

// Group buckets cards by category following the order of categories.
func Group(cards []MenuCard, categories []CategoryID) []Bucket[MenuCard] {
	return GroupBy(cards, func(c MenuCard) CategoryID { return c.Category }, categories)
}

// GroupBy buckets items by category following the order of categories. Items
// whose category is not listed are left out of every bucket but still count
// towards the total used for percentages. Repeated category ids keep their
// first position.
func GroupBy[T any](items []T, categoryOf func(T) CategoryID, categories []CategoryID) []Bucket[T] {
	index := make(map[CategoryID]int, len(categories))
	buckets := make([]Bucket[T], 0, len(categories))
	for _, id := range categories {
		if _, dup := index[id]; dup {
			continue
		}
		index[id] = len(buckets)
		buckets = append(buckets, Bucket[T]{Category: id, Items: []T{}})
	}

	total := len(items)
	for _, item := range items {
		i, ok := index[categoryOf(item)]
		if !ok {
			continue
		}
		buckets[i].Items = append(buckets[i].Items, item)
	}
	for i := range buckets {
		buckets[i].Count = len(buckets[i].Items)
		buckets[i].Percentage = percentage(buckets[i].Count, total)
	}
	return buckets
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
