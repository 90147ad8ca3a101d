package aggregate

import (
	"sort"

	"github.com/pbaille/sitemapgen/internal/domain"
)

// Index groups items by category
type Index[T any] struct {
	order  []domain.Category
	groups map[domain.Category][]T
}

// Group puts every item in exactly one category list. Categories from order are
// always recorded, even when empty; others are appended in first-seen order.
// Within a category items are stable-sorted by name.
func Group[T any](items []T, categoryOf func(T) domain.Category, nameOf func(T) string, order []domain.Category) *Index[T] {
	idx := &Index[T]{groups: make(map[domain.Category][]T, len(order))}
	for _, c := range order {
		idx.add(c)
	}

	for _, item := range items {
		c := categoryOf(item)
		idx.add(c)
		idx.groups[c] = append(idx.groups[c], item)
	}

	for _, c := range idx.order {
		list := idx.groups[c]
		sort.SliceStable(list, func(i, j int) bool {
			return nameOf(list[i]) < nameOf(list[j])
		})
	}

	return idx
}

func (idx *Index[T]) add(c domain.Category) {
	if _, ok := idx.groups[c]; ok {
		return
	}
	idx.order = append(idx.order, c)
	idx.groups[c] = nil
}

// Categories returns every recorded category in order
func (idx *Index[T]) Categories() []domain.Category {
	return append([]domain.Category(nil), idx.order...)
}

// NonEmpty returns the categories that have at least one item
func (idx *Index[T]) NonEmpty() []domain.Category {
	var out []domain.Category
	for _, c := range idx.order {
		if len(idx.groups[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}

// Empty returns the recorded categories without items
func (idx *Index[T]) Empty() []domain.Category {
	var out []domain.Category
	for _, c := range idx.order {
		if len(idx.groups[c]) == 0 {
			out = append(out, c)
		}
	}
	return out
}

// Items returns the sorted items of a category
func (idx *Index[T]) Items(c domain.Category) []T {
	return idx.groups[c]
}

// Len returns the total number of grouped items
func (idx *Index[T]) Len() int {
	n := 0
	for _, list := range idx.groups {
		n += len(list)
	}
	return n
}

// Counts returns the size of every recorded category in order
func (idx *Index[T]) Counts() []domain.CategoryCount {
	out := make([]domain.CategoryCount, 0, len(idx.order))
	for _, c := range idx.order {
		out = append(out, domain.CategoryCount{Category: c, Count: len(idx.groups[c])})
	}
	return out
}
