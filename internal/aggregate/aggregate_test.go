package aggregate

import (
	"testing"

	"github.com/pbaille/sitemapgen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	name string
	cat  domain.Category
}

func group(items []item) *Index[item] {
	return Group(items,
		func(i item) domain.Category { return i.cat },
		func(i item) string { return i.name },
		[]domain.Category{"main", "finance", "health", "text"},
	)
}

func TestGroupPartitionsAndSorts(t *testing.T) {
	items := []item{
		{"Tip Calculator", "finance"},
		{"BMI Calculator", "health"},
		{"Loan Calculator", "finance"},
		{"Odd Page", "main"},
		{"EMI Calculator", "finance"},
	}

	idx := group(items)

	assert.Equal(t, len(items), idx.Len())
	assert.Equal(t, []domain.Category{"main", "finance", "health", "text"}, idx.Categories())
	assert.Equal(t, []domain.Category{"main", "finance", "health"}, idx.NonEmpty())
	assert.Equal(t, []domain.Category{"text"}, idx.Empty())

	var names []string
	for _, i := range idx.Items("finance") {
		names = append(names, i.name)
	}
	assert.Equal(t, []string{"EMI Calculator", "Loan Calculator", "Tip Calculator"}, names)

	// every item appears exactly once
	seen := map[string]int{}
	for _, c := range idx.Categories() {
		for _, i := range idx.Items(c) {
			seen[i.name]++
		}
	}
	require.Len(t, seen, len(items))
	for name, n := range seen {
		assert.Equal(t, 1, n, name)
	}
}

func TestGroupIsDeterministic(t *testing.T) {
	items := []item{
		{"b", "text"}, {"a", "text"}, {"c", "health"}, {"a", "health"}, {"B", "text"},
	}

	first := group(items)
	second := group(items)

	for _, c := range first.Categories() {
		assert.Equal(t, first.Items(c), second.Items(c), c)
	}
	// byte-wise ordering puts upper case first
	assert.Equal(t, []item{{"B", "text"}, {"a", "text"}, {"b", "text"}}, first.Items("text"))
}

func TestGroupStableForEqualNames(t *testing.T) {
	items := []item{{"same", "text"}, {"same", "text"}}
	idx := Group(items,
		func(i item) domain.Category { return i.cat },
		func(item) string { return "" },
		nil,
	)
	assert.Equal(t, items, idx.Items("text"))
}

func TestGroupUnknownCategoryAppended(t *testing.T) {
	idx := group([]item{{"x", "games"}})

	assert.Equal(t, []domain.Category{"main", "finance", "health", "text", "games"}, idx.Categories())
	assert.Equal(t, []domain.CategoryCount{
		{Category: "main"}, {Category: "finance"}, {Category: "health"}, {Category: "text"},
		{Category: "games", Count: 1},
	}, idx.Counts())
}
