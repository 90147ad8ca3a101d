package classifier

import (
	"testing"

	"github.com/pbaille/sitemapgen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() Table {
	return Table{
		{Name: "main", Patterns: []string{`/$`, `/about`, `/tools$`}},
		{Name: "finance", Patterns: []string{`loan.*calculator`, `tax.*calculator`}},
		{Name: "health", Patterns: []string{`bmi.*calculator`, `tax`}},
		{Name: "text", Patterns: []string{`word.*counter`}},
	}
}

func newTest(t *testing.T) *Classifier {
	t.Helper()
	c, err := New(testTable(), "main")
	require.NoError(t, err)
	return c
}

func TestClassify(t *testing.T) {
	c := newTest(t)

	tests := []struct {
		in   string
		want domain.Category
	}{
		{"loan-calculator", "finance"},
		{"LOAN-Calculator", "finance"},
		{"tax-calculator-tool", "finance"},
		{"tax-only", "health"},
		{"bmi-calculator", "health"},
		{"word-counter", "text"},
		{"random-unmatched-page", "main"},
		{"", "main"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.in))
		})
	}
}

func TestFirstMatchFollowsDeclaredOrder(t *testing.T) {
	swapped := Table{
		{Name: "main"},
		{Name: "health", Patterns: []string{`tax`}},
		{Name: "finance", Patterns: []string{`tax.*calculator`}},
	}
	c, err := New(swapped, "main")
	require.NoError(t, err)

	assert.Equal(t, domain.Category("health"), c.Classify("tax-calculator-tool"))
}

func TestCatchAllEvaluatedLast(t *testing.T) {
	table := Table{
		{Name: "main", Patterns: []string{`calculator`}},
		{Name: "finance", Patterns: []string{`loan`}},
	}
	c, err := New(table, "main")
	require.NoError(t, err)

	assert.Equal(t, Match{Category: "finance", Pattern: "loan"}, c.Explain("loan-calculator"))
	assert.Equal(t, Match{Category: "main", Pattern: "calculator"}, c.Explain("bmi-calculator"))
	assert.Equal(t, Match{Category: "main"}, c.Explain("about"))
}

func TestExplainReportsPattern(t *testing.T) {
	c := newTest(t)

	m := c.Explain("home-loan-calculator")
	assert.Equal(t, domain.Category("finance"), m.Category)
	assert.Equal(t, "loan.*calculator", m.Pattern)
}

func TestClassifyURL(t *testing.T) {
	c := newTest(t)

	tests := []struct {
		url  string
		want domain.Category
	}{
		{"https://example.com/", "main"},
		{"https://example.com/about", "main"},
		{"https://example.com/tools", "main"},
		{"https://example.com/tools/", "main"},
		{"https://example.com/tools/loan-calculator/", "finance"},
		{"https://example.com/tools/BMI-Calculator?x=tax", "health"},
		{"https://example.com/tools/word-counter#top", "text"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ClassifyURL(tt.url))
		})
	}
}

func TestURLPathFallsBackToBaseStrip(t *testing.T) {
	c := newTest(t).WithBaseURL("https://example.com")

	assert.Equal(t, "/tools/loan calculator\x7f", c.URLPath("https://example.com/tools/Loan Calculator\x7f"))
}

func TestDeterministic(t *testing.T) {
	c := newTest(t)
	inputs := []string{"loan-calculator", "bmi-calculator", "x", "tax-calculator-tool", "word-counter"}

	first := make([]domain.Category, len(inputs))
	for i, in := range inputs {
		first[i] = c.Classify(in)
	}
	for i, in := range inputs {
		assert.Equal(t, first[i], c.Classify(in))
	}
}

func TestCategories(t *testing.T) {
	table := Table{
		{Name: "finance"},
		{Name: "main"},
		{Name: "text"},
	}
	c, err := New(table, "main")
	require.NoError(t, err)

	assert.Equal(t, domain.Category("main"), c.CatchAll())
	assert.Equal(t, []domain.Category{"main", "finance", "text"}, c.Categories())
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil, "main")
	require.ErrorIs(t, err, ErrEmptyTable)

	_, err = New(Table{{Name: "main"}, {Name: "main"}}, "main")
	require.ErrorIs(t, err, ErrDuplicateCategory)

	_, err = New(Table{{Name: "finance"}}, "main")
	require.ErrorIs(t, err, ErrMissingCatchAll)

	_, err = New(Table{{Name: "main", Patterns: []string{`(unclosed`}}}, "main")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(unclosed")
}
