package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toolsTS = `export const tools: Tool[] = [
  { id: 'loan-calculator', name: 'Loan Calculator', href: '/tools/loan-calculator' },
  { id: "bmi-calculator", name: "BMI Calculator" },
  {   id:'word-counter', name: 'Word Counter' },
];
`

func TestParse(t *testing.T) {
	ids := Parse([]byte(toolsTS))
	assert.Equal(t, map[string]struct{}{
		"loan-calculator": {},
		"bmi-calculator":  {},
		"word-counter":    {},
	}, ids)
}

func TestCompare(t *testing.T) {
	d := Compare(Parse([]byte(toolsTS)), []string{"word-counter", "tip-calculator", "loan-calculator", "age-calculator"})

	assert.Equal(t, 3, d.InventoryIDs)
	assert.Equal(t, 4, d.PageIDs)
	assert.Equal(t, []string{"age-calculator", "tip-calculator"}, d.MissingFromInventory)
	assert.Equal(t, []string{"bmi-calculator"}, d.MissingPages)
	assert.False(t, d.InSync())
}

func TestCompareInSync(t *testing.T) {
	d := Compare(Parse([]byte(toolsTS)), []string{"bmi-calculator", "word-counter", "loan-calculator"})
	assert.True(t, d.InSync())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.ts")
	require.NoError(t, os.WriteFile(path, []byte(toolsTS), 0644))

	ids, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.ts"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
