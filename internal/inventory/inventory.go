// Package inventory compares discovered pages with an inventory of declared tool ids.
// The comparison is advisory and never blocks generation.
package inventory

import (
	"fmt"
	"os"
	"regexp"
	"sort"
)

var idPattern = regexp.MustCompile(`id:\s*['"]([^'"]+)['"]`)

// Diff lists the discrepancies between pages and inventory ids
type Diff struct {
	InventoryIDs int `json:"inventory_ids"`
	PageIDs      int `json:"page_ids"`
	// MissingFromInventory are pages without an inventory entry.
	MissingFromInventory []string `json:"missing_from_inventory,omitempty"`
	// MissingPages are inventory entries without a page.
	MissingPages []string `json:"missing_pages,omitempty"`
}

// InSync reports whether both sides list the same ids
func (d *Diff) InSync() bool {
	return len(d.MissingFromInventory) == 0 && len(d.MissingPages) == 0
}

// Load reads every `id: "..."` occurrence from an inventory file
func Load(path string) (map[string]struct{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	return Parse(data), nil
}

// Parse collects ids from inventory content
func Parse(data []byte) map[string]struct{} {
	ids := make(map[string]struct{})
	for _, m := range idPattern.FindAllSubmatch(data, -1) {
		ids[string(m[1])] = struct{}{}
	}
	return ids
}

// Compare diffs inventory ids against page ids. Both result lists are sorted.
func Compare(inventory map[string]struct{}, pageIDs []string) *Diff {
	pages := make(map[string]struct{}, len(pageIDs))
	for _, id := range pageIDs {
		pages[id] = struct{}{}
	}

	d := &Diff{InventoryIDs: len(inventory), PageIDs: len(pages)}
	for id := range pages {
		if _, ok := inventory[id]; !ok {
			d.MissingFromInventory = append(d.MissingFromInventory, id)
		}
	}
	for id := range inventory {
		if _, ok := pages[id]; !ok {
			d.MissingPages = append(d.MissingPages, id)
		}
	}
	sort.Strings(d.MissingFromInventory)
	sort.Strings(d.MissingPages)
	return d
}
