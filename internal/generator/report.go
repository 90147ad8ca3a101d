package generator

import (
	"time"

	"github.com/pbaille/sitemapgen/internal/domain"
	"github.com/pbaille/sitemapgen/internal/inventory"
)

// Mode names the source of a run
type Mode string

const (
	// ModePages scans page files.
	ModePages Mode = "pages"
	// ModeSplit splits an existing sitemap.
	ModeSplit Mode = "split"
)

// IndexFile is the name of the sitemap index
const IndexFile = "sitemap.xml"

// CategoryFile returns the sitemap file name of a category
func CategoryFile(c domain.Category) string {
	return "sitemap-" + string(c) + ".xml"
}

// Report is the structured result of a run
type Report struct {
	RunID      string                 `json:"run_id,omitempty"`
	Mode       Mode                   `json:"mode"`
	BaseURL    string                 `json:"base_url"`
	OutputDir  string                 `json:"output_dir"`
	Date       string                 `json:"date"`
	StartedAt  time.Time              `json:"started_at"`
	Categories []domain.CategoryCount `json:"categories"`
	// Files are the written file names; the index comes last.
	Files []string `json:"files"`
	// Skipped are categories without members, so without a file.
	Skipped       []domain.Category `json:"skipped,omitempty"`
	Uncategorized []string          `json:"uncategorized,omitempty"`
	Backup        string            `json:"backup,omitempty"`
	Fallback      bool              `json:"fallback,omitempty"`
	Inventory     *inventory.Diff   `json:"inventory,omitempty"`
	Warnings      []string          `json:"warnings,omitempty"`
}

// TotalURLs counts classified items over all categories
func (r *Report) TotalURLs() int {
	n := 0
	for _, c := range r.Categories {
		n += c.Count
	}
	return n
}

// Run converts the report to a history record
func (r *Report) Run() domain.Run {
	return domain.Run{
		ID:         r.RunID,
		Mode:       string(r.Mode),
		BaseURL:    r.BaseURL,
		OutputDir:  r.OutputDir,
		StartedAt:  r.StartedAt,
		TotalURLs:  r.TotalURLs(),
		Warnings:   r.Warnings,
		Categories: r.Categories,
	}
}

func (r *Report) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *Report) setFile(c domain.Category, file string) {
	for i := range r.Categories {
		if r.Categories[i].Category == c {
			r.Categories[i].File = file
			return
		}
	}
}
