package domain

import "time"

// Category is a classification label from the category table
type Category string

// CatchAll is the default label for items matching no specific category
const CatchAll Category = "main"

// ChangeFreq is a sitemaps.org change frequency token
type ChangeFreq string

const (
	Always  ChangeFreq = "always"
	Hourly  ChangeFreq = "hourly"
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
	Never   ChangeFreq = "never"
)

// Valid reports whether f is a token defined by the sitemap protocol
func (f ChangeFreq) Valid() bool {
	switch f {
	case Always, Hourly, Daily, Weekly, Monthly, Yearly, Never:
		return true
	}
	return false
}

// DateLayout is the lastmod format written to sitemaps
const DateLayout = "2006-01-02"

// ToolEntry represents a discovered tool page
type ToolEntry struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Path     string   `json:"path"`
	URL      string   `json:"url"`
	PageFile string   `json:"page_file"`
}

// URLRecord is a single <url> entry of a sitemap
type URLRecord struct {
	Loc        string     `json:"loc"`
	LastMod    string     `json:"lastmod"`
	ChangeFreq ChangeFreq `json:"changefreq"`
	Priority   string     `json:"priority"`
}

// Run summarizes one generation run
type Run struct {
	ID         string          `json:"id"`
	Mode       string          `json:"mode"`
	BaseURL    string          `json:"base_url"`
	OutputDir  string          `json:"output_dir"`
	StartedAt  time.Time       `json:"started_at"`
	TotalURLs  int             `json:"total_urls"`
	Warnings   []string        `json:"warnings,omitempty"`
	Categories []CategoryCount `json:"categories,omitempty"`
}

// CategoryCount is the number of items a run put in a category
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	File     string   `json:"file,omitempty"`
}
