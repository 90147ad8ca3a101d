package collector

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/pbaille/sitemapgen/internal/domain"
	"github.com/pbaille/sitemapgen/internal/fetcher"
	"github.com/pbaille/sitemapgen/internal/sitemap"
)

// SitemapSource is the outcome of loading an existing sitemap
type SitemapSource struct {
	Records   []domain.URLRecord
	Namespace string
	// Fallback is set when Records is the built-in example list.
	Fallback bool
	Warnings []string
}

// SitemapLoader reads Mode B input from a file path or an http(s) URL
type SitemapLoader struct {
	BaseURL  string
	Defaults sitemap.Defaults
	Logger   *slog.Logger
}

// Load never fails: a missing or unparsable document falls back to the example list
func (l *SitemapLoader) Load(source string) *SitemapSource {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	data, err := l.read(source)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Input sitemap not found, using example URLs", "path", source)
			return l.fallback(fmt.Sprintf("%s not found, created example URLs", source))
		}
		logger.Warn("Could not read input sitemap, using example URLs", "source", source, "error", err)
		return l.fallback(fmt.Sprintf("could not read %s: %v", source, err))
	}

	doc, err := sitemap.Parse(bytes.NewReader(data), l.Defaults)
	if err != nil {
		logger.Error("Error parsing input sitemap, using example URLs", "source", source, "error", err)
		return l.fallback(fmt.Sprintf("error parsing %s: %v", source, err))
	}

	out := &SitemapSource{Records: doc.URLs, Namespace: doc.Namespace}
	if doc.Skipped > 0 {
		out.Warnings = append(out.Warnings, fmt.Sprintf("skipped %d url elements without loc", doc.Skipped))
	}
	logger.Info("Parsed input sitemap", "source", source, "urls", len(doc.URLs), "namespace", doc.Namespace)
	return out
}

func (l *SitemapLoader) read(source string) ([]byte, error) {
	if fetcher.IsURL(source) {
		return fetcher.Fetch(source)
	}
	return os.ReadFile(source)
}

func (l *SitemapLoader) fallback(warning string) *SitemapSource {
	return &SitemapSource{
		Records:  ExampleRecords(l.BaseURL, l.Defaults.LastMod),
		Fallback: true,
		Warnings: []string{warning},
	}
}

// ExampleRecords is the built-in URL list used when no input sitemap is usable
func ExampleRecords(baseURL, date string) []domain.URLRecord {
	pages := []struct {
		path     string
		freq     domain.ChangeFreq
		priority string
	}{
		{"/", domain.Daily, "1.0"},
		{"/about", domain.Monthly, "0.8"},
		{"/contact", domain.Monthly, "0.8"},
		{"/privacy", domain.Yearly, "0.5"},
		{"/terms", domain.Yearly, "0.5"},
		{"/help", domain.Monthly, "0.7"},
		{"/tools", domain.Weekly, "0.9"},

		{"/tools/loan-calculator", domain.Weekly, "0.8"},
		{"/tools/mortgage-calculator", domain.Weekly, "0.8"},
		{"/tools/emi-calculator", domain.Weekly, "0.8"},
		{"/tools/compound-interest-calculator", domain.Weekly, "0.8"},
		{"/tools/tax-calculator", domain.Weekly, "0.8"},
		{"/tools/paypal-fee-calculator", domain.Weekly, "0.8"},

		{"/tools/bmi-calculator", domain.Weekly, "0.8"},
		{"/tools/bmr-calculator", domain.Weekly, "0.8"},
		{"/tools/calorie-calculator", domain.Weekly, "0.8"},
		{"/tools/body-fat-calculator", domain.Weekly, "0.8"},

		{"/tools/word-counter", domain.Weekly, "0.8"},
		{"/tools/character-counter", domain.Weekly, "0.8"},
		{"/tools/case-converter", domain.Weekly, "0.8"},
		{"/tools/password-generator", domain.Weekly, "0.8"},
	}

	records := make([]domain.URLRecord, 0, len(pages))
	for _, p := range pages {
		records = append(records, domain.URLRecord{
			Loc:        baseURL + p.path,
			LastMod:    date,
			ChangeFreq: p.freq,
			Priority:   p.priority,
		})
	}
	return records
}
