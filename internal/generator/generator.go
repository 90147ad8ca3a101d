package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pbaille/sitemapgen/internal/aggregate"
	"github.com/pbaille/sitemapgen/internal/classifier"
	"github.com/pbaille/sitemapgen/internal/collector"
	"github.com/pbaille/sitemapgen/internal/config"
	"github.com/pbaille/sitemapgen/internal/domain"
	"github.com/pbaille/sitemapgen/internal/fetcher"
	"github.com/pbaille/sitemapgen/internal/inventory"
	"github.com/pbaille/sitemapgen/internal/metrics"
	"github.com/pbaille/sitemapgen/internal/sitemap"
)

// Generator runs page or sitemap input through classification into sitemap files
type Generator struct {
	cfg      *config.Config
	clf      *classifier.Classifier
	norm     sitemap.Normalizer
	now      func() time.Time
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Generator
type Option func(*Generator)

// WithClock sets the time source used for lastmod and backup names
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithRecorder sets the metrics recorder
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// New creates a Generator for cfg
func New(cfg *config.Config, opts ...Option) (*Generator, error) {
	clf, err := cfg.Classifier()
	if err != nil {
		return nil, fmt.Errorf("compile categories: %w", err)
	}

	g := &Generator{
		cfg:      cfg,
		clf:      clf,
		norm:     sitemap.Normalizer{ChangeFreq: cfg.Defaults.ChangeFreq, Priority: cfg.Defaults.Priority},
		now:      time.Now,
		logger:   slog.Default(),
		recorder: (*metrics.Prometheus)(nil),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Classifier returns the compiled category table
func (g *Generator) Classifier() *classifier.Classifier {
	return g.clf
}

func (g *Generator) newReport(mode Mode) *Report {
	now := g.now()
	return &Report{
		Mode:      mode,
		BaseURL:   g.cfg.BaseURL,
		OutputDir: g.cfg.OutputDir,
		Date:      now.Format(domain.DateLayout),
		StartedAt: now,
	}
}

// Pages scans page files and writes category sitemaps, the main sitemap and the index
func (g *Generator) Pages() (*Report, error) {
	start := time.Now()
	report := g.newReport(ModePages)

	err := g.pages(report)
	g.observe(report, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (g *Generator) pages(report *Report) error {
	scanner := &collector.PageScanner{
		Dir:     g.cfg.PagesDir,
		Ext:     g.cfg.PageExt,
		Exclude: g.cfg.ExcludeSet(),
		Logger:  g.logger,
	}
	pages, warnings, err := scanner.Scan()
	if err != nil {
		return fmt.Errorf("scan pages: %w", err)
	}
	report.Warnings = append(report.Warnings, warnings...)
	if len(pages) == 0 {
		report.warn("no tool pages found in " + g.cfg.PagesDir)
	}

	entries := make([]domain.ToolEntry, 0, len(pages))
	for _, p := range pages {
		path := g.cfg.ToolPrefix + p.ID
		entries = append(entries, domain.ToolEntry{
			ID:       p.ID,
			Name:     p.Name,
			Category: g.clf.Classify(p.ID),
			Path:     path,
			URL:      g.cfg.BaseURL + path,
			PageFile: p.File,
		})
	}

	report.Inventory = g.compareInventory(report, collector.IDs(pages))

	idx := aggregate.Group(entries,
		func(e domain.ToolEntry) domain.Category { return e.Category },
		func(e domain.ToolEntry) string { return e.Name },
		g.clf.Categories(),
	)
	report.Categories = idx.Counts()

	if err := g.ensureOutputDir(); err != nil {
		return err
	}

	catchAll := g.clf.CatchAll()
	var index []sitemap.IndexEntry
	var categoryFiles []sitemap.IndexEntry

	for _, c := range idx.Categories() {
		if c == catchAll {
			continue
		}
		items := idx.Items(c)
		if len(items) == 0 {
			report.Skipped = append(report.Skipped, c)
			continue
		}
		file := CategoryFile(c)
		if err := g.writeURLSet(file, g.toolRecords(items, report.Date)); err != nil {
			return err
		}
		report.setFile(c, file)
		report.Files = append(report.Files, file)
		categoryFiles = append(categoryFiles, g.indexEntry(file, report.Date))
	}

	uncategorized := idx.Items(catchAll)
	for _, e := range uncategorized {
		report.Uncategorized = append(report.Uncategorized, e.ID)
	}
	if len(uncategorized) > 0 {
		report.warn(fmt.Sprintf("%d tools could not be categorized: %s",
			len(uncategorized), strings.Join(report.Uncategorized, ", ")))
		g.logger.Warn("Tools could not be categorized", "count", len(uncategorized))
	}

	mainRecords := g.mainRecords(report.Date)
	if g.cfg.IncludeUncategorized {
		mainRecords = append(mainRecords, g.toolRecords(uncategorized, report.Date)...)
	}
	mainFile := CategoryFile(catchAll)
	if err := g.writeURLSet(mainFile, mainRecords); err != nil {
		return err
	}
	report.setFile(catchAll, mainFile)
	report.Files = append([]string{mainFile}, report.Files...)
	index = append(index, g.indexEntry(mainFile, report.Date))
	index = append(index, categoryFiles...)

	return g.writeIndex(report, index)
}

// Split reads an existing sitemap and splits it into category sitemaps plus an index
func (g *Generator) Split(input string) (*Report, error) {
	start := time.Now()
	report := g.newReport(ModeSplit)

	err := g.split(report, input)
	g.observe(report, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return report, nil
}

func (g *Generator) split(report *Report, input string) error {
	loader := &collector.SitemapLoader{
		BaseURL: g.cfg.BaseURL,
		Defaults: sitemap.Defaults{
			LastMod:    report.Date,
			ChangeFreq: g.cfg.Defaults.ChangeFreq,
			Priority:   g.cfg.Defaults.Priority,
		},
		Logger: g.logger,
	}
	src := loader.Load(input)
	report.Fallback = src.Fallback
	report.Warnings = append(report.Warnings, src.Warnings...)

	records := make([]domain.URLRecord, 0, len(src.Records))
	for _, r := range src.Records {
		records = append(records, g.norm.Record(r))
	}

	idx := aggregate.Group(records,
		func(r domain.URLRecord) domain.Category { return g.clf.ClassifyURL(r.Loc) },
		func(r domain.URLRecord) string { return r.Loc },
		g.clf.Categories(),
	)
	report.Categories = idx.Counts()
	report.Skipped = idx.Empty()

	if len(records) == 0 {
		report.warn("no URLs found to process")
		return nil
	}

	if err := g.ensureOutputDir(); err != nil {
		return err
	}

	if !fetcher.IsURL(input) {
		backup, err := g.backupInput(input)
		if err != nil {
			return err
		}
		report.Backup = backup
	}

	var index []sitemap.IndexEntry
	for _, c := range idx.NonEmpty() {
		file := CategoryFile(c)
		if err := g.writeURLSet(file, idx.Items(c)); err != nil {
			return err
		}
		report.setFile(c, file)
		report.Files = append(report.Files, file)
		index = append(index, g.indexEntry(file, report.Date))
	}

	return g.writeIndex(report, index)
}

func (g *Generator) toolRecords(entries []domain.ToolEntry, date string) []domain.URLRecord {
	records := make([]domain.URLRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, domain.URLRecord{
			Loc:        e.URL,
			LastMod:    date,
			ChangeFreq: g.cfg.Defaults.ChangeFreq,
			Priority:   g.cfg.Defaults.Priority,
		})
	}
	return records
}

func (g *Generator) mainRecords(date string) []domain.URLRecord {
	records := make([]domain.URLRecord, 0, len(g.cfg.MainPages))
	for _, p := range g.cfg.MainPages {
		records = append(records, g.norm.Record(domain.URLRecord{
			Loc:        g.cfg.BaseURL + p.Path,
			LastMod:    date,
			ChangeFreq: p.ChangeFreq,
			Priority:   p.Priority,
		}))
	}
	return records
}

func (g *Generator) indexEntry(file, date string) sitemap.IndexEntry {
	return sitemap.IndexEntry{Loc: g.cfg.BaseURL + "/" + file, LastMod: date}
}

func (g *Generator) ensureOutputDir() error {
	if err := os.MkdirAll(g.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

func (g *Generator) writeURLSet(file string, records []domain.URLRecord) error {
	data, err := sitemap.MarshalURLSet(records)
	if err != nil {
		return fmt.Errorf("render %s: %w", file, err)
	}
	if err := g.write(file, data); err != nil {
		return err
	}
	g.logger.Info("Created sitemap", "file", file, "urls", len(records))
	return nil
}

func (g *Generator) writeIndex(report *Report, entries []sitemap.IndexEntry) error {
	data, err := sitemap.MarshalIndex(entries)
	if err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	if err := g.write(IndexFile, data); err != nil {
		return err
	}
	report.Files = append(report.Files, IndexFile)
	g.logger.Info("Created sitemap index", "file", IndexFile, "sitemaps", len(entries))
	return nil
}

func (g *Generator) write(file string, data []byte) error {
	path := filepath.Join(g.cfg.OutputDir, file)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (g *Generator) compareInventory(report *Report, pageIDs []string) *inventory.Diff {
	if g.cfg.InventoryFile == "" {
		return nil
	}
	ids, err := inventory.Load(g.cfg.InventoryFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			report.warn(g.cfg.InventoryFile + " not found, skipping comparison")
		} else {
			report.warn(fmt.Sprintf("could not read inventory: %v", err))
		}
		g.logger.Warn("Skipping inventory comparison", "path", g.cfg.InventoryFile, "error", err)
		return nil
	}

	diff := inventory.Compare(ids, pageIDs)
	if !diff.InSync() {
		g.logger.Warn("Inventory out of sync with pages",
			"missing_from_inventory", len(diff.MissingFromInventory),
			"missing_pages", len(diff.MissingPages))
	}
	return diff
}

func (g *Generator) observe(report *Report, d time.Duration, err error) {
	mode := string(report.Mode)
	g.recorder.ObserveRun(mode, d, err != nil)
	if err != nil {
		g.logger.Error("Generation failed", "mode", mode, "error", err)
		return
	}
	for _, c := range report.Categories {
		g.recorder.SetCategoryURLs(mode, string(c.Category), c.Count)
	}
	g.recorder.AddWarnings(mode, len(report.Warnings))
	g.logger.Info("Generation completed",
		"mode", mode,
		"urls", report.TotalURLs(),
		"files", len(report.Files),
		"warnings", len(report.Warnings))
}
