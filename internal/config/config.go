package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/pbaille/sitemapgen/internal/classifier"
	"github.com/pbaille/sitemapgen/internal/domain"
	"gopkg.in/yaml.v3"
)

// category names end up in file names
var categoryName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Config holds everything a run needs
type Config struct {
	BaseURL              string           `yaml:"base_url"`
	PagesDir             string           `yaml:"pages_dir"`
	PageExt              string           `yaml:"page_ext"`
	ToolPrefix           string           `yaml:"tool_prefix"`
	OutputDir            string           `yaml:"output_dir"`
	InputSitemap         string           `yaml:"input_sitemap"`
	InventoryFile        string           `yaml:"inventory_file,omitempty"`
	CatchAll             domain.Category  `yaml:"catch_all"`
	IncludeUncategorized bool             `yaml:"include_uncategorized"`
	Exclude              []string         `yaml:"exclude"`
	Categories           []CategoryConfig `yaml:"categories"`
	MainPages            []MainPage       `yaml:"main_pages"`
	Defaults             RecordDefaults   `yaml:"defaults"`
}

// CategoryConfig is one ordered row of the category table
type CategoryConfig struct {
	Name     domain.Category `yaml:"name"`
	Patterns []string        `yaml:"patterns"`
}

// MainPage is a static entry of sitemap-main.xml
type MainPage struct {
	Path       string            `yaml:"path"`
	ChangeFreq domain.ChangeFreq `yaml:"changefreq"`
	Priority   string            `yaml:"priority"`
}

// RecordDefaults fill tool entries and optional sitemap fields
type RecordDefaults struct {
	ChangeFreq domain.ChangeFreq `yaml:"changefreq"`
	Priority   string            `yaml:"priority"`
}

// Load reads a YAML config file over the defaults. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize trims the base URL and fills empty fields
func (c *Config) Normalize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.PageExt != "" && !strings.HasPrefix(c.PageExt, ".") {
		c.PageExt = "." + c.PageExt
	}
	if c.CatchAll == "" {
		c.CatchAll = domain.CatchAll
	}
	if c.Defaults.ChangeFreq == "" {
		c.Defaults.ChangeFreq = domain.Weekly
	}
	if c.Defaults.Priority == "" {
		c.Defaults.Priority = "0.8"
	}
}

// Validate checks the config for values no run could recover from
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("base_url must be an absolute URL, got %q", c.BaseURL))
	}
	if c.OutputDir == "" {
		errs = append(errs, errors.New("output_dir is required"))
	}
	if !c.Defaults.ChangeFreq.Valid() {
		errs = append(errs, fmt.Errorf("defaults.changefreq %q is not a sitemap token", c.Defaults.ChangeFreq))
	}
	if !validPriority(c.Defaults.Priority) {
		errs = append(errs, fmt.Errorf("defaults.priority %q must be within 0.0..1.0", c.Defaults.Priority))
	}
	for _, cat := range c.Categories {
		if !categoryName.MatchString(string(cat.Name)) {
			errs = append(errs, fmt.Errorf("category name %q must match %s", cat.Name, categoryName))
		}
	}
	for _, p := range c.MainPages {
		if !p.ChangeFreq.Valid() {
			errs = append(errs, fmt.Errorf("main page %s: changefreq %q is not a sitemap token", p.Path, p.ChangeFreq))
		}
		if !validPriority(p.Priority) {
			errs = append(errs, fmt.Errorf("main page %s: priority %q must be within 0.0..1.0", p.Path, p.Priority))
		}
	}

	if _, err := classifier.New(c.Table(), c.CatchAll); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Table converts the category rows to a classifier table
func (c *Config) Table() classifier.Table {
	t := make(classifier.Table, 0, len(c.Categories))
	for _, cat := range c.Categories {
		t = append(t, classifier.Category{Name: cat.Name, Patterns: cat.Patterns})
	}
	return t
}

// Classifier compiles the category table
func (c *Config) Classifier() (*classifier.Classifier, error) {
	clf, err := classifier.New(c.Table(), c.CatchAll)
	if err != nil {
		return nil, err
	}
	return clf.WithBaseURL(c.BaseURL), nil
}

// ExcludeSet returns the excluded page ids as a set
func (c *Config) ExcludeSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Exclude))
	for _, id := range c.Exclude {
		set[id] = struct{}{}
	}
	return set
}

func validPriority(s string) bool {
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && f >= 0 && f <= 1
}
