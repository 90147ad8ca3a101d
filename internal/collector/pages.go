package collector

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Page is a discovered page file
type Page struct {
	ID   string
	Name string
	File string
	// NameFromContent is false when Name was derived from ID.
	NameFromContent bool
}

// PageScanner enumerates page files of one extension in a directory
type PageScanner struct {
	Dir     string
	Ext     string
	Exclude map[string]struct{}
	Titles  TitleExtractor
	Logger  *slog.Logger
}

// Scan returns the pages sorted by file name, plus warnings for soft failures.
// A missing directory yields no pages and a warning.
func (s *PageScanner) Scan() ([]Page, []string, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	titles := s.Titles
	if titles == nil {
		titles = TitlesFor(s.Ext)
	}

	var warnings []string

	info, err := os.Stat(s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			msg := fmt.Sprintf("pages directory %s not found", s.Dir)
			logger.Warn("Pages directory not found", "path", s.Dir)
			return nil, append(warnings, msg), nil
		}
		return nil, nil, fmt.Errorf("stat pages dir: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("pages path %s is not a directory", s.Dir)
	}

	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read pages dir: %w", err)
	}

	var pages []Page
	for _, e := range entries {
		file := e.Name()
		if e.IsDir() || strings.HasPrefix(file, ".") || !strings.HasSuffix(file, s.Ext) {
			continue
		}
		path := filepath.Join(s.Dir, file)
		id := strings.TrimSuffix(file, s.Ext)
		if _, skip := s.Exclude[id]; skip {
			logger.Debug("Skipping excluded page", "id", id)
			continue
		}

		page := Page{ID: id, File: file}

		content, err := os.ReadFile(path)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("could not extract name from %s: %v", path, err))
			logger.Warn("Could not extract page name", "path", path, "error", err)
		} else if name, ok := titles.Extract(content); ok {
			page.Name = name
			page.NameFromContent = true
		}

		if page.Name == "" {
			page.Name = FallbackName(id)
		}
		pages = append(pages, page)
	}

	logger.Info("Scanned pages", "dir", s.Dir, "pages", len(pages))
	return pages, warnings, nil
}

// IDs returns the page identifiers
func IDs(pages []Page) []string {
	ids := make([]string, len(pages))
	for i, p := range pages {
		ids[i] = p.ID
	}
	return ids
}
