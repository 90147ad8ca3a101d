package classifier

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/pbaille/sitemapgen/internal/domain"
)

var (
	ErrEmptyTable        = errors.New("category table is empty")
	ErrDuplicateCategory = errors.New("duplicate category")
	ErrMissingCatchAll   = errors.New("catch-all category not in table")
)

// Category is one row of the category table
type Category struct {
	Name     domain.Category
	Patterns []string
}

// Table is the ordered category table. Order decides ties.
type Table []Category

// Match is the outcome of a classification with the pattern that decided it.
// Pattern is empty when nothing matched and the catch-all was used as default.
type Match struct {
	Category domain.Category `json:"category"`
	Pattern  string          `json:"pattern,omitempty"`
}

type pattern struct {
	src string
	re  *regexp.Regexp
}

type compiled struct {
	name     domain.Category
	patterns []pattern
}

// Classifier maps identifiers and URL paths to categories
type Classifier struct {
	categories []compiled
	catchAll   compiled
	baseURL    string
}

// New compiles a table into a Classifier. catchAll must name a row of the table.
func New(table Table, catchAll domain.Category) (*Classifier, error) {
	if len(table) == 0 {
		return nil, ErrEmptyTable
	}

	c := &Classifier{}
	seen := make(map[domain.Category]bool, len(table))
	foundCatchAll := false

	for _, cat := range table {
		if seen[cat.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCategory, cat.Name)
		}
		seen[cat.Name] = true

		cc := compiled{name: cat.Name}
		for _, p := range cat.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("compile pattern %q for %s: %w", p, cat.Name, err)
			}
			cc.patterns = append(cc.patterns, pattern{src: p, re: re})
		}

		if cat.Name == catchAll {
			c.catchAll = cc
			foundCatchAll = true
			continue
		}
		c.categories = append(c.categories, cc)
	}

	if !foundCatchAll {
		return nil, fmt.Errorf("%w: %s", ErrMissingCatchAll, catchAll)
	}

	return c, nil
}

// WithBaseURL sets the prefix stripped from URLs that fail to parse
func (c *Classifier) WithBaseURL(baseURL string) *Classifier {
	c.baseURL = baseURL
	return c
}

// CatchAll returns the fallback label
func (c *Classifier) CatchAll() domain.Category {
	return c.catchAll.name
}

// Categories returns the labels in table order, catch-all first
func (c *Classifier) Categories() []domain.Category {
	out := make([]domain.Category, 0, len(c.categories)+1)
	out = append(out, c.catchAll.name)
	for _, cc := range c.categories {
		out = append(out, cc.name)
	}
	return out
}

// Classify returns the category for an identifier or path
func (c *Classifier) Classify(s string) domain.Category {
	return c.Explain(s).Category
}

// Explain classifies s and reports which pattern decided the result.
// The catch-all is always evaluated last, whatever its position in the table.
func (c *Classifier) Explain(s string) Match {
	s = strings.ToLower(s)

	for _, cc := range c.categories {
		for _, p := range cc.patterns {
			if p.re.MatchString(s) {
				return Match{Category: cc.name, Pattern: p.src}
			}
		}
	}

	for _, p := range c.catchAll.patterns {
		if p.re.MatchString(s) {
			return Match{Category: c.catchAll.name, Pattern: p.src}
		}
	}

	return Match{Category: c.catchAll.name}
}

// ClassifyURL classifies the path component of an absolute URL
func (c *Classifier) ClassifyURL(rawURL string) domain.Category {
	return c.Explain(c.URLPath(rawURL)).Category
}

// URLPath returns the lowercase path of rawURL without a trailing slash
func (c *Classifier) URLPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		p := rawURL
		if c.baseURL != "" {
			p = strings.Replace(p, c.baseURL, "", 1)
		}
		return strings.ToLower(p)
	}
	return strings.TrimRight(strings.ToLower(u.Path), "/")
}
