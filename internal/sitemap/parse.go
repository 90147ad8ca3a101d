package sitemap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pbaille/sitemapgen/internal/domain"
	"golang.org/x/net/html/charset"
)

// ErrNotURLSet is returned when the document root is not <urlset>
var ErrNotURLSet = errors.New("document root is not urlset")

// Document is a parsed urlset
type Document struct {
	// Namespace is read off the root element, whatever it declares.
	Namespace string
	URLs      []domain.URLRecord
	// Skipped counts <url> elements without a <loc>.
	Skipped int
}

// Defaults fill optional <url> children that are absent or empty
type Defaults struct {
	LastMod    string
	ChangeFreq domain.ChangeFreq
	Priority   string
}

type parsedURL struct {
	Loc        *string `xml:"loc"`
	LastMod    *string `xml:"lastmod"`
	ChangeFreq *string `xml:"changefreq"`
	Priority   *string `xml:"priority"`
}

type parsedURLSet struct {
	XMLName xml.Name
	URLs    []parsedURL `xml:"url"`
}

// Parse decodes a urlset document. Element names match in any namespace.
func Parse(r io.Reader, d Defaults) (*Document, error) {
	var raw parsedURLSet
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode sitemap: %w", err)
	}
	if raw.XMLName.Local != "urlset" {
		return nil, fmt.Errorf("%w: <%s>", ErrNotURLSet, raw.XMLName.Local)
	}

	doc := &Document{Namespace: raw.XMLName.Space}
	for _, u := range raw.URLs {
		loc := text(u.Loc)
		if loc == "" {
			doc.Skipped++
			continue
		}
		doc.URLs = append(doc.URLs, domain.URLRecord{
			Loc:        loc,
			LastMod:    orDefault(text(u.LastMod), d.LastMod),
			ChangeFreq: domain.ChangeFreq(orDefault(text(u.ChangeFreq), string(d.ChangeFreq))),
			Priority:   orDefault(text(u.Priority), d.Priority),
		})
	}
	return doc, nil
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
