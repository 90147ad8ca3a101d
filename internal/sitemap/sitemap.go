// Package sitemap reads and writes sitemaps.org urlset and sitemapindex documents.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pbaille/sitemapgen/internal/domain"
)

// Namespace is declared on every document root
const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

const indent = "  "

type urlSet struct {
	XMLName xml.Name  `xml:"urlset"`
	Xmlns   string    `xml:"xmlns,attr"`
	URLs    []urlElem `xml:"url"`
}

type urlElem struct {
	XMLName    xml.Name `xml:"url"`
	Loc        string   `xml:"loc"`
	LastMod    string   `xml:"lastmod"`
	ChangeFreq string   `xml:"changefreq"`
	Priority   string   `xml:"priority"`
}

type sitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []IndexEntry `xml:"sitemap"`
}

// IndexEntry is a <sitemap> child of a sitemap index
type IndexEntry struct {
	XMLName xml.Name `xml:"sitemap"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod"`
}

// Normalizer fills and canonicalizes record fields before writing
type Normalizer struct {
	ChangeFreq domain.ChangeFreq
	Priority   string
}

// Record returns r with a valid change frequency and a one-digit priority
func (n Normalizer) Record(r domain.URLRecord) domain.URLRecord {
	r.ChangeFreq = domain.ChangeFreq(strings.ToLower(strings.TrimSpace(string(r.ChangeFreq))))
	if !r.ChangeFreq.Valid() {
		r.ChangeFreq = n.ChangeFreq
	}
	r.Priority = n.priority(r.Priority)
	return r
}

func (n Normalizer) priority(s string) string {
	f, ok := parsePriority(s)
	if !ok {
		f, ok = parsePriority(n.Priority)
	}
	if !ok {
		f = 0.8
	}
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

func parsePriority(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// DefaultNormalizer uses the protocol-neutral defaults weekly / 0.8
var DefaultNormalizer = Normalizer{ChangeFreq: domain.Weekly, Priority: "0.8"}

// WriteURLSet writes a urlset document for records
func WriteURLSet(w io.Writer, records []domain.URLRecord) error {
	doc := urlSet{Xmlns: Namespace, URLs: make([]urlElem, 0, len(records))}
	for _, r := range records {
		doc.URLs = append(doc.URLs, urlElem{
			Loc:        r.Loc,
			LastMod:    r.LastMod,
			ChangeFreq: string(r.ChangeFreq),
			Priority:   r.Priority,
		})
	}
	return write(w, doc)
}

// WriteIndex writes a sitemapindex document
func WriteIndex(w io.Writer, entries []IndexEntry) error {
	return write(w, sitemapIndex{Xmlns: Namespace, Sitemaps: entries})
}

// MarshalURLSet returns the urlset document as bytes
func MarshalURLSet(records []domain.URLRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteURLSet(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndex returns the sitemapindex document as bytes
func MarshalIndex(entries []IndexEntry) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteIndex(&buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func write(w io.Writer, doc any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", indent)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode sitemap: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("flush sitemap: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write trailer: %w", err)
	}
	return nil
}
