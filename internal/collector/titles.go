package collector

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// TitleExtractor finds a display name in page content
type TitleExtractor interface {
	Extract(content []byte) (string, bool)
}

// TitleFunc adapts a function to TitleExtractor
type TitleFunc func(content []byte) (string, bool)

func (f TitleFunc) Extract(content []byte) (string, bool) { return f(content) }

// Titles is an ordered extractor chain; the first success wins
type Titles []TitleExtractor

// Extract runs the chain
func (t Titles) Extract(content []byte) (string, bool) {
	for _, ex := range t {
		if name, ok := ex.Extract(content); ok {
			return name, true
		}
	}
	return "", false
}

// RegexTitle returns the first capture group of a case-insensitive pattern
func RegexTitle(pattern string) TitleExtractor {
	re := regexp.MustCompile("(?i)" + pattern)
	return TitleFunc(func(content []byte) (string, bool) {
		m := re.FindSubmatch(content)
		if m == nil {
			return "", false
		}
		name := strings.TrimSpace(string(m[1]))
		return name, name != ""
	})
}

// HTMLTitle returns the text of the first <title> element
var HTMLTitle TitleExtractor = TitleFunc(func(content []byte) (string, bool) {
	z := html.NewTokenizer(bytes.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return "", false
		case html.StartTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) != atom.Title {
				continue
			}
			if z.Next() != html.TextToken {
				continue
			}
			title := strings.TrimSpace(string(z.Text()))
			if title != "" {
				return title, true
			}
		}
	}
})

// FrontmatterTitle reads `title` from YAML frontmatter
var FrontmatterTitle TitleExtractor = TitleFunc(func(content []byte) (string, bool) {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return "", false
	}
	rest := content[len("---\n"):]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return "", false
	}

	var fm struct {
		Title string `yaml:"title"`
	}
	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return "", false
	}
	fm.Title = strings.TrimSpace(fm.Title)
	return fm.Title, fm.Title != ""
})

// MarkdownHeading returns the first level-1 heading of a markdown body
var MarkdownHeading TitleExtractor = TitleFunc(func(content []byte) (string, bool) {
	root := goldmark.New().Parser().Parse(text.NewReader(content))

	var title string
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok || h.Level != 1 {
			return ast.WalkContinue, nil
		}
		title = strings.TrimSpace(string(headingText(h, content)))
		return ast.WalkStop, nil
	})
	return title, title != ""
})

func headingText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
			continue
		}
		buf.Write(headingText(c, source))
	}
	return buf.Bytes()
}

// DefaultTitles is the chain used for component pages
func DefaultTitles() Titles {
	return Titles{
		RegexTitle(`title="([^"]+)"`),
		HTMLTitle,
		RegexTitle(`title:\s*['"]([^'"]+)['"]`),
		RegexTitle(`name:\s*['"]([^'"]+)['"]`),
	}
}

// TitlesFor returns the chain for a page extension
func TitlesFor(ext string) Titles {
	if strings.EqualFold(ext, ".md") || strings.EqualFold(ext, ".markdown") {
		return append(Titles{FrontmatterTitle, MarkdownHeading}, DefaultTitles()...)
	}
	return DefaultTitles()
}

// FallbackName turns an identifier like "loan-calculator" into "Loan Calculator"
func FallbackName(id string) string {
	name := strings.NewReplacer("-", " ", "_", " ").Replace(id)
	return cases.Title(language.English).String(name)
}
