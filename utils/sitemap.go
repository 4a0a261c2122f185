package utils

import (
	"encoding/xml"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/imjustablacknerd/docusaurus/ssg"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const sitemapXmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// SitemapOptions controls how routes become sitemap entries.
type SitemapOptions struct {
	// SiteURL is the scheme and host, e.g. https://example.com.
	SiteURL        string
	ChangeFreq     string
	Priority       string
	IgnorePatterns []string
	TrailingSlash  ssg.TrailingSlash

	// LastMod is omitted when zero.
	LastMod time.Time
}

// GenerateSitemap writes outDir/sitemap.xml.
func GenerateSitemap(fs afero.Fs, outDir string, routes []string, opts SitemapOptions) (string, error) {
	xmlOutput, err := GenerateSitemapContent(routes, opts)
	if err != nil {
		return "", err
	}

	sitemapPath := filepath.Join(outDir, "sitemap.xml")
	if err := fs.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.WithStack(err)
	}
	if err := afero.WriteFile(fs, sitemapPath, []byte(xml.Header+xmlOutput), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", sitemapPath)
	}
	return sitemapPath, nil
}

// GenerateSitemapContent renders the urlset for routes. Routes matching an
// ignore pattern and duplicates are skipped.
func GenerateSitemapContent(routes []string, opts SitemapOptions) (string, error) {
	if opts.SiteURL == "" {
		return "", errors.New("sitemap: site url is required")
	}

	ignores := make([]glob.Glob, 0, len(opts.IgnorePatterns))
	for _, pattern := range opts.IgnorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return "", errors.Wrapf(err, "sitemap: invalid ignore pattern %q", pattern)
		}
		ignores = append(ignores, g)
	}

	sitemap := Sitemap{
		Xmlns: sitemapXmlns,
	}

	var lastMod string
	if !opts.LastMod.IsZero() {
		lastMod = opts.LastMod.Format("2006-01-02")
	}

	baseURL := strings.TrimSuffix(opts.SiteURL, "/")
	seen := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		if ignored(ignores, route) {
			continue
		}
		loc := baseURL + applyTrailingSlash(route, opts.TrailingSlash)
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}

		sitemap.Urls = append(sitemap.Urls, Url{
			Loc:        loc,
			LastMod:    lastMod,
			ChangeFreq: opts.ChangeFreq,
			Priority:   opts.Priority,
		})
	}

	xmlOutput, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(xmlOutput), nil
}

func ignored(ignores []glob.Glob, route string) bool {
	for _, g := range ignores {
		if g.Match(route) {
			return true
		}
	}
	return false
}

// applyTrailingSlash makes a route URL agree with the file layout the
// generator produced for it.
func applyTrailingSlash(route string, trailingSlash ssg.TrailingSlash) string {
	if route == "" {
		return "/"
	}
	if route == "/" || strings.HasSuffix(strings.ToLower(route), ".html") || strings.HasSuffix(strings.ToLower(route), ".htm") {
		return route
	}
	switch trailingSlash {
	case ssg.TrailingSlashAlways:
		if !strings.HasSuffix(route, "/") {
			return route + "/"
		}
	case ssg.TrailingSlashNever:
		return strings.TrimSuffix(route, "/")
	}
	return route
}
