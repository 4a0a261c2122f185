package utils

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/imjustablacknerd/docusaurus/ssg"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func locs(t *testing.T, content string) []string {
	t.Helper()
	var sm Sitemap
	require.NoError(t, xml.Unmarshal([]byte(content), &sm))
	out := make([]string, len(sm.Urls))
	for i, u := range sm.Urls {
		out[i] = u.Loc
	}
	return out
}

func TestGenerateSitemapContentTrailingSlash(t *testing.T) {
	routes := []string{"/", "/docs/intro", "/blog/", "/legacy.html"}

	tests := []struct {
		policy ssg.TrailingSlash
		want   []string
	}{
		{ssg.TrailingSlashUnspecified, []string{"https://example.com/", "https://example.com/docs/intro", "https://example.com/blog/", "https://example.com/legacy.html"}},
		{ssg.TrailingSlashAlways, []string{"https://example.com/", "https://example.com/docs/intro/", "https://example.com/blog/", "https://example.com/legacy.html"}},
		{ssg.TrailingSlashNever, []string{"https://example.com/", "https://example.com/docs/intro", "https://example.com/blog", "https://example.com/legacy.html"}},
	}
	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			content, err := GenerateSitemapContent(routes, SitemapOptions{SiteURL: "https://example.com/", TrailingSlash: tt.policy})
			require.NoError(t, err)
			assert.Equal(t, tt.want, locs(t, content))
		})
	}
}

func TestGenerateSitemapContentIgnoreAndDedup(t *testing.T) {
	content, err := GenerateSitemapContent(
		[]string{"/", "/docs/tags/go", "/docs/tags/go/page/2", "/docs/a", "/docs/a/"},
		SitemapOptions{
			SiteURL:        "https://example.com",
			IgnorePatterns: []string{"/docs/tags/**"},
			TrailingSlash:  ssg.TrailingSlashNever,
			ChangeFreq:     "weekly",
			Priority:       "0.5",
			LastMod:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/", "https://example.com/docs/a"}, locs(t, content))
	assert.Contains(t, content, "<changefreq>weekly</changefreq>")
	assert.Contains(t, content, "<lastmod>2024-03-01</lastmod>")
}

func TestGenerateSitemapContentRequiresSiteURL(t *testing.T) {
	_, err := GenerateSitemapContent([]string{"/"}, SitemapOptions{})
	assert.Error(t, err)
}

func TestGenerateSitemapWritesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path, err := GenerateSitemap(fs, "build", []string{"/"}, SitemapOptions{SiteURL: "https://example.com"})
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), xml.Header))
	assert.Contains(t, string(data), "<loc>https://example.com/</loc>")
}
