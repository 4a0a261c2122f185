package config

// config/yaml.go

// Route is a page the site renders. Source and TemplateType are only read by
// the built-in template renderer; a server bundle resolves pages itself.
type Route struct {
	Path         string `yaml:"path" toml:"path"`
	Source       string `yaml:"source" toml:"source"`
	TemplateType string `yaml:"template_type" toml:"template_type"`
}

// Sitemap configures sitemap.xml generation.
type Sitemap struct {
	Enabled        *bool    `yaml:"enabled" toml:"enabled"`
	ChangeFreq     string   `yaml:"changefreq" toml:"changefreq"`
	Priority       string   `yaml:"priority" toml:"priority"`
	IgnorePatterns []string `yaml:"ignorePatterns" toml:"ignorePatterns"`
}

// SiteConfig is the site configuration file.
type SiteConfig struct {
	Title             string  `yaml:"title" toml:"title"`
	URL               string  `yaml:"url" toml:"url"`
	BaseURL           string  `yaml:"baseUrl" toml:"baseUrl"`
	OutDir            string  `yaml:"outDir" toml:"outDir"`
	GeneratedFilesDir string  `yaml:"generatedFilesDir" toml:"generatedFilesDir"`
	TrailingSlash     *bool   `yaml:"trailingSlash" toml:"trailingSlash"`
	NoIndex           bool    `yaml:"noIndex" toml:"noIndex"`
	SSRTemplate       string  `yaml:"ssrTemplate" toml:"ssrTemplate"`
	ServerBundle      string  `yaml:"serverBundle" toml:"serverBundle"`
	ServerEntry       string  `yaml:"serverEntry" toml:"serverEntry"`
	HeadTags          string  `yaml:"headTags" toml:"headTags"`
	PreBodyTags       string  `yaml:"preBodyTags" toml:"preBodyTags"`
	PostBodyTags      string  `yaml:"postBodyTags" toml:"postBodyTags"`
	Minify            bool    `yaml:"minify" toml:"minify"`
	Routes            []Route `yaml:"routes" toml:"routes"`
	Sitemap           Sitemap `yaml:"sitemap" toml:"sitemap"`
}

// RoutePaths lists the configured route paths in declaration order.
func (c *SiteConfig) RoutePaths() []string {
	paths := make([]string, len(c.Routes))
	for i, r := range c.Routes {
		paths[i] = r.Path
	}
	return paths
}

// SitemapEnabled reports whether sitemap.xml should be written. It needs a
// site URL and is skipped for noIndex sites unless explicitly enabled.
func (c *SiteConfig) SitemapEnabled() bool {
	if c.URL == "" {
		return false
	}
	if c.Sitemap.Enabled != nil {
		return *c.Sitemap.Enabled
	}
	return !c.NoIndex
}
