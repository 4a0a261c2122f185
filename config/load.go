package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/imjustablacknerd/docusaurus/ssg"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"
)

const (
	DefaultConfigFile        = "docusaurus.config.yaml"
	DefaultBaseURL           = "/"
	DefaultOutDir            = "build"
	DefaultGeneratedFilesDir = ".docusaurus"

	// ConcurrencyEnv overrides the render concurrency cap.
	ConcurrencyEnv = "DOCUSAURUS_SSR_CONCURRENCY"
)

var (
	ErrUnsupportedConfigFormat = errors.New("unsupported config file format")
	ErrInvalidConcurrency      = errors.New("invalid SSR concurrency")
)

// Load reads the site config at path, choosing the decoder from the file
// extension, and fills in defaults. Relative directories are resolved
// against the config file's directory.
func Load(fs afero.Fs, path string) (*SiteConfig, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	var cfg SiteConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return nil, errors.Wrapf(ErrUnsupportedConfigFormat, "%s (%q)", path, ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}

	cfg.applyDefaults(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	return &cfg, nil
}

func (c *SiteConfig) applyDefaults(siteDir string) {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.OutDir == "" {
		c.OutDir = DefaultOutDir
	}
	if c.GeneratedFilesDir == "" {
		c.GeneratedFilesDir = DefaultGeneratedFilesDir
	}

	c.OutDir = resolve(siteDir, c.OutDir)
	c.GeneratedFilesDir = resolve(siteDir, c.GeneratedFilesDir)
	if c.ServerBundle != "" {
		c.ServerBundle = resolve(siteDir, c.ServerBundle)
	}
	if c.ServerEntry != "" {
		c.ServerEntry = resolve(siteDir, c.ServerEntry)
	}
	for i := range c.Routes {
		if c.Routes[i].Source != "" {
			c.Routes[i].Source = resolve(siteDir, c.Routes[i].Source)
		}
	}
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// Validate rejects configs the build cannot run with.
func (c *SiteConfig) Validate() error {
	if !strings.HasPrefix(c.BaseURL, "/") || !strings.HasSuffix(c.BaseURL, "/") {
		return errors.Errorf("baseUrl %q must start and end with a slash", c.BaseURL)
	}
	if len(c.Routes) == 0 {
		return errors.New("no routes configured")
	}
	for i, r := range c.Routes {
		if r.Path == "" {
			return errors.Errorf("routes[%d]: path is required", i)
		}
	}
	return nil
}

// LoadDotEnv loads environment files, ignoring the ones that don't exist.
// Variables already set in the environment take precedence.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrapf(err, "loading %s", f)
		}
	}
	return nil
}

// SSRConcurrency returns the render concurrency cap, honoring
// DOCUSAURUS_SSR_CONCURRENCY when set.
func SSRConcurrency() (int, error) {
	raw, ok := os.LookupEnv(ConcurrencyEnv)
	if !ok || strings.TrimSpace(raw) == "" {
		return ssg.DefaultConcurrency, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, errors.Wrapf(ErrInvalidConcurrency, "%s=%q", ConcurrencyEnv, raw)
	}
	return n, nil
}
