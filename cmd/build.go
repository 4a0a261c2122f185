package cmd

import (
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/imjustablacknerd/docusaurus/config"
	"github.com/imjustablacknerd/docusaurus/logfields"
	"github.com/imjustablacknerd/docusaurus/metrics"
	"github.com/imjustablacknerd/docusaurus/ssg"
	"github.com/imjustablacknerd/docusaurus/utils"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a static version of the site",
	RunE:  runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	start := time.Now()
	logger := slog.Default().With(logfields.RunID(uuid.NewString()))
	fs := afero.NewOsFs()

	cfg, err := loadSite(cmd, fs)
	if err != nil {
		return err
	}

	trailingSlash := ssg.TrailingSlashFromBool(cfg.TrailingSlash)
	if flag, _ := cmd.Flags().GetString("trailing-slash"); flag != "" {
		if trailingSlash, err = ssg.ParseTrailingSlash(flag); err != nil {
			return err
		}
	}

	concurrency, err := config.SSRConcurrency()
	if err != nil {
		return err
	}

	renderer, err := newRenderer(fs, cfg, logger, concurrency)
	if err != nil {
		return err
	}

	minify, _ := cmd.Flags().GetBool("minify")
	collector := ssg.NewCollector()
	params := ssg.CreateServerEntryParams(siteProps(cfg), collector.OnLinksCollected, collector.OnHeadTagsCollected)
	recorder := metrics.NewPrometheusRecorder(nil)

	generator := ssg.NewGenerator(fs,
		ssg.WithConcurrency(concurrency),
		ssg.WithLogger(logger),
		ssg.WithRecorder(recorder),
		ssg.WithMinify(cfg.Minify || minify))

	routes := cfg.RoutePaths()
	genErr := generator.Generate(cmd.Context(), renderer, routes, params, trailingSlash)

	if textfile, _ := cmd.Flags().GetString("metrics-textfile"); textfile != "" {
		if err := recorder.WriteTextfile(textfile); err != nil {
			logger.Warn("Writing metrics textfile failed", logfields.File(textfile), logfields.Error(err))
		}
	}
	if genErr != nil {
		return genErr
	}

	if cfg.SitemapEnabled() {
		sitemapPath, err := utils.GenerateSitemap(fs, cfg.OutDir, routes, utils.SitemapOptions{
			SiteURL:        cfg.URL,
			ChangeFreq:     cfg.Sitemap.ChangeFreq,
			Priority:       cfg.Sitemap.Priority,
			IgnorePatterns: cfg.Sitemap.IgnorePatterns,
			TrailingSlash:  trailingSlash,
		})
		if err != nil {
			return err
		}
		logger.Info("Sitemap generated", logfields.File(sitemapPath))
	}

	reportBrokenLinks(logger, collector, routes)

	logger.Info("Static site generated",
		slog.String("out_dir", cfg.OutDir),
		logfields.Pages(len(routes)),
		logfields.Since(start))
	return nil
}

func reportBrokenLinks(logger *slog.Logger, collector *ssg.Collector, routes []string) {
	broken := collector.BrokenLinks(routes)
	pages := make([]string, 0, len(broken))
	for page := range broken {
		pages = append(pages, page)
	}
	sort.Strings(pages)

	for _, page := range pages {
		for _, link := range broken[page] {
			logger.Warn("Broken link", logfields.Pathname(page), logfields.Link(link))
		}
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().String("trailing-slash", "", "Override the trailing slash policy (always, never, unspecified)")
	buildCmd.Flags().Bool("minify", false, "Minify generated HTML")
	buildCmd.Flags().String("metrics-textfile", "", "Write build metrics to this file in Prometheus text format")
}
