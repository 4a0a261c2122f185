package cmd

import (
	"log/slog"

	"github.com/imjustablacknerd/docusaurus/config"
	"github.com/imjustablacknerd/docusaurus/handlers"
	"github.com/imjustablacknerd/docusaurus/javascript"
	"github.com/imjustablacknerd/docusaurus/logfields"
	"github.com/imjustablacknerd/docusaurus/ssg"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func loadSite(cmd *cobra.Command, fs afero.Fs) (*config.SiteConfig, error) {
	configPath, _ := cmd.Flags().GetString("config")
	return config.Load(fs, configPath)
}

func siteProps(cfg *config.SiteConfig) ssg.SiteProps {
	return ssg.SiteProps{
		BaseURL:           cfg.BaseURL,
		OutDir:            cfg.OutDir,
		GeneratedFilesDir: cfg.GeneratedFilesDir,
		HeadTags:          cfg.HeadTags,
		PreBodyTags:       cfg.PreBodyTags,
		PostBodyTags:      cfg.PostBodyTags,
		SSRTemplate:       cfg.SSRTemplate,
		NoIndex:           cfg.NoIndex,
		Version:           Version,
		RoutesPaths:       cfg.RoutePaths(),
	}
}

// newRenderer picks the page renderer for the site: a server bundle when one
// is configured (bundling serverEntry first if needed), the built-in
// template renderer otherwise.
func newRenderer(fs afero.Fs, cfg *config.SiteConfig, logger *slog.Logger, poolSize int) (ssg.Renderer, error) {
	bundlePath := cfg.ServerBundle
	if cfg.ServerEntry != "" {
		path, err := javascript.WriteServerBundle(fs, cfg.ServerEntry, cfg.GeneratedFilesDir)
		if err != nil {
			return nil, err
		}
		logger.Info("Server entry bundled", logfields.File(cfg.ServerEntry), logfields.Bundle(path))
		bundlePath = path
	}

	if bundlePath != "" {
		entry, err := javascript.LoadServerEntryRenderer(fs, bundlePath,
			javascript.WithConsole(logger),
			javascript.WithPoolSize(poolSize))
		if err != nil {
			return nil, err
		}
		logger.Debug("Server bundle loaded", logfields.Bundle(entry.Filename()))
		return entry.Renderer(), nil
	}

	renderer, err := handlers.NewTemplateRenderer(fs, cfg.Title, cfg.Routes)
	if err != nil {
		return nil, err
	}
	return renderer.Renderer(), nil
}
