package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/mux"
	"github.com/imjustablacknerd/docusaurus/config"
	"github.com/imjustablacknerd/docusaurus/handlers"
	"github.com/imjustablacknerd/docusaurus/logfields"
	"github.com/imjustablacknerd/docusaurus/metrics"
	"github.com/imjustablacknerd/docusaurus/ssg"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Render pages on demand for local development",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := afero.NewOsFs()
		cfg, err := loadSite(cmd, fs)
		if err != nil {
			return err
		}

		concurrency, err := config.SSRConcurrency()
		if err != nil {
			return err
		}

		logger := slog.Default()
		renderer, err := newRenderer(fs, cfg, logger, concurrency)
		if err != nil {
			return err
		}

		recorder := metrics.NewPrometheusRecorder(nil)
		recorder.SetConcurrency(concurrency)
		params := ssg.CreateServerEntryParams(siteProps(cfg), nil, nil)

		router := mux.NewRouter()
		router.Handle("/metrics", recorder.HTTPHandler())
		router.PathPrefix("/").Handler(handlers.NewSSRHandler(instrumentRenderer(renderer, recorder), params, logger))

		logger.Info("Rendering on demand", logfields.Pages(len(params.RoutesLocation)))
		return listenAndServe(cmd.Context(), listenAddr(cmd), cfg.BaseURL, router)
	},
}

// instrumentRenderer records the duration and result of every render.
func instrumentRenderer(renderer ssg.Renderer, recorder metrics.Recorder) ssg.Renderer {
	return func(ctx context.Context, pathname string, params *ssg.Params) (string, error) {
		start := time.Now()
		html, err := renderer(ctx, pathname, params)

		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultFailed
		}
		recorder.ObservePageDuration(time.Since(start), result)
		recorder.IncPageResult(result)
		return html, err
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
	addServerFlags(startCmd)
}
