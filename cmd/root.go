package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/imjustablacknerd/docusaurus/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Version is reported to server bundles as DOCUSAURUS_VERSION.
var Version = "3.5.2"

var rootCmd = &cobra.Command{
	Use:   "docusaurus",
	Short: "Docusaurus - Build and preview documentation sites",
	Long: `Docusaurus renders every route of a documentation site into static HTML
files, either through a compiled server bundle or through the built-in
markdown and plush page templates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(); err != nil {
			return err
		}

		levelName, _ := cmd.Flags().GetString("log-level")
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelName)); err != nil {
			return errors.Wrapf(err, "invalid --log-level %q", levelName)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", config.DefaultConfigFile, "Site config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
}
