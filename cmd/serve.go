package cmd

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/imjustablacknerd/docusaurus/handlers"
	"github.com/imjustablacknerd/docusaurus/logfields"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the built site locally",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs := afero.NewOsFs()
		cfg, err := loadSite(cmd, fs)
		if err != nil {
			return err
		}

		router := handlers.NewStaticRouter(fs, cfg.OutDir, cfg.BaseURL)
		return listenAndServe(cmd.Context(), listenAddr(cmd), cfg.BaseURL, router)
	},
}

func listenAddr(cmd *cobra.Command) string {
	host, _ := cmd.Flags().GetString("host")
	port, _ := cmd.Flags().GetString("port")
	return net.JoinHostPort(host, port)
}

// listenAndServe runs handler until ctx is done, then shuts down gracefully.
func listenAndServe(ctx context.Context, addr, baseURL string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting server", logfields.Addr(addr), logfields.URL("http://"+addr+baseURL))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrapf(err, "serving on %s", addr)
	}
	return nil
}

func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("port", "p", "3000", "Port to run the server on")
	cmd.Flags().String("host", "localhost", "Host to bind the server to")
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServerFlags(serveCmd)
}
