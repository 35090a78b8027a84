package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"polypost/internal/preview"

	"github.com/spf13/cobra"
)

// previewCmd serves the site directory without touching the index, for
// checking the site as it stands.
var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Serve the site directory for a local look",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		srv, err := preview.Listen(cfg.Preview.Addr, cfg.Site.Dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "=== Serving %s at %s ===\n", cfg.Site.Dir, srv.URL())
		fmt.Fprintln(out, "(Ctrl+C to end service)")
		return runUntilInterrupt(srv)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
}

// runUntilInterrupt blocks serving srv until SIGINT or SIGTERM, then
// shuts the server down cleanly.
func runUntilInterrupt(srv *preview.Server) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve()
	}()

	select {
	case err := <-done:
		return err
	case <-sigc:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
