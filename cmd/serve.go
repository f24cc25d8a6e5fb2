package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-og/internal/catalog"
	"github.com/kozaktomas/photo-og/internal/constants"
	"github.com/kozaktomas/photo-og/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the preview server",
	Long: `Start a local web server that renders the preview cards of the manifest
on request. Edits to the manifest or the site metadata file are picked up
automatically unless --watch=false is given.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", constants.DefaultServePort, "Port to listen on")
	serveCmd.Flags().String("host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().Bool("watch", true, "Reload when the manifest or site metadata file changes")
}

// resolveServeHostPort resolves port and host from flags and environment variables.
func resolveServeHostPort(cmd *cobra.Command) (int, string) {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("WEB_PORT"); envPort != "" && !cmd.Flags().Changed("port") {
		if n, err := strconv.Atoi(envPort); err == nil {
			port = n
		}
	}
	if envHost := os.Getenv("WEB_HOST"); envHost != "" && !cmd.Flags().Changed("host") {
		host = envHost
	}
	return port, host
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	store, err := catalog.OpenStore(cfg.Manifest)
	if err != nil {
		return err
	}
	publisher := newPublisher(ctx, cfg, nil)
	if !publisher.Enabled() {
		fmt.Printf("Publishing disabled (%v), serving local previews only\n", publisher.Err())
	}

	port, host := resolveServeHostPort(cmd)
	server := web.NewServer(cfg, publisher, store, port, host)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if mustGetBool(cmd, "watch") {
		site := cfg.OG.Resolve(cfg.Storage).SiteConfigPath
		watcher, err := web.NewWatcher([]string{cfg.Manifest, site}, constants.WatchDebounceMillis*time.Millisecond, server.Reload)
		if err != nil {
			fmt.Printf("Warning: live reload unavailable: %v\n", err)
		} else {
			defer watcher.Close()
			go watcher.Run(ctx)
		}
	}

	go func() {
		<-ctx.Done()
		fmt.Println("\nShutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Error during shutdown: %v\n", err)
		}
	}()

	fmt.Printf("Serving %d items from %s on http://%s:%d\n", len(store.All()), store.Path(), host, port)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
