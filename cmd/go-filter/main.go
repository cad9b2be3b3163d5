package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/adfharrison1/go-filter/pkg/config"
	"github.com/adfharrison1/go-filter/pkg/server"
)

var (
	// version is set at build time
	version = "dev"

	// CLI flags
	configPath string
	port       string
	seedPath   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "go-filter",
		Short:   "In-memory multi-index record filtering server",
		Long:    "go-filter keeps records in memory, indexed along named indexes, and answers filtered, sorted queries over HTTP.",
		Version: version,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Example: `  go-filter serve                               # Start with defaults
  go-filter serve --config filter.yaml          # Register indexes from a config file
  go-filter serve --port 9090 --seed repos.json # Custom port, preload records`,
		RunE: runServe,
	}
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Server port (overrides config)")
	serveCmd.Flags().StringVarP(&seedPath, "seed", "s", "", "JSON or .goxf file of records to load at startup (overrides config)")

	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		log.Printf("INFO: Loaded config from %s", configPath)
	}
	if port != "" {
		cfg.Port = port
	}
	if seedPath != "" {
		cfg.Seed = seedPath
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		return err
	}

	if cfg.Seed != "" {
		if _, err := srv.Seed(cfg.Seed); err != nil {
			return err
		}
	} else {
		log.Printf("WARN: No seed file - starting with an empty record set")
	}

	httpServer := &http.Server{
		Addr:    srv.Addr(),
		Handler: srv.Router(),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting go-filter server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")

		// Give outstanding requests a deadline for completion
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Println("Server exited")
	return nil
}
