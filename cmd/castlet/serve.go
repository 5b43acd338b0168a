package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/castlet/castlet/internal/adapters/httpapi"
	"github.com/castlet/castlet/internal/cli"
	"github.com/castlet/castlet/internal/logging"
	"github.com/castlet/castlet/internal/presentation/tui"
	"github.com/castlet/castlet/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control surface",
	Long: `Starts the castlet controller behind a JSON API over HTTP: register
applications, negotiate sessions, post messages, close sessions.
Prometheus metrics are exposed on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := cli.LoadConfig(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if addr != "" {
			cfg.HTTP.Addr = addr
		}
		logger := logging.New(cfg.SlogLevel())

		promReg := prometheus.NewRegistry()
		metrics := observability.New(promReg)

		ctrl, err := cli.NewController(cmd.Context(), cfg, logger, metrics)
		if err != nil {
			fmt.Printf("Error initializing castlet: %v\n", err)
			os.Exit(1)
		}

		api := httpapi.NewServer(ctrl,
			httpapi.WithLogger(logger),
			httpapi.WithGatherer(promReg),
		)

		srv := &http.Server{
			Addr:    cfg.HTTP.Addr,
			Handler: api.Handler(),
		}

		tui.PrintBanner()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting castlet server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				_ = srv.Close()
				fmt.Printf("Could not stop server gracefully: %v\n", err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
