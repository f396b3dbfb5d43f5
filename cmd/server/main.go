/*
main.go - Application entry point

PURPOSE:
  Starts the period-insert engine as an HTTP service. Wires the SQLite
  store into every storage-facing port, builds the validation pipeline,
  and serves the API with graceful shutdown.

FLAGS (serve command):
  --port    HTTP server port (default: 8080)
  --db      SQLite database path (default: periods.db, ":memory:" works)
  --config  Optional YAML configuration file

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection

SEE ALSO:
  - api/server.go: router configuration
  - store/sqlite/sqlite.go: storage implementation
*/
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

	"github.com/warp/period-engine/api"
	"github.com/warp/period-engine/period"
	"github.com/warp/period-engine/store/sqlite"
	"github.com/warp/period-engine/timesheet"
)

var rootCmd = &cobra.Command{
	Use:   "period-engine",
	Short: "Batch time-entry insertion over recurring daily patterns",
}

var (
	port       int
	dbPath     string
	configPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 8080, "HTTP server port")
	serveCmd.Flags().StringVar(&dbPath, "db", "periods.db", "SQLite database path")
	serveCmd.Flags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve() error {
	cfg := timesheet.DefaultConfig()
	if configPath != "" {
		loaded, err := timesheet.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	store, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	rates := timesheet.DefaultRateCalculator{}
	formatter := timesheet.PlainFormatter{}

	service := &period.Service{
		Config: cfg,
		Validator: &period.Validator{
			Config: cfg,
			Expander: &period.Expander{
				Config:   cfg,
				Calendar: timesheet.WeekdayCalendar{},
				Absences: store,
			},
			Overlaps:    store,
			Budgets:     store,
			Rates:       rates,
			Permissions: timesheet.AllowAllPermissions{},
			Money:       formatter,
			Durations:   formatter,
		},
		Committer: &period.Committer{
			Sink:   store,
			Rates:  rates,
			Policy: cfg.CommitPolicy,
		},
	}

	handler := api.NewHandler(service, timesheet.NewMemoryCatalog())
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
