package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/j3859/Africa-lens-bot/internal/app"
	"github.com/j3859/Africa-lens-bot/internal/logger"
	"github.com/j3859/Africa-lens-bot/internal/metrics"
)

func main() {
	logger.Init()

	root := &cobra.Command{
		Use:          "africalens",
		Short:        "Automated African news page: scrape, select, post, report",
		SilenceUsage: true,
	}

	root.AddCommand(
		statusCmd(),
		scrapeCmd(),
		postCmd(),
		cleanupCmd(),
		reportCmd(),
		analyticsCmd(),
		runCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// withApp builds the app, runs fn, and tears everything down.
func withApp(fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show store contents and runtime counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return a.Status()
			})
		},
	}
}

func scrapeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape cycle over all active sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return a.Scrape(ctx)
			})
		},
	}
}

func postCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post",
		Short: "Run one posting cycle (at most one post)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return a.Post(ctx)
			})
		},
	}
}

func cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup [hours]",
		Short: "Delete unposted content older than the window (default 48h)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours := 48
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("invalid hours %q", args[0])
				}
				hours = n
			}
			return withApp(func(ctx context.Context, a *app.App) error {
				return a.Cleanup(time.Duration(hours) * time.Hour)
			})
		},
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Send the daily report to the admin chat",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return a.Report()
			})
		},
	}
}

func analyticsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Refresh engagement metrics and print the performance summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(ctx context.Context, a *app.App) error {
				return a.Analytics(ctx)
			})
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Continuous mode: scheduled scraping, posting and reporting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
				go startMonitoringServer()
			}
			return withApp(func(ctx context.Context, a *app.App) error {
				err := a.Run(ctx)
				if err == context.Canceled {
					return nil
				}
				return err
			})
		},
	}
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	log.Printf("Starting monitoring server on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Printf("Monitoring server error: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	code := http.StatusOK
	if !stats["is_healthy"].(bool) {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(metrics.Global.GetStats())
}
