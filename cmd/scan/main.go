// Command scan finds the nearest USDA SCAN stations to a coordinate,
// analyzes their multi-year sensor history, and writes the station and
// overview tables as CSV.
//
// Usage:
//
//	scan query --lat 45.6790 --lon -111.0426 --sites 5 --out-dir .
//	scan serve
//
// Configuration comes from the environment (optionally via a .env file);
// see internal/config for the recognized variables.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/soilsense/scan-analyzer/internal/adapter/awdb"
	httpadapter "github.com/soilsense/scan-analyzer/internal/adapter/http"
	kafkaadapter "github.com/soilsense/scan-analyzer/internal/adapter/kafka"
	"github.com/soilsense/scan-analyzer/internal/catalog"
	"github.com/soilsense/scan-analyzer/internal/config"
	"github.com/soilsense/scan-analyzer/internal/domain"
	"github.com/soilsense/scan-analyzer/internal/export"
	"github.com/soilsense/scan-analyzer/internal/fetch"
	"github.com/soilsense/scan-analyzer/internal/observability"
	"github.com/soilsense/scan-analyzer/internal/pipeline"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scan",
		Short:         "Locate and analyze nearby USDA SCAN monitoring stations",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(queryCmd())
	root.AddCommand(serveCmd())
	return root
}

func queryCmd() *cobra.Command {
	var (
		lat    float64
		lon    float64
		sites  int
		years  int
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run the nearest-station analysis once and export the results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Missing .env is fine; the environment may be set directly.
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			// Flag overrides get the same bounds as their env counterparts.
			if cmd.Flags().Changed("sites") {
				if sites < 1 || sites > 10 {
					return &domain.ValidationError{Field: "sites", Reason: fmt.Sprintf("%d outside [1, 10]", sites)}
				}
				cfg.NearestK = sites
			}
			if cmd.Flags().Changed("years") {
				if years < 1 || years > 30 {
					return &domain.ValidationError{Field: "years", Reason: fmt.Sprintf("%d outside [1, 30]", years)}
				}
				cfg.HistoryYears = years
			}

			origin, err := domain.NewCoordinate(lat, lon)
			if err != nil {
				return err
			}

			return runQuery(cmd.Context(), cfg, origin, outDir)
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "query latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "query longitude in decimal degrees")
	cmd.Flags().IntVar(&sites, "sites", 5, "number of nearest stations to analyze (1-10)")
	cmd.Flags().IntVar(&years, "years", 5, "years of daily history to fetch")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for the exported CSV files")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the health and metrics listener as a long-lived process",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := awdb.NewClient(cfg.AWDBBaseURL, cfg.AWDBTimeout, logger, metrics)
	cat := catalog.New(client, logger, metrics)

	// Warm the catalog so /readyz flips as soon as the upstream answers;
	// keep retrying until it does or the process is told to stop.
	go warmCatalog(ctx, cat, logger)

	srv := httpadapter.NewServer(cfg.HTTPAddr, cat, logger)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func warmCatalog(ctx context.Context, cat *catalog.Catalog, logger *slog.Logger) {
	for {
		_, err := cat.ListStations(ctx)
		if err == nil {
			return
		}
		logger.Warn("catalog warm-up failed, retrying", "error", err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(30 * time.Second):
		}
	}
}

func runQuery(ctx context.Context, cfg *config.Config, origin domain.Coordinate, outDir string) error {
	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := awdb.NewClient(cfg.AWDBBaseURL, cfg.AWDBTimeout, logger, metrics)
	cat := catalog.New(client, logger, metrics)
	fetcher := fetch.New(client, cfg.CacheSize, logger, metrics)
	runner := pipeline.New(cat, fetcher, logger, metrics, cfg.QueryWorkers)

	window, err := domain.WindowEndingToday(cfg.HistoryYears)
	if err != nil {
		return err
	}
	logger.Info("running query",
		"lat", origin.Latitude,
		"lon", origin.Longitude,
		"sites", cfg.NearestK,
		"window_start", window.StartDate(),
		"window_end", window.EndDate(),
	)

	report, err := runner.RunQuery(ctx, origin, cfg.NearestK, window)
	if err != nil {
		return err
	}
	if len(report.Stations) == 0 {
		fmt.Println("No SCAN stations found.")
		return nil
	}

	printOverview(report)

	if err := writeExports(report, outDir); err != nil {
		return err
	}
	logger.Info("exports written", "dir", outDir)

	if cfg.KafkaEnabled {
		publisher := kafkaadapter.NewPublisher(cfg, logger, metrics)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Error("kafka publisher close error", "error", err)
			}
		}()
		if err := publisher.PublishSummaries(ctx, report); err != nil {
			// Publishing is best-effort; the CSV exports already succeeded.
			logger.Error("kafka publish failed", "error", err)
		}
	}

	return nil
}

func printOverview(report *pipeline.Report) {
	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SITE\tDIST (mi)\tMOIST MIN 20in (%)\tMOIST MIN 40in (%)\tSOIL TMAX 20in (C)\tSOIL TMAX 40in (C)\tAIR TMAX (C)")
	for _, rs := range report.Stations {
		fmt.Fprintf(w, "%s\t%.1f\t%s\t%s\t%s\t%s\t%s\n",
			rs.Station.Name,
			rs.DistanceMiles,
			cell(report, rs.Station.ID, domain.SoilMoisture20),
			cell(report, rs.Station.ID, domain.SoilMoisture40),
			cell(report, rs.Station.ID, domain.SoilTemp20),
			cell(report, rs.Station.ID, domain.SoilTemp40),
			cell(report, rs.Station.ID, domain.AmbientTemp),
		)
	}
	w.Flush()
}

func cell(report *pipeline.Report, stationID string, kind domain.SensorKind) string {
	res, ok := report.Result(stationID, kind)
	if !ok || res.Err != nil || res.Summary == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", res.Summary.Value)
}

func writeExports(report *pipeline.Report, outDir string) error {
	if err := writeCSVFile(filepath.Join(outDir, "scan_sites.csv"), export.StationHeader, export.StationRows(report.Stations)); err != nil {
		return err
	}
	return writeCSVFile(filepath.Join(outDir, "scan_overview.csv"), export.OverviewHeader, export.OverviewRows(report))
}

func writeCSVFile(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := export.WriteCSV(f, header, rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
