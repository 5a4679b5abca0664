package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"

	"fitcentive-growth-report/internal/chart"
	"fitcentive-growth-report/internal/config"
	"fitcentive-growth-report/internal/dataset"
	"fitcentive-growth-report/internal/export"
	"fitcentive-growth-report/internal/log"
	"fitcentive-growth-report/internal/report"
	"fitcentive-growth-report/internal/store"
)

const allReports = "all"

type outputs struct {
	Dir      string
	JSON     string
	CSV      string
	XLSX     string
	NoCharts bool
}

func main() {
	reportName := flag.String("report", allReports, "Report to generate ("+strings.Join(report.Names(), ", ")+", all)")
	outDir := flag.String("out", "", "Directory for chart PNGs; default $FITCENTIVE_OUTPUT_DIR or .")
	dataPath := flag.String("data", "", "Optional YAML file overriding the embedded datasets")
	jsonOut := flag.String("json", "", "Optional JSON output path")
	csvOut := flag.String("csv", "", "Optional CSV output path (one metric per row)")
	xlsxOut := flag.String("xlsx", "", "Optional XLSX workbook path")
	noCharts := flag.Bool("no-charts", false, "Skip PNG chart rendering")
	asOf := flag.String("as-of", "", "As-of date for the revenue trend (YYYY-MM-DD); default last date in data")
	dbEnabled := flag.Bool("db", false, "Store reports in Postgres (requires FITCENTIVE_DB_URL or DATABASE_URL)")
	dbSchema := flag.String("db-schema", store.DefaultSchema, "Postgres schema for report tables")
	dbTag := flag.String("db-tag", "", "Optional label for this report run")
	initDB := flag.Bool("init-db", false, "Initialize database schema and seed data if empty")
	flag.Parse()

	cfg := config.Load()
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(err)
	}
	logger := log.New(cfg.LoggerConfig())
	log.SetDefault(logger)

	names, err := parseReportNames(*reportName)
	if err != nil {
		exitWithError(err)
	}

	opts := report.Options{TrendSeed: cfg.TrendSeed}
	if *asOf != "" {
		day, err := dataset.ParseDay(*asOf)
		if err != nil {
			exitWithError(fmt.Errorf("invalid --as-of date: %w", err))
		}
		opts.AsOf = dateOnly(day)
	}

	snap, err := loadSnapshot(*dataPath)
	if err != nil {
		exitWithError(err)
	}

	out := outputs{
		Dir:      cfg.OutputDir,
		JSON:     *jsonOut,
		CSV:      *csvOut,
		XLSX:     *xlsxOut,
		NoCharts: *noCharts,
	}
	if !out.NoCharts {
		if err := chart.PrepareDir(out.Dir); err != nil {
			exitWithError(err)
		}
	}

	reports, err := generate(os.Stdout, names, snap, opts, logger)
	if err != nil {
		exitWithError(err)
	}
	if err := writeOutputs(os.Stdout, reports, out, chart.Renderer{DPI: cfg.ChartDPI, Logger: logger.WithComponent("chart")}); err != nil {
		exitWithError(err)
	}

	if *dbEnabled || *initDB {
		dbCfg := store.Config{
			URL:    cfg.DatabaseURL,
			Schema: *dbSchema,
			Tag:    *dbTag,
		}
		if err := persist(os.Stdout, dbCfg, reports, *dbEnabled, *initDB, logger); err != nil {
			exitWithError(err)
		}
	}
}

// parseReportNames expands a comma separated -report value, keeping the
// registry order for "all".
func parseReportNames(value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, allReports) {
		return report.Names(), nil
	}
	known := report.Names()
	var names []string
	for _, part := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if name == allReports {
			return known, nil
		}
		if !lo.Contains(known, name) {
			return nil, fmt.Errorf("unknown report %q (expected one of %s, all)", name, strings.Join(known, ", "))
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, errors.New("--report is empty")
	}
	return lo.Uniq(names), nil
}

func loadSnapshot(path string) (dataset.Snapshot, error) {
	if path == "" {
		return dataset.Default(), nil
	}
	return dataset.LoadFile(path)
}

// generate builds and prints each named report.
func generate(w io.Writer, names []string, snap dataset.Snapshot, opts report.Options, logger *log.Logger) ([]report.Report, error) {
	reports := make([]report.Report, 0, len(names))
	for i, name := range names {
		r, err := report.Build(name, snap, opts)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		report.Print(w, r)
		for _, c := range r.Mismatches() {
			logger.Warn("published figure disagrees with data",
				"report", r.Name, "claim", c.Label, "stated", c.Stated, "actual", c.Actual)
		}
		logger.Debug("report built", "report", r.Name, "metrics", len(r.Metrics), "claims", len(r.Claims))
		reports = append(reports, r)
	}
	return reports, nil
}

func writeOutputs(w io.Writer, reports []report.Report, out outputs, renderer chart.Renderer) error {
	if !out.NoCharts {
		var figs []chart.Figure
		for _, r := range reports {
			figs = append(figs, r.Figures...)
		}
		paths, err := renderer.RenderAll(figs, out.Dir)
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		for _, path := range paths {
			fmt.Fprintf(w, "Chart saved to %s\n", path)
		}
	}

	if out.JSON != "" {
		if err := export.WriteJSON(reports, out.JSON); err != nil {
			return err
		}
		fmt.Fprintf(w, "JSON report saved to %s\n", out.JSON)
	}
	if out.CSV != "" {
		if err := export.WriteCSV(reports, out.CSV); err != nil {
			return err
		}
		fmt.Fprintf(w, "Metrics CSV saved to %s\n", out.CSV)
	}
	if out.XLSX != "" {
		if err := export.WriteXLSX(reports, out.XLSX); err != nil {
			return err
		}
		fmt.Fprintf(w, "Workbook saved to %s\n", out.XLSX)
	}
	return nil
}

// persist saves or seeds report runs and reports the run ids to w.
func persist(w io.Writer, cfg store.Config, reports []report.Report, save, seed bool, logger *log.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), store.Timeout)
	defer cancel()

	db, err := store.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	seeded := false
	if seed {
		ids, err := db.Seed(ctx, reports)
		if err != nil {
			return err
		}
		if len(ids) > 0 {
			seeded = true
			fmt.Fprintf(w, "\nSeeded Postgres with initial report runs (run_ids=%s)\n", strings.Join(ids, ", "))
		}
	}
	if save {
		if seeded {
			fmt.Fprintln(w, "Skipped duplicate insert; current reports already used for seed.")
			return nil
		}
		ids, err := db.Save(ctx, reports)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nStored report runs in Postgres (run_ids=%s)\n", strings.Join(ids, ", "))
	}
	return nil
}

func dateOnly(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
