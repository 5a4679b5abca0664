package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"fitcentive-growth-report/internal/dataset"
	"fitcentive-growth-report/internal/log"
	"fitcentive-growth-report/internal/report"
)

// Timeout bounds every database session opened by the CLI.
const Timeout = 12 * time.Second

// DefaultSchema holds the report tables unless -db-schema says otherwise.
const DefaultSchema = "fitcentive_reports"

// Config selects the database, schema and run label.
type Config struct {
	URL    string
	Schema string
	Tag    string
}

// Store persists report runs in Postgres.
type Store struct {
	db     *sql.DB
	schema string
	tag    string
	logger *log.Logger
}

var validSchema = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func sanitizeSchema(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("db schema is required")
	}
	if !validSchema.MatchString(value) {
		return "", fmt.Errorf("invalid schema name: %s", value)
	}
	return value, nil
}

// Open connects, pings and makes sure the report tables exist.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("database URL missing; set FITCENTIVE_DB_URL or DATABASE_URL")
	}
	schema, err := sanitizeSchema(cfg.Schema)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := ensureSchema(ctx, db, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema %s: %w", schema, err)
	}
	return &Store{db: db, schema: schema, tag: cfg.Tag, logger: logger.WithComponent("store")}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores every report as one run each, inside a single transaction.
// It returns the run ids in report order.
func (s *Store) Save(ctx context.Context, reports []report.Report) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		id, err := s.insertRun(ctx, tx, r)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("store %s: %w", r.Name, err)
		}
		ids = append(ids, id)
		s.logger.Debug("report run staged", "report", r.Name, "run_id", id, "metrics", len(r.Metrics))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Seed stores reports only when no run has been recorded yet. It returns nil
// ids when the tables already hold data.
func (s *Store) Seed(ctx context.Context, reports []report.Report) ([]string, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s.report_runs`, s.schema)).Scan(&count); err != nil {
		return nil, err
	}
	if count > 0 {
		s.logger.Info("report runs already present; skipping seed", "schema", s.schema, "runs", count)
		return nil, nil
	}
	return s.Save(ctx, reports)
}

func (s *Store) insertRun(ctx context.Context, tx *sql.Tx, r report.Report) (string, error) {
	runID := uuid.New()
	asOf, err := nullDate(r.AsOf)
	if err != nil {
		return "", err
	}

	_, err = tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s.report_runs (
			id, report, title, generated_at, as_of, run_tag, mismatch_count
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7
		)`, s.schema),
		runID,
		r.Name,
		r.Title,
		time.Now().UTC(),
		asOf,
		nullString(s.tag),
		len(r.Mismatches()),
	)
	if err != nil {
		return "", err
	}

	insertMetricSQL := fmt.Sprintf(`
		INSERT INTO %s.report_metrics (
			id, run_id, name, value, display
		) VALUES (
			$1,$2,$3,$4,$5
		)`, s.schema)
	for _, m := range r.Metrics {
		if _, err := tx.ExecContext(ctx, insertMetricSQL, uuid.New(), runID, m.Name, m.Value, nullString(m.Display)); err != nil {
			return "", fmt.Errorf("metric %s: %w", m.Name, err)
		}
	}

	insertClaimSQL := fmt.Sprintf(`
		INSERT INTO %s.report_claims (
			id, run_id, label, stated, actual, tolerance, mismatch
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7
		)`, s.schema)
	for _, c := range r.Claims {
		if _, err := tx.ExecContext(ctx, insertClaimSQL, uuid.New(), runID, c.Label, c.Stated, c.Actual, c.Tolerance, c.Mismatch()); err != nil {
			return "", fmt.Errorf("claim %s: %w", c.Label, err)
		}
	}
	return runID.String(), nil
}

func ensureSchema(ctx context.Context, db *sql.DB, schema string) error {
	statements := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, schema),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.report_runs (
			id uuid PRIMARY KEY,
			report text NOT NULL,
			title text NOT NULL,
			generated_at timestamptz NOT NULL,
			as_of date,
			run_tag text,
			mismatch_count integer NOT NULL DEFAULT 0,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.report_metrics (
			id uuid PRIMARY KEY,
			run_id uuid NOT NULL REFERENCES %s.report_runs(id) ON DELETE CASCADE,
			name text NOT NULL,
			value numeric(14,4) NOT NULL,
			display text,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema, schema),
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.report_claims (
			id uuid PRIMARY KEY,
			run_id uuid NOT NULL REFERENCES %s.report_runs(id) ON DELETE CASCADE,
			label text NOT NULL,
			stated numeric(14,4) NOT NULL,
			actual numeric(14,4) NOT NULL,
			tolerance numeric(14,4) NOT NULL,
			mismatch boolean NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`, schema, schema),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_report_runs_report_idx ON %s.report_runs (report, generated_at)`, schema, schema),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_report_metrics_run_idx ON %s.report_metrics (run_id)`, schema, schema),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_report_claims_run_idx ON %s.report_claims (run_id)`, schema, schema),
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func nullString(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func nullDate(value string) (sql.NullTime, error) {
	if strings.TrimSpace(value) == "" {
		return sql.NullTime{}, nil
	}
	day, err := dataset.ParseDay(value)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: day, Valid: true}, nil
}
