// Package telemetry persists collection-cycle reports so heap behavior
// can be compared across runs. A Store writes to an embedded database,
// either SQLite or DuckDB, keyed by run.
package telemetry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/juncolang/junco/gc"
)

var log = commonlog.GetLogger("junco.telemetry")

// Driver names accepted by Open.
const (
	DriverSQLite = "sqlite"
	DriverDuckDB = "duckdb"
)

// ErrUnknownDriver reports a driver name Open does not recognize.
var ErrUnknownDriver = errors.New("telemetry: unknown driver")

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// Timestamps are unix microseconds in BIGINT columns so the same DDL
// works on both engines.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT NOT NULL PRIMARY KEY,
	label       TEXT NOT NULL,
	started_at  BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS cycles (
	run_id       TEXT NOT NULL,
	seq          BIGINT NOT NULL,
	freed        BIGINT NOT NULL,
	freed_bytes  BIGINT NOT NULL,
	live         BIGINT NOT NULL,
	live_bytes   BIGINT NOT NULL,
	threshold    BIGINT NOT NULL,
	pause_us     BIGINT NOT NULL,
	recorded_at  BIGINT NOT NULL,
	PRIMARY KEY (run_id, seq)
);
`

// ---------------------------------------------------------------------------
// Store
// ---------------------------------------------------------------------------

// Store records runs and their collection cycles.
type Store struct {
	db     *sql.DB
	driver string
}

// Open opens (or creates) a telemetry database and ensures the schema
// exists. An empty driver selects SQLite.
func Open(driver, dsn string) (*Store, error) {
	if driver == "" {
		driver = DriverSQLite
	}
	switch driver {
	case DriverSQLite, DriverDuckDB:
	default:
		return nil, fmt.Errorf("telemetry: open %q: %w", driver, ErrUnknownDriver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s store: %w", driver, err)
	}

	if driver == DriverSQLite {
		// One connection: the sqlite driver permits a single writer.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("telemetry: set busy timeout: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("telemetry: create schema: %w", err)
	}
	return &Store{db: db, driver: driver}, nil
}

// Driver returns the driver name the store was opened with.
func (s *Store) Driver() string { return s.driver }

// Close releases the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("telemetry: close store: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Runs
// ---------------------------------------------------------------------------

// Run is one recorded process or experiment.
type Run struct {
	ID        string
	Label     string
	StartedAt time.Time
}

// NewRun registers a run and returns its generated ID.
func (s *Store) NewRun(ctx context.Context, label string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, label, started_at)
		VALUES (?, ?, ?)
	`, id, label, time.Now().UnixMicro())
	if err != nil {
		return "", fmt.Errorf("telemetry: new run: %w", err)
	}
	return id, nil
}

// Runs retrieves all runs, oldest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, label, started_at
		FROM runs
		ORDER BY started_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("telemetry: query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var startedAt int64
		if err := rows.Scan(&r.ID, &r.Label, &startedAt); err != nil {
			return nil, fmt.Errorf("telemetry: scan run: %w", err)
		}
		r.StartedAt = time.UnixMicro(startedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// ---------------------------------------------------------------------------
// Cycles
// ---------------------------------------------------------------------------

// Cycle is one stored collection-cycle report.
type Cycle struct {
	RunID      string
	Seq        uint64
	Freed      int
	FreedBytes int
	Live       int
	LiveBytes  int
	Threshold  int
	Pause      time.Duration
	RecordedAt time.Time
}

// RecordCycle stores one collection report under a run.
func (s *Store) RecordCycle(ctx context.Context, runID string, r gc.CycleReport) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cycles (run_id, seq, freed, freed_bytes, live, live_bytes, threshold, pause_us, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, int64(r.Seq), r.Freed, r.FreedBytes, r.Live, r.LiveBytes, r.Threshold,
		r.Pause.Microseconds(), time.Now().UnixMicro())
	if err != nil {
		return fmt.Errorf("telemetry: record cycle %d: %w", r.Seq, err)
	}
	return nil
}

// Cycles retrieves a run's cycles in collection order.
func (s *Store) Cycles(ctx context.Context, runID string) ([]Cycle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, seq, freed, freed_bytes, live, live_bytes, threshold, pause_us, recorded_at
		FROM cycles
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("telemetry: query cycles: %w", err)
	}
	defer rows.Close()

	var out []Cycle
	for rows.Next() {
		var c Cycle
		var seq, pauseUS, recordedAt int64
		if err := rows.Scan(&c.RunID, &seq, &c.Freed, &c.FreedBytes, &c.Live,
			&c.LiveBytes, &c.Threshold, &pauseUS, &recordedAt); err != nil {
			return nil, fmt.Errorf("telemetry: scan cycle: %w", err)
		}
		c.Seq = uint64(seq)
		c.Pause = time.Duration(pauseUS) * time.Microsecond
		c.RecordedAt = time.UnixMicro(recordedAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Summary aggregates a run's cycles.
type Summary struct {
	Cycles     int
	Freed      int
	FreedBytes int
	MaxPause   time.Duration
}

// Summarize totals a run's reclamation work.
func (s *Store) Summarize(ctx context.Context, runID string) (Summary, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(freed), 0), COALESCE(SUM(freed_bytes), 0), COALESCE(MAX(pause_us), 0)
		FROM cycles
		WHERE run_id = ?
	`, runID)

	var sum Summary
	var maxPauseUS int64
	if err := row.Scan(&sum.Cycles, &sum.Freed, &sum.FreedBytes, &maxPauseUS); err != nil {
		return Summary{}, fmt.Errorf("telemetry: summarize run: %w", err)
	}
	sum.MaxPause = time.Duration(maxPauseUS) * time.Microsecond
	return sum, nil
}

// ---------------------------------------------------------------------------
// Heap attachment
// ---------------------------------------------------------------------------

// Attach registers a collection callback that records every cycle under
// the given run. The insert runs on the heap's goroutine; failures are
// logged and do not interrupt collection.
func Attach(h *gc.Heap, s *Store, runID string) {
	h.OnCollect(func(r gc.CycleReport) {
		if err := s.RecordCycle(context.Background(), runID, r); err != nil {
			log.Errorf("record cycle: %s", err.Error())
		}
	})
}
