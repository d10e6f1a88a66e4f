package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"RSIDashboard/internal/logger"
	"RSIDashboard/internal/model"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run summaries to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zerolog.Logger) (*SQLiteRecorder, error) {
	if log == nil {
		log = logger.Nop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets the dashboard read history while a run is being written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pipeline_runs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL UNIQUE,
			timestamp       INTEGER NOT NULL,
			duration_ms     INTEGER NOT NULL,
			coins           INTEGER NOT NULL,
			succeeded       INTEGER NOT NULL,
			failed          INTEGER NOT NULL,
			sentiment_value INTEGER,
			sentiment_label TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON pipeline_runs(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *model.RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sentiment sql.NullInt64
	if run.SentimentValue != nil {
		sentiment = sql.NullInt64{Int64: int64(*run.SentimentValue), Valid: true}
	}

	_, err := r.db.Exec(`INSERT INTO pipeline_runs
		(run_id, timestamp, duration_ms, coins, succeeded, failed, sentiment_value, sentiment_label)
		VALUES (?,?,?,?,?,?,?,?)`,
		run.RunID, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(),
		run.Coins, run.Succeeded, run.Failed, sentiment, run.SentimentLabel,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return nil
}

func (r *SQLiteRecorder) RecentRuns(limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT run_id, timestamp, duration_ms, coins, succeeded, failed, sentiment_value, sentiment_label
		FROM pipeline_runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []model.RunSummary
	for rows.Next() {
		var (
			run       model.RunSummary
			ts, durMS int64
			sentiment sql.NullInt64
			label     sql.NullString
		)
		if err := rows.Scan(&run.RunID, &ts, &durMS, &run.Coins, &run.Succeeded, &run.Failed, &sentiment, &label); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt = time.UnixMilli(ts)
		run.Duration = time.Duration(durMS) * time.Millisecond
		if sentiment.Valid {
			v := int(sentiment.Int64)
			run.SentimentValue = &v
		}
		run.SentimentLabel = label.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

// Open returns a SQLite recorder for path, or a NoopRecorder when path is empty or cannot be opened.
func Open(path string, log *zerolog.Logger) Recorder {
	if log == nil {
		log = logger.Nop()
	}
	if path == "" {
		return NewNoopRecorder()
	}
	rec, err := NewSQLiteRecorder(path, log)
	if err != nil {
		log.Warn().Err(err).Msg("sqlite recorder unavailable, run history disabled")
		return NewNoopRecorder()
	}
	return rec
}
