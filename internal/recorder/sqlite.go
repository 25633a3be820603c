package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists signal evaluations to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signal_evaluations (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			action     TEXT NOT NULL,
			confidence INTEGER NOT NULL,
			price      REAL,
			rsi        REAL,
			macd       REAL,
			adx        REAL,
			reasons    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_ts ON signal_evaluations(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_signal_symbol ON signal_evaluations(symbol)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(eval *SignalEvaluation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO signal_evaluations
		(timestamp, symbol, action, confidence, price, rsi, macd, adx, reasons)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), eval.Symbol, eval.Action, eval.Confidence,
		eval.Price, eval.RSI, eval.MACD, eval.ADX, eval.Reasons,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
