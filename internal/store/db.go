// Package store keeps a history of calculation runs in SQLite.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/rgehrsitz/anypia/internal/calculation"
)

// DB wraps a SQLite connection holding run history.
type DB struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Run is one stored calculation.
type Run struct {
	ID        string          `db:"id" json:"id"`
	CaseID    string          `db:"case_id" json:"case_id"`
	Law       string          `db:"law" json:"law"`
	CreatedAt time.Time       `db:"-" json:"created_at"`
	Created   string          `db:"created_at" json:"-"`
	Worker    string          `db:"worker" json:"worker"`
	Benefit   string          `db:"benefit" json:"benefit"`
	EligYear  int             `db:"elig_year" json:"elig_year"`
	Governing string          `db:"governing" json:"governing"`
	Pia       decimal.Decimal `db:"pia" json:"pia"`
	Mfb       decimal.Decimal `db:"mfb" json:"mfb"`
	Warnings  []string        `db:"-" json:"warnings,omitempty"`
}

// MethodRow is one method's amounts within a run.
type MethodRow struct {
	RunID    string          `db:"run_id" json:"run_id"`
	Seq      int             `db:"seq" json:"seq"`
	Method   string          `db:"method" json:"method"`
	EligYear int             `db:"elig_year" json:"elig_year"`
	Aime     decimal.Decimal `db:"aime" json:"aime"`
	PiaElig  decimal.Decimal `db:"pia_elig" json:"pia_elig"`
	PiaEnt   decimal.Decimal `db:"pia_ent" json:"pia_ent"`
	PiaBen   decimal.Decimal `db:"pia_ben" json:"pia_ben"`
	MfbBen   decimal.Decimal `db:"mfb_ben" json:"mfb_ben"`
	Windfall string          `db:"windfall" json:"windfall"`
	Governs  bool            `db:"governs" json:"governs"`
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn, now: time.Now}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		case_id TEXT NOT NULL,
		law TEXT NOT NULL,
		created_at TEXT NOT NULL,
		worker TEXT NOT NULL,
		benefit TEXT NOT NULL,
		elig_year INTEGER NOT NULL,
		governing TEXT NOT NULL,
		pia TEXT NOT NULL,
		mfb TEXT NOT NULL,
		warnings_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS method_results (
		run_id TEXT NOT NULL REFERENCES runs(id),
		seq INTEGER NOT NULL,
		method TEXT NOT NULL,
		elig_year INTEGER NOT NULL,
		aime TEXT NOT NULL,
		pia_elig TEXT NOT NULL,
		pia_ent TEXT NOT NULL,
		pia_ben TEXT NOT NULL,
		mfb_ben TEXT NOT NULL,
		windfall TEXT NOT NULL,
		governs INTEGER NOT NULL,
		PRIMARY KEY (run_id, seq)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_case ON runs(case_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveRun stores a result and every method it computed under a new run id.
func (db *DB) SaveRun(ctx context.Context, res *calculation.Result, worker, benefit string) (*Run, error) {
	warnings := res.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	warningsJSON, err := json.Marshal(warnings)
	if err != nil {
		return nil, fmt.Errorf("encode warnings: %w", err)
	}

	run := &Run{
		ID:        uuid.NewString(),
		CaseID:    res.CaseID,
		Law:       res.Law,
		CreatedAt: db.now().UTC(),
		Worker:    worker,
		Benefit:   benefit,
		EligYear:  res.PiaData.EligYear,
		Governing: res.High.Kind.String(),
		Pia:       res.HighPia,
		Mfb:       res.HighMfb,
		Warnings:  res.Warnings,
	}
	run.Created = run.CreatedAt.Format(time.RFC3339Nano)

	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, case_id, law, created_at, worker, benefit, elig_year, governing, pia, mfb, warnings_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CaseID, run.Law, run.Created, run.Worker, run.Benefit, run.EligYear,
		run.Governing, run.Pia.String(), run.Mfb.String(), string(warningsJSON))
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO method_results
		(run_id, seq, method, elig_year, aime, pia_elig, pia_ent, pia_ben, mfb_ben, windfall, governs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for i, m := range res.Methods {
		governs := 0
		if m == res.High {
			governs = 1
		}
		_, err := stmt.ExecContext(ctx, run.ID, i, m.Kind.String(), m.EligYear,
			m.Aime.String(), m.PiaElig.String(), m.PiaEnt.String(), m.PiaBen.String(), m.MfbBen.String(),
			m.Windfall.String(), governs)
		if err != nil {
			return nil, fmt.Errorf("insert %s: %w", m.Kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return run, nil
}

type runRow struct {
	Run
	WarningsJSON string `db:"warnings_json"`
}

// ListRuns returns the most recent runs, newest first. An empty caseID
// lists runs of every case.
func (db *DB) ListRuns(ctx context.Context, caseID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, case_id, law, created_at, worker, benefit, elig_year, governing, pia, mfb, warnings_json
		FROM runs`
	args := []any{}
	if caseID != "" {
		query += " WHERE case_id = ?"
		args = append(args, caseID)
	}
	query += " ORDER BY rowid DESC LIMIT ?"
	args = append(args, limit)

	var rows []runRow
	if err := db.conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	runs := make([]Run, 0, len(rows))
	for _, r := range rows {
		run := r.Run
		t, err := time.Parse(time.RFC3339Nano, run.Created)
		if err != nil {
			return nil, fmt.Errorf("run %s: created_at: %w", run.ID, err)
		}
		run.CreatedAt = t
		if err := json.Unmarshal([]byte(r.WarningsJSON), &run.Warnings); err != nil {
			return nil, fmt.Errorf("run %s: warnings: %w", run.ID, err)
		}
		if len(run.Warnings) == 0 {
			run.Warnings = nil
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// MethodResults returns the methods of one run in calculation order.
func (db *DB) MethodResults(ctx context.Context, runID string) ([]MethodRow, error) {
	var rows []MethodRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT run_id, seq, method, elig_year, aime, pia_elig, pia_ent, pia_ben, mfb_ben, windfall, governs
		FROM method_results WHERE run_id = ? ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("method results: %w", err)
	}
	return rows, nil
}
