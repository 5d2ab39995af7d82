package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"peerblind/internal/core/domain"
)

// RunArchive persists rosters and master keys per run, so an anonymization
// round stays auditable after the working directory is cleaned up.
type RunArchive struct {
	db *sql.DB
}

func NewRunArchive(db *sql.DB) *RunArchive {
	return &RunArchive{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *RunArchive) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across CLI and worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026083101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS review_runs (
	run_id TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS run_rosters (
	run_id TEXT NOT NULL REFERENCES review_runs(run_id),
	student_id TEXT NOT NULL,
	proposal_id TEXT NOT NULL,
	author_name TEXT,
	proposal_title TEXT,
	proposal_filename TEXT NOT NULL,
	PRIMARY KEY (run_id, student_id)
);

CREATE TABLE IF NOT EXISTS run_keys (
	run_id TEXT NOT NULL REFERENCES review_runs(run_id),
	student_id TEXT NOT NULL,
	internal_name TEXT NOT NULL,
	true_source TEXT NOT NULL,
	public_label TEXT NOT NULL,
	PRIMARY KEY (run_id, internal_name)
);

CREATE INDEX IF NOT EXISTS idx_run_keys_student ON run_keys(run_id, student_id);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *RunArchive) ArchiveRoster(ctx context.Context, runID string, records []domain.ProposalRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin roster tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := registerRun(ctx, tx, runID); err != nil {
		return err
	}
	for _, rec := range records {
		_, err := tx.ExecContext(ctx, `
INSERT INTO run_rosters (run_id, student_id, proposal_id, author_name, proposal_title, proposal_filename)
VALUES ($1,$2,$3,$4,$5,$6)
`, runID, rec.StudentID, rec.ProposalID, rec.AuthorName, rec.ProposalTitle, rec.Filename)
		if err != nil {
			return fmt.Errorf("insert roster row %s: %w", rec.StudentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit roster tx: %w", err)
	}
	return nil
}

func (r *RunArchive) ArchiveKey(ctx context.Context, runID string, entries []domain.KeyEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin key tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := registerRun(ctx, tx, runID); err != nil {
		return err
	}
	for _, e := range entries {
		_, err := tx.ExecContext(ctx, `
INSERT INTO run_keys (run_id, student_id, internal_name, true_source, public_label)
VALUES ($1,$2,$3,$4,$5)
`, runID, e.StudentID, e.InternalName, string(e.TrueSource), e.PublicLabel)
		if err != nil {
			return fmt.Errorf("insert key row %s: %w", e.InternalName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit key tx: %w", err)
	}
	return nil
}

func registerRun(ctx context.Context, tx *sql.Tx, runID string) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO review_runs (run_id, created_at)
VALUES ($1, $2)
ON CONFLICT (run_id) DO NOTHING
`, runID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("register run %s: %w", runID, err)
	}
	return nil
}
