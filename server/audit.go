package server

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dewminawijekoon/rpal/server/serr"
)

// auditEntry is one row of the run-audit log: a record of a single
// POST /api/v1/run call, kept for operational visibility rather than as
// part of the language's own semantics (spec.md has no persisted state).
type auditEntry struct {
	ID         string
	SourceHash string
	Success    bool
	DurationMS int64
	CreatedAt  time.Time
}

// auditLog is a modernc.org/sqlite-backed append-only log of interpreter
// runs, grounded on the teacher's server/dao/sqlite package -- same
// sql.Open("sqlite", ...) driver, same CREATE TABLE IF NOT EXISTS init
// pattern, trimmed to the one table this service needs instead of the
// teacher's five-table game-state schema.
type auditLog struct {
	db *sql.DB
}

func newAuditLog(path string) (*auditLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, serr.WrapDB("open audit database", err)
	}

	stmt := `CREATE TABLE IF NOT EXISTS runs (
		id TEXT NOT NULL PRIMARY KEY,
		source_hash TEXT NOT NULL,
		success INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		created INTEGER NOT NULL
	);`
	if _, err := db.Exec(stmt); err != nil {
		return nil, serr.WrapDB("init audit database", err)
	}

	return &auditLog{db: db}, nil
}

func (a *auditLog) Close() error {
	return a.db.Close()
}

// Record appends one run outcome to the log, identified by a hash of the
// source rather than the source itself -- run bodies may contain anything
// a caller pastes in and are not retained.
func (a *auditLog) Record(ctx context.Context, source string, success bool, dur time.Duration) (string, error) {
	id := uuid.New().String()
	hash := sha256.Sum256([]byte(source))

	stmt, err := a.db.PrepareContext(ctx, `INSERT INTO runs (id, source_hash, success, duration_ms, created) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return "", serr.WrapDB("prepare audit insert", err)
	}
	defer stmt.Close()

	success64 := 0
	if success {
		success64 = 1
	}

	_, err = stmt.ExecContext(ctx, id, hex.EncodeToString(hash[:]), success64, dur.Milliseconds(), time.Now().Unix())
	if err != nil {
		return "", serr.WrapDB("insert audit row", err)
	}
	return id, nil
}

// RecentFailureRate reports the fraction of the last n runs that failed,
// used by the /api/v1/info endpoint's health summary.
func (a *auditLog) RecentFailureRate(ctx context.Context, n int) (float64, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT success FROM runs ORDER BY created DESC LIMIT ?`, n)
	if err != nil {
		return 0, serr.WrapDB("query recent runs", err)
	}
	defer rows.Close()

	var total, failed int
	for rows.Next() {
		var success int
		if err := rows.Scan(&success); err != nil {
			return 0, serr.WrapDB("scan audit row", err)
		}
		total++
		if success == 0 {
			failed++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, serr.WrapDB("iterate audit rows", err)
	}
	if total == 0 {
		return 0, nil
	}
	return float64(failed) / float64(total), nil
}

var errAuditNotFound = errors.New("no audit entry with that id")

// Get retrieves a single audit entry by id, used for ops debugging.
func (a *auditLog) Get(ctx context.Context, id string) (auditEntry, error) {
	row := a.db.QueryRowContext(ctx, `SELECT id, source_hash, success, duration_ms, created FROM runs WHERE id = ?`, id)

	var e auditEntry
	var success, created int64
	if err := row.Scan(&e.ID, &e.SourceHash, &success, &e.DurationMS, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auditEntry{}, fmt.Errorf("%w: %s", errAuditNotFound, id)
		}
		return auditEntry{}, serr.WrapDB("scan audit row", err)
	}
	e.Success = success != 0
	e.CreatedAt = time.Unix(created, 0)
	return e, nil
}
