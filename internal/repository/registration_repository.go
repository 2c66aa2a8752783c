// Package repository implements the durable stores of the application:
// the registration ledger and the anonymous quiz answer store.  Both run
// against the shared MySQL pool; every mutation is a single atomic
// statement or transaction, and reads always hit the store directly (no
// caching layer), so projections are computed from the latest committed
// state.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/uniseats/lecture-seat-reservation/internal/model"
)

// mysqlDupEntry is the MySQL error number for a unique key violation.
const mysqlDupEntry = 1062

// RegistrationRepo is the registration ledger: an append-mostly store of
// seat reservations per session.  The `registrations` table carries a
// unique key over (session_id, identity) covering deleted rows too, so at
// most one ledger row ever exists per pair; delete and restore toggle the
// soft-delete flag on that row.  All timestamps are stored in UTC.
type RegistrationRepo struct {
	db *sql.DB
}

// NewRegistrationRepo returns a RegistrationRepo bound to the given database.
func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

// Append inserts a new active registration with a fresh timestamp and the
// next identifier.  When any row already exists for (sessionID, identity)
// the call is an absorbed no-op: it returns (false, nil) rather than an
// error, which makes reserve safely retriable under double submission.
// The existence check and the insert are a single statement, so two
// concurrent appends for the same pair commit exactly one row; the loser
// either matches zero rows or trips the unique key, and both cases are
// absorbed.
func (r *RegistrationRepo) Append(ctx context.Context, sessionID uint64, identity string, admin bool) (bool, error) {
	const q = `INSERT INTO registrations (session_id, identity, created_at, admin_flag, deleted)
	           SELECT ?, ?, ?, ?, FALSE FROM DUAL
	           WHERE NOT EXISTS (SELECT 1 FROM registrations WHERE session_id = ? AND identity = ?)`
	res, err := r.db.ExecContext(ctx, q, sessionID, identity, time.Now().UTC(), admin, sessionID, identity)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDupEntry {
			return false, nil
		}
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetDeleted sets the soft-delete flag on the row matching (sessionID,
// identity).  When no such row exists the statement matches nothing and
// the call is a no-op.  The single UPDATE is atomic on its own.
func (r *RegistrationRepo) SetDeleted(ctx context.Context, sessionID uint64, identity string, deleted bool) error {
	const q = `UPDATE registrations SET deleted = ? WHERE session_id = ? AND identity = ?`
	_, err := r.db.ExecContext(ctx, q, deleted, sessionID, identity)
	return err
}

// ListBySession returns every registration of a session, deleted rows
// included, in ascending identifier order (the canonical chronological
// order of the ledger).  Each call re-queries the store so the result
// always reflects the latest committed writes.
func (r *RegistrationRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.Registration, error) {
	const q = `SELECT id, session_id, identity, created_at, admin_flag, deleted
	           FROM registrations WHERE session_id = ? ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	regs := make([]model.Registration, 0)
	for rows.Next() {
		var reg model.Registration
		if err := rows.Scan(&reg.ID, &reg.SessionID, &reg.Identity, &reg.CreatedAt, &reg.Admin, &reg.Deleted); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return regs, nil
}
