package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/uniseats/lecture-seat-reservation/internal/model"
)

// QuizRepo stores anonymous self-assessment quiz submissions.  The
// `quiz_answers` table intentionally has no identity column: answers are
// recorded without any link to the session cookie that submitted them.
// Structurally the store parallels the registration ledger but the two
// are fully independent.
type QuizRepo struct {
	db *sql.DB
}

// NewQuizRepo returns a QuizRepo bound to the given database.
func NewQuizRepo(db *sql.DB) *QuizRepo { return &QuizRepo{db: db} }

// RecordAnswers inserts one row per answered statement within a single
// transaction, so a submission is either stored completely or not at all.
// Passing an empty slice has no effect and returns nil.
func (r *QuizRepo) RecordAnswers(ctx context.Context, lecture string, answers []bool) error {
	if len(answers) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const q = `INSERT INTO quiz_answers (lecture, statement_idx, answer, created_at) VALUES (?, ?, ?, ?)`
	now := time.Now().UTC()
	for idx, answer := range answers {
		if _, err := tx.ExecContext(ctx, q, lecture, idx, answer, now); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Tally returns, per statement index, how many submissions answered true
// and how many answered false.  Used by admins to gauge how a lecture's
// quiz was received without ever exposing who answered what.
func (r *QuizRepo) Tally(ctx context.Context, lecture string) ([]model.QuizTally, error) {
	const q = `SELECT statement_idx,
	                  SUM(CASE WHEN answer THEN 1 ELSE 0 END),
	                  SUM(CASE WHEN answer THEN 0 ELSE 1 END)
	           FROM quiz_answers WHERE lecture = ?
	           GROUP BY statement_idx ORDER BY statement_idx ASC`
	rows, err := r.db.QueryContext(ctx, q, lecture)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tallies := make([]model.QuizTally, 0)
	for rows.Next() {
		var t model.QuizTally
		if err := rows.Scan(&t.Statement, &t.True, &t.False); err != nil {
			return nil, err
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tallies, nil
}
