package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the application tables when they do not exist yet.
//
// The unique key on registrations covers deleted rows too: at most one
// ledger row ever exists per (session_id, identity), and delete/restore
// toggle the flag on that row instead of creating new ones.  quiz_answers
// has no identity column on purpose; the quiz is anonymous.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS registrations (
			id          BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			session_id  BIGINT UNSIGNED NOT NULL,
			identity    VARCHAR(190)    NOT NULL,
			created_at  DATETIME        NOT NULL,
			admin_flag  TINYINT(1)      NOT NULL DEFAULT 0,
			deleted     TINYINT(1)      NOT NULL DEFAULT 0,
			PRIMARY KEY (id),
			UNIQUE KEY uniq_session_identity (session_id, identity),
			KEY idx_registrations_session (session_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS quiz_answers (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
			lecture       VARCHAR(64) NOT NULL,
			statement_idx INT         NOT NULL,
			answer        TINYINT(1)  NOT NULL,
			created_at    DATETIME    NOT NULL,
			PRIMARY KEY (id),
			KEY idx_quiz_lecture (lecture)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
