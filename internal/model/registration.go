package model

import "time"

// Registration is one row of the registration ledger as stored in the
// `registrations` table.  A row is created once, on the first successful
// reserve for a (session, identity) pair, and is never physically removed:
// admin deletion only flips the Deleted flag, keeping the full audit trail.
// Ascending ID is the canonical chronological order of a session's ledger.
//
// Fields:
//  ID        – primary key, assigned by the ledger, never reused.
//  SessionID – session the seat was reserved for.
//  Identity  – normalized email of the registrant, or an admin-entered
//              display name.
//  CreatedAt – wall-clock insertion time, assigned by the ledger.
//  Admin     – true when an admin created the row on someone's behalf.
//  Deleted   – soft-delete tombstone flag; the only mutable field.
type Registration struct {
	ID        uint64    // registrations.id
	SessionID uint64    // registrations.session_id
	Identity  string    // registrations.identity
	CreatedAt time.Time // registrations.created_at
	Admin     bool      // registrations.admin_flag
	Deleted   bool      // registrations.deleted
}
