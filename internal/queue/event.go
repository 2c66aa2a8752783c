// Package queue defines the message payloads exchanged over the broker
// and the background consumers that process them.
package queue

// LoginLinkQueue and RegistrationQueue are the durable queue names used
// by both publishers and consumers.
const (
	LoginLinkQueue    = "login.link"
	RegistrationQueue = "registration.recorded"
)

// LoginLinkEvent is published when a student requests a magic login link.
// The consumer turns it into an email; the HTTP request itself never
// blocks on mail delivery.
type LoginLinkEvent struct {
	Email       string `json:"email"`
	Lecture     string `json:"lecture"`
	Link        string `json:"link"`
	RequestedAt string `json:"requested_at"`
}

// RegistrationRecordedEvent is published after a reserve command inserts a
// new ledger row.  It carries enough context for downstream consumers to
// log or notify without querying the primary database.  Idempotent no-op
// reserves do not produce an event.
type RegistrationRecordedEvent struct {
	SessionID    uint64 `json:"session_id"`
	Lecture      string `json:"lecture"`
	SessionTitle string `json:"session_title"`
	Identity     string `json:"identity"`
	Admin        bool   `json:"admin"`
	RecordedAt   string `json:"recorded_at"`
}
