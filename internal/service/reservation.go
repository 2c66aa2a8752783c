// Package service orchestrates admission decisions and mutation commands
// against the registration ledger.  It owns the rules the ledger cannot
// enforce on its own: who may reserve, when the reservation window is
// open, which sessions a viewer gets to see, and how identities are
// normalized before they become ledger keys.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/uniseats/lecture-seat-reservation/internal/catalog"
	"github.com/uniseats/lecture-seat-reservation/internal/model"
	"github.com/uniseats/lecture-seat-reservation/internal/queue"
	"github.com/uniseats/lecture-seat-reservation/internal/seatmap"
)

// ErrForbidden is returned when a caller attempts an operation reserved
// for admins.  Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrSignupClosed is returned when a non-admin tries to reserve a seat for
// a session not taking place today.  Seats are only bookable on the day
// of the session, which prevents speculative holds.
var ErrSignupClosed = errors.New("signup opens on the day of the session")

// Ledger is the registration store the service mutates and reads.  The
// production implementation is repository.RegistrationRepo; tests supply
// an in-memory fake.
type Ledger interface {
	// Append inserts a new active registration and reports whether a row
	// was actually created.  An existing row for the pair makes the call
	// an absorbed no-op (false, nil).
	Append(ctx context.Context, sessionID uint64, identity string, admin bool) (bool, error)
	// SetDeleted flips the soft-delete flag on the matching row, if any.
	SetDeleted(ctx context.Context, sessionID uint64, identity string, deleted bool) error
	// ListBySession returns the session's full ledger in ascending ID order.
	ListBySession(ctx context.Context, sessionID uint64) ([]model.Registration, error)
}

// Viewer is the verified identity a request acts as.  Email is empty for
// unauthenticated viewers; Admin is derived from the configured admin
// list when the session token is issued.
type Viewer struct {
	Email string
	Admin bool
}

// Service wires the static catalog, the ledger and the event publisher
// together.  The clock and the admin look-around window are injected so
// tests can pin them.
type Service struct {
	catalog    *catalog.Catalog
	ledger     Ledger
	windowDays int
	now        func() time.Time
	publish    func(ctx context.Context, ev queue.RegistrationRecordedEvent) error
}

// Options tunes a Service.  Zero values fall back to a 14 day admin
// window, the wall clock and no event publishing.
type Options struct {
	AdminWindowDays int
	Now             func() time.Time
	Publish         func(ctx context.Context, ev queue.RegistrationRecordedEvent) error
}

// New constructs a Service around a catalog and a ledger.
func New(cat *catalog.Catalog, ledger Ledger, opts Options) *Service {
	if opts.AdminWindowDays <= 0 {
		opts.AdminWindowDays = 14
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		catalog:    cat,
		ledger:     ledger,
		windowDays: opts.AdminWindowDays,
		now:        opts.Now,
		publish:    opts.Publish,
	}
}

// Reserve records the viewer's intent to take a seat in the given session.
//
// Non-admin callers may only reserve for themselves and only on the day
// of the session.  Admin callers may reserve for an arbitrary display
// name on any session within the admin window, bypassing the same-day
// restriction.  Capacity is not checked here: over-capacity reservations
// succeed and are merely flagged as overhang by the projection.  A repeat
// reserve for an already-registered identity is an absorbed no-op, so the
// call is safe to retry.
func (s *Service) Reserve(ctx context.Context, sessionID uint64, viewer Viewer, displayName string) error {
	sess, err := s.catalog.Session(sessionID)
	if err != nil {
		return err
	}
	identity := NormalizeIdentity(viewer.Email)
	if viewer.Admin {
		if displayName != "" {
			identity = NormalizeIdentity(displayName)
		}
		if !s.withinWindow(sess) {
			return ErrSignupClosed
		}
	} else {
		if !sess.SameDay(s.now().UTC()) {
			return ErrSignupClosed
		}
	}
	inserted, err := s.ledger.Append(ctx, sessionID, identity, viewer.Admin)
	if err != nil {
		return err
	}
	if inserted && s.publish != nil {
		ev := queue.RegistrationRecordedEvent{
			SessionID:    sess.ID,
			Lecture:      sess.Lecture,
			SessionTitle: sess.Title,
			Identity:     identity,
			Admin:        viewer.Admin,
			RecordedAt:   s.now().UTC().Format(time.RFC3339),
		}
		// Fire and forget: a broker outage must not fail the reservation.
		if err := s.publish(ctx, ev); err != nil {
			log.Printf("service: publish registration event: %v", err)
		}
	}
	return nil
}

// Delete soft-deletes the registration of identity in the given session.
// Admin only; deleting an unknown identity is a no-op.
func (s *Service) Delete(ctx context.Context, sessionID uint64, viewer Viewer, identity string) error {
	return s.setDeleted(ctx, sessionID, viewer, identity, true)
}

// Restore reverts a soft-deleted registration, giving the row back its
// original ledger position and therefore its original seat number.  Admin
// only.
func (s *Service) Restore(ctx context.Context, sessionID uint64, viewer Viewer, identity string) error {
	return s.setDeleted(ctx, sessionID, viewer, identity, false)
}

func (s *Service) setDeleted(ctx context.Context, sessionID uint64, viewer Viewer, identity string, deleted bool) error {
	if !viewer.Admin {
		return ErrForbidden
	}
	if _, err := s.catalog.Session(sessionID); err != nil {
		return err
	}
	return s.ledger.SetDeleted(ctx, sessionID, NormalizeIdentity(identity), deleted)
}

// VisibleSessions returns the sessions of a lecture the viewer is allowed
// to see, ordered by date then ID.  Non-admins only see sessions dated
// today; admins additionally see sessions within the configured
// look-around window, which lets them manage near-term sessions without
// exposing the full future catalog to ordinary users.
func (s *Service) VisibleSessions(lectureID string, viewer Viewer) ([]model.Session, error) {
	if _, err := s.catalog.Lecture(lectureID); err != nil {
		return nil, err
	}
	today := s.now().UTC()
	visible := make([]model.Session, 0)
	for _, sess := range s.catalog.SessionsFor(lectureID) {
		if sess.SameDay(today) || (viewer.Admin && s.withinWindow(sess)) {
			visible = append(visible, sess)
		}
	}
	return visible, nil
}

// SessionView is one visible session together with its projected seat
// table for the viewer.  Registered mirrors whether any ledger row,
// deleted included, belongs to the viewer; the presentation layer uses it
// to decide between showing the seat table and offering the reserve
// action.
type SessionView struct {
	Session    model.Session
	Rows       []seatmap.Row
	Registered bool
}

// LectureBoard assembles the full reservation view of a lecture for one
// viewer: every visible session with its seat rows.  Each session's
// ledger is fetched fresh, so seat numbers always reflect the latest
// committed writes; the projection itself runs over that immutable
// snapshot without holding any lock.
func (s *Service) LectureBoard(ctx context.Context, lectureID string, viewer Viewer) ([]SessionView, error) {
	sessions, err := s.VisibleSessions(lectureID, viewer)
	if err != nil {
		return nil, err
	}
	identity := NormalizeIdentity(viewer.Email)
	views := make([]SessionView, 0, len(sessions))
	for _, sess := range sessions {
		regs, err := s.ledger.ListBySession(ctx, sess.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, SessionView{
			Session:    sess,
			Rows:       seatmap.Project(regs, sess.Seats, identity, viewer.Admin),
			Registered: seatmap.Registered(regs, identity),
		})
	}
	return views, nil
}

// withinWindow reports whether the session's date falls inside the admin
// look-around window around today.
func (s *Service) withinWindow(sess model.Session) bool {
	today := s.now().UTC()
	lo := today.AddDate(0, 0, -s.windowDays)
	hi := today.AddDate(0, 0, s.windowDays)
	if sess.SameDay(today) || sess.SameDay(lo) || sess.SameDay(hi) {
		return true
	}
	return sess.Date.After(lo) && sess.Date.Before(hi)
}
