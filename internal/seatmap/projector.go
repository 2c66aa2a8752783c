// Package seatmap derives the numbered, display-ready view of a session's
// registrations from the raw ledger.  Projection is pure computation over
// an already-fetched snapshot: seat numbers are never stored and are
// recomputed on every read, so they always reflect the current ledger
// state.
package seatmap

import (
	"time"

	"github.com/uniseats/lecture-seat-reservation/internal/model"
)

// Row is one projected seat table entry.
//
// Seat is nil for soft-deleted registrations: a deleted row keeps its
// position in the ledger (later registrants are not renumbered into the
// gap) but shows no number.  Overhang marks an active row whose number
// exceeds the session's seat capacity; the presentation layer renders
// such rows as "seat not available, materials provided online" instead
// of rejecting them.
type Row struct {
	Seat      *int      `json:"seat"`
	Identity  string    `json:"identity"`
	CreatedAt time.Time `json:"created_at"`
	Admin     bool      `json:"admin"`
	Deleted   bool      `json:"deleted"`
	Overhang  bool      `json:"overhang"`
}

// Project turns a session's full ledger, in ascending ID order, into seat
// rows for one viewer.
//
// Numbering runs over the complete unfiltered ledger first: the position
// counter advances for every row, deleted or not, and only non-deleted
// rows receive the counter value as their seat number.  Deleting a row
// therefore leaves later seat numbers untouched, and restoring it gives
// back exactly the original number.  Filtering happens second: a
// non-admin viewer keeps only their own rows, an admin keeps everything.
// Numbering before filtering is what makes a viewer's seat number match
// their true ledger position even though they only ever see their own
// row.
func Project(regs []model.Registration, seats int, viewer string, admin bool) []Row {
	rows := make([]Row, 0, len(regs))
	n := 1
	for _, reg := range regs {
		row := Row{
			Identity:  reg.Identity,
			CreatedAt: reg.CreatedAt,
			Admin:     reg.Admin,
			Deleted:   reg.Deleted,
		}
		if !reg.Deleted {
			seat := n
			row.Seat = &seat
			row.Overhang = seat > seats
		}
		n++
		if admin || reg.Identity == viewer {
			rows = append(rows, row)
		}
	}
	return rows
}

// Registered reports whether any ledger row (deleted included) belongs to
// the given identity.  A viewer with an existing row is shown the seat
// table instead of the reserve action; a deleted row stays visible to its
// owner as "reservation deleted".
func Registered(regs []model.Registration, identity string) bool {
	for _, reg := range regs {
		if reg.Identity == identity {
			return true
		}
	}
	return false
}
