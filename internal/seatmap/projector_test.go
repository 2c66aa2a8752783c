package seatmap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniseats/lecture-seat-reservation/internal/model"
)

func reg(id uint64, identity string, deleted bool) model.Registration {
	return model.Registration{
		ID:        id,
		SessionID: 1,
		Identity:  identity,
		CreatedAt: time.Date(2026, 10, 28, 9, 0, 0, int(id), time.UTC),
		Deleted:   deleted,
	}
}

func seatOf(t *testing.T, r Row) int {
	t.Helper()
	require.NotNil(t, r.Seat, "row %q should carry a seat number", r.Identity)
	return *r.Seat
}

func TestProjectNumbersFollowLedgerOrder(t *testing.T) {
	regs := []model.Registration{
		reg(1, "a@x", false),
		reg(2, "b@x", false),
		reg(3, "c@x", false),
	}
	rows := Project(regs, 2, "", true)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, seatOf(t, rows[0]))
	assert.Equal(t, 2, seatOf(t, rows[1]))
	assert.Equal(t, 3, seatOf(t, rows[2]))
}

func TestProjectOverhangBeyondCapacity(t *testing.T) {
	// Capacity 2, three active rows: row 3 overhangs, rows 1 and 2 do not.
	regs := []model.Registration{
		reg(1, "a@x", false),
		reg(2, "b@x", false),
		reg(3, "c@x", false),
	}
	rows := Project(regs, 2, "", true)
	require.Len(t, rows, 3)
	assert.False(t, rows[0].Overhang)
	assert.False(t, rows[1].Overhang)
	assert.True(t, rows[2].Overhang)
}

func TestProjectDeletedRowKeepsItsSlot(t *testing.T) {
	// Deleting row 2 must not renumber anyone: the next registrant gets
	// seat 3, not the freed seat 2.
	regs := []model.Registration{
		reg(1, "a@x", false),
		reg(2, "b@x", true),
		reg(3, "d@x", false),
	}
	rows := Project(regs, 10, "", true)
	require.Len(t, rows, 3)
	assert.Equal(t, 1, seatOf(t, rows[0]))
	assert.Nil(t, rows[1].Seat)
	assert.True(t, rows[1].Deleted)
	assert.Equal(t, 3, seatOf(t, rows[2]))
}

func TestProjectRestoreReproducesOriginalPosition(t *testing.T) {
	regs := []model.Registration{
		reg(1, "a@x", false),
		reg(2, "b@x", true),
		reg(3, "d@x", false),
	}
	// Restore flips the same row's flag; no new ledger entry is created.
	regs[1].Deleted = false
	rows := Project(regs, 10, "", true)
	require.Len(t, rows, 3)
	assert.Equal(t, 2, seatOf(t, rows[1]))
	assert.Equal(t, "b@x", rows[1].Identity)
	assert.Equal(t, 3, seatOf(t, rows[2]))
	assert.Equal(t, "d@x", rows[2].Identity)
}

func TestProjectContiguousWithoutDeletions(t *testing.T) {
	regs := make([]model.Registration, 0, 8)
	for i := uint64(1); i <= 8; i++ {
		regs = append(regs, reg(i, string(rune('a'+i))+"@x", false))
	}
	rows := Project(regs, 5, "", true)
	require.Len(t, rows, 8)
	for i, row := range rows {
		assert.Equal(t, i+1, seatOf(t, row))
	}
}

func TestProjectFiltersToViewer(t *testing.T) {
	regs := []model.Registration{
		reg(1, "a@x", false),
		reg(2, "b@x", false),
		reg(3, "c@x", false),
	}
	rows := Project(regs, 5, "b@x", false)
	require.Len(t, rows, 1)
	assert.Equal(t, "b@x", rows[0].Identity)
	// The viewer's number reflects the true ledger position even though
	// the other rows are hidden.
	assert.Equal(t, 2, seatOf(t, rows[0]))
}

func TestProjectViewerNeverSeesForeignRows(t *testing.T) {
	regs := []model.Registration{
		reg(1, "a@x", false),
		reg(2, "b@x", true),
		reg(3, "c@x", false),
	}
	rows := Project(regs, 5, "nobody@x", false)
	assert.Empty(t, rows)
}

func TestProjectViewerSeesOwnDeletedRow(t *testing.T) {
	regs := []model.Registration{
		reg(1, "a@x", false),
		reg(2, "b@x", true),
	}
	rows := Project(regs, 5, "b@x", false)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Deleted)
	assert.Nil(t, rows[0].Seat)
	assert.False(t, rows[0].Overhang)
}

func TestProjectEmptyLedger(t *testing.T) {
	assert.Empty(t, Project(nil, 3, "a@x", false))
	assert.Empty(t, Project(nil, 3, "", true))
}

func TestRegistered(t *testing.T) {
	regs := []model.Registration{
		reg(1, "a@x", false),
		reg(2, "b@x", true),
	}
	assert.True(t, Registered(regs, "a@x"))
	assert.True(t, Registered(regs, "b@x"), "deleted rows still count as registered")
	assert.False(t, Registered(regs, "c@x"))
}
