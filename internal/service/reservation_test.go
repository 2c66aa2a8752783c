package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniseats/lecture-seat-reservation/internal/catalog"
	"github.com/uniseats/lecture-seat-reservation/internal/model"
	"github.com/uniseats/lecture-seat-reservation/internal/queue"
)

// fakeLedger is an in-memory Ledger with the same contract as the MySQL
// repository: one row ever per (session, identity), absorbed duplicate
// appends, ascending-ID listing.
type fakeLedger struct {
	mu     sync.Mutex
	nextID uint64
	rows   []model.Registration
	fail   error
}

func (f *fakeLedger) Append(_ context.Context, sessionID uint64, identity string, admin bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return false, f.fail
	}
	for _, r := range f.rows {
		if r.SessionID == sessionID && r.Identity == identity {
			return false, nil
		}
	}
	f.nextID++
	f.rows = append(f.rows, model.Registration{
		ID:        f.nextID,
		SessionID: sessionID,
		Identity:  identity,
		CreatedAt: time.Now().UTC(),
		Admin:     admin,
	})
	return true, nil
}

func (f *fakeLedger) SetDeleted(_ context.Context, sessionID uint64, identity string, deleted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	for i := range f.rows {
		if f.rows[i].SessionID == sessionID && f.rows[i].Identity == identity {
			f.rows[i].Deleted = deleted
		}
	}
	return nil
}

func (f *fakeLedger) ListBySession(_ context.Context, sessionID uint64) ([]model.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return nil, f.fail
	}
	out := make([]model.Registration, 0)
	for _, r := range f.rows {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLedger) active(sessionID uint64) []model.Registration {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Registration, 0)
	for _, r := range f.rows {
		if r.SessionID == sessionID && !r.Deleted {
			out = append(out, r)
		}
	}
	return out
}

var testToday = time.Date(2026, 10, 28, 10, 30, 0, 0, time.UTC)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	day := func(offset int) time.Time {
		return time.Date(2026, 10, 28, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
	}
	cat, err := catalog.New(
		[]model.Lecture{{ID: "complexity", Title: "Complexity Theory", Lecturer: "J. Dix"}},
		[]model.Session{
			{ID: 1, Lecture: "complexity", Date: day(0), Title: "Today", Location: "T1", Seats: 2},
			{ID: 2, Lecture: "complexity", Date: day(1), Title: "Tomorrow", Location: "T1", Seats: 2},
			{ID: 3, Lecture: "complexity", Date: day(10), Title: "Soon", Location: "T1", Seats: 2},
			{ID: 4, Lecture: "complexity", Date: day(30), Title: "Far out", Location: "T1", Seats: 2},
			{ID: 5, Lecture: "complexity", Date: day(-3), Title: "Past", Location: "T1", Seats: 2},
		},
	)
	require.NoError(t, err)
	return cat
}

func testService(t *testing.T, ledger Ledger) *Service {
	t.Helper()
	return New(testCatalog(t), ledger, Options{
		AdminWindowDays: 14,
		Now:             func() time.Time { return testToday },
	})
}

func TestReserveIsIdempotent(t *testing.T) {
	ledger := &fakeLedger{}
	svc := testService(t, ledger)
	viewer := Viewer{Email: "a@x.de"}

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Reserve(context.Background(), 1, viewer, ""))
	}
	assert.Len(t, ledger.active(1), 1, "repeat reserves must not duplicate")
}

func TestReserveSameDayOnly(t *testing.T) {
	ledger := &fakeLedger{}
	svc := testService(t, ledger)
	viewer := Viewer{Email: "a@x.de"}

	err := svc.Reserve(context.Background(), 2, viewer, "")
	assert.ErrorIs(t, err, ErrSignupClosed, "tomorrow's session is closed for non-admins")
	assert.Empty(t, ledger.rows)

	// The same call succeeds once the clock reaches the session's day.
	later := New(testCatalog(t), ledger, Options{
		Now: func() time.Time { return testToday.AddDate(0, 0, 1) },
	})
	require.NoError(t, later.Reserve(context.Background(), 2, viewer, ""))
	assert.Len(t, ledger.active(2), 1)
}

func TestReserveUnknownSession(t *testing.T) {
	svc := testService(t, &fakeLedger{})
	err := svc.Reserve(context.Background(), 999, Viewer{Email: "a@x.de"}, "")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestReserveLowercasesEmailIdentities(t *testing.T) {
	ledger := &fakeLedger{}
	svc := testService(t, ledger)

	require.NoError(t, svc.Reserve(context.Background(), 1, Viewer{Email: "A.Student@X.de"}, ""))
	require.NoError(t, svc.Reserve(context.Background(), 1, Viewer{Email: "a.student@x.de"}, ""))
	active := ledger.active(1)
	require.Len(t, active, 1, "case variants of one address are one identity")
	assert.Equal(t, "a.student@x.de", active[0].Identity)
}

func TestReserveAdminDisplayNameVerbatim(t *testing.T) {
	ledger := &fakeLedger{}
	svc := testService(t, ledger)
	admin := Viewer{Email: "dix@x.de", Admin: true}

	require.NoError(t, svc.Reserve(context.Background(), 1, admin, "Max Mustermann"))
	active := ledger.active(1)
	require.Len(t, active, 1)
	assert.Equal(t, "Max Mustermann", active[0].Identity, "names without @ keep their case")
	assert.True(t, active[0].Admin)
}

func TestReserveAdminWindow(t *testing.T) {
	ledger := &fakeLedger{}
	svc := testService(t, ledger)
	admin := Viewer{Email: "dix@x.de", Admin: true}

	// Within the 14 day window, including sessions not dated today.
	require.NoError(t, svc.Reserve(context.Background(), 3, admin, "someone@x.de"))
	// Beyond the window even admins are shut out.
	err := svc.Reserve(context.Background(), 4, admin, "someone@x.de")
	assert.ErrorIs(t, err, ErrSignupClosed)
}

func TestReserveOverCapacitySucceeds(t *testing.T) {
	ledger := &fakeLedger{}
	svc := testService(t, ledger)

	// Session 1 has 2 seats; a third registration is accepted anyway.
	for _, email := range []string{"a@x.de", "b@x.de", "c@x.de"} {
		require.NoError(t, svc.Reserve(context.Background(), 1, Viewer{Email: email}, ""))
	}
	assert.Len(t, ledger.active(1), 3)
}

func TestReserveStorageFailurePropagates(t *testing.T) {
	boom := errors.New("connection lost")
	svc := testService(t, &fakeLedger{fail: boom})
	err := svc.Reserve(context.Background(), 1, Viewer{Email: "a@x.de"}, "")
	assert.ErrorIs(t, err, boom)
}

func TestDeleteRestoreAdminOnly(t *testing.T) {
	ledger := &fakeLedger{}
	svc := testService(t, ledger)
	user := Viewer{Email: "a@x.de"}
	admin := Viewer{Email: "dix@x.de", Admin: true}

	require.NoError(t, svc.Reserve(context.Background(), 1, user, ""))

	assert.ErrorIs(t, svc.Delete(context.Background(), 1, user, "a@x.de"), ErrForbidden)
	assert.ErrorIs(t, svc.Restore(context.Background(), 1, user, "a@x.de"), ErrForbidden)

	require.NoError(t, svc.Delete(context.Background(), 1, admin, "a@x.de"))
	assert.Empty(t, ledger.active(1))
	require.NoError(t, svc.Restore(context.Background(), 1, admin, "a@x.de"))
	assert.Len(t, ledger.active(1), 1)
	assert.Len(t, ledger.rows, 1, "delete/restore toggle the same row")
}

func TestReserveAfterDeleteIsAbsorbed(t *testing.T) {
	ledger := &fakeLedger{}
	svc := testService(t, ledger)
	user := Viewer{Email: "a@x.de"}
	admin := Viewer{Email: "dix@x.de", Admin: true}

	require.NoError(t, svc.Reserve(context.Background(), 1, user, ""))
	require.NoError(t, svc.Delete(context.Background(), 1, admin, "a@x.de"))

	// A self-service reserve against the deleted row is a no-op; only an
	// admin restore brings the seat back.
	require.NoError(t, svc.Reserve(context.Background(), 1, user, ""))
	assert.Empty(t, ledger.active(1))
	assert.Len(t, ledger.rows, 1)
}

func TestVisibleSessions(t *testing.T) {
	svc := testService(t, &fakeLedger{})

	own, err := svc.VisibleSessions("complexity", Viewer{Email: "a@x.de"})
	require.NoError(t, err)
	require.Len(t, own, 1, "non-admins only see today")
	assert.Equal(t, uint64(1), own[0].ID)

	adm, err := svc.VisibleSessions("complexity", Viewer{Email: "dix@x.de", Admin: true})
	require.NoError(t, err)
	ids := make([]uint64, 0, len(adm))
	for _, s := range adm {
		ids = append(ids, s.ID)
	}
	// Past and near-future sessions inside the window, ordered by date;
	// day +30 stays hidden.
	assert.Equal(t, []uint64{5, 1, 2, 3}, ids)

	_, err = svc.VisibleSessions("nope", Viewer{Admin: true})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestLectureBoardProjectsPerViewer(t *testing.T) {
	ledger := &fakeLedger{}
	svc := testService(t, ledger)
	admin := Viewer{Email: "dix@x.de", Admin: true}

	for _, email := range []string{"a@x.de", "b@x.de", "c@x.de"} {
		require.NoError(t, svc.Reserve(context.Background(), 1, Viewer{Email: email}, ""))
	}
	require.NoError(t, svc.Delete(context.Background(), 1, admin, "b@x.de"))

	views, err := svc.LectureBoard(context.Background(), "complexity", Viewer{Email: "C@X.de"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Rows, 1, "non-admin sees only their own row")
	require.NotNil(t, views[0].Rows[0].Seat)
	assert.Equal(t, 3, *views[0].Rows[0].Seat, "deleted row 2 keeps its slot")
	assert.True(t, views[0].Rows[0].Overhang, "seat 3 of 2 overhangs")
	assert.True(t, views[0].Registered)

	all, err := svc.LectureBoard(context.Background(), "complexity", admin)
	require.NoError(t, err)
	require.Len(t, all, 4, "admin board covers the whole window")
	for _, v := range all {
		if v.Session.ID == 1 {
			assert.Len(t, v.Rows, 3, "admin sees deleted rows too")
		}
	}
}

func TestReservePublishesOnInsertOnly(t *testing.T) {
	ledger := &fakeLedger{}
	var events []queue.RegistrationRecordedEvent
	svc := New(testCatalog(t), ledger, Options{
		Now: func() time.Time { return testToday },
		Publish: func(_ context.Context, ev queue.RegistrationRecordedEvent) error {
			events = append(events, ev)
			return nil
		},
	})
	viewer := Viewer{Email: "a@x.de"}
	require.NoError(t, svc.Reserve(context.Background(), 1, viewer, ""))
	require.NoError(t, svc.Reserve(context.Background(), 1, viewer, ""))
	require.Len(t, events, 1, "the absorbed repeat must not publish")
	assert.Equal(t, "a@x.de", events[0].Identity)
	assert.Equal(t, "complexity", events[0].Lecture)
}

func TestReservePublishFailureIsNonFatal(t *testing.T) {
	ledger := &fakeLedger{}
	svc := New(testCatalog(t), ledger, Options{
		Now:     func() time.Time { return testToday },
		Publish: func(context.Context, queue.RegistrationRecordedEvent) error { return errors.New("broker down") },
	})
	require.NoError(t, svc.Reserve(context.Background(), 1, Viewer{Email: "a@x.de"}, ""))
	assert.Len(t, ledger.active(1), 1)
}

func TestConcurrentReservesYieldOneRow(t *testing.T) {
	ledger := &fakeLedger{}
	svc := testService(t, ledger)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Reserve(context.Background(), 1, Viewer{Email: "a@x.de"}, "")
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err, "losers of the race are absorbed, not failed")
	}
	assert.Len(t, ledger.active(1), 1)
}
