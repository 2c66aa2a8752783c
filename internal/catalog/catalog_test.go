package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uniseats/lecture-seat-reservation/internal/model"
)

func TestLoad(t *testing.T) {
	cat, err := Load("testdata/catalog.yaml")
	require.NoError(t, err)

	lectures := cat.Lectures()
	require.Len(t, lectures, 2)
	assert.Equal(t, "complexity", lectures[0].ID)
	assert.Equal(t, "informatics", lectures[1].ID)
	assert.Equal(t, "J. Dix", lectures[0].Lecturer)

	sess, err := cat.Session(1)
	require.NoError(t, err)
	assert.Equal(t, "Reductions", sess.Title)
	assert.Equal(t, 120, sess.Seats)
	assert.True(t, sess.SameDay(time.Date(2026, 10, 28, 15, 0, 0, 0, time.UTC)))

	// Sessions come back date-ordered regardless of file order.
	cs := cat.SessionsFor("complexity")
	require.Len(t, cs, 2)
	assert.Equal(t, uint64(2), cs[0].ID)
	assert.Equal(t, uint64(1), cs[1].ID)

	quiz := cat.Quiz("complexity")
	require.Len(t, quiz, 2)
	assert.True(t, quiz[0].Truth)
	assert.False(t, quiz[1].Truth)
	assert.Empty(t, cat.Quiz("informatics"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/nope.yaml")
	assert.Error(t, err)
}

func TestLookupNotFound(t *testing.T) {
	cat, err := New([]model.Lecture{{ID: "a", Title: "A"}}, nil)
	require.NoError(t, err)

	_, err = cat.Session(42)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = cat.Lecture("b")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, cat.SessionsFor("b"))
}

func TestNewValidation(t *testing.T) {
	lec := []model.Lecture{{ID: "a", Title: "A"}}
	day := time.Date(2026, 10, 28, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		lectures []model.Lecture
		sessions []model.Session
	}{
		{"empty lecture id", []model.Lecture{{Title: "A"}}, nil},
		{"duplicate lecture id", append(lec, model.Lecture{ID: "a"}), nil},
		{"duplicate session id", lec, []model.Session{
			{ID: 1, Lecture: "a", Date: day},
			{ID: 1, Lecture: "a", Date: day},
		}},
		{"unknown lecture reference", lec, []model.Session{{ID: 1, Lecture: "b", Date: day}}},
		{"negative seats", lec, []model.Session{{ID: 1, Lecture: "a", Date: day, Seats: -1}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.lectures, c.sessions)
			assert.Error(t, err)
		})
	}
}

func TestSessionsOrderedByDateThenID(t *testing.T) {
	day := time.Date(2026, 10, 28, 0, 0, 0, 0, time.UTC)
	cat, err := New(
		[]model.Lecture{{ID: "a", Title: "A"}},
		[]model.Session{
			{ID: 9, Lecture: "a", Date: day},
			{ID: 2, Lecture: "a", Date: day},
			{ID: 5, Lecture: "a", Date: day.AddDate(0, 0, -7)},
		},
	)
	require.NoError(t, err)

	ids := make([]uint64, 0)
	for _, s := range cat.SessionsFor("a") {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []uint64{5, 2, 9}, ids)
}
