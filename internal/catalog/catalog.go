// Package catalog holds the static table of lectures and their dated
// sessions.  The catalog is loaded once at startup from a YAML file and is
// read-only afterwards; the reservation service receives it explicitly so
// that tests can construct synthetic catalogs without touching the
// filesystem.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/uniseats/lecture-seat-reservation/internal/model"
)

// ErrNotFound is returned when a lookup references a lecture or session
// that does not exist in the catalog.  Handlers should translate this
// into an HTTP 404 response.
var ErrNotFound = errors.New("not found in catalog")

// Catalog is the immutable in-memory index of lectures, sessions and quiz
// statements.  All accessors are safe for concurrent use because the
// underlying maps are never mutated after Load/New returns.
type Catalog struct {
	lectures  map[string]model.Lecture
	sessions  map[uint64]model.Session
	byLecture map[string][]model.Session
	quizzes   map[string][]model.Statement
}

// file mirrors the YAML layout of the catalog file.
type file struct {
	Lectures []struct {
		model.Lecture `yaml:",inline"`
		Quiz          []model.Statement `yaml:"quiz"`
	} `yaml:"lectures"`
	Sessions []model.Session `yaml:"sessions"`
}

// Load reads and validates the catalog YAML at path.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	lectures := make([]model.Lecture, 0, len(f.Lectures))
	quizzes := make(map[string][]model.Statement)
	for _, l := range f.Lectures {
		lectures = append(lectures, l.Lecture)
		if len(l.Quiz) > 0 {
			quizzes[l.ID] = l.Quiz
		}
	}
	c, err := New(lectures, f.Sessions)
	if err != nil {
		return nil, err
	}
	c.quizzes = quizzes
	return c, nil
}

// New builds a catalog from already-parsed lectures and sessions.  It is
// used by Load and directly by tests.  Validation rejects duplicate
// identifiers, sessions referencing unknown lectures and negative seat
// counts.
func New(lectures []model.Lecture, sessions []model.Session) (*Catalog, error) {
	c := &Catalog{
		lectures:  make(map[string]model.Lecture, len(lectures)),
		sessions:  make(map[uint64]model.Session, len(sessions)),
		byLecture: make(map[string][]model.Session),
		quizzes:   make(map[string][]model.Statement),
	}
	for _, l := range lectures {
		if l.ID == "" {
			return nil, errors.New("catalog: lecture with empty id")
		}
		if _, dup := c.lectures[l.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate lecture id %q", l.ID)
		}
		c.lectures[l.ID] = l
	}
	for _, s := range sessions {
		if _, dup := c.sessions[s.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate session id %d", s.ID)
		}
		if _, ok := c.lectures[s.Lecture]; !ok {
			return nil, fmt.Errorf("catalog: session %d references unknown lecture %q", s.ID, s.Lecture)
		}
		if s.Seats < 0 {
			return nil, fmt.Errorf("catalog: session %d has negative seat count", s.ID)
		}
		c.sessions[s.ID] = s
		c.byLecture[s.Lecture] = append(c.byLecture[s.Lecture], s)
	}
	for id := range c.byLecture {
		ss := c.byLecture[id]
		sort.Slice(ss, func(i, j int) bool {
			if !ss[i].Date.Equal(ss[j].Date) {
				return ss[i].Date.Before(ss[j].Date)
			}
			return ss[i].ID < ss[j].ID
		})
	}
	return c, nil
}

// Session looks up a session by its numeric identifier.
func (c *Catalog) Session(id uint64) (model.Session, error) {
	s, ok := c.sessions[id]
	if !ok {
		return model.Session{}, fmt.Errorf("session %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// Lecture looks up a lecture by its identifier.
func (c *Catalog) Lecture(id string) (model.Lecture, error) {
	l, ok := c.lectures[id]
	if !ok {
		return model.Lecture{}, fmt.Errorf("lecture %q: %w", id, ErrNotFound)
	}
	return l, nil
}

// Lectures returns all lectures ordered by identifier.
func (c *Catalog) Lectures() []model.Lecture {
	out := make([]model.Lecture, 0, len(c.lectures))
	for _, l := range c.lectures {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SessionsFor returns the sessions of a lecture ordered by date, then ID.
// The returned slice must not be modified by callers.
func (c *Catalog) SessionsFor(lecture string) []model.Session {
	return c.byLecture[lecture]
}

// Quiz returns the quiz statements configured for a lecture, or an empty
// slice when the lecture has no quiz.
func (c *Catalog) Quiz(lecture string) []model.Statement {
	return c.quizzes[lecture]
}
