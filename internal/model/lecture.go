package model

import "time"

// Lecture is a course that students register attendance for.  Lectures
// are configured in the catalog file and never change at runtime.
//
// Fields:
//  ID       – short, URL-safe identifier (e.g. "complexity").
//  Title    – human readable course title.
//  Lecturer – name of the person giving the lecture.
type Lecture struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Lecturer string `yaml:"lecturer"`
}

// Session is one dated, located, capacity-bounded occurrence of a
// lecture.  Sessions come from the catalog file and are immutable once
// loaded; the service never creates or destroys them.  Seats is a display
// capacity only: registrations beyond it are accepted and flagged as
// overhang, never rejected.
//
// Fields:
//  ID       – numeric identifier, unique across all lectures.
//  Lecture  – owning lecture identifier.
//  Date     – calendar day the session takes place (midnight UTC).
//  Title    – title of this particular session.
//  Location – room or building shown to registrants.
//  Seats    – number of physical seats in the room.
type Session struct {
	ID       uint64    `yaml:"id"`
	Lecture  string    `yaml:"lecture"`
	Date     time.Time `yaml:"date"`
	Title    string    `yaml:"title"`
	Location string    `yaml:"location"`
	Seats    int       `yaml:"seats"`
}

// SameDay reports whether the session takes place on the calendar day of t.
func (s Session) SameDay(t time.Time) bool {
	y1, m1, d1 := s.Date.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
