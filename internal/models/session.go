package models

import "time"

// Session is a scheduled occurrence of a course with a seat capacity.
// Invariant: 0 <= booked_spots <= max_spots, enforced by the conditional
// update in the booking repository, never by callers computing it.
type Session struct {
	ID               string    `db:"id" json:"id"`
	CourseID         string    `db:"course_id" json:"course_id"`
	StartsAt         time.Time `db:"starts_at" json:"starts_at"`
	EndsAt           time.Time `db:"ends_at" json:"ends_at"`
	Location         string    `db:"location" json:"location"`
	MaxSpots         int       `db:"max_spots" json:"max_spots"`
	BookedSpots      int       `db:"booked_spots" json:"booked_spots"`
	MainInstructorID *string   `db:"main_instructor_id" json:"main_instructor_id,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// RemainingSpots is a convenience for presentation; admission decisions
// never rely on it.
func (s Session) RemainingSpots() int {
	remaining := s.MaxSpots - s.BookedSpots
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SessionFilter captures list filters for sessions.
type SessionFilter struct {
	CourseID string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
