package models

import "time"

// BookingStatus represents the lifecycle of a student-in-session booking.
type BookingStatus string

// Booking statuses. PENDING is a hold that has not consumed a seat;
// administrative paths book directly as BOOKED. CANCELLED is terminal.
const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusBooked    BookingStatus = "BOOKED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusPresent   BookingStatus = "PRESENT"
	BookingStatusAbsent    BookingStatus = "ABSENT"
)

// bookingTransitions lists the allowed moves between statuses.
// PRESENT/ABSENT back to BOOKED exists for attendance corrections.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending: {BookingStatusBooked, BookingStatusCancelled},
	BookingStatusBooked:  {BookingStatusCancelled, BookingStatusPresent, BookingStatusAbsent},
	BookingStatusPresent: {BookingStatusBooked, BookingStatusCancelled},
	BookingStatusAbsent:  {BookingStatusBooked, BookingStatusCancelled},
}

// CanTransition reports whether moving from one status to another is allowed.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// HoldsSeat reports whether the status accounts for a consumed seat.
func (s BookingStatus) HoldsSeat() bool {
	switch s {
	case BookingStatusBooked, BookingStatusPresent, BookingStatusAbsent:
		return true
	}
	return false
}

// Valid reports whether the status is a known value.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusBooked, BookingStatusCancelled, BookingStatusPresent, BookingStatusAbsent:
		return true
	}
	return false
}

// SlotBooking is a student's reservation of a seat in a session.
// One row per (session, student), enforced by a unique constraint.
type SlotBooking struct {
	ID        string        `db:"id" json:"id"`
	SessionID string        `db:"session_id" json:"session_id"`
	StudentID string        `db:"student_id" json:"student_id"`
	Status    BookingStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}
