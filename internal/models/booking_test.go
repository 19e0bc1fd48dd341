package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingTransitions(t *testing.T) {
	assert.True(t, BookingStatusPending.CanTransition(BookingStatusBooked))
	assert.True(t, BookingStatusPending.CanTransition(BookingStatusCancelled))
	assert.False(t, BookingStatusPending.CanTransition(BookingStatusPresent))

	assert.True(t, BookingStatusBooked.CanTransition(BookingStatusPresent))
	assert.True(t, BookingStatusBooked.CanTransition(BookingStatusAbsent))
	assert.True(t, BookingStatusBooked.CanTransition(BookingStatusCancelled))

	// Attendance corrections.
	assert.True(t, BookingStatusPresent.CanTransition(BookingStatusBooked))
	assert.True(t, BookingStatusAbsent.CanTransition(BookingStatusBooked))
	assert.False(t, BookingStatusPresent.CanTransition(BookingStatusAbsent))

	// CANCELLED is terminal.
	assert.False(t, BookingStatusCancelled.CanTransition(BookingStatusBooked))
	assert.False(t, BookingStatusCancelled.CanTransition(BookingStatusPending))
}

func TestBookingHoldsSeat(t *testing.T) {
	assert.False(t, BookingStatusPending.HoldsSeat())
	assert.True(t, BookingStatusBooked.HoldsSeat())
	assert.True(t, BookingStatusPresent.HoldsSeat())
	assert.True(t, BookingStatusAbsent.HoldsSeat())
	assert.False(t, BookingStatusCancelled.HoldsSeat())
}

func TestStudentDepartmentCode(t *testing.T) {
	assert.Equal(t, "69", Student{PostalCode: "69003"}.DepartmentCode())
	assert.Equal(t, "", Student{PostalCode: "7"}.DepartmentCode())
	assert.Equal(t, "", Student{}.DepartmentCode())
}

func TestSessionRemainingSpots(t *testing.T) {
	assert.Equal(t, 3, Session{MaxSpots: 5, BookedSpots: 2}.RemainingSpots())
	assert.Equal(t, 0, Session{MaxSpots: 5, BookedSpots: 5}.RemainingSpots())
	assert.Equal(t, 0, Session{MaxSpots: 5, BookedSpots: 7}.RemainingSpots())
}
