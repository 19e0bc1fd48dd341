package models

import (
	"time"

	"github.com/lib/pq"
)

// VehicleType describes the transmission an instructor can teach on.
type VehicleType string

// Supported vehicle capabilities.
const (
	VehicleManual    VehicleType = "MANUAL"
	VehicleAutomatic VehicleType = "AUTOMATIC"
	VehicleBoth      VehicleType = "BOTH"
)

// Instructor represents a teaching staff member. Instructors are
// deactivated rather than deleted, so historical assignments keep a
// valid reference.
type Instructor struct {
	ID                 string         `db:"id" json:"id"`
	FullName           string         `db:"full_name" json:"full_name"`
	Email              string         `db:"email" json:"email"`
	City               string         `db:"city" json:"city"`
	Department         string         `db:"department" json:"department"`
	CourseTypes        pq.StringArray `db:"course_types" json:"course_types"`
	VehicleType        VehicleType    `db:"vehicle_type" json:"vehicle_type"`
	MaxStudentsPerWeek int            `db:"max_students_per_week" json:"max_students_per_week"`
	Active             bool           `db:"active" json:"active"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// SupportsCourseType reports whether the instructor teaches the course type.
func (i Instructor) SupportsCourseType(courseType string) bool {
	for _, ct := range i.CourseTypes {
		if ct == courseType {
			return true
		}
	}
	return false
}

// SupportsVehicle reports whether the instructor can serve the requested
// transmission preference. BOTH matches any preference.
func (i Instructor) SupportsVehicle(pref VehicleType) bool {
	return i.VehicleType == VehicleBoth || i.VehicleType == pref
}
