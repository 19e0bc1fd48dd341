package models

import "time"

// Course is a purchasable training programme. DrivingHours is the
// time allowance credited when an order does not carry explicit
// hour metadata.
type Course struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	CourseType   string    `db:"course_type" json:"course_type"`
	DrivingHours int       `db:"driving_hours" json:"driving_hours"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
